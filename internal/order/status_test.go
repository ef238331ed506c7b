package order

import "testing"

func TestCanTransitionHappyPath(t *testing.T) {
	steps := []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusDelivering, StatusDelivered}
	for i := 0; i < len(steps)-1; i++ {
		if !CanTransition(steps[i], steps[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", steps[i], steps[i+1])
		}
	}
}

func TestCanTransitionRejectsSkips(t *testing.T) {
	illegal := [][2]Status{
		{StatusPending, StatusPreparing},
		{StatusPending, StatusDelivered},
		{StatusConfirmed, StatusDelivering},
		{StatusDelivered, StatusPending},
		{StatusCanceled, StatusConfirmed},
		{StatusDelivering, StatusCanceled},
	}
	for _, pair := range illegal {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be rejected", pair[0], pair[1])
		}
	}
}

func TestCanTransitionSameStatusIsNotAMove(t *testing.T) {
	all := []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusDelivering, StatusDelivered, StatusCanceled}
	for _, s := range all {
		if CanTransition(s, s) {
			t.Fatalf("expected %s -> %s to be rejected by the transition table", s, s)
		}
	}
}

func TestCancelableWindow(t *testing.T) {
	if !Cancelable(StatusPending) || !Cancelable(StatusConfirmed) {
		t.Fatal("orders must be cancelable before preparation starts")
	}
	for _, s := range []Status{StatusPreparing, StatusDelivering, StatusDelivered, StatusCanceled} {
		if Cancelable(s) {
			t.Fatalf("order in %s must not be cancelable", s)
		}
	}
}

func TestRankFollowsFulfilmentStepper(t *testing.T) {
	steps := []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusDelivering, StatusDelivered}
	for i := 1; i < len(steps); i++ {
		if Rank(steps[i]) <= Rank(steps[i-1]) {
			t.Fatalf("expected Rank(%s) > Rank(%s)", steps[i], steps[i-1])
		}
	}
	if Rank(StatusCanceled) >= 0 {
		t.Fatalf("canceled orders must rank off the stepper, got %d", Rank(StatusCanceled))
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus(" delivering "); !ok || s != StatusDelivering {
		t.Fatalf("unexpected parse result %q %v", s, ok)
	}
	if _, ok := ParseStatus("SHIPPED"); ok {
		t.Fatal("unknown status must not parse")
	}
}
