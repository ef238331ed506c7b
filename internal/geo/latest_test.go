package geo

import "testing"

func TestLatestSupersedesInFlight(t *testing.T) {
	var guard Latest

	// lookup for address A starts, then the user edits to address B
	tokenA := guard.Begin("user-1")
	tokenB := guard.Begin("user-1")

	// A's response arrives late and must be discarded
	if guard.Current("user-1", tokenA) {
		t.Fatal("superseded token must not be current")
	}
	if !guard.Current("user-1", tokenB) {
		t.Fatal("most recent token must be current")
	}
}

func TestLatestKeysAreIndependent(t *testing.T) {
	var guard Latest
	tok1 := guard.Begin("user-1")
	guard.Begin("user-2")
	if !guard.Current("user-1", tok1) {
		t.Fatal("other users' lookups must not supersede this key")
	}
}

func TestAddressable(t *testing.T) {
	if Addressable("short") {
		t.Fatal("short address must not be quotable")
	}
	if Addressable("         ") {
		t.Fatal("whitespace-only address must not be quotable")
	}
	if !Addressable("12 Nguyen Trai, District 1") {
		t.Fatal("full address must be quotable")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  12  Nguyen   Trai "); got != "12 nguyen trai" {
		t.Fatalf("unexpected normalized address %q", got)
	}
}
