package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memStore struct {
	events []Event
	err    error
}

func (m *memStore) InsertEvent(_ context.Context, topic, aggregateID string, payload []byte) (Event, error) {
	if m.err != nil {
		return Event{}, m.err
	}
	ev := Event{ID: "ev-1", Topic: topic, AggregateID: aggregateID, Payload: payload, OccurredAt: time.Now()}
	m.events = append(m.events, ev)
	return ev, nil
}

type recordingNotifier struct {
	seen []Event
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, ev Event) error {
	r.seen = append(r.seen, ev)
	return r.err
}

func TestEmitPersistsAndNotifies(t *testing.T) {
	store := &memStore{}
	n := &recordingNotifier{}
	bus := &Bus{Store: store, Notifiers: []Notifier{n}}

	ev, err := bus.Emit(context.Background(), TopicOrderCreated, "order-1", map[string]any{"orderId": "order-1"})
	require.NoError(t, err)
	require.Equal(t, TopicOrderCreated, ev.Topic)
	require.Len(t, store.events, 1)
	require.Len(t, n.seen, 1)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	require.Equal(t, "order-1", payload["orderId"])
}

func TestEmitRejectsEmptyTopicAndAggregate(t *testing.T) {
	bus := &Bus{Store: &memStore{}}
	_, err := bus.Emit(context.Background(), "  ", "order-1", nil)
	require.Error(t, err)
	_, err = bus.Emit(context.Background(), TopicOrderCreated, "", nil)
	require.Error(t, err)
}

func TestEmitNotifierFailureDoesNotUndoPersistence(t *testing.T) {
	store := &memStore{}
	boom := errors.New("smtp down")
	bus := &Bus{Store: store, Notifiers: []Notifier{&recordingNotifier{err: boom}}}

	_, err := bus.Emit(context.Background(), TopicOrderDelivered, "order-2", nil)
	require.ErrorIs(t, err, boom)
	require.Len(t, store.events, 1)
}

func TestEmitStoreFailure(t *testing.T) {
	bus := &Bus{Store: &memStore{err: errors.New("db down")}}
	_, err := bus.Emit(context.Background(), TopicOrderCreated, "order-3", nil)
	require.Error(t, err)
}

func TestEncodePayloadVariants(t *testing.T) {
	out, err := encodePayload(nil)
	require.NoError(t, err)
	require.JSONEq(t, "{}", string(out))

	out, err = encodePayload(json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(out))

	_, err = encodePayload([]byte("not json"))
	require.Error(t, err)
}
