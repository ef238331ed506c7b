package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/vinhngx/backend-foodee/internal/events"
)

// Titles and bodies per order topic, shown in the in-app notification feed.
var orderCopy = map[string][2]string{
	events.TopicOrderCreated:    {"Order placed", "We received your order and sent it to the restaurant."},
	events.TopicOrderConfirmed:  {"Order confirmed", "The restaurant confirmed your order."},
	events.TopicOrderPreparing:  {"Order in the kitchen", "Your food is being prepared."},
	events.TopicOrderDelivering: {"Order on the way", "A driver picked up your order."},
	events.TopicOrderDelivered:  {"Order delivered", "Enjoy your meal!"},
	events.TopicOrderCanceled:   {"Order canceled", "Your order was canceled."},
}

// OrderNotifier turns order domain events into in-app notifications and
// queues the matching email for the worker.
type OrderNotifier struct {
	Store *Store
	Queue *asynq.Client
	Log   zerolog.Logger
}

// Notify implements events.Notifier.
func (n *OrderNotifier) Notify(ctx context.Context, ev events.Event) error {
	copyPair, ok := orderCopy[ev.Topic]
	if !ok {
		return nil
	}
	var payload struct {
		OrderID string `json:"orderId"`
		UserID  string `json:"userId"`
	}
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		return fmt.Errorf("decode event payload: %w", err)
	}
	if payload.UserID == "" {
		return nil
	}

	if _, err := n.Store.Insert(ctx, payload.UserID, ev.Topic, copyPair[0], copyPair[1]); err != nil {
		return err
	}

	if n.Queue != nil {
		task, err := NewOrderEmailTask(payload.UserID, payload.OrderID, ev.Topic)
		if err != nil {
			return err
		}
		if _, err := n.Queue.EnqueueContext(ctx, task); err != nil {
			n.Log.Error().Err(err).Str("topic", ev.Topic).Msg("enqueue order email")
		}
	}
	return nil
}
