package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/vinhngx/backend-foodee/internal/common"
)

// TypeOrderEmail is the asynq task type for order status emails.
const TypeOrderEmail = "email:order_status"

type orderEmailPayload struct {
	UserID  string `json:"userId"`
	OrderID string `json:"orderId"`
	Topic   string `json:"topic"`
}

// NewOrderEmailTask builds the queue task for one order status email.
func NewOrderEmailTask(userID, orderID, topic string) (*asynq.Task, error) {
	payload, err := json.Marshal(orderEmailPayload{UserID: userID, OrderID: orderID, Topic: topic})
	if err != nil {
		return nil, fmt.Errorf("marshal email task: %w", err)
	}
	return asynq.NewTask(TypeOrderEmail, payload, asynq.MaxRetry(5)), nil
}

// EmailWorker processes queued order status emails.
type EmailWorker struct {
	DB     *pgxpool.Pool
	Sender common.EmailSender
	From   string
	Log    zerolog.Logger
}

// HandleOrderEmail is the asynq handler for TypeOrderEmail tasks.
func (w *EmailWorker) HandleOrderEmail(ctx context.Context, t *asynq.Task) error {
	var payload orderEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode email task: %w", err)
	}
	copyPair, ok := orderCopy[payload.Topic]
	if !ok {
		return nil
	}

	var email, name string
	err := w.DB.QueryRow(ctx, `SELECT email, name FROM users WHERE id = $1`, payload.UserID).
		Scan(&email, &name)
	if err != nil {
		return fmt.Errorf("find recipient: %w", err)
	}

	html := fmt.Sprintf("<p>Hi %s,</p><p>%s</p><p>Order reference: %s</p>",
		name, copyPair[1], payload.OrderID)
	if err := w.Sender.Send(email, copyPair[0], html); err != nil {
		return fmt.Errorf("send order email: %w", err)
	}
	w.Log.Info().
		Str("from", w.From).
		Str("topic", payload.Topic).
		Str("order_id", payload.OrderID).
		Msg("order email sent")
	return nil
}

// Mux returns the task router for the worker process.
func (w *EmailWorker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeOrderEmail, w.HandleOrderEmail)
	return mux
}
