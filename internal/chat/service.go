package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEmptyMessage is returned for a blank message body.
var ErrEmptyMessage = errors.New("message body is empty")

// MaxMessageLen bounds a single chat message.
const MaxMessageLen = 2000

// Sender side of a message within a support thread.
const (
	SenderCustomer = "customer"
	SenderAdmin    = "admin"
)

// Message is one entry of a user's support thread.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Thread summarises one customer's conversation for the back office.
type Thread struct {
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	MessageCount  int64     `json:"messageCount"`
}

// Service stores support chat messages. Each customer owns one thread;
// delivery to connected clients is plain polling with an after cursor.
type Service struct {
	DB *pgxpool.Pool
}

// Post appends a message to the user's thread.
func (s *Service) Post(ctx context.Context, userID, sender, body string) (Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Message{}, ErrEmptyMessage
	}
	if len([]rune(body)) > MaxMessageLen {
		runes := []rune(body)
		body = string(runes[:MaxMessageLen])
	}
	if sender != SenderAdmin {
		sender = SenderCustomer
	}
	m := Message{ID: uuid.NewString(), UserID: userID, Sender: sender, Body: body}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO chat_messages (id, user_id, sender, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`, m.ID, m.UserID, m.Sender, m.Body).Scan(&m.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("insert chat message: %w", err)
	}
	return m, nil
}

// ListSince returns the thread messages created after the given cursor time,
// oldest first. A zero cursor returns the whole thread.
func (s *Service) ListSince(ctx context.Context, userID string, after time.Time, limit int) ([]Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.DB.Query(ctx, `
		SELECT id, user_id, sender, body, created_at
		FROM chat_messages
		WHERE user_id = $1 AND created_at > $2
		ORDER BY created_at ASC
		LIMIT $3`, userID, after, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Threads lists active conversations for the back office, most recent first.
func (s *Service) Threads(ctx context.Context, limit, offset int) ([]Thread, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT cm.user_id, COALESCE(u.name, ''),
			(SELECT body FROM chat_messages WHERE user_id = cm.user_id ORDER BY created_at DESC LIMIT 1),
			MAX(cm.created_at), COUNT(*)
		FROM chat_messages cm
		LEFT JOIN users u ON u.id = cm.user_id
		GROUP BY cm.user_id, u.name
		ORDER BY MAX(cm.created_at) DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list chat threads: %w", err)
	}
	defer rows.Close()

	var out []Thread
	for rows.Next() {
		var t Thread
		if err := rows.Scan(&t.UserID, &t.UserName, &t.LastMessage, &t.LastMessageAt, &t.MessageCount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
