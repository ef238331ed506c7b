package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemoryEmailCapturesMessages(t *testing.T) {
	sender := &InMemoryEmail{}
	var es EmailSender = sender

	require.NoError(t, es.Send("demo@foodee.local", "Order delivered", "<p>Enjoy your meal!</p>"))
	require.Len(t, sender.Outbox, 1)
	require.Equal(t, "demo@foodee.local", sender.Outbox[0].To)
	require.Equal(t, "Order delivered", sender.Outbox[0].Subject)
}

func TestInMemoryEmailNilReceiverIsSafe(t *testing.T) {
	var sender *InMemoryEmail
	require.NoError(t, sender.Send("demo@foodee.local", "s", "b"))
}
