package notify

import "github.com/rs/zerolog"

// LogEmailSender writes emails to the log instead of delivering them. Used
// when no delivery backend is configured, typically outside production.
type LogEmailSender struct {
	Log zerolog.Logger
}

// Send implements common.EmailSender.
func (s LogEmailSender) Send(to, subject, html string) error {
	s.Log.Info().
		Str("to", to).
		Str("subject", subject).
		Int("body_bytes", len(html)).
		Msg("email (log delivery)")
	return nil
}
