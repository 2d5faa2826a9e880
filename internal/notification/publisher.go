package notification

import (
	"context"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Publisher delivers rendered notification e-mails to the message queue
type Publisher interface {
	Publish(ctx context.Context, msg domain.EmailMessage) error
}

// LogPublisher is the degraded-mode publisher used when no queue is
// configured. It only logs what would have been sent.
type LogPublisher struct{}

// NewLogPublisher creates a publisher that logs instead of sending
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish logs the message and reports success
func (p *LogPublisher) Publish(_ context.Context, msg domain.EmailMessage) error {
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("Email queue not configured, notification logged only")
	return nil
}

var _ Publisher = (*LogPublisher)(nil)
