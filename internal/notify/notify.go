// Package notify composes and delivers the outcome notifications sent
// after a passed interview. Delivery is fire and forget: the interview
// outcome never depends on whether a message actually arrived.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Sender delivers one message to one address.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ConsoleSender writes the message to a writer instead of a mail server.
// It stands in for a real SMTP integration in local runs and demos.
type ConsoleSender struct {
	out    io.Writer
	logger *zap.Logger
}

// NewConsoleSender creates a ConsoleSender. A nil writer defaults to
// stdout.
func NewConsoleSender(out io.Writer, logger *zap.Logger) *ConsoleSender {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleSender{out: out, logger: logger}
}

// Send prints the message.
func (s *ConsoleSender) Send(_ context.Context, to, subject, body string) error {
	fmt.Fprintf(s.out, "\n--- EMAIL ---\nTo: %s\nSubject: %s\n%s\n--- END EMAIL ---\n\n", to, subject, body)
	s.logger.Info("notification sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
