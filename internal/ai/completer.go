// Package ai defines the contract between the interview flow and the
// generative language model behind it.
package ai

import (
	"context"
	"errors"
)

// Conversation roles as stored in the transcript.
const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// ErrQuotaExhausted signals that the provider rejected the call because of
// quota or rate limiting. Callers with a deterministic fallback catch it
// with errors.Is and degrade instead of aborting the interview.
var ErrQuotaExhausted = errors.New("ai: insufficient quota")

// Turn is one entry of the conversation transcript. Turns are appended in
// chronological order and never mutated.
type Turn struct {
	Role string
	Text string
}

// Completer produces one model reply for the given system instruction,
// ordered conversation history and new user message.
type Completer interface {
	Complete(ctx context.Context, system string, history []Turn, message string) (string, error)
}
