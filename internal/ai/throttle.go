package ai

import (
	"context"
	"time"

	"github.com/tttiuem2k3/Agent-Interview/internal/util"
)

// Throttled wraps a Completer so that every successful call is followed by
// a fixed pause before it returns. Wrapping the completer once keeps the
// pacing uniform across all consumers instead of each call site
// remembering to sleep. A non-positive delay returns the completer
// unchanged.
func Throttled(c Completer, delay time.Duration) Completer {
	if delay <= 0 {
		return c
	}
	return &throttled{inner: c, delay: delay}
}

type throttled struct {
	inner Completer
	delay time.Duration
}

func (t *throttled) Complete(ctx context.Context, system string, history []Turn, message string) (string, error) {
	reply, err := t.inner.Complete(ctx, system, history, message)
	if err != nil {
		return "", err
	}
	if err := util.WaitFor(ctx, t.delay); err != nil {
		return "", err
	}
	return reply, nil
}
