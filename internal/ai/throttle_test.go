package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCompleter struct {
	reply string
	err   error
	calls int
}

func (c *countingCompleter) Complete(_ context.Context, _ string, _ []Turn, _ string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func TestThrottledZeroDelayIsPassthrough(t *testing.T) {
	t.Parallel()

	inner := &countingCompleter{reply: "ok"}
	assert.Same(t, Completer(inner), Throttled(inner, 0))
	assert.Same(t, Completer(inner), Throttled(inner, -time.Second))
}

func TestThrottledDelegatesAndPausesAfterReply(t *testing.T) {
	t.Parallel()

	inner := &countingCompleter{reply: "xin chào"}
	c := Throttled(inner, time.Nanosecond)

	reply, err := c.Complete(context.Background(), "system", nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, "xin chào", reply)
	assert.Equal(t, 1, inner.calls)
}

func TestThrottledPropagatesInnerError(t *testing.T) {
	t.Parallel()

	inner := &countingCompleter{err: fmt.Errorf("complete: %w", ErrQuotaExhausted)}
	c := Throttled(inner, time.Nanosecond)

	reply, err := c.Complete(context.Background(), "system", nil, "hello")
	assert.Empty(t, reply)
	assert.ErrorIs(t, err, ErrQuotaExhausted)
}

func TestThrottledStopsWaitingOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &countingCompleter{reply: "ok"}
	c := Throttled(inner, 250*time.Millisecond)

	reply, err := c.Complete(ctx, "system", nil, "hello")
	assert.Empty(t, reply)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}

func TestThrottledHonoursErrorsBeforeWaiting(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &countingCompleter{err: errors.New("boom")}
	c := Throttled(inner, time.Hour)

	start := time.Now()
	_, err := c.Complete(ctx, "system", nil, "hello")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
