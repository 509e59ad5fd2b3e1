package agent

import (
	"context"
	"time"
)

// throttle waits for the configured delay before each call, honoring context
// cancellation. A zero or negative delay is a no-op.
func throttle(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ThrottledGenerator paces calls to an underlying Generator with a fixed
// delay. It replaces ad-hoc sleeps at the call sites with a policy that is
// configurable per deployment.
type ThrottledGenerator struct {
	next  Generator
	delay time.Duration
}

func NewThrottledGenerator(next Generator, delay time.Duration) *ThrottledGenerator {
	return &ThrottledGenerator{next: next, delay: delay}
}

func (t *ThrottledGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := throttle(ctx, t.delay); err != nil {
		return "", err
	}
	return t.next.Generate(ctx, prompt)
}

// ThrottledResearcher paces calls to an underlying Researcher. A cancelled
// context surfaces as error text, matching the capability's text-only failure
// channel.
type ThrottledResearcher struct {
	next  Researcher
	delay time.Duration
}

func NewThrottledResearcher(next Researcher, delay time.Duration) *ThrottledResearcher {
	return &ThrottledResearcher{next: next, delay: delay}
}

func (t *ThrottledResearcher) Research(ctx context.Context, query string) string {
	if err := throttle(ctx, t.delay); err != nil {
		return "Error researching topic: " + err.Error()
	}
	return t.next.Research(ctx, query)
}
