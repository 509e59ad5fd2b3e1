package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottledGeneratorZeroDelayPassesThrough(t *testing.T) {
	inner := GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		return "reply to " + prompt, nil
	})
	g := NewThrottledGenerator(inner, 0)

	got, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "reply to hi", got)
}

func TestThrottledGeneratorWaits(t *testing.T) {
	inner := GeneratorFunc(func(context.Context, string) (string, error) {
		return "ok", nil
	})
	g := NewThrottledGenerator(inner, 30*time.Millisecond)

	start := time.Now()
	_, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestThrottledGeneratorCancelled(t *testing.T) {
	called := false
	inner := GeneratorFunc(func(context.Context, string) (string, error) {
		called = true
		return "ok", nil
	})
	g := NewThrottledGenerator(inner, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, "hi")
	require.Error(t, err)
	assert.False(t, called)
}

func TestThrottledResearcherCancelledReturnsErrorText(t *testing.T) {
	inner := ResearcherFunc(func(context.Context, string) string { return "findings" })
	r := NewThrottledResearcher(inner, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := r.Research(ctx, "query")
	assert.Contains(t, got, "Error researching topic")
}

func TestThrottledResearcherPassesThrough(t *testing.T) {
	inner := ResearcherFunc(func(_ context.Context, query string) string {
		return "findings for " + query
	})
	r := NewThrottledResearcher(inner, 0)

	assert.Equal(t, "findings for flu", r.Research(context.Background(), "flu"))
}
