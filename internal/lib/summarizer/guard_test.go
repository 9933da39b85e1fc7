package summarizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentnova/internal/domain"
	"rentnova/internal/lib/logger/handlers/slogdiscard"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSummarizer struct {
	calls int
	err   error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ []Entry, _ domain.UserPreferences) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "ok", nil
}

func (s *stubSummarizer) IsEnabled() bool { return true }

func TestGuard_PassesThrough(t *testing.T) {
	next := &stubSummarizer{}
	g := NewGuard(next, GuardConfig{BreakerFailures: 3, BreakerCooldown: time.Minute}, slogdiscard.NewDiscardLogger())

	got, err := g.Summarize(context.Background(), testEntries, domain.UserPreferences{})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, next.calls)
	assert.True(t, g.IsEnabled())
}

func TestGuard_BreakerOpensAfterFailures(t *testing.T) {
	upstream := errors.New("upstream down")
	next := &stubSummarizer{err: upstream}
	g := NewGuard(next, GuardConfig{BreakerFailures: 2, BreakerCooldown: time.Hour}, slogdiscard.NewDiscardLogger())
	ctx := context.Background()

	_, err := g.Summarize(ctx, testEntries, domain.UserPreferences{})
	assert.ErrorIs(t, err, upstream)
	_, err = g.Summarize(ctx, testEntries, domain.UserPreferences{})
	assert.ErrorIs(t, err, upstream)

	assert.Equal(t, gobreaker.StateOpen, g.State())

	_, err = g.Summarize(ctx, testEntries, domain.UserPreferences{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, next.calls, "open breaker must not reach upstream")
}

func TestGuard_RateLimited(t *testing.T) {
	next := &stubSummarizer{}
	g := NewGuard(next, GuardConfig{RatePerSecond: 0.001, Burst: 1, BreakerFailures: 5, BreakerCooldown: time.Minute}, slogdiscard.NewDiscardLogger())
	ctx := context.Background()

	_, err := g.Summarize(ctx, testEntries, domain.UserPreferences{})
	require.NoError(t, err)

	_, err = g.Summarize(ctx, testEntries, domain.UserPreferences{})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, next.calls)
}

func TestGuard_UnlimitedWhenRateNotSet(t *testing.T) {
	next := &stubSummarizer{}
	g := NewGuard(next, GuardConfig{BreakerFailures: 5}, slogdiscard.NewDiscardLogger())

	for i := 0; i < 20; i++ {
		_, err := g.Summarize(context.Background(), testEntries, domain.UserPreferences{})
		require.NoError(t, err)
	}
	assert.Equal(t, 20, next.calls)
}
