package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rentnova/internal/domain"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

type GuardConfig struct {
	RatePerSecond   float64
	Burst           int
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Guard защищает внешний сервис от лишней нагрузки.
// Оба механизма отказывают сразу, без ожидания.
type Guard struct {
	next    Summarizer
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
	log     *slog.Logger
}

func NewGuard(next Summarizer, cfg GuardConfig, log *slog.Logger) *Guard {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 1
	}

	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}

	g := &Guard{
		next:    next,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		log:     log,
	}

	g.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "llm-summarizer",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return g
}

func (g *Guard) Summarize(ctx context.Context, entries []Entry, prefs domain.UserPreferences) (string, error) {
	const op = "summarizer.Guard.Summarize"

	if !g.limiter.Allow() {
		return "", fmt.Errorf("%s: %w", op, ErrRateLimited)
	}

	summary, err := g.breaker.Execute(func() (string, error) {
		return g.next.Summarize(ctx, entries, prefs)
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return summary, nil
}

func (g *Guard) IsEnabled() bool {
	return g.next.IsEnabled()
}

// State текущее состояние предохранителя.
func (g *Guard) State() gobreaker.State {
	return g.breaker.State()
}
