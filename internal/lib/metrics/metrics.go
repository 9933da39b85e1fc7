// Package metrics собирает метрики движка рекомендаций: Prometheus-коллекторы
// для /metrics и атомарные счётчики для быстрой сводки в API.
package metrics

import (
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rentnova"

// Исходы вызова суммаризатора.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Recorder метрики одного экземпляра сервиса.
type Recorder struct {
	log *slog.Logger

	// Счётчики вызовов суммаризатора
	summarizerCalls          atomic.Int64
	summarizerErrors         atomic.Int64
	summarizerLatencyTotalMs atomic.Int64
	summarizerLastLatencyMs  atomic.Int64

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	fallbacks   atomic.Int64

	cacheLookups       *prometheus.CounterVec
	summarizerDuration *prometheus.HistogramVec
	summaries          *prometheus.CounterVec
	resultSize         prometheus.Histogram
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New регистрирует коллекторы в reg.
func New(reg prometheus.Registerer, log *slog.Logger) *Recorder {
	f := promauto.With(reg)

	return &Recorder{
		log: log,
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_cache_lookups_total",
			Help:      "Recommendation cache lookups by result",
		}, []string{"result"}),
		summarizerDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summarizer_call_duration_seconds",
			Help:      "Duration of external summarizer calls",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		summaries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Produced summaries by source",
		}, []string{"source"}),
		resultSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_result_size",
			Help:      "Number of recommendations returned per computed request",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10},
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordCacheLookup учитывает попадание или промах кэша рекомендаций.
func (r *Recorder) RecordCacheLookup(hit bool) {
	if hit {
		r.cacheHits.Add(1)
		r.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	r.cacheMisses.Add(1)
	r.cacheLookups.WithLabelValues("miss").Inc()
}

// RecordResultSize учитывает размер вычисленной выдачи.
func (r *Recorder) RecordResultSize(n int) {
	r.resultSize.Observe(float64(n))
}

// RecordFallback учитывает резюме, собранное по шаблону.
func (r *Recorder) RecordFallback() {
	r.fallbacks.Add(1)
	r.summaries.WithLabelValues("template").Inc()
}

// RecordSummarizerCall записывает вызов внешнего суммаризатора.
func (r *Recorder) RecordSummarizerCall(latency time.Duration, err error) {
	latencyMs := latency.Milliseconds()

	r.summarizerCalls.Add(1)
	r.summarizerLatencyTotalMs.Add(latencyMs)
	r.summarizerLastLatencyMs.Store(latencyMs)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
		r.summarizerErrors.Add(1)
	} else {
		r.summaries.WithLabelValues("llm").Inc()
	}
	r.summarizerDuration.WithLabelValues(outcome).Observe(latency.Seconds())

	if r.log != nil {
		attrs := []any{slog.Int64("latency_ms", latencyMs)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
			r.log.Warn("summarizer call failed", attrs...)
		} else {
			r.log.Debug("summarizer call completed", attrs...)
		}
	}
}

// ObserveHTTP учитывает обработанный HTTP-запрос.
func (r *Recorder) ObserveHTTP(method, route string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// CallTimer помогает измерять время вызовов.
type CallTimer struct {
	recorder  *Recorder
	startTime time.Time
}

// StartTimer начинает измерение времени вызова суммаризатора.
func (r *Recorder) StartTimer() *CallTimer {
	return &CallTimer{recorder: r, startTime: time.Now()}
}

// Stop останавливает таймер и записывает метрики.
func (t *CallTimer) Stop(err error) {
	t.recorder.RecordSummarizerCall(time.Since(t.startTime), err)
}

// Stats текущая сводка.
type Stats struct {
	Summarizer SummarizerStats `json:"summarizer"`
	Cache      CacheStats      `json:"cache"`
	Fallbacks  int64           `json:"fallbacks_total"`
}

type SummarizerStats struct {
	CallsTotal    int64   `json:"calls_total"`
	ErrorsTotal   int64   `json:"errors_total"`
	ErrorRate     float64 `json:"error_rate"`
	AvgLatencyMs  float64 `json:"avg_latency_ms"`
	LastLatencyMs int64   `json:"last_latency_ms"`
}

type CacheStats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// GetStats возвращает текущую статистику.
func (r *Recorder) GetStats() Stats {
	calls := r.summarizerCalls.Load()
	errs := r.summarizerErrors.Load()

	var errorRate, avgLatency float64
	if calls > 0 {
		errorRate = float64(errs) / float64(calls)
		avgLatency = float64(r.summarizerLatencyTotalMs.Load()) / float64(calls)
	}

	hits, misses := r.cacheHits.Load(), r.cacheMisses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Summarizer: SummarizerStats{
			CallsTotal:    calls,
			ErrorsTotal:   errs,
			ErrorRate:     errorRate,
			AvgLatencyMs:  avgLatency,
			LastLatencyMs: r.summarizerLastLatencyMs.Load(),
		},
		Cache: CacheStats{
			Hits:    hits,
			Misses:  misses,
			HitRate: hitRate,
		},
		Fallbacks: r.fallbacks.Load(),
	}
}

// Reset сбрасывает атомарную сводку. Prometheus-счётчики не трогаются.
func (r *Recorder) Reset() {
	r.summarizerCalls.Store(0)
	r.summarizerErrors.Store(0)
	r.summarizerLatencyTotalMs.Store(0)
	r.summarizerLastLatencyMs.Store(0)
	r.cacheHits.Store(0)
	r.cacheMisses.Store(0)
	r.fallbacks.Store(0)
}
