package middleware

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"

	"github.com/artemis-health/artemis/coordinator"
	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/round"
)

var _ coordinator.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     coordinator.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc coordinator.Service) coordinator.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) RunRound(ctx context.Context) (round.Record, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "run-round").Add(1)
		mm.latency.With("method", "run-round").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.RunRound(ctx)
}

func (mm *metricsMiddleware) RunRounds(ctx context.Context, n int) ([]round.Record, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "run-rounds").Add(1)
		mm.latency.With("method", "run-rounds").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.RunRounds(ctx, n)
}

func (mm *metricsMiddleware) EvaluateCurrent(ctx context.Context) (model.Metrics, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "evaluate-current").Add(1)
		mm.latency.With("method", "evaluate-current").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.EvaluateCurrent(ctx)
}

func (mm *metricsMiddleware) Predict(ctx context.Context, features []float64) (model.Prediction, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "predict").Add(1)
		mm.latency.With("method", "predict").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Predict(ctx, features)
}

func (mm *metricsMiddleware) History(ctx context.Context) ([]round.Record, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "history").Add(1)
		mm.latency.With("method", "history").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.History(ctx)
}

func (mm *metricsMiddleware) Stats(ctx context.Context) (coordinator.Stats, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "stats").Add(1)
		mm.latency.With("method", "stats").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Stats(ctx)
}

func (mm *metricsMiddleware) SaveCheckpoint(ctx context.Context) (model.Version, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "save-checkpoint").Add(1)
		mm.latency.With("method", "save-checkpoint").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.SaveCheckpoint(ctx)
}

func (mm *metricsMiddleware) ListVersions(ctx context.Context) ([]model.Version, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-versions").Add(1)
		mm.latency.With("method", "list-versions").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListVersions(ctx)
}

func (mm *metricsMiddleware) GetVersion(ctx context.Context, version int) (model.Version, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-version").Add(1)
		mm.latency.With("method", "get-version").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetVersion(ctx, version)
}

func (mm *metricsMiddleware) LatestVersion(ctx context.Context) (model.Version, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "latest-version").Add(1)
		mm.latency.With("method", "latest-version").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.LatestVersion(ctx)
}

func (mm *metricsMiddleware) Round() int {
	return mm.svc.Round()
}
