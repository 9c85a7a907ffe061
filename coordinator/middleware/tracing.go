package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/artemis-health/artemis/coordinator"
	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/round"
)

var _ coordinator.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    coordinator.Service
}

func Tracing(tracer trace.Tracer, svc coordinator.Service) coordinator.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) RunRound(ctx context.Context) (round.Record, error) {
	ctx, span := tm.tracer.Start(ctx, "run-round", trace.WithAttributes(
		attribute.Int("round", tm.svc.Round()+1),
	))
	defer span.End()

	return tm.svc.RunRound(ctx)
}

func (tm *tracing) RunRounds(ctx context.Context, n int) ([]round.Record, error) {
	ctx, span := tm.tracer.Start(ctx, "run-rounds", trace.WithAttributes(
		attribute.Int("requested", n),
	))
	defer span.End()

	return tm.svc.RunRounds(ctx, n)
}

func (tm *tracing) EvaluateCurrent(ctx context.Context) (model.Metrics, error) {
	ctx, span := tm.tracer.Start(ctx, "evaluate-current")
	defer span.End()

	return tm.svc.EvaluateCurrent(ctx)
}

func (tm *tracing) Predict(ctx context.Context, features []float64) (model.Prediction, error) {
	ctx, span := tm.tracer.Start(ctx, "predict", trace.WithAttributes(
		attribute.Int("feature_count", len(features)),
	))
	defer span.End()

	return tm.svc.Predict(ctx, features)
}

func (tm *tracing) History(ctx context.Context) ([]round.Record, error) {
	ctx, span := tm.tracer.Start(ctx, "history")
	defer span.End()

	return tm.svc.History(ctx)
}

func (tm *tracing) Stats(ctx context.Context) (coordinator.Stats, error) {
	ctx, span := tm.tracer.Start(ctx, "stats")
	defer span.End()

	return tm.svc.Stats(ctx)
}

func (tm *tracing) SaveCheckpoint(ctx context.Context) (model.Version, error) {
	ctx, span := tm.tracer.Start(ctx, "save-checkpoint")
	defer span.End()

	return tm.svc.SaveCheckpoint(ctx)
}

func (tm *tracing) ListVersions(ctx context.Context) ([]model.Version, error) {
	ctx, span := tm.tracer.Start(ctx, "list-versions")
	defer span.End()

	return tm.svc.ListVersions(ctx)
}

func (tm *tracing) GetVersion(ctx context.Context, version int) (model.Version, error) {
	ctx, span := tm.tracer.Start(ctx, "get-version", trace.WithAttributes(
		attribute.Int("version", version),
	))
	defer span.End()

	return tm.svc.GetVersion(ctx, version)
}

func (tm *tracing) LatestVersion(ctx context.Context) (model.Version, error) {
	ctx, span := tm.tracer.Start(ctx, "latest-version")
	defer span.End()

	return tm.svc.LatestVersion(ctx)
}

func (tm *tracing) Round() int {
	return tm.svc.Round()
}
