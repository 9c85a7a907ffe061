package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/artemis-health/artemis/coordinator"
	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/round"
)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    coordinator.Service
}

func Logging(logger *slog.Logger, svc coordinator.Service) coordinator.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) RunRound(ctx context.Context) (rec round.Record, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("round", rec.Round),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Run round failed", args...)

			return
		}
		args = append(args,
			slog.Float64("train_loss", rec.Train[model.MetricLoss]),
			slog.Float64("test_accuracy", rec.Test[model.MetricAccuracy]),
		)
		lm.logger.Info("Run round completed successfully", args...)
	}(time.Now())

	return lm.svc.RunRound(ctx)
}

func (lm *loggingMiddleware) RunRounds(ctx context.Context, n int) (recs []round.Record, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("requested", n),
			slog.Int("completed", len(recs)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Run rounds failed", args...)

			return
		}
		lm.logger.Info("Run rounds completed successfully", args...)
	}(time.Now())

	return lm.svc.RunRounds(ctx, n)
}

func (lm *loggingMiddleware) EvaluateCurrent(ctx context.Context) (metrics model.Metrics, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Evaluate current model failed", args...)

			return
		}
		args = append(args,
			slog.Float64("accuracy", metrics[model.MetricAccuracy]),
			slog.Float64("auc", metrics[model.MetricAUC]),
		)
		lm.logger.Info("Evaluate current model completed successfully", args...)
	}(time.Now())

	return lm.svc.EvaluateCurrent(ctx)
}

func (lm *loggingMiddleware) Predict(ctx context.Context, features []float64) (p model.Prediction, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("feature_count", len(features)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Predict failed", args...)

			return
		}
		args = append(args, slog.Group("prediction",
			slog.String("id", p.ID),
			slog.String("category", p.RiskCategory),
		))
		lm.logger.Info("Predict completed successfully", args...)
	}(time.Now())

	return lm.svc.Predict(ctx, features)
}

func (lm *loggingMiddleware) History(ctx context.Context) (recs []round.Record, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("record_count", len(recs)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get history failed", args...)

			return
		}
		lm.logger.Info("Get history completed successfully", args...)
	}(time.Now())

	return lm.svc.History(ctx)
}

func (lm *loggingMiddleware) Stats(ctx context.Context) (stats coordinator.Stats, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get stats failed", args...)

			return
		}
		lm.logger.Info("Get stats completed successfully", args...)
	}(time.Now())

	return lm.svc.Stats(ctx)
}

func (lm *loggingMiddleware) SaveCheckpoint(ctx context.Context) (v model.Version, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Save checkpoint failed", args...)

			return
		}
		args = append(args, slog.Int("version", v.Version))
		lm.logger.Info("Save checkpoint completed successfully", args...)
	}(time.Now())

	return lm.svc.SaveCheckpoint(ctx)
}

func (lm *loggingMiddleware) ListVersions(ctx context.Context) (versions []model.Version, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("version_count", len(versions)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List versions failed", args...)

			return
		}
		lm.logger.Info("List versions completed successfully", args...)
	}(time.Now())

	return lm.svc.ListVersions(ctx)
}

func (lm *loggingMiddleware) GetVersion(ctx context.Context, version int) (v model.Version, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("version", version),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get version failed", args...)

			return
		}
		lm.logger.Info("Get version completed successfully", args...)
	}(time.Now())

	return lm.svc.GetVersion(ctx, version)
}

func (lm *loggingMiddleware) LatestVersion(ctx context.Context) (v model.Version, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get latest version failed", args...)

			return
		}
		args = append(args, slog.Int("version", v.Version))
		lm.logger.Info("Get latest version completed successfully", args...)
	}(time.Now())

	return lm.svc.LatestVersion(ctx)
}

func (lm *loggingMiddleware) Round() int {
	return lm.svc.Round()
}
