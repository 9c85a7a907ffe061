package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/artemis-health/artemis/hospital"
	"github.com/artemis-health/artemis/model"
	pkgerrors "github.com/artemis-health/artemis/pkg/errors"
	"github.com/artemis-health/artemis/pkg/fedavg"
	"github.com/artemis-health/artemis/pkg/storage"
	"github.com/artemis-health/artemis/pkg/trainer"
	"github.com/artemis-health/artemis/round"
)

type service struct {
	nodes     []*hospital.Node
	agg       fedavg.Aggregator
	evaluator trainer.Evaluator
	predictor trainer.Predictor
	testSet   trainer.Dataset

	history     storage.HistoryStore
	checkpoints storage.CheckpointStore
	predictions storage.PredictionStore

	featureWidth int
	nodeTimeout  time.Duration

	// mu guards the global model state and enforces one round in flight.
	mu       sync.Mutex
	global   model.ParameterSet
	roundNum int
}

// NewService validates the federation configuration and returns a
// coordinator handle. No module-level state: everything the protocol
// touches is threaded through the returned Service.
func NewService(
	cfg Config,
	nodes []*hospital.Node,
	initial model.ParameterSet,
	testSet trainer.Dataset,
	evaluator trainer.Evaluator,
	predictor trainer.Predictor,
	history storage.HistoryStore,
	checkpoints storage.CheckpointStore,
	predictions storage.PredictionStore,
) (Service, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: at least one hospital node is required", pkgerrors.ErrConfiguration)
	}
	if len(initial) == 0 {
		return nil, fmt.Errorf("%w: initial global parameters are required", pkgerrors.ErrConfiguration)
	}
	if err := testSet.Validate(cfg.FeatureWidth); err != nil {
		return nil, fmt.Errorf("%w: held-out set: %w", pkgerrors.ErrConfiguration, err)
	}
	for _, node := range nodes {
		if err := node.Validate(cfg.FeatureWidth); err != nil {
			return nil, fmt.Errorf("%w: %w", pkgerrors.ErrConfiguration, err)
		}
	}

	return &service{
		nodes:        nodes,
		agg:          fedavg.New(),
		evaluator:    evaluator,
		predictor:    predictor,
		testSet:      testSet,
		history:      history,
		checkpoints:  checkpoints,
		predictions:  predictions,
		featureWidth: cfg.FeatureWidth,
		nodeTimeout:  cfg.NodeTimeout,
		global:       initial.Clone(),
	}, nil
}

func (s *service) RunRound(ctx context.Context) (round.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runRound(ctx)
}

func (s *service) RunRounds(ctx context.Context, n int) ([]round.Record, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", pkgerrors.ErrInvalidRounds, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]round.Record, 0, n)
	for i := 0; i < n; i++ {
		rec, err := s.runRound(ctx)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// runRound holds s.mu. Global state is mutated only after the round
// record has been durably appended; every earlier failure unwinds with no
// observable change.
func (s *service) runRound(ctx context.Context) (round.Record, error) {
	// Broadcast: each node gets an independent copy of the global set.
	for _, node := range s.nodes {
		if err := node.Initialize(s.global); err != nil {
			return round.Record{}, fmt.Errorf("%w: %w", pkgerrors.ErrTraining, err)
		}
	}

	// Local training is embarrassingly parallel; the only ordering
	// constraint is the barrier before aggregation. Results land in
	// node-index order regardless of completion order.
	updates := make([]fedavg.Update, len(s.nodes))
	trainMetrics := make([]fedavg.MetricsUpdate, len(s.nodes))

	g, gctx := errgroup.WithContext(ctx)
	for i, node := range s.nodes {
		g.Go(func() error {
			nctx := gctx
			if s.nodeTimeout > 0 {
				var cancel context.CancelFunc
				nctx, cancel = context.WithTimeout(gctx, s.nodeTimeout)
				defer cancel()
			}

			params, samples, metrics, err := node.LocalTrain(nctx)
			if err != nil {
				return fmt.Errorf("%w: %w", pkgerrors.ErrTraining, err)
			}

			updates[i] = fedavg.Update{Params: params, NumSamples: samples}
			trainMetrics[i] = fedavg.MetricsUpdate{Metrics: metrics, NumSamples: samples}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return round.Record{}, err
	}

	combined, err := s.agg.Combine(updates)
	if err != nil {
		return round.Record{}, fmt.Errorf("%w: %w", pkgerrors.ErrTraining, err)
	}
	if err := combined.Validate(s.global); err != nil {
		return round.Record{}, fmt.Errorf("%w: aggregated parameters: %w", pkgerrors.ErrTraining, err)
	}

	testMetrics, err := s.evaluator.Evaluate(ctx, combined, s.testSet)
	if err != nil {
		return round.Record{}, fmt.Errorf("%w: %w", pkgerrors.ErrEvaluation, err)
	}

	combinedTrain, err := s.agg.CombineMetrics(trainMetrics)
	if err != nil {
		return round.Record{}, fmt.Errorf("%w: %w", pkgerrors.ErrTraining, err)
	}

	rec := round.Record{
		Round:     s.roundNum + 1,
		Train:     combinedTrain,
		Test:      testMetrics,
		CreatedAt: time.Now().UTC(),
	}

	// Recording is the commit point. If the append fails the round is
	// not committed and the global state stays at the previous round.
	if err := s.history.Append(ctx, rec); err != nil {
		return round.Record{}, fmt.Errorf("%w: %w", pkgerrors.ErrPersistence, err)
	}

	s.global = combined
	s.roundNum++

	return rec, nil
}

func (s *service) EvaluateCurrent(ctx context.Context) (model.Metrics, error) {
	params, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	metrics, err := s.evaluator.Evaluate(ctx, params, s.testSet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrEvaluation, err)
	}

	return metrics, nil
}

func (s *service) Predict(ctx context.Context, features []float64) (model.Prediction, error) {
	if len(features) != s.featureWidth {
		return model.Prediction{}, fmt.Errorf("%w: got %d features, want %d",
			pkgerrors.ErrFeatureShape, len(features), s.featureWidth)
	}

	params, err := s.snapshot()
	if err != nil {
		return model.Prediction{}, err
	}

	score, err := s.predictor.Predict(ctx, params, features)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %w", pkgerrors.ErrEvaluation, err)
	}

	p := model.Prediction{
		ID:           uuid.NewString(),
		RiskScore:    score,
		RiskCategory: model.Categorize(score),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.predictions.Record(ctx, p); err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %w", pkgerrors.ErrPersistence, err)
	}

	return p, nil
}

func (s *service) History(ctx context.Context) ([]round.Record, error) {
	return s.history.List(ctx)
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	served, err := s.predictions.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", pkgerrors.ErrPersistence, err)
	}

	stats := Stats{
		Rounds:            s.Round(),
		PredictionsServed: served,
	}

	latest, err := s.checkpoints.Latest(ctx)
	switch {
	case err == nil:
		stats.LatestModelVersion = latest.Version
	case errors.Is(err, storage.ErrNoVersions):
	default:
		return Stats{}, fmt.Errorf("%w: %w", pkgerrors.ErrPersistence, err)
	}

	return stats, nil
}

func (s *service) SaveCheckpoint(ctx context.Context) (model.Version, error) {
	params, err := s.snapshot()
	if err != nil {
		return model.Version{}, err
	}

	v, err := s.checkpoints.Save(ctx, params)
	if err != nil {
		return model.Version{}, fmt.Errorf("%w: %w", pkgerrors.ErrPersistence, err)
	}

	return v, nil
}

func (s *service) ListVersions(ctx context.Context) ([]model.Version, error) {
	return s.checkpoints.List(ctx)
}

func (s *service) GetVersion(ctx context.Context, version int) (model.Version, error) {
	return s.checkpoints.Get(ctx, version)
}

func (s *service) LatestVersion(ctx context.Context) (model.Version, error) {
	return s.checkpoints.Latest(ctx)
}

func (s *service) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.roundNum
}

// snapshot returns the current global parameters without holding the
// round lock during evaluation or prediction.
func (s *service) snapshot() (model.ParameterSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.global) == 0 {
		return nil, pkgerrors.ErrNotInitialized
	}

	return s.global, nil
}
