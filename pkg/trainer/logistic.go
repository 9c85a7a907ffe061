package trainer

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/artemis-health/artemis/model"
)

// Parameter layout for the logistic model: index 0 holds the weight
// vector, index 1 holds the single bias term.
const (
	weightsIndex  = 0
	biasIndex     = 1
	logisticArity = 2
)

const probEpsilon = 1e-9

// Config holds local training hyperparameters. A fresh optimizer pass is
// scoped to each Train call, so no momentum or state leaks across rounds.
type Config struct {
	Epochs       int
	LearningRate float64
	BatchSize    int
}

func DefaultConfig() Config {
	return Config{
		Epochs:       10,
		LearningRate: 0.05,
		BatchSize:    32,
	}
}

// Logistic is a logistic-regression classifier trained with mini-batch
// SGD. It implements LocalTrainer, Evaluator and Predictor.
type Logistic struct {
	cfg Config
}

func NewLogistic(cfg Config) *Logistic {
	if cfg.Epochs <= 0 {
		cfg.Epochs = DefaultConfig().Epochs
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = DefaultConfig().LearningRate
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}

	return &Logistic{cfg: cfg}
}

// NewLogisticParams returns a reproducibly initialised parameter set for
// the given feature width. All nodes start from identical parameters at
// round 0.
func NewLogisticParams(width int, seed int64) model.ParameterSet {
	rng := rand.New(rand.NewSource(seed))
	weights := make([]float64, width)
	for i := range weights {
		weights[i] = rng.Float64()*0.1 - 0.05
	}

	return model.ParameterSet{weights, {0}}
}

func unpack(params model.ParameterSet) ([]float64, float64, error) {
	if len(params) != logisticArity || len(params[biasIndex]) != 1 {
		return nil, 0, fmt.Errorf("%w: want [weights, bias], got shape %v", ErrBadParams, params.Shape())
	}

	return params[weightsIndex], params[biasIndex][0], nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func (l *Logistic) Train(ctx context.Context, params model.ParameterSet, ds Dataset) (model.ParameterSet, int, model.Metrics, error) {
	local := params.Clone()
	weights, bias, err := unpack(local)
	if err != nil {
		return nil, 0, nil, err
	}
	if err := ds.Validate(len(weights)); err != nil {
		return nil, 0, nil, err
	}

	n := ds.Len()
	grad := make([]float64, len(weights))

	for epoch := 0; epoch < l.cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return nil, 0, nil, ctx.Err()
		default:
		}

		for start := 0; start < n; start += l.cfg.BatchSize {
			end := min(start+l.cfg.BatchSize, n)

			for i := range grad {
				grad[i] = 0
			}
			var biasGrad float64

			for i := start; i < end; i++ {
				p := sigmoid(floats.Dot(weights, ds.Features[i]) + bias)
				residual := p - ds.Labels[i]
				floats.AddScaled(grad, residual, ds.Features[i])
				biasGrad += residual
			}

			step := l.cfg.LearningRate / float64(end-start)
			floats.AddScaled(weights, -step, grad)
			bias -= step * biasGrad
		}
	}
	local[biasIndex][0] = bias

	losses := make([]float64, n)
	probs := make([]float64, n)
	for i := range ds.Features {
		p := sigmoid(floats.Dot(weights, ds.Features[i]) + bias)
		probs[i] = p
		p = math.Min(math.Max(p, probEpsilon), 1-probEpsilon)
		losses[i] = -(ds.Labels[i]*math.Log(p) + (1-ds.Labels[i])*math.Log(1-p))
	}
	accuracy, precision, recall, f1 := classificationMetrics(ds.Labels, probs)

	metrics := model.Metrics{
		model.MetricLoss:      stat.Mean(losses, nil),
		model.MetricAccuracy:  accuracy,
		model.MetricPrecision: precision,
		model.MetricRecall:    recall,
		model.MetricF1:        f1,
	}

	return local, n, metrics, nil
}

func (l *Logistic) Evaluate(ctx context.Context, params model.ParameterSet, ds Dataset) (model.Metrics, error) {
	weights, bias, err := unpack(params)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(len(weights)); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	scores := make([]float64, ds.Len())
	for i := range ds.Features {
		scores[i] = sigmoid(floats.Dot(weights, ds.Features[i]) + bias)
	}

	accuracy, precision, recall, f1 := classificationMetrics(ds.Labels, scores)

	return model.Metrics{
		model.MetricAccuracy:  accuracy,
		model.MetricPrecision: precision,
		model.MetricRecall:    recall,
		model.MetricF1:        f1,
		model.MetricAUC:       AUC(ds.Labels, scores),
	}, nil
}

func (l *Logistic) Predict(_ context.Context, params model.ParameterSet, features []float64) (float64, error) {
	weights, bias, err := unpack(params)
	if err != nil {
		return 0, err
	}
	if len(features) != len(weights) {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrMalformedDataset, len(features), len(weights))
	}

	return sigmoid(floats.Dot(weights, features) + bias), nil
}
