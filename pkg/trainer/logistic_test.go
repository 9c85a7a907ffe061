package trainer_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/pkg/trainer"
)

// separableDataset builds a linearly separable binary dataset: the label
// is decided by the sign of the first feature.
func separableDataset(rng *rand.Rand, samples, width int) trainer.Dataset {
	ds := trainer.Dataset{
		Features: make([][]float64, samples),
		Labels:   make([]float64, samples),
	}
	for i := range ds.Features {
		row := make([]float64, width)
		for k := range row {
			row[k] = rng.NormFloat64()
		}
		ds.Features[i] = row
		if row[0] > 0 {
			ds.Labels[i] = 1
		}
	}

	return ds
}

func TestNewLogisticParamsReproducible(t *testing.T) {
	t.Parallel()

	a := trainer.NewLogisticParams(25, 42)
	b := trainer.NewLogisticParams(25, 42)

	assert.Equal(t, a, b)
	assert.Equal(t, []int{25, 1}, a.Shape())
}

func TestTrainImprovesLossAndPreservesShape(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	ds := separableDataset(rng, 200, 5)
	params := trainer.NewLogisticParams(5, 42)
	l := trainer.NewLogistic(trainer.Config{Epochs: 20, LearningRate: 0.5, BatchSize: 32})

	trained, samples, metrics, err := l.Train(context.Background(), params, ds)
	require.NoError(t, err)

	assert.Equal(t, ds.Len(), samples)
	assert.True(t, params.SameShape(trained))
	assert.Greater(t, metrics[model.MetricAccuracy], 0.8)
	assert.Less(t, metrics[model.MetricLoss], 0.5)
	assert.NotContains(t, metrics, model.MetricAUC)
}

func TestTrainDoesNotMutateInputParams(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(2))
	ds := separableDataset(rng, 50, 3)
	params := trainer.NewLogisticParams(3, 42)
	before := params.Clone()

	l := trainer.NewLogistic(trainer.DefaultConfig())
	_, _, _, err := l.Train(context.Background(), params, ds)
	require.NoError(t, err)

	assert.Equal(t, before, params)
}

func TestTrainDeterministic(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	ds := separableDataset(rng, 100, 4)
	params := trainer.NewLogisticParams(4, 42)
	l := trainer.NewLogistic(trainer.DefaultConfig())

	first, _, firstMetrics, err := l.Train(context.Background(), params, ds)
	require.NoError(t, err)
	second, _, secondMetrics, err := l.Train(context.Background(), params, ds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstMetrics, secondMetrics)
}

func TestTrainErrors(t *testing.T) {
	t.Parallel()

	l := trainer.NewLogistic(trainer.DefaultConfig())
	ctx := context.Background()

	cases := []struct {
		desc   string
		params model.ParameterSet
		ds     trainer.Dataset
		err    error
	}{
		{
			desc:   "empty dataset",
			params: trainer.NewLogisticParams(3, 42),
			ds:     trainer.Dataset{},
			err:    trainer.ErrEmptyDataset,
		},
		{
			desc:   "bad parameter layout",
			params: model.ParameterSet{{1, 2, 3}},
			ds:     trainer.Dataset{Features: [][]float64{{1, 2, 3}}, Labels: []float64{1}},
			err:    trainer.ErrBadParams,
		},
		{
			desc:   "ragged rows",
			params: trainer.NewLogisticParams(3, 42),
			ds:     trainer.Dataset{Features: [][]float64{{1, 2, 3}, {1}}, Labels: []float64{1, 0}},
			err:    trainer.ErrMalformedDataset,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			_, _, _, err := l.Train(ctx, tc.params, tc.ds)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestTrainHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(4))
	ds := separableDataset(rng, 50, 3)
	l := trainer.NewLogistic(trainer.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := l.Train(ctx, trainer.NewLogisticParams(3, 42), ds)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateMetricRanges(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(5))
	ds := separableDataset(rng, 150, 5)
	params := trainer.NewLogisticParams(5, 42)
	l := trainer.NewLogistic(trainer.Config{Epochs: 20, LearningRate: 0.5, BatchSize: 32})

	trained, _, _, err := l.Train(context.Background(), params, ds)
	require.NoError(t, err)

	metrics, err := l.Evaluate(context.Background(), trained, ds)
	require.NoError(t, err)

	for _, key := range []string{
		model.MetricAccuracy, model.MetricPrecision,
		model.MetricRecall, model.MetricF1, model.MetricAUC,
	} {
		require.Contains(t, metrics, key)
		assert.GreaterOrEqual(t, metrics[key], 0.0, key)
		assert.LessOrEqual(t, metrics[key], 1.0, key)
	}
	assert.NotContains(t, metrics, model.MetricLoss)
}

func TestEvaluateSingleClassAUCSentinel(t *testing.T) {
	t.Parallel()

	ds := trainer.Dataset{
		Features: [][]float64{{1, 0}, {0, 1}, {1, 1}},
		Labels:   []float64{0, 0, 0},
	}
	l := trainer.NewLogistic(trainer.DefaultConfig())

	metrics, err := l.Evaluate(context.Background(), trainer.NewLogisticParams(2, 42), ds)
	require.NoError(t, err)

	assert.Equal(t, 0.0, metrics[model.MetricAUC])
}

func TestPredict(t *testing.T) {
	t.Parallel()

	l := trainer.NewLogistic(trainer.DefaultConfig())
	params := model.ParameterSet{{1, -1}, {0}}

	score, err := l.Predict(context.Background(), params, []float64{3, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-12)

	_, err = l.Predict(context.Background(), params, []float64{1})
	assert.ErrorIs(t, err, trainer.ErrMalformedDataset)
}
