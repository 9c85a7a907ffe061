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

func TestGaussianNoiseShapeAndPassthrough(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(6))
	ds := separableDataset(rng, 100, 4)
	params := trainer.NewLogisticParams(4, 42)

	base := trainer.NewLogistic(trainer.DefaultConfig())
	noisy := trainer.WithGaussianNoise(base, trainer.DefaultPrivacyConfig(), rand.NewSource(99))

	plainParams, plainSamples, plainMetrics, err := base.Train(context.Background(), params, ds)
	require.NoError(t, err)
	noisyParams, noisySamples, noisyMetrics, err := noisy.Train(context.Background(), params, ds)
	require.NoError(t, err)

	assert.True(t, params.SameShape(noisyParams))
	assert.Equal(t, plainSamples, noisySamples)
	assert.Equal(t, plainMetrics, noisyMetrics)
	assert.NotEqual(t, plainParams, noisyParams)
}

func TestGaussianNoiseSeededDeterminism(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	ds := separableDataset(rng, 60, 3)
	params := trainer.NewLogisticParams(3, 42)
	cfg := trainer.DefaultPrivacyConfig()

	first, _, _, err := trainer.WithGaussianNoise(
		trainer.NewLogistic(trainer.DefaultConfig()), cfg, rand.NewSource(1),
	).Train(context.Background(), params, ds)
	require.NoError(t, err)

	second, _, _, err := trainer.WithGaussianNoise(
		trainer.NewLogistic(trainer.DefaultConfig()), cfg, rand.NewSource(1),
	).Train(context.Background(), params, ds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGaussianNoiseClipsLargeUpdates(t *testing.T) {
	t.Parallel()

	ds := trainer.Dataset{
		Features: [][]float64{{1, 1}},
		Labels:   []float64{1},
	}
	params := model.ParameterSet{{0, 0}, {0}}

	// Aggressive learning rate forces an update well past MaxNorm.
	base := trainer.NewLogistic(trainer.Config{Epochs: 100, LearningRate: 10, BatchSize: 1})
	cfg := trainer.PrivacyConfig{MaxNorm: 0.5, NoiseMultiplier: 0}
	noisy := trainer.WithGaussianNoise(base, cfg, rand.NewSource(1))

	got, _, _, err := noisy.Train(context.Background(), params, ds)
	require.NoError(t, err)

	var sqNorm float64
	for i := range got {
		for k := range got[i] {
			d := got[i][k] - params[i][k]
			sqNorm += d * d
		}
	}
	assert.InDelta(t, 0.25, sqNorm, 1e-9)
}

func TestGaussianNoisePropagatesTrainerErrors(t *testing.T) {
	t.Parallel()

	base := trainer.NewLogistic(trainer.DefaultConfig())
	noisy := trainer.WithGaussianNoise(base, trainer.DefaultPrivacyConfig(), rand.NewSource(1))

	_, _, _, err := noisy.Train(context.Background(), trainer.NewLogisticParams(2, 42), trainer.Dataset{})
	assert.ErrorIs(t, err, trainer.ErrEmptyDataset)
}
