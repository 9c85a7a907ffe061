package fedavg_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/pkg/fedavg"
)

const tolerance = 1e-12

func scalarParams(v float64) model.ParameterSet {
	return model.ParameterSet{{v}}
}

func TestCombineWeightedAverage(t *testing.T) {
	t.Parallel()

	agg := fedavg.New()

	got, err := agg.Combine([]fedavg.Update{
		{Params: scalarParams(2.0), NumSamples: 10},
		{Params: scalarParams(4.0), NumSamples: 30},
	})
	require.NoError(t, err)

	// (10*2.0 + 30*4.0) / 40 = 3.5, not the unweighted mean 3.0.
	assert.InDelta(t, 3.5, got[0][0], tolerance)
}

func TestCombineThreeHospitalScenario(t *testing.T) {
	t.Parallel()

	agg := fedavg.New()

	// Each node reports its node-index+1 as every parameter value.
	updates := []fedavg.Update{
		{Params: model.ParameterSet{{1, 1, 1}, {1}}, NumSamples: 100},
		{Params: model.ParameterSet{{2, 2, 2}, {2}}, NumSamples: 100},
		{Params: model.ParameterSet{{3, 3, 3}, {3}}, NumSamples: 200},
	}

	got, err := agg.Combine(updates)
	require.NoError(t, err)

	// (1*100 + 2*100 + 3*200) / 400 = 2.25 elementwise.
	for i := range got {
		for k := range got[i] {
			assert.InDelta(t, 2.25, got[i][k], tolerance)
		}
	}
}

func TestCombineOrderIndependence(t *testing.T) {
	t.Parallel()

	agg := fedavg.New()
	rng := rand.New(rand.NewSource(7))

	updates := make([]fedavg.Update, 5)
	for i := range updates {
		params := model.ParameterSet{make([]float64, 8), {rng.Float64()}}
		for k := range params[0] {
			params[0][k] = rng.NormFloat64()
		}
		updates[i] = fedavg.Update{Params: params, NumSamples: 10 + rng.Intn(500)}
	}

	want, err := agg.Combine(updates)
	require.NoError(t, err)

	for trial := 0; trial < 10; trial++ {
		shuffled := make([]fedavg.Update, len(updates))
		copy(shuffled, updates)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got, err := agg.Combine(shuffled)
		require.NoError(t, err)
		for i := range want {
			for k := range want[i] {
				assert.InDelta(t, want[i][k], got[i][k], 1e-9)
			}
		}
	}
}

func TestCombineSingleNodeIdentity(t *testing.T) {
	t.Parallel()

	agg := fedavg.New()
	params := model.ParameterSet{{0.25, -1.5, 3.75}, {0.5}}

	got, err := agg.Combine([]fedavg.Update{{Params: params, NumSamples: 17}})
	require.NoError(t, err)

	for i := range params {
		for k := range params[i] {
			assert.InDelta(t, params[i][k], got[i][k], tolerance)
		}
	}
}

func TestCombineDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	agg := fedavg.New()
	a := scalarParams(2.0)
	b := scalarParams(4.0)

	_, err := agg.Combine([]fedavg.Update{
		{Params: a, NumSamples: 1},
		{Params: b, NumSamples: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, a[0][0])
	assert.Equal(t, 4.0, b[0][0])
}

func TestCombineErrors(t *testing.T) {
	t.Parallel()

	agg := fedavg.New()

	cases := []struct {
		desc    string
		updates []fedavg.Update
		err     error
	}{
		{
			desc:    "no updates",
			updates: nil,
			err:     fedavg.ErrNoUpdates,
		},
		{
			desc: "zero total samples",
			updates: []fedavg.Update{
				{Params: scalarParams(1), NumSamples: 0},
				{Params: scalarParams(2), NumSamples: 0},
			},
			err: fedavg.ErrZeroSamples,
		},
		{
			desc: "negative sample count",
			updates: []fedavg.Update{
				{Params: scalarParams(1), NumSamples: -5},
			},
			err: fedavg.ErrNegativeSamples,
		},
		{
			desc: "arity mismatch",
			updates: []fedavg.Update{
				{Params: model.ParameterSet{{1}, {2}}, NumSamples: 1},
				{Params: model.ParameterSet{{1}}, NumSamples: 1},
			},
			err: fedavg.ErrShapeMismatch,
		},
		{
			desc: "layer shape mismatch",
			updates: []fedavg.Update{
				{Params: model.ParameterSet{{1, 2}}, NumSamples: 1},
				{Params: model.ParameterSet{{1, 2, 3}}, NumSamples: 1},
			},
			err: fedavg.ErrShapeMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			_, err := agg.Combine(tc.updates)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestCombineMetrics(t *testing.T) {
	t.Parallel()

	agg := fedavg.New()

	got, err := agg.CombineMetrics([]fedavg.MetricsUpdate{
		{Metrics: model.Metrics{model.MetricLoss: 0.8, model.MetricAccuracy: 0.6}, NumSamples: 100},
		{Metrics: model.Metrics{model.MetricLoss: 0.4, model.MetricAccuracy: 0.9}, NumSamples: 300},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, got[model.MetricLoss], tolerance)
	assert.InDelta(t, 0.825, got[model.MetricAccuracy], tolerance)
}

func TestCombineMetricsKeyMismatch(t *testing.T) {
	t.Parallel()

	agg := fedavg.New()

	_, err := agg.CombineMetrics([]fedavg.MetricsUpdate{
		{Metrics: model.Metrics{model.MetricLoss: 0.8}, NumSamples: 10},
		{Metrics: model.Metrics{model.MetricAccuracy: 0.9}, NumSamples: 10},
	})
	assert.ErrorIs(t, err, fedavg.ErrMetricKeys)
}
