package hospital_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artemis-health/artemis/hospital"
	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/pkg/trainer"
)

// echoTrainer returns the parameters it was given plus a fixed offset, so
// tests can observe exactly what the node handed it.
type echoTrainer struct {
	offset float64
	seen   model.ParameterSet
}

func (e *echoTrainer) Train(_ context.Context, params model.ParameterSet, ds trainer.Dataset) (model.ParameterSet, int, model.Metrics, error) {
	e.seen = params
	out := params.Clone()
	for i := range out {
		for k := range out[i] {
			out[i][k] += e.offset
		}
	}

	return out, ds.Len(), model.Metrics{model.MetricLoss: 0.1}, nil
}

func testDataset() trainer.Dataset {
	return trainer.Dataset{
		Features: [][]float64{{1, 2}, {3, 4}, {5, 6}},
		Labels:   []float64{0, 1, 0},
	}
}

func TestNewRejectsEmptyDataset(t *testing.T) {
	t.Parallel()

	_, err := hospital.New(0, "mercy", &echoTrainer{}, trainer.Dataset{})
	assert.ErrorIs(t, err, trainer.ErrEmptyDataset)
}

func TestNewGeneratesNameWhenMissing(t *testing.T) {
	t.Parallel()

	n, err := hospital.New(0, "", &echoTrainer{}, testDataset())
	require.NoError(t, err)
	assert.NotEmpty(t, n.Name())
}

func TestLocalTrainRequiresInitialize(t *testing.T) {
	t.Parallel()

	n, err := hospital.New(0, "mercy", &echoTrainer{}, testDataset())
	require.NoError(t, err)

	_, _, _, err = n.LocalTrain(context.Background())
	assert.ErrorIs(t, err, hospital.ErrNotInitialized)
}

func TestLocalTrainConsumesWorkingCopy(t *testing.T) {
	t.Parallel()

	n, err := hospital.New(0, "mercy", &echoTrainer{offset: 1}, testDataset())
	require.NoError(t, err)
	global := model.ParameterSet{{1, 2}, {0}}

	require.NoError(t, n.Initialize(global))

	params, samples, metrics, err := n.LocalTrain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ParameterSet{{2, 3}, {1}}, params)
	assert.Equal(t, 3, samples)
	assert.Contains(t, metrics, model.MetricLoss)

	// A second call without re-initialization must fail.
	_, _, _, err = n.LocalTrain(context.Background())
	assert.ErrorIs(t, err, hospital.ErrNotInitialized)
}

func TestInitializeDeepCopiesGlobalParams(t *testing.T) {
	t.Parallel()

	tr := &echoTrainer{}
	n, err := hospital.New(0, "mercy", tr, testDataset())
	require.NoError(t, err)

	global := model.ParameterSet{{1, 2}, {3}}
	require.NoError(t, n.Initialize(global))

	// Mutating the caller's copy after broadcast must not leak into the
	// node's working set.
	global[0][0] = 99

	_, _, _, err = n.LocalTrain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ParameterSet{{1, 2}, {3}}, tr.seen)
}

func TestInitializeIsIdempotent(t *testing.T) {
	t.Parallel()

	n, err := hospital.New(0, "mercy", &echoTrainer{}, testDataset())
	require.NoError(t, err)

	require.NoError(t, n.Initialize(model.ParameterSet{{1}}))
	require.NoError(t, n.Initialize(model.ParameterSet{{2}}))

	params, _, _, err := n.LocalTrain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ParameterSet{{2}}, params)
}

func TestInitializeRejectsEmptyParams(t *testing.T) {
	t.Parallel()

	n, err := hospital.New(0, "mercy", &echoTrainer{}, testDataset())
	require.NoError(t, err)

	assert.ErrorIs(t, n.Initialize(nil), hospital.ErrEmptyParams)
}
