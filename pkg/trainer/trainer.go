package trainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/artemis-health/artemis/model"
)

var (
	ErrEmptyDataset     = errors.New("dataset is empty")
	ErrMalformedDataset = errors.New("malformed dataset")
	ErrBadParams        = errors.New("unexpected parameter layout")
)

// LocalTrainer is the capability a hospital node uses to train on its
// private data. Implementations must not retain or mutate params; they
// return a freshly allocated updated set, the number of samples seen, and
// training-set metrics.
type LocalTrainer interface {
	Train(ctx context.Context, params model.ParameterSet, ds Dataset) (model.ParameterSet, int, model.Metrics, error)
}

// Evaluator scores a parameter set against a held-out dataset.
type Evaluator interface {
	Evaluate(ctx context.Context, params model.ParameterSet, ds Dataset) (model.Metrics, error)
}

// Predictor produces a single risk score in [0,1] for one feature vector.
type Predictor interface {
	Predict(ctx context.Context, params model.ParameterSet, features []float64) (float64, error)
}

// Dataset is an in-memory labeled dataset. Labels are 0 or 1.
type Dataset struct {
	Features [][]float64
	Labels   []float64
}

func (d Dataset) Len() int {
	return len(d.Features)
}

// Validate checks the dataset is non-empty, rectangular with the given
// feature width, and has one label per row.
func (d Dataset) Validate(width int) error {
	if d.Len() == 0 {
		return ErrEmptyDataset
	}
	if len(d.Labels) != len(d.Features) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrMalformedDataset, len(d.Features), len(d.Labels))
	}
	for i, row := range d.Features {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has width %d, want %d", ErrMalformedDataset, i, len(row), width)
		}
	}

	return nil
}
