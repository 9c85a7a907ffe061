package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassificationMetricsZeroDenominators(t *testing.T) {
	t.Parallel()

	// All-negative labels, all-negative predictions: precision, recall
	// and F1 all have zero denominators and must be 0, not an error.
	labels := []float64{0, 0, 0, 0}
	predictions := []float64{0.1, 0.2, 0.3, 0.4}

	accuracy, precision, recall, f1 := classificationMetrics(labels, predictions)

	assert.Equal(t, 1.0, accuracy)
	assert.Equal(t, 0.0, precision)
	assert.Equal(t, 0.0, recall)
	assert.Equal(t, 0.0, f1)
}

func TestClassificationMetricsKnownValues(t *testing.T) {
	t.Parallel()

	// tp=2, fp=1, fn=1, tn=1.
	labels := []float64{1, 1, 1, 0, 0}
	predictions := []float64{0.9, 0.8, 0.2, 0.7, 0.1}

	accuracy, precision, recall, f1 := classificationMetrics(labels, predictions)

	assert.InDelta(t, 0.6, accuracy, 1e-12)
	assert.InDelta(t, 2.0/3.0, precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, recall, 1e-12)
	assert.InDelta(t, 2.0/3.0, f1, 1e-12)
}

func TestAUC(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc   string
		labels []float64
		scores []float64
		want   float64
	}{
		{
			desc:   "perfect separation",
			labels: []float64{0, 0, 1, 1},
			scores: []float64{0.1, 0.2, 0.8, 0.9},
			want:   1.0,
		},
		{
			desc:   "perfectly inverted",
			labels: []float64{1, 1, 0, 0},
			scores: []float64{0.1, 0.2, 0.8, 0.9},
			want:   0.0,
		},
		{
			desc:   "single class sentinel",
			labels: []float64{1, 1, 1},
			scores: []float64{0.2, 0.5, 0.9},
			want:   0.0,
		},
		{
			desc:   "empty",
			labels: nil,
			scores: nil,
			want:   0.0,
		},
		{
			desc:   "all scores tied",
			labels: []float64{0, 1, 0, 1},
			scores: []float64{0.5, 0.5, 0.5, 0.5},
			want:   0.5,
		},
		{
			desc:   "one misranked pair",
			labels: []float64{0, 1, 0, 1},
			scores: []float64{0.1, 0.3, 0.35, 0.8},
			// 3 of 4 positive/negative pairs correctly ordered.
			want: 0.75,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.want, AUC(tc.labels, tc.scores), 1e-12)
		})
	}
}
