package fedavg

import (
	"fmt"

	"github.com/artemis-health/artemis/model"
)

// Update is one node's contribution to a round: its locally trained
// parameters and the number of samples they were trained on.
type Update struct {
	Params     model.ParameterSet
	NumSamples int
}

// MetricsUpdate pairs one node's local training metrics with its sample
// count, for the same weighting rule applied to scalar metrics.
type MetricsUpdate struct {
	Metrics    model.Metrics
	NumSamples int
}

// Aggregator combines per-node results into a global result. Combine is
// pure: inputs are never mutated and the output is freshly allocated.
type Aggregator interface {
	Combine(updates []Update) (model.ParameterSet, error)
	CombineMetrics(updates []MetricsUpdate) (model.Metrics, error)
}

// FedAvg is sample-size-weighted federated averaging: nodes with more data
// influence the global model proportionally more. The combination is
// commutative and associative up to floating-point rounding.
type FedAvg struct{}

func New() Aggregator {
	return &FedAvg{}
}

func (f *FedAvg) Combine(updates []Update) (model.ParameterSet, error) {
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	ref := updates[0].Params
	var totalSamples int64
	for _, u := range updates {
		if u.NumSamples < 0 {
			return nil, fmt.Errorf("%w: %d", ErrNegativeSamples, u.NumSamples)
		}
		if err := u.Params.Validate(ref); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
		}
		totalSamples += int64(u.NumSamples)
	}
	if totalSamples == 0 {
		return nil, ErrZeroSamples
	}

	out := make(model.ParameterSet, len(ref))
	for i := range ref {
		out[i] = make([]float64, len(ref[i]))
	}

	for _, u := range updates {
		weight := float64(u.NumSamples)
		for i, layer := range u.Params {
			for k, v := range layer {
				out[i][k] += v * weight
			}
		}
	}

	norm := float64(totalSamples)
	for i := range out {
		for k := range out[i] {
			out[i][k] /= norm
		}
	}

	return out, nil
}

func (f *FedAvg) CombineMetrics(updates []MetricsUpdate) (model.Metrics, error) {
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	ref := updates[0].Metrics
	var totalSamples int64
	for _, u := range updates {
		if u.NumSamples < 0 {
			return nil, fmt.Errorf("%w: %d", ErrNegativeSamples, u.NumSamples)
		}
		if !u.Metrics.SameKeys(ref) {
			return nil, ErrMetricKeys
		}
		totalSamples += int64(u.NumSamples)
	}
	if totalSamples == 0 {
		return nil, ErrZeroSamples
	}

	out := make(model.Metrics, len(ref))
	for _, u := range updates {
		weight := float64(u.NumSamples)
		for k, v := range u.Metrics {
			out[k] += v * weight
		}
	}

	norm := float64(totalSamples)
	for k := range out {
		out[k] /= norm
	}

	return out, nil
}
