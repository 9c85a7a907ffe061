package trainer

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/artemis-health/artemis/model"
)

// PrivacyConfig controls the differential-privacy decorator. MaxNorm caps
// the L2 norm of the parameter update a node reports; NoiseMultiplier
// scales the Gaussian noise added on top of the clipped update.
type PrivacyConfig struct {
	MaxNorm         float64
	NoiseMultiplier float64
}

func DefaultPrivacyConfig() PrivacyConfig {
	return PrivacyConfig{
		MaxNorm:         1.0,
		NoiseMultiplier: 1.1,
	}
}

type noisyTrainer struct {
	next LocalTrainer
	cfg  PrivacyConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// WithGaussianNoise decorates a LocalTrainer so that the update it reports
// (trained minus base parameters) is L2-clipped to cfg.MaxNorm and
// perturbed with Gaussian noise of standard deviation
// cfg.NoiseMultiplier * cfg.MaxNorm / sampleCount. The decorated trainer
// is otherwise transparent: sample counts and metrics pass through.
func WithGaussianNoise(next LocalTrainer, cfg PrivacyConfig, src rand.Source) LocalTrainer {
	return &noisyTrainer{
		next: next,
		cfg:  cfg,
		rng:  rand.New(src),
	}
}

func (nt *noisyTrainer) Train(ctx context.Context, params model.ParameterSet, ds Dataset) (model.ParameterSet, int, model.Metrics, error) {
	trained, samples, metrics, err := nt.next.Train(ctx, params, ds)
	if err != nil {
		return nil, 0, nil, err
	}

	var sqNorm float64
	for i := range trained {
		for k := range trained[i] {
			d := trained[i][k] - params[i][k]
			sqNorm += d * d
		}
	}
	scale := 1.0
	if norm := math.Sqrt(sqNorm); norm > nt.cfg.MaxNorm {
		scale = nt.cfg.MaxNorm / norm
	}
	sigma := nt.cfg.NoiseMultiplier * nt.cfg.MaxNorm / float64(samples)

	nt.mu.Lock()
	defer nt.mu.Unlock()

	out := params.Clone()
	for i := range trained {
		for k := range trained[i] {
			delta := (trained[i][k] - params[i][k]) * scale
			out[i][k] += delta + nt.rng.NormFloat64()*sigma
		}
	}

	return out, samples, metrics, nil
}
