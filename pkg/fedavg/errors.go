package fedavg

import "errors"

var (
	ErrNoUpdates       = errors.New("no updates provided for aggregation")
	ErrShapeMismatch   = errors.New("update parameter shapes do not match")
	ErrZeroSamples     = errors.New("total sample count is zero")
	ErrNegativeSamples = errors.New("negative sample count")
	ErrMetricKeys      = errors.New("updates carry differing metric fields")
)
