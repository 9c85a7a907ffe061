package model

// Canonical metric keys. Training metrics carry Loss through F1; test
// metrics carry Accuracy through AUC.
const (
	MetricLoss      = "loss"
	MetricAccuracy  = "accuracy"
	MetricPrecision = "precision"
	MetricRecall    = "recall"
	MetricF1        = "f1"
	MetricAUC       = "auc"
)

// Metrics is a flat mapping of named numeric values describing one node's
// local result or a combined/global result. Treat as immutable once
// produced; use Clone before modifying.
type Metrics map[string]float64

func (m Metrics) Clone() Metrics {
	if m == nil {
		return nil
	}
	out := make(Metrics, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// SameKeys reports whether both metric sets name exactly the same fields.
// Combining metric sets with differing fields is a caller bug.
func (m Metrics) SameKeys(o Metrics) bool {
	if len(m) != len(o) {
		return false
	}
	for k := range m {
		if _, ok := o[k]; !ok {
			return false
		}
	}

	return true
}
