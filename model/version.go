package model

import "time"

// Version identifies one persisted checkpoint of the global parameters.
// Versions are monotonically increasing and never reused or overwritten.
type Version struct {
	Version   int       `json:"version"`
	Ref       string    `json:"ref"`
	CreatedAt time.Time `json:"created_at"`
}

// Prediction is one served risk prediction, recorded for the stats API.
type Prediction struct {
	ID           string    `json:"id"`
	RiskScore    float64   `json:"risk_score"`
	RiskCategory string    `json:"risk_category"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	RiskCategoryHigh = "High Risk"
	RiskCategoryLow  = "Low Risk"
)

// Categorize maps a risk score to its display category at the 0.5 cutoff.
func Categorize(score float64) string {
	if score > 0.5 {
		return RiskCategoryHigh
	}

	return RiskCategoryLow
}
