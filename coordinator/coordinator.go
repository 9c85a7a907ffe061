package coordinator

import (
	"context"
	"time"

	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/round"
)

// Service drives the federated round protocol and owns the global model
// state. It is logically single-threaded at round granularity: concurrent
// RunRound calls serialize, and no caller ever observes a half-updated
// global model.
type Service interface {
	// RunRound executes one full federated round: broadcast the global
	// parameters, train locally on every node, aggregate, evaluate
	// against the held-out set, and append the round record. A failure
	// anywhere before the record is durably appended leaves the
	// coordinator at the previous round with no observable change.
	RunRound(ctx context.Context) (round.Record, error)

	// RunRounds executes n sequential rounds; round k+1 consumes the
	// parameters produced by round k. Fails fast when n < 1. On a
	// mid-sequence failure the records of the rounds that committed are
	// returned alongside the error.
	RunRounds(ctx context.Context, n int) ([]round.Record, error)

	// EvaluateCurrent scores the current global parameters against the
	// held-out set without advancing the round counter.
	EvaluateCurrent(ctx context.Context) (model.Metrics, error)

	// Predict returns a risk score in [0,1] for one feature vector and
	// records the served prediction.
	Predict(ctx context.Context, features []float64) (model.Prediction, error)

	// History lists all committed round records in ascending order.
	History(ctx context.Context) ([]round.Record, error)

	// Stats reports lightweight runtime counters for the dashboard.
	Stats(ctx context.Context) (Stats, error)

	// SaveCheckpoint persists the current global parameters as a new
	// model version.
	SaveCheckpoint(ctx context.Context) (model.Version, error)

	ListVersions(ctx context.Context) ([]model.Version, error)
	GetVersion(ctx context.Context, version int) (model.Version, error)
	LatestVersion(ctx context.Context) (model.Version, error)

	// Round returns the number of the last committed round.
	Round() int
}

// Config carries construction-time settings for the coordinator.
type Config struct {
	// FeatureWidth is the model's configured input width. Every node
	// dataset and the held-out set must agree with it.
	FeatureWidth int

	// NodeTimeout bounds one node's local training per round. Zero
	// means no timeout. A node exceeding it fails the round, keeping
	// the all-or-nothing protocol.
	NodeTimeout time.Duration
}

// Stats is the lightweight runtime summary exposed to the dashboard.
type Stats struct {
	Rounds             int    `json:"training_rounds"`
	PredictionsServed  uint64 `json:"predictions_served"`
	LatestModelVersion int    `json:"latest_model_version"`
}
