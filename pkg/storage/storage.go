package storage

import (
	"context"
	"errors"

	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/round"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNonMonotonic = errors.New("round records must be appended in increasing round order")
	ErrNoVersions   = errors.New("no model versions available")
)

// HistoryStore is the durable append-only log of committed rounds. The
// coordinator writes; dashboards and the CLI read.
type HistoryStore interface {
	Append(ctx context.Context, rec round.Record) error
	List(ctx context.Context) ([]round.Record, error)
}

// CheckpointStore persists snapshots of the global parameters. Versions
// increase monotonically and are never reused or overwritten.
type CheckpointStore interface {
	Save(ctx context.Context, params model.ParameterSet) (model.Version, error)
	Get(ctx context.Context, version int) (model.Version, error)
	Latest(ctx context.Context) (model.Version, error)
	List(ctx context.Context) ([]model.Version, error)
	Load(ctx context.Context, version int) (model.ParameterSet, error)
}

// PredictionStore records served predictions for the stats surface.
type PredictionStore interface {
	Record(ctx context.Context, p model.Prediction) error
	Count(ctx context.Context) (uint64, error)
}
