package sqlite

import (
	"context"
	"fmt"

	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/pkg/storage"
)

type predictionStore struct {
	db *Database
}

func NewPredictionStore(db *Database) storage.PredictionStore {
	return &predictionStore{db: db}
}

func (r *predictionStore) Record(ctx context.Context, p model.Prediction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO predictions (id, risk_score, risk_category, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.RiskScore, p.RiskCategory, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	return nil
}

func (r *predictionStore) Count(ctx context.Context) (uint64, error) {
	var count uint64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM predictions`); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return count, nil
}
