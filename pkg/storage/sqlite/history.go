package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/pkg/storage"
	"github.com/artemis-health/artemis/round"
)

type historyStore struct {
	db *Database
}

func NewHistoryStore(db *Database) storage.HistoryStore {
	return &historyStore{db: db}
}

type dbRecord struct {
	ID             int64           `db:"id"`
	Round          int             `db:"round"`
	TrainLoss      sql.NullFloat64 `db:"train_loss"`
	TrainAccuracy  sql.NullFloat64 `db:"train_accuracy"`
	TrainPrecision sql.NullFloat64 `db:"train_precision"`
	TrainRecall    sql.NullFloat64 `db:"train_recall"`
	TrainF1        sql.NullFloat64 `db:"train_f1"`
	TestAccuracy   sql.NullFloat64 `db:"test_accuracy"`
	TestPrecision  sql.NullFloat64 `db:"test_precision"`
	TestRecall     sql.NullFloat64 `db:"test_recall"`
	TestF1         sql.NullFloat64 `db:"test_f1"`
	TestAUC        sql.NullFloat64 `db:"test_auc"`
	CreatedAt      time.Time       `db:"created_at"`
}

func nullMetric(m model.Metrics, key string) sql.NullFloat64 {
	v, ok := m[key]

	return sql.NullFloat64{Float64: v, Valid: ok}
}

func setMetric(m model.Metrics, key string, v sql.NullFloat64) {
	if v.Valid {
		m[key] = v.Float64
	}
}

func (r *historyStore) Append(ctx context.Context, rec round.Record) error {
	var last sql.NullInt64
	if err := r.db.GetContext(ctx, &last, `SELECT MAX(round) FROM training_history`); err != nil {
		return fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	if last.Valid && rec.Round <= int(last.Int64) {
		return fmt.Errorf("%w: got round %d after %d", storage.ErrNonMonotonic, rec.Round, last.Int64)
	}

	query := `INSERT INTO training_history (
		round, train_loss, train_accuracy, train_precision, train_recall, train_f1,
		test_accuracy, test_precision, test_recall, test_f1, test_auc, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rec.Round,
		nullMetric(rec.Train, model.MetricLoss),
		nullMetric(rec.Train, model.MetricAccuracy),
		nullMetric(rec.Train, model.MetricPrecision),
		nullMetric(rec.Train, model.MetricRecall),
		nullMetric(rec.Train, model.MetricF1),
		nullMetric(rec.Test, model.MetricAccuracy),
		nullMetric(rec.Test, model.MetricPrecision),
		nullMetric(rec.Test, model.MetricRecall),
		nullMetric(rec.Test, model.MetricF1),
		nullMetric(rec.Test, model.MetricAUC),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	return nil
}

func (r *historyStore) List(ctx context.Context) ([]round.Record, error) {
	query := `SELECT id, round, train_loss, train_accuracy, train_precision, train_recall, train_f1,
		test_accuracy, test_precision, test_recall, test_f1, test_auc, created_at
		FROM training_history ORDER BY round ASC`

	var rows []dbRecord
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	records := make([]round.Record, 0, len(rows))
	for _, row := range rows {
		train := model.Metrics{}
		setMetric(train, model.MetricLoss, row.TrainLoss)
		setMetric(train, model.MetricAccuracy, row.TrainAccuracy)
		setMetric(train, model.MetricPrecision, row.TrainPrecision)
		setMetric(train, model.MetricRecall, row.TrainRecall)
		setMetric(train, model.MetricF1, row.TrainF1)

		test := model.Metrics{}
		setMetric(test, model.MetricAccuracy, row.TestAccuracy)
		setMetric(test, model.MetricPrecision, row.TestPrecision)
		setMetric(test, model.MetricRecall, row.TestRecall)
		setMetric(test, model.MetricF1, row.TestF1)
		setMetric(test, model.MetricAUC, row.TestAUC)

		records = append(records, round.Record{
			Round:     row.Round,
			Train:     train,
			Test:      test,
			CreatedAt: row.CreatedAt,
		})
	}

	return records, nil
}
