package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/pkg/storage"
)

type checkpointStore struct {
	db *Database
}

func NewCheckpointStore(db *Database) storage.CheckpointStore {
	return &checkpointStore{db: db}
}

type dbVersion struct {
	Version   int       `db:"version"`
	Params    []byte    `db:"params"`
	CreatedAt time.Time `db:"created_at"`
}

func versionRef(version int) string {
	return fmt.Sprintf("sqlite://model_versions/%d", version)
}

func (r *checkpointStore) Save(ctx context.Context, params model.ParameterSet) (model.Version, error) {
	blob, err := json.Marshal(params)
	if err != nil {
		return model.Version{}, fmt.Errorf("%w: %w", ErrCreate, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Version{}, fmt.Errorf("%w: %w", ErrDBConnection, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var last sql.NullInt64
	if err := tx.GetContext(ctx, &last, `SELECT MAX(version) FROM model_versions`); err != nil {
		return model.Version{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	v := model.Version{
		Version:   int(last.Int64) + 1,
		CreatedAt: time.Now().UTC(),
	}
	v.Ref = versionRef(v.Version)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO model_versions (version, params, created_at) VALUES (?, ?, ?)`,
		v.Version, blob, v.CreatedAt,
	); err != nil {
		return model.Version{}, fmt.Errorf("%w: %w", ErrCreate, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Version{}, fmt.Errorf("%w: %w", ErrCreate, err)
	}

	return v, nil
}

func (r *checkpointStore) Get(ctx context.Context, version int) (model.Version, error) {
	var row dbVersion
	err := r.db.GetContext(ctx, &row,
		`SELECT version, params, created_at FROM model_versions WHERE version = ?`, version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Version{}, fmt.Errorf("%w: version %d", storage.ErrNotFound, version)
		}

		return model.Version{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return model.Version{
		Version:   row.Version,
		Ref:       versionRef(row.Version),
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *checkpointStore) Latest(ctx context.Context) (model.Version, error) {
	var row dbVersion
	err := r.db.GetContext(ctx, &row,
		`SELECT version, params, created_at FROM model_versions ORDER BY version DESC LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Version{}, storage.ErrNoVersions
		}

		return model.Version{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return model.Version{
		Version:   row.Version,
		Ref:       versionRef(row.Version),
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *checkpointStore) List(ctx context.Context) ([]model.Version, error) {
	var rows []dbVersion
	err := r.db.SelectContext(ctx, &rows,
		`SELECT version, params, created_at FROM model_versions ORDER BY version ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	versions := make([]model.Version, 0, len(rows))
	for _, row := range rows {
		versions = append(versions, model.Version{
			Version:   row.Version,
			Ref:       versionRef(row.Version),
			CreatedAt: row.CreatedAt,
		})
	}

	return versions, nil
}

func (r *checkpointStore) Load(ctx context.Context, version int) (model.ParameterSet, error) {
	var row dbVersion
	err := r.db.GetContext(ctx, &row,
		`SELECT version, params, created_at FROM model_versions WHERE version = ?`, version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: version %d", storage.ErrNotFound, version)
		}

		return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	var params model.ParameterSet
	if err := json.Unmarshal(row.Params, &params); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBScan, err)
	}

	return params, nil
}
