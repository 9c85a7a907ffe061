package sqlite

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/artemis-health/artemis/pkg/storage"
)

var (
	ErrDBConnection = errors.New("database connection error")
	ErrDBQuery      = errors.New("database query error")
	ErrDBScan       = errors.New("database scan error")
	ErrCreate       = errors.New("create error")
)

// Stores bundles the sqlite-backed implementations over one database.
type Stores struct {
	History     storage.HistoryStore
	Checkpoints storage.CheckpointStore
	Predictions storage.PredictionStore
}

func NewStores(db *Database) *Stores {
	return &Stores{
		History:     NewHistoryStore(db),
		Checkpoints: NewCheckpointStore(db),
		Predictions: NewPredictionStore(db),
	}
}

type Database struct {
	*sqlx.DB
}

func NewDatabase(path string) (*Database, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBConnection, err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	database := &Database{DB: db}

	if err := database.Migrate(); err != nil {
		return nil, err
	}

	return database, nil
}

func (db *Database) Migrate() error {
	migrations := &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "1_create_tables",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS training_history (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						round INTEGER NOT NULL UNIQUE,
						train_loss REAL,
						train_accuracy REAL,
						train_precision REAL,
						train_recall REAL,
						train_f1 REAL,
						test_accuracy REAL,
						test_precision REAL,
						test_recall REAL,
						test_f1 REAL,
						test_auc REAL,
						created_at TIMESTAMP NOT NULL
					)`,
					`CREATE TABLE IF NOT EXISTS predictions (
						id TEXT PRIMARY KEY,
						risk_score REAL NOT NULL,
						risk_category TEXT NOT NULL,
						created_at TIMESTAMP NOT NULL
					)`,
					`CREATE TABLE IF NOT EXISTS model_versions (
						version INTEGER PRIMARY KEY,
						params BLOB NOT NULL,
						created_at TIMESTAMP NOT NULL
					)`,
				},
				Down: []string{
					`DROP TABLE IF EXISTS training_history`,
					`DROP TABLE IF EXISTS predictions`,
					`DROP TABLE IF EXISTS model_versions`,
				},
			},
		},
	}

	if _, err := migrate.Exec(db.DB.DB, "sqlite3", migrations, migrate.Up); err != nil {
		return fmt.Errorf("%w: migration failed: %w", ErrDBConnection, err)
	}

	return nil
}
