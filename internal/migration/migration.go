package migration

import (
	"context"

	"samplemeta/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createExperimentsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create experiments table")
	}

	if err := r.createGroupDataTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create group_data table")
	}

	if err := r.createSubjectsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create subjects table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createExperimentsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS experiments (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			owner VARCHAR(255) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			group_names TEXT[] NOT NULL DEFAULT '{}',
			independent_variables JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createGroupDataTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS group_data (
			id UUID PRIMARY KEY,
			experiment_id UUID NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
			group_name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL,
			label VARCHAR(255) NOT NULL,
			value TEXT,
			UNIQUE (experiment_id, group_name, category, label)
		)
	`)
	return err
}

func (r *MigrationRunner) createSubjectsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS subjects (
			id UUID PRIMARY KEY,
			experiment_id UUID NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
			group_name VARCHAR(255),
			headers TEXT[] NOT NULL DEFAULT '{}',
			fields JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_group_data_experiment ON group_data(experiment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_subjects_experiment ON subjects(experiment_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_subjects_group ON subjects(experiment_id, group_name)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
