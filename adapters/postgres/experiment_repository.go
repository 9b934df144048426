package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	"samplemeta/models"
	"samplemeta/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ExperimentRepositoryImpl implements ExperimentRepository for PostgreSQL
type ExperimentRepositoryImpl struct {
	db *sqlx.DB
}

// NewExperimentRepository creates a new PostgreSQL experiment repository
func NewExperimentRepository(db *sqlx.DB) ports.ExperimentRepository {
	return &ExperimentRepositoryImpl{db: db}
}

// Create inserts a new experiment
func (r *ExperimentRepositoryImpl) Create(ctx context.Context, exp *experiment.Experiment) error {
	row, err := models.NewExperiment(exp)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO experiments (id, name, owner, description, group_names, independent_variables, created_at)
		VALUES (:id, :name, :owner, :description, :group_names, :independent_variables, :created_at)
	`, row)
	return err
}

// GetByID loads one experiment
func (r *ExperimentRepositoryImpl) GetByID(ctx context.Context, id core.ExperimentID) (*experiment.Experiment, error) {
	uid, err := parseUUID(id.String())
	if err != nil {
		return nil, err
	}

	var row models.Experiment
	err = r.db.GetContext(ctx, &row, `
		SELECT id, name, owner, description, group_names, independent_variables, created_at
		FROM experiments
		WHERE id = $1
	`, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrExperimentNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// SaveImport replaces the stored sheet values of an experiment with those of
// a successful import and records its independent variables.
func (r *ExperimentRepositoryImpl) SaveImport(ctx context.Context, id core.ExperimentID, result *experiment.ImportResult) error {
	if result == nil || !result.Success() {
		return core.ErrNotCommittable
	}
	uid, err := parseUUID(id.String())
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE experiments SET independent_variables = $2 WHERE id = $1
	`, uid, models.NewValueList(result.IndependentVariables()))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", core.ErrExperimentNotFound, id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM group_data WHERE experiment_id = $1`, uid); err != nil {
		return err
	}

	var insertErr error
	result.Data().Walk(func(g experiment.GroupName, cat experiment.Category, label experiment.Label, v experiment.Value) {
		if insertErr != nil {
			return
		}
		_, insertErr = tx.ExecContext(ctx, `
			INSERT INTO group_data (id, experiment_id, group_name, category, label, value)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New(), uid, string(g), string(cat), string(label), v)
	})
	if insertErr != nil {
		return insertErr
	}

	return tx.Commit()
}

// GroupData reads back the stored sheet values of an experiment
func (r *ExperimentRepositoryImpl) GroupData(ctx context.Context, id core.ExperimentID) (experiment.Data, error) {
	uid, err := parseUUID(id.String())
	if err != nil {
		return nil, err
	}

	var rows []models.GroupData
	err = r.db.SelectContext(ctx, &rows, `
		SELECT id, experiment_id, group_name, category, label, value
		FROM group_data
		WHERE experiment_id = $1
		ORDER BY group_name, category, label
	`, uid)
	if err != nil {
		return nil, err
	}

	data := make(experiment.Data)
	for _, row := range rows {
		data.Set(experiment.GroupName(row.GroupName), experiment.Category(row.Category), experiment.Label(row.Label), row.Value)
	}
	return data, nil
}

func parseUUID(s string) (uuid.UUID, error) {
	uid, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", core.ErrNotFound, s)
	}
	return uid, nil
}
