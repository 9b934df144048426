package postgres

import (
	"context"

	"samplemeta/domain/core"
	"samplemeta/domain/subject"
	"samplemeta/models"
	"samplemeta/ports"

	"github.com/jmoiron/sqlx"
)

// SubjectRepositoryImpl implements SubjectRepository for PostgreSQL
type SubjectRepositoryImpl struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new PostgreSQL subject repository
func NewSubjectRepository(db *sqlx.DB) ports.SubjectRepository {
	return &SubjectRepositoryImpl{db: db}
}

// CreateSubjects inserts committed roster records in one transaction
func (r *SubjectRepositoryImpl) CreateSubjects(ctx context.Context, subjects []subject.Subject) error {
	if len(subjects) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range subjects {
		row, err := models.NewSubject(s)
		if err != nil {
			return err
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO subjects (id, experiment_id, group_name, headers, fields, created_at)
			VALUES (:id, :experiment_id, :group_name, :headers, :fields, :created_at)
		`, row)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListByExperiment returns the subjects of an experiment in commit order
func (r *SubjectRepositoryImpl) ListByExperiment(ctx context.Context, id core.ExperimentID) ([]subject.Subject, error) {
	uid, err := parseUUID(id.String())
	if err != nil {
		return nil, err
	}

	var rows []models.Subject
	err = r.db.SelectContext(ctx, &rows, `
		SELECT id, experiment_id, group_name, headers, fields, created_at
		FROM subjects
		WHERE experiment_id = $1
		ORDER BY created_at, id
	`, uid)
	if err != nil {
		return nil, err
	}

	out := make([]subject.Subject, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
