package models

import (
	"database/sql"
	"fmt"
	"time"

	"samplemeta/domain/core"
	"samplemeta/domain/subject"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Subject is a row of the subjects table. JSONB does not keep key order, so
// the header order is stored next to the fields.
type Subject struct {
	ID           uuid.UUID      `db:"id"`
	ExperimentID uuid.UUID      `db:"experiment_id"`
	GroupName    sql.NullString `db:"group_name"`
	Headers      pq.StringArray `db:"headers"`
	Fields       JSONBMap       `db:"fields"`
	CreatedAt    time.Time      `db:"created_at"`
}

// NewSubject converts a committed subject into its row.
func NewSubject(s subject.Subject) (*Subject, error) {
	id, err := uuid.Parse(s.ID.String())
	if err != nil {
		return nil, fmt.Errorf("invalid subject id %q: %w", s.ID, err)
	}
	expID, err := uuid.Parse(s.ExperimentID.String())
	if err != nil {
		return nil, fmt.Errorf("invalid experiment id %q: %w", s.ExperimentID, err)
	}
	return &Subject{
		ID:           id,
		ExperimentID: expID,
		GroupName:    sql.NullString{String: s.Group, Valid: s.Group != ""},
		Headers:      pq.StringArray(s.Fields.Headers()),
		Fields:       JSONBMap(s.Fields.Map()),
		CreatedAt:    s.CreatedAt,
	}, nil
}

// ToDomain converts the row back into a subject.
func (s *Subject) ToDomain() subject.Subject {
	values := make([]string, len(s.Headers))
	for i, h := range s.Headers {
		values[i] = s.Fields[h]
	}
	return subject.Subject{
		ID:           core.ID(s.ID.String()),
		ExperimentID: core.ExperimentID(s.ExperimentID.String()),
		Group:        s.GroupName.String,
		Fields:       subject.NewRecord(s.Headers, values),
		CreatedAt:    s.CreatedAt,
	}
}
