package models

import (
	"fmt"
	"time"

	"samplemeta/domain/core"
	"samplemeta/domain/experiment"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Experiment is a row of the experiments table
type Experiment struct {
	ID                   uuid.UUID      `db:"id"`
	Name                 string         `db:"name"`
	Owner                string         `db:"owner"`
	Description          string         `db:"description"`
	GroupNames           pq.StringArray `db:"group_names"`
	IndependentVariables ValueList      `db:"independent_variables"`
	CreatedAt            time.Time      `db:"created_at"`
}

// GroupData is one group/category/label/value row of an imported sheet
type GroupData struct {
	ID           uuid.UUID        `db:"id"`
	ExperimentID uuid.UUID        `db:"experiment_id"`
	GroupName    string           `db:"group_name"`
	Category     string           `db:"category"`
	Label        string           `db:"label"`
	Value        experiment.Value `db:"value"`
}

// NewExperiment converts a domain experiment into its row.
func NewExperiment(exp *experiment.Experiment) (*Experiment, error) {
	id, err := uuid.Parse(exp.ID.String())
	if err != nil {
		return nil, fmt.Errorf("invalid experiment id %q: %w", exp.ID, err)
	}
	return &Experiment{
		ID:                   id,
		Name:                 exp.Descriptor.Name,
		Owner:                exp.Descriptor.Owner,
		Description:          exp.Descriptor.Description,
		GroupNames:           pq.StringArray(exp.Descriptor.GroupStrings()),
		IndependentVariables: NewValueList(exp.Independent),
		CreatedAt:            exp.CreatedAt,
	}, nil
}

// ToDomain converts the row back into a domain experiment.
func (e *Experiment) ToDomain() *experiment.Experiment {
	return &experiment.Experiment{
		ID:          core.ExperimentID(e.ID.String()),
		Descriptor:  experiment.NewDescriptor(e.Name, e.Owner, e.Description, e.GroupNames...),
		Independent: e.IndependentVariables.ToDomain(),
		CreatedAt:   e.CreatedAt,
	}
}

// NewValueList converts independent variables for storage.
func NewValueList(iv experiment.IndependentVariables) ValueList {
	out := make(ValueList, len(iv))
	for label, values := range iv {
		list := make([]*string, len(values))
		for i, v := range values {
			if !v.IsNull() {
				text := v.Text()
				list[i] = &text
			}
		}
		out[string(label)] = list
	}
	return out
}

// ToDomain converts stored independent variables back.
func (v ValueList) ToDomain() experiment.IndependentVariables {
	out := make(experiment.IndependentVariables, len(v))
	for label, list := range v {
		values := make([]experiment.Value, len(list))
		for i, s := range list {
			if s == nil {
				values[i] = experiment.NullValue()
			} else {
				values[i] = experiment.TextValue(*s)
			}
		}
		out[experiment.Label(label)] = values
	}
	return out
}
