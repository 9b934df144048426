package experiment

import (
	"time"

	"samplemeta/domain/core"
)

// Experiment is a stored experiment: its descriptor and, once an import has
// been confirmed, the independent variables derived from it.
type Experiment struct {
	ID          core.ExperimentID    `json:"id"`
	Descriptor  Descriptor           `json:"descriptor"`
	Independent IndependentVariables `json:"independent_variables"`
	CreatedAt   time.Time            `json:"created_at"`
}

// New creates an experiment with a fresh id.
func New(d Descriptor) *Experiment {
	return &Experiment{
		ID:          core.ExperimentID(core.NewID()),
		Descriptor:  d,
		Independent: make(IndependentVariables),
		CreatedAt:   time.Now().UTC(),
	}
}
