package subject

import (
	"time"

	"samplemeta/domain/core"
)

// Subject is a committed roster record, attached to a group of the
// experiment or, when Group is empty, to the experiment as a whole.
type Subject struct {
	ID           core.ID           `json:"id"`
	ExperimentID core.ExperimentID `json:"experiment_id"`
	Group        string            `json:"group,omitempty"`
	Fields       Record            `json:"fields"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Attach turns selected records into subjects of one experiment and group.
func Attach(experimentID core.ExperimentID, group string, records []Record) []Subject {
	now := time.Now().UTC()
	out := make([]Subject, len(records))
	for i, rec := range records {
		out[i] = Subject{
			ID:           core.NewID(),
			ExperimentID: experimentID,
			Group:        group,
			Fields:       rec,
			CreatedAt:    now,
		}
	}
	return out
}
