package ports

import (
	"context"

	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	"samplemeta/domain/subject"
)

// ExperimentRepository stores experiments and their imported group data.
type ExperimentRepository interface {
	Create(ctx context.Context, exp *experiment.Experiment) error
	GetByID(ctx context.Context, id core.ExperimentID) (*experiment.Experiment, error)

	// SaveImport writes every group/category/label/value of a successful
	// result and the independent variables, replacing any earlier import,
	// in one transaction.
	SaveImport(ctx context.Context, id core.ExperimentID, result *experiment.ImportResult) error

	// GroupData reads back the stored values of an experiment.
	GroupData(ctx context.Context, id core.ExperimentID) (experiment.Data, error)
}

// SubjectRepository stores committed roster records.
type SubjectRepository interface {
	CreateSubjects(ctx context.Context, subjects []subject.Subject) error
	ListByExperiment(ctx context.Context, id core.ExperimentID) ([]subject.Subject, error)
}
