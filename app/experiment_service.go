package app

import (
	"context"
	"io"
	"log"

	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	apperrors "samplemeta/internal/errors"
	"samplemeta/ports"
)

// ExperimentService creates and looks up experiments
type ExperimentService struct {
	experiments ports.ExperimentRepository
}

// NewExperimentService creates an experiment service
func NewExperimentService(experiments ports.ExperimentRepository) *ExperimentService {
	return &ExperimentService{experiments: experiments}
}

// Create validates and stores a new experiment
func (s *ExperimentService) Create(ctx context.Context, d experiment.Descriptor) (*experiment.Experiment, error) {
	if err := d.Validate(); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	exp := experiment.New(d)
	if err := s.experiments.Create(ctx, exp); err != nil {
		return nil, appError(err, "failed to create experiment")
	}
	log.Printf("[ExperimentService] created %s with %d groups", exp.ID, len(d.Groups))
	return exp, nil
}

// Get loads an experiment
func (s *ExperimentService) Get(ctx context.Context, id core.ExperimentID) (*experiment.Experiment, error) {
	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, appError(err, "failed to load experiment")
	}
	return exp, nil
}

// GroupData returns the confirmed sheet values of an experiment
func (s *ExperimentService) GroupData(ctx context.Context, id core.ExperimentID) (experiment.Data, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	data, err := s.experiments.GroupData(ctx, id)
	if err != nil {
		return nil, appError(err, "failed to load group data")
	}
	return data, nil
}

// TemplateService renders data-entry workbooks for stored experiments
type TemplateService struct {
	experiments ports.ExperimentRepository
	writer      ports.TemplateWriter
}

// NewTemplateService creates a template service
func NewTemplateService(experiments ports.ExperimentRepository, writer ports.TemplateWriter) *TemplateService {
	return &TemplateService{experiments: experiments, writer: writer}
}

// Write renders the template of experiment id into w
func (s *TemplateService) Write(ctx context.Context, id core.ExperimentID, w io.Writer) (*experiment.Experiment, error) {
	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, appError(err, "failed to load experiment")
	}
	if err := s.writer.Write(w, exp.Descriptor); err != nil {
		return nil, apperrors.Wrap(err, "failed to render template")
	}
	return exp, nil
}
