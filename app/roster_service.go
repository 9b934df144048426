package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	"samplemeta/domain/subject"
	apperrors "samplemeta/internal/errors"
	"samplemeta/internal/session"
	"samplemeta/ports"
)

// RosterService parses subject rosters and commits selected rows
type RosterService struct {
	experiments ports.ExperimentRepository
	subjects    ports.SubjectRepository
	reader      ports.RosterReader
	scratch     *session.ScratchStore
}

// CommitResult lists what a commit stored and what is still pending
type CommitResult struct {
	Committed []subject.Subject `json:"committed"`
	Remaining []subject.Record  `json:"remaining"`
}

// NewRosterService creates a roster service
func NewRosterService(experiments ports.ExperimentRepository, subjects ports.SubjectRepository, reader ports.RosterReader, scratch *session.ScratchStore) *RosterService {
	return &RosterService{experiments: experiments, subjects: subjects, reader: reader, scratch: scratch}
}

// Preview parses an uploaded roster and makes its records the session's
// pending list for the experiment, replacing any earlier one.
func (s *RosterService) Preview(ctx context.Context, sid core.SessionID, id core.ExperimentID, r io.Reader) (*subject.RosterResult, error) {
	if _, err := s.experiments.GetByID(ctx, id); err != nil {
		return nil, appError(err, "failed to load experiment")
	}
	result := s.reader.Read(r)
	if !result.Success() {
		log.Printf("[RosterService] roster for %s failed: %s", id, result.Message())
		return result, nil
	}
	s.scratch.SetPending(sid, id, subject.NewPending(result.Records()))
	log.Printf("[RosterService] %d pending records for %s", len(result.Records()), id)
	return result, nil
}

// Pending returns the records not yet committed
func (s *RosterService) Pending(sid core.SessionID, id core.ExperimentID) []subject.Record {
	p, _ := s.scratch.Pending(sid, id)
	return p.Records()
}

// Commit stores the records at indices (positions in the current pending
// list) as subjects of group, or of the whole experiment when group is empty.
func (s *RosterService) Commit(ctx context.Context, sid core.SessionID, id core.ExperimentID, indices []int, group string) (*CommitResult, error) {
	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, appError(err, "failed to load experiment")
	}
	if group != "" && !hasGroup(exp.Descriptor, group) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("experiment has no group %q", group))
	}

	var committed []subject.Subject
	err = s.scratch.UpdatePending(sid, id, func(p subject.Pending) (subject.Pending, error) {
		selected, rest, err := p.Commit(indices)
		if err != nil {
			return p, err
		}
		subjects := subject.Attach(id, group, selected)
		if err := s.subjects.CreateSubjects(ctx, subjects); err != nil {
			return p, err
		}
		committed = subjects
		return rest, nil
	})
	if err != nil {
		return nil, appError(err, "failed to commit subjects")
	}

	remaining := s.Pending(sid, id)
	log.Printf("[RosterService] committed %d subjects to %s (group %q), %d pending", len(committed), id, group, len(remaining))
	return &CommitResult{Committed: committed, Remaining: remaining}, nil
}

func hasGroup(d experiment.Descriptor, group string) bool {
	for _, g := range d.Groups {
		if string(g) == group {
			return true
		}
	}
	return false
}

// List returns the committed subjects of an experiment
func (s *RosterService) List(ctx context.Context, id core.ExperimentID) ([]subject.Subject, error) {
	if _, err := s.experiments.GetByID(ctx, id); err != nil {
		return nil, appError(err, "failed to load experiment")
	}
	subjects, err := s.subjects.ListByExperiment(ctx, id)
	if err != nil {
		return nil, appError(err, "failed to list subjects")
	}
	return subjects, nil
}
