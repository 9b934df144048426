package app

import (
	"context"
	"io"
	"log"

	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	"samplemeta/internal/session"
	"samplemeta/ports"
)

// ImportService runs workbook imports and persists them once the user
// confirms. Nothing is written for a failed import.
type ImportService struct {
	experiments ports.ExperimentRepository
	importer    ports.WorkbookImporter
	scratch     *session.ScratchStore
}

// ImportPreview is the outcome of an upload. Token is empty unless the
// import succeeded.
type ImportPreview struct {
	Token        core.PreviewToken
	ExperimentID core.ExperimentID
	Result       *experiment.ImportResult
}

// NewImportService creates an import service
func NewImportService(experiments ports.ExperimentRepository, importer ports.WorkbookImporter, scratch *session.ScratchStore) *ImportService {
	return &ImportService{experiments: experiments, importer: importer, scratch: scratch}
}

// Preview imports an uploaded workbook against the experiment's groups. A
// failed import is returned as a result, not as an error.
func (s *ImportService) Preview(ctx context.Context, sid core.SessionID, id core.ExperimentID, r io.Reader) (*ImportPreview, error) {
	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, appError(err, "failed to load experiment")
	}

	result := s.importer.ImportReader(exp.Descriptor, r)
	preview := &ImportPreview{ExperimentID: id, Result: result}
	if !result.Success() {
		log.Printf("[ImportService] import for %s failed: %s", id, result.Message())
		return preview, nil
	}
	preview.Token = s.scratch.PutPreview(sid, id, result)
	log.Printf("[ImportService] preview %s stored for %s", preview.Token, id)
	return preview, nil
}

// Confirm persists a previewed import and consumes its token
func (s *ImportService) Confirm(ctx context.Context, sid core.SessionID, token core.PreviewToken) (*ImportPreview, error) {
	var confirmed *ImportPreview
	err := s.scratch.TakePreview(sid, token, func(p session.Preview) error {
		if err := s.experiments.SaveImport(ctx, p.ExperimentID, p.Result); err != nil {
			return err
		}
		confirmed = &ImportPreview{Token: p.Token, ExperimentID: p.ExperimentID, Result: p.Result}
		return nil
	})
	if err != nil {
		return nil, appError(err, "failed to confirm import")
	}
	log.Printf("[ImportService] import %s confirmed for %s", token, confirmed.ExperimentID)
	return confirmed, nil
}
