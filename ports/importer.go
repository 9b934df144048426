package ports

import (
	"io"

	"samplemeta/domain/experiment"
	"samplemeta/domain/subject"
)

// WorkbookImporter reads a completed data-entry workbook. Read failures and
// layout mismatches come back as failure results, never as errors.
type WorkbookImporter interface {
	ImportFile(project experiment.Descriptor, path string) *experiment.ImportResult
	ImportReader(project experiment.Descriptor, r io.Reader) *experiment.ImportResult
}

// TemplateWriter produces a blank data-entry workbook for an experiment.
type TemplateWriter interface {
	Write(w io.Writer, project experiment.Descriptor) error
}

// RosterReader parses a subject roster CSV.
type RosterReader interface {
	ReadFile(path string) *subject.RosterResult
	Read(r io.Reader) *subject.RosterResult
}
