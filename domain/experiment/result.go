package experiment

import (
	"encoding/json"
	"fmt"

	"samplemeta/domain/core"
)

// SuccessMessage is the message of every successful workbook import.
const SuccessMessage = "Data Read Successfully!"

// ImportResult is the outcome of one workbook import. It is built once, either
// as a failure (success flag, message and descriptor only) or fully populated,
// and is not modified afterwards; accessors hand out copies.
type ImportResult struct {
	success     bool
	message     string
	project     Descriptor
	data        Data
	typos       TypoReport
	independent IndependentVariables
	err         error
}

// NewFailedImport builds a failure result. err carries the core sentinel
// (ErrIOFailure, ErrSchemaMismatch) for callers that classify failures.
func NewFailedImport(project Descriptor, message string, err error) *ImportResult {
	return &ImportResult{
		success:     false,
		message:     message,
		project:     project,
		data:        make(Data),
		typos:       make(TypoReport),
		independent: make(IndependentVariables),
		err:         err,
	}
}

// NewImportResult builds a success result. The maps are owned by the result from here on.
func NewImportResult(project Descriptor, data Data, typos TypoReport, independent IndependentVariables) *ImportResult {
	if data == nil {
		data = make(Data)
	}
	if typos == nil {
		typos = make(TypoReport)
	}
	if independent == nil {
		independent = make(IndependentVariables)
	}
	return &ImportResult{
		success:     true,
		message:     SuccessMessage,
		project:     project,
		data:        data,
		typos:       typos,
		independent: independent,
	}
}

func (r *ImportResult) Success() bool { return r.success }

func (r *ImportResult) Message() string { return r.message }

func (r *ImportResult) Project() Descriptor { return r.project }

// Err returns the classified cause of a failed import, nil on success.
func (r *ImportResult) Err() error { return r.err }

func (r *ImportResult) Data() Data { return r.data.Clone() }

func (r *ImportResult) PossibleTypos() TypoReport { return r.typos.Clone() }

func (r *ImportResult) IndependentVariables() IndependentVariables { return r.independent.Clone() }

// HasTypos reports whether any cell was flagged.
func (r *ImportResult) HasTypos() bool { return len(r.typos) > 0 }

// ImportPayload is the wire form handed to the persistence and view layers.
type ImportPayload struct {
	Success              bool                 `json:"success"`
	Message              string               `json:"message"`
	Data                 Data                 `json:"data"`
	IndependentVariables IndependentVariables `json:"independent_variables"`
	PossibleTypos        TypoReport           `json:"possible_typos"`
	ProjectName          string               `json:"project_name"`
	Groups               []string             `json:"groups"`
}

// Payload returns a copy of the result in wire form.
func (r *ImportResult) Payload() ImportPayload {
	return ImportPayload{
		Success:              r.success,
		Message:              r.message,
		Data:                 r.Data(),
		IndependentVariables: r.IndependentVariables(),
		PossibleTypos:        r.PossibleTypos(),
		ProjectName:          r.project.Name,
		Groups:               r.project.GroupStrings(),
	}
}

func (r *ImportResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}

// Fingerprint hashes the payload. Importing the same sheet twice with the
// same expected groups gives the same fingerprint.
func (r *ImportResult) Fingerprint() (core.Hash, error) {
	return core.HashJSON(r.Payload())
}

func (r *ImportResult) String() string {
	return fmt.Sprintf("FOR PROJECT=%s\nWITH GROUPS=%v\nSUCCESS=%t\nMESSAGE=%s\nINDEPENDENT_VARS=%d\nDATA=%d entries\nPOSSIBLE_TYPOS=%d",
		r.project.Name, r.project.GroupStrings(), r.success, r.message, len(r.independent), r.data.Len(), len(r.typos))
}
