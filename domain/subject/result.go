package subject

import (
	"fmt"
	"strings"
)

// SuccessMessage is the message of a successful roster read.
const SuccessMessage = "Success"

// ProjectKey is the GroupSubjects key for records not tied to a group.
const ProjectKey = ""

// RosterResult is the outcome of reading a roster CSV. Like the workbook
// import result it is built once and not modified afterwards.
type RosterResult struct {
	success       bool
	message       string
	headers       []string
	records       []Record
	groupSubjects map[string][]Record
	err           error
}

// NewFailedRoster builds a failure result.
func NewFailedRoster(message string, err error) *RosterResult {
	return &RosterResult{
		message:       message,
		groupSubjects: make(map[string][]Record),
		err:           err,
	}
}

// NewRosterResult builds a success result. groupColumn, when non-empty and
// present in headers, partitions the records by its value with surrounding
// spaces ignored; otherwise every record is filed under ProjectKey.
func NewRosterResult(headers []string, records []Record, groupColumn string) *RosterResult {
	groups := make(map[string][]Record)
	for _, rec := range records {
		key := ProjectKey
		if groupColumn != "" {
			if v, ok := rec.Get(groupColumn); ok {
				key = strings.TrimSpace(v)
			}
		}
		groups[key] = append(groups[key], rec)
	}
	return &RosterResult{
		success:       true,
		message:       SuccessMessage,
		headers:       append([]string(nil), headers...),
		records:       append([]Record(nil), records...),
		groupSubjects: groups,
	}
}

func (r *RosterResult) Success() bool { return r.success }

func (r *RosterResult) Message() string { return r.message }

func (r *RosterResult) Err() error { return r.err }

func (r *RosterResult) Headers() []string { return append([]string(nil), r.headers...) }

// Records returns every parsed record in file order.
func (r *RosterResult) Records() []Record { return append([]Record(nil), r.records...) }

// GroupSubjects returns the records keyed by group identifier.
func (r *RosterResult) GroupSubjects() map[string][]Record {
	out := make(map[string][]Record, len(r.groupSubjects))
	for k, v := range r.groupSubjects {
		out[k] = append([]Record(nil), v...)
	}
	return out
}

// RosterPayload is the wire form of a roster result.
type RosterPayload struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message"`
	Headers       []string            `json:"headers"`
	Records       []Record            `json:"records"`
	GroupSubjects map[string][]Record `json:"group_subject"`
}

func (r *RosterResult) Payload() RosterPayload {
	return RosterPayload{
		Success:       r.success,
		Message:       r.message,
		Headers:       r.Headers(),
		Records:       r.Records(),
		GroupSubjects: r.GroupSubjects(),
	}
}

func (r *RosterResult) String() string {
	return fmt.Sprintf("SUCCESS=%t MESSAGE=%s RECORDS=%d GROUPS=%d", r.success, r.message, len(r.records), len(r.groupSubjects))
}
