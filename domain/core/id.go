package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ExperimentID ID
	SessionID    ID
	PreviewToken ID
)

func (id ExperimentID) String() string { return ID(id).String() }
func (id SessionID) String() string    { return ID(id).String() }
func (id PreviewToken) String() string { return ID(id).String() }

// ParseExperimentID parses a string into ExperimentID. Experiment ids are UUIDs.
func ParseExperimentID(s string) (ExperimentID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("experiment ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid experiment ID %q: %w", s, err)
	}
	return ExperimentID(s), nil
}

// ParseSessionID parses a string into SessionID
func ParseSessionID(s string) (SessionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	return SessionID(s), nil
}

// ParsePreviewToken parses a string into PreviewToken
func ParsePreviewToken(s string) (PreviewToken, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("preview token cannot be empty")
	}
	return PreviewToken(s), nil
}
