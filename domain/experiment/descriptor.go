package experiment

import (
	"fmt"
	"strings"
)

// Descriptor identifies the experiment an import belongs to and the groups
// the uploaded sheet is expected to declare, in column order.
type Descriptor struct {
	Name        string      `json:"name"`
	Owner       string      `json:"owner"`
	Description string      `json:"description"`
	Groups      []GroupName `json:"groups"`
}

// NewDescriptor builds a descriptor from plain group names.
func NewDescriptor(name, owner, description string, groups ...string) Descriptor {
	names := make([]GroupName, len(groups))
	for i, g := range groups {
		names[i] = GroupName(g)
	}
	return Descriptor{Name: name, Owner: owner, Description: description, Groups: names}
}

// GroupStrings returns the expected group names as plain strings.
func (d Descriptor) GroupStrings() []string {
	out := make([]string, len(d.Groups))
	for i, g := range d.Groups {
		out[i] = string(g)
	}
	return out
}

// Validate checks the descriptor before an experiment is created: a name is
// required and group names must be non-blank and unique.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("experiment name is required")
	}
	seen := make(map[GroupName]bool, len(d.Groups))
	for i, g := range d.Groups {
		if strings.TrimSpace(string(g)) == "" {
			return fmt.Errorf("group %d has an empty name", i+1)
		}
		if seen[g] {
			return fmt.Errorf("group %q is listed twice", g)
		}
		seen[g] = true
	}
	return nil
}

func (d Descriptor) String() string {
	return fmt.Sprintf("Experiment(name=%q, owner=%q, groups=%v)", d.Name, d.Owner, d.GroupStrings())
}
