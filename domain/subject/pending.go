package subject

import (
	"fmt"
	"sort"

	"samplemeta/domain/core"
)

// Pending is the list of parsed roster records not yet committed. It is a
// value: Commit returns a new Pending and leaves the receiver untouched, so
// the caller's session decides which list is current.
type Pending struct {
	records []Record
}

// NewPending starts a selection session over records.
func NewPending(records []Record) Pending {
	return Pending{records: append([]Record(nil), records...)}
}

func (p Pending) Len() int { return len(p.records) }

// Records returns the remaining records; index i here is what Commit expects.
func (p Pending) Records() []Record {
	return append([]Record(nil), p.records...)
}

// Commit selects records by index into the current list. Selected records
// are returned in list order and removed from the returned Pending.
// Indices out of range or repeated return ErrStaleSelection.
func (p Pending) Commit(indices []int) ([]Record, Pending, error) {
	chosen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(p.records) {
			return nil, p, fmt.Errorf("%w: index %d, %d records pending", core.ErrStaleSelection, i, len(p.records))
		}
		if chosen[i] {
			return nil, p, fmt.Errorf("%w: index %d selected twice", core.ErrStaleSelection, i)
		}
		chosen[i] = true
	}

	ordered := make([]int, 0, len(chosen))
	for i := range chosen {
		ordered = append(ordered, i)
	}
	sort.Ints(ordered)

	selected := make([]Record, 0, len(ordered))
	for _, i := range ordered {
		selected = append(selected, p.records[i])
	}
	remaining := make([]Record, 0, len(p.records)-len(ordered))
	for i, rec := range p.records {
		if !chosen[i] {
			remaining = append(remaining, rec)
		}
	}
	return selected, Pending{records: remaining}, nil
}
