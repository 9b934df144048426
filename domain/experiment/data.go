package experiment

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

type (
	GroupName string
	Category  string
	Label     string
)

// Value is the raw content of one cell. An empty cell is null, which is a
// distinct value from any string.
type Value struct {
	text  string
	valid bool
}

// NullValue returns the value of an empty cell.
func NullValue() Value { return Value{} }

// TextValue wraps raw cell text.
func TextValue(s string) Value { return Value{text: s, valid: true} }

func (v Value) IsNull() bool { return !v.valid }

// Text returns the raw text; null values return "".
func (v Value) Text() string { return v.text }

func (v Value) String() string {
	if !v.valid {
		return "<null>"
	}
	return v.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.text)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = NullValue()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = TextValue(s)
	return nil
}

// Value implements driver.Valuer so null cells are stored as SQL NULL.
func (v Value) Value() (driver.Value, error) {
	if !v.valid {
		return nil, nil
	}
	return v.text, nil
}

// Scan implements sql.Scanner.
func (v *Value) Scan(src interface{}) error {
	switch s := src.(type) {
	case nil:
		*v = NullValue()
	case string:
		*v = TextValue(s)
	case []byte:
		*v = TextValue(string(s))
	default:
		return fmt.Errorf("cannot scan %T into experiment.Value", src)
	}
	return nil
}

// LabelValues maps a label to its cell value for one group and category.
type LabelValues map[Label]Value

// CategoryLabels maps a category to its labels for one group.
type CategoryLabels map[Category]LabelValues

// Data is the extracted sheet content: group -> category -> label -> value.
type Data map[GroupName]CategoryLabels

// Group returns the categories of g, inserting an empty entry if absent.
func (d Data) Group(g GroupName) CategoryLabels {
	c, ok := d[g]
	if !ok {
		c = make(CategoryLabels)
		d[g] = c
	}
	return c
}

// Category returns the labels of cat, inserting an empty entry if absent.
func (c CategoryLabels) Category(cat Category) LabelValues {
	l, ok := c[cat]
	if !ok {
		l = make(LabelValues)
		c[cat] = l
	}
	return l
}

// Set records one value.
func (d Data) Set(g GroupName, cat Category, label Label, v Value) {
	d.Group(g).Category(cat)[label] = v
}

// Get looks up one value without inserting anything.
func (d Data) Get(g GroupName, cat Category, label Label) (Value, bool) {
	v, ok := d[g][cat][label]
	return v, ok
}

// Len counts (group, category, label) entries.
func (d Data) Len() int {
	n := 0
	for _, cats := range d {
		for _, labels := range cats {
			n += len(labels)
		}
	}
	return n
}

// Groups returns the group names in sorted order.
func (d Data) Groups() []GroupName {
	out := make([]GroupName, 0, len(d))
	for g := range d {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Walk visits every entry in a stable order: groups, categories and labels sorted.
func (d Data) Walk(fn func(g GroupName, cat Category, label Label, v Value)) {
	for _, g := range d.Groups() {
		d.walkGroup(g, fn)
	}
}

func (d Data) walkGroup(g GroupName, fn func(g GroupName, cat Category, label Label, v Value)) {
	cats := d[g]
	catNames := make([]Category, 0, len(cats))
	for cat := range cats {
		catNames = append(catNames, cat)
	}
	sort.Slice(catNames, func(i, j int) bool { return catNames[i] < catNames[j] })

	for _, cat := range catNames {
		labels := cats[cat]
		names := make([]Label, 0, len(labels))
		for l := range labels {
			names = append(names, l)
		}
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
		for _, l := range names {
			fn(g, cat, l, labels[l])
		}
	}
}

// Clone returns a deep copy.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for g, cats := range d {
		oc := make(CategoryLabels, len(cats))
		for cat, labels := range cats {
			ol := make(LabelValues, len(labels))
			for l, v := range labels {
				ol[l] = v
			}
			oc[cat] = ol
		}
		out[g] = oc
	}
	return out
}
