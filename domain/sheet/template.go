package sheet

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"samplemeta/domain/experiment"

	"gopkg.in/yaml.v3"
)

//go:embed default_layout.yaml
var defaultLayout []byte

// RowRange is an inclusive 1-based row range.
type RowRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Contains reports whether row lies in the range.
func (r RowRange) Contains(row int) bool {
	return row >= r.Start && row <= r.End
}

// LabelRow is a catalogue label written into the label column by the template writer.
type LabelRow struct {
	Row  int    `yaml:"row"`
	Text string `yaml:"text"`
}

// CategoryRange maps a block of rows to a category.
type CategoryRange struct {
	Name     experiment.Category `yaml:"name"`
	RowRange `yaml:",inline"`
	Labels   []LabelRow `yaml:"labels"`
}

// Template describes where things live on the data entry sheet. Rows and
// columns are 1-based.
type Template struct {
	SheetName        string          `yaml:"sheet_name"`
	NameRow          int             `yaml:"name_row"`
	NameColumn       int             `yaml:"name_column"`
	GroupRow         int             `yaml:"group_row"`
	GroupColumnStart int             `yaml:"group_column_start"`
	LabelColumn      int             `yaml:"label_column"`
	Categories       []CategoryRange `yaml:"categories"`
	CustomRanges     []RowRange      `yaml:"custom_ranges"`
	SeparatorRows    []int           `yaml:"separator_rows"`
}

// DefaultTemplate returns the built-in DataEntry layout.
func DefaultTemplate() *Template {
	t, err := ParseTemplate(defaultLayout)
	if err != nil {
		panic(fmt.Sprintf("embedded default layout is invalid: %v", err))
	}
	return t
}

// LoadTemplate reads a YAML layout.
func LoadTemplate(r io.Reader) (*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	return ParseTemplate(data)
}

// LoadTemplateFile reads a YAML layout from path; an empty path yields the default layout.
func LoadTemplateFile(path string) (*Template, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout %s: %w", path, err)
	}
	defer f.Close()
	return LoadTemplate(f)
}

// ParseTemplate decodes and validates a YAML layout.
func ParseTemplate(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the invariants the importer relies on.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.SheetName) == "" {
		return fmt.Errorf("layout: sheet_name is required")
	}
	if t.NameRow < 1 || t.NameColumn < 1 || t.GroupRow < 1 || t.LabelColumn < 1 {
		return fmt.Errorf("layout: name, group and label coordinates must be positive")
	}
	if t.GroupColumnStart <= t.LabelColumn {
		return fmt.Errorf("layout: group columns (%d) must start after the label column (%d)", t.GroupColumnStart, t.LabelColumn)
	}
	if len(t.Categories) == 0 {
		return fmt.Errorf("layout: at least one category is required")
	}

	prevEnd := 0
	for _, c := range t.Categories {
		if strings.TrimSpace(string(c.Name)) == "" {
			return fmt.Errorf("layout: category without a name")
		}
		if c.Start < 1 || c.Start > c.End {
			return fmt.Errorf("layout: category %q has invalid rows %d-%d", c.Name, c.Start, c.End)
		}
		if c.Start <= prevEnd {
			return fmt.Errorf("layout: category %q overlaps or precedes the previous category", c.Name)
		}
		if c.Start <= t.GroupRow {
			return fmt.Errorf("layout: category %q starts above the group row", c.Name)
		}
		prevEnd = c.End

		rows := make(map[int]bool, len(c.Labels))
		for _, l := range c.Labels {
			if strings.TrimSpace(l.Text) == "" {
				return fmt.Errorf("layout: category %q has an empty label at row %d", c.Name, l.Row)
			}
			if !c.Contains(l.Row) {
				return fmt.Errorf("layout: label %q (row %d) is outside category %q", l.Text, l.Row, c.Name)
			}
			if rows[l.Row] {
				return fmt.Errorf("layout: row %d has two labels", l.Row)
			}
			rows[l.Row] = true
			if t.isCustomRow(l.Row) || t.isSeparatorRow(l.Row) {
				return fmt.Errorf("layout: label %q sits on a custom or separator row (%d)", l.Text, l.Row)
			}
		}
	}
	return nil
}

// GroupColumn returns the column of the i-th (0-based) group.
func (t *Template) GroupColumn(i int) int {
	return t.GroupColumnStart + i
}

// CategoryAt returns the category containing row.
func (t *Template) CategoryAt(row int) (experiment.Category, bool) {
	for _, c := range t.Categories {
		if c.Contains(row) {
			return c.Name, true
		}
	}
	return "", false
}

// CatalogLabels returns every catalogue label ordered by row.
func (t *Template) CatalogLabels() []LabelRow {
	var out []LabelRow
	for _, c := range t.Categories {
		out = append(out, c.Labels...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}

func (t *Template) isCustomRow(row int) bool {
	for _, r := range t.CustomRanges {
		if r.Contains(row) {
			return true
		}
	}
	return false
}

func (t *Template) isSeparatorRow(row int) bool {
	for _, r := range t.SeparatorRows {
		if r == row {
			return true
		}
	}
	return false
}
