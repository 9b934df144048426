package excel

import (
	"fmt"
	"io"
	"log"
	"time"

	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	"samplemeta/domain/sheet"
	"samplemeta/internal"
	"samplemeta/ports"

	"github.com/xuri/excelize/v2"
)

// Importer reads completed DataEntry workbooks against a sheet layout.
// It holds no per-import state and may be shared between goroutines as long
// as the suggester can.
type Importer struct {
	template  *sheet.Template
	suggester ports.TypoSuggester
	logger    *internal.Logger
}

// NewImporter creates an importer. A nil template means the default layout.
func NewImporter(template *sheet.Template, suggester ports.TypoSuggester) *Importer {
	if template == nil {
		template = sheet.DefaultTemplate()
	}
	return &Importer{template: template, suggester: suggester, logger: internal.DefaultLogger}
}

// Template returns the layout the importer reads against.
func (im *Importer) Template() *sheet.Template { return im.template }

// ImportFile opens the workbook at path and imports it.
func (im *Importer) ImportFile(project experiment.Descriptor, path string) *experiment.ImportResult {
	start := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return readFailure(project, path, err)
	}
	defer f.Close()
	im.logger.Timed("[Importer] open "+path, start)
	return im.importWorkbook(project, f, path)
}

// ImportReader imports a workbook streamed from r, e.g. an upload.
func (im *Importer) ImportReader(project experiment.Descriptor, r io.Reader) *experiment.ImportResult {
	start := time.Now()
	f, err := excelize.OpenReader(r)
	if err != nil {
		return readFailure(project, "upload", err)
	}
	defer f.Close()
	im.logger.Timed("[Importer] open upload", start)
	return im.importWorkbook(project, f, "upload")
}

func readFailure(project experiment.Descriptor, source string, err error) *experiment.ImportResult {
	log.Printf("[Importer] failed to read %s: %v", source, err)
	return experiment.NewFailedImport(project,
		fmt.Sprintf("Failed To Read This File Due To Exception: %v", err),
		core.NewIOFailureError(source, err))
}

// labelEntry is where a label was found on the sheet.
type labelEntry struct {
	label    experiment.Label
	category experiment.Category
	row      int
}

func (im *Importer) importWorkbook(project experiment.Descriptor, f *excelize.File, source string) *experiment.ImportResult {
	start := time.Now()
	defer im.logger.Timed("[Importer] import "+source, start)

	rows, err := f.GetRows(im.template.SheetName)
	if err != nil {
		return readFailure(project, source, err)
	}
	grid := cellGrid(rows)

	labels := im.indexLabels(grid)
	log.Printf("[Importer] %s: %d labels, %d expected groups", source, len(labels), len(project.Groups))

	data := make(experiment.Data)
	typos := make(experiment.TypoReport)

	for i, expected := range project.Groups {
		col := im.template.GroupColumn(i)
		got := grid.cell(im.template.GroupRow, col)
		if got != string(expected) {
			return im.groupMismatch(project, col, string(expected), got)
		}

		data.Group(expected)
		for _, entry := range labels {
			raw := grid.cell(entry.row, col)
			value := experiment.NullValue()
			if raw != "" {
				value = experiment.TextValue(raw)
				if suggestion, ok := im.suggest(raw); ok && suggestion != raw {
					typos.Add(raw, suggestion, sheet.CellAddress{Row: entry.row, Column: col}.String())
				}
			}
			data.Set(expected, entry.category, entry.label, value)
		}
	}

	independent := experiment.InferIndependentVariables(data, project.Groups)
	log.Printf("[Importer] %s read: %d values, %d possible typos, %d independent variables",
		source, data.Len(), len(typos), len(independent))

	return experiment.NewImportResult(project, data, typos, independent)
}

func (im *Importer) groupMismatch(project experiment.Descriptor, col int, expected, got string) *experiment.ImportResult {
	row := im.template.GroupRow
	shown := got
	if shown == "" {
		shown = "<empty>"
	}
	message := fmt.Sprintf("Uploaded Sheet Groups Didn't Correspond To Expected Groups (at[%d,%d])\nEXPECTED: %s != GOT: %s",
		row, col, expected, shown)

	cell, err := sheet.CellName(row, col)
	if err != nil {
		cell = fmt.Sprintf("R%dC%d", row, col)
	}
	log.Printf("[Importer] group mismatch at %s: expected %q, got %q", cell, expected, got)
	return experiment.NewFailedImport(project, message, core.NewSchemaMismatchError(cell, expected, got))
}

// indexLabels scans the label column of every category range. A label seen
// twice keeps its first position but takes the later row and category.
func (im *Importer) indexLabels(grid cellGrid) []labelEntry {
	var entries []labelEntry
	index := make(map[experiment.Label]int)
	for _, cat := range im.template.Categories {
		for row := cat.Start; row <= cat.End; row++ {
			text := grid.cell(row, im.template.LabelColumn)
			if text == "" {
				continue
			}
			label := experiment.Label(text)
			if i, ok := index[label]; ok {
				im.logger.Debug("[Importer] label %q repeated at row %d, overriding row %d", text, row, entries[i].row)
				entries[i].category = cat.Name
				entries[i].row = row
				continue
			}
			index[label] = len(entries)
			entries = append(entries, labelEntry{label: label, category: cat.Name, row: row})
		}
	}
	return entries
}

// suggest runs the typo suggester; a value it cannot handle is not flagged.
func (im *Importer) suggest(raw string) (suggestion string, ok bool) {
	if im.suggester == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			im.logger.Warn("[Importer] %v: suggester failed on %q: %v", core.ErrMalformedInput, raw, r)
			suggestion, ok = "", false
		}
	}()
	return im.suggester.Suggest(raw)
}

// cellGrid is the sheet as returned by GetRows, addressed 1-based.
type cellGrid [][]string

func (g cellGrid) cell(row, col int) string {
	if row < 1 || row > len(g) {
		return ""
	}
	r := g[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}
