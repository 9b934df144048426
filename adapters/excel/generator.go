package excel

import (
	"fmt"
	"io"
	"log"

	"samplemeta/domain/experiment"
	"samplemeta/domain/sheet"

	"github.com/xuri/excelize/v2"
)

// TemplateWriter writes blank DataEntry workbooks for an experiment. The
// importer reads back exactly what it writes.
type TemplateWriter struct {
	template *sheet.Template
}

// NewTemplateWriter creates a writer. A nil template means the default layout.
func NewTemplateWriter(template *sheet.Template) *TemplateWriter {
	if template == nil {
		template = sheet.DefaultTemplate()
	}
	return &TemplateWriter{template: template}
}

// Write renders the workbook for project into w.
func (tw *TemplateWriter) Write(w io.Writer, project experiment.Descriptor) error {
	f, err := tw.build(project)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile renders the workbook for project to path.
func (tw *TemplateWriter) WriteFile(path string, project experiment.Descriptor) error {
	f, err := tw.build(project)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	log.Printf("[TemplateWriter] wrote %s (%d groups)", path, len(project.Groups))
	return nil
}

func (tw *TemplateWriter) build(project experiment.Descriptor) (*excelize.File, error) {
	t := tw.template
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", t.SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	set := func(row, col int, value string) error {
		cell, err := sheet.CellName(row, col)
		if err != nil {
			return err
		}
		return f.SetCellStr(t.SheetName, cell, value)
	}

	if err := set(t.NameRow, t.NameColumn, project.Name); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write experiment name: %w", err)
	}
	for i, g := range project.Groups {
		if err := set(t.GroupRow, t.GroupColumn(i), string(g)); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write group %q: %w", g, err)
		}
	}
	for _, cat := range t.Categories {
		if t.LabelColumn > 1 {
			if err := set(cat.Start, 1, string(cat.Name)); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write category %q: %w", cat.Name, err)
			}
		}
		for _, l := range cat.Labels {
			if err := set(l.Row, t.LabelColumn, l.Text); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write label %q: %w", l.Text, err)
			}
		}
	}

	labelCol, err := excelize.ColumnNumberToName(t.LabelColumn)
	if err == nil {
		_ = f.SetColWidth(t.SheetName, labelCol, labelCol, 28)
	}
	return f, nil
}
