package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"samplemeta/domain/experiment"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"
)

// ImportReportMarkdown summarizes an import for a person reviewing it
// before confirming.
func ImportReportMarkdown(r *experiment.ImportResult) string {
	var b strings.Builder
	project := r.Project()

	fmt.Fprintf(&b, "# Import report: %s\n\n", escapeCell(project.Name))
	if !r.Success() {
		b.WriteString("**Status:** failed\n\n")
		b.WriteString("```\n" + r.Message() + "\n```\n")
		return b.String()
	}
	fmt.Fprintf(&b, "**Status:** %s\n\n", escapeCell(r.Message()))
	fmt.Fprintf(&b, "**Groups:** %s\n\n", escapeCell(strings.Join(project.GroupStrings(), ", ")))

	independent := r.IndependentVariables()
	b.WriteString("## Independent variables\n\n")
	if len(independent) == 0 {
		b.WriteString("No label varies across groups.\n\n")
	} else {
		b.WriteString("| Label | Values | Range |\n|---|---|---|\n")
		for _, label := range independent.Labels() {
			values := independent.Strings(label)
			for i, v := range values {
				if v == "" {
					values[i] = "(empty)"
				}
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				escapeCell(string(label)), escapeCell(strings.Join(values, ", ")), numericRange(independent[label]))
		}
		b.WriteString("\n")
	}

	typos := r.PossibleTypos()
	b.WriteString("## Possible typos\n\n")
	if len(typos) == 0 {
		b.WriteString("None found.\n")
		return b.String()
	}
	b.WriteString("| Value | Suggestion | Cells |\n|---|---|---|\n")
	originals := make([]string, 0, len(typos))
	for orig := range typos {
		originals = append(originals, orig)
	}
	sort.Strings(originals)
	for _, orig := range originals {
		suggestions := make([]string, 0, len(typos[orig]))
		for s := range typos[orig] {
			suggestions = append(suggestions, s)
		}
		sort.Strings(suggestions)
		for _, s := range suggestions {
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				escapeCell(orig), escapeCell(s), strings.Join(typos[orig][s], ", "))
		}
	}
	return b.String()
}

// RenderImportReport renders the import report as HTML. Raw HTML in cell
// values is dropped.
func RenderImportReport(r *experiment.ImportResult) ([]byte, error) {
	md := ImportReportMarkdown(r)
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.CompletePage,
		Title: "Import report",
	})
	return markdown.ToHTML([]byte(md), p, renderer), nil
}

// numericRange summarizes values that all parse as numbers, "" otherwise
func numericRange(values []experiment.Value) string {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if v.IsNull() {
			return ""
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
		if err != nil {
			return ""
		}
		nums = append(nums, f)
	}
	lo, err := stats.Min(nums)
	if err != nil {
		return ""
	}
	median, _ := stats.Median(nums)
	hi, _ := stats.Max(nums)
	return fmt.Sprintf("min %s, median %s, max %s", formatFloat(lo), formatFloat(median), formatFloat(hi))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
