package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"samplemeta/domain/core"
	"samplemeta/domain/subject"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader parses subject roster CSVs. The first line is the header; there is
// no fixed schema.
type Reader struct {
	// Delimiter is the field separator; 0 means detect it from the header.
	Delimiter rune
	// GroupColumn names the column (case-insensitive) whose value assigns a
	// record to a group. Empty or absent means no grouping.
	GroupColumn string
}

// NewReader creates a reader that detects the delimiter.
func NewReader(groupColumn string) *Reader {
	return &Reader{GroupColumn: groupColumn}
}

// ReadFile parses the roster at path.
func (r *Reader) ReadFile(path string) *subject.RosterResult {
	f, err := os.Open(path)
	if err != nil {
		return failure(path, err)
	}
	defer f.Close()
	return r.read(f, path)
}

// Read parses a roster streamed from in.
func (r *Reader) Read(in io.Reader) *subject.RosterResult {
	return r.read(in, "upload")
}

func failure(source string, err error) *subject.RosterResult {
	log.Printf("[RosterReader] failed to read %s: %v", source, err)
	return subject.NewFailedRoster("Failed To Open File: "+err.Error(), core.NewIOFailureError(source, err))
}

func (r *Reader) read(in io.Reader, source string) *subject.RosterResult {
	content, err := io.ReadAll(in)
	if err != nil {
		return failure(source, err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	delim := r.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(content)
	}

	cr := csv.NewReader(bytes.NewReader(content))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		log.Printf("[RosterReader] %s is empty", source)
		return subject.NewRosterResult(nil, nil, "")
	}
	if err != nil {
		return failure(source, err)
	}
	headers := normalizeHeaders(header)

	var records []subject.Record
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return failure(source, fmt.Errorf("line %d: %w", line, err))
		}
		if isBlank(row) {
			continue
		}
		if len(row) > len(headers) && !isBlank(row[len(headers):]) {
			log.Printf("[RosterReader] %s line %d: dropping %d cells beyond the header", source, line, len(row)-len(headers))
		}
		records = append(records, subject.NewRecord(headers, row))
	}

	groupColumn := r.matchGroupColumn(headers)
	log.Printf("[RosterReader] %s read (%d columns, %d records, delimiter %q, group column %q)",
		source, len(headers), len(records), delim, groupColumn)
	return subject.NewRosterResult(headers, records, groupColumn)
}

func (r *Reader) matchGroupColumn(headers []string) string {
	if r.GroupColumn == "" {
		return ""
	}
	for _, h := range headers {
		if strings.EqualFold(h, r.GroupColumn) {
			return h
		}
	}
	return ""
}

// normalizeHeaders trims header cells, names blank ones column_<n> and
// suffixes repeats with _2, _3, ...
func normalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		name := h
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", h, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// sniffDelimiter picks the most frequent of ',', ';' and tab on the first
// line, preferring ',' on ties.
func sniffDelimiter(content []byte) rune {
	first := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		first = content[:i]
	}
	best, bestCount := ',', bytes.Count(first, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(first, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
