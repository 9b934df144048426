package spelling

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed words.txt
var embeddedWords string

// Dictionary maps lowercase words to their relative frequency.
type Dictionary map[string]int

// LoadDictionary parses "word [count]" lines. Blank lines and lines starting
// with '#' are skipped; a missing count means 1.
func LoadDictionary(r io.Reader) (Dictionary, error) {
	dict := make(Dictionary)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		count := 1
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("line %d: invalid count %q", lineNo, fields[1])
			}
			count = n
		}
		word := strings.ToLower(fields[0])
		if count > dict[word] {
			dict[word] = count
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return dict, nil
}

// LoadDictionaryFile reads a word list from disk; an empty path returns the
// embedded list.
func LoadDictionaryFile(path string) (Dictionary, error) {
	if path == "" {
		return DefaultDictionary(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()
	return LoadDictionary(f)
}

// DefaultDictionary returns the embedded word list.
func DefaultDictionary() Dictionary {
	dict, err := LoadDictionary(strings.NewReader(embeddedWords))
	if err != nil {
		panic(fmt.Sprintf("embedded dictionary is invalid: %v", err))
	}
	return dict
}
