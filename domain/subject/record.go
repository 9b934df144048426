package subject

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one roster row: values keyed by the CSV header, in header order.
type Record struct {
	headers []string
	values  []string
}

// NewRecord pairs headers with values. Missing values are empty; values
// beyond the last header are dropped.
func NewRecord(headers, values []string) Record {
	r := Record{
		headers: append([]string(nil), headers...),
		values:  make([]string, len(headers)),
	}
	copy(r.values, values)
	return r
}

// Headers returns the column names in order.
func (r Record) Headers() []string {
	return append([]string(nil), r.headers...)
}

// Get returns the value of a column.
func (r Record) Get(header string) (string, bool) {
	for i, h := range r.headers {
		if h == header {
			return r.values[i], true
		}
	}
	return "", false
}

// Len is the number of columns.
func (r Record) Len() int { return len(r.headers) }

// Map returns the record as an unordered map.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.headers))
	for i, h := range r.headers {
		out[h] = r.values[i]
	}
	return out
}

// MarshalJSON writes a JSON object whose keys keep header order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range r.headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object back, keeping key order.
func (r *Record) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("subject record must be a JSON object")
	}
	var headers, values []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", tok)
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		headers = append(headers, key)
		values = append(values, val)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = Record{headers: headers, values: values}
	return nil
}
