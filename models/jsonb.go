package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONBMap is a custom type for PostgreSQL JSONB columns holding a flat
// string map, such as the fields of a roster record.
type JSONBMap map[string]string

// Value implements driver.Valuer interface
func (j JSONBMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONBMap) Scan(value interface{}) error {
	result := make(JSONBMap)
	if err := scanJSON(value, &result); err != nil {
		return err
	}
	*j = result
	return nil
}

// ValueList is the JSONB form of independent variables: label -> values,
// with null cells stored as JSON null.
type ValueList map[string][]*string

// Value implements driver.Valuer interface
func (v ValueList) Value() (driver.Value, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

// Scan implements sql.Scanner interface
func (v *ValueList) Scan(value interface{}) error {
	result := make(ValueList)
	if err := scanJSON(value, &result); err != nil {
		return err
	}
	*v = result
	return nil
}

func scanJSON(value interface{}, dest interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONB", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dest)
}
