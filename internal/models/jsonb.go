package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/liftforge/backend/internal/types"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// JSONBInjuries stores reported injuries as a JSONB array.
type JSONBInjuries []types.Injury

func (a JSONBInjuries) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

func (a *JSONBInjuries) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBInjuries{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// JSONBRaw stores a pre-encoded JSON document verbatim. Used for the
// generated program blob, which is kept as an opaque historical record.
type JSONBRaw json.RawMessage

func (r JSONBRaw) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "{}", nil
	}
	return []byte(r), nil
}

func (r *JSONBRaw) Scan(value interface{}) error {
	if value == nil {
		*r = JSONBRaw("{}")
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*r = append(JSONBRaw(nil), v...)
	case string:
		*r = JSONBRaw(v)
	}
	return nil
}

func (r JSONBRaw) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("{}"), nil
	}
	return r, nil
}

func (r *JSONBRaw) UnmarshalJSON(data []byte) error {
	*r = append(JSONBRaw(nil), data...)
	return nil
}
