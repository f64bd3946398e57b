package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice maps a []string onto a jsonb column (the article tags). A nil
// or NULL value always comes back as an empty slice, never nil, so the JSON
// representation of tags is [] rather than null.
type StringSlice []string

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(src interface{}) error {
	if src == nil {
		*s = StringSlice{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("db: cannot scan %T into StringSlice", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("db: decode StringSlice: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*s = out
	return nil
}

// Value implements driver.Valuer.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
