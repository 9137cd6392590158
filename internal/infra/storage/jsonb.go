package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB адаптер jsonb-колонки к значению Go для database/sql
type JSONB[T any] struct {
	V *T
}

// Value сериализует значение в JSON
func (j JSONB[T]) Value() (driver.Value, error) {
	if j.V == nil {
		return nil, nil
	}
	b, err := json.Marshal(*j.V)
	if err != nil {
		return nil, fmt.Errorf("storage: marshal jsonb: %w", err)
	}
	return b, nil
}

// Scan разбирает JSON из колонки; NULL оставляет значение нулевым
func (j JSONB[T]) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("storage: unsupported jsonb source %T", src)
	}
	if err := json.Unmarshal(raw, j.V); err != nil {
		return fmt.Errorf("storage: unmarshal jsonb: %w", err)
	}
	return nil
}
