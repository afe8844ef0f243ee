package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB stores a value as a postgres jsonb column.
type JSONB[T any] struct {
	Data T
}

func NewJSONB[T any](data T) JSONB[T] {
	return JSONB[T]{Data: data}
}

func (j JSONB[T]) Value() (driver.Value, error) {
	encoded, err := json.Marshal(j.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode jsonb: %w", err)
	}

	return encoded, nil
}

func (j *JSONB[T]) Scan(src any) error {
	var raw []byte

	switch value := src.(type) {
	case nil:
		var zero T
		j.Data = zero

		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}

	if err := json.Unmarshal(raw, &j.Data); err != nil {
		return fmt.Errorf("failed to decode jsonb: %w", err)
	}

	return nil
}

func (j JSONB[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

func (j *JSONB[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.Data)
}
