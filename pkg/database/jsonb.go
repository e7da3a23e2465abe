package database

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// JSONB wraps any serializable type so it scans from and stores to a
// postgres jsonb column.
type JSONB[T any] struct {
	Data T
}

func NewJSONB[T any](data T) JSONB[T] {
	return JSONB[T]{Data: data}
}

func (j JSONB[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal jsonb value")
	}
	return b, nil
}

func (j *JSONB[T]) Scan(src any) error {
	if src == nil {
		var zero T
		j.Data = zero
		return nil
	}

	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.Errorf("unsupported jsonb source type %T", src)
	}

	if err := json.Unmarshal(b, &j.Data); err != nil {
		return errors.Wrap(err, "failed to unmarshal jsonb value")
	}
	return nil
}

func (j JSONB[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

func (j *JSONB[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &j.Data)
}
