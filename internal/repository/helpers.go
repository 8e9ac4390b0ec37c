package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeLayout is the persisted timestamp encoding. RFC3339Nano keeps
// sub-second precision through a round trip.
const timeLayout = time.RFC3339Nano

// parseNullableTime parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL or empty, so a null timestamp never
// rehydrates to an epoch value.
func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp %q: %w", s.String, err)
	}
	return &t, nil
}

// parseTime parses a non-nullable persisted timestamp.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// nullableTimeToString converts a *time.Time to a value suitable for
// SQLite storage. Returns nil (SQL NULL) if the pointer is nil.
func nullableTimeToString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(timeLayout)
}

// nullableStr converts a *string to a value suitable for SQLite storage.
func nullableStr(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// strPtr converts a sql.NullString back to a *string, preserving NULL.
func strPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// unavailable tags a driver error so callers can detect storage failures
// with errors.Is(err, ErrStorageUnavailable).
func unavailable(err error) error {
	return errors.Join(ErrStorageUnavailable, err)
}
