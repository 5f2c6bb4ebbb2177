// Package sqlite persists users, analyses, connections and reports in a
// single SQLite database file.
package sqlite

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const defaultPerPage = 10

// Store implements every repository interface on top of one *sql.DB.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. Foreign keys are enforced per connection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding json column: %w", err)
	}
	return string(b), nil
}

func unmarshalJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("decoding json column: %w", err)
	}
	return nil
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// pageBounds converts 1-based pagination options into LIMIT/OFFSET values.
func pageBounds(page, perPage int) (limit, offset int) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}
