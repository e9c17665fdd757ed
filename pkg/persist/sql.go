package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLStorage stores items in a SQL table.
// It works with any database/sql driver. The table is created by Migrate:
//
//	CREATE TABLE ucom_persist (
//	    k VARCHAR(255) PRIMARY KEY,
//	    v TEXT NOT NULL
//	);
type SQLStorage struct {
	db        *sql.DB
	tableName string
	dialect   SQLDialect
}

// SQLDialect selects placeholder and upsert syntax.
type SQLDialect int

const (
	// DialectPostgreSQL uses $n placeholders and ON CONFLICT.
	DialectPostgreSQL SQLDialect = iota
	// DialectMySQL uses ? placeholders and ON DUPLICATE KEY.
	DialectMySQL
	// DialectSQLite uses ? placeholders and INSERT OR REPLACE.
	DialectSQLite
)

// ParseDialect maps a backend or driver name to a dialect.
func ParseDialect(name string) (SQLDialect, error) {
	switch name {
	case "postgres", "postgresql", "pq":
		return DialectPostgreSQL, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	}
	return 0, fmt.Errorf("persist: unknown SQL dialect %q", name)
}

// SQLOption configures SQLStorage.
type SQLOption func(*SQLStorage)

// WithTableName sets the table name.
// Default: "ucom_persist".
func WithTableName(name string) SQLOption {
	return func(s *SQLStorage) {
		s.tableName = name
	}
}

// WithDialect sets the SQL dialect.
// Default: DialectPostgreSQL.
func WithDialect(d SQLDialect) SQLOption {
	return func(s *SQLStorage) {
		s.dialect = d
	}
}

// NewSQLStorage creates a SQL-backed storage on db.
func NewSQLStorage(db *sql.DB, opts ...SQLOption) *SQLStorage {
	s := &SQLStorage{
		db:        db,
		tableName: "ucom_persist",
		dialect:   DialectPostgreSQL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate creates the table if it does not exist.
func (s *SQLStorage) Migrate(ctx context.Context) error {
	keyType := "VARCHAR(255)"
	if s.dialect == DialectSQLite {
		keyType = "TEXT"
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (k %s PRIMARY KEY, v TEXT NOT NULL)`, s.tableName, keyType)
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *SQLStorage) placeholder(n int) string {
	if s.dialect == DialectPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// GetItem returns the stored value for key.
func (s *SQLStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT v FROM %s WHERE k = %s`, s.tableName, s.placeholder(1))

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// SetItem upserts value under key.
func (s *SQLStorage) SetItem(ctx context.Context, key, value string) error {
	var query string
	switch s.dialect {
	case DialectPostgreSQL:
		query = fmt.Sprintf(`
			INSERT INTO %s (k, v) VALUES ($1, $2)
			ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v
		`, s.tableName)
	case DialectMySQL:
		query = fmt.Sprintf(`
			INSERT INTO %s (k, v) VALUES (?, ?)
			ON DUPLICATE KEY UPDATE v = VALUES(v)
		`, s.tableName)
	case DialectSQLite:
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (k, v) VALUES (?, ?)`, s.tableName)
	}

	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}
