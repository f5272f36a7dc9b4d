package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// SQLiteIntrospector reads candidate columns from sqlite_master and PRAGMA
// table_info. SQLite is used by the test harness; type affinities are looser
// than MySQL's, so matching is done on declared-type substrings.
type SQLiteIntrospector struct {
	db           *bun.DB
	includeBlobs bool
}

// SQLiteOption customizes a SQLiteIntrospector.
type SQLiteOption func(*SQLiteIntrospector)

// WithSQLiteBlobColumns includes blob-typed columns in the candidate set.
func WithSQLiteBlobColumns() SQLiteOption {
	return func(s *SQLiteIntrospector) {
		s.includeBlobs = true
	}
}

// NewSQLiteIntrospector constructs an introspector over the given database.
func NewSQLiteIntrospector(db *bun.DB, opts ...SQLiteOption) *SQLiteIntrospector {
	s := &SQLiteIntrospector{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Introspector = (*SQLiteIntrospector)(nil)

func (s *SQLiteIntrospector) TranslatableColumns(ctx context.Context) ([]Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, wrapIntrospectionError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrapIntrospectionError(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapIntrospectionError(err)
	}

	var tables []Table
	for _, name := range names {
		columns, err := s.tableColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(columns) > 0 {
			tables = append(tables, Table{Name: name, Columns: columns})
		}
	}
	return tables, nil
}

func (s *SQLiteIntrospector) tableColumns(ctx context.Context, table string) ([]string, error) {
	// Table names come from sqlite_master, not user input.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, wrapIntrospectionError(err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid        int
			name       string
			typeName   string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typeName, &notNull, &defaultVal, &pk); err != nil {
			return nil, wrapIntrospectionError(err)
		}
		if s.isTextType(typeName) {
			columns = append(columns, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapIntrospectionError(err)
	}
	return columns, nil
}

func (s *SQLiteIntrospector) isTextType(declared string) bool {
	upper := strings.ToUpper(declared)
	if strings.Contains(upper, "CHAR") || strings.Contains(upper, "TEXT") || strings.Contains(upper, "CLOB") {
		return true
	}
	if s.includeBlobs && strings.Contains(upper, "BLOB") {
		return true
	}
	return false
}
