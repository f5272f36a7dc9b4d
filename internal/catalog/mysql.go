package catalog

import (
	"context"

	"github.com/uptrace/bun"
)

// textDataTypes are the MySQL column types whose values can hold prose.
var textDataTypes = []string{"varchar", "char", "text", "mediumtext", "longtext"}

// blobDataTypes extend the candidate set for batch runs, where blob columns
// holding UTF-8 payloads are decoded before translation.
var blobDataTypes = []string{"blob", "tinyblob", "mediumblob", "longblob"}

// MySQLIntrospector reads candidate columns from information_schema for the
// schema of the current connection.
type MySQLIntrospector struct {
	db           *bun.DB
	includeBlobs bool
}

// MySQLOption customizes a MySQLIntrospector.
type MySQLOption func(*MySQLIntrospector)

// WithBlobColumns includes blob-typed columns in the candidate set.
func WithBlobColumns() MySQLOption {
	return func(m *MySQLIntrospector) {
		m.includeBlobs = true
	}
}

// NewMySQLIntrospector constructs an introspector over the given database.
func NewMySQLIntrospector(db *bun.DB, opts ...MySQLOption) *MySQLIntrospector {
	m := &MySQLIntrospector{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ Introspector = (*MySQLIntrospector)(nil)

// TranslatableColumns lists text-bearing columns of every base table in the
// connected schema, grouped per table in ordinal order. Views are skipped.
func (m *MySQLIntrospector) TranslatableColumns(ctx context.Context) ([]Table, error) {
	types := textDataTypes
	if m.includeBlobs {
		types = append(append([]string{}, textDataTypes...), blobDataTypes...)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT c.TABLE_NAME, c.COLUMN_NAME
		FROM information_schema.COLUMNS c
		INNER JOIN information_schema.TABLES t
			ON t.TABLE_SCHEMA = c.TABLE_SCHEMA
			AND t.TABLE_NAME = c.TABLE_NAME
		WHERE c.TABLE_SCHEMA = DATABASE()
			AND t.TABLE_TYPE = 'BASE TABLE'
			AND c.DATA_TYPE IN (?)
		ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`,
		bun.In(types),
	)
	if err != nil {
		return nil, wrapIntrospectionError(err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var tableName, columnName string
		if err := rows.Scan(&tableName, &columnName); err != nil {
			return nil, wrapIntrospectionError(err)
		}
		if len(tables) == 0 || tables[len(tables)-1].Name != tableName {
			tables = append(tables, Table{Name: tableName})
		}
		last := &tables[len(tables)-1]
		last.Columns = append(last.Columns, columnName)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapIntrospectionError(err)
	}
	return tables, nil
}
