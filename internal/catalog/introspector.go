package catalog

import (
	"context"
)

// Table is a physical table together with the text-bearing columns that are
// candidates for translation, in schema ordinal order.
type Table struct {
	Name    string
	Columns []string
}

// Introspector discovers text-bearing columns from a live database schema.
// Implementations return raw candidates; policy filtering happens in Catalog.
type Introspector interface {
	TranslatableColumns(ctx context.Context) ([]Table, error)
}
