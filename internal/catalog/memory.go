package catalog

import (
	"context"
	"sync"
)

// MemoryIntrospector serves a fixed table structure. Used by tests and by
// deployments that want to pin the translatable surface instead of reading
// the live schema.
type MemoryIntrospector struct {
	mu     sync.RWMutex
	tables []Table
}

// NewMemoryIntrospector constructs an introspector serving the given tables.
func NewMemoryIntrospector(tables ...Table) *MemoryIntrospector {
	m := &MemoryIntrospector{}
	m.SetTables(tables...)
	return m
}

var _ Introspector = (*MemoryIntrospector)(nil)

// SetTables replaces the served structure.
func (m *MemoryIntrospector) SetTables(tables ...Table) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables = make([]Table, len(tables))
	for i, table := range tables {
		columns := make([]string, len(table.Columns))
		copy(columns, table.Columns)
		m.tables[i] = Table{Name: table.Name, Columns: columns}
	}
}

func (m *MemoryIntrospector) TranslatableColumns(context.Context) ([]Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Table, len(m.tables))
	for i, table := range m.tables {
		columns := make([]string, len(table.Columns))
		copy(columns, table.Columns)
		out[i] = Table{Name: table.Name, Columns: columns}
	}
	return out, nil
}
