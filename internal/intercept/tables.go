package intercept

import (
	"strings"
	"sync"
	"unicode"
)

// TableRegistry maps logical resource names onto physical tables. Explicit
// entries win; unknown names fall back to stripping a trailing "Controller"
// suffix and snake_casing the remainder, which is how the legacy resources
// were laid out.
type TableRegistry struct {
	mu        sync.RWMutex
	overrides map[string]string
}

// NewTableRegistry constructs a registry with the given explicit mappings.
func NewTableRegistry(overrides map[string]string) *TableRegistry {
	registry := &TableRegistry{overrides: map[string]string{}}
	for logical, physical := range overrides {
		registry.Register(logical, physical)
	}
	return registry
}

// Register adds or replaces an explicit mapping.
func (t *TableRegistry) Register(logical, physical string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overrides[strings.ToLower(logical)] = physical
}

// Resolve returns the physical table for a logical resource name.
func (t *TableRegistry) Resolve(logical string) string {
	t.mu.RLock()
	physical, ok := t.overrides[strings.ToLower(logical)]
	t.mu.RUnlock()
	if ok {
		return physical
	}
	return DeriveTableName(logical)
}

// DeriveTableName converts a controller-style name to its conventional
// table name: "ProductoDimensionController" becomes "producto_dimension".
func DeriveTableName(name string) string {
	name = strings.TrimSuffix(name, "Controller")

	var out strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				out.WriteByte('_')
			}
			out.WriteRune(unicode.ToLower(r))
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
