package catalog

import (
	"context"
	"strings"

	"github.com/goliatone/go-pim/internal/exclusions"
	"github.com/goliatone/go-pim/internal/logging"
	"github.com/goliatone/go-pim/pkg/interfaces"
)

// Catalog resolves which tables and columns the translation engine may touch.
// It combines raw schema introspection with the active exclusion rules: a
// table or column named by an active rule never reaches the engine, and
// tables left without columns are dropped entirely.
type Catalog struct {
	introspector Introspector
	registry     *exclusions.Registry
	logger       interfaces.Logger
}

// Option customizes a Catalog.
type Option func(*Catalog)

// WithLogger wires a logger provider into the catalog.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(c *Catalog) {
		c.logger = logging.CatalogLogger(provider)
	}
}

// New constructs a Catalog over the given introspector and exclusion registry.
func New(introspector Introspector, registry *exclusions.Registry, opts ...Option) *Catalog {
	c := &Catalog{
		introspector: introspector,
		registry:     registry,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TranslatableColumns returns the effective table/column structure after
// applying table and column exclusions. Identifier matching is
// case-insensitive on both sides.
func (c *Catalog) TranslatableColumns(ctx context.Context) ([]Table, error) {
	raw, err := c.introspector.TranslatableColumns(ctx)
	if err != nil {
		return nil, err
	}

	excludedTables, err := c.registry.ExcludedTables(ctx)
	if err != nil {
		return nil, err
	}
	excludedColumns, err := c.registry.ExcludedColumns(ctx)
	if err != nil {
		return nil, err
	}

	var out []Table
	for _, table := range raw {
		if _, skip := excludedTables[strings.ToLower(table.Name)]; skip {
			c.logger.Debug("table excluded from translation", "table", table.Name)
			continue
		}
		var columns []string
		for _, column := range table.Columns {
			if _, skip := excludedColumns[strings.ToLower(column)]; skip {
				continue
			}
			columns = append(columns, column)
		}
		if len(columns) == 0 {
			continue
		}
		out = append(out, Table{Name: table.Name, Columns: columns})
	}

	c.logger.Debug("resolved translatable structure", "tables", len(out))
	return out, nil
}
