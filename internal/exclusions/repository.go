package exclusions

import (
	"context"
	"strings"
)

// FilterOp is the closed set of comparison operators accepted by list filters.
type FilterOp string

const (
	FilterOpEquals   FilterOp = "eq"
	FilterOpContains FilterOp = "contains"
)

// Conjunction joins filter conditions.
type Conjunction string

const (
	ConjunctionAnd Conjunction = "and"
	ConjunctionOr  Conjunction = "or"
)

// Condition is a single field comparison. Values are always bound as query
// parameters, never interpolated.
type Condition struct {
	Field string
	Op    FilterOp
	Value string
}

// Filter is an explicit, closed filter grammar for rule listings.
type Filter struct {
	Conjunction Conjunction
	Conditions  []Condition
}

// ListOptions captures filtering, ordering and pagination for rule listings.
type ListOptions struct {
	Filter *Filter
	Order  string
	Limit  int
	Offset int
}

// Repository provides persistence for exclusion rules.
type Repository interface {
	Create(ctx context.Context, rule *Rule) (*Rule, error)
	GetByID(ctx context.Context, id int64) (*Rule, error)
	List(ctx context.Context, opts ListOptions) ([]*Rule, error)
	Count(ctx context.Context, filter *Filter) (int, error)
	Update(ctx context.Context, rule *Rule) (*Rule, error)
	Delete(ctx context.Context, id int64) error
	// ListActive returns active rules, optionally restricted to the given kinds.
	ListActive(ctx context.Context, kinds ...RuleKind) ([]*Rule, error)
}

// filterColumns maps the fields exposed by the filter grammar onto physical
// columns. Anything outside this map is rejected.
var filterColumns = map[string]string{
	"id":            "id",
	"tipoExclusion": "tipoExclusion",
	"valor":         "valor",
	"descripcion":   "descripcion",
	"activoSn":      "activoSn",
}

func (f *Filter) validate() error {
	if f == nil {
		return nil
	}
	for _, cond := range f.Conditions {
		if _, ok := filterColumns[cond.Field]; !ok {
			return ErrFilterFieldInvalid
		}
		switch cond.Op {
		case FilterOpEquals, FilterOpContains:
		default:
			return ErrFilterOpInvalid
		}
	}
	return nil
}

// orderColumn restricts ORDER BY input to known columns, with an optional
// "<column> DESC" suffix.
func orderColumn(order string) (string, bool) {
	trimmed := strings.TrimSpace(order)
	if trimmed == "" {
		return "", false
	}
	desc := false
	if strings.HasSuffix(strings.ToUpper(trimmed), " DESC") {
		trimmed = strings.TrimSpace(trimmed[:len(trimmed)-len(" DESC")])
		desc = true
	}
	column, ok := filterColumns[trimmed]
	if !ok {
		return "", false
	}
	if desc {
		return column + " DESC", true
	}
	return column, true
}
