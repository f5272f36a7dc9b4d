package exclusions

import (
	"context"
	"strings"
)

// Classification is the outcome of checking a value against content rules.
type Classification int

const (
	// ClassificationNone means the value carries no exclusion and can be
	// translated in full.
	ClassificationNone Classification = iota
	// ClassificationExactMatch means the whole value equals an active
	// VALOR_EXACTO rule and must be stored verbatim.
	ClassificationExactMatch
	// ClassificationContainsExcluded means one or more TEXTO_CONTENIDO
	// values occur inside the text and must survive translation unchanged.
	ClassificationContainsExcluded
)

// Registry exposes active exclusion rules as lookups for the engine. Rules
// are re-read from the repository on every call; slow-changing data, but the
// admin API can flip rules at any time.
type Registry struct {
	repo Repository
}

// NewRegistry constructs a registry over the given repository.
func NewRegistry(repo Repository) *Registry {
	return &Registry{repo: repo}
}

// ExcludedColumns returns lowercased column names from active COLUMNA rules.
func (r *Registry) ExcludedColumns(ctx context.Context) (map[string]struct{}, error) {
	return r.identifierSet(ctx, RuleKindColumn)
}

// ExcludedTables returns lowercased table names from active TABLA rules.
func (r *Registry) ExcludedTables(ctx context.Context) (map[string]struct{}, error) {
	return r.identifierSet(ctx, RuleKindTable)
}

func (r *Registry) identifierSet(ctx context.Context, kind RuleKind) (map[string]struct{}, error) {
	rules, err := r.repo.ListActive(ctx, kind)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		set[strings.ToLower(rule.Value)] = struct{}{}
	}
	return set, nil
}

// Classify inspects a candidate value against active content rules.
// Exact-value rules win over substring rules; a full-string case-sensitive
// match on the trimmed value short-circuits. Otherwise every substring rule
// occurring in the text is collected, preserving rule order.
func (r *Registry) Classify(ctx context.Context, text string) (Classification, []string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ClassificationNone, nil, nil
	}

	exact, err := r.repo.ListActive(ctx, RuleKindExactValue)
	if err != nil {
		return ClassificationNone, nil, err
	}
	for _, rule := range exact {
		if trimmed == rule.Value {
			return ClassificationExactMatch, nil, nil
		}
	}

	substrings, err := r.repo.ListActive(ctx, RuleKindSubstring)
	if err != nil {
		return ClassificationNone, nil, err
	}
	var matched []string
	seen := map[string]struct{}{}
	for _, rule := range substrings {
		if rule.Value == "" {
			continue
		}
		if _, dup := seen[rule.Value]; dup {
			continue
		}
		if strings.Contains(text, rule.Value) {
			matched = append(matched, rule.Value)
			seen[rule.Value] = struct{}{}
		}
	}
	if len(matched) > 0 {
		return ClassificationContainsExcluded, matched, nil
	}
	return ClassificationNone, nil, nil
}
