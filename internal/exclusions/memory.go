package exclusions

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used by tests and examples.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rules  map[int64]*Rule
}

// NewMemoryRepository constructs an empty in-memory rule repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		rules:  map[int64]*Rule{},
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, rule *Rule) (*Rule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *rule
	clone.ID = m.nextID
	m.nextID++
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	m.rules[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rule, ok := m.rules[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	clone := *rule
	return &clone, nil
}

func (m *MemoryRepository) List(_ context.Context, opts ListOptions) ([]*Rule, error) {
	if err := opts.Filter.validate(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Rule
	for _, rule := range m.sorted() {
		if matchesFilter(rule, opts.Filter) {
			clone := *rule
			out = append(out, &clone)
		}
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *MemoryRepository) Count(_ context.Context, filter *Filter) (int, error) {
	if err := filter.validate(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, rule := range m.rules {
		if matchesFilter(rule, filter) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryRepository) Update(_ context.Context, rule *Rule) (*Rule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rules[rule.ID]; !ok {
		return nil, &NotFoundError{ID: rule.ID}
	}
	now := time.Now().UTC()
	clone := *rule
	clone.ModifiedAt = &now
	m.rules[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rules[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(m.rules, id)
	return nil
}

func (m *MemoryRepository) ListActive(_ context.Context, kinds ...RuleKind) ([]*Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kindSet := map[RuleKind]struct{}{}
	for _, kind := range kinds {
		kindSet[kind] = struct{}{}
	}

	var out []*Rule
	for _, rule := range m.sorted() {
		if !rule.IsActive() {
			continue
		}
		if len(kindSet) > 0 {
			if _, ok := kindSet[rule.Kind]; !ok {
				continue
			}
		}
		clone := *rule
		out = append(out, &clone)
	}
	return out, nil
}

func (m *MemoryRepository) sorted() []*Rule {
	out := make([]*Rule, 0, len(m.rules))
	for _, rule := range m.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func matchesFilter(rule *Rule, filter *Filter) bool {
	if filter == nil || len(filter.Conditions) == 0 {
		return true
	}
	useOr := filter.Conjunction == ConjunctionOr
	for _, cond := range filter.Conditions {
		matched := matchesCondition(rule, cond)
		if useOr && matched {
			return true
		}
		if !useOr && !matched {
			return false
		}
	}
	return !useOr
}

func matchesCondition(rule *Rule, cond Condition) bool {
	var value string
	switch cond.Field {
	case "id":
		value = strconv.FormatInt(rule.ID, 10)
	case "tipoExclusion":
		value = string(rule.Kind)
	case "valor":
		value = rule.Value
	case "descripcion":
		if rule.Description != nil {
			value = *rule.Description
		}
	case "activoSn":
		value = rule.Active
	default:
		return false
	}
	if cond.Op == FilterOpContains {
		return strings.Contains(value, cond.Value)
	}
	return value == cond.Value
}
