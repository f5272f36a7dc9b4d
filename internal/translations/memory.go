package translations

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and examples.
type MemoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	records   map[int64]*Record
	languages map[int64]*Language
}

// NewMemoryStore constructs an empty in-memory translation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:    1,
		records:   map[int64]*Record{},
		languages: map[int64]*Language{},
	}
}

var _ Store = (*MemoryStore)(nil)

// AddLanguage registers a language in the in-memory catalog.
func (m *MemoryStore) AddLanguage(language Language) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := language
	m.languages[clone.ID] = &clone
}

func (m *MemoryStore) FindByTuple(_ context.Context, table string, rowID int64, field string, languageID int64) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if record := m.findTuple(table, rowID, field, languageID); record != nil {
		clone := *record
		return &clone, nil
	}
	return nil, &TupleNotFoundError{Table: table, RowID: rowID, Field: field, LanguageID: languageID}
}

func (m *MemoryStore) ListByRow(_ context.Context, table string, rowID int64, languageID int64) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Record
	for _, record := range m.sorted() {
		if record.Table == table && record.RowID == rowID && record.LanguageID == languageID {
			clone := *record
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MemoryStore) GetByID(_ context.Context, id int64) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	clone := *record
	return &clone, nil
}

func (m *MemoryStore) List(_ context.Context, table string, limit, offset int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sorted := m.sorted()
	var out []*Record
	for i := len(sorted) - 1; i >= 0; i-- {
		record := sorted[i]
		if table != "" && record.Table != table {
			continue
		}
		clone := *record
		out = append(out, &clone)
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Create(_ context.Context, record *Record) (*Record, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *record
	clone.ID = m.nextID
	m.nextID++
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	m.records[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (m *MemoryStore) UpdateValue(_ context.Context, id int64, value string, modifiedBy *int64) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	now := time.Now().UTC()
	record.Value = value
	record.ModifiedAt = &now
	record.ModifiedBy = modifiedBy

	clone := *record
	return &clone, nil
}

func (m *MemoryStore) Upsert(_ context.Context, record *Record) (*Record, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing := m.findTuple(record.Table, record.RowID, record.Field, record.LanguageID); existing != nil {
		now := time.Now().UTC()
		existing.Value = record.Value
		existing.ModifiedAt = &now
		clone := *existing
		return &clone, nil
	}

	clone := *record
	clone.ID = m.nextID
	m.nextID++
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	m.records[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryStore) TranslatableFields(_ context.Context, table string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]struct{}{}
	var fields []string
	for _, record := range m.records {
		if record.Table != table {
			continue
		}
		if _, dup := seen[record.Field]; dup {
			continue
		}
		seen[record.Field] = struct{}{}
		fields = append(fields, record.Field)
	}
	if len(fields) == 0 {
		return append([]string{}, DefaultTranslatableFields...), nil
	}
	sort.Strings(fields)
	return fields, nil
}

func (m *MemoryStore) ListActiveLanguages(_ context.Context) ([]*Language, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.languages))
	for id := range m.languages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*Language
	for _, id := range ids {
		language := m.languages[id]
		if !language.IsUsable() {
			continue
		}
		clone := *language
		out = append(out, &clone)
	}
	return out, nil
}

func (m *MemoryStore) GetLanguage(_ context.Context, id int64) (*Language, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	language, ok := m.languages[id]
	if !ok {
		return nil, ErrLanguageNotFound
	}
	clone := *language
	return &clone, nil
}

func (m *MemoryStore) findTuple(table string, rowID int64, field string, languageID int64) *Record {
	for _, record := range m.records {
		if record.Table == table && record.RowID == rowID && record.Field == field && record.LanguageID == languageID {
			return record
		}
	}
	return nil
}

func (m *MemoryStore) sorted() []*Record {
	out := make([]*Record, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
