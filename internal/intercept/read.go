package intercept

import (
	"context"

	"github.com/goliatone/go-pim/internal/logging"
	"github.com/goliatone/go-pim/internal/translations"
	"github.com/goliatone/go-pim/pkg/interfaces"
)

// Entity is a generic record as decoded from JSON or scanned from storage.
type Entity = map[string]any

// ReadInterceptor overlays stored translations onto outgoing records. It
// never fails a read: when translations cannot be fetched the caller gets
// the native values back untouched.
type ReadInterceptor struct {
	store    translations.Store
	nativeID int64
	logger   interfaces.Logger
}

// ReadOption customizes a ReadInterceptor.
type ReadOption func(*ReadInterceptor)

// WithReadLogger wires a logger provider into the interceptor.
func WithReadLogger(provider interfaces.LoggerProvider) ReadOption {
	return func(i *ReadInterceptor) {
		i.logger = logging.InterceptLogger(provider)
	}
}

// NewReadInterceptor constructs a read interceptor.
func NewReadInterceptor(store translations.Store, nativeLanguageID int64, opts ...ReadOption) *ReadInterceptor {
	i := &ReadInterceptor{
		store:    store,
		nativeID: nativeLanguageID,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Overlay replaces translated fields on a single entity. Requests for the
// native language pass through untouched, as do entities without a usable
// id or without stored translations.
func (i *ReadInterceptor) Overlay(ctx context.Context, table string, languageID int64, entity Entity) Entity {
	if entity == nil || languageID == 0 || languageID == i.nativeID {
		return entity
	}

	rowID, ok := entityID(entity)
	if !ok {
		return entity
	}

	records, err := i.store.ListByRow(ctx, table, rowID, languageID)
	if err != nil {
		logging.WithTranslationContext(i.logger, table, "", languageID).
			Warn("translation overlay failed, serving native values", "row", rowID, "error", err)
		return entity
	}

	for _, record := range records {
		if _, exists := entity[record.Field]; exists {
			entity[record.Field] = record.Value
		}
	}
	return entity
}

// OverlaySlice overlays every element of a result set. Elements are isolated
// from each other: one failing row never degrades its siblings.
func (i *ReadInterceptor) OverlaySlice(ctx context.Context, table string, languageID int64, entities []Entity) []Entity {
	if languageID == 0 || languageID == i.nativeID {
		return entities
	}
	for idx, entity := range entities {
		entities[idx] = i.Overlay(ctx, table, languageID, entity)
	}
	return entities
}

// entityID extracts the numeric primary key from a decoded record. JSON
// numbers arrive as float64; storage scans as int64.
func entityID(entity Entity) (int64, bool) {
	raw, ok := entity["id"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int64:
		return v, v > 0
	case int:
		return int64(v), v > 0
	case float64:
		id := int64(v)
		return id, id > 0 && float64(id) == v
	default:
		return 0, false
	}
}
