package intercept

import (
	"context"
	"time"

	"github.com/goliatone/go-pim/internal/logging"
	"github.com/goliatone/go-pim/internal/translations"
	"github.com/goliatone/go-pim/pkg/interfaces"
)

// DeferredWrite holds translatable values captured from a create payload.
// They cannot be persisted until the native insert has produced a row id;
// Commit stores them once the id is known.
type DeferredWrite struct {
	table      string
	languageID int64
	values     map[string]string
	store      translations.Store
}

// Empty reports whether there is anything to commit.
func (d *DeferredWrite) Empty() bool {
	return d == nil || len(d.values) == 0
}

// Commit upserts the captured values for the newly created row.
func (d *DeferredWrite) Commit(ctx context.Context, rowID int64) error {
	if d.Empty() {
		return nil
	}
	now := time.Now().UTC()
	for field, value := range d.values {
		record := &translations.Record{
			Table:      d.table,
			RowID:      rowID,
			Field:      field,
			LanguageID: d.languageID,
			Value:      value,
			CreatedAt:  now,
		}
		if _, err := d.store.Upsert(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// WriteInterceptor routes translatable fields of incoming payloads into the
// translation store instead of the native tables.
type WriteInterceptor struct {
	store    translations.Store
	nativeID int64
	logger   interfaces.Logger
}

// WriteOption customizes a WriteInterceptor.
type WriteOption func(*WriteInterceptor)

// WithWriteLogger wires a logger provider into the interceptor.
func WithWriteLogger(provider interfaces.LoggerProvider) WriteOption {
	return func(i *WriteInterceptor) {
		i.logger = logging.InterceptLogger(provider)
	}
}

// NewWriteInterceptor constructs a write interceptor.
func NewWriteInterceptor(store translations.Store, nativeLanguageID int64, opts ...WriteOption) *WriteInterceptor {
	i := &WriteInterceptor{
		store:    store,
		nativeID: nativeLanguageID,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SplitCreate partitions a create payload into the native part and a
// deferred translation write. Translatable string fields are removed from
// the native payload so the primary insert never carries foreign-language
// values. Native-language requests pass through whole. The deferred part is
// committed by the caller once the insert has an id.
func (i *WriteInterceptor) SplitCreate(ctx context.Context, table string, languageID int64, payload Entity) (Entity, *DeferredWrite, error) {
	if languageID == 0 || languageID == i.nativeID || payload == nil {
		return payload, nil, nil
	}

	fields, err := i.store.TranslatableFields(ctx, table)
	if err != nil {
		return nil, nil, err
	}

	native := make(Entity, len(payload))
	for key, value := range payload {
		native[key] = value
	}

	deferred := &DeferredWrite{
		table:      table,
		languageID: languageID,
		values:     map[string]string{},
		store:      i.store,
	}
	for _, field := range fields {
		raw, ok := native[field]
		if !ok {
			continue
		}
		text, ok := raw.(string)
		if !ok {
			continue
		}
		deferred.values[field] = text
		delete(native, field)
	}

	logging.WithTranslationContext(i.logger, table, "", languageID).
		Debug("deferred translatable fields from create", "fields", len(deferred.values))
	return native, deferred, nil
}

// ApplyUpdate strips translatable fields from an update or patch payload and
// upserts them immediately, since the row id is already known. The returned
// payload holds only native fields.
func (i *WriteInterceptor) ApplyUpdate(ctx context.Context, table string, rowID int64, languageID int64, payload Entity) (Entity, error) {
	if languageID == 0 || languageID == i.nativeID || payload == nil {
		return payload, nil
	}

	fields, err := i.store.TranslatableFields(ctx, table)
	if err != nil {
		return nil, err
	}
	translatable := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		translatable[field] = struct{}{}
	}

	native := make(Entity, len(payload))
	now := time.Now().UTC()
	for key, value := range payload {
		text, isText := value.(string)
		if _, ok := translatable[key]; !ok || !isText {
			native[key] = value
			continue
		}
		record := &translations.Record{
			Table:      table,
			RowID:      rowID,
			Field:      key,
			LanguageID: languageID,
			Value:      text,
			CreatedAt:  now,
		}
		if _, err := i.store.Upsert(ctx, record); err != nil {
			return nil, err
		}
	}
	return native, nil
}
