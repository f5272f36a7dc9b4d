package translations

import (
	"context"
)

// Store provides persistence for translation records and the language catalog.
type Store interface {
	// FindByTuple fetches the record for a unique
	// (table, rowID, field, languageID) tuple.
	FindByTuple(ctx context.Context, table string, rowID int64, field string, languageID int64) (*Record, error)
	// ListByRow returns every translated field of one row in one language.
	ListByRow(ctx context.Context, table string, rowID int64, languageID int64) ([]*Record, error)
	// GetByID fetches a record by primary key.
	GetByID(ctx context.Context, id int64) (*Record, error)
	// List returns records for a table, newest first, paginated.
	List(ctx context.Context, table string, limit, offset int) ([]*Record, error)
	// Create inserts a new record. The tuple must not exist yet.
	Create(ctx context.Context, record *Record) (*Record, error)
	// UpdateValue replaces a record's value and stamps fechaModificacion.
	UpdateValue(ctx context.Context, id int64, value string, modifiedBy *int64) (*Record, error)
	// Upsert inserts the record or, when the tuple already exists, updates
	// its value in a single statement. Safe under concurrent writers.
	Upsert(ctx context.Context, record *Record) (*Record, error)
	// Delete removes a record by primary key.
	Delete(ctx context.Context, id int64) error
	// TranslatableFields returns the distinct campo values recorded for a
	// table, falling back to DefaultTranslatableFields when the table has
	// no records yet.
	TranslatableFields(ctx context.Context, table string) ([]string, error)
	// ListActiveLanguages returns active languages that carry an ISO code.
	ListActiveLanguages(ctx context.Context) ([]*Language, error)
	// GetLanguage fetches a language by id.
	GetLanguage(ctx context.Context, id int64) (*Language, error)
}
