package translations

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// BunStore persists translation records using a Bun-backed database.
type BunStore struct {
	db *bun.DB
}

// NewBunStore constructs a Bun-backed translation store.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

var _ Store = (*BunStore)(nil)

func (s *BunStore) FindByTuple(ctx context.Context, table string, rowID int64, field string, languageID int64) (*Record, error) {
	record := new(Record)
	err := s.db.NewSelect().Model(record).
		Where("tc.tablaReferencia = ?", table).
		Where("tc.idReferencia = ?", rowID).
		Where("tc.campo = ?", field).
		Where("tc.idiomaId = ?", languageID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &TupleNotFoundError{Table: table, RowID: rowID, Field: field, LanguageID: languageID}
		}
		return nil, err
	}
	return record, nil
}

func (s *BunStore) ListByRow(ctx context.Context, table string, rowID int64, languageID int64) ([]*Record, error) {
	var records []*Record
	err := s.db.NewSelect().Model(&records).
		Where("tc.tablaReferencia = ?", table).
		Where("tc.idReferencia = ?", rowID).
		Where("tc.idiomaId = ?", languageID).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *BunStore) GetByID(ctx context.Context, id int64) (*Record, error) {
	record := new(Record)
	err := s.db.NewSelect().Model(record).Where("tc.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *BunStore) List(ctx context.Context, table string, limit, offset int) ([]*Record, error) {
	var records []*Record
	query := s.db.NewSelect().Model(&records).Order("id DESC")
	if table != "" {
		query = query.Where("tc.tablaReferencia = ?", table)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *BunStore) Create(ctx context.Context, record *Record) (*Record, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *BunStore) UpdateValue(ctx context.Context, id int64, value string, modifiedBy *int64) (*Record, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	record.Value = value
	record.ModifiedAt = &now
	record.ModifiedBy = modifiedBy

	_, err = s.db.NewUpdate().Model(record).
		Column("valor", "fechaModificacion", "usuarioModificacion").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Upsert inserts the record or updates the existing tuple in one statement,
// so two concurrent runs racing on the same tuple cannot create duplicates.
// The stored row is re-read afterwards to return canonical timestamps and id.
func (s *BunStore) Upsert(ctx context.Context, record *Record) (*Record, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := s.db.NewInsert().Model(record)
	if s.db.Dialect().Name() == dialect.MySQL {
		query = query.
			On("DUPLICATE KEY UPDATE").
			Set("valor = VALUES(valor)").
			Set("fechaModificacion = CURRENT_TIMESTAMP")
	} else {
		query = query.
			On("CONFLICT (tablaReferencia, idReferencia, campo, idiomaId) DO UPDATE").
			Set("valor = EXCLUDED.valor").
			Set("fechaModificacion = CURRENT_TIMESTAMP")
	}
	if _, err := query.Exec(ctx); err != nil {
		return nil, err
	}
	return s.FindByTuple(ctx, record.Table, record.RowID, record.Field, record.LanguageID)
}

func (s *BunStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*Record)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *BunStore) TranslatableFields(ctx context.Context, table string) ([]string, error) {
	var fields []string
	err := s.db.NewSelect().Model((*Record)(nil)).
		ColumnExpr("DISTINCT campo").
		Where("tablaReferencia = ?", table).
		OrderExpr("campo").
		Scan(ctx, &fields)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return append([]string{}, DefaultTranslatableFields...), nil
	}
	return fields, nil
}

func (s *BunStore) ListActiveLanguages(ctx context.Context) ([]*Language, error) {
	var languages []*Language
	err := s.db.NewSelect().Model(&languages).
		Where("i.activoSn = ?", "S").
		Where("i.iso IS NOT NULL AND i.iso <> ''").
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return languages, nil
}

func (s *BunStore) GetLanguage(ctx context.Context, id int64) (*Language, error) {
	language := new(Language)
	err := s.db.NewSelect().Model(language).Where("i.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLanguageNotFound
		}
		return nil, err
	}
	return language, nil
}
