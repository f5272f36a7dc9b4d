package literals

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-pim/internal/translations"
)

// Service manages the UI literal catalog. Literals are keyed strings kept
// per language; listings pivot them into one row per key with a value per
// language ISO code.
type Service struct {
	db    *bun.DB
	store translations.Store
}

// NewService constructs a literal service. The translation store supplies
// the language catalog.
func NewService(db *bun.DB, store translations.Store) *Service {
	return &Service{db: db, store: store}
}

// ListKeys returns pivoted literal rows ordered by key, paginated on
// distinct keys. The pivot is computed in memory from parameterized reads,
// one column per active language.
func (s *Service) ListKeys(ctx context.Context, limit, offset int) ([]KeyRow, error) {
	languages, err := s.store.ListActiveLanguages(ctx)
	if err != nil {
		return nil, err
	}
	isoByID := make(map[int64]string, len(languages))
	for _, language := range languages {
		isoByID[language.ID] = language.ISO
	}

	var keys []string
	keysQuery := s.db.NewSelect().Model((*Literal)(nil)).
		ColumnExpr("DISTINCT clave").
		OrderExpr("clave")
	if limit > 0 {
		keysQuery = keysQuery.Limit(limit)
	}
	if offset > 0 {
		keysQuery = keysQuery.Offset(offset)
	}
	if err := keysQuery.Scan(ctx, &keys); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	var rows []*Literal
	err = s.db.NewSelect().Model(&rows).
		Where("tl.clave IN (?)", bun.In(keys)).
		Order("clave").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]map[string]string, len(keys))
	for _, row := range rows {
		iso, ok := isoByID[row.LanguageID]
		if !ok {
			continue
		}
		if byKey[row.Key] == nil {
			byKey[row.Key] = map[string]string{}
		}
		byKey[row.Key][iso] = row.Value
	}

	out := make([]KeyRow, 0, len(keys))
	for _, key := range keys {
		values := byKey[key]
		if values == nil {
			values = map[string]string{}
		}
		out = append(out, KeyRow{Key: key, Values: values})
	}
	return out, nil
}

// CountKeys returns the number of distinct literal keys.
func (s *Service) CountKeys(ctx context.Context) (int, error) {
	var count int
	err := s.db.NewSelect().Model((*Literal)(nil)).
		ColumnExpr("COUNT(DISTINCT clave)").
		Scan(ctx, &count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Replace swaps every value stored under key for the given per-language set
// in one transaction. An empty values map removes the key outright.
func (s *Service) Replace(ctx context.Context, key string, values map[int64]string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrKeyRequired
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*Literal)(nil)).Where("clave = ?", key).Exec(ctx); err != nil {
			return err
		}
		for languageID, value := range values {
			literal := &Literal{Key: key, LanguageID: languageID, Value: value}
			if err := literal.Validate(); err != nil {
				return err
			}
			if _, err := tx.NewInsert().Model(literal).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteKey removes every language value stored under key.
func (s *Service) DeleteKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrKeyRequired
	}
	res, err := s.db.NewDelete().Model((*Literal)(nil)).Where("clave = ?", key).Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// Bundle returns the key/value literal set for one language ISO code, the
// shape front ends consume at boot.
func (s *Service) Bundle(ctx context.Context, iso string) (map[string]string, error) {
	languages, err := s.store.ListActiveLanguages(ctx)
	if err != nil {
		return nil, err
	}
	var languageID int64
	for _, language := range languages {
		if strings.EqualFold(language.ISO, iso) {
			languageID = language.ID
			break
		}
	}
	if languageID == 0 {
		return nil, translations.ErrLanguageNotFound
	}

	var rows []*Literal
	if err := s.db.NewSelect().Model(&rows).Where("tl.idiomaId = ?", languageID).Scan(ctx); err != nil {
		return nil, err
	}
	bundle := make(map[string]string, len(rows))
	for _, row := range rows {
		bundle[row.Key] = row.Value
	}
	return bundle, nil
}
