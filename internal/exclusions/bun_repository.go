package exclusions

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// BunRepository persists exclusion rules using a Bun-backed database.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository constructs a Bun-backed rule repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

var _ Repository = (*BunRepository)(nil)

func (r *BunRepository) Create(ctx context.Context, rule *Rule) (*Rule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NewInsert().Model(rule).Exec(ctx); err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id int64) (*Rule, error) {
	rule := new(Rule)
	err := r.db.NewSelect().Model(rule).Where("te.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, err
	}
	return rule, nil
}

func (r *BunRepository) List(ctx context.Context, opts ListOptions) ([]*Rule, error) {
	if err := opts.Filter.validate(); err != nil {
		return nil, err
	}

	var rules []*Rule
	query := r.db.NewSelect().Model(&rules)
	query = applyFilter(query, opts.Filter)

	if column, ok := orderColumn(opts.Order); ok {
		query = query.Order(column)
	} else {
		query = query.Order("id")
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *BunRepository) Count(ctx context.Context, filter *Filter) (int, error) {
	if err := filter.validate(); err != nil {
		return 0, err
	}
	query := r.db.NewSelect().Model((*Rule)(nil))
	query = applyFilter(query, filter)
	return query.Count(ctx)
}

func (r *BunRepository) Update(ctx context.Context, rule *Rule) (*Rule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rule.ModifiedAt = &now

	res, err := r.db.NewUpdate().
		Model(rule).
		Column("tipoExclusion", "valor", "descripcion", "activoSn", "fechaModificacion", "usuarioModificacion").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, &NotFoundError{ID: rule.ID}
	}
	return rule, nil
}

func (r *BunRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*Rule)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		// MySQL errno 1451: the row is referenced by other records.
		if strings.Contains(err.Error(), "1451") {
			return ErrRuleInUse
		}
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func (r *BunRepository) ListActive(ctx context.Context, kinds ...RuleKind) ([]*Rule, error) {
	var rules []*Rule
	query := r.db.NewSelect().Model(&rules).Where("activoSn = ?", activeYes)
	if len(kinds) > 0 {
		query = query.Where("tipoExclusion IN (?)", bun.In(kinds))
	}
	if err := query.Order("id").Scan(ctx); err != nil {
		return nil, err
	}
	return rules, nil
}

func applyFilter(query *bun.SelectQuery, filter *Filter) *bun.SelectQuery {
	if filter == nil || len(filter.Conditions) == 0 {
		return query
	}

	useOr := filter.Conjunction == ConjunctionOr

	return query.WhereGroup(" AND ", func(group *bun.SelectQuery) *bun.SelectQuery {
		for i, cond := range filter.Conditions {
			column := filterColumns[cond.Field]
			clause := "? = ?"
			value := any(cond.Value)
			if cond.Op == FilterOpContains {
				clause = "? LIKE ?"
				value = "%" + cond.Value + "%"
			}
			if useOr && i > 0 {
				group = group.WhereOr(clause, bun.Ident(column), value)
			} else {
				group = group.Where(clause, bun.Ident(column), value)
			}
		}
		return group
	})
}
