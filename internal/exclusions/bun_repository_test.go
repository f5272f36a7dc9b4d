package exclusions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestBunRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &Rule{Kind: RuleKindColumn, Value: "codigoSap", Active: activeYes})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create() did not assign an id")
	}

	fetched, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if fetched.Value != "codigoSap" || fetched.Kind != RuleKindColumn {
		t.Fatalf("GetByID() returned %+v", fetched)
	}
}

func TestBunRepository_GetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunRepository(db)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound, got %v", err)
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) || notFound.ID != 404 {
		t.Fatalf("expected NotFoundError with id 404, got %v", err)
	}
}

func TestBunRepository_CreateRejectsInvalid(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunRepository(db)

	if _, err := repo.Create(context.Background(), &Rule{Kind: "SOMETHING", Value: "x", Active: activeYes}); err == nil {
		t.Fatal("expected validation error for unknown kind")
	}
	if _, err := repo.Create(context.Background(), &Rule{Kind: RuleKindTable, Value: "", Active: activeYes}); err == nil {
		t.Fatal("expected validation error for empty value")
	}
}

func TestBunRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunRepository(db)
	ctx := context.Background()

	seed := []*Rule{
		{Kind: RuleKindColumn, Value: "codigoSap", Active: activeYes},
		{Kind: RuleKindTable, Value: "auditoria", Active: activeYes},
		{Kind: RuleKindSubstring, Value: "ACME", Active: activeNo},
		{Kind: RuleKindSubstring, Value: "http://", Active: activeYes},
	}
	for _, rule := range seed {
		if _, err := repo.Create(ctx, rule); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{
			name: "no filter ordered by id",
			opts: ListOptions{},
			want: []string{"codigoSap", "auditoria", "ACME", "http://"},
		},
		{
			name: "equals on kind",
			opts: ListOptions{Filter: &Filter{Conditions: []Condition{
				{Field: "tipoExclusion", Op: FilterOpEquals, Value: string(RuleKindSubstring)},
			}}},
			want: []string{"ACME", "http://"},
		},
		{
			name: "and of kind and active",
			opts: ListOptions{Filter: &Filter{Conjunction: ConjunctionAnd, Conditions: []Condition{
				{Field: "tipoExclusion", Op: FilterOpEquals, Value: string(RuleKindSubstring)},
				{Field: "activoSn", Op: FilterOpEquals, Value: activeYes},
			}}},
			want: []string{"http://"},
		},
		{
			name: "or of two values",
			opts: ListOptions{Filter: &Filter{Conjunction: ConjunctionOr, Conditions: []Condition{
				{Field: "valor", Op: FilterOpEquals, Value: "codigoSap"},
				{Field: "valor", Op: FilterOpEquals, Value: "auditoria"},
			}}},
			want: []string{"codigoSap", "auditoria"},
		},
		{
			name: "contains",
			opts: ListOptions{Filter: &Filter{Conditions: []Condition{
				{Field: "valor", Op: FilterOpContains, Value: "udit"},
			}}},
			want: []string{"auditoria"},
		},
		{
			name: "limit and offset",
			opts: ListOptions{Limit: 2, Offset: 1},
			want: []string{"auditoria", "ACME"},
		},
		{
			name: "descending order",
			opts: ListOptions{Order: "id DESC", Limit: 1},
			want: []string{"http://"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules, err := repo.List(ctx, tc.opts)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(rules) != len(tc.want) {
				t.Fatalf("List() returned %d rules, want %d", len(rules), len(tc.want))
			}
			for i, rule := range rules {
				if rule.Value != tc.want[i] {
					t.Fatalf("List()[%d] = %q, want %q", i, rule.Value, tc.want[i])
				}
			}
		})
	}
}

func TestBunRepository_ListRejectsUnknownField(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunRepository(db)

	_, err := repo.List(context.Background(), ListOptions{Filter: &Filter{Conditions: []Condition{
		{Field: "valor; DROP TABLE traduccion_exclusiones", Op: FilterOpEquals, Value: "x"},
	}}})
	if !errors.Is(err, ErrFilterFieldInvalid) {
		t.Fatalf("expected ErrFilterFieldInvalid, got %v", err)
	}

	_, err = repo.Count(context.Background(), &Filter{Conditions: []Condition{
		{Field: "valor", Op: "regex", Value: "x"},
	}})
	if !errors.Is(err, ErrFilterOpInvalid) {
		t.Fatalf("expected ErrFilterOpInvalid, got %v", err)
	}
}

func TestBunRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &Rule{Kind: RuleKindExactValue, Value: "N/A", Active: activeYes})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	created.Active = activeNo
	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ModifiedAt == nil {
		t.Fatal("Update() did not stamp fechaModificacion")
	}

	fetched, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if fetched.Active != activeNo {
		t.Fatalf("GetByID() after update returned activoSn=%q", fetched.Active)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound on second delete, got %v", err)
	}

	missing := &Rule{ID: 9999, Kind: RuleKindExactValue, Value: "N/A", Active: activeYes}
	if _, err := repo.Update(ctx, missing); !errors.Is(err, ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound on missing update, got %v", err)
	}
}

func TestBunRepository_ListActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunRepository(db)
	ctx := context.Background()

	seed := []*Rule{
		{Kind: RuleKindColumn, Value: "codigoSap", Active: activeYes},
		{Kind: RuleKindColumn, Value: "referencia", Active: activeNo},
		{Kind: RuleKindTable, Value: "auditoria", Active: activeYes},
		{Kind: RuleKindSubstring, Value: "ACME", Active: activeYes},
	}
	for _, rule := range seed {
		if _, err := repo.Create(ctx, rule); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	all, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListActive() returned %d rules, want 3", len(all))
	}

	columns, err := repo.ListActive(ctx, RuleKindColumn)
	if err != nil {
		t.Fatalf("ListActive(COLUMNA) error = %v", err)
	}
	if len(columns) != 1 || columns[0].Value != "codigoSap" {
		t.Fatalf("ListActive(COLUMNA) returned %+v", columns)
	}

	mixed, err := repo.ListActive(ctx, RuleKindTable, RuleKindSubstring)
	if err != nil {
		t.Fatalf("ListActive(TABLA,TEXTO_CONTENIDO) error = %v", err)
	}
	if len(mixed) != 2 {
		t.Fatalf("ListActive(TABLA,TEXTO_CONTENIDO) returned %d rules, want 2", len(mixed))
	}
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", "file:"+t.Name()+"?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.NewCreateTable().Model((*Rule)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}
