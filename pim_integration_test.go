package pim_test

import (
	"context"
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	pim "github.com/goliatone/go-pim"
	"github.com/goliatone/go-pim/internal/di"
	"github.com/goliatone/go-pim/internal/exclusions"
)

type upperProvider struct{}

func (upperProvider) Translate(_ context.Context, text, _, _ string) (string, error) {
	return strings.ToUpper(text), nil
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
	return db
}

func applyMigrations(t *testing.T, db *bun.DB) {
	t.Helper()

	entries, err := fs.Glob(pim.GetMigrationsFS(), "data/sql/migrations/sqlite/*.sql")
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded sqlite migrations found")
	}
	for _, path := range entries {
		raw, err := fs.ReadFile(pim.GetMigrationsFS(), path)
		if err != nil {
			t.Fatalf("read migration %s: %v", path, err)
		}
		for _, chunk := range strings.Split(string(raw), "---bun:split") {
			statement := strings.TrimSpace(chunk)
			if statement == "" {
				continue
			}
			if _, err := db.Exec(statement); err != nil {
				t.Fatalf("apply migration %s: %v", path, err)
			}
		}
	}
}

func excludeSystemTables(t *testing.T, module *pim.Module) {
	t.Helper()

	ctx := context.Background()
	for _, name := range []string{"idioma", "traduccion_exclusiones", "traduccion_contenido", "traduccion_literal"} {
		_, err := module.ExclusionRules().Create(ctx, &pim.ExclusionRule{
			Kind:   exclusions.RuleKindTable,
			Value:  name,
			Active: "S",
		})
		if err != nil {
			t.Fatalf("create table exclusion %s: %v", name, err)
		}
	}
}

func TestModule_EndToEndReconciliation(t *testing.T) {
	db := newTestDB(t)
	applyMigrations(t, db)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, `CREATE TABLE producto (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT,
		descripcion TEXT,
		precio REAL,
		"fechaModificacion" TIMESTAMP
	)`); err != nil {
		t.Fatalf("create producto: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO idioma (nombre, iso, activoSn) VALUES ('English', 'en', 'S')`); err != nil {
		t.Fatalf("insert language: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO producto (nombre, descripcion, precio) VALUES ('Silla', 'Silla de madera', 19.9)`); err != nil {
		t.Fatalf("insert producto: %v", err)
	}

	cfg := pim.DefaultConfig()
	cfg.Scheduler.Enabled = false
	cfg.Logging.Provider = "noop"

	module, err := pim.New(cfg, di.WithBunDB(db), di.WithTranslationProvider(upperProvider{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	excludeSystemTables(t, module)

	report, err := module.Reconciler().Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Failures) != 0 {
		t.Fatalf("Run() failures = %+v", report.Failures)
	}
	if len(report.Actions) != 2 {
		t.Fatalf("Run() produced %d actions, want 2", len(report.Actions))
	}

	record, err := module.Translations().FindByTuple(ctx, "producto", 1, "nombre", 2)
	if err != nil {
		t.Fatalf("FindByTuple() error = %v", err)
	}
	if record.Value != "SILLA" {
		t.Fatalf("translated value = %q, want %q", record.Value, "SILLA")
	}
	if record.ModifiedAt == nil {
		t.Fatal("expected reconciler to confirm the record")
	}

	// A second pass finds everything confirmed and does nothing.
	report, err = module.Reconciler().Run(ctx)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if len(report.Actions) != 0 {
		t.Fatalf("second Run() produced %d actions, want 0", len(report.Actions))
	}
}

func TestModule_ReadInterceptorOverlay(t *testing.T) {
	db := newTestDB(t)
	applyMigrations(t, db)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx,
		`INSERT INTO idioma (nombre, iso, activoSn) VALUES ('English', 'en', 'S')`); err != nil {
		t.Fatalf("insert language: %v", err)
	}

	cfg := pim.DefaultConfig()
	cfg.Scheduler.Enabled = false
	cfg.Logging.Provider = "noop"

	module, err := pim.New(cfg, di.WithBunDB(db), di.WithTranslationProvider(upperProvider{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := module.Translations().Upsert(ctx, &pim.TranslationRecord{
		Table: "producto", RowID: 5, Field: "nombre", LanguageID: 2, Value: "Chair",
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	read := module.NewReadInterceptor()
	entity := map[string]any{"id": int64(5), "nombre": "Silla", "precio": 19.9}

	out := read.Overlay(ctx, "producto", 2, entity)
	if out["nombre"] != "Chair" {
		t.Fatalf("overlay nombre = %v, want Chair", out["nombre"])
	}
	if out["precio"] != 19.9 {
		t.Fatalf("overlay touched precio: %v", out["precio"])
	}

	native := read.Overlay(ctx, "producto", 1, map[string]any{"id": int64(5), "nombre": "Silla"})
	if native["nombre"] != "Silla" {
		t.Fatalf("native overlay nombre = %v, want Silla", native["nombre"])
	}
}

func TestModule_WriteInterceptorRoundTrip(t *testing.T) {
	db := newTestDB(t)
	applyMigrations(t, db)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx,
		`INSERT INTO idioma (nombre, iso, activoSn) VALUES ('English', 'en', 'S')`); err != nil {
		t.Fatalf("insert language: %v", err)
	}

	cfg := pim.DefaultConfig()
	cfg.Scheduler.Enabled = false
	cfg.Logging.Provider = "noop"

	module, err := pim.New(cfg, di.WithBunDB(db), di.WithTranslationProvider(upperProvider{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	write := module.NewWriteInterceptor()
	payload, deferred, err := write.SplitCreate(ctx, "producto", 2, map[string]any{
		"nombre": "Chair",
		"stock":  3,
	})
	if err != nil {
		t.Fatalf("SplitCreate() error = %v", err)
	}
	if _, exists := payload["nombre"]; exists {
		t.Fatalf("translatable field leaked into primary create payload: %+v", payload)
	}
	if payload["stock"] != 3 {
		t.Fatalf("native field missing: %+v", payload)
	}
	if deferred.Empty() {
		t.Fatal("expected deferred translation writes")
	}
	if err := deferred.Commit(ctx, 42); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	record, err := module.Translations().FindByTuple(ctx, "producto", 42, "nombre", 2)
	if err != nil {
		t.Fatalf("FindByTuple() error = %v", err)
	}
	if record.Value != "Chair" {
		t.Fatalf("stored value = %q", record.Value)
	}
}

func TestMigrations_TranslationValueHoldsLongText(t *testing.T) {
	raw, err := fs.ReadFile(pim.GetMigrationsFS(),
		"data/sql/migrations/20250101000003_create_traduccion_contenido.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	// MySQL TEXT caps at 64KB; stored translations may carry decoded blob
	// content far beyond that.
	if !strings.Contains(string(raw), "valor LONGTEXT") {
		t.Fatal("valor column must be LONGTEXT")
	}
}

func TestModule_ValidatesConfig(t *testing.T) {
	cfg := pim.DefaultConfig()
	cfg.I18N.LanguageHeader = " "

	if _, err := pim.New(cfg); err == nil {
		t.Fatal("expected config validation error")
	}
	if _, err := pim.New(pim.DefaultConfig()); err != nil {
		t.Fatalf("default config should wire: %v", err)
	}
}
