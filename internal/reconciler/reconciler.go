package reconciler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-pim/internal/catalog"
	"github.com/goliatone/go-pim/internal/logging"
	"github.com/goliatone/go-pim/internal/translations"
	"github.com/goliatone/go-pim/internal/translator"
	"github.com/goliatone/go-pim/pkg/interfaces"
)

const (
	idColumn       = "id"
	modifiedColumn = "fechaModificacion"
	defaultWindow  = 24 * time.Hour
	defaultWorkers = 1
)

// Reconciler walks the translatable structure and backfills or refreshes
// translation records for every active target language. A run only touches
// tuples that are missing or never confirmed (nil fechaModificacion);
// confirmed tuples are skipped, so re-running is idempotent.
type Reconciler struct {
	db          *bun.DB
	catalog     *catalog.Catalog
	store       translations.Store
	engine      *translator.Translator
	nativeID    int64
	window      time.Duration
	concurrency int
	logger      interfaces.Logger
	now         func() time.Time
}

// Option customizes a Reconciler.
type Option func(*Reconciler)

// WithWindow bounds the source-row scan to rows modified inside the window
// (rows with a NULL modification stamp are always scanned). Zero disables
// the bound and scans every row.
func WithWindow(window time.Duration) Option {
	return func(r *Reconciler) {
		r.window = window
	}
}

// WithConcurrency sets how many tables are reconciled in parallel.
func WithConcurrency(workers int) Option {
	return func(r *Reconciler) {
		if workers > 0 {
			r.concurrency = workers
		}
	}
}

// WithLogger wires a logger provider into the reconciler.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(r *Reconciler) {
		r.logger = logging.ReconcilerLogger(provider)
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// New constructs a Reconciler. nativeLanguageID identifies the language the
// source rows are authored in; it is never a reconcile target.
func New(db *bun.DB, cat *catalog.Catalog, store translations.Store, engine *translator.Translator, nativeLanguageID int64, opts ...Option) *Reconciler {
	r := &Reconciler{
		db:          db,
		catalog:     cat,
		store:       store,
		engine:      engine,
		nativeID:    nativeLanguageID,
		window:      defaultWindow,
		concurrency: defaultWorkers,
		logger:      logging.NoOp(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one reconciliation pass and reports everything it did.
// Per-field failures are collected, never fatal; Run only errors when the
// structure or language catalog cannot be resolved at all.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	started := r.now()

	structure, err := r.catalog.TranslatableColumns(ctx)
	if err != nil {
		return nil, err
	}

	languages, err := r.store.ListActiveLanguages(ctx)
	if err != nil {
		return nil, err
	}
	var targets []*translations.Language
	for _, language := range languages {
		if language.ID == r.nativeID {
			continue
		}
		targets = append(targets, language)
	}

	report := &Report{
		StartedAt: started,
		Structure: make(map[string][]string, len(structure)),
	}
	for _, table := range structure {
		report.Structure[table.Name] = append([]string{}, table.Columns...)
	}

	if len(targets) > 0 {
		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)
		jobs := make(chan catalog.Table)
		for i := 0; i < r.concurrency; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for table := range jobs {
					r.reconcileTable(ctx, table, targets, report, &mu)
				}
			}()
		}
	feed:
		for _, table := range structure {
			select {
			case jobs <- table:
			case <-ctx.Done():
				break feed
			}
		}
		close(jobs)
		wg.Wait()
	}

	report.FinishedAt = r.now()
	report.Status = StatusCompleted
	if len(report.Failures) > 0 {
		report.Status = StatusWithErrors
	}

	r.logger.Info("reconciliation run finished",
		"status", string(report.Status),
		"processed", report.TotalProcessed,
		"actions", len(report.Actions),
		"failures", len(report.Failures),
	)
	return report, nil
}

func (r *Reconciler) reconcileTable(ctx context.Context, table catalog.Table, targets []*translations.Language, report *Report, mu *sync.Mutex) {
	rows, err := r.sourceRows(ctx, table)
	if err != nil {
		mu.Lock()
		report.Failures = append(report.Failures, Failure{Table: table.Name, Error: err.Error()})
		mu.Unlock()
		r.logger.Error("cannot read source rows", "table", table.Name, "error", err)
		return
	}

	for _, row := range rows {
		for _, column := range table.Columns {
			value, ok := row.values[column]
			if !ok || strings.TrimSpace(value) == "" {
				continue
			}
			for _, language := range targets {
				if ctx.Err() != nil {
					return
				}
				action, failure := r.reconcileField(ctx, table.Name, row.id, column, value, language)
				mu.Lock()
				report.TotalProcessed++
				if action != nil {
					report.Actions = append(report.Actions, *action)
				}
				if failure != nil {
					report.Failures = append(report.Failures, *failure)
				}
				mu.Unlock()
			}
		}
	}
}

// reconcileField settles one (row, column, language) tuple. A tuple with a
// confirmed record is left alone; anything else is translated and upserted
// with the confirmation stamp set.
func (r *Reconciler) reconcileField(ctx context.Context, table string, rowID int64, column, value string, language *translations.Language) (*Action, *Failure) {
	kind := ActionUpdate
	existing, err := r.store.FindByTuple(ctx, table, rowID, column, language.ID)
	switch {
	case err == nil:
		if existing.ModifiedAt != nil {
			return nil, nil
		}
	case errors.Is(err, translations.ErrRecordNotFound):
		kind = ActionInsert
	default:
		return nil, &Failure{Table: table, RowID: rowID, Field: column, LanguageID: language.ID, Error: err.Error()}
	}

	result, err := r.engine.Translate(ctx, value, language.ISO)
	if err != nil {
		fieldLogger := logging.WithTranslationContext(r.logger, table, column, language.ID)
		fieldLogger.Error("translation failed, continuing with next field", "row", rowID, "error", err)
		return nil, &Failure{Table: table, RowID: rowID, Field: column, LanguageID: language.ID, Error: err.Error()}
	}

	now := r.now()
	record := &translations.Record{
		Table:      table,
		RowID:      rowID,
		Field:      column,
		LanguageID: language.ID,
		Value:      result.Text,
		ModifiedAt: &now,
	}
	if _, err := r.store.Upsert(ctx, record); err != nil {
		return nil, &Failure{Table: table, RowID: rowID, Field: column, LanguageID: language.ID, Error: err.Error()}
	}

	return &Action{
		Table:      table,
		RowID:      rowID,
		Field:      column,
		LanguageID: language.ID,
		Kind:       kind,
		Outcome:    result.Outcome,
	}, nil
}

type sourceRow struct {
	id     int64
	values map[string]string
}

// sourceRows reads id plus candidate columns from one table. When the table
// carries a fechaModificacion column and a window is configured, only rows
// inside the window or without a stamp are read; otherwise the whole table.
func (r *Reconciler) sourceRows(ctx context.Context, table catalog.Table) ([]sourceRow, error) {
	physical, err := r.tableColumns(ctx, table.Name)
	if err != nil {
		return nil, err
	}

	hasID := false
	hasModified := false
	for _, column := range physical {
		if strings.EqualFold(column, idColumn) {
			hasID = true
		}
		if strings.EqualFold(column, modifiedColumn) {
			hasModified = true
		}
	}
	if !hasID {
		r.logger.Debug("table has no id column, skipping", "table", table.Name)
		return nil, nil
	}

	selectList := make([]string, 0, len(table.Columns)+1)
	args := make([]any, 0, len(table.Columns)+2)
	selectList = append(selectList, "?")
	args = append(args, bun.Ident(idColumn))
	for _, column := range table.Columns {
		selectList = append(selectList, "?")
		args = append(args, bun.Ident(column))
	}

	query := fmt.Sprintf("SELECT %s FROM ?", strings.Join(selectList, ", "))
	args = append(args, bun.Ident(table.Name))
	if hasModified && r.window > 0 {
		query += " WHERE ? IS NULL OR ? >= ?"
		args = append(args, bun.Ident(modifiedColumn), bun.Ident(modifiedColumn), r.now().Add(-r.window))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sourceRow
	for rows.Next() {
		scan := make([]any, len(table.Columns)+1)
		var id int64
		scan[0] = &id
		raw := make([]any, len(table.Columns))
		for i := range raw {
			scan[i+1] = &raw[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}

		row := sourceRow{id: id, values: make(map[string]string, len(table.Columns))}
		for i, column := range table.Columns {
			if text, ok := coerceText(raw[i]); ok {
				row.values[column] = text
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Reconciler) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM ? LIMIT 0", bun.Ident(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

// coerceText converts a scanned cell to translatable text. Blob payloads
// are accepted only when they decode as UTF-8.
func coerceText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		if !utf8.Valid(v) {
			return "", false
		}
		return string(v), true
	default:
		return "", false
	}
}
