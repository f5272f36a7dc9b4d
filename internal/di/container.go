package di

import (
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-pim/internal/catalog"
	"github.com/goliatone/go-pim/internal/exclusions"
	pimhttp "github.com/goliatone/go-pim/internal/http"
	"github.com/goliatone/go-pim/internal/jobs"
	"github.com/goliatone/go-pim/internal/literals"
	"github.com/goliatone/go-pim/internal/logging"
	"github.com/goliatone/go-pim/internal/logging/gologger"
	"github.com/goliatone/go-pim/internal/provider/mymemory"
	"github.com/goliatone/go-pim/internal/reconciler"
	"github.com/goliatone/go-pim/internal/runtimeconfig"
	pimscheduler "github.com/goliatone/go-pim/internal/scheduler"
	"github.com/goliatone/go-pim/internal/translations"
	"github.com/goliatone/go-pim/internal/translator"
	"github.com/goliatone/go-pim/pkg/interfaces"
)

// Container wires module dependencies. Without a bun database the container
// falls back to in-memory repositories so the module stays usable in tests
// and examples.
type Container struct {
	Config runtimeconfig.Config

	bunDB       *bun.DB
	logProvider interfaces.LoggerProvider
	clock       func() time.Time

	ruleRepo      exclusions.Repository
	store         translations.Store
	provider      interfaces.TranslationProvider
	introspector  catalog.Introspector
	taskScheduler interfaces.Scheduler
	audit         jobs.AuditRecorder

	registry      *exclusions.Registry
	catalogSvc    *catalog.Catalog
	translatorSvc *translator.Translator
	reconcilerSvc *reconciler.Reconciler
	literalSvc    *literals.Service
	worker        *jobs.Worker
	adminAPI      *pimhttp.AdminAPI
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds the relational database used by the bun-backed
// repositories, the schema introspector and the reconciler.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithLoggerProvider overrides the logger provider derived from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.logProvider = provider
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithExclusionRepository overrides the exclusion rule repository.
func WithExclusionRepository(repo exclusions.Repository) Option {
	return func(c *Container) {
		c.ruleRepo = repo
	}
}

// WithTranslationStore overrides the translation record store.
func WithTranslationStore(store translations.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithTranslationProvider overrides the outbound machine translation client.
func WithTranslationProvider(provider interfaces.TranslationProvider) Option {
	return func(c *Container) {
		c.provider = provider
	}
}

// WithIntrospector overrides the schema introspector.
func WithIntrospector(introspector catalog.Introspector) Option {
	return func(c *Container) {
		c.introspector = introspector
	}
}

// WithScheduler overrides the job scheduler.
func WithScheduler(scheduler interfaces.Scheduler) Option {
	return func(c *Container) {
		c.taskScheduler = scheduler
	}
}

// WithAuditRecorder wires an audit sink for reconciliation runs.
func WithAuditRecorder(recorder jobs.AuditRecorder) Option {
	return func(c *Container) {
		c.audit = recorder
	}
}

// NewContainer validates the configuration and wires every module service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		clock:  time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureRepositories()
	c.configureEngine()
	if err := c.configureScheduling(); err != nil {
		return nil, err
	}
	c.configureAdminAPI()

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.logProvider != nil {
		return nil
	}
	if c.Config.Logging.Provider == "gologger" {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.logProvider = provider
	}
	return nil
}

func (c *Container) configureRepositories() {
	if c.ruleRepo == nil {
		if c.bunDB != nil {
			c.ruleRepo = exclusions.NewBunRepository(c.bunDB)
		} else {
			c.ruleRepo = exclusions.NewMemoryRepository()
		}
	}
	if c.store == nil {
		if c.bunDB != nil {
			c.store = translations.NewBunStore(c.bunDB)
		} else {
			c.store = translations.NewMemoryStore()
		}
	}
	// Blob columns stay in the candidate set so the batch pass can decode
	// and translate blob-stored text.
	if c.introspector == nil && c.bunDB != nil {
		if c.bunDB.Dialect().Name() == dialect.SQLite {
			c.introspector = catalog.NewSQLiteIntrospector(c.bunDB, catalog.WithSQLiteBlobColumns())
		} else {
			c.introspector = catalog.NewMySQLIntrospector(c.bunDB, catalog.WithBlobColumns())
		}
	}
	if c.introspector == nil {
		c.introspector = catalog.NewMemoryIntrospector()
	}
}

func (c *Container) configureEngine() {
	c.registry = exclusions.NewRegistry(c.ruleRepo)
	c.catalogSvc = catalog.New(c.introspector, c.registry,
		catalog.WithLogger(c.logProvider))

	if c.provider == nil {
		c.provider = mymemory.NewClient(c.Config.Provider.Endpoint,
			mymemory.WithTimeout(c.Config.Provider.Timeout),
			mymemory.WithLogger(c.logProvider))
	}

	c.translatorSvc = translator.New(c.provider, c.registry, c.Config.Provider.SourceISO,
		translator.WithLogger(c.logProvider))

	if c.bunDB != nil {
		c.reconcilerSvc = reconciler.New(c.bunDB, c.catalogSvc, c.store, c.translatorSvc,
			c.Config.I18N.NativeLanguageID,
			reconciler.WithWindow(c.Config.Reconciler.Window),
			reconciler.WithConcurrency(c.Config.Reconciler.Concurrency),
			reconciler.WithLogger(c.logProvider),
			reconciler.WithClock(c.clock))
		c.literalSvc = literals.NewService(c.bunDB, c.store)
	}
}

func (c *Container) configureScheduling() error {
	if c.taskScheduler == nil {
		if c.Config.Scheduler.Enabled {
			c.taskScheduler = pimscheduler.NewInMemory()
		} else {
			c.taskScheduler = pimscheduler.NewNoOp()
		}
	}

	workerOpts := []jobs.Option{
		jobs.WithLogger(c.logProvider),
		jobs.WithClock(c.clock),
	}
	if c.audit != nil {
		workerOpts = append(workerOpts, jobs.WithAuditRecorder(c.audit))
	}
	if c.Config.Scheduler.Enabled {
		hour, minute, err := runtimeconfig.ParseTimeOfDay(c.Config.Scheduler.TimeOfDay)
		if err != nil {
			return err
		}
		location, err := time.LoadLocation(c.Config.Scheduler.Timezone)
		if err != nil {
			return runtimeconfig.ErrScheduleTimezoneInvalid
		}
		workerOpts = append(workerOpts, jobs.WithNightlySchedule(jobs.NightlySchedule{
			Hour:     hour,
			Minute:   minute,
			Location: location,
		}))
	}

	c.worker = jobs.NewWorker(c.taskScheduler, c.reconcileRunner(), workerOpts...)
	return nil
}

func (c *Container) configureAdminAPI() {
	c.adminAPI = pimhttp.NewAdminAPI(
		pimhttp.WithLanguageHeader(c.Config.I18N.LanguageHeader),
		pimhttp.WithNativeLanguage(c.Config.I18N.NativeLanguageID),
		pimhttp.WithExclusionRepository(c.ruleRepo),
		pimhttp.WithTranslationStore(c.store),
		pimhttp.WithLiteralService(c.literalSvc),
		pimhttp.WithTranslator(c.translatorSvc),
		pimhttp.WithReconcileRunner(c.reconcileRunner()),
		pimhttp.WithWorker(c.worker),
	)
}

func (c *Container) reconcileRunner() jobs.ReconcileRunner {
	if c.reconcilerSvc == nil {
		return nil
	}
	return c.reconcilerSvc
}

// DB returns the bound bun database, nil when running on memory fakes.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// LoggerProvider returns the configured logger provider, nil when logging is
// disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.logProvider
}

// Logger returns a module-scoped logger.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.logProvider, module)
}

// ExclusionRules returns the exclusion rule repository.
func (c *Container) ExclusionRules() exclusions.Repository {
	return c.ruleRepo
}

// ExclusionRegistry returns the rule classification registry.
func (c *Container) ExclusionRegistry() *exclusions.Registry {
	return c.registry
}

// Translations returns the translation record store.
func (c *Container) Translations() translations.Store {
	return c.store
}

// Catalog returns the exclusion-aware schema catalog.
func (c *Container) Catalog() *catalog.Catalog {
	return c.catalogSvc
}

// Translator returns the exclusion-aware translation engine.
func (c *Container) Translator() *translator.Translator {
	return c.translatorSvc
}

// Reconciler returns the batch reconciler, nil without a database.
func (c *Container) Reconciler() *reconciler.Reconciler {
	return c.reconcilerSvc
}

// Literals returns the literal catalog service, nil without a database.
func (c *Container) Literals() *literals.Service {
	return c.literalSvc
}

// Scheduler returns the job scheduler.
func (c *Container) Scheduler() interfaces.Scheduler {
	return c.taskScheduler
}

// Worker returns the reconciliation job worker.
func (c *Container) Worker() *jobs.Worker {
	return c.worker
}

// AdminAPI returns the admin HTTP surface.
func (c *Container) AdminAPI() *pimhttp.AdminAPI {
	return c.adminAPI
}
