package pim

import (
	"github.com/goliatone/go-pim/internal/catalog"
	"github.com/goliatone/go-pim/internal/di"
	"github.com/goliatone/go-pim/internal/exclusions"
	pimhttp "github.com/goliatone/go-pim/internal/http"
	"github.com/goliatone/go-pim/internal/intercept"
	"github.com/goliatone/go-pim/internal/jobs"
	"github.com/goliatone/go-pim/internal/literals"
	"github.com/goliatone/go-pim/internal/reconciler"
	"github.com/goliatone/go-pim/internal/translations"
	"github.com/goliatone/go-pim/internal/translator"
)

// ExclusionRepository exports the exclusion rule repository contract.
type ExclusionRepository = exclusions.Repository

// ExclusionRule exports the exclusion rule model.
type ExclusionRule = exclusions.Rule

// TranslationStore exports the translation record store contract.
type TranslationStore = translations.Store

// TranslationRecord exports the translation record model.
type TranslationRecord = translations.Record

// Language exports the language catalog model.
type Language = translations.Language

// Catalog exports the exclusion-aware schema catalog.
type Catalog = catalog.Catalog

// Translator exports the exclusion-aware translation engine.
type Translator = translator.Translator

// TranslationResult exports the translation result DTO.
type TranslationResult = translator.Result

// Reconciler exports the batch reconciler.
type Reconciler = reconciler.Reconciler

// ReconcileReport exports the reconciliation run report.
type ReconcileReport = reconciler.Report

// LiteralService exports the UI literal catalog service.
type LiteralService = literals.Service

// Worker exports the scheduled reconciliation worker.
type Worker = jobs.Worker

// AdminAPI exports the admin HTTP surface.
type AdminAPI = pimhttp.AdminAPI

// ReadInterceptor exports the response translation overlay.
type ReadInterceptor = intercept.ReadInterceptor

// WriteInterceptor exports the request payload splitter.
type WriteInterceptor = intercept.WriteInterceptor

// TableRegistry exports the controller-to-table name resolver.
type TableRegistry = intercept.TableRegistry

// Module is the top level translation engine runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module from the provided configuration and optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// ExclusionRules returns the configured exclusion rule repository.
func (m *Module) ExclusionRules() ExclusionRepository {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ExclusionRules()
}

// Translations returns the configured translation store.
func (m *Module) Translations() TranslationStore {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Translations()
}

// Catalog returns the translatable column catalog.
func (m *Module) Catalog() *Catalog {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Catalog()
}

// Translator returns the translation engine.
func (m *Module) Translator() *Translator {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Translator()
}

// Reconciler returns the batch reconciler, nil without a database binding.
func (m *Module) Reconciler() *Reconciler {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Reconciler()
}

// Literals returns the literal catalog service, nil without a database
// binding.
func (m *Module) Literals() *LiteralService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Literals()
}

// Worker returns the scheduled reconciliation worker.
func (m *Module) Worker() *Worker {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Worker()
}

// AdminAPI returns the admin HTTP surface.
func (m *Module) AdminAPI() *AdminAPI {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.AdminAPI()
}

// NewReadInterceptor builds a response overlay bound to the module's store
// and native language.
func (m *Module) NewReadInterceptor() *ReadInterceptor {
	if m == nil || m.container == nil {
		return nil
	}
	return intercept.NewReadInterceptor(
		m.container.Translations(),
		m.container.Config.I18N.NativeLanguageID,
		intercept.WithReadLogger(m.container.LoggerProvider()),
	)
}

// NewWriteInterceptor builds a request payload splitter bound to the module's
// store and native language.
func (m *Module) NewWriteInterceptor() *WriteInterceptor {
	if m == nil || m.container == nil {
		return nil
	}
	return intercept.NewWriteInterceptor(
		m.container.Translations(),
		m.container.Config.I18N.NativeLanguageID,
		intercept.WithWriteLogger(m.container.LoggerProvider()),
	)
}
