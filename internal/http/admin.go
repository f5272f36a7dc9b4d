package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-pim/internal/exclusions"
	"github.com/goliatone/go-pim/internal/intercept"
	"github.com/goliatone/go-pim/internal/jobs"
	"github.com/goliatone/go-pim/internal/literals"
	"github.com/goliatone/go-pim/internal/translations"
	"github.com/goliatone/go-pim/internal/translator"
)

// AdminAPI registers the admin endpoints for exclusion rules, translation
// records, literals, on-demand translation and reconciliation runs.
type AdminAPI struct {
	basePath       string
	languageHeader string
	nativeID       int64
	rules          exclusions.Repository
	store          translations.Store
	literals       *literals.Service
	engine         *translator.Translator
	worker         *jobs.Worker
	runner         jobs.ReconcileRunner
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath:       "/admin/api",
		languageHeader: intercept.DefaultLanguageHeader,
		nativeID:       1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/admin/api").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithLanguageHeader overrides the request header carrying the language id.
func WithLanguageHeader(header string) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(header); trimmed != "" {
			api.languageHeader = trimmed
		}
	}
}

// WithNativeLanguage sets the native language id (defaults to 1).
func WithNativeLanguage(id int64) AdminOption {
	return func(api *AdminAPI) {
		if api != nil && id > 0 {
			api.nativeID = id
		}
	}
}

// WithExclusionRepository wires the exclusion rule repository.
func WithExclusionRepository(repo exclusions.Repository) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.rules = repo
		}
	}
}

// WithTranslationStore wires the translation store.
func WithTranslationStore(store translations.Store) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.store = store
		}
	}
}

// WithLiteralService wires the literal catalog service.
func WithLiteralService(service *literals.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.literals = service
		}
	}
}

// WithTranslator wires the exclusion-aware translation engine.
func WithTranslator(engine *translator.Translator) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.engine = engine
		}
	}
}

// WithReconcileRunner wires the batch reconciler for manual runs.
func WithReconcileRunner(runner jobs.ReconcileRunner) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.runner = runner
		}
	}
}

// WithWorker wires the scheduler worker used to enqueue nightly runs.
func WithWorker(worker *jobs.Worker) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.worker = worker
		}
	}
}

// Register attaches the admin endpoints to the provided mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerExclusionRoutes(mux, base)
	api.registerTranslationRoutes(mux, base)
	api.registerLiteralRoutes(mux, base)
	api.registerReconcileRoutes(mux, base)

	return nil
}
