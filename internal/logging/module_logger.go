package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-pim/pkg/interfaces"
)

const (
	rootModule       = "pim"
	catalogModule    = "pim.catalog"
	reconcilerModule = "pim.reconciler"
	interceptModule  = "pim.intercept"
	providerModule   = "pim.provider"
	schedulerModule  = "pim.scheduler"
)

const (
	fieldTable    = "table"
	fieldField    = "field"
	fieldLanguage = "language_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// CatalogLogger returns the logger namespace reserved for schema introspection.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// ReconcilerLogger returns the logger namespace reserved for the batch reconciler.
func ReconcilerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, reconcilerModule)
}

// InterceptLogger returns the logger namespace reserved for request interceptors.
func InterceptLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, interceptModule)
}

// ProviderLogger returns the logger namespace reserved for translation providers.
func ProviderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, providerModule)
}

// SchedulerLogger returns the logger namespace reserved for scheduler workers.
func SchedulerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, schedulerModule)
}

// WithTranslationContext enriches the provided logger with the common
// table/field/language fields. Zero values are ignored.
func WithTranslationContext(logger interfaces.Logger, table, field string, languageID int64) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(table); trimmed != "" {
		fields[fieldTable] = trimmed
	}
	if trimmed := strings.TrimSpace(field); trimmed != "" {
		fields[fieldField] = trimmed
	}
	if languageID > 0 {
		fields[fieldLanguage] = languageID
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
