package runtimeconfig

import (
	"errors"
	"strings"
	"time"
)

// ErrNativeLanguageInvalid indicates a non-positive native language id.
var ErrNativeLanguageInvalid = errors.New("pim config: native language id must be positive")

// ErrLanguageHeaderRequired indicates the request language header name is empty.
var ErrLanguageHeaderRequired = errors.New("pim config: language header name is required")

// ErrProviderEndpointRequired indicates the translation provider endpoint is missing.
var ErrProviderEndpointRequired = errors.New("pim config: provider endpoint is required")

// ErrProviderSourceISORequired indicates the provider source language is missing.
var ErrProviderSourceISORequired = errors.New("pim config: provider source iso code is required")

// ErrReconcileWindowInvalid indicates a negative reconciliation recency window.
var ErrReconcileWindowInvalid = errors.New("pim config: reconcile window must not be negative")

// ErrReconcileConcurrencyInvalid indicates a non-positive reconciler concurrency bound.
var ErrReconcileConcurrencyInvalid = errors.New("pim config: reconcile concurrency must be positive")

// ErrScheduleTimeInvalid indicates the nightly schedule time-of-day cannot be parsed.
var ErrScheduleTimeInvalid = errors.New("pim config: schedule time of day must be HH:MM")

// ErrScheduleTimezoneInvalid indicates the nightly schedule timezone cannot be loaded.
var ErrScheduleTimezoneInvalid = errors.New("pim config: schedule timezone is invalid")

var ErrLoggingProviderUnknown = errors.New("pim config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("pim config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("pim config: logging format is invalid")

// Config aggregates adapter bindings and tunables for the translation engine.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Database   DatabaseConfig
	I18N       I18NConfig
	Provider   ProviderConfig
	Reconciler ReconcilerConfig
	Scheduler  SchedulerConfig
	Logging    LoggingConfig
}

// DatabaseConfig identifies the primary relational store.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// I18NConfig captures request-language behaviour shared by both interceptors.
type I18NConfig struct {
	// NativeLanguageID is the reserved default language for which no
	// translation redirection occurs.
	NativeLanguageID int64
	// LanguageHeader is the inbound header carrying the numeric language id.
	LanguageHeader string
}

// ProviderConfig configures the external machine-translation service.
type ProviderConfig struct {
	Endpoint  string
	SourceISO string
	Timeout   time.Duration
}

// ReconcilerConfig tunes the batch reconciliation pass.
type ReconcilerConfig struct {
	// Window selects rows whose modification timestamp falls within the
	// recency window (or is null). Zero scans every row. Tables without a
	// timestamp column are always scanned in full.
	Window time.Duration
	// Concurrency bounds parallel translation calls within a single pass.
	Concurrency int
}

// SchedulerConfig configures the recurring nightly reconciliation job.
type SchedulerConfig struct {
	Enabled bool
	// TimeOfDay is the local wall-clock trigger in HH:MM form.
	TimeOfDay string
	Timezone  string
	// PollInterval drives the worker loop that picks up due jobs.
	PollInterval time.Duration
}

// LoggingConfig selects and tunes the logging provider.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the baseline configuration mirroring the reference
// deployment: Spanish as native language, MyMemory as provider, a 24 hour
// reconciliation window and a nightly run at 01:00 Europe/Madrid.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: "mysql",
		},
		I18N: I18NConfig{
			NativeLanguageID: 1,
			LanguageHeader:   "x-idioma-id",
		},
		Provider: ProviderConfig{
			Endpoint:  "https://api.mymemory.translated.net/get",
			SourceISO: "es",
			Timeout:   15 * time.Second,
		},
		Reconciler: ReconcilerConfig{
			Window:      24 * time.Hour,
			Concurrency: 1,
		},
		Scheduler: SchedulerConfig{
			Enabled:      true,
			TimeOfDay:    "01:00",
			Timezone:     "Europe/Madrid",
			PollInterval: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// Validate checks cross-field invariants before the module wires services.
func (c Config) Validate() error {
	if c.I18N.NativeLanguageID <= 0 {
		return ErrNativeLanguageInvalid
	}
	if strings.TrimSpace(c.I18N.LanguageHeader) == "" {
		return ErrLanguageHeaderRequired
	}
	if strings.TrimSpace(c.Provider.Endpoint) == "" {
		return ErrProviderEndpointRequired
	}
	if strings.TrimSpace(c.Provider.SourceISO) == "" {
		return ErrProviderSourceISORequired
	}
	if c.Reconciler.Window < 0 {
		return ErrReconcileWindowInvalid
	}
	if c.Reconciler.Concurrency <= 0 {
		return ErrReconcileConcurrencyInvalid
	}
	if c.Scheduler.Enabled {
		if _, _, err := ParseTimeOfDay(c.Scheduler.TimeOfDay); err != nil {
			return err
		}
		if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
			return ErrScheduleTimezoneInvalid
		}
	}
	return c.validateLogging()
}

func (c Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Provider)) {
	case "", "noop", "gologger":
	default:
		return ErrLoggingProviderUnknown
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}
	return nil
}

// ParseTimeOfDay splits an HH:MM value into hour and minute components.
func ParseTimeOfDay(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, ErrScheduleTimeInvalid
	}
	hour, err := parseClockComponent(parts[0], 23)
	if err != nil {
		return 0, 0, err
	}
	minute, err := parseClockComponent(parts[1], 59)
	if err != nil {
		return 0, 0, err
	}
	return hour, minute, nil
}

func parseClockComponent(raw string, max int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > 2 {
		return 0, ErrScheduleTimeInvalid
	}
	value := 0
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, ErrScheduleTimeInvalid
		}
		value = value*10 + int(r-'0')
	}
	if value > max {
		return 0, ErrScheduleTimeInvalid
	}
	return value, nil
}
