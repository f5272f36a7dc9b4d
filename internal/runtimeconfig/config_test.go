package runtimeconfig

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.I18N.NativeLanguageID != 1 {
		t.Fatalf("expected native language 1, got %d", cfg.I18N.NativeLanguageID)
	}
	if cfg.I18N.LanguageHeader != "x-idioma-id" {
		t.Fatalf("expected x-idioma-id header, got %q", cfg.I18N.LanguageHeader)
	}
	if cfg.Reconciler.Window != 24*time.Hour {
		t.Fatalf("expected 24h window, got %s", cfg.Reconciler.Window)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"native language", func(c *Config) { c.I18N.NativeLanguageID = 0 }, ErrNativeLanguageInvalid},
		{"language header", func(c *Config) { c.I18N.LanguageHeader = " " }, ErrLanguageHeaderRequired},
		{"provider endpoint", func(c *Config) { c.Provider.Endpoint = "" }, ErrProviderEndpointRequired},
		{"provider source", func(c *Config) { c.Provider.SourceISO = "" }, ErrProviderSourceISORequired},
		{"window", func(c *Config) { c.Reconciler.Window = -time.Hour }, ErrReconcileWindowInvalid},
		{"concurrency", func(c *Config) { c.Reconciler.Concurrency = 0 }, ErrReconcileConcurrencyInvalid},
		{"schedule time", func(c *Config) { c.Scheduler.TimeOfDay = "1am" }, ErrScheduleTimeInvalid},
		{"schedule timezone", func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }, ErrScheduleTimezoneInvalid},
		{"logging provider", func(c *Config) { c.Logging.Provider = "zap" }, ErrLoggingProviderUnknown},
		{"logging level", func(c *Config) { c.Logging.Level = "verbose" }, ErrLoggingLevelInvalid},
		{"logging format", func(c *Config) { c.Logging.Format = "xml" }, ErrLoggingFormatInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	hour, minute, err := ParseTimeOfDay("01:00")
	if err != nil {
		t.Fatalf("ParseTimeOfDay() error = %v", err)
	}
	if hour != 1 || minute != 0 {
		t.Fatalf("ParseTimeOfDay() = %d:%d, want 1:0", hour, minute)
	}

	for _, bad := range []string{"", "25:00", "12:61", "ab:cd", "12", "12:0:0"} {
		if _, _, err := ParseTimeOfDay(bad); !errors.Is(err, ErrScheduleTimeInvalid) {
			t.Fatalf("ParseTimeOfDay(%q) = %v, want ErrScheduleTimeInvalid", bad, err)
		}
	}
}
