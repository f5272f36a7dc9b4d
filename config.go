package pim

import "github.com/goliatone/go-pim/internal/runtimeconfig"

var (
	ErrNativeLanguageInvalid       = runtimeconfig.ErrNativeLanguageInvalid
	ErrLanguageHeaderRequired      = runtimeconfig.ErrLanguageHeaderRequired
	ErrProviderEndpointRequired    = runtimeconfig.ErrProviderEndpointRequired
	ErrProviderSourceISORequired   = runtimeconfig.ErrProviderSourceISORequired
	ErrReconcileWindowInvalid      = runtimeconfig.ErrReconcileWindowInvalid
	ErrReconcileConcurrencyInvalid = runtimeconfig.ErrReconcileConcurrencyInvalid
	ErrScheduleTimeInvalid         = runtimeconfig.ErrScheduleTimeInvalid
	ErrScheduleTimezoneInvalid     = runtimeconfig.ErrScheduleTimezoneInvalid
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	DatabaseConfig   = runtimeconfig.DatabaseConfig
	I18NConfig       = runtimeconfig.I18NConfig
	ProviderConfig   = runtimeconfig.ProviderConfig
	ReconcilerConfig = runtimeconfig.ReconcilerConfig
	SchedulerConfig  = runtimeconfig.SchedulerConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
