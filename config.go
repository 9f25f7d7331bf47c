package post

import "github.com/goliatone/go-post/internal/runtimeconfig"

var (
	ErrContentDirRequired        = runtimeconfig.ErrContentDirRequired
	ErrDefaultCollectionUnknown  = runtimeconfig.ErrDefaultCollectionUnknown
	ErrPermalinksFeatureRequired = runtimeconfig.ErrPermalinksFeatureRequired
	ErrSchemaFeatureRequired     = runtimeconfig.ErrSchemaFeatureRequired
	ErrWatchThrottleInvalid      = runtimeconfig.ErrWatchThrottleInvalid
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	ParserConfig    = runtimeconfig.ParserConfig
	CheckConfig     = runtimeconfig.CheckConfig
	PermalinkConfig = runtimeconfig.PermalinkConfig
	WatchConfig     = runtimeconfig.WatchConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	Features        = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig layers an optional YAML file and environment overrides on top of
// the defaults. An empty path tries the conventional locations and skips them
// silently when absent.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFromPath(path)
}
