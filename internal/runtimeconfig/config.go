package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrContentDirRequired = errors.New("post config: content directory is required")
var ErrDefaultCollectionUnknown = errors.New("post config: default collection is not in the collections list")
var ErrPermalinksFeatureRequired = errors.New("post config: permalinks feature must be enabled to configure routes")
var ErrSchemaFeatureRequired = errors.New("post config: schema feature must be enabled to configure a schema")
var ErrWatchThrottleInvalid = errors.New("post config: watch throttle must be zero or positive")
var ErrLoggingProviderRequired = errors.New("post config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("post config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("post config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("post config: logging format is invalid")

// Config aggregates runtime settings for the post module. Fields use simple
// types so host applications can populate them from their own config layers.
type Config struct {
	// ContentDir is the root the loader, checker, and watcher operate on.
	ContentDir string
	// Pattern filters content file names, "*.md" by default.
	Pattern   string
	Recursive bool
	// Collections lists the directories treated as document collections.
	Collections       []string
	DefaultCollection string
	Parser            ParserConfig
	Check             CheckConfig
	Permalinks        PermalinkConfig
	Watch             WatchConfig
	Logging           LoggingConfig
	Features          Features
}

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// CheckConfig captures the front matter rules the checker enforces.
type CheckConfig struct {
	RequiredFields []string
	Layouts        []string
	Schema         map[string]any
}

// PermalinkConfig captures per-collection route templates.
type PermalinkConfig struct {
	BaseURL string
	Routes  map[string]string
	Default string
}

// WatchConfig captures re-check throttling for the file watcher.
type WatchConfig struct {
	Debounce time.Duration
	Burst    int
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Permalinks bool
	Watch      bool
	Schema     bool
	Logger     bool
}

// DefaultConfig returns opinionated defaults for a conventional site layout.
func DefaultConfig() Config {
	return Config{
		ContentDir:        "content",
		Pattern:           "*.md",
		Recursive:         true,
		Collections:       []string{"posts", "drafts", "pages"},
		DefaultCollection: "posts",
		Check: CheckConfig{
			RequiredFields: []string{"layout", "title"},
		},
		Permalinks: PermalinkConfig{
			Routes: map[string]string{},
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
			Burst:    1,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return ErrContentDirRequired
	}
	if def := strings.TrimSpace(cfg.DefaultCollection); def != "" && len(cfg.Collections) > 0 {
		if !containsCollection(cfg.Collections, def) {
			return fmt.Errorf("%w: %s", ErrDefaultCollectionUnknown, def)
		}
	}
	if !cfg.Features.Permalinks {
		if len(cfg.Permalinks.Routes) > 0 ||
			strings.TrimSpace(cfg.Permalinks.BaseURL) != "" ||
			strings.TrimSpace(cfg.Permalinks.Default) != "" {
			return ErrPermalinksFeatureRequired
		}
	}
	if !cfg.Features.Schema && len(cfg.Check.Schema) > 0 {
		return ErrSchemaFeatureRequired
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("%w: debounce", ErrWatchThrottleInvalid)
	}
	if cfg.Watch.Burst < 0 {
		return fmt.Errorf("%w: burst", ErrWatchThrottleInvalid)
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// fileConfig is the YAML overlay. Booleans are pointers so an absent key
// never stomps a default.
type fileConfig struct {
	ContentDir        string   `yaml:"content_dir"`
	Pattern           string   `yaml:"pattern"`
	Recursive         *bool    `yaml:"recursive"`
	Collections       []string `yaml:"collections"`
	DefaultCollection string   `yaml:"default_collection"`
	Parser            struct {
		Extensions []string `yaml:"extensions"`
		Sanitize   *bool    `yaml:"sanitize"`
		HardWraps  *bool    `yaml:"hard_wraps"`
		SafeMode   *bool    `yaml:"safe_mode"`
	} `yaml:"parser"`
	Check struct {
		RequiredFields []string       `yaml:"required_fields"`
		Layouts        []string       `yaml:"layouts"`
		Schema         map[string]any `yaml:"schema"`
	} `yaml:"check"`
	Permalinks struct {
		BaseURL string            `yaml:"base_url"`
		Routes  map[string]string `yaml:"routes"`
		Default string            `yaml:"default"`
	} `yaml:"permalinks"`
	Watch struct {
		Debounce string `yaml:"debounce"`
		Burst    *int   `yaml:"burst"`
	} `yaml:"watch"`
	Logging struct {
		Provider  string   `yaml:"provider"`
		Level     string   `yaml:"level"`
		Format    string   `yaml:"format"`
		AddSource *bool    `yaml:"add_source"`
		Focus     []string `yaml:"focus"`
	} `yaml:"logging"`
	Features struct {
		Permalinks *bool `yaml:"permalinks"`
		Watch      *bool `yaml:"watch"`
		Schema     *bool `yaml:"schema"`
		Logger     *bool `yaml:"logger"`
	} `yaml:"features"`
}

// LoadFromPath layers a YAML file and environment overrides on top of the
// defaults. An explicit path must exist; with an empty path the conventional
// locations are tried and silently skipped when absent.
func LoadFromPath(configPath string) (Config, error) {
	cfg := DefaultConfig()

	explicit := strings.TrimSpace(configPath) != ""
	candidates := make([]string, 0, 2)
	if explicit {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates, "post.yaml", "configs/post.yaml")
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit {
				return cfg, fmt.Errorf("post config: read %s: %w", path, err)
			}
			continue
		}

		var parsed fileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return cfg, fmt.Errorf("post config: parse %s: %w", path, err)
		}
		if err := merge(&cfg, parsed); err != nil {
			return cfg, fmt.Errorf("post config: %s: %w", path, err)
		}
		break
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func merge(dst *Config, src fileConfig) error {
	if src.ContentDir != "" {
		dst.ContentDir = src.ContentDir
	}
	if src.Pattern != "" {
		dst.Pattern = src.Pattern
	}
	if src.Recursive != nil {
		dst.Recursive = *src.Recursive
	}
	if src.Collections != nil {
		dst.Collections = src.Collections
	}
	if src.DefaultCollection != "" {
		dst.DefaultCollection = src.DefaultCollection
	}

	if src.Parser.Extensions != nil {
		dst.Parser.Extensions = src.Parser.Extensions
	}
	if src.Parser.Sanitize != nil {
		dst.Parser.Sanitize = *src.Parser.Sanitize
	}
	if src.Parser.HardWraps != nil {
		dst.Parser.HardWraps = *src.Parser.HardWraps
	}
	if src.Parser.SafeMode != nil {
		dst.Parser.SafeMode = *src.Parser.SafeMode
	}

	if src.Check.RequiredFields != nil {
		dst.Check.RequiredFields = src.Check.RequiredFields
	}
	if src.Check.Layouts != nil {
		dst.Check.Layouts = src.Check.Layouts
	}
	if src.Check.Schema != nil {
		dst.Check.Schema = src.Check.Schema
	}

	if src.Permalinks.BaseURL != "" {
		dst.Permalinks.BaseURL = src.Permalinks.BaseURL
	}
	if src.Permalinks.Routes != nil {
		dst.Permalinks.Routes = src.Permalinks.Routes
	}
	if src.Permalinks.Default != "" {
		dst.Permalinks.Default = src.Permalinks.Default
	}

	if raw := strings.TrimSpace(src.Watch.Debounce); raw != "" {
		debounce, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("watch debounce %q: %w", raw, err)
		}
		dst.Watch.Debounce = debounce
	}
	if src.Watch.Burst != nil {
		dst.Watch.Burst = *src.Watch.Burst
	}

	if src.Logging.Provider != "" {
		dst.Logging.Provider = src.Logging.Provider
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
	if src.Logging.AddSource != nil {
		dst.Logging.AddSource = *src.Logging.AddSource
	}
	if src.Logging.Focus != nil {
		dst.Logging.Focus = src.Logging.Focus
	}

	if src.Features.Permalinks != nil {
		dst.Features.Permalinks = *src.Features.Permalinks
	}
	if src.Features.Watch != nil {
		dst.Features.Watch = *src.Features.Watch
	}
	if src.Features.Schema != nil {
		dst.Features.Schema = *src.Features.Schema
	}
	if src.Features.Logger != nil {
		dst.Features.Logger = *src.Features.Logger
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if dir := strings.TrimSpace(os.Getenv("POST_CONTENT_DIR")); dir != "" {
		cfg.ContentDir = dir
	}
	if pattern := strings.TrimSpace(os.Getenv("POST_PATTERN")); pattern != "" {
		cfg.Pattern = pattern
	}
	if raw := strings.TrimSpace(os.Getenv("POST_RECURSIVE")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.Recursive = v
		}
	}
	if provider := strings.TrimSpace(os.Getenv("POST_LOG_PROVIDER")); provider != "" {
		cfg.Logging.Provider = provider
	}
	if level := strings.TrimSpace(os.Getenv("POST_LOG_LEVEL")); level != "" {
		cfg.Logging.Level = level
	}
}

func containsCollection(collections []string, name string) bool {
	for _, collection := range collections {
		if strings.TrimSpace(collection) == name {
			return true
		}
	}
	return false
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
