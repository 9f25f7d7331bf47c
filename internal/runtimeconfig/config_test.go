package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-post/internal/runtimeconfig"
)

func TestConfigValidate_Defaults(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresContentDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ContentDir = "  "

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestConfigValidate_DefaultCollectionMustBeListed(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.DefaultCollection = "talks"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrDefaultCollectionUnknown) {
		t.Fatalf("expected ErrDefaultCollectionUnknown, got %v", err)
	}
}

func TestConfigValidate_PermalinkRoutesNeedFeature(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Permalinks.Routes = map[string]string{"posts": "/:year/:month/:day/:slug"}

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrPermalinksFeatureRequired) {
		t.Fatalf("expected ErrPermalinksFeatureRequired, got %v", err)
	}

	cfg.Features.Permalinks = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() with the feature enabled: %v", err)
	}
}

func TestConfigValidate_SchemaNeedsFeature(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Check.Schema = map[string]any{"fields": []any{}}

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrSchemaFeatureRequired) {
		t.Fatalf("expected ErrSchemaFeatureRequired, got %v", err)
	}

	cfg.Features.Schema = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() with the feature enabled: %v", err)
	}
}

func TestConfigValidate_RejectsNegativeWatchThrottle(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Watch.Debounce = -time.Second

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrWatchThrottleInvalid) {
		t.Fatalf("expected ErrWatchThrottleInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestLoadFromPath_MergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.yaml")
	content := `content_dir: site/content
pattern: "*.markdown"
recursive: false
collections: [posts, notes]
default_collection: notes
check:
  required_fields: [layout, title, excerpt]
  layouts: [post, page]
permalinks:
  base_url: https://example.com
  routes:
    posts: /:year/:month/:day/:slug
watch:
  debounce: 250ms
  burst: 2
features:
  permalinks: true
logging:
  provider: gologger
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := runtimeconfig.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.ContentDir != "site/content" {
		t.Fatalf("content dir: %q", cfg.ContentDir)
	}
	if cfg.Pattern != "*.markdown" {
		t.Fatalf("pattern: %q", cfg.Pattern)
	}
	if cfg.Recursive {
		t.Fatalf("expected recursive=false from the file to stick")
	}
	if cfg.DefaultCollection != "notes" {
		t.Fatalf("default collection: %q", cfg.DefaultCollection)
	}
	if len(cfg.Check.RequiredFields) != 3 {
		t.Fatalf("required fields: %v", cfg.Check.RequiredFields)
	}
	if cfg.Permalinks.Routes["posts"] != "/:year/:month/:day/:slug" {
		t.Fatalf("routes: %v", cfg.Permalinks.Routes)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Fatalf("debounce: %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.Burst != 2 {
		t.Fatalf("burst: %d", cfg.Watch.Burst)
	}
	if !cfg.Features.Permalinks {
		t.Fatalf("expected the permalinks feature on")
	}
	if cfg.Logging.Provider != "gologger" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging: %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}
}

func TestLoadFromPath_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.yaml")
	if err := os.WriteFile(path, []byte("content_dir: from-file\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("POST_CONTENT_DIR", "from-env")
	t.Setenv("POST_LOG_LEVEL", "error")

	cfg, err := runtimeconfig.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.ContentDir != "from-env" {
		t.Fatalf("expected env override, got %q", cfg.ContentDir)
	}
	if cfg.Logging.Level != "error" {
		t.Fatalf("expected env log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadFromPath_MissingExplicitFile(t *testing.T) {
	if _, err := runtimeconfig.LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected an error for an explicit missing file")
	}
}

func TestLoadFromPath_NoFileKeepsDefaults(t *testing.T) {
	cfg, err := runtimeconfig.LoadFromPath("")
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.ContentDir != "content" || cfg.Pattern != "*.md" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPath_RejectsBadDebounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.yaml")
	if err := os.WriteFile(path, []byte("watch:\n  debounce: soon\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := runtimeconfig.LoadFromPath(path); err == nil {
		t.Fatalf("expected an error for an unparseable debounce")
	}
}

func TestLoadFromPath_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.yaml")
	if err := os.WriteFile(path, []byte("content_dir: [\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := runtimeconfig.LoadFromPath(path); err == nil {
		t.Fatalf("expected an error for malformed yaml")
	}
}
