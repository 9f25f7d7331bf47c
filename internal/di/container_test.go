package di

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-post/internal/logging"
	"github.com/goliatone/go-post/internal/logging/gologger"
	"github.com/goliatone/go-post/internal/markdown"
	"github.com/goliatone/go-post/internal/runtimeconfig"
	"github.com/goliatone/go-post/pkg/interfaces"
)

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.ContentDir = t.TempDir()
	return cfg
}

func TestNewContainerWiresDefaults(t *testing.T) {
	cfg := testConfig(t)

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if container.Documents() == nil {
		t.Fatal("expected document service configured")
	}
	if container.Checker() == nil {
		t.Fatal("expected checker configured")
	}
	if container.Parser() == nil {
		t.Fatal("expected parser configured")
	}
	if container.Permalinks() != nil {
		t.Fatal("expected no permalink resolver while feature disabled")
	}
	if container.LoggerProvider() != nil {
		t.Fatal("expected nil logger provider while logger feature disabled")
	}

	if _, err := container.NewWatcher(); !errors.Is(err, ErrWatchDisabled) {
		t.Fatalf("expected ErrWatchDisabled, got %v", err)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ContentDir = ""

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrContentDirRequired) {
		t.Fatalf("expected content dir validation error, got %v", err)
	}
}

func TestNewContainerRequiresExistingContentDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ContentDir = filepath.Join(t.TempDir(), "absent")

	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected error for missing content directory")
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	provider, ok := container.loggerProvider.(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.loggerProvider)
	}
	if logger := provider.GetLogger("post.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestConfigureLoggerProviderConsole(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Logger = true
	cfg.Logging.Provider = "console"
	cfg.Logging.Level = "warn"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.LoggerProvider() == nil {
		t.Fatal("expected console provider configured")
	}
	if logger := container.LoggerProvider().GetLogger("post.test"); logger == nil {
		t.Fatal("expected logger from console provider, got nil")
	}
}

func TestNewContainerPermalinkResolution(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Permalinks = true
	cfg.Permalinks.BaseURL = "https://example.com"
	cfg.Permalinks.Routes = map[string]string{
		"posts": "/:year/:month/:day/:slug",
	}

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	resolver := container.Permalinks()
	if resolver == nil {
		t.Fatal("expected permalink resolver configured")
	}

	url, err := resolver.Resolve(&interfaces.Document{
		SourcePath: "posts/2024-03-14-writing-service-objects-in-go.md",
		Collection: "posts",
		FrontMatter: interfaces.FrontMatter{
			Title: "Writing Service Objects in Go",
			Date:  time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("resolve permalink: %v", err)
	}
	want := "https://example.com/2024/03/14/writing-service-objects-in-go"
	if url != want {
		t.Fatalf("expected %q, got %q", want, url)
	}
}

func TestNewContainerWatcherFactory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Watch = true

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	watcher, err := container.NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher returned error: %v", err)
	}
	defer watcher.Close()

	if watcher.Events() == nil || watcher.Errors() == nil {
		t.Fatal("expected watcher channels available")
	}

	extra := t.TempDir()
	second, err := container.NewWatcher(extra)
	if err != nil {
		t.Fatalf("NewWatcher with explicit dir returned error: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("close watcher: %v", err)
	}
}

func TestNewContainerHonoursOverrides(t *testing.T) {
	cfg := testConfig(t)

	checker := &stubContainerChecker{}
	provider := &countingProvider{}

	otherDir := t.TempDir()
	docs, err := markdown.NewService(markdown.Config{BasePath: otherDir}, nil)
	if err != nil {
		t.Fatalf("build override service: %v", err)
	}

	container, err := NewContainer(cfg,
		WithChecker(checker),
		WithLoggerProvider(provider),
		WithDocumentService(docs),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if container.Checker() != interfaces.DocumentChecker(checker) {
		t.Fatalf("expected checker override respected, got %T", container.Checker())
	}
	if container.LoggerProvider() != interfaces.LoggerProvider(provider) {
		t.Fatalf("expected logger provider override respected, got %T", container.LoggerProvider())
	}
	if container.Documents() != interfaces.DocumentService(docs) {
		t.Fatalf("expected document service override respected, got %T", container.Documents())
	}
}

type stubContainerChecker struct{}

func (stubContainerChecker) Check(context.Context, *interfaces.Document) (*interfaces.Result, error) {
	return &interfaces.Result{}, nil
}

func (stubContainerChecker) CheckSource(context.Context, string, []byte) (*interfaces.Result, error) {
	return &interfaces.Result{}, nil
}

func (stubContainerChecker) CheckDirectory(context.Context, string) (*interfaces.Report, error) {
	return &interfaces.Report{}, nil
}

type countingProvider struct {
	requests []string
}

func (p *countingProvider) GetLogger(name string) interfaces.Logger {
	p.requests = append(p.requests, name)
	return logging.NoOp()
}
