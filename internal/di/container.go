package di

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-post/internal/check"
	"github.com/goliatone/go-post/internal/logging"
	"github.com/goliatone/go-post/internal/logging/console"
	"github.com/goliatone/go-post/internal/logging/gologger"
	"github.com/goliatone/go-post/internal/markdown"
	"github.com/goliatone/go-post/internal/permalink"
	"github.com/goliatone/go-post/internal/runtimeconfig"
	"github.com/goliatone/go-post/internal/watch"
	"github.com/goliatone/go-post/pkg/interfaces"
)

// ErrWatchDisabled reports a watcher request while the watch feature is off.
var ErrWatchDisabled = errors.New("di: watch feature is disabled")

// Container wires module dependencies: the document service, the checker,
// the permalink resolver, and the logging provider behind them.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	parser         interfaces.MarkdownParser
	documents      interfaces.DocumentService
	checker        interfaces.DocumentChecker
	permalinks     interfaces.PermalinkResolver
}

// Option mutates the container before defaults are finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logging provider derived from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithParser overrides the default Markdown parser binding.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// WithDocumentService overrides the default document service binding.
func WithDocumentService(svc interfaces.DocumentService) Option {
	return func(c *Container) {
		c.documents = svc
	}
}

// WithChecker overrides the default document checker binding.
func WithChecker(checker interfaces.DocumentChecker) Option {
	return func(c *Container) {
		c.checker = checker
	}
}

// WithPermalinkResolver overrides the default permalink resolver binding.
func WithPermalinkResolver(resolver interfaces.PermalinkResolver) Option {
	return func(c *Container) {
		c.permalinks = resolver
	}
}

// NewContainer validates the configuration and wires the module services,
// honouring any overrides supplied through options.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureDocuments(); err != nil {
		return nil, err
	}
	if err := c.configureChecker(); err != nil {
		return nil, err
	}
	if err := c.configurePermalinks(); err != nil {
		return nil, err
	}

	return c, nil
}

// LoggerProvider exposes the configured logging provider. It is nil when the
// logger feature is disabled and no override was supplied; the logging
// helpers treat a nil provider as no-op.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Parser returns the Markdown parser the document service renders with.
func (c *Container) Parser() interfaces.MarkdownParser {
	return c.parser
}

// Documents returns the configured document service.
func (c *Container) Documents() interfaces.DocumentService {
	return c.documents
}

// Checker returns the configured document checker.
func (c *Container) Checker() interfaces.DocumentChecker {
	return c.checker
}

// Permalinks returns the configured permalink resolver, nil when the
// permalinks feature is disabled.
func (c *Container) Permalinks() interfaces.PermalinkResolver {
	return c.permalinks
}

// NewWatcher starts a watcher over the given directories, defaulting to the
// configured content directory. Callers own the returned watcher and must
// Close it.
func (c *Container) NewWatcher(dirs ...string) (interfaces.Watcher, error) {
	if !c.Config.Features.Watch {
		return nil, ErrWatchDisabled
	}
	if len(dirs) == 0 {
		dirs = []string{c.Config.ContentDir}
	}
	return watch.New(context.Background(), watch.Config{
		Dirs:      dirs,
		Pattern:   c.Config.Pattern,
		Recursive: c.Config.Recursive,
		Checker:   c.checker,
		Every:     c.Config.Watch.Debounce,
		Burst:     c.Config.Watch.Burst,
		Logger:    logging.WatchLogger(c.loggerProvider),
	})
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "console":
		level := consoleLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		return fmt.Errorf("di: unsupported logging provider %q", c.Config.Logging.Provider)
	}
	return nil
}

func (c *Container) configureDocuments() error {
	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(parseOptions(c.Config.Parser))
	}
	if c.documents != nil {
		return nil
	}

	svc, err := markdown.NewService(markdown.Config{
		BasePath:          c.Config.ContentDir,
		DefaultCollection: c.Config.DefaultCollection,
		Collections:       c.Config.Collections,
		Pattern:           c.Config.Pattern,
		Recursive:         c.Config.Recursive,
		Parser:            parseOptions(c.Config.Parser),
	}, c.parser)
	if err != nil {
		return err
	}
	c.documents = svc
	return nil
}

func (c *Container) configureChecker() error {
	if c.checker != nil {
		return nil
	}

	checker, err := check.NewChecker(check.Config{
		BasePath:  c.Config.ContentDir,
		Pattern:   c.Config.Pattern,
		Recursive: c.Config.Recursive,
		FrontMatter: check.FrontMatterRules{
			RequiredFields: c.Config.Check.RequiredFields,
			Layouts:        c.Config.Check.Layouts,
			Schema:         c.Config.Check.Schema,
		},
		Logger: logging.CheckLogger(c.loggerProvider),
	})
	if err != nil {
		return err
	}
	c.checker = checker
	return nil
}

func (c *Container) configurePermalinks() error {
	if c.permalinks != nil || !c.Config.Features.Permalinks {
		return nil
	}

	resolver, err := permalink.New(permalink.Config{
		BaseURL: c.Config.Permalinks.BaseURL,
		Routes:  c.Config.Permalinks.Routes,
		Default: c.Config.Permalinks.Default,
		Logger:  logging.PermalinksLogger(c.loggerProvider),
	})
	if err != nil {
		return err
	}
	c.permalinks = resolver
	return nil
}

func parseOptions(cfg runtimeconfig.ParserConfig) interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: cfg.Extensions,
		Sanitize:   cfg.Sanitize,
		HardWraps:  cfg.HardWraps,
		SafeMode:   cfg.SafeMode,
	}
}

func consoleLevel(level string) console.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace
	case "debug":
		return console.LevelDebug
	case "", "info":
		return console.LevelInfo
	case "warn", "warning":
		return console.LevelWarn
	case "error":
		return console.LevelError
	case "fatal":
		return console.LevelFatal
	default:
		return console.LevelInfo
	}
}
