package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-post/pkg/interfaces"
)

const (
	rootModule       = "post"
	documentsModule  = "post.documents"
	checkModule      = "post.check"
	permalinksModule = "post.permalinks"
	watchModule      = "post.watch"
	commandsModule   = "post.commands"
)

const (
	fieldDocumentPath       = "document_path"
	fieldDocumentCollection = "collection"
	fieldDocumentAction     = "action"
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

// DocumentsLogger returns the logger namespace reserved for document loading
// and composition workflows.
func DocumentsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, documentsModule)
}

// CheckLogger returns the logger namespace reserved for content checks.
func CheckLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, checkModule)
}

// PermalinksLogger returns the logger namespace reserved for permalink resolution.
func PermalinksLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, permalinksModule)
}

// WatchLogger returns the logger namespace reserved for filesystem watchers.
func WatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, watchModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithDocumentContext enriches the provided logger with common document
// fields such as file path, collection, and the action being performed.
// Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, collection, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(collection); trimmed != "" {
		fields[fieldDocumentCollection] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldDocumentAction] = trimmed
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
