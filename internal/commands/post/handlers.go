package postcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-post/internal/check"
	"github.com/goliatone/go-post/internal/commands"
	"github.com/goliatone/go-post/internal/logging"
	"github.com/goliatone/go-post/internal/markdown"
	"github.com/goliatone/go-post/pkg/interfaces"
)

const (
	checkFileOperation       = "post.check_file"
	checkDirectoryOperation  = "post.check_directory"
	formatDirectoryOperation = "post.format_directory"

	defaultFormatPattern = "*.md"
)

var (
	_ command.Commander[CheckFileCommand]       = (*CheckFileHandler)(nil)
	_ command.Commander[CheckDirectoryCommand]  = (*CheckDirectoryHandler)(nil)
	_ command.Commander[FormatDirectoryCommand] = (*FormatDirectoryHandler)(nil)
)

// CheckFileHandler verifies a single post file via the shared command
// handler foundation.
type CheckFileHandler struct {
	inner *commands.Handler[CheckFileCommand]
}

// NewCheckFileHandler creates a handler bound to the supplied checker.
func NewCheckFileHandler(checker interfaces.DocumentChecker, logger interfaces.Logger, opts ...commands.HandlerOption[CheckFileCommand]) *CheckFileHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CheckFileCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		source, err := os.ReadFile(msg.Path)
		if err != nil {
			return fmt.Errorf("post command: read %s: %w", msg.Path, err)
		}

		result, err := checker.CheckSource(ctx, msg.Path, source)
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"path":         result.Path,
				"issues":       len(result.Issues),
				"warnings":     len(result.Warnings()),
				"pure_content": result.PureContent,
			}).Info("post.command.check_file.completed")
		}
		return check.ResultError(result)
	}

	handlerOpts := []commands.HandlerOption[CheckFileCommand]{
		commands.WithLogger[CheckFileCommand](baseLogger),
		commands.WithOperation[CheckFileCommand](checkFileOperation),
		commands.WithMessageFields(func(msg CheckFileCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CheckFileCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CheckFileHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CheckFileCommand].
func (h *CheckFileHandler) Execute(ctx context.Context, msg CheckFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CheckDirectoryHandler verifies every post file under a directory via the
// shared command handler foundation.
type CheckDirectoryHandler struct {
	inner *commands.Handler[CheckDirectoryCommand]
}

// NewCheckDirectoryHandler creates a handler bound to the supplied checker.
func NewCheckDirectoryHandler(checker interfaces.DocumentChecker, logger interfaces.Logger, opts ...commands.HandlerOption[CheckDirectoryCommand]) *CheckDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CheckDirectoryCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		report, err := checker.CheckDirectory(ctx, msg.Directory)
		if err != nil {
			return err
		}
		if report != nil {
			failed := 0
			for _, result := range report.Results {
				if !result.Ok() {
					failed++
				}
			}
			logging.WithFields(baseLogger, map[string]any{
				"directory": msg.Directory,
				"checked":   report.Checked,
				"failed":    failed,
				"issues":    len(report.Issues()),
			}).Info("post.command.check_directory.completed")
		}
		return check.ReportError(report)
	}

	handlerOpts := []commands.HandlerOption[CheckDirectoryCommand]{
		commands.WithLogger[CheckDirectoryCommand](baseLogger),
		commands.WithOperation[CheckDirectoryCommand](checkDirectoryOperation),
		commands.WithMessageFields(func(msg CheckDirectoryCommand) map[string]any {
			return map[string]any{"directory": msg.Directory}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CheckDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CheckDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CheckDirectoryCommand].
func (h *CheckDirectoryHandler) Execute(ctx context.Context, msg CheckDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// FormatDirectoryHandler rewrites post files into canonical form via the
// shared command handler foundation.
type FormatDirectoryHandler struct {
	inner *commands.Handler[FormatDirectoryCommand]
}

// NewFormatDirectoryHandler creates a format handler. Formatting works on
// package-level markdown primitives, so the only dependency is the logger.
func NewFormatDirectoryHandler(logger interfaces.Logger, opts ...commands.HandlerOption[FormatDirectoryCommand]) *FormatDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg FormatDirectoryCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pattern := msg.Pattern
		if pattern == "" {
			pattern = defaultFormatPattern
		}

		var failures []error
		examined, rewritten := 0, 0

		walkErr := filepath.WalkDir(msg.Directory, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			name := entry.Name()
			if entry.IsDir() {
				if path != msg.Directory && strings.HasPrefix(name, ".") {
					return fs.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return nil
			}
			matched, err := filepath.Match(pattern, name)
			if err != nil {
				return fmt.Errorf("post command: pattern %q: %w", pattern, err)
			}
			if !matched {
				return nil
			}

			examined++
			changed, err := formatFile(path, interfaces.Format(msg.Format), msg.DryRun)
			if err != nil {
				// Plain Markdown without a front matter block is not a post.
				if errors.Is(err, markdown.ErrNoFrontMatter) {
					return nil
				}
				failures = append(failures, fmt.Errorf("%s: %w", path, err))
				return nil
			}
			if changed {
				rewritten++
			}
			return nil
		})
		if walkErr != nil {
			return walkErr
		}

		logging.WithFields(baseLogger, map[string]any{
			"directory": msg.Directory,
			"examined":  examined,
			"rewritten": rewritten,
			"failed":    len(failures),
			"dry_run":   msg.DryRun,
		}).Info("post.command.format_directory.completed")

		return errors.Join(failures...)
	}

	handlerOpts := []commands.HandlerOption[FormatDirectoryCommand]{
		commands.WithLogger[FormatDirectoryCommand](baseLogger),
		commands.WithOperation[FormatDirectoryCommand](formatDirectoryOperation),
		commands.WithMessageFields(func(msg FormatDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Format != "" {
				fields["format"] = msg.Format
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[FormatDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &FormatDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[FormatDirectoryCommand].
func (h *FormatDirectoryHandler) Execute(ctx context.Context, msg FormatDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// formatFile recomposes one post file, reporting whether its bytes changed.
// The write preserves the file's permission bits.
func formatFile(path string, format interfaces.Format, dryRun bool) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	doc, err := markdown.BuildDocument(path, "", source, info.ModTime())
	if err != nil {
		return false, err
	}
	formatted, err := markdown.Compose(doc, interfaces.ComposeOptions{Format: format})
	if err != nil {
		return false, err
	}

	if bytes.Equal(formatted, source) {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	if err := os.WriteFile(path, formatted, info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}
