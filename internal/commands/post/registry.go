package postcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-post/internal/commands"
	"github.com/goliatone/go-post/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers into a host dispatcher.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries
// for scheduled handlers.
type CronRegistrar func(command.HandlerConfig, func() error) error

// HandlerSet groups the post command handlers produced by
// RegisterPostCommands.
type HandlerSet struct {
	CheckFile       *CheckFileHandler
	CheckDirectory  *CheckDirectoryHandler
	FormatDirectory *FormatDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	checkFileOpts       []commands.HandlerOption[CheckFileCommand]
	checkDirectoryOpts  []commands.HandlerOption[CheckDirectoryCommand]
	formatDirectoryOpts []commands.HandlerOption[FormatDirectoryCommand]
}

// WithCheckFileHandlerOptions forwards options to the CheckFileHandler
// constructor.
func WithCheckFileHandlerOptions(opts ...commands.HandlerOption[CheckFileCommand]) Option {
	return func(cfg *options) {
		cfg.checkFileOpts = append(cfg.checkFileOpts, opts...)
	}
}

// WithCheckDirectoryHandlerOptions forwards options to the
// CheckDirectoryHandler constructor.
func WithCheckDirectoryHandlerOptions(opts ...commands.HandlerOption[CheckDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.checkDirectoryOpts = append(cfg.checkDirectoryOpts, opts...)
	}
}

// WithFormatDirectoryHandlerOptions forwards options to the
// FormatDirectoryHandler constructor.
func WithFormatDirectoryHandlerOptions(opts ...commands.HandlerOption[FormatDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.formatDirectoryOpts = append(cfg.formatDirectoryOpts, opts...)
	}
}

// RegisterPostCommands builds the post command handlers and registers them
// with the provided registry. The returned HandlerSet lets callers wire
// additional integrations such as cron schedules.
func RegisterPostCommands(reg CommandRegistry, checker interfaces.DocumentChecker, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if checker == nil {
		return nil, errors.New("post command registration: checker is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "post")

	checkFile := NewCheckFileHandler(checker, logger, cfg.checkFileOpts...)
	checkDirectory := NewCheckDirectoryHandler(checker, logger, cfg.checkDirectoryOpts...)
	formatDirectory := NewFormatDirectoryHandler(logger, cfg.formatDirectoryOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(checkFile); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(checkDirectory); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(formatDirectory); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		CheckFile:       checkFile,
		CheckDirectory:  checkDirectory,
		FormatDirectory: formatDirectory,
	}, nil
}

// RegisterCheckCron wires a directory check into a cron registrar using the
// supplied command configuration and message payload. The handler executes
// with a background context.
func RegisterCheckCron(reg CronRegistrar, handler *CheckDirectoryHandler, cfg command.HandlerConfig, msg CheckDirectoryCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
