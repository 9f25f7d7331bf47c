// Package commands exposes the post command handlers to host applications:
// registries, dispatchers, and cron schedulers supplied by the host are wired
// to handlers built from a configured container.
package commands

import (
	"errors"
	"strings"

	postcmd "github.com/goliatone/go-post/internal/commands/post"
	"github.com/goliatone/go-post/internal/di"
	"github.com/goliatone/go-post/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry records command handlers so hosts can expose them through
// their own runners.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, func() error) error

// Message payloads accepted by the registered handlers.
type (
	CheckFileCommand       = postcmd.CheckFileCommand
	CheckDirectoryCommand  = postcmd.CheckDirectoryCommand
	FormatDirectoryCommand = postcmd.FormatDirectoryCommand
)

// HandlerSet groups the handlers produced by RegisterContainerCommands.
type HandlerSet = postcmd.HandlerSet

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// CheckCron schedules a recurring directory check when a CronRegistrar is
	// supplied, e.g. "@daily". No schedule is installed when empty.
	CheckCron string
	// CheckCronDirectory names the directory the scheduled check runs
	// against, relative to the configured content root. The whole root is
	// checked when empty.
	CheckCronDirectory string
}

// RegistrationResult captures the constructed command handlers and any
// dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Set           *HandlerSet
	Subscriptions []CommandSubscription
}

// RegisterContainerCommands builds the post command handlers from the provided
// container and optionally registers them with registry, dispatcher, and cron
// integrations. Registration failures are joined so one faulty integration
// does not mask the others.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	set, err := postcmd.RegisterPostCommands(nil, container.Checker(), provider)
	if err != nil {
		return nil, err
	}

	result := &RegistrationResult{
		Handlers: make([]any, 0, 3),
		Set:      set,
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	register(set.CheckFile)
	register(set.CheckDirectory)
	register(set.FormatDirectory)

	if opts.CronRegistrar != nil {
		if expr := strings.TrimSpace(opts.CheckCron); expr != "" {
			dir := strings.TrimSpace(opts.CheckCronDirectory)
			if dir == "" {
				dir = "."
			}
			cronCfg := command.HandlerConfig{Expression: expr}
			msg := CheckDirectoryCommand{Directory: dir}
			if err := postcmd.RegisterCheckCron(postcmd.CronRegistrar(opts.CronRegistrar), set.CheckDirectory, cronCfg, msg); err != nil {
				errs = errors.Join(errs, err)
			}
		}
	}

	return result, errs
}

// Collector is a CommandRegistry that records handlers for direct invocation,
// for hosts that execute commands without a full registry implementation.
type Collector struct {
	handlers []any
}

// RegisterCommand satisfies CommandRegistry.
func (c *Collector) RegisterCommand(handler any) error {
	c.handlers = append(c.handlers, handler)
	return nil
}

// Handlers returns the collected handlers.
func (c *Collector) Handlers() []any {
	if len(c.handlers) == 0 {
		return nil
	}
	out := make([]any, len(c.handlers))
	copy(out, c.handlers)
	return out
}
