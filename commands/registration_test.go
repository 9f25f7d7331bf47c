package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	post "github.com/goliatone/go-post"
	"github.com/goliatone/go-post/internal/check"
	"github.com/goliatone/go-post/internal/di"
	command "github.com/goliatone/go-command"
)

func TestRegisterContainerCommandsBuildsHandlers(t *testing.T) {
	cfg := post.DefaultConfig()
	cfg.ContentDir = t.TempDir()

	registry := &recordingRegistry{}
	dispatcher := &recordingDispatcher{}
	cron := &recordingCron{}

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{
		Registry:      registry,
		Dispatcher:    dispatcher,
		CronRegistrar: cron.Registrar(),
		CheckCron:     "@daily",
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if len(result.Handlers) != 3 {
		t.Fatalf("expected 3 handlers, got %d", len(result.Handlers))
	}
	if len(result.Handlers) != len(registry.handlers) {
		t.Fatalf("expected registry to record all handlers, got %d of %d", len(registry.handlers), len(result.Handlers))
	}
	if len(dispatcher.subscriptions) != len(result.Handlers) {
		t.Fatalf("expected a dispatcher subscription per handler, got %d", len(dispatcher.subscriptions))
	}
	result.Subscriptions[0].Unsubscribe()
	if !dispatcher.subscriptions[0].unsubscribed {
		t.Fatal("expected unsubscribe to reach the dispatcher subscription")
	}
	if result.Set == nil || result.Set.CheckFile == nil || result.Set.CheckDirectory == nil || result.Set.FormatDirectory == nil {
		t.Fatal("expected handler set to expose the constructed handlers")
	}
	if len(cron.registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(cron.registrations))
	}
	if got := cron.registrations[0].config.Expression; got != "@daily" {
		t.Fatalf("expected check cron expression, got %q", got)
	}
}

func TestRegisterContainerCommandsWithoutRegistrars(t *testing.T) {
	cfg := post.DefaultConfig()
	cfg.ContentDir = t.TempDir()

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) != 3 {
		t.Fatalf("expected handlers to be built without registrars, got %d", len(result.Handlers))
	}
	if len(result.Subscriptions) != 0 {
		t.Fatalf("expected no dispatcher subscriptions without dispatcher, got %d", len(result.Subscriptions))
	}
}

func TestRegisterContainerCommandsNilContainer(t *testing.T) {
	result, err := RegisterContainerCommands(nil, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) != 0 {
		t.Fatalf("expected no handlers for nil container, got %d", len(result.Handlers))
	}
}

func TestScheduledCheckRunsAgainstContentRoot(t *testing.T) {
	contentDir := t.TempDir()
	broken := "---\nlayout: post\ntitle: Broken\n\nThe block above never closes.\n"
	if err := os.WriteFile(filepath.Join(contentDir, "broken.md"), []byte(broken), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := post.DefaultConfig()
	cfg.ContentDir = contentDir

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	cron := &recordingCron{}
	if _, err := RegisterContainerCommands(container, RegistrationOptions{
		CronRegistrar: cron.Registrar(),
		CheckCron:     "@hourly",
	}); err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(cron.registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(cron.registrations))
	}

	runErr := cron.registrations[0].handler()
	if !errors.Is(runErr, check.ErrCheckFailed) {
		t.Fatalf("expected scheduled check to surface findings, got %v", runErr)
	}

	canonical := "---\nlayout: post\ntitle: Fixed\n---\n\nBody.\n"
	if err := os.WriteFile(filepath.Join(contentDir, "broken.md"), []byte(canonical), 0o644); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}
	if err := cron.registrations[0].handler(); err != nil {
		t.Fatalf("expected clean tree to pass the scheduled check, got %v", err)
	}
}

func TestCollectorRecordsHandlers(t *testing.T) {
	cfg := post.DefaultConfig()
	cfg.ContentDir = t.TempDir()

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	collector := &Collector{}
	if _, err := RegisterContainerCommands(container, RegistrationOptions{Registry: collector}); err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if got := collector.Handlers(); len(got) != 3 {
		t.Fatalf("expected collector to record 3 handlers, got %d", len(got))
	}
	if (&Collector{}).Handlers() != nil {
		t.Fatal("expected empty collector to return nil handlers")
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type recordingSubscription struct {
	unsubscribed bool
}

func (s *recordingSubscription) Unsubscribe() { s.unsubscribed = true }

type recordingDispatcher struct {
	subscriptions []*recordingSubscription
}

func (d *recordingDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	sub := &recordingSubscription{}
	d.subscriptions = append(d.subscriptions, sub)
	return sub, nil
}

type cronRegistration struct {
	config  command.HandlerConfig
	handler func() error
}

type recordingCron struct {
	registrations []cronRegistration
}

func (c *recordingCron) Registrar() CronRegistrar {
	return func(cfg command.HandlerConfig, handler func() error) error {
		c.registrations = append(c.registrations, cronRegistration{config: cfg, handler: handler})
		return nil
	}
}
