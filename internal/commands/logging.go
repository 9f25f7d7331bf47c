package commands

import (
	"strings"

	"github.com/goliatone/go-post/internal/logging"
	"github.com/goliatone/go-post/pkg/interfaces"
)

const commandModuleRoot = "post.commands"

// CommandLogger returns a module-scoped logger for command handlers with the
// structured fields shared by every command execution.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
