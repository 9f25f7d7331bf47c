package postcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	checkFileMessageType       = "post.check_file"
	checkDirectoryMessageType  = "post.check_directory"
	formatDirectoryMessageType = "post.format_directory"
)

// notBlank rejects values that are empty after trimming whitespace. It pairs
// with validation.Required, which accepts strings made of spaces.
func notBlank(code, message string) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	})
}

// CheckFileCommand verifies a single post file: front matter present and
// terminated, fences balanced, body free of executable directives.
type CheckFileCommand struct {
	// Path selects the post file to verify, relative or absolute.
	Path string `json:"path"`
}

// Type implements command.Message.
func (CheckFileCommand) Type() string { return checkFileMessageType }

// Validate ensures a target path is present before handlers execute.
func (cmd CheckFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path,
			validation.Required,
			notBlank("post.check_file.path_required", "path is required"),
		),
	)
}

// CheckDirectoryCommand verifies every post file under a directory tree.
type CheckDirectoryCommand struct {
	// Directory selects the directory to walk, relative to the checker's
	// content root. "." checks the whole root.
	Directory string `json:"directory"`
}

// Type implements command.Message.
func (CheckDirectoryCommand) Type() string { return checkDirectoryMessageType }

// Validate ensures a target directory is present before handlers execute.
func (cmd CheckDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory,
			validation.Required,
			notBlank("post.check_directory.directory_required", "directory is required"),
		),
	)
}

// FormatDirectoryCommand rewrites post files under a directory into canonical
// form: front matter re-encoded, body trimmed to a single trailing newline.
// Files without a front matter block are left untouched.
type FormatDirectoryCommand struct {
	// Directory selects the filesystem path to walk for post files.
	Directory string `json:"directory"`
	// Pattern filters filenames, defaulting to *.md.
	Pattern string `json:"pattern,omitempty"`
	// Format transcodes front matter into the named dialect (yaml, toml, or
	// json). Empty keeps each file's recorded dialect.
	Format string `json:"format,omitempty"`
	// DryRun counts the files a run would rewrite without touching disk.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (FormatDirectoryCommand) Type() string { return formatDirectoryMessageType }

// Validate ensures directory input is present and any requested dialect is
// one the composer supports.
func (cmd FormatDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory,
			validation.Required,
			notBlank("post.format_directory.directory_required", "directory is required"),
		),
		validation.Field(&cmd.Format,
			validation.In("yaml", "toml", "json").
				Error("format must be yaml, toml, or json"),
		),
	)
}
