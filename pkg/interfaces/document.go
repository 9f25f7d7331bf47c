package interfaces

import (
	"context"
	"time"
)

// Format identifies the front matter dialect used by a post file. The
// loader records the dialect it detected so composing the document back
// to disk round-trips the author's original delimiters.
type Format string

const (
	// FormatYAML marks front matter delimited by `---` lines.
	FormatYAML Format = "yaml"
	// FormatTOML marks front matter delimited by `+++` lines.
	FormatTOML Format = "toml"
	// FormatJSON marks front matter expressed as a leading JSON object.
	FormatJSON Format = "json"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should support reusable parser instances and extension
// toggles so hosts can tailor rendering without rewriting the core service.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// DocumentService exposes the high-level post-file workflows: load Markdown
// documents from disk, render HTML previews of their bodies, inspect body
// structure, and compose documents back into well-formed file bytes.
type DocumentService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
	Inspect(body []byte) (*BodyStructure, error)
	Compose(doc *Document, opts ComposeOptions) ([]byte, error)
	Excerpt(doc *Document) string
}

// Document represents a single post file with parsed metadata and content.
// The struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	SourcePath  string
	Collection  string
	Format      Format
	FrontMatter FrontMatter
	Body        []byte
	// BodyLine is the 1-based line of the source file where Body begins,
	// after the front matter block. Checks use it to report findings
	// against file lines rather than body offsets.
	BodyLine int
	BodyHTML []byte
	// Checksum stores a digest of the original file content (SHA-256) so
	// watch and sync workflows can detect changes without re-reading
	// unchanged files.
	Checksum     []byte
	LastModified time.Time
}

// FrontMatter models the metadata block that precedes a post body. The
// named fields cover the keys the site build consumes; everything else an
// author writes lands in Custom, and Raw preserves the decoded block
// verbatim so checks can reason about exactly what was present.
type FrontMatter struct {
	Layout    string         `yaml:"layout" json:"layout" toml:"layout"`
	Title     string         `yaml:"title" json:"title" toml:"title"`
	Published *bool          `yaml:"published" json:"published,omitempty" toml:"published,omitempty"`
	Excerpt   string         `yaml:"excerpt" json:"excerpt,omitempty" toml:"excerpt,omitempty"`
	Date      time.Time      `yaml:"date" json:"date,omitempty" toml:"date,omitempty"`
	Tags      []string       `yaml:"tags" json:"tags,omitempty" toml:"tags,omitempty"`
	Author    string         `yaml:"author" json:"author,omitempty" toml:"author,omitempty"`
	Permalink string         `yaml:"permalink" json:"permalink,omitempty" toml:"permalink,omitempty"`
	Custom    map[string]any `yaml:",inline" json:"custom,omitempty" toml:"-"`
	Raw       map[string]any `yaml:"-" json:"-" toml:"-"`
}

// IsPublished reports whether the post is visible to the site build. The
// gate is opt-out: an absent `published` key means visible, and only an
// explicit `published: false` hides the post.
func (fm FrontMatter) IsPublished() bool {
	return fm.Published == nil || *fm.Published
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive          *bool
	Pattern            string
	CollectionPatterns map[string]string
	DefaultCollection  string
	Parser             ParseOptions
}

// ComposeOptions controls how a document is serialised back to file bytes.
type ComposeOptions struct {
	// Format overrides the document's recorded dialect when set.
	Format Format
}

// BodyStructure summarises the Markdown body of a post: its heading
// outline and the fenced code blocks it carries. It is derived from the
// parsed AST, not from the raw text, so inline code and indented blocks
// do not leak into the fence inventory.
type BodyStructure struct {
	Headings   []Heading
	CodeBlocks []CodeBlock
}

// Heading is one entry in a body's heading outline.
type Heading struct {
	Level int
	Text  string
}

// CodeBlock describes a fenced code block found in a post body.
type CodeBlock struct {
	// Language is the first word of the fence info string, empty when the
	// author omitted a language tag.
	Language string
	// StartLine is the 1-based body line of the opening fence.
	StartLine int
}
