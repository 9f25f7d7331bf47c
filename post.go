package post

import (
	"github.com/goliatone/go-post/internal/di"
	"github.com/goliatone/go-post/internal/markdown"
	"github.com/goliatone/go-post/pkg/interfaces"
)

// DocumentService exports the document service contract for consumers of the post package.
type DocumentService = interfaces.DocumentService

// DocumentChecker exports the document checker contract.
type DocumentChecker = interfaces.DocumentChecker

// PermalinkResolver exports the permalink resolver contract.
type PermalinkResolver = interfaces.PermalinkResolver

// MarkdownParser exports the Markdown parser contract.
type MarkdownParser = interfaces.MarkdownParser

// Watcher exports the content watcher contract.
type Watcher = interfaces.Watcher

// Document exports the parsed post file DTO.
type Document = interfaces.Document

// FrontMatter exports the front matter metadata DTO.
type FrontMatter = interfaces.FrontMatter

// Format exports the front matter dialect identifier.
type Format = interfaces.Format

// BodyStructure exports the body outline DTO.
type BodyStructure = interfaces.BodyStructure

// Heading exports one entry of a body heading outline.
type Heading = interfaces.Heading

// CodeBlock exports the fenced code block descriptor.
type CodeBlock = interfaces.CodeBlock

// Issue exports a single check finding.
type Issue = interfaces.Issue

// Severity exports the check finding grade.
type Severity = interfaces.Severity

// Result exports the per-document check outcome.
type Result = interfaces.Result

// Report exports the per-directory check aggregate.
type Report = interfaces.Report

// WatchEvent exports the content change notification DTO.
type WatchEvent = interfaces.WatchEvent

// LoadOptions exports the document discovery options.
type LoadOptions = interfaces.LoadOptions

// ParseOptions exports the Markdown parsing options.
type ParseOptions = interfaces.ParseOptions

// ComposeOptions exports the document serialisation options.
type ComposeOptions = interfaces.ComposeOptions

const (
	FormatYAML = interfaces.FormatYAML
	FormatTOML = interfaces.FormatTOML
	FormatJSON = interfaces.FormatJSON

	SeverityError   = interfaces.SeverityError
	SeverityWarning = interfaces.SeverityWarning
)

// ErrWatchDisabled is returned by Watch when the watch feature is off.
var ErrWatchDisabled = di.ErrWatchDisabled

// Module represents the top level post library façade.
type Module struct {
	container *di.Container
}

// New constructs a post module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Documents returns the configured document service.
func (m *Module) Documents() DocumentService {
	return m.container.Documents()
}

// Checker returns the configured document checker.
func (m *Module) Checker() DocumentChecker {
	return m.container.Checker()
}

// Permalinks returns the permalink resolver when the feature is enabled.
func (m *Module) Permalinks() PermalinkResolver {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Permalinks()
}

// Watch starts a watcher over the given directories. With no arguments the
// configured content directory is watched. The caller owns the watcher and
// must Close it.
func (m *Module) Watch(dirs ...string) (Watcher, error) {
	return m.container.NewWatcher(dirs...)
}

// Visible reports whether a document passes the publish gate and sits
// outside the drafts collection.
func Visible(doc *Document, draftsCollection string) bool {
	return markdown.Visible(doc, draftsCollection)
}

// Partition splits documents into site-visible and hidden sets.
func Partition(docs []*Document, draftsCollection string) (visible, hidden []*Document) {
	return markdown.Partition(docs, draftsCollection)
}
