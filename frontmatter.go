package post

import (
	"time"

	"github.com/goliatone/go-post/internal/check"
	"github.com/goliatone/go-post/internal/markdown"
)

var (
	// ErrNoFrontMatter reports a file that does not open with a front matter block.
	ErrNoFrontMatter = markdown.ErrNoFrontMatter
	// ErrFrontMatterUnterminated reports a front matter block that never closes.
	ErrFrontMatterUnterminated = markdown.ErrFrontMatterUnterminated
	// ErrNoFilenameParts reports a document without the date or title a
	// canonical filename is derived from.
	ErrNoFilenameParts = markdown.ErrNoFilenameParts
	// ErrCheckFailed is the sentinel every failed verification unwraps to.
	ErrCheckFailed = check.ErrCheckFailed
)

// ParseFrontMatter splits a post file into its decoded front matter and the
// Markdown body that follows it. The delimiters recognise the YAML, TOML, and
// JSON dialects.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	return markdown.ParseFrontMatter(source)
}

// DetectFormat reports the front matter dialect a post file opens with.
func DetectFormat(source []byte) (Format, error) {
	return markdown.DetectFormat(source)
}

// BuildDocument parses source into a Document, recording the collection,
// checksum, and modification time alongside the decoded front matter.
func BuildDocument(path, collection string, source []byte, modified time.Time) (*Document, error) {
	return markdown.BuildDocument(path, collection, source, modified)
}

// ComposeDocument serialises a document back into well-formed post file
// bytes: front matter first, exactly once, terminated, in the document's
// recorded dialect unless the options override it.
func ComposeDocument(doc *Document, opts ComposeOptions) ([]byte, error) {
	return markdown.Compose(doc, opts)
}

// Filename derives the canonical YYYY-MM-DD-slug.md file name for a document.
func Filename(doc *Document) (string, error) {
	return markdown.Filename(doc)
}

// PostDate parses the publication date out of a canonical post file name.
func PostDate(path string) (time.Time, bool) {
	return markdown.PostDate(path)
}

// IssuesFrom extracts the findings carried by a failed verification error.
// It returns nil when err does not wrap ErrCheckFailed.
func IssuesFrom(err error) []Issue {
	return check.IssuesFrom(err)
}
