package markdown

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-post/pkg/interfaces"
)

// ErrNoFilenameParts reports a document carrying neither a date nor anything
// to slug, so no canonical filename can be derived.
var ErrNoFilenameParts = errors.New("markdown: document has no date or title for a filename")

var postFilenamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.(?:md|markdown)$`)

// Compose serialises a document back into post file bytes: front matter
// first, exactly once, terminated, followed by a blank line and the body
// with a single trailing newline. The output always satisfies the structural
// contract the loader enforces, whatever state the document arrived in.
func Compose(doc *interfaces.Document, opts interfaces.ComposeOptions) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown: compose nil document")
	}

	format := opts.Format
	if format == "" {
		format = doc.Format
	}
	if format == "" {
		format = interfaces.FormatYAML
	}

	matter := composePayload(doc.FrontMatter)

	var buf bytes.Buffer
	switch format {
	case interfaces.FormatYAML:
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(matter); err != nil {
			return nil, fmt.Errorf("markdown: encode yaml front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("markdown: encode yaml front matter: %w", err)
		}
		buf.WriteString("---\n")
	case interfaces.FormatTOML:
		buf.WriteString("+++\n")
		if err := toml.NewEncoder(&buf).Encode(matter); err != nil {
			return nil, fmt.Errorf("markdown: encode toml front matter: %w", err)
		}
		buf.WriteString("+++\n")
	case interfaces.FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(matter); err != nil {
			return nil, fmt.Errorf("markdown: encode json front matter: %w", err)
		}
	default:
		return nil, fmt.Errorf("markdown: unsupported front matter format %q", format)
	}

	body := bytes.TrimSpace(normalizeLineEndings(doc.Body))
	if len(body) > 0 {
		buf.WriteByte('\n')
		buf.Write(body)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// composePayload flattens the front matter into the map the encoders
// serialise. Raw preserves everything the author wrote; the named fields are
// layered on top so programmatic edits win on conflict.
func composePayload(fm interfaces.FrontMatter) map[string]any {
	payload := cloneMap(fm.Raw)

	if fm.Layout != "" {
		payload["layout"] = fm.Layout
	}
	if fm.Title != "" {
		payload["title"] = fm.Title
	}
	if fm.Published != nil {
		payload["published"] = *fm.Published
	}
	if fm.Excerpt != "" {
		payload["excerpt"] = fm.Excerpt
	}
	if !fm.Date.IsZero() {
		payload["date"] = fm.Date
	}
	if len(fm.Tags) > 0 {
		payload["tags"] = append([]string(nil), fm.Tags...)
	}
	if fm.Author != "" {
		payload["author"] = fm.Author
	}
	if fm.Permalink != "" {
		payload["permalink"] = fm.Permalink
	}
	for key, value := range fm.Custom {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		payload[key] = value
	}

	return payload
}

// Filename derives the canonical source filename for a document:
// YYYY-MM-DD-slug.md. The date comes from front matter, falling back to a
// date already encoded in the current filename, then to the modification
// time. The slug comes from the title, falling back to the current
// filename's stem.
func Filename(doc *interfaces.Document) (string, error) {
	if doc == nil {
		return "", errors.New("markdown: filename for nil document")
	}

	date := doc.FrontMatter.Date
	if date.IsZero() {
		if parsed, ok := PostDate(doc.SourcePath); ok {
			date = parsed
		} else {
			date = doc.LastModified
		}
	}
	if date.IsZero() {
		return "", ErrNoFilenameParts
	}

	candidate := strings.TrimSpace(doc.FrontMatter.Title)
	if candidate == "" {
		candidate = FilenameStem(doc.SourcePath)
	}
	if candidate == "" {
		return "", ErrNoFilenameParts
	}

	normalized, err := slug.Normalize(candidate)
	if err != nil {
		return "", fmt.Errorf("markdown: slug for %q: %w", candidate, err)
	}
	if normalized == "" {
		return "", ErrNoFilenameParts
	}

	return fmt.Sprintf("%s-%s.md", date.Format("2006-01-02"), normalized), nil
}

// PostDate extracts the date encoded in a canonical post filename. The
// second return is false when the filename does not carry one.
func PostDate(path string) (time.Time, bool) {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	match := postFilenamePattern.FindStringSubmatch(base)
	if match == nil {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", match[1])
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// FilenameStem returns the filename without directory, date prefix, or
// extension, for reuse as a slug source.
func FilenameStem(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if match := postFilenamePattern.FindStringSubmatch(base); match != nil {
		return match[2]
	}
	base = strings.TrimSuffix(base, ".markdown")
	base = strings.TrimSuffix(base, ".md")
	return base
}

func normalizeLineEndings(input []byte) []byte {
	return bytes.ReplaceAll(input, []byte("\r\n"), []byte("\n"))
}
