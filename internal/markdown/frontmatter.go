package markdown

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-post/pkg/interfaces"
)

var (
	// ErrNoFrontMatter reports a source file that does not open with a
	// front matter block. Such a file is plain Markdown, not a post.
	ErrNoFrontMatter = errors.New("markdown: missing front matter block")
	// ErrFrontMatterUnterminated reports a front matter block whose
	// closing delimiter never appears; everything after the opening
	// delimiter would otherwise be swallowed as metadata.
	ErrFrontMatterUnterminated = errors.New("markdown: unterminated front matter block")
)

// Front matter keys that map onto named FrontMatter fields. Anything else
// the author writes is preserved under Custom.
var reservedKeys = map[string]struct{}{
	"layout":    {},
	"title":     {},
	"published": {},
	"excerpt":   {},
	"date":      {},
	"tags":      {},
	"author":    {},
	"permalink": {},
}

// utf8BOM is stripped before delimiter detection so editors that prepend a
// byte order mark do not hide the front matter block.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat identifies the front matter dialect that opens source and
// verifies the block terminates. It returns ErrNoFrontMatter when the first
// line is not a recognised opening delimiter and ErrFrontMatterUnterminated
// when the closing delimiter never appears.
func DetectFormat(source []byte) (interfaces.Format, error) {
	source = bytes.TrimPrefix(source, utf8BOM)

	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return "", ErrNoFrontMatter
	}

	var format interfaces.Format
	var closing string
	switch strings.TrimSpace(scanner.Text()) {
	case "---":
		format, closing = interfaces.FormatYAML, "---"
	case "+++":
		format, closing = interfaces.FormatTOML, "+++"
	case "{":
		format, closing = interfaces.FormatJSON, "}"
	default:
		return "", ErrNoFrontMatter
	}

	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == closing {
			return format, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("markdown: scan front matter: %w", err)
	}

	return "", fmt.Errorf("%w: missing closing %q", ErrFrontMatterUnterminated, closing)
}

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured front matter, the body
// without delimiters, and any error encountered. The metadata block must be
// the first thing in the file and must be terminated.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	fm, body, _, err := parseSource(source)
	return fm, body, err
}

func parseSource(source []byte) (interfaces.FrontMatter, []byte, interfaces.Format, error) {
	format, err := DetectFormat(source)
	if err != nil {
		return interfaces.FrontMatter{}, nil, "", err
	}

	source = bytes.TrimPrefix(source, utf8BOM)

	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, matterFormats()...)
	if err != nil {
		return interfaces.FrontMatter{}, nil, format, fmt.Errorf("markdown: decode front matter: %w", err)
	}

	// Second decode into a plain map keeps every key the author wrote,
	// independent of dialect, for Raw and Custom.
	raw := map[string]any{}
	if _, err := frontmatter.Parse(bytes.NewReader(source), &raw, matterFormats()...); err != nil {
		return interfaces.FrontMatter{}, nil, format, fmt.Errorf("markdown: decode front matter: %w", err)
	}

	return envelopeToFrontMatter(meta, raw), body, format, nil
}

// matterFormats enumerates the recognised front matter dialects. The JSON
// object form is not one of the library defaults, and supplying the formats
// explicitly also pins the YAML and TOML decoders to the ones used by the
// composer so values round-trip.
func matterFormats() []*frontmatter.Format {
	// The braces are part of the JSON document itself, so that dialect keeps
	// its delimiters in the decoded payload.
	jsonFormat := frontmatter.NewFormat("{", "}", json.Unmarshal)
	jsonFormat.UnmarshalDelims = true

	return []*frontmatter.Format{
		frontmatter.NewFormat("---", "---", yaml.Unmarshal),
		frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
		jsonFormat,
	}
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// collection, raw content, and modification time. BodyHTML is intentionally
// left empty so callers can render lazily.
func BuildDocument(path string, collection string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, format, err := parseSource(source)
	if err != nil {
		return nil, fmt.Errorf("markdown: build document %s: %w", path, err)
	}

	sum := sha256.Sum256(source)

	return &interfaces.Document{
		SourcePath:   path,
		Collection:   collection,
		Format:       format,
		FrontMatter:  fm,
		Body:         body,
		BodyLine:     BodyLine(source, body),
		Checksum:     sum[:],
		LastModified: modified,
	}, nil
}

// BodyLine computes the 1-based line on which body starts within source.
// The parser returns the body as a literal suffix of the source, so the
// difference in newline counts is exactly the number of lines the front
// matter block occupied.
func BodyLine(source, body []byte) int {
	nl := []byte{'\n'}
	return bytes.Count(source, nl) - bytes.Count(body, nl) + 1
}

type frontMatterEnvelope struct {
	Layout    string    `yaml:"layout" toml:"layout" json:"layout"`
	Title     string    `yaml:"title" toml:"title" json:"title"`
	Published *bool     `yaml:"published" toml:"published" json:"published"`
	Excerpt   string    `yaml:"excerpt" toml:"excerpt" json:"excerpt"`
	Date      time.Time `yaml:"date" toml:"date" json:"date"`
	Tags      []string  `yaml:"tags" toml:"tags" json:"tags"`
	Author    string    `yaml:"author" toml:"author" json:"author"`
	Permalink string    `yaml:"permalink" toml:"permalink" json:"permalink"`
}

func envelopeToFrontMatter(env frontMatterEnvelope, raw map[string]any) interfaces.FrontMatter {
	custom := make(map[string]any, len(raw))
	for key, value := range raw {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		custom[key] = value
	}

	var published *bool
	if env.Published != nil {
		value := *env.Published
		published = &value
	}

	return interfaces.FrontMatter{
		Layout:    env.Layout,
		Title:     env.Title,
		Published: published,
		Excerpt:   env.Excerpt,
		Date:      env.Date,
		Tags:      append([]string(nil), env.Tags...),
		Author:    env.Author,
		Permalink: env.Permalink,
		Custom:    custom,
		Raw:       cloneMap(raw),
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
