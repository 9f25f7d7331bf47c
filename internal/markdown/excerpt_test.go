package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-post/pkg/interfaces"
)

func TestExcerpt_ExplicitWins(t *testing.T) {
	doc := &interfaces.Document{
		FrontMatter: interfaces.FrontMatter{Excerpt: "  The short version.  "},
		Body:        []byte("A totally different opening paragraph."),
	}

	if got := Excerpt(doc, 0); got != "The short version." {
		t.Fatalf("expected explicit excerpt, got %q", got)
	}
}

func TestExcerpt_DerivedFromFirstParagraph(t *testing.T) {
	doc := &interfaces.Document{
		Body: []byte(`# Heading Skipped

Service objects **wrap** a [single operation](https://example.com)
behind ` + "`one method`" + `, spread over two source lines.

The second paragraph never shows up.
`),
	}

	got := Excerpt(doc, 0)
	want := "Service objects wrap a single operation behind one method, spread over two source lines."
	if got != want {
		t.Fatalf("unexpected excerpt\nwant: %q\ngot:  %q", want, got)
	}
}

func TestExcerpt_TruncatesOnWordBoundary(t *testing.T) {
	doc := &interfaces.Document{
		Body: []byte("alpha beta gamma delta epsilon"),
	}

	got := Excerpt(doc, 12)
	if got != "alpha beta…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if strings.HasSuffix(got, " …") {
		t.Fatalf("expected no space before ellipsis: %q", got)
	}
}

func TestExcerpt_NoParagraph(t *testing.T) {
	doc := &interfaces.Document{
		Body: []byte("```go\nfunc main() {}\n```\n"),
	}

	if got := Excerpt(doc, 0); got != "" {
		t.Fatalf("expected empty excerpt for code-only body, got %q", got)
	}
}
