package post_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	post "github.com/goliatone/go-post"
	"github.com/goliatone/go-post/internal/check"
)

func TestParseFrontMatterRoundTrip(t *testing.T) {
	source := []byte("---\nlayout: post\ntitle: Hello\n---\n\nBody text.\n")

	fm, body, err := post.ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse front matter: %v", err)
	}
	if fm.Layout != "post" || fm.Title != "Hello" {
		t.Fatalf("unexpected front matter: %+v", fm)
	}
	if !fm.IsPublished() {
		t.Fatal("expected an absent published key to read as published")
	}
	if strings.TrimSpace(string(body)) != "Body text." {
		t.Fatalf("unexpected body: %q", body)
	}

	doc, err := post.BuildDocument("posts/2024-03-14-hello.md", "posts", source, time.Time{})
	if err != nil {
		t.Fatalf("build document: %v", err)
	}

	composed, err := post.ComposeDocument(doc, post.ComposeOptions{})
	if err != nil {
		t.Fatalf("compose document: %v", err)
	}
	if !bytes.Equal(composed, source) {
		t.Fatalf("expected canonical source to round-trip, got %q", composed)
	}

	name, err := post.Filename(doc)
	if err != nil {
		t.Fatalf("derive filename: %v", err)
	}
	if name != "2024-03-14-hello.md" {
		t.Fatalf("unexpected filename: %q", name)
	}

	when, ok := post.PostDate(name)
	if !ok || when.Format("2006-01-02") != "2024-03-14" {
		t.Fatalf("expected the filename date to parse back, got %v %v", when, ok)
	}
}

func TestParseFrontMatterMissingBlock(t *testing.T) {
	if _, _, err := post.ParseFrontMatter([]byte("# Just Markdown\n")); !errors.Is(err, post.ErrNoFrontMatter) {
		t.Fatalf("expected ErrNoFrontMatter, got %v", err)
	}
}

func TestParseFrontMatterUnterminated(t *testing.T) {
	if _, _, err := post.ParseFrontMatter([]byte("---\nlayout: post\n")); !errors.Is(err, post.ErrFrontMatterUnterminated) {
		t.Fatalf("expected ErrFrontMatterUnterminated, got %v", err)
	}
}

func TestDetectFormatDialects(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   post.Format
	}{
		{"yaml", "---\nlayout: post\n---\nBody\n", post.FormatYAML},
		{"toml", "+++\nlayout = \"post\"\n+++\nBody\n", post.FormatTOML},
		{"json", "{\n  \"layout\": \"post\"\n}\nBody\n", post.FormatJSON},
	}

	for _, tc := range cases {
		got, err := post.DetectFormat([]byte(tc.source))
		if err != nil {
			t.Fatalf("%s: detect format: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestIssuesFromSurfacesFindings(t *testing.T) {
	ctx := context.Background()

	cfg := post.DefaultConfig()
	cfg.ContentDir = t.TempDir()

	module, err := post.New(cfg)
	if err != nil {
		t.Fatalf("new post module: %v", err)
	}

	source := []byte("---\nlayout: post\ntitle: Broken\n---\n\n```go\nfunc main() {}\n")
	result, err := module.Checker().CheckSource(ctx, "posts/broken.md", source)
	if err != nil {
		t.Fatalf("check source: %v", err)
	}
	if result.Ok() {
		t.Fatal("expected the unterminated fence to be flagged")
	}

	checkErr := check.ResultError(result)
	if !errors.Is(checkErr, post.ErrCheckFailed) {
		t.Fatalf("expected ErrCheckFailed, got %v", checkErr)
	}

	issues := post.IssuesFrom(checkErr)
	if len(issues) != 1 {
		t.Fatalf("expected one finding, got %+v", issues)
	}
	if issues[0].Rule != check.RuleFenceUnterminated || issues[0].Severity != post.SeverityError {
		t.Fatalf("unexpected finding: %+v", issues[0])
	}

	if post.IssuesFrom(nil) != nil {
		t.Fatal("expected no findings from a nil error")
	}
}
