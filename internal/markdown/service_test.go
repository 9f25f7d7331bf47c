package markdown

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-post/pkg/interfaces"
)

func TestServiceLoad(t *testing.T) {
	svc := newTestService(t, true)

	doc, err := svc.Load(context.Background(), "posts/2024-03-14-service-objects.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.Collection != "posts" {
		t.Fatalf("expected collection posts, got %s", doc.Collection)
	}
	if doc.Format != interfaces.FormatYAML {
		t.Fatalf("expected yaml front matter, got %s", doc.Format)
	}
	if !doc.FrontMatter.IsPublished() {
		t.Fatalf("expected document without published key to be published")
	}
	if !strings.Contains(string(doc.BodyHTML), "Service objects keep handlers honest") {
		t.Fatalf("expected rendered body, got %q", string(doc.BodyHTML))
	}
	if len(doc.Checksum) == 0 {
		t.Fatalf("expected checksum to be populated")
	}
}

func TestServiceLoadDirectory_Collections(t *testing.T) {
	svc := newTestService(t, true)

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	if len(docs) != 5 {
		t.Fatalf("expected 5 documents, got %d", len(docs))
	}

	collections := map[string]int{}
	for _, doc := range docs {
		collections[doc.Collection]++
		if filepath.Ext(doc.SourcePath) != ".md" {
			t.Fatalf("expected markdown file, got %s", doc.SourcePath)
		}
		if doc.SourcePath == "README.md" {
			t.Fatalf("expected files without front matter to be skipped")
		}
		if len(doc.Checksum) == 0 {
			t.Fatalf("expected checksum set for %s", doc.SourcePath)
		}
	}

	if collections["posts"] != 3 || collections["drafts"] != 1 || collections["pages"] != 1 {
		t.Fatalf("unexpected collection distribution: %#v", collections)
	}

	// Results come back ordered by source path.
	if docs[0].SourcePath != "drafts/untitled-idea.md" {
		t.Fatalf("expected sorted output, first document was %s", docs[0].SourcePath)
	}
}

func TestServiceLoadDirectory_NonRecursiveOverride(t *testing.T) {
	svc := newTestService(t, true)

	no := false
	docs, err := svc.LoadDirectory(context.Background(), "posts", interfaces.LoadOptions{
		Recursive: &no,
	})
	if err != nil {
		t.Fatalf("LoadDirectory override: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	for _, doc := range docs {
		if strings.HasPrefix(doc.SourcePath, "posts/archive/") {
			t.Fatalf("expected nested directory to be skipped, got %s", doc.SourcePath)
		}
	}
}

func TestServiceExcerpt(t *testing.T) {
	svc := newTestService(t, true)
	ctx := context.Background()

	withExcerpt, err := svc.Load(ctx, "posts/2024-05-02-errgroup-patterns.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := svc.Excerpt(withExcerpt); got != "Bounded fan-out without the channel ceremony." {
		t.Fatalf("expected explicit excerpt, got %q", got)
	}

	derived, err := svc.Load(ctx, "posts/2024-03-14-service-objects.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := svc.Excerpt(derived); got != "Service objects keep handlers honest: one operation, one entry point." {
		t.Fatalf("expected derived excerpt, got %q", got)
	}
}

func newTestService(tb testing.TB, recursive bool) *Service {
	tb.Helper()

	baseCfg := Config{
		BasePath:          filepath.Join("testdata", "site"),
		DefaultCollection: "posts",
		Collections:       []string{"posts", "drafts", "pages"},
		Pattern:           "*.md",
		Recursive:         recursive,
	}

	svc, err := NewService(baseCfg, nil)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc
}
