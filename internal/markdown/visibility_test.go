package markdown

import (
	"testing"

	"github.com/goliatone/go-post/pkg/interfaces"
)

func boolPtr(v bool) *bool { return &v }

func TestVisible(t *testing.T) {
	cases := []struct {
		name   string
		doc    *interfaces.Document
		drafts string
		want   bool
	}{
		{
			name: "published by default",
			doc:  &interfaces.Document{Collection: "posts"},
			want: true,
		},
		{
			name: "explicitly published",
			doc: &interfaces.Document{
				Collection:  "posts",
				FrontMatter: interfaces.FrontMatter{Published: boolPtr(true)},
			},
			want: true,
		},
		{
			name: "explicitly unpublished",
			doc: &interfaces.Document{
				Collection:  "posts",
				FrontMatter: interfaces.FrontMatter{Published: boolPtr(false)},
			},
			want: false,
		},
		{
			name:   "drafts collection hides published documents",
			doc:    &interfaces.Document{Collection: "drafts"},
			drafts: "drafts",
			want:   false,
		},
		{
			name:   "drafts collection not configured",
			doc:    &interfaces.Document{Collection: "drafts"},
			drafts: "",
			want:   true,
		},
		{
			name: "nil document",
			doc:  nil,
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Visible(tc.doc, tc.drafts); got != tc.want {
				t.Fatalf("Visible() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	docs := []*interfaces.Document{
		{SourcePath: "posts/a.md", Collection: "posts"},
		{SourcePath: "drafts/b.md", Collection: "drafts"},
		{SourcePath: "posts/c.md", Collection: "posts", FrontMatter: interfaces.FrontMatter{Published: boolPtr(false)}},
		{SourcePath: "posts/d.md", Collection: "posts"},
	}

	visible, hidden := Partition(docs, "drafts")

	if len(visible) != 2 || len(hidden) != 2 {
		t.Fatalf("expected 2 visible and 2 hidden, got %d and %d", len(visible), len(hidden))
	}
	if visible[0].SourcePath != "posts/a.md" || visible[1].SourcePath != "posts/d.md" {
		t.Fatalf("visible order not preserved: %q, %q", visible[0].SourcePath, visible[1].SourcePath)
	}
	if hidden[0].SourcePath != "drafts/b.md" || hidden[1].SourcePath != "posts/c.md" {
		t.Fatalf("hidden order not preserved: %q, %q", hidden[0].SourcePath, hidden[1].SourcePath)
	}
}
