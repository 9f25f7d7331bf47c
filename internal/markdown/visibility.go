package markdown

import "github.com/goliatone/go-post/pkg/interfaces"

// Visible reports whether the site build would publish the document. A post
// is hidden by an explicit `published: false` or by living in the drafts
// collection; draftsCollection may be empty when the site keeps no drafts.
func Visible(doc *interfaces.Document, draftsCollection string) bool {
	if doc == nil {
		return false
	}
	if !doc.FrontMatter.IsPublished() {
		return false
	}
	return draftsCollection == "" || doc.Collection != draftsCollection
}

// Partition splits documents into the set the site build would publish and
// the set it would hold back. Order within each set is preserved.
func Partition(docs []*interfaces.Document, draftsCollection string) (visible, hidden []*interfaces.Document) {
	for _, doc := range docs {
		if Visible(doc, draftsCollection) {
			visible = append(visible, doc)
			continue
		}
		hidden = append(hidden, doc)
	}
	return visible, hidden
}
