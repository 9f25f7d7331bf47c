package interfaces

// PermalinkResolver derives the site URL a post will occupy once built.
// Implementations consult per-collection route templates and honour an
// explicit front matter permalink override.
type PermalinkResolver interface {
	Resolve(doc *Document) (string, error)
}
