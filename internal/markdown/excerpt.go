package markdown

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-post/pkg/interfaces"
)

// DefaultExcerptLength bounds derived excerpts. Explicit front matter
// excerpts are never truncated.
const DefaultExcerptLength = 240

// Excerpt returns the summary text for a document. An explicit front matter
// excerpt always wins; otherwise the first body paragraph is stripped of
// Markdown notation and truncated on a word boundary at limit runes. A limit
// of zero or less applies DefaultExcerptLength.
func Excerpt(doc *interfaces.Document, limit int) string {
	if doc == nil {
		return ""
	}
	if explicit := strings.TrimSpace(doc.FrontMatter.Excerpt); explicit != "" {
		return explicit
	}
	if limit <= 0 {
		limit = DefaultExcerptLength
	}
	return truncateWords(firstParagraphText(doc.Body), limit)
}

// firstParagraphText extracts the plain text of the first paragraph in body.
// Walking the inline nodes drops emphasis markers, link targets, and inline
// code ticks while keeping the words an author would consider the opening
// of the post.
func firstParagraphText(body []byte) string {
	root := parseAST(body)
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		paragraph, ok := node.(*ast.Paragraph)
		if !ok {
			continue
		}
		return collapseWhitespace(plainText(paragraph, body))
	}
	return ""
}

// plainText flattens the inline content of node. Soft and hard line breaks
// are represented as flags on text nodes rather than segment bytes, so they
// are restored as spaces to keep wrapped words apart.
func plainText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// collapseWhitespace folds soft line breaks and runs of spaces into single
// spaces so wrapped source paragraphs read as one line.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateWords cuts s at the last word boundary within limit runes,
// appending an ellipsis when content was dropped.
func truncateWords(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := limit
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = limit
	}

	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + "…"
}
