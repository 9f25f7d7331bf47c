package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-post/pkg/interfaces"
)

// Inspect parses body as Markdown and summarises its structure: the heading
// outline and the fenced code blocks present. Working from the parsed AST
// keeps inline code spans and indented blocks out of the fence inventory.
func Inspect(body []byte) (*interfaces.BodyStructure, error) {
	structure := &interfaces.BodyStructure{}

	err := ast.Walk(parseAST(body), func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			structure.Headings = append(structure.Headings, interfaces.Heading{
				Level: n.Level,
				Text:  string(n.Text(body)),
			})
		case *ast.FencedCodeBlock:
			structure.CodeBlocks = append(structure.CodeBlocks, interfaces.CodeBlock{
				Language:  fenceLanguage(n, body),
				StartLine: fenceStartLine(n, body),
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("markdown: inspect body: %w", err)
	}

	return structure, nil
}

// parseAST parses body with the GFM-flavoured engine without rendering.
func parseAST(body []byte) ast.Node {
	engine := goldmark.New(goldmark.WithExtensions(extension.GFM))
	return engine.Parser().Parse(text.NewReader(body))
}

func fenceLanguage(node *ast.FencedCodeBlock, source []byte) string {
	lang := node.Language(source)
	if len(lang) == 0 {
		return ""
	}
	return string(lang)
}

// fenceStartLine locates the 1-based line of the opening fence. The AST does
// not record the fence line itself, so it is recovered from the info string
// when present, or from the first code line otherwise.
func fenceStartLine(node *ast.FencedCodeBlock, source []byte) int {
	if node.Info != nil {
		return lineAt(source, node.Info.Segment.Start)
	}
	if lines := node.Lines(); lines.Len() > 0 {
		line := lineAt(source, lines.At(0).Start)
		if line > 1 {
			return line - 1
		}
		return line
	}
	return 0
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
