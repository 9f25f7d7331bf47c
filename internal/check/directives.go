package check

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"

	"github.com/goliatone/go-post/pkg/interfaces"
)

// Liquid-style template markers. The renderer runs its template pass over
// the whole file before Markdown does, so directives count even inside
// fenced code blocks; only a raw/endraw span makes them literal text.
var (
	outputPattern  = regexp.MustCompile(`\{\{-?[^{}]*-?\}\}`)
	tagPattern     = regexp.MustCompile(`\{%-?[^%]*-?%\}`)
	tagNamePattern = regexp.MustCompile(`^\{%-?\s*([A-Za-z_][A-Za-z0-9_]*)`)
)

type directiveMatch struct {
	start int
	text  string
	tag   string
}

// scanDirectives reports template directives in body, counting lines from
// firstLine. The boolean result reports purity: true when the body carries
// no executable logic outside raw spans.
func scanDirectives(path string, body []byte, firstLine int) ([]interfaces.Issue, bool) {
	var issues []interfaces.Issue

	inRaw := false
	rawLine := 0
	for _, match := range collectDirectives(body) {
		line := firstLine + lineAt(body, match.start) - 1

		// Inside a raw span everything up to the first endraw is literal
		// text, including further raw tags.
		if inRaw {
			if match.tag == "endraw" {
				inRaw = false
			}
			continue
		}

		switch match.tag {
		case "raw":
			inRaw = true
			rawLine = line
		case "endraw":
			issues = append(issues, interfaces.Issue{
				Path:     path,
				Line:     line,
				Rule:     RuleDirectiveRaw,
				Severity: interfaces.SeverityError,
				Message:  "endraw without a matching raw tag",
			})
		default:
			issues = append(issues, interfaces.Issue{
				Path:     path,
				Line:     line,
				Rule:     RuleDirective,
				Severity: interfaces.SeverityError,
				Message:  fmt.Sprintf("executable template directive %s", snippet(match.text, 48)),
			})
		}
	}

	if inRaw {
		issues = append(issues, interfaces.Issue{
			Path:     path,
			Line:     rawLine,
			Rule:     RuleDirectiveRaw,
			Severity: interfaces.SeverityError,
			Message:  "raw span is never closed",
		})
	}

	return issues, len(issues) == 0
}

func collectDirectives(body []byte) []directiveMatch {
	var matches []directiveMatch

	for _, loc := range tagPattern.FindAllIndex(body, -1) {
		text := string(body[loc[0]:loc[1]])
		tag := ""
		if m := tagNamePattern.FindStringSubmatch(text); m != nil {
			tag = m[1]
		}
		matches = append(matches, directiveMatch{start: loc[0], text: text, tag: tag})
	}

	for _, loc := range outputPattern.FindAllIndex(body, -1) {
		matches = append(matches, directiveMatch{start: loc[0], text: string(body[loc[0]:loc[1]])})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})
	return matches
}

func lineAt(body []byte, offset int) int {
	if offset > len(body) {
		offset = len(body)
	}
	return bytes.Count(body[:offset], []byte{'\n'}) + 1
}

func snippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
