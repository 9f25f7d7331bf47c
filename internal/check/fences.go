package check

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-post/pkg/interfaces"
)

// openFence tracks the fence the scanner is currently inside.
type openFence struct {
	marker byte
	run    int
	line   int
	info   string
}

// scanFences pairs fenced code block delimiters in body, counting lines from
// firstLine. Balance cannot be read off a parsed AST because CommonMark
// closes any open fence at end of input, so the pairing happens line-wise:
// a closing fence must repeat the opening marker at least as many times,
// indented at most three spaces, with nothing else on the line.
func scanFences(path string, body []byte, firstLine int) []interfaces.Issue {
	var issues []interfaces.Issue
	var open *openFence

	line := firstLine - 1
	for _, raw := range splitLines(body) {
		line++

		indent, rest := fenceIndent(raw)
		if indent > 3 {
			continue
		}

		if open != nil {
			run := markerRun(rest, open.marker)
			if run >= open.run && strings.TrimSpace(rest[run:]) == "" {
				open = nil
			}
			// Anything else, including what looks like another opening
			// fence, is content of the open block.
			continue
		}

		var marker byte
		switch {
		case strings.HasPrefix(rest, "```"):
			marker = '`'
		case strings.HasPrefix(rest, "~~~"):
			marker = '~'
		default:
			continue
		}

		run := markerRun(rest, marker)
		info := strings.TrimSpace(rest[run:])
		if marker == '`' && strings.Contains(info, "`") {
			// A backtick fence info string cannot contain a backtick; the
			// line is inline code or prose, not a fence.
			continue
		}

		open = &openFence{marker: marker, run: run, line: line, info: info}
		if info == "" {
			issues = append(issues, interfaces.Issue{
				Path:     path,
				Line:     line,
				Rule:     RuleFenceLanguage,
				Severity: interfaces.SeverityWarning,
				Message:  "fenced code block has no language tag",
			})
		}
	}

	if open != nil {
		issues = append(issues, interfaces.Issue{
			Path:     path,
			Line:     open.line,
			Rule:     RuleFenceUnterminated,
			Severity: interfaces.SeverityError,
			Message:  fmt.Sprintf("%s fence is never closed", strings.Repeat(string(open.marker), open.run)),
		})
	}

	return issues
}

// fenceIndent counts the leading indentation of a line in columns and
// returns the remainder. Four or more columns make an indented code line,
// which can never open or close a fence.
func fenceIndent(line string) (int, string) {
	indent := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			indent++
		case '\t':
			indent += 4
		default:
			return indent, line[i:]
		}
		if indent > 3 {
			return indent, line[i+1:]
		}
	}
	return indent, ""
}

func markerRun(s string, marker byte) int {
	run := 0
	for run < len(s) && s[run] == marker {
		run++
	}
	return run
}

func splitLines(body []byte) []string {
	lines := strings.Split(string(body), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
