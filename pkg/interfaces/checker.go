package interfaces

import "context"

// Severity grades a check finding. Errors make a post unfit for the site
// build; warnings flag drift from the house style that the build would
// still tolerate.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding produced by a document check.
type Issue struct {
	// Path is the source path of the offending file.
	Path string
	// Line is the 1-based line the finding points at, 0 when the finding
	// concerns the file as a whole.
	Line int
	// Rule names the check that produced the finding, e.g. "front-matter"
	// or "fences".
	Rule     string
	Severity Severity
	Message  string
}

// Result collects the findings for one document.
type Result struct {
	Path   string
	Issues []Issue
	// PureContent reports whether the body is inert prose: no template
	// directives survived outside raw spans.
	PureContent bool
}

// Ok reports whether the result carries no error-severity issues.
func (r Result) Ok() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Warnings returns the warning-severity issues in the result.
func (r Result) Warnings() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			out = append(out, issue)
		}
	}
	return out
}

// Report aggregates check results across a directory run.
type Report struct {
	Results []Result
	// Checked counts the files the run inspected, including clean ones.
	Checked int
}

// Ok reports whether every result in the report passed.
func (r Report) Ok() bool {
	for _, result := range r.Results {
		if !result.Ok() {
			return false
		}
	}
	return true
}

// Issues flattens the report into a single issue list, preserving the
// per-file ordering the run produced.
func (r Report) Issues() []Issue {
	var out []Issue
	for _, result := range r.Results {
		out = append(out, result.Issues...)
	}
	return out
}

// DocumentChecker verifies that post files satisfy the structural contract
// the site build expects: well-formed front matter, balanced code fences,
// and a body free of executable template logic.
type DocumentChecker interface {
	Check(ctx context.Context, doc *Document) (*Result, error)
	CheckSource(ctx context.Context, path string, source []byte) (*Result, error)
	CheckDirectory(ctx context.Context, dir string) (*Report, error)
}
