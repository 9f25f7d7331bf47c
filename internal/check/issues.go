package check

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-post/pkg/interfaces"
)

// ErrCheckFailed is the sentinel every CheckError unwraps to, so callers can
// branch on errors.Is without inspecting issue slices.
var ErrCheckFailed = errors.New("check: document verification failed")

// Rule identifiers attached to issues. Stable strings so hosts can suppress
// or reclassify individual rules by name.
const (
	RuleFrontMatterMissing      = "front-matter.missing"
	RuleFrontMatterUnterminated = "front-matter.unterminated"
	RuleFrontMatterDecode       = "front-matter.decode"
	RuleFrontMatterRequired     = "front-matter.required"
	RuleFrontMatterLayout       = "front-matter.layout"
	RuleFrontMatterSchema       = "front-matter.schema"
	RuleFenceUnterminated       = "fence.unterminated"
	RuleFenceLanguage           = "fence.language"
	RuleDirective               = "directive.executable"
	RuleDirectiveRaw            = "directive.raw"
)

// CheckError carries the findings of a failed verification as a typed error.
type CheckError struct {
	Path   string
	Issues []interfaces.Issue
	Cause  error
}

func (e *CheckError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrCheckFailed.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Path
		if location == "" {
			location = e.Path
		}
		if issue.Line > 0 {
			location = fmt.Sprintf("%s:%d", location, issue.Line)
		}
		if issue.Message == "" {
			parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Rule))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *CheckError) Unwrap() error {
	return ErrCheckFailed
}

// ResultError converts a result into an error: nil for a passing result, a
// *CheckError wrapping the error-severity findings otherwise. Warnings alone
// do not fail a result.
func ResultError(result *interfaces.Result) error {
	if result == nil || result.Ok() {
		return nil
	}
	var failing []interfaces.Issue
	for _, issue := range result.Issues {
		if issue.Severity == interfaces.SeverityError {
			failing = append(failing, issue)
		}
	}
	return &CheckError{Path: result.Path, Issues: failing}
}

// ReportError converts a directory report into an error: nil when every file
// passed, a *CheckError carrying the error-severity findings of the whole run
// otherwise.
func ReportError(report *interfaces.Report) error {
	if report == nil || report.Ok() {
		return nil
	}
	var failing []interfaces.Issue
	for _, issue := range report.Issues() {
		if issue.Severity == interfaces.SeverityError {
			failing = append(failing, issue)
		}
	}
	return &CheckError{Issues: failing}
}

// IssuesFrom extracts check issues from an error produced by this package.
func IssuesFrom(err error) []interfaces.Issue {
	if err == nil {
		return nil
	}
	var checkErr *CheckError
	if errors.As(err, &checkErr) && checkErr != nil {
		return checkErr.Issues
	}
	return nil
}
