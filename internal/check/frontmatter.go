package check

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-post/pkg/interfaces"
)

// FrontMatterRules configures the metadata portion of the check suite.
type FrontMatterRules struct {
	// RequiredFields must be present and non-empty in the block.
	// Defaults to layout and title.
	RequiredFields []string
	// Layouts, when non-empty, is the catalog of layout identifiers the
	// site knows how to render. An unknown layout is an error because the
	// external renderer selects its template by this value.
	Layouts []string
	// Schema optionally validates the whole block against a site-defined
	// JSON schema, or the fields shorthand NormalizeSchema accepts.
	Schema map[string]any
}

func defaultRequiredFields() []string {
	return []string{"layout", "title"}
}

// checkFrontMatter runs the metadata rules against an already-parsed block.
// Block presence and termination are the caller's concern; these rules only
// see front matter that decoded successfully.
func checkFrontMatter(path string, fm interfaces.FrontMatter, rules FrontMatterRules) []interfaces.Issue {
	issues := requiredFieldIssues(path, fm.Raw, rules.RequiredFields)

	if issue := layoutIssue(path, fm.Layout, rules.Layouts); issue != nil {
		issues = append(issues, *issue)
	}

	issues = append(issues, schemaIssues(path, fm.Raw, rules.Schema)...)
	return issues
}

func requiredFieldIssues(path string, raw map[string]any, fields []string) []interfaces.Issue {
	if len(fields) == 0 {
		fields = defaultRequiredFields()
	}
	if raw == nil {
		raw = map[string]any{}
	}

	keys := make([]*validation.KeyRules, 0, len(fields))
	for _, field := range fields {
		keys = append(keys, validation.Key(field, validation.Required))
	}

	err := validation.Validate(raw, validation.Map(keys...).AllowExtraKeys())
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return []interfaces.Issue{{
			Path:     path,
			Line:     1,
			Rule:     RuleFrontMatterRequired,
			Severity: interfaces.SeverityError,
			Message:  err.Error(),
		}}
	}

	names := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		names = append(names, name)
	}
	sort.Strings(names)

	issues := make([]interfaces.Issue, 0, len(names))
	for _, name := range names {
		issues = append(issues, interfaces.Issue{
			Path:     path,
			Line:     1,
			Rule:     RuleFrontMatterRequired,
			Severity: interfaces.SeverityError,
			Message:  fmt.Sprintf("front matter key %q: %v", name, fieldErrs[name]),
		})
	}
	return issues
}

func layoutIssue(path, layout string, layouts []string) *interfaces.Issue {
	if len(layouts) == 0 || strings.TrimSpace(layout) == "" {
		return nil
	}

	catalog := make([]any, len(layouts))
	for i, known := range layouts {
		catalog[i] = known
	}

	if err := validation.Validate(layout, validation.In(catalog...)); err == nil {
		return nil
	}

	return &interfaces.Issue{
		Path:     path,
		Line:     1,
		Rule:     RuleFrontMatterLayout,
		Severity: interfaces.SeverityError,
		Message:  fmt.Sprintf("layout %q is not one of the configured layouts", layout),
	}
}

func schemaIssues(path string, raw map[string]any, schema map[string]any) []interfaces.Issue {
	if len(schema) == 0 {
		return nil
	}

	err := ValidatePayload(schema, raw)
	if err == nil {
		return nil
	}

	var issues []interfaces.Issue
	for _, finding := range validationIssues(err) {
		message := finding.Message
		if location := strings.TrimSpace(finding.Location); location != "" && location != "#" {
			message = fmt.Sprintf("%s: %s", location, message)
		}
		issues = append(issues, interfaces.Issue{
			Path:     path,
			Line:     1,
			Rule:     RuleFrontMatterSchema,
			Severity: interfaces.SeverityError,
			Message:  message,
		})
	}
	return issues
}
