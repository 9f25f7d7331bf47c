package check

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-post/internal/logging"
	"github.com/goliatone/go-post/internal/markdown"
	"github.com/goliatone/go-post/pkg/interfaces"
)

// Config controls the checker's rule set and directory walks.
type Config struct {
	// BasePath is the content root CheckDirectory walks.
	BasePath string
	// Pattern limits which files a directory run visits (defaults to "*.md").
	Pattern string
	// Recursive controls traversal into sub-directories.
	Recursive bool
	// FrontMatter configures the metadata rules.
	FrontMatter FrontMatterRules
	// Logger receives check diagnostics; nil disables them.
	Logger interfaces.Logger
}

// Checker verifies that post files satisfy the structural contract: a
// terminated front matter block with the required keys, balanced code
// fences, and a body free of executable template logic.
type Checker struct {
	cfg     Config
	fsys    fs.FS
	pattern string
	logger  interfaces.Logger
}

var _ interfaces.DocumentChecker = (*Checker)(nil)

// NewChecker constructs a checker rooted at cfg.BasePath. A configured front
// matter schema is compiled once here so a broken schema fails construction
// instead of every file.
func NewChecker(cfg Config) (*Checker, error) {
	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("check: stat base path %s: %w", basePath, err)
	}

	if err := ValidateSchema(cfg.FrontMatter.Schema); err != nil {
		return nil, err
	}

	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Checker{
		cfg:     cfg,
		fsys:    os.DirFS(basePath),
		pattern: pattern,
		logger:  logger,
	}, nil
}

// Check runs the rule suite against an already-loaded document. Findings
// point at source file lines via the document's recorded body offset.
func (c *Checker) Check(ctx context.Context, doc *interfaces.Document) (*interfaces.Result, error) {
	if doc == nil {
		return nil, errors.New("check: document is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := doc.SourcePath
	firstLine := doc.BodyLine
	if firstLine <= 0 {
		firstLine = 1
	}

	issues := checkFrontMatter(path, doc.FrontMatter, c.cfg.FrontMatter)
	issues = append(issues, scanFences(path, doc.Body, firstLine)...)

	directiveIssues, pure := scanDirectives(path, doc.Body, firstLine)
	issues = append(issues, directiveIssues...)

	result := &interfaces.Result{Path: path, Issues: issues, PureContent: pure}
	c.logResult(result)
	return result, nil
}

// CheckSource runs the rule suite against raw file bytes. Unlike the loader,
// it does not skip files without front matter; their absence is the finding.
func (c *Checker) CheckSource(ctx context.Context, path string, source []byte) (*interfaces.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fm, body, err := markdown.ParseFrontMatter(source)
	switch {
	case errors.Is(err, markdown.ErrNoFrontMatter):
		// The body is still checkable; metadata rules are not, so the
		// missing block is the only front matter finding.
		issues := []interfaces.Issue{{
			Path:     path,
			Line:     1,
			Rule:     RuleFrontMatterMissing,
			Severity: interfaces.SeverityError,
			Message:  "no front matter block at the top of the file",
		}}
		issues = append(issues, scanFences(path, source, 1)...)
		directiveIssues, pure := scanDirectives(path, source, 1)
		issues = append(issues, directiveIssues...)

		result := &interfaces.Result{Path: path, Issues: issues, PureContent: pure}
		c.logResult(result)
		return result, nil

	case errors.Is(err, markdown.ErrFrontMatterUnterminated):
		// Everything after the opening delimiter reads as metadata, so
		// there is no body to scan. An unverifiable file is not pure.
		result := &interfaces.Result{
			Path: path,
			Issues: []interfaces.Issue{{
				Path:     path,
				Line:     1,
				Rule:     RuleFrontMatterUnterminated,
				Severity: interfaces.SeverityError,
				Message:  "front matter block is never terminated",
			}},
		}
		c.logResult(result)
		return result, nil

	case err != nil:
		result := &interfaces.Result{
			Path: path,
			Issues: []interfaces.Issue{{
				Path:     path,
				Line:     1,
				Rule:     RuleFrontMatterDecode,
				Severity: interfaces.SeverityError,
				Message:  fmt.Sprintf("front matter does not decode as key-value metadata: %v", err),
			}},
		}
		c.logResult(result)
		return result, nil
	}

	firstLine := markdown.BodyLine(source, body)

	issues := checkFrontMatter(path, fm, c.cfg.FrontMatter)
	issues = append(issues, scanFences(path, body, firstLine)...)

	directiveIssues, pure := scanDirectives(path, body, firstLine)
	issues = append(issues, directiveIssues...)

	result := &interfaces.Result{Path: path, Issues: issues, PureContent: pure}
	c.logResult(result)
	return result, nil
}

// CheckDirectory walks dir under the checker's base path and checks every
// matching file. The report includes clean results; per-file findings never
// abort the walk.
func (c *Checker) CheckDirectory(ctx context.Context, dir string) (*interfaces.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := strings.TrimSpace(dir)
	if root == "" {
		root = "."
	}
	root = filepath.ToSlash(filepath.Clean(root))

	report := &interfaces.Report{}

	walkErr := fs.WalkDir(c.fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if !c.shouldRecurse(root, path) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := filepath.ToSlash(path)
		if !c.matchesPattern(rel) {
			return nil
		}

		source, err := fs.ReadFile(c.fsys, rel)
		if err != nil {
			return fmt.Errorf("check: read %s: %w", rel, err)
		}

		result, err := c.CheckSource(ctx, rel, source)
		if err != nil {
			return err
		}

		report.Checked++
		report.Results = append(report.Results, *result)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Path < report.Results[j].Path
	})

	c.logger.Info("directory checked",
		"dir", root,
		"files", report.Checked,
		"issues", len(report.Issues()),
	)
	return report, nil
}

func (c *Checker) logResult(result *interfaces.Result) {
	if result == nil || len(result.Issues) == 0 {
		return
	}
	logger := logging.WithDocumentContext(c.logger, result.Path, "", "check")
	logger.Debug("document has findings",
		"issues", len(result.Issues),
		"pure_content", result.PureContent,
	)
}

func (c *Checker) shouldRecurse(root, current string) bool {
	if c.cfg.Recursive {
		return true
	}
	return filepath.Clean(root) == filepath.Clean(current)
}

func (c *Checker) matchesPattern(path string) bool {
	pattern := filepath.ToSlash(c.pattern)
	if strings.Contains(pattern, "**") {
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	target := path
	if !strings.Contains(pattern, "/") {
		target = filepath.Base(path)
	}
	match, err := filepath.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}
