package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-post/pkg/interfaces"
)

// LoaderConfig configures how post files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the root directory where post sources live.
	BasePath string
	// DefaultCollection is used when no collection can be inferred from the file path.
	DefaultCollection string
	// Collections enumerates the known collections (e.g. ["posts", "drafts"])
	// for quick directory matching.
	Collections []string
	// CollectionPatterns maps collection names to glob expressions relative to BasePath.
	CollectionPatterns map[string]string
	// Pattern limits discovered files to those matching the supplied glob (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into post documents with metadata.
type Loader struct {
	fs                 fs.FS
	basePath           string
	defaultCollection  string
	collections        []string
	collectionPatterns map[string]string
	pattern            string
	recursive          bool
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}

	return &Loader{
		fs:                 filesystem,
		basePath:           filepath.Clean(cfg.BasePath),
		defaultCollection:  cfg.DefaultCollection,
		collections:        append([]string(nil), cfg.Collections...),
		collectionPatterns: cloneStringMap(cfg.CollectionPatterns),
		pattern:            pattern,
		recursive:          cfg.Recursive,
	}
}

// LoadFile reads and parses a single post document.
func (l *Loader) LoadFile(ctx context.Context, path string, opts LoadParams) (*DocumentResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rel, err := l.makeRelative(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("post loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("post loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, l.detectCollection(rel, opts.CollectionPatterns), data, info.ModTime())
	if err != nil {
		return nil, err
	}

	return &DocumentResult{
		Document: doc,
		Source:   data,
	}, nil
}

// LoadDirectory discovers post files under dir and returns parsed documents.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*DocumentResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(root)

	var results []*DocumentResult

	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if !l.shouldRecurse(root, path, opts.Recursive) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := filepath.ToSlash(path)
		if !l.matchesPattern(rel, opts.Pattern) {
			return nil
		}

		result, err := l.LoadFile(ctx, rel, opts)
		if err != nil {
			// A file with no front matter block is a static asset, not a
			// post; directory loads pass over it. Broken metadata still
			// aborts so a damaged post cannot vanish silently.
			if errors.Is(err, ErrNoFrontMatter) {
				return nil
			}
			return err
		}
		results = append(results, result)
		return nil
	})

	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.SourcePath < results[j].Document.SourcePath
	})

	return results, nil
}

func (l *Loader) shouldRecurse(root, current string, override *bool) bool {
	recursive := l.recursive
	if override != nil {
		recursive = *override
	}
	if recursive {
		return true
	}
	// If recursion is disabled, only walk the root directory.
	cleanRoot := filepath.Clean(root)
	cleanCurrent := filepath.Clean(current)
	return cleanRoot == cleanCurrent
}

func (l *Loader) matchesPattern(path string, override string) bool {
	pattern := override
	if strings.TrimSpace(pattern) == "" {
		pattern = l.pattern
	}
	// Normalise to slash as fs.WalkDir returns slash-separated paths for DirFS.
	pattern = filepath.ToSlash(pattern)
	if strings.Contains(pattern, "**") {
		// Basic support for ** by stripping repeated separators.
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	var target string
	if strings.Contains(pattern, "/") {
		target = path
	} else {
		target = filepath.Base(path)
	}
	match, err := filepath.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

// detectCollection infers the collection a file belongs to. Explicit pattern
// overrides win, then configured patterns, then the first path segment when
// it names a known collection, and finally the loader default.
func (l *Loader) detectCollection(path string, overrides map[string]string) string {
	path = filepath.ToSlash(path)

	if collection := matchCollectionPattern(path, overrides); collection != "" {
		return collection
	}
	if collection := matchCollectionPattern(path, l.collectionPatterns); collection != "" {
		return collection
	}

	segments := strings.Split(path, "/")
	if len(segments) > 0 {
		first := segments[0]
		for _, collection := range l.collections {
			if first == collection {
				return collection
			}
		}
	}

	return l.defaultCollection
}

func matchCollectionPattern(path string, patterns map[string]string) string {
	for collection, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		pattern = filepath.ToSlash(pattern)
		if strings.Contains(pattern, "**") {
			pattern = strings.ReplaceAll(pattern, "**/", "")
		}
		match, err := filepath.Match(pattern, path)
		if err != nil {
			continue
		}
		if match {
			return collection
		}
	}
	return ""
}

func (l *Loader) makeRelative(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" {
		return "", fmt.Errorf("post loader: absolute path %s provided without base path", path)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("post loader: make relative %s: %w", path, err)
	}
	return rel, nil
}

// DocumentResult carries the parsed document along with the raw source.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}

// LoadParams provide call-specific overrides for collection detection and
// pattern matching.
type LoadParams struct {
	Pattern            string
	CollectionPatterns map[string]string
	Recursive          *bool
}

func cloneStringMap(input map[string]string) map[string]string {
	if input == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
