// Package permalink derives the site URL a post will occupy once the site
// is built. Routes are go-urlkit templates keyed by collection; an explicit
// permalink in front matter always wins.
package permalink

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-post/internal/logging"
	"github.com/goliatone/go-post/internal/markdown"
	"github.com/goliatone/go-post/pkg/interfaces"
)

// DefaultTemplate routes collections that have no entry of their own. It
// avoids date parts so undated documents still resolve.
const DefaultTemplate = "/:collection/:slug"

// routeGroup is the single urlkit group all collection routes live under.
const routeGroup = "content"

// defaultRouteName registers the fallback template. A collection literally
// named "default" shadows it with its own entry, which is the right outcome.
const defaultRouteName = "default"

var (
	// ErrNoRoute reports a collection with no template and no fallback.
	ErrNoRoute = errors.New("permalink: no route for collection")
	// ErrNoDate reports a dated route applied to a document without a date.
	ErrNoDate = errors.New("permalink: document has no date for a dated route")
	// ErrNoSlug reports a document with nothing to slug.
	ErrNoSlug = errors.New("permalink: document has no title or filename to slug")
)

var templateParamPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// Config configures a Resolver.
type Config struct {
	// BaseURL prefixes every resolved URL when set, e.g. "https://example.com".
	BaseURL string
	// Routes maps a collection to its urlkit template,
	// e.g. "posts" -> "/:year/:month/:day/:slug".
	Routes map[string]string
	// Default routes collections absent from Routes. Empty falls back to
	// DefaultTemplate.
	Default string
	Logger  interfaces.Logger
}

// Resolver implements interfaces.PermalinkResolver on a urlkit RouteManager.
type Resolver struct {
	manager   *urlkit.RouteManager
	group     *urlkit.Group
	templates map[string]string
	baseURL   string
	logger    interfaces.Logger
}

var _ interfaces.PermalinkResolver = (*Resolver)(nil)

// New builds a Resolver from per-collection route templates.
func New(cfg Config) (*Resolver, error) {
	templates := make(map[string]string, len(cfg.Routes)+1)
	for collection, template := range cfg.Routes {
		collection = strings.TrimSpace(collection)
		template = strings.TrimSpace(template)
		if collection == "" || template == "" {
			return nil, fmt.Errorf("permalink: empty route entry %q: %q", collection, template)
		}
		templates[collection] = template
	}
	fallback := strings.TrimSpace(cfg.Default)
	if fallback == "" {
		fallback = DefaultTemplate
	}
	if _, ok := templates[defaultRouteName]; !ok {
		templates[defaultRouteName] = fallback
	}

	paths := make(map[string]string, len(templates))
	for name, template := range templates {
		paths[name] = template
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    routeGroup,
				BaseURL: strings.TrimSpace(cfg.BaseURL),
				Paths:   paths,
			},
		},
	})

	group, err := lookupGroup(manager, routeGroup)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Resolver{
		manager:   manager,
		group:     group,
		templates: templates,
		baseURL:   strings.TrimSpace(cfg.BaseURL),
		logger:    logger,
	}, nil
}

// Resolve returns the URL the document will occupy. An explicit front matter
// permalink is taken verbatim as a site path; otherwise the collection's
// template is filled from the document.
func (r *Resolver) Resolve(doc *interfaces.Document) (string, error) {
	if doc == nil {
		return "", errors.New("permalink: resolve nil document")
	}

	if override := strings.TrimSpace(doc.FrontMatter.Permalink); override != "" {
		url := joinBase(r.baseURL, override)
		r.logResolved(doc.SourcePath, url)
		return url, nil
	}

	routeName, template, err := r.routeFor(doc.Collection)
	if err != nil {
		return "", err
	}

	builder, err := safeBuilder(r.group, routeName)
	if err != nil {
		return "", err
	}

	// Supply exactly the params the template names. Anything beyond them is
	// left out so the builder never sees values it did not ask for.
	for _, name := range templateParams(template) {
		value, err := r.paramValue(doc, name)
		if err != nil {
			return "", fmt.Errorf("permalink: %s: param %q in route %q: %w", doc.SourcePath, name, routeName, err)
		}
		builder.WithParam(name, value)
	}

	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("permalink: build route %q for %s: %w", routeName, doc.SourcePath, err)
	}

	r.logResolved(doc.SourcePath, url)
	return url, nil
}

// routeFor picks the route name a collection resolves through.
func (r *Resolver) routeFor(collection string) (string, string, error) {
	collection = strings.TrimSpace(collection)
	if template, ok := r.templates[collection]; ok && collection != "" {
		return collection, template, nil
	}
	if template, ok := r.templates[defaultRouteName]; ok {
		return defaultRouteName, template, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrNoRoute, collection)
}

// paramValue fills one template parameter from the document. Date parts come
// from front matter, then the filename, then the modification time. Unknown
// names fall through to the document's custom front matter fields.
func (r *Resolver) paramValue(doc *interfaces.Document, name string) (string, error) {
	switch name {
	case "year", "month", "day":
		date := doc.FrontMatter.Date
		if date.IsZero() {
			if parsed, ok := markdown.PostDate(doc.SourcePath); ok {
				date = parsed
			} else {
				date = doc.LastModified
			}
		}
		if date.IsZero() {
			return "", ErrNoDate
		}
		switch name {
		case "year":
			return date.Format("2006"), nil
		case "month":
			return date.Format("01"), nil
		default:
			return date.Format("02"), nil
		}
	case "slug", "title":
		return slugFor(doc)
	case "collection":
		if collection := strings.TrimSpace(doc.Collection); collection != "" {
			return collection, nil
		}
		return "", errors.New("document has no collection")
	}

	if value, ok := doc.FrontMatter.Custom[name]; ok {
		if str := strings.TrimSpace(fmt.Sprint(value)); str != "" {
			return str, nil
		}
	}
	if value, ok := doc.FrontMatter.Raw[name]; ok {
		if str := strings.TrimSpace(fmt.Sprint(value)); str != "" {
			return str, nil
		}
	}
	return "", errors.New("no front matter value")
}

// slugFor slugs the title, falling back to the filename stem.
func slugFor(doc *interfaces.Document) (string, error) {
	candidate := strings.TrimSpace(doc.FrontMatter.Title)
	if candidate == "" {
		candidate = markdown.FilenameStem(doc.SourcePath)
	}
	if candidate == "" {
		return "", ErrNoSlug
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil {
		return "", fmt.Errorf("slug %q: %w", candidate, err)
	}
	if normalized == "" {
		return "", ErrNoSlug
	}
	return normalized, nil
}

func (r *Resolver) logResolved(path, url string) {
	r.logger.Debug("permalink resolved", "path", path, "url", url)
}

// templateParams lists the :named parameters of a route template in order.
func templateParams(template string) []string {
	matches := templateParamPattern.FindAllStringSubmatch(template, -1)
	params := make([]string, 0, len(matches))
	for _, match := range matches {
		params = append(params, match[1])
	}
	return params
}

// joinBase glues an explicit permalink path onto the configured base URL,
// keeping the path rooted when no base is set.
func joinBase(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + path
}

// lookupGroup shields against urlkit's panic on unknown group names.
func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, errors.New("permalink: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("permalink: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

// safeBuilder shields against urlkit's panic on unknown route names.
func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, errors.New("permalink: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("permalink: route %q not found", route)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
