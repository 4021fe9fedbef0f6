package render

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	defaultPostPathPrefix = "/posts/"
	defaultSlugParam      = "slug"
)

// ResolverOptions configures how resolved cross-references turn into URLs.
// When a urlkit RouteManager is supplied, links are built through the named
// group and route; otherwise the default /posts/<slug>/ layout applies.
type ResolverOptions struct {
	Manager   *urlkit.RouteManager
	Group     string
	Route     string
	SlugParam string
}

// Resolver is the cross-reference resolution table: a read-only mapping from
// remote entry identifiers to locally computed slugs, built once per
// processing run and consulted during rendering. A missing entry is an
// expected, renderable state, never an error.
type Resolver struct {
	table map[string]string

	manager   *urlkit.RouteManager
	group     string
	route     string
	slugParam string
}

// NewResolver copies the supplied table so later caller mutations cannot race
// concurrent renders.
func NewResolver(table map[string]string, opts ResolverOptions) *Resolver {
	copied := make(map[string]string, len(table))
	for id, slug := range table {
		copied[id] = slug
	}

	slugParam := strings.TrimSpace(opts.SlugParam)
	if slugParam == "" {
		slugParam = defaultSlugParam
	}

	return &Resolver{
		table:     copied,
		manager:   opts.Manager,
		group:     strings.TrimSpace(opts.Group),
		route:     strings.TrimSpace(opts.Route),
		slugParam: slugParam,
	}
}

// Slug looks up the slug for a remote entry identifier.
func (r *Resolver) Slug(pageID string) (string, bool) {
	if r == nil {
		return "", false
	}
	slug, ok := r.table[pageID]
	return slug, ok
}

// URL builds the local URL for a resolved slug.
func (r *Resolver) URL(slug string) string {
	if r == nil || r.manager == nil || r.group == "" || r.route == "" {
		return defaultPostPathPrefix + slug + "/"
	}

	url, err := r.buildManagedURL(slug)
	if err != nil || url == "" {
		return defaultPostPathPrefix + slug + "/"
	}
	return url
}

// buildManagedURL goes through urlkit, which panics on unknown groups and
// routes; recover so a misconfigured route table degrades to the default
// layout instead of aborting a render.
func (r *Resolver) buildManagedURL(slug string) (url string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render: urlkit route %s.%s: %v", r.group, r.route, rec)
		}
	}()

	group := r.manager.Group(r.group)
	if group == nil {
		return "", fmt.Errorf("render: urlkit group %q not found", r.group)
	}
	return group.Builder(r.route).WithParam(r.slugParam, slug).Build()
}
