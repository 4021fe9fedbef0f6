package render

import (
	"testing"

	urlkit "github.com/goliatone/go-urlkit"
)

func TestResolver_SlugLookup(t *testing.T) {
	resolver := NewResolver(map[string]string{"p1": "first-post"}, ResolverOptions{})

	slug, ok := resolver.Slug("p1")
	if !ok || slug != "first-post" {
		t.Fatalf("expected first-post, got %q (%v)", slug, ok)
	}
	if _, ok := resolver.Slug("missing"); ok {
		t.Fatalf("unknown id must miss, not resolve")
	}
}

func TestResolver_DefaultURLLayout(t *testing.T) {
	resolver := NewResolver(nil, ResolverOptions{})
	if got := resolver.URL("my-post"); got != "/posts/my-post/" {
		t.Fatalf("default layout mismatch, got %q", got)
	}
}

func TestResolver_ManagedURL(t *testing.T) {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{{
			Name:    "site",
			BaseURL: "https://example.com",
			Paths:   map[string]string{"post": "/blog/:slug"},
		}},
	})

	resolver := NewResolver(nil, ResolverOptions{
		Manager: manager,
		Group:   "site",
		Route:   "post",
	})
	if got := resolver.URL("my-post"); got != "https://example.com/blog/my-post" {
		t.Fatalf("managed layout mismatch, got %q", got)
	}
}

func TestResolver_MisconfiguredRouteFallsBack(t *testing.T) {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{{
			Name:    "site",
			BaseURL: "https://example.com",
			Paths:   map[string]string{"post": "/blog/:slug"},
		}},
	})

	resolver := NewResolver(nil, ResolverOptions{
		Manager: manager,
		Group:   "no-such-group",
		Route:   "post",
	})
	if got := resolver.URL("my-post"); got != "/posts/my-post/" {
		t.Fatalf("misconfigured routes must degrade to the default layout, got %q", got)
	}
}

func TestResolver_TableIsCopied(t *testing.T) {
	table := map[string]string{"p1": "original"}
	resolver := NewResolver(table, ResolverOptions{})
	table["p1"] = "mutated"

	slug, _ := resolver.Slug("p1")
	if slug != "original" {
		t.Fatalf("resolver must snapshot the table at construction, got %q", slug)
	}
}

func TestResolver_NilReceiver(t *testing.T) {
	var resolver *Resolver
	if _, ok := resolver.Slug("p1"); ok {
		t.Fatalf("nil resolver must miss every lookup")
	}
	if got := resolver.URL("x"); got != "/posts/x/" {
		t.Fatalf("nil resolver must use the default layout, got %q", got)
	}
}
