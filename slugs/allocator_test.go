package slugs

import (
	"strings"
	"testing"
)

func TestAllocate_NormalizesTitle(t *testing.T) {
	allocator := NewAllocator()
	if got := allocator.Allocate("p1", "Hello, World!"); got != "hello-world" {
		t.Fatalf("slug mismatch, got %q", got)
	}
}

func TestAllocate_DuplicateTitlesGetOrdinals(t *testing.T) {
	allocator := NewAllocator()

	first := allocator.Allocate("p1", "My Post")
	second := allocator.Allocate("p2", "My Post")
	third := allocator.Allocate("p3", "My Post")

	if first != "my-post" {
		t.Fatalf("first slug mismatch, got %q", first)
	}
	if second != "my-post-2" {
		t.Fatalf("second slug mismatch, got %q", second)
	}
	if third != "my-post-3" {
		t.Fatalf("third slug mismatch, got %q", third)
	}
}

func TestAllocate_UntitledFallsBackToEntryID(t *testing.T) {
	allocator := NewAllocator()

	got := allocator.Allocate("page-123", "")
	if !strings.HasPrefix(got, "untitled-") {
		t.Fatalf("expected untitled fallback, got %q", got)
	}
	if len(got) != len("untitled-")+8 {
		t.Fatalf("fallback must carry a short identifier, got %q", got)
	}

	again := NewAllocator().Allocate("page-123", "   ")
	if again != got {
		t.Fatalf("fallback must be stable across runs: %q vs %q", got, again)
	}

	other := NewAllocator().Allocate("page-456", "")
	if other == got {
		t.Fatalf("different entries must get different fallbacks")
	}
}

func TestAllocate_RunsAreIndependent(t *testing.T) {
	first := NewAllocator()
	first.Allocate("p1", "My Post")

	second := NewAllocator()
	if got := second.Allocate("p2", "My Post"); got != "my-post" {
		t.Fatalf("fresh allocator must not remember prior runs, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Héllo  Wörld  "); got == "" || strings.ContainsAny(got, " ÉÖ") {
		t.Fatalf("normalize mismatch, got %q", got)
	}
	if got := Normalize("!!!"); got != "" {
		t.Fatalf("symbol-only titles must normalize to empty, got %q", got)
	}
}
