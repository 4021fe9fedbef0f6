// Package slugs allocates URL slugs for content entries. The allocator is an
// explicit stateful object threaded through the composing call, so repeated
// runs are independent and testable in isolation.
package slugs

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-notion-render/internal/identity"
)

// Allocator hands out unique slugs within one processing run. Duplicate
// titles receive an ordinal suffix; titles that normalize to nothing fall
// back to a deterministic identifier derived from the entry id.
type Allocator struct {
	taken map[string]int
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{taken: make(map[string]int)}
}

// Allocate returns the slug for an entry title. The entry id seeds the
// fallback for untitled entries and must be stable across runs.
func (a *Allocator) Allocate(entryID, title string) string {
	base := normalize(title)
	if base == "" {
		base = fallbackSlug(entryID)
	}

	count := a.taken[base]
	a.taken[base] = count + 1
	if count == 0 {
		return base
	}

	// First duplicate gets -2, matching how most publishing tools
	// disambiguate.
	candidate := base + "-" + strconv.Itoa(count+1)
	for a.taken[candidate] > 0 {
		count++
		candidate = base + "-" + strconv.Itoa(count+1)
	}
	a.taken[candidate] = 1
	return candidate
}

// Normalize applies the slug normalization rules without reserving the
// result.
func Normalize(title string) string {
	return normalize(title)
}

func normalize(title string) string {
	normalized, err := slug.Normalize(strings.TrimSpace(title))
	if err != nil {
		return ""
	}
	return normalized
}

// fallbackSlug derives a stable short identifier for entries whose titles
// normalize to the empty string.
func fallbackSlug(entryID string) string {
	uid := identity.EntryUUID(entryID)
	compact := strings.ReplaceAll(uid.String(), "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "untitled-" + compact
}
