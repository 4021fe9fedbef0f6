package notion

import (
	"encoding/json"
	"time"
)

// Block is one node of the remote content tree. The kind-specific payload is
// kept as raw decoded JSON under Payload; shape validation and type narrowing
// happen lazily in the render package, right before a node is rendered.
type Block struct {
	ID          string
	Type        string
	HasChildren bool
	CreatedTime string
	EditedTime  string

	// Payload holds the object stored under the tag key (e.g. the value of
	// the "paragraph" field for a paragraph block). Unknown extra fields are
	// preserved so forward-compatible payloads survive the round trip.
	Payload map[string]any

	// Children carries the generic nested subtree, populated by TreeFetcher.
	Children []*Block

	// Rows and Columns receive the fetched children of table and column_list
	// containers. The TreeFetcher moves children into these kind-specific
	// fields after recursion completes; see reshape.
	Rows    []*Block
	Columns []*Block
}

// UnmarshalJSON decodes the wire representation, capturing the tag-keyed
// payload without committing to any per-tag structure.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	b.ID, _ = raw["id"].(string)
	b.Type, _ = raw["type"].(string)
	b.HasChildren, _ = raw["has_children"].(bool)
	b.CreatedTime, _ = raw["created_time"].(string)
	b.EditedTime, _ = raw["last_edited_time"].(string)

	if b.Type != "" {
		if payload, ok := raw[b.Type].(map[string]any); ok {
			b.Payload = payload
		}
	}
	return nil
}

// clone returns a shallow copy of the block. Child slices are copied so the
// reshape transform never aliases the source block's storage.
func (b *Block) clone() *Block {
	copied := *b
	copied.Children = append([]*Block(nil), b.Children...)
	copied.Rows = append([]*Block(nil), b.Rows...)
	copied.Columns = append([]*Block(nil), b.Columns...)
	return &copied
}

// Page is a remote content entry. Properties are left raw for the metadata
// package to coerce against a declared schema.
type Page struct {
	ID         string         `json:"id"`
	URL        string         `json:"url"`
	Archived   bool           `json:"archived"`
	CreatedAt  time.Time      `json:"created_time"`
	EditedAt   time.Time      `json:"last_edited_time"`
	Properties map[string]any `json:"properties"`
}

// blockListResponse is one page of a paginated block children listing.
type blockListResponse struct {
	Object     string   `json:"object"`
	Results    []*Block `json:"results"`
	NextCursor *string  `json:"next_cursor"`
	HasMore    bool     `json:"has_more"`
}

// pageListResponse is one page of a paginated database query.
type pageListResponse struct {
	Object     string  `json:"object"`
	Results    []*Page `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// queryRequest is the body sent to the database query endpoint.
type queryRequest struct {
	Filter      map[string]any   `json:"filter,omitempty"`
	Sorts       []map[string]any `json:"sorts,omitempty"`
	StartCursor string           `json:"start_cursor,omitempty"`
	PageSize    int              `json:"page_size,omitempty"`
}
