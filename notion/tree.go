package notion

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-notion-render/internal/logging"
	"github.com/goliatone/go-notion-render/pkg/interfaces"
)

const defaultFetchConcurrency = 4

// ChildRetriever is the slice of the Client contract the fetcher depends on.
type ChildRetriever interface {
	RetrieveBlockChildren(ctx context.Context, blockID string) ([]*Block, error)
}

// TreeFetcherOption customizes a TreeFetcher.
type TreeFetcherOption func(*TreeFetcher)

// WithFetchConcurrency bounds how many sibling subtrees expand in parallel.
func WithFetchConcurrency(n int) TreeFetcherOption {
	return func(f *TreeFetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithFetchLogger attaches a logger to the fetcher.
func WithFetchLogger(logger interfaces.Logger) TreeFetcherOption {
	return func(f *TreeFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// TreeFetcher materializes a block subtree from the remote service. Sibling
// subtrees are fetched concurrently but reassembled in source order, and any
// retrieval failure aborts the whole fetch with no partial tree returned.
type TreeFetcher struct {
	retriever   ChildRetriever
	concurrency int
	logger      interfaces.Logger
}

// NewTreeFetcher constructs a fetcher over the given retriever.
func NewTreeFetcher(retriever ChildRetriever, opts ...TreeFetcherOption) *TreeFetcher {
	fetcher := &TreeFetcher{
		retriever:   retriever,
		concurrency: defaultFetchConcurrency,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// Fetch returns the fully expanded child forest of the given block or page
// id. Every descendant flagged with has_children is expanded recursively
// before the forest is returned.
func (f *TreeFetcher) Fetch(ctx context.Context, id string) ([]*Block, error) {
	children, err := f.retriever.RetrieveBlockChildren(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("notion: fetch children of %q: %w", id, err)
	}
	return f.expandAll(ctx, children)
}

// expandAll expands each block of a sibling list, in parallel, preserving the
// original sibling order in the result regardless of completion order.
func (f *TreeFetcher) expandAll(ctx context.Context, blocks []*Block) ([]*Block, error) {
	if len(blocks) == 0 {
		return nil, nil
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(f.concurrency)

	expanded := make([]*Block, len(blocks))
	for i, block := range blocks {
		group.Go(func() error {
			node, err := f.expand(ctx, block)
			if err != nil {
				return err
			}
			expanded[i] = node
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return expanded, nil
}

// expand materializes one block's subtree. Container kinds whose children
// belong in a kind-specific field are reshaped after recursion completes.
func (f *TreeFetcher) expand(ctx context.Context, block *Block) (*Block, error) {
	if block == nil || !block.HasChildren {
		return block, nil
	}

	children, err := f.retriever.RetrieveBlockChildren(ctx, block.ID)
	if err != nil {
		return nil, fmt.Errorf("notion: fetch children of block %q (%s): %w", block.ID, block.Type, err)
	}

	expanded, err := f.expandAll(ctx, children)
	if err != nil {
		return nil, err
	}

	f.logger.Trace("expanded block", "block_id", block.ID, "type", block.Type, "children", len(expanded))
	return reshape(block, expanded), nil
}

// reshape attaches fetched children to a new block value. Tables keep their
// rows in Rows and column lists keep their columns in Columns; every other
// container uses the generic Children field. The input block is not mutated.
func reshape(block *Block, children []*Block) *Block {
	clone := block.clone()
	switch clone.Type {
	case "table":
		clone.Rows = children
		clone.Children = nil
	case "column_list":
		clone.Columns = children
		clone.Children = nil
	default:
		clone.Children = children
	}
	return clone
}
