// Package notionrender fetches pages from a remote content workspace and
// deterministically renders each one into a validated metadata record plus an
// HTML fragment of its body, ready for static publishing.
package notionrender

import (
	"context"
	"fmt"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-notion-render/internal/logging"
	"github.com/goliatone/go-notion-render/internal/logging/gologger"
	"github.com/goliatone/go-notion-render/metadata"
	"github.com/goliatone/go-notion-render/notion"
	"github.com/goliatone/go-notion-render/pkg/interfaces"
	"github.com/goliatone/go-notion-render/render"
	"github.com/goliatone/go-notion-render/slugs"
)

// Re-exported contracts so consumers rarely need the subpackages directly.
type (
	Block      = notion.Block
	Page       = notion.Page
	Record     = metadata.Record
	Schema     = metadata.Schema
	Field      = metadata.Field
	Logger     = interfaces.Logger
	ShapeError = render.ShapeError
	FieldError = metadata.FieldError
)

// Entry is one fully processed content entry.
type Entry struct {
	ID     string
	Slug   string
	Title  string
	Record *metadata.Record
	HTML   string
}

// EntryResult pairs an entry with its rendering outcome. Metadata failures
// never appear here; they abort the whole batch before rendering starts.
type EntryResult struct {
	ID    string
	Slug  string
	Entry *Entry
	Err   error
}

// BatchResult is the outcome of rendering a database of entries.
type BatchResult struct {
	Entries []EntryResult
}

// Failed returns the results whose content rendering failed.
func (b *BatchResult) Failed() []EntryResult {
	var failed []EntryResult
	for _, result := range b.Entries {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

// Engine wires the client, tree fetcher, metadata parser, slug allocator and
// renderer into one pipeline.
type Engine struct {
	client   *notion.Client
	fetcher  *notion.TreeFetcher
	schema   metadata.Schema
	title    string
	resolver render.ResolverOptions
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
}

// New validates the configuration and assembles an Engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var provider interfaces.LoggerProvider
	if cfg.Logging.Enabled {
		p, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		provider = p
	}

	client, err := notion.NewClient(notion.ClientConfig{
		Token:      cfg.Token,
		BaseURL:    cfg.BaseURL,
		APIVersion: cfg.APIVersion,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		Logger:     logging.ClientLogger(provider),
	})
	if err != nil {
		return nil, err
	}

	fetcher := notion.NewTreeFetcher(client,
		notion.WithFetchConcurrency(cfg.FetchConcurrency),
		notion.WithFetchLogger(logging.FetchLogger(provider)),
	)

	resolverOpts := render.ResolverOptions{
		Group:     cfg.Routes.Group,
		Route:     cfg.Routes.Route,
		SlugParam: cfg.Routes.SlugParam,
	}
	if cfg.Routes.Config != nil {
		resolverOpts.Manager = urlkit.NewRouteManager(cfg.Routes.Config)
	}

	return &Engine{
		client:   client,
		fetcher:  fetcher,
		schema:   cfg.Schema,
		title:    cfg.TitleField,
		resolver: resolverOpts,
		provider: provider,
		logger:   logging.ModuleLogger(provider, ""),
	}, nil
}

// RenderPage fetches and renders a single page. The resolution table maps
// remote entry identifiers to slugs and may be nil.
func (e *Engine) RenderPage(ctx context.Context, pageID string, table map[string]string) (*Entry, error) {
	page, err := e.client.RetrievePage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	record, err := metadata.Parse(page.Properties, e.schema)
	if err != nil {
		return nil, fmt.Errorf("notionrender: page %q metadata: %w", page.ID, err)
	}

	allocator := slugs.NewAllocator()
	entry, err := e.renderEntry(ctx, page, record, allocator.Allocate(page.ID, record.String(e.title)), table)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RenderBlocks renders a pre-fetched block forest directly, without touching
// the remote service.
func (e *Engine) RenderBlocks(blocks []*notion.Block, table map[string]string) (string, error) {
	renderer := e.newRenderer(table)
	return renderer.RenderBlocks(blocks)
}

// RenderDatabase queries a database and renders each entry. Metadata
// validation is batch-fatal: one malformed property bag aborts the whole
// call. Content rendering failures stay entry-scoped and are reported per
// entry in the returned batch.
func (e *Engine) RenderDatabase(ctx context.Context, databaseID string, filter map[string]any, sorts ...map[string]any) (*BatchResult, error) {
	pages, err := e.client.QueryDatabase(ctx, databaseID, filter, sorts...)
	if err != nil {
		return nil, err
	}

	// First pass: metadata and slugs for every entry, before any body fetch.
	// This also builds the resolution table rendering consults, so an entry
	// can cross-reference any sibling regardless of processing order.
	records := make([]*metadata.Record, len(pages))
	entrySlugs := make([]string, len(pages))
	allocator := slugs.NewAllocator()
	table := make(map[string]string, len(pages))

	for i, page := range pages {
		record, err := metadata.Parse(page.Properties, e.schema)
		if err != nil {
			return nil, fmt.Errorf("notionrender: page %q metadata: %w", page.ID, err)
		}
		records[i] = record
		entrySlugs[i] = allocator.Allocate(page.ID, record.String(e.title))
		table[page.ID] = entrySlugs[i]
	}

	batch := &BatchResult{Entries: make([]EntryResult, 0, len(pages))}
	for i, page := range pages {
		result := EntryResult{ID: page.ID, Slug: entrySlugs[i]}
		entry, err := e.renderEntry(ctx, page, records[i], entrySlugs[i], table)
		if err != nil {
			e.logger.Error("entry rendering failed", "page_id", page.ID, "error", err)
			result.Err = err
		} else {
			result.Entry = entry
		}
		batch.Entries = append(batch.Entries, result)
	}
	return batch, nil
}

func (e *Engine) renderEntry(ctx context.Context, page *notion.Page, record *metadata.Record, slug string, table map[string]string) (*Entry, error) {
	blocks, err := e.fetcher.Fetch(ctx, page.ID)
	if err != nil {
		return nil, err
	}

	renderer := e.newRenderer(table)
	html, err := renderer.RenderBlocks(blocks)
	if err != nil {
		return nil, fmt.Errorf("notionrender: page %q: %w", page.ID, err)
	}

	return &Entry{
		ID:     page.ID,
		Slug:   slug,
		Title:  record.String(e.title),
		Record: record,
		HTML:   html,
	}, nil
}

func (e *Engine) newRenderer(table map[string]string) *render.Renderer {
	return render.NewRenderer(
		render.WithResolver(render.NewResolver(table, e.resolver)),
		render.WithLogger(logging.RenderLogger(e.provider)),
	)
}
