package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"github.com/goliatone/go-notion-render/internal/logging"
	"github.com/goliatone/go-notion-render/pkg/interfaces"
)

const (
	defaultBaseURL    = "https://api.notion.com/v1"
	defaultAPIVersion = "2022-06-28"
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultRetryBase  = 250 * time.Millisecond
	maxPageSize       = 100
)

// ClientConfig captures the options for the remote API client.
type ClientConfig struct {
	Token      string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	MaxRetries uint64
	RetryBase  time.Duration
	Logger     interfaces.Logger
}

// Client talks to the remote content service. It drains pagination internally
// so callers always receive complete child lists, and retries transient
// failures (429 and 5xx) with exponential backoff.
type Client struct {
	http       *resty.Client
	maxRetries uint64
	retryBase  time.Duration
	logger     interfaces.Logger
}

// NewClient constructs a Client. The integration token is required; every
// other option has a sensible default.
func NewClient(cfg ClientConfig) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, ErrTokenRequired
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = defaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	retryBase := cfg.RetryBase
	if retryBase <= 0 {
		retryBase = defaultRetryBase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("Notion-Version", version)

	return &Client{
		http:       client,
		maxRetries: maxRetries,
		retryBase:  retryBase,
		logger:     logger,
	}, nil
}

// RetrieveBlockChildren lists every direct child of the given block,
// following pagination cursors until the listing is exhausted.
func (c *Client) RetrieveBlockChildren(ctx context.Context, blockID string) ([]*Block, error) {
	blockID = strings.TrimSpace(blockID)
	if blockID == "" {
		return nil, ErrBlockIDRequired
	}

	var (
		children []*Block
		cursor   string
	)
	for {
		var page blockListResponse
		req := func(ctx context.Context) (*resty.Response, error) {
			r := c.http.R().
				SetContext(ctx).
				SetResult(&page).
				SetQueryParam("page_size", strconv.Itoa(maxPageSize))
			if cursor != "" {
				r.SetQueryParam("start_cursor", cursor)
			}
			return r.Get("/blocks/" + blockID + "/children")
		}
		if err := c.do(ctx, "block children", blockID, req); err != nil {
			return nil, err
		}

		children = append(children, page.Results...)
		if !page.HasMore || page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		cursor = *page.NextCursor
	}

	c.logger.Debug("retrieved block children", "block_id", blockID, "count", len(children))
	return children, nil
}

// RetrievePage fetches a single page record, properties included.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return nil, ErrPageIDRequired
	}

	var page Page
	req := func(ctx context.Context) (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetResult(&page).
			Get("/pages/" + pageID)
	}
	if err := c.do(ctx, "page", pageID, req); err != nil {
		return nil, err
	}
	return &page, nil
}

// QueryDatabase runs a filtered query against a database, draining pagination
// so the full result set is returned in source order.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter map[string]any, sorts ...map[string]any) ([]*Page, error) {
	databaseID = strings.TrimSpace(databaseID)
	if databaseID == "" {
		return nil, ErrDatabaseIDRequired
	}

	var (
		pages  []*Page
		cursor string
	)
	for {
		body := queryRequest{
			Filter:      filter,
			Sorts:       sorts,
			StartCursor: cursor,
			PageSize:    maxPageSize,
		}
		var page pageListResponse
		req := func(ctx context.Context) (*resty.Response, error) {
			return c.http.R().
				SetContext(ctx).
				SetBody(body).
				SetResult(&page).
				Post("/databases/" + databaseID + "/query")
		}
		if err := c.do(ctx, "database query", databaseID, req); err != nil {
			return nil, err
		}

		pages = append(pages, page.Results...)
		if !page.HasMore || page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		cursor = *page.NextCursor
	}

	c.logger.Debug("queried database", "database_id", databaseID, "count", len(pages))
	return pages, nil
}

// do executes one request with the retry policy applied. 429 responses wait
// out the advertised Retry-After window before the next attempt.
func (c *Client) do(ctx context.Context, resource, key string, req func(ctx context.Context) (*resty.Response, error)) error {
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := req(ctx)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("notion: %s %q: %w", resource, key, err))
		}
		if !resp.IsError() {
			return nil
		}

		apiErr := parseAPIError(resp, resource, key)
		wrapped := mapAPIError(apiErr)

		switch {
		case resp.StatusCode() == http.StatusTooManyRequests:
			c.logger.Warn("rate limited, backing off",
				"resource", resource, "key", key, "retry_after", resp.Header().Get("Retry-After"))
			if err := waitRetryAfter(ctx, resp.Header().Get("Retry-After")); err != nil {
				return err
			}
			return retry.RetryableError(wrapped)
		case resp.StatusCode() >= http.StatusInternalServerError:
			return retry.RetryableError(wrapped)
		default:
			return wrapped
		}
	})
}

// parseAPIError decodes the structured error body, falling back to the raw
// status when the body does not parse.
func parseAPIError(resp *resty.Response, resource, key string) *APIError {
	apiErr := &APIError{
		Status:   resp.StatusCode(),
		Resource: resource,
		Key:      key,
	}
	if body := resp.Body(); len(body) > 0 {
		var decoded APIError
		if err := json.Unmarshal(body, &decoded); err == nil {
			if decoded.Code != "" {
				apiErr.Code = decoded.Code
			}
			if decoded.Message != "" {
				apiErr.Message = decoded.Message
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}

func waitRetryAfter(ctx context.Context, header string) error {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return nil
	}

	timer := time.NewTimer(time.Duration(seconds) * time.Second)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
