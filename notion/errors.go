package notion

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrTokenRequired      = errors.New("notion: integration token is required")
	ErrBlockIDRequired    = errors.New("notion: block id is required")
	ErrPageIDRequired     = errors.New("notion: page id is required")
	ErrDatabaseIDRequired = errors.New("notion: database id is required")
)

const (
	apiRequestFailed = "NOTION_API_REQUEST_FAILED"
	apiRateLimited   = "NOTION_API_RATE_LIMITED"
	apiNotFound      = "NOTION_API_NOT_FOUND"
)

// APIError is the structured error body returned by the remote service.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`

	// Resource and Key identify the request that failed so callers can log
	// and diagnose without re-deriving state.
	Resource string `json:"-"`
	Key      string `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "notion: api error"
	}
	if e.Resource != "" && e.Key != "" {
		return fmt.Sprintf("notion: %s %q: %s (%d %s)", e.Resource, e.Key, e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("notion: %s (%d %s)", e.Message, e.Status, e.Code)
}

// mapAPIError attaches a go-errors category so callers can branch on the
// failure class without inspecting status codes.
func mapAPIError(err *APIError) error {
	if err == nil {
		return nil
	}
	switch {
	case err.Status == http.StatusNotFound:
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "resource not found").
			WithTextCode(apiNotFound)
	case err.Status == http.StatusTooManyRequests:
		return goerrors.Wrap(err, goerrors.CategoryExternal, "rate limited by remote service").
			WithTextCode(apiRateLimited)
	default:
		return goerrors.Wrap(err, goerrors.CategoryExternal, "remote service request failed").
			WithTextCode(apiRequestFailed)
	}
}

// IsNotFound reports whether the error represents a missing remote resource.
func IsNotFound(err error) bool {
	if goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
