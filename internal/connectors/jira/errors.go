package jira

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	gojira "github.com/andygrunwald/go-jira"

	"github.com/worklens/worklens/internal/core/domain"
)

// defaultRetryAfter is used when a 429 response omits the Retry-After header.
const defaultRetryAfter = 30 * time.Second

// wrapError converts go-jira failures into the domain taxonomy using the
// response status, which go-jira's own error values do not expose reliably.
func wrapError(resp *gojira.Response, err error, operation string) error {
	if err == nil {
		return nil
	}
	if resp == nil || resp.Response == nil {
		return fmt.Errorf("jira: %s: %w", operation, err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("jira: %s: %w", operation, domain.ErrAuthInvalid)
	case http.StatusForbidden:
		return fmt.Errorf("jira: %s: %w", operation, domain.ErrForbidden)
	case http.StatusNotFound:
		return fmt.Errorf("jira: %s: %w", operation, domain.ErrNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("jira: %s: %w", operation, &domain.ThrottledError{
			RetryAfter: retryAfter(resp.Response),
		})
	default:
		return fmt.Errorf("jira: %s: status %d: %w", operation, resp.StatusCode, err)
	}
}

// retryAfter reads the Retry-After header, in seconds.
func retryAfter(resp *http.Response) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultRetryAfter
}

// isQueryRejected reports whether the scoped search was rejected outright:
// a retired search endpoint answers 410, and some sites reject
// currentUser() scoping in JQL with 400. Both call for the fallback query.
func isQueryRejected(resp *gojira.Response) bool {
	if resp == nil || resp.Response == nil {
		return false
	}
	return resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusBadRequest
}
