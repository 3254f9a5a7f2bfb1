package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v68/github"

	"github.com/worklens/worklens/internal/core/domain"
)

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s", e.StatusCode, e.Message)
}

// wrapError converts go-github errors into the domain taxonomy so the
// executor's retry policy can classify them.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		wait := time.Until(rateErr.Rate.Reset.Time)
		if wait < 0 {
			wait = time.Second
		}
		return fmt.Errorf("github: %s: %w", operation, &domain.ThrottledError{RetryAfter: wait})
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		wait := time.Minute
		if abuseErr.RetryAfter != nil {
			wait = *abuseErr.RetryAfter
		}
		return fmt.Errorf("github: %s: %w", operation, &domain.ThrottledError{RetryAfter: wait})
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("github: %s: %w", operation, domain.ErrAuthInvalid)
		case http.StatusForbidden:
			return fmt.Errorf("github: %s: %w", operation, domain.ErrForbidden)
		case http.StatusNotFound:
			return fmt.Errorf("github: %s: %w", operation, domain.ErrNotFound)
		case http.StatusConflict:
			// Empty repositories answer commit listings with 409.
			return fmt.Errorf("github: %s: %w", operation, domain.ErrConflict)
		default:
			return fmt.Errorf("github: %s: %w", operation, &APIError{
				StatusCode: ghErr.Response.StatusCode,
				Message:    ghErr.Message,
			})
		}
	}

	return fmt.Errorf("github: %s: %w", operation, err)
}
