package slack

import (
	"errors"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/worklens/worklens/internal/core/domain"
)

// authErrors are Slack API error strings that mean the token is dead.
var authErrors = map[string]bool{
	"invalid_auth":     true,
	"not_authed":       true,
	"account_inactive": true,
	"token_revoked":    true,
	"token_expired":    true,
}

// conversationErrors are per-conversation failures: expected noise when
// the account loses access between enumeration and history fetch.
var conversationErrors = map[string]bool{
	"channel_not_found": true,
	"not_in_channel":    true,
	"is_archived":       true,
}

// wrapError converts slack-go failures into the domain taxonomy. Slack
// reports most failures as bare error strings, so classification matches
// on those.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateErr *slackapi.RateLimitedError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("slack: %s: %w", operation, &domain.ThrottledError{
			RetryAfter: rateErr.RetryAfter,
		})
	}

	switch {
	case authErrors[err.Error()]:
		return fmt.Errorf("slack: %s: %s: %w", operation, err.Error(), domain.ErrAuthInvalid)
	case conversationErrors[err.Error()]:
		return fmt.Errorf("slack: %s: %s: %w", operation, err.Error(), domain.ErrNotFound)
	default:
		return fmt.Errorf("slack: %s: %w", operation, err)
	}
}
