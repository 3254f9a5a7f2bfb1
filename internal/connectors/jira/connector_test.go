package jira

import (
	"context"
	"net/http"
	"testing"
	"time"

	gojira "github.com/andygrunwald/go-jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/executor"
)

func TestNew(t *testing.T) {
	connector := New(executor.New(executor.DefaultPoolSize))

	require.NotNil(t, connector)
	assert.Equal(t, domain.ProviderJira, connector.Type())
}

func TestNewClient_RequiresCloudID(t *testing.T) {
	connector := New(executor.New(1))
	integration := domain.Integration{
		Owner:       "u1",
		Provider:    domain.ProviderJira,
		AccessToken: "tok",
	}

	_, err := connector.newClient(context.Background(), integration)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrimaryJQL(t *testing.T) {
	since := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)

	jql := primaryJQL(since)

	assert.Contains(t, jql, "assignee = currentUser()")
	assert.Contains(t, jql, "reporter = currentUser()")
	assert.Contains(t, jql, `updated >= "2026-08-20 14:30"`)
	assert.Contains(t, jql, "ORDER BY updated DESC")
}

// TestFallbackJQL_CapsAtSevenDays tests that the unscoped fallback never
// reaches further back than a week even for a long requested lookback.
func TestFallbackJQL_CapsAtSevenDays(t *testing.T) {
	jql := fallbackJQL(time.Now().AddDate(0, 0, -30))

	assert.NotContains(t, jql, "currentUser")
	assert.Contains(t, jql, `updated >= "`+time.Now().AddDate(0, 0, -7).Format("2006-01-02"))
}

func TestFallbackJQL_KeepsNarrowerSince(t *testing.T) {
	since := time.Now().AddDate(0, 0, -2)

	jql := fallbackJQL(since)

	assert.Contains(t, jql, `updated >= "`+since.Format("2006-01-02 15:04"))
}

func TestBuildRawTicket(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 8, 21, 16, 0, 0, 0, time.UTC)
	issue := gojira.Issue{
		Key: "PAY-123",
		Fields: &gojira.IssueFields{
			Summary:     "Checkout double-charges on retry",
			Description: "Repro steps attached.",
			Status:      &gojira.Status{Name: "In Progress"},
			Priority:    &gojira.Priority{Name: "High"},
			Type:        gojira.IssueType{Name: "Bug"},
			Assignee:    &gojira.User{DisplayName: "Jane Doe"},
			Reporter:    &gojira.User{DisplayName: "John Roe"},
			Project:     gojira.Project{Key: "PAY"},
			Labels:      []string{"payments"},
			Created:     gojira.Time(created),
			Updated:     gojira.Time(updated),
		},
	}

	ticket := buildRawTicket(issue, "https://acme.atlassian.net")

	assert.Equal(t, "PAY-123", ticket.Key)
	assert.Equal(t, "https://acme.atlassian.net/browse/PAY-123", ticket.URL)
	assert.Equal(t, "In Progress", ticket.Status)
	assert.Equal(t, "Bug", ticket.IssueType)
	assert.Equal(t, "PAY", ticket.Project)
	assert.Equal(t, "Jane Doe", ticket.Assignee)
	assert.Equal(t, "John Roe", ticket.Reporter)
	assert.Equal(t, created, ticket.CreatedAt)
	assert.Equal(t, updated, ticket.UpdatedAt)
}

// TestBuildRawTicket_MissingFields tests graceful degradation when optional
// fields are absent.
func TestBuildRawTicket_MissingFields(t *testing.T) {
	ticket := buildRawTicket(gojira.Issue{Key: "OPS-1"}, "")

	assert.Equal(t, "OPS-1", ticket.Key)
	assert.Empty(t, ticket.Status)
	assert.Empty(t, ticket.Assignee)
}

func TestWrapError_Classification(t *testing.T) {
	mkResp := func(status int, header http.Header) *gojira.Response {
		return &gojira.Response{Response: &http.Response{StatusCode: status, Header: header}}
	}
	raw := assert.AnError

	err := wrapError(mkResp(http.StatusUnauthorized, nil), raw, "search")
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)

	err = wrapError(mkResp(http.StatusForbidden, nil), raw, "search")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	header := http.Header{}
	header.Set("Retry-After", "17")
	err = wrapError(mkResp(http.StatusTooManyRequests, header), raw, "search")
	require.True(t, domain.IsThrottled(err))
	assert.Equal(t, 17*time.Second, domain.ThrottleDelay(err))

	err = wrapError(mkResp(http.StatusTooManyRequests, nil), raw, "search")
	assert.Equal(t, defaultRetryAfter, domain.ThrottleDelay(err))

	assert.NoError(t, wrapError(nil, nil, "search"))
}

func TestIsQueryRejected(t *testing.T) {
	mkResp := func(status int) *gojira.Response {
		return &gojira.Response{Response: &http.Response{StatusCode: status}}
	}

	assert.True(t, isQueryRejected(mkResp(http.StatusGone)))
	assert.True(t, isQueryRejected(mkResp(http.StatusBadRequest)))
	assert.False(t, isQueryRejected(mkResp(http.StatusInternalServerError)))
	assert.False(t, isQueryRejected(nil))
}
