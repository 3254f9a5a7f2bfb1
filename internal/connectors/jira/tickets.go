package jira

import (
	"context"
	"fmt"
	"time"

	gojira "github.com/andygrunwald/go-jira"

	"github.com/worklens/worklens/internal/core/domain"
)

// pageSize is the search page size. Jira Cloud caps maxResults at 100.
const pageSize = 50

// jqlTimeLayout is the timestamp format JQL accepts in quoted literals.
const jqlTimeLayout = "2006-01-02 15:04"

// primaryJQL scopes the search to tickets the account is assigned to or
// reported, updated at or after since.
func primaryJQL(since time.Time) string {
	return fmt.Sprintf(
		`(assignee = currentUser() OR reporter = currentUser()) AND updated >= "%s" ORDER BY updated DESC`,
		since.Format(jqlTimeLayout),
	)
}

// fallbackJQL is the unscoped recency query used when the site rejects the
// scoped one. Recency is capped at seven days to bound the result set.
func fallbackJQL(since time.Time) string {
	cutoff := time.Now().AddDate(0, 0, -7)
	if since.After(cutoff) {
		cutoff = since
	}
	return fmt.Sprintf(`updated >= "%s" ORDER BY updated DESC`, cutoff.Format(jqlTimeLayout))
}

// searchTickets runs one JQL query through every result page.
func searchTickets(
	ctx context.Context, client *gojira.Client, jql string,
) ([]gojira.Issue, *gojira.Response, error) {
	var all []gojira.Issue
	startAt := 0

	for {
		issues, resp, err := client.Issue.SearchWithContext(ctx, jql, &gojira.SearchOptions{
			StartAt:    startAt,
			MaxResults: pageSize,
			Fields: []string{
				"summary", "description", "status", "priority", "issuetype",
				"assignee", "reporter", "project", "labels", "created", "updated",
			},
		})
		if err != nil {
			return all, resp, err
		}

		all = append(all, issues...)

		startAt += len(issues)
		if len(issues) == 0 || startAt >= resp.Total {
			break
		}
	}

	return all, nil, nil
}

// buildRawTicket converts a Jira issue into a RawTicket. The site URL is
// needed for the browse link; the API base is the gateway host, not the site.
func buildRawTicket(issue gojira.Issue, siteURL string) *domain.RawTicket {
	ticket := &domain.RawTicket{
		Key: issue.Key,
		URL: fmt.Sprintf("%s/browse/%s", siteURL, issue.Key),
	}

	fields := issue.Fields
	if fields == nil {
		return ticket
	}

	ticket.Summary = fields.Summary
	ticket.Description = fields.Description
	ticket.IssueType = fields.Type.Name
	ticket.Project = fields.Project.Key
	ticket.Labels = fields.Labels
	ticket.CreatedAt = time.Time(fields.Created)
	ticket.UpdatedAt = time.Time(fields.Updated)

	if fields.Status != nil {
		ticket.Status = fields.Status.Name
	}
	if fields.Priority != nil {
		ticket.Priority = fields.Priority.Name
	}
	if fields.Assignee != nil {
		ticket.Assignee = fields.Assignee.DisplayName
	}
	if fields.Reporter != nil {
		ticket.Reporter = fields.Reporter.DisplayName
	}

	return ticket
}
