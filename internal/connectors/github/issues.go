package github

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v68/github"

	"github.com/worklens/worklens/internal/core/domain"
)

// fetchInvolvedIssues retrieves issues the account authored, was assigned
// to, was mentioned in, or commented on, updated at or after since.
func fetchInvolvedIssues(
	ctx context.Context, client *Client, owner, login string, since time.Time,
) ([]domain.RawItem, error) {
	query := fmt.Sprintf("type:issue involves:%s updated:>=%s", login, since.Format("2006-01-02"))

	issues, err := client.SearchIssues(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search involved issues: %w", err)
	}

	items := make([]domain.RawItem, 0, len(issues))
	for _, issue := range issues {
		items = append(items, domain.RawItem{
			Kind:  domain.RawKindIssue,
			Owner: owner,
			Issue: buildRawIssue(issue),
		})
	}

	return items, nil
}

// buildRawIssue converts a search result into a RawIssue.
func buildRawIssue(issue *gh.Issue) *domain.RawIssue {
	repo := repoFromIssue(issue)

	labels := make([]string, len(issue.Labels))
	for i, l := range issue.Labels {
		labels[i] = l.GetName()
	}

	return &domain.RawIssue{
		SourceID:  fmt.Sprintf("%s#%d", repo, issue.GetNumber()),
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		Author:    issue.GetUser().GetLogin(),
		Repo:      repo,
		URL:       issue.GetHTMLURL(),
		Labels:    labels,
		Comments:  issue.GetComments(),
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
	}
}
