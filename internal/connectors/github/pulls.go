package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"

	"github.com/worklens/worklens/internal/core/domain"
)

// fetchAuthoredPulls retrieves pull requests authored by login and updated
// at or after since, via the issue search API.
func fetchAuthoredPulls(
	ctx context.Context, client *Client, owner, login string, since time.Time,
) ([]domain.RawItem, error) {
	query := fmt.Sprintf("type:pr author:%s updated:>=%s", login, since.Format("2006-01-02"))

	issues, err := client.SearchIssues(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search authored pulls: %w", err)
	}

	items := make([]domain.RawItem, 0, len(issues))
	for _, issue := range issues {
		items = append(items, domain.RawItem{
			Kind:  domain.RawKindPull,
			Owner: owner,
			Pull:  buildRawPull(issue),
		})
	}

	return items, nil
}

// buildRawPull converts a search result into a RawPull. Search results carry
// the issue shape; merged state comes from the pull request links.
func buildRawPull(issue *gh.Issue) *domain.RawPull {
	repo := repoFromIssue(issue)

	labels := make([]string, len(issue.Labels))
	for i, l := range issue.Labels {
		labels[i] = l.GetName()
	}

	return &domain.RawPull{
		SourceID:  fmt.Sprintf("%s#%d", repo, issue.GetNumber()),
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		Draft:     issue.GetDraft(),
		Merged:    !issue.GetPullRequestLinks().GetMergedAt().IsZero(),
		Author:    issue.GetUser().GetLogin(),
		Repo:      repo,
		URL:       issue.GetHTMLURL(),
		Labels:    labels,
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
	}
}

// repoFromIssue extracts "owner/name" from a search result's repository URL.
func repoFromIssue(issue *gh.Issue) string {
	url := issue.GetRepositoryURL()
	idx := strings.Index(url, "/repos/")
	if idx == -1 {
		return ""
	}
	return url[idx+len("/repos/"):]
}
