package github

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v68/github"

	"github.com/worklens/worklens/internal/core/domain"
)

// fetchReviewedPulls retrieves pull requests the account reviewed, updated
// at or after since. Self-authored pulls are filtered out so a reviewed own
// PR does not surface twice under different source types.
func fetchReviewedPulls(
	ctx context.Context, client *Client, owner, login string, since time.Time,
) ([]domain.RawItem, error) {
	query := fmt.Sprintf("type:pr reviewed-by:%s updated:>=%s", login, since.Format("2006-01-02"))

	issues, err := client.SearchIssues(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search reviewed pulls: %w", err)
	}

	items := make([]domain.RawItem, 0, len(issues))
	for _, issue := range issues {
		if issue.GetUser().GetLogin() == login {
			continue
		}
		items = append(items, domain.RawItem{
			Kind:   domain.RawKindReview,
			Owner:  owner,
			Review: buildRawReview(issue),
		})
	}

	return items, nil
}

// buildRawReview converts a search result into a RawReview. The author is
// the PR author, not the reviewer.
func buildRawReview(issue *gh.Issue) *domain.RawReview {
	repo := repoFromIssue(issue)

	state := issue.GetState()
	if !issue.GetPullRequestLinks().GetMergedAt().IsZero() {
		state = "merged"
	}

	return &domain.RawReview{
		SourceID:  fmt.Sprintf("%s#%d", repo, issue.GetNumber()),
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     state,
		Author:    issue.GetUser().GetLogin(),
		Repo:      repo,
		URL:       issue.GetHTMLURL(),
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
	}
}
