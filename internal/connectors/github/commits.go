package github

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v68/github"

	"github.com/worklens/worklens/internal/core/domain"
)

// fetchCommits enumerates repositories the account pushes to and lists the
// account's commits in each since the given time. Per-repository failures
// (empty repositories, lost access) are reported as item errors and do not
// fail the stream.
func fetchCommits(
	ctx context.Context, client *Client, owner, login string, since time.Time,
	emit func(domain.RawItem), report func(error),
) error {
	repos, err := client.ListRepos(ctx, since)
	if err != nil {
		return fmt.Errorf("list repositories: %w", err)
	}

	for _, repo := range repos {
		commits, err := client.ListCommits(
			ctx, repo.GetOwner().GetLogin(), repo.GetName(), login, since,
		)
		if err != nil {
			if domain.Classify(err) == domain.ClassAuth {
				return err
			}
			// Empty repositories and lost access are expected noise.
			report(&domain.ItemError{
				Provider: domain.ProviderGitHub,
				Unit:     repo.GetFullName(),
				Err:      err,
			})
			continue
		}

		for _, commit := range commits {
			emit(domain.RawItem{
				Kind:   domain.RawKindCommit,
				Owner:  owner,
				Commit: buildRawCommit(repo, commit),
			})
		}
	}

	return nil
}

// buildRawCommit converts a repository commit into a RawCommit.
func buildRawCommit(repo *gh.Repository, commit *gh.RepositoryCommit) *domain.RawCommit {
	author := commit.GetAuthor().GetLogin()
	if author == "" {
		author = commit.GetCommit().GetAuthor().GetName()
	}

	return &domain.RawCommit{
		SHA:       commit.GetSHA(),
		Message:   commit.GetCommit().GetMessage(),
		Author:    author,
		Repo:      repo.GetFullName(),
		URL:       commit.GetHTMLURL(),
		Additions: commit.GetStats().GetAdditions(),
		Deletions: commit.GetStats().GetDeletions(),
		CreatedAt: commit.GetCommit().GetAuthor().GetDate().Time,
	}
}
