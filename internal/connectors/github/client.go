package github

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/worklens/worklens/internal/executor"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// PerPage is the page size for list and search calls.
	PerPage = 100
)

// Client wraps the go-github client with rate limiting and retry.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
	exec        *executor.Executor
	policy      executor.Policy
}

// NewClient creates a GitHub API client with a static access token. Works
// for both PAT and OAuth access tokens.
func NewClient(ctx context.Context, token string, exec *executor.Executor) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:          gh.NewClient(tc),
		rateLimiter: NewRateLimiter(),
		exec:        exec,
		policy:      executor.DefaultPolicy(),
	}
}

// call runs one API call under the executor slot, the proactive rate
// limiter, and the retry policy.
func (c *Client) call(ctx context.Context, operation string, fn func(context.Context) (*gh.Response, error)) error {
	return c.exec.Do(ctx, func(ctx context.Context) error {
		return executor.Retry(ctx, c.policy, func(ctx context.Context) error {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit wait: %w", err)
			}
			resp, err := fn(ctx)
			if resp != nil && resp.Response != nil {
				c.rateLimiter.UpdateFromResponse(resp.Response)
			}
			return wrapError(err, operation)
		})
	})
}

// AuthenticatedLogin returns the login of the token's user.
func (c *Client) AuthenticatedLogin(ctx context.Context) (string, error) {
	var login string
	err := c.call(ctx, "get user", func(ctx context.Context) (*gh.Response, error) {
		user, resp, err := c.gh.Users.Get(ctx, "")
		if err == nil {
			login = user.GetLogin()
		}
		return resp, err
	})
	return login, err
}

// SearchIssues runs one issue/PR search query through every result page.
// Pages are fetched sequentially; the search API caps results at 1000.
func (c *Client) SearchIssues(ctx context.Context, query string) ([]*gh.Issue, error) {
	opts := &gh.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: PerPage},
	}

	var all []*gh.Issue
	for {
		var page *gh.IssuesSearchResult
		var nextPage int
		err := c.call(ctx, "search issues", func(ctx context.Context) (*gh.Response, error) {
			result, resp, err := c.gh.Search.Issues(ctx, query, opts)
			if err == nil {
				page = result
				nextPage = resp.NextPage
			}
			return resp, err
		})
		if err != nil {
			return all, err
		}

		all = append(all, page.Issues...)

		if nextPage == 0 {
			break
		}
		opts.Page = nextPage
	}

	return all, nil
}

// ListRepos returns repositories the user can push to, most recently
// pushed first, stopping once pushes predate since.
func (c *Client) ListRepos(ctx context.Context, since time.Time) ([]*gh.Repository, error) {
	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Visibility:  "all",
		Affiliation: "owner,collaborator",
		Sort:        "pushed",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: PerPage},
	}

	var all []*gh.Repository
	for {
		var page []*gh.Repository
		var nextPage int
		err := c.call(ctx, "list repos", func(ctx context.Context) (*gh.Response, error) {
			repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
			if err == nil {
				page = repos
				nextPage = resp.NextPage
			}
			return resp, err
		})
		if err != nil {
			return all, err
		}

		for _, repo := range page {
			if !since.IsZero() && repo.GetPushedAt().Time.Before(since) {
				// Sorted by pushed desc; everything after is older.
				return all, nil
			}
			all = append(all, repo)
		}

		if nextPage == 0 {
			break
		}
		opts.Page = nextPage
	}

	return all, nil
}

// ListCommits returns commits authored by login in one repository since the
// given time.
func (c *Client) ListCommits(
	ctx context.Context, owner, repo, login string, since time.Time,
) ([]*gh.RepositoryCommit, error) {
	opts := &gh.CommitsListOptions{
		Author:      login,
		Since:       since,
		ListOptions: gh.ListOptions{PerPage: PerPage},
	}

	var all []*gh.RepositoryCommit
	for {
		var page []*gh.RepositoryCommit
		var nextPage int
		err := c.call(ctx, "list commits", func(ctx context.Context) (*gh.Response, error) {
			commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
			if err == nil {
				page = commits
				nextPage = resp.NextPage
			}
			return resp, err
		})
		if err != nil {
			return all, err
		}

		all = append(all, page...)

		if nextPage == 0 {
			break
		}
		opts.Page = nextPage
	}

	return all, nil
}

// GetPullRequest fetches one pull request with its diff stats.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error) {
	var pull *gh.PullRequest
	err := c.call(ctx, "get pull request", func(ctx context.Context) (*gh.Response, error) {
		pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
		if err == nil {
			pull = pr
		}
		return resp, err
	})
	return pull, err
}

// ListCheckRuns fetches check runs for a commit ref.
func (c *Client) ListCheckRuns(ctx context.Context, owner, repo, ref string) ([]*gh.CheckRun, error) {
	var runs []*gh.CheckRun
	err := c.call(ctx, "list check runs", func(ctx context.Context) (*gh.Response, error) {
		result, resp, err := c.gh.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, &gh.ListCheckRunsOptions{
			ListOptions: gh.ListOptions{PerPage: PerPage},
		})
		if err == nil {
			runs = result.CheckRuns
		}
		return resp, err
	})
	return runs, err
}

// ListReviewThreads fetches review comments for a pull request.
func (c *Client) ListReviewThreads(
	ctx context.Context, owner, repo string, number int,
) ([]*gh.PullRequestComment, error) {
	var comments []*gh.PullRequestComment
	err := c.call(ctx, "list review comments", func(ctx context.Context) (*gh.Response, error) {
		result, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, number, &gh.PullRequestListCommentsOptions{
			ListOptions: gh.ListOptions{PerPage: PerPage},
		})
		if err == nil {
			comments = result
		}
		return resp, err
	})
	return comments, err
}
