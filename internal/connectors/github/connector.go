package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/executor"
	"github.com/worklens/worklens/internal/logger"
)

// Ensure Connector implements the interfaces.
var (
	_ driven.Connector     = (*Connector)(nil)
	_ driven.DetailFetcher = (*Connector)(nil)
)

// MetadataLogin is the site metadata key holding the GitHub login.
const MetadataLogin = "login"

// Connector fetches a user's GitHub activity: authored pull requests,
// involved issues, reviewed pull requests, and pushed commits.
type Connector struct {
	exec *executor.Executor
}

// New creates a GitHub connector sharing the given executor.
func New(exec *executor.Executor) *Connector {
	return &Connector{exec: exec}
}

// Type returns the provider identifier.
func (c *Connector) Type() domain.ProviderType {
	return domain.ProviderGitHub
}

// Validate verifies the integration's token with a lightweight user lookup.
func (c *Connector) Validate(ctx context.Context, integration domain.Integration) error {
	client := NewClient(ctx, integration.AccessToken, c.exec)
	if _, err := client.AuthenticatedLogin(ctx); err != nil {
		return fmt.Errorf("validate github token: %w", err)
	}
	return nil
}

// FetchSince streams the account's activity updated at or after since. The
// three search streams and the commit enumeration run sequentially under
// one shared rate limiter; results are deduplicated by source id.
func (c *Connector) FetchSince(
	ctx context.Context, integration domain.Integration, since time.Time,
) (<-chan domain.RawItem, <-chan error) {
	itemsChan := make(chan domain.RawItem)
	errsChan := make(chan error, 8)

	go func() {
		defer close(itemsChan)
		defer close(errsChan)

		client := NewClient(ctx, integration.AccessToken, c.exec)

		login := integration.Site(MetadataLogin)
		if login == "" {
			resolved, err := client.AuthenticatedLogin(ctx)
			if err != nil {
				errsChan <- fmt.Errorf("resolve login: %w", err)
				return
			}
			login = resolved
		}

		seen := make(map[string]bool)
		emitted := 0
		emit := func(item domain.RawItem) bool {
			key := item.Kind.String() + "|" + item.SourceID()
			if seen[key] {
				return true
			}
			seen[key] = true
			select {
			case <-ctx.Done():
				return false
			case itemsChan <- item:
				emitted++
				return true
			}
		}
		report := func(err error) {
			logger.Debug("github item error: %v", err)
			sendItemError(ctx, errsChan, err)
		}

		streams := []struct {
			name  string
			fetch func() ([]domain.RawItem, error)
		}{
			{"authored pulls", func() ([]domain.RawItem, error) {
				return fetchAuthoredPulls(ctx, client, integration.Owner, login, since)
			}},
			{"involved issues", func() ([]domain.RawItem, error) {
				return fetchInvolvedIssues(ctx, client, integration.Owner, login, since)
			}},
			{"reviewed pulls", func() ([]domain.RawItem, error) {
				return fetchReviewedPulls(ctx, client, integration.Owner, login, since)
			}},
		}

		for _, stream := range streams {
			items, err := stream.fetch()
			if err != nil {
				if domain.Classify(err) == domain.ClassAuth {
					errsChan <- err
					return
				}
				report(&domain.ItemError{
					Provider: domain.ProviderGitHub,
					Unit:     stream.name,
					Err:      err,
				})
				continue
			}
			for _, item := range items {
				if !emit(item) {
					return
				}
			}
		}

		err := fetchCommits(ctx, client, integration.Owner, login, since,
			func(item domain.RawItem) { emit(item) }, report)
		if err != nil {
			errsChan <- err
			return
		}

		errsChan <- &driven.FetchComplete{Items: emitted}
	}()

	return itemsChan, errsChan
}

// sendItemError delivers err on errsChan, blocking until the consumer
// takes it or ctx is cancelled. Item errors become part of the sync
// result, so a full buffer must never drop them. Reports whether the
// error was delivered.
func sendItemError(ctx context.Context, errsChan chan<- error, err error) bool {
	select {
	case errsChan <- err:
		return true
	case <-ctx.Done():
		return false
	}
}

// FetchDetail returns rich pull request detail for one source id of the
// form "owner/name#number": diff stats, check runs, and review threads.
// Used on demand, never during bulk sync.
func (c *Connector) FetchDetail(
	ctx context.Context, integration domain.Integration, sourceID string,
) (map[string]any, error) {
	client := NewClient(ctx, integration.AccessToken, c.exec)
	return fetchPullDetail(ctx, client, sourceID)
}

func fetchPullDetail(ctx context.Context, client *Client, sourceID string) (map[string]any, error) {
	owner, name, number, err := splitPullID(sourceID)
	if err != nil {
		return nil, err
	}

	pr, err := client.GetPullRequest(ctx, owner, name, number)
	if err != nil {
		return nil, fmt.Errorf("get pull request: %w", err)
	}

	detail := map[string]any{
		"additions":     pr.GetAdditions(),
		"deletions":     pr.GetDeletions(),
		"changed_files": pr.GetChangedFiles(),
		"mergeable":     pr.GetMergeable(),
		"head_branch":   pr.GetHead().GetRef(),
		"base_branch":   pr.GetBase().GetRef(),
	}

	// Check runs and review threads are best-effort enrichment.
	if runs, err := client.ListCheckRuns(ctx, owner, name, pr.GetHead().GetSHA()); err == nil {
		checks := make([]map[string]any, 0, len(runs))
		for _, run := range runs {
			checks = append(checks, map[string]any{
				"name":       run.GetName(),
				"status":     run.GetStatus(),
				"conclusion": run.GetConclusion(),
			})
		}
		detail["check_runs"] = checks
	}

	if comments, err := client.ListReviewThreads(ctx, owner, name, number); err == nil {
		threads := make([]map[string]any, 0, len(comments))
		for _, comment := range comments {
			threads = append(threads, map[string]any{
				"author": comment.GetUser().GetLogin(),
				"path":   comment.GetPath(),
				"body":   comment.GetBody(),
			})
		}
		detail["review_threads"] = threads
	}

	return detail, nil
}

// splitPullID parses "owner/name#number".
func splitPullID(sourceID string) (owner, name string, number int, err error) {
	repo, numPart, ok := strings.Cut(sourceID, "#")
	if !ok {
		return "", "", 0, fmt.Errorf("%w: malformed pull id %q", domain.ErrInvalidInput, sourceID)
	}
	owner, name, ok = strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", 0, fmt.Errorf("%w: malformed pull id %q", domain.ErrInvalidInput, sourceID)
	}
	number, convErr := strconv.Atoi(numPart)
	if convErr != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("%w: malformed pull id %q", domain.ErrInvalidInput, sourceID)
	}
	return owner, name, number, nil
}
