package jira

import (
	"context"
	"fmt"
	"time"

	gojira "github.com/andygrunwald/go-jira"
	"golang.org/x/oauth2"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/executor"
	"github.com/worklens/worklens/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Site metadata keys.
const (
	// MetadataCloudID is the Atlassian cloud id routing API calls through
	// the api.atlassian.com gateway.
	MetadataCloudID = "cloud_id"

	// MetadataSiteURL is the user-facing site, e.g. https://acme.atlassian.net.
	MetadataSiteURL = "site_url"
)

// gatewayBase is the OAuth API gateway. Direct site URLs only accept basic
// auth; OAuth tokens must go through the gateway with the cloud id.
const gatewayBase = "https://api.atlassian.com/ex/jira/%s/"

// Connector fetches tickets the account is assigned to or reported.
type Connector struct {
	exec *executor.Executor
}

// New creates a Jira connector sharing the given executor.
func New(exec *executor.Executor) *Connector {
	return &Connector{exec: exec}
}

// Type returns the provider identifier.
func (c *Connector) Type() domain.ProviderType {
	return domain.ProviderJira
}

// newClient builds a go-jira client routed through the Atlassian gateway.
func (c *Connector) newClient(ctx context.Context, integration domain.Integration) (*gojira.Client, error) {
	cloudID := integration.Site(MetadataCloudID)
	if cloudID == "" {
		return nil, fmt.Errorf("%w: integration missing jira cloud id", domain.ErrInvalidInput)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: integration.AccessToken})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = 30 * time.Second

	client, err := gojira.NewClient(httpClient, fmt.Sprintf(gatewayBase, cloudID))
	if err != nil {
		return nil, fmt.Errorf("create jira client: %w", err)
	}
	return client, nil
}

// Validate verifies the token with a self lookup.
func (c *Connector) Validate(ctx context.Context, integration domain.Integration) error {
	client, err := c.newClient(ctx, integration)
	if err != nil {
		return err
	}

	return c.exec.Do(ctx, func(ctx context.Context) error {
		return executor.Retry(ctx, executor.DefaultPolicy(), func(ctx context.Context) error {
			_, resp, err := client.User.GetSelfWithContext(ctx)
			return wrapError(resp, err, "get self")
		})
	})
}

// FetchSince streams tickets updated at or after since. The scoped query
// runs first; when the site rejects it the broader recency fallback runs
// instead of failing the sync.
func (c *Connector) FetchSince(
	ctx context.Context, integration domain.Integration, since time.Time,
) (<-chan domain.RawItem, <-chan error) {
	itemsChan := make(chan domain.RawItem)
	errsChan := make(chan error, 1)

	go func() {
		defer close(itemsChan)
		defer close(errsChan)

		client, err := c.newClient(ctx, integration)
		if err != nil {
			errsChan <- err
			return
		}

		issues, err := c.search(ctx, client, since)
		if err != nil {
			errsChan <- err
			return
		}

		siteURL := integration.Site(MetadataSiteURL)
		emitted := 0
		for i := range issues {
			item := domain.RawItem{
				Kind:   domain.RawKindTicket,
				Owner:  integration.Owner,
				Ticket: buildRawTicket(issues[i], siteURL),
			}
			select {
			case <-ctx.Done():
				return
			case itemsChan <- item:
				emitted++
			}
		}

		errsChan <- &driven.FetchComplete{Items: emitted}
	}()

	return itemsChan, errsChan
}

// search runs the scoped query, falling back when the site rejects it.
func (c *Connector) search(
	ctx context.Context, client *gojira.Client, since time.Time,
) ([]gojira.Issue, error) {
	var issues []gojira.Issue

	err := c.exec.Do(ctx, func(ctx context.Context) error {
		return executor.Retry(ctx, executor.DefaultPolicy(), func(ctx context.Context) error {
			found, resp, err := searchTickets(ctx, client, primaryJQL(since))
			if err != nil && isQueryRejected(resp) {
				logger.Debug("jira scoped search rejected, using recency fallback")
				found, resp, err = searchTickets(ctx, client, fallbackJQL(since))
			}
			if err != nil {
				return wrapError(resp, err, "search tickets")
			}
			issues = found
			return nil
		})
	})

	return issues, err
}
