package slack

import (
	"context"
	"fmt"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/executor"
	"github.com/worklens/worklens/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// conversationTypes lists every conversation kind the sync covers.
var conversationTypes = []string{"public_channel", "private_channel", "im", "mpim"}

// Connector fetches messages from every conversation the account can see.
type Connector struct {
	exec *executor.Executor
}

// New creates a Slack connector sharing the given executor.
func New(exec *executor.Executor) *Connector {
	return &Connector{exec: exec}
}

// Type returns the provider identifier.
func (c *Connector) Type() domain.ProviderType {
	return domain.ProviderSlack
}

// Validate verifies the token with an auth test.
func (c *Connector) Validate(ctx context.Context, integration domain.Integration) error {
	client := slackapi.New(integration.AccessToken)
	return c.exec.Do(ctx, func(ctx context.Context) error {
		return executor.Retry(ctx, executor.DefaultPolicy(), func(ctx context.Context) error {
			_, err := client.AuthTestContext(ctx)
			return wrapError(err, "auth test")
		})
	})
}

// FetchSince streams messages sent at or after since across every
// conversation. A failed conversation is reported as an item error and the
// stream moves on; threads are fetched for parents with replies.
func (c *Connector) FetchSince(
	ctx context.Context, integration domain.Integration, since time.Time,
) (<-chan domain.RawItem, <-chan error) {
	itemsChan := make(chan domain.RawItem)
	errsChan := make(chan error, 16)

	go func() {
		defer close(itemsChan)
		defer close(errsChan)

		client := slackapi.New(integration.AccessToken)

		channels, err := c.listConversations(ctx, client)
		if err != nil {
			errsChan <- err
			return
		}

		emitted := 0
		emit := func(channel *slackapi.Channel, msg *slackapi.Message) bool {
			if skippable(msg) {
				return true
			}
			item := domain.RawItem{
				Kind:    domain.RawKindChatMessage,
				Owner:   integration.Owner,
				Message: buildRawMessage(channel, msg),
			}
			select {
			case <-ctx.Done():
				return false
			case itemsChan <- item:
				emitted++
				return true
			}
		}

		for i := range channels {
			channel := &channels[i]
			if err := c.fetchConversation(ctx, client, channel, since, emit); err != nil {
				if domain.Classify(err) == domain.ClassAuth {
					errsChan <- err
					return
				}
				itemErr := &domain.ItemError{
					Provider: domain.ProviderSlack,
					Unit:     unitName(channel),
					Err:      err,
				}
				logger.Debug("slack conversation error: %v", itemErr)
				if !sendItemError(ctx, errsChan, itemErr) {
					return
				}
			}
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

// listConversations enumerates every conversation kind with cursor
// pagination.
func (c *Connector) listConversations(
	ctx context.Context, client *slackapi.Client,
) ([]slackapi.Channel, error) {
	var all []slackapi.Channel
	cursor := ""

	for {
		var page []slackapi.Channel
		var next string
		err := c.exec.Do(ctx, func(ctx context.Context) error {
			return executor.Retry(ctx, executor.DefaultPolicy(), func(ctx context.Context) error {
				channels, nextCursor, err := client.GetConversationsContext(ctx, &slackapi.GetConversationsParameters{
					Types:           conversationTypes,
					Cursor:          cursor,
					Limit:           historyPageSize,
					ExcludeArchived: true,
				})
				if err != nil {
					return wrapError(err, "list conversations")
				}
				page = channels
				next = nextCursor
				return nil
			})
		})
		if err != nil {
			return nil, err
		}

		all = append(all, page...)

		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// fetchConversation pages through one conversation's history and the
// threads hanging off it.
func (c *Connector) fetchConversation(
	ctx context.Context, client *slackapi.Client, channel *slackapi.Channel,
	since time.Time, emit func(*slackapi.Channel, *slackapi.Message) bool,
) error {
	oldest := slackTimestamp(since)
	cursor := ""

	for {
		var resp *slackapi.GetConversationHistoryResponse
		err := c.exec.Do(ctx, func(ctx context.Context) error {
			return executor.Retry(ctx, executor.DefaultPolicy(), func(ctx context.Context) error {
				history, err := client.GetConversationHistoryContext(ctx, &slackapi.GetConversationHistoryParameters{
					ChannelID: channel.ID,
					Oldest:    oldest,
					Cursor:    cursor,
					Limit:     historyPageSize,
				})
				if err != nil {
					return wrapError(err, "conversation history")
				}
				resp = history
				return nil
			})
		})
		if err != nil {
			return err
		}

		for i := range resp.Messages {
			msg := &resp.Messages[i]
			if !emit(channel, msg) {
				return ctx.Err()
			}
			if msg.ReplyCount > 0 && msg.ThreadTimestamp != "" {
				if err := c.fetchThread(ctx, client, channel, msg.ThreadTimestamp, emit); err != nil {
					return err
				}
			}
		}

		if !resp.HasMore || resp.ResponseMetaData.NextCursor == "" {
			return nil
		}
		cursor = resp.ResponseMetaData.NextCursor
	}
}

// fetchThread pages through one thread's replies. The parent message comes
// back as the first reply and is skipped.
func (c *Connector) fetchThread(
	ctx context.Context, client *slackapi.Client, channel *slackapi.Channel,
	threadTS string, emit func(*slackapi.Channel, *slackapi.Message) bool,
) error {
	cursor := ""

	for {
		var replies []slackapi.Message
		var more bool
		var next string
		err := c.exec.Do(ctx, func(ctx context.Context) error {
			return executor.Retry(ctx, executor.DefaultPolicy(), func(ctx context.Context) error {
				msgs, hasMore, nextCursor, err := client.GetConversationRepliesContext(ctx, &slackapi.GetConversationRepliesParameters{
					ChannelID: channel.ID,
					Timestamp: threadTS,
					Cursor:    cursor,
					Limit:     historyPageSize,
				})
				if err != nil {
					return wrapError(err, "thread replies")
				}
				replies = msgs
				more = hasMore
				next = nextCursor
				return nil
			})
		})
		if err != nil {
			return err
		}

		for i := range replies {
			msg := &replies[i]
			if msg.Timestamp == threadTS {
				continue
			}
			if !emit(channel, msg) {
				return ctx.Err()
			}
		}

		if !more || next == "" {
			return nil
		}
		cursor = next
	}
}

// unitName is a helper for error reporting in logs.
func unitName(channel *slackapi.Channel) string {
	if channel.Name != "" {
		return channel.Name
	}
	return fmt.Sprintf("conversation %s", channel.ID)
}
