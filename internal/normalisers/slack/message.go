// Package slack normalises chat messages into Contexts.
package slack

import (
	"strings"
	"time"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Ensure MessageNormaliser implements the interface.
var _ driven.Normaliser = (*MessageNormaliser)(nil)

// MessageNormaliser handles chat messages, including thread replies.
type MessageNormaliser struct{}

// NewMessage creates a new chat message normaliser.
func NewMessage() *MessageNormaliser {
	return &MessageNormaliser{}
}

// Kind returns the raw kind this normaliser handles.
func (n *MessageNormaliser) Kind() domain.RawKind {
	return domain.RawKindChatMessage
}

// Normalise converts a raw chat message into a Context. The title is the
// first line of the message text; the channel name fills the channel
// attribute for scope filtering.
func (n *MessageNormaliser) Normalise(raw *domain.RawItem) (*domain.Context, error) {
	if raw == nil || raw.Message == nil {
		return nil, domain.ErrInvalidInput
	}
	msg := raw.Message

	title := msg.Text
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}

	sent := msg.SentAt
	if sent.IsZero() {
		sent = time.Now().UTC()
	}

	channel := msg.ChannelName
	if channel == "" {
		channel = msg.ChannelID
	}
	if channel == "" {
		channel = "unknown"
	}

	author := msg.Author
	if author == "" {
		author = "unknown"
	}

	return &domain.Context{
		Owner:       raw.Owner,
		Source:      domain.SourceChatMessage,
		SourceID:    msg.ChannelID + ":" + msg.Timestamp,
		Title:       domain.TruncateTitle(title),
		Body:        msg.Text,
		ExternalURL: msg.Permalink,
		Attributes: map[string]any{
			"author":       author,
			"channel":      channel,
			"channel_kind": msg.ChannelKind,
			"thread_ts":    msg.ThreadTS,
			"reply_count":  msg.ReplyCount,
			"reactions":    msg.Reactions,
		},
		CreatedAt: sent,
		UpdatedAt: sent,
	}, nil
}
