package slack

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/worklens/worklens/internal/core/domain"
)

// historyPageSize is the per-page message count for history and replies.
const historyPageSize = 200

// slackTimestamp formats a time as a Slack message timestamp for the
// history "oldest" bound.
func slackTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.000000", t.Unix())
}

// parseTimestamp converts a Slack "seconds.fraction" timestamp to a time.
func parseTimestamp(ts string) time.Time {
	secPart, _, _ := strings.Cut(ts, ".")
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// conversationKind maps a channel to the kind attribute value.
func conversationKind(channel *slackapi.Channel) string {
	switch {
	case channel.IsIM:
		return "im"
	case channel.IsMpIM:
		return "mpim"
	case channel.IsPrivate:
		return "private"
	default:
		return "public"
	}
}

// buildRawMessage converts one Slack message inside a conversation to a
// RawChatMessage.
func buildRawMessage(channel *slackapi.Channel, msg *slackapi.Message) *domain.RawChatMessage {
	reactions := make([]string, 0, len(msg.Reactions))
	for _, reaction := range msg.Reactions {
		reactions = append(reactions, reaction.Name)
	}

	threadTS := msg.ThreadTimestamp
	if threadTS == msg.Timestamp {
		// Thread parents carry their own timestamp here; only replies
		// record a distinct parent.
		threadTS = ""
	}

	return &domain.RawChatMessage{
		ChannelID:   channel.ID,
		ChannelName: channel.Name,
		ChannelKind: conversationKind(channel),
		Timestamp:   msg.Timestamp,
		ThreadTS:    threadTS,
		Author:      msg.User,
		Text:        msg.Text,
		ReplyCount:  msg.ReplyCount,
		Reactions:   reactions,
		SentAt:      parseTimestamp(msg.Timestamp),
	}
}

// skippable reports whether a message is channel noise rather than user
// activity: joins, leaves, bot bookkeeping, and empty bodies.
func skippable(msg *slackapi.Message) bool {
	if msg.Text == "" {
		return true
	}
	switch msg.SubType {
	case "", "thread_broadcast", "me_message":
		return false
	default:
		return true
	}
}
