package domain

import "time"

// RawKind discriminates the tagged RawItem variants.
type RawKind int

// Raw item kinds, one per source type.
const (
	RawKindPull RawKind = iota
	RawKindIssue
	RawKindReview
	RawKindCommit
	RawKindTicket
	RawKindChatMessage
)

// String returns the kind name for logging.
func (k RawKind) String() string {
	switch k {
	case RawKindPull:
		return "pull"
	case RawKindIssue:
		return "issue"
	case RawKindReview:
		return "review"
	case RawKindCommit:
		return "commit"
	case RawKindTicket:
		return "ticket"
	case RawKindChatMessage:
		return "chat_message"
	}
	return "unknown"
}

// RawItem is a connector's output before normalisation. Exactly one of the
// payload pointers is set, matching Kind. Modelling the provider payloads as
// a closed tagged variant keeps the normaliser dispatch exhaustive: adding a
// source kind is a compile-time change, not a runtime guess.
type RawItem struct {
	Kind  RawKind
	Owner string

	Pull    *RawPull
	Issue   *RawIssue
	Review  *RawReview
	Commit  *RawCommit
	Ticket  *RawTicket
	Message *RawChatMessage
}

// SourceID returns the provider-native identifier of the payload.
func (r *RawItem) SourceID() string {
	switch r.Kind {
	case RawKindPull:
		if r.Pull != nil {
			return r.Pull.SourceID
		}
	case RawKindIssue:
		if r.Issue != nil {
			return r.Issue.SourceID
		}
	case RawKindReview:
		if r.Review != nil {
			return r.Review.SourceID
		}
	case RawKindCommit:
		if r.Commit != nil {
			return r.Commit.SHA
		}
	case RawKindTicket:
		if r.Ticket != nil {
			return r.Ticket.Key
		}
	case RawKindChatMessage:
		if r.Message != nil {
			return r.Message.ChannelID + ":" + r.Message.Timestamp
		}
	}
	return ""
}

// RawPull is a provider-shaped pull request.
type RawPull struct {
	SourceID  string
	Number    int
	Title     string
	Body      string
	State     string
	Draft     bool
	Merged    bool
	Author    string
	Repo      string // owner/name
	URL       string
	Labels    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RawIssue is a provider-shaped code-hosting issue.
type RawIssue struct {
	SourceID  string
	Number    int
	Title     string
	Body      string
	State     string
	Author    string
	Repo      string
	URL       string
	Labels    []string
	Comments  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RawReview is a pull request the account reviewed.
type RawReview struct {
	SourceID  string
	Number    int
	Title     string
	Body      string
	State     string
	Author    string // PR author, not the reviewer
	Repo      string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RawCommit is a single commit from a repository listing.
type RawCommit struct {
	SHA       string
	Message   string
	Author    string
	Repo      string
	URL       string
	Additions int
	Deletions int
	CreatedAt time.Time
}

// RawTicket is an issue-tracker ticket.
type RawTicket struct {
	Key         string
	Summary     string
	Description string
	Status      string
	Priority    string
	IssueType   string
	Assignee    string
	Reporter    string
	Project     string
	URL         string
	Labels      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RawChatMessage is a chat message, optionally part of a thread.
type RawChatMessage struct {
	ChannelID   string
	ChannelName string
	ChannelKind string // public, private, im, mpim
	Timestamp   string // provider message timestamp, also the id within a channel
	ThreadTS    string // parent timestamp when this is a thread reply
	Author      string
	Text        string
	ReplyCount  int
	Reactions   []string
	Permalink   string
	SentAt      time.Time
}
