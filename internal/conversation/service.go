// Package conversation lists the viewer's chats.
package conversation

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/felixgeelhaar/matchme/internal/apierr"
	"github.com/felixgeelhaar/matchme/internal/auth"
	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/remote"
	"github.com/felixgeelhaar/matchme/internal/wire"
)

// Recipient is the other party of a conversation
type Recipient struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

// LastChat is the latest message; zero when the conversation has none
type LastChat struct {
	ID          string
	Author      string
	Message     string
	UnreadCount int
	ReplyTo     string
	SentAt      time.Time
	SeenAt      time.Time
	UpdatedAt   time.Time
}

// Conversation is one chat of the viewer
type Conversation struct {
	ID        string
	Recipient Recipient
	ChatRows  int
	DayPass   int
	LastChat  LastChat
	UpdatedAt time.Time
	CreatedAt time.Time
}

// Unread reports whether the last message has not been seen
func (c Conversation) Unread() bool {
	return c.LastChat.UnreadCount > 0
}

// Doer issues API calls
type Doer interface {
	Do(ctx context.Context, req remote.Request, out any) error
}

// Service wraps GET /conversations
type Service struct {
	api    Doer
	logger *slog.Logger
}

// NewService creates a conversation service
func NewService(api Doer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, logger: logger}
}

// List returns one page of conversations
func (s *Service) List(ctx context.Context, sess auth.Session, p domain.Pagination) (domain.Page[Conversation], error) {
	if err := sess.Validate(); err != nil {
		return domain.Page[Conversation]{}, err
	}
	if err := p.Validate(); err != nil {
		return domain.Page[Conversation]{}, err
	}
	p = p.Normalize()

	query := url.Values{}
	query.Set("page", strconv.Itoa(p.Page))
	query.Set("limit", strconv.Itoa(p.Limit))

	var body wire.ConversationPage
	if err := s.api.Do(ctx, remote.Request{
		Method: http.MethodGet,
		Path:   "conversations",
		Token:  sess.Token,
		Query:  query,
	}, &body); err != nil {
		err = apierr.Classify(err)
		s.logger.Debug("list conversations failed", "user_id", sess.UserID, "page", p.Page, "error", err)
		return domain.Page[Conversation]{}, err
	}

	data := make([]*Conversation, len(body.Data))
	unread := 0
	for i, c := range body.Data {
		if c != nil {
			conv := toConversation(c)
			data[i] = &conv
			if conv.Unread() {
				unread++
			}
		}
	}
	s.logger.Debug("conversations listed", "user_id", sess.UserID, "page", p.Page, "count", len(data), "unread", unread)
	return domain.Page[Conversation]{Cursor: body.Metadata.Cursor(), Data: data}, nil
}

func toConversation(c *wire.Conversation) Conversation {
	out := Conversation{
		ID:        str(c.ID),
		ChatRows:  num(c.ChatRows),
		DayPass:   num(c.DayPass),
		UpdatedAt: wire.TimeOf(c.UpdatedAt),
		CreatedAt: wire.TimeOf(c.CreatedAt),
	}
	if r := c.Recipient; r != nil {
		out.Recipient = Recipient{ID: str(r.ID), DisplayName: str(r.DisplayName), AvatarURL: str(r.URL)}
	}
	if l := c.LastChat; l != nil {
		out.LastChat = LastChat{
			ID:          str(l.ID),
			Author:      str(l.Author),
			Message:     str(l.Message),
			UnreadCount: num(l.UnreadMessageCount),
			ReplyTo:     str(l.ReplyTo),
			SentAt:      wire.TimeOf(l.SentAt),
			SeenAt:      wire.TimeOf(l.SeenAt),
			UpdatedAt:   wire.TimeOf(l.UpdatedAt),
		}
	}
	return out
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
