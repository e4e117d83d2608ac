package wire

import (
	"time"

	"github.com/felixgeelhaar/matchme/internal/remote"
)

// Recipient is the other party of a conversation
type Recipient struct {
	ID          *string `json:"id" validate:"required"`
	DisplayName *string `json:"display_name" validate:"required"`
	URL         *string `json:"url" validate:"required"`
}

// LastChat summarizes the latest message. Every field is nullable.
type LastChat struct {
	ID                 *string           `json:"id"`
	Author             *string           `json:"author"`
	Message            *string           `json:"message"`
	UnreadMessageCount *int              `json:"unread_message_count"`
	ReplyTo            *string           `json:"reply_to"`
	SentAt             *remote.Timestamp `json:"sent_at"`
	SeenAt             *remote.Timestamp `json:"seen_at"`
	UpdatedAt          *remote.Timestamp `json:"updated_at"`
}

// Conversation is one entry of GET /conversations
type Conversation struct {
	ID        *string           `json:"id" validate:"required"`
	Recipient *Recipient        `json:"recepient" validate:"required"`
	ChatRows  *int              `json:"chat_rows" validate:"required"`
	DayPass   *int              `json:"day_pass" validate:"required"`
	LastChat  *LastChat         `json:"last_chat" validate:"required"`
	UpdatedAt *remote.Timestamp `json:"updated_at" validate:"required"`
	CreatedAt *remote.Timestamp `json:"created_at" validate:"required"`
}

// ConversationPage is the body of GET /conversations. Entries may be null.
type ConversationPage struct {
	Metadata *Metadata      `json:"metadata" validate:"required"`
	Data     []*Conversation `json:"data" validate:"required,dive"`
}

// TimeOf returns the time of an optional timestamp, zero when absent
func TimeOf(t *remote.Timestamp) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.Time
}
