package domain

import (
	"errors"
	"strings"
	"time"
)

// Domain-level errors for conversation behaviors
var (
	ErrNotParticipant = errors.New("chat: sender is not a participant in the conversation")
	ErrEmptyMessage   = errors.New("chat: message body is empty")
	ErrNoConversation = errors.New("chat: no conversation is open")
)

// Sender is the message author as embedded by the data service.
type Sender struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// Message is an immutable log entry in a conversation. The data service owns
// the record and assigns the ID; this core only holds cached projections.
//
// Read is monotonic: it moves false -> true exactly once and never reverts.
// Conversation and sender are fixed at creation.
type Message struct {
	ID             int64     `json:"id"`
	Content        string    `json:"conteudo"`
	CreatedAt      time.Time `json:"createdAt"`
	Read           bool      `json:"lida"`
	Sender         Sender    `json:"remetente"`
	ConversationID int64     `json:"conversaId"`
}

// SentBy tells whether the message was authored by userID.
func (m Message) SentBy(userID int64) bool {
	return m.Sender.ID == userID
}

// ValidateDraft checks an outgoing message body before it is submitted.
// Whitespace-only content counts as empty.
func ValidateDraft(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyMessage
	}
	return nil
}
