// Package session implements the client-side conversation core: the
// realtime transport, the open-conversation message channel, read-receipt
// reconciliation, the conversation and contact caches and the unified list
// they compose into.
package session

import (
	"context"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

// Backend is the slice of the data service this core consumes. The concrete
// implementation lives in the backend package; tests substitute fakes.
type Backend interface {
	Conversations(ctx context.Context, userID int64) ([]domain.Conversation, error)
	Messages(ctx context.Context, conversationID int64) ([]domain.Message, error)
	Users(ctx context.Context) ([]domain.User, error)
	OpenConversation(ctx context.Context, user1ID, user2ID int64) (domain.Conversation, error)
	SendMessage(ctx context.Context, content string, senderID, conversationID int64) (domain.Message, error)
	MarkRead(ctx context.Context, conversationID, userID int64) error
}

// Handlers receives inbound realtime events. Exactly one handler set is
// active per transport at any time; binding a new set replaces the previous
// one so a remounted view never processes events twice.
type Handlers struct {
	// MessageArrived fires for every nova_mensagem frame, regardless of which
	// conversation it belongs to.
	MessageArrived func(msg domain.Message)
	// ReadAck fires when the peer acknowledged reading a conversation.
	ReadAck func(conversationID int64)
}

// Realtime is the persistent duplex channel shared by the whole session. It
// is established once and reused across conversation switches. There is no
// reconnect policy: after a drop the session silently stops receiving events
// and relies on REST fetches for reconciliation.
type Realtime interface {
	// Connect establishes the channel and announces the user's presence.
	Connect(ctx context.Context, userID int64) error
	// Bind installs the handler set, replacing any previous one.
	Bind(h Handlers)
	// Unbind removes the active handler set.
	Unbind()
	// AnnounceSend notifies the channel of a message already persisted by the
	// data service.
	AnnounceSend(msg domain.Message) error
	// AnnounceRead notifies the channel that userID read the conversation.
	AnnounceRead(conversationID, userID int64) error
	// Close tears the channel down.
	Close() error
}
