package session

import (
	"sync"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

// Channel holds the ordered message history of the one currently open
// conversation. The open-conversation identity lives here as a mutable cell
// read at event time, so realtime handlers bound once per session always see
// the current conversation instead of a value captured at registration.
type Channel struct {
	mu       sync.RWMutex
	open     *domain.Conversation
	messages []domain.Message
}

// NewChannel constructs a closed channel.
func NewChannel() *Channel {
	return &Channel{}
}

// Open switches the channel to the conversation, clearing any previous
// history. History arrives separately via SetHistory once fetched.
func (ch *Channel) Open(conv domain.Conversation) {
	ch.mu.Lock()
	c := conv
	ch.open = &c
	ch.messages = nil
	ch.mu.Unlock()
}

// Close leaves the current conversation and drops its history.
func (ch *Channel) Close() {
	ch.mu.Lock()
	ch.open = nil
	ch.messages = nil
	ch.mu.Unlock()
}

// Current returns the open conversation id, if any.
func (ch *Channel) Current() (int64, bool) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	if ch.open == nil {
		return 0, false
	}
	return ch.open.ID, true
}

// Conversation returns a copy of the open conversation, if any.
func (ch *Channel) Conversation() (domain.Conversation, bool) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	if ch.open == nil {
		return domain.Conversation{}, false
	}
	return *ch.open, true
}

// SetHistory replaces the channel content with the fetched history. Ignored
// when the channel was closed or switched while the fetch was in flight.
func (ch *Channel) SetHistory(conversationID int64, messages []domain.Message) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.open == nil || ch.open.ID != conversationID {
		return
	}
	ch.messages = append([]domain.Message(nil), messages...)
}

// Append adds a message to the open history. The append is idempotent by
// message id, so a realtime echo of a locally appended message is dropped,
// and it only applies when the message belongs to the open conversation:
// content never leaks into an unrelated open view.
func (ch *Channel) Append(msg domain.Message) bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.open == nil || ch.open.ID != msg.ConversationID {
		return false
	}
	for _, existing := range ch.messages {
		if existing.ID == msg.ID {
			return false
		}
	}
	ch.messages = append(ch.messages, msg)
	return true
}

// MarkOwnRead flips every message authored by userID to read. Used when the
// peer's read acknowledgment arrives for the open conversation. Monotonic
// and idempotent.
func (ch *Channel) MarkOwnRead(userID int64) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for i := range ch.messages {
		if ch.messages[i].SentBy(userID) {
			ch.messages[i].Read = true
		}
	}
}

// Messages returns a copy of the open history.
func (ch *Channel) Messages() []domain.Message {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return append([]domain.Message(nil), ch.messages...)
}
