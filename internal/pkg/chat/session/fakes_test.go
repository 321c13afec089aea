package session

import (
	"context"
	"sync"
	"time"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

// fakeBackend is an in-memory stand-in for the data service.
type fakeBackend struct {
	mu sync.Mutex

	users         []domain.User
	conversations []domain.Conversation
	histories     map[int64][]domain.Message

	conversationFetches int
	openCalls           int
	markReadCalls       []int64
	sent                []domain.Message

	nextMessageID      int64
	nextConversationID int64

	sendErr     error
	messagesErr error
	markReadErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		histories:          make(map[int64][]domain.Message),
		nextMessageID:      100,
		nextConversationID: 10,
	}
}

func (b *fakeBackend) Conversations(_ context.Context, _ int64) ([]domain.Conversation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversationFetches++
	return append([]domain.Conversation(nil), b.conversations...), nil
}

func (b *fakeBackend) Messages(_ context.Context, conversationID int64) ([]domain.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.messagesErr != nil {
		return nil, b.messagesErr
	}
	return append([]domain.Message(nil), b.histories[conversationID]...), nil
}

func (b *fakeBackend) Users(_ context.Context) ([]domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.User(nil), b.users...), nil
}

func (b *fakeBackend) OpenConversation(_ context.Context, user1ID, user2ID int64) (domain.Conversation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.openCalls++
	pair := domain.NewPairKey(user1ID, user2ID)
	for _, c := range b.conversations {
		if c.Pair() == pair {
			return c, nil
		}
	}
	b.nextConversationID++
	conv := domain.Conversation{
		ID:        b.nextConversationID,
		User1:     domain.User{ID: user1ID},
		User2:     domain.User{ID: user2ID},
		UpdatedAt: time.Now(),
	}
	b.conversations = append(b.conversations, conv)
	return conv, nil
}

func (b *fakeBackend) SendMessage(_ context.Context, content string, senderID, conversationID int64) (domain.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return domain.Message{}, b.sendErr
	}
	b.nextMessageID++
	msg := domain.Message{
		ID:             b.nextMessageID,
		Content:        content,
		CreatedAt:      time.Now(),
		Sender:         domain.Sender{ID: senderID},
		ConversationID: conversationID,
	}
	b.histories[conversationID] = append(b.histories[conversationID], msg)
	b.sent = append(b.sent, msg)
	return msg, nil
}

func (b *fakeBackend) MarkRead(_ context.Context, conversationID, _ int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.markReadErr != nil {
		return b.markReadErr
	}
	b.markReadCalls = append(b.markReadCalls, conversationID)
	return nil
}

func (b *fakeBackend) markReadCount(conversationID int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, id := range b.markReadCalls {
		if id == conversationID {
			n++
		}
	}
	return n
}

func (b *fakeBackend) fetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversationFetches
}

// fakeRealtime records emissions and lets tests inject inbound events.
type fakeRealtime struct {
	mu        sync.Mutex
	connected int64
	handlers  Handlers
	sends     []domain.Message
	reads     [][2]int64 // conversationID, userID

	announceReadErr error
}

func (f *fakeRealtime) Connect(_ context.Context, userID int64) error {
	f.mu.Lock()
	f.connected = userID
	f.mu.Unlock()
	return nil
}

func (f *fakeRealtime) Bind(h Handlers) {
	f.mu.Lock()
	f.handlers = h
	f.mu.Unlock()
}

func (f *fakeRealtime) Unbind() {
	f.Bind(Handlers{})
}

func (f *fakeRealtime) AnnounceSend(msg domain.Message) error {
	f.mu.Lock()
	f.sends = append(f.sends, msg)
	f.mu.Unlock()
	return nil
}

func (f *fakeRealtime) AnnounceRead(conversationID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.announceReadErr != nil {
		return f.announceReadErr
	}
	f.reads = append(f.reads, [2]int64{conversationID, userID})
	return nil
}

func (f *fakeRealtime) Close() error { return nil }

// deliver simulates an inbound nova_mensagem frame.
func (f *fakeRealtime) deliver(msg domain.Message) {
	f.mu.Lock()
	h := f.handlers
	f.mu.Unlock()
	if h.MessageArrived != nil {
		h.MessageArrived(msg)
	}
}

// ackRead simulates an inbound mensagens_lidas frame.
func (f *fakeRealtime) ackRead(conversationID int64) {
	f.mu.Lock()
	h := f.handlers
	f.mu.Unlock()
	if h.ReadAck != nil {
		h.ReadAck(conversationID)
	}
}

func (f *fakeRealtime) readAnnouncements() [][2]int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]int64(nil), f.reads...)
}

func (f *fakeRealtime) sentAnnouncements() []domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Message(nil), f.sends...)
}
