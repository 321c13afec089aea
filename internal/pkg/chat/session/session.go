package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

// Session is the conversation core of one logged-in user. It owns the
// realtime transport, the conversation and contact caches, the open-channel
// state and the read-receipt reconciler, and it is the only writer of each.
//
// The transport is injected, not ambient: create the session at login,
// Start it once, Close it at logout.
type Session struct {
	self    domain.User
	backend Backend
	rt      Realtime

	Conversations *ConversationStore
	Contacts      *ContactDirectory
	Channel       *Channel

	receipts *Reconciler
	logger   *slog.Logger

	// ctx scopes event-driven refetches to the session lifetime.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession wires a session for the logged-in user.
func NewSession(self domain.User, b Backend, rt Realtime, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "session", "user_id", self.ID)

	store := NewConversationStore()
	channel := NewChannel()
	return &Session{
		self:          self,
		backend:       b,
		rt:            rt,
		Conversations: store,
		Contacts:      NewContactDirectory(),
		Channel:       channel,
		receipts:      NewReconciler(b, rt, store, channel, self.ID, logger),
		logger:        logger,
	}
}

// Self returns the logged-in user.
func (s *Session) Self() domain.User {
	return s.self
}

// Start connects the realtime channel, announces presence, binds the event
// handlers and performs the initial fetches. Fetch failures degrade to empty
// caches and are logged; a later signal or manual refresh reconciles.
func (s *Session) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if err := s.rt.Connect(s.ctx, s.self.ID); err != nil {
		return fmt.Errorf("session: connect realtime: %w", err)
	}
	s.rt.Bind(Handlers{
		MessageArrived: s.onMessageArrived,
		ReadAck:        s.onReadAck,
	})

	if err := s.RefreshContacts(s.ctx); err != nil {
		s.logger.Warn("initial contact fetch failed", "error", err)
	}
	if err := s.RefreshConversations(s.ctx); err != nil {
		s.logger.Warn("initial conversation fetch failed", "error", err)
	}
	return nil
}

// Close unbinds the handlers and tears the realtime channel down.
func (s *Session) Close() error {
	s.rt.Unbind()
	if s.cancel != nil {
		s.cancel()
	}
	return s.rt.Close()
}

// RefreshConversations replaces the conversation cache from the data
// service.
func (s *Session) RefreshConversations(ctx context.Context) error {
	conversations, err := s.backend.Conversations(ctx, s.self.ID)
	if err != nil {
		return err
	}
	s.Conversations.Replace(conversations)
	return nil
}

// RefreshContacts replaces the contact directory from the data service.
func (s *Session) RefreshContacts(ctx context.Context) error {
	users, err := s.backend.Users(ctx)
	if err != nil {
		return err
	}
	s.Contacts.Replace(users, s.self.ID)
	return nil
}

// List composes the unified, render-ready list from the current caches.
func (s *Session) List() []ListItem {
	return ComposeList(s.Contacts.Snapshot(), s.Conversations.Snapshot(), s.self.ID)
}

// OpenConversation switches the channel to the conversation, fetches its
// history and then marks it read. The order is fixed: read-marking must
// follow history retrieval so the reconciler never marks messages it does
// not hold locally; on a failed fetch the marking is skipped entirely.
func (s *Session) OpenConversation(ctx context.Context, conv domain.Conversation) error {
	s.Channel.Open(conv)

	history, err := s.backend.Messages(ctx, conv.ID)
	if err != nil {
		s.logger.Warn("history fetch failed", "conversation_id", conv.ID, "error", err)
		return err
	}
	s.Channel.SetHistory(conv.ID, history)
	s.receipts.MarkConversationRead(ctx, conv.ID)
	return nil
}

// OpenWith opens the conversation with the given contact, creating it lazily
// through the data service's find-or-create endpoint on the first exchange.
// Repeated calls for the same pair always land on the same conversation.
func (s *Session) OpenWith(ctx context.Context, contact domain.User) error {
	pair := domain.NewPairKey(s.self.ID, contact.ID)
	if conv, ok := s.Conversations.Find(pair); ok {
		return s.OpenConversation(ctx, conv)
	}

	conv, err := s.backend.OpenConversation(ctx, s.self.ID, contact.ID)
	if err != nil {
		return fmt.Errorf("session: open conversation: %w", err)
	}
	if err := s.RefreshConversations(ctx); err != nil {
		s.logger.Warn("conversation refetch failed", "error", err)
	}
	return s.OpenConversation(ctx, conv)
}

// CloseConversation leaves the open conversation, if any.
func (s *Session) CloseConversation() {
	s.Channel.Close()
}

// Send persists the draft through the data service, appends the accepted
// message locally, refreshes the conversation list and announces the send on
// the realtime channel. On failure nothing is appended and nothing is
// retried; the error is logged and returned so the caller can keep the draft
// in place.
func (s *Session) Send(ctx context.Context, content string) (domain.Message, error) {
	if err := domain.ValidateDraft(content); err != nil {
		return domain.Message{}, err
	}
	conv, ok := s.Channel.Conversation()
	if !ok {
		return domain.Message{}, domain.ErrNoConversation
	}

	msg, err := s.backend.SendMessage(ctx, content, s.self.ID, conv.ID)
	if err != nil {
		s.logger.Warn("send failed", "conversation_id", conv.ID, "error", err)
		return domain.Message{}, err
	}

	msg.Read = false
	s.Channel.Append(msg)
	if err := s.RefreshConversations(ctx); err != nil {
		s.logger.Warn("conversation refetch failed", "error", err)
	}
	if err := s.rt.AnnounceSend(msg); err != nil {
		s.logger.Warn("send announcement failed", "message_id", msg.ID, "error", err)
	}
	return msg, nil
}

// onMessageArrived handles nova_mensagem. The open-conversation identity is
// read from the channel at event time, never captured: a message for the
// open conversation appends (idempotently, in case the frame echoes a local
// send) and is immediately marked read; a message for any other conversation
// only triggers the coarse list refetch.
func (s *Session) onMessageArrived(msg domain.Message) {
	if openID, ok := s.Channel.Current(); ok && openID == msg.ConversationID {
		if s.Channel.Append(msg) {
			s.receipts.MarkConversationRead(s.ctx, msg.ConversationID)
		}
	}
	if err := s.RefreshConversations(s.ctx); err != nil {
		s.logger.Warn("conversation refetch failed", "error", err)
	}
}

// onReadAck handles mensagens_lidas: the peer read the conversation, so the
// local user's own outgoing messages flip to read.
func (s *Session) onReadAck(conversationID int64) {
	s.receipts.ApplyReadAck(conversationID)
}
