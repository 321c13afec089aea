package session

import (
	"context"
	"log/slog"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

// ReceiptState is the per-message read state from one participant's view.
type ReceiptState int

const (
	// Unsent: the message has no authoritative id yet.
	Unsent ReceiptState = iota
	// SentUnread: persisted, not yet viewed by the recipient.
	SentUnread
	// SentRead: viewed by the recipient. Terminal.
	SentRead
)

// StateOf derives a message's receipt state. Messages without an
// authoritative id were never accepted by the data service.
func StateOf(msg domain.Message) ReceiptState {
	switch {
	case msg.ID == 0:
		return Unsent
	case msg.Read:
		return SentRead
	default:
		return SentUnread
	}
}

// Reconciler propagates read transitions. Two triggers exist: the local user
// opening a conversation with unread inbound messages, and the remote peer's
// acknowledgment arriving over the realtime channel for the local user's own
// outgoing messages. Both are idempotent; duplicate acknowledgments are
// expected under at-least-once delivery and must be no-ops.
type Reconciler struct {
	backend Backend
	rt      Realtime
	store   *ConversationStore
	channel *Channel
	userID  int64
	logger  *slog.Logger
}

// NewReconciler wires a reconciler for the logged-in user.
func NewReconciler(b Backend, rt Realtime, store *ConversationStore, channel *Channel, userID int64, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		backend: b,
		rt:      rt,
		store:   store,
		channel: channel,
		userID:  userID,
		logger:  logger.With("component", "receipts"),
	}
}

// MarkConversationRead handles the local trigger: the user opened the
// conversation (or received a message while it was open). From the caller's
// perspective three things happen as one step: the data service is notified,
// the peer is notified over the realtime channel, and the cached list's
// most recent peer-authored summary is patched to read. Individual failures
// are logged and never surfaced; the next refetch reconciles.
func (r *Reconciler) MarkConversationRead(ctx context.Context, conversationID int64) {
	if err := r.backend.MarkRead(ctx, conversationID, r.userID); err != nil {
		r.logger.Warn("mark read failed", "conversation_id", conversationID, "error", err)
	}
	if err := r.rt.AnnounceRead(conversationID, r.userID); err != nil {
		r.logger.Warn("read announcement failed", "conversation_id", conversationID, "error", err)
	}
	r.store.MarkLastMessageRead(conversationID, r.userID, false)
}

// ApplyReadAck handles the remote trigger: the peer acknowledged reading the
// conversation. The local user's own outgoing messages flip to read, both in
// the cached list summary and in the open history if this conversation is
// the open one.
func (r *Reconciler) ApplyReadAck(conversationID int64) {
	r.store.MarkLastMessageRead(conversationID, r.userID, true)
	if openID, ok := r.channel.Current(); ok && openID == conversationID {
		r.channel.MarkOwnRead(r.userID)
	}
}
