package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

func TestStateOf(t *testing.T) {
	assert.Equal(t, Unsent, StateOf(domain.Message{}))
	assert.Equal(t, SentUnread, StateOf(domain.Message{ID: 1}))
	assert.Equal(t, SentRead, StateOf(domain.Message{ID: 1, Read: true}))
}

func newTestReconciler(b *fakeBackend, rt *fakeRealtime) (*Reconciler, *ConversationStore, *Channel) {
	store := NewConversationStore()
	channel := NewChannel()
	return NewReconciler(b, rt, store, channel, 1, nil), store, channel
}

func TestMarkConversationReadNotifiesEverySide(t *testing.T) {
	b := newFakeBackend()
	rt := &fakeRealtime{}
	r, store, _ := newTestReconciler(b, rt)

	store.Replace([]domain.Conversation{{
		ID:       5,
		Messages: []domain.Message{{ID: 50, Sender: domain.Sender{ID: 2}}},
	}})

	r.MarkConversationRead(context.Background(), 5)

	assert.Equal(t, 1, b.markReadCount(5))
	require.Len(t, rt.readAnnouncements(), 1)
	assert.Equal(t, [2]int64{5, 1}, rt.readAnnouncements()[0])
	assert.True(t, store.Snapshot()[0].Messages[0].Read)
}

func TestMarkConversationReadIsIdempotent(t *testing.T) {
	b := newFakeBackend()
	rt := &fakeRealtime{}
	r, store, _ := newTestReconciler(b, rt)

	store.Replace([]domain.Conversation{{
		ID:       5,
		Messages: []domain.Message{{ID: 50, Sender: domain.Sender{ID: 2}}},
	}})

	r.MarkConversationRead(context.Background(), 5)
	r.MarkConversationRead(context.Background(), 5)

	// The endpoint is idempotent on the data service side, so re-notifying
	// is harmless; the local patch stays read.
	assert.True(t, store.Snapshot()[0].Messages[0].Read)
}

func TestMarkConversationReadSurvivesBackendFailure(t *testing.T) {
	b := newFakeBackend()
	b.markReadErr = errors.New("boom")
	rt := &fakeRealtime{}
	r, store, _ := newTestReconciler(b, rt)

	store.Replace([]domain.Conversation{{
		ID:       5,
		Messages: []domain.Message{{ID: 50, Sender: domain.Sender{ID: 2}}},
	}})

	r.MarkConversationRead(context.Background(), 5)

	// The peer announcement and the local patch still happen.
	assert.Len(t, rt.readAnnouncements(), 1)
	assert.True(t, store.Snapshot()[0].Messages[0].Read)
}

func TestMarkConversationReadSurvivesAnnounceFailure(t *testing.T) {
	b := newFakeBackend()
	rt := &fakeRealtime{announceReadErr: errors.New("closed")}
	r, store, _ := newTestReconciler(b, rt)

	store.Replace([]domain.Conversation{{
		ID:       5,
		Messages: []domain.Message{{ID: 50, Sender: domain.Sender{ID: 2}}},
	}})

	r.MarkConversationRead(context.Background(), 5)

	assert.Equal(t, 1, b.markReadCount(5))
	assert.True(t, store.Snapshot()[0].Messages[0].Read)
}

func TestApplyReadAckFlipsOwnMessages(t *testing.T) {
	b := newFakeBackend()
	rt := &fakeRealtime{}
	r, store, channel := newTestReconciler(b, rt)

	store.Replace([]domain.Conversation{{
		ID:       5,
		Messages: []domain.Message{{ID: 51, Sender: domain.Sender{ID: 1}}},
	}})
	channel.Open(domain.Conversation{ID: 5})
	channel.SetHistory(5, []domain.Message{
		{ID: 50, ConversationID: 5, Sender: domain.Sender{ID: 2}},
		{ID: 51, ConversationID: 5, Sender: domain.Sender{ID: 1}},
	})

	r.ApplyReadAck(5)

	assert.True(t, store.Snapshot()[0].Messages[0].Read)
	msgs := channel.Messages()
	assert.False(t, msgs[0].Read, "peer-authored history is untouched")
	assert.True(t, msgs[1].Read)

	// Duplicate ack under at-least-once delivery.
	r.ApplyReadAck(5)
	assert.True(t, channel.Messages()[1].Read)
}

func TestApplyReadAckSkipsClosedOrOtherConversation(t *testing.T) {
	b := newFakeBackend()
	rt := &fakeRealtime{}
	r, store, channel := newTestReconciler(b, rt)

	store.Replace([]domain.Conversation{{
		ID:       5,
		Messages: []domain.Message{{ID: 51, Sender: domain.Sender{ID: 1}}},
	}})
	channel.Open(domain.Conversation{ID: 9})
	channel.SetHistory(9, []domain.Message{
		{ID: 90, ConversationID: 9, Sender: domain.Sender{ID: 1}},
	})

	r.ApplyReadAck(5)

	// The list summary flips, the unrelated open history does not.
	assert.True(t, store.Snapshot()[0].Messages[0].Read)
	assert.False(t, channel.Messages()[0].Read)
}
