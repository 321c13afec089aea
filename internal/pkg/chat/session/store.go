package session

import (
	"sort"
	"sync"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

// ConversationStore caches the authoritative conversation list for the
// logged-in user. Invalidation is coarse: every relevant realtime signal
// triggers a full replace from the data service, no deltas are applied.
//
// The only local mutation is the read-receipt patch, which keeps the list's
// receipt icons coherent between two refetches.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations []domain.Conversation
}

// NewConversationStore constructs an empty store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{}
}

// Replace swaps the cached list wholesale.
func (s *ConversationStore) Replace(conversations []domain.Conversation) {
	s.mu.Lock()
	s.conversations = append([]domain.Conversation(nil), conversations...)
	s.mu.Unlock()
}

// Snapshot returns a copy of the cached list.
func (s *ConversationStore) Snapshot() []domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Conversation(nil), s.conversations...)
}

// Find returns the cached conversation for the given unordered participant
// pair, if one exists.
func (s *ConversationStore) Find(pair domain.PairKey) (domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.conversations {
		if c.Pair() == pair {
			return c, true
		}
	}
	return domain.Conversation{}, false
}

// MarkLastMessageRead patches the conversation's most recent message summary
// to read=true. The patch is scoped by authorship so a stale ack never flips
// the wrong icon: with own=false only a peer-authored summary is patched
// (viewer just read it), with own=true only a self-authored one (the peer
// just acknowledged it). Read is monotonic, re-patching is a no-op.
func (s *ConversationStore) MarkLastMessageRead(conversationID, userID int64, own bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.conversations {
		c := &s.conversations[i]
		if c.ID != conversationID || len(c.Messages) == 0 {
			continue
		}
		last := &c.Messages[0]
		if last.SentBy(userID) == own {
			last.Read = true
		}
		return
	}
}

// ContactDirectory caches all portal users other than the logged-in user.
// The list is fetched once per session and never incrementally updated.
type ContactDirectory struct {
	mu    sync.RWMutex
	users []domain.User
}

// NewContactDirectory constructs an empty directory.
func NewContactDirectory() *ContactDirectory {
	return &ContactDirectory{}
}

// Replace swaps the cached users, dropping selfID. Display order is
// alphabetical by name; the composer relies on it for inactive entries.
func (d *ContactDirectory) Replace(users []domain.User, selfID int64) {
	filtered := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.ID == selfID {
			continue
		}
		filtered = append(filtered, u)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Name < filtered[j].Name
	})

	d.mu.Lock()
	d.users = filtered
	d.mu.Unlock()
}

// Snapshot returns a copy of the cached users.
func (d *ContactDirectory) Snapshot() []domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]domain.User(nil), d.users...)
}
