package domain

import "time"

// Conversation is a persistent two-party thread identified by its unordered
// participant pair. At most one conversation exists per pair; the data
// service enforces this on find-or-create.
//
// Messages carries only the most-recent-message summary used by list views
// (newest first); the full ordered history is fetched separately when the
// conversation is opened.
type Conversation struct {
	ID        int64     `json:"id"`
	User1     User      `json:"usuario1"`
	User2     User      `json:"usuario2"`
	Messages  []Message `json:"mensagens"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Has tells whether userID is one of the two participants.
func (c Conversation) Has(userID int64) bool {
	return c.User1.ID == userID || c.User2.ID == userID
}

// Peer returns the participant other than userID. When userID is not a
// participant, User1 is returned so callers always get a displayable user.
func (c Conversation) Peer(userID int64) User {
	if c.User1.ID == userID {
		return c.User2
	}
	return c.User1
}

// LastMessage returns the most recent message summary, or nil when the
// conversation has no messages yet.
func (c Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[0]
}

// PairKey normalizes an unordered participant pair to a comparable key.
// PairKey(a, b) == PairKey(b, a) for all a, b.
type PairKey [2]int64

// NewPairKey builds the normalized key for two participant IDs.
func NewPairKey(a, b int64) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{a, b}
}

// Pair returns the conversation's normalized participant key.
func (c Conversation) Pair() PairKey {
	return NewPairKey(c.User1.ID, c.User2.ID)
}
