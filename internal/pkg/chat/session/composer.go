package session

import (
	"sort"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

// AssistantName is the display name of the fixed assistant entry.
const AssistantName = "NEXUS IA"

// ListItem is one entry of the unified list: either the fixed assistant
// pseudo-entry or a contact, possibly decorated with its active
// conversation. A tagged variant, not a field-discriminated union.
type ListItem interface {
	isListItem()
}

// AssistantEntry is the assistant pseudo-entry. Always first in the list.
type AssistantEntry struct {
	Name string
}

// ContactEntry is a portal user, decorated with the active conversation for
// this participant pair when one exists.
type ContactEntry struct {
	User         domain.User
	Conversation *domain.Conversation
}

func (AssistantEntry) isListItem() {}
func (ContactEntry) isListItem()   {}

// Active tells whether the contact has an ongoing conversation.
func (e ContactEntry) Active() bool {
	return e.Conversation != nil
}

// ComposeList merges the contact directory and the conversation cache into
// the single ordered, render-ready list. Ordering is a hard contract:
//
//  1. The assistant entry is always first.
//  2. Contacts with an active conversation precede contacts without one.
//  3. Active contacts sort by conversation recency, newest first.
//  4. Inactive contacts sort alphabetically by display name.
func ComposeList(contacts []domain.User, conversations []domain.Conversation, selfID int64) []ListItem {
	byPair := make(map[domain.PairKey]*domain.Conversation, len(conversations))
	for i := range conversations {
		conv := conversations[i]
		byPair[conv.Pair()] = &conv
	}

	entries := make([]ContactEntry, 0, len(contacts))
	for _, u := range contacts {
		entries = append(entries, ContactEntry{
			User:         u,
			Conversation: byPair[domain.NewPairKey(selfID, u.ID)],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Active() != b.Active() {
			return a.Active()
		}
		if a.Active() {
			return a.Conversation.UpdatedAt.After(b.Conversation.UpdatedAt)
		}
		return a.User.Name < b.User.Name
	})

	items := make([]ListItem, 0, len(entries)+1)
	items = append(items, AssistantEntry{Name: AssistantName})
	for _, e := range entries {
		items = append(items, e)
	}
	return items
}
