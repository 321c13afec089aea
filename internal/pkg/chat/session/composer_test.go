package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

func TestComposeListOrdering(t *testing.T) {
	self := domain.User{ID: 1, Name: "Ana"}
	x := domain.User{ID: 2, Name: "Xavier"}
	y := domain.User{ID: 3, Name: "Yara"}
	z := domain.User{ID: 4, Name: "Zeca"}
	w := domain.User{ID: 5, Name: "Wagner"}

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	conversations := []domain.Conversation{
		{ID: 11, User1: self, User2: x, UpdatedAt: base.Add(1 * time.Hour)},
		{ID: 12, User1: y, User2: self, UpdatedAt: base.Add(2 * time.Hour)},
		{ID: 13, User1: self, User2: z, UpdatedAt: base.Add(3 * time.Hour)},
	}

	items := ComposeList([]domain.User{w, x, y, z}, conversations, self.ID)
	require.Len(t, items, 5)

	_, ok := items[0].(AssistantEntry)
	require.True(t, ok, "assistant entry must come first")

	names := make([]string, 0, 4)
	for _, item := range items[1:] {
		entry, ok := item.(ContactEntry)
		require.True(t, ok)
		names = append(names, entry.User.Name)
	}
	assert.Equal(t, []string{"Zeca", "Yara", "Xavier", "Wagner"}, names)
}

func TestComposeListDecoratesActiveContacts(t *testing.T) {
	self := domain.User{ID: 1, Name: "Ana"}
	bia := domain.User{ID: 2, Name: "Bia"}
	caio := domain.User{ID: 3, Name: "Caio"}

	// Self appears as usuario2 here; pairing must not depend on slot order.
	conversations := []domain.Conversation{
		{ID: 7, User1: bia, User2: self, UpdatedAt: time.Now()},
	}

	items := ComposeList([]domain.User{bia, caio}, conversations, self.ID)
	require.Len(t, items, 3)

	first := items[1].(ContactEntry)
	require.True(t, first.Active())
	assert.Equal(t, "Bia", first.User.Name)
	assert.Equal(t, int64(7), first.Conversation.ID)

	second := items[2].(ContactEntry)
	assert.False(t, second.Active())
	assert.Nil(t, second.Conversation)
}

func TestComposeListInactiveContactsSortAlphabetically(t *testing.T) {
	self := domain.User{ID: 1}
	users := []domain.User{
		{ID: 2, Name: "Carla"},
		{ID: 3, Name: "Alice"},
		{ID: 4, Name: "Bruno"},
	}

	items := ComposeList(users, nil, self.ID)
	require.Len(t, items, 4)

	names := make([]string, 0, 3)
	for _, item := range items[1:] {
		names = append(names, item.(ContactEntry).User.Name)
	}
	assert.Equal(t, []string{"Alice", "Bruno", "Carla"}, names)
}

func TestComposeListEmptyInputsStillYieldAssistant(t *testing.T) {
	items := ComposeList(nil, nil, 1)
	require.Len(t, items, 1)

	entry, ok := items[0].(AssistantEntry)
	require.True(t, ok)
	assert.Equal(t, AssistantName, entry.Name)
}

func TestComposeListIgnoresConversationsWithoutContact(t *testing.T) {
	self := domain.User{ID: 1}
	ghost := domain.User{ID: 99, Name: "Fantasma"}

	conversations := []domain.Conversation{
		{ID: 5, User1: self, User2: ghost, UpdatedAt: time.Now()},
	}

	items := ComposeList(nil, conversations, self.ID)
	assert.Len(t, items, 1)
}
