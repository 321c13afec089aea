package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completerFunc func(ctx context.Context, message string) (string, error)

func (f completerFunc) Complete(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

func TestOpenSeedsGreetingOnce(t *testing.T) {
	s := NewSession(completerFunc(nil), "Ana", nil)

	s.Open()
	turns := s.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, RoleAssistant, turns[0].Role)
	assert.Contains(t, turns[0].Content, "Olá Ana!")
	assert.Contains(t, turns[0].Content, "NEXUS IA")

	s.Open()
	assert.Len(t, s.Turns(), 1)
}

func TestAskAppendsUserAndAssistantTurns(t *testing.T) {
	s := NewSession(completerFunc(func(_ context.Context, message string) (string, error) {
		assert.Equal(t, "qual a capital do Brasil?", message)
		return "Brasília.", nil
	}), "Ana", nil)
	s.Open()

	s.Ask(context.Background(), "qual a capital do Brasil?")

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, RoleUser, turns[1].Role)
	assert.Equal(t, "qual a capital do Brasil?", turns[1].Content)
	assert.Equal(t, RoleAssistant, turns[2].Role)
	assert.Equal(t, "Brasília.", turns[2].Content)
	assert.False(t, s.Typing())
}

func TestAskFailureYieldsExactlyOneApologyTurn(t *testing.T) {
	s := NewSession(completerFunc(func(context.Context, string) (string, error) {
		return "", errors.New("upstream down")
	}), "Ana", nil)
	s.Open()

	s.Ask(context.Background(), "oi")

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, RoleAssistant, turns[2].Role)
	assert.Equal(t, apologyMessage, turns[2].Content)
	assert.False(t, s.Typing())
}

func TestTypingIsSetDuringRelayCall(t *testing.T) {
	var s *Session
	s = NewSession(completerFunc(func(context.Context, string) (string, error) {
		assert.True(t, s.Typing())
		return "ok", nil
	}), "Ana", nil)

	s.Ask(context.Background(), "oi")
	assert.False(t, s.Typing())
}

func TestResetDiscardsHistory(t *testing.T) {
	s := NewSession(completerFunc(func(context.Context, string) (string, error) {
		return "ok", nil
	}), "Ana", nil)
	s.Open()
	s.Ask(context.Background(), "oi")
	require.NotEmpty(t, s.Turns())

	s.Reset()
	assert.Empty(t, s.Turns())

	// A fresh Open greets again from scratch.
	s.Open()
	assert.Len(t, s.Turns(), 1)
}

func TestTurnsIsCopy(t *testing.T) {
	s := NewSession(completerFunc(nil), "Ana", nil)
	s.Open()

	turns := s.Turns()
	turns[0].Content = "mutated"
	assert.NotEqual(t, "mutated", s.Turns()[0].Content)
}
