// Package assistant implements the stateless assistant chat overlay. It
// mimics the conversation UI but keeps no durable history: every turn lives
// only in the session's memory and is gone when the overlay closes.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Role tags a turn's author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one ephemeral exchange entry. Never persisted, never sent to the
// data service.
type Turn struct {
	Role    Role
	Content string
	At      time.Time
}

// Completer produces one assistant completion for a single utterance. No
// history travels with the request; each call is fully stateless.
type Completer interface {
	Complete(ctx context.Context, message string) (string, error)
}

// apologyMessage replaces the assistant's answer whenever the relay fails.
// A failure is never surfaced as a system error.
const apologyMessage = "Ops! Parece que estou com alguns problemas técnicos. Tente novamente em alguns instantes!"

// Session is one user's assistant overlay. Safe for concurrent use.
type Session struct {
	completer Completer
	userName  string
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.RWMutex
	turns  []Turn
	typing bool
}

// NewSession constructs an overlay session for the named user.
func NewSession(c Completer, userName string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		completer: c,
		userName:  userName,
		logger:    logger.With("component", "assistant"),
		now:       time.Now,
	}
}

// Open seeds the greeting turn the first time the overlay is shown. Calling
// it again on an ongoing session is a no-op.
func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.turns) > 0 {
		return
	}
	greeting := fmt.Sprintf("Olá %s! Eu sou a NEXUS IA, sua assistente virtual. "+
		"Estou aqui para te ajudar com dúvidas sobre seus estudos, tirar questões sobre as matérias e muito mais! \n"+
		"Como posso te ajudar hoje?", s.userName)
	s.turns = append(s.turns, Turn{Role: RoleAssistant, Content: greeting, At: s.now()})
}

// Ask appends the user's utterance, toggles the typing indicator for the
// duration of the relay call and appends exactly one assistant turn: the
// completion on success, the canned apology on any failure. It never returns
// an error to the caller.
func (s *Session) Ask(ctx context.Context, content string) {
	s.mu.Lock()
	s.turns = append(s.turns, Turn{Role: RoleUser, Content: content, At: s.now()})
	s.typing = true
	s.mu.Unlock()

	answer, err := s.completer.Complete(ctx, content)
	if err != nil {
		s.logger.Warn("assistant relay failed", "error", err)
		answer = apologyMessage
	}

	s.mu.Lock()
	s.turns = append(s.turns, Turn{Role: RoleAssistant, Content: answer, At: s.now()})
	s.typing = false
	s.mu.Unlock()
}

// Typing reports whether a relay request is in flight.
func (s *Session) Typing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing
}

// Turns returns a copy of the session history.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Turn(nil), s.turns...)
}

// Reset discards the session history. Used when the overlay is closed for
// good; the next Open starts from the greeting again.
func (s *Session) Reset() {
	s.mu.Lock()
	s.turns = nil
	s.typing = false
	s.mu.Unlock()
}
