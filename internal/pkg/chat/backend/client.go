// Package backend is the HTTP client for the portal's data service, which
// owns users, conversations and messages. This core never touches storage
// directly; every persistence operation goes through these endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
	"github.com/oFernandesx/TCC/internal/pkg/chat/session"
)

const defaultTimeout = 10 * time.Second

// Ensure interface compliance at compile time
var _ session.Backend = (*Client)(nil)

// Client talks to the data service. It applies no retries: a failed request
// is terminal for that action and is reported to the caller, who logs it and
// leaves the UI in its prior state.
type Client struct {
	base   string
	http   *http.Client
	logger *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New constructs a Client for the data service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: defaultTimeout},
		logger: slog.Default().With("component", "backend"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Conversations returns every conversation the user participates in.
// GET /conversas/{userId}
func (c *Client) Conversations(ctx context.Context, userID int64) ([]domain.Conversation, error) {
	var out []domain.Conversation
	if err := c.getList(ctx, fmt.Sprintf("/conversas/%d", userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Messages returns the ordered history of one conversation.
// GET /conversa/{id}/mensagens
func (c *Client) Messages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	var out []domain.Message
	if err := c.getList(ctx, fmt.Sprintf("/conversa/%d/mensagens", conversationID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Users returns all portal users, including the caller; directories filter
// out the logged-in user themselves.
// GET /usuarios
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.getList(ctx, "/usuarios", &out); err != nil {
		return nil, err
	}
	return out, nil
}

type openConversationRequest struct {
	User1ID int64 `json:"usuario1Id"`
	User2ID int64 `json:"usuario2Id"`
}

// OpenConversation finds or creates the conversation between two users. The
// data service guarantees at most one conversation per unordered pair, so
// repeated calls with the same pair return the same conversation.
// POST /conversa
func (c *Client) OpenConversation(ctx context.Context, user1ID, user2ID int64) (domain.Conversation, error) {
	var conv domain.Conversation
	err := c.post(ctx, "/conversa", openConversationRequest{User1ID: user1ID, User2ID: user2ID}, &conv)
	return conv, err
}

type sendMessageRequest struct {
	Content        string `json:"conteudo"`
	SenderID       int64  `json:"remetenteId"`
	ConversationID int64  `json:"conversaId"`
}

// SendMessage persists a new message; the service assigns the authoritative
// ID and timestamp.
// POST /mensagem
func (c *Client) SendMessage(ctx context.Context, content string, senderID, conversationID int64) (domain.Message, error) {
	var msg domain.Message
	err := c.post(ctx, "/mensagem", sendMessageRequest{
		Content:        content,
		SenderID:       senderID,
		ConversationID: conversationID,
	}, &msg)
	return msg, err
}

// MarkRead marks every inbound message of the conversation as read for
// userID. The endpoint is idempotent; marking an already-read conversation
// is a no-op server side.
// PUT /conversa/{id}/marcar-lida/{userId}
func (c *Client) MarkRead(ctx context.Context, conversationID, userID int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/conversa/%d/marcar-lida/%d", c.base, conversationID, userID), nil)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: mark read: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend: mark read: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// getList fetches a JSON array endpoint. A malformed or empty body is
// degraded to an empty result rather than an error so list views fall back
// to "nothing here" instead of crashing.
func (c *Client) getList(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend: get %s: unexpected status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: get %s: read body: %w", path, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("malformed response body, treating as empty", "path", path, "error", err)
		return nil
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("backend: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend: post %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: post %s: decode response: %w", path, err)
	}
	return nil
}
