package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oFernandesx/TCC/internal/infrastructure/realtime"
	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

const transportWriteWait = 10 * time.Second

// ErrNotConnected is returned by emissions before Connect or after the
// channel dropped.
var ErrNotConnected = errors.New("session: realtime channel is not connected")

// Transport is the websocket implementation of Realtime. One Transport is
// created per logged-in session and survives conversation switches; it is
// disposed only at logout.
type Transport struct {
	url    string
	dialer *websocket.Dialer
	logger *slog.Logger

	mu sync.Mutex // guards ws and outbound writes
	ws *websocket.Conn

	hmu      sync.RWMutex
	handlers Handlers
}

// Ensure interface compliance at compile time
var _ Realtime = (*Transport)(nil)

// NewTransport constructs a Transport for the hub at hubURL. The websocket
// endpoint path is appended here, so callers pass the same base URL they pass
// to the relay client; http/https schemes are normalized to ws/wss.
func NewTransport(hubURL string, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		url:    normalizeWsURL(strings.TrimRight(hubURL, "/")) + "/ws",
		dialer: websocket.DefaultDialer,
		logger: logger.With("component", "transport"),
	}
}

// Connect dials the hub, announces the user's presence and starts the read
// loop. It must be called once per session.
func (t *Transport) Connect(ctx context.Context, userID int64) error {
	ws, _, err := t.dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return fmt.Errorf("session: dial %s: %w", t.url, err)
	}

	t.mu.Lock()
	t.ws = ws
	t.mu.Unlock()

	announce := realtime.Frame{Type: realtime.FrameUserConnected, UserID: userID}
	if err := t.writeFrame(announce); err != nil {
		_ = t.Close()
		return fmt.Errorf("session: announce presence: %w", err)
	}

	go t.readLoop(ws)
	return nil
}

// Bind installs the handler set, replacing any previous one. Handlers are
// read at event time, so a set bound after Connect still sees every
// subsequent event.
func (t *Transport) Bind(h Handlers) {
	t.hmu.Lock()
	t.handlers = h
	t.hmu.Unlock()
}

// Unbind removes the active handler set. Events arriving afterwards are
// dropped silently.
func (t *Transport) Unbind() {
	t.Bind(Handlers{})
}

// AnnounceSend emits enviar_mensagem for a message the data service already
// persisted.
func (t *Transport) AnnounceSend(msg domain.Message) error {
	return t.writeFrame(realtime.Frame{Type: realtime.FrameSendMessage, Message: &msg})
}

// AnnounceRead emits marcar_lida for the conversation.
func (t *Transport) AnnounceRead(conversationID, userID int64) error {
	return t.writeFrame(realtime.Frame{
		Type:           realtime.FrameMarkRead,
		ConversationID: conversationID,
		UserID:         userID,
	})
}

// Close tears the channel down. Safe to call more than once.
func (t *Transport) Close() error {
	t.mu.Lock()
	ws := t.ws
	t.ws = nil
	t.mu.Unlock()
	if ws == nil {
		return nil
	}
	deadline := time.Now().Add(transportWriteWait)
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"), deadline)
	return ws.Close()
}

// readLoop dispatches inbound frames until the channel drops. There is no
// reconnect: the drop is logged and the session degrades to REST-only state
// until the client restarts.
func (t *Transport) readLoop(ws *websocket.Conn) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			t.mu.Lock()
			stillCurrent := t.ws == ws
			if stillCurrent {
				t.ws = nil
			}
			t.mu.Unlock()
			if stillCurrent {
				t.logger.Warn("realtime channel dropped, realtime updates stopped", "error", err)
			}
			return
		}

		var frame realtime.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			t.logger.Warn("malformed realtime frame", "error", err)
			continue
		}
		t.dispatch(frame)
	}
}

func (t *Transport) dispatch(frame realtime.Frame) {
	t.hmu.RLock()
	handlers := t.handlers
	t.hmu.RUnlock()

	switch frame.Type {
	case realtime.FrameNewMessage:
		if frame.Message != nil && handlers.MessageArrived != nil {
			handlers.MessageArrived(*frame.Message)
		}
	case realtime.FrameMessagesRead:
		if handlers.ReadAck != nil {
			handlers.ReadAck(frame.ConversationID)
		}
	case realtime.FrameError:
		t.logger.Warn("hub reported error", "code", frame.Code, "error", frame.Error)
	}
}

func (t *Transport) writeFrame(frame realtime.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ws == nil {
		return ErrNotConnected
	}
	if err := t.ws.SetWriteDeadline(time.Now().Add(transportWriteWait)); err != nil {
		return err
	}
	return t.ws.WriteMessage(websocket.TextMessage, frame.Encode())
}

func normalizeWsURL(raw string) string {
	switch {
	case strings.HasPrefix(raw, "http://"):
		return "ws://" + strings.TrimPrefix(raw, "http://")
	case strings.HasPrefix(raw, "https://"):
		return "wss://" + strings.TrimPrefix(raw, "https://")
	}
	return raw
}
