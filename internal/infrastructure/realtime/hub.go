package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/oFernandesx/TCC/internal/infrastructure/pubsub/port"
)

// Hub tracks the single active connection of every announced user and fans
// frames out to them. Conversations are two-party, so there are no rooms:
// routed frames go to every connected user except the originator and each
// client decides locally whether the frame concerns its open conversation.
type Hub struct {
	mu     sync.RWMutex
	users  map[int64]*Connection
	nodeID string
	bus    port.Bus
	topic  string
	logger *slog.Logger
}

// NewHub constructs an empty hub. Pass nil logger for the default.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		users:  make(map[int64]*Connection),
		nodeID: uuid.NewString(),
		logger: logger.With("component", "hub"),
	}
}

// Attach registers conn as the user's active session. A previous session for
// the same user is closed after the swap: one socket per user.
func (h *Hub) Attach(conn *Connection) {
	h.mu.Lock()
	previous := h.users[conn.UserID]
	h.users[conn.UserID] = conn
	h.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
	h.logger.Info("user connected", "user_id", conn.UserID, "connection_id", conn.ID)
}

// Detach removes conn if it is still the user's active session. A connection
// replaced by a newer one must not evict its successor.
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	if current, ok := h.users[conn.UserID]; ok && current.ID == conn.ID {
		delete(h.users, conn.UserID)
	}
	h.mu.Unlock()
	h.logger.Info("user disconnected", "user_id", conn.UserID, "connection_id", conn.ID)
}

// Route delivers the frame to every connected user except excludeUserID and,
// when a bus is attached, forwards it to peer nodes so their users receive
// it too. It returns the local delivery count.
func (h *Hub) Route(frame Frame, excludeUserID int64) int {
	payload := frame.Encode()
	delivered := h.broadcast(payload, excludeUserID)

	if h.bus != nil {
		env := envelope{Node: h.nodeID, Exclude: excludeUserID, Frame: frame}
		data, err := json.Marshal(env)
		if err == nil {
			if err := h.bus.Publish(context.Background(), h.topic, data); err != nil {
				h.logger.Warn("bus publish failed", "error", err)
			}
		}
	}
	return delivered
}

// NotifyUser delivers payload to one user's active connection, if any.
func (h *Hub) NotifyUser(userID int64, payload []byte) bool {
	h.mu.RLock()
	conn := h.users[userID]
	h.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// Connected reports whether the user currently has an active connection.
func (h *Hub) Connected(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.users[userID] != nil
}

// Close terminates every tracked connection and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.users))
	for _, conn := range h.users {
		conns = append(conns, conn)
	}
	h.users = make(map[int64]*Connection)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "hub shutdown")
	}
}

// envelope wraps a frame for cross-node transport. Node lets receivers skip
// their own publications; Exclude carries the originating user so the frame
// is not echoed back to them on another node either.
type envelope struct {
	Node    string `json:"node"`
	Exclude int64  `json:"exclude"`
	Frame   Frame  `json:"frame"`
}

// AttachBus wires a pub/sub bus for cross-node fan-out and starts replaying
// frames published by peer nodes. Without a bus the hub runs single-node.
func (h *Hub) AttachBus(ctx context.Context, bus port.Bus, topic string) error {
	events, err := bus.Subscribe(ctx, topic)
	if err != nil {
		return err
	}
	h.bus = bus
	h.topic = topic

	go func() {
		for data := range events {
			var env envelope
			if err := json.Unmarshal(data, &env); err != nil {
				h.logger.Warn("malformed bus envelope", "error", err)
				continue
			}
			if env.Node == h.nodeID {
				continue
			}
			h.broadcast(env.Frame.Encode(), env.Exclude)
		}
	}()
	return nil
}

func (h *Hub) broadcast(payload []byte, excludeUserID int64) int {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.users))
	for userID, conn := range h.users {
		if userID == excludeUserID {
			continue
		}
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range targets {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}
