package controller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/oFernandesx/TCC/internal/infrastructure/realtime"
)

const defaultReadTimeout = 60 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

// SocketController handles the websocket endpoint for realtime conversation
// traffic. Each client announces its user with the first frame and keeps the
// connection across conversation switches.
type SocketController struct {
	hub    *realtime.Hub
	logger *slog.Logger
}

// NewSocketController wires the controller to the hub.
func NewSocketController(hub *realtime.Hub, logger *slog.Logger) *SocketController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SocketController{hub: hub, logger: logger.With("component", "socket")}
}

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects. The first frame must be usuario_conectado; every
// later frame is routed to the other connected users.
func (ctl *SocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		conn, ok := ctl.awaitAnnounce(ws)
		if !ok {
			_ = ws.Close()
			return
		}

		ctl.hub.Attach(conn)
		defer func() {
			ctl.hub.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if isExpectedClose(err) {
					return
				}
				ctl.logger.Info("connection read ended", "user_id", conn.UserID, "error", err)
				return
			}

			var frame realtime.Frame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}
			ctl.handleFrame(conn, frame)
		}
	}
}

// awaitAnnounce reads frames until the presence announcement arrives. A
// client speaking anything else first is dropped.
func (ctl *SocketController) awaitAnnounce(ws *websocket.Conn) (*realtime.Connection, bool) {
	_, data, err := ws.ReadMessage()
	if err != nil {
		return nil, false
	}
	var frame realtime.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, false
	}
	if frame.Type != realtime.FrameUserConnected || frame.UserID == 0 {
		ctl.logger.Warn("connection rejected, presence announcement expected", "frame_type", frame.Type)
		return nil, false
	}
	return realtime.NewConnection(frame.UserID, ws), true
}

func (ctl *SocketController) handleFrame(conn *realtime.Connection, frame realtime.Frame) {
	switch frame.Type {
	case realtime.FrameUserConnected:
		// Re-announce is harmless; presence is already tracked.

	case realtime.FrameSendMessage:
		if frame.Message == nil {
			ctl.replyError(conn, "bad_request", "mensagem is required")
			return
		}
		if !frame.Message.SentBy(conn.UserID) {
			ctl.replyError(conn, "forbidden", "sender does not match the announced user")
			return
		}
		out := realtime.Frame{Type: realtime.FrameNewMessage, Message: frame.Message}
		ctl.hub.Route(out, conn.UserID)

	case realtime.FrameMarkRead:
		if frame.ConversationID == 0 {
			ctl.replyError(conn, "bad_request", "conversaId is required")
			return
		}
		out := realtime.Frame{Type: realtime.FrameMessagesRead, ConversationID: frame.ConversationID}
		ctl.hub.Route(out, conn.UserID)

	default:
		ctl.replyError(conn, "unsupported_type", "unknown frame type")
	}
}

func (ctl *SocketController) replyError(conn *realtime.Connection, code, message string) {
	frame := realtime.Frame{Type: realtime.FrameError, Code: code, Error: message}
	_ = conn.Send(frame.Encode())
}

func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
		errors.Is(err, websocket.ErrCloseSent)
}
