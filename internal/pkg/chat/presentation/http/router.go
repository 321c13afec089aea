package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oFernandesx/TCC/internal/infrastructure/realtime"
	"github.com/oFernandesx/TCC/internal/pkg/assistant"
	"github.com/oFernandesx/TCC/internal/pkg/assistant/relay"
	"github.com/oFernandesx/TCC/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes mounts the hub's endpoints on the engine: the realtime
// websocket, the assistant relay and a health probe. Paths are root-level;
// clients address them directly per the channel contract.
func RegisterRoutes(r *gin.Engine, hub *realtime.Hub, completer assistant.Completer, logger *slog.Logger) {
	socketCtl := controller.NewSocketController(hub, logger)
	relayCtl := relay.NewController(completer, logger)

	// GET /ws -> persistent realtime channel, one per client session
	r.GET("/ws", socketCtl.Handle())

	// POST /assistant -> single-turn assistant relay
	r.POST("/assistant", relayCtl.Handle())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
}
