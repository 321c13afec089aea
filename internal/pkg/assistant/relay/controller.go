package relay

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oFernandesx/TCC/internal/pkg/assistant"
)

const relayTimeout = 90 * time.Second

// relayErrorMessage is what clients receive on any upstream failure; the
// overlay shows it as a normal assistant turn, never as a system error.
const relayErrorMessage = "Ops! Parece que estou com alguns problemas técnicos. Tente novamente em alguns instantes!"

// Controller handles the POST /assistant endpoint only (one controller per
// endpoint).
type Controller struct {
	completer assistant.Completer
	logger    *slog.Logger
}

// NewController wires the relay controller to a completer.
func NewController(c assistant.Completer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{completer: c, logger: logger.With("component", "relay")}
}

type assistantRequest struct {
	Message string `json:"message"`
}

// Handle returns a gin handler for the single-turn assistant exchange.
func (ctl *Controller) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assistantRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem é obrigatória"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), relayTimeout)
		defer cancel()

		answer, err := ctl.completer.Complete(ctx, req.Message)
		if err != nil {
			ctl.logger.Warn("completion failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   relayErrorMessage,
				"success": false,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"resposta": answer,
			"success":  true,
		})
	}
}
