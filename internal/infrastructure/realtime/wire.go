package realtime

import (
	"encoding/json"

	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
)

// Frame type identifiers. Client -> hub: usuario_conectado, enviar_mensagem,
// marcar_lida. Hub -> client: nova_mensagem, mensagens_lidas, error.
const (
	FrameUserConnected = "usuario_conectado"
	FrameSendMessage   = "enviar_mensagem"
	FrameMarkRead      = "marcar_lida"
	FrameNewMessage    = "nova_mensagem"
	FrameMessagesRead  = "mensagens_lidas"
	FrameError         = "error"
)

// Frame is the JSON envelope exchanged on the realtime channel. Fields are
// populated per frame type; unused fields are omitted on the wire.
type Frame struct {
	Type           string          `json:"type"`
	UserID         int64           `json:"usuarioId,omitempty"`
	ConversationID int64           `json:"conversaId,omitempty"`
	Message        *domain.Message `json:"mensagem,omitempty"`
	Code           string          `json:"code,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// Encode marshals the frame for transmission. Errors are impossible for this
// shape, so the payload is returned directly.
func (f Frame) Encode() []byte {
	payload, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	return payload
}
