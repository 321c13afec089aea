// Package relay serves the narrow assistant endpoint. It injects the fixed
// persona instruction and forwards a single stateless turn to an
// OpenAI-compatible completion service.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/oFernandesx/TCC/internal/pkg/assistant"
)

const (
	defaultBaseURL = "https://integrate.api.nvidia.com/v1"
	defaultModel   = "deepseek-ai/deepseek-v3.1"

	completionTemperature = 0.2
	completionTopP        = 0.7
	completionMaxTokens   = 8192
)

// persona is the fixed system instruction injected on every request. The
// client never sees or controls it.
const persona = `Você é a NEXUS IA, uma assistente virtual especializada em suporte estudantil e acadêmico de uma instituição de ensino. Sua missão é ser prestativa, formal e educada, respondendo sempre em português do Brasil.
Comportamento:
1. Identidade: Você se chama NEXUS IA e deve sempre manter um tom formal e profissional, condizente com uma instituição de ensino.
2. Respostas Acadêmicas: Para perguntas sobre matérias, conceitos ou estudos, forneça explicações claras, diretas e didáticas, evitando complexidade excessiva. Mantenha as respostas concisas.
3. Suporte e Contexto: Se a pergunta for muito vaga ("me explica algo"), peça mais detalhes sobre a matéria ou tópico específico.
4. Uso de Emojis: Use emojis de forma sutil (apenas 1 ou 2 por resposta) para manter a cordialidade.
5. Regras Administrativas: Para perguntas sobre procedimentos administrativos, não crie informações. Encaminhe o usuário para o setor correto, por exemplo a secretaria da instituição.
6. Limitações: Esteja ciente de que você pode não ter acesso a informações específicas ou atualizadas sobre a instituição. Para questões críticas, sempre consulte fontes oficiais.
7. Privacidade: Não compartilhe informações pessoais ou sensíveis sobre alunos ou funcionários.
8. Erros: Se você não souber a resposta, admita que não sabe e sugira consultar um especialista ou a administração da instituição.`

// fallbackAnswer covers an upstream response with no usable content.
const fallbackAnswer = "Desculpe, não consegui processar sua mensagem. Tente novamente!"

// CompletionClient calls the upstream chat-completion API.
type CompletionClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// Ensure interface compliance at compile time
var _ assistant.Completer = (*CompletionClient)(nil)

// NewCompletionClientFromEnv builds a client from NEXUS_API_KEY (required),
// NEXUS_BASE_URL and NEXUS_MODEL.
func NewCompletionClientFromEnv() (*CompletionClient, error) {
	apiKey := strings.TrimSpace(os.Getenv("NEXUS_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("relay: NEXUS_API_KEY environment variable is not set")
	}
	baseURL := strings.TrimSpace(os.Getenv("NEXUS_BASE_URL"))
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(os.Getenv("NEXUS_MODEL"))
	if model == "" {
		model = defaultModel
	}
	return NewCompletionClient(apiKey, baseURL, model), nil
}

// NewCompletionClient builds a client against the given OpenAI-compatible
// endpoint.
func NewCompletionClient(apiKey, baseURL, model string) *CompletionClient {
	return &CompletionClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the persona plus the single user utterance upstream and
// returns the first choice's content.
func (c *CompletionClient) Complete(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: persona},
			{Role: "user", Content: message},
		},
		Temperature: completionTemperature,
		TopP:        completionTopP,
		MaxTokens:   completionMaxTokens,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("relay: encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("relay: build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay: completion request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("relay: completion: unexpected status %d", resp.StatusCode)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("relay: decode completion response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return fallbackAnswer, nil
	}
	return out.Choices[0].Message.Content, nil
}
