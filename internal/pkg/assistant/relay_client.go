package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RelayClient consumes the narrow relay endpoint (POST /assistant). Only the
// latest utterance is sent; the relay owns the persona and the upstream
// completion call.
type RelayClient struct {
	url  string
	http *http.Client
}

// Ensure interface compliance at compile time
var _ Completer = (*RelayClient)(nil)

// NewRelayClient constructs a client for the relay at baseURL.
func NewRelayClient(baseURL string) *RelayClient {
	return &RelayClient{
		url:  strings.TrimRight(baseURL, "/") + "/assistant",
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

type relayRequest struct {
	Message string `json:"message"`
}

type relayResponse struct {
	Success  bool   `json:"success"`
	Answer   string `json:"resposta"`
	ErrorMsg string `json:"error"`
}

// Complete posts the utterance to the relay and returns the completion. Any
// transport failure, non-success payload or malformed body is an error; the
// overlay session converts it into the apology turn.
func (c *RelayClient) Complete(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(relayRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("assistant: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("assistant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant: relay request: %w", err)
	}
	defer resp.Body.Close()

	var out relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("assistant: decode relay response: %w", err)
	}
	if !out.Success {
		if out.ErrorMsg != "" {
			return "", fmt.Errorf("assistant: relay: %s", out.ErrorMsg)
		}
		return "", errors.New("assistant: relay reported failure")
	}
	return out.Answer, nil
}
