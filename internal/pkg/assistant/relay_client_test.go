package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/assistant", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qual a capital?", req["message"])

		json.NewEncoder(w).Encode(map[string]any{"resposta": "Brasília.", "success": true})
	}))
	defer srv.Close()

	c := NewRelayClient(srv.URL)
	answer, err := c.Complete(context.Background(), "qual a capital?")
	require.NoError(t, err)
	assert.Equal(t, "Brasília.", answer)
}

func TestRelayClientFailurePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"error": "estouro", "success": false})
	}))
	defer srv.Close()

	c := NewRelayClient(srv.URL)
	_, err := c.Complete(context.Background(), "oi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estouro")
}

func TestRelayClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewRelayClient(srv.URL)
	_, err := c.Complete(context.Background(), "oi")
	assert.Error(t, err)
}

func TestRelayClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewRelayClient(srv.URL)
	_, err := c.Complete(context.Background(), "oi")
	assert.Error(t, err)
}
