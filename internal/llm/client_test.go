package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	_, err := NewClient()
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGenerate(t *testing.T) {
	var got chatRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "All green, ship it."}},
			},
		})
	}))
	defer server.Close()

	t.Setenv(APIKeyEnv, "test-key")
	client, err := NewClient(WithBaseURL(server.URL), WithModel("test-model"))
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "be brief", "analyze this")
	require.NoError(t, err)
	assert.Equal(t, "All green, ship it.", text)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be brief", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "analyze this", got.Messages[1].Content)
}

func TestGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	t.Setenv(APIKeyEnv, "test-key")
	client, err := NewClient(WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "sys", "usr")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	// The body travels with the error for diagnostics.
	assert.Contains(t, apiErr.Body, "rate limited")
}

func TestGenerateParseError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "no choices", body: `{"choices": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			t.Setenv(APIKeyEnv, "test-key")
			client, err := NewClient(WithBaseURL(server.URL))
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), "sys", "usr")
			require.Error(t, err)
			var apiErr *APIError
			assert.False(t, errors.As(err, &apiErr))
			assert.Contains(t, err.Error(), "failed to parse completion response")
		})
	}
}

func TestBaseURLFromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "test-key")
	t.Setenv(BaseURLEnv, "http://localhost:9999")

	client, err := NewClient()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", client.baseURL)
}
