package analyzer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/calboard/calboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiClient(config.Gemini{
		ApiKey:  "test-key",
		Model:   "gemini-3-flash-preview",
		BaseUrl: srv.URL,
	})
}

func candidateResponse(text string) string {
	resp := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
	encoded, _ := json.Marshal(resp)
	return string(encoded)
}

func TestGeminiGenerate(t *testing.T) {
	t.Run("sends the documented request shape", func(t *testing.T) {
		var captured generateRequest
		var capturedPath, capturedKey string

		client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			capturedPath = r.URL.Path
			capturedKey = r.URL.Query().Get("key")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(candidateResponse(`{"summary":"Dinner"}`)))
		})

		image := []byte{0x89, 0x50, 0x4e, 0x47}
		got, err := client.Generate(context.Background(), "extract the schedule", image, "image/png")
		require.NoError(t, err)
		assert.Equal(t, `{"summary":"Dinner"}`, got)

		assert.Equal(t, "/v1beta/models/gemini-3-flash-preview:generateContent", capturedPath)
		assert.Equal(t, "test-key", capturedKey)

		assert.InDelta(t, 0.2, captured.GenerationConfig.Temperature, 0.0001)
		assert.Equal(t, 3000, captured.GenerationConfig.MaxOutputTokens)
		require.NotNil(t, captured.SystemInstruction)

		require.Len(t, captured.Contents, 1)
		parts := captured.Contents[0].Parts
		require.Len(t, parts, 2)
		assert.Equal(t, "extract the schedule", parts[0].Text)
		require.NotNil(t, parts[1].InlineData)
		assert.Equal(t, "image/png", parts[1].InlineData.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), parts[1].InlineData.Data)
	})

	t.Run("text-only requests carry no inline data", func(t *testing.T) {
		var captured generateRequest
		client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(candidateResponse("ok")))
		})

		_, err := client.Generate(context.Background(), "prompt", nil, "")
		require.NoError(t, err)
		require.Len(t, captured.Contents[0].Parts, 1)
	})

	t.Run("error statuses become errors", func(t *testing.T) {
		client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		})

		_, err := client.Generate(context.Background(), "prompt", nil, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("responses without text are an error", func(t *testing.T) {
		client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		})

		_, err := client.Generate(context.Background(), "prompt", nil, "")
		assert.Error(t, err)
	})
}

func TestGeminiPing(t *testing.T) {
	t.Run("answers nil when the model endpoint responds", func(t *testing.T) {
		client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1beta/models/gemini-3-flash-preview", r.URL.Path)
			_, _ = w.Write([]byte(`{}`))
		})
		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("propagates error statuses", func(t *testing.T) {
		client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusServiceUnavailable)
		})
		assert.Error(t, client.Ping(context.Background()))
	})
}

func TestWaitReady(t *testing.T) {
	t.Run("returns once a probe succeeds", func(t *testing.T) {
		client := NewModelClientStub()
		err := WaitReady(context.Background(), client, time.Second)
		assert.NoError(t, err)
		assert.Equal(t, 1, client.PingCalls)
	})

	t.Run("gives up after the wait budget", func(t *testing.T) {
		client := NewModelClientStub()
		client.PingErr = assert.AnError

		err := WaitReady(context.Background(), client, 50*time.Millisecond)
		assert.Error(t, err)
		assert.GreaterOrEqual(t, client.PingCalls, 1)
	})
}
