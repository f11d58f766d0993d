package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGemini(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent"), r.URL.Path)

		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body.Contents)
		assert.Equal(t, "say hi", body.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"role": "model", "parts": []map[string]any{{"text": reply}}},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiClient_Generate(t *testing.T) {
	srv := fakeGemini(t, "hi there")
	g, err := NewGeminiClient(context.Background(), "key", "test-model", time.Second, WithBaseURL(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "test-model", g.Model())

	out, err := g.Generate(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
}

func TestGeminiClient_EmptyResponse(t *testing.T) {
	srv := fakeGemini(t, "")
	g, err := NewGeminiClient(context.Background(), "key", "test-model", 0, WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "say hi")
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestNewGeminiClient_Defaults(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "", 0)
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	g, err := NewGeminiClient(context.Background(), "key", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, g.Model())
}
