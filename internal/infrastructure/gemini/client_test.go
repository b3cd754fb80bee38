package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidatesJSON(texts ...string) string {
	type part struct {
		Text string `json:"text"`
	}
	parts := make([]part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, part{Text: t})
	}
	body := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": parts}},
		},
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func TestClient_GenerateCaption(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candidatesJSON("  Chasing sunsets. 🌅 #goldenhour  ")))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gemini-2.5-flash", "test-key")
	text, err := c.GenerateCaption(context.Background(), "sunset at the beach")
	require.NoError(t, err)
	assert.Equal(t, "Chasing sunsets. 🌅 #goldenhour", text)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	require.NotEmpty(t, gotBody.Contents[0].Parts)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "sunset at the beach")
}

func TestClient_GenerateCaptionJoinsParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(candidatesJSON("First half, ", "second half.")))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gemini-2.5-flash", "k")
	text, err := c.GenerateCaption(context.Background(), "idea")
	require.NoError(t, err)
	assert.Equal(t, "First half, second half.", text)
}

func TestClient_GenerateCaptionAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gemini-2.5-flash", "secret-key")
	_, err := c.GenerateCaption(context.Background(), "idea")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESOURCE_EXHAUSTED")
	// the key must never leak into error text
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestClient_GenerateCaptionEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gemini-2.5-flash", "k")
	_, err := c.GenerateCaption(context.Background(), "idea")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClient_GenerateCaptionWithImage(t *testing.T) {
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(candidatesJSON("A latte with heart art.")))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gemini-2.5-flash", "k")
	text, err := c.GenerateCaptionWithImage(context.Background(), "my coffee", []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "A latte with heart art.", text)

	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 2)
	require.NotNil(t, gotBody.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/jpeg", gotBody.Contents[0].Parts[1].InlineData.MimeType)
	assert.NotEmpty(t, gotBody.Contents[0].Parts[1].InlineData.Data)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("sunset at the beach")
	assert.Contains(t, p, "sunset at the beach")
	assert.Contains(t, p, "Instagram")
}
