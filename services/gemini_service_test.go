package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiService_GenerateContent(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey string
	var gotRequest GenerateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"done"},{"inlineData":{"mimeType":"image/png","data":"QUJD"}}]}}]}`))
	}))
	defer server.Close()

	svc := NewGeminiService("test-key", "test-model").WithBaseURL(server.URL)

	contents := []Content{{Role: "user", Parts: []Part{{Text: "hello"}}}}
	resp, err := svc.GenerateContent(context.Background(), contents)
	require.NoError(t, err)

	assert.Equal(t, "/models/test-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotRequest.Contents, 1)
	assert.Equal(t, "hello", gotRequest.Contents[0].Parts[0].Text)

	require.Len(t, resp.Candidates, 1)
	require.Len(t, resp.Candidates[0].Content.Parts, 2)
	assert.Equal(t, "done", resp.Candidates[0].Content.Parts[0].Text)
	require.NotNil(t, resp.Candidates[0].Content.Parts[1].InlineData)
	assert.Equal(t, "QUJD", resp.Candidates[0].Content.Parts[1].InlineData.Data)
}

func TestGeminiService_NonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewGeminiService("test-key", "test-model").WithBaseURL(server.URL)

	_, err := svc.GenerateContent(context.Background(), nil)
	require.Error(t, err)
}

func TestGeminiService_MissingAPIKey(t *testing.T) {
	t.Parallel()

	svc := NewGeminiService("", "test-model")
	_, err := svc.GenerateContent(context.Background(), nil)
	require.Error(t, err)
}

func TestGeminiService_MalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	svc := NewGeminiService("test-key", "test-model").WithBaseURL(server.URL)
	_, err := svc.GenerateContent(context.Background(), nil)
	require.Error(t, err)
}
