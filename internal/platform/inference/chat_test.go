package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testPrompt() *Prompt {
	return &Prompt{Name: "genome-interpretation", Version: "test", System: "You are a clinical assistant."}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *ChatClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewChatClient(ChatConfig{Endpoint: srv.URL, Token: "tok", Temperature: 1, TopP: 1}, testPrompt(), srv.Client())
	require.NoError(t, err)
	return c
}

func TestChatClient_Interpret(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if v := r.URL.Query().Get("api-version"); v != DefaultAPIVersion {
			t.Errorf("expected api-version %s, got %s", DefaultAPIVersion, v)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("unexpected Authorization %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"AI Diagnosis: ..."}}]}`))
	})

	out, err := c.Interpret(context.Background(), `[{"code":{}}]`)
	require.NoError(t, err)
	require.Equal(t, "AI Diagnosis: ...", out)

	require.Equal(t, DefaultModel, got.Model)
	require.Equal(t, 1.0, got.Temperature)
	require.Equal(t, 1.0, got.TopP)
	require.Len(t, got.Messages, 2)
	require.Equal(t, chatMessage{Role: "system", Content: "You are a clinical assistant."}, got.Messages[0])
	require.Equal(t, chatMessage{Role: "user", Content: `[{"code":{}}]`}, got.Messages[1])
}

func TestChatClient_EmptyCompletion(t *testing.T) {
	for _, body := range []string{
		`{"choices":[]}`,
		`{"choices":[{"message":{"content":null}}]}`,
		`{"choices":[{"message":{"content":""}}]}`,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := c.Interpret(context.Background(), "x")
		if !errors.Is(err, ErrEmptyCompletion) || !errors.Is(err, ErrUpstream) {
			t.Errorf("%s: expected ErrEmptyCompletion, got %v", body, err)
		}
	}
}

func TestChatClient_UpstreamStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Bad credentials"}}`, http.StatusUnauthorized)
	})
	_, err := c.Interpret(context.Background(), "x")

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, http.StatusUnauthorized, ue.Status)
	require.True(t, strings.Contains(ue.Message, "Bad credentials"))
	require.ErrorIs(t, err, ErrUpstream)
	require.False(t, Retryable(err))
}

func TestChatClient_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	_, err := c.Interpret(context.Background(), "x")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestChatClient_ContextDeadline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Interpret(ctx, "x")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChatClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewChatClient(ChatConfig{Endpoint: url, Token: "tok"}, testPrompt(), nil)
	require.NoError(t, err)
	_, err = c.Interpret(context.Background(), "x")
	require.ErrorIs(t, err, ErrUpstream)
	require.True(t, Retryable(err))
}

func TestNewChatClient_RequiresToken(t *testing.T) {
	_, err := NewChatClient(ChatConfig{}, testPrompt(), nil)
	require.Error(t, err)
}

func TestNewChatClient_Defaults(t *testing.T) {
	c, err := NewChatClient(ChatConfig{Token: "tok"}, testPrompt(), nil)
	require.NoError(t, err)
	require.Equal(t, "https://models.inference.ai.azure.com/chat/completions?api-version=2024-08-01-preview", c.url)
	require.Equal(t, "gpt-4o", c.model)
	require.Equal(t, "genome-interpretation@test", c.PromptVersion())
}
