package resolver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	err := json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	assert.NoError(t, err)
}

func TestHTTPResolverRoundTrip(t *testing.T) {
	var captured chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		chatReply(t, w, `{"subcommand":"commit","parameters":{"message":"fix bug"},"confidence":0.85,"explanation":"commit intent"}`)
	}))
	defer srv.Close()

	t.Setenv("TEST_RESOLVER_KEY", "secret")
	r := newHTTPResolver(domain.ResolverConfig{
		Name:       "openai",
		Endpoint:   srv.URL,
		AuthEnvVar: "TEST_RESOLVER_KEY",
		ModelID:    "gpt-test",
	}, srv.Client())

	resp, err := r.Resolve(context.Background(), ports.ResolveRequest{
		Query:       "commit saying fix bug",
		SpecSummary: "git: status, commit",
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-test", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, "git: status, commit")

	assert.Equal(t, "commit", resp.Subcommand)
	assert.InDelta(t, 0.85, resp.Confidence, 1e-9)
	require.Len(t, resp.Guesses, 1)
	assert.Equal(t, ports.ParameterGuess{Name: "message", Value: "fix bug"}, resp.Guesses[0])
}

func TestHTTPResolverPreservesContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect and
		// cancels the request context; otherwise Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	r := newHTTPResolver(domain.ResolverConfig{Endpoint: srv.URL}, srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Resolve(ctx, ports.ResolveRequest{Query: "anything"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPResolverErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := newHTTPResolver(domain.ResolverConfig{Name: "openai", Endpoint: srv.URL}, srv.Client())

	_, err := r.Resolve(context.Background(), ports.ResolveRequest{Query: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai")
}

func TestParseIntentToleratesCodeFences(t *testing.T) {
	fenced := "```json\n{\"subcommand\":\"status\",\"confidence\":0.9}\n```"

	resp, err := parseIntent(fenced)
	require.NoError(t, err)
	assert.Equal(t, "status", resp.Subcommand)
	assert.InDelta(t, 0.9, resp.Confidence, 1e-9)
}

func TestParseIntentSortsGuesses(t *testing.T) {
	resp, err := parseIntent(`{"subcommand":"run","parameters":{"image":"nginx","detach":"true"}}`)
	require.NoError(t, err)
	require.Len(t, resp.Guesses, 2)
	assert.Equal(t, "detach", resp.Guesses[0].Name)
	assert.Equal(t, "image", resp.Guesses[1].Name)
}

func TestParseIntentRejectsMalformedDocument(t *testing.T) {
	_, err := parseIntent("the command you want is git status")
	assert.Error(t, err)
}

func TestFactorySelectsResolverKind(t *testing.T) {
	f := NewFactory()

	offline, err := f.ForConfig(domain.ResolverConfig{Name: "rules"})
	require.NoError(t, err)
	assert.Equal(t, "rules", offline.Name())

	remote, err := f.ForConfig(domain.ResolverConfig{Name: "openai", Endpoint: "http://localhost:9999/v1/chat/completions"})
	require.NoError(t, err)
	assert.Equal(t, "openai", remote.Name())
}
