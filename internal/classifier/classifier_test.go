package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelancepay/freelancepay/internal/config"
	"github.com/freelancepay/freelancepay/pkg/models"
)

func TestNewClassifier(t *testing.T) {
	cfg := config.AIConfig{ReviewTimeout: time.Second}

	cfg.Provider = "openai"
	c, err := NewClassifier(cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	cfg.Provider = "anthropic"
	c, err = NewClassifier(cfg)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", c.Name())

	cfg.Provider = "ollama"
	c, err = NewClassifier(cfg)
	require.NoError(t, err)
	assert.Equal(t, "ollama", c.Name())

	cfg.Provider = "watson"
	_, err = NewClassifier(cfg)
	assert.Error(t, err)
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    models.ReviewDecision
		wantErr bool
	}{
		{
			name: "plain object",
			raw:  `{"approved": true, "reason": "clear and complete"}`,
			want: models.ReviewDecision{Approved: true, Reason: "clear and complete"},
		},
		{
			name: "rejected",
			raw:  `{"approved": false, "reason": "filler"}`,
			want: models.ReviewDecision{Approved: false, Reason: "filler"},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"approved\": true, \"reason\": \"ok\"}\n```",
			want: models.ReviewDecision{Approved: true, Reason: "ok"},
		},
		{name: "not json", raw: "looks good to me!", wantErr: true},
		{name: "missing approved", raw: `{"reason": "ok"}`, wantErr: true},
		{name: "wrong type", raw: `{"approved": "yes", "reason": "ok"}`, wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDecision(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenAI_Review(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"approved\":true,\"reason\":\"solid work\"}"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"}, 5*time.Second)
	p.baseURL = srv.URL

	got, err := p.Review(context.Background(), models.ReviewRequest{Prompt: "judge this", Content: "code"})
	require.NoError(t, err)
	assert.True(t, got.Approved)
	assert.Equal(t, "solid work", got.Reason)
}

func TestOpenAI_Review_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOpenAI(config.OpenAIConfig{APIKey: "sk-test"}, 5*time.Second)
	p.baseURL = srv.URL

	_, err := p.Review(context.Background(), models.ReviewRequest{})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestOpenAI_Review_MalformedVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"the work is fine"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(config.OpenAIConfig{APIKey: "sk-test"}, 5*time.Second)
	p.baseURL = srv.URL

	_, err := p.Review(context.Background(), models.ReviewRequest{})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestAnthropic_Review(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "key-test", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		w.Write([]byte(`{"content":[{"text":"{\"approved\":false,\"reason\":\"plagiarized\"}"}]}`))
	}))
	defer srv.Close()

	p := NewAnthropic(config.AnthropicConfig{APIKey: "key-test", Model: "claude"}, 5*time.Second)
	p.baseURL = srv.URL

	got, err := p.Review(context.Background(), models.ReviewRequest{Prompt: "judge", Content: "essay"})
	require.NoError(t, err)
	assert.False(t, got.Approved)
	assert.Equal(t, "plagiarized", got.Reason)
}

func TestOllama_Review(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		w.Write([]byte(`{"message":{"content":"{\"approved\":true,\"reason\":\"ok\"}"}}`))
	}))
	defer srv.Close()

	p := NewOllama(config.OllamaConfig{BaseURL: srv.URL, Model: "llama3"}, 5*time.Second)

	got, err := p.Review(context.Background(), models.ReviewRequest{})
	require.NoError(t, err)
	assert.True(t, got.Approved)
}

func TestOllama_Review_Unreachable(t *testing.T) {
	p := NewOllama(config.OllamaConfig{BaseURL: "http://127.0.0.1:1", Model: "llama3"}, 500*time.Millisecond)

	_, err := p.Review(context.Background(), models.ReviewRequest{})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
