package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/freelancepay/freelancepay/internal/config"
	"github.com/freelancepay/freelancepay/pkg/models"
)

// Ollama implements models.Classifier against a local Ollama instance.
type Ollama struct {
	cfg    config.OllamaConfig
	client *http.Client
}

func NewOllama(cfg config.OllamaConfig, timeout time.Duration) *Ollama {
	return &Ollama{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *Ollama) Name() string { return "ollama" }

func (p *Ollama) Review(ctx context.Context, req models.ReviewRequest) (models.ReviewDecision, error) {
	payload := map[string]any{
		"model": p.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt + "\n\n" + req.Content},
		},
		"format": "json",
		"stream": false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return models.ReviewDecision{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return models.ReviewDecision{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return models.ReviewDecision{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ReviewDecision{}, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var out struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.ReviewDecision{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return parseDecision(out.Message.Content)
}

var _ models.Classifier = (*Ollama)(nil)
