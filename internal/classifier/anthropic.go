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

const (
	anthropicBaseURL    = "https://api.anthropic.com/v1"
	anthropicAPIVersion = "2023-06-01"
	anthropicMaxTokens  = 1024
)

// Anthropic implements models.Classifier against the messages API.
type Anthropic struct {
	cfg     config.AnthropicConfig
	baseURL string
	client  *http.Client
}

func NewAnthropic(cfg config.AnthropicConfig, timeout time.Duration) *Anthropic {
	return &Anthropic{
		cfg:     cfg,
		baseURL: anthropicBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Anthropic) Name() string { return "anthropic" }

func (p *Anthropic) Review(ctx context.Context, req models.ReviewRequest) (models.ReviewDecision, error) {
	payload := map[string]any{
		"model":      p.cfg.Model,
		"max_tokens": anthropicMaxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt + "\n\n" + req.Content},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return models.ReviewDecision{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return models.ReviewDecision{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return models.ReviewDecision{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ReviewDecision{}, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var out struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.ReviewDecision{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(out.Content) == 0 {
		return models.ReviewDecision{}, fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	return parseDecision(out.Content[0].Text)
}

var _ models.Classifier = (*Anthropic)(nil)
