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

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAI implements models.Classifier against the chat completions API.
type OpenAI struct {
	cfg     config.OpenAIConfig
	baseURL string
	client  *http.Client
}

func NewOpenAI(cfg config.OpenAIConfig, timeout time.Duration) *OpenAI {
	return &OpenAI{
		cfg:     cfg,
		baseURL: openAIBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *OpenAI) Name() string { return "openai" }

func (p *OpenAI) Review(ctx context.Context, req models.ReviewRequest) (models.ReviewDecision, error) {
	payload := map[string]any{
		"model": p.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt + "\n\n" + req.Content},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return models.ReviewDecision{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return models.ReviewDecision{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return models.ReviewDecision{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ReviewDecision{}, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.ReviewDecision{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(out.Choices) == 0 {
		return models.ReviewDecision{}, fmt.Errorf("%w: empty choices", ErrInvalidResponse)
	}

	return parseDecision(out.Choices[0].Message.Content)
}

var _ models.Classifier = (*OpenAI)(nil)
