// Package classifier holds the AI provider integrations that judge
// submitted deliverables. All providers return the same structured
// approve/reject decision; the upstream reply is treated as untrusted and
// validated before anything downstream sees it.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/freelancepay/freelancepay/internal/config"
	"github.com/freelancepay/freelancepay/pkg/models"
)

var (
	ErrProviderUnavailable = errors.New("classifier unavailable")
	ErrInvalidResponse     = errors.New("classifier returned invalid response")
)

// NewClassifier constructs the appropriate provider based on config.
// Called once at server startup.
func NewClassifier(cfg config.AIConfig) (models.Classifier, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.OpenAI, cfg.ReviewTimeout), nil
	case "anthropic":
		return NewAnthropic(cfg.Anthropic, cfg.ReviewTimeout), nil
	case "ollama":
		return NewOllama(cfg.Ollama, cfg.ReviewTimeout), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q: must be one of openai, anthropic, ollama", cfg.Provider)
	}
}

// parseDecision decodes the model's free-text reply into a ReviewDecision.
// The reply must be a JSON object with a boolean "approved"; anything else
// is ErrInvalidResponse. Models occasionally wrap JSON in a code fence, so
// fences are stripped before decoding.
func parseDecision(raw string) (models.ReviewDecision, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var body struct {
		Approved *bool  `json:"approved"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return models.ReviewDecision{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if body.Approved == nil {
		return models.ReviewDecision{}, fmt.Errorf("%w: missing approved field", ErrInvalidResponse)
	}
	return models.ReviewDecision{Approved: *body.Approved, Reason: body.Reason}, nil
}
