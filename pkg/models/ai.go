package models

import "context"

// Classifier is the core interface all AI integrations must implement.
// Never call a specific provider directly — always inject this interface.
type Classifier interface {
	// Review judges a deliverable against the given rubric prompt and
	// returns a structured approve/reject decision.
	Review(ctx context.Context, req ReviewRequest) (ReviewDecision, error)
	// Name returns the provider identifier (e.g., "openai", "anthropic").
	Name() string
}

// ReviewRequest is the input to a classifier review call. Content is already
// truncated by the caller; providers send it as-is.
type ReviewRequest struct {
	Prompt  string
	Content string
}

// ReviewDecision is the classifier's verdict. The provider must have
// validated the upstream response shape before returning this; a malformed
// upstream reply surfaces as an error, never as a zero-value decision.
type ReviewDecision struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}
