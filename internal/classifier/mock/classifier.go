package mock

import (
	"context"

	"github.com/freelancepay/freelancepay/pkg/models"
)

// Classifier satisfies models.Classifier for testing.
type Classifier struct {
	Name_      string
	ReviewFunc func(ctx context.Context, req models.ReviewRequest) (models.ReviewDecision, error)
}

func (m *Classifier) Name() string {
	if m.Name_ == "" {
		return "mock"
	}
	return m.Name_
}

func (m *Classifier) Review(ctx context.Context, req models.ReviewRequest) (models.ReviewDecision, error) {
	if m.ReviewFunc != nil {
		return m.ReviewFunc(ctx, req)
	}
	return models.ReviewDecision{Approved: true, Reason: "mock approval"}, nil
}

// Approving returns a Classifier that approves everything with the given reason.
func Approving(reason string) *Classifier {
	return &Classifier{ReviewFunc: func(_ context.Context, _ models.ReviewRequest) (models.ReviewDecision, error) {
		return models.ReviewDecision{Approved: true, Reason: reason}, nil
	}}
}

// Rejecting returns a Classifier that rejects everything with the given reason.
func Rejecting(reason string) *Classifier {
	return &Classifier{ReviewFunc: func(_ context.Context, _ models.ReviewRequest) (models.ReviewDecision, error) {
		return models.ReviewDecision{Approved: false, Reason: reason}, nil
	}}
}

// Failing returns a Classifier that always returns the given error.
func Failing(err error) *Classifier {
	return &Classifier{ReviewFunc: func(_ context.Context, _ models.ReviewRequest) (models.ReviewDecision, error) {
		return models.ReviewDecision{}, err
	}}
}

var _ models.Classifier = (*Classifier)(nil)
