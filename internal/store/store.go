package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/freelancepay/freelancepay/pkg/models"
)

// Sentinel errors. Handlers map these to distinct API error codes, so an
// invalid transition must never be reported as a not-found and vice versa.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrChainLinkConflict = errors.New("job already linked with different chain data")
	ErrStaleVerification = errors.New("verification result no longer applies")
)

// Roles accepted by ListJobsByAddress. An empty role matches either party.
const (
	RoleClient     = "client"
	RoleFreelancer = "freelancer"
)

// Store is the data access interface. All database operations go through here.
// Every mutation is a single conditional statement so concurrent callers race
// on the database row, not on stale in-process state.
type Store interface {
	Ping(ctx context.Context) error

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListJobsByAddress(ctx context.Context, address, role string) ([]*models.Job, error)
	ListJobFinancials(ctx context.Context) ([]JobFinancial, error)

	// LinkChain binds chain identifiers to a job in pending_blockchain.
	// Retries with identical values succeed silently; differing values on an
	// already-linked job return ErrChainLinkConflict.
	LinkChain(ctx context.Context, id uuid.UUID, chainJobID int64, txHash string) error

	// SubmitWork records the deliverable, moves the job to submitted and bumps
	// the submission sequence. Legal from active or needs_review.
	SubmitWork(ctx context.Context, id uuid.UUID, workURL, deliverableType string) (*models.Job, error)

	// ApplyVerification records the classifier verdict for the submission
	// identified by seq. Returns ErrStaleVerification when a newer submission
	// has superseded it.
	ApplyVerification(ctx context.Context, id uuid.UUID, seq int, approved bool, analysis string) error

	// ForceNeedsReview is the verification failure path: status becomes
	// needs_review with the failure reason in ai_analysis, ai_approved stays
	// null. Same staleness guard as ApplyVerification.
	ForceNeedsReview(ctx context.Context, id uuid.UUID, seq int, analysis string) error

	// TransitionStatus moves a job to status if its current status is one of
	// from. Used for the approve and dispute transitions.
	TransitionStatus(ctx context.Context, id uuid.UUID, status string, from ...string) error
}

// JobFinancial is the slice of a job the stats aggregator needs.
type JobFinancial struct {
	Amount float64
	Status string
}
