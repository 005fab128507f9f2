// Package jobs owns the job lifecycle: creation, chain linkage, work
// submission, and the client-driven approve/dispute transitions.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/freelancepay/freelancepay/internal/store"
	"github.com/freelancepay/freelancepay/internal/verify"
	"github.com/freelancepay/freelancepay/pkg/ethaddr"
	"github.com/freelancepay/freelancepay/pkg/models"
)

// Validation errors. These are caller-visible with specific reasons, unlike
// store failures which are reported opaquely.
var (
	ErrInvalidAddress     = errors.New("invalid address")
	ErrNonPositiveAmount  = errors.New("amount must be positive")
	ErrMissingTitle       = errors.New("title and description required")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidDeliverable = errors.New("deliverable type must be code, content or other")
	ErrNotParticipant     = errors.New("caller is not a party to this job")
	ErrNotClient          = errors.New("only the client can approve")
)

// Dispatcher hands a submission to the verification pipeline. Satisfied by
// *verify.Pipeline; tests substitute a recorder.
type Dispatcher interface {
	Enqueue(ctx context.Context, task verify.Task)
}

// Service coordinates job lifecycle operations against the record store.
type Service struct {
	store      store.Store
	dispatcher Dispatcher
}

// NewService creates a Service.
func NewService(st store.Store, d Dispatcher) *Service {
	return &Service{store: st, dispatcher: d}
}

// CreateParams are the inputs for a new job.
type CreateParams struct {
	ClientAddress     string
	FreelancerAddress string
	Amount            float64
	Title             string
	Description       string
	Category          string
}

// Create validates inputs and persists a new job in pending_blockchain.
// Nothing is written on invalid input.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.Job, error) {
	if !ethaddr.IsAddress(p.ClientAddress) || !ethaddr.IsAddress(p.FreelancerAddress) {
		return nil, ErrInvalidAddress
	}
	if p.Amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if p.Title == "" || p.Description == "" {
		return nil, ErrMissingTitle
	}

	category := p.Category
	if category == "" {
		category = "other"
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:                uuid.New(),
		ClientAddress:     ethaddr.Normalize(p.ClientAddress),
		FreelancerAddress: ethaddr.Normalize(p.FreelancerAddress),
		Amount:            p.Amount,
		Title:             p.Title,
		Description:       p.Description,
		Category:          category,
		Status:            models.StatusPendingBlockchain,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	slog.Info("job created", "job_id", job.ID, "amount", job.Amount, "category", job.Category)
	return job, nil
}

// LinkChain binds the on-chain identifiers to a pending job. Retries with
// identical values are idempotent; differing values surface as a conflict.
func (s *Service) LinkChain(ctx context.Context, jobID uuid.UUID, chainJobID int64, txHash string) error {
	if txHash == "" {
		return ErrMissingFields
	}

	if err := s.store.LinkChain(ctx, jobID, chainJobID, txHash); err != nil {
		return err
	}

	slog.Info("job linked to chain", "job_id", jobID, "chain_job_id", chainJobID)
	return nil
}

// SubmitWork records the deliverable and dispatches verification. The
// pipeline runs after this returns; its outcome is only observable through
// the job record.
func (s *Service) SubmitWork(ctx context.Context, jobID uuid.UUID, workURL, deliverableType string) (*models.Job, error) {
	if workURL == "" || deliverableType == "" {
		return nil, ErrMissingFields
	}
	if !models.ValidDeliverableType(deliverableType) {
		return nil, ErrInvalidDeliverable
	}

	job, err := s.store.SubmitWork(ctx, jobID, workURL, deliverableType)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Enqueue(ctx, verify.Task{
		JobID:           job.ID,
		Seq:             job.SubmissionSeq,
		WorkURL:         workURL,
		DeliverableType: deliverableType,
	})

	slog.Info("work submitted", "job_id", job.ID, "seq", job.SubmissionSeq, "type", deliverableType)
	return job, nil
}

// Approve completes a job. Only the client may approve, from verified or
// (overriding a pending verification) submitted.
func (s *Service) Approve(ctx context.Context, jobID uuid.UUID, callerAddress string) error {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if ethaddr.Normalize(callerAddress) != job.ClientAddress {
		return ErrNotClient
	}

	if err := s.store.TransitionStatus(ctx, jobID, models.StatusCompleted,
		sourceStatuses(EventApprove)...); err != nil {
		return err
	}

	slog.Info("job completed", "job_id", jobID)
	return nil
}

// Dispute marks a job disputed. Either party may dispute from submitted or
// verified; disputed is terminal for this service, resolution is manual.
func (s *Service) Dispute(ctx context.Context, jobID uuid.UUID, callerAddress string) error {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	caller := ethaddr.Normalize(callerAddress)
	if caller != job.ClientAddress && caller != job.FreelancerAddress {
		return ErrNotParticipant
	}

	if err := s.store.TransitionStatus(ctx, jobID, models.StatusDisputed,
		sourceStatuses(EventDispute)...); err != nil {
		return err
	}

	slog.Info("job disputed", "job_id", jobID, "caller", caller)
	return nil
}

// Get returns a job by ID.
func (s *Service) Get(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	return s.store.GetJob(ctx, jobID)
}

// ListByUser returns a user's jobs, newest first. role filters to one side
// of the engagement; empty role matches either party.
func (s *Service) ListByUser(ctx context.Context, address, role string) ([]*models.Job, error) {
	if !ethaddr.IsAddress(address) {
		return nil, ErrInvalidAddress
	}
	if role != "" && role != store.RoleClient && role != store.RoleFreelancer {
		return nil, fmt.Errorf("%w: unknown role %q", ErrMissingFields, role)
	}
	return s.store.ListJobsByAddress(ctx, ethaddr.Normalize(address), role)
}
