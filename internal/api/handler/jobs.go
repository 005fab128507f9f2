package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freelancepay/freelancepay/internal/api/response"
	"github.com/freelancepay/freelancepay/internal/jobs"
	"github.com/freelancepay/freelancepay/internal/store"
	"github.com/freelancepay/freelancepay/pkg/models"
)

// JobService is the interface the job handlers depend on.
type JobService interface {
	Create(ctx context.Context, p jobs.CreateParams) (*models.Job, error)
	LinkChain(ctx context.Context, jobID uuid.UUID, chainJobID int64, txHash string) error
	SubmitWork(ctx context.Context, jobID uuid.UUID, workURL, deliverableType string) (*models.Job, error)
	Approve(ctx context.Context, jobID uuid.UUID, callerAddress string) error
	Dispute(ctx context.Context, jobID uuid.UUID, callerAddress string) error
	Get(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	ListByUser(ctx context.Context, address, role string) ([]*models.Job, error)
}

// NewCreateJobHandler returns an http.HandlerFunc for POST /api/jobs/create.
func NewCreateJobHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClientAddress     string  `json:"clientAddress"`
			FreelancerAddress string  `json:"freelancerAddress"`
			Amount            float64 `json:"amount"`
			Title             string  `json:"title"`
			Description       string  `json:"description"`
			Category          string  `json:"category"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		job, err := svc.Create(r.Context(), jobs.CreateParams{
			ClientAddress:     req.ClientAddress,
			FreelancerAddress: req.FreelancerAddress,
			Amount:            req.Amount,
			Title:             req.Title,
			Description:       req.Description,
			Category:          req.Category,
		})
		if err != nil {
			writeJobError(w, err)
			return
		}

		response.Created(w, map[string]any{
			"jobId":  job.ID,
			"status": job.Status,
		})
	}
}

// NewLinkChainHandler returns an http.HandlerFunc for POST /api/jobs/link-chain.
func NewLinkChainHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JobID      string `json:"jobId"`
			ChainJobID *int64 `json:"chainJobId"`
			TxHash     string `json:"txHash"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.JobID == "" || req.ChainJobID == nil || req.TxHash == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobId, chainJobId and txHash are required", nil)
			return
		}

		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobId must be a valid UUID", nil)
			return
		}

		if err := svc.LinkChain(r.Context(), jobID, *req.ChainJobID, req.TxHash); err != nil {
			writeJobError(w, err)
			return
		}

		response.JSON(w, map[string]any{"success": true})
	}
}

// NewSubmitWorkHandler returns an http.HandlerFunc for POST /api/jobs/submit.
// Verification runs after the response is written.
func NewSubmitWorkHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JobID           string `json:"jobId"`
			WorkURL         string `json:"workUrl"`
			DeliverableType string `json:"deliverableType"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.JobID == "" || req.WorkURL == "" || req.DeliverableType == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobId, workUrl and deliverableType are required", nil)
			return
		}

		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobId must be a valid UUID", nil)
			return
		}

		job, err := svc.SubmitWork(r.Context(), jobID, req.WorkURL, req.DeliverableType)
		if err != nil {
			writeJobError(w, err)
			return
		}

		response.Accepted(w, map[string]any{
			"status":  job.Status,
			"message": "ai verification started",
		})
	}
}

// newCallerActionHandler covers the approve and dispute endpoints, which
// share the {jobId, callerAddress} shape.
func newCallerActionHandler(action func(ctx context.Context, jobID uuid.UUID, caller string) error, doneStatus string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JobID         string `json:"jobId"`
			CallerAddress string `json:"callerAddress"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.JobID == "" || req.CallerAddress == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobId and callerAddress are required", nil)
			return
		}

		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobId must be a valid UUID", nil)
			return
		}

		if err := action(r.Context(), jobID, req.CallerAddress); err != nil {
			writeJobError(w, err)
			return
		}

		response.JSON(w, map[string]any{"status": doneStatus})
	}
}

// NewApproveJobHandler returns an http.HandlerFunc for POST /api/jobs/approve.
func NewApproveJobHandler(svc JobService) http.HandlerFunc {
	return newCallerActionHandler(svc.Approve, models.StatusCompleted)
}

// NewDisputeJobHandler returns an http.HandlerFunc for POST /api/jobs/dispute.
func NewDisputeJobHandler(svc JobService) http.HandlerFunc {
	return newCallerActionHandler(svc.Dispute, models.StatusDisputed)
}

// NewGetJobHandler returns an http.HandlerFunc for GET /api/jobs/{jobID}.
func NewGetJobHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "job ID must be a valid UUID", nil)
			return
		}

		job, err := svc.Get(r.Context(), jobID)
		if err != nil {
			writeJobError(w, err)
			return
		}

		response.JSON(w, job)
	}
}

// NewListUserJobsHandler returns an http.HandlerFunc for GET /api/jobs/user/{address}.
func NewListUserJobsHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := chi.URLParam(r, "address")
		role := r.URL.Query().Get("role")

		list, err := svc.ListByUser(r.Context(), address, role)
		if err != nil {
			writeJobError(w, err)
			return
		}

		response.JSON(w, list)
	}
}

// writeJobError maps service and store errors onto the API error taxonomy.
// Validation failures carry their specific reason; persistence failures stay
// opaque.
func writeJobError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, jobs.ErrInvalidAddress),
		errors.Is(err, jobs.ErrNonPositiveAmount),
		errors.Is(err, jobs.ErrMissingTitle),
		errors.Is(err, jobs.ErrMissingFields),
		errors.Is(err, jobs.ErrInvalidDeliverable):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, jobs.ErrNotClient), errors.Is(err, jobs.ErrNotParticipant):
		response.Error(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
	case errors.Is(err, store.ErrChainLinkConflict):
		response.Error(w, http.StatusConflict, "CHAIN_LINK_CONFLICT",
			"Job is already linked with different chain data", nil)
	case errors.Is(err, store.ErrInvalidTransition):
		response.Error(w, http.StatusConflict, "INVALID_TRANSITION",
			"Operation not allowed from the job's current status", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
