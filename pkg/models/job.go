// Package models contains shared data models used across the FreelancePay codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses. A job only ever moves forward along the lifecycle graph;
// the transition table in internal/jobs is the single authority on what
// "forward" means.
const (
	StatusPendingBlockchain = "pending_blockchain"
	StatusActive            = "active"
	StatusSubmitted         = "submitted"
	StatusVerified          = "verified"
	StatusNeedsReview       = "needs_review"
	StatusCompleted         = "completed"
	StatusDisputed          = "disputed"
)

// Deliverable types accepted on submission.
const (
	DeliverableCode    = "code"
	DeliverableContent = "content"
	DeliverableOther   = "other"
)

// ValidStatus reports whether s is a member of the closed status enum.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendingBlockchain, StatusActive, StatusSubmitted,
		StatusVerified, StatusNeedsReview, StatusCompleted, StatusDisputed:
		return true
	}
	return false
}

// ValidDeliverableType reports whether t is a known deliverable type.
func ValidDeliverableType(t string) bool {
	return t == DeliverableCode || t == DeliverableContent || t == DeliverableOther
}

// Job is one client–freelancer paid engagement tracked through the escrow
// lifecycle. The record store owns durable state; chain_job_id and tx_hash
// are either both null or both set, and once set never change. ai_approved
// and ai_analysis belong to the verification pipeline and may be rewritten
// by a re-submission cycle.
type Job struct {
	ID                uuid.UUID  `db:"id"                 json:"id"`
	ClientAddress     string     `db:"client_address"     json:"client_address"`
	FreelancerAddress string     `db:"freelancer_address" json:"freelancer_address"`
	Amount            float64    `db:"amount"             json:"amount"`
	Title             string     `db:"title"              json:"title"`
	Description       string     `db:"description"        json:"description"`
	Category          string     `db:"category"           json:"category"`
	Status            string     `db:"status"             json:"status"`
	ChainJobID        *int64     `db:"chain_job_id"       json:"chain_job_id,omitempty"`
	TxHash            *string    `db:"tx_hash"            json:"tx_hash,omitempty"`
	WorkURL           *string    `db:"work_url"           json:"work_url,omitempty"`
	DeliverableType   *string    `db:"deliverable_type"   json:"deliverable_type,omitempty"`
	SubmissionSeq     int        `db:"submission_seq"     json:"submission_seq"`
	AIApproved        *bool      `db:"ai_approved"        json:"ai_approved,omitempty"`
	AIAnalysis        *string    `db:"ai_analysis"        json:"ai_analysis,omitempty"`
	CreatedAt         time.Time  `db:"created_at"         json:"created_at"`
	SubmittedAt       *time.Time `db:"submitted_at"       json:"submitted_at,omitempty"`
	VerifiedAt        *time.Time `db:"verified_at"        json:"verified_at,omitempty"`
	UpdatedAt         time.Time  `db:"updated_at"         json:"updated_at"`
}
