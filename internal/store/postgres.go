package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freelancepay/freelancepay/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const jobColumns = `id, client_address, freelancer_address, amount, title, description, category,
	status, chain_job_id, tx_hash, work_url, deliverable_type, submission_seq,
	ai_approved, ai_analysis, created_at, submitted_at, verified_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var j models.Job
	err := row.Scan(&j.ID, &j.ClientAddress, &j.FreelancerAddress, &j.Amount, &j.Title,
		&j.Description, &j.Category, &j.Status, &j.ChainJobID, &j.TxHash, &j.WorkURL,
		&j.DeliverableType, &j.SubmissionSeq, &j.AIApproved, &j.AIAnalysis,
		&j.CreatedAt, &j.SubmittedAt, &j.VerifiedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, client_address, freelancer_address, amount, title, description,
		 category, status, submission_seq, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		job.ID, job.ClientAddress, job.FreelancerAddress, job.Amount, job.Title,
		job.Description, job.Category, job.Status, job.SubmissionSeq,
		job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (s *PostgresStore) ListJobsByAddress(ctx context.Context, address, role string) ([]*models.Job, error) {
	var query string
	switch role {
	case RoleClient:
		query = `SELECT ` + jobColumns + ` FROM jobs WHERE client_address = $1 ORDER BY created_at DESC`
	case RoleFreelancer:
		query = `SELECT ` + jobColumns + ` FROM jobs WHERE freelancer_address = $1 ORDER BY created_at DESC`
	default:
		query = `SELECT ` + jobColumns + ` FROM jobs
			WHERE client_address = $1 OR freelancer_address = $1 ORDER BY created_at DESC`
	}

	rows, err := s.pool.Query(ctx, query, address)
	if err != nil {
		return nil, fmt.Errorf("list jobs by address: %w", err)
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) ListJobFinancials(ctx context.Context) ([]JobFinancial, error) {
	rows, err := s.pool.Query(ctx, `SELECT amount, status FROM jobs`)
	if err != nil {
		return nil, fmt.Errorf("list job financials: %w", err)
	}
	defer rows.Close()

	var fins []JobFinancial
	for rows.Next() {
		var f JobFinancial
		if err := rows.Scan(&f.Amount, &f.Status); err != nil {
			return nil, fmt.Errorf("scan job financial: %w", err)
		}
		fins = append(fins, f)
	}
	return fins, rows.Err()
}

// LinkChain is a compare-and-set against the unlinked precondition: the
// UPDATE only matches a pending_blockchain row with null linkage, so
// concurrent retries cannot double-link.
func (s *PostgresStore) LinkChain(ctx context.Context, id uuid.UUID, chainJobID int64, txHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET chain_job_id = $2, tx_hash = $3, status = $4, updated_at = $5
		 WHERE id = $1 AND status = $6 AND chain_job_id IS NULL`,
		id, chainJobID, txHash, models.StatusActive, time.Now().UTC(), models.StatusPendingBlockchain)
	if err != nil {
		return fmt.Errorf("link chain: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// No row matched: the job is missing, already linked, or in the wrong
	// state. Fetch it to report which.
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if job.ChainJobID != nil && job.TxHash != nil {
		if *job.ChainJobID == chainJobID && *job.TxHash == txHash {
			return nil // idempotent retry with identical values
		}
		return ErrChainLinkConflict
	}
	return ErrInvalidTransition
}

func (s *PostgresStore) SubmitWork(ctx context.Context, id uuid.UUID, workURL, deliverableType string) (*models.Job, error) {
	now := time.Now().UTC()
	j, err := scanJob(s.pool.QueryRow(ctx,
		`UPDATE jobs SET work_url = $2, deliverable_type = $3, status = $4,
		 submitted_at = $5, submission_seq = submission_seq + 1, updated_at = $5
		 WHERE id = $1 AND status = ANY($6)
		 RETURNING `+jobColumns,
		id, workURL, deliverableType, models.StatusSubmitted, now,
		[]string{models.StatusActive, models.StatusNeedsReview}))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetJob(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, fmt.Errorf("submit work: %w", err)
	}
	return j, nil
}

// ApplyVerification only touches the row while it still holds the submission
// the verdict was computed for; a stale result affects zero rows.
func (s *PostgresStore) ApplyVerification(ctx context.Context, id uuid.UUID, seq int, approved bool, analysis string) error {
	status := models.StatusNeedsReview
	if approved {
		status = models.StatusVerified
	}
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET ai_approved = $3, ai_analysis = $4, status = $5,
		 verified_at = $6, updated_at = $6
		 WHERE id = $1 AND submission_seq = $2 AND status = $7`,
		id, seq, approved, analysis, status, now, models.StatusSubmitted)
	if err != nil {
		return fmt.Errorf("apply verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVerification
	}
	return nil
}

func (s *PostgresStore) ForceNeedsReview(ctx context.Context, id uuid.UUID, seq int, analysis string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $3, ai_analysis = $4, updated_at = $5
		 WHERE id = $1 AND submission_seq = $2 AND status = $6`,
		id, seq, models.StatusNeedsReview, analysis, time.Now().UTC(), models.StatusSubmitted)
	if err != nil {
		return fmt.Errorf("force needs_review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVerification
	}
	return nil
}

func (s *PostgresStore) TransitionStatus(ctx context.Context, id uuid.UUID, status string, from ...string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = $3 WHERE id = $1 AND status = ANY($4)`,
		id, status, time.Now().UTC(), from)
	if err != nil {
		return fmt.Errorf("transition status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := s.GetJob(ctx, id); getErr != nil {
			return getErr
		}
		return ErrInvalidTransition
	}
	return nil
}
