// Package verify runs the deliverable verification pipeline.
//
// Submissions are enqueued onto a bounded queue consumed by a fixed pool of
// workers. Whatever happens inside a task — fetch failure, classifier outage,
// malformed verdict, panic — the job always leaves `submitted` for either
// `verified` or `needs_review`. A result computed for a superseded submission
// is dropped, guarded by the submission sequence recorded at enqueue time.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/freelancepay/freelancepay/internal/cache"
	"github.com/freelancepay/freelancepay/internal/content"
	"github.com/freelancepay/freelancepay/internal/store"
	"github.com/freelancepay/freelancepay/pkg/models"
)

const (
	// maxContentBytes caps what is sent to the classifier.
	maxContentBytes = 8000
	// minOtherLength is the completeness threshold for untyped deliverables.
	minOtherLength = 100

	statusTTL = 30 * time.Minute
)

const codePrompt = `Review this code for quality. Check:
1. Does it work? (no obvious syntax errors)
2. Is it reasonably clean? (not spaghetti)
3. Does it match basic requirements?

Respond with JSON: {"approved": true/false, "reason": "brief explanation"}

Code:`

const contentPrompt = `Analyze this content for quality:
1. Is it original? (not clearly plagiarized)
2. Is it well-written? (proper grammar, coherent)
3. Is it substantial? (not just filler)

Respond with JSON: {"approved": true/false, "reason": "why"}

Content:`

// Task identifies one submission to verify. Seq pins the verdict to the
// submission it was computed for.
type Task struct {
	JobID           uuid.UUID
	Seq             int
	WorkURL         string
	DeliverableType string
}

// Pipeline is the supervised verification worker pool.
type Pipeline struct {
	store         store.Store
	cache         cache.Cache
	fetcher       content.Fetcher
	classifier    models.Classifier
	reviewTimeout time.Duration

	tasks chan Task
	wg    sync.WaitGroup
}

// NewPipeline creates a Pipeline. Call Start before enqueuing.
func NewPipeline(st store.Store, ca cache.Cache, f content.Fetcher, cl models.Classifier,
	reviewTimeout time.Duration, queueSize int) *Pipeline {
	return &Pipeline{
		store:         st,
		cache:         ca,
		fetcher:       f,
		classifier:    cl,
		reviewTimeout: reviewTimeout,
		tasks:         make(chan Task, queueSize),
	}
}

// Start launches the worker pool.
func (p *Pipeline) Start(workers int) {
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop drains the queue and waits for in-flight tasks to finish.
func (p *Pipeline) Stop() {
	close(p.tasks)
	p.wg.Wait()
}

// Enqueue hands a submission to the pool without blocking the caller. If the
// queue is saturated the job is routed straight to needs_review rather than
// left in submitted with nobody watching it.
func (p *Pipeline) Enqueue(ctx context.Context, task Task) {
	select {
	case p.tasks <- task:
		_ = p.cache.SetVerificationStatus(ctx, task.JobID, "queued", statusTTL)
	default:
		slog.Warn("verification queue full, forcing needs_review", "job_id", task.JobID)
		p.fail(ctx, task, "verification error: queue saturated")
	}
}

func (p *Pipeline) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.process(task)
	}
}

// process always drives the job to a terminal verification state.
func (p *Pipeline) process(task Task) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in verification task", "error", r, "job_id", task.JobID)
			p.fail(ctx, task, fmt.Sprintf("verification error: panic: %v", r))
		}
	}()

	_ = p.cache.SetVerificationStatus(ctx, task.JobID, "running", statusTTL)

	fetchCtx, cancel := context.WithTimeout(ctx, p.reviewTimeout)
	workContent := p.fetcher.Fetch(fetchCtx, task.WorkURL)
	cancel()

	var approved bool
	var analysis string

	switch task.DeliverableType {
	case models.DeliverableCode, models.DeliverableContent:
		prompt := codePrompt
		if task.DeliverableType == models.DeliverableContent {
			prompt = contentPrompt
		}

		reviewCtx, cancel := context.WithTimeout(ctx, p.reviewTimeout)
		decision, err := p.classifier.Review(reviewCtx, models.ReviewRequest{
			Prompt:  prompt,
			Content: truncate(workContent, maxContentBytes),
		})
		cancel()
		if err != nil {
			slog.Warn("classifier review failed", "job_id", task.JobID, "error", err)
			p.fail(ctx, task, "verification error: "+err.Error())
			return
		}
		approved = decision.Approved
		analysis = decision.Reason

	default:
		// completeness check only, no external call
		approved = len(workContent) >= minOtherLength
		if approved {
			analysis = "deliverable provided"
		} else {
			analysis = "deliverable too short"
		}
	}

	err := p.store.ApplyVerification(ctx, task.JobID, task.Seq, approved, analysis)
	switch {
	case err == nil:
		status := models.StatusNeedsReview
		if approved {
			status = models.StatusVerified
		}
		_ = p.cache.SetVerificationStatus(ctx, task.JobID, status, statusTTL)
		slog.Info("job verified", "job_id", task.JobID, "approved", approved)
	case isStale(err):
		slog.Info("dropping stale verification result", "job_id", task.JobID, "seq", task.Seq)
	default:
		slog.Error("storing verification result failed", "job_id", task.JobID, "error", err)
		p.fail(ctx, task, "verification error: storing result failed")
	}
}

// fail forces the needs_review fallback; the failure reason lands in
// ai_analysis so the outage is visible on the record.
func (p *Pipeline) fail(ctx context.Context, task Task, analysis string) {
	err := p.store.ForceNeedsReview(ctx, task.JobID, task.Seq, analysis)
	switch {
	case err == nil:
		_ = p.cache.SetVerificationStatus(ctx, task.JobID, models.StatusNeedsReview, statusTTL)
	case isStale(err):
		slog.Info("dropping stale verification failure", "job_id", task.JobID, "seq", task.Seq)
	default:
		slog.Error("forcing needs_review failed", "job_id", task.JobID, "error", err)
	}
}

func isStale(err error) bool {
	return errors.Is(err, store.ErrStaleVerification)
}

// truncate cuts s to maxBytes without splitting UTF-8 runes.
func truncate(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}
