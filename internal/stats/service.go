// Package stats derives platform-wide summary metrics from the job set.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/freelancepay/freelancepay/internal/cache"
	"github.com/freelancepay/freelancepay/internal/store"
	"github.com/freelancepay/freelancepay/pkg/models"
)

// platformFeeRate is the platform's cut of every completed job.
const platformFeeRate = 0.02

const cacheTTL = 30 * time.Second

// Summary is the aggregate view served by GET /api/stats. Money fields are
// two-decimal strings.
type Summary struct {
	TotalJobs       int    `json:"totalJobs"`
	TotalVolume     string `json:"totalVolume"`
	Completed       int    `json:"completed"`
	Active          int    `json:"active"`
	PlatformRevenue string `json:"platformRevenue"`
}

// Service computes platform aggregates, with a short-lived redis cache in
// front of the full-table scan.
type Service struct {
	store store.Store
	cache cache.Cache
}

// NewService creates a stats Service.
func NewService(st store.Store, ca cache.Cache) *Service {
	return &Service{store: st, cache: ca}
}

// Summary returns the platform aggregates. An empty job set yields zeros,
// not an error. Cache failures fall through to the store.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if raw, found, err := s.cache.Get(ctx, cache.StatsKey()); err == nil && found {
		var cached Summary
		if json.Unmarshal(raw, &cached) == nil {
			return &cached, nil
		}
	}

	fins, err := s.store.ListJobFinancials(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing job financials: %w", err)
	}

	summary := compute(fins)

	if raw, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, cache.StatsKey(), raw, cacheTTL)
	}

	return summary, nil
}

func compute(fins []store.JobFinancial) *Summary {
	var totalVolume, revenue float64
	var completed, active int

	for _, f := range fins {
		totalVolume += f.Amount
		switch f.Status {
		case models.StatusCompleted:
			completed++
			revenue += f.Amount * platformFeeRate
		case models.StatusActive:
			active++
		}
	}

	return &Summary{
		TotalJobs:       len(fins),
		TotalVolume:     fmt.Sprintf("%.2f", totalVolume),
		Completed:       completed,
		Active:          active,
		PlatformRevenue: fmt.Sprintf("%.2f", revenue),
	}
}
