package handler

import (
	"context"
	"net/http"

	"github.com/freelancepay/freelancepay/internal/api/response"
	"github.com/freelancepay/freelancepay/internal/stats"
)

// StatsProvider is the interface the stats handler depends on.
type StatsProvider interface {
	Summary(ctx context.Context) (*stats.Summary, error)
}

// NewStatsHandler returns an http.HandlerFunc for GET /api/stats.
func NewStatsHandler(svc StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		response.JSON(w, summary)
	}
}
