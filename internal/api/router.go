package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	mw "github.com/freelancepay/freelancepay/internal/api/middleware"
	"github.com/freelancepay/freelancepay/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler       http.HandlerFunc
	CreateJobHandler    http.HandlerFunc
	LinkChainHandler    http.HandlerFunc
	SubmitWorkHandler   http.HandlerFunc
	ApproveJobHandler   http.HandlerFunc
	DisputeJobHandler   http.HandlerFunc
	GetJobHandler       http.HandlerFunc
	ListUserJobsHandler http.HandlerFunc
	StatsHandler        http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Public health check
	r.Get("/api/health", orNotImplemented(deps.HealthHandler))

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Post("/api/jobs/create", orNotImplemented(deps.CreateJobHandler))
		r.Post("/api/jobs/link-chain", orNotImplemented(deps.LinkChainHandler))
		r.Post("/api/jobs/submit", orNotImplemented(deps.SubmitWorkHandler))
		r.Post("/api/jobs/approve", orNotImplemented(deps.ApproveJobHandler))
		r.Post("/api/jobs/dispute", orNotImplemented(deps.DisputeJobHandler))

		r.Get("/api/jobs/user/{address}", orNotImplemented(deps.ListUserJobsHandler))
		r.Get("/api/jobs/{jobID}", orNotImplemented(deps.GetJobHandler))

		r.Get("/api/stats", orNotImplemented(deps.StatsHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
