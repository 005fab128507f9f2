package jobs

import "github.com/freelancepay/freelancepay/pkg/models"

// Transition events.
const (
	EventLinkChain  = "link-chain"
	EventSubmitWork = "submit-work"
	EventApprove    = "approve"
	EventDispute    = "dispute"
)

// transitions is the single authority on the lifecycle graph. An event maps
// each legal source status to its target; anything absent is an illegal
// transition. completed and disputed are terminal.
var transitions = map[string]map[string]string{
	EventLinkChain: {
		models.StatusPendingBlockchain: models.StatusActive,
	},
	EventSubmitWork: {
		models.StatusActive: models.StatusSubmitted,
		// re-submission after a failed verification attempt
		models.StatusNeedsReview: models.StatusSubmitted,
	},
	EventApprove: {
		models.StatusVerified:  models.StatusCompleted,
		models.StatusSubmitted: models.StatusCompleted,
	},
	EventDispute: {
		models.StatusSubmitted: models.StatusDisputed,
		models.StatusVerified:  models.StatusDisputed,
	},
}

// sourceStatuses returns the legal source statuses for an event.
func sourceStatuses(event string) []string {
	var from []string
	for s := range transitions[event] {
		from = append(from, s)
	}
	return from
}
