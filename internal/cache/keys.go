package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func VerificationStatusKey(jobID uuid.UUID) string {
	return fmt.Sprintf("verify:job:%s", jobID)
}

func RateLimitKey(clientIP string) string {
	return fmt.Sprintf("ratelimit:%s", clientIP)
}

func StatsKey() string {
	return "stats:platform"
}
