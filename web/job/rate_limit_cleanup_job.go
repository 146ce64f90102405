package job

import (
	"time"

	"github.com/drsdgdbye/user-panel/logger"
)

type visitorCleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// RateLimitCleanupJob drops token buckets of clients that went quiet.
type RateLimitCleanupJob struct {
	limiter visitorCleaner
	maxIdle time.Duration
}

func NewRateLimitCleanupJob(limiter visitorCleaner, maxIdle time.Duration) *RateLimitCleanupJob {
	return &RateLimitCleanupJob{limiter: limiter, maxIdle: maxIdle}
}

func (j *RateLimitCleanupJob) Run() {
	if n := j.limiter.Cleanup(j.maxIdle); n > 0 {
		logger.Debugf("rate limiter: dropped %d idle clients", n)
	}
}
