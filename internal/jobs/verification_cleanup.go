package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// Purger removes expired verification codes
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// VerificationCleanupJob periodically deletes unverified codes past their expiry
type VerificationCleanupJob struct {
	purger   Purger
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewVerificationCleanupJob(purger Purger) *VerificationCleanupJob {
	return &VerificationCleanupJob{
		purger:   purger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic cleanup
func (j *VerificationCleanupJob) Start(interval time.Duration) {
	log.Printf("[VerificationCleanup] Starting cleanup job (interval: %v)", interval)

	go func() {
		// Run immediately on start
		j.RunOnce(context.Background())

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.RunOnce(context.Background())
			case <-j.stopChan:
				log.Println("[VerificationCleanup] Stopping cleanup job")
				return
			}
		}
	}()
}

// Stop stops the cleanup loop
func (j *VerificationCleanupJob) Stop() {
	j.stopOnce.Do(func() { close(j.stopChan) })
}

// RunOnce performs a single purge and returns the number of rows removed
func (j *VerificationCleanupJob) RunOnce(ctx context.Context) int64 {
	n, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		log.Printf("[VerificationCleanup] Error purging verifications: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[VerificationCleanup] Purged %d expired verification codes", n)
	}
	return n
}
