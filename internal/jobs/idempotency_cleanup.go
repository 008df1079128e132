package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/rxledger/pharmacy-api/internal/domain/repository"
)

// IdempotencyCleanupJob purges expired idempotency keys so replay records
// do not accumulate beyond their retention window.
type IdempotencyCleanupJob struct {
	repo     repository.IdempotencyRepository
	cronSpec string
	cron     *cron.Cron
}

// NewIdempotencyCleanupJob creates a new cleanup job. Runs hourly by default.
func NewIdempotencyCleanupJob(repo repository.IdempotencyRepository, cronSpec string) *IdempotencyCleanupJob {
	if cronSpec == "" {
		cronSpec = "0 * * * *"
	}
	return &IdempotencyCleanupJob{repo: repo, cronSpec: cronSpec}
}

// Start schedules the job. Returns an error if the cron spec is invalid.
func (j *IdempotencyCleanupJob) Start() error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(j.cronSpec, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	log.Info().Str("spec", j.cronSpec).Msg("idempotency cleanup job scheduled")
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish
func (j *IdempotencyCleanupJob) Stop() {
	if j.cron != nil {
		ctx := j.cron.Stop()
		<-ctx.Done()
	}
}

// Run deletes all keys past their expiry
func (j *IdempotencyCleanupJob) Run() {
	if err := j.repo.DeleteExpired(context.Background()); err != nil {
		log.Error().Err(err).Msg("idempotency key cleanup failed")
	}
}
