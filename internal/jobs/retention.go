package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/modelmeter/modelmeter/internal/repository"
)

// RetentionJob prunes old usage log rows on an interval. Usage logs
// feed summaries only; balances and models are never touched.
type RetentionJob struct {
	usageRepo repository.UsageLogRepository
	retention time.Duration
	interval  time.Duration
	done      chan struct{}
}

func NewRetentionJob(usageRepo repository.UsageLogRepository, retention, interval time.Duration) *RetentionJob {
	return &RetentionJob{
		usageRepo: usageRepo,
		retention: retention,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

func (j *RetentionJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("retention", j.retention).Msg("usage retention job started")
}

func (j *RetentionJob) Stop() {
	close(j.done)
	log.Info().Msg("usage retention job stopped")
}

func (j *RetentionJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.prune()

	for {
		select {
		case <-ticker.C:
			j.prune()
		case <-j.done:
			return
		}
	}
}

func (j *RetentionJob) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.retention)
	deleted, err := j.usageRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("usage retention prune failed")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("pruned usage logs")
	}
}
