package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/core/ports"
)

const (
	pruneInterval   = 24 * time.Hour
	hitLogRetention = 2 // months
)

// HitLogPruner deletes usage records older than the retention window once a
// day. Only the current and previous month are ever queried, so anything
// older is dead weight.
type HitLogPruner struct {
	repo ports.HitLogRepository
	log  zerolog.Logger
}

func NewHitLogPruner(repo ports.HitLogRepository, log zerolog.Logger) *HitLogPruner {
	return &HitLogPruner{repo: repo, log: log}
}

// Start runs the prune loop until ctx is cancelled. The first pass runs
// immediately so a long-stopped instance catches up on startup.
func (p *HitLogPruner) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()

		p.prune(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.prune(ctx)
			}
		}
	}()
}

func (p *HitLogPruner) prune(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, -hitLogRetention, 0)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.log.Error().Err(err).Msg("hit log prune failed")
		return
	}
	if deleted > 0 {
		p.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("hit logs pruned")
	}
}
