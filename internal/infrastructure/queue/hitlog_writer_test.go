package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

type memHitLogRepo struct {
	mu   sync.Mutex
	hits []domain.HitLog
}

func (r *memHitLogRepo) Insert(_ context.Context, hit *domain.HitLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, *hit)
	return nil
}

func (r *memHitLogRepo) CountBetween(_ context.Context, userID string, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, h := range r.hits {
		if h.UserID == userID && !h.Timestamp.Before(from) && h.Timestamp.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *memHitLogRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []domain.HitLog
	var removed int64
	for _, h := range r.hits {
		if h.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, h)
	}
	r.hits = kept
	return removed, nil
}

func (r *memHitLogRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hits)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestHitLogWriter_PersistsHits(t *testing.T) {
	repo := &memHitLogRepo{}
	w := NewHitLogWriter(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	for i := 0; i < 50; i++ {
		w.Record(domain.HitLog{
			UserID:    fmt.Sprintf("user_%d", i%7),
			Service:   domain.ServiceRC,
			Timestamp: time.Now().UTC(),
		})
	}

	waitFor(t, func() bool { return repo.count() == 50 })
}

func TestHitLogWriter_ShardIsStablePerUser(t *testing.T) {
	w := NewHitLogWriter(8, &memHitLogRepo{}, zerolog.Nop())

	for _, userID := range []string{"u1", "u2", "some-long-user-identifier"} {
		first := w.shardIndex(userID)
		for i := 0; i < 10; i++ {
			if got := w.shardIndex(userID); got != first {
				t.Fatalf("shard for %q not stable: %d vs %d", userID, first, got)
			}
		}
	}
}

func TestHitLogWriter_DefaultWorkerCount(t *testing.T) {
	w := NewHitLogWriter(0, &memHitLogRepo{}, zerolog.Nop())
	if len(w.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(w.workers))
	}
}

func TestHitLogPruner_RemovesOldEntries(t *testing.T) {
	repo := &memHitLogRepo{hits: []domain.HitLog{
		{UserID: "u1", Timestamp: time.Now().UTC().AddDate(0, -3, 0)},
		{UserID: "u1", Timestamp: time.Now().UTC().AddDate(0, -1, 0)},
		{UserID: "u1", Timestamp: time.Now().UTC()},
	}}
	p := NewHitLogPruner(repo, zerolog.Nop())

	p.prune(context.Background())

	if got := repo.count(); got != 2 {
		t.Fatalf("expected 2 entries after prune, got %d", got)
	}
}
