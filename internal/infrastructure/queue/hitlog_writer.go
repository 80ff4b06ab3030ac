package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/api/metrics"
	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// HitLogWriter persists usage hits off the request path. Hits are routed to a
// fixed set of workers by consistent hashing on the user identifier, so one
// user's hits are written in order and the monthly counts stay monotonic.
type HitLogWriter struct {
	workers []chan domain.HitLog
	repo    ports.HitLogRepository
	log     zerolog.Logger
}

// NewHitLogWriter creates a HitLogWriter with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewHitLogWriter(numWorkers int, repo ports.HitLogRepository, log zerolog.Logger) *HitLogWriter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &HitLogWriter{
		workers: make([]chan domain.HitLog, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range w.workers {
		w.workers[i] = make(chan domain.HitLog, channelBuffer)
	}
	return w
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (w *HitLogWriter) Start(ctx context.Context) {
	for i, ch := range w.workers {
		go w.runWorker(ctx, i, ch)
	}
}

// Record enqueues a hit for the worker responsible for its user. When the
// worker's buffer is full the hit is dropped: usage analytics are not worth
// stalling a lookup response.
func (w *HitLogWriter) Record(hit domain.HitLog) {
	idx := w.shardIndex(hit.UserID)
	select {
	case w.workers[idx] <- hit:
		metrics.HitLogQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(w.workers[idx])))
	default:
		w.log.Warn().Str("user_id", hit.UserID).Msg("hit log dropped, worker queue full")
	}
}

// shardIndex maps a user identifier deterministically to a worker index.
func (w *HitLogWriter) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(w.workers)
}

func (w *HitLogWriter) runWorker(ctx context.Context, id int, ch <-chan domain.HitLog) {
	for {
		select {
		case <-ctx.Done():
			return
		case hit, ok := <-ch:
			if !ok {
				return
			}
			metrics.HitLogQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := w.repo.Insert(ctx, &hit); err != nil {
				w.log.Error().Err(err).
					Str("user_id", hit.UserID).
					Int("worker_id", id).
					Msg("hit log write failed")
			}
		}
	}
}
