package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	DefaultQueueSize = 1024
	DefaultWorkers   = 2

	insertTimeout = 5 * time.Second
)

// RecorderMetrics counts what happens to queued pageviews.
type RecorderMetrics struct {
	Recorded prometheus.Counter
	Dropped  prometheus.Counter
	Failed   prometheus.Counter
}

// Recorder accepts pageviews from the request path and persists them on
// background workers. Record never blocks; when the queue is full the
// view is dropped and counted.
type Recorder struct {
	repo    Repository
	queue   chan PageView
	wg      sync.WaitGroup
	metrics RecorderMetrics
	logger  zerolog.Logger
	once    sync.Once
}

func NewRecorder(repo Repository, queueSize, workers int, metrics RecorderMetrics, logger zerolog.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	r := &Recorder{
		repo:    repo,
		queue:   make(chan PageView, queueSize),
		metrics: metrics,
		logger:  logger.With().Str("component", "pageview_recorder").Logger(),
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	r.logger.Info().Int("queue_size", queueSize).Int("workers", workers).Msg("pageview recorder started")
	return r
}

// Record enqueues a pageview. Safe for concurrent use.
func (r *Recorder) Record(view PageView) {
	select {
	case r.queue <- view:
	default:
		if r.metrics.Dropped != nil {
			r.metrics.Dropped.Inc()
		}
		r.logger.Warn().Str("path", view.Path).Msg("pageview queue full, dropping")
	}
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for view := range r.queue {
		// Request context is gone by the time a view is persisted.
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		err := r.repo.Insert(ctx, &view)
		cancel()
		if err != nil {
			if r.metrics.Failed != nil {
				r.metrics.Failed.Inc()
			}
			r.logger.Warn().Err(err).Str("path", view.Path).Msg("pageview insert failed")
			continue
		}
		if r.metrics.Recorded != nil {
			r.metrics.Recorded.Inc()
		}
	}
}

// Close stops accepting views and drains the queue. Safe to call more
// than once.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		close(r.queue)
		r.wg.Wait()
		r.logger.Info().Msg("pageview recorder shutdown")
	})
	return nil
}
