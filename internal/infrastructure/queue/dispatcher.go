package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/api/metrics"
	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditDispatcher writes audit events to the repository on a fixed set of
// workers. Events of one user always land on the same worker, so they are
// stored in the order they were recorded. Record never blocks: when a worker
// channel is full the event is dropped and counted.
type AuditDispatcher struct {
	workers []chan domain.AuthEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.AuditSink = (*AuditDispatcher)(nil)

// NewAuditDispatcher creates a dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain what is queued and exit once ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *AuditDispatcher) Wait() { d.wg.Wait() }

// Record enqueues event for its user's worker.
func (d *AuditDispatcher) Record(event domain.AuthEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	idx := d.shardIndex(event)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("type", string(event.Type)).
			Int64("user_id", event.UserID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex keys on the user id, falling back to the username for events
// about accounts that did not resolve.
func (d *AuditDispatcher) shardIndex(event domain.AuthEvent) int {
	if event.UserID > 0 {
		return int(event.UserID % int64(len(d.workers)))
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(event.Username))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch chan domain.AuthEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.write(context.Background(), id, event)
		}
	}
}

// drain flushes whatever is already buffered so shutdown does not lose events.
func (d *AuditDispatcher) drain(id int, ch chan domain.AuthEvent) {
	for {
		select {
		case event := <-ch:
			d.write(context.Background(), id, event)
		default:
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			return
		}
	}
}

func (d *AuditDispatcher) write(ctx context.Context, id int, event domain.AuthEvent) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := d.repo.Insert(ctx, event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Int64("user_id", event.UserID).
			Int("worker_id", id).
			Msg("audit write failed")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues("written").Inc()
}

// NopSink discards events. Used when no audit store is configured.
type NopSink struct{}

func (NopSink) Record(domain.AuthEvent) {}
