package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/sweetshop-api/internal/api/metrics"
	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher persists purchase audit records off the request path. Records
// are routed to a fixed set of workers by hashing the sweet id, so the audit
// trail for any one sweet is written in purchase order.
type Dispatcher struct {
	workers []chan domain.Purchase
	repo    ports.PurchaseRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.PurchaseRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Purchase, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Purchase, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a purchase record to the worker responsible for its sweet.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(p domain.Purchase) {
	idx := d.shardIndex(p.SweetID)
	d.workers[idx] <- p
	metrics.AuditQueueDepth.WithLabelValues(fmt.Sprintf("%d", idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a sweet id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sweetID int) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%d", sweetID)
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Purchase) {
	workerID := fmt.Sprintf("%d", id)
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-ch:
			if !ok {
				return
			}
			start := time.Now()
			if err := d.repo.Create(ctx, &p); err != nil {
				d.log.Error().Err(err).
					Int("sweet_id", p.SweetID).
					Str("purchase_id", p.ID).
					Int("worker_id", id).
					Msg("purchase audit write failed")
			}
			metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
			metrics.AuditQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
		}
	}
}
