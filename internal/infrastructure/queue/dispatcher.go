package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/api/metrics"
	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type job struct {
	ctx       context.Context
	notice    domain.Notice
	broadcast bool
}

// Dispatcher moves notification writes off the request path. Notices are
// routed to a fixed set of workers by recipient, so one user's notices are
// written in the order they were raised. Delivery is at most once: when a
// worker's queue is full the notice is dropped and counted.
type Dispatcher struct {
	workers []chan job
	next    ports.Notifier
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers that
// hand notices to next. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, next ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		next:    next,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain what is already queued
// and stop when ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) Notify(ctx context.Context, notice domain.Notice) {
	if notice.RecipientID == "" || notice.RecipientID == notice.SenderID {
		return
	}
	d.enqueue(notice.RecipientID, job{ctx: context.WithoutCancel(ctx), notice: notice})
}

// Broadcast queues the fan-out as a single job on the sender's shard.
func (d *Dispatcher) Broadcast(ctx context.Context, notice domain.Notice) {
	d.enqueue("broadcast:"+notice.SenderID, job{ctx: context.WithoutCancel(ctx), notice: notice, broadcast: true})
}

func (d *Dispatcher) enqueue(key string, j job) {
	idx := d.shardIndex(key)
	select {
	case d.workers[idx] <- j:
		metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationsDroppedTotal.Inc()
		d.log.Warn().
			Str("kind", string(j.notice.Kind)).
			Str("recipient_id", j.notice.RecipientID).
			Int("worker_id", idx).
			Msg("notification queue full, dropping notice")
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	defer d.wg.Done()
	gauge := metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			gauge.Set(0)
			return
		case j := <-ch:
			d.deliver(j)
			gauge.Set(float64(len(ch)))
		}
	}
}

// drain delivers whatever is still buffered at shutdown.
func (d *Dispatcher) drain(id int, ch <-chan job) {
	for {
		select {
		case j := <-ch:
			d.deliver(j)
		default:
			d.log.Debug().Int("worker_id", id).Msg("notification worker stopped")
			return
		}
	}
}

func (d *Dispatcher) deliver(j job) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("kind", string(j.notice.Kind)).Msg("notification delivery panicked")
		}
	}()
	if j.broadcast {
		d.next.Broadcast(j.ctx, j.notice)
		return
	}
	d.next.Notify(j.ctx, j.notice)
}
