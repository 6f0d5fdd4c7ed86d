package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arsn/dossier-tracking/internal/pkg/metrics"
	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	sinkTimeout    = 5 * time.Second
)

// Dispatcher routes dossier events to a fixed set of workers using consistent
// hashing on the dossier id, guaranteeing per-dossier event ordering. Each
// worker hands every event to all sinks in turn.
type Dispatcher struct {
	workers []chan domain.DossierEvent
	sinks   []ports.EventSink
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger, sinks ...ports.EventSink) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.DossierEvent, numWorkers),
		sinks:   sinks,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.DossierEvent, channelBuffer)
	}
	return d
}

var _ ports.EventPublisher = (*Dispatcher)(nil)

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish sends an event to the worker responsible for its dossier. It never
// blocks: when the worker channel is full the event is dropped.
func (d *Dispatcher) Publish(event domain.DossierEvent) {
	idx := d.shardIndex(event.DossierID)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.EventsDroppedTotal.Inc()
		d.log.Warn().
			Str("dossier_id", event.DossierID).
			Str("type", string(event.Type)).
			Int("worker_id", idx).
			Msg("dispatcher channel full, event dropped")
	}
}

// shardIndex maps a dossier id deterministically to a worker index.
func (d *Dispatcher) shardIndex(dossierID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(dossierID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.DossierEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.dispatch(ctx, id, event)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, workerID int, event domain.DossierEvent) {
	start := time.Now()
	for _, sink := range d.sinks {
		sctx, cancel := context.WithTimeout(ctx, sinkTimeout)
		err := sink.Handle(sctx, event)
		cancel()
		if err != nil {
			metrics.EventSinkErrorsTotal.WithLabelValues(sink.Name()).Inc()
			d.log.Error().Err(err).
				Str("sink", sink.Name()).
				Str("dossier_id", event.DossierID).
				Str("type", string(event.Type)).
				Int("worker_id", workerID).
				Msg("event sink failed")
			continue
		}
		metrics.EventsPublishedTotal.WithLabelValues(sink.Name(), string(event.Type)).Inc()
	}
	metrics.EventDispatchDuration.WithLabelValues(string(event.Type)).Observe(time.Since(start).Seconds())
}
