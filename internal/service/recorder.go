package service

import (
	"context"
	"sync"
	"time"

	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/actuallystonmai/product-search-service/internal/logging"
	"github.com/actuallystonmai/product-search-service/internal/metrics"
	"github.com/rs/zerolog"
)

const recordTimeout = 2 * time.Second

// QuerySink persists query events.
type QuerySink interface {
	RecordQuery(ctx context.Context, ev domain.QueryEvent) error
}

// Recorder hands query events to a bounded pool of workers so that
// persisting them never delays a search response. Events are dropped when
// the buffer is full.
type Recorder struct {
	sink   QuerySink
	events chan domain.QueryEvent
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewRecorder(sink QuerySink, buffer, workers int) *Recorder {
	r := &Recorder{
		sink:   sink,
		events: make(chan domain.QueryEvent, max(buffer, 1)),
		logger: logging.WithComponent("query-log"),
	}

	for range max(workers, 1) {
		r.wg.Add(1)
		go r.run()
	}
	return r
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for ev := range r.events {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := r.sink.RecordQuery(ctx, ev); err != nil {
			metrics.QueryLogErrors.Inc()
			r.logger.Warn().Err(err).Str("query", ev.Query).Msg("failed to record query")
		}
		cancel()
	}
}

// Record enqueues ev without blocking. It is a no-op after Close.
func (r *Recorder) Record(ev domain.QueryEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	select {
	case r.events <- ev:
	default:
		metrics.QueryLogDropped.Inc()
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.events)
	r.mu.Unlock()

	r.wg.Wait()
}
