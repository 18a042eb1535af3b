package worker

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// releaseTimeout bounds returning undelivered events to the queue on shutdown.
const releaseTimeout = 5 * time.Second

// EventFacade exposes the subset of application functionality required by the relay.
type EventFacade interface {
	ClaimEvents(ctx context.Context, limit int) ([]model.Event, error)
	DeliverEvent(ctx context.Context, event model.Event) error
	ReleaseEvent(ctx context.Context, id uuid.UUID) error
}

// OutboxRelay polls the outbox and publishes claimed events with a pool of workers.
// Delivery is at least once. Events of one aggregate always go to the same
// worker, and after a failed delivery later events of that aggregate are
// released until the failed event has been published, so an aggregate's events
// are published in the order they were recorded.
type OutboxRelay struct {
	facade       EventFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	shards []chan model.Event
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOutboxRelay constructs relay worker pool.
func NewOutboxRelay(facade EventFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *OutboxRelay {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	shards := make([]chan model.Event, workers)
	for i := range shards {
		shards[i] = make(chan model.Event, batchSize)
	}
	return &OutboxRelay{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		shards:       shards,
	}
}

// Start launches background processing.
func (r *OutboxRelay) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx, r.shards[i])
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *OutboxRelay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *OutboxRelay) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer func() {
		for _, shard := range r.shards {
			close(shard)
		}
	}()
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *OutboxRelay) fetchAndDispatch(ctx context.Context) {
	events, err := r.facade.ClaimEvents(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("claim outbox events failed", slog.String("error", err.Error()))
		return
	}
	for i, event := range events {
		select {
		case <-ctx.Done():
			r.releaseAll(ctx, events[i:])
			return
		case r.shards[r.shardOf(event.AggregateID)] <- event:
		}
	}
}

func (r *OutboxRelay) shardOf(aggregateID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(aggregateID))
	return int(h.Sum32() % uint32(len(r.shards)))
}

func (r *OutboxRelay) worker(ctx context.Context, events <-chan model.Event) {
	defer r.wg.Done()

	// aggregate id -> event that failed delivery. The aggregate stays blocked
	// across poll rounds until that event is published.
	blocked := make(map[string]uuid.UUID)
	for {
		select {
		case <-ctx.Done():
			r.drain(ctx, events)
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if head, ok := blocked[event.AggregateID]; ok && head != event.ID {
				r.release(ctx, event)
				continue
			}
			if r.handleEvent(ctx, event) {
				delete(blocked, event.AggregateID)
			} else {
				blocked[event.AggregateID] = event.ID
			}
		}
	}
}

func (r *OutboxRelay) handleEvent(ctx context.Context, event model.Event) bool {
	if err := r.facade.DeliverEvent(ctx, event); err != nil {
		r.logger.Warn("event delivery failed",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", string(event.Type)),
			slog.Int("attempts", event.Attempts),
			slog.String("error", err.Error()),
		)
		r.release(ctx, event)
		return false
	}
	r.logger.Debug("event delivered",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.Type)),
	)
	return true
}

func (r *OutboxRelay) drain(ctx context.Context, events <-chan model.Event) {
	for event := range events {
		r.release(ctx, event)
	}
}

func (r *OutboxRelay) releaseAll(ctx context.Context, events []model.Event) {
	for _, event := range events {
		r.release(ctx, event)
	}
}

func (r *OutboxRelay) release(ctx context.Context, event model.Event) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := r.facade.ReleaseEvent(releaseCtx, event.ID); err != nil {
		r.logger.Error("release event failed",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
