package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// RelayFacadeStub mimics relay interactions with the application facade.
type RelayFacadeStub struct {
	Batches   [][]model.Event
	ClaimFn   func(context.Context, int) ([]model.Event, error)
	DeliverFn func(context.Context, model.Event) error
	ReleaseFn func(context.Context, uuid.UUID) error

	Attempted []model.Event
	Delivered []model.Event
	Released  []uuid.UUID

	mu         sync.Mutex
	claimCalls int32
}

// Lock exposes internal mutex for external synchronization.
func (s *RelayFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *RelayFacadeStub) Unlock() { s.mu.Unlock() }

// ClaimEvents returns batches from configured queue, then nothing.
func (s *RelayFacadeStub) ClaimEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.claimCalls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// DeliverEvent records the attempt and delegates to DeliverFn when set.
func (s *RelayFacadeStub) DeliverEvent(ctx context.Context, event model.Event) error {
	s.mu.Lock()
	s.Attempted = append(s.Attempted, event)
	s.mu.Unlock()

	if s.DeliverFn != nil {
		if err := s.DeliverFn(ctx, event); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Delivered = append(s.Delivered, event)
	return nil
}

// ReleaseEvent records released identifiers.
func (s *RelayFacadeStub) ReleaseEvent(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	s.Released = append(s.Released, id)
	s.mu.Unlock()
	if s.ReleaseFn != nil {
		return s.ReleaseFn(ctx, id)
	}
	return nil
}

// ClaimCalls reports how many times ClaimEvents ran without ClaimFn.
func (s *RelayFacadeStub) ClaimCalls() int {
	return int(atomic.LoadInt32(&s.claimCalls))
}

// PublisherStub records published events.
type PublisherStub struct {
	Err       error
	Published []model.Event
	mu        sync.Mutex
}

// Publish stores event unless Err is configured.
func (s *PublisherStub) Publish(ctx context.Context, event model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Published = append(s.Published, event)
	return nil
}
