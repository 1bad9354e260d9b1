package gateway

import (
	"context"
	"sync"
	"time"
)

type idempotencyMemoryState struct {
	status    string
	result    *IdempotencyResult
	expiresAt time.Time
}

// IdempotencyGatewayMemory is the single-instance fallback used when Redis
// is disabled or unreachable.
type IdempotencyGatewayMemory struct {
	mutex sync.Mutex
	keys  map[string]*idempotencyMemoryState
	now   func() time.Time
}

func NewIdempotencyGatewayMemory() *IdempotencyGatewayMemory {
	return &IdempotencyGatewayMemory{
		keys: make(map[string]*idempotencyMemoryState),
		now:  time.Now,
	}
}

func (g *IdempotencyGatewayMemory) Reserve(_ context.Context, key string) (*IdempotencyResult, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	now := g.now()
	if state, exists := g.keys[key]; exists && now.Before(state.expiresAt) {
		switch state.status {
		case idempotencyStatusSuccess:
			result := *state.result
			return &result, nil
		case idempotencyStatusProcessing:
			return nil, ErrKeyInProgress
		}
	}

	g.keys[key] = &idempotencyMemoryState{
		status:    idempotencyStatusProcessing,
		expiresAt: now.Add(idempotencyProcessingTTL),
	}
	return nil, nil
}

func (g *IdempotencyGatewayMemory) MarkFailure(_ context.Context, key string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	delete(g.keys, key)
	return nil
}

func (g *IdempotencyGatewayMemory) MarkSuccess(_ context.Context, key string, result IdempotencyResult) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.keys[key] = &idempotencyMemoryState{
		status:    idempotencyStatusSuccess,
		result:    &result,
		expiresAt: g.now().Add(idempotencyResultTTL),
	}
	return nil
}
