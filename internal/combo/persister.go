package combo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bloomkart/storefront-backend/pkg/redis"
)

// Persister is the durable slot that mirrors a combo session.
type Persister interface {
	// Load returns the stored state and whether a slot existed.
	Load(ctx context.Context, sessionID string) (State, bool, error)
	Save(ctx context.Context, sessionID string, state State) error
	Clear(ctx context.Context, sessionID string) error
}

// Encode serializes a state to the slot format.
func Encode(state State) ([]byte, error) {
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	return json.Marshal(state)
}

// Decode parses the slot format.
func Decode(data []byte) (State, error) {
	state := NewState()
	if err := json.Unmarshal(data, &state); err != nil {
		return NewState(), fmt.Errorf("decode combo state: %w", err)
	}
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	return state, nil
}

// MemoryPersister keeps encoded slots in process memory. Used in tests and
// when redis is not configured for local development.
type MemoryPersister struct {
	mu    sync.Mutex
	slots map[string][]byte
}

// NewMemoryPersister returns an empty in-memory persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{slots: map[string][]byte{}}
}

func (m *MemoryPersister) Load(_ context.Context, sessionID string) (State, bool, error) {
	m.mu.Lock()
	raw, ok := m.slots[sessionID]
	m.mu.Unlock()
	if !ok {
		return NewState(), false, nil
	}
	state, err := Decode(raw)
	if err != nil {
		return NewState(), true, err
	}
	return state, true, nil
}

func (m *MemoryPersister) Save(_ context.Context, sessionID string, state State) error {
	raw, err := Encode(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.slots[sessionID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryPersister) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.slots, sessionID)
	m.mu.Unlock()
	return nil
}

// Raw exposes the stored bytes of a slot.
func (m *MemoryPersister) Raw(sessionID string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.slots[sessionID]
	return raw, ok
}

// slotStore is the subset of the redis client used for session slots.
type slotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ComboSessionKey(sessionID string) string
}

// RedisPersister stores each session as JSON under bk:combo_session:<id>.
// Every save refreshes the TTL, so active sessions do not expire.
type RedisPersister struct {
	store slotStore
	ttl   time.Duration
}

// NewRedisPersister builds a persister on top of the shared redis client.
func NewRedisPersister(store slotStore, ttl time.Duration) (*RedisPersister, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	return &RedisPersister{store: store, ttl: ttl}, nil
}

func (r *RedisPersister) Load(ctx context.Context, sessionID string) (State, bool, error) {
	raw, err := r.store.Get(ctx, r.store.ComboSessionKey(sessionID))
	if errors.Is(err, redis.Nil) {
		return NewState(), false, nil
	}
	if err != nil {
		return NewState(), false, fmt.Errorf("read combo slot: %w", err)
	}
	state, err := Decode([]byte(raw))
	if err != nil {
		return NewState(), true, err
	}
	return state, true, nil
}

func (r *RedisPersister) Save(ctx context.Context, sessionID string, state State) error {
	raw, err := Encode(state)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.store.ComboSessionKey(sessionID), string(raw), r.ttl); err != nil {
		return fmt.Errorf("write combo slot: %w", err)
	}
	return nil
}

func (r *RedisPersister) Clear(ctx context.Context, sessionID string) error {
	if err := r.store.Del(ctx, r.store.ComboSessionKey(sessionID)); err != nil {
		return fmt.Errorf("clear combo slot: %w", err)
	}
	return nil
}
