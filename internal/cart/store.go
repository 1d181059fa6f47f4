package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
	"github.com/joaoo737/deliveryfront/pkg/logger"
	"github.com/joaoo737/deliveryfront/pkg/redis"
)

// Store persists one cart per customer. Load on a missing cart returns
// an empty state, never an error.
type Store interface {
	Load(ctx context.Context, customerID uuid.UUID) (State, error)
	Save(ctx context.Context, customerID uuid.UUID, state State) error
	Delete(ctx context.Context, customerID uuid.UUID) error
}

// redisBlobClient is the slice of pkg/redis the store needs.
type redisBlobClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(customerID string) string
}

type redisStore struct {
	client redisBlobClient
	ttl    time.Duration
}

// NewRedisStore stores each cart as a JSON blob under the customer's key.
func NewRedisStore(client redisBlobClient, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store: redis client is required")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store: ttl must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Load(ctx context.Context, customerID uuid.UUID) (State, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(customerID.String()))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Empty(), nil
		}
		return Empty(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store: load failed")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt blob is unrecoverable; start the customer over.
		return Empty(), nil
	}
	return Normalize(state), nil
}

func (s *redisStore) Save(ctx context.Context, customerID uuid.UUID, state State) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart store: encode failed")
	}
	if err := s.client.Set(ctx, s.client.CartKey(customerID.String()), blob, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store: save failed")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, customerID uuid.UUID) error {
	if err := s.client.Del(ctx, s.client.CartKey(customerID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store: delete failed")
	}
	return nil
}

type memoryStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]State
}

// NewMemoryStore keeps carts in process memory. Used in tests and as the
// fallback tier when Redis is unavailable.
func NewMemoryStore() Store {
	return &memoryStore{carts: make(map[uuid.UUID]State)}
}

func (s *memoryStore) Load(_ context.Context, customerID uuid.UUID) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.carts[customerID]
	if !ok {
		return Empty(), nil
	}
	return clone(state), nil
}

func (s *memoryStore) Save(_ context.Context, customerID uuid.UUID, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[customerID] = clone(state)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, customerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, customerID)
	return nil
}

type fallbackStore struct {
	primary  Store
	fallback Store
	log      *logger.Logger
}

// NewFallbackStore degrades to the in-memory tier when the primary store
// fails, logging each degradation. Customers keep a working cart for the
// life of the process even with Redis down.
func NewFallbackStore(primary Store, fallback Store, log *logger.Logger) (Store, error) {
	if primary == nil || fallback == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store: both tiers are required")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store: logger is required")
	}
	return &fallbackStore{primary: primary, fallback: fallback, log: log}, nil
}

func (s *fallbackStore) Load(ctx context.Context, customerID uuid.UUID) (State, error) {
	state, err := s.primary.Load(ctx, customerID)
	if err == nil {
		return state, nil
	}
	s.degraded(ctx, "load", err)
	return s.fallback.Load(ctx, customerID)
}

func (s *fallbackStore) Save(ctx context.Context, customerID uuid.UUID, state State) error {
	if err := s.primary.Save(ctx, customerID, state); err != nil {
		s.degraded(ctx, "save", err)
		return s.fallback.Save(ctx, customerID, state)
	}
	// Keep the shadow copy fresh so a later degradation serves recent data.
	_ = s.fallback.Save(ctx, customerID, state)
	return nil
}

func (s *fallbackStore) Delete(ctx context.Context, customerID uuid.UUID) error {
	err := s.primary.Delete(ctx, customerID)
	if err != nil {
		s.degraded(ctx, "delete", err)
	}
	if fbErr := s.fallback.Delete(ctx, customerID); fbErr == nil && err != nil {
		return nil
	}
	return err
}

func (s *fallbackStore) degraded(ctx context.Context, op string, err error) {
	ctx = s.log.WithField(ctx, "cart_store_op", op)
	s.log.Error(ctx, "cart store degraded to memory", err)
}
