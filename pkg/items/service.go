// Package items implements the cache-aside policy that keeps the entity
// cache consistent with the repository.
//
// Reads consult the cache first and fill it from the repository on a miss.
// Writes mutate the repository first, then invalidate the listing and
// re-prime (or drop) the affected entity key:
//
//	repo := repository.New(repository.Config{})
//	c := items.NewCache(cache.Config[items.Value]{})
//	defer c.Close()
//
//	svc, err := items.NewService(repo, c, items.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	created, _ := svc.Create(repository.Fields{"name": "Alice"})
//	res, _ := svc.Get(created.ID) // res.Cached == true, primed by Create
//
// Each step is atomic on its own component, but a write is not atomic across
// both. A concurrent reader may see the previous cached value until the
// invalidate/prime step completes; the window closes on the next write or TTL
// expiry.
package items

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Sternrassler/item-cache/pkg/logging"
	"github.com/Sternrassler/item-cache/pkg/repository"
)

// Store is the authoritative entity store consulted on cache misses.
type Store interface {
	Create(fields repository.Fields) repository.Entity
	Read(id string) (repository.Entity, error)
	Update(id string, patch repository.Fields) (repository.Entity, error)
	Delete(id string) error
	List() []repository.Entity
}

// Cache is the TTL key/value store holding listings and entities.
type Cache interface {
	Get(key string) (Value, bool)
	Set(key string, value Value, ttl time.Duration)
	Invalidate(key string)
	Clear()
}

// ListResult is the outcome of a listing read.
type ListResult struct {
	Cached bool                `json:"cached"`
	Items  []repository.Entity `json:"items"`
}

// ItemResult is the outcome of a single-entity read.
type ItemResult struct {
	Cached bool              `json:"cached"`
	Item   repository.Entity `json:"item"`
}

// Service composes a Store and a Cache.
type Service struct {
	store  Store
	cache  Cache
	config Config
	loads  singleflight.Group
	logger zerolog.Logger
}

// NewService creates a service over the given store and cache.
func NewService(store Store, c Cache, cfg Config) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if c == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Service{
		store:  store,
		cache:  c,
		config: cfg,
		logger: logging.NewLogger("items"),
	}, nil
}

// Config returns the active policy configuration.
func (s *Service) Config() Config {
	return s.config
}

// List returns all entities, from the cache when possible.
func (s *Service) List() ListResult {
	if v, ok := s.cache.Get(ListKey); ok {
		Reads.WithLabelValues(kindList, sourceCache).Inc()
		return ListResult{Cached: true, Items: v.Items}
	}

	v, _ := s.load(ListKey, func() (Value, error) {
		v := Value{Items: s.store.List()}
		s.cache.Set(ListKey, v, s.config.ListTTL)
		return v, nil
	})

	Reads.WithLabelValues(kindList, sourceRepository).Inc()
	s.logger.Debug().Int("count", len(v.Items)).Bool("cached", false).Msg("listing loaded")
	return ListResult{Cached: false, Items: v.Items}
}

// Get returns the entity with the given id, from the cache when possible.
// A missing id yields an error matching ErrNotFound; nothing is cached for it.
func (s *Service) Get(id string) (ItemResult, error) {
	key := ItemKey(id)

	if v, ok := s.cache.Get(key); ok {
		Reads.WithLabelValues(kindItem, sourceCache).Inc()
		return ItemResult{Cached: true, Item: v.Item}, nil
	}

	v, err := s.load(key, func() (Value, error) {
		entity, err := s.store.Read(id)
		if err != nil {
			return Value{}, err
		}
		v := Value{Item: entity}
		s.cache.Set(key, v, s.config.ItemTTL)
		return v, nil
	})
	if err != nil {
		return ItemResult{}, err
	}

	Reads.WithLabelValues(kindItem, sourceRepository).Inc()
	s.logger.Debug().Str("id", id).Bool("cached", false).Msg("entity loaded")
	return ItemResult{Cached: false, Item: v.Item}, nil
}

// Create stores a new entity, drops the stale listing and primes the
// entity's key so an immediate Get is a hit.
func (s *Service) Create(fields repository.Fields) (repository.Entity, error) {
	if err := validateFields(fields); err != nil {
		return repository.Entity{}, err
	}

	entity := s.store.Create(fields)

	s.cache.Invalidate(ListKey)
	s.cache.Set(ItemKey(entity.ID), Value{Item: entity}, s.config.ItemTTL)

	s.logger.Debug().Str("id", entity.ID).Msg("entity created, cache primed")
	return entity, nil
}

// Update merges fields into an entity, drops the stale listing and
// re-primes the entity's key with the new value.
func (s *Service) Update(id string, fields repository.Fields) (repository.Entity, error) {
	if err := validateFields(fields); err != nil {
		return repository.Entity{}, err
	}

	entity, err := s.store.Update(id, fields)
	if err != nil {
		return repository.Entity{}, err
	}

	s.cache.Invalidate(ListKey)
	s.cache.Set(ItemKey(id), Value{Item: entity}, s.config.ItemTTL)

	s.logger.Debug().Str("id", id).Msg("entity updated, cache re-primed")
	return entity, nil
}

// Delete removes an entity and drops both the listing and its key.
func (s *Service) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}

	s.cache.Invalidate(ListKey)
	s.cache.Invalidate(ItemKey(id))

	s.logger.Debug().Str("id", id).Msg("entity deleted, cache invalidated")
	return nil
}

// ClearCache empties the cache without touching the repository.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info().Msg("cache cleared")
}

// load runs fn, sharing one execution between concurrent callers of the
// same key when coalescing is enabled. Shared results are copied per caller.
func (s *Service) load(key string, fn func() (Value, error)) (Value, error) {
	if !s.config.Coalesce {
		return fn()
	}

	res, err, shared := s.loads.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		return Value{}, err
	}

	v := res.(Value)
	if shared {
		v = v.Clone()
	}
	return v, nil
}

func validateFields(fields repository.Fields) error {
	if fields == nil {
		return fmt.Errorf("%w: fields must be an object", ErrInvalidInput)
	}
	if _, ok := fields[repository.IDField]; ok {
		return fmt.Errorf("%w: field %q is read-only", ErrInvalidInput, repository.IDField)
	}
	return nil
}
