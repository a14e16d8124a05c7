package items

import (
	"github.com/Sternrassler/item-cache/pkg/cache"
	"github.com/Sternrassler/item-cache/pkg/repository"
)

// Value is the unit the service keeps in the cache: the full listing under
// ListKey, or a single entity under an ItemKey.
type Value struct {
	Items []repository.Entity
	Item  repository.Entity
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	return Value{
		Items: repository.CloneAll(v.Items),
		Item:  v.Item.Clone(),
	}
}

// NewCache creates a cache suitable for the service. Unset Name and Clone
// default to "items" and Value.Clone.
func NewCache(cfg cache.Config[Value]) *cache.Cache[Value] {
	if cfg.Name == "" {
		cfg.Name = "items"
	}
	if cfg.Clone == nil {
		cfg.Clone = Value.Clone
	}
	return cache.New(cfg)
}
