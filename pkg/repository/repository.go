package repository

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/Sternrassler/item-cache/pkg/logging"
)

// Config holds repository configuration.
type Config struct {
	// NewID generates entity ids (default: random UUIDv4 strings).
	// Ids that are live or were deleted are rejected and NewID is called
	// again, so it must eventually produce a fresh id.
	NewID func() string

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// Repository is the authoritative store of entities.
//
// A single mutex guards the store for the full duration of every public
// method, so each operation is atomic and a Read never observes a
// half-applied Update. Entities cross the API boundary as deep copies.
type Repository struct {
	mu      sync.Mutex
	store   *orderedmap.OrderedMap[string, Entity]
	retired map[string]struct{}

	newID  func() string
	logger zerolog.Logger
}

// New creates an empty repository.
func New(cfg Config) *Repository {
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	logger := logging.NewLogger("repository")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Repository{
		store:   orderedmap.New[string, Entity](),
		retired: make(map[string]struct{}),
		newID:   newID,
		logger:  logger,
	}
}

// Create stores a new entity holding a copy of fields and a freshly
// generated id, and returns a copy of it. A reserved IDField key in fields
// is ignored.
func (r *Repository) Create(fields Fields) Entity {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for r.taken(id) {
		id = r.newID()
	}

	stored := Entity{ID: id, Fields: withoutID(fields.Clone())}
	if stored.Fields == nil {
		stored.Fields = Fields{}
	}
	r.store.Set(id, stored)

	Operations.WithLabelValues(opCreate, resultOK).Inc()
	Entities.Set(float64(r.store.Len()))
	r.logger.Debug().Str("id", id).Msg("entity created")

	return stored.Clone()
}

// Read returns a copy of the entity with the given id.
// Returns a NotFoundError (matching ErrNotFound) if absent.
func (r *Repository) Read(id string) (Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store.Get(id)
	if !ok {
		Operations.WithLabelValues(opRead, resultNotFound).Inc()
		return Entity{}, notFound(opRead, id)
	}

	Operations.WithLabelValues(opRead, resultOK).Inc()
	return stored.Clone(), nil
}

// Update merges patch into the stored entity and returns the updated copy.
// Fields absent from patch are left unchanged; a reserved IDField key is
// ignored. Returns a NotFoundError (matching ErrNotFound) if absent.
func (r *Repository) Update(id string, patch Fields) (Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store.Get(id)
	if !ok {
		Operations.WithLabelValues(opUpdate, resultNotFound).Inc()
		return Entity{}, notFound(opUpdate, id)
	}

	merged := stored.Fields.Clone()
	for k, v := range withoutID(patch.Clone()) {
		merged[k] = v
	}

	updated := Entity{ID: id, Fields: merged}
	// Set on an existing key keeps its insertion position.
	r.store.Set(id, updated)

	Operations.WithLabelValues(opUpdate, resultOK).Inc()
	r.logger.Debug().Str("id", id).Int("fields", len(patch)).Msg("entity updated")

	return updated.Clone(), nil
}

// Delete removes the entity with the given id.
// Returns a NotFoundError (matching ErrNotFound) if absent.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store.Delete(id); !ok {
		Operations.WithLabelValues(opDelete, resultNotFound).Inc()
		return notFound(opDelete, id)
	}

	r.retired[id] = struct{}{}

	Operations.WithLabelValues(opDelete, resultOK).Inc()
	Entities.Set(float64(r.store.Len()))
	r.logger.Debug().Str("id", id).Msg("entity deleted")

	return nil
}

// List returns a snapshot copy of all entities in insertion order.
// The result is never nil.
func (r *Repository) List() []Entity {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entity, 0, r.store.Len())
	for pair := r.store.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.Clone())
	}

	Operations.WithLabelValues(opList, resultOK).Inc()
	return out
}

// Len returns the number of live entities.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Len()
}

// taken reports whether id is live or was deleted. Ids are never reissued.
func (r *Repository) taken(id string) bool {
	if _, ok := r.store.Get(id); ok {
		return true
	}
	_, ok := r.retired[id]
	return ok
}

func withoutID(f Fields) Fields {
	if f != nil {
		delete(f, IDField)
	}
	return f
}
