package bindings

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// MemoryRepository keeps bindings in process memory
type MemoryRepository struct {
	mu       sync.RWMutex
	bindings map[string]*domain.Binding
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bindings: make(map[string]*domain.Binding)}
}

// GetBinding returns a copy of the stored binding or domain.ErrNotFound
func (r *MemoryRepository) GetBinding(ctx context.Context, name string) (*domain.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(name)
}

// SaveBinding stores a copy of binding
func (r *MemoryRepository) SaveBinding(ctx context.Context, binding *domain.Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[binding.Domain] = cloneBinding(binding)
	return nil
}

// UpdateBinding implements usecase.BindingRepository
func (r *MemoryRepository) UpdateBinding(
	ctx context.Context,
	name string,
	fn func(current *domain.Binding) (*domain.Binding, error),
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.update(name, fn)
	return err
}

// ListBindings returns copies of every binding
func (r *MemoryRepository) ListBindings(ctx context.Context) ([]*domain.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(), nil
}

// get looks up name; callers hold the lock
func (r *MemoryRepository) get(name string) (*domain.Binding, error) {
	b, ok := r.bindings[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneBinding(b), nil
}

// update applies fn to the binding of name and reports whether anything was
// stored; callers hold the write lock
func (r *MemoryRepository) update(name string, fn func(current *domain.Binding) (*domain.Binding, error)) (bool, error) {
	var current *domain.Binding
	if b, ok := r.bindings[name]; ok {
		current = cloneBinding(b)
	}

	next, err := fn(current)
	if err != nil || next == nil {
		return false, err
	}
	r.bindings[next.Domain] = cloneBinding(next)
	return true, nil
}

// list returns sorted copies; callers hold the lock
func (r *MemoryRepository) list() []*domain.Binding {
	out := make([]*domain.Binding, 0, len(r.bindings))
	for _, name := range slices.Sorted(maps.Keys(r.bindings)) {
		out = append(out, cloneBinding(r.bindings[name]))
	}
	return out
}

func cloneBinding(b *domain.Binding) *domain.Binding {
	c := *b
	if b.PendingTransition != nil {
		p := *b.PendingTransition
		c.PendingTransition = &p
	}
	return &c
}

var _ usecase.BindingRepository = (*MemoryRepository)(nil)
