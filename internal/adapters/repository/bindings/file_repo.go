package bindings

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/trebuchet-org/drc/internal/adapters/fs"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// BindingsFile is the file name of the persisted registry
const BindingsFile = "bindings.json"

// FileRepository stores bindings in a JSON file keyed by domain. Every
// operation reloads the file under a lock shared with other processes using
// the same data directory, so concurrent writers never drop each other's
// updates.
type FileRepository struct {
	*MemoryRepository
	file *fs.LockedFile
}

// NewFileRepository loads <dataDir>/bindings.json, creating the directory if needed
func NewFileRepository(dataDir string) (*FileRepository, error) {
	file, err := fs.NewLockedFile(filepath.Join(dataDir, BindingsFile))
	if err != nil {
		return nil, err
	}

	r := &FileRepository{
		MemoryRepository: NewMemoryRepository(),
		file:             file,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := file.View(context.Background(), r.reload); err != nil {
		return nil, fmt.Errorf("failed to load bindings: %w", err)
	}
	return r, nil
}

// GetBinding returns the binding as currently stored on disk
func (r *FileRepository) GetBinding(ctx context.Context, name string) (*domain.Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b *domain.Binding
	err := r.file.View(ctx, func() error {
		if err := r.reload(); err != nil {
			return err
		}
		var err error
		b, err = r.get(name)
		return err
	})
	return b, err
}

// SaveBinding stores binding and rewrites the file
func (r *FileRepository) SaveBinding(ctx context.Context, binding *domain.Binding) error {
	return r.UpdateBinding(ctx, binding.Domain, func(*domain.Binding) (*domain.Binding, error) {
		return binding, nil
	})
}

// UpdateBinding reloads, applies fn and writes the file under one exclusive lock
func (r *FileRepository) UpdateBinding(
	ctx context.Context,
	name string,
	fn func(current *domain.Binding) (*domain.Binding, error),
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.file.Update(ctx, func() error {
		if err := r.reload(); err != nil {
			return err
		}
		changed, err := r.update(name, fn)
		if err != nil || !changed {
			return err
		}
		if err := r.file.Write(r.bindings); err != nil {
			// memory follows the file on the next reload
			return fmt.Errorf("failed to save bindings: %w", err)
		}
		return nil
	})
}

// ListBindings returns every binding as currently stored on disk
func (r *FileRepository) ListBindings(ctx context.Context) ([]*domain.Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Binding
	err := r.file.View(ctx, func() error {
		if err := r.reload(); err != nil {
			return err
		}
		out = r.list()
		return nil
	})
	return out, err
}

// Path returns the backing file path
func (r *FileRepository) Path() string {
	return r.file.Path()
}

// reload replaces the in-memory map with the file contents; callers hold
// r.mu and the file lock
func (r *FileRepository) reload() error {
	loaded := make(map[string]*domain.Binding)
	if _, err := r.file.Read(&loaded); err != nil {
		return err
	}
	if loaded == nil {
		loaded = make(map[string]*domain.Binding)
	}
	r.bindings = loaded
	return nil
}

var _ usecase.BindingRepository = (*FileRepository)(nil)
