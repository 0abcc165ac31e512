package allowlist

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/drc/internal/adapters/fs"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// AllowListFile is the file name of the persisted allow-list
const AllowListFile = "allowlist.json"

// FileStore is a MemoryStore persisted as JSON under the data directory.
// Every operation rereads the file under a lock shared with other processes.
type FileStore struct {
	*MemoryStore
	file *fs.LockedFile
}

// NewFileStore loads <dataDir>/allowlist.json, creating the directory if needed
func NewFileStore(dataDir string) (*FileStore, error) {
	file, err := fs.NewLockedFile(filepath.Join(dataDir, AllowListFile))
	if err != nil {
		return nil, err
	}

	s := &FileStore{
		MemoryStore: NewMemoryStore(),
		file:        file,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := file.View(context.Background(), s.reload); err != nil {
		return nil, fmt.Errorf("failed to load allowlist: %w", err)
	}
	return s, nil
}

// Contains implements usecase.AllowListStore against the current file
func (s *FileStore) Contains(ctx context.Context, address common.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ok bool
	err := s.file.View(ctx, func() error {
		if err := s.reload(); err != nil {
			return err
		}
		ok = s.contains(address)
		return nil
	})
	return ok, err
}

// Add implements usecase.AllowListStore and persists new entries
func (s *FileStore) Add(ctx context.Context, address common.Address) (*usecase.AllowListAddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &usecase.AllowListAddResult{Address: address}
	err := s.file.Update(ctx, func() error {
		if err := s.reload(); err != nil {
			return err
		}
		if !s.insert(address) {
			res.AlreadyPresent = true
			return nil
		}
		if err := s.file.Write(s.entries); err != nil {
			return fmt.Errorf("failed to save allowlist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// List implements usecase.AllowListStore against the current file
func (s *FileStore) List(ctx context.Context) ([]domain.AllowListEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.AllowListEntry
	err := s.file.View(ctx, func() error {
		if err := s.reload(); err != nil {
			return err
		}
		out = s.list()
		return nil
	})
	return out, err
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.file.Path()
}

// reload replaces the entries with the file contents; callers hold s.mu and
// the file lock
func (s *FileStore) reload() error {
	var entries []domain.AllowListEntry
	if _, err := s.file.Read(&entries); err != nil {
		return err
	}
	s.load(entries)
	return nil
}

var _ usecase.AllowListStore = (*FileStore)(nil)
