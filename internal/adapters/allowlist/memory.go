package allowlist

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// MemoryStore keeps the allow-list in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries []domain.AllowListEntry
	index   map[common.Address]int
	now     func() time.Time
}

// NewMemoryStore creates an allow-list seeded with the given addresses
func NewMemoryStore(seed ...common.Address) *MemoryStore {
	s := &MemoryStore{
		index: make(map[common.Address]int),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, addr := range seed {
		s.insert(addr)
	}
	return s
}

// Contains implements usecase.AllowListStore
func (s *MemoryStore) Contains(ctx context.Context, address common.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contains(address), nil
}

// Add implements usecase.AllowListStore
func (s *MemoryStore) Add(ctx context.Context, address common.Address) (*usecase.AllowListAddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := s.insert(address)
	return &usecase.AllowListAddResult{Address: address, AlreadyPresent: !added}, nil
}

// List implements usecase.AllowListStore
func (s *MemoryStore) List(ctx context.Context) ([]domain.AllowListEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(), nil
}

// contains reports membership; callers hold the lock
func (s *MemoryStore) contains(address common.Address) bool {
	_, ok := s.index[address]
	return ok
}

// list returns a copy of the entries; callers hold the lock
func (s *MemoryStore) list() []domain.AllowListEntry {
	out := make([]domain.AllowListEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// insert adds address if absent; callers hold the write lock
func (s *MemoryStore) insert(address common.Address) bool {
	if _, ok := s.index[address]; ok {
		return false
	}
	s.index[address] = len(s.entries)
	s.entries = append(s.entries, domain.AllowListEntry{Address: address, AddedAt: s.now()})
	return true
}

// load replaces the contents; callers hold the write lock
func (s *MemoryStore) load(entries []domain.AllowListEntry) {
	s.entries = s.entries[:0]
	s.index = make(map[common.Address]int, len(entries))
	for _, e := range entries {
		if _, ok := s.index[e.Address]; ok {
			continue
		}
		s.index[e.Address] = len(s.entries)
		s.entries = append(s.entries, e)
	}
}

var _ usecase.AllowListStore = (*MemoryStore)(nil)
