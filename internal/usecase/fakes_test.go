package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

var (
	addrA = common.HexToAddress("0x1111111111111111111111111111111111111111")
	addrB = common.HexToAddress("0x2222222222222222222222222222222222222222")
	addrC = common.HexToAddress("0x3333333333333333333333333333333333333333")
	addrX = common.HexToAddress("0x9999999999999999999999999999999999999999")

	userU = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	userV = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	userW = common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockManifestFetcher is a mock implementation of ManifestFetcher
type MockManifestFetcher struct {
	mock.Mock
}

func (m *MockManifestFetcher) Fetch(ctx context.Context, req usecase.ManifestRequest) ([]domain.ManifestRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ManifestRecord), args.Error(1)
}

// staticFetcher serves fixed manifests per domain
type staticFetcher map[string][]common.Address

func (s staticFetcher) Fetch(_ context.Context, req usecase.ManifestRequest) ([]domain.ManifestRecord, error) {
	var records []domain.ManifestRecord
	for _, addr := range s[req.Domain] {
		records = append(records, domain.ManifestRecord{ContractAddress: addr})
	}
	return records, nil
}

// countingAllowList is an in-memory allow-list that counts lookups
type countingAllowList struct {
	approved map[common.Address]bool
	lookups  int
	err      error
}

func newAllowList(addrs ...common.Address) *countingAllowList {
	l := &countingAllowList{approved: make(map[common.Address]bool)}
	for _, a := range addrs {
		l.approved[a] = true
	}
	return l
}

func (l *countingAllowList) Contains(_ context.Context, address common.Address) (bool, error) {
	l.lookups++
	if l.err != nil {
		return false, l.err
	}
	return l.approved[address], nil
}

func (l *countingAllowList) Add(_ context.Context, address common.Address) (*usecase.AllowListAddResult, error) {
	if l.approved[address] {
		return &usecase.AllowListAddResult{Address: address, AlreadyPresent: true}, nil
	}
	l.approved[address] = true
	return &usecase.AllowListAddResult{Address: address}, nil
}

func (l *countingAllowList) List(context.Context) ([]domain.AllowListEntry, error) {
	var out []domain.AllowListEntry
	for a := range l.approved {
		out = append(out, domain.AllowListEntry{Address: a})
	}
	return out, nil
}

// memRepo is a minimal BindingRepository
type memRepo struct {
	mu       sync.Mutex
	bindings map[string]domain.Binding
	saves    int
}

func newMemRepo() *memRepo {
	return &memRepo{bindings: make(map[string]domain.Binding)}
}

func (r *memRepo) GetBinding(_ context.Context, name string) (*domain.Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bindings[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *memRepo) SaveBinding(_ context.Context, b *domain.Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.bindings[b.Domain] = *b
	return nil
}

func (r *memRepo) UpdateBinding(_ context.Context, name string, fn func(*domain.Binding) (*domain.Binding, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var current *domain.Binding
	if b, ok := r.bindings[name]; ok {
		current = &b
	}
	next, err := fn(current)
	if err != nil || next == nil {
		return err
	}
	r.saves++
	r.bindings[next.Domain] = *next
	return nil
}

func (r *memRepo) ListBindings(context.Context) ([]*domain.Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Binding
	for _, b := range r.bindings {
		b := b
		out = append(out, &b)
	}
	return out, nil
}

// fakeClock is a settable clock
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// recordingObserver captures observations
type recordingObserver struct {
	verdicts []*domain.Verdict
	errs     []error
	outcomes []*domain.UpdateOutcome
}

func (o *recordingObserver) ObserveVerdict(v *domain.Verdict, err error, _ time.Duration) {
	o.verdicts = append(o.verdicts, v)
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) ObserveOutcome(outcome *domain.UpdateOutcome) {
	o.outcomes = append(o.outcomes, outcome)
}
