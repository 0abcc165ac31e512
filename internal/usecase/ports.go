package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/drc/internal/domain"
)

// AllowListStore is the canonical set of approved contract addresses
type AllowListStore interface {
	Contains(ctx context.Context, address common.Address) (bool, error)
	Add(ctx context.Context, address common.Address) (*AllowListAddResult, error)
	List(ctx context.Context) ([]domain.AllowListEntry, error)
}

// AllowListAddResult describes what an Add did
type AllowListAddResult struct {
	Address        common.Address
	AlreadyPresent bool
	// TxHash is set when the entry was submitted as a ledger transaction
	TxHash string
}

// ManifestFetcher retrieves a domain's published manifest
type ManifestFetcher interface {
	// Fetch returns the declared records in manifest order. Implementations
	// retry transient failures and report exhaustion as
	// *domain.UpstreamUnavailableError.
	Fetch(ctx context.Context, req ManifestRequest) ([]domain.ManifestRecord, error)
}

// ManifestRequest identifies one manifest fetch
type ManifestRequest struct {
	JobID  string
	Domain string
	// Path overrides the configured manifest path when set
	Path string
}

// BindingRepository persists domain bindings
type BindingRepository interface {
	GetBinding(ctx context.Context, domain string) (*domain.Binding, error)
	SaveBinding(ctx context.Context, binding *domain.Binding) error
	// UpdateBinding passes the stored binding for name (nil when there is
	// none) to fn and stores the binding fn returns. A nil result leaves the
	// store unchanged. No other writer can change the binding in between.
	UpdateBinding(ctx context.Context, name string, fn func(current *domain.Binding) (*domain.Binding, error)) error
	ListBindings(ctx context.Context) ([]*domain.Binding, error)
}

// DomainValidator produces a verdict for a domain and candidate address
type DomainValidator interface {
	Validate(ctx context.Context, params ValidateParams) (*domain.Verdict, error)
}

// Clock abstracts time so the cooldown can be tested
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ValidationObserver receives validation and registry events, used for metrics
type ValidationObserver interface {
	ObserveVerdict(verdict *domain.Verdict, err error, elapsed time.Duration)
	ObserveOutcome(outcome *domain.UpdateOutcome)
}

// NopObserver discards observations
type NopObserver struct{}

func (NopObserver) ObserveVerdict(*domain.Verdict, error, time.Duration) {}
func (NopObserver) ObserveOutcome(*domain.UpdateOutcome)                 {}
