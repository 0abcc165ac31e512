package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/drc/internal/domain"
)

// QueryBinding exposes the read-only registry accessors. Unregistered
// domains yield zero values rather than errors.
type QueryBinding struct {
	repo BindingRepository
}

// NewQueryBinding creates a new query binding use case
func NewQueryBinding(repo BindingRepository) *QueryBinding {
	return &QueryBinding{repo: repo}
}

// GetBinding returns the binding for a domain, or the zero binding
func (q *QueryBinding) GetBinding(ctx context.Context, name string) (domain.Binding, error) {
	name = domain.NormalizeDomain(name)
	b, err := q.repo.GetBinding(ctx, name)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && b == nil) {
		return domain.Binding{Domain: name}, nil
	}
	if err != nil {
		return domain.Binding{}, err
	}
	return *b, nil
}

// GetDappAddress returns the active dapp address for a domain
func (q *QueryBinding) GetDappAddress(ctx context.Context, name string) (common.Address, error) {
	b, err := q.GetBinding(ctx, name)
	return b.DappAddress, err
}

// GetAdmin returns the admin of a domain
func (q *QueryBinding) GetAdmin(ctx context.Context, name string) (common.Address, error) {
	b, err := q.GetBinding(ctx, name)
	return b.Admin, err
}

// GetPendingTransition returns the pending transition of a domain, or the
// zero transition when there is none
func (q *QueryBinding) GetPendingTransition(ctx context.Context, name string) (domain.PendingTransition, error) {
	b, err := q.GetBinding(ctx, name)
	if err != nil || b.PendingTransition == nil {
		return domain.PendingTransition{}, err
	}
	return *b.PendingTransition, nil
}

// ListBindings returns every registered binding sorted by domain
func (q *QueryBinding) ListBindings(ctx context.Context) ([]*domain.Binding, error) {
	bindings, err := q.repo.ListBindings(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Domain < bindings[j].Domain
	})
	return bindings, nil
}
