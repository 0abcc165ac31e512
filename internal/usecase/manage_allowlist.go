package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/drc/internal/domain"
)

// ManageAllowList handles allow-list administration
type ManageAllowList struct {
	store AllowListStore
	log   *slog.Logger
}

// NewManageAllowList creates a new manage allowlist use case
func NewManageAllowList(store AllowListStore, log *slog.Logger) *ManageAllowList {
	return &ManageAllowList{store: store, log: log}
}

// Add approves each address in order, skipping duplicates within the batch
func (m *ManageAllowList) Add(ctx context.Context, raw []string) ([]*AllowListAddResult, error) {
	addrs, err := parseAddresses(raw)
	if err != nil {
		return nil, err
	}

	results := make([]*AllowListAddResult, 0, len(addrs))
	for _, addr := range addrs {
		res, err := m.store.Add(ctx, addr)
		if err != nil {
			return results, fmt.Errorf("failed to add %s: %w", addr.Hex(), err)
		}
		if !res.AlreadyPresent {
			m.log.Info("address allow-listed", "address", addr.Hex(), "tx", res.TxHash)
		}
		results = append(results, res)
	}
	return results, nil
}

// Check reports membership for a single address
func (m *ManageAllowList) Check(ctx context.Context, raw string) (common.Address, bool, error) {
	addr, err := domain.ParseAddress(raw)
	if err != nil {
		return common.Address{}, false, err
	}
	ok, err := m.store.Contains(ctx, addr)
	return addr, ok, err
}

// List returns every approved entry
func (m *ManageAllowList) List(ctx context.Context) ([]domain.AllowListEntry, error) {
	return m.store.List(ctx)
}

func parseAddresses(raw []string) ([]common.Address, error) {
	addrs := make([]common.Address, 0, len(raw))
	for _, s := range raw {
		addr, err := domain.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return lo.Uniq(addrs), nil
}
