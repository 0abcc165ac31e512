package allowlist

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/drc/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// ChainBackend is the subset of the ledger client the chain store needs.
// *ethclient.Client satisfies it.
type ChainBackend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// ChainStore reads and writes the allow-list held by the DRC contract
type ChainStore struct {
	backend  ChainBackend
	contract common.Address
	drc      *bindings.DRC
	chainID  *big.Int
	key      *ecdsa.PrivateKey
}

// NewChainStore creates a chain-backed store. privateKeyHex may be empty,
// in which case Add fails with domain.ErrNotSupported.
func NewChainStore(backend ChainBackend, contract common.Address, chainID uint64, privateKeyHex string) (*ChainStore, error) {
	s := &ChainStore{
		backend:  backend,
		contract: contract,
		drc:      bindings.NewDRC(),
		chainID:  new(big.Int).SetUint64(chainID),
	}

	if privateKeyHex != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid allowlist private key: %w", err)
		}
		s.key = key
	}
	return s, nil
}

// Contains implements usecase.AllowListStore via isMyContract
func (s *ChainStore) Contains(ctx context.Context, address common.Address) (bool, error) {
	data, err := s.drc.TryPackIsMyContract(address)
	if err != nil {
		return false, fmt.Errorf("failed to pack isMyContract: %w", err)
	}

	out, err := s.backend.CallContract(ctx, ethereum.CallMsg{To: &s.contract, Data: data}, nil)
	if err != nil {
		return false, fmt.Errorf("isMyContract call failed: %w", err)
	}

	ok, err := s.drc.UnpackIsMyContract(out)
	if err != nil {
		return false, fmt.Errorf("failed to unpack isMyContract: %w", err)
	}
	return ok, nil
}

// Add implements usecase.AllowListStore by submitting addAddress
func (s *ChainStore) Add(ctx context.Context, address common.Address) (*usecase.AllowListAddResult, error) {
	if s.key == nil {
		return nil, fmt.Errorf("no allowlist private key configured: %w", domain.ErrNotSupported)
	}

	present, err := s.Contains(ctx, address)
	if err != nil {
		return nil, err
	}
	if present {
		return &usecase.AllowListAddResult{Address: address, AlreadyPresent: true}, nil
	}

	tx, err := s.sendAddAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	return &usecase.AllowListAddResult{Address: address, TxHash: tx.Hash().Hex()}, nil
}

// List is not available on-ledger; the contract exposes no enumeration
func (s *ChainStore) List(ctx context.Context) ([]domain.AllowListEntry, error) {
	return nil, fmt.Errorf("listing the on-ledger allowlist: %w", domain.ErrNotSupported)
}

// Sender returns the address transactions are sent from
func (s *ChainStore) Sender() (common.Address, bool) {
	if s.key == nil {
		return common.Address{}, false
	}
	return crypto.PubkeyToAddress(s.key.PublicKey), true
}

func (s *ChainStore) sendAddAddress(ctx context.Context, address common.Address) (*types.Transaction, error) {
	from, _ := s.Sender()
	data := s.drc.PackAddAddress(address)

	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &s.contract, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &s.contract,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send addAddress: %w", err)
	}
	return signed, nil
}

var _ usecase.AllowListStore = (*ChainStore)(nil)
