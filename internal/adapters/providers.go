package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/wire"
	"github.com/trebuchet-org/drc/internal/adapters/allowlist"
	"github.com/trebuchet-org/drc/internal/adapters/blockchain"
	"github.com/trebuchet-org/drc/internal/adapters/gateway"
	"github.com/trebuchet-org/drc/internal/adapters/manifest"
	"github.com/trebuchet-org/drc/internal/adapters/metrics"
	"github.com/trebuchet-org/drc/internal/adapters/repository/bindings"
	"github.com/trebuchet-org/drc/internal/domain/config"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// dialTimeout bounds connecting to the ledger at startup
const dialTimeout = 15 * time.Second

// ProvideAllowListStore builds the configured allow-list backend. The
// cleanup closes the ledger connection of the chain backend.
func ProvideAllowListStore(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.AllowListStore, func(), error) {
	switch cfg.AllowList.Backend {
	case config.BackendMemory:
		return allowlist.NewMemoryStore(), func() {}, nil

	case config.BackendFile:
		store, err := allowlist.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case config.BackendChain:
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()

		client, err := blockchain.Dial(ctx, cfg.Network)
		if err != nil {
			return nil, nil, err
		}
		if ok, err := client.CheckContractExists(ctx, cfg.AllowList.Address); err != nil {
			log.Warn("could not check allowlist contract", "address", cfg.AllowList.Address.Hex(), "error", err)
		} else if !ok {
			log.Warn("no code at allowlist contract address", "address", cfg.AllowList.Address.Hex())
		}

		store, err := allowlist.NewChainStore(client, cfg.AllowList.Address, client.ChainIDValue(), cfg.AllowList.PrivateKey)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		log.Debug("allowlist on ledger", "network", cfg.Network.Name, "chain_id", client.ChainIDValue())
		return store, client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown allowlist backend %q", cfg.AllowList.Backend)
	}
}

// ProvideBindingRepository builds the configured registry backend
func ProvideBindingRepository(cfg *config.RuntimeConfig) (usecase.BindingRepository, error) {
	switch cfg.Registry.Backend {
	case config.BackendMemory:
		return bindings.NewMemoryRepository(), nil
	case config.BackendFile:
		return bindings.NewFileRepository(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown registry backend %q", cfg.Registry.Backend)
	}
}

// ProvideManifestFetcher builds the HTTP fetcher with retry metrics
func ProvideManifestFetcher(cfg *config.RuntimeConfig, log *slog.Logger, m *metrics.Metrics) *manifest.HTTPFetcher {
	return manifest.NewHTTPFetcher(cfg, log).WithObserver(m)
}

// ProvideClock provides the wall clock
func ProvideClock() usecase.Clock {
	return usecase.SystemClock{}
}

// StoreSet provides the allow-list and registry backends
var StoreSet = wire.NewSet(
	ProvideAllowListStore,
	ProvideBindingRepository,
)

// ManifestSet provides manifest retrieval
var ManifestSet = wire.NewSet(
	ProvideManifestFetcher,
	wire.Bind(new(usecase.ManifestFetcher), new(*manifest.HTTPFetcher)),
)

// MetricsSet provides prometheus metrics
var MetricsSet = wire.NewSet(
	metrics.New,
	wire.Bind(new(usecase.ValidationObserver), new(*metrics.Metrics)),
)

// GatewaySet provides the transports
var GatewaySet = wire.NewSet(
	gateway.NewHandler,
	gateway.NewRunner,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ProvideClock,

	StoreSet,
	ManifestSet,
	MetricsSet,
	GatewaySet,
)
