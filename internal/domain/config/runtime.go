package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Ledger connection, nil if neither a network nor an rpc_url is set
	Network *Network

	// Execution settings
	Debug   bool
	JSON    bool
	Timeout time.Duration
	Listen  string

	AllowList AllowListConfig
	Registry  RegistryConfig
	Manifest  ManifestConfig
	Retry     RetryConfig
}

// Network represents network configuration
type Network struct {
	ChainID uint64 `json:"chainId"`
	Name    string `json:"name"`
	RPCURL  string `json:"rpcUrl"`
}

// Backend selects where a store keeps its state.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendChain  Backend = "chain"
)

// AllowListConfig configures the canonical allow-list store.
type AllowListConfig struct {
	Backend Backend
	// Address of the DRC contract, used by the chain backend.
	Address common.Address
	// PrivateKey signs addAddress transactions; empty means read-only.
	PrivateKey string //nolint:gosec // holds env var reference, not a literal secret
}

// RegistryConfig configures the domain registry.
type RegistryConfig struct {
	Backend  Backend
	Cooldown time.Duration
}

// ManifestConfig controls how manifests are located.
type ManifestConfig struct {
	Scheme  string
	Path    string
	Timeout time.Duration
}

// RetryConfig bounds the manifest fetch retry loop.
type RetryConfig struct {
	// Budget is the number of retries after the first attempt.
	Budget     int
	Backoff    time.Duration
	MaxBackoff time.Duration
	// Deadline caps the whole retry loop; zero means no cap.
	Deadline time.Duration
}
