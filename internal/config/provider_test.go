package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/drc/internal/domain/config"
)

func writeDRCFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DRCFileName), []byte(content), 0644))
}

func TestProvider(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		dir := t.TempDir()
		v := SetupViper(dir, nil)

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.ProjectRoot)
		assert.Equal(t, filepath.Join(dir, ".drc"), cfg.DataDir)
		assert.Nil(t, cfg.Network)
		assert.Equal(t, config.BackendFile, cfg.AllowList.Backend)
		assert.Equal(t, config.BackendFile, cfg.Registry.Backend)
		assert.Equal(t, DefaultCooldown, cfg.Registry.Cooldown)
		assert.Equal(t, 3, cfg.Retry.Budget)
		assert.Equal(t, time.Second, cfg.Retry.Backoff)
		assert.Equal(t, 10*time.Second, cfg.Retry.MaxBackoff)
		assert.Equal(t, "https", cfg.Manifest.Scheme)
		assert.Equal(t, "contracts.json", cfg.Manifest.Path)
	})

	t.Run("network resolved from drc.toml with env expansion", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("DRC_TEST_SEPOLIA_RPC", "https://sepolia.example.org")
		writeDRCFile(t, dir, `
[rpc_endpoints]
sepolia = "${DRC_TEST_SEPOLIA_RPC}"

[networks.sepolia]
chain_id = 11155111
allowlist = "0x837c7E69B89e465680f28309ea37F0FeED01e428"
cooldown = "90s"
`)
		v := SetupViper(dir, nil)
		v.Set("network", "sepolia")

		cfg, err := Provider(v)
		require.NoError(t, err)

		require.NotNil(t, cfg.Network)
		assert.Equal(t, "sepolia", cfg.Network.Name)
		assert.Equal(t, "https://sepolia.example.org", cfg.Network.RPCURL)
		assert.Equal(t, uint64(11155111), cfg.Network.ChainID)
		assert.Equal(t, common.HexToAddress("0x837c7E69B89e465680f28309ea37F0FeED01e428"), cfg.AllowList.Address)
		assert.Equal(t, 90*time.Second, cfg.Registry.Cooldown)
	})

	t.Run("explicit cooldown overrides network cooldown", func(t *testing.T) {
		dir := t.TempDir()
		writeDRCFile(t, dir, `
[rpc_endpoints]
local = "http://localhost:8545"

[networks.local]
cooldown = "90s"
`)
		v := SetupViper(dir, nil)
		v.Set("network", "local")
		v.Set("registry.cooldown", "5m")

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Minute, cfg.Registry.Cooldown)
	})

	t.Run("unknown network", func(t *testing.T) {
		dir := t.TempDir()
		writeDRCFile(t, dir, "[rpc_endpoints]\nlocal = \"http://localhost:8545\"\n")
		v := SetupViper(dir, nil)
		v.Set("network", "mainnet")

		_, err := Provider(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mainnet")
	})

	t.Run("rpc_url without drc.toml", func(t *testing.T) {
		dir := t.TempDir()
		v := SetupViper(dir, nil)
		v.Set("rpc_url", "http://localhost:8545")
		v.Set("chain_id", 31337)

		cfg, err := Provider(v)
		require.NoError(t, err)
		require.NotNil(t, cfg.Network)
		assert.Equal(t, "http://localhost:8545", cfg.Network.RPCURL)
		assert.Equal(t, uint64(31337), cfg.Network.ChainID)
	})

	t.Run("environment overrides", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("DRC_RETRY_BUDGET", "7")
		t.Setenv("DRC_REGISTRY_BACKEND", "memory")

		cfg, err := Provider(SetupViper(dir, nil))
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Retry.Budget)
		assert.Equal(t, config.BackendMemory, cfg.Registry.Backend)
	})

	t.Run("invalid allowlist address", func(t *testing.T) {
		v := SetupViper(t.TempDir(), nil)
		v.Set("allowlist.address", "not-an-address")

		_, err := Provider(v)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *config.RuntimeConfig {
		return &config.RuntimeConfig{
			AllowList: config.AllowListConfig{Backend: config.BackendMemory},
			Registry:  config.RegistryConfig{Backend: config.BackendMemory, Cooldown: time.Minute},
			Manifest:  config.ManifestConfig{Scheme: "https"},
			Retry:     config.RetryConfig{Budget: 3},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.RuntimeConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *config.RuntimeConfig) {},
		},
		{
			name:    "chain backend without network",
			mutate:  func(c *config.RuntimeConfig) { c.AllowList.Backend = config.BackendChain },
			wantErr: "requires --network",
		},
		{
			name: "chain backend without address",
			mutate: func(c *config.RuntimeConfig) {
				c.AllowList.Backend = config.BackendChain
				c.Network = &config.Network{RPCURL: "http://localhost:8545"}
			},
			wantErr: "allowlist contract address",
		},
		{
			name:    "unknown registry backend",
			mutate:  func(c *config.RuntimeConfig) { c.Registry.Backend = "redis" },
			wantErr: "unknown registry backend",
		},
		{
			name:    "negative budget",
			mutate:  func(c *config.RuntimeConfig) { c.Retry.Budget = -1 },
			wantErr: "retry budget",
		},
		{
			name:    "ftp scheme",
			mutate:  func(c *config.RuntimeConfig) { c.Manifest.Scheme = "ftp" },
			wantErr: "unsupported manifest scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
