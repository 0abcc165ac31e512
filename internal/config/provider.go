package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/domain/config"
)

// DefaultCooldown applies when neither drc.toml nor the environment sets one
const DefaultCooldown = 24 * time.Hour

// flagKeys maps CLI flag names to viper keys where they differ
var flagKeys = map[string]string{
	"rpc-url":           "rpc_url",
	"chain-id":          "chain_id",
	"data-dir":          "data_dir",
	"allowlist":         "allowlist.address",
	"allowlist-backend": "allowlist.backend",
	"private-key":       "allowlist.private_key",
	"registry-backend":  "registry.backend",
	"cooldown":          "registry.cooldown",
	"retry-budget":      "retry.budget",
	"retry-backoff":     "retry.backoff",
	"retry-max-backoff": "retry.max_backoff",
	"retry-deadline":    "retry.deadline",
	"manifest-scheme":   "manifest.scheme",
	"manifest-path":     "manifest.path",
	"manifest-timeout":  "manifest.timeout",
	"project-root":      "project_root",
}

// FindProjectRoot walks up from the working directory to the nearest
// drc.toml. Without one the working directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, DRCFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".drc"))

	// Set up environment variables
	v.SetEnvPrefix("DRC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("data_dir", ".drc")
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("json", false)
	v.SetDefault("listen", ":8080")
	v.SetDefault("allowlist.backend", string(config.BackendFile))
	v.SetDefault("registry.backend", string(config.BackendFile))
	v.SetDefault("retry.budget", 3)
	v.SetDefault("retry.backoff", "1s")
	v.SetDefault("retry.max_backoff", "10s")
	v.SetDefault("retry.deadline", "30s")
	v.SetDefault("manifest.scheme", "https")
	v.SetDefault("manifest.path", "contracts.json")
	v.SetDefault("manifest.timeout", "10s")

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		bindFlags(v, cmd.Flags())
	}

	return v
}

// bindFlags binds every defined flag to its viper key
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		key := f.Name
		if mapped, ok := flagKeys[f.Name]; ok {
			key = mapped
		}
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = "."
	}

	loadEnvFiles(projectRoot)

	drcFile, err := loadDRCFile(projectRoot)
	if err != nil {
		return nil, err
	}

	dataDir := v.GetString("data_dir")
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(projectRoot, dataDir)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot: projectRoot,
		DataDir:     dataDir,
		Debug:       v.GetBool("debug"),
		JSON:        v.GetBool("json"),
		Timeout:     v.GetDuration("timeout"),
		Listen:      v.GetString("listen"),
		AllowList: config.AllowListConfig{
			Backend:    config.Backend(v.GetString("allowlist.backend")),
			PrivateKey: os.ExpandEnv(v.GetString("allowlist.private_key")),
		},
		Registry: config.RegistryConfig{
			Backend:  config.Backend(v.GetString("registry.backend")),
			Cooldown: DefaultCooldown,
		},
		Manifest: config.ManifestConfig{
			Scheme:  v.GetString("manifest.scheme"),
			Path:    strings.TrimPrefix(v.GetString("manifest.path"), "/"),
			Timeout: v.GetDuration("manifest.timeout"),
		},
		Retry: config.RetryConfig{
			Budget:     v.GetInt("retry.budget"),
			Backoff:    v.GetDuration("retry.backoff"),
			MaxBackoff: v.GetDuration("retry.max_backoff"),
			Deadline:   v.GetDuration("retry.deadline"),
		},
	}

	allowListAddr := v.GetString("allowlist.address")

	// Resolve network if specified
	if networkName := v.GetString("network"); networkName != "" {
		rpcURL, err := drcFile.rpcEndpoint(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		nwCfg := drcFile.Networks[networkName]
		cfg.Network = &config.Network{
			Name:    networkName,
			RPCURL:  rpcURL,
			ChainID: nwCfg.ChainID,
		}

		// Per-network settings apply unless set explicitly
		if allowListAddr == "" {
			allowListAddr = nwCfg.AllowList
		}
		if nwCfg.Cooldown != "" {
			cooldown, err := time.ParseDuration(nwCfg.Cooldown)
			if err != nil {
				return nil, fmt.Errorf("invalid cooldown for network %s: %w", networkName, err)
			}
			cfg.Registry.Cooldown = cooldown
		}
	} else if rpcURL := v.GetString("rpc_url"); rpcURL != "" {
		cfg.Network = &config.Network{
			Name:   "custom",
			RPCURL: rpcURL,
		}
	}

	if raw := v.GetString("registry.cooldown"); raw != "" {
		cooldown, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid cooldown: %w", err)
		}
		cfg.Registry.Cooldown = cooldown
	}

	if cfg.Network != nil && v.GetUint64("chain_id") != 0 {
		cfg.Network.ChainID = v.GetUint64("chain_id")
	}

	if allowListAddr != "" {
		addr, err := domain.ParseAddress(allowListAddr)
		if err != nil {
			return nil, fmt.Errorf("invalid allowlist address: %w", err)
		}
		cfg.AllowList.Address = addr
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the resolved configuration is usable
func Validate(cfg *config.RuntimeConfig) error {
	switch cfg.AllowList.Backend {
	case config.BackendMemory, config.BackendFile:
	case config.BackendChain:
		if cfg.Network == nil {
			return fmt.Errorf("allowlist backend %q requires --network or --rpc-url", cfg.AllowList.Backend)
		}
		if cfg.AllowList.Address == (common.Address{}) {
			return fmt.Errorf("allowlist backend %q requires an allowlist contract address", cfg.AllowList.Backend)
		}
	default:
		return fmt.Errorf("unknown allowlist backend %q", cfg.AllowList.Backend)
	}

	switch cfg.Registry.Backend {
	case config.BackendMemory, config.BackendFile:
	default:
		return fmt.Errorf("unknown registry backend %q", cfg.Registry.Backend)
	}

	if cfg.Registry.Cooldown < 0 {
		return fmt.Errorf("cooldown must not be negative")
	}
	if cfg.Retry.Budget < 0 {
		return fmt.Errorf("retry budget must not be negative")
	}
	if cfg.Manifest.Scheme != "http" && cfg.Manifest.Scheme != "https" {
		return fmt.Errorf("unsupported manifest scheme %q", cfg.Manifest.Scheme)
	}

	return nil
}
