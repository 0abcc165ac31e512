package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DRCFileName is the per-project network file.
const DRCFileName = "drc.toml"

// DRCFile represents the raw drc.toml structure
type DRCFile struct {
	RpcEndpoints map[string]string            `toml:"rpc_endpoints"`
	Networks     map[string]NetworkFileConfig `toml:"networks"`
}

// NetworkFileConfig holds per-network deployment settings
type NetworkFileConfig struct {
	ChainID   uint64 `toml:"chain_id"`
	AllowList string `toml:"allowlist"`
	Cooldown  string `toml:"cooldown"`
}

// loadEnvFiles loads .env files first for variable expansion
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadDRCFile loads and parses drc.toml if it exists.
// Returns (nil, nil) when drc.toml does not exist.
func loadDRCFile(projectRoot string) (*DRCFile, error) {
	path := filepath.Join(projectRoot, DRCFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var raw DRCFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DRCFileName, err)
	}

	for name, url := range raw.RpcEndpoints {
		raw.RpcEndpoints[name] = os.ExpandEnv(url)
	}
	for name, nw := range raw.Networks {
		nw.AllowList = os.ExpandEnv(nw.AllowList)
		raw.Networks[name] = nw
	}

	return &raw, nil
}

// rpcEndpoint returns the expanded RPC URL for a named network
func (f *DRCFile) rpcEndpoint(name string) (string, error) {
	if f == nil {
		return "", fmt.Errorf("network '%s' requested but %s not found", name, DRCFileName)
	}
	url, ok := f.RpcEndpoints[name]
	if !ok {
		return "", fmt.Errorf("network '%s' not found in %s [rpc_endpoints]", name, DRCFileName)
	}
	if url == "" {
		return "", fmt.Errorf("rpc endpoint for '%s' is empty, is its env var set?", name)
	}
	return url, nil
}
