package allowlist

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ImportFile is the YAML layout accepted by `allowlist import`
type ImportFile struct {
	Addresses []string `yaml:"addresses"`
}

// ParseImportFile reads a YAML import file and returns its raw addresses
func ParseImportFile(filePath string) ([]string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("import file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	return ParseImport(data)
}

// ParseImport parses YAML import data
func ParseImport(data []byte) ([]string, error) {
	var file ImportFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.Addresses) == 0 {
		return nil, fmt.Errorf("import file lists no addresses")
	}
	return file.Addresses, nil
}
