package config

import (
	"fmt"
	"os"

	"github.com/simonvc/swipeledger/internal/ledger"
	"gopkg.in/yaml.v3"
)

// LoadSeed reads a chart of accounts with its customers and wallets from a YAML
// file. An empty path returns the built-in seed.
func LoadSeed(path string) (ledger.Seed, error) {
	if path == "" {
		return ledger.DefaultSeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ledger.Seed{}, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (ledger.Seed, error) {
	var seed ledger.Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return ledger.Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return ledger.Seed{}, fmt.Errorf("invalid seed: %w", err)
	}
	return seed, nil
}
