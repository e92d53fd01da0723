package config

import (
	"fmt"
	"strings"
)

const (
	// StoreDriverPostgres keeps products in PostgreSQL.
	StoreDriverPostgres = "postgres"
	// StoreDriverMemory keeps products in process memory.
	StoreDriverMemory = "memory"
)

// StoreConfig selects the product store implementation.
type StoreConfig struct {
	Driver string `koanf:"driver"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	return b.String()
}

// Validate defaults an empty driver to postgres and rejects unknown drivers.
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case "":
		c.Driver = StoreDriverPostgres
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q, expected %q or %q", c.Driver, StoreDriverPostgres, StoreDriverMemory)
	}
	return nil
}

// UsesPostgres reports whether the PostgreSQL store is selected.
func (c *StoreConfig) UsesPostgres() bool {
	return c.Driver == "" || c.Driver == StoreDriverPostgres
}
