package reconcile

import (
	"fmt"
	"time"
)

// Config holds reconciliation settings.
type Config struct {
	// Field is the catalog field compared against wireless models.
	Field string `mapstructure:"field" default:"display_name"`
	// GenericField is the catalog field compared against spreadsheet and
	// Catalyst Center models, which report part numbers.
	GenericField string `mapstructure:"generic_field" default:"part_number"`
	// TopN is the number of candidates offered when a decision is needed.
	TopN int `mapstructure:"top_n" default:"15"`
	// Interactive enables the console prompt. When false, models that need a
	// decision fail the run.
	Interactive bool `mapstructure:"interactive" default:"true"`
	// CatalogTTLSeconds is how long the HTTP server keeps a catalog snapshot.
	CatalogTTLSeconds int `mapstructure:"catalog_ttl_seconds" default:"300"`
}

// Validate checks the settings.
func (c Config) Validate() error {
	if _, err := ParseField(c.Field); err != nil {
		return err
	}
	if c.GenericField != "" {
		if _, err := ParseField(c.GenericField); err != nil {
			return err
		}
	}
	if c.TopN < 1 || c.TopN > MaxTopN {
		return fmt.Errorf("reconcile.top_n must be between 1 and %d, got %d", MaxTopN, c.TopN)
	}
	return nil
}

// CatalogTTL returns the catalog cache lifetime.
func (c Config) CatalogTTL() time.Duration {
	return time.Duration(c.CatalogTTLSeconds) * time.Second
}
