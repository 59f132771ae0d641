package gocollection

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the declarative form of a record set configuration, typically a
// section of the application config file:
//
//	accounts:
//	  entityType: Account
//	  orderBy: createdAt
//	  order: desc
//	  maxSize: 20
//	  maxMaxSize: 200
type Config struct {
	EntityType     string    `mapstructure:"entityType" yaml:"entityType"`
	OrderBy        string    `mapstructure:"orderBy" yaml:"orderBy"`
	Order          Direction `mapstructure:"order" yaml:"order"`
	MaxSize        int       `mapstructure:"maxSize" yaml:"maxSize"`
	MaxMaxSize     int       `mapstructure:"maxMaxSize" yaml:"maxMaxSize"`
	LegacySort     bool      `mapstructure:"legacySort" yaml:"legacySort"`
	StrictOrdering bool      `mapstructure:"strictOrdering" yaml:"strictOrdering"`
}

// LoadConfig reads a Config from v. Use v.Sub to point it at a section.
func LoadConfig(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, fmt.Errorf("cannot load record set config: nil viper instance")
	}

	var cfg Config
	err := v.Unmarshal(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("cannot load record set config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("cannot load record set config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration. Zero values are valid and mean defaults.
func (c Config) Validate() error {
	if c.EntityType == "" {
		return fmt.Errorf("entity type is required")
	}

	if c.Order != "" && !c.Order.Valid() {
		return fmt.Errorf("invalid order direction '%s'", c.Order)
	}

	if c.MaxSize < 0 {
		return fmt.Errorf("max size can not be negative, got %d", c.MaxSize)
	}

	if c.MaxMaxSize < 0 {
		return fmt.Errorf("max max size can not be negative, got %d", c.MaxMaxSize)
	}

	return nil
}

// NewFromConfig creates a record set from cfg.
func NewFromConfig[T Record](cfg Config, transport Transport[T]) (*RecordSet[T], error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	rs := New(cfg.EntityType, transport).
		WithOrder(cfg.OrderBy, NormalizeDirection(cfg.Order)).
		WithMaxSize(cfg.MaxSize).
		WithMaxMaxSize(cfg.MaxMaxSize)

	if cfg.LegacySort {
		rs = rs.WithLegacySortEncoding()
	}

	if cfg.StrictOrdering {
		rs = rs.WithStrictOrdering()
	}

	return rs, nil
}
