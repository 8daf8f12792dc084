package mapping

import (
	"context"
	"fmt"
	"path"

	"inventory-sync/core/storage"

	"gorm.io/gorm"
)

// Backend kinds accepted in Config.Backend.
const (
	BackendFile     = "file"
	BackendObject   = "s3"
	BackendDatabase = "database"
)

// Config selects where mapping stores live.
type Config struct {
	// Backend is one of file, s3 or database.
	Backend string `mapstructure:"backend" default:"file"`
	// WirelessPath is the file or object key of the wireless store.
	WirelessPath string `mapstructure:"wireless_path" default:"wlc2nb_mapping.json"`
	// GenericPath is the file or object key of the generic store.
	GenericPath string `mapstructure:"generic_path" default:"dt2nb_mapping.json"`
	// ObjectPrefix is prepended to object keys when Backend is s3.
	ObjectPrefix string `mapstructure:"object_prefix" default:"mappings"`
}

// PathFor returns the configured path of a domain.
func (c Config) PathFor(domain Domain) string {
	if domain == DomainWireless {
		return c.WirelessPath
	}
	return c.GenericPath
}

// Deps carries the shared clients a backend may need.
type Deps struct {
	Storage storage.Client
	Bucket  string
	DB      *gorm.DB
}

// NewBackend builds the configured backend for domain.
func NewBackend(ctx context.Context, cfg Config, domain Domain, deps Deps) (Backend, error) {
	if !domain.IsValid() {
		return nil, fmt.Errorf("unknown mapping domain %q", domain)
	}

	switch cfg.Backend {
	case "", BackendFile:
		return NewFileBackend(cfg.PathFor(domain)), nil
	case BackendObject:
		if deps.Storage == nil {
			return nil, fmt.Errorf("mapping backend %q requires a storage client", cfg.Backend)
		}
		key := path.Join(cfg.ObjectPrefix, path.Base(cfg.PathFor(domain)))
		return NewObjectBackend(deps.Storage, deps.Bucket, key), nil
	case BackendDatabase:
		if deps.DB == nil {
			return nil, fmt.Errorf("mapping backend %q requires a database connection", cfg.Backend)
		}
		b := NewDBBackend(deps.DB, domain)
		if err := b.Prepare(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare mapping table: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown mapping backend %q", cfg.Backend)
	}
}

// Open builds the backend for domain and loads its store.
func Open(ctx context.Context, cfg Config, domain Domain, deps Deps) (*Store, error) {
	backend, err := NewBackend(ctx, cfg, domain, deps)
	if err != nil {
		return nil, err
	}

	store := NewStore(backend)
	if _, err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
