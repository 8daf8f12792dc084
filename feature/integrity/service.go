package integrity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/storage"
	"inventory-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrUnknownDomain is returned for a domain without a store.
var ErrUnknownDomain = errors.New("unknown mapping domain")

// Service handles integrity checks.
type Service struct {
	stores  map[mapping.Domain]*mapping.Store
	catalog reconcile.CatalogLoader
	client  storage.Client
	bucket  string
	db      *gorm.DB
	logger  *zap.Logger
}

// NewService creates a new integrity service. client and db are optional and
// only checked when set.
func NewService(stores map[mapping.Domain]*mapping.Store, catalog reconcile.CatalogLoader, client storage.Client, bucket string, db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		stores:  stores,
		catalog: catalog,
		client:  client,
		bucket:  bucket,
		db:      db,
		logger:  logger,
	}
}

// Domains returns the configured domains, sorted.
func (s *Service) Domains() []string {
	out := make([]string, 0, len(s.stores))
	for d := range s.stores {
		out = append(out, string(d))
	}
	sort.Strings(out)
	return out
}

// CheckMappings compares the store of domain with the current catalog.
func (s *Service) CheckMappings(ctx context.Context, domain string) (*checks.MappingReport, error) {
	st, ok := s.stores[mapping.Domain(domain)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}

	entries, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return checks.CheckMappings(domain, entries, catalog), nil
}

// RepairMappings rewrites the store of domain with stale entries dropped and
// renamed entries updated. It returns the report the repair was based on.
func (s *Service) RepairMappings(ctx context.Context, domain string) (*checks.MappingReport, error) {
	report, err := s.CheckMappings(ctx, domain)
	if err != nil {
		return nil, err
	}
	if report.Matched {
		return report, nil
	}

	st := s.stores[mapping.Domain(domain)]
	fixed := checks.Repair(st.Entries(), report)
	if err := st.Replace(ctx, fixed); err != nil {
		return nil, fmt.Errorf("failed to rewrite %s mappings: %w", domain, err)
	}
	s.logger.Info("Repaired mappings",
		zap.String("domain", domain),
		zap.Int("dropped", len(report.Stale)),
		zap.Int("renamed", len(report.Renamed)),
	)
	return report, nil
}

// CheckSchema checks the mapping table. It fails when no database is set.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// CheckBucket reports whether the mapping bucket exists.
func (s *Service) CheckBucket(ctx context.Context) (bool, error) {
	return checks.CheckBucket(ctx, s.client, s.bucket)
}
