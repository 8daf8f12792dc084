package mapping

import (
	"context"
	"errors"
	"fmt"

	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/similarity"

	"go.uber.org/zap"
)

var (
	// ErrUnknownDomain is returned for a domain without a store.
	ErrUnknownDomain = errors.New("unknown mapping domain")
	// ErrEntryNotFound is returned when a model has no entry.
	ErrEntryNotFound = errors.New("mapping entry not found")
)

// MatchRequest asks for the candidates of one model.
type MatchRequest struct {
	Model string `json:"model"`
	// Field overrides the configured match field.
	Field string `json:"field,omitempty"`
	// Limit caps the number of candidates.
	Limit int `json:"limit,omitempty"`
	// Domain, when set, adds the cached entry of that store to the answer
	// and selects the domain's default field.
	Domain string `json:"domain,omitempty"`
}

// MatchResponse is the ranked answer to a MatchRequest.
type MatchResponse struct {
	Model      string             `json:"model"`
	Field      string             `json:"field"`
	Exact      bool               `json:"exact"`
	Candidates []reconcile.Scored `json:"candidates"`
	Cached     *mapping.Entry     `json:"cached,omitempty"`
}

// Service serves mapping lookups.
type Service struct {
	stores  map[mapping.Domain]*mapping.Store
	catalog *reconcile.CatalogCache
	field   reconcile.MatchField
	generic reconcile.MatchField
	topN    int
	logger  *zap.Logger
}

// NewService creates a mapping service.
func NewService(stores map[mapping.Domain]*mapping.Store, catalog *reconcile.CatalogCache, cfg reconcile.Config, logger *zap.Logger) *Service {
	field, err := reconcile.ParseField(cfg.Field)
	if err != nil {
		field = reconcile.FieldDisplayName
	}
	generic, err := reconcile.ParseField(cfg.GenericField)
	if err != nil {
		generic = field
	}
	topN := cfg.TopN
	if topN <= 0 || topN > reconcile.MaxTopN {
		topN = reconcile.DefaultTopN
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{stores: stores, catalog: catalog, field: field, generic: generic, topN: topN, logger: logger}
}

func (s *Service) store(domain string) (*mapping.Store, error) {
	st, ok := s.stores[mapping.Domain(domain)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}
	return st, nil
}

// List returns every entry of domain.
func (s *Service) List(ctx context.Context, domain string) ([]mapping.Entry, error) {
	st, err := s.store(domain)
	if err != nil {
		return nil, err
	}
	return st.Load(ctx)
}

// Get returns the entry for model in domain.
func (s *Service) Get(ctx context.Context, domain, model string) (mapping.Entry, error) {
	st, err := s.store(domain)
	if err != nil {
		return mapping.Entry{}, err
	}
	if _, err := st.Load(ctx); err != nil {
		return mapping.Entry{}, err
	}
	e, ok := st.Lookup(model)
	if !ok {
		return mapping.Entry{}, fmt.Errorf("%w: %q", ErrEntryNotFound, model)
	}
	return e, nil
}

// Match ranks the catalog against req.Model.
func (s *Service) Match(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	field := s.field
	if mapping.Domain(req.Domain) == mapping.DomainGeneric {
		field = s.generic
	}
	if req.Field != "" {
		f, err := reconcile.ParseField(req.Field)
		if err != nil {
			return nil, err
		}
		field = f
	}
	limit := req.Limit
	if limit <= 0 || limit > reconcile.MaxTopN {
		limit = s.topN
	}

	catalog, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	ranked := reconcile.Rank(req.Model, catalog, field)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	resp := &MatchResponse{
		Model:      req.Model,
		Field:      string(field),
		Exact:      len(ranked) > 0 && reconcile.IsExact(ranked[0]),
		Candidates: ranked,
	}

	if req.Domain != "" {
		e, err := s.Get(ctx, req.Domain, req.Model)
		switch {
		case err == nil:
			resp.Cached = &e
		case !errors.Is(err, ErrEntryNotFound):
			return nil, err
		}
	}
	return resp, nil
}

// Similarity scores a against b.
func (s *Service) Similarity(a, b string) int {
	return similarity.PartialRatio(a, b)
}
