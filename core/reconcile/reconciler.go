package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"inventory-sync/core/mapping"
	"inventory-sync/core/similarity"

	"go.uber.org/zap"
)

// Options configures a Reconciler.
type Options struct {
	// Field is the catalog field models are compared against.
	Field MatchField
	// TopN is the number of ranked candidates offered for a decision.
	TopN int
	// Decider resolves models without an exact match.
	Decider DecisionProvider
	// Creator creates device types when a decision asks for it. Optional.
	Creator DeviceTypeCreator
	// Logger receives match diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Reconciler maps observed model strings to catalog device types.
type Reconciler struct {
	store   *mapping.Store
	field   MatchField
	topN    int
	decider DecisionProvider
	creator DeviceTypeCreator
	logger  *zap.Logger
}

// New creates a Reconciler over store.
func New(store *mapping.Store, opts Options) *Reconciler {
	r := &Reconciler{
		store:   store,
		field:   opts.Field,
		topN:    opts.TopN,
		decider: opts.Decider,
		creator: opts.Creator,
		logger:  opts.Logger,
	}
	if r.field == "" {
		r.field = FieldDisplayName
	}
	if r.topN <= 0 || r.topN > MaxTopN {
		r.topN = DefaultTopN
	}
	if r.decider == nil {
		r.decider = RefuseDecider{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Field returns the catalog field this reconciler compares against.
func (r *Reconciler) Field() MatchField {
	return r.field
}

// Store returns the mapping store.
func (r *Reconciler) Store() *mapping.Store {
	return r.store
}

// Reconcile returns a mapping entry for every distinct observed model, in
// model order. Cached entries are used as they are; the rest are matched
// against catalog, automatically on a perfect score and through the decision
// provider otherwise. New entries are persisted once, after every model is
// resolved. Nothing is persisted if any model fails.
func (r *Reconciler) Reconcile(ctx context.Context, observed []string, catalog []Candidate) ([]mapping.Entry, error) {
	models, err := normalize(observed)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return []mapping.Entry{}, nil
	}

	if err := r.store.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	result := make([]mapping.Entry, 0, len(models))
	var added []mapping.Entry

	for _, model := range models {
		if entry, ok := r.store.Lookup(model); ok {
			r.logger.Debug("Using cached mapping",
				zap.String("model", model),
				zap.String("canonical_name", entry.CanonicalName),
				zap.String("canonical_id", entry.CanonicalID))
			result = append(result, entry)
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := r.resolve(ctx, model, catalog)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
		added = append(added, entry)
	}

	if err := r.store.AppendAndPersist(ctx, added); err != nil {
		return nil, err
	}
	if len(added) > 0 {
		r.logger.Info("Saved new mappings",
			zap.Int("count", len(added)),
			zap.String("store", r.store.Backend().Describe()))
	}

	return result, nil
}

// Missing returns the distinct observed models that have no mapping entry.
func (r *Reconciler) Missing(ctx context.Context, observed []string) ([]string, error) {
	models, err := normalize(observed)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return []string{}, nil
	}
	if err := r.store.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	missing := make([]string, 0, len(models))
	for _, m := range models {
		if _, ok := r.store.Lookup(m); !ok {
			missing = append(missing, m)
		}
	}
	return missing, nil
}

// Pending returns a prompt for every observed model that is neither cached
// nor matched exactly. Nothing is written.
func (r *Reconciler) Pending(ctx context.Context, observed []string, catalog []Candidate) ([]Prompt, error) {
	missing, err := r.Missing(ctx, observed)
	if err != nil {
		return nil, err
	}

	prompts := make([]Prompt, 0, len(missing))
	for _, model := range missing {
		ranked := Rank(model, catalog, r.field)
		if exactMatches(ranked) > 0 {
			continue
		}
		prompts = append(prompts, r.prompt(model, ranked))
	}
	return prompts, nil
}

// Preview ranks model against catalog without consulting the store.
func (r *Reconciler) Preview(model string, catalog []Candidate, limit int) []Scored {
	if limit <= 0 || limit > MaxTopN {
		limit = r.topN
	}
	return top(Rank(model, catalog, r.field), limit)
}

func (r *Reconciler) resolve(ctx context.Context, model string, catalog []Candidate) (mapping.Entry, error) {
	ranked := Rank(model, catalog, r.field)

	if n := exactMatches(ranked); n > 0 {
		chosen := ranked[0].Candidate
		if n > 1 {
			r.logger.Warn("Multiple exact matches, using the first",
				zap.String("model", model),
				zap.Int("count", n),
				zap.String("chosen", chosen.Value(r.field)),
				zap.String("chosen_id", chosen.ID))
		} else {
			r.logger.Info("Exact match",
				zap.String("model", model),
				zap.String("canonical_name", chosen.Value(r.field)))
		}
		return r.entry(model, chosen), nil
	}

	p := r.prompt(model, ranked)
	decision, err := r.decider.Decide(ctx, p)
	if err != nil {
		return mapping.Entry{}, fmt.Errorf("no decision for model %q: %w", model, err)
	}
	if decision.Broaden {
		if p.Broader == "" {
			return mapping.Entry{}, fmt.Errorf("model %q, broader search: %w", model, ErrInvalidDecision)
		}
		r.logger.Info("Broader search",
			zap.String("model", model),
			zap.String("query", p.Broader))
		p = Prompt{
			Model:      model,
			Field:      r.field,
			Query:      p.Broader,
			Candidates: top(Rank(p.Broader, catalog, r.field), r.topN),
		}
		if decision, err = r.decider.Decide(ctx, p); err != nil {
			return mapping.Entry{}, fmt.Errorf("no decision for model %q: %w", model, err)
		}
		if decision.Broaden {
			return mapping.Entry{}, fmt.Errorf("model %q, broader search: %w", model, ErrInvalidDecision)
		}
	}

	if decision.CreateNew {
		if r.creator == nil {
			return mapping.Entry{}, fmt.Errorf("model %q: %w", model, ErrCreateUnavailable)
		}
		created, err := r.creator.CreateDeviceType(ctx, model)
		if err != nil {
			return mapping.Entry{}, fmt.Errorf("failed to create device type for %q: %w", model, err)
		}
		r.logger.Info("Created device type",
			zap.String("model", model),
			zap.String("canonical_id", created.ID))
		return r.entry(model, created), nil
	}

	if decision.Index < 0 || decision.Index >= len(p.Candidates) {
		return mapping.Entry{}, fmt.Errorf("model %q, index %d: %w", model, decision.Index, ErrInvalidDecision)
	}

	chosen := p.Candidates[decision.Index]
	r.logger.Info("Selected device type",
		zap.String("model", model),
		zap.String("canonical_name", chosen.Value(r.field)),
		zap.Int("score", chosen.Score))
	return r.entry(model, chosen.Candidate), nil
}

func (r *Reconciler) prompt(model string, ranked []Scored) Prompt {
	return Prompt{Model: model, Field: r.field, Candidates: top(ranked, r.topN), Broader: BroaderQuery(model)}
}

func (r *Reconciler) entry(model string, c Candidate) mapping.Entry {
	return mapping.Entry{
		ObservedModel: model,
		CanonicalName: c.canonicalName(r.field),
		CanonicalID:   c.ID,
	}
}

// normalize returns the sorted distinct models. Values are not trimmed, only
// checked for blankness, so lookups stay exact.
func normalize(observed []string) ([]string, error) {
	seen := make(map[string]struct{}, len(observed))
	models := make([]string, 0, len(observed))
	for _, m := range observed {
		if strings.TrimSpace(m) == "" {
			return nil, ErrBlankModel
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		models = append(models, m)
	}
	sort.Strings(models)
	return models, nil
}

// IsExact reports whether s is a perfect score.
func IsExact(s Scored) bool {
	return s.Score >= similarity.MaxScore
}
