package reconcile

import (
	"context"
	"fmt"
	"sync"
)

// RefuseDecider never decides. Use it for non-interactive runs where every
// model must already be cached or match exactly.
type RefuseDecider struct{}

// Decide implements DecisionProvider.
func (RefuseDecider) Decide(_ context.Context, p Prompt) (Decision, error) {
	return Decision{}, fmt.Errorf("model %q has no exact match: %w", p.Model, ErrDecisionRequired)
}

// ScriptedDecider answers from a fixed table keyed by model, falling back to
// Default when set. It records every prompt it was asked.
type ScriptedDecider struct {
	Answers map[string]Decision
	Default *Decision

	mu    sync.Mutex
	asked []Prompt
}

// Decide implements DecisionProvider.
func (s *ScriptedDecider) Decide(_ context.Context, p Prompt) (Decision, error) {
	s.mu.Lock()
	s.asked = append(s.asked, p)
	s.mu.Unlock()

	if d, ok := s.Answers[p.Model]; ok {
		return d, nil
	}
	if s.Default != nil {
		return *s.Default, nil
	}
	return Decision{}, fmt.Errorf("no scripted answer for %q: %w", p.Model, ErrDecisionRequired)
}

// Asked returns the prompts seen so far.
func (s *ScriptedDecider) Asked() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Prompt, len(s.asked))
	copy(out, s.asked)
	return out
}

// TemplateDecider answers from the values of an edited decision template.
// A value is a candidate id or one of the create-new keywords. Models absent
// from the template are passed to Fallback, or refused when it is nil.
type TemplateDecider struct {
	Values   map[string]string
	Fallback DecisionProvider
}

// Decide implements DecisionProvider.
func (t *TemplateDecider) Decide(ctx context.Context, p Prompt) (Decision, error) {
	value, ok := t.Values[p.Model]
	if !ok {
		if t.Fallback != nil {
			return t.Fallback.Decide(ctx, p)
		}
		return RefuseDecider{}.Decide(ctx, p)
	}

	switch {
	case value == "" || value == Placeholder:
		return Decision{}, fmt.Errorf("template value for %q was not filled in: %w", p.Model, ErrDecisionRequired)
	case isCreateKeyword(value):
		return CreateNew(), nil
	}

	for i, c := range p.Candidates {
		if c.ID == value {
			return Choose(i), nil
		}
	}
	return Decision{}, fmt.Errorf("template value %q for %q is not one of the offered candidates: %w", value, p.Model, ErrInvalidDecision)
}
