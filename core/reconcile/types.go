package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// MatchField names the catalog field an observed model is compared against.
type MatchField string

const (
	// FieldDisplayName compares against the device type's model name.
	FieldDisplayName MatchField = "display_name"
	// FieldPartNumber compares against the device type's part number.
	FieldPartNumber MatchField = "part_number"
)

// ParseField validates a field name.
func ParseField(s string) (MatchField, error) {
	switch f := MatchField(s); f {
	case FieldDisplayName, FieldPartNumber:
		return f, nil
	case "":
		return FieldDisplayName, nil
	default:
		return "", fmt.Errorf("%w %q (want %s or %s)", ErrUnknownField, s, FieldDisplayName, FieldPartNumber)
	}
}

const (
	// SentinelCreateNew is the menu number that requests a new device type.
	SentinelCreateNew = 99
	// DefaultTopN is the number of ranked candidates offered for a decision.
	DefaultTopN = 15
	// MaxTopN keeps candidate numbers below the create-new sentinel.
	MaxTopN = SentinelCreateNew - 1
)

var (
	// ErrBlankModel is returned when an observed model is empty or whitespace.
	ErrBlankModel = errors.New("observed model is blank")
	// ErrCreateUnavailable is returned when a new device type was requested
	// but no creator is configured.
	ErrCreateUnavailable = errors.New("creating device types is not available")
	// ErrDecisionRequired is returned when a model needs a human decision and
	// none can be obtained.
	ErrDecisionRequired = errors.New("a decision is required")
	// ErrUnknownField is returned by ParseField for unsupported names.
	ErrUnknownField = errors.New("unknown match field")
	// ErrInvalidDecision is returned when a provider answers with an index
	// outside the offered candidates.
	ErrInvalidDecision = errors.New("decision does not match an offered candidate")
)

// Candidate is one device type from the registry catalog.
type Candidate struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	PartNumber  string `json:"part_number"`
}

// Value returns the candidate's value for field.
func (c Candidate) Value(field MatchField) string {
	if field == FieldPartNumber {
		return c.PartNumber
	}
	return c.DisplayName
}

// canonicalName is the name recorded in a mapping entry.
func (c Candidate) canonicalName(field MatchField) string {
	if v := c.Value(field); v != "" {
		return v
	}
	return c.DisplayName
}

// Scored is a candidate with its similarity to an observed model.
type Scored struct {
	Candidate
	Score int `json:"score"`
}

// Prompt describes a model that needs a decision.
type Prompt struct {
	Model      string     `json:"model"`
	Field      MatchField `json:"field"`
	Candidates []Scored   `json:"candidates"`
	// Query is the text the candidates were ranked against when it is not
	// Model, after a broader search.
	Query string `json:"query,omitempty"`
	// Broader is the broader search on offer. Empty when there is none.
	Broader string `json:"broader,omitempty"`
}

// Decision is the answer to a Prompt: the index of one of its candidates, a
// request to create a new device type or a request to rank again against
// the prompt's Broader query.
type Decision struct {
	Index     int
	CreateNew bool
	Broaden   bool
}

// Choose selects the candidate at index i.
func Choose(i int) Decision {
	return Decision{Index: i}
}

// CreateNew requests a new device type.
func CreateNew() Decision {
	return Decision{CreateNew: true}
}

// Broaden asks for the candidates of the prompt's broader query.
func Broaden() Decision {
	return Decision{Broaden: true}
}

// DecisionProvider resolves a model that has no exact match.
type DecisionProvider interface {
	Decide(ctx context.Context, p Prompt) (Decision, error)
}

// DecisionFunc adapts a function to DecisionProvider.
type DecisionFunc func(ctx context.Context, p Prompt) (Decision, error)

// Decide implements DecisionProvider.
func (f DecisionFunc) Decide(ctx context.Context, p Prompt) (Decision, error) {
	return f(ctx, p)
}

// DeviceTypeCreator creates a new device type in the registry for model.
type DeviceTypeCreator interface {
	CreateDeviceType(ctx context.Context, model string) (Candidate, error)
}
