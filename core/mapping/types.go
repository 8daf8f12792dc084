package mapping

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Domain names a mapping store.
type Domain string

const (
	DomainWireless Domain = "wireless"
	DomainGeneric  Domain = "generic"
)

// IsValid reports whether d is a known domain.
func (d Domain) IsValid() bool {
	switch d {
	case DomainWireless, DomainGeneric:
		return true
	default:
		return false
	}
}

// Entry maps one observed model string to a canonical device type.
type Entry struct {
	// ObservedModel is the model string as reported by the device source.
	ObservedModel string `json:"observed_model" yaml:"observed_model"`
	// CanonicalName is the registry's model name or part number that was matched.
	CanonicalName string `json:"canonical_name" yaml:"canonical_name"`
	// CanonicalID is the registry's device-type identifier.
	CanonicalID string `json:"canonical_id" yaml:"canonical_id"`
}

// UnmarshalJSON accepts the current field names as well as the ones written by
// the earlier import scripts (imported_model / wlc_model, nb_model, nb_dt_id).
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ObservedModel string          `json:"observed_model"`
		ImportedModel string          `json:"imported_model"`
		WLCModel      string          `json:"wlc_model"`
		CanonicalName string          `json:"canonical_name"`
		NBModel       string          `json:"nb_model"`
		CanonicalID   json.RawMessage `json:"canonical_id"`
		NBDeviceType  json.RawMessage `json:"nb_dt_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.ObservedModel = firstNonEmpty(raw.ObservedModel, raw.ImportedModel, raw.WLCModel)
	e.CanonicalName = firstNonEmpty(raw.CanonicalName, raw.NBModel)

	id := raw.CanonicalID
	if len(id) == 0 {
		id = raw.NBDeviceType
	}
	parsed, err := parseID(id)
	if err != nil {
		return fmt.Errorf("mapping entry %q: %w", e.ObservedModel, err)
	}
	e.CanonicalID = parsed

	return nil
}

// parseID accepts a JSON string or number.
func parseID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid canonical id %s", string(raw))
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// dedupe keeps the last entry for every observed model, at the position of
// its first occurrence.
func dedupe(entries []Entry) []Entry {
	index := make(map[string]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if i, ok := index[e.ObservedModel]; ok {
			out[i] = e
			continue
		}
		index[e.ObservedModel] = len(out)
		out = append(out, e)
	}
	return out
}
