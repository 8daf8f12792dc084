package checks

import (
	"strconv"

	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"
)

// Issue reasons.
const (
	ReasonMissingType = "device type no longer exists"
	ReasonInvalidID   = "device type id is not numeric"
	ReasonRenamed     = "device type was renamed"
)

// Issue is one problematic mapping entry.
type Issue struct {
	Entry  mapping.Entry `json:"entry"`
	Reason string        `json:"reason"`
	// Current is the catalog name of a renamed device type.
	Current string `json:"current,omitempty"`
}

// MappingReport is the result of checking a store against the catalog.
type MappingReport struct {
	Domain  string  `json:"domain"`
	Matched bool    `json:"matched"`
	Total   int     `json:"total"`
	Valid   int     `json:"valid"`
	Stale   []Issue `json:"stale"`
	Renamed []Issue `json:"renamed"`
}

// CheckMappings compares entries with the catalog. An entry is stale when its
// device type id is not in the catalog, and renamed when the id exists but
// neither the display name nor the part number equals the recorded name.
func CheckMappings(domain string, entries []mapping.Entry, catalog []reconcile.Candidate) *MappingReport {
	byID := make(map[string]reconcile.Candidate, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c
	}

	report := &MappingReport{
		Domain:  domain,
		Total:   len(entries),
		Stale:   []Issue{},
		Renamed: []Issue{},
	}

	for _, e := range entries {
		if _, err := strconv.Atoi(e.CanonicalID); err != nil {
			report.Stale = append(report.Stale, Issue{Entry: e, Reason: ReasonInvalidID})
			continue
		}

		c, ok := byID[e.CanonicalID]
		if !ok {
			report.Stale = append(report.Stale, Issue{Entry: e, Reason: ReasonMissingType})
			continue
		}

		if e.CanonicalName != c.DisplayName && e.CanonicalName != c.PartNumber {
			report.Renamed = append(report.Renamed, Issue{Entry: e, Reason: ReasonRenamed, Current: c.DisplayName})
			continue
		}
		report.Valid++
	}

	report.Matched = len(report.Stale) == 0 && len(report.Renamed) == 0
	return report
}

// Repair returns entries with stale entries dropped and renamed entries
// carrying the current catalog name. Order is kept.
func Repair(entries []mapping.Entry, report *MappingReport) []mapping.Entry {
	stale := make(map[string]struct{}, len(report.Stale))
	for _, i := range report.Stale {
		stale[i.Entry.ObservedModel] = struct{}{}
	}
	renamed := make(map[string]string, len(report.Renamed))
	for _, i := range report.Renamed {
		renamed[i.Entry.ObservedModel] = i.Current
	}

	out := make([]mapping.Entry, 0, len(entries))
	for _, e := range entries {
		if _, ok := stale[e.ObservedModel]; ok {
			continue
		}
		if name, ok := renamed[e.ObservedModel]; ok {
			e.CanonicalName = name
		}
		out = append(out, e)
	}
	return out
}
