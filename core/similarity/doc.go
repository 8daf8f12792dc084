// Package similarity scores how closely two free-text strings match.
//
// Scores are integers on a 0-100 scale. They are a ranking signal for the
// device-type reconciler, not a metric: callers sort by them and must not
// assume symmetry or the triangle inequality.
//
// # Partial matching
//
// PartialRatio slides the shorter string across the longer one and keeps the
// best window. A model string embedded verbatim in a vendor part number
// therefore scores 100:
//
//	similarity.PartialRatio("9130AXI", "AIR-AP9130AXI-B") // 100
//
// All computations work on runes, are case-sensitive and never consult maps or
// locale data, so identical inputs always produce identical scores.
package similarity
