package reconcile

import (
	"regexp"
	"sort"

	"inventory-sync/core/similarity"
)

// Rank scores every catalog entry against model and returns them ordered by
// descending score. Equal scores keep catalog order. An empty field scores 0.
func Rank(model string, catalog []Candidate, field MatchField) []Scored {
	scored := make([]Scored, len(catalog))
	for i, c := range catalog {
		scored[i] = Scored{Candidate: c, Score: similarity.PartialRatio(model, c.Value(field))}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// exactMatches counts the leading candidates with a perfect score.
func exactMatches(ranked []Scored) int {
	n := 0
	for _, s := range ranked {
		if s.Score < similarity.MaxScore {
			break
		}
		n++
	}
	return n
}

func top(ranked []Scored, n int) []Scored {
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]Scored, len(ranked))
	copy(out, ranked)
	return out
}

var modelNumber = regexp.MustCompile(`\d{4}`)

// BroaderQuery returns the first four-digit run of model, the product
// number shared by the regional variants of a model. It returns "" when
// model has none or is that run itself.
func BroaderQuery(model string) string {
	q := modelNumber.FindString(model)
	if q == model {
		return ""
	}
	return q
}
