package similarity

import (
	"math"

	"github.com/agnivade/levenshtein"
)

// MaxScore is the score of a perfect match.
const MaxScore = 100

// Ratio returns the Levenshtein-normalised similarity of a and b.
// Equal non-empty strings score 100, an empty input scores 0.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return MaxScore
	}

	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}

	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(MaxScore * (1 - float64(dist)/float64(longest))))
}

// PartialRatio scores the best alignment of the shorter string against every
// equally long window of the longer one.
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return MaxScore
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	needle := string(shorter)
	width := len(shorter)
	best := 0
	for start := 0; start+width <= len(longer); start++ {
		score := Ratio(needle, string(longer[start:start+width]))
		if score == MaxScore {
			return MaxScore
		}
		if score > best {
			best = score
		}
	}

	return best
}
