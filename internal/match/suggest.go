package match

import "sort"

// DefaultMinScore is the minimum similarity for a name to be offered as a suggestion.
const DefaultMinScore = 0.6

// Suggestion is a known name ranked against a miss.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name and returns them sorted by score
// (descending), then by name for determinism.
func Rank(name string, candidates []string) []Suggestion {
	out := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Suggestion{Name: c, Score: APINameSimilarity(name, c)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Suggest returns the candidate closest to name, if any scores at least
// DefaultMinScore.
func Suggest(name string, candidates []string) (string, bool) {
	ranked := Rank(name, candidates)
	if len(ranked) == 0 || ranked[0].Score < DefaultMinScore {
		return "", false
	}

	return ranked[0].Name, true
}
