package repl

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// fuzzyMatch is a single fuzzy suggestion with its score.
type fuzzyMatch struct {
	Name  string
	Score float64
}

// Suggestions below this score are noise for short food names.
const fuzzyThreshold = 0.45

// FindSimilarFoods returns up to five corpus names fuzzily similar to the
// query. It combines whole-string Levenshtein similarity with a per-word
// best-match score, so "cabage" finds "cabbage boiled" and "boiled cabbage"
// finds "cabbage boiled" too.
func FindSimilarFoods(query string, names []string) []string {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" || len(names) == 0 {
		return nil
	}
	queryWords := strings.Fields(queryLower)

	var results []fuzzyMatch
	for _, name := range names {
		if name == "" {
			continue
		}
		score := fuzzyScore(queryLower, queryWords, name)
		if score >= fuzzyThreshold {
			results = append(results, fuzzyMatch{Name: name, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})

	limit := 5
	if len(results) < limit {
		limit = len(results)
	}
	top := make([]string, limit)
	for i := 0; i < limit; i++ {
		top[i] = results[i].Name
	}
	return top
}

// fuzzyScore returns a similarity score between 0 and 1.
func fuzzyScore(queryLower string, queryWords []string, name string) float64 {
	if queryLower == name {
		return 1.0
	}
	if strings.Contains(name, queryLower) {
		return 0.95
	}

	// Whole-string similarity catches near-complete names with a typo.
	global := levenshteinSimilarity(queryLower, name)

	// Word-wise similarity catches word-order changes and per-word typos:
	// each query word is scored against its best-matching name word.
	nameWords := strings.Fields(name)
	total := 0.0
	for _, qw := range queryWords {
		best := 0.0
		for _, nw := range nameWords {
			if s := levenshteinSimilarity(qw, nw); s > best {
				best = s
			}
		}
		total += best
	}
	wordScore := 0.0
	if len(queryWords) > 0 {
		wordScore = total / float64(len(queryWords))
	}

	if wordScore > global {
		return wordScore
	}
	return global
}

func levenshteinSimilarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	score := 1.0 - float64(levenshtein.Distance(a, b, nil))/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}
