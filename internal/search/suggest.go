package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hyperjump/snippetsaver/internal/models"
)

const (
	maxSuggestDistance = 2
	minSuggestTermLen  = 3
)

// vocabulary maps lowercased terms to the number of snippets containing them.
type vocabulary map[string]int

func buildVocabulary(all []models.Snippet) vocabulary {
	v := make(vocabulary)
	for _, s := range all {
		seen := make(map[string]struct{})
		for _, term := range terms(s.Title + " " + s.Content) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			v[term]++
		}
	}
	return v
}

// terms splits text into lowercased words of letters and digits.
func terms(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

type suggestion struct {
	term     string
	distance int
	score    float64
}

// closest returns the best known replacement for term, or "" if none is within
// edit distance. Frequent terms win over rare ones at equal distance.
func (v vocabulary) closest(term string) string {
	n := len([]rune(term))
	var candidates []suggestion
	for known, freq := range v {
		diff := len([]rune(known)) - n
		if diff < 0 {
			diff = -diff
		}
		if diff > maxSuggestDistance {
			continue
		}
		d := levenshtein(term, known)
		if d == 0 || d > maxSuggestDistance {
			continue
		}
		candidates = append(candidates, suggestion{term: known, distance: d, score: float64(freq) / float64(d+1)})
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].term < candidates[j].term
	})
	return candidates[0].term
}

// Suggest rewrites query with every unknown word replaced by its closest
// stored term. It returns "" when nothing would change.
func Suggest(all []models.Snippet, query string) string {
	words := terms(query)
	if len(words) == 0 {
		return ""
	}
	v := buildVocabulary(all)
	changed := false
	for i, w := range words {
		if _, ok := v[w]; ok || len([]rune(w)) < minSuggestTermLen {
			continue
		}
		if c := v.closest(w); c != "" {
			words[i] = c
			changed = true
		}
	}
	if !changed {
		return ""
	}
	return strings.Join(words, " ")
}

// levenshtein counts single-rune insertions, deletions and substitutions.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two rows are enough.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
