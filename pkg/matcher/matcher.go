// Package matcher scores guidance bundles against a free-text query.
// Trigger terms matched as whole words dominate; description keyword
// overlap is only a fallback and is capped below the trigger baseline
// so a description-only match can never outrank an explicit trigger
// hit.
package matcher

import (
	"iter"
	"sort"
	"strings"
	"unicode"

	"github.com/paul-ooi/skillet/pkg/bundle"
)

// Scoring weights. Tunable parameters, not hidden heuristics: the
// trigger baseline and per-trigger bonus determine how explicit
// matches stack, and the description weight keeps fallback scores
// strictly below the baseline.
const (
	TriggerBaseline   = 0.8
	TriggerBonus      = 0.05
	DescriptionWeight = 0.45
	MaxScore          = 1.0
)

// Query is a single request for guidance: free-text task description
// plus optional explicit bundle-id hints which bypass matching.
type Query struct {
	Text  string
	Hints []string
}

// HintSet returns the query's hints as a set for membership checks.
func (q Query) HintSet() map[string]bool {
	if len(q.Hints) == 0 {
		return nil
	}
	set := make(map[string]bool, len(q.Hints))
	for _, h := range q.Hints {
		set[h] = true
	}
	return set
}

// Scored pairs a bundle with its relevance score. Hinted marks
// bundles the query requested explicitly by id; they win score ties so
// a trigger match that also reaches 1.0 can never displace them.
type Scored struct {
	Bundle *bundle.Bundle
	Score  float64
	Hinted bool
}

// Matcher computes relevance scores for bundles against queries.
type Matcher struct{}

// New creates a matcher.
func New() *Matcher {
	return &Matcher{}
}

// Score computes a relevance score in [0, 1] for a bundle against a
// query. An explicit hint forces 1.0. Otherwise any whole-word trigger
// match yields at least TriggerBaseline, with TriggerBonus added per
// additional distinct trigger matched, capped at MaxScore. With no
// trigger hit the score falls back to description keyword overlap
// scaled by DescriptionWeight.
func (m *Matcher) Score(query Query, b *bundle.Bundle) float64 {
	if query.HintSet()[b.ID] {
		return MaxScore
	}

	queryTokens := tokenize(query.Text)
	if len(queryTokens) == 0 {
		return 0
	}

	if hits := countTriggerHits(queryTokens, b.Triggers); hits > 0 {
		score := TriggerBaseline + float64(hits-1)*TriggerBonus
		return min(score, MaxScore)
	}

	return DescriptionWeight * descriptionOverlap(queryTokens, b.Description)
}

// Rank scores every bundle and returns the non-zero scores in
// descending order. Hinted bundles sort ahead of equal-scoring
// unhinted ones; remaining ties break by ascending bundle id. An empty
// query with no hints produces an empty ranking rather than an error.
func (m *Matcher) Rank(query Query, bundles iter.Seq[*bundle.Bundle]) []Scored {
	hints := query.HintSet()

	var ranked []Scored
	for b := range bundles {
		if score := m.Score(query, b); score > 0 {
			ranked = append(ranked, Scored{Bundle: b, Score: score, Hinted: hints[b.ID]})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Hinted != ranked[j].Hinted {
			return ranked[i].Hinted
		}
		return ranked[i].Bundle.ID < ranked[j].Bundle.ID
	})

	return ranked
}

// countTriggerHits counts distinct triggers appearing in the query as
// case-insensitive whole-word (or whole-phrase) matches.
func countTriggerHits(queryTokens []string, triggers []string) int {
	hits := 0
	seen := make(map[string]bool, len(triggers))
	for _, trigger := range triggers {
		phrase := tokenize(trigger)
		if len(phrase) == 0 {
			continue
		}
		key := strings.Join(phrase, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		if containsPhrase(queryTokens, phrase) {
			hits++
		}
	}
	return hits
}

// containsPhrase reports whether phrase occurs as a contiguous token
// subsequence of tokens.
func containsPhrase(tokens, phrase []string) bool {
	if len(phrase) > len(tokens) {
		return false
	}
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j, word := range phrase {
			if tokens[i+j] != word {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// descriptionOverlap returns the fraction of description keywords
// present in the query, in [0, 1].
func descriptionOverlap(queryTokens []string, description string) float64 {
	keywords := keywordSet(description)
	if len(keywords) == 0 {
		return 0
	}

	querySet := make(map[string]bool, len(queryTokens))
	for _, tok := range queryTokens {
		querySet[tok] = true
	}

	matched := 0
	for kw := range keywords {
		if querySet[kw] {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// stopwords excluded from description keyword extraction. Short
// function words would otherwise inflate overlap on any query.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "for": true, "from": true,
	"in": true, "is": true, "it": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "this": true, "to": true,
	"use": true, "when": true, "with": true, "your": true,
}

func keywordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokenize(text) {
		if !stopwords[tok] {
			set[tok] = true
		}
	}
	return set
}

// tokenize lowercases text and splits it on any non-alphanumeric rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
