// Package resolver turns a relevance ranking into an ordered
// activation list, applying deference between activated bundles. When
// bundle A defers to bundle B and both are activated and share a
// subtopic tag, A keeps its place in the ranking but its coverage of
// the shared subtopic is suppressed in favor of B's. A bundle is never
// dropped merely for deferring; callers may still want its remaining
// content.
package resolver

import (
	"sort"

	"github.com/paul-ooi/skillet/pkg/matcher"
	"github.com/paul-ooi/skillet/pkg/registry"
)

// DefaultThreshold excludes near-zero description-overlap noise from
// activation.
const DefaultThreshold = 0.2

// Activation is the resolver's decision for one bundle: its id, the
// matcher's score, and the subtopic tags whose coverage was suppressed
// because a deferred-to bundle is also activated.
type Activation struct {
	BundleID   string
	Score      float64
	Suppressed []string // sorted subtopic tags
}

// Resolver applies the relevance threshold and deference rules.
type Resolver struct {
	threshold float64
}

// New creates a resolver with the default relevance threshold.
func New() *Resolver {
	return &Resolver{threshold: DefaultThreshold}
}

// NewWithThreshold creates a resolver with a custom minimum relevance
// threshold.
func NewWithThreshold(threshold float64) *Resolver {
	return &Resolver{threshold: threshold}
}

// Threshold returns the minimum score a bundle needs to activate.
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Resolve filters the ranking by the threshold and marks deference
// suppressions. The input order (highest score first) is preserved.
// The snapshot is assumed structurally valid: load-time validation
// rejected dangling defers-to targets and deference cycles.
func (r *Resolver) Resolve(snap *registry.Snapshot, ranked []matcher.Scored) []Activation {
	activations := make([]Activation, 0, len(ranked))
	activated := make(map[string]bool, len(ranked))

	for _, s := range ranked {
		if s.Score < r.threshold {
			continue
		}
		activations = append(activations, Activation{
			BundleID: s.Bundle.ID,
			Score:    s.Score,
		})
		activated[s.Bundle.ID] = true
	}

	for i := range activations {
		b, err := snap.Get(activations[i].BundleID)
		if err != nil {
			continue
		}

		suppressed := make(map[string]bool)
		for _, target := range b.DefersTo {
			if !activated[target] {
				continue
			}
			other, err := snap.Get(target)
			if err != nil {
				continue
			}
			for tag := range b.Subtopics {
				if _, ok := other.Subtopics[tag]; ok {
					suppressed[tag] = true
				}
			}
		}

		if len(suppressed) > 0 {
			tags := make([]string, 0, len(suppressed))
			for tag := range suppressed {
				tags = append(tags, tag)
			}
			sort.Strings(tags)
			activations[i].Suppressed = tags
		}
	}

	return activations
}
