// Package composer assembles the final guidance payload from an
// activation list: bundle content with suppressed subtopic sections
// stripped, followed by the content of referenced sub-documents. A
// sub-document appears at most once across the whole composition even
// when several bundles reference it; the first inclusion wins and
// later duplicates are dropped silently.
package composer

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/paul-ooi/skillet/pkg/registry"
	"github.com/paul-ooi/skillet/pkg/resolver"
)

// Entry is one bundle's contribution to a composition.
type Entry struct {
	ID                 string   `json:"id" yaml:"id"`
	Content            string   `json:"content" yaml:"content"`
	IncludedReferences []string `json:"includedReferences,omitempty" yaml:"includedReferences,omitempty"`
}

// Composition is the ordered, deduplicated guidance payload returned
// for a query.
type Composition struct {
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Empty reports whether the composition carries no guidance.
func (c *Composition) Empty() bool {
	return len(c.Entries) == 0
}

// Composer assembles compositions from the registry's immutable
// content. It holds no state between calls: composing the same
// activation list twice yields byte-identical output.
type Composer struct{}

// New creates a composer.
func New() *Composer {
	return &Composer{}
}

// Compose walks the activations in order, strips suppressed subtopic
// sections, and expands each bundle's references into their
// sub-document content.
func (c *Composer) Compose(snap *registry.Snapshot, activations []resolver.Activation) (*Composition, error) {
	comp := &Composition{Entries: make([]Entry, 0, len(activations))}
	includedPaths := make(map[string]bool)

	for _, act := range activations {
		b, err := snap.Get(act.BundleID)
		if err != nil {
			return nil, err
		}

		content := b.Content
		for _, tag := range act.Suppressed {
			heading, ok := b.Subtopics[tag]
			if !ok {
				continue
			}
			content = stripSection(content, heading)
		}

		entry := Entry{ID: b.ID, Content: content}

		for _, ref := range b.References {
			if includedPaths[ref.Path] {
				continue
			}
			includedPaths[ref.Path] = true

			refContent, err := ref.Content()
			if err != nil {
				return nil, errors.Wrapf(err, "failed to expand reference '%s' of bundle '%s'", ref.ID, b.ID)
			}
			entry.Content += "\n\n" + strings.TrimRight(refContent, "\n")
			entry.IncludedReferences = append(entry.IncludedReferences, ref.ID)
		}

		comp.Entries = append(comp.Entries, entry)
	}

	return comp, nil
}

// stripSection removes the "##" section with the given heading,
// through to the next "##" heading or end of content.
func stripSection(content, heading string) string {
	lines := strings.Split(content, "\n")
	var kept []string
	skipping := false

	for _, line := range lines {
		if strings.HasPrefix(line, "## ") {
			if strings.TrimSpace(line[3:]) == heading {
				skipping = true
				continue
			}
			skipping = false
		}
		if !skipping {
			kept = append(kept, line)
		}
	}

	return strings.TrimRight(strings.Join(kept, "\n"), "\n")
}
