// Package bundle defines the guidance bundle model shared across the
// engine. A bundle is a named, immutable unit of guidance backed by a
// SKILL.md file with YAML frontmatter describing its triggers, its
// deference relationships, and the sub-documents it references.
package bundle

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Bundle represents a loaded guidance bundle. Bundles are constructed
// once at registry load time and never mutated afterwards.
type Bundle struct {
	ID          string            // Unique name from frontmatter
	Description string            // Fallback relevance signal when triggers miss
	Triggers    []string          // Keywords or short phrases signalling relevance
	References  []*Reference      // Ordered sub-documents owned by this bundle
	DefersTo    []string          // Bundle ids this bundle delegates subtopics to
	Subtopics   map[string]string // Subtopic tag -> "##" section heading in Content
	Directory   string            // Full path to the bundle directory
	Content     string            // Body of SKILL.md, frontmatter stripped
}

// SubtopicTags returns the bundle's subtopic tags. Order is unspecified.
func (b *Bundle) SubtopicTags() []string {
	tags := make([]string, 0, len(b.Subtopics))
	for tag := range b.Subtopics {
		tags = append(tags, tag)
	}
	return tags
}

// Metadata represents the YAML frontmatter in SKILL.md files
type Metadata struct {
	Name        string            `mapstructure:"name"`
	Description string            `mapstructure:"description"`
	Triggers    []string          `mapstructure:"triggers"`
	References  []string          `mapstructure:"references"`
	DefersTo    []string          `mapstructure:"defers-to"`
	Subtopics   map[string]string `mapstructure:"subtopics"`
}

// Reference is a lazily loadable sub-document owned by a bundle. The
// file's existence is verified at registry load time; its content is
// read on first access and cached for the life of the snapshot.
type Reference struct {
	ID   string // Identifier as written in frontmatter
	Path string // Cleaned filesystem path, also the dedup key across bundles
	load func() (string, error)
}

// NewReference creates a reference whose content is read from path on
// first call to Content.
func NewReference(id, path string) *Reference {
	return &Reference{
		ID:   id,
		Path: path,
		load: sync.OnceValues(func() (string, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return "", errors.Wrapf(err, "failed to read sub-document '%s'", path)
			}
			return string(data), nil
		}),
	}
}

// Content returns the sub-document text, loading it on first use.
func (r *Reference) Content() (string, error) {
	return r.load()
}
