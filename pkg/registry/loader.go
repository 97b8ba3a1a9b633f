package registry

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/paul-ooi/skillet/pkg/bundle"
)

const bundleFileName = "SKILL.md"

// Loader discovers bundle definitions from configured source
// directories. Each bundle is a directory containing a SKILL.md file
// with YAML frontmatter.
type Loader struct {
	sourceDirs []string
}

// Option is a function that configures a Loader
type Option func(*Loader) error

// WithSourceDirs sets custom bundle source directories. Earlier
// directories take precedence when two trees contain a bundle
// directory of the same name.
func WithSourceDirs(dirs ...string) Option {
	return func(l *Loader) error {
		if len(dirs) == 0 {
			return errors.New("at least one source directory must be specified")
		}
		l.sourceDirs = dirs
		return nil
	}
}

// WithDefaultDirs initializes with the default source directories
func WithDefaultDirs() Option {
	return func(l *Loader) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		l.sourceDirs = []string{
			"./.skillet/skills",                          // Repo-local (highest precedence)
			filepath.Join(homeDir, ".skillet", "skills"), // User-global
		}
		return nil
	}
}

// NewLoader creates a bundle loader with optional configuration
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{}

	if len(opts) == 0 {
		if err := WithDefaultDirs()(l); err != nil {
			return nil, err
		}
		return l, nil
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	if len(l.sourceDirs) == 0 {
		if err := WithDefaultDirs()(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// SourceDirs returns the configured source directories in precedence order.
func (l *Loader) SourceDirs() []string {
	return append([]string(nil), l.sourceDirs...)
}

// Load reads every bundle definition from the source directories and
// returns a validated, immutable snapshot. Any structural problem
// (duplicate id, dangling defers-to or reference, subtopic without a
// matching section, deference cycle) fails the whole load with a
// RegistryError.
func (l *Loader) Load() (*Snapshot, error) {
	bundles := make(map[string]*bundle.Bundle)
	seenDirs := make(map[string]bool)

	for _, dir := range l.sourceDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			// Source directory might not exist, continue
			continue
		}

		for _, entry := range entries {
			entryPath := filepath.Join(dir, entry.Name())

			info, err := os.Stat(entryPath)
			if err != nil || !info.IsDir() {
				continue
			}

			// Earlier source dirs shadow later ones by directory name
			if seenDirs[entry.Name()] {
				continue
			}

			b, err := loadBundle(entryPath)
			if err != nil {
				if regErr, ok := asRegistryError(err); ok {
					return nil, regErr
				}
				// Directories without a parseable SKILL.md are skipped
				continue
			}
			seenDirs[entry.Name()] = true

			if _, exists := bundles[b.ID]; exists {
				return nil, registryErrorf("duplicate bundle id '%s' (from %s)", b.ID, entryPath)
			}
			bundles[b.ID] = b
		}
	}

	if err := validate(bundles); err != nil {
		return nil, err
	}

	return newSnapshot(bundles), nil
}

func asRegistryError(err error) (*RegistryError, bool) {
	var regErr *RegistryError
	if errors.As(err, &regErr) {
		return regErr, true
	}
	return nil, false
}

// loadBundle parses a single bundle from its SKILL.md file
func loadBundle(dir string) (*bundle.Bundle, error) {
	path := filepath.Join(dir, bundleFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read bundle file")
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	var fm bundle.Metadata
	if err := mapstructure.Decode(metaData, &fm); err != nil {
		return nil, errors.Wrapf(err, "invalid frontmatter in '%s'", path)
	}

	if fm.Name == "" {
		return nil, errors.New("bundle name is required in frontmatter")
	}
	if fm.Description == "" {
		return nil, errors.New("bundle description is required in frontmatter")
	}

	body := extractBodyContent(string(content))

	refs := make([]*bundle.Reference, 0, len(fm.References))
	for _, refID := range fm.References {
		refPath := filepath.Clean(filepath.Join(dir, refID))
		if info, err := os.Stat(refPath); err != nil || info.IsDir() {
			return nil, registryErrorf("bundle '%s' references nonexistent sub-document '%s'", fm.Name, refID)
		}
		refs = append(refs, bundle.NewReference(refID, refPath))
	}

	for tag, heading := range fm.Subtopics {
		if !hasSection(body, heading) {
			return nil, registryErrorf("bundle '%s' subtopic '%s' names missing section '%s'", fm.Name, tag, heading)
		}
	}

	return &bundle.Bundle{
		ID:          fm.Name,
		Description: fm.Description,
		Triggers:    fm.Triggers,
		References:  refs,
		DefersTo:    fm.DefersTo,
		Subtopics:   fm.Subtopics,
		Directory:   dir,
		Content:     body,
	}, nil
}

// extractBodyContent removes YAML frontmatter and returns the body
func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}

// hasSection reports whether body contains a "##" section with the
// given heading.
func hasSection(body, heading string) bool {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "## ") && strings.TrimSpace(line[3:]) == heading {
			return true
		}
	}
	return false
}

// validate checks cross-bundle invariants: defers-to targets must
// exist and deference must not form a cycle on a shared subtopic.
func validate(bundles map[string]*bundle.Bundle) error {
	for _, b := range bundles {
		for _, target := range b.DefersTo {
			if _, exists := bundles[target]; !exists {
				return registryErrorf("bundle '%s' defers to unknown bundle '%s'", b.ID, target)
			}
		}
	}
	return detectDeferenceCycles(bundles)
}

// detectDeferenceCycles walks the deference graph restricted to edges
// whose endpoints share at least one subtopic tag. Loads assume no
// cycles downstream, so any cycle fails the load.
func detectDeferenceCycles(bundles map[string]*bundle.Bundle) error {
	ids := make([]string, 0, len(bundles))
	for id := range bundles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(bundles))

	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		switch state[id] {
		case visiting:
			return registryErrorf("deference cycle: %s", strings.Join(append(path, id), " -> "))
		case done:
			return nil
		}
		state[id] = visiting

		b := bundles[id]
		targets := append([]string(nil), b.DefersTo...)
		sort.Strings(targets)
		for _, target := range targets {
			if !subtopicsOverlap(b, bundles[target]) {
				continue
			}
			if err := visit(target, append(path, id)); err != nil {
				return err
			}
		}

		state[id] = done
		return nil
	}

	for _, id := range ids {
		if err := visit(id, nil); err != nil {
			return err
		}
	}
	return nil
}

func subtopicsOverlap(a, b *bundle.Bundle) bool {
	for tag := range a.Subtopics {
		if _, ok := b.Subtopics[tag]; ok {
			return true
		}
	}
	return false
}
