package composer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paul-ooi/skillet/pkg/registry"
	"github.com/paul-ooi/skillet/pkg/resolver"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func loadSnapshot(t *testing.T, dir string) *registry.Snapshot {
	t.Helper()
	loader, err := registry.NewLoader(registry.WithSourceDirs(dir))
	require.NoError(t, err)
	snap, err := loader.Load()
	require.NoError(t, err)
	return snap
}

func TestComposeStripsSuppressedSections(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "css-styling", "SKILL.md"), `---
name: css-styling
description: Patterns for maintainable CSS
defers-to:
  - a11y
subtopics:
  contrast: Color Contrast
---

# CSS Styling

## Layout

Use grid for two-dimensional layouts.

## Color Contrast

Prefer high-contrast tokens.

## Naming

Use kebab-case class names.
`)
	writeFile(t, filepath.Join(tmpDir, "a11y", "SKILL.md"), `---
name: a11y
description: Accessibility rules
subtopics:
  contrast: Color Contrast
---

# Accessibility

## Color Contrast

Meet WCAG AA ratios.
`)

	snap := loadSnapshot(t, tmpDir)
	c := New()

	comp, err := c.Compose(snap, []resolver.Activation{
		{BundleID: "a11y", Score: 0.85},
		{BundleID: "css-styling", Score: 0.8, Suppressed: []string{"contrast"}},
	})
	require.NoError(t, err)
	require.Len(t, comp.Entries, 2)

	// The deferred-to bundle keeps its coverage of the subtopic
	a11y := comp.Entries[0]
	assert.Equal(t, "a11y", a11y.ID)
	assert.Contains(t, a11y.Content, "Meet WCAG AA ratios.")

	// The deferring bundle loses only the suppressed section
	styling := comp.Entries[1]
	assert.Equal(t, "css-styling", styling.ID)
	assert.NotContains(t, styling.Content, "Prefer high-contrast tokens.")
	assert.NotContains(t, styling.Content, "## Color Contrast")
	assert.Contains(t, styling.Content, "Use grid for two-dimensional layouts.")
	assert.Contains(t, styling.Content, "Use kebab-case class names.")
}

func TestComposeExpandsReferences(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "testing", "SKILL.md"), `---
name: testing
description: Testing recipes
references:
  - patterns.md
---

# Testing
`)
	writeFile(t, filepath.Join(tmpDir, "testing", "patterns.md"), `# Test Patterns

Arrange, act, assert.
`)

	snap := loadSnapshot(t, tmpDir)
	c := New()

	comp, err := c.Compose(snap, []resolver.Activation{
		{BundleID: "testing", Score: 0.8},
	})
	require.NoError(t, err)
	require.Len(t, comp.Entries, 1)

	entry := comp.Entries[0]
	assert.Contains(t, entry.Content, "# Testing")
	assert.Contains(t, entry.Content, "Arrange, act, assert.")
	assert.Equal(t, []string{"patterns.md"}, entry.IncludedReferences)
}

func TestComposeDeduplicatesSharedReferences(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "shared", "conventions.md"), `# Conventions

Shared conventions document.
`)
	writeFile(t, filepath.Join(tmpDir, "first", "SKILL.md"), `---
name: first
description: First bundle
references:
  - ../shared/conventions.md
---

# First
`)
	writeFile(t, filepath.Join(tmpDir, "second", "SKILL.md"), `---
name: second
description: Second bundle
references:
  - ../shared/conventions.md
---

# Second
`)

	snap := loadSnapshot(t, tmpDir)
	c := New()

	comp, err := c.Compose(snap, []resolver.Activation{
		{BundleID: "first", Score: 0.9},
		{BundleID: "second", Score: 0.8},
	})
	require.NoError(t, err)
	require.Len(t, comp.Entries, 2)

	// First inclusion wins; the duplicate is dropped silently
	assert.Contains(t, comp.Entries[0].Content, "Shared conventions document.")
	assert.Equal(t, []string{"../shared/conventions.md"}, comp.Entries[0].IncludedReferences)

	assert.NotContains(t, comp.Entries[1].Content, "Shared conventions document.")
	assert.Empty(t, comp.Entries[1].IncludedReferences)
}

func TestComposeIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "styling", "SKILL.md"), `---
name: styling
description: Styling guidance
references:
  - extra.md
subtopics:
  layout: Layout
---

# Styling

## Layout

Grid.

## Colors

Tokens.
`)
	writeFile(t, filepath.Join(tmpDir, "styling", "extra.md"), "Extra notes.\n")

	snap := loadSnapshot(t, tmpDir)
	c := New()

	activations := []resolver.Activation{
		{BundleID: "styling", Score: 0.8, Suppressed: []string{"layout"}},
	}

	first, err := c.Compose(snap, activations)
	require.NoError(t, err)
	second, err := c.Compose(snap, activations)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComposeEmptyActivations(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "styling", "SKILL.md"), `---
name: styling
description: Styling guidance
---

# Styling
`)

	snap := loadSnapshot(t, tmpDir)
	c := New()

	comp, err := c.Compose(snap, nil)
	require.NoError(t, err)
	assert.True(t, comp.Empty())
	assert.NotNil(t, comp.Entries)
}

func TestComposeUnknownBundle(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "styling", "SKILL.md"), `---
name: styling
description: Styling guidance
---

# Styling
`)

	snap := loadSnapshot(t, tmpDir)
	c := New()

	_, err := c.Compose(snap, []resolver.Activation{{BundleID: "ghost"}})
	assert.Error(t, err)
}

func TestStripSection(t *testing.T) {
	content := `# Title

Intro text.

## Keep Me

Kept.

## Drop Me

Dropped line one.
Dropped line two.

## Also Keep

Also kept.`

	result := stripSection(content, "Drop Me")
	assert.Contains(t, result, "Kept.")
	assert.Contains(t, result, "Also kept.")
	assert.NotContains(t, result, "Dropped line one.")
	assert.NotContains(t, result, "## Drop Me")

	t.Run("section at end of content", func(t *testing.T) {
		result := stripSection(content, "Also Keep")
		assert.Contains(t, result, "Dropped line one.")
		assert.NotContains(t, result, "Also kept.")
	})

	t.Run("missing heading leaves content alone", func(t *testing.T) {
		result := stripSection("## Only\n\nText.", "Other")
		assert.Contains(t, result, "Text.")
	})
}
