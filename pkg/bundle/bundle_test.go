package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceLazyLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	ref := NewReference("doc.md", path)

	content, err := ref.Content()
	require.NoError(t, err)
	assert.Equal(t, "original", content)

	// Content is cached after the first read
	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))
	content, err = ref.Content()
	require.NoError(t, err)
	assert.Equal(t, "original", content)
}

func TestReferenceMissingFile(t *testing.T) {
	ref := NewReference("ghost.md", "/non/existent/ghost.md")

	_, err := ref.Content()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ghost.md")
}

func TestSubtopicTags(t *testing.T) {
	b := &Bundle{
		ID: "styling",
		Subtopics: map[string]string{
			"contrast": "Color Contrast",
			"layout":   "Layout",
		},
	}

	tags := b.SubtopicTags()
	assert.ElementsMatch(t, []string{"contrast", "layout"}, tags)
}

func TestSubtopicTagsEmpty(t *testing.T) {
	b := &Bundle{ID: "plain"}
	assert.Empty(t, b.SubtopicTags())
}
