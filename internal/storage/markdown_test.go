package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryosukesatoh/tech-curator/internal/article"
	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

func sampleEntries(n int) []article.Entry {
	entries := make([]article.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, article.Entry{
			Title:   "Article " + string(rune('A'+i)),
			Summary: "A short summary.",
			Link:    "https://example.com/a",
			Source:  "hacker news",
			Date:    "2025-06-01",
		})
	}
	return entries
}

func TestSaveDigest(t *testing.T) {
	dir := t.TempDir()
	m, err := NewMarkdownStorage(dir, logger.Discard())
	require.NoError(t, err)

	path, err := m.SaveDigest(sampleEntries(2), "digest.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "digest.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# Daily Tech News Digest")
	assert.Contains(t, content, "## 1. Article A")
	assert.Contains(t, content, "**Source**: hacker news")
	assert.Contains(t, content, "[https://example.com/a](https://example.com/a)")
}

func TestSaveDigestDefaultFilename(t *testing.T) {
	dir := t.TempDir()
	m, err := NewMarkdownStorage(dir, logger.Discard())
	require.NoError(t, err)

	path, err := m.SaveDigest(sampleEntries(1), "")
	require.NoError(t, err)

	want := "tech_digest_" + time.Now().Format("20060102") + ".md"
	assert.Equal(t, want, filepath.Base(path))
}

func TestSaveDigestEmpty(t *testing.T) {
	dir := t.TempDir()
	m, err := NewMarkdownStorage(dir, logger.Discard())
	require.NoError(t, err)

	path, err := m.SaveDigest(nil, "digest.md")
	require.NoError(t, err)
	assert.Empty(t, path)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files, "empty digest must not create a file")
}

func TestMarkdownDigestTableOfContents(t *testing.T) {
	short := MarkdownDigest(sampleEntries(5))
	assert.NotContains(t, short, "## Table of Contents")

	long := MarkdownDigest(sampleEntries(6))
	assert.Contains(t, long, "## Table of Contents")
	assert.Contains(t, long, "1. [Article A](#1-article-a)")
}

func TestMarkdownDigestMissingFields(t *testing.T) {
	got := MarkdownDigest([]article.Entry{{}})
	assert.Contains(t, got, "## 1. Untitled Article")
	assert.Contains(t, got, "**Source**: Unknown Source")
	assert.Contains(t, got, "[No link available]()")
	assert.Contains(t, got, "No summary available.")
	assert.NotContains(t, got, "**Date**")
}

func TestAnchor(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello World", "hello-world"},
		{"Go 1.25 Released!", "go-125-released"},
		{"C++ vs. Rust: a debate", "c-vs-rust-a-debate"},
	}
	for _, c := range cases {
		if got := anchor(c.in); got != c.want {
			t.Errorf("anchor(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
