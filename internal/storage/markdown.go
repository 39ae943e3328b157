// Package storage renders finished digests to their sinks: a markdown file
// on disk and an email over SMTP.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ryosukesatoh/tech-curator/internal/article"
	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

// MarkdownStorage writes digests as markdown files into an output directory.
type MarkdownStorage struct {
	dir string
	log *logger.Logger
}

func NewMarkdownStorage(dir string, log *logger.Logger) (*MarkdownStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create output dir %s: %w", dir, err)
	}
	return &MarkdownStorage{dir: dir, log: log.With("component", "markdown")}, nil
}

// SaveDigest renders the entries to markdown and writes the file. An empty
// filename defaults to tech_digest_YYYYMMDD.md. Saving an empty digest is a
// no-op returning an empty path.
func (m *MarkdownStorage) SaveDigest(entries []article.Entry, filename string) (string, error) {
	if len(entries) == 0 {
		m.log.Warn("no entries provided to save")
		return "", nil
	}

	if filename == "" {
		filename = fmt.Sprintf("tech_digest_%s.md", time.Now().Format("20060102"))
	}
	path := filepath.Join(m.dir, filename)

	if err := os.WriteFile(path, []byte(MarkdownDigest(entries)), 0o644); err != nil {
		return "", fmt.Errorf("storage: failed to write digest to %s: %w", path, err)
	}

	m.log.Info("digest saved", "path", path, "entries", len(entries))
	return path, nil
}

// MarkdownDigest renders entries into the digest document.
func MarkdownDigest(entries []article.Entry) string {
	var sb strings.Builder

	sb.WriteString("# Daily Tech News Digest\n\n")
	sb.WriteString(fmt.Sprintf("Generated on: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	// A table of contents only earns its space on longer digests.
	if len(entries) > 5 {
		sb.WriteString("## Table of Contents\n\n")
		for i, e := range entries {
			title := orDefault(e.Title, "Untitled Article")
			sb.WriteString(fmt.Sprintf("%d. [%s](#%d-%s)\n", i+1, title, i+1, anchor(title)))
		}
		sb.WriteString("\n---\n\n")
	}

	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, orDefault(e.Title, "Untitled Article")))
		sb.WriteString(fmt.Sprintf("**Source**: %s\n\n", orDefault(e.Source, "Unknown Source")))

		if e.Link != "" {
			sb.WriteString(fmt.Sprintf("**Link**: [%s](%s)\n\n", e.Link, e.Link))
		} else {
			sb.WriteString("**Link**: [No link available]()\n\n")
		}

		if e.Date != "" {
			sb.WriteString(fmt.Sprintf("**Date**: %s\n\n", e.Date))
		}

		sb.WriteString(orDefault(e.Summary, "No summary available."))
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// anchor turns a title into a markdown heading anchor: lowercase, spaces to
// hyphens, everything but alphanumerics and hyphens dropped.
func anchor(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r == ' ':
			sb.WriteRune('-')
		case r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
