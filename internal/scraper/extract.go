package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// Containers whose text comes in under this length are treated as false
	// positives (cookie banners, share widgets) and skipped.
	minContentLength = 150
	// Character budget for the short-form excerpt derived from the content.
	excerptLength = 300
)

// Structural elements that never carry article text.
const boilerplateSelector = "script, style, noscript, nav, header, footer, aside, form"

// Block-level elements whose text fragments make up the article body.
const blockSelector = "p, li, h1, h2, h3, h4, h5, h6, pre, blockquote, td"

// extractContent pulls the main text block out of a detail page. The
// candidate selectors are tried in order; the first container with enough
// text wins, and the whole page body is the last resort. Returns the full
// content and a truncated excerpt.
func extractContent(doc *goquery.Document, selectors ...string) (content, excerpt string) {
	doc.Find(boilerplateSelector).Remove()

	for _, sel := range selectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		text := blockText(container)
		if len(text) >= minContentLength {
			return text, makeExcerpt(text)
		}
	}

	// No container qualified; fall back to whatever text the page has left.
	text := collapseWhitespace(doc.Find("body").Text())
	return text, makeExcerpt(text)
}

// blockText concatenates the text of block-level descendants with paragraph
// separators, then collapses the result to single-spaced text. Containers
// without block children degrade to their raw text.
func blockText(container *goquery.Selection) string {
	var parts []string
	container.Find(blockSelector).Each(func(_ int, block *goquery.Selection) {
		// Skip blocks that contain other blocks so nested text is not
		// counted twice.
		if block.Find(blockSelector).Length() > 0 {
			return
		}
		if t := strings.TrimSpace(block.Text()); t != "" {
			parts = append(parts, t)
		}
	})

	if len(parts) == 0 {
		return collapseWhitespace(container.Text())
	}
	return collapseWhitespace(strings.Join(parts, "\n\n"))
}

// makeExcerpt truncates content to the excerpt budget, marking truncation
// with an ellipsis.
func makeExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength]) + "..."
}

// collapseWhitespace reduces all runs of whitespace, including newlines, to
// single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveLink makes href absolute against base when it is relative.
func resolveLink(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
}
