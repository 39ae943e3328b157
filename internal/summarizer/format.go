package summarizer

import (
	"fmt"
	"strings"
	"unicode"
)

// formatBySource reshapes a generated summary according to its source.
// GitHub and paper sources get a grammatical subject grafted on when the
// model emitted a bare predicate; news-style sources get a title echo
// stripped. Every summary leaves capitalized and terminally punctuated.
func formatBySource(summary, title, source string) string {
	summary = strings.TrimSpace(summary)
	src := strings.ToLower(source)

	if summary == "" {
		return fmt.Sprintf("No summary available for this %s content.", src)
	}

	switch {
	case strings.Contains(src, "github"):
		if !mentionsAny(summary, "repository", "repo", "project") && startsLower(summary) {
			summary = "This repository " + summary
		}
	case strings.Contains(src, "paper") || strings.Contains(src, "research"):
		if !mentionsAny(summary, "paper", "study", "research") {
			if startsLower(summary) {
				summary = "This paper " + summary
			} else {
				summary = "This paper describes " + lowerFirst(summary)
			}
		}
	case isNewsSource(src):
		// Generative models sometimes echo the prompt's title verbatim.
		summary = stripTitleEcho(summary, title)
	}

	return ensureTerminal(upperFirst(summary))
}

func isNewsSource(src string) bool {
	return strings.Contains(src, "news") || strings.Contains(src, "hacker news") || strings.Contains(src, "dev.to")
}

func mentionsAny(s string, words ...string) bool {
	ls := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(ls, w) {
			return true
		}
	}
	return false
}

// stripTitleEcho drops the summary's leading words when at least four of
// them duplicate the title word-for-word, case-insensitively. If the whole
// summary was an echo, it is kept rather than emptied.
func stripTitleEcho(summary, title string) string {
	sw := strings.Fields(summary)
	tw := strings.Fields(title)

	overlap := 0
	for overlap < len(sw) && overlap < len(tw) && strings.EqualFold(sw[overlap], tw[overlap]) {
		overlap++
	}

	if overlap < 4 {
		return summary
	}
	stripped := strings.Join(sw[overlap:], " ")
	if stripped == "" {
		return summary
	}
	return stripped
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}

func upperFirst(s string) string {
	for i, r := range s {
		if unicode.IsLower(r) {
			return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
		}
		return s
	}
	return s
}

func lowerFirst(s string) string {
	for i, r := range s {
		if unicode.IsUpper(r) {
			return string(unicode.ToLower(r)) + s[i+len(string(r)):]
		}
		return s
	}
	return s
}
