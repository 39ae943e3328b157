package article

import "strings"

// FilterDuplicates drops articles whose normalized title or normalized
// non-empty link has already been seen. First occurrence wins and input
// order is preserved. The seen sets span the whole batch, so duplicates are
// removed across sources, not just within one.
func FilterDuplicates(articles []Article) []Article {
	seenTitles := make(map[string]struct{}, len(articles))
	seenLinks := make(map[string]struct{}, len(articles))

	unique := make([]Article, 0, len(articles))
	for _, a := range articles {
		title := normalizeFingerprint(a.Title)
		link := normalizeFingerprint(a.Link)

		if _, dup := seenTitles[title]; dup {
			continue
		}
		if link != "" {
			if _, dup := seenLinks[link]; dup {
				continue
			}
		}

		seenTitles[title] = struct{}{}
		if link != "" {
			seenLinks[link] = struct{}{}
		}
		unique = append(unique, a)
	}

	return unique
}

func normalizeFingerprint(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
