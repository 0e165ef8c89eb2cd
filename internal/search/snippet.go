// Package search provides the search orchestrator, the per-entity search
// providers, and the snippet/highlight text utilities.
package search

import (
	"regexp"
	"strings"
)

const (
	snippetMaxLen = 150
	snippetBefore = 50
	snippetAfter  = 100
)

// Snippet extracts a bounded display excerpt of content around the first
// case-insensitive occurrence of query. When the query does not occur (or is
// empty) the first ~150 runes are returned, with a trailing ellipsis when
// truncated. A matched window spans 50 runes before and 100 after the match,
// with "..." on every side that does not reach a string boundary.
func Snippet(content, query string) string {
	if content == "" {
		return ""
	}
	runes := []rune(content)
	q := strings.TrimSpace(query)
	idx := -1
	if q != "" {
		byteIdx := strings.Index(strings.ToLower(content), strings.ToLower(q))
		if byteIdx >= 0 {
			idx = len([]rune(content[:byteIdx]))
		}
	}
	if idx < 0 {
		if len(runes) <= snippetMaxLen {
			return content
		}
		return string(runes[:snippetMaxLen]) + "..."
	}

	start := idx - snippetBefore
	if start < 0 {
		start = 0
	}
	end := idx + snippetAfter
	if end > len(runes) {
		end = len(runes)
	}
	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet = snippet + "..."
	}
	return snippet
}

func wordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\w*`)
}

// Highlights returns the duplicate-free set of term forms in text matched by
// the query words. Each whitespace-separated query word matches word-boundary
// anchored occurrences allowing trailing characters, so "task" also surfaces
// "tasks". Order of the returned forms is unspecified. Empty text or query
// yields nil.
func Highlights(text, query string) []string {
	if text == "" || strings.TrimSpace(query) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var forms []string
	for _, word := range strings.Fields(query) {
		for _, match := range wordPattern(word).FindAllString(text, -1) {
			key := strings.ToLower(match)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			forms = append(forms, match)
		}
	}
	return forms
}
