package util

import (
	"regexp"
	"strings"
)

var hashtagRegex = regexp.MustCompile(`#([\w-]+)`)

// ExtractTags finds all #hashtags in a string and returns them as a slice of strings.
func ExtractTags(text string) []string {
	matches := hashtagRegex.FindAllStringSubmatch(text, -1)
	return NormalizeTags(func() []string {
		out := make([]string, 0, len(matches))
		for _, match := range matches {
			out = append(out, match[1])
		}
		return out
	}())
}

// NormalizeTags lowercases, trims and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool)
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "#")))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
