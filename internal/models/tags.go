package models

import "strings"

// SplitTags splits a raw comma-separated tag string into trimmed tokens.
// Empty tokens produced by consecutive, leading or trailing commas are
// dropped, which keeps sanitization idempotent.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags renders a tag list back into the canonical stored form: tokens
// joined with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// SanitizeTags normalizes a raw tag string to the canonical form.
// Applying it twice yields the same result as applying it once.
func SanitizeTags(raw string) string {
	return JoinTags(SplitTags(raw))
}
