package models

import "strings"

// categoryRule binds a candidate category to its legacy short alias. The
// aliases ("now"/"then"/"later") come from the historical tag scheme and are
// retained as data, but matching deliberately compares tags against the
// category name itself ("note"/"todo"/"read_later"); a tag "now" therefore
// falls through to the Note default.
type categoryRule struct {
	category Category
	alias    string
}

// classifyOrder fixes the candidate order; the first category whose name
// matches a tag wins.
var classifyOrder = []categoryRule{
	{CategoryUncategorized, ""},
	{CategoryNote, "now"},
	{CategoryTodo, "then"},
	{CategoryReadLater, "later"},
}

// Classify infers a category from the tag set. Tags are compared
// case-insensitively against each candidate's name, in declared order.
// An empty tag list or a tag set with no recognized token yields
// CategoryNote. Classify never returns CategoryUncategorized: its empty
// name can match no trimmed tag.
func Classify(tags []string) Category {
	if len(tags) == 0 {
		return CategoryNote
	}

	for _, rule := range classifyOrder {
		if rule.category == CategoryUncategorized {
			continue
		}
		for _, tag := range tags {
			if strings.EqualFold(tag, string(rule.category)) {
				return rule.category
			}
		}
	}

	return CategoryNote
}
