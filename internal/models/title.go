package models

import "strconv"

// titleTemplates maps each persistable category to the prefix used when a
// blank title is synthesized.
var titleTemplates = map[Category]string{
	CategoryNote:      "Note # ",
	CategoryTodo:      "Todo # ",
	CategoryReadLater: "Read # ",
}

// SynthesizeTitle builds the placeholder title for the n-th entry of an
// owner, e.g. "Todo # 5". The sequence number is supplied by the caller
// (existing entry count + 1) and is not guaranteed monotonic under
// concurrent creation; titles are not required to be unique.
func SynthesizeTitle(category Category, n int64) string {
	tpl, ok := titleTemplates[category]
	if !ok {
		tpl = titleTemplates[CategoryNote]
	}
	return tpl + strconv.FormatInt(n, 10)
}
