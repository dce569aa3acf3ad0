package extract

import (
	"sort"
	"strings"

	"newsagent/internal/textutil"
)

const (
	tagMinWordLength = 4
	tagMinFrequency  = 2
	tagLimit         = 5
	tagContentWindow = 500
)

// Tags extracts up to five keyword tags from the title and the leading part
// of the body: alphanumeric content words of 4+ characters appearing at
// least twice, most frequent first.
func Tags(title, content string) []string {
	if len(content) > tagContentWindow {
		content = content[:tagContentWindow]
	}
	tokens := textutil.Tokenize(title + " " + content)
	words := textutil.ContentWords(tokens, tagMinWordLength)

	freq := make(map[string]int, len(words))
	order := make([]string, 0, len(words))
	for _, w := range words {
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	// Stable sort keeps first-seen order among equal counts.
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	var tags []string
	for _, w := range order {
		if freq[w] < tagMinFrequency {
			continue
		}
		tags = append(tags, w)
		if len(tags) >= tagLimit {
			break
		}
	}
	return tags
}

// JoinTags renders tags the way they are stored: comma-joined.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
