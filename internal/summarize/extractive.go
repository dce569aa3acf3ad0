package summarize

import (
	"context"
	"sort"
	"strings"

	"newsagent/internal/textutil"
)

// Extractive is the local statistical summarizer: frequency-scored sentence
// selection with position bonuses. It needs no credentials or network.
type Extractive struct{}

// NewExtractive creates the local extractive summarizer.
func NewExtractive() *Extractive {
	return &Extractive{}
}

func (e *Extractive) Method() string { return "Local Extractive" }

// Summarize selects the highest-scoring sentences and emits them in their
// original order. Bodies with three or fewer sentences are returned
// unchanged.
func (e *Extractive) Summarize(_ context.Context, body string) (string, error) {
	sentences := textutil.SplitSentences(body)
	if len(sentences) <= 3 {
		return body, nil
	}

	// Word frequencies over content words, normalized by the max frequency.
	// Stopwords are excluded from the table so they contribute zero score.
	freq := make(map[string]float64)
	for _, w := range textutil.Tokenize(body) {
		if textutil.IsStopword(w) {
			continue
		}
		freq[w]++
	}
	var maxFreq float64 = 1
	for _, f := range freq {
		if f > maxFreq {
			maxFreq = f
		}
	}
	for w := range freq {
		freq[w] /= maxFreq
	}

	type scored struct {
		index int
		score float64
	}
	var candidates []scored

	for i, sentence := range sentences {
		words := textutil.Tokenize(sentence)
		if len(words) == 0 {
			continue
		}

		var score float64
		for _, w := range words {
			score += freq[w]
		}

		// Position bonuses: leads carry the story, closers carry conclusions.
		if i < 3 {
			score *= 1.5
		} else if i >= len(sentences)-2 {
			score *= 1.2
		}

		// Length penalties.
		if len(words) < 5 {
			score *= 0.5
		} else if len(words) > 30 {
			score *= 0.8
		}

		candidates = append(candidates, scored{index: i, score: score / float64(len(words))})
	}

	if len(candidates) == 0 {
		return "", nil
	}

	want := len(sentences) / 8
	if want < 2 {
		want = 2
	}
	if want > 3 {
		want = 3
	}
	if want > len(candidates) {
		want = len(candidates)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	top := candidates[:want]

	// Emit in original order, not score order.
	sort.Slice(top, func(a, b int) bool { return top[a].index < top[b].index })

	picked := make([]string, 0, len(top))
	for _, c := range top {
		picked = append(picked, sentences[c.index])
	}
	return strings.Join(picked, " "), nil
}

// simpleExtractive is the dependency-free last resort: the first few
// medium-length sentences, joined and truncated.
func simpleExtractive(body string) string {
	sentences := splitOnTerminators(body)
	var picked []string

	limit := 7
	if len(sentences) < limit {
		limit = len(sentences)
	}
	for _, s := range sentences[:limit] {
		s = strings.TrimSpace(s)
		if len(s) > 30 && len(s) < 200 {
			picked = append(picked, s)
			if len(picked) >= 3 {
				break
			}
		}
	}

	if len(picked) > 0 {
		return strings.Join(picked, ". ") + "."
	}
	if len(body) > 300 {
		return body[:300] + "..."
	}
	return body
}

// splitOnTerminators splits on runs of sentence terminators without
// requiring trailing whitespace.
func splitOnTerminators(text string) []string {
	var parts []string
	var b strings.Builder
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				parts = append(parts, s)
			}
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		parts = append(parts, s)
	}
	return parts
}
