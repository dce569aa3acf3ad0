// Package textutil provides the tokenization primitives shared by the
// extractive summarizer, keyword tagging, and trending-topic analysis.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses all runs of whitespace to single spaces and
// trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// SplitSentences splits text into sentences on ., ! and ? boundaries followed
// by whitespace. Abbreviation handling is deliberately naive; the summarizer
// tolerates occasional over-splitting.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		// consume a run of terminators (e.g. "?!" or "...")
		end := i
		for end+1 < len(runes) && (runes[end+1] == '.' || runes[end+1] == '!' || runes[end+1] == '?') {
			end++
		}
		if end+1 >= len(runes) || unicode.IsSpace(runes[end+1]) {
			s := strings.TrimSpace(string(runes[start : end+1]))
			if s != "" {
				sentences = append(sentences, s)
			}
			start = end + 1
		}
		i = end
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// Tokenize lowercases text and returns its alphanumeric word tokens.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// ContentWords returns tokens that are neither stopwords nor shorter than
// minLen runes.
func ContentWords(tokens []string, minLen int) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len([]rune(t)) <= minLen-1 || IsStopword(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// IsStopword reports whether w (lowercase) is an English stopword.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// stopwords mirrors the common English stopword list used by NLTK-style
// tooling, trimmed to words that actually show up in news prose.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "aren", "as", "at", "be", "because", "been",
		"before", "being", "below", "between", "both", "but", "by", "can",
		"cannot", "could", "couldn", "did", "didn", "do", "does", "doesn",
		"doing", "don", "down", "during", "each", "few", "for", "from",
		"further", "had", "hadn", "has", "hasn", "have", "haven", "having",
		"he", "her", "here", "hers", "herself", "him", "himself", "his",
		"how", "i", "if", "in", "into", "is", "isn", "it", "its", "itself",
		"just", "me", "more", "most", "my", "myself", "no", "nor", "not",
		"now", "of", "off", "on", "once", "only", "or", "other", "our",
		"ours", "ourselves", "out", "over", "own", "per", "said", "same",
		"she", "should", "shouldn", "so", "some", "such", "than", "that",
		"the", "their", "theirs", "them", "themselves", "then", "there",
		"these", "they", "this", "those", "through", "to", "too", "under",
		"until", "up", "very", "was", "wasn", "we", "were", "weren", "what",
		"when", "where", "which", "while", "who", "whom", "why", "will",
		"with", "won", "would", "wouldn", "you", "your", "yours", "yourself",
		"yourselves",
	} {
		stopwords[w] = struct{}{}
	}
}
