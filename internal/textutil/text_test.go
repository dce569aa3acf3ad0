package textutil

import (
	"reflect"
	"testing"
)

func TestNormalizeWhitespace(t *testing.T) {
	got := NormalizeWhitespace("  hello\t\n  world \r\n ")
	if got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "Markets rallied today.", []string{"Markets rallied today."}},
		{
			"multiple",
			"Markets rallied. The rupee gained! Will it last?",
			[]string{"Markets rallied.", "The rupee gained!", "Will it last?"},
		},
		{
			"terminator run",
			"Really?! Yes. Done...",
			[]string{"Really?!", "Yes.", "Done..."},
		},
		{
			"no trailing terminator",
			"First sentence. trailing fragment",
			[]string{"First sentence.", "trailing fragment"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("RBI's repo-rate hits 6.5% in 2024!")
	want := []string{"rbi", "s", "repo", "rate", "hits", "6", "5", "in", "2024"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestContentWords(t *testing.T) {
	tokens := []string{"the", "inflation", "and", "gdp", "rate", "a", "economy"}
	got := ContentWords(tokens, 4)
	want := []string{"inflation", "rate", "economy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ContentWords = %v, want %v", got, want)
	}
}

func TestIsStopword(t *testing.T) {
	if !IsStopword("the") {
		t.Error("expected 'the' to be a stopword")
	}
	if IsStopword("inflation") {
		t.Error("did not expect 'inflation' to be a stopword")
	}
}
