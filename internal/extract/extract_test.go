package extract

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestTitleCascade(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"headline class wins over h1",
			`<html><body><h1 class="headline">RBI keeps repo rate unchanged</h1><h1>Other heading</h1></body></html>`,
			"RBI keeps repo rate unchanged",
		},
		{
			"short match skipped for longer fallback",
			`<html><body><h1>Too short</h1><div class="headline">Union budget session begins today</div></body></html>`,
			"Union budget session begins today",
		},
		{
			"page title fallback",
			`<html><head><title>Markets close higher on bank rally</title></head><body></body></html>`,
			"Markets close higher on bank rally",
		},
		{
			"nothing usable",
			`<html><body><p>no headings here</p></body></html>`,
			"",
		},
	}
	e := New(200, testLogger)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Title(parseDoc(t, tt.html)); got != tt.want {
				t.Errorf("Title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitleStripsSiteSuffix(t *testing.T) {
	e := New(200, testLogger)

	doc := parseDoc(t, `<html><body><h1>Sensex ends at record high | Livemint</h1></body></html>`)
	if got := e.Title(doc); got != "Sensex ends at record high" {
		t.Errorf("pipe suffix not stripped: %q", got)
	}

	doc = parseDoc(t, `<html><body><h1>Rupee gains against dollar - The Economic Times</h1></body></html>`)
	if got := e.Title(doc); got != "Rupee gains against dollar" {
		t.Errorf("dash suffix not stripped: %q", got)
	}

	// Hyphens inside words are not suffix separators.
	doc = parseDoc(t, `<html><body><h1>Sensex closes at a record-high level</h1></body></html>`)
	if got := e.Title(doc); got != "Sensex closes at a record-high level" {
		t.Errorf("hyphenated word mangled: %q", got)
	}
}

func TestBodyStripsNonContent(t *testing.T) {
	long := strings.Repeat("The economy expanded faster than expected this quarter. ", 8)
	html := `<html><body><div class="article-content">
		<script>tracker()</script>
		<nav>Home | Markets</nav>
		<div class="advertisement">Buy now!</div>
		<p>` + long + `</p>
	</div></body></html>`

	e := New(200, testLogger)
	body := e.Body(parseDoc(t, html))
	if body == "" {
		t.Fatal("expected body text")
	}
	if strings.Contains(body, "tracker()") || strings.Contains(body, "Buy now!") || strings.Contains(body, "Home | Markets") {
		t.Errorf("non-content subtree leaked into body: %q", body)
	}
}

func TestBodyParagraphFallback(t *testing.T) {
	long := strings.Repeat("Inflation cooled to a five-year low according to the latest data. ", 6)
	html := `<html><body>
		<p>short</p>
		<p>` + long + `</p>
	</body></html>`

	e := New(200, testLogger)
	body := e.Body(parseDoc(t, html))
	if !strings.Contains(body, "Inflation cooled") {
		t.Errorf("paragraph fallback failed: %q", body)
	}
	if strings.Contains(body, "short") {
		t.Error("sub-50-char paragraph should be excluded")
	}
}

func TestBodyMinimumLengthBoundary(t *testing.T) {
	const min = 200

	page := func(n int) string {
		return `<html><body><div class="content"><p>` + strings.Repeat("a", n) + `</p></div></body></html>`
	}

	e := New(min, testLogger)

	if body := e.Body(parseDoc(t, page(min-1))); body != "" {
		t.Errorf("content of length min-1 should be rejected, got %d chars", len(body))
	}
	if body := e.Body(parseDoc(t, page(min))); len(body) != min {
		t.Errorf("content of exactly min length should be accepted, got %d chars", len(body))
	}
}

func TestBodyStripsFooterPhrases(t *testing.T) {
	long := strings.Repeat("Banks reported stronger earnings across the board this quarter. ", 6)
	html := `<html><body><div class="story-content"><p>` + long +
		`Follow us on Twitter for more updates.</p></div></body></html>`

	e := New(200, testLogger)
	body := e.Body(parseDoc(t, html))
	if strings.Contains(strings.ToLower(body), "follow us on") {
		t.Errorf("footer phrase not stripped: %q", body)
	}
}

func TestTags(t *testing.T) {
	title := "Inflation surges as inflation expectations rise"
	content := "Inflation data showed prices rising. Economists said inflation pressure " +
		"stems from energy prices. Energy costs climbed again."

	tags := Tags(title, content)
	if len(tags) == 0 {
		t.Fatal("expected tags")
	}
	if tags[0] != "inflation" {
		t.Errorf("most frequent tag should be first, got %v", tags)
	}
	for _, tag := range tags {
		if len(tag) < 4 {
			t.Errorf("tag %q shorter than minimum", tag)
		}
	}
	if len(tags) > 5 {
		t.Errorf("tag cap exceeded: %v", tags)
	}
}

func TestTagsRequireRepetition(t *testing.T) {
	tags := Tags("Unique words only here", "Every single token appears just once today")
	if len(tags) != 0 {
		t.Errorf("single-occurrence words should not become tags: %v", tags)
	}
}
