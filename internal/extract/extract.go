// Package extract pulls a clean title and body text out of noisy article
// pages using cascades of selector strategies with paragraph fallback.
package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsagent/internal/textutil"
)

// titleSelectors is ordered most-specific to generic; the first match with a
// meaningful length wins.
var titleSelectors = []string{
	"h1.headline", "h1.title", "h1.story-headline", "h1.article-title",
	"h1.news-title", "h1.post-title", `h1[itemprop="headline"]`,
	"h1", ".headline", ".story-headline", ".article-title",
	".news-title", ".post-title", `[itemprop="headline"]`,
}

// contentSelectors is the body-container cascade.
var contentSelectors = []string{
	`[itemprop="articleBody"]`,
	".story-content", ".article-content", ".content",
	".story-body", ".article-body", ".post-content",
	".news-content", ".article-text", ".story-text",
	".content-body", ".main-content", ".entry-content",
	"article .body", "main article",
}

// strippedSubtrees are removed from matched containers before taking text.
const strippedSubtrees = "script, style, nav, header, footer, aside, iframe, form, .advertisement, .ad, .social-share"

var (
	siteSuffixPipeRE = regexp.MustCompile(`\s*\|\s*.*$`)
	siteSuffixDashRE = regexp.MustCompile(`\s+-\s+.*$`)
	footerPhrasesRE  = regexp.MustCompile(`(?i)(follow us on|subscribe to|download app).*$`)
)

const minTitleLength = 10

// Extractor extracts article title and body text from parsed pages.
type Extractor struct {
	minContentLength int
	logger           *slog.Logger
}

// New creates an Extractor. Bodies shorter than minContentLength are
// rejected.
func New(minContentLength int, logger *slog.Logger) *Extractor {
	return &Extractor{
		minContentLength: minContentLength,
		logger:           logger.With("component", "extractor"),
	}
}

// Title returns the article headline, or "" when no selector yields a
// meaningful title and the page <title> is empty. Trailing " | Site" and
// " - Site" suffixes are stripped.
func (e *Extractor) Title(doc *goquery.Document) string {
	for _, selector := range titleSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		title := strings.TrimSpace(sel.Text())
		if len(title) > minTitleLength {
			return cleanTitle(title)
		}
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return cleanTitle(title)
	}
	return ""
}

// Body returns the cleaned, whitespace-normalized article text, or "" when
// the page yields less than the minimum content length. Rejection is silent;
// the caller decides whether to log or skip.
func (e *Extractor) Body(doc *goquery.Document) string {
	var b strings.Builder

	for _, selector := range contentSelectors {
		matches := doc.Find(selector)
		if matches.Length() == 0 {
			continue
		}
		matches.Each(func(_ int, sel *goquery.Selection) {
			clone := sel.Clone()
			clone.Find(strippedSubtrees).Remove()
			text := clone.Text()
			if len(text) > 100 {
				b.WriteString(text)
				b.WriteString(" ")
			}
		})
		if strings.TrimSpace(b.String()) != "" {
			break
		}
	}

	content := b.String()

	// Paragraph fallback for layouts none of the containers cover.
	if strings.TrimSpace(content) == "" {
		var paras []string
		doc.Find("p").Each(func(_ int, p *goquery.Selection) {
			text := p.Text()
			if len(strings.TrimSpace(text)) > 50 {
				paras = append(paras, text)
			}
		})
		content = strings.Join(paras, " ")
	}

	content = textutil.NormalizeWhitespace(content)
	content = strings.TrimSpace(footerPhrasesRE.ReplaceAllString(content, ""))

	if len(content) < e.minContentLength {
		return ""
	}
	return content
}

// cleanTitle strips site-name suffixes and collapses whitespace.
func cleanTitle(title string) string {
	title = siteSuffixPipeRE.ReplaceAllString(title, "")
	title = siteSuffixDashRE.ReplaceAllString(title, "")
	return textutil.NormalizeWhitespace(title)
}
