// Package discover enumerates candidate article URLs on listing pages by
// applying a source's ordered selector strategies and filtering the results
// through recency and news-validity heuristics.
package discover

import (
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"newsagent/internal/config"
)

// Discoverer extracts article links from listing pages.
type Discoverer struct {
	maxPerSelector int
	logger         *slog.Logger
}

// New creates a Discoverer. maxPerSelector bounds how many matches each
// selector strategy contributes on dense pages.
func New(maxPerSelector int, logger *slog.Logger) *Discoverer {
	if maxPerSelector < 1 {
		maxPerSelector = 8
	}
	return &Discoverer{
		maxPerSelector: maxPerSelector,
		logger:         logger.With("component", "discoverer"),
	}
}

// Discover applies the source's selector strategies to doc and returns the
// deduplicated set of candidate article URLs that pass both the recency and
// validity filters. Hrefs are resolved against baseURL.
func (d *Discoverer) Discover(doc *goquery.Document, baseURL string, selectors []config.Selector) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		d.logger.Warn("bad base url", "url", baseURL, "error", err)
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	var rawMatches int

	for _, sel := range selectors {
		hrefs := d.applySelector(doc, sel)
		rawMatches += len(hrefs)

		for _, href := range hrefs {
			full := resolveHref(base, href)
			if full == "" {
				continue
			}
			if !IsRecentArticleURL(full, time.Now()) || !IsValidNewsURL(full) {
				continue
			}
			if _, ok := seen[full]; ok {
				continue
			}
			seen[full] = struct{}{}
			links = append(links, full)
		}
	}

	// Selectors matched but the heuristics rejected everything: log this
	// distinctly so the filter lists can be tuned per layout.
	if rawMatches > 0 && len(links) == 0 {
		d.logger.Warn("all discovered links filtered out", "base", baseURL, "matched", rawMatches)
	}

	return links
}

// applySelector runs one selector strategy and returns up to maxPerSelector
// raw href values.
func (d *Discoverer) applySelector(doc *goquery.Document, sel config.Selector) []string {
	var hrefs []string

	switch sel.Type {
	case "xpath":
		if len(doc.Selection.Nodes) == 0 {
			return nil
		}
		root := doc.Selection.Nodes[0]
		nodes, err := htmlquery.QueryAll(root, sel.Query)
		if err != nil {
			d.logger.Debug("xpath selector error", "query", sel.Query, "error", err)
			return nil
		}
		for _, n := range nodes {
			if len(hrefs) >= d.maxPerSelector {
				break
			}
			if href := nodeHref(n); href != "" {
				hrefs = append(hrefs, href)
			}
		}
	default: // css
		doc.Find(sel.Query).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if len(hrefs) >= d.maxPerSelector {
				return false
			}
			if href, ok := s.Attr("href"); ok && href != "" {
				hrefs = append(hrefs, href)
			}
			return true
		})
	}

	return hrefs
}

// nodeHref returns the href attribute of n, or of its nearest anchor child
// when the xpath matched a container element.
func nodeHref(n *html.Node) string {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				return attr.Val
			}
		}
	}
	if a := htmlquery.FindOne(n, "//a[@href]"); a != nil && a != n {
		return htmlquery.SelectAttr(a, "href")
	}
	return ""
}

// resolveHref resolves href against base, keeping only http(s) links and
// dropping fragments.
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

var (
	datePathRE = regexp.MustCompile(`\d{4}/\d{1,2}/\d{1,2}`)
	dateDashRE = regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`)
)

var recencyWords = []string{
	"latest", "today", "breaking", "live", "update",
	"new", "fresh", "current",
}

// IsRecentArticleURL reports whether the URL looks like it points at recent
// content: a current/previous-year token, a freshness word, or a date-shaped
// path segment.
func IsRecentArticleURL(rawURL string, now time.Time) bool {
	lower := strings.ToLower(rawURL)
	year := now.Year()

	if strings.Contains(lower, strconv.Itoa(year)) || strings.Contains(lower, strconv.Itoa(year-1)) {
		return true
	}
	for _, w := range recencyWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return datePathRE.MatchString(rawURL) || dateDashRE.MatchString(rawURL)
}

var validTokens = []string{
	"news", "article", "story", "market", "economy",
	"business", "finance", "companies", "industry",
	"politics", "india", "world", "breaking",
}

var invalidTokens = []string{
	"video", "photo", "gallery", "podcast", "advertisement",
	"subscribe", "login", "register", "privacy", "terms",
	"contact", "about", "careers", "advertise", "rss",
	"sitemap", "archive", "tags", "category",
}

// IsValidNewsURL applies the news-likeness heuristic: at least one news-like
// token, no blocklisted token, length over 30, and more than 3 path-ish
// slashes (excludes bare section pages and homepages).
func IsValidNewsURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)

	hasValid := false
	for _, t := range validTokens {
		if strings.Contains(lower, t) {
			hasValid = true
			break
		}
	}
	if !hasValid {
		return false
	}
	for _, t := range invalidTokens {
		if strings.Contains(lower, t) {
			return false
		}
	}
	return len(rawURL) > 30 && strings.Count(rawURL, "/") > 3
}
