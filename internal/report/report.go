package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"newsagent/internal/storage"
)

// Text renders a plain-text summary of the window: totals, per-source and
// per-category breakdowns, trending topics, and the newest headlines.
func (e *Exporter) Text(ctx context.Context, window time.Duration, method string) (string, error) {
	articles, err := e.store.Recent(ctx, storage.RecentQuery{Window: window})
	if err != nil {
		return "", fmt.Errorf("load articles for report: %w", err)
	}
	sources, err := e.store.SourceDistribution(ctx, window)
	if err != nil {
		return "", err
	}
	categories, err := e.store.CategoryDistribution(ctx, window)
	if err != nil {
		return "", err
	}
	trending, err := e.store.TrendingTopics(ctx, window, 10)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	line := strings.Repeat("=", 60)

	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "NEWS HARVEST REPORT")
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Generated:     %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Period:        last %.0f hours\n", window.Hours())
	fmt.Fprintf(&b, "Articles:      %d\n", len(articles))
	fmt.Fprintf(&b, "Summarization: %s\n", method)

	fmt.Fprintf(&b, "\nARTICLES BY SOURCE\n")
	for _, kv := range sortedCounts(sources) {
		fmt.Fprintf(&b, "  %-20s %d\n", kv.key, kv.n)
	}

	fmt.Fprintf(&b, "\nARTICLES BY CATEGORY\n")
	for _, kv := range sortedCounts(categories) {
		fmt.Fprintf(&b, "  %-20s %d\n", kv.key, kv.n)
	}

	if len(trending) > 0 {
		fmt.Fprintf(&b, "\nTRENDING TOPICS\n")
		for _, t := range trending {
			fmt.Fprintf(&b, "  %-20s %d mentions (%.1f%%)\n", t.Topic, t.Frequency, t.Percentage)
		}
	}

	fmt.Fprintf(&b, "\nLATEST HEADLINES\n")
	limit := 10
	if len(articles) < limit {
		limit = len(articles)
	}
	for _, a := range articles[:limit] {
		fmt.Fprintf(&b, "  [%s] %s\n", a.Source, a.Title)
		if a.Summary != "" {
			fmt.Fprintf(&b, "      %s\n", a.Summary)
		}
	}

	fmt.Fprintln(&b, line)
	return b.String(), nil
}

type countEntry struct {
	key string
	n   int
}

func sortedCounts(m map[string]int) []countEntry {
	entries := make([]countEntry, 0, len(m))
	for k, n := range m {
		entries = append(entries, countEntry{k, n})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].n != entries[b].n {
			return entries[a].n > entries[b].n
		}
		return entries[a].key < entries[b].key
	})
	return entries
}
