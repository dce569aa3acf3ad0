package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"newsagent/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), testLogger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testArticle(url, title string) *types.Article {
	body := "Body text for " + title
	return &types.Article{
		URL:         url,
		Title:       title,
		Content:     body,
		Summary:     "Summary of " + title,
		Source:      "livemint",
		Category:    "markets",
		ScrapedAt:   time.Now(),
		ContentHash: types.Fingerprint(title, body),
		WordCount:   120,
		ReadingTime: 1,
	}
}

func TestInsertAndDuplicateSkip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArticle("https://example.com/news/1", "First story")
	outcome, err := s.InsertIfNew(ctx, a)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if outcome != Inserted {
		t.Fatal("expected Inserted")
	}
	if a.ID == 0 {
		t.Error("expected assigned row id")
	}

	// Same URL again: constraint maps to a silent skip, not an error.
	dup := testArticle("https://example.com/news/1", "First story edited")
	outcome, err = s.InsertIfNew(ctx, dup)
	if err != nil {
		t.Fatalf("duplicate insert should not error: %v", err)
	}
	if outcome != DuplicateSkipped {
		t.Error("expected DuplicateSkipped")
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestIsDuplicateMatchesURLOrFingerprint(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArticle("https://example.com/news/1", "First story")
	if _, err := s.InsertIfNew(ctx, a); err != nil {
		t.Fatal(err)
	}

	// Same URL, different hash.
	dup, err := s.IsDuplicate(ctx, a.URL, "deadbeef")
	if err != nil || !dup {
		t.Errorf("same URL should be duplicate (err %v)", err)
	}

	// Different URL, same hash.
	dup, err = s.IsDuplicate(ctx, "https://example.com/news/other", a.ContentHash)
	if err != nil || !dup {
		t.Errorf("same fingerprint should be duplicate (err %v)", err)
	}

	// Both different.
	dup, err = s.IsDuplicate(ctx, "https://example.com/news/other", "deadbeef")
	if err != nil || dup {
		t.Errorf("unrelated article flagged as duplicate (err %v)", err)
	}
}

func TestRecentFiltersAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := testArticle("https://example.com/news/old", "Old story")
	old.ScrapedAt = time.Now().Add(-48 * time.Hour)
	recent1 := testArticle("https://example.com/news/r1", "Recent one")
	recent1.ScrapedAt = time.Now().Add(-2 * time.Hour)
	recent2 := testArticle("https://example.com/news/r2", "Recent two")
	recent2.Source = "moneycontrol"
	recent2.Category = "economy"
	recent2.ScrapedAt = time.Now().Add(-1 * time.Hour)

	for _, a := range []*types.Article{old, recent1, recent2} {
		if _, err := s.InsertIfNew(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Recent(ctx, RecentQuery{Window: 24 * time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("window filter: got %d articles, want 2", len(got))
	}
	if got[0].URL != recent2.URL {
		t.Errorf("expected newest first, got %s", got[0].URL)
	}

	got, err = s.Recent(ctx, RecentQuery{Window: 24 * time.Hour, Source: "moneycontrol"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Source != "moneycontrol" {
		t.Errorf("source filter failed: %v", got)
	}

	got, err = s.Recent(ctx, RecentQuery{Window: 24 * time.Hour, Category: "markets"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Category != "markets" {
		t.Errorf("category filter failed: %v", got)
	}

	got, err = s.Recent(ctx, RecentQuery{Window: 24 * time.Hour, Limit: 1, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].URL != recent1.URL {
		t.Errorf("pagination failed: %v", got)
	}
}

func TestPurgeBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	const days = 30

	expired := testArticle("https://example.com/news/expired", "Expired story")
	expired.ScrapedAt = time.Now().Add(-(time.Duration(days)*24*time.Hour + time.Hour))
	kept := testArticle("https://example.com/news/kept", "Kept story")
	kept.ScrapedAt = time.Now().Add(-(time.Duration(days-1) * 24 * time.Hour))

	for _, a := range []*types.Article{expired, kept} {
		if _, err := s.InsertIfNew(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := s.PurgeOlderThan(ctx, days)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	n, _ := s.Count(ctx)
	if n != 1 {
		t.Errorf("count after purge = %d, want 1", n)
	}
	dup, _ := s.IsDuplicate(ctx, kept.URL, "x")
	if !dup {
		t.Error("retained article missing after purge")
	}
}

func TestTrendingMath(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// 10 articles with neutral titles; "inflation" only in 4 summaries.
	for i := 0; i < 10; i++ {
		title := fmt.Sprintf("Daily wrap edition %d", i)
		a := testArticle(fmt.Sprintf("https://example.com/news/%d", i), title)
		a.Summary = "Earnings stayed broadly flat."
		if i < 4 {
			a.Summary = "Inflation pressures persist."
		}
		a.ContentHash = types.Fingerprint(title, fmt.Sprintf("body %d", i))
		if _, err := s.InsertIfNew(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	topics, err := s.TrendingTopics(ctx, 24*time.Hour, 10)
	if err != nil {
		t.Fatal(err)
	}

	var inflation *types.TrendingTopic
	for i := range topics {
		if topics[i].Topic == "Inflation" {
			inflation = &topics[i]
		}
	}
	if inflation == nil {
		t.Fatalf("inflation not in trending output: %v", topics)
	}
	if inflation.Frequency != 4 {
		t.Errorf("frequency = %d, want 4", inflation.Frequency)
	}
	if inflation.Percentage != 40.0 {
		t.Errorf("percentage = %.1f, want 40.0", inflation.Percentage)
	}
	for i := 1; i < len(topics); i++ {
		if topics[i].RelevanceScore > topics[i-1].RelevanceScore {
			t.Errorf("topics out of relevance order: %v before %v", topics[i-1], topics[i])
		}
	}
}

func TestTrendingOrderedByRelevance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// "banks" and "cryptocurrency" tie on frequency; the longer word
	// carries the higher relevance and must come first.
	for i := 0; i < 2; i++ {
		a := testArticle(fmt.Sprintf("https://example.com/news/%d", i),
			fmt.Sprintf("Banks eye cryptocurrency custody %d", i))
		a.Summary = ""
		a.ContentHash = types.Fingerprint(a.Title, fmt.Sprintf("body %d", i))
		if _, err := s.InsertIfNew(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	topics, err := s.TrendingTopics(ctx, 24*time.Hour, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) == 0 || topics[0].Topic != "Cryptocurrency" {
		t.Fatalf("expected Cryptocurrency ranked first, got %v", topics)
	}
	var banks types.TrendingTopic
	for _, tp := range topics {
		if tp.Topic == "Banks" {
			banks = tp
		}
	}
	if banks.Frequency != topics[0].Frequency {
		t.Fatalf("fixture broken: frequencies differ, got %v", topics)
	}
	if banks.RelevanceScore >= topics[0].RelevanceScore {
		t.Errorf("relevance should favor the longer word: %v", topics)
	}
}

func TestTrendingRequiresRepetition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArticle("https://example.com/news/1", "Completely singular headline wording")
	a.Summary = "Desk brief."
	if _, err := s.InsertIfNew(ctx, a); err != nil {
		t.Fatal(err)
	}

	topics, err := s.TrendingTopics(ctx, 24*time.Hour, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 0 {
		t.Errorf("single-mention words should not trend: %v", topics)
	}
}

func TestDistributionsAndRunStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArticle("https://example.com/news/1", "Story one")
	b := testArticle("https://example.com/news/2", "Story two")
	b.ContentHash = "otherhash"
	b.Source = "moneycontrol"
	b.Category = "economy"
	for _, art := range []*types.Article{a, b} {
		if _, err := s.InsertIfNew(ctx, art); err != nil {
			t.Fatal(err)
		}
	}

	sources, err := s.SourceDistribution(ctx, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if sources["livemint"] != 1 || sources["moneycontrol"] != 1 {
		t.Errorf("source distribution: %v", sources)
	}

	categories, err := s.CategoryDistribution(ctx, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if categories["markets"] != 1 || categories["economy"] != 1 {
		t.Errorf("category distribution: %v", categories)
	}

	hourly, err := s.HourlyDistribution(ctx, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, n := range hourly {
		total += n
	}
	if total != 2 {
		t.Errorf("hourly distribution total = %d, want 2", total)
	}

	if err := s.RecordRunStat(ctx, &types.RunStat{
		RunDate:        time.Now(),
		TotalArticles:  2,
		ProcessingSecs: 1.5,
		SourcesScraped: "livemint, moneycontrol",
		SuccessRate:    100,
	}); err != nil {
		t.Fatalf("record run stat: %v", err)
	}
}
