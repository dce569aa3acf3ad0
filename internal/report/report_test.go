package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newsagent/internal/storage"
	"newsagent/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func seededExporter(t *testing.T) *Exporter {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	articles := []*types.Article{
		{
			URL: "https://example.com/news/1", Title: "Sensex hits record high on bank rally",
			Content: "body one", Summary: "Banks lifted the index.", Source: "livemint",
			Category: "markets", ScrapedAt: time.Now(), ContentHash: "h1", WordCount: 300, ReadingTime: 1,
		},
		{
			URL: "https://example.com/news/2", Title: "Inflation eases to five-year low",
			Content: "body two", Summary: "Prices cooled in August.", Source: "moneycontrol",
			Category: "economy", ScrapedAt: time.Now(), ContentHash: "h2", WordCount: 450, ReadingTime: 2,
		},
	}
	for _, a := range articles {
		if _, err := store.InsertIfNew(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	return NewExporter(store, t.TempDir(), testLogger)
}

func TestExportJSON(t *testing.T) {
	e := seededExporter(t)

	path, err := e.ExportJSON(context.Background(), 24*time.Hour, "Local Extractive")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var doc struct {
		ExportInfo struct {
			TotalArticles       int    `json:"total_articles"`
			WindowHours         int    `json:"window_hours"`
			SummarizationMethod string `json:"summarization_method"`
		} `json:"export_info"`
		Articles   []map[string]any `json:"articles"`
		Sources    map[string]int   `json:"source_distribution"`
		Categories map[string]int   `json:"category_distribution"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if doc.ExportInfo.TotalArticles != 2 {
		t.Errorf("total = %d, want 2", doc.ExportInfo.TotalArticles)
	}
	if doc.ExportInfo.WindowHours != 24 {
		t.Errorf("window hours = %d", doc.ExportInfo.WindowHours)
	}
	if doc.ExportInfo.SummarizationMethod != "Local Extractive" {
		t.Errorf("method = %q", doc.ExportInfo.SummarizationMethod)
	}
	if len(doc.Articles) != 2 {
		t.Errorf("articles = %d", len(doc.Articles))
	}
	if doc.Sources["livemint"] != 1 || doc.Sources["moneycontrol"] != 1 {
		t.Errorf("source distribution: %v", doc.Sources)
	}
	if doc.Categories["markets"] != 1 || doc.Categories["economy"] != 1 {
		t.Errorf("category distribution: %v", doc.Categories)
	}
}

func TestTextReport(t *testing.T) {
	e := seededExporter(t)

	text, err := e.Text(context.Background(), 24*time.Hour, "Local Extractive")
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	for _, want := range []string{
		"NEWS HARVEST REPORT",
		"Articles:      2",
		"livemint",
		"moneycontrol",
		"Sensex hits record high on bank rally",
		"Prices cooled in August.",
		"Local Extractive",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q\n%s", want, text)
		}
	}
}
