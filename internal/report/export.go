// Package report renders read-only projections over the article store:
// self-describing JSON exports and a plain-text summary report.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"newsagent/internal/storage"
	"newsagent/internal/types"
)

// Exporter writes article exports and reports to the export directory.
type Exporter struct {
	store  *storage.Store
	dir    string
	logger *slog.Logger
}

// NewExporter creates an exporter writing under dir.
func NewExporter(store *storage.Store, dir string, logger *slog.Logger) *Exporter {
	return &Exporter{
		store:  store,
		dir:    dir,
		logger: logger.With("component", "exporter"),
	}
}

// exportDocument is the self-describing JSON export layout.
type exportDocument struct {
	ExportInfo exportInfo      `json:"export_info"`
	Articles   []types.Article `json:"articles"`
	Sources    map[string]int  `json:"source_distribution"`
	Categories map[string]int  `json:"category_distribution"`
}

type exportInfo struct {
	Timestamp           time.Time `json:"timestamp"`
	TotalArticles       int       `json:"total_articles"`
	WindowHours         int       `json:"window_hours"`
	SummarizationMethod string    `json:"summarization_method"`
}

// ExportJSON writes articles scraped within the window to a timestamped
// JSON file and returns its path.
func (e *Exporter) ExportJSON(ctx context.Context, window time.Duration, method string) (string, error) {
	articles, err := e.store.Recent(ctx, storage.RecentQuery{Window: window})
	if err != nil {
		return "", fmt.Errorf("load articles for export: %w", err)
	}

	sources := make(map[string]int)
	categories := make(map[string]int)
	for _, a := range articles {
		sources[a.Source]++
		if a.Category != "" {
			categories[a.Category]++
		}
	}

	doc := exportDocument{
		ExportInfo: exportInfo{
			Timestamp:           time.Now(),
			TotalArticles:       len(articles),
			WindowHours:         int(window.Hours()),
			SummarizationMethod: method,
		},
		Articles:   articles,
		Sources:    sources,
		Categories: categories,
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(e.dir, fmt.Sprintf("news_export_%s.json", time.Now().Format("20060102_150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}

	e.logger.Info("export written", "path", path, "articles", len(articles))
	return path, nil
}
