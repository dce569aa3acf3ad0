package types

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Article is one harvested news article. Rows are immutable after insert;
// they are only ever removed by age-based purging.
type Article struct {
	ID          int64     `db:"id"           json:"-"`
	URL         string    `db:"url"          json:"url"`
	Title       string    `db:"title"        json:"title"`
	Content     string    `db:"content"      json:"content,omitempty"`
	Summary     string    `db:"summary"      json:"summary"`
	Source      string    `db:"source"       json:"source"`
	Category    string    `db:"category"     json:"category"`
	ScrapedAt   time.Time `db:"scraped_at"   json:"scraped_at"`
	ContentHash string    `db:"content_hash" json:"content_hash"`
	WordCount   int       `db:"word_count"   json:"word_count"`
	ReadingTime int       `db:"reading_time" json:"reading_time"`
	Tags        string    `db:"tags"         json:"tags,omitempty"`
}

// TagList splits the comma-joined tags column back into a slice.
func (a *Article) TagList() []string {
	if a.Tags == "" {
		return nil
	}
	parts := strings.Split(a.Tags, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Fingerprint computes the content hash used for near-duplicate detection:
// MD5 over title concatenated with body. Collision risk is accepted.
func Fingerprint(title, body string) string {
	sum := md5.Sum([]byte(title + body))
	return hex.EncodeToString(sum[:])
}

// ReadingTime estimates reading time in minutes at 200 words per minute,
// with a floor of one minute.
func ReadingTime(wordCount int) int {
	if rt := wordCount / 200; rt > 1 {
		return rt
	}
	return 1
}

// RunStat is one persisted row of per-cycle scraping statistics.
type RunStat struct {
	ID             int64     `db:"id"              json:"-"`
	RunDate        time.Time `db:"run_date"        json:"run_date"`
	TotalArticles  int       `db:"total_articles"  json:"total_articles"`
	ProcessingSecs float64   `db:"processing_time" json:"processing_time"`
	SourcesScraped string    `db:"sources_scraped" json:"sources_scraped"`
	SuccessRate    float64   `db:"success_rate"    json:"success_rate"`
}

// TrendingTopic is one entry of the trending-topics projection.
type TrendingTopic struct {
	Topic          string  `json:"topic"`
	Frequency      int     `json:"frequency"`
	Percentage     float64 `json:"percentage"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ArticleRef is the per-article slice of a cycle result: enough to report on
// without dragging the full body around.
type ArticleRef struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Summary     string `json:"summary"`
	Category    string `json:"category"`
	WordCount   int    `json:"word_count"`
	ReadingTime int    `json:"reading_time"`
	Tags        string `json:"tags,omitempty"`
}

// CycleStatus is the terminal status of one orchestrator cycle.
type CycleStatus string

const (
	CycleCompleted           CycleStatus = "completed"
	CycleCompletedWithErrors CycleStatus = "completed_with_errors"
)

// CycleResult aggregates the outcome of one full pass over all sources.
type CycleResult struct {
	ArticlesBySource    map[string][]ArticleRef `json:"articles_by_source"`
	TotalNewArticles    int                     `json:"total_new_articles"`
	Duration            time.Duration           `json:"-"`
	ProcessingSecs      float64                 `json:"processing_time"`
	Timestamp           time.Time               `json:"timestamp"`
	Stats               RunStatsSnapshot        `json:"stats"`
	SummarizationMethod string                  `json:"summarization_method"`
	Status              CycleStatus             `json:"status"`
}
