// Package storage persists articles and run statistics in an embedded
// SQLite database. Articles are append-only; rows leave the table only
// through age-based purging.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"newsagent/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	url          TEXT UNIQUE NOT NULL,
	title        TEXT NOT NULL,
	content      TEXT,
	summary      TEXT,
	source       TEXT NOT NULL,
	category     TEXT,
	scraped_at   TIMESTAMP NOT NULL,
	content_hash TEXT,
	word_count   INTEGER DEFAULT 0,
	reading_time INTEGER DEFAULT 0,
	tags         TEXT
);

CREATE INDEX IF NOT EXISTS idx_articles_source       ON articles(source);
CREATE INDEX IF NOT EXISTS idx_articles_scraped_at   ON articles(scraped_at);
CREATE INDEX IF NOT EXISTS idx_articles_content_hash ON articles(content_hash);
CREATE INDEX IF NOT EXISTS idx_articles_category     ON articles(category);

CREATE TABLE IF NOT EXISTS scraping_stats (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_date        TIMESTAMP NOT NULL,
	total_articles  INTEGER,
	processing_time REAL,
	sources_scraped TEXT,
	success_rate    REAL
);
`

// InsertOutcome reports what InsertIfNew did with the candidate row.
type InsertOutcome int

const (
	Inserted InsertOutcome = iota
	DuplicateSkipped
)

// Store is the SQLite-backed article archive.
type Store struct {
	db     *sqlx.DB
	sb     sq.StatementBuilderType
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// SQLite tolerates exactly one writer; serialize through a single conn.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger: logger.With("component", "storage"),
	}
	s.logger.Info("database ready", "path", path)
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertIfNew inserts the article unless a row with the same URL already
// exists. The unique-URL constraint is the last line of defense; callers
// normally reject duplicates earlier via IsDuplicate.
func (s *Store) InsertIfNew(ctx context.Context, a *types.Article) (InsertOutcome, error) {
	query, args, err := s.sb.
		Insert("articles").
		Columns("url", "title", "content", "summary", "source", "category",
			"scraped_at", "content_hash", "word_count", "reading_time", "tags").
		Values(a.URL, a.Title, a.Content, a.Summary, a.Source, a.Category,
			a.ScrapedAt, a.ContentHash, a.WordCount, a.ReadingTime, a.Tags).
		ToSql()
	if err != nil {
		return DuplicateSkipped, fmt.Errorf("build insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return DuplicateSkipped, nil
		}
		return DuplicateSkipped, fmt.Errorf("insert article: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		a.ID = id
	}
	return Inserted, nil
}

// IsDuplicate reports whether an article with the given URL or content
// fingerprint is already stored.
func (s *Store) IsDuplicate(ctx context.Context, url, contentHash string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM articles WHERE url = ? OR content_hash = ?", url, contentHash)
	if err != nil {
		return false, fmt.Errorf("duplicate check: %w", err)
	}
	return n > 0, nil
}

// RecentQuery filters the Recent listing. Zero values mean "no filter";
// a zero Window defaults to 24 hours.
type RecentQuery struct {
	Window   time.Duration
	Source   string
	Category string
	Limit    int
	Offset   int
}

// Recent returns articles scraped within the window, newest first.
func (s *Store) Recent(ctx context.Context, q RecentQuery) ([]types.Article, error) {
	window := q.Window
	if window <= 0 {
		window = 24 * time.Hour
	}

	builder := s.sb.
		Select("id", "url", "title", "content", "summary", "source", "category",
			"scraped_at", "content_hash", "word_count", "reading_time", "tags").
		From("articles").
		Where(sq.GtOrEq{"scraped_at": time.Now().Add(-window)}).
		OrderBy("scraped_at DESC")

	if q.Source != "" {
		builder = builder.Where(sq.Eq{"source": q.Source})
	}
	if q.Category != "" {
		builder = builder.Where(sq.Eq{"category": q.Category})
	}
	if q.Limit > 0 {
		builder = builder.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		builder = builder.Offset(uint64(q.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	var articles []types.Article
	if err := s.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("query recent articles: %w", err)
	}
	return articles, nil
}

// PurgeOlderThan deletes articles scraped strictly before now minus the
// given number of days and returns how many rows were removed.
func (s *Store) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	res, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE scraped_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge articles: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("purged old articles", "removed", removed, "older_than_days", days)
	}
	return removed, nil
}

// RecordRunStat appends one cycle's statistics row.
func (s *Store) RecordRunStat(ctx context.Context, st *types.RunStat) error {
	query, args, err := s.sb.
		Insert("scraping_stats").
		Columns("run_date", "total_articles", "processing_time", "sources_scraped", "success_rate").
		Values(st.RunDate, st.TotalArticles, st.ProcessingSecs, st.SourcesScraped, st.SuccessRate).
		ToSql()
	if err != nil {
		return fmt.Errorf("build stats insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record run stats: %w", err)
	}
	return nil
}

// Count returns the total number of stored articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM articles"); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// SourceDistribution returns article counts grouped by source within the
// window.
func (s *Store) SourceDistribution(ctx context.Context, window time.Duration) (map[string]int, error) {
	return s.distribution(ctx, "source", window)
}

// CategoryDistribution returns article counts grouped by category within
// the window.
func (s *Store) CategoryDistribution(ctx context.Context, window time.Duration) (map[string]int, error) {
	return s.distribution(ctx, "category", window)
}

func (s *Store) distribution(ctx context.Context, column string, window time.Duration) (map[string]int, error) {
	query, args, err := s.sb.
		Select(column, "COUNT(*) AS n").
		From("articles").
		Where(sq.GtOrEq{"scraped_at": time.Now().Add(-window)}).
		GroupBy(column).
		OrderBy("n DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distribution query: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s distribution: %w", column, err)
	}
	defer rows.Close()

	dist := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		if key == "" {
			key = "unknown"
		}
		dist[key] += n
	}
	return dist, rows.Err()
}

// HourlyDistribution returns article counts grouped by the hour of day
// (00-23) they were scraped, within the window.
func (s *Store) HourlyDistribution(ctx context.Context, window time.Duration) (map[string]int, error) {
	query := `SELECT strftime('%H', scraped_at) AS hour, COUNT(*) FROM articles
		WHERE scraped_at >= ? GROUP BY hour ORDER BY hour`
	rows, err := s.db.QueryxContext(ctx, query, time.Now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("query hourly distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[string]int)
	for rows.Next() {
		var hour string
		var n int
		if err := rows.Scan(&hour, &n); err != nil {
			return nil, err
		}
		dist[hour] = n
	}
	return dist, rows.Err()
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite surfaces constraint failures as flat messages;
	// there is no exported error type to match on.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
