package storage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"newsagent/internal/textutil"
	"newsagent/internal/types"
)

var titleCaser = cases.Title(language.English)

// TrendingTopics mines the titles and summaries of articles within the
// window for recurring keywords. A word must occur at least twice to
// qualify; results come back ordered by relevance score.
func (s *Store) TrendingTopics(ctx context.Context, window time.Duration, limit int) ([]types.TrendingTopic, error) {
	var rows []struct {
		Title   string `db:"title"`
		Summary string `db:"summary"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT title, summary FROM articles WHERE scraped_at >= ?", time.Now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	freq := make(map[string]int)
	for _, r := range rows {
		for _, w := range textutil.ContentWords(textutil.Tokenize(r.Title+" "+r.Summary), 4) {
			freq[w]++
		}
	}

	topics := make([]types.TrendingTopic, 0, len(freq))
	for word, count := range freq {
		if count < 2 {
			continue
		}
		topics = append(topics, types.TrendingTopic{
			Topic:          titleCaser.String(word),
			Frequency:      count,
			Percentage:     math.Round(1000*float64(count)/float64(len(rows))) / 10,
			RelevanceScore: float64(count) * float64(len(word)) / 10,
		})
	}

	sort.Slice(topics, func(a, b int) bool {
		if topics[a].RelevanceScore != topics[b].RelevanceScore {
			return topics[a].RelevanceScore > topics[b].RelevanceScore
		}
		return topics[a].Topic < topics[b].Topic
	})

	if limit > 0 && len(topics) > limit {
		topics = topics[:limit]
	}
	return topics, nil
}
