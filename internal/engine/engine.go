// Package engine orchestrates harvesting cycles: it walks every configured
// source's listing pages, discovers article links, and runs each article
// through fetch, extract, dedup, summarize, and store.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"newsagent/internal/config"
	"newsagent/internal/discover"
	"newsagent/internal/extract"
	"newsagent/internal/fetcher"
	"newsagent/internal/storage"
	"newsagent/internal/summarize"
	"newsagent/internal/types"
)

// State represents the orchestrator's lifecycle state.
type State int32

const (
	StateIdle    State = 0
	StateRunning State = 1
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Orchestrator runs harvesting cycles. At most one cycle is in flight per
// instance; concurrent starts are rejected, not queued.
type Orchestrator struct {
	cfg        *config.Config
	fetcher    *fetcher.Fetcher
	discoverer *discover.Discoverer
	extractor  *extract.Extractor
	summarizer *summarize.Chain
	store      *storage.Store
	logger     *slog.Logger

	state atomic.Int32
	stats types.RunStats
}

// New wires an orchestrator from its collaborators.
func New(cfg *config.Config, f *fetcher.Fetcher, st *storage.Store, sum *summarize.Chain, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		fetcher:    f,
		discoverer: discover.New(cfg.Engine.LinksPerSelector, logger),
		extractor:  extract.New(cfg.Engine.MinContentLength, logger),
		summarizer: sum,
		store:      st,
		logger:     logger.With("component", "engine"),
	}
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Stats returns a snapshot of the most recent (or in-flight) cycle's
// counters. Safe to call while a cycle is running.
func (o *Orchestrator) Stats() types.RunStatsSnapshot {
	return o.stats.Snapshot()
}

// RunCycle performs one full pass over every configured source. A source
// failing outright never aborts the cycle; failures are contained per
// source, per page, and per article. Returns ErrCycleRunning if a cycle is
// already in flight.
func (o *Orchestrator) RunCycle(ctx context.Context) (*types.CycleResult, error) {
	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, types.ErrCycleRunning
	}
	defer o.state.Store(int32(StateIdle))

	o.stats.Reset()
	start := time.Now()

	o.logger.Info("cycle starting",
		"sources", len(o.cfg.Sources),
		"summarization", o.summarizer.Method(),
	)

	var (
		mu        sync.Mutex
		bySource  = make(map[string][]types.ArticleRef)
		hadErrors bool
		names     []string
	)
	record := func(name string, refs []types.ArticleRef, failed bool) {
		mu.Lock()
		defer mu.Unlock()
		bySource[name] = refs
		names = append(names, name)
		if failed {
			hadErrors = true
		}
	}

	if o.cfg.Engine.SourceConcurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.cfg.Engine.SourceConcurrency)
		for _, src := range o.cfg.Sources {
			src := src
			g.Go(func() error {
				refs, failed := o.harvestSource(gctx, src)
				record(src.Name, refs, failed)
				return nil
			})
		}
		g.Wait()
	} else {
		for _, src := range o.cfg.Sources {
			refs, failed := o.harvestSource(ctx, src)
			record(src.Name, refs, failed)
		}
	}

	total := 0
	for _, refs := range bySource {
		total += len(refs)
	}

	status := types.CycleCompleted
	if hadErrors {
		status = types.CycleCompletedWithErrors
	}

	duration := time.Since(start)
	result := &types.CycleResult{
		ArticlesBySource:    bySource,
		TotalNewArticles:    total,
		Duration:            duration,
		ProcessingSecs:      duration.Seconds(),
		Timestamp:           time.Now(),
		Stats:               o.stats.Snapshot(),
		SummarizationMethod: o.summarizer.Method(),
		Status:              status,
	}

	if err := o.store.RecordRunStat(ctx, &types.RunStat{
		RunDate:        result.Timestamp,
		TotalArticles:  total,
		ProcessingSecs: result.ProcessingSecs,
		SourcesScraped: strings.Join(names, ", "),
		SuccessRate:    o.stats.SuccessRate(),
	}); err != nil {
		o.logger.Error("failed to record run statistics", "error", err)
	}

	o.logger.Info("cycle finished",
		"status", string(status),
		"new_articles", total,
		"duplicates", result.Stats.DuplicatesFound,
		"blocked", result.Stats.BlockedSites,
		"duration", duration.Round(time.Millisecond),
	)
	return result, nil
}

// harvestSource walks one source's listing pages. The bool result reports
// whether any page or article inside the source failed.
func (o *Orchestrator) harvestSource(ctx context.Context, src config.SourceSpec) ([]types.ArticleRef, bool) {
	logger := o.logger.With("source", src.Name)
	logger.Info("harvesting source", "pages", len(src.Pages))

	perPage := src.MaxPerPage
	if perPage <= 0 {
		perPage = o.cfg.Engine.MaxArticlesPerPage
	}

	var refs []types.ArticleRef
	var failed bool

	for i, page := range src.Pages {
		if ctx.Err() != nil {
			return refs, failed
		}
		if len(refs) >= o.cfg.Engine.MaxArticlesPerSource {
			break
		}
		if i > 0 {
			sleep(ctx, o.cfg.Engine.PageDelay)
		}

		pageRefs, pageFailed := o.harvestPage(ctx, src, page, perPage, o.cfg.Engine.MaxArticlesPerSource-len(refs))
		refs = append(refs, pageRefs...)
		failed = failed || pageFailed
	}

	logger.Info("source done", "new_articles", len(refs))
	return refs, failed
}

func (o *Orchestrator) harvestPage(ctx context.Context, src config.SourceSpec, page config.SourcePage, perPage, budget int) ([]types.ArticleRef, bool) {
	logger := o.logger.With("source", src.Name, "page", page.URL)

	doc, err := o.fetcher.Fetch(ctx, page.URL, &o.stats)
	if err != nil {
		logger.Error("listing fetch failed", "error", err)
		return nil, true
	}

	links := o.discoverer.Discover(doc, page.URL, src.Selectors)
	if len(links) > perPage {
		links = links[:perPage]
	}
	if len(links) > budget {
		links = links[:budget]
	}
	logger.Debug("links discovered", "count", len(links))

	var refs []types.ArticleRef
	var failed bool
	for _, link := range links {
		if ctx.Err() != nil {
			return refs, failed
		}
		sleep(ctx, o.cfg.Engine.ScrapeDelay)

		ref, err := o.processArticle(ctx, link, src.Name, page.Category)
		if err != nil {
			if isSkip(err) {
				continue
			}
			logger.Warn("article failed", "url", link, "error", err)
			failed = true
			continue
		}
		refs = append(refs, ref)
	}
	return refs, failed
}

// isSkip reports whether the error is a quality or duplication rejection.
// Those are counted outcomes, not failures, and never flip cycle status.
func isSkip(err error) bool {
	return errors.Is(err, types.ErrDuplicate) ||
		errors.Is(err, types.ErrTitleMissing) ||
		errors.Is(err, types.ErrContentTooShort)
}

// processArticle runs one article through the full pipeline.
func (o *Orchestrator) processArticle(ctx context.Context, rawURL, source, category string) (types.ArticleRef, error) {
	var zero types.ArticleRef

	doc, err := o.fetcher.Fetch(ctx, rawURL, &o.stats)
	if err != nil {
		return zero, err
	}

	title := o.extractor.Title(doc)
	if title == "" {
		o.logger.Debug("article rejected", "url", rawURL, "reason", "no title")
		return zero, types.ErrTitleMissing
	}
	body := o.extractor.Body(doc)
	if body == "" {
		o.logger.Debug("article rejected", "url", rawURL, "reason", "content too short")
		return zero, types.ErrContentTooShort
	}

	hash := types.Fingerprint(title, body)
	dup, err := o.store.IsDuplicate(ctx, rawURL, hash)
	if err != nil {
		return zero, err
	}
	if dup {
		o.stats.DuplicatesFound.Add(1)
		o.logger.Debug("duplicate skipped", "url", rawURL)
		return zero, types.ErrDuplicate
	}

	summary := o.summarizer.Summarize(ctx, body)
	wordCount := len(strings.Fields(body))

	article := &types.Article{
		URL:         rawURL,
		Title:       title,
		Content:     body,
		Summary:     summary,
		Source:      source,
		Category:    category,
		ScrapedAt:   time.Now(),
		ContentHash: hash,
		WordCount:   wordCount,
		ReadingTime: types.ReadingTime(wordCount),
		Tags:        extract.JoinTags(extract.Tags(title, body)),
	}

	outcome, err := o.store.InsertIfNew(ctx, article)
	if err != nil {
		return zero, err
	}
	if outcome == storage.DuplicateSkipped {
		o.stats.DuplicatesFound.Add(1)
		return zero, types.ErrDuplicate
	}

	o.stats.ArticlesProcessed.Add(1)
	o.logger.Info("article stored", "source", source, "title", title, "words", wordCount)

	return types.ArticleRef{
		Title:       article.Title,
		URL:         article.URL,
		Summary:     article.Summary,
		Category:    article.Category,
		WordCount:   article.WordCount,
		ReadingTime: article.ReadingTime,
		Tags:        article.Tags,
	}, nil
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
