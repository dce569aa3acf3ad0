package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Engine.MaxArticlesPerSource < 1 {
		return fmt.Errorf("engine.max_articles_per_source must be >= 1, got %d", cfg.Engine.MaxArticlesPerSource)
	}
	if cfg.Engine.MaxArticlesPerPage < 1 {
		return fmt.Errorf("engine.max_articles_per_page must be >= 1, got %d", cfg.Engine.MaxArticlesPerPage)
	}
	if cfg.Engine.ScrapeDelay < 0 {
		return fmt.Errorf("engine.scrape_delay must be >= 0")
	}
	if cfg.Engine.PageDelay < 0 {
		return fmt.Errorf("engine.page_delay must be >= 0")
	}
	if cfg.Engine.MinContentLength < 1 {
		return fmt.Errorf("engine.min_content_length must be >= 1, got %d", cfg.Engine.MinContentLength)
	}
	if cfg.Engine.LinksPerSelector < 1 {
		return fmt.Errorf("engine.links_per_selector must be >= 1, got %d", cfg.Engine.LinksPerSelector)
	}
	if cfg.Engine.SourceConcurrency < 1 || cfg.Engine.SourceConcurrency > 16 {
		return fmt.Errorf("engine.source_concurrency must be 1-16, got %d", cfg.Engine.SourceConcurrency)
	}

	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxRetries < 1 {
		return fmt.Errorf("fetcher.max_retries must be >= 1, got %d", cfg.Fetcher.MaxRetries)
	}
	if cfg.Fetcher.RetryDelay < 0 {
		return fmt.Errorf("fetcher.retry_delay must be >= 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}

	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if cfg.Storage.RetentionDays < 1 {
		return fmt.Errorf("storage.retention_days must be >= 1, got %d", cfg.Storage.RetentionDays)
	}

	if cfg.Summarizer.RequestTimeout <= 0 {
		return fmt.Errorf("summarizer.request_timeout must be > 0")
	}

	if cfg.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be > 0")
	}
	if cfg.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("scheduler.poll_interval must be > 0")
	}
	if cfg.Scheduler.MaxRuns < 0 {
		return fmt.Errorf("scheduler.max_runs must be >= 0, got %d", cfg.Scheduler.MaxRuns)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}
	for _, src := range cfg.Sources {
		if src.Name == "" {
			return fmt.Errorf("source name must not be empty")
		}
		if len(src.Pages) == 0 {
			return fmt.Errorf("source %q has no listing pages", src.Name)
		}
		if len(src.Selectors) == 0 {
			return fmt.Errorf("source %q has no selectors", src.Name)
		}
		for _, page := range src.Pages {
			if err := ValidateURL(page.URL); err != nil {
				return fmt.Errorf("source %q: %w", src.Name, err)
			}
		}
		for _, sel := range src.Selectors {
			if sel.Type != "css" && sel.Type != "xpath" {
				return fmt.Errorf("source %q: selector type must be 'css' or 'xpath', got %q", src.Name, sel.Type)
			}
			if sel.Query == "" {
				return fmt.Errorf("source %q has an empty selector query", src.Name)
			}
		}
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a listing page.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
