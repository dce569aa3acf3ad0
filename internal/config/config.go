package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for the news agent.
type Config struct {
	Engine     EngineConfig     `mapstructure:"engine"     yaml:"engine"`
	Fetcher    FetcherConfig    `mapstructure:"fetcher"    yaml:"fetcher"`
	Storage    StorageConfig    `mapstructure:"storage"    yaml:"storage"`
	Summarizer SummarizerConfig `mapstructure:"summarizer" yaml:"summarizer"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"  yaml:"scheduler"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
	Sources    []SourceSpec     `mapstructure:"sources"    yaml:"sources"`
}

// EngineConfig controls the scraping cycle orchestrator.
type EngineConfig struct {
	MaxArticlesPerSource int           `mapstructure:"max_articles_per_source" yaml:"max_articles_per_source"`
	MaxArticlesPerPage   int           `mapstructure:"max_articles_per_page"   yaml:"max_articles_per_page"`
	ScrapeDelay          time.Duration `mapstructure:"scrape_delay"            yaml:"scrape_delay"`
	PageDelay            time.Duration `mapstructure:"page_delay"              yaml:"page_delay"`
	MinContentLength     int           `mapstructure:"min_content_length"      yaml:"min_content_length"`
	LinksPerSelector     int           `mapstructure:"links_per_selector"      yaml:"links_per_selector"`
	SourceConcurrency    int           `mapstructure:"source_concurrency"      yaml:"source_concurrency"`
}

// FetcherConfig controls the HTTP fetcher.
type FetcherConfig struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"       yaml:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"       yaml:"retry_delay"`
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
}

// StorageConfig controls the embedded article store.
type StorageConfig struct {
	Path          string `mapstructure:"path"           yaml:"path"`
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
	ExportDir     string `mapstructure:"export_dir"     yaml:"export_dir"`
}

// SummarizerConfig controls summarization backends. Both API keys are
// optional; with neither set, the local extractive strategy is used.
type SummarizerConfig struct {
	OpenAIAPIKey      string        `mapstructure:"openai_api_key"      yaml:"openai_api_key"`
	OpenAIModel       string        `mapstructure:"openai_model"        yaml:"openai_model"`
	OpenAIEndpoint    string        `mapstructure:"openai_endpoint"     yaml:"openai_endpoint"`
	HuggingFaceAPIKey string        `mapstructure:"huggingface_api_key" yaml:"huggingface_api_key"`
	HuggingFaceModel  string        `mapstructure:"huggingface_model"   yaml:"huggingface_model"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"     yaml:"request_timeout"`
}

// SchedulerConfig controls repeated cycle execution.
type SchedulerConfig struct {
	Interval     time.Duration `mapstructure:"interval"      yaml:"interval"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	MaxRuns      int           `mapstructure:"max_runs"      yaml:"max_runs"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SourceSpec describes one news source: its listing pages with category
// labels and the ordered selector strategies used to discover article links.
// The core treats these as immutable input.
type SourceSpec struct {
	Name      string       `mapstructure:"name"          yaml:"name"`
	Pages     []SourcePage `mapstructure:"pages"         yaml:"pages"`
	Selectors []Selector   `mapstructure:"selectors"     yaml:"selectors"`
	// MaxPerPage overrides engine.max_articles_per_page when > 0.
	MaxPerPage int `mapstructure:"max_per_page" yaml:"max_per_page"`
}

// SourcePage is one listing page of a source.
type SourcePage struct {
	URL      string `mapstructure:"url"      yaml:"url"`
	Category string `mapstructure:"category" yaml:"category"`
}

// Selector is a single link-discovery strategy.
type Selector struct {
	Type  string `mapstructure:"type"  yaml:"type"` // css or xpath
	Query string `mapstructure:"query" yaml:"query"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxArticlesPerSource: 25,
			MaxArticlesPerPage:   5,
			ScrapeDelay:          2 * time.Second,
			PageDelay:            3 * time.Second,
			MinContentLength:     200,
			LinksPerSelector:     8,
			SourceConcurrency:    1,
		},
		Fetcher: FetcherConfig{
			RequestTimeout:  15 * time.Second,
			MaxRetries:      3,
			RetryDelay:      1 * time.Second,
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			MaxBodySize:     10 * 1024 * 1024,
			MaxIdleConns:    100,
			IdleConnTimeout: 90 * time.Second,
		},
		Storage: StorageConfig{
			Path:          "news_agent.db",
			RetentionDays: 30,
			ExportDir:     "exports",
		},
		Summarizer: SummarizerConfig{
			OpenAIModel:      "gpt-3.5-turbo",
			OpenAIEndpoint:   "https://api.openai.com/v1",
			HuggingFaceModel: "https://api-inference.huggingface.co/models/facebook/bart-large-cnn",
			RequestTimeout:   30 * time.Second,
		},
		Scheduler: SchedulerConfig{
			Interval:     2 * time.Hour,
			PollInterval: time.Minute,
			MaxRuns:      0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Sources: DefaultSources(),
	}
}
