package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
// Summarizer API keys are additionally picked up from OPENAI_API_KEY and
// HUGGINGFACE_API_KEY (a .env file is honored if present).
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Best-effort .env load; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("NEWSAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("newsagent")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".newsagent"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Summarizer.OpenAIAPIKey == "" {
		cfg.Summarizer.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Summarizer.HuggingFaceAPIKey == "" {
		cfg.Summarizer.HuggingFaceAPIKey = os.Getenv("HUGGINGFACE_API_KEY")
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources()
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("engine.max_articles_per_source", cfg.Engine.MaxArticlesPerSource)
	v.SetDefault("engine.max_articles_per_page", cfg.Engine.MaxArticlesPerPage)
	v.SetDefault("engine.scrape_delay", cfg.Engine.ScrapeDelay)
	v.SetDefault("engine.page_delay", cfg.Engine.PageDelay)
	v.SetDefault("engine.min_content_length", cfg.Engine.MinContentLength)
	v.SetDefault("engine.links_per_selector", cfg.Engine.LinksPerSelector)
	v.SetDefault("engine.source_concurrency", cfg.Engine.SourceConcurrency)

	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.max_retries", cfg.Fetcher.MaxRetries)
	v.SetDefault("fetcher.retry_delay", cfg.Fetcher.RetryDelay)
	v.SetDefault("fetcher.user_agent", cfg.Fetcher.UserAgent)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)

	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.retention_days", cfg.Storage.RetentionDays)
	v.SetDefault("storage.export_dir", cfg.Storage.ExportDir)

	v.SetDefault("summarizer.openai_model", cfg.Summarizer.OpenAIModel)
	v.SetDefault("summarizer.openai_endpoint", cfg.Summarizer.OpenAIEndpoint)
	v.SetDefault("summarizer.huggingface_model", cfg.Summarizer.HuggingFaceModel)
	v.SetDefault("summarizer.request_timeout", cfg.Summarizer.RequestTimeout)

	v.SetDefault("scheduler.interval", cfg.Scheduler.Interval)
	v.SetDefault("scheduler.poll_interval", cfg.Scheduler.PollInterval)
	v.SetDefault("scheduler.max_runs", cfg.Scheduler.MaxRuns)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
