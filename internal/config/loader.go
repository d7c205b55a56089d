package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and CLI flags.
// Priority (highest to lowest): CLI flags > env vars > .env file > config file > defaults.
func Load(configPath string) (*Config, error) {
	// A missing .env is fine; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("BIZGOAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("bizgoat")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".bizgoat"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper. Every key must be
// registered so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("site.base_url", cfg.Site.BaseURL)
	v.SetDefault("site.login_url", cfg.Site.LoginURL)
	v.SetDefault("site.search_url", cfg.Site.SearchURL)
	v.SetDefault("site.search_category", cfg.Site.SearchCategory)

	v.SetDefault("auth.enabled", cfg.Auth.Enabled)
	v.SetDefault("auth.email", cfg.Auth.Email)
	v.SetDefault("auth.password", cfg.Auth.Password)

	v.SetDefault("crawl.max_companies", cfg.Crawl.MaxCompanies)
	v.SetDefault("crawl.start_page", cfg.Crawl.StartPage)
	v.SetDefault("crawl.page_delay", cfg.Crawl.PageDelay)
	v.SetDefault("crawl.detail_delay", cfg.Crawl.DetailDelay)
	v.SetDefault("crawl.filter_step_delay", cfg.Crawl.FilterStepDelay)
	v.SetDefault("crawl.checkpoint_every", cfg.Crawl.CheckpointEvery)
	v.SetDefault("crawl.max_stale_pages", cfg.Crawl.MaxStalePages)
	v.SetDefault("crawl.resume", cfg.Crawl.Resume)

	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.bin_path", cfg.Browser.BinPath)
	v.SetDefault("browser.window_size", cfg.Browser.WindowSize)
	v.SetDefault("browser.navigation_timeout", cfg.Browser.NavigationTimeout)
	v.SetDefault("browser.wait_timeout", cfg.Browser.WaitTimeout)
	v.SetDefault("browser.settle_delay", cfg.Browser.SettleDelay)
	v.SetDefault("browser.navigations_per_minute", cfg.Browser.NavigationsPerMinute)

	v.SetDefault("output.excel_path", cfg.Output.ExcelPath)
	v.SetDefault("output.checkpoint_path", cfg.Output.CheckpointPath)
	v.SetDefault("output.jsonl_path", cfg.Output.JSONLPath)
	v.SetDefault("output.archive_dir", cfg.Output.ArchiveDir)

	v.SetDefault("mongo.enabled", cfg.Mongo.Enabled)
	v.SetDefault("mongo.uri", cfg.Mongo.URI)
	v.SetDefault("mongo.database", cfg.Mongo.Database)
	v.SetDefault("mongo.collection", cfg.Mongo.Collection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
