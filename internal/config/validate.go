package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if err := ValidateURL(cfg.Site.BaseURL); err != nil {
		return fmt.Errorf("site.base_url: %w", err)
	}
	if cfg.Site.SearchCategory == "" {
		if err := ValidateURL(cfg.Site.SearchURL); err != nil {
			return fmt.Errorf("site.search_url: %w", err)
		}
	}

	if cfg.Auth.Enabled {
		if err := ValidateURL(cfg.Site.LoginURL); err != nil {
			return fmt.Errorf("site.login_url: %w", err)
		}
		if cfg.Auth.Email == "" || cfg.Auth.Password == "" {
			return fmt.Errorf("auth.email and auth.password are required when auth.enabled is true (set BIZGOAT_AUTH_EMAIL and BIZGOAT_AUTH_PASSWORD)")
		}
	}

	if cfg.Crawl.MaxCompanies < 1 {
		return fmt.Errorf("crawl.max_companies must be >= 1, got %d", cfg.Crawl.MaxCompanies)
	}
	if cfg.Crawl.StartPage < 1 {
		return fmt.Errorf("crawl.start_page must be >= 1, got %d", cfg.Crawl.StartPage)
	}
	if cfg.Crawl.CheckpointEvery < 1 {
		return fmt.Errorf("crawl.checkpoint_every must be >= 1, got %d", cfg.Crawl.CheckpointEvery)
	}
	if cfg.Crawl.MaxStalePages < 0 {
		return fmt.Errorf("crawl.max_stale_pages must be >= 0, got %d", cfg.Crawl.MaxStalePages)
	}
	if cfg.Crawl.PageDelay < 0 {
		return fmt.Errorf("crawl.page_delay must be >= 0")
	}
	if cfg.Crawl.DetailDelay < 0 {
		return fmt.Errorf("crawl.detail_delay must be >= 0")
	}
	if cfg.Crawl.FilterStepDelay < 0 {
		return fmt.Errorf("crawl.filter_step_delay must be >= 0")
	}

	if cfg.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be > 0")
	}
	if cfg.Browser.WaitTimeout <= 0 {
		return fmt.Errorf("browser.wait_timeout must be > 0")
	}
	if cfg.Browser.NavigationsPerMinute < 0 {
		return fmt.Errorf("browser.navigations_per_minute must be >= 0, got %d", cfg.Browser.NavigationsPerMinute)
	}

	if cfg.Output.ExcelPath == "" {
		return fmt.Errorf("output.excel_path is required")
	}
	if cfg.Output.CheckpointPath == "" {
		return fmt.Errorf("output.checkpoint_path is required")
	}

	if cfg.Mongo.Enabled {
		if cfg.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required when mongo.enabled is true")
		}
		if cfg.Mongo.Database == "" || cfg.Mongo.Collection == "" {
			return fmt.Errorf("mongo.database and mongo.collection are required when mongo.enabled is true")
		}
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

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is an absolute http(s) address.
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
