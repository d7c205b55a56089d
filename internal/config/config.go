package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for bizgoat.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"    yaml:"site"`
	Auth    AuthConfig    `mapstructure:"auth"    yaml:"auth"`
	Crawl   CrawlConfig   `mapstructure:"crawl"   yaml:"crawl"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Mongo   MongoConfig   `mapstructure:"mongo"   yaml:"mongo"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// SiteConfig locates the registry pages.
type SiteConfig struct {
	BaseURL        string `mapstructure:"base_url"        yaml:"base_url"`
	LoginURL       string `mapstructure:"login_url"       yaml:"login_url"`
	SearchURL      string `mapstructure:"search_url"      yaml:"search_url"`
	SearchCategory string `mapstructure:"search_category" yaml:"search_category"`
}

// AuthConfig holds the account used to sign in. Credentials are expected
// from the environment (BIZGOAT_AUTH_EMAIL, BIZGOAT_AUTH_PASSWORD).
type AuthConfig struct {
	Enabled  bool   `mapstructure:"enabled"  yaml:"enabled"`
	Email    string `mapstructure:"email"    yaml:"email"`
	Password string `mapstructure:"password" yaml:"password"`
}

// CrawlConfig controls listing traversal and detail scraping.
type CrawlConfig struct {
	MaxCompanies    int           `mapstructure:"max_companies"     yaml:"max_companies"`
	StartPage       int           `mapstructure:"start_page"        yaml:"start_page"`
	PageDelay       time.Duration `mapstructure:"page_delay"        yaml:"page_delay"`
	DetailDelay     time.Duration `mapstructure:"detail_delay"      yaml:"detail_delay"`
	FilterStepDelay time.Duration `mapstructure:"filter_step_delay" yaml:"filter_step_delay"`
	CheckpointEvery int           `mapstructure:"checkpoint_every"  yaml:"checkpoint_every"`
	MaxStalePages   int           `mapstructure:"max_stale_pages"   yaml:"max_stale_pages"`
	Resume          bool          `mapstructure:"resume"            yaml:"resume"`
}

// BrowserConfig controls the headless browser.
type BrowserConfig struct {
	Headless             bool          `mapstructure:"headless"               yaml:"headless"`
	Stealth              bool          `mapstructure:"stealth"                yaml:"stealth"`
	BinPath              string        `mapstructure:"bin_path"               yaml:"bin_path"`
	WindowSize           string        `mapstructure:"window_size"            yaml:"window_size"`
	NavigationTimeout    time.Duration `mapstructure:"navigation_timeout"     yaml:"navigation_timeout"`
	WaitTimeout          time.Duration `mapstructure:"wait_timeout"           yaml:"wait_timeout"`
	SettleDelay          time.Duration `mapstructure:"settle_delay"           yaml:"settle_delay"`
	NavigationsPerMinute int           `mapstructure:"navigations_per_minute" yaml:"navigations_per_minute"`
}

// OutputConfig controls the artifacts written to disk.
type OutputConfig struct {
	ExcelPath      string `mapstructure:"excel_path"      yaml:"excel_path"`
	CheckpointPath string `mapstructure:"checkpoint_path" yaml:"checkpoint_path"`
	JSONLPath      string `mapstructure:"jsonl_path"      yaml:"jsonl_path"`
	ArchiveDir     string `mapstructure:"archive_dir"     yaml:"archive_dir"`
}

// MongoConfig controls the optional MongoDB sink.
type MongoConfig struct {
	Enabled    bool   `mapstructure:"enabled"    yaml:"enabled"`
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:   "https://www.bia.ge",
			LoginURL:  "https://www.bia.ge/Account/Login?ReturnUrl=%2FEN%2Fmybia",
			SearchURL: "https://www.bia.ge/Company/Search",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Crawl: CrawlConfig{
			MaxCompanies:    20,
			StartPage:       1,
			PageDelay:       1500 * time.Millisecond,
			DetailDelay:     1 * time.Second,
			FilterStepDelay: 1 * time.Second,
			CheckpointEvery: 100,
			MaxStalePages:   5,
		},
		Browser: BrowserConfig{
			Headless:             true,
			Stealth:              true,
			WindowSize:           "1366,768",
			NavigationTimeout:    60 * time.Second,
			WaitTimeout:          10 * time.Second,
			SettleDelay:          300 * time.Millisecond,
			NavigationsPerMinute: 60,
		},
		Output: OutputConfig{
			ExcelPath:      "./output/businesses.xlsx",
			CheckpointPath: "./output/checkpoint.json",
			JSONLPath:      "",
			ArchiveDir:     "",
		},
		Mongo: MongoConfig{
			Enabled:    false,
			URI:        "mongodb://localhost:27017",
			Database:   "bizgoat",
			Collection: "businesses",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
