package browser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"golang.org/x/time/rate"

	"github.com/IshaanNene/bizgoat/internal/config"
)

// Launch starts Chromium and opens the single page all crawl steps share.
func Launch(cfg *config.BrowserConfig, logger *slog.Logger) (*RodSession, error) {
	logger = logger.With("component", "browser")

	launchURL, err := launchBrowser(cfg)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(launchURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	var page *rod.Page
	if cfg.Stealth {
		page, err = stealth.Page(b)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("stealth page: %w", err)
		}
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: "about:blank"})
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("open page: %w", err)
		}
	}

	settle := cfg.SettleDelay
	if settle <= 0 {
		settle = 300 * time.Millisecond
	}

	logger.Info("browser ready",
		"headless", cfg.Headless,
		"stealth", cfg.Stealth,
		"navigations_per_minute", cfg.NavigationsPerMinute,
	)

	return &RodSession{
		browser:     b,
		page:        page,
		limiter:     newLimiter(cfg.NavigationsPerMinute),
		navTimeout:  cfg.NavigationTimeout,
		waitTimeout: cfg.WaitTimeout,
		settle:      settle,
		logger:      logger,
	}, nil
}

// launchBrowser starts a Chromium instance with appropriate flags.
func launchBrowser(cfg *config.BrowserConfig) (string, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled").
		Set("lang", "ka-GE")

	if cfg.BinPath != "" {
		l = l.Bin(cfg.BinPath)
	}
	if cfg.WindowSize != "" {
		l = l.Set("window-size", cfg.WindowSize)
	}

	return l.Launch()
}

// newLimiter spaces navigations evenly; zero means unlimited.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}
