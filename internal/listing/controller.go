// Package listing walks the paginated search results and hands every new
// company profile URL to a callback, exactly once, up to a cap.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/bizgoat/internal/browser"
	"github.com/IshaanNene/bizgoat/internal/observability"
	"github.com/IshaanNene/bizgoat/internal/pagination"
	"github.com/IshaanNene/bizgoat/internal/types"
)

// State is the traversal phase of a Controller.
type State int

const (
	StateApplyingFilter State = iota
	StateCollecting
	StateAdvancing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateApplyingFilter:
		return "applying_filter"
	case StateCollecting:
		return "collecting"
	case StateAdvancing:
		return "advancing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// maxDrifts bounds consecutive advances that land off the listing.
const maxDrifts = 3

// StopReason records why traversal ended.
type StopReason string

const (
	StopCapReached    StopReason = "cap_reached"
	StopNoNextPage    StopReason = "no_next_page"
	StopStalePages    StopReason = "stale_pages"
	StopAdvanceFailed StopReason = "advance_failed"
	StopCanceled      StopReason = "canceled"
)

// Callback receives each admitted profile URL. A returned error counts the
// URL as failed; traversal continues.
type Callback func(ctx context.Context, profileURL string) error

// Options configures a Controller.
type Options struct {
	Filter       Filter
	MaxCompanies int
	StartPage    int
	PageDelay    time.Duration
	WaitTimeout  time.Duration

	// MaxStalePages stops traversal after this many consecutive collected
	// pages admit no new URL. Zero disables the check.
	MaxStalePages int
}

// Result summarizes a traversal.
type Result struct {
	Pages     int
	Admitted  int
	Succeeded int
	Failed    int
	Reason    StopReason
}

// Controller drives ApplyingFilter → Collecting(n) → Advancing → … → Done.
type Controller struct {
	opts    Options
	nav     *pagination.Navigator
	seen    *SeenSet
	metrics *observability.Metrics
	logger  *slog.Logger
	state   State
}

// NewController creates a Controller. seen may carry URLs from a previous
// run; they are skipped and do not count toward the cap.
func NewController(opts Options, seen *SeenSet, metrics *observability.Metrics, logger *slog.Logger) *Controller {
	if opts.StartPage < 1 {
		opts.StartPage = 1
	}
	if seen == nil {
		seen = NewSeenSet(opts.MaxCompanies)
	}
	if metrics == nil {
		metrics = observability.NewMetrics(logger)
	}
	return &Controller{
		opts:    opts,
		nav:     pagination.NewNavigator(logger, metrics, opts.WaitTimeout),
		seen:    seen,
		metrics: metrics,
		logger:  logger.With("component", "listing"),
		state:   StateApplyingFilter,
	}
}

// State returns the current traversal phase.
func (c *Controller) State() State {
	return c.state
}

// Run traverses the listing. It returns an error only when the session
// becomes unusable or ctx is canceled; the Result is valid either way.
func (c *Controller) Run(ctx context.Context, sess browser.Session, cb Callback) (Result, error) {
	var (
		res        Result
		listingURL string
		page       = 1
		stale      int
		drifts     int
	)

	c.state = StateApplyingFilter
	for c.state != StateDone {
		if err := ctx.Err(); err != nil {
			return c.stop(&res, StopCanceled), err
		}

		switch c.state {
		case StateApplyingFilter:
			u, err := ApplyFilter(ctx, sess, c.opts.Filter, c.opts.WaitTimeout, c.logger)
			if err != nil {
				c.state = StateDone
				return res, err
			}
			listingURL = u
			c.state = StateCollecting

		case StateCollecting:
			res.Pages++
			c.metrics.ListingPages.Add(1)

			if page < c.opts.StartPage {
				c.logger.Info("skipping listing page before start page", "page", page, "start_page", c.opts.StartPage)
				c.state = StateAdvancing
				continue
			}

			admitted, err := c.collect(ctx, sess, listingURL, page, cb, &res)
			if err != nil {
				if ctx.Err() != nil {
					return c.stop(&res, StopCanceled), err
				}
				c.state = StateDone
				return res, err
			}

			if res.Admitted >= c.opts.MaxCompanies {
				c.logger.Info("reached max companies", "max", c.opts.MaxCompanies)
				return c.stop(&res, StopCapReached), nil
			}

			if admitted == 0 {
				stale++
			} else {
				stale = 0
			}
			if c.opts.MaxStalePages > 0 && stale >= c.opts.MaxStalePages {
				c.logger.Warn("no new companies on consecutive pages, stopping", "pages", stale)
				return c.stop(&res, StopStalePages), nil
			}

			if sess.URL() != listingURL {
				if err := sess.Navigate(ctx, listingURL); err != nil {
					c.state = StateDone
					return res, &types.NavigationError{URL: listingURL, Step: "return to listing", Err: err}
				}
			}
			c.state = StateAdvancing

		case StateAdvancing:
			target, err := c.nav.Find(ctx, sess, listingURL, page)
			if errors.Is(err, types.ErrNoNextPage) {
				c.logger.Info("no next page, assuming last listing page", "page", page)
				return c.stop(&res, StopNoNextPage), nil
			}
			if err != nil {
				c.state = StateDone
				return res, err
			}

			c.logger.Info("advancing listing", "from_page", page, "tier", target.Tier.String())
			if err := c.nav.Advance(ctx, sess, target); err != nil {
				if ctx.Err() != nil {
					return c.stop(&res, StopCanceled), ctx.Err()
				}
				c.logger.Warn("could not advance listing", "page", page, "error", err)
				return c.stop(&res, StopAdvanceFailed), nil
			}

			if !c.landed(sess, listingURL) {
				drifts++
				if drifts >= maxDrifts {
					c.logger.Warn("advance keeps leaving the listing, stopping", "page", page)
					return c.stop(&res, StopAdvanceFailed), nil
				}
				if err := sess.Navigate(ctx, listingURL); err != nil {
					c.state = StateDone
					return res, &types.NavigationError{URL: listingURL, Step: "drift recovery", Err: err}
				}
				c.state = StateAdvancing
				continue
			}
			drifts = 0
			page++
			listingURL = sess.URL()

			if err := browser.Pause(ctx, c.opts.PageDelay); err != nil {
				return c.stop(&res, StopCanceled), err
			}
			c.state = StateCollecting
		}
	}
	return res, nil
}

func (c *Controller) stop(res *Result, reason StopReason) Result {
	c.state = StateDone
	res.Reason = reason
	return *res
}

// collect snapshots the listing page and runs cb for every new link until
// the cap. It returns how many URLs this page admitted.
func (c *Controller) collect(ctx context.Context, sess browser.Session, listingURL string, page int, cb Callback, res *Result) (int, error) {
	raw, err := sess.HTML(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot listing page %d: %w", page, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("parse listing page %d: %w", page, err)
	}

	links := CollectDetailLinks(doc, listingURL)
	c.logger.Info("collected company links", "page", page, "count", len(links))

	admitted := 0
	for _, link := range links {
		if c.seen.IsSeen(link) {
			c.metrics.LinksSkipped.Add(1)
			continue
		}
		if res.Admitted >= c.opts.MaxCompanies {
			break
		}

		c.seen.MarkSeen(link)
		res.Admitted++
		admitted++
		c.metrics.LinksDiscovered.Add(1)

		c.logger.Info("scraping company", "n", res.Admitted, "max", c.opts.MaxCompanies, "url", link)
		if err := cb(ctx, link); err != nil {
			if ctx.Err() != nil {
				return admitted, ctx.Err()
			}
			res.Failed++
			c.logger.Warn("company callback failed", "url", link, "error", err)
			continue
		}
		res.Succeeded++
	}
	return admitted, nil
}

// landed reports whether an advance stayed on the listing. A landing on a
// profile page or another host counts as drift.
func (c *Controller) landed(sess browser.Session, previous string) bool {
	live := sess.URL()
	if live == "" || pagination.IsDetailURL(live) || !sameHost(live, previous) {
		c.logger.Warn("advance landed off the listing", "url", live, "listing", previous)
		c.metrics.DriftRecoveries.Add(1)
		return false
	}
	return true
}

func sameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return strings.EqualFold(ua.Host, ub.Host)
}
