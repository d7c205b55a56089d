// Package pagination finds and triggers the "next page" control of a
// search-results listing whose markup is not stable across deployments.
//
// Discovery runs a cascade of progressively looser lookups over a DOM
// snapshot. The first tier yielding a usable element wins; within a tier
// the first match in document order wins. A failing or panicking lookup is
// a miss for that tier only.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/bizgoat/internal/browser"
	"github.com/IshaanNene/bizgoat/internal/observability"
	"github.com/IshaanNene/bizgoat/internal/types"
)

// Tier identifies the cascade level that produced a Target.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierVariant
	TierText
	TierContainer
	TierScan
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierVariant:
		return "variant"
	case TierText:
		return "text"
	case TierContainer:
		return "container"
	case TierScan:
		return "scan"
	default:
		return "none"
	}
}

// ExactSelector is the site's own next-page control.
const ExactSelector = ".form-button-paging.button-next"

const (
	variantSelector = "div.form-button-paging.button-next, div.button-next, .button-next, " +
		"a[rel='next'], .pagination a.next, .pager a.next, " +
		"a.next, li.next > a, a.next-page, button.next"
	textSelector = "a, button, [role='button'], input[type='button'], input[type='submit'], " +
		".form-button-paging"
	containerSelector = ".pagination, .pager, [class*='pagination'], [class*='Pagination'], " +
		"[class*='pager'], [class*='Pager'], [class*='paging'], nav, [role='navigation']"
	controlSelector = "a, button, [onclick], [role='button']"
)

// Target is a discovered next-page control. Selector addresses the element
// in the live page; Script and Href are fallbacks when clicking fails.
type Target struct {
	Tier     Tier
	Selector string
	Script   string
	Href     string
	Text     string
}

type strategy struct {
	tier Tier
	find func(doc *goquery.Document, current int) *goquery.Selection
}

var strategies = []strategy{
	{TierExact, findExact},
	{TierVariant, findVariant},
	{TierText, findByText},
	{TierContainer, findInContainer},
	{TierScan, findByScan},
}

// Discover runs the cascade over doc. pageURL resolves relative hrefs;
// current is the 1-based number of the page doc shows.
func Discover(doc *goquery.Document, pageURL string, current int) (Target, bool) {
	for _, p := range strategies {
		sel := safeFind(p, doc, current)
		if sel == nil || sel.Length() == 0 {
			continue
		}
		href, _ := sel.Attr("href")
		return Target{
			Tier:     p.tier,
			Selector: cssPath(sel),
			Script:   scriptOf(sel),
			Href:     resolveHref(pageURL, href),
			Text:     label(sel),
		}, true
	}
	return Target{}, false
}

func safeFind(p strategy, doc *goquery.Document, current int) (sel *goquery.Selection) {
	defer func() {
		if r := recover(); r != nil {
			sel = nil
		}
	}()
	return p.find(doc, current)
}

func first(sel *goquery.Selection, match func(*goquery.Selection) bool) *goquery.Selection {
	var found *goquery.Selection
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if match(s) {
			found = s
			return false
		}
		return true
	})
	return found
}

func findExact(doc *goquery.Document, _ int) *goquery.Selection {
	return first(doc.Find(ExactSelector), usable)
}

func findVariant(doc *goquery.Document, _ int) *goquery.Selection {
	return first(doc.Find(variantSelector), usable)
}

func findByText(doc *goquery.Document, _ int) *goquery.Selection {
	return first(doc.Find(textSelector), func(s *goquery.Selection) bool {
		return usable(s) && isNextLabel(label(s))
	})
}

func findInContainer(doc *goquery.Document, current int) *goquery.Selection {
	want := strconv.Itoa(current + 1)
	var found *goquery.Selection
	doc.Find(containerSelector).EachWithBreak(func(_ int, c *goquery.Selection) bool {
		found = first(c.Find(controlSelector), func(s *goquery.Selection) bool {
			if !usable(s) || isCurrent(s) {
				return false
			}
			text := label(s)
			if containsNextWord(text) || text == want {
				return true
			}
			href, _ := s.Attr("href")
			return pageFrom(hrefPagePattern, href) == current+1
		})
		return found == nil
	})
	return found
}

func findByScan(doc *goquery.Document, current int) *goquery.Selection {
	want := strconv.Itoa(current + 1)
	return first(doc.Find(controlSelector), func(s *goquery.Selection) bool {
		if !usable(s) {
			return false
		}
		text := label(s)
		if isNextLabel(text) {
			return true
		}
		href, _ := s.Attr("href")
		if pageFrom(hrefPagePattern, href) == current+1 {
			return true
		}
		onclick, _ := s.Attr("onclick")
		if pageFrom(onclickPagePattern, onclick) == current+1 {
			return true
		}
		if text == want && s.Closest(containerSelector).Length() > 0 {
			return true
		}
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		marker := strings.ToLower(class + " " + id)
		return strings.Contains(marker, "next") && !strings.Contains(marker, "disabled")
	})
}

// Navigator drives discovery and activation against a live session.
type Navigator struct {
	logger      *slog.Logger
	metrics     *observability.Metrics
	waitTimeout time.Duration
}

// NewNavigator creates a Navigator. waitTimeout bounds the wait for the
// exact control to render before falling back to the looser tiers.
func NewNavigator(logger *slog.Logger, metrics *observability.Metrics, waitTimeout time.Duration) *Navigator {
	if metrics == nil {
		metrics = observability.NewMetrics(logger)
	}
	return &Navigator{
		logger:      logger.With("component", "pagination"),
		metrics:     metrics,
		waitTimeout: waitTimeout,
	}
}

// IsDetailURL reports whether u is a company profile page.
func IsDetailURL(u string) bool {
	return detailPathPattern.MatchString(u)
}

// EnsureListing re-navigates to listingURL when the session has drifted to
// a page that is neither the listing nor a company profile.
func (n *Navigator) EnsureListing(ctx context.Context, sess browser.Session, listingURL string) error {
	live := sess.URL()
	if live == listingURL || IsDetailURL(live) {
		return nil
	}
	n.logger.Warn("listing drift detected, re-navigating", "expected", listingURL, "actual", live)
	n.metrics.DriftRecoveries.Add(1)
	if err := sess.Navigate(ctx, listingURL); err != nil {
		return &types.NavigationError{URL: listingURL, Step: "drift recovery", Err: err}
	}
	return nil
}

// Find locates the next-page control on the listing showing page current.
// It returns types.ErrNoNextPage when every tier misses.
func (n *Navigator) Find(ctx context.Context, sess browser.Session, listingURL string, current int) (Target, error) {
	if err := n.EnsureListing(ctx, sess, listingURL); err != nil {
		return Target{}, err
	}

	if n.waitTimeout > 0 {
		if err := sess.WaitVisible(ctx, ExactSelector, n.waitTimeout); err != nil {
			if ctx.Err() != nil {
				return Target{}, ctx.Err()
			}
			n.logger.Debug("exact next control not visible, trying looser tiers", "page", current)
		}
	}

	raw, err := sess.HTML(ctx)
	if err != nil {
		return Target{}, fmt.Errorf("snapshot listing page %d: %w", current, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return Target{}, fmt.Errorf("parse listing page %d: %w", current, err)
	}

	target, ok := Discover(doc, sess.URL(), current)
	if !ok {
		n.metrics.RecordTier(0)
		n.logger.Info("no next page control found", "page", current)
		return Target{}, types.ErrNoNextPage
	}

	n.metrics.RecordTier(int(target.Tier))
	n.logger.Debug("next page control found",
		"page", current,
		"tier", target.Tier.String(),
		"selector", target.Selector,
		"text", target.Text,
	)
	return target, nil
}

// Advance activates t: a click on its selector, then its script, then its
// href, stopping at the first that succeeds.
func (n *Navigator) Advance(ctx context.Context, sess browser.Session, t Target) error {
	var errs []error

	if t.Selector != "" {
		err := sess.Click(ctx, t.Selector)
		if err == nil {
			return n.settle(ctx, sess)
		}
		errs = append(errs, fmt.Errorf("click: %w", err))
		n.logger.Debug("click on next control failed", "selector", t.Selector, "error", err)
	}

	if t.Script != "" {
		err := sess.Eval(ctx, t.Script)
		if err == nil {
			return n.settle(ctx, sess)
		}
		errs = append(errs, fmt.Errorf("script: %w", err))
		n.logger.Debug("next control script failed", "error", err)
	}

	if t.Href != "" {
		err := sess.Navigate(ctx, t.Href)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("navigate: %w", err))
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("target has no selector, script or href"))
	}
	return &types.NavigationError{URL: sess.URL(), Step: "advance page", Err: errors.Join(errs...)}
}

func (n *Navigator) settle(ctx context.Context, sess browser.Session) error {
	if err := sess.WaitSettled(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n.logger.Debug("page did not settle after advance", "error", err)
	}
	return nil
}
