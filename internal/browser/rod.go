package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/time/rate"

	"github.com/IshaanNene/bizgoat/internal/types"
)

// RodSession implements Session on a single Rod page.
type RodSession struct {
	browser     *rod.Browser
	page        *rod.Page
	limiter     *rate.Limiter
	navTimeout  time.Duration
	waitTimeout time.Duration
	settle      time.Duration
	logger      *slog.Logger
	closed      bool
}

func (s *RodSession) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return types.ErrSessionClosed
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	page := s.page.Context(ctx).Timeout(s.navTimeout)
	if err := page.Navigate(url); err != nil {
		return types.NewFetchError(url, err)
	}
	if err := page.WaitLoad(); err != nil {
		s.logger.Warn("page load wait timed out, continuing", "url", url, "error", err)
	}
	if err := page.WaitStable(s.settle); err != nil {
		s.logger.Debug("page stability timeout, continuing", "url", url, "error", err)
	}
	return nil
}

func (s *RodSession) URL() string {
	if s.closed {
		return ""
	}
	info, err := s.page.Info()
	if err != nil || info == nil {
		return ""
	}
	return info.URL
}

func (s *RodSession) HTML(ctx context.Context) (string, error) {
	if s.closed {
		return "", types.ErrSessionClosed
	}
	return s.page.Context(ctx).Timeout(s.waitTimeout).HTML()
}

func (s *RodSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	el, err := s.element(ctx, selector, timeout)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func (s *RodSession) Click(ctx context.Context, selector string) error {
	el, err := s.element(ctx, selector, s.waitTimeout)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		s.logger.Debug("scroll into view failed", "selector", selector, "error", err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (s *RodSession) Fill(ctx context.Context, selector, text string) error {
	el, err := s.element(ctx, selector, s.waitTimeout)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		s.logger.Debug("select text failed", "selector", selector, "error", err)
	}
	return el.Input(text)
}

func (s *RodSession) PressEnter(ctx context.Context, selector string) error {
	el, err := s.element(ctx, selector, s.waitTimeout)
	if err != nil {
		return err
	}
	_ = el.Focus()
	return s.page.Keyboard.Press(input.Enter)
}

func (s *RodSession) Eval(ctx context.Context, js string) error {
	if s.closed {
		return types.ErrSessionClosed
	}
	_, err := s.page.Context(ctx).Timeout(s.waitTimeout).Eval(fmt.Sprintf("() => { %s }", js))
	return err
}

func (s *RodSession) WaitSettled(ctx context.Context) error {
	if s.closed {
		return types.ErrSessionClosed
	}
	page := s.page.Context(ctx).Timeout(s.navTimeout)
	if err := page.WaitLoad(); err != nil {
		return err
	}
	return page.WaitStable(s.settle)
}

func (s *RodSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.page.Close()
	return s.browser.Close()
}

// element finds the first match of selector, waiting at most timeout.
func (s *RodSession) element(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error) {
	if s.closed {
		return nil, types.ErrSessionClosed
	}
	el, err := s.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrNotFound, selector, err)
	}
	return el, nil
}
