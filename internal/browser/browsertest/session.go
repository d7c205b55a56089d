// Package browsertest provides an in-memory browser.Session backed by fixed
// HTML snapshots, for tests that must not launch Chromium.
package browsertest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/bizgoat/internal/browser"
	"github.com/IshaanNene/bizgoat/internal/types"
)

var _ browser.Session = (*Session)(nil)

const blankPage = "<html><head></head><body></body></html>"

// Session serves Pages by URL. Clicking an element navigates to its
// data-goto attribute, or to its href when that is a plain link. Eval
// navigates when the script has an entry in Scripts.
type Session struct {
	mu sync.Mutex

	Pages     map[string]string
	Scripts   map[string]string
	Redirects map[string]string
	Failures  map[string]error

	current string
	closed  bool

	Navigations []string
	Clicks      []string
	Evals       []string
	Fills       map[string]string
	Enters      []string
}

// New returns a Session serving pages.
func New(pages map[string]string) *Session {
	return &Session{
		Pages:     pages,
		Scripts:   make(map[string]string),
		Redirects: make(map[string]string),
		Failures:  make(map[string]error),
		Fills:     make(map[string]string),
	}
}

// SetPage adds or replaces a snapshot.
func (s *Session) SetPage(u, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Pages[u] = html
}

// Goto moves the session to u without recording a navigation.
func (s *Session) Goto(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = u
}

func (s *Session) Navigate(ctx context.Context, u string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrSessionClosed
	}
	s.Navigations = append(s.Navigations, u)
	if err, ok := s.Failures[u]; ok {
		return types.NewFetchError(u, err)
	}
	s.moveTo(u)
	return nil
}

func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", types.ErrSessionClosed
	}
	return s.page(), nil
}

func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.find(selector)
	return err
}

func (s *Session) Click(ctx context.Context, selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, err := s.find(selector)
	if err != nil {
		return err
	}
	s.Clicks = append(s.Clicks, selector)

	if target, ok := sel.Attr("data-goto"); ok {
		s.moveTo(s.resolve(target))
		return nil
	}
	if href, ok := sel.Attr("href"); ok && href != "" && !strings.HasPrefix(href, "#") && !strings.HasPrefix(href, "javascript:") {
		s.moveTo(s.resolve(href))
	}
	return nil
}

func (s *Session) Fill(ctx context.Context, selector, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.find(selector); err != nil {
		return err
	}
	s.Fills[selector] = text
	return nil
}

func (s *Session) PressEnter(ctx context.Context, selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.find(selector); err != nil {
		return err
	}
	s.Enters = append(s.Enters, selector)
	return nil
}

func (s *Session) Eval(ctx context.Context, js string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrSessionClosed
	}
	s.Evals = append(s.Evals, js)
	if target, ok := s.Scripts[js]; ok {
		s.moveTo(s.resolve(target))
	}
	return nil
}

func (s *Session) WaitSettled(ctx context.Context) error {
	return ctx.Err()
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// moveTo moves to u, following at most one redirect. Callers hold mu.
func (s *Session) moveTo(u string) {
	if to, ok := s.Redirects[u]; ok {
		u = to
	}
	s.current = u
}

func (s *Session) page() string {
	if html, ok := s.Pages[s.current]; ok {
		return html
	}
	return blankPage
}

func (s *Session) find(selector string) (*goquery.Selection, error) {
	if s.closed {
		return nil, types.ErrSessionClosed
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.page()))
	if err != nil {
		return nil, err
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, selector)
	}
	return sel, nil
}

func (s *Session) resolve(ref string) string {
	base, err := url.Parse(s.current)
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}
