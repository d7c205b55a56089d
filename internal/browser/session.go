package browser

import (
	"context"
	"time"
)

// Session is a single navigable browsing context. Every call is a suspension
// point; callers never issue two calls concurrently on the same Session.
type Session interface {
	// Navigate loads url and waits until the page has settled.
	Navigate(ctx context.Context, url string) error

	// URL returns the address of the current document, or "" when unknown.
	URL() string

	// HTML returns the serialized live DOM of the current document.
	HTML(ctx context.Context) (string, error)

	// WaitVisible waits up to timeout for selector to match a visible element.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// Click scrolls the first element matching selector into view and clicks it.
	Click(ctx context.Context, selector string) error

	// Fill replaces the value of the input matching selector with text.
	Fill(ctx context.Context, selector, text string) error

	// PressEnter focuses the element matching selector and presses Enter.
	PressEnter(ctx context.Context, selector string) error

	// Eval runs a JavaScript statement body in the page.
	Eval(ctx context.Context, js string) error

	// WaitSettled waits for a pending navigation or DOM update to finish.
	WaitSettled(ctx context.Context) error

	// Close releases the browsing context and its browser.
	Close() error
}

// Pause waits for d or until ctx is done.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
