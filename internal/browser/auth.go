package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/IshaanNene/bizgoat/internal/types"
)

const (
	loginForm          = "#UserLoginForm"
	loginEmailField    = `#UserLoginForm input[name="Email"]`
	loginPasswordField = `#UserLoginForm input[name="Password"]`
	loginSubmitJS      = `const f = document.querySelector("#UserLoginForm"); if (f) { f.submit(); }`
)

// Credentials is the account used to sign in to the registry.
type Credentials struct {
	LoginURL string
	Email    string
	Password string
}

// Login signs the session in. A page that still looks like the login form
// afterwards is logged, not treated as failure: listings stay browsable
// anonymously with fewer fields.
func Login(ctx context.Context, sess Session, creds Credentials, logger *slog.Logger) error {
	logger = logger.With("component", "auth")

	logger.Info("navigating to login page", "url", creds.LoginURL)
	if err := sess.Navigate(ctx, creds.LoginURL); err != nil {
		return &types.NavigationError{URL: creds.LoginURL, Step: "open login page", Err: err}
	}

	if err := sess.WaitVisible(ctx, loginForm, 15*time.Second); err != nil {
		return &types.NavigationError{URL: creds.LoginURL, Step: "wait login form", Err: err}
	}

	if err := sess.Fill(ctx, loginEmailField, creds.Email); err != nil {
		return &types.NavigationError{URL: creds.LoginURL, Step: "type email", Err: err}
	}
	if err := Pause(ctx, 200*time.Millisecond); err != nil {
		return err
	}
	if err := sess.Fill(ctx, loginPasswordField, creds.Password); err != nil {
		return &types.NavigationError{URL: creds.LoginURL, Step: "type password", Err: err}
	}
	if err := Pause(ctx, 200*time.Millisecond); err != nil {
		return err
	}

	if err := sess.Eval(ctx, loginSubmitJS); err != nil {
		return &types.NavigationError{URL: creds.LoginURL, Step: "submit", Err: err}
	}
	if err := sess.WaitSettled(ctx); err != nil {
		logger.Warn("post-login navigation did not settle", "error", err)
	}

	current := sess.URL()
	if strings.Contains(current, "Login") {
		logger.Warn("still on login page after submit, check credentials", "url", current)
		return nil
	}

	logger.Info("login complete", "url", current)
	return nil
}

// MaskSecret hides all but the first character of s.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	return fmt.Sprintf("%c%s", r[0], strings.Repeat("*", len(r)-1))
}
