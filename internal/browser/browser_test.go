package browser_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/IshaanNene/bizgoat/internal/browser"
	"github.com/IshaanNene/bizgoat/internal/browser/browsertest"
	"github.com/IshaanNene/bizgoat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	loginURL   = "https://www.bia.ge/Account/Login?ReturnUrl=%2FEN%2Fmybia"
	accountURL = "https://www.bia.ge/EN/mybia"
	loginPage  = `<html><body>
<form id="UserLoginForm" action="/Account/Login" method="post">
  <input name="Email" type="text">
  <input name="Password" type="password">
</form>
</body></html>`
)

func TestLoginFillsAndSubmits(t *testing.T) {
	sess := browsertest.New(map[string]string{loginURL: loginPage, accountURL: "<html><body>ok</body></html>"})
	sess.Scripts[`const f = document.querySelector("#UserLoginForm"); if (f) { f.submit(); }`] = accountURL

	creds := browser.Credentials{LoginURL: loginURL, Email: "user@example.com", Password: "secret"}
	if err := browser.Login(context.Background(), sess, creds, testLogger); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if got := sess.Fills[`#UserLoginForm input[name="Email"]`]; got != "user@example.com" {
		t.Errorf("email field = %q", got)
	}
	if got := sess.Fills[`#UserLoginForm input[name="Password"]`]; got != "secret" {
		t.Errorf("password field = %q", got)
	}
	if len(sess.Evals) != 1 {
		t.Errorf("expected one form submit, got %d", len(sess.Evals))
	}
	if sess.URL() != accountURL {
		t.Errorf("URL() = %q, want %q", sess.URL(), accountURL)
	}
}

func TestLoginStillOnLoginPageIsNotFatal(t *testing.T) {
	sess := browsertest.New(map[string]string{loginURL: loginPage})

	creds := browser.Credentials{LoginURL: loginURL, Email: "user@example.com", Password: "wrong"}
	if err := browser.Login(context.Background(), sess, creds, testLogger); err != nil {
		t.Fatalf("a rejected login must only warn, got %v", err)
	}
}

func TestLoginMissingForm(t *testing.T) {
	sess := browsertest.New(map[string]string{loginURL: "<html><body>maintenance</body></html>"})

	err := browser.Login(context.Background(), sess, browser.Credentials{LoginURL: loginURL}, testLogger)
	var navErr *types.NavigationError
	if !errors.As(err, &navErr) {
		t.Fatalf("expected NavigationError, got %v", err)
	}
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound in chain, got %v", err)
	}
}

func TestPauseHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := browser.Pause(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Pause on canceled ctx = %v", err)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"a":       "a",
		"secret":  "s*****",
		"პაროლი": "პ*****",
	}
	for in, want := range tests {
		if got := browser.MaskSecret(in); got != want {
			t.Errorf("MaskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}
