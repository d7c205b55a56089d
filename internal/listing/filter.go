package listing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/IshaanNene/bizgoat/internal/browser"
	"github.com/IshaanNene/bizgoat/internal/types"
)

// Selectors of the advanced search form.
const (
	advancedSearchOpener = "#AdvancedSearchOpener"
	industryMenuItem     = "#tpmiIndustry"
	categoryInput        = `input[name*="ServiceCategoriesIds"][type="text"]`
	autocompleteOption   = `.autocomplete-suggestions li, .ui-autocomplete li, [role="option"]`
	scopedAddButton      = `tr:has(input[name*="ServiceCategoriesIds"]) .form-list-button-add.add, ` +
		`.form-list:has(input[name*="ServiceCategoriesIds"]) .form-list-button-add.add`
	addButton            = ".form-list-button-add.add"
	advancedSearchSubmit = "#AdvancedSearchSubmit"
	resultRow            = "li.row-box"
	advancedSearchPath   = "/Company/AdvancedSearch"
)

// Filter describes how the first results page is reached. StepDelay is the
// pause unit between form interactions while widgets animate.
type Filter struct {
	BaseURL   string
	SearchURL string
	Category  string
	StepDelay time.Duration
}

// filterStep is one interaction of the search form, followed by a pause of
// units*StepDelay.
type filterStep struct {
	name  string
	run   func(ctx context.Context) error
	units int
}

// ApplyFilter opens the first results page and returns its URL. With a
// category it drives the advanced search form; without one it opens
// SearchURL directly.
func ApplyFilter(ctx context.Context, sess browser.Session, f Filter, waitTimeout time.Duration, logger *slog.Logger) (string, error) {
	if f.Category == "" {
		logger.Info("no search category configured, opening search page", "url", f.SearchURL)
		if err := sess.Navigate(ctx, f.SearchURL); err != nil {
			return "", &types.NavigationError{URL: f.SearchURL, Step: "open search page", Err: err}
		}
		waitResults(ctx, sess, waitTimeout, logger)
		return sess.URL(), nil
	}

	visibleClick := func(selector string) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			if err := sess.WaitVisible(ctx, selector, waitTimeout); err != nil {
				return err
			}
			return sess.Click(ctx, selector)
		}
	}

	steps := []filterStep{
		{name: "open home page", units: 2, run: func(ctx context.Context) error {
			return sess.Navigate(ctx, f.BaseURL)
		}},
		{name: "open advanced search", units: 4, run: visibleClick(advancedSearchOpener)},
		{name: "select industry filter", units: 2, run: visibleClick(industryMenuItem)},
		{name: "enter category", units: 3, run: func(ctx context.Context) error {
			if err := sess.WaitVisible(ctx, categoryInput, waitTimeout); err != nil {
				return err
			}
			return sess.Fill(ctx, categoryInput, f.Category)
		}},
		{name: "pick suggestion", units: 1, run: func(ctx context.Context) error {
			if err := sess.WaitVisible(ctx, autocompleteOption, 5*time.Second); err == nil {
				if err := sess.Click(ctx, autocompleteOption); err == nil {
					return nil
				}
			}
			logger.Warn("autocomplete dropdown not found, pressing Enter")
			return sess.PressEnter(ctx, categoryInput)
		}},
		{name: "add category", units: 2, run: func(ctx context.Context) error {
			if err := sess.Click(ctx, scopedAddButton); err == nil {
				return nil
			}
			return visibleClick(addButton)(ctx)
		}},
		{name: "submit search", run: func(ctx context.Context) error {
			if err := visibleClick(advancedSearchSubmit)(ctx); err != nil {
				return err
			}
			return sess.WaitSettled(ctx)
		}},
	}

	for _, step := range steps {
		logger.Info("search filter step", "step", step.name)
		if err := step.run(ctx); err != nil {
			return "", &types.NavigationError{URL: sess.URL(), Step: step.name, Err: err}
		}
		if err := browser.Pause(ctx, time.Duration(step.units)*f.StepDelay); err != nil {
			return "", err
		}
	}

	current := sess.URL()
	logger.Info("search submitted", "url", current, "category", f.Category)
	if !strings.Contains(current, advancedSearchPath) {
		logger.Warn("unexpected results URL", "expected_path", advancedSearchPath, "url", current)
	}
	waitResults(ctx, sess, waitTimeout, logger)
	return current, nil
}

func waitResults(ctx context.Context, sess browser.Session, timeout time.Duration, logger *slog.Logger) {
	if err := sess.WaitVisible(ctx, resultRow, timeout); err != nil {
		logger.Warn("timed out waiting for result rows; results may be empty", "error", err)
	}
}
