package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IshaanNene/bizgoat/internal/parser"
	"github.com/IshaanNene/bizgoat/internal/storage"
	"github.com/IshaanNene/bizgoat/internal/types"
)

// Reparse runs the detail parser over every archived page, in key order,
// and returns the records. Pages that cannot be read or hold no
// markup are logged and skipped.
func Reparse(ctx context.Context, archive *storage.PageArchive, p *parser.DetailParser, logger *slog.Logger) ([]*types.Business, error) {
	logger = logger.With("component", "reparse")

	keys, err := archive.Keys()
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}

	records := make([]*types.Business, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		page, err := archive.Read(key)
		if err != nil {
			logger.Warn("skipping unreadable archive entry", "key", key, "error", err)
			continue
		}
		if strings.TrimSpace(page.HTML) == "" {
			err := &types.ParseError{URL: page.URL, Selector: "html", Err: types.ErrEmptyDocument}
			logger.Warn("skipping archive entry", "key", key, "error", err)
			continue
		}
		if page.URL == "" {
			logger.Warn("archive entry has no source URL", "key", key)
		}
		records = append(records, p.Parse(page.HTML, page.URL))
	}

	logger.Info("archive reparsed", "dir", archive.Dir(), "pages", len(keys), "records", len(records))
	return records, nil
}
