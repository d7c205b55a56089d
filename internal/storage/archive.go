package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

const (
	archiveExt    = ".html.br"
	archivePrefix = "<!-- bizgoat-archive "
	archiveSuffix = " -->"
)

// ArchivedPage is a raw detail page kept for later reparsing.
type ArchivedPage struct {
	Key        string
	URL        string
	HTML       string
	CapturedAt time.Time
}

// PageArchive stores brotli-compressed detail pages as <key>.html.br files.
// The first line of each file records the source URL and capture time.
type PageArchive struct {
	dir    string
	logger *slog.Logger
}

// NewPageArchive creates dir if needed.
func NewPageArchive(dir string, logger *slog.Logger) (*PageArchive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &PageArchive{dir: dir, logger: logger.With("component", "page_archive")}, nil
}

// Dir returns the archive directory.
func (a *PageArchive) Dir() string { return a.dir }

// Write stores page under page.Key, replacing any previous copy, and
// returns the compressed size.
func (a *PageArchive) Write(page ArchivedPage) (int64, error) {
	if page.Key == "" || strings.ContainsAny(page.Key, `/\`) {
		return 0, fmt.Errorf("invalid archive key %q", page.Key)
	}

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	fmt.Fprintf(w, "%s%s %s%s\n", archivePrefix, page.URL, page.CapturedAt.UTC().Format(time.RFC3339), archiveSuffix)
	if _, err := io.WriteString(w, page.HTML); err != nil {
		return 0, fmt.Errorf("compress page: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("compress page: %w", err)
	}

	path := filepath.Join(a.dir, page.Key+archiveExt)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("write archive: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, fmt.Errorf("rename archive: %w", err)
	}
	a.logger.Debug("page archived", "key", page.Key, "bytes", buf.Len())
	return int64(buf.Len()), nil
}

// Read loads the page stored under key.
func (a *PageArchive) Read(key string) (ArchivedPage, error) {
	f, err := os.Open(filepath.Join(a.dir, key+archiveExt))
	if err != nil {
		return ArchivedPage{}, err
	}
	defer f.Close()

	r := bufio.NewReader(brotli.NewReader(f))
	first, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ArchivedPage{}, fmt.Errorf("read archive %s: %w", key, err)
	}
	page := ArchivedPage{Key: key}
	if meta, ok := parseArchiveHeader(first); ok {
		page.URL, page.CapturedAt = meta.url, meta.at
	} else {
		// No header line: the whole stream is markup.
		page.HTML = first
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		return ArchivedPage{}, fmt.Errorf("read archive %s: %w", key, err)
	}
	page.HTML += string(rest)
	return page, nil
}

// Keys lists the archived page keys in sorted order.
func (a *PageArchive) Keys() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(a.dir, "*"+archiveExt))
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, strings.TrimSuffix(filepath.Base(m), archiveExt))
	}
	sort.Strings(keys)
	return keys, nil
}

type archiveMeta struct {
	url string
	at  time.Time
}

func parseArchiveHeader(line string) (archiveMeta, bool) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, archivePrefix) || !strings.HasSuffix(line, archiveSuffix) {
		return archiveMeta{}, false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(line, archivePrefix), archiveSuffix)
	url, stamp, ok := strings.Cut(body, " ")
	if !ok {
		return archiveMeta{url: body}, true
	}
	at, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return archiveMeta{url: url}, true
	}
	return archiveMeta{url: url, at: at}, true
}
