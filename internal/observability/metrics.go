package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// TierCount is the number of pagination discovery tiers.
const TierCount = 5

// Metrics tracks operational metrics for a crawl run.
type Metrics struct {
	// Detail metrics
	RecordsScraped atomic.Int64
	RecordsFailed  atomic.Int64
	RecordsStored  atomic.Int64
	PagesArchived  atomic.Int64

	// Listing metrics
	ListingPages    atomic.Int64
	LinksDiscovered atomic.Int64
	LinksSkipped    atomic.Int64
	DriftRecoveries atomic.Int64

	// Pagination discovery hits, indexed by tier-1
	TierHits   [TierCount]atomic.Int64
	TierMisses atomic.Int64

	// Persistence metrics
	Checkpoints   atomic.Int64
	SinkErrors    atomic.Int64
	BytesArchived atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// RecordTier counts a discovery hit for tier (1-based). Out of range
// tiers count as misses.
func (m *Metrics) RecordTier(tier int) {
	if tier < 1 || tier > TierCount {
		m.TierMisses.Add(1)
		return
	}
	m.TierHits[tier-1].Add(1)
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"bizgoat_records_scraped_total", "Total detail pages parsed into records", m.RecordsScraped.Load()},
		{"bizgoat_records_failed_total", "Total detail pages that failed to load", m.RecordsFailed.Load()},
		{"bizgoat_records_stored_total", "Total records appended to sinks", m.RecordsStored.Load()},
		{"bizgoat_pages_archived_total", "Total detail snapshots archived", m.PagesArchived.Load()},
		{"bizgoat_listing_pages_total", "Total listing pages visited", m.ListingPages.Load()},
		{"bizgoat_links_discovered_total", "Total detail links admitted", m.LinksDiscovered.Load()},
		{"bizgoat_links_skipped_total", "Total detail links skipped as already seen", m.LinksSkipped.Load()},
		{"bizgoat_navigation_drift_total", "Total listing drift recoveries", m.DriftRecoveries.Load()},
		{"bizgoat_pagination_misses_total", "Total pagination lookups with no next control", m.TierMisses.Load()},
		{"bizgoat_checkpoints_total", "Total checkpoints written", m.Checkpoints.Load()},
		{"bizgoat_sink_errors_total", "Total record sink failures", m.SinkErrors.Load()},
		{"bizgoat_archive_bytes_total", "Total compressed bytes archived", m.BytesArchived.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}

	fmt.Fprintf(w, "# HELP bizgoat_pagination_tier_hits_total Next-page controls found per discovery tier\n")
	fmt.Fprintf(w, "# TYPE bizgoat_pagination_tier_hits_total counter\n")
	for i := range m.TierHits {
		fmt.Fprintf(w, "bizgoat_pagination_tier_hits_total{tier=\"%d\"} %d\n", i+1, m.TierHits[i].Load())
	}
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	snap := map[string]int64{
		"records_scraped":  m.RecordsScraped.Load(),
		"records_failed":   m.RecordsFailed.Load(),
		"records_stored":   m.RecordsStored.Load(),
		"pages_archived":   m.PagesArchived.Load(),
		"listing_pages":    m.ListingPages.Load(),
		"links_discovered": m.LinksDiscovered.Load(),
		"links_skipped":    m.LinksSkipped.Load(),
		"drift_recoveries": m.DriftRecoveries.Load(),
		"tier_misses":      m.TierMisses.Load(),
		"checkpoints":      m.Checkpoints.Load(),
		"sink_errors":      m.SinkErrors.Load(),
		"archive_bytes":    m.BytesArchived.Load(),
	}
	for i := range m.TierHits {
		snap[fmt.Sprintf("tier%d_hits", i+1)] = m.TierHits[i].Load()
	}
	return snap
}
