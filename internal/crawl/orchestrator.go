// Package crawl drives a listing traversal with a callback that scrapes each
// profile, persists it, and keeps a checkpoint of the run.
package crawl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/IshaanNene/bizgoat/internal/browser"
	"github.com/IshaanNene/bizgoat/internal/listing"
	"github.com/IshaanNene/bizgoat/internal/observability"
	"github.com/IshaanNene/bizgoat/internal/parser"
	"github.com/IshaanNene/bizgoat/internal/storage"
	"github.com/IshaanNene/bizgoat/internal/types"
)

// Options configures an Orchestrator.
type Options struct {
	Listing         listing.Options
	DetailDelay     time.Duration
	CheckpointEvery int
	RunID           string
}

// Deps are the collaborators an Orchestrator writes to. Sink and Archive
// may be nil.
type Deps struct {
	Parser     *parser.DetailParser
	Sink       storage.Sink
	Archive    *storage.PageArchive
	Checkpoint *CheckpointWriter
	Metrics    *observability.Metrics
}

// Summary is the outcome of a run.
type Summary struct {
	RunID     string
	Pages     int
	Admitted  int
	Retried   int
	Succeeded int
	Failed    int
	Total     int
	Reason    listing.StopReason
	Duration  time.Duration
}

// Orchestrator owns the accumulated records and failed URLs of one run. Its
// callback is the only writer; the single browsing session keeps every call
// sequential.
type Orchestrator struct {
	opts    Options
	deps    Deps
	seen    *listing.SeenSet
	logger  *slog.Logger
	records []*types.Business
	failed  []string
	retry   []string

	// index of failed URLs for removal on a successful retry
	failedAt map[string]int

	succeeded int
}

// New creates an Orchestrator.
func New(opts Options, deps Deps, logger *slog.Logger) *Orchestrator {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewDetailParser(logger)
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetrics(logger)
	}
	return &Orchestrator{
		opts:     opts,
		deps:     deps,
		seen:     listing.NewSeenSet(opts.Listing.MaxCompanies),
		logger:   logger.With("component", "orchestrator", "run_id", opts.RunID),
		failedAt: make(map[string]int),
	}
}

// RunID returns the identifier stamped into checkpoints.
func (o *Orchestrator) RunID() string { return o.opts.RunID }

// Records returns the records accumulated so far.
func (o *Orchestrator) Records() []*types.Business { return o.records }

// FailedURLs returns the URLs whose detail page could not be loaded.
func (o *Orchestrator) FailedURLs() []string { return o.failed }

// Resume seeds the run from a previous checkpoint. Its records are kept and
// their URLs are not visited again; its failed URLs are retried before the
// listing is traversed.
func (o *Orchestrator) Resume(prior *types.CheckpointSnapshot) {
	if prior == nil {
		return
	}
	for _, rec := range prior.Businesses {
		if rec == nil {
			continue
		}
		o.records = append(o.records, rec)
		o.seen.Seed(rec.ProfileURL)
	}
	for _, u := range prior.FailedURLs {
		if o.seen.MarkSeen(u) {
			o.retry = append(o.retry, u)
		}
	}
	o.logger.Info("resuming from checkpoint",
		"records", len(o.records),
		"retry", len(o.retry),
		"known_urls", o.seen.Count(),
		"previous_run", prior.RunID,
	)
}

// Run retries carried-over failures, then traverses the listing. A final
// checkpoint is always written, whatever ended the run. A failure to write
// a checkpoint or a lost browser session aborts the run.
func (o *Orchestrator) Run(ctx context.Context, sess browser.Session) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: o.opts.RunID}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	visit := func(ctx context.Context, profileURL string) error {
		return o.visit(ctx, sess, profileURL, cancel)
	}

	var runErr error
	for _, u := range o.retry {
		if ctx.Err() != nil {
			break
		}
		o.logger.Info("retrying failed company", "url", u)
		summary.Retried++
		if err := visit(ctx, u); err != nil {
			o.logger.Warn("retry of failed company did not succeed", "url", u, "error", err)
		}
	}
	o.retry = nil

	if ctx.Err() == nil {
		ctrl := listing.NewController(o.opts.Listing, o.seen, o.deps.Metrics, o.logger)
		res, err := ctrl.Run(ctx, sess, visit)
		o.logger.Debug("listing traversal ended", "state", ctrl.State(), "reason", res.Reason)
		summary.Pages = res.Pages
		summary.Admitted = res.Admitted
		summary.Reason = res.Reason
		runErr = err
	} else {
		summary.Reason = listing.StopCanceled
	}

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		runErr = cause
	} else if runErr == nil {
		runErr = ctx.Err()
	}

	if err := o.flush(); err != nil {
		o.logger.Error("final checkpoint failed", "error", err)
		runErr = errors.Join(runErr, err)
	}

	summary.Succeeded = o.succeeded
	summary.Failed = len(o.failed)
	summary.Total = len(o.records)
	summary.Duration = time.Since(start)

	o.logger.Info("crawl finished",
		"reason", summary.Reason,
		"pages", summary.Pages,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"total_records", summary.Total,
		"duration", summary.Duration.Round(time.Millisecond),
	)
	return summary, runErr
}

// visit scrapes one profile. A load failure records the URL only, and one
// that cannot be retried aborts the run; every success is appended to the sink, archived, and counted toward the
// checkpoint cadence.
func (o *Orchestrator) visit(ctx context.Context, sess browser.Session, profileURL string, abort context.CancelCauseFunc) error {
	rec, snap, err := o.deps.Parser.Scrape(ctx, sess, profileURL)
	if err != nil {
		o.deps.Metrics.RecordsFailed.Add(1)
		o.markFailed(profileURL)
		var fe *types.FetchError
		if errors.As(err, &fe) && !fe.IsRetryable() {
			err = fmt.Errorf("browser session lost: %w", err)
			abort(err)
			return err
		}
		o.logger.Warn("company scrape failed", "url", profileURL, "error", err)
		if perr := browser.Pause(ctx, o.opts.DetailDelay); perr != nil {
			return perr
		}
		return err
	}

	o.records = append(o.records, rec)
	o.clearFailed(profileURL)
	o.succeeded++
	o.deps.Metrics.RecordsScraped.Add(1)
	o.logger.Info("company scraped", "url", profileURL, "name", rec.DisplayName(), "total", len(o.records))

	if o.deps.Sink != nil {
		if err := o.deps.Sink.Append(ctx, rec.Clone()); err != nil {
			o.deps.Metrics.SinkErrors.Add(1)
			o.logger.Error("record append failed", "url", profileURL, "sink", o.deps.Sink.Name(), "error", err)
		} else {
			o.deps.Metrics.RecordsStored.Add(1)
		}
	}
	o.archive(rec, snap)

	if o.opts.CheckpointEvery > 0 && o.succeeded%o.opts.CheckpointEvery == 0 {
		if err := o.flush(); err != nil {
			err = fmt.Errorf("checkpoint after %d records: %w", o.succeeded, err)
			abort(err)
			return err
		}
	}

	return browser.Pause(ctx, o.opts.DetailDelay)
}

func (o *Orchestrator) archive(rec *types.Business, snap *parser.Snapshot) {
	if o.deps.Archive == nil || snap == nil {
		return
	}
	n, err := o.deps.Archive.Write(storage.ArchivedPage{
		Key:        ArchiveKey(rec),
		URL:        snap.URL,
		HTML:       snap.HTML,
		CapturedAt: snap.CapturedAt,
	})
	if err != nil {
		o.logger.Warn("page archive failed", "url", rec.ProfileURL, "error", err)
		return
	}
	o.deps.Metrics.PagesArchived.Add(1)
	o.deps.Metrics.BytesArchived.Add(n)
}

func (o *Orchestrator) flush() error {
	if o.deps.Checkpoint == nil {
		return nil
	}
	snap := BuildSnapshot(o.records, o.failed, o.opts.RunID, time.Now())
	if err := o.deps.Checkpoint.Flush(snap); err != nil {
		return err
	}
	o.deps.Metrics.Checkpoints.Add(1)
	return nil
}

func (o *Orchestrator) markFailed(u string) {
	if _, ok := o.failedAt[u]; ok {
		return
	}
	o.failedAt[u] = len(o.failed)
	o.failed = append(o.failed, u)
}

func (o *Orchestrator) clearFailed(u string) {
	i, ok := o.failedAt[u]
	if !ok {
		return
	}
	o.failed = append(o.failed[:i], o.failed[i+1:]...)
	delete(o.failedAt, u)
	for j := i; j < len(o.failed); j++ {
		o.failedAt[o.failed[j]] = j
	}
}

// ArchiveKey names the archived page of rec: the company id, or a hash of
// the profile URL when the id is unknown.
func ArchiveKey(rec *types.Business) string {
	if rec.ID != nil && *rec.ID != "" {
		return *rec.ID
	}
	h := sha256.Sum256([]byte(rec.ProfileURL))
	return "url-" + hex.EncodeToString(h[:8])
}
