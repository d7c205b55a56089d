package crawl

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/IshaanNene/bizgoat/internal/types"
)

// BuildSnapshot captures records and failed URLs at now. The snapshot owns
// its slices; later changes to the inputs do not affect it.
func BuildSnapshot(records []*types.Business, failed []string, runID string, now time.Time) *types.CheckpointSnapshot {
	snap := &types.CheckpointSnapshot{
		GeneratedAt: now.UTC(),
		RunID:       runID,
		Count:       len(records),
		FailedCount: len(failed),
		Businesses:  make([]*types.Business, len(records)),
		FailedURLs:  make([]string, len(failed)),
	}
	copy(snap.Businesses, records)
	copy(snap.FailedURLs, failed)
	return snap
}

// CheckpointWriter overwrites a single checkpoint file.
type CheckpointWriter struct {
	path   string
	logger *slog.Logger
}

// NewCheckpointWriter creates a writer for path.
func NewCheckpointWriter(path string, logger *slog.Logger) *CheckpointWriter {
	return &CheckpointWriter{
		path:   path,
		logger: logger.With("component", "checkpoint"),
	}
}

// Path returns the checkpoint location.
func (w *CheckpointWriter) Path() string { return w.path }

// Flush replaces the checkpoint with snap. The file is written beside the
// target and renamed into place, so readers never see a partial document.
func (w *CheckpointWriter) Flush(snap *types.CheckpointSnapshot) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	tmpPath := w.path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create checkpoint file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close checkpoint file: %w", err)
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		return fmt.Errorf("rename checkpoint file: %w", err)
	}

	w.logger.Info("checkpoint saved", "path", w.path, "count", snap.Count, "failed", snap.FailedCount)
	return nil
}

// LoadCheckpoint reads the checkpoint at path. A missing file returns an
// error satisfying errors.Is(err, fs.ErrNotExist).
func LoadCheckpoint(path string) (*types.CheckpointSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snap types.CheckpointSnapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	if snap.Businesses == nil {
		snap.Businesses = []*types.Business{}
	}
	if snap.FailedURLs == nil {
		snap.FailedURLs = []string{}
	}
	return &snap, nil
}

// HasCheckpoint reports whether a checkpoint exists at path.
func HasCheckpoint(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
