package storage

import (
	"context"
	"log/slog"

	"github.com/IshaanNene/bizgoat/internal/types"
)

// Sink is the interface for all record destinations.
type Sink interface {
	// Append persists one business record.
	Append(ctx context.Context, rec *types.Business) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the sink identifier.
	Name() string
}

// --- Multi-Sink Fan-Out ---

// MultiSink writes every record to several sinks.
type MultiSink struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewMultiSink creates a sink that fans out to sinks in order.
func NewMultiSink(sinks []Sink, logger *slog.Logger) *MultiSink {
	return &MultiSink{
		sinks:  sinks,
		logger: logger.With("component", "multi_sink"),
	}
}

func (s *MultiSink) Name() string { return "multi" }

// Append writes rec to every sink. A failing sink does not stop the others;
// the first error is returned.
func (s *MultiSink) Append(ctx context.Context, rec *types.Business) error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Append(ctx, rec); err != nil {
			s.logger.Error("sink append failed", "sink", sink.Name(), "url", rec.ProfileURL, "error", err)
			if firstErr == nil {
				firstErr = &types.StorageError{Backend: sink.Name(), Err: err}
			}
		}
	}
	return firstErr
}

func (s *MultiSink) Close() error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			s.logger.Error("sink close failed", "sink", sink.Name(), "error", err)
			if firstErr == nil {
				firstErr = &types.StorageError{Backend: sink.Name(), Err: err}
			}
		}
	}
	return firstErr
}
