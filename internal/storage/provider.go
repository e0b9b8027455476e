// Package storage loads and persists the full set of word records.
package storage

import (
	"context"
	"time"

	"github.com/starford/vocabfix/internal/models"
)

// Provider is the interface for record persistence.
type Provider interface {
	// Load reads every record, in stored order.
	Load(ctx context.Context) ([]*models.Record, error)
	// Save writes back the full record set returned by the last Load.
	Save(ctx context.Context, records []*models.Record) error
	// Location describes where records live, for logs and console output.
	Location() string
	Close() error
}

// Run is the outcome of one correction pass.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Fixed      int
	NotFound   int
	DryRun     bool
}

// RunRecorder is implemented by providers that keep a history of runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, run Run) error
}
