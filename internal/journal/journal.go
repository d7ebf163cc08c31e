// Package journal keeps a history of check runs.
package journal

import (
	"context"
	"time"

	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/report"
)

// Entry is one recorded run
type Entry struct {
	ID         string        `json:"id" yaml:"id"`
	Timestamp  time.Time     `json:"timestamp" yaml:"timestamp"`
	Outcome    string        `json:"outcome" yaml:"outcome"`
	Message    string        `json:"message" yaml:"message"`
	TokenCount int           `json:"token_count" yaml:"token_count"`
	Symbols    int           `json:"symbols" yaml:"symbols"`
	SourceHash string        `json:"source_hash" yaml:"source_hash"`
	Source     string        `json:"source,omitempty" yaml:"source,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Filter defines criteria for listing entries
type Filter struct {
	Outcome string
	Since   time.Time
	Limit   int
}

// Store defines the interface for run persistence
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, filter Filter) ([]*Entry, error)
	Get(ctx context.Context, id string) (*Entry, error)
	Stats(ctx context.Context) (map[string]int64, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// FromResult converts a check result into a journal entry
func FromResult(res *frontend.Result) *Entry {
	return &Entry{
		ID:         res.RunID,
		Timestamp:  res.CheckedAt,
		Outcome:    res.Outcome.String(),
		Message:    report.Verdict(res),
		TokenCount: len(res.Tokens),
		Symbols:    len(res.Symbols),
		SourceHash: res.SourceHash(),
		Source:     res.Source,
		Duration:   res.Durations.Tokenize + res.Durations.Parse,
	}
}
