// Package frontend runs the lexer and parser as one pipeline and reports
// the result of each run.
package frontend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	mdwlog "github.com/msto63/ccp/foundation/core/log"
	"github.com/msto63/ccp/internal/lexer"
	"github.com/msto63/ccp/internal/parser"
	"github.com/msto63/ccp/pkg/core/cache"
)

// Options configures a Checker
type Options struct {
	Logger *mdwlog.Logger
	// MaxSourceBytes rejects larger sources before lexing; 0 disables the
	// limit.
	MaxSourceBytes int
	// CacheSize keeps the token streams of that many recent sources, keyed
	// by content hash; 0 disables the cache.
	CacheSize int
	// CacheTTL bounds how long a cached token stream is reused.
	CacheTTL time.Duration
}

// Checker tokenizes and parses sources. It holds no per-run state and is
// safe for concurrent use.
type Checker struct {
	logger  *mdwlog.Logger
	options Options
	tokens  *cache.Cache[string, scanned]
}

// scanned is a cached lexer outcome
type scanned struct {
	tokens []lexer.Token
	err    error
}

// Durations records how long each stage of a run took.
type Durations struct {
	Tokenize time.Duration
	Parse    time.Duration
}

// Result describes one check run.
type Result struct {
	RunID     string
	Source    string
	Tokens    []lexer.Token
	Symbols   []string
	Err       error
	Outcome   Outcome
	Durations Durations
	CheckedAt time.Time
}

// OK reports whether the source was accepted.
func (r *Result) OK() bool {
	return r.Outcome == OutcomeOK
}

// SourceHash returns the hex SHA-256 of the checked source.
func (r *Result) SourceHash() string {
	return hashSource(r.Source)
}

// New creates a Checker
func New(opts Options) *Checker {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	c := &Checker{
		logger:  opts.Logger.WithField("component", "frontend"),
		options: opts,
	}
	if opts.CacheSize > 0 {
		c.tokens = cache.New[string, scanned](cache.Config{
			MaxItems:        opts.CacheSize,
			TTL:             opts.CacheTTL,
			CleanupInterval: time.Minute,
		})
	}
	return c
}

// Close releases the token cache.
func (c *Checker) Close() {
	if c.tokens != nil {
		c.tokens.Close()
	}
}

// CacheStats reports token cache hits and misses; both are 0 without a
// cache.
func (c *Checker) CacheStats() (hits, misses int64) {
	if c.tokens == nil {
		return 0, 0
	}
	hits, misses, _ = c.tokens.Stats()
	return hits, misses
}

// Check runs the lexer over source and, if that succeeds, the parser over
// the tokens. The first failure of either stage ends the run.
func (c *Checker) Check(ctx context.Context, source string) *Result {
	res := &Result{
		RunID:     uuid.NewString(),
		Source:    source,
		CheckedAt: time.Now(),
	}
	logger := c.logger.WithCorrelationID(res.RunID)

	if err := c.admit(ctx, source); err != nil {
		res.Err = err
		res.Outcome = OutcomeRejected
		logger.WarnWithErr("Source rejected", err, mdwlog.Fields{"bytes": len(source)})
		return res
	}

	timer := logger.StartTimer("tokenize").WithField("bytes", len(source))
	tokens, err := c.tokenize(source)
	if err != nil {
		res.Durations.Tokenize = timer.StopWithError(err)
		return c.finish(logger, res, err)
	}
	res.Durations.Tokenize = timer.WithField("tokens", len(tokens)).Stop()
	res.Tokens = tokens

	p := parser.New(tokens)
	timer = logger.StartTimer("parse").WithField("tokens", len(tokens))
	err = p.Parse()
	if err != nil {
		res.Durations.Parse = timer.StopWithError(err)
	} else {
		res.Durations.Parse = timer.Stop()
	}
	res.Symbols = p.Symbols().Names()
	return c.finish(logger, res, err)
}

// Tokenize runs only the lexer stage.
func (c *Checker) Tokenize(ctx context.Context, source string) ([]lexer.Token, error) {
	if err := c.admit(ctx, source); err != nil {
		return nil, err
	}
	return c.tokenize(source)
}

// tokenize runs the lexer or returns the cached outcome for the same
// source. The lexer is a pure function of its input, so sharing is safe as
// long as callers treat token slices as read-only.
func (c *Checker) tokenize(source string) ([]lexer.Token, error) {
	if c.tokens == nil {
		return lexer.Tokenize(source)
	}
	hash := hashSource(source)
	if hit, ok := c.tokens.Get(hash); ok {
		return hit.tokens, hit.err
	}
	tokens, err := lexer.Tokenize(source)
	c.tokens.Set(hash, scanned{tokens: tokens, err: err})
	return tokens, err
}

func hashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func (c *Checker) admit(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return mdwerror.Wrap(err, "check canceled").
			WithCode(mdwerror.CodeCanceled).
			WithOperation("frontend.Check")
	}
	if limit := c.options.MaxSourceBytes; limit > 0 && len(source) > limit {
		return mdwerror.New(fmt.Sprintf("source exceeds maximum length: %d > %d", len(source), limit)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("frontend.Check").
			WithDetail("limit", limit)
	}
	return nil
}

func (c *Checker) finish(logger *mdwlog.Logger, res *Result, err error) *Result {
	res.Err = err
	res.Outcome = Classify(err)
	logger.Debug("Check completed", mdwlog.Fields{
		"outcome": res.Outcome.String(),
		"tokens":  len(res.Tokens),
		"symbols": len(res.Symbols),
	})
	return res
}
