package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"rackscope/internal/abletonxml"
	"rackscope/internal/config"
	"rackscope/internal/deps"
	"rackscope/internal/fileutil"
	"rackscope/internal/logging"
	"rackscope/internal/preset"
	"rackscope/internal/rack"
	"rackscope/internal/session"
)

// DefaultTimeout bounds a single analysis when no configuration is supplied.
const DefaultTimeout = 30 * time.Second

// Analyzer decodes containers and dispatches them to the schema family's
// extractor. It is safe for concurrent use.
type Analyzer struct {
	logger    *slog.Logger
	decoder   abletonxml.Decoder
	timeout   time.Duration
	normalize bool
	now       func() time.Time
}

// Option customises an Analyzer.
type Option func(*Analyzer)

// WithTimeout overrides the per-file deadline. A non-positive value disables it.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.timeout = d }
}

// WithNormalize toggles rack normalization.
func WithNormalize(enabled bool) Option {
	return func(a *Analyzer) { a.normalize = enabled }
}

// WithClock replaces the clock used for AnalyzedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// New builds an Analyzer from configuration. A nil cfg uses the defaults and
// a nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Analyzer {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	logger = logging.NewComponentLogger(logger, "analyzer")
	a := &Analyzer{
		logger: logger,
		decoder: abletonxml.Decoder{
			Logger:               logger,
			MaxDecompressedBytes: cfg.MaxDecompressedBytes(),
		},
		timeout:   cfg.AnalysisTimeout(),
		normalize: cfg.Analysis.Normalize,
		now:       time.Now,
	}
	if a.timeout == 0 {
		a.timeout = DefaultTimeout
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile reads path, derives its family from the extension and analyzes it.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	family, ok := FamilyForPath(path)
	if !ok {
		return nil, Wrap(ErrUnsupported, path, "detect family", "expected an .adg, .adv or .als file", nil)
	}

	read, err := fileutil.ReadFileVerified(path, abletonxml.MaxFileSize)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, Wrap(ErrNotFound, path, "read", "", err)
		case errors.Is(err, fileutil.ErrTooLarge):
			return nil, Wrap(abletonxml.ErrSizeLimit, path, "read", "", err)
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	return a.run(ctx, read.Data, read.SHA256, family, path)
}

// Analyze decodes data as family. filename is used for messages and as the
// last-resort rack name. The pipeline runs on its own goroutine; when ctx or
// the configured timeout expires first, the pending result is abandoned and
// the context error is returned; deadline expiry is also marked ErrTimeout.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, family Family, filename string) (*Result, error) {
	return a.run(ctx, data, fileutil.HashBytes(data), family, filename)
}

type outcome struct {
	result *Result
	err    error
}

func (a *Analyzer) run(ctx context.Context, data []byte, sha256 string, family Family, filename string) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ParseFamily(string(family)); !ok {
		return nil, Wrap(ErrUnsupported, filename, "dispatch", fmt.Sprintf("unknown family %q", family), nil)
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, a.abandoned(filename, family, err)
	}

	started := a.now()
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: Wrap(ErrInternal, filename, "analyze", fmt.Sprintf("panic: %v", r), nil)}
			}
		}()
		result, err := a.pipeline(data, family, filename)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, a.abandoned(filename, family, ctx.Err())
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		elapsed := a.now().Sub(started)
		out.result.SHA256 = sha256
		out.result.Size = int64(len(data))
		out.result.AnalyzedAt = started.UTC()
		out.result.DurationMS = elapsed.Milliseconds()
		a.logger.Info("analysis complete",
			logging.String(logging.FieldFile, filename),
			logging.String(logging.FieldFamily, string(family)),
			logging.String("name", out.result.Name()),
			logging.String(logging.FieldSHA256, out.result.SHA256),
			logging.Int64("size_bytes", out.result.Size),
			logging.Int("parsing_errors", out.result.ErrorCount()),
			logging.Int("warnings", out.result.WarningCount()),
			logging.Duration("elapsed", elapsed))
		return out.result, nil
	}
}

func (a *Analyzer) abandoned(filename string, family Family, err error) error {
	logging.WarnWithContext(a.logger, "analysis abandoned", "analysis_timeout",
		logging.String(logging.FieldFile, filename),
		logging.String(logging.FieldFamily, string(family)),
		logging.Duration("timeout", a.timeout),
		logging.Error(err),
		logging.String(logging.FieldImpact, "no result recorded for this file"))
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(ErrTimeout, filename, "analyze", "", err)
	}
	return fmt.Errorf("analyze %s: %w", filename, err)
}

func (a *Analyzer) pipeline(data []byte, family Family, filename string) (*Result, error) {
	doc, err := a.decoder.Decode(data, filename)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Filename: filepath.Base(filename),
		Path:     filename,
		Family:   family,
	}

	switch family {
	case FamilyRack:
		desc := rack.Build(doc, rack.Options{Logger: a.logger, Filename: filename})
		if a.normalize {
			desc = rack.Normalize(desc)
			result.Normalized = true
		}
		stats := rack.Stats(desc)
		result.Rack = desc
		result.Stats = &stats
		result.Edition = rack.DetectEdition(desc)
		result.Dependencies = deps.Scan(doc.Root)
	case FamilyPreset:
		result.Preset = preset.Analyze(doc, preset.Options{Logger: a.logger, Filename: filename})
	case FamilySession:
		result.Session = session.Analyze(doc, session.Options{Logger: a.logger, Filename: filename})
	}
	return result, nil
}
