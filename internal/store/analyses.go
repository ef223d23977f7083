package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rackscope/internal/analyzer"
)

// Analysis is a stored analysis result. Payload holds the analyzer result as
// JSON; it is empty in listings.
type Analysis struct {
	SHA256       string
	Filename     string
	Family       string
	Name         string
	RackType     string
	Size         int64
	Payload      json.RawMessage
	ErrorCount   int
	WarningCount int
	RunID        string
	AnalyzedAt   time.Time
}

// ListOptions filters ListAnalyses.
type ListOptions struct {
	Limit  int
	Family string
	RunID  string
}

const (
	analysisColumns = "sha256, filename, family, name, rack_type, size_bytes, error_count, warning_count, run_id, analyzed_at"
	minPrefixLength = 4
)

// NewAnalysis converts an analyzer result into a storable record.
func NewAnalysis(result *analyzer.Result, runID string) (*Analysis, error) {
	if result == nil {
		return nil, errors.New("nil analysis result")
	}
	if result.SHA256 == "" {
		return nil, errors.New("analysis result has no sha256")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis payload: %w", err)
	}
	return &Analysis{
		SHA256:       result.SHA256,
		Filename:     result.Filename,
		Family:       string(result.Family),
		Name:         result.Name(),
		RackType:     result.Kind(),
		Size:         result.Size,
		Payload:      payload,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		RunID:        runID,
		AnalyzedAt:   result.AnalyzedAt,
	}, nil
}

// Result decodes the stored payload.
func (a *Analysis) Result() (*analyzer.Result, error) {
	if len(a.Payload) == 0 {
		return nil, errors.New("analysis payload not loaded")
	}
	var result analyzer.Result
	if err := json.Unmarshal(a.Payload, &result); err != nil {
		return nil, fmt.Errorf("decode analysis payload: %w", err)
	}
	return &result, nil
}

// SaveAnalysis inserts a, replacing any earlier analysis of the same file.
func (s *Store) SaveAnalysis(ctx context.Context, a *Analysis) error {
	if a == nil {
		return errors.New("nil analysis")
	}
	analyzedAt := a.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = s.now()
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO analyses (
            sha256, filename, family, name, rack_type, size_bytes, payload,
            error_count, warning_count, run_id, analyzed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(sha256) DO UPDATE SET
            filename = excluded.filename,
            family = excluded.family,
            name = excluded.name,
            rack_type = excluded.rack_type,
            size_bytes = excluded.size_bytes,
            payload = excluded.payload,
            error_count = excluded.error_count,
            warning_count = excluded.warning_count,
            run_id = excluded.run_id,
            analyzed_at = excluded.analyzed_at`,
		strings.ToLower(a.SHA256),
		a.Filename,
		a.Family,
		a.Name,
		nullableString(a.RackType),
		a.Size,
		string(a.Payload),
		a.ErrorCount,
		a.WarningCount,
		nullableString(a.RunID),
		formatTime(analyzedAt),
	)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", a.SHA256, err)
	}
	return nil
}

// GetAnalysis loads the analysis whose hash is or starts with prefix. Prefixes
// shorter than four characters are rejected.
func (s *Store) GetAnalysis(ctx context.Context, prefix string) (*Analysis, error) {
	ctx = ensureContext(ctx)
	pattern, err := prefixPattern(prefix)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+analysisColumns+", payload FROM analyses WHERE sha256 LIKE ? ORDER BY sha256 LIMIT 2",
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}
	defer rows.Close()

	var found []*Analysis
	for rows.Next() {
		var payload string
		a, err := scanAnalysis(rows, &payload)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		a.Payload = json.RawMessage(payload)
		found = append(found, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: no analysis matches %q", ErrNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches more than one analysis", ErrAmbiguous, prefix)
	}
}

// ListAnalyses returns analyses newest first without their payloads. A
// non-positive limit returns everything.
func (s *Store) ListAnalyses(ctx context.Context, opts ListOptions) ([]Analysis, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + analysisColumns + " FROM analyses"
	var (
		where []string
		args  []any
	)
	if opts.Family != "" {
		where = append(where, "family = ?")
		args = append(args, opts.Family)
	}
	if opts.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, opts.RunID)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY analyzed_at DESC, sha256"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return out, nil
}

// DeleteAnalysis removes the analysis matching prefix and returns its full hash.
func (s *Store) DeleteAnalysis(ctx context.Context, prefix string) (string, error) {
	a, err := s.GetAnalysis(ctx, prefix)
	if err != nil {
		return "", err
	}
	res, err := s.execWithRetry(ctx, "DELETE FROM analyses WHERE sha256 = ?", a.SHA256)
	if err != nil {
		return "", fmt.Errorf("delete analysis %s: %w", a.SHA256, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return "", fmt.Errorf("%w: analysis %s was removed concurrently", ErrNotFound, a.SHA256)
	}
	return a.SHA256, nil
}

func prefixPattern(prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < minPrefixLength {
		return "", fmt.Errorf("%w: hash prefix %q is shorter than %d characters", ErrNotFound, prefix, minPrefixLength)
	}
	for _, r := range prefix {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", fmt.Errorf("%w: hash prefix %q is not hexadecimal", ErrNotFound, prefix)
		}
	}
	return prefix + "%", nil
}

func scanAnalysis(scanner interface{ Scan(dest ...any) error }, payload *string) (*Analysis, error) {
	var (
		a           Analysis
		rackType    sql.NullString
		runID       sql.NullString
		analyzedRaw string
	)
	dest := []any{
		&a.SHA256,
		&a.Filename,
		&a.Family,
		&a.Name,
		&rackType,
		&a.Size,
		&a.ErrorCount,
		&a.WarningCount,
		&runID,
		&analyzedRaw,
	}
	if payload != nil {
		dest = append(dest, payload)
	}
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	a.RackType = rackType.String
	a.RunID = runID.String
	if analyzedAt, err := parseTimeString(analyzedRaw); err == nil {
		a.AnalyzedAt = analyzedAt
	}
	return &a, nil
}
