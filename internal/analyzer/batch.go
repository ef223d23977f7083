package analyzer

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"rackscope/internal/logging"
)

// Outcome is the result of one file in a batch.
type Outcome struct {
	Path   string
	Result *Result
	Err    error
}

// Status labels the outcome for summaries.
func (o Outcome) Status() string {
	return Status(o.Err)
}

// Batch analyzes paths with at most workers files in flight. Outcomes are
// returned in input order; one file failing never stops the others. Files not
// yet started when ctx is cancelled report the context error.
func (a *Analyzer) Batch(ctx context.Context, paths []string, workers int) []Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]Outcome, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		outcomes[i].Path = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			result, err := a.AnalyzeFile(ctx, path)
			if err != nil {
				logging.WarnWithContext(a.logger, "file analysis failed", "batch_file_failed",
					logging.String(logging.FieldFile, path),
					logging.String("status", Status(err)),
					logging.Error(err),
					logging.String(logging.FieldImpact, "file skipped; remaining files continue"))
			}
			outcomes[i].Result = result
			outcomes[i].Err = err
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// Discover walks root and returns every .adg, .adv and .als file, sorted.
// Hidden directories are skipped.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := FamilyForPath(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}
