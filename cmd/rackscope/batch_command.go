package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rackscope/internal/analyzer"
	"rackscope/internal/logging"
	"rackscope/internal/preflight"
	"rackscope/internal/store"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		workers int
		timeout time.Duration
		raw     bool
		noSave  bool
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyze every rack, preset and set under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}
			paths, err := analyzer.Discover(root)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}
			out := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintf(out, "No .adg, .adv or .als files found under %s\n", root)
				return nil
			}

			if workers <= 0 {
				workers = cfg.Analysis.Workers
			}
			var opts []analyzer.Option
			if timeout > 0 {
				opts = append(opts, analyzer.WithTimeout(timeout))
			}
			if raw {
				opts = append(opts, analyzer.WithNormalize(false))
			}

			save := !noSave && cfg.Store.Enabled
			var (
				st    *store.Store
				runID = uuid.NewString()
			)
			if save {
				if err := preflight.CheckDirectoryAccess("Store directory", filepath.Dir(cfg.Store.Path)).Err(); err != nil {
					return err
				}
				lock, err := store.Lock(cfg.LockPath())
				if err != nil {
					return err
				}
				defer func() { _ = lock.Unlock() }()

				if st, err = ctx.openStore(); err != nil {
					return err
				}
				defer st.Close()

				run, err := st.BeginRun(cmd.Context(), root)
				if err != nil {
					return err
				}
				runID = run.ID
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.WithRunID(logger, runID)
			a := analyzer.New(cfg, logger, opts...)

			started := time.Now()
			logger.Info("batch started",
				logging.String("root", root),
				logging.Int("files", len(paths)),
				logging.Int("workers", workers))
			outcomes := a.Batch(cmd.Context(), paths, workers)

			failures := 0
			rows := make([][]string, 0, len(outcomes))
			for _, outcome := range outcomes {
				rel, relErr := filepath.Rel(root, outcome.Path)
				if relErr != nil {
					rel = outcome.Path
				}
				if outcome.Err != nil {
					failures++
					rows = append(rows, []string{rel, "", outcome.Status(), outcome.Err.Error(), "", ""})
					continue
				}
				result := outcome.Result
				if st != nil {
					rec, err := store.NewAnalysis(result, runID)
					if err != nil {
						return err
					}
					if err := st.SaveAnalysis(cmd.Context(), rec); err != nil {
						return err
					}
				}
				rows = append(rows, []string{
					rel,
					string(result.Family),
					outcome.Status(),
					result.Name(),
					humanize.Bytes(uint64(result.Size)),
					strconv.Itoa(result.ErrorCount() + result.WarningCount()),
				})
			}

			if st != nil {
				if err := st.FinishRun(cmd.Context(), runID, len(outcomes), failures); err != nil {
					return err
				}
			}

			logger.Info("batch finished",
				logging.Int("files", len(outcomes)),
				logging.Int("failures", failures),
				logging.Duration("elapsed", time.Since(started)))

			writeTable(out, []column{
				textColumn("File"), textColumn("Family"), textColumn("Status"), nameColumn("Name"),
				countColumn("Size"), countColumn("Issues"),
			}, rows)
			summary := fmt.Sprintf("Run %s: %d files, %d failed", runID, len(outcomes), failures)
			if !save {
				summary += " (not saved)"
			}
			fmt.Fprintln(out, summary)
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Files analyzed in parallel (default from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-file deadline, e.g. 10s (default from config)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Skip rack normalization")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Analyze without writing to the store")
	return cmd
}
