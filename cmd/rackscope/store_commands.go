package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rackscope/internal/analyzer"
	"rackscope/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		family string
		runID  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				analyses, err := st.ListAnalyses(cmd.Context(), store.ListOptions{
					Limit:  limit,
					Family: strings.ToLower(strings.TrimSpace(family)),
					RunID:  runID,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(analyses) == 0 {
					fmt.Fprintln(out, "No analyses stored")
					return nil
				}

				rows := make([][]string, 0, len(analyses))
				for _, a := range analyses {
					rows = append(rows, []string{
						shortHash(a.SHA256),
						a.Name,
						a.Family,
						a.RackType,
						humanize.Bytes(uint64(a.Size)),
						strconv.Itoa(a.ErrorCount + a.WarningCount),
						humanize.Time(a.AnalyzedAt),
					})
				}
				writeTable(out, []column{
					textColumn("Hash"), nameColumn("Name"), textColumn("Family"), textColumn("Type"),
					countColumn("Size"), countColumn("Issues"), textColumn("Analyzed"),
				}, rows)

				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatStats(stats))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	cmd.Flags().StringVar(&family, "family", "", "Only show rack, preset or session analyses")
	cmd.Flags().StringVar(&runID, "run", "", "Only show analyses imported by this batch run")
	return cmd
}

func formatStats(stats store.Stats) string {
	families := make([]string, 0, len(stats.ByFamily))
	for family := range stats.ByFamily {
		families = append(families, family)
	}
	slices.Sort(families)
	parts := make([]string, 0, len(families))
	for _, family := range families {
		parts = append(parts, fmt.Sprintf("%s %d", family, stats.ByFamily[family]))
	}
	line := fmt.Sprintf("%s stored", pluralize(stats.Analyses, "analysis", "analyses"))
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	line += fmt.Sprintf(", %s total, %s", humanize.Bytes(uint64(stats.TotalBytes)), pluralize(stats.Runs, "run", "runs"))
	return line
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return humanize.Comma(int64(n)) + " " + plural
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var (
		formatFlag string
		full       bool
	)

	cmd := &cobra.Command{
		Use:   "show <sha256-prefix>",
		Short: "Print a stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				rec, err := st.GetAnalysis(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				result, err := rec.Result()
				if err != nil {
					return err
				}
				return printResults(cmd, []*analyzer.Result{result}, format, full, false)
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json, yaml or tree")
	cmd.Flags().BoolVar(&full, "full", false, "Print the complete stored result")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <sha256-prefix>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored analysis",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				sha, err := st.DeleteAnalysis(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", sha)
				return nil
			})
		},
	}
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				runs, err := st.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No batch runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					duration := "running"
					if run.FinishedAt != nil {
						duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
					}
					rows = append(rows, []string{
						run.ID,
						run.Root,
						run.StartedAt.Local().Format("2006-01-02 15:04:05"),
						duration,
						strconv.Itoa(run.Files),
						strconv.Itoa(run.Failures),
					})
				}
				writeTable(out, []column{
					textColumn("Run"), textColumn("Root"), textColumn("Started"), textColumn("Duration"),
					countColumn("Files"), countColumn("Failed"),
				}, rows)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	return cmd
}
