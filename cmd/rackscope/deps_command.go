package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"rackscope/internal/analyzer"
	"rackscope/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var (
		formatFlag  string
		missingOnly bool
	)

	cmd := &cobra.Command{
		Use:   "deps <file>",
		Short: "List plugins, Max for Live devices and samples a file depends on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}
			a, _, err := ctx.newAnalyzer()
			if err != nil {
				return err
			}
			path := args[0]
			result, err := a.AnalyzeFile(cmd.Context(), path)
			if err != nil {
				return err
			}

			statuses := deps.CheckFiles(resultDependencies(result), filepath.Dir(path))
			if missingOnly {
				kept := statuses[:0]
				for _, status := range statuses {
					if !status.Available && status.Kind != deps.KindPlugin {
						kept = append(kept, status)
					}
				}
				statuses = kept
			}

			switch format {
			case formatJSON:
				return writeJSON(cmd, statuses)
			case formatYAML:
				return writeYAML(cmd, statuses)
			}

			out := cmd.OutOrStdout()
			if len(statuses) == 0 {
				fmt.Fprintf(out, "%s has no external dependencies\n", result.Filename)
				return nil
			}
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				available := yesNo(status.Available)
				if status.Kind == deps.KindPlugin {
					available = "-"
				}
				rows = append(rows, []string{
					string(status.Kind),
					status.Name,
					status.Format,
					status.Path,
					available,
					status.Detail,
				})
			}
			writeTable(out, []column{
				textColumn("Kind"), nameColumn("Name"), textColumn("Format"), textColumn("Path"),
				textColumn("Available"), textColumn("Detail"),
			}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "tree", "Output format: json, yaml or tree (table)")
	cmd.Flags().BoolVar(&missingOnly, "missing", false, "Only list files that could not be found")
	return cmd
}

// resultDependencies gathers every dependency recorded for a result,
// whatever its family.
func resultDependencies(result *analyzer.Result) []deps.Dependency {
	switch {
	case result.Preset != nil:
		return result.Preset.Compatibility.PluginDependencies
	case result.Session != nil:
		d := result.Session.Dependencies
		out := make([]deps.Dependency, 0, len(d.Plugins)+len(d.MaxForLive)+len(d.MissingSamples))
		out = append(out, d.Plugins...)
		out = append(out, d.MaxForLive...)
		return append(out, d.MissingSamples...)
	default:
		return result.Dependencies
	}
}
