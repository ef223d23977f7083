package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rackscope/internal/analyzer"
	"rackscope/internal/fileutil"
	"rackscope/internal/store"
	"rackscope/internal/textutil"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		formatFlag string
		familyFlag string
		raw        bool
		save       bool
		full       bool
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Decode racks (.adg), presets (.adv) and sets (.als)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}
			var family analyzer.Family
			if strings.TrimSpace(familyFlag) != "" {
				parsed, ok := analyzer.ParseFamily(familyFlag)
				if !ok {
					return fmt.Errorf("unsupported family %q (expected rack, preset or session)", familyFlag)
				}
				family = parsed
			}

			var opts []analyzer.Option
			if raw {
				opts = append(opts, analyzer.WithNormalize(false))
			}
			a, _, err := ctx.newAnalyzer(opts...)
			if err != nil {
				return err
			}

			var st *store.Store
			if save {
				if st, err = ctx.openStore(); err != nil {
					return err
				}
				defer st.Close()
			}

			var (
				results  []*analyzer.Result
				failures []error
			)
			for _, path := range args {
				result, err := analyzeOne(cmd, a, path, family)
				if err != nil {
					if len(args) == 1 {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failures = append(failures, err)
					continue
				}
				if st != nil {
					rec, err := store.NewAnalysis(result, "")
					if err != nil {
						return err
					}
					if err := st.SaveAnalysis(cmd.Context(), rec); err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s as %s\n", result.Filename, shortHash(result.SHA256))
				}
				if outDir != "" {
					target, err := exportResult(outDir, result, format, full)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", target)
				}
				results = append(results, result)
			}
			if outDir == "" {
				if err := printResults(cmd, results, format, full, len(args) > 1); err != nil {
					return err
				}
			}
			if len(failures) > 0 {
				return fmt.Errorf("%d of %d files failed: %w", len(failures), len(args), errors.Join(failures...))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json, yaml or tree")
	cmd.Flags().StringVar(&familyFlag, "family", "", "Read every file as this family instead of using the extension")
	cmd.Flags().BoolVar(&raw, "raw", false, "Skip rack normalization")
	cmd.Flags().BoolVar(&save, "save", false, "Store results in the analysis database")
	cmd.Flags().BoolVar(&full, "full", false, "Print the complete result (hash, stats, dependencies) instead of the payload")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Write one file per result into this directory instead of stdout")
	return cmd
}

func analyzeOne(cmd *cobra.Command, a *analyzer.Analyzer, path string, family analyzer.Family) (*analyzer.Result, error) {
	if family == "" {
		return a.AnalyzeFile(cmd.Context(), path)
	}
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	result, err := a.Analyze(cmd.Context(), data, family, path)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// printResults writes results in format. JSON and YAML emit a list when
// asList is set and a single document otherwise.
func printResults(cmd *cobra.Command, results []*analyzer.Result, format outputFormat, full, asList bool) error {
	if format == formatTree {
		glyphs := asciiGlyphs
		if isTerminal(cmd.OutOrStdout()) {
			glyphs = unicodeGlyphs
		}
		for i, result := range results {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			fmt.Fprint(cmd.OutOrStdout(), resultTree(result).render(glyphs))
		}
		return nil
	}

	docs := make([]any, 0, len(results))
	for _, result := range results {
		if full {
			docs = append(docs, result)
		} else {
			docs = append(docs, result.Payload())
		}
	}
	var v any = docs
	if !asList && len(docs) == 1 {
		v = docs[0]
	}
	if format == formatYAML {
		return writeYAML(cmd, v)
	}
	return writeJSON(cmd, v)
}

func shortHash(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}

// exportResult writes result into dir under a name derived from the item name
// and hash, and returns the path written.
func exportResult(dir string, result *analyzer.Result, format outputFormat, full bool) (string, error) {
	var (
		buf bytes.Buffer
		ext string
	)
	var doc any = result.Payload()
	if full {
		doc = result
	}
	switch format {
	case formatTree:
		ext = "txt"
		buf.WriteString(resultTree(result).render(unicodeGlyphs))
	case formatYAML:
		ext = "yaml"
		if err := encodeYAML(&buf, doc); err != nil {
			return "", err
		}
	default:
		ext = "json"
		if err := encodeJSON(&buf, doc); err != nil {
			return "", err
		}
	}
	target := filepath.Join(dir, textutil.ExportName(result.Name(), result.SHA256, ext))
	if err := fileutil.WriteFileAtomic(target, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}
