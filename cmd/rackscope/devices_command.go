package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rackscope/internal/devicetypes"
)

func newDevicesCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:         "devices",
		Short:       "Show the device classification table",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			want := strings.ToLower(strings.TrimSpace(category))
			if want != "" && !slices.Contains(devicetypes.Categories(), want) {
				return fmt.Errorf("unknown category %q (known: %s)", category, strings.Join(devicetypes.Categories(), ", "))
			}

			title := cases.Title(language.English)
			rows := [][]string{}
			for _, entry := range devicetypes.Entries() {
				if want != "" && entry.Category != want {
					continue
				}
				rows = append(rows, []string{
					title.String(strings.ReplaceAll(entry.Category, "_", " ")),
					entry.DisplayName,
					entry.Token,
				})
			}

			out := cmd.OutOrStdout()
			writeTable(out, []column{textColumn("Category"), nameColumn("Device"), textColumn("Token")}, rows)
			fmt.Fprintf(out, "%d devices\n", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list devices in this category")
	return cmd
}
