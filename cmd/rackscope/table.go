package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// nameWidth caps rack, preset and device name columns. Live allows long
// names and one of them should not push the rest of the table off screen.
const nameWidth = 40

type column struct {
	title    string
	align    text.Align
	maxWidth int
}

func textColumn(title string) column { return column{title: title, align: text.AlignLeft} }

func countColumn(title string) column { return column{title: title, align: text.AlignRight} }

func nameColumn(title string) column {
	return column{title: title, align: text.AlignLeft, maxWidth: nameWidth}
}

// writeTable renders rows under columns to out. Terminals get rounded box
// drawing; pipes and files get the plain ASCII style so output stays greppable.
func writeTable(out io.Writer, columns []column, rows [][]string) {
	if len(columns) == 0 {
		return
	}

	tw := table.NewWriter()
	if isTerminal(out) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.title
		configs[i] = table.ColumnConfig{Number: i + 1, Align: c.align, AlignHeader: text.AlignLeft}
		if c.maxWidth > 0 {
			configs[i].WidthMax = c.maxWidth
			configs[i].WidthMaxEnforcer = truncateCell
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	fmt.Fprintln(out, tw.Render())
}

func truncateCell(cell string, maxLen int) string {
	if text.StringWidthWithoutEscSequences(cell) <= maxLen || maxLen <= 3 {
		return text.Trim(cell, maxLen)
	}
	return text.Trim(cell, maxLen-3) + "..."
}
