package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteTableTruncatesLongNames(t *testing.T) {
	var out bytes.Buffer
	long := strings.Repeat("Very Long Rack Name ", 5)
	writeTable(&out, []column{textColumn("Hash"), nameColumn("Name"), countColumn("Size")}, [][]string{
		{"abcdef012345", long, "1.2 kB"},
		{"0123456789ab", "Short"},
	})

	text := out.String()
	requireContains(t, text, "Very Long Rack Name")
	requireContains(t, text, "...")
	requireNotContains(t, text, strings.TrimSpace(long))
	requireContains(t, text, "Short")
	requireContains(t, text, "+--")
	requireNotContains(t, text, "╭")
}

func TestTruncateCell(t *testing.T) {
	cases := []struct {
		cell string
		max  int
		want string
	}{
		{"Bass", 10, "Bass"},
		{"Glue Compressor Chain", 10, "Glue Co..."},
		{"Utility", 3, "Uti"},
	}
	for _, tc := range cases {
		if got := truncateCell(tc.cell, tc.max); got != tc.want {
			t.Fatalf("truncateCell(%q, %d) = %q, want %q", tc.cell, tc.max, got, tc.want)
		}
	}
}

func TestWriteTableNoColumns(t *testing.T) {
	var out bytes.Buffer
	writeTable(&out, nil, [][]string{{"x"}})
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}
