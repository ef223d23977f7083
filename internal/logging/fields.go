package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Console output shortens identifiers that are only useful as lookups.
// The JSON handler always writes full values.
const (
	consoleHashLen  = 12
	consoleRunIDLen = 8
)

// headerText renders the component, file and family values lifted into the
// console header line. They are never quoted.
func headerText(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	}
	return v.String()
}

// fieldText renders one indented console field. Byte counts read as sizes,
// hashes and run ids are truncated, durations are rounded to milliseconds.
func fieldText(key string, v slog.Value) string {
	v = v.Resolve()
	switch {
	case strings.HasSuffix(key, "_bytes"):
		if n, ok := byteCount(v); ok {
			return humanize.IBytes(n)
		}
	case key == FieldSHA256:
		if s := v.String(); len(s) > consoleHashLen {
			return s[:consoleHashLen]
		}
	case key == FieldRunID:
		if s := v.String(); len(s) > consoleRunIDLen {
			return s[:consoleRunIDLen]
		}
	}

	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return roundDuration(v.Duration()).String()
	case slog.KindTime:
		return v.Time().In(time.Local).Format(logTimestampLayout)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return quoteIfNeeded(err.Error())
		}
		return quoteIfNeeded(fmt.Sprint(v.Any()))
	default:
		return quoteIfNeeded(v.String())
	}
}

func byteCount(v slog.Value) (uint64, bool) {
	switch v.Kind() {
	case slog.KindInt64:
		if n := v.Int64(); n >= 0 {
			return uint64(n), true
		}
	case slog.KindUint64:
		return v.Uint64(), true
	}
	return 0, false
}

func roundDuration(d time.Duration) time.Duration {
	if d < time.Millisecond {
		return d
	}
	return d.Round(time.Millisecond)
}

// quoteIfNeeded quotes values that would be ambiguous on a "key: value" line.
// Inner spaces are fine; padding, control characters and quotes are not.
func quoteIfNeeded(s string) string {
	if s == "" || strings.TrimSpace(s) != s || strings.ContainsFunc(s, func(r rune) bool {
		return r < ' ' || r == '"'
	}) {
		return strconv.Quote(s)
	}
	return s
}
