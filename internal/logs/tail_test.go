package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"rackscope/internal/logs"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rackscope.log")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTailReturnsLastLines(t *testing.T) {
	path := writeLog(t, "one", "two", "three", "four")

	result, err := logs.Tail(path, logs.TailOptions{Limit: 2})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if diff := cmp.Diff([]string{"three", "four"}, result.Lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	info, _ := os.Stat(path)
	if result.Offset != info.Size() {
		t.Fatalf("offset = %d, want %d", result.Offset, info.Size())
	}
}

func TestTailFewerLinesThanLimit(t *testing.T) {
	path := writeLog(t, "one", "two")
	result, err := logs.Tail(path, logs.TailOptions{Limit: 10})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if diff := cmp.Diff([]string{"one", "two"}, result.Lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestTailMatch(t *testing.T) {
	path := writeLog(t,
		`{"msg":"analysis complete","run_id":"aaa"}`,
		`{"msg":"analysis complete","run_id":"bbb"}`,
		`{"msg":"batch complete","run_id":"aaa"}`,
	)
	result, err := logs.Tail(path, logs.TailOptions{Limit: 5, Match: "aaa"})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 matching lines, got %v", result.Lines)
	}
	if !strings.Contains(result.Lines[1], "batch complete") {
		t.Fatalf("unexpected last line %q", result.Lines[1])
	}
}

func TestTailMissingAndDirectory(t *testing.T) {
	result, err := logs.Tail(filepath.Join(t.TempDir(), "missing.log"), logs.TailOptions{Limit: 5})
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(result.Lines) != 0 || result.Offset != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if _, err := logs.Tail(t.TempDir(), logs.TailOptions{Limit: 5}); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestTailZeroLimitReportsOffset(t *testing.T) {
	path := writeLog(t, "one", "two")
	result, err := logs.Tail(path, logs.TailOptions{})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(result.Lines) != 0 || result.Offset != int64(len("one\ntwo\n")) {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "old")
	start, err := logs.Tail(path, logs.TailOptions{})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}

	var (
		mu  sync.Mutex
		got []string
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, start.Offset, "keep", 10*time.Millisecond, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("keep one\ndrop\nkeep two\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n >= 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]string{"keep one", "keep two"}, got); diff != "" {
		t.Fatalf("followed lines mismatch (-want +got):\n%s", diff)
	}
}
