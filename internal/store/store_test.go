package store_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"rackscope/internal/analyzer"
	"rackscope/internal/store"
	"rackscope/internal/testsupport"
)

func hash(prefix string) string {
	return prefix + strings.Repeat("0", 64-len(prefix))
}

func record(sha, family string, analyzedAt time.Time) *store.Analysis {
	return &store.Analysis{
		SHA256:     sha,
		Filename:   sha[:6] + ".adg",
		Family:     family,
		Name:       "Rack " + sha[:4],
		Size:       1024,
		Payload:    json.RawMessage(`{}`),
		AnalyzedAt: analyzedAt,
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if st.Path() != cfg.Store.Path {
		t.Fatalf("Path = %q, want %q", st.Path(), cfg.Store.Path)
	}
	stats, err := st.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if diff := cmp.Diff(store.Stats{ByFamily: map[string]int{}}, stats); diff != "" {
		t.Fatalf("empty stats mismatch (-want +got):\n%s", diff)
	}

	again, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	again.Close()
}

func TestOpenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStoreDisabled())
	if _, err := store.Open(cfg); !errors.Is(err, store.ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	st.Close()

	db, err := sql.Open("sqlite", cfg.Store.Path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := store.Open(cfg); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenRejectsForeignDatabases(t *testing.T) {
	cases := []struct {
		name        string
		initialized bool
		setup       string
		want        string
	}{
		{"unrelated tables", false, "CREATE TABLE notes (body TEXT)", "missing table(s) schema_version, runs, analyses"},
		{"dropped table", true, "DROP TABLE analyses", "missing table(s) analyses"},
		{"empty version", true, "DELETE FROM schema_version", "no recorded version"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			if tc.initialized {
				st, err := store.Open(cfg)
				if err != nil {
					t.Fatalf("Open failed: %v", err)
				}
				st.Close()
			}

			db, err := sql.Open("sqlite", cfg.Store.Path)
			if err != nil {
				t.Fatalf("sql.Open failed: %v", err)
			}
			if _, err := db.Exec(tc.setup); err != nil {
				t.Fatalf("setup %q: %v", tc.setup, err)
			}
			db.Close()

			_, err = store.Open(cfg)
			if !errors.Is(err, store.ErrSchemaMismatch) {
				t.Fatalf("expected ErrSchemaMismatch, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSaveAndGetAnalysisRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rackDoc := testsupport.Rack{
		Kind: "InstrumentGroupDevice",
		Name: "Keys",
		Chains: []testsupport.Chain{{
			Name:     "Piano",
			KeyRange: &testsupport.Range{Min: 0, Max: 127},
			Devices:  []testsupport.Device{{Tag: "Operator"}},
		}},
	}
	result, err := analyzer.New(cfg, nil).Analyze(ctx, rackDoc.Gzip(t), analyzer.FamilyRack, "Keys.adg")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	rec, err := store.NewAnalysis(result, "")
	if err != nil {
		t.Fatalf("NewAnalysis failed: %v", err)
	}
	if err := st.SaveAnalysis(ctx, rec); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	got, err := st.GetAnalysis(ctx, strings.ToUpper(result.SHA256[:8]))
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}
	if got.SHA256 != result.SHA256 || got.Name != "Keys" || got.Family != "rack" || got.RackType != "Instrument Rack" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.AnalyzedAt.Equal(result.AnalyzedAt) {
		t.Fatalf("AnalyzedAt = %v, want %v", got.AnalyzedAt, result.AnalyzedAt)
	}

	decoded, err := got.Result()
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if decoded.Rack == nil || decoded.Rack.Name != "Keys" || len(decoded.Rack.Chains) != 1 {
		t.Fatalf("payload did not round trip: %+v", decoded.Rack)
	}
	if decoded.Edition != result.Edition || decoded.SHA256 != result.SHA256 {
		t.Fatalf("payload metadata mismatch: %+v", decoded)
	}

	rec.Name = "Keys v2"
	if err := st.SaveAnalysis(ctx, rec); err != nil {
		t.Fatalf("second SaveAnalysis failed: %v", err)
	}
	list, err := st.ListAnalyses(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Keys v2" {
		t.Fatalf("expected upsert to replace the record, got %+v", list)
	}
	if list[0].Payload != nil {
		t.Fatal("listings should not load payloads")
	}
}

func TestNewAnalysisRequiresHash(t *testing.T) {
	if _, err := store.NewAnalysis(&analyzer.Result{}, ""); err == nil {
		t.Fatal("expected error for result without sha256")
	}
	if _, err := store.NewAnalysis(nil, ""); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestGetAnalysisPrefixes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, sha := range []string{hash("abcd1"), hash("abcd2")} {
		if err := st.SaveAnalysis(ctx, record(sha, "rack", now)); err != nil {
			t.Fatalf("SaveAnalysis failed: %v", err)
		}
	}

	if got, err := st.GetAnalysis(ctx, "abcd1"); err != nil || got.SHA256 != hash("abcd1") {
		t.Fatalf("GetAnalysis(abcd1) = %v, %v", got, err)
	}
	if _, err := st.GetAnalysis(ctx, "abcd"); !errors.Is(err, store.ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
	for _, prefix := range []string{"ffff", "ab", "zzzz", "abcd%"} {
		if _, err := st.GetAnalysis(ctx, prefix); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("GetAnalysis(%q): expected ErrNotFound, got %v", prefix, err)
		}
	}
}

func TestListAnalysesNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	records := []*store.Analysis{
		record(hash("aaaa"), "rack", base),
		record(hash("bbbb"), "preset", base.Add(500*time.Millisecond)),
		record(hash("cccc"), "rack", base.Add(time.Second)),
	}
	for _, rec := range records {
		if err := st.SaveAnalysis(ctx, rec); err != nil {
			t.Fatalf("SaveAnalysis failed: %v", err)
		}
	}

	shas := func(list []store.Analysis) []string {
		var out []string
		for _, a := range list {
			out = append(out, a.SHA256[:4])
		}
		return out
	}

	all, err := st.ListAnalyses(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if diff := cmp.Diff([]string{"cccc", "bbbb", "aaaa"}, shas(all)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	limited, err := st.ListAnalyses(ctx, store.ListOptions{Limit: 1, Family: "rack"})
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if diff := cmp.Diff([]string{"cccc"}, shas(limited)); diff != "" {
		t.Fatalf("filtered mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteAnalysis(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.SaveAnalysis(ctx, record(hash("dead"), "session", time.Time{})); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}
	full, err := st.DeleteAnalysis(ctx, "dead")
	if err != nil {
		t.Fatalf("DeleteAnalysis failed: %v", err)
	}
	if full != hash("dead") {
		t.Fatalf("DeleteAnalysis returned %q", full)
	}
	if _, err := st.DeleteAnalysis(ctx, "dead"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRunsAndStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	clock := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	store.SetClock(st, func() time.Time { return clock })

	first, err := st.BeginRun(ctx, "/racks/old")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	clock = clock.Add(time.Minute)
	second, err := st.BeginRun(ctx, "/racks/new")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if first.ID == second.ID || len(first.ID) != 36 {
		t.Fatalf("expected distinct uuid run ids, got %q and %q", first.ID, second.ID)
	}

	rec := record(hash("beef"), "rack", clock)
	rec.RunID = second.ID
	if err := st.SaveAnalysis(ctx, rec); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}
	if err := st.SaveAnalysis(ctx, record(hash("cafe"), "preset", clock)); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	clock = clock.Add(time.Minute)
	if err := st.FinishRun(ctx, second.ID, 2, 1); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	if err := st.FinishRun(ctx, "missing", 0, 0); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown run, got %v", err)
	}

	runs, err := st.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("unexpected run order: %+v", runs)
	}
	if runs[0].Files != 2 || runs[0].Failures != 1 || runs[0].FinishedAt == nil || !runs[0].FinishedAt.Equal(clock) {
		t.Fatalf("unexpected finished run: %+v", runs[0])
	}
	if runs[1].FinishedAt != nil {
		t.Fatalf("unfinished run reported finish time %v", runs[1].FinishedAt)
	}

	inRun, err := st.ListAnalyses(ctx, store.ListOptions{RunID: second.ID})
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(inRun) != 1 || inRun[0].SHA256 != hash("beef") {
		t.Fatalf("unexpected run analyses: %+v", inRun)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	want := store.Stats{
		Analyses:   2,
		Runs:       2,
		TotalBytes: 2048,
		ByFamily:   map[string]int{"rack": 1, "preset": 1},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyses.db.lock")

	held, err := store.Lock(path)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if _, err := store.Lock(path); !errors.Is(err, store.ErrLocked) {
		t.Fatalf("expected ErrLocked while held, got %v", err)
	}
	if err := held.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	again, err := store.Lock(path)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	_ = again.Unlock()
}
