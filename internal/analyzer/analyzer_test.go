package analyzer_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"rackscope/internal/abletonxml"
	"rackscope/internal/analyzer"
	"rackscope/internal/fileutil"
	"rackscope/internal/rack"
	"rackscope/internal/testsupport"
)

var wrappedRack = testsupport.Rack{
	Kind:    "AudioEffectGroupDevice",
	Name:    "Wrapped",
	Version: []string{"5", "12.0_12049", "10", "1"},
	Chains: []testsupport.Chain{{
		Name: "Outer",
		Devices: []testsupport.Device{{
			Tag: "AudioEffectGroupDevice",
			Chains: []testsupport.Chain{
				{Name: "A", Devices: []testsupport.Device{{Tag: "Eq8"}}},
				{Name: "B", Devices: []testsupport.Device{{Tag: "Reverb"}}},
			},
		}},
	}},
}

const presetDocument = `<?xml version="1.0" encoding="UTF-8"?>
<Ableton MajorVersion="5" MinorVersion="11.0_433">
  <AbletonDevicePreset>
    <Device><AutoFilter Id="0"><On><Manual Value="true"/></On></AutoFilter></Device>
    <Name Value="Squelch"/>
  </AbletonDevicePreset>
</Ableton>`

const sessionDocument = `<?xml version="1.0" encoding="UTF-8"?>
<Ableton MajorVersion="5" MinorVersion="11.0_433">
  <LiveSet>
    <Tracks>
      <AudioTrack Id="1"><Name><EffectiveName Value="Drums"/></Name></AudioTrack>
      <MidiTrack Id="2"><Name><EffectiveName Value="Bass"/></Name></MidiTrack>
    </Tracks>
  </LiveSet>
</Ableton>`

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newAnalyzer(t *testing.T, opts ...analyzer.Option) *analyzer.Analyzer {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	opts = append([]analyzer.Option{analyzer.WithClock(fixedClock)}, opts...)
	return analyzer.New(cfg, nil, opts...)
}

func TestFamilyForPath(t *testing.T) {
	tests := []struct {
		path string
		want analyzer.Family
		ok   bool
	}{
		{"Bass Rack.adg", analyzer.FamilyRack, true},
		{"/presets/Squelch.ADV", analyzer.FamilyPreset, true},
		{"song.als", analyzer.FamilySession, true},
		{"notes.txt", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		got, ok := analyzer.FamilyForPath(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FamilyForPath(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAnalyzeRackNormalizes(t *testing.T) {
	a := newAnalyzer(t)
	data := wrappedRack.Gzip(t)

	got, err := a.Analyze(context.Background(), data, analyzer.FamilyRack, "racks/Wrapped.adg")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if got.Filename != "Wrapped.adg" || got.Path != "racks/Wrapped.adg" || got.Family != analyzer.FamilyRack {
		t.Fatalf("unexpected identity: %+v", got)
	}
	if got.SHA256 != fileutil.HashBytes(data) || got.Size != int64(len(data)) {
		t.Fatalf("unexpected hash/size: %s %d", got.SHA256, got.Size)
	}
	if !got.AnalyzedAt.Equal(fixedClock()) {
		t.Fatalf("AnalyzedAt = %v", got.AnalyzedAt)
	}
	if !got.Normalized {
		t.Fatal("expected normalized result")
	}

	var names []string
	for _, chain := range got.Rack.Chains {
		names = append(names, chain.Name)
	}
	if diff := cmp.Diff([]string{"A", "B"}, names); diff != "" {
		t.Fatalf("root chains mismatch (-want +got):\n%s", diff)
	}
	if got.Rack.Version.String != "5.12.10.1" {
		t.Fatalf("version = %q", got.Rack.Version.String)
	}
	if got.Stats == nil || got.Stats.Devices != 2 || got.Stats.Chains != 2 {
		t.Fatalf("unexpected stats: %+v", got.Stats)
	}
	if got.Edition != rack.EditionStandard {
		t.Fatalf("edition = %q, want standard", got.Edition)
	}
	if got.Name() != "Wrapped" || got.Kind() != "Audio Effect Rack" {
		t.Fatalf("Name/Kind = %q/%q", got.Name(), got.Kind())
	}
	if got.Payload() != any(got.Rack) {
		t.Fatal("payload should be the rack descriptor")
	}
}

func TestAnalyzeRackRaw(t *testing.T) {
	a := newAnalyzer(t, analyzer.WithNormalize(false))

	got, err := a.Analyze(context.Background(), wrappedRack.Gzip(t), analyzer.FamilyRack, "Wrapped.adg")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if got.Normalized {
		t.Fatal("raw analysis reported as normalized")
	}
	if len(got.Rack.Chains) != 1 || got.Rack.Chains[0].Name != "Outer" {
		t.Fatalf("expected the wrapper chain to survive, got %+v", got.Rack.Chains)
	}
	if got.Stats.MaxDepth != 2 {
		t.Fatalf("MaxDepth = %d, want 2", got.Stats.MaxDepth)
	}
}

func TestAnalyzePresetAndSession(t *testing.T) {
	a := newAnalyzer(t)
	ctx := context.Background()

	p, err := a.Analyze(ctx, testsupport.Gzip(t, presetDocument), analyzer.FamilyPreset, "Squelch.adv")
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	if p.Preset == nil || p.Rack != nil || p.Session != nil {
		t.Fatalf("preset result carries the wrong payload: %+v", p)
	}
	if p.Name() != "Squelch" || p.Kind() != "AutoFilter" {
		t.Fatalf("preset Name/Kind = %q/%q", p.Name(), p.Kind())
	}

	s, err := a.Analyze(ctx, testsupport.Gzip(t, sessionDocument), analyzer.FamilySession, "Song.als")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if s.Session == nil {
		t.Fatal("expected session payload")
	}
	if s.Session.Tracks.Total != 2 || s.Session.Tracks.Audio != 1 || s.Session.Tracks.MIDI != 1 {
		t.Fatalf("unexpected track summary: %+v", s.Session.Tracks)
	}
	if s.Name() != "Song" || s.Kind() != "session" {
		t.Fatalf("session Name/Kind = %q/%q", s.Name(), s.Kind())
	}
}

func TestAnalyzeDecodeFailure(t *testing.T) {
	a := newAnalyzer(t)
	garbage := bytes.Repeat([]byte("not a container "), 16)

	_, err := a.Analyze(context.Background(), garbage, analyzer.FamilyRack, "junk.adg")
	if !errors.Is(err, abletonxml.ErrDecompression) {
		t.Fatalf("expected ErrDecompression, got %v", err)
	}
	if got := analyzer.Status(err); got != analyzer.StatusInvalid {
		t.Fatalf("Status = %q, want invalid", got)
	}
}

func TestAnalyzeUnknownFamily(t *testing.T) {
	a := newAnalyzer(t)
	_, err := a.Analyze(context.Background(), wrappedRack.Gzip(t), analyzer.Family("clip"), "x.alc")
	if !errors.Is(err, analyzer.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestAnalyzeDeadlineExceeded(t *testing.T) {
	a := newAnalyzer(t)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := a.Analyze(ctx, wrappedRack.Gzip(t), analyzer.FamilyRack, "Wrapped.adg")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if !errors.Is(err, analyzer.ErrTimeout) {
		t.Fatalf("expected ErrTimeout marker, got %v", err)
	}
	if got := analyzer.Status(err); got != analyzer.StatusTimeout {
		t.Fatalf("Status = %q, want timeout", got)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	a := newAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, wrappedRack.Gzip(t), analyzer.FamilyRack, "Wrapped.adg")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, analyzer.ErrTimeout) {
		t.Fatal("cancellation should not be reported as a timeout")
	}
}

func TestAnalyzeFile(t *testing.T) {
	a := newAnalyzer(t)
	dir := t.TempDir()
	data := wrappedRack.Gzip(t)
	path := testsupport.WriteBytes(t, filepath.Join(dir, "Wrapped.adg"), data)

	got, err := a.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile returned error: %v", err)
	}
	if got.SHA256 != fileutil.HashBytes(data) || got.Size != int64(len(data)) {
		t.Fatalf("unexpected hash/size: %s %d", got.SHA256, got.Size)
	}

	_, err = a.AnalyzeFile(context.Background(), filepath.Join(dir, "missing.adg"))
	if !errors.Is(err, analyzer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	notes := testsupport.WriteBytes(t, filepath.Join(dir, "notes.txt"), []byte("hi"))
	_, err = a.AnalyzeFile(context.Background(), notes)
	if !errors.Is(err, analyzer.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if got := analyzer.Status(err); got != analyzer.StatusUnsupported {
		t.Fatalf("Status = %q, want unsupported", got)
	}
}

func TestBatchKeepsInputOrder(t *testing.T) {
	a := newAnalyzer(t)
	dir := t.TempDir()

	paths := []string{
		testsupport.WriteBytes(t, filepath.Join(dir, "b.adg"), wrappedRack.Gzip(t)),
		testsupport.WriteBytes(t, filepath.Join(dir, "a.adg"), bytes.Repeat([]byte{0x1f}, 200)),
		testsupport.WriteBytes(t, filepath.Join(dir, "Song.als"), testsupport.Gzip(t, sessionDocument)),
		filepath.Join(dir, "gone.adv"),
	}

	outcomes := a.Batch(context.Background(), paths, 2)
	if len(outcomes) != len(paths) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(paths))
	}

	var statuses []string
	for i, out := range outcomes {
		if out.Path != paths[i] {
			t.Fatalf("outcome %d path = %q, want %q", i, out.Path, paths[i])
		}
		statuses = append(statuses, out.Status())
	}
	want := []string{analyzer.StatusOK, analyzer.StatusInvalid, analyzer.StatusOK, analyzer.StatusInvalid}
	if diff := cmp.Diff(want, statuses); diff != "" {
		t.Fatalf("statuses mismatch (-want +got):\n%s", diff)
	}
	if outcomes[2].Result.Session == nil {
		t.Fatal("session outcome missing its payload")
	}
}

func TestBatchCancelled(t *testing.T) {
	a := newAnalyzer(t)
	dir := t.TempDir()
	path := testsupport.WriteBytes(t, filepath.Join(dir, "x.adg"), wrappedRack.Gzip(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, out := range a.Batch(ctx, []string{path, path}, 0) {
		if !errors.Is(out.Err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", out.Err)
		}
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTree(t, dir, map[string][]byte{
		"b.adg":             nil,
		"Presets/a.adv":     nil,
		"Project/Song.als":  nil,
		"Project/notes.txt": nil,
		".cache/hidden.adg": nil,
	})

	got, err := analyzer.Discover(dir)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	for i := range got {
		got[i] = strings.TrimPrefix(got[i], dir+string(os.PathSeparator))
	}
	want := []string{
		filepath.Join("Presets", "a.adv"),
		filepath.Join("Project", "Song.als"),
		"b.adg",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Discover mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapAndStatus(t *testing.T) {
	base := errors.New("boom")
	err := analyzer.Wrap(analyzer.ErrInternal, " x.adg ", "analyze", "", base)
	if err.Error() != "internal failure: x.adg: analyze: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, base) || analyzer.Status(err) != analyzer.StatusFailed {
		t.Fatalf("unexpected classification for %v", err)
	}
	if analyzer.Status(nil) != analyzer.StatusOK {
		t.Fatal("nil error should be ok")
	}
	if got := analyzer.Wrap(nil, "", "", "", nil).Error(); got != "internal failure: analysis failure" {
		t.Fatalf("unexpected empty wrap %q", got)
	}
}
