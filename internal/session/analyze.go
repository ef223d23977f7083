package session

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"rackscope/internal/abletonxml"
	"rackscope/internal/deps"
	"rackscope/internal/devicetypes"
	"rackscope/internal/logging"
	"rackscope/internal/rack"
)

const (
	// DefaultMinVersion is reported when the set does not say which Live
	// version wrote it.
	DefaultMinVersion    = "9.0"
	defaultTimeSignature = "4/4"
)

// Options configures Analyze.
type Options struct {
	Logger   *slog.Logger
	Filename string
}

type analyzer struct {
	logger   *slog.Logger
	source   string
	warnings []string
}

// Analyze reads a decoded .als document. It never fails; sections that
// cannot be read keep their defaults and add a warning.
func Analyze(doc *abletonxml.Document, opts Options) *Analysis {
	a := &analyzer{logger: logging.NewComponentLogger(opts.Logger, "session"), source: opts.Filename}
	out := &Analysis{
		Metadata:      Metadata{TimeSignature: defaultTimeSignature},
		Tracks:        TrackSummary{Details: []Track{}},
		EmbeddedRacks: []EmbeddedRack{},
		Dependencies: Dependencies{
			Plugins:        []deps.Dependency{},
			MissingSamples: []deps.Dependency{},
			MaxForLive:     []deps.Dependency{},
		},
		Automation:    Automation{Lanes: []AutomationLane{}},
		Arrangement:   Arrangement{Locators: []Locator{}},
		Compatibility: Compatibility{MinAbletonVersion: DefaultMinVersion},
	}

	var root *abletonxml.Node
	if doc != nil {
		root = doc.Root
		a.warnings = append(a.warnings, doc.Warnings...)
		if a.source == "" {
			a.source = doc.Source
		}
	}
	if root == nil || root.FindSelf("LiveSet") == nil {
		a.warn("No LiveSet element found; document does not look like a Live set")
	}

	a.guard("session metadata", func() { out.Metadata = metadata(root) })
	a.guard("track structure", func() { out.Tracks = tracks(root) })
	a.guard("embedded racks", func() {
		racks, warnings := embeddedRacks(root)
		out.EmbeddedRacks = racks
		for _, w := range warnings {
			a.warn(w)
		}
	})
	a.guard("clips", func() { out.Clips = clips(root) })
	a.guard("external dependencies", func() { out.Dependencies = dependencies(root) })
	a.guard("automation", func() { out.Automation = automation(root) })
	a.guard("arrangement", func() { out.Arrangement = arrangement(root, out.Metadata) })
	a.guard("compatibility", func() { out.Compatibility = compatibility(root, out.Metadata, out.Dependencies) })

	if out.Arrangement.LengthBeats > 0 && out.Metadata.DurationSeconds == nil && out.Metadata.Tempo != nil && *out.Metadata.Tempo > 0 {
		seconds := out.Arrangement.LengthBeats * 60 / *out.Metadata.Tempo
		out.Metadata.DurationSeconds = &seconds
	}

	out.Warnings = a.warnings
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	a.logger.Debug("session analyzed",
		logging.String(logging.FieldFile, a.source),
		logging.Int("tracks", out.Tracks.Total),
		logging.Int("embedded_racks", len(out.EmbeddedRacks)),
		logging.Int("warnings", len(out.Warnings)))
	return out
}

func (a *analyzer) warn(msg string) {
	a.warnings = append(a.warnings, msg)
	logging.WarnWithContext(a.logger, msg, "session_parse_warning",
		logging.String(logging.FieldFile, a.source))
}

func (a *analyzer) guard(section string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.warn(fmt.Sprintf("Error extracting %s: %v", section, r))
		}
	}()
	fn()
}

// masterTrack returns the master track; Live 12 renamed it MainTrack.
func masterTrack(root *abletonxml.Node) *abletonxml.Node {
	if n := root.Find("MasterTrack"); n != nil {
		return n
	}
	return root.Find("MainTrack")
}

func metadata(root *abletonxml.Node) Metadata {
	md := Metadata{TimeSignature: defaultTimeSignature}
	master := masterTrack(root)

	if tempo := master.Find("Tempo"); tempo != nil {
		md.Tempo = floatOf(tempo, "Manual", "Value")
	} else if tempo := root.Find("Tempo"); tempo != nil {
		md.Tempo = floatOf(tempo, "Manual", "Value")
	}
	md.TimeSignature = timeSignature(root, master)

	if arr := root.Find("Arrangement"); arr != nil {
		if v := parseFloat(arr.AttrOr("Duration", "")); v != nil {
			md.DurationSeconds = v
		}
	}
	md.SampleRate = intSetting(root, "SampleRate")
	md.BitDepth = intSetting(root, "BitDepth")

	md.AbletonVersion = rack.ExtractVersion(root).String
	if md.AbletonVersion == "" {
		if v, ok := root.FindAttr("Version"); ok {
			md.AbletonVersion = strings.TrimSpace(v)
		}
	}
	md.CreatedDate, _ = root.FindAttr("CreationDate")
	md.LastModified, _ = root.FindAttr("LastModified")
	md.Author, _ = root.FindAttr("Author")
	if note := root.Find("Annotation"); note != nil {
		if text, ok := note.Attr("Text"); ok {
			md.Comments = text
		} else if text, ok := note.Value(); ok {
			md.Comments = text
		}
	}
	return md
}

// timeSignature reads Numerator/Denominator attributes when present, else
// the master track's encoded TimeSignature value: numerator-1 plus 99 times
// the log2 of the denominator.
func timeSignature(root, master *abletonxml.Node) string {
	if sig := root.Find("TimeSignature"); sig != nil {
		num, okNum := sig.FindAttr("Numerator")
		den, okDen := sig.FindAttr("Denominator")
		if okNum && okDen {
			n, errN := strconv.Atoi(strings.TrimSpace(num))
			d, errD := strconv.Atoi(strings.TrimSpace(den))
			if errN == nil && errD == nil && n > 0 && d > 0 {
				return fmt.Sprintf("%d/%d", n, d)
			}
		}
	}
	sig := master.Find("TimeSignature")
	if sig == nil {
		return defaultTimeSignature
	}
	encoded := floatOf(sig, "Manual", "Value")
	if encoded == nil || *encoded < 0 {
		return defaultTimeSignature
	}
	v := int(*encoded)
	exp := v / 99
	if exp > 6 {
		return defaultTimeSignature
	}
	return fmt.Sprintf("%d/%d", v%99+1, 1<<exp)
}

var trackTypes = map[string]string{
	"AudioTrack":  TrackAudio,
	"MidiTrack":   TrackMIDI,
	"ReturnTrack": TrackReturn,
	"GroupTrack":  TrackGroup,
}

func isTrack(n *abletonxml.Node) bool {
	_, ok := trackTypes[n.Name]
	return ok
}

func tracks(root *abletonxml.Node) TrackSummary {
	summary := TrackSummary{Details: []Track{}}
	for i, elem := range root.FindFunc(isTrack) {
		t := readTrack(elem, i)
		summary.Details = append(summary.Details, t)
		switch t.Type {
		case TrackAudio:
			summary.Audio++
		case TrackMIDI:
			summary.MIDI++
		case TrackReturn:
			summary.Return++
		case TrackGroup:
			summary.Group++
		}
	}
	summary.Total = len(summary.Details)
	return summary
}

func readTrack(elem *abletonxml.Node, index int) Track {
	t := Track{
		Index:   index,
		Name:    trackName(elem),
		Type:    TrackUnknown,
		Devices: []TrackDevice{},
	}
	if kind, ok := trackTypes[elem.Name]; ok {
		t.Type = kind
	}
	t.Color = prop(elem, "Color")
	if t.Color == "" {
		t.Color = prop(elem, "ColorIndex")
	}

	mixer := elem.Find("Mixer")
	if speaker, ok := mixer.ValueAt("Speaker/Manual"); ok {
		t.IsMuted = speaker == "false"
	} else if muted, ok := elem.Attr("Muted"); ok {
		t.IsMuted = muted == "true"
	}
	if solo, ok := mixer.ValueAt("SoloSink"); ok {
		t.IsSoloed = solo == "true"
	} else if solo, ok := elem.Attr("Solo"); ok {
		t.IsSoloed = solo == "true"
	}

	if devices := elem.Find("Devices"); devices != nil {
		for _, d := range devices.Children {
			t.Devices = append(t.Devices, TrackDevice{Type: d.Name, Name: deviceName(d), IsOn: deviceOn(d)})
		}
	}
	t.ClipCount = len(elem.FindFunc(isClip))
	t.HasAutomation = len(elem.FindAll("AutomationEnvelope")) > 0
	return t
}

func trackName(elem *abletonxml.Node) string {
	if name := elem.Child("Name"); name != nil {
		if v := prop(name, "UserName"); v != "" {
			return v
		}
		if v := prop(name, "EffectiveName"); v != "" {
			return v
		}
	}
	for _, attr := range []string{"Name", "DisplayName"} {
		if v, ok := elem.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return "Unnamed Track"
}

func deviceName(d *abletonxml.Node) string {
	if v := prop(d, "UserName"); v != "" {
		return v
	}
	if v, ok := d.Attr("Name"); ok && v != "" {
		return v
	}
	return devicetypes.DisplayName(d.Name)
}

func deviceOn(d *abletonxml.Node) bool {
	if v, ok := d.ValueAt("On/Manual"); ok {
		return v == "true"
	}
	if v, ok := d.Attr("On"); ok {
		return v == "true"
	}
	return true
}

func isRackElement(n *abletonxml.Node) bool {
	return devicetypes.IsRackKind(n.Name) || n.Name == devicetypes.DrumRack
}

// embeddedRacks lists every rack device in the set, nested racks included,
// in document order.
func embeddedRacks(root *abletonxml.Node) ([]EmbeddedRack, []string) {
	out := []EmbeddedRack{}
	var warnings []string
	for _, elem := range root.FindFunc(isRackElement) {
		r := EmbeddedRack{
			Type:  elem.Name,
			Name:  deviceName(elem),
			Track: "Unknown Track",
		}
		if track := elem.Ancestor(isTrack); track != nil {
			r.Track = trackName(track)
		} else if master := elem.Ancestor(func(n *abletonxml.Node) bool {
			return n.Name == "MasterTrack" || n.Name == "MainTrack"
		}); master != nil {
			r.Track = "Master"
		}
		macros, macroWarnings := rack.ReadMacros(elem)
		r.Macros = macros
		for _, w := range macroWarnings {
			warnings = append(warnings, fmt.Sprintf("%s (%s): %s", r.Name, r.Track, w))
		}
		r.ChainCount = chainCount(elem)
		for _, devices := range elem.FindAll("Devices") {
			r.DeviceCount += len(devices.Children)
		}
		out = append(out, r)
	}
	return out, warnings
}

// chainCount counts the rack's own branches: Branches children in sets,
// BranchPresets children in presets.
func chainCount(elem *abletonxml.Node) int {
	for _, tag := range []string{"Branches", "BranchPresets"} {
		if branches := elem.Child(tag); branches != nil {
			return len(branches.Children)
		}
	}
	return 0
}

func isClip(n *abletonxml.Node) bool {
	return n.Name == "AudioClip" || n.Name == "MidiClip"
}

func clips(root *abletonxml.Node) ClipSummary {
	var summary ClipSummary
	for _, clip := range root.FindFunc(isClip) {
		if clip.Name == "AudioClip" {
			summary.Audio++
			continue
		}
		summary.MIDI++
		summary.Notes += len(clip.FindFunc(func(n *abletonxml.Node) bool {
			return n.Name == "MidiNoteEvent" || n.Name == "Note"
		}))
	}
	return summary
}

func dependencies(root *abletonxml.Node) Dependencies {
	return Dependencies{
		Plugins:        nonNil(deps.Plugins(root)),
		MissingSamples: nonNil(deps.MissingSamples(root)),
		MaxForLive:     nonNil(deps.MaxDevices(root)),
	}
}

func automation(root *abletonxml.Node) Automation {
	auto := Automation{Lanes: []AutomationLane{}}
	for _, env := range root.FindAll("AutomationEnvelope") {
		lane := AutomationLane{Target: "Unknown"}
		if v, ok := env.ValueAt("EnvelopeTarget/PointeeId"); ok {
			lane.Target = v
		} else if v, ok := env.Attr("Target"); ok {
			lane.Target = v
		}
		if events := env.At("Automation/Events"); events != nil {
			lane.Points = len(events.Children)
		} else {
			lane.Points = len(env.FindAll("AutomationPoint"))
		}
		auto.Lanes = append(auto.Lanes, lane)
	}
	auto.AutomatedParameters = len(auto.Lanes)
	auto.HasAutomation = auto.AutomatedParameters > 0
	return auto
}

// arrangement reads locators and measures the arrangement: the latest clip
// end on the timeline, or the Arrangement Duration (seconds) converted with
// the tempo.
func arrangement(root *abletonxml.Node, md Metadata) Arrangement {
	arr := Arrangement{Locators: []Locator{}}
	for _, loc := range root.FindAll("Locator") {
		l := Locator{Name: prop(loc, "Name")}
		if l.Name == "" {
			l.Name = "Unnamed"
		}
		if t := parseFloat(prop(loc, "Time")); t != nil {
			l.Time = *t
		}
		arr.Locators = append(arr.Locators, l)
	}

	for _, clip := range root.FindFunc(isClip) {
		if clip.Ancestor(func(n *abletonxml.Node) bool { return n.Name == "ClipSlot" }) != nil {
			continue
		}
		if end := parseFloat(prop(clip, "CurrentEnd")); end != nil && *end > arr.LengthBeats {
			arr.LengthBeats = *end
		}
	}
	if arr.LengthBeats == 0 && md.DurationSeconds != nil && md.Tempo != nil {
		arr.LengthBeats = *md.DurationSeconds * *md.Tempo / 60
	}
	if arr.LengthBeats > 0 {
		arr.TotalBars = int(math.Ceil(arr.LengthBeats / beatsPerBar(md.TimeSignature)))
	}
	return arr
}

// beatsPerBar counts quarter-note beats in one bar of sig.
func beatsPerBar(sig string) float64 {
	num, den, ok := strings.Cut(sig, "/")
	if !ok {
		return 4
	}
	n, errN := strconv.Atoi(num)
	d, errD := strconv.Atoi(den)
	if errN != nil || errD != nil || n <= 0 || d <= 0 {
		return 4
	}
	return float64(n) * 4 / float64(d)
}

func compatibility(root *abletonxml.Node, md Metadata, d Dependencies) Compatibility {
	c := Compatibility{
		MinAbletonVersion:   DefaultMinVersion,
		MaxForLiveRequired:  len(d.MaxForLive) > 0,
		ExternalPluginCount: len(d.Plugins),
		MissingSampleCount:  len(d.MissingSamples),
	}
	if v, ok := root.FindAttr("MinVersion"); ok && strings.TrimSpace(v) != "" {
		c.MinAbletonVersion = strings.TrimSpace(v)
	} else if md.AbletonVersion != "" {
		c.MinAbletonVersion = md.AbletonVersion
	}
	return c
}

func prop(n *abletonxml.Node, name string) string {
	v, _ := n.Prop(name)
	return strings.TrimSpace(v)
}

// floatOf reads the Value of the child at path, or the attribute attr of n.
func floatOf(n *abletonxml.Node, path, attr string) *float64 {
	if v, ok := n.ValueAt(path); ok {
		return parseFloat(v)
	}
	if v, ok := n.Attr(attr); ok {
		return parseFloat(v)
	}
	return nil
}

func parseFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func intSetting(root *abletonxml.Node, name string) *int {
	raw, ok := root.FindAttr(name)
	if !ok {
		if elem := root.Find(name); elem != nil {
			raw, ok = elem.Prop("Value")
		}
	}
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
