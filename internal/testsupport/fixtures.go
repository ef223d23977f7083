package testsupport

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// minContainer mirrors the decoder's lower size bound.
const minContainer = 100

// Gzip compresses document the way Live writes .adg/.adv/.als files. Short
// documents get a gzip header comment so the result clears the decoder's
// minimum size.
func Gzip(t testing.TB, document string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if len(document) < 4*minContainer {
		zw.Comment = strings.Repeat("rackscope fixture ", 8)
	}
	if _, err := zw.Write([]byte(document)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// Zlib stores document in an uncompressed zlib stream, padding with trailing
// whitespace so the container clears the minimum size.
func Zlib(t testing.TB, document string) []byte {
	t.Helper()

	if len(document) < minContainer {
		document += strings.Repeat("\n", minContainer)
	}
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.NoCompression)
	if err != nil {
		t.Fatalf("zlib writer: %v", err)
	}
	if _, err := zw.Write([]byte(document)); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

// Macro is a rack macro knob.
type Macro struct {
	Name  string
	Value string // raw Manual@Value; empty omits the element
}

// Range is a key or velocity zone.
type Range struct {
	Min, Max int
}

// Device describes one device element inside a chain.
type Device struct {
	Tag      string
	UserName string
	Off      bool
	// Chains are emitted as the rack's BranchPresets when Tag is a rack kind.
	Chains []Chain
	// InlineBranches places BranchPresets inside the device element instead of
	// next to it in the enclosing GroupDevicePreset.
	InlineBranches bool
}

// Chain describes one branch preset.
type Chain struct {
	Name          string
	Soloed        bool
	KeyRange      *Range
	VelocityRange *Range
	Devices       []Device
}

// Rack describes a complete .adg document.
type Rack struct {
	Kind    string // AudioEffectGroupDevice, InstrumentGroupDevice or MidiEffectGroupDevice
	Name    string // GroupDevicePreset/Name; empty omits it
	Macros  map[int]Macro
	Chains  []Chain
	Creator string
	// Version sets root Ableton attributes in order: major, minor, build, revision.
	Version []string
	// NoBranches omits the top-level BranchPresets element entirely.
	NoBranches bool
}

// XML renders the rack as an Ableton document.
func (r Rack) XML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<Ableton")
	for i, attr := range []string{"MajorVersion", "MinorVersion", "BuildNumber", "Revision"} {
		if i < len(r.Version) {
			fmt.Fprintf(&b, ` %s="%s"`, attr, r.Version[i])
		}
	}
	if r.Creator != "" {
		fmt.Fprintf(&b, ` Creator="%s"`, r.Creator)
	}
	b.WriteString(">\n<GroupDevicePreset>\n")
	if r.Name != "" {
		fmt.Fprintf(&b, `<Name Value="%s"/>`+"\n", r.Name)
	}
	b.WriteString("<Device>\n")
	fmt.Fprintf(&b, `<%s Id="0">`+"\n", r.Kind)
	b.WriteString(`<On><Manual Value="true"/></On>` + "\n")
	for i := 0; i < 16; i++ {
		macro, ok := r.Macros[i]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, `<MacroDisplayNames.%d Value="%s"/>`+"\n", i, macro.Name)
		if macro.Value != "" {
			fmt.Fprintf(&b, `<MacroControls.%d><Manual Value="%s"/></MacroControls.%d>`+"\n", i, macro.Value, i)
		}
	}
	fmt.Fprintf(&b, "</%s>\n</Device>\n", r.Kind)
	if !r.NoBranches {
		writeBranches(&b, r.Kind, r.Chains)
	}
	b.WriteString("</GroupDevicePreset>\n</Ableton>\n")
	return b.String()
}

// Gzip renders and compresses the rack.
func (r Rack) Gzip(t testing.TB) []byte {
	t.Helper()
	return Gzip(t, r.XML())
}

func writeBranches(b *strings.Builder, kind string, chains []Chain) {
	tag := branchTag(kind)
	b.WriteString("<BranchPresets>\n")
	for i, chain := range chains {
		fmt.Fprintf(b, `<%s Id="%d">`+"\n", tag, i)
		if chain.Name != "" {
			fmt.Fprintf(b, `<Name Value="%s"/>`+"\n", chain.Name)
		}
		fmt.Fprintf(b, `<IsSoloed Value="%t"/>`+"\n", chain.Soloed)
		b.WriteString("<DevicePresets>\n")
		for j, device := range chain.Devices {
			writeDevicePreset(b, j, device)
		}
		b.WriteString("</DevicePresets>\n")
		if chain.KeyRange != nil {
			fmt.Fprintf(b, `<KeyRange><Min Value="%d"/><Max Value="%d"/></KeyRange>`+"\n", chain.KeyRange.Min, chain.KeyRange.Max)
		}
		if chain.VelocityRange != nil {
			fmt.Fprintf(b, `<VelocityRange><Min Value="%d"/><Max Value="%d"/></VelocityRange>`+"\n", chain.VelocityRange.Min, chain.VelocityRange.Max)
		}
		fmt.Fprintf(b, "</%s>\n", tag)
	}
	b.WriteString("</BranchPresets>\n")
}

func writeDevicePreset(b *strings.Builder, id int, device Device) {
	rack := branchTag(device.Tag) != ""
	wrapper := "AbletonDevicePreset"
	if rack {
		wrapper = "GroupDevicePreset"
	}
	fmt.Fprintf(b, `<%s Id="%d">`+"\n<Device>\n", wrapper, id)
	fmt.Fprintf(b, `<%s Id="0">`+"\n", device.Tag)
	fmt.Fprintf(b, `<On><Manual Value="%t"/></On>`+"\n", !device.Off)
	if device.UserName != "" {
		fmt.Fprintf(b, `<UserName Value="%s"/>`+"\n", device.UserName)
	}
	if rack && device.InlineBranches {
		writeBranches(b, device.Tag, device.Chains)
	}
	fmt.Fprintf(b, "</%s>\n</Device>\n", device.Tag)
	if rack && !device.InlineBranches {
		writeBranches(b, device.Tag, device.Chains)
	}
	fmt.Fprintf(b, "</%s>\n", wrapper)
}

func branchTag(kind string) string {
	switch kind {
	case "AudioEffectGroupDevice":
		return "AudioEffectBranchPreset"
	case "InstrumentGroupDevice":
		return "InstrumentBranchPreset"
	case "MidiEffectGroupDevice":
		return "MidiEffectBranchPreset"
	default:
		return ""
	}
}

// NestedRack builds a chain whose single device is an audio effect rack
// nested levels deep, ending in an EQ Eight.
func NestedRack(levels int) Chain {
	leaf := Chain{Name: "Leaf", Devices: []Device{{Tag: "Eq8"}}}
	for i := levels; i > 0; i-- {
		leaf = Chain{
			Name:    fmt.Sprintf("Level %d", i),
			Devices: []Device{{Tag: "AudioEffectGroupDevice", Chains: []Chain{leaf}}},
		}
	}
	return leaf
}
