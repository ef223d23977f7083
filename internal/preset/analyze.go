package preset

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"rackscope/internal/abletonxml"
	"rackscope/internal/deps"
	"rackscope/internal/devicetypes"
	"rackscope/internal/logging"
	"rackscope/internal/rack"
)

// DefaultMinVersion is reported when the preset does not say which Live
// version wrote it.
const DefaultMinVersion = "9.0"

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

// Analyze reads a decoded .adv document. It never fails; sections that cannot
// be read keep their defaults and add a warning.
func Analyze(doc *abletonxml.Document, opts Options) *Analysis {
	a := &analyzer{logger: logging.NewComponentLogger(opts.Logger, "preset"), source: opts.Filename}
	out := &Analysis{
		Device: DeviceInfo{
			Type:     "unknown",
			Name:     "Unknown Device",
			Category: devicetypes.CategoryOther,
		},
		Parameters: []Parameter{},
		Macros:     []Macro{},
		SonicTags:  []string{},
		Compatibility: Compatibility{
			MinAbletonVersion:  DefaultMinVersion,
			PluginDependencies: []deps.Dependency{},
			CPUUsageEstimate:   CPULow,
		},
	}

	var root *abletonxml.Node
	if doc != nil {
		root = doc.Root
		a.warnings = append(a.warnings, doc.Warnings...)
		if a.source == "" {
			a.source = doc.Source
		}
	}

	token, device := findDevice(root)
	if token == "" {
		a.warn("No device element found; device type is unknown")
	}

	a.guard("device info", func() { out.Device = deviceInfo(root, token, device) })
	a.guard("parameters", func() { out.Parameters = parameters(root, device) })
	a.guard("macros", func() {
		list, warnings := readMacros(root, device)
		out.Macros = list
		for _, w := range warnings {
			a.warn(w)
		}
	})
	a.guard("metadata", func() { out.Metadata = metadata(root) })
	a.guard("compatibility", func() { out.Compatibility = compatibility(root, token, out.Metadata) })
	a.guard("sonic analysis", func() { out.SonicTags = sonicTags(out.Parameters) })

	out.Warnings = a.warnings
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	a.logger.Debug("preset analyzed",
		logging.String(logging.FieldFile, a.source),
		logging.String("device_type", out.Device.Type),
		logging.Int("parameters", len(out.Parameters)),
		logging.Int("macros", len(out.Macros)),
		logging.Int("warnings", len(out.Warnings)))
	return out
}

func (a *analyzer) warn(msg string) {
	a.warnings = append(a.warnings, msg)
	logging.WarnWithContext(a.logger, msg, "preset_parse_warning",
		logging.String(logging.FieldFile, a.source))
}

// guard runs one section; a panic becomes a warning and the section keeps
// whatever it had.
func (a *analyzer) guard(section string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.warn(fmt.Sprintf("Error extracting %s: %v", section, r))
		}
	}()
	fn()
}

func isDeviceToken(tag string) bool {
	return devicetypes.Known(tag) || deps.IsMaxDevice(tag)
}

// findDevice locates the preset's device: the element inside
// AbletonDevicePreset/Device, a device element directly under the root, or a
// device token named by a DevicePreset, PluginDesc or Device attribute.
func findDevice(root *abletonxml.Node) (string, *abletonxml.Node) {
	if root == nil {
		return "", nil
	}
	if preset := root.FindSelf("AbletonDevicePreset"); preset != nil {
		if device := preset.Child("Device"); device != nil && len(device.Children) > 0 {
			elem := device.Children[0]
			return elem.Name, elem
		}
	}
	for _, child := range root.Children {
		if isDeviceToken(child.Name) {
			return child.Name, child
		}
	}
	for _, probe := range []struct{ tag, attr string }{
		{"DevicePreset", "Name"},
		{"PluginDesc", "Name"},
		{"Device", "Type"},
	} {
		if elem := root.FindSelf(probe.tag); elem != nil {
			if token, ok := elem.Attr(probe.attr); ok && isDeviceToken(token) {
				return token, elem
			}
		}
	}
	if token, ok := root.FindAttr("DeviceType"); ok && isDeviceToken(token) {
		return token, nil
	}
	return "", nil
}

func deviceInfo(root *abletonxml.Node, token string, device *abletonxml.Node) DeviceInfo {
	info := DeviceInfo{Type: "unknown", Name: "Unknown Device", Category: devicetypes.CategoryOther}
	if token != "" {
		class := devicetypes.Classify(token)
		info.Type = token
		info.Name = class.DisplayName
		info.Category = class.Category
		info.IsInstrument = devicetypes.IsInstrument(token)
		info.IsEffect = !info.IsInstrument
	}
	info.PresetName = presetName(root, device)
	return info
}

func presetName(root, device *abletonxml.Node) string {
	if preset := root.FindSelf("AbletonDevicePreset"); preset != nil {
		if name := prop(preset, "Name"); name != "" {
			return name
		}
	}
	if name := prop(device, "UserName"); name != "" {
		return name
	}
	if name, ok := root.FindAttr("PresetName"); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	if elem := root.FindSelf("DevicePreset"); elem != nil {
		if name := strings.TrimSpace(elem.AttrOr("Name", "")); name != "" {
			return name
		}
	}
	if elem := root.Find("DisplayName"); elem != nil {
		v, _ := elem.Value()
		return strings.TrimSpace(v)
	}
	return ""
}

// parameters reads the device's automatable values: every element under the
// device holding a Manual value, named by its path below the device, followed
// by explicit Parameter/Param/DeviceParameter elements. A repeated name keeps
// its first position and its last value.
func parameters(root, device *abletonxml.Node) []Parameter {
	out := []Parameter{}
	index := map[string]int{}
	add := func(p Parameter) {
		if i, ok := index[p.Name]; ok {
			out[i] = p
			return
		}
		index[p.Name] = len(out)
		out = append(out, p)
	}

	if device != nil {
		for _, elem := range device.FindFunc(func(n *abletonxml.Node) bool { return n.Child("Manual") != nil }) {
			raw, ok := elem.Child("Manual").Value()
			if !ok {
				continue
			}
			value, kind, ok := parseValue(raw)
			if !ok {
				continue
			}
			p := Parameter{Name: relativeName(device, elem), Value: value, Type: kind}
			if r := elem.Child("MidiControllerRange"); r != nil {
				p.Min = floatProp(r, "Min")
				p.Max = floatProp(r, "Max")
			}
			add(p)
		}
	}

	for _, elem := range root.FindFunc(func(n *abletonxml.Node) bool {
		return n.Name == "Parameter" || n.Name == "Param" || n.Name == "DeviceParameter"
	}) {
		name := firstAttr(elem, "Name", "ParameterName")
		raw := firstAttr(elem, "Value", "ParameterValue")
		if name == "" || raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		add(Parameter{
			Name:  name,
			Value: value,
			Type:  elem.AttrOr("Type", "float"),
			Min:   floatAttr(elem, "Min", "MinValue"),
			Max:   floatAttr(elem, "Max", "MaxValue"),
		})
	}
	return out
}

func relativeName(device, elem *abletonxml.Node) string {
	var parts []string
	for cur := elem; cur != nil && cur != device; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

func parseValue(raw string) (float64, string, bool) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "true":
		return 1, "bool", true
	case "false":
		return 0, "bool", true
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return float64(i), "int", true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, "float", true
	}
	return 0, "", false
}

// readMacros merges rack-style macro knobs (MacroDisplayNames.N) with
// RemoteableSlot entries under MacroControls, which carry parameter mappings.
func readMacros(root, device *abletonxml.Node) ([]Macro, []string) {
	out := []Macro{}
	var warnings []string
	if device != nil {
		controls, w := rack.ReadMacros(device)
		warnings = w
		for _, m := range controls {
			out = append(out, Macro{Index: m.Index, Name: m.Name, Value: m.Value, Mappings: []MacroMapping{}})
		}
	}

	slots := root.FindFunc(func(n *abletonxml.Node) bool {
		if n.Name != "RemoteableSlot" {
			return false
		}
		return n.Ancestor(func(p *abletonxml.Node) bool { return strings.HasPrefix(p.Name, "MacroControls") }) != nil
	})
	for i, slot := range slots {
		m := Macro{
			Index:    i,
			Name:     slot.AttrOr("Name", fmt.Sprintf("Macro %d", i+1)),
			Mappings: []MacroMapping{},
		}
		if v := floatAttr(slot, "Value"); v != nil {
			m.Value = *v
		}
		for _, target := range slot.FindAll("ModulationTarget") {
			mapping := MacroMapping{Parameter: target.AttrOr("Parameter", "Unknown"), Max: 1}
			if v := floatAttr(target, "Min"); v != nil {
				mapping.Min = *v
			}
			if v := floatAttr(target, "Max"); v != nil {
				mapping.Max = *v
			}
			m.Mappings = append(m.Mappings, mapping)
		}
		out = append(out, m)
	}
	return out, warnings
}

func metadata(root *abletonxml.Node) Metadata {
	var md Metadata
	md.AbletonVersion = rack.ExtractVersion(root).String
	if md.AbletonVersion == "" {
		if v, ok := root.FindAttr("Version"); ok {
			md.AbletonVersion = strings.TrimSpace(v)
		} else if elem := root.Find("AbletonVersion"); elem != nil {
			md.AbletonVersion = prop(elem, "Value")
		}
	}
	md.CreationDate, _ = root.FindAttr("CreationDate")
	md.ModificationDate, _ = root.FindAttr("ModificationDate")
	if author, ok := root.FindAttr("Author"); ok {
		md.Author = author
	} else if elem := root.Find("Author"); elem != nil {
		md.Author = prop(elem, "Value")
	} else if elem := root.Find("Creator"); elem != nil {
		md.Author = prop(elem, "Value")
	}
	md.SampleRate = intSetting(root, "SampleRate")
	md.Polyphony = intSetting(root, "Polyphony")
	md.Voices = intSetting(root, "Voices", "NumVoices")
	return md
}

var heavyDevices = map[string]struct{}{
	"Wavetable":         {},
	"InstrumentVector":  {},
	"Operator":          {},
	"ConvolutionReverb": {},
	"HybridReverb":      {},
}

func compatibility(root *abletonxml.Node, token string, md Metadata) Compatibility {
	c := Compatibility{
		MinAbletonVersion:  DefaultMinVersion,
		PluginDependencies: []deps.Dependency{},
		CPUUsageEstimate:   CPULow,
	}
	if md.AbletonVersion != "" {
		c.MinAbletonVersion = md.AbletonVersion
	}
	c.MaxForLiveRequired = deps.IsMaxDevice(token) || len(deps.MaxDevices(root)) > 0
	if plugins := deps.Plugins(root); len(plugins) > 0 {
		c.PluginDependencies = plugins
	}
	c.CPUUsageEstimate = estimateCPU(root, token, c.MaxForLiveRequired)
	return c
}

// estimateCPU scores explicit parameter elements, heavy devices and Max for
// Live; above 2 is high, above 1 medium.
func estimateCPU(root *abletonxml.Node, token string, maxForLive bool) string {
	params := root.FindFunc(func(n *abletonxml.Node) bool { return n.Name == "Parameter" || n.Name == "Param" })
	score := float64(len(params)) * 0.1
	if _, ok := heavyDevices[token]; ok {
		score += 2
	}
	if maxForLive {
		score++
	}
	switch {
	case score > 2:
		return CPUHigh
	case score > 1:
		return CPUMedium
	default:
		return CPULow
	}
}

func sonicTags(params []Parameter) []string {
	tags := []string{}
	if v, ok := lookup(params, "Resonance"); ok && v > 0.7 {
		tags = append(tags, "resonant")
	}
	if v, ok := lookup(params, "Drive"); ok && v > 0.5 {
		tags = append(tags, "aggressive")
	}
	if v, ok := lookup(params, "Attack"); ok && v < 0.1 {
		tags = append(tags, "punchy")
	}
	return tags
}

// lookup finds the first parameter whose last path segment is key or ends
// in "_"+key, ignoring case.
func lookup(params []Parameter, key string) (float64, bool) {
	suffix := "_" + strings.ToLower(key)
	for _, p := range params {
		leaf := p.Name
		if i := strings.LastIndexByte(leaf, '/'); i >= 0 {
			leaf = leaf[i+1:]
		}
		if strings.EqualFold(leaf, key) || strings.HasSuffix(strings.ToLower(leaf), suffix) {
			return p.Value, true
		}
	}
	return 0, false
}

func prop(n *abletonxml.Node, name string) string {
	v, _ := n.Prop(name)
	return strings.TrimSpace(v)
}

func firstAttr(n *abletonxml.Node, names ...string) string {
	for _, name := range names {
		if v, ok := n.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func floatAttr(n *abletonxml.Node, names ...string) *float64 {
	raw := firstAttr(n, names...)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func floatProp(n *abletonxml.Node, name string) *float64 {
	raw := prop(n, name)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

// intSetting reads the first attribute or element Value among names, keeping
// its leading digits.
func intSetting(root *abletonxml.Node, names ...string) *int {
	for _, name := range names {
		raw, ok := root.FindAttr(name)
		if !ok {
			if elem := root.Find(name); elem != nil {
				raw, ok = elem.Value()
			}
		}
		if !ok {
			continue
		}
		digits := strings.TrimSpace(raw)
		end := 0
		for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
			end++
		}
		if end == 0 {
			continue
		}
		n, err := strconv.Atoi(digits[:end])
		if err != nil {
			continue
		}
		return &n
	}
	return nil
}
