package rack

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"rackscope/internal/abletonxml"
	"rackscope/internal/devicetypes"
	"rackscope/internal/logging"
)

// Options configures Build.
type Options struct {
	Logger *slog.Logger
	// Filename supplies the last-resort rack name (its stem).
	Filename string
}

// builder accumulates soft failures while a descriptor is assembled.
type builder struct {
	logger   *slog.Logger
	source   string
	errors   []string
	warnings []string
}

// Build turns a decoded document into a raw (unnormalized) descriptor. It
// never fails: problems are recorded in ParsingErrors and ParsingWarnings and
// whatever could be read is returned.
func Build(doc *abletonxml.Document, opts Options) *Descriptor {
	b := &builder{logger: logging.NewComponentLogger(opts.Logger, "rack")}
	desc := &Descriptor{Chains: []ChainNode{}}

	var root *abletonxml.Node
	if doc != nil {
		root = doc.Root
		b.source = doc.Source
		b.warnings = append(b.warnings, doc.Warnings...)
	}
	if opts.Filename != "" {
		b.source = opts.Filename
	}

	b.guard("version", func() { desc.Version = ExtractVersion(root) })
	desc.Name = "Unknown"
	b.guard("rack name", func() { desc.Name = resolveName(root, opts.Filename) })

	kind, main, ok := Detect(root)
	if !ok {
		b.recordError(UnknownRackTypeMessage)
		desc.RackType = KindUnknown
		return b.finish(desc)
	}
	desc.RackType = kind
	b.logger.Debug("rack type detected",
		logging.String(logging.FieldFile, b.source),
		logging.String("rack_type", string(kind)))

	desc.MacroControls = b.macros(main)
	desc.Chains = b.rootChains(kind, main)
	return b.finish(desc)
}

func (b *builder) finish(desc *Descriptor) *Descriptor {
	desc.ParsingErrors = nonNil(b.errors)
	desc.ParsingWarnings = nonNil(b.warnings)
	desc.MacroControls = nonNil(desc.MacroControls)
	desc.Chains = nonNil(desc.Chains)
	return desc
}

func (b *builder) rootChains(kind Kind, main *abletonxml.Node) []ChainNode {
	var branches *abletonxml.Node
	if wrapper := presetWrapper(main); wrapper != nil {
		branches = wrapper.Child("BranchPresets")
	}
	if branches == nil {
		branches = main.Child("BranchPresets")
	}
	if branches == nil {
		b.recordWarning(fmt.Sprintf("No BranchPresets element found for %s; rack has no chains", kind))
		return []ChainNode{}
	}

	tag := kind.BranchTag()
	elems := branches.ChildrenNamed(tag)
	if len(elems) == 0 {
		b.recordWarning(fmt.Sprintf("No chains found - expected %s elements", tag))
		return []ChainNode{}
	}

	chains := make([]ChainNode, 0, len(elems))
	for i, elem := range elems {
		var chain ChainNode
		err := try(func() {
			chain = b.chain(elem, len(chains), 0, nil)
		})
		if err != nil {
			b.recordError(fmt.Sprintf("Error parsing chain %d: %v", i+1, err))
			continue
		}
		chains = append(chains, chain)
	}
	return chains
}

// chain parses one branch preset. depth is the depth of the rack that owns
// the chain (0 for the root rack); its devices sit at depth+1.
func (b *builder) chain(elem *abletonxml.Node, index, depth int, path []string) ChainNode {
	chain := ChainNode{
		Name:       "Chain " + strconv.Itoa(index+1),
		ChainIndex: index,
		Devices:    []DeviceNode{},
	}
	if name, ok := elem.ValueAt("Name"); ok && name != "" {
		chain.Name = name
	}
	if soloed, ok := elem.ValueAt("IsSoloed"); ok {
		chain.IsSoloed = soloed == "true"
	}
	chain.KeyRange = readRange(elem.Child("KeyRange"), 0, 127)
	chain.VelocityRange = readRange(elem.Child("VelocityRange"), 1, 127)

	path = append(path[:len(path):len(path)], chain.Name)
	presets := elem.Child("DevicePresets")
	if presets == nil {
		return chain
	}
	for _, preset := range presets.Children {
		device := preset.Child("Device")
		if device == nil {
			continue
		}
		for _, child := range device.Children {
			chain.Devices = append(chain.Devices, b.device(child, preset, depth+1, path))
		}
	}
	return chain
}

// device parses a device element at the given depth. parentPreset is the
// DevicePresets entry that wrapped it.
func (b *builder) device(elem, parentPreset *abletonxml.Node, depth int, path []string) DeviceNode {
	standard := devicetypes.DisplayName(elem.Name)
	node := DeviceNode{
		Type:         elem.Name,
		Name:         standard,
		StandardName: standard,
		IsOn:         true,
	}
	if custom, ok := elem.ValueAt("UserName"); ok {
		custom = strings.TrimSpace(custom)
		if custom != "" && custom != standard {
			node.Name = custom
			node.PresetName = standard
		}
	}
	if on, ok := elem.ValueAt("On/Manual"); ok {
		node.IsOn = on == "true"
	}

	kind := Kind(elem.Name)
	if !isRackKind(kind) {
		return node
	}
	if depth+1 > MaxDepth {
		b.recordWarning(fmt.Sprintf("Max nesting depth %d reached at %s (chain path %s); nested chains skipped",
			MaxDepth, elem.Name, strings.Join(path, " > ")))
		return node
	}

	branches := elem.Child("BranchPresets")
	if branches == nil && parentPreset != nil && parentPreset.Name == "GroupDevicePreset" {
		branches = parentPreset.Child("BranchPresets")
	}
	node.Chains = []ChainNode{}
	if branches == nil {
		b.logger.Debug("nested rack has no branch presets",
			logging.String(logging.FieldFile, b.source),
			logging.String("rack_type", elem.Name))
		return node
	}
	for _, branch := range branches.ChildrenNamed(kind.BranchTag()) {
		node.Chains = append(node.Chains, b.chain(branch, len(node.Chains), depth, path))
	}
	return node
}

func readRange(elem *abletonxml.Node, defLow, defHigh int) *Range {
	if elem == nil {
		return nil
	}
	minNode, maxNode := elem.Child("Min"), elem.Child("Max")
	if minNode == nil || maxNode == nil {
		return nil
	}
	return &Range{
		Low:  intValue(minNode, defLow),
		High: intValue(maxNode, defHigh),
	}
}

func intValue(n *abletonxml.Node, fallback int) int {
	v, ok := n.Value()
	if !ok {
		return fallback
	}
	return *leadingInt(v)
}

// presetWrapper returns the GroupDevicePreset enclosing a main device, if any.
func presetWrapper(main *abletonxml.Node) *abletonxml.Node {
	if main == nil || main.Parent == nil || main.Parent.Name != "Device" {
		return nil
	}
	if wrapper := main.Parent.Parent; wrapper != nil && wrapper.Name == "GroupDevicePreset" {
		return wrapper
	}
	return nil
}

// resolveName picks the rack name: the preset wrapper's Name, the main
// device's UserName, the first Name anywhere, the filename stem, "Unknown".
func resolveName(root *abletonxml.Node, filename string) string {
	if root != nil {
		if preset := root.FindSelf("GroupDevicePreset"); preset != nil {
			if name := trimmedValue(preset.Child("Name")); name != "" {
				return name
			}
			if name, ok := preset.Attr("Name"); ok && strings.TrimSpace(name) != "" {
				return strings.TrimSpace(name)
			}
			if device := preset.Child("Device"); device != nil {
				for _, child := range device.Children {
					if name := trimmedValue(child.Child("UserName")); name != "" {
						return name
					}
				}
			}
		}
		if name := trimmedValue(root.Find("Name")); name != "" {
			return name
		}
	}
	if filename != "" {
		base := filepath.Base(filename)
		if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
			return stem
		}
	}
	return "Unknown"
}

func trimmedValue(n *abletonxml.Node) string {
	if n == nil {
		return ""
	}
	v, _ := n.Value()
	return strings.TrimSpace(v)
}

func (b *builder) recordError(msg string) {
	b.errors = append(b.errors, msg)
	logging.ErrorWithContext(b.logger, msg, "rack_parse_error",
		logging.String(logging.FieldFile, b.source))
}

func (b *builder) recordWarning(msg string) {
	b.warnings = append(b.warnings, msg)
	logging.WarnWithContext(b.logger, msg, "rack_parse_warning",
		logging.String(logging.FieldFile, b.source))
}

// try runs fn and converts a panic into an error.
func try(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}

// guard runs a best-effort step; a panic becomes a warning naming what.
func (b *builder) guard(what string, fn func()) {
	if err := try(fn); err != nil {
		b.recordWarning(fmt.Sprintf("Error extracting %s: %v", what, err))
	}
}
