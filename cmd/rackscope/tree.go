package main

import (
	"fmt"
	"strconv"
	"strings"

	"rackscope/internal/analyzer"
	"rackscope/internal/preset"
	"rackscope/internal/rack"
	"rackscope/internal/session"
)

type treeGlyphs struct {
	branch string
	last   string
	pipe   string
	space  string
}

var (
	unicodeGlyphs = treeGlyphs{branch: "├── ", last: "└── ", pipe: "│   ", space: "    "}
	asciiGlyphs   = treeGlyphs{branch: "|-- ", last: "`-- ", pipe: "|   ", space: "    "}
)

type treeNode struct {
	label    string
	children []treeNode
}

func (n treeNode) render(g treeGlyphs) string {
	var b strings.Builder
	b.WriteString(n.label)
	b.WriteByte('\n')
	writeChildren(&b, n.children, "", g)
	return b.String()
}

func writeChildren(b *strings.Builder, children []treeNode, prefix string, g treeGlyphs) {
	for i, child := range children {
		connector, indent := g.branch, g.pipe
		if i == len(children)-1 {
			connector, indent = g.last, g.space
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(child.label)
		b.WriteByte('\n')
		writeChildren(b, child.children, prefix+indent, g)
	}
}

func resultTree(result *analyzer.Result) treeNode {
	switch {
	case result.Rack != nil:
		return rackTree(result)
	case result.Preset != nil:
		return presetTree(result.Preset)
	case result.Session != nil:
		return sessionTree(result.Name(), result.Session)
	default:
		return treeNode{label: result.Filename}
	}
}

func rackTree(result *analyzer.Result) treeNode {
	desc := result.Rack
	details := []string{desc.RackType.String()}
	if desc.Version.String != "" {
		details = append(details, "Live "+desc.Version.String)
	}
	if result.Edition != "" {
		details = append(details, string(result.Edition))
	}
	root := treeNode{label: fmt.Sprintf("%s (%s)", desc.Name, strings.Join(details, ", "))}

	if len(desc.MacroControls) > 0 {
		macros := treeNode{label: "Macros"}
		for _, m := range desc.MacroControls {
			macros.children = append(macros.children, treeNode{
				label: fmt.Sprintf("%d: %s = %s", m.Index+1, m.Name, formatFloat(m.Value)),
			})
		}
		root.children = append(root.children, macros)
	}
	for _, chain := range desc.Chains {
		root.children = append(root.children, chainTree(chain))
	}
	root.children = append(root.children, messageNodes("Errors", desc.ParsingErrors)...)
	root.children = append(root.children, messageNodes("Warnings", desc.ParsingWarnings)...)
	return root
}

func chainTree(chain rack.ChainNode) treeNode {
	label := "Chain " + chain.Name
	if chain.IsSoloed {
		label += " [solo]"
	}
	if r := chain.KeyRange; r != nil {
		label += fmt.Sprintf(" keys %d-%d", r.Low, r.High)
	}
	if r := chain.VelocityRange; r != nil {
		label += fmt.Sprintf(" vel %d-%d", r.Low, r.High)
	}
	node := treeNode{label: label}
	for _, device := range chain.Devices {
		node.children = append(node.children, deviceTree(device))
	}
	for _, nested := range chain.NestedChains {
		node.children = append(node.children, chainTree(nested))
	}
	return node
}

func deviceTree(device rack.DeviceNode) treeNode {
	label := device.Name
	if device.Name != device.StandardName {
		label += " (" + device.StandardName + ")"
	}
	if !device.IsOn {
		label += " [off]"
	}
	node := treeNode{label: label}
	for _, chain := range device.Chains {
		node.children = append(node.children, chainTree(chain))
	}
	return node
}

func presetTree(a *preset.Analysis) treeNode {
	name := a.Device.PresetName
	if name == "" {
		name = a.Device.Name
	}
	root := treeNode{label: fmt.Sprintf("%s (%s, %s)", name, a.Device.Name, a.Device.Category)}

	info := treeNode{label: "Compatibility"}
	info.children = append(info.children,
		treeNode{label: "Minimum Live version: " + a.Compatibility.MinAbletonVersion},
		treeNode{label: "Max for Live: " + yesNo(a.Compatibility.MaxForLiveRequired)},
		treeNode{label: "CPU estimate: " + a.Compatibility.CPUUsageEstimate},
	)
	for _, dep := range a.Compatibility.PluginDependencies {
		info.children = append(info.children, treeNode{label: fmt.Sprintf("Plugin: %s (%s)", dep.Name, dep.Format)})
	}
	root.children = append(root.children, info)

	if len(a.Parameters) > 0 {
		params := treeNode{label: fmt.Sprintf("Parameters (%d)", len(a.Parameters))}
		for _, p := range a.Parameters {
			params.children = append(params.children, treeNode{label: fmt.Sprintf("%s = %s", p.Name, formatFloat(p.Value))})
		}
		root.children = append(root.children, params)
	}
	if len(a.Macros) > 0 {
		macros := treeNode{label: "Macros"}
		for _, m := range a.Macros {
			macro := treeNode{label: fmt.Sprintf("%d: %s = %s", m.Index+1, m.Name, formatFloat(m.Value))}
			for _, mapping := range m.Mappings {
				macro.children = append(macro.children, treeNode{
					label: fmt.Sprintf("%s [%s..%s]", mapping.Parameter, formatFloat(mapping.Min), formatFloat(mapping.Max)),
				})
			}
			macros.children = append(macros.children, macro)
		}
		root.children = append(root.children, macros)
	}
	if len(a.SonicTags) > 0 {
		root.children = append(root.children, treeNode{label: "Tags: " + strings.Join(a.SonicTags, ", ")})
	}
	root.children = append(root.children, messageNodes("Warnings", a.Warnings)...)
	return root
}

func sessionTree(name string, a *session.Analysis) treeNode {
	details := []string{"session"}
	if a.Metadata.Tempo != nil {
		details = append(details, formatFloat(*a.Metadata.Tempo)+" BPM")
	}
	if a.Metadata.TimeSignature != "" {
		details = append(details, a.Metadata.TimeSignature)
	}
	if a.Arrangement.TotalBars > 0 {
		details = append(details, strconv.Itoa(a.Arrangement.TotalBars)+" bars")
	}
	root := treeNode{label: fmt.Sprintf("%s (%s)", name, strings.Join(details, ", "))}

	tracks := treeNode{label: fmt.Sprintf("Tracks (%d audio, %d midi, %d return, %d group)",
		a.Tracks.Audio, a.Tracks.MIDI, a.Tracks.Return, a.Tracks.Group)}
	for _, track := range a.Tracks.Details {
		label := fmt.Sprintf("%s [%s]", track.Name, track.Type)
		if track.IsMuted {
			label += " [muted]"
		}
		if track.IsSoloed {
			label += " [solo]"
		}
		node := treeNode{label: label}
		for _, device := range track.Devices {
			deviceLabel := device.Name
			if !device.IsOn {
				deviceLabel += " [off]"
			}
			node.children = append(node.children, treeNode{label: deviceLabel})
		}
		tracks.children = append(tracks.children, node)
	}
	root.children = append(root.children, tracks)

	if len(a.EmbeddedRacks) > 0 {
		racks := treeNode{label: "Racks"}
		for _, r := range a.EmbeddedRacks {
			racks.children = append(racks.children, treeNode{
				label: fmt.Sprintf("%s on %s (%d chains, %d devices)", r.Name, r.Track, r.ChainCount, r.DeviceCount),
			})
		}
		root.children = append(root.children, racks)
	}

	deps := treeNode{label: "Dependencies"}
	for _, dep := range a.Dependencies.Plugins {
		deps.children = append(deps.children, treeNode{label: fmt.Sprintf("Plugin: %s (%s)", dep.Name, dep.Format)})
	}
	for _, dep := range a.Dependencies.MaxForLive {
		deps.children = append(deps.children, treeNode{label: "Max for Live: " + dep.Name})
	}
	for _, dep := range a.Dependencies.MissingSamples {
		deps.children = append(deps.children, treeNode{label: "Missing sample: " + dep.Name})
	}
	if len(deps.children) > 0 {
		root.children = append(root.children, deps)
	}
	if len(a.Arrangement.Locators) > 0 {
		markers := treeNode{label: "Locators"}
		for _, l := range a.Arrangement.Locators {
			markers.children = append(markers.children, treeNode{label: fmt.Sprintf("%s @ %s", l.Name, formatFloat(l.Time))})
		}
		root.children = append(root.children, markers)
	}
	root.children = append(root.children, messageNodes("Warnings", a.Warnings)...)
	return root
}

func messageNodes(title string, messages []string) []treeNode {
	if len(messages) == 0 {
		return nil
	}
	node := treeNode{label: title}
	for _, msg := range messages {
		node.children = append(node.children, treeNode{label: msg})
	}
	return []treeNode{node}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
