package deps

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rackscope/internal/abletonxml"
	"rackscope/internal/devicetypes"
)

// Kind groups external dependencies.
type Kind string

const (
	KindPlugin     Kind = "plugin"
	KindMaxForLive Kind = "max_for_live"
	KindSample     Kind = "sample"
)

// Dependency is something a Live document needs from outside the file.
type Dependency struct {
	Kind    Kind   `json:"kind"`
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Format  string `json:"format,omitempty"`
	Vendor  string `json:"vendor,omitempty"`
	Version string `json:"version,omitempty"`
	// Missing is set when Live itself flagged the reference as missing.
	Missing bool `json:"missing,omitempty"`
}

// Status reports whether a dependency can be resolved on this machine.
type Status struct {
	Dependency
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

var pluginInfoFormats = map[string]string{
	"VstPluginInfo":  "VST",
	"Vst3PluginInfo": "VST3",
	"AuPluginInfo":   "AU",
}

// Scan lists the plugins, Max for Live devices and sample references found
// under root, in document order within each kind.
func Scan(root *abletonxml.Node) []Dependency {
	if root == nil {
		return nil
	}
	var out []Dependency
	out = append(out, Plugins(root)...)
	out = append(out, MaxDevices(root)...)
	out = append(out, Samples(root)...)
	return out
}

// Plugins reads third-party plugin descriptors: PluginDesc blocks written by
// Live and the ExternalPlugin/ThirdPartyPlugin attribute form.
func Plugins(root *abletonxml.Node) []Dependency {
	var out []Dependency
	for _, n := range root.FindFunc(func(n *abletonxml.Node) bool {
		_, ok := pluginInfoFormats[n.Name]
		return ok || n.Name == "ExternalPlugin" || n.Name == "ThirdPartyPlugin"
	}) {
		if format, ok := pluginInfoFormats[n.Name]; ok {
			dep := Dependency{Kind: KindPlugin, Format: format}
			dep.Name = firstProp(n, "PlugName", "Name")
			dep.Vendor = firstProp(n, "Manufacturer")
			dep.Path = firstProp(n, "Path", "FileName")
			if dep.Name == "" {
				dep.Name = "Unknown Plugin"
			}
			out = append(out, dep)
			continue
		}
		out = append(out, Dependency{
			Kind:    KindPlugin,
			Name:    n.AttrOr("Name", "Unknown Plugin"),
			Version: n.AttrOr("Version", ""),
			Vendor:  n.AttrOr("Vendor", ""),
			Format:  n.AttrOr("Format", "VST"),
		})
	}
	return out
}

// IsMaxDevice reports whether tag is a Max for Live device element.
func IsMaxDevice(tag string) bool {
	return strings.HasPrefix(tag, "MxDevice") || tag == "MaxDevice"
}

// MaxDevices lists Max for Live devices with the .amxd they load, when known.
func MaxDevices(root *abletonxml.Node) []Dependency {
	var out []Dependency
	for _, n := range root.FindFunc(func(n *abletonxml.Node) bool { return IsMaxDevice(n.Name) }) {
		dep := Dependency{Kind: KindMaxForLive}
		dep.Name = firstProp(n, "UserName", "Name", "DisplayName")
		if dep.Name == "" {
			dep.Name = devicetypes.DisplayName(n.Name)
		}
		if path, ok := n.Attr("Path"); ok {
			dep.Path = path
		} else if ref := n.Find("FileRef"); ref != nil {
			dep.Path = samplePath(ref)
		}
		out = append(out, dep)
	}
	return out
}

// Samples lists every FileRef outside Max for Live devices.
func Samples(root *abletonxml.Node) []Dependency {
	var out []Dependency
	for _, ref := range root.FindAll("FileRef") {
		if ref.Ancestor(func(n *abletonxml.Node) bool { return IsMaxDevice(n.Name) }) != nil {
			continue
		}
		dep := Dependency{Kind: KindSample, Path: samplePath(ref)}
		dep.Name = firstProp(ref, "Name")
		if dep.Name == "" && dep.Path != "" {
			dep.Name = filepath.Base(filepath.FromSlash(dep.Path))
		}
		if dep.Name == "" {
			dep.Name = "Unknown"
		}
		if missing, ok := ref.Attr("Missing"); ok && missing == "true" {
			dep.Missing = true
		}
		out = append(out, dep)
	}
	return out
}

// MissingSamples filters Samples down to the references Live marked missing.
func MissingSamples(root *abletonxml.Node) []Dependency {
	var out []Dependency
	for _, dep := range Samples(root) {
		if dep.Missing {
			out = append(out, dep)
		}
	}
	return out
}

// CheckFiles resolves sample and Max for Live paths against the filesystem.
// Relative paths are resolved against baseDir, the directory holding the
// analyzed document. Plugins cannot be checked and are reported as
// unavailable with a detail message.
func CheckFiles(deps []Dependency, baseDir string) []Status {
	results := make([]Status, 0, len(deps))
	for _, dep := range deps {
		status := Status{Dependency: dep}
		path := strings.TrimSpace(dep.Path)
		switch {
		case dep.Kind == KindPlugin:
			status.Detail = "plugin availability is not checked"
		case path == "":
			status.Detail = "no path recorded"
		default:
			resolved := filepath.FromSlash(path)
			if !filepath.IsAbs(resolved) && baseDir != "" {
				resolved = filepath.Join(baseDir, resolved)
			}
			info, err := os.Stat(resolved)
			switch {
			case err != nil:
				status.Detail = fmt.Sprintf("file %q not found", resolved)
			case info.IsDir():
				status.Detail = fmt.Sprintf("%q is a directory", resolved)
			default:
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

// samplePath prefers the absolute Path and falls back to RelativePath.
func samplePath(ref *abletonxml.Node) string {
	if p := firstProp(ref, "Path"); p != "" {
		return p
	}
	if p := firstProp(ref, "RelativePath"); p != "" {
		return p
	}
	// Live 9 stores the relative path as RelativePathElement Dir entries.
	var parts []string
	for _, elem := range ref.At("RelativePath").ChildrenNamed("RelativePathElement") {
		if dir, ok := elem.Attr("Dir"); ok && dir != "" {
			parts = append(parts, dir)
		}
	}
	if name := firstProp(ref, "Name"); name != "" && len(parts) > 0 {
		return strings.Join(append(parts, name), "/")
	}
	return ""
}

func firstProp(n *abletonxml.Node, names ...string) string {
	for _, name := range names {
		if v, ok := n.Prop(name); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
