package rack

import (
	"encoding/json"
	"fmt"

	"rackscope/internal/devicetypes"
)

// MaxDepth is the deepest device level the builder expands. Devices in the
// top-level chains sit at depth 1.
const MaxDepth = 10

// Kind is the rack flavour, named by its device token.
type Kind string

const (
	KindUnknown     Kind = ""
	KindAudioEffect Kind = devicetypes.AudioEffectRack
	KindInstrument  Kind = devicetypes.InstrumentRack
	KindMidiEffect  Kind = devicetypes.MidiEffectRack
)

// detectOrder is the fixed order used by the document-wide fallback search.
var detectOrder = []Kind{KindAudioEffect, KindInstrument, KindMidiEffect}

// BranchTag names the chain elements stored under a rack of this kind.
func (k Kind) BranchTag() string {
	return devicetypes.BranchTag(string(k))
}

// String returns the display name, or "Unknown".
func (k Kind) String() string {
	if k == KindUnknown {
		return "Unknown"
	}
	return devicetypes.DisplayName(string(k))
}

func (k Kind) MarshalJSON() ([]byte, error) {
	if k == KindUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(string(k))
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*k = KindUnknown
		return nil
	}
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("rack type: %w", err)
	}
	*k = Kind(token)
	return nil
}

// Descriptor is the decoded rack.
type Descriptor struct {
	Name            string
	RackType        Kind
	MacroControls   []MacroControl
	Chains          []ChainNode
	Version         VersionInfo
	ParsingErrors   []string
	ParsingWarnings []string
}

// VersionInfo holds the Live version that wrote the file. String is the
// dotted form; empty means unknown.
type VersionInfo struct {
	Major    *int
	Minor    *int
	Build    *int
	Revision *int
	String   string
}

// MacroControl is a named macro knob.
type MacroControl struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Index int     `json:"index"`
}

// Range is an inclusive key or velocity zone.
type Range struct {
	Low  int
	High int
}

// Annotations carries free-form chain metadata.
type Annotations struct {
	Description *string
	Purpose     *string
	Tags        []string
}

// ChainNode is one chain of a rack.
type ChainNode struct {
	Name          string
	IsSoloed      bool
	ChainIndex    int
	KeyRange      *Range
	VelocityRange *Range
	Devices       []DeviceNode
	// NestedChains is nil unless normalization promoted nested rack chains here.
	NestedChains []ChainNode
	Annotations  Annotations
}

// DeviceNode is one device in a chain.
type DeviceNode struct {
	Type         string
	Name         string
	StandardName string
	// PresetName is the standard name when the user renamed the device.
	PresetName string
	IsOn       bool
	// Chains is non-nil only for expanded rack devices.
	Chains []ChainNode
}

// IsRack reports whether the device is one of the chain-bearing rack kinds.
func (d DeviceNode) IsRack() bool {
	return devicetypes.IsRackKind(d.Type)
}

type versionJSON struct {
	Major    *int `json:"major_version"`
	Minor    *int `json:"minor_version"`
	Build    *int `json:"build_number"`
	Revision *int `json:"revision"`
}

type descriptorJSON struct {
	RackName        string         `json:"rack_name"`
	UseCase         string         `json:"use_case"`
	RackType        Kind           `json:"rack_type"`
	MacroControls   []MacroControl `json:"macro_controls"`
	Chains          []ChainNode    `json:"chains"`
	AbletonVersion  *string        `json:"ableton_version"`
	VersionDetails  versionJSON    `json:"version_details"`
	ParsingErrors   []string       `json:"parsing_errors"`
	ParsingWarnings []string       `json:"parsing_warnings"`
}

func (d Descriptor) MarshalJSON() ([]byte, error) {
	out := descriptorJSON{
		RackName:        d.Name,
		UseCase:         d.Name,
		RackType:        d.RackType,
		MacroControls:   nonNil(d.MacroControls),
		Chains:          nonNil(d.Chains),
		VersionDetails:  versionJSON{d.Version.Major, d.Version.Minor, d.Version.Build, d.Version.Revision},
		ParsingErrors:   nonNil(d.ParsingErrors),
		ParsingWarnings: nonNil(d.ParsingWarnings),
	}
	if d.Version.String != "" {
		v := d.Version.String
		out.AbletonVersion = &v
	}
	return json.Marshal(out)
}

func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var in descriptorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = Descriptor{
		Name:            in.RackName,
		RackType:        in.RackType,
		MacroControls:   in.MacroControls,
		Chains:          in.Chains,
		ParsingErrors:   in.ParsingErrors,
		ParsingWarnings: in.ParsingWarnings,
		Version: VersionInfo{
			Major:    in.VersionDetails.Major,
			Minor:    in.VersionDetails.Minor,
			Build:    in.VersionDetails.Build,
			Revision: in.VersionDetails.Revision,
		},
	}
	if in.AbletonVersion != nil {
		d.Version.String = *in.AbletonVersion
	}
	return nil
}

type keyRangeJSON struct {
	Low  int `json:"low_key"`
	High int `json:"high_key"`
}

type velocityRangeJSON struct {
	Low  int `json:"low_vel"`
	High int `json:"high_vel"`
}

type annotationsJSON struct {
	Description   *string            `json:"description"`
	Purpose       *string            `json:"purpose"`
	KeyRange      *keyRangeJSON      `json:"key_range"`
	VelocityRange *velocityRangeJSON `json:"velocity_range"`
	Tags          []string           `json:"tags"`
}

type chainJSON struct {
	Name         string          `json:"name"`
	IsSoloed     bool            `json:"is_soloed"`
	ChainIndex   int             `json:"chain_index"`
	Devices      []DeviceNode    `json:"devices"`
	NestedChains []ChainNode     `json:"nested_chains,omitempty"`
	Annotations  annotationsJSON `json:"annotations"`
}

func (c ChainNode) MarshalJSON() ([]byte, error) {
	out := chainJSON{
		Name:         c.Name,
		IsSoloed:     c.IsSoloed,
		ChainIndex:   c.ChainIndex,
		Devices:      nonNil(c.Devices),
		NestedChains: c.NestedChains,
		Annotations: annotationsJSON{
			Description: c.Annotations.Description,
			Purpose:     c.Annotations.Purpose,
			Tags:        nonNil(c.Annotations.Tags),
		},
	}
	if c.KeyRange != nil {
		out.Annotations.KeyRange = &keyRangeJSON{Low: c.KeyRange.Low, High: c.KeyRange.High}
	}
	if c.VelocityRange != nil {
		out.Annotations.VelocityRange = &velocityRangeJSON{Low: c.VelocityRange.Low, High: c.VelocityRange.High}
	}
	return json.Marshal(out)
}

func (c *ChainNode) UnmarshalJSON(data []byte) error {
	var in chainJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = ChainNode{
		Name:         in.Name,
		IsSoloed:     in.IsSoloed,
		ChainIndex:   in.ChainIndex,
		Devices:      in.Devices,
		NestedChains: in.NestedChains,
		Annotations: Annotations{
			Description: in.Annotations.Description,
			Purpose:     in.Annotations.Purpose,
			Tags:        in.Annotations.Tags,
		},
	}
	if r := in.Annotations.KeyRange; r != nil {
		c.KeyRange = &Range{Low: r.Low, High: r.High}
	}
	if r := in.Annotations.VelocityRange; r != nil {
		c.VelocityRange = &Range{Low: r.Low, High: r.High}
	}
	return nil
}

type deviceJSON struct {
	Type         string       `json:"type"`
	Name         string       `json:"name"`
	StandardName string       `json:"standard_name"`
	IsOn         bool         `json:"is_on"`
	PresetName   string       `json:"preset_name,omitempty"`
	Chains       *[]ChainNode `json:"chains,omitempty"`
}

func (d DeviceNode) MarshalJSON() ([]byte, error) {
	out := deviceJSON{
		Type:         d.Type,
		Name:         d.Name,
		StandardName: d.StandardName,
		IsOn:         d.IsOn,
		PresetName:   d.PresetName,
	}
	if d.Chains != nil {
		chains := d.Chains
		out.Chains = &chains
	}
	return json.Marshal(out)
}

func (d *DeviceNode) UnmarshalJSON(data []byte) error {
	var in deviceJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = DeviceNode{
		Type:         in.Type,
		Name:         in.Name,
		StandardName: in.StandardName,
		IsOn:         in.IsOn,
		PresetName:   in.PresetName,
	}
	if in.Chains != nil {
		d.Chains = *in.Chains
		if d.Chains == nil {
			d.Chains = []ChainNode{}
		}
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
