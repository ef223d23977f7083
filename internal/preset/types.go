package preset

import "rackscope/internal/deps"

// CPU usage estimates.
const (
	CPULow    = "low"
	CPUMedium = "medium"
	CPUHigh   = "high"
)

// Analysis is the result of analyzing a device preset.
type Analysis struct {
	Device        DeviceInfo    `json:"device_info"`
	Parameters    []Parameter   `json:"parameters"`
	Macros        []Macro       `json:"macros"`
	Metadata      Metadata      `json:"metadata"`
	Compatibility Compatibility `json:"compatibility"`
	SonicTags     []string      `json:"sonic_analysis"`
	Warnings      []string      `json:"warnings"`
}

// DeviceInfo identifies the preset's device.
type DeviceInfo struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	IsInstrument bool   `json:"is_instrument"`
	IsEffect     bool   `json:"is_effect"`
	PresetName   string `json:"preset_name,omitempty"`
}

// Parameter is one automatable device parameter.
type Parameter struct {
	Name  string   `json:"name"`
	Value float64  `json:"value"`
	Type  string   `json:"type"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}

// Macro is a macro knob with the parameters it drives.
type Macro struct {
	Index    int            `json:"index"`
	Name     string         `json:"name"`
	Value    float64        `json:"value"`
	Mappings []MacroMapping `json:"mappings"`
}

// MacroMapping is one parameter range driven by a macro.
type MacroMapping struct {
	Parameter string  `json:"parameter"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// Metadata is descriptive information stored alongside the device.
type Metadata struct {
	AbletonVersion   string `json:"ableton_version,omitempty"`
	CreationDate     string `json:"creation_date,omitempty"`
	ModificationDate string `json:"modification_date,omitempty"`
	Author           string `json:"author,omitempty"`
	SampleRate       *int   `json:"sample_rate,omitempty"`
	Polyphony        *int   `json:"polyphony,omitempty"`
	Voices           *int   `json:"voices,omitempty"`
}

// Compatibility summarizes what is needed to load the preset.
type Compatibility struct {
	MinAbletonVersion  string            `json:"min_ableton_version"`
	MaxForLiveRequired bool              `json:"max_for_live_required"`
	PluginDependencies []deps.Dependency `json:"plugin_dependencies"`
	CPUUsageEstimate   string            `json:"cpu_usage_estimate"`
}
