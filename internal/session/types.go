package session

import (
	"rackscope/internal/deps"
	"rackscope/internal/rack"
)

// Track types.
const (
	TrackAudio   = "audio"
	TrackMIDI    = "midi"
	TrackReturn  = "return"
	TrackGroup   = "group"
	TrackUnknown = "unknown"
)

// Analysis is the result of analyzing a Live set.
type Analysis struct {
	Metadata      Metadata       `json:"session_metadata"`
	Tracks        TrackSummary   `json:"track_analysis"`
	EmbeddedRacks []EmbeddedRack `json:"embedded_racks"`
	Clips         ClipSummary    `json:"clips"`
	Dependencies  Dependencies   `json:"external_dependencies"`
	Automation    Automation     `json:"automation_analysis"`
	Arrangement   Arrangement    `json:"arrangement_structure"`
	Compatibility Compatibility  `json:"compatibility"`
	Warnings      []string       `json:"warnings"`
}

// Metadata describes the set as a whole.
type Metadata struct {
	Tempo           *float64 `json:"bpm"`
	TimeSignature   string   `json:"time_signature"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	SampleRate      *int     `json:"sample_rate,omitempty"`
	BitDepth        *int     `json:"bit_depth,omitempty"`
	AbletonVersion  string   `json:"ableton_version,omitempty"`
	CreatedDate     string   `json:"created_date,omitempty"`
	LastModified    string   `json:"last_modified,omitempty"`
	Author          string   `json:"author,omitempty"`
	Comments        string   `json:"comments,omitempty"`
}

// TrackSummary counts tracks by type and lists them in set order.
type TrackSummary struct {
	Total   int     `json:"total_tracks"`
	Audio   int     `json:"audio_tracks"`
	MIDI    int     `json:"midi_tracks"`
	Return  int     `json:"return_tracks"`
	Group   int     `json:"group_tracks"`
	Details []Track `json:"track_details"`
}

// Track is one track of the set.
type Track struct {
	Index         int           `json:"index"`
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	Color         string        `json:"color,omitempty"`
	IsMuted       bool          `json:"is_muted"`
	IsSoloed      bool          `json:"is_soloed"`
	Devices       []TrackDevice `json:"devices"`
	ClipCount     int           `json:"clips_count"`
	HasAutomation bool          `json:"has_automation"`
}

// TrackDevice is a top-level device on a track.
type TrackDevice struct {
	Type string `json:"type"`
	Name string `json:"name"`
	IsOn bool   `json:"is_enabled"`
}

// EmbeddedRack is a rack device found anywhere in the set.
type EmbeddedRack struct {
	Type        string              `json:"type"`
	Name        string              `json:"name"`
	Track       string              `json:"location"`
	Macros      []rack.MacroControl `json:"macros"`
	ChainCount  int                 `json:"chains"`
	DeviceCount int                 `json:"devices"`
}

// ClipSummary counts clips and MIDI notes.
type ClipSummary struct {
	Audio int `json:"audio_clips"`
	MIDI  int `json:"midi_clips"`
	Notes int `json:"midi_notes"`
}

// Dependencies are the set's external requirements.
type Dependencies struct {
	Plugins        []deps.Dependency `json:"external_plugins"`
	MissingSamples []deps.Dependency `json:"missing_samples"`
	MaxForLive     []deps.Dependency `json:"max_for_live_devices"`
}

// Automation summarizes automation envelopes.
type Automation struct {
	HasAutomation       bool             `json:"has_automation"`
	AutomatedParameters int              `json:"automated_parameters"`
	Lanes               []AutomationLane `json:"automation_lanes"`
}

// AutomationLane is one envelope.
type AutomationLane struct {
	Target string `json:"parameter"`
	Points int    `json:"points"`
}

// Arrangement holds locators and the arrangement length.
type Arrangement struct {
	Locators    []Locator `json:"markers"`
	LengthBeats float64   `json:"length_beats"`
	TotalBars   int       `json:"total_bars"`
}

// Locator is an arrangement marker; Time is in beats.
type Locator struct {
	Name string  `json:"name"`
	Time float64 `json:"time"`
}

// Compatibility summarizes what is needed to open the set.
type Compatibility struct {
	MinAbletonVersion   string `json:"min_ableton_version"`
	MaxForLiveRequired  bool   `json:"max_for_live_required"`
	ExternalPluginCount int    `json:"external_plugin_count"`
	MissingSampleCount  int    `json:"missing_sample_count"`
}
