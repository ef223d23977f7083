package analyzer

import (
	"path/filepath"
	"strings"
	"time"

	"rackscope/internal/deps"
	"rackscope/internal/preset"
	"rackscope/internal/rack"
	"rackscope/internal/session"
)

// Result is one analyzed container. Exactly one of Rack, Preset or Session is
// set, matching Family.
type Result struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"path,omitempty"`
	Family     Family    `json:"family"`
	SHA256     string    `json:"sha256"`
	Size       int64     `json:"size_bytes"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	DurationMS int64     `json:"duration_ms"`
	Normalized bool      `json:"normalized,omitempty"`

	Rack         *rack.Descriptor  `json:"rack,omitempty"`
	Edition      rack.Edition      `json:"edition,omitempty"`
	Stats        *rack.Summary     `json:"stats,omitempty"`
	Dependencies []deps.Dependency `json:"dependencies,omitempty"`

	Preset  *preset.Analysis  `json:"preset,omitempty"`
	Session *session.Analysis `json:"session,omitempty"`
}

// Payload returns the family-specific document: the canonical rack
// descriptor, the preset analysis or the session analysis.
func (r *Result) Payload() any {
	switch {
	case r == nil:
		return nil
	case r.Rack != nil:
		return r.Rack
	case r.Preset != nil:
		return r.Preset
	case r.Session != nil:
		return r.Session
	default:
		return nil
	}
}

// Name is the display name of the analyzed item.
func (r *Result) Name() string {
	switch {
	case r == nil:
		return ""
	case r.Rack != nil:
		return r.Rack.Name
	case r.Preset != nil:
		if r.Preset.Device.PresetName != "" {
			return r.Preset.Device.PresetName
		}
		return r.Preset.Device.Name
	default:
		return strings.TrimSuffix(r.Filename, filepath.Ext(r.Filename))
	}
}

// Kind is the rack type, preset device type or "session".
func (r *Result) Kind() string {
	switch {
	case r == nil:
		return ""
	case r.Rack != nil:
		return r.Rack.RackType.String()
	case r.Preset != nil:
		return r.Preset.Device.Type
	case r.Session != nil:
		return string(FamilySession)
	default:
		return ""
	}
}

// ErrorCount is the number of soft parsing errors. Only racks separate errors
// from warnings.
func (r *Result) ErrorCount() int {
	if r == nil || r.Rack == nil {
		return 0
	}
	return len(r.Rack.ParsingErrors)
}

// WarningCount is the number of soft warnings recorded for the item.
func (r *Result) WarningCount() int {
	switch {
	case r == nil:
		return 0
	case r.Rack != nil:
		return len(r.Rack.ParsingWarnings)
	case r.Preset != nil:
		return len(r.Preset.Warnings)
	case r.Session != nil:
		return len(r.Session.Warnings)
	default:
		return 0
	}
}
