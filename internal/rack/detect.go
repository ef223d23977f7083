package rack

import (
	"rackscope/internal/abletonxml"
)

// UnknownRackTypeMessage is recorded when no rack device can be located.
const UnknownRackTypeMessage = "Unknown rack type - unable to detect AudioEffectGroupDevice, InstrumentGroupDevice, or MidiEffectGroupDevice"

// Detect locates the rack's main device. It first looks inside the first
// GroupDevicePreset's Device element, then falls back to the first element of
// each rack kind anywhere in the document.
func Detect(root *abletonxml.Node) (Kind, *abletonxml.Node, bool) {
	if root == nil {
		return KindUnknown, nil, false
	}
	if preset := root.FindSelf("GroupDevicePreset"); preset != nil {
		if device := preset.Child("Device"); device != nil {
			for _, child := range device.Children {
				if kind := Kind(child.Name); isRackKind(kind) {
					return kind, child, true
				}
			}
		}
	}
	for _, kind := range detectOrder {
		if node := root.FindSelf(string(kind)); node != nil {
			return kind, node, true
		}
	}
	return KindUnknown, nil, false
}

func isRackKind(k Kind) bool {
	switch k {
	case KindAudioEffect, KindInstrument, KindMidiEffect:
		return true
	default:
		return false
	}
}
