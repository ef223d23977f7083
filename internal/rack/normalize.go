package rack

import (
	"slices"

	"rackscope/internal/devicetypes"
)

// deviceAliases renames a few devices whose standard names read poorly in
// the tree view. Applied only when the user has not renamed the device.
var deviceAliases = map[string]string{
	"StereoGain":             "Utility",
	"Eq8":                    "EQ Eight",
	"AudioEffectGroupDevice": "Audio Effect Rack",
}

// Normalize returns a canonical copy of desc; desc itself is not modified.
//
// Uploads usually wrap the real rack in a single-chain audio effect rack.
// When the root has exactly one chain holding exactly one audio effect rack
// with chains, that rack's chains become the root chains. Then, in every
// chain, audio effect racks with chains are replaced by their (normalized)
// chains in NestedChains. Instrument and MIDI effect racks are left alone.
// Normalize is idempotent.
func Normalize(desc *Descriptor) *Descriptor {
	if desc == nil {
		return nil
	}
	out := *desc
	out.MacroControls = slices.Clone(desc.MacroControls)
	out.ParsingErrors = slices.Clone(desc.ParsingErrors)
	out.ParsingWarnings = slices.Clone(desc.ParsingWarnings)

	chains := desc.Chains
	if len(chains) == 1 && len(chains[0].Devices) == 1 {
		if wrapper := chains[0].Devices[0]; isPromotable(wrapper) {
			chains = wrapper.Chains
		}
	}
	out.Chains = normalizeChains(chains)
	return &out
}

func normalizeChains(chains []ChainNode) []ChainNode {
	out := make([]ChainNode, 0, len(chains))
	for _, chain := range chains {
		out = append(out, normalizeChain(chain))
	}
	return out
}

func normalizeChain(chain ChainNode) ChainNode {
	out := chain
	out.Annotations.Tags = slices.Clone(chain.Annotations.Tags)
	out.Devices = make([]DeviceNode, 0, len(chain.Devices))

	var promoted []ChainNode
	if chain.NestedChains != nil {
		promoted = normalizeChains(chain.NestedChains)
	}
	for _, device := range chain.Devices {
		if isPromotable(device) {
			promoted = append(promoted, normalizeChains(device.Chains)...)
			continue
		}
		out.Devices = append(out.Devices, normalizeDevice(device))
	}
	// Chains promoted from sibling racks each start at 0.
	for i := range promoted {
		promoted[i].ChainIndex = i
	}
	out.NestedChains = promoted
	return out
}

func normalizeDevice(device DeviceNode) DeviceNode {
	out := device
	if alias, ok := deviceAliases[device.Type]; ok && device.Name == device.StandardName {
		out.Name = alias
	}
	if device.Chains != nil {
		// Instrument and MIDI racks keep their chains untouched.
		out.Chains = cloneChains(device.Chains)
	}
	return out
}

func isPromotable(device DeviceNode) bool {
	return device.Type == devicetypes.AudioEffectRack && len(device.Chains) > 0
}

func cloneChains(chains []ChainNode) []ChainNode {
	out := make([]ChainNode, len(chains))
	for i, chain := range chains {
		out[i] = chain
		out[i].Annotations.Tags = slices.Clone(chain.Annotations.Tags)
		out[i].Devices = make([]DeviceNode, len(chain.Devices))
		for j, device := range chain.Devices {
			out[i].Devices[j] = device
			if device.Chains != nil {
				out[i].Devices[j].Chains = cloneChains(device.Chains)
			}
		}
		if chain.NestedChains != nil {
			out[i].NestedChains = cloneChains(chain.NestedChains)
		}
	}
	return out
}
