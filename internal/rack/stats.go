package rack

import "rackscope/internal/devicetypes"

// Summary aggregates a descriptor's device tree.
type Summary struct {
	Chains     int            `json:"chains"`
	Devices    int            `json:"devices"`
	MaxDepth   int            `json:"max_depth"`
	Disabled   int            `json:"disabled"`
	Categories map[string]int `json:"categories"`
}

// Stats counts chains and devices, the deepest device level, and devices per
// category.
func Stats(desc *Descriptor) Summary {
	summary := Summary{Categories: map[string]int{}}
	if desc == nil {
		return summary
	}
	summary.Chains = CountChains(desc.Chains)
	Walk(desc.Chains, func(device DeviceNode, depth int) {
		summary.Devices++
		if depth > summary.MaxDepth {
			summary.MaxDepth = depth
		}
		if !device.IsOn {
			summary.Disabled++
		}
		summary.Categories[devicetypes.Category(device.StandardName)]++
	})
	return summary
}
