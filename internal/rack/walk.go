package rack

// Walk visits every device reachable from chains in document order: a
// chain's own devices, then each device's expanded chains, then the chain's
// promoted NestedChains. depth is 1 for devices in chains.
func Walk(chains []ChainNode, visit func(device DeviceNode, depth int)) {
	walkChains(chains, 1, visit)
}

func walkChains(chains []ChainNode, depth int, visit func(DeviceNode, int)) {
	for _, chain := range chains {
		for _, device := range chain.Devices {
			visit(device, depth)
			if len(device.Chains) > 0 {
				walkChains(device.Chains, depth+1, visit)
			}
		}
		if len(chain.NestedChains) > 0 {
			walkChains(chain.NestedChains, depth+1, visit)
		}
	}
}

// AllDevices flattens the tree into a single device list, for search
// indexing. The returned devices keep their Chains.
func AllDevices(chains []ChainNode) []DeviceNode {
	out := []DeviceNode{}
	Walk(chains, func(device DeviceNode, _ int) {
		out = append(out, device)
	})
	return out
}

// CountChains returns the number of chains in the tree, nested ones included.
func CountChains(chains []ChainNode) int {
	total := 0
	for _, chain := range chains {
		total++
		for _, device := range chain.Devices {
			total += CountChains(device.Chains)
		}
		total += CountChains(chain.NestedChains)
	}
	return total
}
