// Package rack builds and normalizes the chain/device tree of an Ableton
// rack preset (.adg).
//
// Detect finds the rack kind and its main device, Build walks the branch
// presets into a Descriptor (recording soft failures instead of returning
// errors), and Normalize removes the single-chain audio effect rack wrapper
// that uploads typically carry, promoting nested audio effect rack chains
// into NestedChains. Descriptors serialize to the JSON shape the web layer
// stores.
package rack
