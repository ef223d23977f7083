// Package preset analyzes single-device presets (.adv).
//
// Analyze reports the device, its parameters and macros, metadata, a
// compatibility summary and a handful of sonic tags. Each section is read
// independently; a section that fails is left empty and explained in
// Analysis.Warnings.
package preset
