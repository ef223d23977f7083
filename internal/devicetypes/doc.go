// Package devicetypes maps the internal device tokens found in Live's XML
// (element tags such as "Eq8" or "InstrumentGroupDevice") to display names and
// coarse categories.
//
// The tables are package-level and never mutated. Lookups are permissive: an
// unknown token is returned unchanged with category "other" so that devices
// added by newer Live releases still appear in the tree.
package devicetypes
