// Package session analyzes Live sets (.als).
//
// Analyze summarizes tempo and time signature, the track layout, racks
// embedded in tracks, external dependencies, automation and the arrangement.
// Sections are read independently and a failing section only adds a warning.
package session
