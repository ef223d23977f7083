// Command rackscope inspects Ableton Live racks, device presets and sets.
//
// It prints normalized chain trees and metadata as JSON, YAML or a text
// tree, imports whole folders into a local SQLite store and lists what has
// been stored.
package main
