// Package deps finds what a Live document needs from outside the file:
// third-party plugins, Max for Live devices and sample references. CheckFiles
// resolves file-backed dependencies on disk.
package deps
