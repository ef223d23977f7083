// Package preflight provides readiness checks for the filesystem paths
// rackscope writes to.
//
// The CLI "rackscope config validate" command runs RunAll after the
// configuration has been loaded and reports each check. Batch runs call
// CheckDirectoryAccess on the store directory before taking the lock so a
// read-only data directory fails fast instead of after every file has been
// decoded.
package preflight
