// Package logs reads the rackscope log file for the "rackscope logs"
// command.
//
// Tail returns the last N lines (optionally only those mentioning a batch
// run id) together with the end offset, and Follow polls from that offset
// until the context is cancelled. Memory stays bounded by the requested line
// count regardless of log size.
package logs
