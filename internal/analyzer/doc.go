// Package analyzer is the entry point for analyzing Ableton containers.
//
// It picks the schema family from the file extension, decodes the container
// under a configurable deadline and hands the document to the rack, preset or
// session extractor. Batch fans a list of files out over a bounded worker
// pool and reports per-file outcomes in input order.
package analyzer
