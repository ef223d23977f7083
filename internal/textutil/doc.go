// Package textutil turns rack, preset and set names into safe file names for
// exported analyses.
package textutil
