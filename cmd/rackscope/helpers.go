package main

import (
	"errors"
	"fmt"
	"io/fs"

	"rackscope/internal/abletonxml"
	"rackscope/internal/analyzer"
	"rackscope/internal/fileutil"
)

// readInput loads a file named on the command line, applying the same size
// ceiling as the decoder.
func readInput(path string) ([]byte, error) {
	read, err := fileutil.ReadFileVerified(path, abletonxml.MaxFileSize)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, analyzer.Wrap(analyzer.ErrNotFound, path, "read", "", err)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return read.Data, nil
}
