package fileutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrTooLarge reports that a file exceeded the caller's read limit.
var ErrTooLarge = errors.New("file exceeds read limit")

// ReadResult is the content of a file together with its integrity data.
type ReadResult struct {
	Data   []byte
	SHA256 string
	Size   int64
}

// ReadFileVerified reads path into memory, hashing the bytes as they stream
// in. Files larger than limit are rejected without being read in full; a
// limit <= 0 disables the check.
func ReadFileVerified(path string, limit int64) (ReadResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ReadResult{}, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return ReadResult{}, fmt.Errorf("read %s: is a directory", path)
	}
	if limit > 0 && info.Size() > limit {
		return ReadResult{}, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, path, info.Size(), limit)
	}

	in, err := os.Open(path)
	if err != nil {
		return ReadResult{}, err
	}
	defer in.Close()

	var reader io.Reader = in
	if limit > 0 {
		// The file may grow between Stat and Open.
		reader = io.LimitReader(in, limit+1)
	}

	hasher := sha256.New()
	var buf bytes.Buffer
	buf.Grow(int(info.Size()))
	written, err := io.Copy(&buf, io.TeeReader(reader, hasher))
	if err != nil {
		return ReadResult{}, err
	}
	if limit > 0 && written > limit {
		return ReadResult{}, fmt.Errorf("%w: %s grew past %d bytes while reading", ErrTooLarge, path, limit)
	}

	return ReadResult{
		Data:   buf.Bytes(),
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
		Size:   written,
	}, nil
}

// HashBytes returns the lowercase hex SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// WriteFileAtomic writes data to a temporary file beside path and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, mode); err != nil {
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		return err
	}
	return nil
}
