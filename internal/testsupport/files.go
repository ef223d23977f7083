package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// WriteBytes writes data to path, creating parent directories, and returns path.
func WriteBytes(t testing.TB, path string, data []byte) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteTree writes each relative path under root and returns the absolute
// paths in lexical order. A nil value writes a one-byte placeholder.
func WriteTree(t testing.TB, root string, files map[string][]byte) []string {
	t.Helper()

	paths := make([]string, 0, len(files))
	for rel, data := range files {
		if data == nil {
			data = []byte("x")
		}
		paths = append(paths, WriteBytes(t, filepath.Join(root, filepath.FromSlash(rel)), data))
	}
	slices.Sort(paths)
	return paths
}

// WriteSample writes a silent 16-bit mono 44.1 kHz WAV file holding frames
// sample frames, the kind of file a Live set references from its Samples
// folder.
func WriteSample(t testing.TB, path string, frames int) string {
	t.Helper()

	if frames < 0 {
		frames = 0
	}
	const (
		channels      = 1
		sampleRate    = 44100
		bitsPerSample = 16
		blockAlign    = channels * bitsPerSample / 8
	)
	dataSize := uint32(frames * blockAlign)

	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, 36+dataSize)
	b.WriteString("WAVEfmt ")
	_ = binary.Write(&b, binary.LittleEndian, struct {
		Size          uint32
		Format        uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}{16, 1, channels, sampleRate, sampleRate * blockAlign, blockAlign, bitsPerSample})
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, dataSize)
	b.Write(make([]byte, dataSize))

	return WriteBytes(t, path, b.Bytes())
}
