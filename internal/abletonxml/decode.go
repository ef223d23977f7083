package abletonxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"rackscope/internal/logging"
)

const (
	// MinFileSize is the smallest container accepted; anything shorter cannot
	// hold a compressed Ableton document.
	MinFileSize = 100
	// MaxFileSize bounds the compressed input.
	MaxFileSize = 100 << 20

	DefaultMaxDecompressedBytes = 512 << 20
	DefaultMaxElements          = 8_000_000
	DefaultMaxElementDepth      = 1024
)

var knownRootTags = map[string]struct{}{
	"Ableton":           {},
	"GroupDevicePreset": {},
	"PresetRef":         {},
}

// Document is a parsed container.
type Document struct {
	Source   string
	Root     *Node
	Elements int
	// Warnings holds soft problems noticed while decoding.
	Warnings []string
}

// Decoder turns raw container bytes into a Document. The zero value uses the
// package defaults and discards logs.
type Decoder struct {
	Logger               *slog.Logger
	MaxDecompressedBytes int64
	MaxElements          int
	MaxElementDepth      int
}

// Decode validates, decompresses and parses data using default limits.
func Decode(data []byte, source string) (*Document, error) {
	return Decoder{}.Decode(data, source)
}

// Decode validates, decompresses and parses data. source is only used for
// messages and logs.
func (d Decoder) Decode(data []byte, source string) (*Document, error) {
	logger := logging.NewComponentLogger(d.Logger, "abletonxml")

	doc, err := d.decode(data, source, logger)
	if err != nil {
		var decodeErr *DecodeError
		kind := "unknown"
		if errors.As(err, &decodeErr) {
			kind = string(decodeErr.Kind)
		}
		logging.ErrorWithContext(logger, "container decode failed", "container_decode_failed",
			logging.String(logging.FieldFile, source),
			logging.String("kind", kind),
			logging.Int("size_bytes", len(data)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify the upload is an unmodified Ableton .adg/.adv/.als file"))
		return nil, err
	}
	return doc, nil
}

func (d Decoder) decode(data []byte, source string, logger *slog.Logger) (*Document, error) {
	size := len(data)
	if size < MinFileSize {
		return nil, newDecodeError(KindSizeLimit, source, fmt.Sprintf("file is too small (%d bytes)", size), nil)
	}
	if size > MaxFileSize {
		return nil, newDecodeError(KindSizeLimit, source, fmt.Sprintf("file is too large (%d bytes)", size), nil)
	}

	content, err := d.decompress(data, source)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	trimmed = bytes.TrimLeft(trimmed, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("<?xml")) && !bytes.HasPrefix(trimmed, []byte("<")) {
		return nil, newDecodeError(KindNotXML, source, "decompressed content does not start with '<'", nil)
	}

	doc, err := d.parse(trimmed, source)
	if err != nil {
		return nil, err
	}

	if _, ok := knownRootTags[doc.Root.Name]; !ok {
		msg := fmt.Sprintf("Root element '%s' doesn't look like Ableton format", doc.Root.Name)
		doc.Warnings = append(doc.Warnings, msg)
		logging.WarnWithContext(logger, "unexpected root element", "container_root_unexpected",
			logging.String(logging.FieldFile, source),
			logging.String("root", doc.Root.Name),
			logging.String(logging.FieldImpact, "analysis continues; results may be incomplete"))
	}

	logger.Debug("container decoded",
		logging.String(logging.FieldFile, source),
		logging.String("root", doc.Root.Name),
		logging.Int("elements", doc.Elements),
		logging.Int("decompressed_bytes", len(content)))
	return doc, nil
}

func (d Decoder) decompress(data []byte, source string) ([]byte, error) {
	var (
		reader io.ReadCloser
		err    error
	)
	switch {
	case isGzip(data):
		reader, err = gzip.NewReader(bytes.NewReader(data))
	case isZlib(data):
		reader, err = zlib.NewReader(bytes.NewReader(data))
	default:
		return nil, newDecodeError(KindDecompression, source, "not a gzip or zlib stream", nil)
	}
	if err != nil {
		return nil, newDecodeError(KindDecompression, source, "read compression header", err)
	}
	defer reader.Close()

	limit := d.maxDecompressed()
	out, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, newDecodeError(KindDecompression, source, "inflate", err)
	}
	if int64(len(out)) > limit {
		return nil, newDecodeError(KindSizeLimit, source, fmt.Sprintf("decompressed content exceeds %d bytes", limit), nil)
	}
	if len(out) == 0 {
		return nil, newDecodeError(KindDecompression, source, "empty file after decompression", nil)
	}
	return out, nil
}

func (d Decoder) parse(content []byte, source string) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.Strict = true

	maxDepth := d.MaxElementDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxElementDepth
	}
	maxElements := d.MaxElements
	if maxElements <= 0 {
		maxElements = DefaultMaxElements
	}

	var (
		root     *Node
		cur      *Node
		depth    int
		elements int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newDecodeError(KindMalformed, source, "", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && cur == nil {
				return nil, newDecodeError(KindMalformed, source, "multiple root elements", nil)
			}
			depth++
			if depth > maxDepth {
				return nil, newDecodeError(KindMalformed, source, fmt.Sprintf("element nesting exceeds %d levels", maxDepth), nil)
			}
			elements++
			if elements > maxElements {
				return nil, newDecodeError(KindSizeLimit, source, fmt.Sprintf("document has more than %d elements", maxElements), nil)
			}
			node := &Node{Name: t.Name.Local, Parent: cur}
			if len(t.Attr) > 0 {
				node.Attrs = make([]Attr, 0, len(t.Attr))
				for _, a := range t.Attr {
					node.Attrs = append(node.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
				}
			}
			if cur == nil {
				root = node
			} else {
				cur.Children = append(cur.Children, node)
			}
			cur = node
		case xml.EndElement:
			depth--
			if cur != nil {
				cur = cur.Parent
			}
		case xml.CharData:
			if cur != nil {
				if text := strings.TrimSpace(string(t)); text != "" {
					cur.Text += text
				}
			}
		}
	}

	if root == nil {
		return nil, newDecodeError(KindMalformed, source, "document has no root element", nil)
	}
	if cur != nil {
		return nil, newDecodeError(KindMalformed, source, "unexpected end of document", nil)
	}
	return &Document{Source: source, Root: root, Elements: elements}, nil
}

func (d Decoder) maxDecompressed() int64 {
	if d.MaxDecompressedBytes > 0 {
		return d.MaxDecompressedBytes
	}
	return DefaultMaxDecompressedBytes
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

func isZlib(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	cmf, flg := data[0], data[1]
	return cmf&0x0f == 8 && cmf>>4 <= 7 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}
