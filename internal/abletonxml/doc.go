// Package abletonxml decodes Ableton container files into a navigable element
// tree.
//
// Ableton racks (.adg), device presets (.adv) and Live sets (.als) are gzip
// (occasionally zlib) compressed XML documents. Decode validates the raw
// bytes, decompresses them under a hard output ceiling, checks that the payload
// looks like XML, and parses it into a Node tree with encoding/xml in strict
// mode. No DTD or external entity is ever resolved.
//
// Failures that make the file unusable are returned as *DecodeError values and
// match ErrSizeLimit, ErrDecompression, ErrNotXML or ErrMalformed through
// errors.Is. Anything softer (an unexpected root tag, for example) is logged
// and recorded in Document.Warnings so callers can keep going.
//
// The Node type is deliberately small: children by tag, attributes with
// defaults, and first-matching-descendant search. Every traversal helper is
// iterative so adversarial nesting cannot exhaust the goroutine stack.
package abletonxml
