package abletonxml

import (
	"errors"
	"fmt"
)

// Kind classifies a hard decode failure.
type Kind string

const (
	KindSizeLimit     Kind = "size_limit"
	KindDecompression Kind = "decompression"
	KindNotXML        Kind = "not_xml"
	KindMalformed     Kind = "malformed"
)

var (
	ErrSizeLimit     = errors.New("file size outside accepted bounds")
	ErrDecompression = errors.New("decompression failed")
	ErrNotXML        = errors.New("content is not xml")
	ErrMalformed     = errors.New("malformed xml")
)

// DecodeError reports why a container could not be decoded.
type DecodeError struct {
	Kind   Kind
	Source string
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := e.sentinel().Error()
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s", e.Source, msg)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *DecodeError) Is(target error) bool {
	return target == e.sentinel()
}

// ErrorKind mirrors the classifier interface used by callers that map
// failures onto user-facing statuses.
func (e *DecodeError) ErrorKind() string { return string(e.Kind) }

func (e *DecodeError) sentinel() error {
	switch e.Kind {
	case KindSizeLimit:
		return ErrSizeLimit
	case KindDecompression:
		return ErrDecompression
	case KindNotXML:
		return ErrNotXML
	default:
		return ErrMalformed
	}
}

func newDecodeError(kind Kind, source, detail string, err error) *DecodeError {
	return &DecodeError{Kind: kind, Source: source, Detail: detail, Err: err}
}
