package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"rackscope/internal/abletonxml"
)

var (
	ErrUnsupported = errors.New("unsupported file")
	ErrNotFound    = errors.New("not found")
	ErrTimeout     = errors.New("timeout")
	ErrInternal    = errors.New("internal failure")
)

// Status values summarise why a file failed, for batch tables and run records.
const (
	StatusOK          = "ok"
	StatusInvalid     = "invalid"
	StatusUnsupported = "unsupported"
	StatusTimeout     = "timeout"
	StatusFailed      = "failed"
)

// Wrap builds an error message that includes the file and operation while
// tagging it with marker for later classification through Status.
func Wrap(marker error, file, operation, message string, err error) error {
	detail := buildDetail(file, operation, message)
	if marker == nil {
		marker = ErrInternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Status maps an analysis error onto the label persisted with batch outcomes.
func Status(err error) string {
	var decodeErr *abletonxml.DecodeError
	switch {
	case err == nil:
		return StatusOK
	case errors.As(err, &decodeErr), errors.Is(err, abletonxml.ErrSizeLimit), errors.Is(err, ErrNotFound):
		return StatusInvalid
	case errors.Is(err, ErrUnsupported):
		return StatusUnsupported
	case errors.Is(err, ErrTimeout):
		return StatusTimeout
	default:
		return StatusFailed
	}
}

func buildDetail(file, operation, message string) string {
	parts := make([]string, 0, 3)
	if file = strings.TrimSpace(file); file != "" {
		parts = append(parts, file)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "analysis failure"
	}
	return strings.Join(parts, ": ")
}
