package services

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	ErrProbe         = errors.New("probe failure")
	ErrParse         = errors.New("parse failure")
	ErrEncode        = errors.New("encode failure")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrUnexpected    = errors.New("unexpected error")
)

// Kind names the failure class of a stage error.
type Kind string

const (
	KindProbe         Kind = "probe"
	KindParse         Kind = "parse"
	KindEncode        Kind = "encode"
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindUnexpected    Kind = "unexpected"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrUnexpected
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to its failure kind. Errors without a marker are unexpected.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProbe):
		return KindProbe
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrEncode):
		return KindEncode
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return KindUnexpected
	}
}

// Expected reports whether err belongs to one of the anticipated failure classes
// (tool failures, malformed tool output, bad input or configuration).
func Expected(err error) bool {
	kind := Classify(err)
	return kind != "" && kind != KindUnexpected
}

// ToolError captures a failed external tool invocation.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

// NewToolError builds a ToolError from the process error and its captured stderr.
func NewToolError(tool string, err error, stderr []byte) *ToolError {
	te := &ToolError{
		Tool:     strings.TrimSpace(tool),
		ExitCode: -1,
		Stderr:   strings.TrimSpace(string(stderr)),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	return te
}

func (e *ToolError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(e.Tool)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	} else if e.Err != nil {
		b.WriteString(" failed: ")
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString(" failed")
	}
	if e.Stderr != "" {
		b.WriteString(": ")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

func (e *ToolError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
