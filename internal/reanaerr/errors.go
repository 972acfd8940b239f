// Package reanaerr defines the closed set of failure kinds surfaced by the
// specification loaders and the manifest validator. Errors are created once, at
// the point where the failure is detected, and returned to callers unchanged so
// the CLI layer can branch on the kind with errors.Is or KindOf.
package reanaerr

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	// UnsupportedDialect means no loader is registered for a workflow type.
	UnsupportedDialect Kind = iota + 1
	// IO means a file or referenced resource could not be read.
	IO
	// Parse means the bytes were read but are not well-formed YAML or JSON.
	Parse
	// SchemaValidation means a parsed document does not conform to its schema.
	SchemaValidation
)

func (k Kind) String() string {
	switch k {
	case UnsupportedDialect:
		return "unsupported dialect"
	case IO:
		return "io error"
	case Parse:
		return "parse error"
	case SchemaValidation:
		return "schema validation error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching against a Kind.
var (
	ErrUnsupportedDialect = &Error{Kind: UnsupportedDialect}
	ErrIO                 = &Error{Kind: IO}
	ErrParse              = &Error{Kind: Parse}
	ErrSchemaValidation   = &Error{Kind: SchemaValidation}
)

// Issue is a single schema violation.
type Issue struct {
	Path    string // Instance location (e.g., "/workflow/type")
	Keyword string // Schema keyword that failed (e.g., "required")
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Error is the concrete error type for every Kind.
type Error struct {
	Kind   Kind
	Op     string // Operation that failed, e.g. "read manifest"
	Path   string // File path, URL, or dialect tag involved
	Err    error  // Underlying cause, if any
	Issues []Issue
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if msg := e.Reason(); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}

// Reason returns the underlying failure message without the operation prefix.
// For IO errors this is the OS-provided reason (e.g. "no such file or
// directory"); for schema errors it is the joined violation messages.
func (e *Error) Reason() string {
	if len(e.Issues) > 0 {
		parts := make([]string, len(e.Issues))
		for i, issue := range e.Issues {
			parts[i] = issue.String()
		}
		return strings.Join(parts, "; ")
	}
	if e.Err == nil {
		return ""
	}
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		return pathErr.Err.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind. Sentinels carry
// only a Kind, so errors.Is(err, ErrIO) matches any IO error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// NewIO builds an IO error for op on path.
func NewIO(op, path string, err error) *Error {
	return &Error{Kind: IO, Op: op, Path: path, Err: err}
}

// NewParse builds a Parse error for op on path.
func NewParse(op, path string, err error) *Error {
	return &Error{Kind: Parse, Op: op, Path: path, Err: err}
}

// NewSchemaValidation builds a SchemaValidation error carrying issues.
func NewSchemaValidation(op, path string, issues []Issue, err error) *Error {
	return &Error{Kind: SchemaValidation, Op: op, Path: path, Issues: issues, Err: err}
}

// NewUnsupportedDialect builds an UnsupportedDialect error naming tag.
func NewUnsupportedDialect(tag string) *Error {
	return &Error{
		Kind: UnsupportedDialect,
		Op:   "load workflow spec",
		Err:  fmt.Errorf("unsupported workflow type %q", tag),
	}
}
