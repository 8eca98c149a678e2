// Package patch parses the "*** Begin Patch" multi-file patch document
// dialect and applies its update chunks to file content held in memory. The
// package performs no I/O; loading and writing files belongs to callers.
package patch

import (
	"errors"
	"fmt"
)

// OperationType defines the kind of file operation a patch section requests
type OperationType string

const (
	// OpAdd creates a new file with the section's content
	OpAdd OperationType = "add"
	// OpDelete removes an existing file
	OpDelete OperationType = "delete"
	// OpUpdate edits an existing file, optionally moving it
	OpUpdate OperationType = "update"
)

// Operation is one per-file entry of a parsed patch document.
type Operation struct {
	Type     OperationType
	Path     string
	MovePath string  // Destination path for updates with "*** Move to:" (optional)
	Content  string  // File content for OpAdd
	Chunks   []Chunk // Change chunks for OpUpdate
}

// Chunk describes one change region of an update operation. OldLines holds
// the context and removed lines as they appear in the current file; NewLines
// holds the context and added lines of the result. Context, when non-empty,
// is an anchor line that must be located in the file before OldLines is
// searched for.
type Chunk struct {
	OldLines    []string
	NewLines    []string
	Context     string
	IsEndOfFile bool
}

var (
	// ErrMalformedPatch is returned when the patch document cannot be parsed:
	// missing Begin/End markers, empty body, or an unparseable section.
	ErrMalformedPatch = errors.New("malformed patch")
	// ErrContextNotFound is returned when a chunk's anchor line cannot be
	// located in the file.
	ErrContextNotFound = errors.New("context not found")
	// ErrChunkNotFound is returned when a chunk's old lines cannot be located
	// in the file at or after the current position.
	ErrChunkNotFound = errors.New("chunk not found")
)

func malformedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedPatch, fmt.Sprintf(format, args...))
}

// chunkLabel names a chunk in errors by its position and, when available, its
// anchor or first old line.
func chunkLabel(index int, c Chunk) string {
	if c.Context != "" {
		return fmt.Sprintf("chunk %d (@@ %s)", index+1, c.Context)
	}
	if len(c.OldLines) > 0 {
		return fmt.Sprintf("chunk %d (first line %q)", index+1, c.OldLines[0])
	}
	return fmt.Sprintf("chunk %d", index+1)
}
