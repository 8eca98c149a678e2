// Package fileops applies parsed patch documents to files on disk. Each file
// operation is isolated: one file failing to apply never blocks the others,
// and the caller gets a per-file result set to report from.
package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wwnbb/patchkit/internal/patch"
)

// ErrFileState is returned when a file's presence on disk contradicts the
// requested operation: adding a file that exists, or updating or deleting
// one that does not.
var ErrFileState = errors.New("file state error")

// ErrPathEscape is returned when a patch path resolves outside the root.
var ErrPathEscape = errors.New("path escapes root directory")

// LineStats tracks line counts for a single applied operation.
type LineStats struct {
	Original int
	New      int
	Added    int
	Deleted  int
}

// FileResult is the outcome of one file operation of a patch document.
type FileResult struct {
	ID         string
	Path       string
	MovePath   string
	Operation  patch.OperationType
	Success    bool
	Err        error
	Message    string
	Stats      LineStats
	OldContent string
	NewContent string
}

// ApplyDocument parses a patch document and applies every operation it names
// to files under root. Parse failures abort before anything touches disk;
// per-file failures are recorded in the result for that file and the
// remaining operations still run.
func ApplyDocument(root, patchText string) ([]FileResult, error) {
	ops, err := patch.Parse(patchText)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(ops))
	for _, op := range ops {
		results = append(results, applyOperation(root, op))
	}

	return results, nil
}

// applyOperation dispatches one operation and folds any failure into the
// returned result.
func applyOperation(root string, op patch.Operation) FileResult {
	result := FileResult{
		ID:        uuid.NewString(),
		Path:      op.Path,
		MovePath:  op.MovePath,
		Operation: op.Type,
	}

	path, err := resolvePath(root, op.Path)
	if err != nil {
		return result.fail(err)
	}

	switch op.Type {
	case patch.OpAdd:
		return applyAdd(path, op, result)
	case patch.OpDelete:
		return applyDelete(path, result)
	case patch.OpUpdate:
		return applyUpdate(root, path, op, result)
	default:
		return result.fail(fmt.Errorf("unknown operation type %q", op.Type))
	}
}

func (r FileResult) fail(err error) FileResult {
	r.Err = err
	r.Message = err.Error()
	return r
}

// resolvePath joins a patch-relative path onto root and rejects paths that
// climb out of it.
func resolvePath(root, rel string) (string, error) {
	path := filepath.Join(root, rel)

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	sub, err := filepath.Rel(absRoot, abs)
	if err != nil || sub == ".." || strings.HasPrefix(sub, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, rel)
	}

	return path, nil
}

func applyAdd(path string, op patch.Operation, result FileResult) FileResult {
	if _, err := os.Stat(path); err == nil {
		return result.fail(fmt.Errorf("%w: %s already exists", ErrFileState, op.Path))
	}

	content := op.Content
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if err := writeFile(path, content); err != nil {
		return result.fail(err)
	}

	result.Success = true
	result.NewContent = content
	result.Stats.New = countLines(content)
	result.Stats.Added = result.Stats.New
	result.Message = fmt.Sprintf("added %s (%d lines)", op.Path, result.Stats.New)
	return result
}

func applyDelete(path string, result FileResult) FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return result.fail(fmt.Errorf("%w: %s: %v", ErrFileState, result.Path, err))
	}

	if err := os.Remove(path); err != nil {
		return result.fail(err)
	}

	result.Success = true
	result.OldContent = string(data)
	result.Stats.Original = countLines(result.OldContent)
	result.Stats.Deleted = result.Stats.Original
	result.Message = fmt.Sprintf("deleted %s", result.Path)
	return result
}

func applyUpdate(root, path string, op patch.Operation, result FileResult) FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return result.fail(fmt.Errorf("%w: %s: %v", ErrFileState, op.Path, err))
	}
	oldContent := string(data)

	newContent, err := patch.ApplyChunks(oldContent, op.Chunks)
	if err != nil {
		return result.fail(fmt.Errorf("%s: %w", op.Path, err))
	}

	target := path
	if op.MovePath != "" {
		target, err = resolvePath(root, op.MovePath)
		if err != nil {
			return result.fail(err)
		}
	}

	if err := writeFile(target, newContent); err != nil {
		return result.fail(err)
	}
	if target != path {
		if err := os.Remove(path); err != nil {
			return result.fail(fmt.Errorf("wrote %s but could not remove %s: %v", op.MovePath, op.Path, err))
		}
	}

	result.Success = true
	result.OldContent = oldContent
	result.NewContent = newContent
	result.Stats.Original = countLines(oldContent)
	result.Stats.New = countLines(newContent)
	if delta := result.Stats.New - result.Stats.Original; delta >= 0 {
		result.Stats.Added = delta
	} else {
		result.Stats.Deleted = -delta
	}

	if op.MovePath != "" {
		result.Message = fmt.Sprintf("updated %s -> %s (%d -> %d lines)", op.Path, op.MovePath, result.Stats.Original, result.Stats.New)
	} else {
		result.Message = fmt.Sprintf("updated %s (%d -> %d lines)", op.Path, result.Stats.Original, result.Stats.New)
	}
	return result
}

// writeFile writes content, creating parent directories as needed.
func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// countLines counts content lines, not counting a final newline as opening
// an extra empty line.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
