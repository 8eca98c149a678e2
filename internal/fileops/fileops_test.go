package fileops

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wwnbb/patchkit/internal/patch"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readTestFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestApplyDocumentAddUpdateDelete(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.txt", "foo\nbar\nbaz\n")
	writeTestFile(t, root, "old.txt", "gone\n")

	text := "*** Begin Patch\n" +
		"*** Add File: sub/new.txt\n" +
		"+hello\n" +
		"+world\n" +
		"*** Update File: a.txt\n" +
		"@@\n" +
		"-bar\n" +
		"+QUX\n" +
		"*** Delete File: old.txt\n" +
		"*** End Patch"

	results, err := ApplyDocument(root, text)
	if err != nil {
		t.Fatalf("ApplyDocument failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Success {
			t.Errorf("%s %s failed: %v", r.Operation, r.Path, r.Err)
		}
		if r.ID == "" {
			t.Errorf("%s result has no ID", r.Path)
		}
	}

	if got := readTestFile(t, root, "sub/new.txt"); got != "hello\nworld\n" {
		t.Errorf("unexpected added content: %q", got)
	}
	if got := readTestFile(t, root, "a.txt"); got != "foo\nQUX\nbaz\n" {
		t.Errorf("unexpected updated content: %q", got)
	}
	if _, err := os.Stat(filepath.Join(root, "old.txt")); !os.IsNotExist(err) {
		t.Errorf("old.txt still exists")
	}

	update := results[1]
	if update.Stats.Original != 3 || update.Stats.New != 3 {
		t.Errorf("unexpected update stats: %+v", update.Stats)
	}
	if update.OldContent != "foo\nbar\nbaz\n" || update.NewContent != "foo\nQUX\nbaz\n" {
		t.Errorf("update result did not capture contents: %+v", update)
	}
}

func TestApplyDocumentMove(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "src.txt", "a\nb\n")

	text := "*** Begin Patch\n" +
		"*** Update File: src.txt\n" +
		"*** Move to: dst/moved.txt\n" +
		"@@\n" +
		"-a\n" +
		"+A\n" +
		"*** End Patch"

	results, err := ApplyDocument(root, text)
	if err != nil {
		t.Fatalf("ApplyDocument failed: %v", err)
	}
	if !results[0].Success {
		t.Fatalf("move failed: %v", results[0].Err)
	}

	if got := readTestFile(t, root, "dst/moved.txt"); got != "A\nb\n" {
		t.Errorf("unexpected moved content: %q", got)
	}
	if _, err := os.Stat(filepath.Join(root, "src.txt")); !os.IsNotExist(err) {
		t.Errorf("source still exists after move")
	}
}

func TestApplyDocumentPartialFailure(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "ok.txt", "x\n")

	text := "*** Begin Patch\n" +
		"*** Update File: missing.txt\n" +
		"@@\n" +
		"-a\n" +
		"+b\n" +
		"*** Update File: ok.txt\n" +
		"@@\n" +
		"-x\n" +
		"+y\n" +
		"*** End Patch"

	results, err := ApplyDocument(root, text)
	if err != nil {
		t.Fatalf("ApplyDocument failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Success {
		t.Errorf("expected failure for missing file")
	}
	if !errors.Is(results[0].Err, ErrFileState) {
		t.Errorf("expected ErrFileState, got %v", results[0].Err)
	}
	if !results[1].Success {
		t.Errorf("second file should still apply: %v", results[1].Err)
	}
	if got := readTestFile(t, root, "ok.txt"); got != "y\n" {
		t.Errorf("unexpected content: %q", got)
	}
}

func TestApplyDocumentAddExisting(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.txt", "x\n")

	text := "*** Begin Patch\n" +
		"*** Add File: a.txt\n" +
		"+y\n" +
		"*** End Patch"

	results, err := ApplyDocument(root, text)
	if err != nil {
		t.Fatalf("ApplyDocument failed: %v", err)
	}
	if results[0].Success || !errors.Is(results[0].Err, ErrFileState) {
		t.Errorf("expected ErrFileState for existing file, got %+v", results[0])
	}
	if got := readTestFile(t, root, "a.txt"); got != "x\n" {
		t.Errorf("existing file was clobbered: %q", got)
	}
}

func TestApplyDocumentPathEscape(t *testing.T) {
	root := t.TempDir()

	text := "*** Begin Patch\n" +
		"*** Add File: ../evil.txt\n" +
		"+pwned\n" +
		"*** End Patch"

	results, err := ApplyDocument(root, text)
	if err != nil {
		t.Fatalf("ApplyDocument failed: %v", err)
	}
	if results[0].Success || !errors.Is(results[0].Err, ErrPathEscape) {
		t.Errorf("expected ErrPathEscape, got %+v", results[0])
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "evil.txt")); !os.IsNotExist(err) {
		t.Errorf("escaped file was written")
	}
}

func TestApplyDocumentMalformed(t *testing.T) {
	if _, err := ApplyDocument(t.TempDir(), "not a patch"); !errors.Is(err, patch.ErrMalformedPatch) {
		t.Errorf("expected ErrMalformedPatch, got %v", err)
	}
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb\n", 2},
		{"a\nb", 2},
	}
	for _, tc := range cases {
		if got := countLines(tc.content); got != tc.want {
			t.Errorf("countLines(%q) = %d, want %d", tc.content, got, tc.want)
		}
	}
}
