package patch

import (
	"errors"
	"testing"
)

func TestApplyChunksBasic(t *testing.T) {
	content := "foo\nbar\nbaz\n"
	chunks := []Chunk{
		{OldLines: []string{"bar"}, NewLines: []string{"QUX"}},
	}

	got, err := ApplyChunks(content, chunks)
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	if got != "foo\nQUX\nbaz\n" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestApplyChunksContextAnchor(t *testing.T) {
	// Both functions contain the same line; the anchor selects the second
	content := "func foo() {\n\tx := 1\n}\nfunc bar() {\n\tx := 1\n}\n"
	chunks := []Chunk{
		{
			Context:  "func bar() {",
			OldLines: []string{"\tx := 1"},
			NewLines: []string{"\tx := 2"},
		},
	}

	got, err := ApplyChunks(content, chunks)
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	want := "func foo() {\n\tx := 1\n}\nfunc bar() {\n\tx := 2\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyChunksForwardCursor(t *testing.T) {
	// Identical chunks resolve to successive occurrences, never the same one
	content := "x\ny\nx\ny\n"
	chunks := []Chunk{
		{OldLines: []string{"x"}, NewLines: []string{"first"}},
		{OldLines: []string{"x"}, NewLines: []string{"second"}},
	}

	got, err := ApplyChunks(content, chunks)
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	if got != "first\ny\nsecond\ny\n" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestApplyChunksInsertion(t *testing.T) {
	content := "a\nb\n"

	got, err := ApplyChunks(content, []Chunk{
		{NewLines: []string{"top"}},
	})
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	if got != "top\na\nb\n" {
		t.Errorf("unexpected result: %q", got)
	}

	got, err = ApplyChunks(content, []Chunk{
		{NewLines: []string{"bottom"}, IsEndOfFile: true},
	})
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	if got != "a\nb\nbottom\n" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestApplyChunksEndOfFileAnchor(t *testing.T) {
	// The same line opens and closes the file; EOF anchoring must pick the tail
	content := "end\nmiddle\nend\n"
	chunks := []Chunk{
		{OldLines: []string{"end"}, NewLines: []string{"END"}, IsEndOfFile: true},
	}

	got, err := ApplyChunks(content, chunks)
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	if got != "end\nmiddle\nEND\n" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestApplyChunksWhitespaceFallback(t *testing.T) {
	// Trailing whitespace in the file must not block the match
	content := "foo  \n\tbar\t\nbaz\n"
	chunks := []Chunk{
		{OldLines: []string{"foo", "\tbar"}, NewLines: []string{"foo", "\tBAR"}},
	}

	got, err := ApplyChunks(content, chunks)
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	if got != "foo\n\tBAR\nbaz\n" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestApplyChunksPunctuationFallback(t *testing.T) {
	content := "# Notes \u2014 draft\nbody\n"
	chunks := []Chunk{
		{OldLines: []string{"# Notes - draft"}, NewLines: []string{"# Notes - final"}},
	}

	got, err := ApplyChunks(content, chunks)
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	if got != "# Notes - final\nbody\n" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestApplyChunksTrailingEmptyRetry(t *testing.T) {
	content := "a\nb\n"
	chunks := []Chunk{
		{OldLines: []string{"b", ""}, NewLines: []string{"B", ""}},
	}

	got, err := ApplyChunks(content, chunks)
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	if got != "a\nB\n" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestApplyChunksMultipleChunks(t *testing.T) {
	content := "one\ntwo\nthree\nfour\nfive\n"
	chunks := []Chunk{
		{OldLines: []string{"two"}, NewLines: []string{"TWO"}},
		{OldLines: []string{"four"}, NewLines: []string{"FOUR", "four and a half"}},
	}

	got, err := ApplyChunks(content, chunks)
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	want := "one\nTWO\nthree\nFOUR\nfour and a half\nfive\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyChunksErrors(t *testing.T) {
	content := "foo\nbar\n"

	_, err := ApplyChunks(content, []Chunk{
		{OldLines: []string{"nope"}, NewLines: []string{"x"}},
	})
	if !errors.Is(err, ErrChunkNotFound) {
		t.Errorf("expected ErrChunkNotFound, got %v", err)
	}

	_, err = ApplyChunks(content, []Chunk{
		{Context: "missing anchor", OldLines: []string{"bar"}, NewLines: []string{"x"}},
	})
	if !errors.Is(err, ErrContextNotFound) {
		t.Errorf("expected ErrContextNotFound, got %v", err)
	}
}

func TestApplyChunksDeletion(t *testing.T) {
	content := "keep\ndrop\nkeep too\n"
	chunks := []Chunk{
		{OldLines: []string{"drop"}},
	}

	got, err := ApplyChunks(content, chunks)
	if err != nil {
		t.Fatalf("ApplyChunks failed: %v", err)
	}
	if got != "keep\nkeep too\n" {
		t.Errorf("unexpected result: %q", got)
	}
}
