package patch

import (
	"fmt"
	"sort"
	"strings"
)

// replacement is one resolved chunk: splice out oldLen lines at start and
// insert newLines there.
type replacement struct {
	start    int
	oldLen   int
	newLines []string
}

// ApplyChunks applies the chunks of an update operation to file content and
// returns the new content. Chunks are matched in order against a forward-only
// cursor, so a later chunk can never land on lines already consumed by an
// earlier one.
func ApplyChunks(content string, chunks []Chunk) (string, error) {
	lines := strings.Split(content, "\n")
	// A final newline produces one trailing empty element; drop it so chunks
	// address real lines.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var replacements []replacement
	cursor := 0

	for i, chunk := range chunks {
		if chunk.Context != "" {
			idx := findLines(lines, []string{chunk.Context}, cursor)
			if idx < 0 {
				return "", fmt.Errorf("%w: %q for %s", ErrContextNotFound, chunk.Context, chunkLabel(i, chunk))
			}
			cursor = idx + 1
		}

		if len(chunk.OldLines) == 0 {
			at := cursor
			if chunk.IsEndOfFile {
				at = len(lines)
			}
			// Keep a lone trailing blank line at the very end
			if at == len(lines) && at > 0 && lines[at-1] == "" {
				at--
			}
			replacements = append(replacements, replacement{start: at, newLines: chunk.NewLines})
			cursor = at
			continue
		}

		oldLines, newLines := chunk.OldLines, chunk.NewLines

		idx := locateChunk(lines, oldLines, cursor, chunk.IsEndOfFile)
		if idx < 0 && oldLines[len(oldLines)-1] == "" {
			// The pattern may carry a spurious trailing blank; retry without
			// it on both sides.
			oldLines = oldLines[:len(oldLines)-1]
			if len(newLines) > 0 && newLines[len(newLines)-1] == "" {
				newLines = newLines[:len(newLines)-1]
			}
			idx = locateChunk(lines, oldLines, cursor, chunk.IsEndOfFile)
		}
		if idx < 0 {
			return "", fmt.Errorf("%w: %s", ErrChunkNotFound, chunkLabel(i, chunk))
		}

		replacements = append(replacements, replacement{start: idx, oldLen: len(oldLines), newLines: newLines})
		cursor = idx + len(oldLines)
	}

	sort.Slice(replacements, func(a, b int) bool {
		return replacements[a].start < replacements[b].start
	})

	// Apply back to front so earlier indices stay valid
	for i := len(replacements) - 1; i >= 0; i-- {
		r := replacements[i]
		rest := append([]string{}, lines[r.start+r.oldLen:]...)
		lines = append(lines[:r.start], append(r.newLines, rest...)...)
	}

	result := strings.Join(lines, "\n")
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result, nil
}

// locateChunk finds a pattern at or after start. End-of-file chunks are
// matched against the tail of the file first before falling back to a scan.
func locateChunk(lines, pattern []string, start int, eof bool) int {
	if eof && len(lines) >= len(pattern) {
		at := len(lines) - len(pattern)
		if at >= start && matchAt(lines, pattern, at) {
			return at
		}
	}
	return findLines(lines, pattern, start)
}

// lineComparators are tried in order by the line-sequence search: exact
// equality, right-trim, full trim, and Unicode-punctuation-normalized trim.
// Model output often substitutes smart quotes and dashes for their ASCII
// forms; the last comparator lets such context still anchor.
var lineComparators = []func(a, b string) bool{
	func(a, b string) bool { return a == b },
	func(a, b string) bool {
		return strings.TrimRight(a, " \t") == strings.TrimRight(b, " \t")
	},
	func(a, b string) bool {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	},
	func(a, b string) bool {
		return normalizePunct(strings.TrimSpace(a)) == normalizePunct(strings.TrimSpace(b))
	},
}

// findLines returns the first index at or after start where pattern matches
// lines under the loosest comparator needed, or -1. Stricter comparators are
// exhausted over the whole range before looser ones are tried.
func findLines(lines, pattern []string, start int) int {
	if len(pattern) == 0 {
		return start
	}
	if start < 0 {
		start = 0
	}

	for _, eq := range lineComparators {
		for i := start; i <= len(lines)-len(pattern); i++ {
			ok := true
			for j := range pattern {
				if !eq(lines[i+j], pattern[j]) {
					ok = false
					break
				}
			}
			if ok {
				return i
			}
		}
	}

	return -1
}

// matchAt reports whether pattern matches lines at exactly position at,
// under any comparator.
func matchAt(lines, pattern []string, at int) bool {
	if at < 0 || at+len(pattern) > len(lines) {
		return false
	}

	for _, eq := range lineComparators {
		ok := true
		for j := range pattern {
			if !eq(lines[at+j], pattern[j]) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}

	return false
}

// asciiPunct maps typographic Unicode punctuation to the ASCII characters it
// typically stands in for.
var asciiPunct = map[rune]string{
	'\u2018': "'",   // left single quote
	'\u2019': "'",   // right single quote
	'\u201b': "'",   // single high-reversed-9 quote
	'\u201c': `"`,   // left double quote
	'\u201d': `"`,   // right double quote
	'\u201f': `"`,   // double high-reversed-9 quote
	'\u00ab': `"`,   // left guillemet
	'\u00bb': `"`,   // right guillemet
	'\u2010': "-",   // hyphen
	'\u2011': "-",   // non-breaking hyphen
	'\u2012': "-",   // figure dash
	'\u2013': "-",   // en dash
	'\u2014': "-",   // em dash
	'\u2015': "-",   // horizontal bar
	'\u2026': "...", // ellipsis
	'\u00a0': " ",   // non-breaking space
	'\u202f': " ",   // narrow no-break space
	'\u2007': " ",   // figure space
	'\u2009': " ",   // thin space
}

func normalizePunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := asciiPunct[r]; ok {
			b.WriteString(repl)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
