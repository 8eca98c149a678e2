package diff

import (
	"fmt"
	"strings"
)

// contextSize is the number of unchanged lines kept around each change when
// grouping hunks. Hunks separated by fewer than 2*contextSize unchanged lines
// are merged.
const contextSize = 3

// FormatUnified diffs oldText against newText and renders the result as
// conventional unified-diff text. The two-line "---"/"+++" header is always
// emitted, even when there are no changes.
func FormatUnified(oldName, newName, oldText, newText string) string {
	prefixed := flatten(Lines(oldText, newText))

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n", oldName)
	fmt.Fprintf(&b, "+++ %s\n", newName)

	for _, h := range groupHunks(prefixed) {
		oldStart, newStart := hunkStarts(prefixed, h.start)
		oldCount, newCount := hunkCounts(prefixed[h.start:h.end])
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
		for _, line := range prefixed[h.start:h.end] {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// flatten expands segments into one prefixed line per source line: "+" for
// inserted, "-" for removed, and a space for unchanged lines.
func flatten(segments []Segment) []string {
	var out []string
	for _, seg := range segments {
		if seg.Count == 0 {
			continue
		}
		var prefix string
		switch seg.Kind {
		case Inserted:
			prefix = "+"
		case Removed:
			prefix = "-"
		default:
			prefix = " "
		}
		for _, line := range strings.Split(seg.Text, "\n") {
			out = append(out, prefix+line)
		}
	}
	return out
}

// hunkSpan is a half-open index range into the flattened prefixed lines.
type hunkSpan struct {
	start, end int
}

func isChange(line string) bool {
	return len(line) > 0 && (line[0] == '+' || line[0] == '-')
}

// groupHunks scans for changed lines and groups them: up to contextSize lines
// of leading context, change blocks separated by at most 2*contextSize
// context lines merged into one hunk, and contextSize lines of trailing
// context once no nearby change remains.
func groupHunks(lines []string) []hunkSpan {
	var hunks []hunkSpan

	i := 0
	for i < len(lines) {
		if !isChange(lines[i]) {
			i++
			continue
		}

		start := i - contextSize
		if start < 0 {
			start = 0
		}

		lastChange := i
		j := i
		for j < len(lines) {
			if isChange(lines[j]) {
				lastChange = j
				j++
				continue
			}
			runStart := j
			for j < len(lines) && !isChange(lines[j]) {
				j++
			}
			if j >= len(lines) || j-runStart > 2*contextSize {
				break
			}
		}

		end := lastChange + 1 + contextSize
		if end > len(lines) {
			end = len(lines)
		}
		hunks = append(hunks, hunkSpan{start: start, end: end})
		i = end
	}

	return hunks
}

// hunkStarts returns the 1-based old and new line numbers for a hunk that
// begins at index start: the old side counts the non-"+" lines before the
// hunk, the new side the non-"-" lines.
func hunkStarts(lines []string, start int) (oldStart, newStart int) {
	oldStart, newStart = 1, 1
	for _, line := range lines[:start] {
		if len(line) == 0 || line[0] != '+' {
			oldStart++
		}
		if len(line) == 0 || line[0] != '-' {
			newStart++
		}
	}
	return oldStart, newStart
}

func hunkCounts(lines []string) (oldCount, newCount int) {
	for _, line := range lines {
		if len(line) == 0 || line[0] != '+' {
			oldCount++
		}
		if len(line) == 0 || line[0] != '-' {
			newCount++
		}
	}
	return oldCount, newCount
}

// TrimDiff strips the minimum leading whitespace shared by every content line
// of a unified diff, keeping the "+"/"-"/" " prefixes intact. Header lines
// ("---", "+++") and hunk headers ("@@") are left untouched. Useful when the
// whole changed block sits inside deep indentation.
func TrimDiff(diffText string) string {
	lines := strings.Split(diffText, "\n")

	trim := -1
	for _, line := range lines {
		if !isContentLine(line) {
			continue
		}
		content := line[1:]
		if strings.TrimSpace(content) == "" {
			continue
		}
		ws := len(content) - len(strings.TrimLeft(content, " \t"))
		if trim < 0 || ws < trim {
			trim = ws
		}
	}
	if trim <= 0 {
		return diffText
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if !isContentLine(line) {
			out[i] = line
			continue
		}
		content := line[1:]
		if len(content) >= trim {
			content = content[trim:]
		} else {
			content = strings.TrimLeft(content, " \t")
		}
		out[i] = line[:1] + content
	}
	return strings.Join(out, "\n")
}

// isContentLine reports whether line carries hunk content, i.e. starts with
// "+", "-", or " " but is not a "---"/"+++" file header.
func isContentLine(line string) bool {
	if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
		return false
	}
	return len(line) > 0 && (line[0] == '+' || line[0] == '-' || line[0] == ' ')
}
