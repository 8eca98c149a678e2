package replace

import (
	"strings"
)

// fragmentLines splits a fragment for line-oriented matching. A single
// trailing empty line (from a final "\n") is dropped so the fragment's line
// count matches what a window over the file's lines can cover.
func fragmentLines(fragment string) []string {
	lines := strings.Split(fragment, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// exactCandidates yields the fragment verbatim.
func exactCandidates(content, fragment string) []string {
	return []string{fragment}
}

// lineTrimmedCandidates slides a window of the fragment's line count over the
// content and yields the exact substring of any window where every line
// matches after trimming surrounding whitespace.
func lineTrimmedCandidates(content, fragment string) []string {
	contentLines := strings.Split(content, "\n")
	findLines := fragmentLines(fragment)
	if len(findLines) == 0 {
		return nil
	}

	var out []string
	for i := 0; i+len(findLines) <= len(contentLines); i++ {
		match := true
		for j := range findLines {
			if strings.TrimSpace(contentLines[i+j]) != strings.TrimSpace(findLines[j]) {
				match = false
				break
			}
		}
		if match {
			out = append(out, strings.Join(contentLines[i:i+len(findLines)], "\n"))
		}
	}
	return out
}

// blockAnchorCandidates matches fragments of at least three lines by their
// first and last line (trimmed), scoring the interior lines by average
// Levenshtein similarity. A unique anchor pair is accepted whenever the
// average similarity is at least 0; with several anchor pairs the best one is
// required to score at least blockAnchorThreshold.
func blockAnchorCandidates(content, fragment string) []string {
	findLines := fragmentLines(fragment)
	if len(findLines) < 3 {
		return nil
	}
	contentLines := strings.Split(content, "\n")

	firstLine := strings.TrimSpace(findLines[0])
	lastLine := strings.TrimSpace(findLines[len(findLines)-1])

	type anchorWindow struct {
		text       string
		similarity float64
	}
	var windows []anchorWindow

	for i := 0; i < len(contentLines); i++ {
		if strings.TrimSpace(contentLines[i]) != firstLine {
			continue
		}
		for j := i + 2; j < len(contentLines); j++ {
			if strings.TrimSpace(contentLines[j]) != lastLine {
				continue
			}
			windows = append(windows, anchorWindow{
				text:       strings.Join(contentLines[i:j+1], "\n"),
				similarity: interiorSimilarity(findLines, contentLines[i:j+1]),
			})
			break
		}
	}

	switch len(windows) {
	case 0:
		return nil
	case 1:
		// Accept unless proven different: a unique anchor pair passes on any
		// non-negative similarity. Deliberately permissive; see tests.
		if windows[0].similarity >= 0 {
			return []string{windows[0].text}
		}
		return nil
	}

	best := windows[0]
	for _, w := range windows[1:] {
		if w.similarity > best.similarity {
			best = w
		}
	}
	if best.similarity >= blockAnchorThreshold {
		return []string{best.text}
	}
	return nil
}

// interiorSimilarity averages the per-line similarity of the lines between
// the two anchors, pairing them by position.
func interiorSimilarity(findLines, windowLines []string) float64 {
	interior := len(findLines) - 2
	if len(windowLines)-2 < interior {
		interior = len(windowLines) - 2
	}
	if interior <= 0 {
		return 1.0
	}
	var sum float64
	for k := 1; k <= interior; k++ {
		sum += lineSimilarity(strings.TrimSpace(findLines[k]), strings.TrimSpace(windowLines[k]))
	}
	return sum / float64(interior)
}

// normalizeWhitespace collapses every run of whitespace (including newlines)
// to a single space and trims the ends.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// whitespaceNormalizedCandidates matches with all whitespace runs collapsed:
// single content lines first, then windows of the fragment's line count
// compared as one joined block.
func whitespaceNormalizedCandidates(content, fragment string) []string {
	normalizedFind := normalizeWhitespace(fragment)
	if normalizedFind == "" {
		return nil
	}

	contentLines := strings.Split(content, "\n")

	var out []string
	for _, line := range contentLines {
		if normalizeWhitespace(line) == normalizedFind {
			out = append(out, line)
		}
	}

	findLines := fragmentLines(fragment)
	if len(findLines) > 1 {
		for i := 0; i+len(findLines) <= len(contentLines); i++ {
			block := strings.Join(contentLines[i:i+len(findLines)], "\n")
			if normalizeWhitespace(block) == normalizedFind {
				out = append(out, block)
			}
		}
	}
	return out
}

// stripCommonIndent removes the minimum leading whitespace shared by the
// non-blank lines, returning the joined result for comparison.
func stripCommonIndent(lines []string) string {
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.Join(lines, "\n")
	}

	stripped := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= minIndent {
			stripped[i] = line[minIndent:]
		} else {
			stripped[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(stripped, "\n")
}

// indentationFlexibleCandidates compares fragment and window with each side's
// shared leading indentation removed, so a block moved to a different nesting
// depth still matches.
func indentationFlexibleCandidates(content, fragment string) []string {
	findLines := fragmentLines(fragment)
	if len(findLines) == 0 {
		return nil
	}
	normalizedFind := stripCommonIndent(findLines)
	contentLines := strings.Split(content, "\n")

	var out []string
	for i := 0; i+len(findLines) <= len(contentLines); i++ {
		window := contentLines[i : i+len(findLines)]
		if stripCommonIndent(window) == normalizedFind {
			out = append(out, strings.Join(window, "\n"))
		}
	}
	return out
}

// unescapeFragment resolves the escape sequences a model tends to leave in
// literal code fragments: \n, \t, \r, quotes, backticks, backslashes, and a
// literal dollar sign.
func unescapeFragment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\'', '"', '`', '\\', '$':
			b.WriteByte(s[i+1])
		default:
			b.WriteByte(s[i])
			continue
		}
		i++
	}
	return b.String()
}

// escapeNormalizedCandidates unescapes the fragment and compares against both
// the raw content and unescaped windows of it.
func escapeNormalizedCandidates(content, fragment string) []string {
	unescaped := unescapeFragment(fragment)
	if unescaped == fragment {
		return nil
	}

	var out []string
	if strings.Contains(content, unescaped) {
		out = append(out, unescaped)
	}

	findLines := fragmentLines(unescaped)
	contentLines := strings.Split(content, "\n")
	for i := 0; i+len(findLines) <= len(contentLines); i++ {
		block := strings.Join(contentLines[i:i+len(findLines)], "\n")
		if block != unescaped && unescapeFragment(block) == unescaped {
			out = append(out, block)
		}
	}
	return out
}

// trimmedBoundaryCandidates compares with only the fragment's outer
// whitespace stripped.
func trimmedBoundaryCandidates(content, fragment string) []string {
	trimmed := strings.TrimSpace(fragment)
	if trimmed == fragment || trimmed == "" {
		return nil
	}
	return []string{trimmed}
}

// contextAwareCandidates matches fragments of at least three lines against
// windows of exactly the fragment's line count whose first and last lines
// agree (trimmed), accepting a window when at least half of the fragment's
// non-empty interior lines match exactly, or when every interior line is
// empty.
func contextAwareCandidates(content, fragment string) []string {
	findLines := fragmentLines(fragment)
	if len(findLines) < 3 {
		return nil
	}
	contentLines := strings.Split(content, "\n")

	firstLine := strings.TrimSpace(findLines[0])
	lastLine := strings.TrimSpace(findLines[len(findLines)-1])

	var out []string
	for i := 0; i+len(findLines) <= len(contentLines); i++ {
		window := contentLines[i : i+len(findLines)]
		if strings.TrimSpace(window[0]) != firstLine ||
			strings.TrimSpace(window[len(window)-1]) != lastLine {
			continue
		}

		nonEmpty := 0
		matched := 0
		for k := 1; k < len(findLines)-1; k++ {
			if strings.TrimSpace(findLines[k]) == "" {
				continue
			}
			nonEmpty++
			if strings.TrimSpace(findLines[k]) == strings.TrimSpace(window[k]) {
				matched++
			}
		}
		if nonEmpty == 0 || float64(matched)/float64(nonEmpty) >= 0.5 {
			out = append(out, strings.Join(window, "\n"))
		}
	}
	return out
}

// multiOccurrenceCandidates yields the fragment verbatim. It ends the
// cascade so that replace-all requests always reach a strategy whose
// candidate may legitimately occur many times.
func multiOccurrenceCandidates(content, fragment string) []string {
	return []string{fragment}
}
