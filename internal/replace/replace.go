// Package replace locates an "old" text fragment inside file content using an
// ordered cascade of increasingly tolerant matcher strategies, then swaps it
// for a "new" fragment. The cascade lets an edit proposed against a slightly
// stale copy of a file still apply after trivial formatting drift.
package replace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wwnbb/patchkit/internal/logging"
)

var (
	// ErrInvalidInput is returned when the requested edit is a no-op
	ErrInvalidInput = errors.New("old and new fragments are identical")
	// ErrNotFound is returned when no strategy located the fragment
	ErrNotFound = errors.New("fragment not found in content")
	// ErrAmbiguousMatch is returned when every located candidate occurred in
	// more than one place and replaceAll was not requested
	ErrAmbiguousMatch = errors.New("fragment matches multiple locations")
)

// strategy generates zero or more literal candidate substrings that it
// believes correspond to the fragment inside content. Strategies never touch
// content directly; the engine verifies each candidate's occurrence count.
type strategy struct {
	name       string
	candidates func(content, fragment string) []string
}

// cascade is the fixed strategy order. Earlier strategies demand closer
// matches; later ones tolerate progressively more drift.
var cascade = []strategy{
	{"exact", exactCandidates},
	{"line-trimmed", lineTrimmedCandidates},
	{"block-anchor", blockAnchorCandidates},
	{"whitespace-normalized", whitespaceNormalizedCandidates},
	{"indentation-flexible", indentationFlexibleCandidates},
	{"escape-normalized", escapeNormalizedCandidates},
	{"trimmed-boundary", trimmedBoundaryCandidates},
	{"context-aware", contextAwareCandidates},
	{"multi-occurrence", multiOccurrenceCandidates},
}

// Replace swaps the old fragment inside content for the new one. When
// replaceAll is false the located candidate must occur exactly once;
// candidates that occur in several places are rejected and the cascade
// continues, so a later, more specific strategy can still disambiguate.
func Replace(content, old, new string, replaceAll bool) (string, error) {
	return ReplaceTraced(content, old, new, replaceAll, logging.NewNilLogger())
}

// ReplaceTraced is Replace with the cascade's decisions logged: which
// strategy produced the accepted candidate, and which candidates were
// rejected as ambiguous.
func ReplaceTraced(content, old, new string, replaceAll bool, logger logging.Logger) (string, error) {
	if old == new {
		return "", fmt.Errorf("replace %q: %w", truncateFragment(old), ErrInvalidInput)
	}

	sawAmbiguous := false
	for _, s := range cascade {
		for _, candidate := range s.candidates(content, old) {
			if candidate == "" {
				continue
			}
			first := strings.Index(content, candidate)
			if first < 0 {
				continue
			}
			if replaceAll {
				logger.Log("replace: strategy %s matched, replacing all occurrences", s.name)
				return strings.ReplaceAll(content, candidate, new), nil
			}
			if last := strings.LastIndex(content, candidate); last != first {
				logger.Log("replace: strategy %s candidate is ambiguous (offsets %d and %d)", s.name, first, last)
				sawAmbiguous = true
				continue
			}
			logger.Log("replace: strategy %s matched at offset %d", s.name, first)
			return content[:first] + new + content[first+len(candidate):], nil
		}
	}

	if sawAmbiguous {
		return "", fmt.Errorf("replace %q: %w", truncateFragment(old), ErrAmbiguousMatch)
	}
	return "", fmt.Errorf("replace %q: %w", truncateFragment(old), ErrNotFound)
}

// truncateFragment keeps error messages readable for large fragments.
func truncateFragment(fragment string) string {
	const maxLen = 64
	if len(fragment) <= maxLen {
		return fragment
	}
	return fragment[:maxLen] + "..."
}
