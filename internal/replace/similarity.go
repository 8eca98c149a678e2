package replace

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// blockAnchorThreshold is the minimum average interior similarity required
// when several anchor windows compete for a block-anchor match.
const blockAnchorThreshold = 0.3

// lineSimilarity scores two lines between 0 and 1 using the Levenshtein
// distance of their character diff: 1 - distance/max(len).
func lineSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}
