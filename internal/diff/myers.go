// Package diff computes minimal line-level diffs between two text blobs and
// renders them as unified-diff text. The core is the Myers O(ND) shortest
// edit script algorithm; all functions are pure and safe for concurrent use.
package diff

import (
	"strings"
)

// SegmentKind classifies a Segment relative to the old and new text.
type SegmentKind int

const (
	// Equal marks lines present in both the old and new text
	Equal SegmentKind = iota
	// Inserted marks lines present only in the new text
	Inserted
	// Removed marks lines present only in the old text
	Removed
)

func (k SegmentKind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Inserted:
		return "inserted"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Segment is a run of consecutive lines sharing one SegmentKind. Text holds
// the lines joined with "\n" and Count the number of lines. Joining the Text
// of every Equal and Removed segment with "\n" reconstructs the old input;
// the Equal and Inserted segments reconstruct the new input.
type Segment struct {
	Text  string
	Kind  SegmentKind
	Count int
}

// editOp is a single pre-merge edit step covering exactly one line.
type editOp struct {
	kind SegmentKind
	line string
}

// Lines computes the shortest edit script between old and new as ordered
// segments. Inputs are split on "\n"; an empty string maps to zero lines.
// When both inputs are empty a single empty Equal segment is returned.
func Lines(old, new string) []Segment {
	a := splitLines(old)
	b := splitLines(new)

	if len(a) == 0 && len(b) == 0 {
		return []Segment{{Kind: Equal}}
	}

	trace := shortestEditTrace(a, b)
	ops := backtrack(a, b, trace)
	return mergeOps(ops)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// shortestEditTrace runs the forward pass of Myers' algorithm. The
// furthest-reaching x per diagonal k lives in a flat array indexed by
// k + offset, where offset = len(a) + len(b), so negative diagonals stay in
// bounds. One snapshot of that array is recorded per edit distance d; the
// snapshots are what backtrack walks.
func shortestEditTrace(a, b []string) [][]int {
	n := len(a)
	m := len(b)
	offset := n + m

	v := make([]int, 2*offset+1)
	var trace [][]int

	for d := 0; d <= offset; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			if k > n || k < -m {
				continue
			}
			i := k + offset

			var x int
			if k == -d || (k != d && v[i-1] < v[i+1]) {
				x = v[i+1] // step down: insert from b
			} else {
				x = v[i-1] + 1 // step right: delete from a
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[i] = x

			if x >= n && y >= m {
				return trace
			}
		}
	}
	return trace
}

// backtrack walks the trace from (len(a), len(b)) to (0, 0), reconstructing
// the edit operations in original order.
func backtrack(a, b []string, trace [][]int) []editOp {
	n := len(a)
	m := len(b)
	offset := n + m

	var ops []editOp
	x, y := n, m

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y
		i := k + offset

		var prevK int
		down := k == -d || (k != d && v[i-1] < v[i+1])
		if down {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[prevK+offset]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			ops = append(ops, editOp{kind: Equal, line: a[x-1]})
			x--
			y--
		}

		if d > 0 {
			if down {
				ops = append(ops, editOp{kind: Inserted, line: b[y-1]})
			} else {
				ops = append(ops, editOp{kind: Removed, line: a[x-1]})
			}
			x, y = prevX, prevY
		}
	}

	// ops were collected back to front
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}

// mergeOps collapses consecutive operations of the same kind into segments.
func mergeOps(ops []editOp) []Segment {
	var segments []Segment
	var run []string
	var kind SegmentKind

	flush := func() {
		if len(run) == 0 {
			return
		}
		segments = append(segments, Segment{
			Text:  strings.Join(run, "\n"),
			Kind:  kind,
			Count: len(run),
		})
		run = nil
	}

	for _, op := range ops {
		if len(run) > 0 && op.kind != kind {
			flush()
		}
		kind = op.kind
		run = append(run, op.line)
	}
	flush()

	return segments
}
