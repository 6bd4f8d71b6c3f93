package utils

// Position assignment rules for tasks (fractional OrderIndex) and sections
// (dense integer Position). Keeping the arithmetic behind these helpers
// means a future renumbering strategy only touches this file.

// NextHeadPosition places a new top-level task before every existing
// sibling without touching them. siblingMin is the current smallest
// OrderIndex; hasSiblings is false for an empty section.
func NextHeadPosition(siblingMin float64, hasSiblings bool) float64 {
	if !hasSiblings {
		return 0
	}
	return siblingMin - 1
}

// NextAppendPosition places a new subtask (or a task moved into another
// section) after every existing sibling. siblingMax is the current largest
// OrderIndex.
func NextAppendPosition(siblingMax float64, hasSiblings bool) float64 {
	if !hasSiblings {
		return 0
	}
	return siblingMax + 1
}

// NextDuplicatePosition places a copy immediately after the original.
// When the original is the last sibling the copy lands at original+0.5;
// otherwise it lands halfway to the next sibling so it can never jump over
// one. A zero return for needRenumber=false is a valid position.
func NextDuplicatePosition(original float64, next float64, hasNext bool) (pos float64, needRenumber bool) {
	if !hasNext {
		return original + 0.5, false
	}
	mid := original + (next-original)/2
	// Midpoint collapses onto an endpoint once float64 runs out of
	// distinguishable values between the two siblings.
	if mid <= original || mid >= next {
		return 0, true
	}
	return mid, false
}

// RenumberPositions yields fresh integer order indexes (0..n-1) for a
// sibling run whose fractional gaps have drifted too small.
func RenumberPositions(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// SectionShift describes a bounded dense-position shift: every section of
// the project whose position lies in [Lo, Hi] moves by Delta.
type SectionShift struct {
	Lo    int
	Hi    int
	Delta int
}

// MoveShift computes the minimal interval shift for moving a section from
// oldPos to newPos, avoiding a full renumber. The moved row itself is then
// set to newPos directly. ok is false when no shift is needed.
func MoveShift(oldPos, newPos int) (SectionShift, bool) {
	switch {
	case newPos < oldPos:
		// Moving earlier: everything in [newPos, oldPos) steps up.
		return SectionShift{Lo: newPos, Hi: oldPos - 1, Delta: +1}, true
	case newPos > oldPos:
		// Moving later: everything in (oldPos, newPos] steps down.
		return SectionShift{Lo: oldPos + 1, Hi: newPos, Delta: -1}, true
	default:
		return SectionShift{}, false
	}
}

// ClampIndex bounds an insertion index into [0, n].
func ClampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}
