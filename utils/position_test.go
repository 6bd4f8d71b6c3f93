package utils

import "testing"

func TestNextHeadPosition(t *testing.T) {
	if got := NextHeadPosition(0, false); got != 0 {
		t.Errorf("empty group: expected 0, got %v", got)
	}
	if got := NextHeadPosition(0, true); got != -1 {
		t.Errorf("expected -1 before a sibling at 0, got %v", got)
	}
	if got := NextHeadPosition(-3, true); got != -4 {
		t.Errorf("expected -4 before a sibling at -3, got %v", got)
	}
}

func TestNextAppendPosition(t *testing.T) {
	if got := NextAppendPosition(0, false); got != 0 {
		t.Errorf("empty group: expected 0, got %v", got)
	}
	if got := NextAppendPosition(4, true); got != 5 {
		t.Errorf("expected 5 after a sibling at 4, got %v", got)
	}
}

func TestNextDuplicatePositionLastSibling(t *testing.T) {
	pos, renumber := NextDuplicatePosition(3, 0, false)
	if renumber {
		t.Fatal("duplicating the last sibling must not renumber")
	}
	if pos != 3.5 {
		t.Errorf("expected 3.5, got %v", pos)
	}
}

func TestNextDuplicatePositionMidpoint(t *testing.T) {
	pos, renumber := NextDuplicatePosition(3, 4, true)
	if renumber {
		t.Fatal("expected a clean midpoint")
	}
	if pos <= 3 || pos >= 4 {
		t.Errorf("copy must land strictly between the original and the next sibling, got %v", pos)
	}
}

func TestNextDuplicatePositionCollapsedGapTriggersRenumber(t *testing.T) {
	// Halve the gap until float64 cannot represent a value strictly
	// between the two siblings anymore.
	lo, hi := 1.0, 2.0
	for i := 0; i < 100; i++ {
		mid, renumber := NextDuplicatePosition(lo, hi, true)
		if renumber {
			return
		}
		hi = mid
	}
	t.Fatal("expected the collapsed gap to request a renumber")
}

func TestRenumberPositions(t *testing.T) {
	fresh := RenumberPositions(4)
	if len(fresh) != 4 {
		t.Fatalf("expected 4 positions, got %d", len(fresh))
	}
	for i, p := range fresh {
		if p != float64(i) {
			t.Errorf("position %d: expected %v, got %v", i, float64(i), p)
		}
	}
	if len(RenumberPositions(0)) != 0 {
		t.Error("expected empty renumber for empty group")
	}
}

func TestMoveShiftEarlier(t *testing.T) {
	shift, ok := MoveShift(4, 1)
	if !ok {
		t.Fatal("expected a shift")
	}
	if shift.Lo != 1 || shift.Hi != 3 || shift.Delta != 1 {
		t.Errorf("expected [1,3]+1, got [%d,%d]%+d", shift.Lo, shift.Hi, shift.Delta)
	}
}

func TestMoveShiftLater(t *testing.T) {
	shift, ok := MoveShift(1, 4)
	if !ok {
		t.Fatal("expected a shift")
	}
	if shift.Lo != 2 || shift.Hi != 4 || shift.Delta != -1 {
		t.Errorf("expected [2,4]-1, got [%d,%d]%+d", shift.Lo, shift.Hi, shift.Delta)
	}
}

func TestMoveShiftNoop(t *testing.T) {
	if _, ok := MoveShift(2, 2); ok {
		t.Error("moving onto the same index must be a no-op")
	}
}

// Applying the shift plus the direct placement must keep positions dense:
// a permutation of 0..n-1.
func TestMoveShiftPreservesDensity(t *testing.T) {
	const n = 6
	for oldPos := 0; oldPos < n; oldPos++ {
		for newPos := 0; newPos < n; newPos++ {
			positions := make([]int, n)
			for i := range positions {
				positions[i] = i
			}

			if shift, ok := MoveShift(oldPos, newPos); ok {
				for i := range positions {
					if i == oldPos {
						continue
					}
					if positions[i] >= shift.Lo && positions[i] <= shift.Hi {
						positions[i] += shift.Delta
					}
				}
				positions[oldPos] = newPos
			}

			seen := make(map[int]bool, n)
			for _, p := range positions {
				if p < 0 || p >= n || seen[p] {
					t.Fatalf("move %d->%d broke density: %v", oldPos, newPos, positions)
				}
				seen[p] = true
			}
		}
	}
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		idx, n, want int
	}{
		{-5, 3, 0},
		{0, 3, 0},
		{2, 3, 2},
		{3, 3, 3},
		{9, 3, 3},
	}
	for _, tt := range tests {
		if got := ClampIndex(tt.idx, tt.n); got != tt.want {
			t.Errorf("ClampIndex(%d, %d) = %d, want %d", tt.idx, tt.n, got, tt.want)
		}
	}
}
