package mmsched

import (
	"testing"
)

func TestBalance211Properties(t *testing.T) {
	for n := 1; n <= 48; n++ {
		for team := 1; team <= 9; team++ {
			sum := 0
			next := 0
			minLen, maxLen := 1<<30, 0
			for idx := 0; idx < team; idx++ {
				start, length := Balance211(n, team, idx)
				if length < 0 {
					t.Fatalf("n=%d team=%d idx=%d: negative length %d", n, team, idx, length)
				}
				if start != next {
					t.Fatalf("n=%d team=%d idx=%d: start %d, want contiguous %d", n, team, idx, start, next)
				}
				next = start + length
				sum += length
				if length < minLen {
					minLen = length
				}
				if length > maxLen {
					maxLen = length
				}
			}
			if sum != n {
				t.Errorf("n=%d team=%d: lengths sum to %d", n, team, sum)
			}
			if maxLen-minLen > 1 {
				t.Errorf("n=%d team=%d: lengths span %d..%d", n, team, minLen, maxLen)
			}
		}
	}
}

func TestBalance211Exact(t *testing.T) {
	cases := []struct {
		name    string
		n, team int
		want    [][2]int // (start, length) per worker
	}{
		// M=100 with 64-element blocks: n = ceil(100/64) = 2 granules
		{"two blocks three workers", 2, 3, [][2]int{{0, 1}, {1, 1}, {2, 0}}},
		{"even", 8, 4, [][2]int{{0, 2}, {2, 2}, {4, 2}, {6, 2}}},
		{"one extra", 7, 3, [][2]int{{0, 3}, {3, 2}, {5, 2}}},
		{"single worker", 5, 1, [][2]int{{0, 5}}},
		{"more workers than work", 3, 5, [][2]int{{0, 1}, {1, 1}, {2, 1}, {3, 0}, {3, 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for idx, want := range tc.want {
				start, length := Balance211(tc.n, tc.team, idx)
				if start != want[0] || length != want[1] {
					t.Errorf("Balance211(%d,%d,%d) = (%d,%d), want (%d,%d)",
						tc.n, tc.team, idx, start, length, want[0], want[1])
				}
			}
		})
	}
}

func TestBalance211BiggerCount(t *testing.T) {
	for n := 1; n <= 32; n++ {
		for team := 1; team <= 8; team++ {
			want := 0
			n1 := divCeil(n, team)
			for idx := 0; idx < team; idx++ {
				if _, l := Balance211(n, team, idx); l == n1 {
					want++
				}
			}
			if got := balance211Bigger(n, team); got != want {
				t.Errorf("balance211Bigger(%d,%d) = %d, want %d", n, team, got, want)
			}
		}
	}
}
