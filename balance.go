// Package mmsched balanced work partitioning
package mmsched

// Balance211 divides n indivisible granules among a team of workers so
// that no worker receives more than one granule more than another, and the
// assignment is a contiguous non-overlapping partition of [0, n).
//
// The first biggerCount workers receive ceil(n/team) granules each; the
// rest receive one fewer. Lengths always sum to n exactly. A worker past
// the available granules receives length 0.
func Balance211(n, team, idx int) (start, length int) {
	n1 := divCeil(n, team)
	n2 := n1 - 1
	t1 := n - n2*team
	if idx < t1 {
		return idx * n1, n1
	}
	return t1*n1 + (idx-t1)*n2, n2
}

// balance211Bigger returns how many workers receive the larger share
func balance211Bigger(n, team int) int {
	n1 := divCeil(n, team)
	return n - (n1-1)*team
}
