// Package mmsched fusion anchor regions
package mmsched

// Range is a half-open [Start, Start+Len) extent along one axis
type Range struct {
	Start, Len int
}

// Region is a rectangular slice of the output tensor: two dims for plain
// layouts, four (block-row, block-col, in-block-row, in-block-col) for
// blocked layouts. Regions are derived values, never mutated after
// creation.
type Region struct {
	Dims []Range
}

// Area returns the number of elements the region covers
func (r Region) Area() int {
	a := 1
	for _, d := range r.Dims {
		a *= d.Len
	}
	return a
}

// AnchorScope says which loop boundary finalized the region
type AnchorScope int

const (
	// AnchorBlock fires once per output block, after its last K sub-block
	AnchorBlock AnchorScope = iota
	// AnchorSubBlock fires once per sub-block of one thread's region
	AnchorSubBlock
	// AnchorThread fires once per thread's whole output region
	AnchorThread
	// AnchorOuter fires once per M-split row when N is unsplit
	AnchorOuter
)

// FusionSink receives fusion anchors as the plan runs. Both calls are
// fire-and-forget; the core consumes no return value. Because no ordering
// is guaranteed across threads, every emitted region is independently
// final regardless of inter-thread completion order.
type FusionSink interface {
	// EmitOutputRegion announces that region is finalized and may be read
	EmitOutputRegion(scope AnchorScope, region Region)

	// EmitIteratedRegion announces that alts[iter] is finalized; the
	// alternative list is statically enumerable and iter selects among it
	// at runtime
	EmitIteratedRegion(scope AnchorScope, iter int, alts []Region)
}

func boolIdx(b bool) int {
	if b {
		return 1
	}
	return 0
}

// anchorIndex keys the 16-way boundary table: whether this thread holds
// the small share along M and N, and whether this sub-block holds the
// small sub-share along M and N.
func anchorIndex(mSmall, nSmall, mSubSmall, nSubSmall bool) int {
	return boolIdx(mSmall)*8 + boolIdx(nSmall)*4 +
		boolIdx(mSubSmall)*2 + boolIdx(nSubSmall)
}

// subAnchorLen returns the sub-block anchor edge in blocks for a thread
// share of shareBlocks split into sub sub-blocks. When the division is
// uneven the big sub-share carries one extra block.
func subAnchorLen(shareBlocks, sub int, small bool) int {
	l := shareBlocks / sub
	if shareBlocks%sub != 0 && !small {
		l++
	}
	return l
}

// subBlockAnchorAlts enumerates the 16 region shapes a sub-block anchor
// can take at origin (mOrigin, nOrigin), ordered by anchorIndex: thread
// share big/small along M and N crossed with sub-share big/small along M
// and N. Shapes coincide pairwise whenever a division is even.
func subBlockAnchorAlts(s MatmulShape, d planDims, cfg Config, mOrigin, nOrigin int) []Region {
	alts := make([]Region, 0, 16)
	mShare := [2]int{d.mBlockSize / d.iim, d.mIbBlockSize / d.iim}
	nShare := [2]int{d.nBlockSize / d.iin, d.nIbBlockSize / d.iin}
	for p := 0; p < 2; p++ {
		for q := 0; q < 2; q++ {
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					lenM := subAnchorLen(mShare[p], cfg.MSubBlock, i == 1)
					lenN := subAnchorLen(nShare[q], cfg.NSubBlock, j == 1)
					alts = append(alts, blockRegion(s, d, mOrigin, nOrigin, lenM, lenN))
				}
			}
		}
	}
	return alts
}

// blockRegion builds a region of lenM x lenN blocks at an element origin
func blockRegion(s MatmulShape, d planDims, mOrigin, nOrigin, lenM, lenN int) Region {
	if s.CLayout.Blocked {
		return Region{Dims: []Range{
			{mOrigin / d.iim, lenM},
			{nOrigin / d.iin, lenN},
			{0, d.iim},
			{0, d.iin},
		}}
	}
	return Region{Dims: []Range{
		{mOrigin, lenM * d.iim},
		{nOrigin, lenN * d.iin},
	}}
}

// threadAnchorAlts enumerates the per-thread region shapes: big and
// imbalanced share crossed along M and N, ordered (bigM,bigN),
// (bigM,smallN), (smallM,bigN), (smallM,smallN).
func threadAnchorAlts(s MatmulShape, d planDims, mOrigin, nOrigin int) []Region {
	alts := make([]Region, 0, 4)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			mLen := d.mBlockSize
			if i == 1 {
				mLen = d.mIbBlockSize
			}
			nLen := d.nBlockSize
			if j == 1 {
				nLen = d.nIbBlockSize
			}
			alts = append(alts,
				blockRegion(s, d, mOrigin, nOrigin, mLen/d.iim, nLen/d.iin))
		}
	}
	return alts
}

// rowAnchorAlts enumerates the whole-row regions used when N is unsplit:
// the big and imbalanced M share crossed with the full N extent.
func rowAnchorAlts(s MatmulShape, d planDims, mOrigin int) []Region {
	big := blockRegion(s, d, mOrigin, 0, d.mBlockSize/d.iim, d.nBlocks)
	small := blockRegion(s, d, mOrigin, 0, d.mIbBlockSize/d.iim, d.nBlocks)
	return []Region{big, small}
}
