// Package mmsched element types and block-granularity defaults
package mmsched

// DType identifies an operand element type
type DType int

const (
	F32 DType = iota
	BF16
	F16
	U8
	S8
	S32
)

// Size returns the element size in bytes
func (d DType) Size() int {
	switch d {
	case F32, S32:
		return 4
	case BF16, F16:
		return 2
	case U8, S8:
		return 1
	default:
		return 4
	}
}

// String returns the type name
func (d DType) String() string {
	switch d {
	case F32:
		return "f32"
	case BF16:
		return "bf16"
	case F16:
		return "f16"
	case U8:
		return "u8"
	case S8:
		return "s8"
	case S32:
		return "s32"
	default:
		return "unknown"
	}
}

// IsInt8 reports whether the type is a quantized 8-bit integer type
func (d DType) IsInt8() bool {
	return d == U8 || d == S8
}

// dtypeBlock returns the packing factor a blocked B layout must carry for
// the given B element type: bf16 packs pairs, int8 packs quads.
func dtypeBlock(b DType) int {
	switch {
	case b == BF16:
		return 2
	case b.IsInt8():
		return 4
	default:
		return 1
	}
}

// defaultBlocks returns the dtype-specific default block sizes along M, N, K
func defaultBlocks(a DType) (mBlk, nBlk, kBlk int) {
	switch {
	case a == F32:
		return 16, 16, 16
	case a == BF16:
		return 32, 32, 32
	default: // int8
		return 32, 64, 64
	}
}

// suggestAlignedBlock picks a block size for an axis of extent plainX.
// Small extents collapse to a single rounded-up block; extents that the
// default block does not divide are rebalanced so the last block is not
// degenerate.
func suggestAlignedBlock(plainX, defaultBlock, minBlk, align int) int {
	if plainX < defaultBlock {
		if plainX <= minBlk {
			return minBlk
		}
		if plainX < align {
			return rndUp(plainX, minBlk)
		}
		return rndUp(plainX, align)
	}
	if plainX%defaultBlock == 0 {
		return rndUp(defaultBlock, align)
	}
	numBlocks := divCeil(plainX, defaultBlock)
	return rndUp(divCeil(plainX, numBlocks), align)
}

// blockSizes chooses the (M, N, K) block granularity for a shape before
// planning begins. For small N and K the M block shrinks toward the
// per-thread share of M so every thread keeps work, with a floor of 4.
func blockSizes(s MatmulShape, numThreads int) (iim, iin, iik int) {
	mDef, nDef, kDef := defaultBlocks(s.ADType)
	if s.N <= 512 && s.K <= 512 {
		iim = max(4, min(mDef, divCeil(s.M, numThreads)))
	} else {
		iim = suggestAlignedBlock(s.M, mDef, 1, 1)
	}
	iin = suggestAlignedBlock(s.N, nDef, 1, 16)
	kMin := 1
	if s.ADType == BF16 {
		kMin = 2
	} else if s.ADType.IsInt8() {
		kMin = 4
	}
	iik = suggestAlignedBlock(s.K, kDef, kMin, 16)
	return iim, iin, iik
}
