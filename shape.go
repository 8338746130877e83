// Package mmsched matmul shape and operand layout descriptors
package mmsched

// Layout describes how an operand is stored. Plain operands are dense
// row-major. Blocked operands are tiled into (block-row, block-col, ...)
// panels; a blocked B additionally packs PackFactor consecutive K elements
// innermost when the element type requires it (bf16 pairs, int8 quads).
type Layout struct {
	Blocked    bool
	PackFactor int // 0 or 1 means unpacked
}

// PlainLayout returns a dense row-major layout
func PlainLayout() Layout {
	return Layout{}
}

// BlockedLayout returns a tiled layout with the given packing factor
func BlockedLayout(packFactor int) Layout {
	return Layout{Blocked: true, PackFactor: packFactor}
}

// MatmulShape describes one matmul problem: C[M,N] = A[M,K] * B[K,N].
// Dimensions are the logical extents. Blocked operands are stored padded
// to whole blocks; plain operands must have block-aligned extents, which
// Config.Validate enforces against the chosen block granularity.
type MatmulShape struct {
	M, K, N int

	ADType DType
	BDType DType
	CDType DType

	ALayout Layout
	BLayout Layout
	CLayout Layout
}

// NewMatmulShape builds a shape with A and B sharing dtype. Operands are
// plain row-major, except that a B dtype requiring packing (bf16, int8)
// gets the blocked layout its packing demands. The accumulator type
// follows the operands: int8 inputs accumulate into s32, everything else
// into f32.
func NewMatmulShape(m, k, n int, dt DType) MatmulShape {
	out := F32
	if dt.IsInt8() {
		out = S32
	}
	bLayout := PlainLayout()
	if db := dtypeBlock(dt); db > 1 {
		bLayout = BlockedLayout(db)
	}
	return MatmulShape{
		M: m, K: k, N: n,
		ADType: dt, BDType: dt, CDType: out,
		ALayout: PlainLayout(),
		BLayout: bLayout,
		CLayout: PlainLayout(),
	}
}

// validate checks argument sanity and the B packing contract. A B dtype
// that requires packing must be declared with a blocked layout carrying the
// matching factor.
func (s MatmulShape) validate() error {
	if s.M <= 0 || s.K <= 0 || s.N <= 0 {
		return NewInvalidArgError("MatmulShape", "dimensions must be positive")
	}
	if db := dtypeBlock(s.BDType); db > 1 {
		if !s.BLayout.Blocked {
			return NewUnsupportedLayoutError("MatmulShape",
				"B dtype "+s.BDType.String()+" requires a blocked layout")
		}
		if s.BLayout.PackFactor != 0 && s.BLayout.PackFactor != db {
			return NewUnsupportedLayoutError("MatmulShape",
				"wrong data format of B: pack factor does not match dtype")
		}
	}
	return nil
}

// GFLOP returns the work in the shape in billions of fused operations
func (s MatmulShape) GFLOP() float64 {
	return 2 * float64(s.M) * float64(s.N) * float64(s.K) / 1e9
}

// padded returns the shape extents rounded up to block granularity
func (s MatmulShape) padded(iim, iin, iik int) (m, k, n int) {
	return rndUp(s.M, iim), rndUp(s.K, iik), rndUp(s.N, iin)
}
