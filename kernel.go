// Package mmsched the external single-tile GEMM contract
package mmsched

// KernelCall carries one block-level multiply-accumulate request to the
// externally supplied kernel. The kernel owns the A and B storage; the call
// addresses them through element offsets and leading dimensions so the same
// kernel serves plain and blocked layouts.
//
// For a batch b in [0, BatchLen) and tile coordinates (i, kk) / (kk, j):
//
//	a := A[AOff + i*LDA + b*StrideA + kk]
//	bv := B[BOff + b*StrideB + kk*LDB + j]
//	Dst[DstOff + i*LDC + j]
type KernelCall struct {
	// AOff and BOff are element offsets of the tile origins
	AOff, BOff int

	// Dst is the destination storage: the caller's output buffer, or a
	// private reduction-buffer slot when the plan splits K across threads
	Dst    []float32
	DstOff int

	// BatchLen is the number of K blocks this call reduces over
	BatchLen int

	MBlk, NBlk, KBlk int
	LDA, LDB, LDC    int
	StrideA, StrideB int

	// Init selects init-vs-accumulate: true on the first K sub-block of a
	// destination tile, false afterwards
	Init bool
}

// Kernel is the opaque block-level multiply-accumulate primitive the plan
// schedules but does not implement. Calls are synchronous.
type Kernel func(KernelCall)

// operand element offset and stride helpers, one per layout

func (d planDims) aOffset(s MatmulShape, mStart, kStart int) (off, lda, stride int) {
	if s.ALayout.Blocked {
		kBlocks := d.k / d.iik
		off = (mStart/d.iim)*kBlocks*d.iim*d.iik + (kStart/d.iik)*d.iim*d.iik
		return off, d.iik, d.iim * d.iik
	}
	return mStart*s.K + kStart, s.K, d.iik
}

func (d planDims) bOffset(s MatmulShape, nStart, kStart int) (off, ldb, stride int) {
	if s.BLayout.Blocked || d.dtypeBlk > 1 {
		kBlocks := d.k / d.iik
		off = (nStart/d.iin)*kBlocks*d.iik*d.iin + (kStart/d.iik)*d.iik*d.iin
		return off, d.iin, d.iik * d.iin
	}
	return kStart*s.N + nStart, s.N, d.iik * s.N
}

func (d planDims) cOffset(s MatmulShape, mStart, nStart int) (off, ldc int) {
	if s.CLayout.Blocked {
		nBlocks := d.n / d.iin
		off = (mStart/d.iim)*nBlocks*d.iim*d.iin + (nStart/d.iin)*d.iim*d.iin
		return off, d.iin
	}
	return mStart*s.N + nStart, s.N
}

// cBufLen is the element count of one output image, which is also the size
// of one reduction-buffer slot
func (d planDims) cBufLen(s MatmulShape) int {
	if s.CLayout.Blocked {
		return d.m * d.n
	}
	return s.M * s.N
}
