// Package mmsched reference kernel for verification
package mmsched

// NewReferenceKernel returns a simple, correct single-tile kernel over the
// given A and B storage. It is layout-agnostic: the offsets, leading
// dimensions and batch strides of each call fully describe the addressing,
// so the same kernel serves plain and blocked operands as long as the
// buffers are laid out the way the plan's shape declares.
//
// It exists for testing and verification; production callers supply their
// own optimized primitive.
func NewReferenceKernel(a, b []float32) Kernel {
	return func(c KernelCall) {
		for i := 0; i < c.MBlk; i++ {
			for j := 0; j < c.NBlk; j++ {
				var sum float32
				for bb := 0; bb < c.BatchLen; bb++ {
					for kk := 0; kk < c.KBlk; kk++ {
						av := a[c.AOff+i*c.LDA+bb*c.StrideA+kk]
						bv := b[c.BOff+bb*c.StrideB+kk*c.LDB+j]
						sum += av * bv
					}
				}
				dst := &c.Dst[c.DstOff+i*c.LDC+j]
				if c.Init {
					*dst = sum
				} else {
					*dst += sum
				}
			}
		}
	}
}
