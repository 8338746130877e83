package mmsched

import (
	"math/rand"
	"testing"
)

// packABlocked tiles a row-major A[m,k] into (m-block, k-block) panels
func packABlocked(a []float32, m, k, iim, iik int) []float32 {
	kBlocks := k / iik
	out := make([]float32, m*k)
	for i := 0; i < m; i++ {
		for kk := 0; kk < k; kk++ {
			off := (i/iim)*kBlocks*iim*iik + (kk/iik)*iim*iik +
				(i%iim)*iik + kk%iik
			out[off] = a[i*k+kk]
		}
	}
	return out
}

// packBBlocked tiles a row-major B[k,n] into (n-block, k-block) panels
func packBBlocked(b []float32, k, n, iik, iin int) []float32 {
	kBlocks := k / iik
	out := make([]float32, k*n)
	for kk := 0; kk < k; kk++ {
		for j := 0; j < n; j++ {
			off := (j/iin)*kBlocks*iik*iin + (kk/iik)*iik*iin +
				(kk%iik)*iin + j%iin
			out[off] = b[kk*n+j]
		}
	}
	return out
}

func TestPlanBlockedOperands(t *testing.T) {
	const m, k, n = 64, 64, 64
	r := rand.New(rand.NewSource(6))
	a := randSlice(r, m*k)
	b := randSlice(r, k*n)

	s := NewMatmulShape(m, k, n, F32)
	s.ALayout = BlockedLayout(0)
	s.BLayout = BlockedLayout(0)
	prof := MachineProfile{NumThreads: 2, L2Size: 1 << 20}
	cfg := Config{MSplitNum: 2, NSplitNum: 1,
		MSubBlock: 1, NSubBlock: 1, KSubBlock: 1}

	iim, iin, iik := blockSizes(s, prof.NumThreads)
	kernel := NewReferenceKernel(
		packABlocked(a, m, k, iim, iik),
		packBBlocked(b, k, n, iik, iin))
	out := make([]float32, m*n)

	plan, err := Generate(s, cfg, prof, kernel, out, nil)
	if err != nil {
		t.Fatal(err)
	}
	plan.Run()
	checkNear(t, out, naiveMatmul(a, b, m, k, n), DefaultTolerance())
}
