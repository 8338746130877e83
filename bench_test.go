package mmsched

import (
	"fmt"
	"math/rand"
	"testing"
)

// Benchmark the config search over a range of shapes and team sizes
func BenchmarkPlanConfig(b *testing.B) {
	shapes := []MatmulShape{
		NewMatmulShape(256, 256, 256, F32),
		NewMatmulShape(1024, 1024, 1024, F32),
		NewMatmulShape(4096, 4096, 4096, BF16),
	}
	for _, s := range shapes {
		for _, threads := range []int{8, 64} {
			prof := MachineProfile{NumThreads: threads, L2Size: L2CacheSize}
			b.Run(fmt.Sprintf("%dx%dx%d_t%d", s.M, s.K, s.N, threads), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					if _, err := PlanConfig(s, prof); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// Benchmark a full plan execution with the reference kernel. The kernel is
// scalar, so this measures scheduling overhead relative to the work it
// dispatches rather than peak GEMM throughput.
func BenchmarkPlanRun(b *testing.B) {
	const m, k, n = 256, 256, 256
	r := rand.New(rand.NewSource(1))
	a := randSlice(r, m*k)
	bm := randSlice(r, k*n)
	s := NewMatmulShape(m, k, n, F32)
	prof := MachineProfile{NumThreads: 4, L2Size: L2CacheSize}

	cfg, err := PlanConfig(s, prof)
	if err != nil {
		b.Fatal(err)
	}
	out := make([]float32, m*n)
	plan, err := Generate(s, cfg, prof, NewReferenceKernel(a, bm), out, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		plan.Run()
	}
}
