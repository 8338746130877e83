// Package mmsched thread-decomposition cost model
package mmsched

// searchSplit scans every N-split candidate i in [1, numThreads] and keeps
// the one minimizing the predicted cost
//
//	(C0 + M*i/threads + N/i) * (numBrgemm + 8*i) / numCore
//
// where numBrgemm counts micro-kernel invocations per thread and numCore
// counts cores doing useful work. The shape term prefers square per-core
// tiles; C0 damps it for small problems where core utilization dominates.
// Evaluation is in integer arithmetic and ties keep the first (smallest) i.
func searchSplit(mBlocks, nBlocks, m, n, numThreads int) (splitN int) {
	best := int64(1) << 62
	splitN = 1
	for i := 1; i <= numThreads; i++ {
		numMBlock := divCeil(mBlocks, numThreads/i)
		numNBlock := divCeil(nBlocks, i)
		numBrgemm := int64(numMBlock) * int64(numNBlock)
		numCore := int64(min(i, nBlocks)) * int64(min(numThreads/i, mBlocks))
		cost := int64(costShapeWeight+m*i/numThreads+n/i) *
			(numBrgemm + costSplitWeight*int64(i)) / numCore
		if cost < best {
			splitN = i
			best = cost
		}
	}
	return splitN
}

// splitOverrides applies the dtype/shape special cases after the search, in
// order: quantized small-N/K problems and generic very-small-N/K problems
// put every split on M; very deep K problems move splits off the short
// output axis so a K-split can absorb the spare threads.
func splitOverrides(mSplit, nSplit *int, s MatmulShape, m, k, n, numThreads int) {
	isInt8 := s.ADType.IsInt8()
	switch {
	case isInt8 && n <= 512 && k <= 512:
		*mSplit = numThreads
		*nSplit = 1
	case n <= 192 && k <= 192:
		*mSplit = numThreads
		*nSplit = 1
	case k >= 8192:
		if m < n {
			splits := divisors(*mSplit)
			if len(splits) > 2 && n/m < 3 {
				*mSplit /= splits[1]
			} else if threadSplits := divisors(numThreads); len(threadSplits) > 1 {
				*mSplit = 1
				kSplit := threadSplits[1]
				*nSplit = numThreads / kSplit
			}
		} else {
			// With fewer than three divisors there is no second nontrivial
			// divisor to shrink by; leave the split untouched.
			splits := divisors(*nSplit)
			if len(splits) > 2 {
				*nSplit /= splits[1]
			}
		}
	}
}

// PlanConfig searches a thread decomposition and cache-fitting sub-block
// tiling for the shape on the given machine. The result is deterministic
// for identical inputs.
func PlanConfig(s MatmulShape, prof MachineProfile) (Config, error) {
	if err := s.validate(); err != nil {
		return Config{}, err
	}
	if prof.NumThreads < 1 {
		return Config{}, NewInvalidArgError("PlanConfig",
			"machine profile needs at least one thread")
	}

	iim, iin, iik := blockSizes(s, prof.NumThreads)
	m, k, n := s.padded(iim, iin, iik)
	mBlocks, nBlocks := m/iim, n/iin

	splitN := searchSplit(mBlocks, nBlocks, m, n, prof.NumThreads)
	cfg := Config{
		MSplitNum: prof.NumThreads / splitN,
		NSplitNum: splitN,
		LoopOrder: NInner,
	}
	splitOverrides(&cfg.MSplitNum, &cfg.NSplitNum, s, m, k, n, prof.NumThreads)

	sizeTiles(&cfg, s, prof, iim, iin, iik, m, k, n)
	return cfg, nil
}
