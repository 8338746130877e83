// Package mmsched cache-capacity sub-block sizing
package mmsched

import (
	"math"
)

// sizeTiles fills in the sub-block counts of cfg so one sub-tile's working
// set (A, B and C tiles together) fits the L2 capacity of the profile.
//
// Two regimes. When the per-thread K run is long it is split first, and the
// M/N sub-tile edge comes from the quadratic
//
//	2*sizeA*M*K + sizeC*M^2 <= L2    (assuming M == N)
//
// solved in closed form. Short K runs stay unsplit and the edge is the
// linear solution of 2*sizeA*M*K <= L2. The edge is floored at one block
// even when L2 is smaller than a single tile, and the resulting counts are
// clamped to the smaller per-thread share so a planned config always
// passes Config.Validate.
func sizeTiles(cfg *Config, s MatmulShape, prof MachineProfile, iim, iin, iik, m, k, n int) {
	sizeA := s.ADType.Size()
	sizeC := s.CDType.Size()
	l2 := prof.L2Size

	singleM := divCeil(divCeil(m, iim), cfg.MSplitNum) * iim
	singleN := divCeil(divCeil(n, iin), cfg.NSplitNum) * iin
	singleK := k

	threshold := kSplitThresholdFar
	if singleM*singleN*sizeA < l2 {
		threshold = kSplitThresholdNear
	}
	thresholdElems := threshold / sizeA

	if singleK >= thresholdElems {
		cfg.KSubBlock = divCeil(singleK, thresholdElems)
		l2K := divCeil(divCeil(singleK, iik), cfg.KSubBlock) * iik
		ak := float64(2 * sizeA * l2K)
		l2MN := max(1, int((math.Sqrt(ak*ak+float64(4*sizeC*l2))-ak)/
			float64(2*sizeC)))
		cfg.MSubBlock = max(1, singleM/l2MN)
		cfg.NSubBlock = max(1, singleN/l2MN)
	} else {
		l2MN := max(1, l2/(2*sizeA*singleK))
		cfg.MSubBlock = max(1, singleM/l2MN)
		cfg.NSubBlock = max(1, singleN/l2MN)
		cfg.KSubBlock = 1
	}

	cfg.MSubBlock = min(cfg.MSubBlock, minShareBlocks(m/iim, cfg.MSplitNum))
	cfg.NSubBlock = min(cfg.NSubBlock, minShareBlocks(n/iin, cfg.NSplitNum))
	cfg.KSubBlock = min(cfg.KSubBlock,
		minShareBlocks(k/iik, cfg.KSplitNum(prof.NumThreads)))
}

// minShareBlocks returns the smaller per-worker share of blocks, falling
// back to the bigger share when some workers receive nothing
func minShareBlocks(blocks, split int) int {
	ib := blocks / split
	if ib == 0 {
		return divCeil(blocks, split)
	}
	return ib
}
