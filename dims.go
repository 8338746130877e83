// Package mmsched derived plan geometry
package mmsched

// planDims collects every extent the generator and validator derive from a
// (shape, config, profile) triple: padded dimensions, block counts, the
// per-thread big/imbalanced share sizes from Balance211, and the clamped
// real split counts.
type planDims struct {
	iim, iin, iik int // block granularity
	m, k, n       int // padded extents

	mBlocks, nBlocks, kBlocks int

	kSplit                             int
	mRealSplit, nRealSplit, kRealSplit int

	// Per-thread share sizes in elements. The "ib" (imbalanced) size is the
	// smaller share a late worker receives; the gap to the big size is
	// either zero or exactly one block.
	mBlockSize, mIbBlockSize int
	nBlockSize, nIbBlockSize int
	kBlockSize, kIbBlockSize int

	// Number of workers per axis that receive the big share
	mBlkNum, nBlkNum int

	dtypeBlk int
}

func newPlanDims(s MatmulShape, c Config, prof MachineProfile) planDims {
	var d planDims
	d.iim, d.iin, d.iik = blockSizes(s, prof.NumThreads)
	d.m, d.k, d.n = s.padded(d.iim, d.iin, d.iik)
	d.mBlocks = d.m / d.iim
	d.nBlocks = d.n / d.iin
	d.kBlocks = d.k / d.iik

	d.kSplit = c.KSplitNum(prof.NumThreads)
	d.mRealSplit = min(d.mBlocks, c.MSplitNum)
	d.nRealSplit = min(d.nBlocks, c.NSplitNum)
	d.kRealSplit = min(d.kBlocks, d.kSplit)

	d.mBlockSize = divCeil(d.mBlocks, c.MSplitNum) * d.iim
	d.mIbBlockSize = d.mBlocks / c.MSplitNum * d.iim
	d.nBlockSize = divCeil(d.nBlocks, c.NSplitNum) * d.iin
	d.nIbBlockSize = d.nBlocks / c.NSplitNum * d.iin
	d.kBlockSize = divCeil(d.kBlocks, d.kSplit) * d.iik
	d.kIbBlockSize = d.kBlocks / d.kSplit * d.iik
	if d.mIbBlockSize == 0 {
		d.mIbBlockSize = d.mBlockSize
	}
	if d.nIbBlockSize == 0 {
		d.nIbBlockSize = d.nBlockSize
	}
	if d.kIbBlockSize == 0 {
		d.kIbBlockSize = d.kBlockSize
	}

	d.mBlkNum = balance211Bigger(d.mBlocks, c.MSplitNum)
	d.nBlkNum = balance211Bigger(d.nBlocks, c.NSplitNum)

	d.dtypeBlk = dtypeBlock(s.BDType)
	return d
}
