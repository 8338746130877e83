// Package mmsched schedule generation
package mmsched

// generator carries the state shared by the plan-building helpers
type generator struct {
	b      *Builder
	s      MatmulShape
	cfg    Config
	d      planDims
	prof   MachineProfile
	kernel Kernel
	out    []float32
	sink   FusionSink

	tmp     []float32
	slotLen int
}

// Generate compiles the nested loop plan for shape under cfg. The kernel
// is the opaque single-tile GEMM primitive; out is the output storage the
// plan (and its reduction stage) writes; sink, when non-nil, receives
// fusion anchors. All validation happens here, before any loop is emitted.
func Generate(s MatmulShape, cfg Config, prof MachineProfile, kernel Kernel, out []float32, sink FusionSink) (*Plan, error) {
	if kernel == nil {
		return nil, NewInvalidArgError("Generate", "kernel must not be nil")
	}
	if err := cfg.Validate(s, prof); err != nil {
		return nil, err
	}
	d := newPlanDims(s, cfg, prof)
	if len(out) < d.cBufLen(s) {
		return nil, NewInvalidArgError("Generate",
			"output storage smaller than the planned output image")
	}

	g := &generator{
		b: NewBuilder(), s: s, cfg: cfg, d: d, prof: prof,
		kernel: kernel, out: out, sink: sink,
	}
	if d.kSplit > 1 {
		g.slotLen = d.cBufLen(s)
		g.tmp = make([]float32, d.kRealSplit*g.slotLen)
		g.buildSplitK()
	} else {
		g.buildSingleK()
	}

	root, arena := g.b.Finish()
	return &Plan{
		root: root, arena: arena,
		shape: s, cfg: cfg, dims: d, tmp: g.tmp,
	}, nil
}

// declareThreadShare declares the per-thread extent and origin along one
// axis from the worker index variable
func (g *generator) declareThreadShare(axis string, blocks, split, blk int) {
	idxVar := axis + "_s"
	g.b.Declare(axis+"_len", func(e *Env) int {
		_, l := Balance211(blocks, split, e.Get(idxVar))
		return l * blk
	})
	g.b.Declare(axis+"_idx", func(e *Env) int {
		st, _ := Balance211(blocks, split, e.Get(idxVar))
		return st * blk
	})
}

// buildSingleK emits the plan for K_split_num == 1: two parallel split
// loops, the per-thread sub-block nest, and the thread-level and outer
// anchors.
func (g *generator) buildSingleK() {
	d, cfg := g.d, g.cfg

	g.b.BeginFor("m_s", ConstInt(0), ConstInt(d.mRealSplit), 1, LoopParallel, cfg.MSplitNum)
	g.b.BeginFor("n_s", ConstInt(0), ConstInt(d.nRealSplit), 1, LoopParallel, cfg.NSplitNum)
	g.declareThreadShare("m", d.mBlocks, cfg.MSplitNum, d.iim)
	g.declareThreadShare("n", d.nBlocks, cfg.NSplitNum, d.iin)
	g.b.Declare("k_len", ConstInt(d.k))
	g.b.Declare("k_idx", ConstInt(0))

	// The degenerate K loop stays in the emitted plan: it is serial when
	// the M/N splits consume the whole team, and a one-worker parallel
	// loop when spare threads exist.
	kKind, kWorkers := LoopSerial, 0
	if cfg.MSplitNum*cfg.NSplitNum != g.prof.NumThreads {
		kKind, kWorkers = LoopParallel, 1
	}
	g.b.BeginFor("k_s", ConstInt(0), ConstInt(1), 1, kKind, kWorkers)
	g.singleThreadMatmul(false)
	g.b.EndFor()

	g.emitThreadAnchor()
	g.b.EndFor() // n_s
	g.emitOuterAnchor()
	g.b.EndFor() // m_s
}

// buildSplitK emits the plan for K_split_num > 1: each K worker computes a
// partial product into its private reduction-buffer slot with anchors
// disabled, then a second parallel phase tiled over output blocks sums the
// slots into the real output. The fork-join barrier between the two phases
// is the only synchronization the buffer handoff needs.
func (g *generator) buildSplitK() {
	d, cfg := g.d, g.cfg

	g.b.BeginFor("m_s", ConstInt(0), ConstInt(d.mRealSplit), 1, LoopParallel, cfg.MSplitNum)
	g.b.BeginFor("n_s", ConstInt(0), ConstInt(d.nRealSplit), 1, LoopParallel, cfg.NSplitNum)
	g.declareThreadShare("m", d.mBlocks, cfg.MSplitNum, d.iim)
	g.declareThreadShare("n", d.nBlocks, cfg.NSplitNum, d.iin)

	g.b.BeginFor("k_s", ConstInt(0), ConstInt(d.kRealSplit), 1, LoopParallel, d.kSplit)
	g.declareThreadShare("k", d.kBlocks, d.kSplit, d.iik)
	g.singleThreadMatmul(true)
	g.b.EndFor() // k_s: full barrier before the reduction reads tmp

	if g.s.CLayout.Blocked {
		g.emitBlockedReduction()
	} else {
		g.emitPlainReduction()
		g.emitThreadAnchor()
	}
	g.b.EndFor() // n_s
	g.emitOuterAnchor()
	g.b.EndFor() // m_s
}

// singleThreadMatmul emits one thread's sub-block nest. The environment
// supplies m_len/m_idx, n_len/n_idx and k_len/k_idx (elements). In partial
// mode the kernel writes the k_s reduction slot and anchors stay silent,
// since nothing is final until the reduction stage runs.
func (g *generator) singleThreadMatmul(partial bool) {
	b, d, cfg := g.b, g.d, g.cfg

	b.BeginFor("m_b", ConstInt(0), ConstInt(cfg.MSubBlock), 1, LoopSerial, 0)
	oImN := b.BeginFor("n_b", ConstInt(0), ConstInt(cfg.NSubBlock), 1, LoopSerial, 0)

	b.Declare("m_o_end", func(e *Env) int {
		_, l := Balance211(e.Get("m_len")/d.iim, cfg.MSubBlock, e.Get("m_b"))
		return l
	})
	b.Declare("m_b_idx", func(e *Env) int {
		st, _ := Balance211(e.Get("m_len")/d.iim, cfg.MSubBlock, e.Get("m_b"))
		return st
	})
	b.Declare("n_o_end", func(e *Env) int {
		_, l := Balance211(e.Get("n_len")/d.iin, cfg.NSubBlock, e.Get("n_b"))
		return l
	})
	b.Declare("n_b_idx", func(e *Env) int {
		st, _ := Balance211(e.Get("n_len")/d.iin, cfg.NSubBlock, e.Get("n_b"))
		return st
	})

	b.BeginFor("k_b", ConstInt(0), ConstInt(cfg.KSubBlock), 1, LoopSerial, 0)
	imM := b.BeginFor("m_o", ConstInt(0), VarRef("m_o_end"), 1, LoopSerial, 0)
	imN := b.BeginFor("n_o", ConstInt(0), VarRef("n_o_end"), 1, LoopSerial, 0)

	// Rotate the visiting order of inner blocks by the worker id so the
	// team does not start every round on the same cache bank. The set of
	// visited blocks is unchanged.
	b.Declare("m_start", func(e *Env) int {
		return e.Get("m_idx") + e.Get("m_b_idx")*d.iim +
			((e.Get("m_o")+e.Tid())%e.Get("m_o_end"))*d.iim
	})
	b.Declare("n_start", func(e *Env) int {
		return e.Get("n_idx") + e.Get("n_b_idx")*d.iin +
			((e.Get("n_o")+e.Tid())%e.Get("n_o_end"))*d.iin
	})
	b.Declare("bs", func(e *Env) int {
		_, l := Balance211(e.Get("k_len")/d.iik, cfg.KSubBlock, e.Get("k_b"))
		return l
	})
	b.Declare("k_start", func(e *Env) int {
		st, _ := Balance211(e.Get("k_len")/d.iik, cfg.KSubBlock, e.Get("k_b"))
		return e.Get("k_idx") + st*d.iik
	})

	b.Do("brgemm", func(e *Env) {
		g.invokeKernel(e, partial)
	})

	if g.sink != nil && !partial {
		b.BeginIf(func(e *Env) bool { return e.Get("k_b") == cfg.KSubBlock-1 })
		b.Do("block_anchor", func(e *Env) {
			g.sink.EmitOutputRegion(AnchorBlock,
				blockRegion(g.s, d, e.Get("m_start"), e.Get("n_start"), 1, 1))
		})
		b.EndIf()
	}

	b.EndFor() // n_o
	b.EndFor() // m_o
	b.EndFor() // k_b

	if g.sink != nil && !partial {
		g.emitSubBlockAnchor()
	}

	b.EndFor() // n_b
	b.EndFor() // m_b

	// Tag the innermost block loop with its reduction root so a downstream
	// rewrite pass can find the loop whose trip accumulates partial sums.
	if cfg.LoopOrder == MInner {
		b.Reorder(imM, imN)
		b.SetReduceRoot(imN, oImN)
	} else if cfg.KSubBlock > 1 {
		b.SetReduceRoot(imN, oImN)
	}
}

// invokeKernel computes operand offsets for the current iteration and
// fires the external primitive
func (g *generator) invokeKernel(e *Env, partial bool) {
	d, s := g.d, g.s
	mStart, nStart, kStart := e.Get("m_start"), e.Get("n_start"), e.Get("k_start")

	aOff, lda, strideA := d.aOffset(s, mStart, kStart)
	bOff, ldb, strideB := d.bOffset(s, nStart, kStart)
	cOff, ldc := d.cOffset(s, mStart, nStart)

	dst, dstOff := g.out, cOff
	if partial {
		dst = g.tmp
		dstOff = e.Get("k_s")*g.slotLen + cOff
	}

	g.kernel(KernelCall{
		AOff:     aOff,
		BOff:     bOff,
		Dst:      dst,
		DstOff:   dstOff,
		BatchLen: e.Get("bs"),
		MBlk:     d.iim,
		NBlk:     d.iin,
		KBlk:     d.iik,
		LDA:      lda,
		LDB:      ldb,
		LDC:      ldc,
		StrideA:  strideA,
		StrideB:  strideB,
		Init:     e.Get("k_b") == 0,
	})
}

// emitSubBlockAnchor emits the fusion anchor that finalizes one sub-block.
// When the thread and sub-block divisions are both even a single shape
// suffices; otherwise one of the 16 statically enumerated boundary shapes
// is selected at runtime through the lookup table in anchor.go.
func (g *generator) emitSubBlockAnchor() {
	d, cfg := g.d, g.cfg
	even := d.mBlockSize == d.mIbBlockSize && d.nBlockSize == d.nIbBlockSize &&
		(d.mBlockSize/d.iim)%cfg.MSubBlock == 0 &&
		(d.nBlockSize/d.iin)%cfg.NSubBlock == 0

	if even {
		g.b.Do("subblock_anchor", func(e *Env) {
			mOrigin := e.Get("m_idx") + e.Get("m_b_idx")*d.iim
			nOrigin := e.Get("n_idx") + e.Get("n_b_idx")*d.iin
			g.sink.EmitOutputRegion(AnchorSubBlock, blockRegion(g.s, d,
				mOrigin, nOrigin,
				d.mBlockSize/d.iim/cfg.MSubBlock,
				d.nBlockSize/d.iin/cfg.NSubBlock))
		})
		return
	}

	g.b.Do("subblock_anchor", func(e *Env) {
		mOrigin := e.Get("m_idx") + e.Get("m_b_idx")*d.iim
		nOrigin := e.Get("n_idx") + e.Get("n_b_idx")*d.iin
		alts := subBlockAnchorAlts(g.s, d, cfg, mOrigin, nOrigin)

		mBig := balance211Bigger(e.Get("m_len")/d.iim, cfg.MSubBlock)
		nBig := balance211Bigger(e.Get("n_len")/d.iin, cfg.NSubBlock)
		iter := anchorIndex(
			e.Get("m_s") >= d.mBlkNum,
			e.Get("n_s") >= d.nBlkNum,
			e.Get("m_b") >= mBig,
			e.Get("n_b") >= nBig,
		)
		g.sink.EmitIteratedRegion(AnchorSubBlock, iter, alts)
	})
}

// emitThreadAnchor emits the anchor finalizing one thread's whole output
// region: a single shape on even division, otherwise a 2- or 4-way
// iterated anchor keyed on which side of the Balance211 boundary the
// worker sits.
func (g *generator) emitThreadAnchor() {
	if g.sink == nil {
		return
	}
	d := g.d
	evenM := d.mBlockSize == d.mIbBlockSize
	evenN := d.nBlockSize == d.nIbBlockSize

	g.b.Do("thread_anchor", func(e *Env) {
		mIdx, nIdx := e.Get("m_idx"), e.Get("n_idx")
		if mIdx >= d.m || nIdx >= d.n {
			return
		}
		alts := threadAnchorAlts(g.s, d, mIdx, nIdx)
		mSmall := e.Get("m_s") >= d.mBlkNum
		nSmall := e.Get("n_s") >= d.nBlkNum
		switch {
		case evenM && evenN:
			g.sink.EmitOutputRegion(AnchorThread, alts[0])
		case evenM:
			g.sink.EmitIteratedRegion(AnchorThread, boolIdx(nSmall),
				[]Region{alts[0], alts[1]})
		case evenN:
			g.sink.EmitIteratedRegion(AnchorThread, boolIdx(mSmall),
				[]Region{alts[0], alts[2]})
		default:
			g.sink.EmitIteratedRegion(AnchorThread,
				boolIdx(mSmall)*2+boolIdx(nSmall), alts)
		}
	})
}

// emitOuterAnchor emits the whole-row anchor available when N is unsplit,
// letting a consumer shrink its working tensor to one M share
func (g *generator) emitOuterAnchor() {
	if g.sink == nil || g.cfg.NSplitNum != 1 {
		return
	}
	d := g.d
	g.b.Do("outer_anchor", func(e *Env) {
		st, _ := Balance211(d.mBlocks, g.cfg.MSplitNum, e.Get("m_s"))
		mOrigin := st * d.iim
		alts := rowAnchorAlts(g.s, d, mOrigin)
		if d.mBlockSize == d.mIbBlockSize {
			g.sink.EmitOutputRegion(AnchorOuter, alts[0])
			return
		}
		g.sink.EmitIteratedRegion(AnchorOuter,
			boolIdx(e.Get("m_s") >= d.mBlkNum), alts)
	})
}
