// Package mmsched K-split reduction stage
package mmsched

// addLanes accumulates n elements of src into dst, stepping by the vector
// lane width the machine supports
func addLanes(dst, src []float32, n, lanes int) {
	i := 0
	for ; i+lanes <= n; i += lanes {
		for l := 0; l < lanes; l++ {
			dst[i+l] += src[i+l]
		}
	}
	for ; i < n; i++ {
		dst[i] += src[i]
	}
}

// emitBlockedReduction sums the reduction-buffer slots into a blocked
// output, parallelized over output blocks within one thread's region. Each
// block is zeroed, accumulated across all slots, and announced through a
// single-tile anchor the moment it is final.
func (g *generator) emitBlockedReduction() {
	b, d := g.b, g.d
	lanes := reductionLanes(d.iin)

	b.Declare("m_o_num", func(e *Env) int { return e.Get("m_len") / d.iim })
	b.Declare("n_o_num", func(e *Env) int { return e.Get("n_len") / d.iin })

	b.BeginFor("lm_ln", ConstInt(0),
		func(e *Env) int { return e.Get("m_o_num") * e.Get("n_o_num") },
		1, LoopParallel, d.kSplit)
	b.Do("reduce_tile", func(e *Env) {
		nNum := e.Get("n_o_num")
		lm, ln := e.Get("lm_ln")/nNum, e.Get("lm_ln")%nNum
		mIdx, nIdx := e.Get("m_idx"), e.Get("n_idx")
		if mIdx >= d.m || nIdx >= d.n {
			return
		}
		tile := d.iim * d.iin
		cOff := ((mIdx/d.iim+lm)*d.nBlocks + nIdx/d.iin + ln) * tile
		dst := g.out[cOff : cOff+tile]
		for i := range dst {
			dst[i] = 0
		}
		for lks := 0; lks < d.kRealSplit; lks++ {
			addLanes(dst, g.tmp[lks*g.slotLen+cOff:], tile, lanes)
		}
		if g.sink != nil {
			g.sink.EmitOutputRegion(AnchorBlock, Region{Dims: []Range{
				{mIdx/d.iim + lm, 1},
				{nIdx/d.iin + ln, 1},
				{0, d.iim},
				{0, d.iin},
			}})
		}
	})
	b.EndFor()
}

// emitPlainReduction sums the reduction-buffer slots into a plain
// row-major output: the thread's region is zeroed once, then the element
// range is accumulated in lane-wide spans distributed over the K workers.
// Anchors for this path are emitted at thread granularity by the caller.
func (g *generator) emitPlainReduction() {
	b, d := g.b, g.d
	lanes := reductionLanes(d.iin)

	b.Do("reduce_init", func(e *Env) {
		mIdx, nIdx := e.Get("m_idx"), e.Get("n_idx")
		if mIdx >= d.m || nIdx >= d.n {
			return
		}
		mLen, nLen := e.Get("m_len"), e.Get("n_len")
		for r := 0; r < mLen; r++ {
			row := g.out[(mIdx+r)*g.s.N+nIdx:]
			for i := 0; i < nLen; i++ {
				row[i] = 0
			}
		}
	})

	b.BeginFor("lm_ln", ConstInt(0),
		func(e *Env) int { return e.Get("m_len") * e.Get("n_len") },
		lanes, LoopParallel, d.kSplit)
	b.Do("reduce_span", func(e *Env) {
		mIdx, nIdx := e.Get("m_idx"), e.Get("n_idx")
		if mIdx >= d.m || nIdx >= d.n {
			return
		}
		nLen := e.Get("n_len")
		lm, ln := e.Get("lm_ln")/nLen, e.Get("lm_ln")%nLen
		span := min(lanes, nLen-ln)
		dOff := (mIdx+lm)*g.s.N + nIdx + ln
		for lks := 0; lks < d.kRealSplit; lks++ {
			addLanes(g.out[dOff:dOff+span], g.tmp[lks*g.slotLen+dOff:], span, lanes)
		}
	})
	b.EndFor()
}
