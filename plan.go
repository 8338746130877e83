// Package mmsched compiled plan handle
package mmsched

// Plan is one compiled nested-loop schedule for a (shape, config, machine)
// triple. Construction validates eagerly; a constructed plan runs to
// completion with no recoverable failure modes at this layer.
type Plan struct {
	root  []Stmt
	arena []*ForLoop

	shape MatmulShape
	cfg   Config
	dims  planDims

	// tmp is the reduction buffer of K-split plans, shaped
	// [K_real_split][output image]. It lives exactly as long as the plan
	// and is never persisted.
	tmp []float32
}

// Run executes the plan: fork-join parallel loops, kernel invocations and
// fusion anchor callbacks, in deterministic per-thread order.
func (p *Plan) Run() {
	runStmts(p.root, newEnv())
}

// Config returns the immutable planning artifact the plan was built from
func (p *Plan) Config() Config {
	return p.cfg
}

// Shape returns the planned problem shape
func (p *Plan) Shape() MatmulShape {
	return p.shape
}

// BlockSizes returns the (M, N, K) block granularity of the plan
func (p *Plan) BlockSizes() (iim, iin, iik int) {
	return p.dims.iim, p.dims.iin, p.dims.iik
}

// ReductionSlots returns the number of K-split reduction-buffer slots, or
// zero for plans that do not split K
func (p *Plan) ReductionSlots() int {
	if p.tmp == nil {
		return 0
	}
	return p.dims.kRealSplit
}

// Loops exposes the loop arena for downstream passes. The slice indexes
// are the same handles ReduceRoot refers to.
func (p *Plan) Loops() []*ForLoop {
	return p.arena
}
