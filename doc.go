// Package mmsched is an adaptive scheduling and tiling engine for dense
// matrix multiplication on multicore CPUs.
//
// Given a logical (M, K, N) shape, operand data types, and a machine profile
// (thread count, L2 cache size), mmsched searches a thread decomposition of
// the iteration space, sizes second-level sub-blocks so each thread's working
// set fits cache, and emits a nested fork-join loop plan that invokes an
// externally supplied single-tile GEMM kernel. Producer/consumer operators
// can fuse into the plan through fusion anchors: callbacks fired at exactly
// the iteration boundaries where a rectangle of the output becomes final.
//
// mmsched does not implement the arithmetic kernel itself, nor any lowering
// or code generation. The kernel is an opaque callback; the emitted plan is a
// small loop AST plus a tree-walk executor.
//
// Typical usage:
//
//	shape := mmsched.NewMatmulShape(m, k, n, mmsched.F32)
//	prof := mmsched.DefaultMachineProfile()
//	cfg, err := mmsched.PlanConfig(shape, prof)
//	plan, err := mmsched.Generate(shape, cfg, prof, kernel, out, sink)
//	plan.Run()
package mmsched
