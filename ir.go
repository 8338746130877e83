// Package mmsched loop IR and builder
//
// The generator does not emit machine code; it emits a small loop AST that
// a tree-walk executor runs (see exec.go) and downstream passes can
// inspect. Loops live in an arena owned by the Builder, and cross-loop
// references (the reduction-root tag) are arena handles, never pointers, so
// ownership stays unambiguous.
package mmsched

// IntExpr evaluates to an integer against the running environment
type IntExpr func(*Env) int

// BoolExpr evaluates to a condition against the running environment
type BoolExpr func(*Env) bool

// ConstInt returns an expression yielding a fixed value
func ConstInt(v int) IntExpr {
	return func(*Env) int { return v }
}

// VarRef returns an expression reading a declared or loop variable
func VarRef(name string) IntExpr {
	return func(e *Env) int { return e.Get(name) }
}

// Stmt is one node of the loop AST
type Stmt interface {
	isStmt()
}

// LoopKind distinguishes serial loops from fork-join parallel loops
type LoopKind int

const (
	LoopSerial LoopKind = iota
	LoopParallel
)

// LoopHandle indexes a ForLoop in the builder's arena
type LoopHandle int

// InvalidLoop is the null loop handle
const InvalidLoop LoopHandle = -1

// ForLoop iterates Var from Begin to End (exclusive) by Step. Parallel
// loops distribute their iteration range over a team of Workers with
// Balance211 and join before the enclosing statement continues.
type ForLoop struct {
	Var        string
	Begin, End IntExpr
	Step       int
	Kind       LoopKind
	Workers    int
	Body       []Stmt

	// ReduceRoot tags this loop with the handle of the loop acting as the
	// reduction root of a K-sub-split nest, or InvalidLoop.
	ReduceRoot LoopHandle
}

// IfStmt runs Then or Else depending on Cond
type IfStmt struct {
	Cond BoolExpr
	Then []Stmt
	Else []Stmt
}

// VarDecl declares (or redeclares) a scoped integer variable
type VarDecl struct {
	Name string
	Init IntExpr
}

// Do runs an opaque action: a kernel invocation or an anchor emission.
// Name labels the action for inspection only.
type Do struct {
	Name string
	F    func(*Env)
}

func (*ForLoop) isStmt() {}
func (*IfStmt) isStmt()  {}
func (*VarDecl) isStmt() {}
func (*Do) isStmt()      {}

// Builder assembles a loop AST imperatively. Begin/End pairs must nest.
type Builder struct {
	root   []Stmt
	frames []frame
	arena  []*ForLoop
}

type frame struct {
	forNode *ForLoop
	ifNode  *IfStmt
	inElse  bool
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

// append adds a statement to the innermost open scope
func (b *Builder) append(s Stmt) {
	if len(b.frames) == 0 {
		b.root = append(b.root, s)
		return
	}
	f := &b.frames[len(b.frames)-1]
	switch {
	case f.forNode != nil:
		f.forNode.Body = append(f.forNode.Body, s)
	case f.inElse:
		f.ifNode.Else = append(f.ifNode.Else, s)
	default:
		f.ifNode.Then = append(f.ifNode.Then, s)
	}
}

// BeginFor opens a loop and returns its arena handle
func (b *Builder) BeginFor(name string, begin, end IntExpr, step int, kind LoopKind, workers int) LoopHandle {
	l := &ForLoop{
		Var: name, Begin: begin, End: end, Step: step,
		Kind: kind, Workers: workers, ReduceRoot: InvalidLoop,
	}
	b.append(l)
	b.frames = append(b.frames, frame{forNode: l})
	b.arena = append(b.arena, l)
	return LoopHandle(len(b.arena) - 1)
}

// EndFor closes the innermost open loop
func (b *Builder) EndFor() {
	if len(b.frames) == 0 || b.frames[len(b.frames)-1].forNode == nil {
		panic("mmsched: EndFor without matching BeginFor")
	}
	b.frames = b.frames[:len(b.frames)-1]
}

// BeginIf opens a conditional
func (b *Builder) BeginIf(cond BoolExpr) {
	s := &IfStmt{Cond: cond}
	b.append(s)
	b.frames = append(b.frames, frame{ifNode: s})
}

// Else switches the open conditional to its else branch
func (b *Builder) Else() {
	if len(b.frames) == 0 || b.frames[len(b.frames)-1].ifNode == nil {
		panic("mmsched: Else without matching BeginIf")
	}
	b.frames[len(b.frames)-1].inElse = true
}

// EndIf closes the innermost open conditional
func (b *Builder) EndIf() {
	if len(b.frames) == 0 || b.frames[len(b.frames)-1].ifNode == nil {
		panic("mmsched: EndIf without matching BeginIf")
	}
	b.frames = b.frames[:len(b.frames)-1]
}

// Declare emits a variable declaration into the current scope
func (b *Builder) Declare(name string, init IntExpr) {
	b.append(&VarDecl{Name: name, Init: init})
}

// Do emits an opaque action into the current scope
func (b *Builder) Do(name string, f func(*Env)) {
	b.append(&Do{Name: name, F: f})
}

// Loop resolves a handle to its node
func (b *Builder) Loop(h LoopHandle) *ForLoop {
	return b.arena[h]
}

// Reorder exchanges the headers of two nested loops, turning the outer
// iteration variable into the inner one. Bodies and declarations stay
// where they are; only the loop control swaps.
func (b *Builder) Reorder(outer, inner LoopHandle) {
	lo, li := b.arena[outer], b.arena[inner]
	lo.Var, li.Var = li.Var, lo.Var
	lo.Begin, li.Begin = li.Begin, lo.Begin
	lo.End, li.End = li.End, lo.End
	lo.Step, li.Step = li.Step, lo.Step
	lo.Kind, li.Kind = li.Kind, lo.Kind
	lo.Workers, li.Workers = li.Workers, lo.Workers
}

// SetReduceRoot tags loop with root as its reduction root
func (b *Builder) SetReduceRoot(loop, root LoopHandle) {
	b.arena[loop].ReduceRoot = root
}

// Finish returns the assembled AST and the loop arena
func (b *Builder) Finish() ([]Stmt, []*ForLoop) {
	if len(b.frames) != 0 {
		panic("mmsched: Finish with unclosed scopes")
	}
	return b.root, b.arena
}
