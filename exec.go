// Package mmsched tree-walk execution of loop plans
package mmsched

import (
	"sync"
)

// Env is the variable scope one worker executes under. Each parallel loop
// iteration runs in its own clone, so workers never share mutable state
// through the environment.
type Env struct {
	vars map[string]int
	tid  int
}

func newEnv() *Env {
	return &Env{vars: make(map[string]int)}
}

// Get returns the value of a declared or loop variable
func (e *Env) Get(name string) int {
	v, ok := e.vars[name]
	if !ok {
		panic("mmsched: undeclared variable " + name)
	}
	return v
}

// Tid returns the worker's linear thread id within the plan
func (e *Env) Tid() int {
	return e.tid
}

func (e *Env) set(name string, v int) {
	e.vars[name] = v
}

func (e *Env) clone() *Env {
	c := &Env{vars: make(map[string]int, len(e.vars)), tid: e.tid}
	for k, v := range e.vars {
		c.vars[k] = v
	}
	return c
}

// runStmts walks a statement list to completion
func runStmts(stmts []Stmt, env *Env) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *VarDecl:
			env.set(st.Name, st.Init(env))
		case *Do:
			st.F(env)
		case *IfStmt:
			if st.Cond(env) {
				runStmts(st.Then, env)
			} else {
				runStmts(st.Else, env)
			}
		case *ForLoop:
			runFor(st, env)
		}
	}
}

// runFor executes one loop. Parallel loops divide their iteration range
// over the worker team with Balance211 and block until every worker
// finishes: the loop exit is a full barrier, which is what hands the
// reduction buffer from the partial-compute phase to the reduction phase
// without locking.
func runFor(l *ForLoop, env *Env) {
	begin, end := l.Begin(env), l.End(env)
	if l.Kind == LoopSerial {
		for v := begin; v < end; v += l.Step {
			env.set(l.Var, v)
			runStmts(l.Body, env)
		}
		return
	}

	iters := 0
	if end > begin {
		iters = divCeil(end-begin, l.Step)
	}
	var wg sync.WaitGroup
	for w := 0; w < l.Workers; w++ {
		start, length := Balance211(iters, l.Workers, w)
		if length <= 0 {
			continue
		}
		wg.Add(1)
		go func(w, start, length int) {
			defer wg.Done()
			child := env.clone()
			child.tid = env.tid*l.Workers + w
			for i := start; i < start+length; i++ {
				child.set(l.Var, begin+i*l.Step)
				runStmts(l.Body, child)
			}
		}(w, start, length)
	}
	wg.Wait()
}
