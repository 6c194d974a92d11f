package compile

import (
	"github.com/wkalt/fbc/ir"
)

/*
Struct containment forms a DAG or the schema is unbuildable: a struct is a
fixed-size inline value, so a cycle would demand infinite size. The check runs
a depth-first walk over struct-typed fields and reports each back edge with
the full cycle path. Layout happens on the way back up, so nested struct sizes
are final before a containing struct is measured.
*/

////////////////////////////////////////////////////////////////////////////////

const (
	unvisited = iota
	visiting
	visited
)

func (c *compiler) checkStructCycles() {
	state := map[ir.Ref]int{}
	var stack []ir.Ref

	var visit func(ref ir.Ref)
	visit = func(ref ir.Ref) {
		switch state[ref] {
		case visiting:
			c.reportCycle(stack, ref)
			return
		case visited:
			return
		}
		state[ref] = visiting
		stack = append(stack, ref)
		st := c.out.Decls[ref].(*ir.Struct)
		for _, f := range st.Fields {
			if c.out.IsStruct(f.Type) {
				visit(f.Type.Ref)
			}
		}
		stack = stack[:len(stack)-1]
		state[ref] = visited
		c.out.LayoutStruct(st)
	}

	for _, sym := range c.syms {
		if _, ok := c.out.Decls[sym.ref].(*ir.Struct); ok {
			visit(sym.ref)
		}
	}
}

func (c *compiler) reportCycle(stack []ir.Ref, ref ir.Ref) {
	start := 0
	for i, r := range stack {
		if r == ref {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, r := range stack[start:] {
		path = append(path, c.out.Decls[r].Base().FullName())
	}
	path = append(path, c.out.Decls[ref].Base().FullName())
	c.errorf(StructCycleError{Pos: c.pos[ref], Path: path})
}
