// Package x86 is the 32-bit NASM target.
package x86

import (
	"kilc/internal/backend"
	"kilc/internal/il"
)

// Selector is the name the target registers under.
const Selector = "x86"

// Register adds the target to r.
func Register(r *backend.Registry) {
	r.Register(Selector, build)
}

func build(b *backend.Builder) {
	b.MethodStart(backend.HandlerFunc(methodStart))
	b.MethodEnd(backend.HandlerFunc(methodEnd))
	b.StackSwitch(backend.HandlerFunc(stackSwitch))

	b.HandleFunc(nop, il.OpNop)
	b.HandleFunc(ldcI4, il.OpLdcI4)
	b.HandleFunc(ldcI8, il.OpLdcI8)
	b.HandleFunc(floatConst, il.OpLdcR4, il.OpLdcR8)
	b.HandleFunc(ldnull, il.OpLdnull)
	b.HandleFunc(ldloc, il.OpLdloc)
	b.HandleFunc(stloc, il.OpStloc)
	b.HandleFunc(ldarg, il.OpLdarg)
	b.HandleFunc(starg, il.OpStarg)
	b.HandleFunc(binary, il.OpAdd, il.OpSub, il.OpMul, il.OpAnd, il.OpOr, il.OpXor)
	b.HandleFunc(unary, il.OpNeg, il.OpNot)
	b.HandleFunc(dup, il.OpDup)
	b.HandleFunc(pop, il.OpPop)
	b.HandleFunc(br, il.OpBr)
	b.HandleFunc(condBranch, il.OpBrtrue, il.OpBrfalse)
	b.HandleFunc(compareBranch, il.OpBeq, il.OpBneUn)
	b.HandleFunc(ret, il.OpRet)
	b.HandleFunc(ldstr, il.OpLdstr)
	b.HandleFunc(call, il.OpCall)
	b.HandleFunc(ldsfld, il.OpLdsfld)
	b.HandleFunc(stsfld, il.OpStsfld)
	b.HandleFunc(convI4, il.OpConvI4, il.OpConvU4)

	b.Ops(Constructors())
}
