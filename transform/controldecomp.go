package transform

import (
	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/expr"
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
)

// DecompCCX rewrites every CCX vertex with the 15-gate template.
func DecompCCX() Transform {
	return New("DecompCCX", func(c *circuit.Circuit) (bool, error) {
		return rewriteGates(c, func(op optype.Op, v circuit.Vertex) (*circuit.Circuit, error) {
			if op.Type != optype.CCX {
				return nil, nil
			}
			return CCXNormalDecomp(), nil
		})
	})
}

// DecompControlledRys rewrites every CnRy vertex into CX and Ry gates,
// leaving narrower CnX gates for later passes when more than two inner
// controls are needed.
func DecompControlledRys() Transform {
	return New("DecompControlledRys", func(c *circuit.Circuit) (bool, error) {
		return rewriteGates(c, func(op optype.Op, v circuit.Vertex) (*circuit.Circuit, error) {
			if op.Type != optype.CnRy && op.Type != optype.CRy {
				return nil, nil
			}
			n := len(c.Args(v))
			if n == 0 {
				return nil, qerror.Wrap(qerror.ErrInvalidVertex, "%s vertex has no incident wires", op.Name())
			}
			if n == 1 {
				return nil, nil
			}
			return decomposedCnRy(op.Params[0], n), nil
		})
	})
}

// decomposedCnRy builds the Ry(p) rotation on qubit k-1 controlled on
// qubits 0..k-2, recursively halving the angle.
func decomposedCnRy(p expr.Expression, k int) *circuit.Circuit {
	c := circuit.NewQubits(k)
	cnRyRec(c, p, identityPerm(k))
	return c
}

func cnRyRec(c *circuit.Circuit, p expr.Expression, qs []int) {
	k := len(qs)
	switch k {
	case 1:
		mustAdd(c, optype.Gate(optype.Ry, p), qs[0])
	case 2:
		mustAdd(c, optype.Gate(optype.Ry, p.DivInt(2)), qs[1])
		mustAdd(c, optype.Gate(optype.CX), qs[0], qs[1])
		mustAdd(c, optype.Gate(optype.Ry, p.DivInt(2).Neg()), qs[1])
		mustAdd(c, optype.Gate(optype.CX), qs[0], qs[1])
	default:
		half := p.DivInt(2)
		cry(c, half, qs[k-2], qs[k-1])
		cnx(c, qs[:k-2], qs[k-2])
		cry(c, half.Neg(), qs[k-2], qs[k-1])
		cnx(c, qs[:k-2], qs[k-2])
		rest := append(append(make([]int, 0, k-1), qs[:k-2]...), qs[k-1])
		cnRyRec(c, half, rest)
	}
}

func cry(c *circuit.Circuit, a expr.Expression, ctrl, tgt int) {
	mustAdd(c, optype.Gate(optype.Ry, a.DivInt(2)), tgt)
	mustAdd(c, optype.Gate(optype.CX), ctrl, tgt)
	mustAdd(c, optype.Gate(optype.Ry, a.DivInt(2).Neg()), tgt)
	mustAdd(c, optype.Gate(optype.CX), ctrl, tgt)
}

// cnx adds an X on tgt controlled on ctrls, as the narrowest primitive
// available.
func cnx(c *circuit.Circuit, ctrls []int, tgt int) {
	switch len(ctrls) {
	case 0:
		mustAdd(c, optype.Gate(optype.X), tgt)
	case 1:
		mustAdd(c, optype.Gate(optype.CX), ctrls[0], tgt)
	default:
		mustAdd(c, optype.Gate(optype.CnX), append(append([]int{}, ctrls...), tgt)...)
	}
}

// IncrementerBorrowNQubits builds a circuit on 2n qubits adding 1 mod
// 2^n to the register held on the odd-numbered qubits, bit i of the
// register on qubit 2i+1. The even-numbered qubits are borrowed scratch
// and are restored whatever state they carry.
func IncrementerBorrowNQubits(n int) *circuit.Circuit {
	c := circuit.NewQubits(2 * n)
	if n == 0 {
		return c
	}
	g := func(i int) int { return 2 * i }
	x := func(i int) int { return 2*i + 1 }
	cx := func(a, b int) { mustAdd(c, optype.Gate(optype.CX), a, b) }
	ccx := func(a, b, d int) { mustAdd(c, optype.Gate(optype.CCX), a, b, d) }
	nx := func(a int) { mustAdd(c, optype.Gate(optype.X), a) }
	if n == 1 {
		nx(x(0))
		return c
	}

	cx(g(0), x(0))
	for i := 1; i < n; i++ {
		nx(g(i))
	}
	for i := 1; i < n; i++ {
		cx(g(0), x(i))
	}
	cx(g(0), x(0))
	nx(x(n - 1))

	for i := 0; i <= n-2; i++ {
		cx(g(i+1), g(i))
		ccx(g(i), x(i), g(i+1))
		cx(g(i+1), x(i+1))
	}

	for i := n - 2; i >= 0; i-- {
		ccx(g(i), x(i), g(i+1))
		if i <= n-3 {
			nx(g(i + 2))
		}
	}
	cx(g(0), x(0))
	nx(g(1))
	nx(g(0))

	for i := 0; i <= n-2; i++ {
		ccx(g(i), x(i), g(i+1))
		cx(g(i+1), x(i+1))
		if i <= n-3 {
			nx(g(i + 1))
		}
	}

	for i := n - 2; i >= 0; i-- {
		ccx(g(i), x(i), g(i+1))
		if i <= n-3 {
			cx(g(i+2), x(i+1))
		}
		cx(g(i+1), g(i))
	}
	cx(g(1), x(0))

	for i := 0; i < n; i++ {
		cx(g(0), x(i))
	}
	return c
}

// IncrementerBorrow1Qubit builds a circuit on n+1 qubits adding 1 mod
// 2^n to qubits 0..n-1 (qubit 0 least significant), borrowing qubit n.
func IncrementerBorrow1Qubit(n int) *circuit.Circuit {
	c := circuit.NewQubits(n + 1)
	for i := n - 1; i >= 1; i-- {
		ctrls := identityPerm(i)
		dirty := make([]int, 0, n-i)
		for j := i + 1; j <= n; j++ {
			dirty = append(dirty, j)
		}
		cnxDirty(c, ctrls, i, dirty)
	}
	if n >= 1 {
		mustAdd(c, optype.Gate(optype.X), 0)
	}
	return c
}

// cnxDirty adds a multi-controlled X on tgt over ctrls using only X, CX
// and CCX, with the dirty qubits as borrowed ancillas. With at least
// m-2 ancillas it lays down the borrowed-ancilla ladder; otherwise it
// splits the controls and recurses.
func cnxDirty(c *circuit.Circuit, ctrls []int, tgt int, dirty []int) {
	m := len(ctrls)
	switch m {
	case 0:
		mustAdd(c, optype.Gate(optype.X), tgt)
		return
	case 1:
		mustAdd(c, optype.Gate(optype.CX), ctrls[0], tgt)
		return
	case 2:
		mustAdd(c, optype.Gate(optype.CCX), ctrls[0], ctrls[1], tgt)
		return
	}
	if len(dirty) >= m-2 {
		anc := dirty[:m-2]
		A := func(j int) int {
			if j == m-1 {
				return tgt
			}
			return anc[j-1]
		}
		step := func(i int) {
			mustAdd(c, optype.Gate(optype.CCX), ctrls[i-1], A(i-2), A(i-1))
		}
		for i := m; i >= 3; i-- {
			step(i)
		}
		mustAdd(c, optype.Gate(optype.CCX), ctrls[0], ctrls[1], A(1))
		for i := 3; i <= m; i++ {
			step(i)
		}
		for i := m - 1; i >= 3; i-- {
			step(i)
		}
		mustAdd(c, optype.Gate(optype.CCX), ctrls[0], ctrls[1], A(1))
		for i := 3; i <= m-1; i++ {
			step(i)
		}
		return
	}
	// Not enough ancillas: split the controls in two halves, each half
	// treating the other (and the target) as borrowable.
	k := (m + 1) / 2
	half, rest := ctrls[:k], ctrls[k:]
	free := dirty[0]
	withTgt := append(append([]int{}, rest...), tgt)
	withFree := append(append([]int{}, rest...), free)
	cnxDirty(c, half, free, withTgt)
	cnxDirty(c, withFree, tgt, half)
	cnxDirty(c, half, free, withTgt)
	cnxDirty(c, withFree, tgt, half)
}

// CnXNormalDecomp builds a circuit on n+1 qubits implementing X on the
// last qubit controlled on the first n, exactly and with no global
// phase. For n >= 3 it runs a phase gradient against the borrowed-qubit
// incrementer.
func CnXNormalDecomp(n int) *circuit.Circuit {
	switch n {
	case 0:
		c := circuit.NewQubits(1)
		mustAdd(c, optype.Gate(optype.X), 0)
		return c
	case 1:
		c := circuit.NewQubits(2)
		mustAdd(c, optype.Gate(optype.CX), 0, 1)
		return c
	case 2:
		return CCXNormalDecomp()
	}
	c := circuit.NewQubits(n + 1)
	t := n
	mustAdd(c, optype.Gate(optype.H), t)
	inc := IncrementerBorrow1Qubit(n)
	mustAppend(c, inc, identityPerm(n+1)...)
	for k := 0; k < n; k++ {
		mustAdd(c, optype.Gate(optype.CU1, expr.FromRat(1, 1<<uint(n-k))), t, k)
	}
	dec, err := inc.Dagger()
	if err != nil {
		panic(err)
	}
	mustAppend(c, dec, identityPerm(n+1)...)
	for k := 0; k < n; k++ {
		mustAdd(c, optype.Gate(optype.CU1, expr.FromRat(-1, 1<<uint(n-k))), t, k)
	}
	mustAdd(c, optype.Gate(optype.U1, expr.FromRat(-1, 1<<uint(n))), t)
	mustAdd(c, optype.Gate(optype.H), t)
	return c
}
