package transform

import (
	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/expr"
	"github.com/quivercomp/quiver/optype"
)

// Closed-form replacement templates. Each function builds a fresh
// circuit implementing its gate exactly, global phase included where
// noted. Template internals only ever add valid gates, so wiring
// failures are programmer errors.

func mustAdd(c *circuit.Circuit, op optype.Op, qs ...int) {
	if _, err := c.AddGate(op, qs...); err != nil {
		panic(err)
	}
}

func mustAppend(c *circuit.Circuit, sub *circuit.Circuit, perm ...int) {
	if err := c.AppendQubits(sub, perm); err != nil {
		panic(err)
	}
}

func identityPerm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// CCXNormalDecomp is the 15-gate expansion of CCX over {H, T, Tdg, CX}.
func CCXNormalDecomp() *circuit.Circuit {
	c := circuit.NewQubits(3)
	mustAdd(c, optype.Gate(optype.H), 2)
	mustAdd(c, optype.Gate(optype.CX), 1, 2)
	mustAdd(c, optype.Gate(optype.Tdg), 2)
	mustAdd(c, optype.Gate(optype.CX), 0, 2)
	mustAdd(c, optype.Gate(optype.T), 2)
	mustAdd(c, optype.Gate(optype.CX), 1, 2)
	mustAdd(c, optype.Gate(optype.Tdg), 2)
	mustAdd(c, optype.Gate(optype.CX), 0, 2)
	mustAdd(c, optype.Gate(optype.T), 1)
	mustAdd(c, optype.Gate(optype.T), 2)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.H), 2)
	mustAdd(c, optype.Gate(optype.T), 0)
	mustAdd(c, optype.Gate(optype.Tdg), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	return c
}

func CZUsingCX() *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.H), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.H), 1)
	return c
}

func CYUsingCX() *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.Sdg), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.S), 1)
	return c
}

func CHUsingCX() *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.Ry, expr.FromRat(1, 4)), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.Ry, expr.FromRat(-1, 4)), 1)
	return c
}

func CRzUsingCX(a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.Rz, a.DivInt(2)), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.Rz, a.DivInt(2).Neg()), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	return c
}

func CRyUsingCX(a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.Ry, a.DivInt(2)), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.Ry, a.DivInt(2).Neg()), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	return c
}

func CRxUsingCX(a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.H), 1)
	mustAppend(c, CRzUsingCX(a), 0, 1)
	mustAdd(c, optype.Gate(optype.H), 1)
	return c
}

func CU1UsingCX(a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.U1, a.DivInt(2)), 0)
	mustAdd(c, optype.Gate(optype.U1, a.DivInt(2)), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.U1, a.DivInt(2).Neg()), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	return c
}

func CU3UsingCX(t, f, l expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.U1, l.Add(f).DivInt(2)), 0)
	mustAdd(c, optype.Gate(optype.U1, l.Sub(f).DivInt(2)), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.U3, t.DivInt(2).Neg(), expr.Zero(), f.Add(l).DivInt(2).Neg()), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.U3, t.DivInt(2), f, expr.Zero()), 1)
	return c
}

func CVUsingCX() *circuit.Circuit {
	return CRxUsingCX(expr.FromRat(1, 2))
}

func CVdgUsingCX() *circuit.Circuit {
	return CRxUsingCX(expr.FromRat(-1, 2))
}

func CSXUsingCX() *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.U1, expr.FromRat(1, 4)), 0)
	mustAppend(c, CVUsingCX(), 0, 1)
	return c
}

func CSXdgUsingCX() *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.U1, expr.FromRat(-1, 4)), 0)
	mustAppend(c, CVdgUsingCX(), 0, 1)
	return c
}

func SWAPUsingCX() *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.CX), 1, 0)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	return c
}

func CSWAPUsingCCX() *circuit.Circuit {
	c := circuit.NewQubits(3)
	mustAdd(c, optype.Gate(optype.CX), 2, 1)
	mustAdd(c, optype.Gate(optype.CCX), 0, 1, 2)
	mustAdd(c, optype.Gate(optype.CX), 2, 1)
	return c
}

func BridgeUsingCX() *circuit.Circuit {
	c := circuit.NewQubits(3)
	mustAdd(c, optype.Gate(optype.CX), 1, 2)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.CX), 1, 2)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	return c
}

func ECRUsingCX() *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.H), 0)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.Rz, expr.FromRat(1, 2)), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.H), 0)
	mustAdd(c, optype.Gate(optype.X), 1)
	return c
}

func ZZPhaseUsingCX(a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	mustAdd(c, optype.Gate(optype.Rz, a), 1)
	mustAdd(c, optype.Gate(optype.CX), 0, 1)
	return c
}

func ZZMaxUsingCX() *circuit.Circuit {
	return ZZPhaseUsingCX(expr.FromRat(1, 2))
}

func XXPhaseUsingCX(a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.H), 0)
	mustAdd(c, optype.Gate(optype.H), 1)
	mustAppend(c, ZZPhaseUsingCX(a), 0, 1)
	mustAdd(c, optype.Gate(optype.H), 0)
	mustAdd(c, optype.Gate(optype.H), 1)
	return c
}

func YYPhaseUsingCX(a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.Vdg), 0)
	mustAdd(c, optype.Gate(optype.Vdg), 1)
	mustAppend(c, ZZPhaseUsingCX(a), 0, 1)
	mustAdd(c, optype.Gate(optype.V), 0)
	mustAdd(c, optype.Gate(optype.V), 1)
	return c
}

func XXPhase3UsingCX(a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(3)
	mustAppend(c, XXPhaseUsingCX(a), 0, 1)
	mustAppend(c, XXPhaseUsingCX(a), 1, 2)
	mustAppend(c, XXPhaseUsingCX(a), 0, 2)
	return c
}

func ISWAPUsingCX(a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	half := a.DivInt(2).Neg()
	mustAppend(c, XXPhaseUsingCX(half), 0, 1)
	mustAppend(c, YYPhaseUsingCX(half), 0, 1)
	return c
}

func ISWAPMaxUsingCX() *circuit.Circuit {
	return ISWAPUsingCX(expr.FromInt(1))
}

func PhasedISWAPUsingCX(p, t expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAdd(c, optype.Gate(optype.U1, p.Neg()), 0)
	mustAdd(c, optype.Gate(optype.U1, p), 1)
	mustAppend(c, ISWAPUsingCX(t), 0, 1)
	mustAdd(c, optype.Gate(optype.U1, p), 0)
	mustAdd(c, optype.Gate(optype.U1, p.Neg()), 1)
	return c
}

func ESWAPUsingCX(a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	half := a.DivInt(2)
	mustAppend(c, XXPhaseUsingCX(half), 0, 1)
	mustAppend(c, YYPhaseUsingCX(half), 0, 1)
	mustAppend(c, ZZPhaseUsingCX(half), 0, 1)
	c.AddPhase(a.DivInt(4).Neg())
	return c
}

func FSimUsingCX(a, b expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(2)
	mustAppend(c, ISWAPUsingCX(a.MulInt(-2)), 0, 1)
	mustAppend(c, CU1UsingCX(b.Neg()), 0, 1)
	return c
}

func SycamoreUsingCX() *circuit.Circuit {
	return FSimUsingCX(expr.FromRat(1, 2), expr.FromRat(1, 6))
}

// PhaseGadgetUsingCX implements exp(-i pi a/2 Z...Z) as a CX ladder
// around a single Rz.
func PhaseGadgetUsingCX(n int, a expr.Expression) *circuit.Circuit {
	c := circuit.NewQubits(n)
	if n == 0 {
		c.AddPhase(a.DivInt(2).Neg())
		return c
	}
	for i := 0; i+1 < n; i++ {
		mustAdd(c, optype.Gate(optype.CX), i, i+1)
	}
	mustAdd(c, optype.Gate(optype.Rz, a), n-1)
	for i := n - 2; i >= 0; i-- {
		mustAdd(c, optype.Gate(optype.CX), i, i+1)
	}
	return c
}
