package transform

import (
	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/expr"
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
)

// fixedTemplates memoizes the parameter-free replacement circuits; the
// memo hands out clones.
var fixedTemplates = expr.Map{}

func cachedTemplate(op optype.Op, build func() *circuit.Circuit) *circuit.Circuit {
	if v, ok := fixedTemplates.Find(op); ok {
		return v.(*circuit.Circuit).Clone()
	}
	c := build()
	fixedTemplates.Set(op, c)
	return c.Clone()
}

// cxCircFromMultiq replaces a multi-qubit gate on n wires with a
// circuit over CX, CCX and single-qubit gates.
func cxCircFromMultiq(op optype.Op, n int) (*circuit.Circuit, error) {
	p := op.Params
	switch op.Type {
	case optype.CZ:
		return cachedTemplate(op, CZUsingCX), nil
	case optype.CY:
		return cachedTemplate(op, CYUsingCX), nil
	case optype.CH:
		return cachedTemplate(op, CHUsingCX), nil
	case optype.CV:
		return cachedTemplate(op, CVUsingCX), nil
	case optype.CVdg:
		return cachedTemplate(op, CVdgUsingCX), nil
	case optype.CSX:
		return cachedTemplate(op, CSXUsingCX), nil
	case optype.CSXdg:
		return cachedTemplate(op, CSXdgUsingCX), nil
	case optype.CRz:
		return CRzUsingCX(p[0]), nil
	case optype.CRx:
		return CRxUsingCX(p[0]), nil
	case optype.CRy:
		return CRyUsingCX(p[0]), nil
	case optype.CU1:
		return CU1UsingCX(p[0]), nil
	case optype.CU3:
		return CU3UsingCX(p[0], p[1], p[2]), nil
	case optype.SWAP:
		return cachedTemplate(op, SWAPUsingCX), nil
	case optype.CSWAP:
		return cachedTemplate(op, CSWAPUsingCCX), nil
	case optype.BRIDGE:
		return cachedTemplate(op, BridgeUsingCX), nil
	case optype.ECR:
		return cachedTemplate(op, ECRUsingCX), nil
	case optype.ISWAP:
		return ISWAPUsingCX(p[0]), nil
	case optype.ISWAPMax:
		return cachedTemplate(op, ISWAPMaxUsingCX), nil
	case optype.PhasedISWAP:
		return PhasedISWAPUsingCX(p[0], p[1]), nil
	case optype.XXPhase:
		return XXPhaseUsingCX(p[0]), nil
	case optype.YYPhase:
		return YYPhaseUsingCX(p[0]), nil
	case optype.ZZPhase:
		return ZZPhaseUsingCX(p[0]), nil
	case optype.ZZMax:
		return cachedTemplate(op, ZZMaxUsingCX), nil
	case optype.XXPhase3:
		return XXPhase3UsingCX(p[0]), nil
	case optype.ESWAP:
		return ESWAPUsingCX(p[0]), nil
	case optype.FSim:
		return FSimUsingCX(p[0], p[1]), nil
	case optype.Sycamore:
		return cachedTemplate(op, SycamoreUsingCX), nil
	case optype.CCX:
		return cachedTemplate(op, CCXNormalDecomp), nil
	case optype.CnX:
		return CnXNormalDecomp(n - 1), nil
	case optype.CnRy:
		return decomposedCnRy(p[0], n), nil
	case optype.PhaseGadget:
		return PhaseGadgetUsingCX(n, p[0]), nil
	}
	return nil, qerror.Wrap(qerror.ErrNotImplemented, "no CX replacement for %s", op.Name())
}

// zxCircFromOp1q rewrites a single-qubit gate over {Rx, Rz} plus a
// global phase.
func zxCircFromOp1q(op optype.Op) (*circuit.Circuit, error) {
	c := circuit.NewQubits(1)
	rz := func(a expr.Expression) { mustAdd(c, optype.Gate(optype.Rz, a), 0) }
	rx := func(a expr.Expression) { mustAdd(c, optype.Gate(optype.Rx, a), 0) }
	half := expr.FromRat(1, 2)
	p := op.Params
	switch op.Type {
	case optype.Z:
		rz(expr.FromInt(1))
		c.AddPhase(half)
	case optype.X:
		rx(expr.FromInt(1))
		c.AddPhase(half)
	case optype.Y:
		rz(expr.FromInt(1))
		rx(expr.FromInt(1))
		c.AddPhase(half.Neg())
	case optype.S:
		rz(half)
		c.AddPhase(expr.FromRat(1, 4))
	case optype.Sdg:
		rz(half.Neg())
		c.AddPhase(expr.FromRat(-1, 4))
	case optype.T:
		rz(expr.FromRat(1, 4))
		c.AddPhase(expr.FromRat(1, 8))
	case optype.Tdg:
		rz(expr.FromRat(-1, 4))
		c.AddPhase(expr.FromRat(-1, 8))
	case optype.V:
		rx(half)
	case optype.Vdg:
		rx(half.Neg())
	case optype.SX:
		rx(half)
		c.AddPhase(expr.FromRat(1, 4))
	case optype.SXdg:
		rx(half.Neg())
		c.AddPhase(expr.FromRat(-1, 4))
	case optype.H:
		rz(half)
		rx(half)
		rz(half)
		c.AddPhase(half)
	case optype.Ry:
		rz(half.Neg())
		rx(p[0])
		rz(half)
	case optype.U1:
		rz(p[0])
		c.AddPhase(p[0].DivInt(2))
	case optype.U2:
		rz(p[1].Sub(half))
		rx(half)
		rz(p[0].Add(half))
		c.AddPhase(p[0].Add(p[1]).DivInt(2))
	case optype.U3:
		rz(p[2].Sub(half))
		rx(p[0])
		rz(p[1].Add(half))
		c.AddPhase(p[1].Add(p[2]).DivInt(2))
	case optype.TK1:
		rz(p[2])
		rx(p[1])
		rz(p[0])
	case optype.PhasedX:
		rz(p[1].Neg())
		rx(p[0])
		rz(p[1])
	default:
		return nil, qerror.Wrap(qerror.ErrNotImplemented, "no ZX replacement for %s", op.Name())
	}
	return c, nil
}

func decomposeZXApply(c *circuit.Circuit) (bool, error) {
	return rewriteGates(c, func(op optype.Op, v circuit.Vertex) (*circuit.Circuit, error) {
		switch op.Type {
		case optype.Rx, optype.Rz, optype.CX, optype.Noop, optype.Barrier,
			optype.Measure, optype.Collapse, optype.Reset, optype.Conditional:
			return nil, nil
		}
		n := len(c.Args(v))
		if n == 0 {
			return nil, qerror.Wrap(qerror.ErrInvalidVertex, "%s vertex has no incident wires", op.Name())
		}
		if n == 1 {
			return zxCircFromOp1q(op)
		}
		sub, err := cxCircFromMultiq(op, n)
		if err != nil {
			return nil, err
		}
		if _, err := decomposeZXApply(sub); err != nil {
			return nil, err
		}
		return sub, nil
	})
}

// DecomposeZX rewrites every unitary gate into {Rx, Rz, CX}, folding
// the leftover scalars into the circuit's global phase.
func DecomposeZX() Transform {
	return New("DecomposeZX", decomposeZXApply)
}

func synthesiseIBMApply(c *circuit.Circuit) (bool, error) {
	chZX, err := decomposeZXApply(c)
	if err != nil {
		return false, err
	}
	chIBM, err := rewriteGates(c, func(op optype.Op, v circuit.Vertex) (*circuit.Circuit, error) {
		switch op.Type {
		case optype.Rz:
			a := op.Params[0]
			sub := circuit.NewQubits(1)
			mustAdd(sub, optype.Gate(optype.U1, a), 0)
			sub.AddPhase(a.DivInt(2).Neg())
			return sub, nil
		case optype.Rx:
			a := op.Params[0]
			sub := circuit.NewQubits(1)
			switch {
			case a.EquivalentMod(expr.FromRat(1, 2), 4):
				mustAdd(sub, optype.Gate(optype.U2, expr.FromRat(-1, 2), expr.FromRat(1, 2)), 0)
			case a.EquivalentMod(expr.FromRat(-1, 2), 4):
				mustAdd(sub, optype.Gate(optype.U2, expr.FromRat(1, 2), expr.FromRat(-1, 2)), 0)
			default:
				mustAdd(sub, optype.Gate(optype.U3, a, expr.FromRat(-1, 2), expr.FromRat(1, 2)), 0)
			}
			return sub, nil
		}
		return nil, nil
	})
	if err != nil {
		return false, err
	}
	return chZX || chIBM, nil
}

// SynthesiseIBM rewrites the circuit over the {CX, U1, U2, U3} gate
// set.
func SynthesiseIBM() Transform {
	return New("SynthesiseIBM", synthesiseIBMApply)
}
