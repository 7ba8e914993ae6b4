package optype

import (
	"strings"

	"github.com/quivercomp/quiver/expr"
	"github.com/quivercomp/quiver/qerror"
)

// Op is an operation instance: a type plus its angle parameters, in
// half-turns. Conditional ops wrap an inner op with a classical
// condition.
type Op struct {
	Type   OpType
	Params []expr.Expression

	// Conditional wrapper fields, used only when Type == Conditional.
	Inner *Op
	Width int
	Value int
}

// Gate builds a plain op, checking the parameter count.
func Gate(t OpType, params ...expr.Expression) Op {
	if t.NumParams() != len(params) {
		panic("optype: wrong number of parameters for " + t.String())
	}
	return Op{Type: t, Params: params}
}

// Cond wraps inner so that it fires only when the condition bits,
// read big-endian, equal value.
func Cond(inner Op, width, value int) Op {
	return Op{Type: Conditional, Inner: &inner, Width: width, Value: value}
}

// Name renders the op with its parameters, e.g. "Rz(0.5)".
func (o Op) Name() string {
	if o.Type == Conditional {
		return "IF " + o.Inner.Name()
	}
	if len(o.Params) == 0 {
		return o.Type.String()
	}
	parts := make([]string, len(o.Params))
	for i, p := range o.Params {
		parts[i] = p.String()
	}
	return o.Type.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Equal reports structural equality.
func (o Op) Equal(p Op) bool {
	if o.Type != p.Type || len(o.Params) != len(p.Params) {
		return false
	}
	for i := range o.Params {
		if !o.Params[i].Equal(p.Params[i]) {
			return false
		}
	}
	if o.Type == Conditional {
		return o.Width == p.Width && o.Value == p.Value && o.Inner.Equal(*p.Inner)
	}
	return true
}

// HashCode hashes the op for use as an expr.Map key.
func (o Op) HashCode() uint64 {
	h := uint64(o.Type) * 1000000007
	for _, p := range o.Params {
		h = h*998244353 + p.HashCode()
	}
	if o.Type == Conditional {
		h = h*998244353 + uint64(o.Width)*31 + uint64(o.Value)
		h = h*998244353 + o.Inner.HashCode()
	}
	return h
}

// EqualI is Equal against a Hashable.
func (o Op) EqualI(p expr.Hashable) bool {
	op, ok := p.(Op)
	return ok && o.Equal(op)
}

var selfAdjoint = map[OpType]bool{
	Noop: true, Barrier: true,
	X: true, Y: true, Z: true, H: true,
	CX: true, CY: true, CZ: true, CH: true,
	SWAP: true, CSWAP: true, CCX: true, BRIDGE: true, ECR: true, CnX: true,
}

var adjointPairs = map[OpType]OpType{
	S: Sdg, Sdg: S,
	T: Tdg, Tdg: T,
	V: Vdg, Vdg: V,
	SX: SXdg, SXdg: SX,
	CV: CVdg, CVdg: CV,
	CSX: CSXdg, CSXdg: CSX,
}

var negateParams = map[OpType]bool{
	Rx: true, Ry: true, Rz: true, U1: true,
	CRx: true, CRy: true, CRz: true, CU1: true,
	XXPhase: true, YYPhase: true, ZZPhase: true, XXPhase3: true,
	ISWAP: true, ESWAP: true, FSim: true,
	PhaseGadget: true, CnRy: true,
}

// Dagger returns the adjoint op. Non-unitary ops and gates with no
// catalog adjoint yield ErrNotImplemented.
func (o Op) Dagger() (Op, error) {
	if selfAdjoint[o.Type] {
		return o, nil
	}
	if t, ok := adjointPairs[o.Type]; ok {
		return Op{Type: t}, nil
	}
	if negateParams[o.Type] {
		ps := make([]expr.Expression, len(o.Params))
		for i, p := range o.Params {
			ps[i] = p.Neg()
		}
		return Op{Type: o.Type, Params: ps}, nil
	}
	switch o.Type {
	case U3:
		return Gate(U3, o.Params[0].Neg(), o.Params[2].Neg(), o.Params[1].Neg()), nil
	case U2:
		return Gate(U3, expr.FromRat(-1, 2), o.Params[1].Neg(), o.Params[0].Neg()), nil
	case TK1:
		return Gate(TK1, o.Params[2].Neg(), o.Params[1].Neg(), o.Params[0].Neg()), nil
	case CU3:
		return Gate(CU3, o.Params[0].Neg(), o.Params[2].Neg(), o.Params[1].Neg()), nil
	case PhasedX:
		return Gate(PhasedX, o.Params[0].Neg(), o.Params[1]), nil
	case ISWAPMax:
		return Gate(ISWAP, expr.FromInt(-1)), nil
	case ZZMax:
		return Gate(ZZPhase, expr.FromRat(-1, 2)), nil
	case Sycamore:
		return Gate(FSim, expr.FromRat(-1, 2), expr.FromRat(-1, 6)), nil
	case PhasedISWAP:
		return Gate(PhasedISWAP, o.Params[0], o.Params[1].Neg()), nil
	}
	return Op{}, qerror.Wrap(qerror.ErrNotImplemented, "no dagger for %s", o.Name())
}
