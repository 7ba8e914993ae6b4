package optype

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/quivercomp/quiver/expr"
	"github.com/quivercomp/quiver/qerror"
)

func TestFromName(t *testing.T) {
	testcases := []struct {
		name string
		want OpType
	}{
		{"X", X},
		{"CX", CX},
		{"tk1", TK1},
		{"Sdg", Sdg},
		{"PhasedISWAP", PhasedISWAP},
	}
	for _, tc := range testcases {
		got, ok := FromName(tc.name)
		require.True(t, ok, "known name %q", tc.name)
		require.Equal(t, tc.want, got, "lookup %q", tc.name)
		require.Equal(t, tc.name, got.String(), "String round trip %q", tc.name)
	}
	_, ok := FromName("NotAGate")
	require.False(t, ok, "unknown name")
}

func TestSignatures(t *testing.T) {
	require.Equal(t, 1, X.NumQubits(), "X arity")
	require.Equal(t, 2, CX.NumQubits(), "CX arity")
	require.Equal(t, 3, CCX.NumQubits(), "CCX arity")
	require.Equal(t, -1, CnX.NumQubits(), "variable arity")
	require.Equal(t, -1, PhaseGadget.NumQubits(), "variable arity")
	require.Equal(t, 0, Rz.NumBits(), "no classical wires")
	require.Equal(t, 1, Measure.NumBits(), "measure writes a bit")
	require.Equal(t, 3, U3.NumParams(), "U3 parameter count")
	require.Equal(t, 2, FSim.NumParams(), "FSim parameter count")
}

func TestIsClifford(t *testing.T) {
	for _, ot := range []OpType{Noop, X, Y, Z, H, S, Sdg, V, Vdg, CX, CY, CZ, SWAP, BRIDGE} {
		require.True(t, ot.IsClifford(), "%s is Clifford", ot)
	}
	for _, ot := range []OpType{T, Tdg, Rx, Rz, CCX, ISWAPMax, Measure} {
		require.False(t, ot.IsClifford(), "%s is not Clifford", ot)
	}
}

func TestGateAndName(t *testing.T) {
	op := Gate(Rz, expr.FromRat(1, 2))
	require.Equal(t, "Rz(1/2)", op.Name(), "parameterised name")
	require.Equal(t, "CX", Gate(CX).Name(), "bare name")

	cond := Cond(Gate(X), 2, 3)
	require.Equal(t, "IF X", cond.Name(), "conditional name")

	require.Panics(t, func() { Gate(Rz) }, "missing parameter")
	require.Panics(t, func() { Gate(X, expr.Zero()) }, "extra parameter")
}

func TestEqualAndHash(t *testing.T) {
	a := Gate(Rz, expr.FromRat(1, 2))
	b := Gate(Rz, expr.FromRat(2, 4))
	require.True(t, a.Equal(b), "normalised rationals compare equal")
	require.Equal(t, a.HashCode(), b.HashCode(), "equal ops hash alike")
	require.False(t, a.Equal(Gate(Rx, expr.FromRat(1, 2))), "type matters")

	c1 := Cond(Gate(X), 2, 3)
	c2 := Cond(Gate(X), 2, 1)
	require.False(t, c1.Equal(c2), "condition value matters")
}

func TestDagger(t *testing.T) {
	testcases := []struct {
		op   Op
		want Op
	}{
		{Gate(CX), Gate(CX)},
		{Gate(S), Gate(Sdg)},
		{Gate(Tdg), Gate(T)},
		{Gate(Rz, expr.FromRat(1, 4)), Gate(Rz, expr.FromRat(-1, 4))},
		{Gate(U2, expr.FromRat(1, 2), expr.FromRat(1, 4)),
			Gate(U3, expr.FromRat(-1, 2), expr.FromRat(-1, 4), expr.FromRat(-1, 2))},
		{Gate(TK1, expr.FromInt(1), expr.FromInt(2), expr.FromInt(3)),
			Gate(TK1, expr.FromInt(-3), expr.FromInt(-2), expr.FromInt(-1))},
		{Gate(PhasedX, expr.FromRat(1, 2), expr.FromRat(1, 4)),
			Gate(PhasedX, expr.FromRat(-1, 2), expr.FromRat(1, 4))},
		{Gate(ZZMax), Gate(ZZPhase, expr.FromRat(-1, 2))},
	}
	for _, tc := range testcases {
		got, err := tc.op.Dagger()
		require.NoError(t, err, "dagger of %s", tc.op.Name())
		require.True(t, tc.want.Equal(got), "dagger of %s", tc.op.Name())
	}

	_, err := Gate(Measure).Dagger()
	require.True(t, errors.Is(err, qerror.ErrNotImplemented), "measure has no adjoint")
}
