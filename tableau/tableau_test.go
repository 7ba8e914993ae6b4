package tableau

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
	"github.com/quivercomp/quiver/unitid"
)

func tensor(phase uint8, ps ...Pauli) PauliTensor {
	terms := make([]PauliTerm, len(ps))
	for i, p := range ps {
		terms[i] = PauliTerm{Unit: unitid.Qubit(i), P: p}
	}
	return NewPauliTensor(terms, phase)
}

func TestPauliMul(t *testing.T) {
	testcases := []struct {
		a, b, want PauliTensor
	}{
		{tensor(0, X), tensor(0, Z), tensor(3, Y)},
		{tensor(0, Z), tensor(0, X), tensor(1, Y)},
		{tensor(0, Y), tensor(0, Y), tensor(0, I)},
		{tensor(2, X), tensor(0, X), tensor(2, I)},
		{tensor(0, X, Z), tensor(0, Z, X), tensor(0, Y, Y)},
	}
	for _, tc := range testcases {
		require.True(t, tc.want.Equal(tc.a.Mul(tc.b)), "%s * %s", tc.a, tc.b)
	}

	neg, err := tensor(2, X).RealSign()
	require.NoError(t, err, "real sign")
	require.True(t, neg, "i^2 is -1")
	_, err = tensor(1, X).RealSign()
	require.Error(t, err, "imaginary coefficient")
}

func TestSingleQubitImages(t *testing.T) {
	q0 := unitid.Qubit(0)
	testcases := []struct {
		gate   optype.OpType
		xImage PauliTensor
		zImage PauliTensor
	}{
		{optype.H, tensor(0, Z), tensor(0, X)},
		{optype.S, tensor(0, Y), tensor(0, Z)},
		{optype.Sdg, tensor(2, Y), tensor(0, Z)},
		{optype.V, tensor(0, X), tensor(2, Y)},
		{optype.X, tensor(0, X), tensor(2, Z)},
		{optype.Y, tensor(2, X), tensor(2, Z)},
		{optype.Z, tensor(2, X), tensor(0, Z)},
	}
	for _, tc := range testcases {
		u := NewUnitary(1)
		require.NoError(t, u.ApplyGateAtEnd(tc.gate, q0), "apply %s", tc.gate)
		xr, err := u.XRow(q0)
		require.NoError(t, err, "x row")
		require.True(t, tc.xImage.Equal(xr), "%s: image of X is %s", tc.gate, xr)
		zr, err := u.ZRow(q0)
		require.NoError(t, err, "z row")
		require.True(t, tc.zImage.Equal(zr), "%s: image of Z is %s", tc.gate, zr)
		require.True(t, u.Tableau().IsSymplectic(), "%s preserves the form", tc.gate)
	}
}

func TestCXImages(t *testing.T) {
	u := NewUnitary(2)
	require.NoError(t, u.ApplyGateAtEnd(optype.CX, unitid.Qubit(0), unitid.Qubit(1)), "CX")

	xr, err := u.XRow(unitid.Qubit(0))
	require.NoError(t, err, "x row")
	require.True(t, tensor(0, X, X).Equal(xr), "X on the control spreads")
	zr, err := u.ZRow(unitid.Qubit(1))
	require.NoError(t, err, "z row")
	require.True(t, tensor(0, Z, Z).Equal(zr), "Z on the target spreads")
	xr, err = u.XRow(unitid.Qubit(1))
	require.NoError(t, err, "x row")
	require.True(t, tensor(0, I, X).Equal(xr), "X on the target is fixed")
}

func TestNonClifford(t *testing.T) {
	u := NewUnitary(1)
	err := u.ApplyGateAtEnd(optype.T, unitid.Qubit(0))
	require.True(t, errors.Is(err, qerror.ErrNotCliffordGate), "T at end")
	err = u.ApplyGateAtFront(optype.CCX, unitid.Qubit(0))
	require.True(t, errors.Is(err, qerror.ErrNotCliffordGate), "CCX at front")

	_, err = u.XRow(unitid.Qubit(9))
	require.True(t, errors.Is(err, qerror.ErrMissingUnit), "unknown qubit")
}

func cliffordSample(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.NewQubits(3)
	gates := []struct {
		gate optype.OpType
		qs   []int
	}{
		{optype.H, []int{0}},
		{optype.CX, []int{0, 1}},
		{optype.S, []int{1}},
		{optype.V, []int{2}},
		{optype.CY, []int{1, 2}},
		{optype.CZ, []int{0, 2}},
		{optype.Sdg, []int{0}},
		{optype.SWAP, []int{0, 2}},
		{optype.Y, []int{1}},
		{optype.BRIDGE, []int{0, 1, 2}},
		{optype.Vdg, []int{1}},
		{optype.Z, []int{2}},
		{optype.X, []int{0}},
	}
	for _, g := range gates {
		_, err := c.AddGate(optype.Gate(g.gate), g.qs...)
		require.NoError(t, err, "add %s", g.gate)
	}
	return c
}

func TestFrontEndAgree(t *testing.T) {
	c := cliffordSample(t)
	want, err := FromCircuit(c)
	require.NoError(t, err, "tableau at end")
	require.True(t, want.Tableau().IsSymplectic(), "end build preserves the form")

	cmds, err := c.Commands()
	require.NoError(t, err, "commands")
	front, err := NewUnitaryUnits(c.Qubits())
	require.NoError(t, err, "identity")
	for i := len(cmds) - 1; i >= 0; i-- {
		require.NoError(t, front.ApplyGateAtFront(cmds[i].Op.Type, cmds[i].Args...),
			"front apply %s", cmds[i].Op.Name())
	}
	require.True(t, want.Equal(front), "front and end builds agree")
}

func TestFrontOnIdentityMatchesEnd(t *testing.T) {
	// On the identity the two application orders coincide, so each
	// front recipe can be checked gate by gate.
	singles := []optype.OpType{
		optype.S, optype.Sdg, optype.V, optype.Vdg,
		optype.X, optype.Y, optype.Z, optype.H,
	}
	for _, g := range singles {
		end := NewUnitary(1)
		require.NoError(t, end.ApplyGateAtEnd(g, unitid.Qubit(0)), "end %s", g)
		front := NewUnitary(1)
		require.NoError(t, front.ApplyGateAtFront(g, unitid.Qubit(0)), "front %s", g)
		require.True(t, end.Equal(front), "%s front matches end on identity", g)
	}

	front := NewUnitary(1)
	require.NoError(t, front.ApplyGateAtFront(optype.S, unitid.Qubit(0)), "front S")
	xr, err := front.XRow(unitid.Qubit(0))
	require.NoError(t, err, "x row")
	require.True(t, tensor(0, Y).Equal(xr), "S front: image of X is %s", xr)
	zr, err := front.ZRow(unitid.Qubit(0))
	require.NoError(t, err, "z row")
	require.True(t, tensor(0, Z).Equal(zr), "S front: image of Z is %s", zr)

	doubles := []optype.OpType{optype.CX, optype.CY, optype.CZ, optype.SWAP}
	for _, g := range doubles {
		end := NewUnitary(2)
		require.NoError(t, end.ApplyGateAtEnd(g, unitid.Qubit(0), unitid.Qubit(1)), "end %s", g)
		front := NewUnitary(2)
		require.NoError(t, front.ApplyGateAtFront(g, unitid.Qubit(0), unitid.Qubit(1)), "front %s", g)
		require.True(t, end.Equal(front), "%s front matches end on identity", g)
	}
}

func TestCZEqualsConjugatedCX(t *testing.T) {
	direct := circuit.NewQubits(2)
	_, err := direct.AddGate(optype.Gate(optype.CZ), 0, 1)
	require.NoError(t, err, "CZ")

	conj := circuit.NewQubits(2)
	for _, g := range []struct {
		gate optype.OpType
		qs   []int
	}{{optype.H, []int{1}}, {optype.CX, []int{0, 1}}, {optype.H, []int{1}}} {
		_, err := conj.AddGate(optype.Gate(g.gate), g.qs...)
		require.NoError(t, err, "add %s", g.gate)
	}

	a, err := FromCircuit(direct)
	require.NoError(t, err, "direct")
	b, err := FromCircuit(conj)
	require.NoError(t, err, "conjugated")
	require.True(t, a.Equal(b), "CZ = (I x H) CX (I x H)")
}

func TestCompose(t *testing.T) {
	c1 := circuit.NewQubits(2)
	c2 := circuit.NewQubits(2)
	for _, g := range []struct {
		c    *circuit.Circuit
		gate optype.OpType
		qs   []int
	}{
		{c1, optype.H, []int{0}},
		{c1, optype.CX, []int{0, 1}},
		{c1, optype.S, []int{1}},
		{c2, optype.V, []int{0}},
		{c2, optype.CZ, []int{0, 1}},
		{c2, optype.X, []int{1}},
	} {
		_, err := g.c.AddGate(optype.Gate(g.gate), g.qs...)
		require.NoError(t, err, "add %s", g.gate)
	}

	t1, err := FromCircuit(c1)
	require.NoError(t, err, "first")
	t2, err := FromCircuit(c2)
	require.NoError(t, err, "second")
	got, err := Compose(t1, t2)
	require.NoError(t, err, "compose")

	both := c1.Clone()
	require.NoError(t, both.Append(c2), "concatenate")
	want, err := FromCircuit(both)
	require.NoError(t, err, "concatenated tableau")
	require.True(t, want.Equal(got), "composition matches concatenation")
}

func TestRowProduct(t *testing.T) {
	c := cliffordSample(t)
	u, err := FromCircuit(c)
	require.NoError(t, err, "tableau")

	// U (P1 P2) U^dag = (U P1 U^dag)(U P2 U^dag).
	a := tensor(0, X, I, Z)
	b := tensor(0, Z, Y, I)
	pa, err := u.RowProduct(a)
	require.NoError(t, err, "image of a")
	pb, err := u.RowProduct(b)
	require.NoError(t, err, "image of b")
	pab, err := u.RowProduct(a.Mul(b))
	require.NoError(t, err, "image of ab")
	require.True(t, pab.Equal(pa.Mul(pb)), "images multiply")
}

func TestFromBlocks(t *testing.T) {
	units := []unitid.UnitID{unitid.Qubit(0), unitid.Qubit(1)}
	id := [][]bool{{true, false}, {false, true}}
	zero := [][]bool{{false, false}, {false, false}}
	ph := []bool{false, false}

	u, err := FromBlocks(units, id, zero, zero, id, ph, ph)
	require.NoError(t, err, "identity blocks")
	require.True(t, u.Equal(NewUnitary(2)), "identity tableau")

	_, err = FromBlocks(units, zero, zero, zero, id, ph, ph)
	require.True(t, errors.Is(err, qerror.ErrNotValid), "degenerate X block")

	_, err = FromBlocks(units, id, zero, zero, id, ph, []bool{false})
	require.True(t, errors.Is(err, qerror.ErrNotValid), "shape mismatch")
}

func TestFromStabilisers(t *testing.T) {
	u, err := FromCircuit(cliffordSample(t))
	require.NoError(t, err, "tableau")
	tab := u.Tableau()

	rows := make([]PauliStabiliser, tab.NRows())
	for i := range rows {
		rows[i] = tab.GetPauli(i)
	}
	rebuilt, err := FromStabilisers(rows)
	require.NoError(t, err, "rebuild from rows")
	require.True(t, tab.Equal(rebuilt), "row round trip")
	require.True(t, rebuilt.IsSymplectic(), "rebuilt rows keep the form")

	_, err = FromStabilisers(nil)
	require.True(t, errors.Is(err, qerror.ErrNotValid), "no rows")
	_, err = FromStabilisers([]PauliStabiliser{
		{Paulis: []Pauli{X, Z}},
		{Paulis: []Pauli{Y}},
	})
	require.True(t, errors.Is(err, qerror.ErrNotValid), "ragged rows")
}

func TestRowMultImaginary(t *testing.T) {
	u := NewUnitary(1)
	err := u.Tableau().RowMult(0, 1, CoeffOne)
	require.True(t, errors.Is(err, qerror.ErrNotValid), "X * Z alone is imaginary")
	err = u.Tableau().RowMult(0, 1, CoeffImag)
	require.NoError(t, err, "i X Z = Y is real")
	require.Equal(t, PauliStabiliser{Paulis: []Pauli{Y}}, u.Tableau().GetPauli(0), "row becomes Y")
}

func TestPauliGadget(t *testing.T) {
	// A quarter turn about ZZ conjugates like CX (S x I after control)
	// ... CX.
	direct := NewUnitary(2).Tableau()
	require.NoError(t, direct.ApplyPauliGadget(PauliStabiliser{Paulis: []Pauli{Z, Z}}, 1), "gadget")

	conj := NewUnitary(2).Tableau()
	conj.ApplyCX(0, 1)
	conj.ApplyS(1)
	conj.ApplyCX(0, 1)
	require.True(t, direct.Equal(conj), "ZZ quarter turn")

	// Half turns reduce to the Pauli string itself.
	half := NewUnitary(2).Tableau()
	require.NoError(t, half.ApplyPauliGadget(PauliStabiliser{Paulis: []Pauli{X, I}}, 2), "half turn")
	want := NewUnitary(2).Tableau()
	require.NoError(t, want.ApplyGate(optype.X, 0), "X")
	require.True(t, half.Equal(want), "half turn is the Pauli")

	err := direct.ApplyPauliGadget(PauliStabiliser{Paulis: []Pauli{Z}}, 1)
	require.True(t, errors.Is(err, qerror.ErrNotValid), "length mismatch")
}
