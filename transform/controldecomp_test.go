package transform

import (
	"math/cmplx"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/expr"
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
	"github.com/quivercomp/quiver/sim"
)

// requireBasisState checks that the statevector is concentrated on one
// basis index, up to global phase.
func requireBasisState(t *testing.T, c *circuit.Circuit, index int) {
	t.Helper()
	sv, err := sim.GetStatevector(c)
	require.NoError(t, err, "statevector")
	for i := range sv {
		want := 0.0
		if i == index {
			want = 1.0
		}
		require.InDelta(t, want, cmplx.Abs(sv[i]), 1e-9, "amplitude at %d", i)
	}
}

func TestDecompCCXCancels(t *testing.T) {
	c := circuit.NewQubits(3)
	addAll(t, c, optype.Gate(optype.CCX), 0, 1, 2)
	addAll(t, c, optype.Gate(optype.CCX), 0, 1, 2)

	changed, err := DecompCCX().Apply(c)
	require.NoError(t, err, "apply")
	require.True(t, changed, "rewrote both vertices")
	requireBasisState(t, c, 0)
}

func TestDecompCCXSingle(t *testing.T) {
	c := circuit.NewQubits(3)
	addAll(t, c, optype.Gate(optype.CCX), 0, 1, 2)

	changed, err := DecompCCX().Apply(c)
	require.NoError(t, err, "apply")
	require.True(t, changed, "rewrote the vertex")
	require.Equal(t, 15, c.NGates(), "gate count")
	require.Equal(t, 21, c.NVertices(), "vertex count")
	require.Equal(t, 3, c.NQubits(), "qubit count")

	requireSameUnitary(t, gateCircuit(t, 3, optype.Gate(optype.CCX), 0, 1, 2), c, "decomposed CCX")

	changed, err = DecompCCX().Apply(c)
	require.NoError(t, err, "second apply")
	require.False(t, changed, "nothing left to rewrite")
}

func TestDecompControlledRysDetached(t *testing.T) {
	c := circuit.NewQubits(1)
	c.AddVertex(optype.Op{Type: optype.CnRy, Params: []expr.Expression{expr.FromRat(1, 2)}})

	_, err := DecompControlledRys().Apply(c)
	require.True(t, errors.Is(err, qerror.ErrInvalidVertex), "vertex with no wires")
}

func TestDecompControlledRysSingleWire(t *testing.T) {
	p := expr.FromRat(1, 2)
	c := circuit.NewQubits(1)
	addAll(t, c, optype.Op{Type: optype.CnRy, Params: []expr.Expression{p}}, 0)

	changed, err := DecompControlledRys().Apply(c)
	require.NoError(t, err, "apply")
	require.False(t, changed, "already a plain rotation")
	require.Equal(t, 3, c.NVertices(), "vertex count")
	require.Equal(t, 1, c.NGates(), "gate count")

	cmds, err := c.Commands()
	require.NoError(t, err, "commands")
	require.Equal(t, optype.Ry, cmds[0].Op.Type, "collapsed to Ry")
	require.True(t, cmds[0].Op.Params[0].EquivalentMod(p, 4), "angle preserved mod 4")
}

func TestDecompControlledRysReplacementWidth(t *testing.T) {
	// The replacement is sized by the gate's argument list; a wired
	// vertex sees two live edges per argument, which must not widen it.
	p := expr.FromRat(1, 3)
	c := circuit.NewQubits(2)
	addAll(t, c, optype.Op{Type: optype.CRy, Params: []expr.Expression{p}}, 0, 1)
	changed, err := DecompControlledRys().Apply(c)
	require.NoError(t, err, "apply CRy")
	require.True(t, changed, "rewrote")
	require.NoError(t, c.CheckValid(), "still valid")
	require.Equal(t, 2, c.NQubits(), "no extra wires")
	require.Equal(t, 0, c.CountGates(optype.CRy), "no CRy left")
}

func TestDecompControlledRysCounts(t *testing.T) {
	p := expr.FromRat(1, 2)

	c := circuit.NewQubits(2)
	addAll(t, c, optype.Op{Type: optype.CnRy, Params: []expr.Expression{p}}, 0, 1)
	changed, err := DecompControlledRys().Apply(c)
	require.NoError(t, err, "apply k=2")
	require.True(t, changed, "rewrote")
	require.Equal(t, 8, c.NVertices(), "vertex count")
	require.Equal(t, 4, c.NGates(), "gate count")
	require.Equal(t, 2, c.CountGates(optype.CX), "CX count")
	require.Equal(t, 2, c.CountGates(optype.Ry), "Ry count")
	cmds, err := c.Commands()
	require.NoError(t, err, "commands")
	half := p.DivInt(2)
	require.True(t, cmds[0].Op.Params[0].EquivalentMod(half, 4), "first angle is p/2")
	require.True(t, cmds[2].Op.Params[0].EquivalentMod(half.Neg(), 4), "second angle is -p/2")

	c = circuit.NewQubits(3)
	addAll(t, c, optype.Op{Type: optype.CnRy, Params: []expr.Expression{p}}, 0, 1, 2)
	_, err = DecompControlledRys().Apply(c)
	require.NoError(t, err, "apply k=3")
	require.Equal(t, 14, c.NGates(), "gate count")
	require.Equal(t, 8, c.CountGates(optype.CX), "CX count")
	require.Equal(t, 6, c.CountGates(optype.Ry), "Ry count")
}

func TestDecompControlledRysUnitary(t *testing.T) {
	p := expr.FromRat(39, 20)
	for n := 4; n <= 9; n++ {
		qs := identityPerm(n)
		ref := circuit.NewQubits(n)
		addAll(t, ref, optype.Op{Type: optype.CnRy, Params: []expr.Expression{p}}, qs...)

		c := ref.Clone()
		changed, err := DecompControlledRys().Apply(c)
		require.NoError(t, err, "apply n=%d", n)
		require.True(t, changed, "rewrote n=%d", n)
		require.Equal(t, 0, c.CountGates(optype.CnRy), "no CnRy left at n=%d", n)
		requireSameUnitary(t, ref, c, "controlled rotation")
	}
}

func TestIncrementerBorrowNSmall(t *testing.T) {
	c := IncrementerBorrowNQubits(0)
	require.Equal(t, 0, c.NGates(), "empty incrementer")

	c = IncrementerBorrowNQubits(1)
	require.Equal(t, 1, c.NGates(), "single bit")
	require.Equal(t, 1, c.CountGates(optype.X), "one X")
}

// incrementerN4 is the exact gate sequence of the four-bit
// borrowed-scratch incrementer.
const incrementerN4 = "CX q[0], q[1];X q[2];X q[4];X q[6];CX q[0], q[3];CX q[0], q[5];CX q[0], q[7];CX q[0], q[1];X q[7];CX q[2], q[0];CCX q[0], q[1], q[2];CX q[2], q[3];CX q[4], q[2];CCX q[2], q[3], q[4];CX q[4], q[5];CX q[6], q[4];CCX q[4], q[5], q[6];CX q[6], q[7];CCX q[4], q[5], q[6];CCX q[2], q[3], q[4];X q[6];CCX q[0], q[1], q[2];X q[4];CX q[0], q[1];X q[2];X q[0];CCX q[0], q[1], q[2];CX q[2], q[3];X q[2];CCX q[2], q[3], q[4];CX q[4], q[5];X q[4];CCX q[4], q[5], q[6];CX q[6], q[7];CCX q[4], q[5], q[6];CX q[6], q[4];CCX q[2], q[3], q[4];CX q[6], q[5];CX q[4], q[2];CCX q[0], q[1], q[2];CX q[4], q[3];CX q[2], q[0];CX q[2], q[1];CX q[0], q[1];CX q[0], q[3];CX q[0], q[5];CX q[0], q[7];"

func TestIncrementerBorrowN4(t *testing.T) {
	inc := IncrementerBorrowNQubits(4)
	require.Equal(t, incrementerN4, inc.String(), "gate sequence")

	// From zero the register on the odd qubits becomes 1.
	c := inc.Clone()
	changed, err := DecompCCX().Apply(c)
	require.NoError(t, err, "decompose")
	require.True(t, changed, "had CCX gates")
	requireBasisState(t, c, 64)

	// From fifteen it wraps to zero, restoring the scratch qubits.
	c = circuit.NewQubits(8)
	for q := 1; q < 8; q += 2 {
		addAll(t, c, optype.Gate(optype.X), q)
	}
	require.NoError(t, c.AppendQubits(inc, identityPerm(8)), "append")
	requireBasisState(t, c, 0)
}

func TestIncrementerBorrowN5IBM(t *testing.T) {
	inc := IncrementerBorrowNQubits(5)
	changed, err := SynthesiseIBM().Apply(inc)
	require.NoError(t, err, "synthesise")
	require.True(t, changed, "rewrote")
	for _, cmd := range mustCommands(t, inc) {
		switch cmd.Op.Type {
		case optype.CX, optype.U1, optype.U2, optype.U3:
		default:
			t.Fatalf("gate %s outside the target set", cmd.Op.Name())
		}
	}
	requireBasisState(t, inc, 256)

	c := circuit.NewQubits(10)
	for q := 1; q < 10; q += 2 {
		addAll(t, c, optype.Gate(optype.X), q)
	}
	require.NoError(t, c.AppendQubits(inc, identityPerm(10)), "append")
	requireBasisState(t, c, 0)
}

func mustCommands(t *testing.T, c *circuit.Circuit) []circuit.Command {
	t.Helper()
	cmds, err := c.Commands()
	require.NoError(t, err, "commands")
	return cmds
}

func TestIncrementerBorrow1(t *testing.T) {
	for n := 4; n <= 6; n++ {
		inc := IncrementerBorrow1Qubit(n)
		require.Equal(t, n+1, inc.NQubits(), "width at n=%d", n)
		require.Equal(t, 2*(n+1), inc.NVertices()-inc.NGates(), "boundaries at n=%d", n)
	}

	// All-ones register wraps to zero; the borrowed qubit keeps its
	// state.
	inc := IncrementerBorrow1Qubit(4)
	c := circuit.NewQubits(5)
	for q := 0; q < 4; q++ {
		addAll(t, c, optype.Gate(optype.X), q)
	}
	require.NoError(t, c.AppendQubits(inc, identityPerm(5)), "append")
	changed, err := DecompCCX().Apply(c)
	require.NoError(t, err, "decompose")
	require.True(t, changed, "had CCX gates")
	requireBasisState(t, c, 0)

	c = circuit.NewQubits(5)
	for q := 0; q < 5; q++ {
		addAll(t, c, optype.Gate(optype.X), q)
	}
	require.NoError(t, c.AppendQubits(inc, identityPerm(5)), "append")
	requireBasisState(t, c, 1)

	// From zero the register becomes one: bit 0 is qubit 0.
	c = circuit.NewQubits(5)
	require.NoError(t, c.AppendQubits(inc, identityPerm(5)), "append")
	requireBasisState(t, c, 16)
}

func TestCnXNormalDecomp(t *testing.T) {
	require.Equal(t, "X q[0];", CnXNormalDecomp(0).String(), "no controls")
	require.Equal(t, "CX q[0], q[1];", CnXNormalDecomp(1).String(), "one control")
	require.Equal(t, 15, CnXNormalDecomp(2).NGates(), "two controls")

	for n := 3; n <= 5; n++ {
		ref := circuit.NewQubits(n + 1)
		addAll(t, ref, optype.Op{Type: optype.CnX}, identityPerm(n+1)...)
		requireSameUnitary(t, ref, CnXNormalDecomp(n), "controls")
	}

	// Wider instances are checked on basis states: the target flips
	// exactly when every control is set.
	for n := 6; n <= 8; n++ {
		c := circuit.NewQubits(n + 1)
		for q := 0; q < n; q++ {
			addAll(t, c, optype.Gate(optype.X), q)
		}
		require.NoError(t, c.AppendQubits(CnXNormalDecomp(n), identityPerm(n+1)), "append")
		requireBasisState(t, c, 1<<uint(n+1)-1)

		c = circuit.NewQubits(n + 1)
		for q := 1; q < n; q++ {
			addAll(t, c, optype.Gate(optype.X), q)
		}
		require.NoError(t, c.AppendQubits(CnXNormalDecomp(n), identityPerm(n+1)), "append")
		requireBasisState(t, c, 1<<uint(n)-2)
	}
}

func TestTransformsOnEmptyCircuit(t *testing.T) {
	for _, tr := range []Transform{DecompCCX(), DecompControlledRys(), DecomposeZX(), SynthesiseIBM()} {
		c := circuit.NewQubits(2)
		changed, err := tr.Apply(c)
		require.NoError(t, err, "%s on empty circuit", tr.Name())
		require.False(t, changed, "%s reports no work", tr.Name())
	}
}
