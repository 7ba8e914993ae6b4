package transform

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/expr"
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
	"github.com/quivercomp/quiver/unitid"
)

// mixedSample exercises every single-qubit replacement and a spread of
// multi-qubit gates.
func mixedSample(t *testing.T) *circuit.Circuit {
	t.Helper()
	third := expr.FromRat(1, 3)
	fifth := expr.FromRat(1, 5)
	seventh := expr.FromRat(1, 7)
	c := circuit.NewQubits(3)
	for _, g := range []struct {
		op optype.Op
		qs []int
	}{
		{optype.Gate(optype.H), []int{0}},
		{optype.Gate(optype.X), []int{1}},
		{optype.Gate(optype.Y), []int{2}},
		{optype.Gate(optype.Z), []int{0}},
		{optype.Gate(optype.S), []int{1}},
		{optype.Gate(optype.Sdg), []int{2}},
		{optype.Gate(optype.T), []int{0}},
		{optype.Gate(optype.Tdg), []int{1}},
		{optype.Gate(optype.V), []int{2}},
		{optype.Gate(optype.Vdg), []int{0}},
		{optype.Gate(optype.SX), []int{1}},
		{optype.Gate(optype.SXdg), []int{2}},
		{optype.Gate(optype.Ry, third), []int{0}},
		{optype.Gate(optype.U1, fifth), []int{1}},
		{optype.Gate(optype.U2, third, fifth), []int{2}},
		{optype.Gate(optype.U3, third, fifth, seventh), []int{0}},
		{optype.Gate(optype.TK1, third, fifth, seventh), []int{1}},
		{optype.Gate(optype.PhasedX, third, fifth), []int{2}},
		{optype.Gate(optype.CX), []int{0, 1}},
		{optype.Gate(optype.CZ), []int{1, 2}},
		{optype.Gate(optype.CH), []int{0, 2}},
		{optype.Gate(optype.ISWAP, third), []int{0, 1}},
		{optype.Gate(optype.CCX), []int{0, 1, 2}},
		{optype.Gate(optype.CU3, third, fifth, seventh), []int{1, 0}},
	} {
		_, err := c.AddGate(g.op, g.qs...)
		require.NoError(t, err, "add %s", g.op.Name())
	}
	return c
}

func TestDecomposeZX(t *testing.T) {
	ref := mixedSample(t)
	c := ref.Clone()

	changed, err := DecomposeZX().Apply(c)
	require.NoError(t, err, "apply")
	require.True(t, changed, "rewrote")
	for _, cmd := range mustCommands(t, c) {
		switch cmd.Op.Type {
		case optype.Rx, optype.Rz, optype.CX:
		default:
			t.Fatalf("gate %s outside the target set", cmd.Op.Name())
		}
	}
	requireSameUnitary(t, ref, c, "rebased circuit")

	changed, err = DecomposeZX().Apply(c)
	require.NoError(t, err, "second apply")
	require.False(t, changed, "already rebased")
}

func TestDecomposeZXDetached(t *testing.T) {
	c := circuit.NewQubits(1)
	c.AddVertex(optype.Gate(optype.H))
	_, err := DecomposeZX().Apply(c)
	require.True(t, errors.Is(err, qerror.ErrInvalidVertex), "vertex with no wires")
}

func TestDecomposeZXUnsupported(t *testing.T) {
	c := circuit.NewQubitsBits(1, 1)
	_, err := c.AddOp(optype.Gate(optype.Measure), unitid.Qubit(0), unitid.Bit(0))
	require.NoError(t, err, "measure")
	changed, err := DecomposeZX().Apply(c)
	require.NoError(t, err, "measurements pass through")
	require.False(t, changed, "nothing to rewrite")
}

func TestSynthesiseIBM(t *testing.T) {
	ref := mixedSample(t)
	c := ref.Clone()

	changed, err := SynthesiseIBM().Apply(c)
	require.NoError(t, err, "apply")
	require.True(t, changed, "rewrote")
	for _, cmd := range mustCommands(t, c) {
		switch cmd.Op.Type {
		case optype.CX, optype.U1, optype.U2, optype.U3:
		default:
			t.Fatalf("gate %s outside the target set", cmd.Op.Name())
		}
	}
	requireSameUnitary(t, ref, c, "synthesised circuit")
}

func TestSequenceAndRepeat(t *testing.T) {
	c := circuit.NewQubits(3)
	_, err := c.AddGate(optype.Gate(optype.CCX), 0, 1, 2)
	require.NoError(t, err, "CCX")

	seq := Sequence(DecompCCX(), DecomposeZX())
	changed, err := seq.Apply(c)
	require.NoError(t, err, "sequence")
	require.True(t, changed, "both passes ran")
	for _, cmd := range mustCommands(t, c) {
		switch cmd.Op.Type {
		case optype.Rx, optype.Rz, optype.CX:
		default:
			t.Fatalf("gate %s outside the target set", cmd.Op.Name())
		}
	}

	stable := RepeatUntilStable(DecompCCX())
	c2 := circuit.NewQubits(3)
	_, err = c2.AddGate(optype.Gate(optype.CCX), 0, 1, 2)
	require.NoError(t, err, "CCX")
	changed, err = stable.Apply(c2)
	require.NoError(t, err, "repeat")
	require.True(t, changed, "first pass rewrote")
	require.Equal(t, 15, c2.NGates(), "settled on the template")
}
