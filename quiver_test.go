package quiver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/expr"
	"github.com/quivercomp/quiver/logger"
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/sim"
	"github.com/quivercomp/quiver/transform"
)

func init() {
	logger.Disable()
}

func sample(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.NewQubits(3)
	for _, g := range []struct {
		op optype.Op
		qs []int
	}{
		{optype.Gate(optype.H), []int{0}},
		{optype.Gate(optype.CCX), []int{0, 1, 2}},
		{optype.Op{Type: optype.CnRy, Params: []expr.Expression{expr.FromRat(1, 3)}}, []int{0, 1, 2}},
		{optype.Gate(optype.T), []int{1}},
	} {
		_, err := c.AddGate(g.op, g.qs...)
		require.NoError(t, err, "add %s", g.op.Name())
	}
	return c
}

func TestCompileDefault(t *testing.T) {
	ref := sample(t)
	c := ref.Clone()
	require.NoError(t, Compile(c), "compile")
	require.Equal(t, 0, c.CountGates(optype.CCX), "no CCX left")
	require.Equal(t, 0, c.CountGates(optype.CnRy), "no CnRy left")

	ok, err := Verify(ref, c, sim.Simulator{})
	require.NoError(t, err, "verify")
	require.True(t, ok, "semantics preserved")
}

func TestCompileTargets(t *testing.T) {
	testcases := []struct {
		name    string
		opt     CompileOption
		allowed map[optype.OpType]bool
	}{
		{"zx", WithTargetZX(), map[optype.OpType]bool{
			optype.Rx: true, optype.Rz: true, optype.CX: true,
		}},
		{"ibm", WithTargetIBM(), map[optype.OpType]bool{
			optype.U1: true, optype.U2: true, optype.U3: true, optype.CX: true,
		}},
	}
	for _, tc := range testcases {
		ref := sample(t)
		c := ref.Clone()
		require.NoError(t, Compile(c, tc.opt), "compile %s", tc.name)
		cmds, err := c.Commands()
		require.NoError(t, err, "commands %s", tc.name)
		for _, cmd := range cmds {
			require.True(t, tc.allowed[cmd.Op.Type], "%s: gate %s outside the target set", tc.name, cmd.Op.Name())
		}

		ok, err := Verify(ref, c, sim.Simulator{})
		require.NoError(t, err, "verify %s", tc.name)
		require.True(t, ok, "%s semantics preserved", tc.name)
	}
}

func TestPipelineRun(t *testing.T) {
	c := sample(t)
	p := NewPipeline(
		transform.DecompControlledRys(),
		transform.DecompCCX(),
		transform.DecomposeZX(),
	)
	changed, err := p.Run(c)
	require.NoError(t, err, "run")
	require.True(t, changed, "passes rewrote the circuit")

	changed, err = p.Run(c)
	require.NoError(t, err, "second run")
	require.False(t, changed, "already in the target set")
}

func TestVerifyDetectsDifference(t *testing.T) {
	a := circuit.NewQubits(1)
	_, err := a.AddGate(optype.Gate(optype.X), 0)
	require.NoError(t, err, "X")
	b := circuit.NewQubits(1)
	_, err = b.AddGate(optype.Gate(optype.H), 0)
	require.NoError(t, err, "H")

	ok, err := Verify(a, b, sim.Simulator{})
	require.NoError(t, err, "verify")
	require.False(t, ok, "different unitaries")
}
