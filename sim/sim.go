// Package sim evaluates circuits numerically by dense amplitude updates.
// It serves as the verification oracle for the decomposition passes:
// statevectors and unitaries are compared up to global phase.
//
// Qubit 0 is the most significant bit of the basis-state index, so on n
// qubits the state |10...0> sits at index 2^(n-1).
package sim

import (
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
)

// ErrEps bounds the per-amplitude deviation tolerated by the comparison
// helpers.
const ErrEps = 1e-10

// Simulator is the stateless oracle implementation.
type Simulator struct{}

func (Simulator) GetStatevector(c *circuit.Circuit) ([]complex128, error) {
	return GetStatevector(c)
}

func (Simulator) GetUnitary(c *circuit.Circuit) ([]complex128, error) {
	return GetUnitary(c)
}

func (Simulator) Compare(a, b []complex128) bool {
	return CompareStatevectorsOrUnitaries(a, b)
}

type step struct {
	op optype.Op
	ts []int
}

func compileSteps(c *circuit.Circuit) ([]step, complex128, error) {
	cmds, err := c.Commands()
	if err != nil {
		return nil, 0, err
	}
	steps := make([]step, 0, len(cmds))
	for _, cmd := range cmds {
		switch cmd.Op.Type {
		case optype.Noop, optype.Barrier:
			continue
		case optype.Measure, optype.Collapse, optype.Reset, optype.Conditional:
			return nil, 0, qerror.Wrap(qerror.ErrNotImplemented, "non-unitary op %s", cmd.Op.Name())
		}
		ts := make([]int, len(cmd.Args))
		for i, a := range cmd.Args {
			q, ok := c.QubitIndex(a)
			if !ok {
				return nil, 0, qerror.Wrap(qerror.ErrMissingUnit, "unit %s", a)
			}
			ts[i] = q
		}
		steps = append(steps, step{op: cmd.Op, ts: ts})
	}
	ph, err := c.Phase().Eval(nil)
	if err != nil {
		return nil, 0, err
	}
	return steps, cmplx.Exp(complex(0, math.Pi*ph)), nil
}

func runSteps(state []complex128, n int, steps []step, phase complex128) error {
	for _, s := range steps {
		if err := applyOp(state, n, s.op, s.ts); err != nil {
			return err
		}
	}
	for i := range state {
		state[i] *= phase
	}
	return nil
}

// GetStatevector simulates c from the all-zero state, including the
// circuit's global phase. Symbolic parameters are an error.
func GetStatevector(c *circuit.Circuit) ([]complex128, error) {
	steps, phase, err := compileSteps(c)
	if err != nil {
		return nil, err
	}
	n := c.NQubits()
	state := make([]complex128, 1<<n)
	state[0] = 1
	if err := runSteps(state, n, steps, phase); err != nil {
		return nil, err
	}
	return state, nil
}

// GetUnitary returns the full unitary of c, row-major, including the global
// phase.
func GetUnitary(c *circuit.Circuit) ([]complex128, error) {
	steps, phase, err := compileSteps(c)
	if err != nil {
		return nil, err
	}
	n := c.NQubits()
	dim := 1 << n
	u := make([]complex128, dim*dim)
	col := make([]complex128, dim)
	for j := 0; j < dim; j++ {
		for i := range col {
			col[i] = 0
		}
		col[j] = 1
		if err := runSteps(col, n, steps, phase); err != nil {
			return nil, err
		}
		for i := 0; i < dim; i++ {
			u[i*dim+j] = col[i]
		}
	}
	return u, nil
}

func applyOp(state []complex128, n int, op optype.Op, ts []int) error {
	switch op.Type {
	case optype.BRIDGE:
		applyMatrix(state, n, controlled(matX, 2), []int{ts[0], ts[2]})
		return nil
	case optype.XXPhase3:
		ps, err := evalParams(op)
		if err != nil {
			return err
		}
		m := matXXPhase(ps[0])
		for _, pr := range [][2]int{{0, 1}, {1, 2}, {0, 2}} {
			applyMatrix(state, n, m, []int{ts[pr[0]], ts[pr[1]]})
		}
		return nil
	case optype.CnX:
		applyCnRot(state, n, ts, matX)
		return nil
	case optype.CnRy:
		ps, err := evalParams(op)
		if err != nil {
			return err
		}
		applyCnRot(state, n, ts, matRy(ps[0]))
		return nil
	case optype.PhaseGadget:
		ps, err := evalParams(op)
		if err != nil {
			return err
		}
		applyPhaseGadget(state, n, ts, ps[0])
		return nil
	}
	m, err := gateMatrix(op)
	if err != nil {
		return err
	}
	applyMatrix(state, n, m, ts)
	return nil
}

// applyMatrix applies a k-qubit matrix to the target qubits ts, first
// target most significant within the matrix index.
func applyMatrix(state []complex128, n int, m []complex128, ts []int) {
	k := len(ts)
	dim := 1 << k
	pos := make([]int, k)
	mask := 0
	for j, t := range ts {
		pos[j] = n - 1 - t
		mask |= 1 << pos[j]
	}
	spread := func(r int) int {
		out := 0
		for j := 0; j < k; j++ {
			if r&(1<<(k-1-j)) != 0 {
				out |= 1 << pos[j]
			}
		}
		return out
	}
	offs := make([]int, dim)
	for r := 0; r < dim; r++ {
		offs[r] = spread(r)
	}
	scratch := make([]complex128, dim)
	for base := 0; base < len(state); base++ {
		if base&mask != 0 {
			continue
		}
		for r := 0; r < dim; r++ {
			scratch[r] = state[base|offs[r]]
		}
		for r := 0; r < dim; r++ {
			var acc complex128
			for c := 0; c < dim; c++ {
				acc += m[r*dim+c] * scratch[c]
			}
			state[base|offs[r]] = acc
		}
	}
}

// applyCnRot applies the 2x2 matrix m to the last qubit of ts, controlled
// on all the preceding ones.
func applyCnRot(state []complex128, n int, ts []int, m []complex128) {
	tbit := 1 << (n - 1 - ts[len(ts)-1])
	cmask := 0
	for _, c := range ts[:len(ts)-1] {
		cmask |= 1 << (n - 1 - c)
	}
	for i := range state {
		if i&cmask != cmask || i&tbit != 0 {
			continue
		}
		a0, a1 := state[i], state[i|tbit]
		state[i] = m[0]*a0 + m[1]*a1
		state[i|tbit] = m[2]*a0 + m[3]*a1
	}
}

// applyPhaseGadget multiplies each amplitude by exp(-i pi a/2) or its
// conjugate according to the parity of the gadget qubits.
func applyPhaseGadget(state []complex128, n int, ts []int, a float64) {
	mask := 0
	for _, t := range ts {
		mask |= 1 << (n - 1 - t)
	}
	even := phasor(-a / 2)
	odd := phasor(a / 2)
	for i := range state {
		if bits.OnesCount(uint(i&mask))%2 == 0 {
			state[i] *= even
		} else {
			state[i] *= odd
		}
	}
}

// CompareStatevectorsOrUnitaries reports whether a and b agree elementwise
// up to a single global phase. It accepts statevectors and flattened
// unitaries alike.
func CompareStatevectorsOrUnitaries(a, b []complex128) bool {
	if len(a) != len(b) {
		return false
	}
	ref, best := -1, ErrEps
	for i := range a {
		if m := cmplx.Abs(a[i]); m > best {
			ref, best = i, m
		}
	}
	if ref == -1 {
		for i := range b {
			if cmplx.Abs(b[i]) > ErrEps {
				return false
			}
		}
		return true
	}
	phase := b[ref] / a[ref]
	if math.Abs(cmplx.Abs(phase)-1) > ErrEps {
		return false
	}
	for i := range a {
		if cmplx.Abs(b[i]-phase*a[i]) > ErrEps {
			return false
		}
	}
	return true
}
