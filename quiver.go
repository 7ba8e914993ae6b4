// Package quiver compiles quantum circuits: it rewrites a circuit DAG
// through a pipeline of decomposition passes until only the gates of a
// requested target set remain.
package quiver

import (
	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/logger"
	"github.com/quivercomp/quiver/transform"
)

// Oracle verifies compiled circuits against a numeric backend.
type Oracle interface {
	GetStatevector(c *circuit.Circuit) ([]complex128, error)
	GetUnitary(c *circuit.Circuit) ([]complex128, error)
	Compare(a, b []complex128) bool
}

// Pipeline is an ordered list of rewrite passes applied to a circuit.
type Pipeline struct {
	passes []transform.Transform
}

func NewPipeline(passes ...transform.Transform) *Pipeline {
	return &Pipeline{passes: passes}
}

// Run applies every pass in order, reporting whether any changed the
// circuit.
func (p *Pipeline) Run(c *circuit.Circuit) (bool, error) {
	log := logger.Logger()
	changed := false
	for _, t := range p.passes {
		ch, err := t.Apply(c)
		if err != nil {
			return changed, err
		}
		log.Debug().Str("pass", t.Name()).Bool("changed", ch).Msg("pipeline step")
		changed = changed || ch
	}
	return changed, nil
}

// CompileOption configures the pipeline built by Compile.
type CompileOption func(*Pipeline)

// WithPass appends an arbitrary pass.
func WithPass(t transform.Transform) CompileOption {
	return func(p *Pipeline) { p.passes = append(p.passes, t) }
}

// WithTargetZX compiles down to the {Rx, Rz, CX} gate set.
func WithTargetZX() CompileOption {
	return WithPass(transform.DecomposeZX())
}

// WithTargetIBM compiles down to the {CX, U1, U2, U3} gate set.
func WithTargetIBM() CompileOption {
	return WithPass(transform.SynthesiseIBM())
}

// Compile rewrites c in place. Without target options it runs the
// control decompositions only, leaving the gate set otherwise
// untouched.
func Compile(c *circuit.Circuit, opts ...CompileOption) error {
	p := NewPipeline()
	for _, o := range opts {
		o(p)
	}
	if len(p.passes) == 0 {
		p.passes = []transform.Transform{
			transform.DecompControlledRys(),
			transform.DecompCCX(),
		}
	}
	changed, err := p.Run(c)
	if err != nil {
		return err
	}
	log := logger.Logger()
	log.Info().
		Bool("changed", changed).
		Int("nbGates", c.NGates()).
		Int("nbQubits", c.NQubits()).
		Msg("compiled")
	return nil
}

// Verify checks that two circuits implement the same unitary up to
// global phase, using the supplied oracle.
func Verify(a, b *circuit.Circuit, o Oracle) (bool, error) {
	ua, err := o.GetUnitary(a)
	if err != nil {
		return false, err
	}
	ub, err := o.GetUnitary(b)
	if err != nil {
		return false, err
	}
	return o.Compare(ua, ub), nil
}
