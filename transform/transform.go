// Package transform implements the rewrite passes: local gate
// replacements applied over the canonical linearization of a circuit.
//
// A pass is a value; applying it mutates the circuit in place and
// reports whether anything changed. Passes compose sequentially and can
// be iterated to a fix point. A pass is atomic: replacements are
// computed for the whole sweep before the first substitution, so a gate
// with no known rewrite leaves the circuit untouched.
package transform

import (
	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/logger"
	"github.com/quivercomp/quiver/optype"
)

// Transform is a named rewrite pass over a circuit.
type Transform struct {
	name  string
	apply func(*circuit.Circuit) (bool, error)
}

// New wraps a rewrite function as a pass.
func New(name string, apply func(*circuit.Circuit) (bool, error)) Transform {
	return Transform{name: name, apply: apply}
}

func (t Transform) Name() string { return t.name }

// Apply runs the pass on c, reporting whether the circuit changed.
func (t Transform) Apply(c *circuit.Circuit) (bool, error) {
	changed, err := t.apply(c)
	log := logger.Logger()
	if err != nil {
		log.Debug().Str("pass", t.name).Err(err).Msg("pass failed")
		return false, err
	}
	log.Debug().Str("pass", t.name).Bool("changed", changed).Msg("pass applied")
	return changed, nil
}

// Sequence composes passes left to right.
func Sequence(ts ...Transform) Transform {
	return New("sequence", func(c *circuit.Circuit) (bool, error) {
		changed := false
		for _, t := range ts {
			ch, err := t.Apply(c)
			if err != nil {
				return false, err
			}
			changed = changed || ch
		}
		return changed, nil
	})
}

// RepeatUntilStable iterates t until it reports no change.
func RepeatUntilStable(t Transform) Transform {
	return New("repeat("+t.name+")", func(c *circuit.Circuit) (bool, error) {
		changed := false
		for {
			ch, err := t.Apply(c)
			if err != nil {
				return false, err
			}
			if !ch {
				return changed, nil
			}
			changed = true
		}
	})
}

// rewriteGates sweeps the canonical command list, computing a
// replacement for every vertex the rewrite elects to handle, then
// substitutes them all. A nil replacement skips the vertex; an error
// from the rewrite aborts before any mutation.
func rewriteGates(
	c *circuit.Circuit,
	rewrite func(op optype.Op, v circuit.Vertex) (*circuit.Circuit, error),
) (bool, error) {
	cmds, err := c.Commands()
	if err != nil {
		return false, err
	}
	type job struct {
		v   circuit.Vertex
		sub *circuit.Circuit
	}
	var jobs []job
	for _, cmd := range cmds {
		sub, err := rewrite(cmd.Op, cmd.V)
		if err != nil {
			return false, err
		}
		if sub == nil {
			continue
		}
		jobs = append(jobs, job{v: cmd.V, sub: sub})
	}
	for _, j := range jobs {
		if err := c.Substitute(j.v, j.sub); err != nil {
			return false, err
		}
	}
	return len(jobs) > 0, nil
}
