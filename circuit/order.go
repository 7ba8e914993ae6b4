package circuit

import (
	"sort"
	"strings"

	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
	"github.com/quivercomp/quiver/unitid"
)

// Command is one operation with its arguments, as produced by the
// canonical linearization.
type Command struct {
	Op   optype.Op
	Args []unitid.UnitID
	V    Vertex
}

// ordered returns the live operation vertices in canonical order:
// by frontier depth, then by the smallest UnitID on an incident
// quantum wire, then by creation time. Detached vertices sort first
// within depth zero.
func (c *Circuit) ordered() ([]Vertex, error) {
	type key struct {
		level   int
		unit    *unitid.UnitID
		seq     int
		v       Vertex
		pending int
	}
	keys := map[Vertex]*key{}
	var ready []Vertex
	nOps := 0
	for i := range c.verts {
		vd := &c.verts[i]
		if vd.dead || vd.kind != kindOp {
			continue
		}
		nOps++
		k := &key{seq: vd.seq, v: Vertex(i)}
		for _, e := range vd.in {
			if e < 0 || c.edges[e].dead {
				continue
			}
			ed := &c.edges[e]
			if ed.typ == Quantum && (k.unit == nil || ed.unit.Less(*k.unit)) {
				u := ed.unit
				k.unit = &u
			}
			if c.verts[ed.from].kind == kindOp {
				k.pending++
			}
		}
		if k.unit == nil {
			// classical-only vertex: any incident unit
			for _, e := range vd.in {
				if e >= 0 && !c.edges[e].dead {
					u := c.edges[e].unit
					k.unit = &u
					break
				}
			}
		}
		keys[Vertex(i)] = k
		if k.pending == 0 {
			ready = append(ready, Vertex(i))
		}
	}
	var out []Vertex
	for len(ready) > 0 {
		v := ready[0]
		ready = ready[1:]
		out = append(out, v)
		k := keys[v]
		for _, e := range c.verts[v].out {
			if e < 0 || c.edges[e].dead {
				continue
			}
			to := c.edges[e].to
			if sk, ok := keys[to]; ok {
				if sk.level <= k.level {
					sk.level = k.level + 1
				}
				sk.pending--
				if sk.pending == 0 {
					ready = append(ready, to)
				}
			}
		}
	}
	if len(out) != nOps {
		return nil, qerror.Wrap(qerror.ErrCircuitInvalidity, "circuit contains a cycle")
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := keys[out[i]], keys[out[j]]
		if a.level != b.level {
			return a.level < b.level
		}
		switch {
		case a.unit == nil && b.unit != nil:
			return true
		case a.unit != nil && b.unit == nil:
			return false
		case a.unit != nil && b.unit != nil && !a.unit.Equal(*b.unit):
			return a.unit.Less(*b.unit)
		}
		return a.seq < b.seq
	})
	return out, nil
}

// Commands returns the circuit's operations in canonical order.
func (c *Circuit) Commands() ([]Command, error) {
	vs, err := c.ordered()
	if err != nil {
		return nil, err
	}
	cmds := make([]Command, len(vs))
	for i, v := range vs {
		cmds[i] = Command{Op: c.verts[v].op, Args: c.Args(v), V: v}
	}
	return cmds, nil
}

// String renders the canonical linearization, one command per "NAME
// args;" clause.
func (c *Circuit) String() string {
	cmds, err := c.Commands()
	if err != nil {
		return "<invalid circuit: " + err.Error() + ">"
	}
	var sb strings.Builder
	for _, cmd := range cmds {
		sb.WriteString(cmd.Op.Name())
		for i, a := range cmd.Args {
			if i == 0 {
				sb.WriteString(" ")
			} else {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteString(";")
	}
	return sb.String()
}
