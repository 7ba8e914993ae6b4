package circuit

import (
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
	"github.com/quivercomp/quiver/unitid"
)

// wireTypes returns the expected wire type of each port of op.
func wireTypes(op optype.Op, arity int) []WireType {
	ts := make([]WireType, arity)
	switch op.Type {
	case optype.Measure:
		ts[1] = Classical
	case optype.Conditional:
		for i := 0; i < op.Width; i++ {
			ts[i] = Classical
		}
	}
	return ts
}

// normalize rewrites variable-arity gates that collapse to a fixed
// gate at the given arity.
func normalize(op optype.Op, nargs int) optype.Op {
	switch {
	case op.Type == optype.CnRy && nargs == 1:
		return optype.Gate(optype.Ry, op.Params[0])
	case op.Type == optype.CnX && nargs == 1:
		return optype.Op{Type: optype.X}
	}
	return op
}

// insert splices v into edge e: e now ends at port p of v, and a new
// edge carries the wire onward from v to e's old target.
func (c *Circuit) insert(e Edge, v Vertex, p int) Edge {
	ed := &c.edges[e]
	oldTo, oldPort := ed.to, ed.toPort
	ed.to, ed.toPort = v, p
	vd := &c.verts[v]
	for len(vd.in) <= p {
		vd.in = append(vd.in, -1)
	}
	vd.in[p] = e
	return c.newEdge(edgeData{typ: ed.typ, unit: ed.unit, from: v, fromPort: p, to: oldTo, toPort: oldPort})
}

// AddOp appends an operation acting on the given units, in port order.
func (c *Circuit) AddOp(op optype.Op, args ...unitid.UnitID) (Vertex, error) {
	op = normalize(op, len(args))
	if nq := op.Type.NumQubits(); nq >= 0 && op.Type != optype.Conditional {
		if want := nq + op.Type.NumBits(); len(args) != want {
			return -1, qerror.Wrap(qerror.ErrCircuitInvalidity, "%s expects %d units, got %d", op.Name(), want, len(args))
		}
	} else if len(args) == 0 {
		return -1, qerror.Wrap(qerror.ErrCircuitInvalidity, "%s needs at least one unit", op.Name())
	}
	ts := wireTypes(op, len(args))
	for i, a := range args {
		for j := 0; j < i; j++ {
			if args[j].Equal(a) {
				return -1, qerror.Wrap(qerror.ErrCircuitInvalidity, "duplicate unit %s", a)
			}
		}
		outV, ok := c.out[a.Key()]
		if !ok {
			return -1, qerror.Wrap(qerror.ErrMissingUnit, "unit %s", a)
		}
		if c.edges[c.verts[outV].in[0]].typ != ts[i] {
			return -1, qerror.Wrap(qerror.ErrCircuitInvalidity, "wrong wire type for %s at port %d of %s", a, i, op.Name())
		}
	}
	v := c.newVertex(vertexData{kind: kindOp, op: op})
	for i, a := range args {
		outV := c.out[a.Key()]
		c.insert(c.verts[outV].in[0], v, i)
	}
	return v, nil
}

// AddGate appends a gate on qubits given by index into the qubit
// ordering.
func (c *Circuit) AddGate(op optype.Op, qubits ...int) (Vertex, error) {
	args := make([]unitid.UnitID, len(qubits))
	for i, q := range qubits {
		if q < 0 || q >= len(c.qubits) {
			return -1, qerror.Wrap(qerror.ErrMissingUnit, "qubit index %d", q)
		}
		args[i] = c.qubits[q]
	}
	return c.AddOp(op, args...)
}

// AddVertex places an operation vertex with no incident wires. The
// circuit is invalid until the vertex is wired or removed; passes
// reaching such a vertex fail with ErrInvalidVertex.
func (c *Circuit) AddVertex(op optype.Op) Vertex {
	return c.newVertex(vertexData{kind: kindOp, op: op})
}

// RemoveVertex deletes an operation vertex, joining each in-wire to
// the matching out-wire.
func (c *Circuit) RemoveVertex(v Vertex) error {
	if int(v) >= len(c.verts) || c.verts[v].dead || c.verts[v].kind != kindOp {
		return qerror.Wrap(qerror.ErrInvalidVertex, "vertex %d is not a live operation", v)
	}
	vd := &c.verts[v]
	for i, e1 := range vd.in {
		if e1 < 0 || c.edges[e1].dead {
			continue
		}
		e2 := vd.out[i]
		if e2 < 0 || c.edges[e2].dead {
			return qerror.Wrap(qerror.ErrCircuitInvalidity, "vertex %d has unbalanced ports", v)
		}
		to, toPort := c.edges[e2].to, c.edges[e2].toPort
		c.edges[e1].to, c.edges[e1].toPort = to, toPort
		c.verts[to].in[toPort] = e1
		c.edges[e2].dead = true
	}
	vd.dead = true
	vd.in = nil
	vd.out = nil
	return nil
}

// Substitute replaces the operation at v by the body of sub. Port i of
// v is identified with qubit i of sub. sub must be a pure quantum
// circuit of matching arity; it is consumed by the call.
func (c *Circuit) Substitute(v Vertex, sub *Circuit) error {
	if int(v) >= len(c.verts) || c.verts[v].dead || c.verts[v].kind != kindOp {
		return qerror.Wrap(qerror.ErrInvalidVertex, "vertex %d is not a live operation", v)
	}
	vd := &c.verts[v]
	arity := c.liveCount(vd.in)
	if sub.NBits() != 0 {
		return qerror.Wrap(qerror.ErrCircuitInvalidity, "replacement carries classical wires")
	}
	if arity != sub.NQubits() {
		return qerror.Wrap(qerror.ErrCircuitInvalidity,
			"replacement on %d qubits for a vertex of arity %d", sub.NQubits(), arity)
	}
	for _, e := range vd.in {
		if e >= 0 && !c.edges[e].dead && c.edges[e].typ != Quantum {
			return qerror.Wrap(qerror.ErrCircuitInvalidity, "replacement over a classical wire")
		}
	}
	cmds, err := sub.Commands()
	if err != nil {
		return err
	}
	// Bypass v entirely, then insert the replacement body wire by
	// wire on the joined edges.
	tail := make([]Edge, arity)
	for i := range tail {
		tail[i] = vd.in[i]
	}
	if err := c.RemoveVertex(v); err != nil {
		return err
	}
	for _, cmd := range cmds {
		w := c.newVertex(vertexData{kind: kindOp, op: cmd.Op})
		for p, a := range cmd.Args {
			j, ok := sub.QubitIndex(a)
			if !ok {
				return qerror.Wrap(qerror.ErrCircuitInvalidity, "replacement wire %s is not a qubit", a)
			}
			tail[j] = c.insert(tail[j], w, p)
		}
	}
	c.phase = c.phase.Add(sub.phase)
	return nil
}

// Append concatenates other onto c, matching wires by UnitID and
// creating any wires c does not already have.
func (c *Circuit) Append(other *Circuit) error {
	for _, q := range other.qubits {
		if _, ok := c.out[q.Key()]; !ok {
			if err := c.AddQubit(q); err != nil {
				return err
			}
		}
	}
	for _, b := range other.bits {
		if _, ok := c.out[b.Key()]; !ok {
			if err := c.AddBit(b); err != nil {
				return err
			}
		}
	}
	cmds, err := other.Commands()
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		if _, err := c.AddOp(cmd.Op, cmd.Args...); err != nil {
			return err
		}
	}
	c.phase = c.phase.Add(other.phase)
	return nil
}

// AppendQubits concatenates other onto c with qubit i of other mapped
// to qubit perm[i] of c.
func (c *Circuit) AppendQubits(other *Circuit, perm []int) error {
	if other.NBits() != 0 {
		return qerror.Wrap(qerror.ErrCircuitInvalidity, "appended circuit carries classical wires")
	}
	if len(perm) != other.NQubits() {
		return qerror.Wrap(qerror.ErrCircuitInvalidity, "permutation of size %d for %d qubits", len(perm), other.NQubits())
	}
	seen := map[int]bool{}
	for _, p := range perm {
		if p < 0 || p >= len(c.qubits) || seen[p] {
			return qerror.Wrap(qerror.ErrCircuitInvalidity, "bad qubit mapping %v", perm)
		}
		seen[p] = true
	}
	cmds, err := other.Commands()
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		args := make([]unitid.UnitID, len(cmd.Args))
		for i, a := range cmd.Args {
			j, ok := other.QubitIndex(a)
			if !ok {
				return qerror.Wrap(qerror.ErrCircuitInvalidity, "appended wire %s is not a qubit", a)
			}
			args[i] = c.qubits[perm[j]]
		}
		if _, err := c.AddOp(cmd.Op, args...); err != nil {
			return err
		}
	}
	c.phase = c.phase.Add(other.phase)
	return nil
}

// Dagger returns the adjoint circuit: commands reversed, each gate
// replaced by its adjoint, the global phase negated.
func (c *Circuit) Dagger() (*Circuit, error) {
	cmds, err := c.Commands()
	if err != nil {
		return nil, err
	}
	d := New()
	d.Name = c.Name
	for _, q := range c.qubits {
		if err := d.AddQubit(q); err != nil {
			return nil, err
		}
	}
	for i := len(cmds) - 1; i >= 0; i-- {
		op, err := cmds[i].Op.Dagger()
		if err != nil {
			return nil, err
		}
		if _, err := d.AddOp(op, cmds[i].Args...); err != nil {
			return nil, err
		}
	}
	d.phase = c.phase.Neg()
	return d, nil
}
