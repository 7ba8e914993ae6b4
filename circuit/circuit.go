// Package circuit implements the circuit IR: a directed acyclic
// multigraph with typed wires. Each qubit or bit is a wire running
// from an input boundary vertex to an output boundary vertex through
// the operations acting on it. Vertices and edges are arena-allocated
// and addressed by integer handles; removal marks slots dead without
// invalidating other handles.
package circuit

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/quivercomp/quiver/expr"
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
	"github.com/quivercomp/quiver/unitid"
)

// WireType distinguishes qubit wires from classical bit wires.
// Boolean marks a read-only view of a classical wire; condition ports
// currently ride the Classical wire itself, so no operation produces
// Boolean edges yet.
type WireType uint8

const (
	Quantum WireType = iota
	Classical
	Boolean
)

// Vertex is a handle into the vertex arena.
type Vertex int

// Edge is a handle into the edge arena.
type Edge int

type vertexKind uint8

const (
	kindInput vertexKind = iota
	kindOutput
	kindOp
)

type vertexData struct {
	kind vertexKind
	op   optype.Op
	unit unitid.UnitID // boundary vertices only
	in   []Edge
	out  []Edge
	seq  int
	dead bool
}

type edgeData struct {
	typ      WireType
	unit     unitid.UnitID
	from     Vertex
	fromPort int
	to       Vertex
	toPort   int
	dead     bool
}

// Circuit is a mutable circuit. The zero value is not usable; build
// with New or NewQubits.
type Circuit struct {
	Name string

	verts  []vertexData
	edges  []edgeData
	qubits []unitid.UnitID
	bits   []unitid.UnitID
	in     map[string]Vertex
	out    map[string]Vertex
	phase  expr.Expression

	nextSeq int
}

// New returns an empty circuit.
func New() *Circuit {
	return &Circuit{
		in:  map[string]Vertex{},
		out: map[string]Vertex{},
	}
}

// NewQubits returns a circuit with n qubits in the default register.
func NewQubits(n int) *Circuit {
	c := New()
	c.AddBlankQubits(n)
	return c
}

// NewQubitsBits returns a circuit with nq qubits and nb bits in the
// default registers.
func NewQubitsBits(nq, nb int) *Circuit {
	c := NewQubits(nq)
	for i := 0; i < nb; i++ {
		if err := c.AddBit(unitid.Bit(i)); err != nil {
			panic(err)
		}
	}
	return c
}

func (c *Circuit) newVertex(d vertexData) Vertex {
	d.seq = c.nextSeq
	c.nextSeq++
	c.verts = append(c.verts, d)
	return Vertex(len(c.verts) - 1)
}

func (c *Circuit) newEdge(d edgeData) Edge {
	c.edges = append(c.edges, d)
	e := Edge(len(c.edges) - 1)
	vf := &c.verts[d.from]
	for len(vf.out) <= d.fromPort {
		vf.out = append(vf.out, -1)
	}
	vf.out[d.fromPort] = e
	vt := &c.verts[d.to]
	for len(vt.in) <= d.toPort {
		vt.in = append(vt.in, -1)
	}
	vt.in[d.toPort] = e
	return e
}

func (c *Circuit) addWire(u unitid.UnitID, t WireType) error {
	key := u.Key()
	if _, ok := c.in[key]; ok {
		return qerror.Wrap(qerror.ErrCircuitInvalidity, "unit %s already present", u)
	}
	vin := c.newVertex(vertexData{kind: kindInput, unit: u})
	vout := c.newVertex(vertexData{kind: kindOutput, unit: u})
	c.newEdge(edgeData{typ: t, unit: u, from: vin, fromPort: 0, to: vout, toPort: 0})
	c.in[key] = vin
	c.out[key] = vout
	if t == Quantum {
		c.qubits = append(c.qubits, u)
	} else {
		c.bits = append(c.bits, u)
	}
	return nil
}

// AddQubit adds a named qubit wire.
func (c *Circuit) AddQubit(u unitid.UnitID) error {
	return c.addWire(u, Quantum)
}

// AddBit adds a named classical wire.
func (c *Circuit) AddBit(u unitid.UnitID) error {
	return c.addWire(u, Classical)
}

// AddBlankQubits appends n qubits to the default register, numbering
// them after any qubits already in it.
func (c *Circuit) AddBlankQubits(n int) {
	next := 0
	for _, q := range c.qubits {
		if q.Reg == unitid.DefaultQubitReg && len(q.Index) == 1 && q.Index[0] >= next {
			next = q.Index[0] + 1
		}
	}
	for i := 0; i < n; i++ {
		if err := c.AddQubit(unitid.Qubit(next + i)); err != nil {
			panic(err)
		}
	}
}

// Qubits returns the qubit wires in creation order.
func (c *Circuit) Qubits() []unitid.UnitID {
	return append([]unitid.UnitID(nil), c.qubits...)
}

// Bits returns the classical wires in creation order.
func (c *Circuit) Bits() []unitid.UnitID {
	return append([]unitid.UnitID(nil), c.bits...)
}

// QubitIndex returns the position of u in the qubit ordering.
func (c *Circuit) QubitIndex(u unitid.UnitID) (int, bool) {
	for i, q := range c.qubits {
		if q.Equal(u) {
			return i, true
		}
	}
	return 0, false
}

// NQubits returns the number of qubit wires.
func (c *Circuit) NQubits() int { return len(c.qubits) }

// NBits returns the number of classical wires.
func (c *Circuit) NBits() int { return len(c.bits) }

// NVertices returns the number of live vertices, boundaries included.
func (c *Circuit) NVertices() int {
	n := 0
	for i := range c.verts {
		if !c.verts[i].dead {
			n++
		}
	}
	return n
}

// NGates returns the number of live operation vertices.
func (c *Circuit) NGates() int {
	n := 0
	for i := range c.verts {
		if !c.verts[i].dead && c.verts[i].kind == kindOp {
			n++
		}
	}
	return n
}

// CountGates returns the number of live vertices of the given type.
func (c *Circuit) CountGates(t optype.OpType) int {
	n := 0
	for i := range c.verts {
		if !c.verts[i].dead && c.verts[i].kind == kindOp && c.verts[i].op.Type == t {
			n++
		}
	}
	return n
}

// GatesOfType returns the set of live vertices of the given type.
func (c *Circuit) GatesOfType(t optype.OpType) mapset.Set[Vertex] {
	s := mapset.NewSet[Vertex]()
	for i := range c.verts {
		if !c.verts[i].dead && c.verts[i].kind == kindOp && c.verts[i].op.Type == t {
			s.Add(Vertex(i))
		}
	}
	return s
}

// Op returns the operation at v.
func (c *Circuit) Op(v Vertex) (optype.Op, error) {
	if int(v) >= len(c.verts) || c.verts[v].dead || c.verts[v].kind != kindOp {
		return optype.Op{}, qerror.Wrap(qerror.ErrInvalidVertex, "vertex %d is not a live operation", v)
	}
	return c.verts[v].op, nil
}

// Args returns the units wired into v, in port order.
func (c *Circuit) Args(v Vertex) []unitid.UnitID {
	var args []unitid.UnitID
	for _, e := range c.verts[v].in {
		if e >= 0 && !c.edges[e].dead {
			args = append(args, c.edges[e].unit)
		}
	}
	return args
}

// Degree returns the number of live edges incident to v.
func (c *Circuit) Degree(v Vertex) int {
	n := 0
	for _, e := range c.verts[v].in {
		if e >= 0 && !c.edges[e].dead {
			n++
		}
	}
	for _, e := range c.verts[v].out {
		if e >= 0 && !c.edges[e].dead {
			n++
		}
	}
	return n
}

// AddPhase adds a global phase, in half-turns.
func (c *Circuit) AddPhase(e expr.Expression) {
	c.phase = c.phase.Add(e)
}

// Phase returns the accumulated global phase in half-turns.
func (c *Circuit) Phase() expr.Expression { return c.phase }

// Clone returns a deep copy sharing no state with c.
func (c *Circuit) Clone() *Circuit {
	cp := &Circuit{
		Name:    c.Name,
		verts:   make([]vertexData, len(c.verts)),
		edges:   append([]edgeData(nil), c.edges...),
		qubits:  append([]unitid.UnitID(nil), c.qubits...),
		bits:    append([]unitid.UnitID(nil), c.bits...),
		in:      make(map[string]Vertex, len(c.in)),
		out:     make(map[string]Vertex, len(c.out)),
		phase:   c.phase,
		nextSeq: c.nextSeq,
	}
	for i, v := range c.verts {
		v.in = append([]Edge(nil), v.in...)
		v.out = append([]Edge(nil), v.out...)
		cp.verts[i] = v
	}
	for k, v := range c.in {
		cp.in[k] = v
	}
	for k, v := range c.out {
		cp.out[k] = v
	}
	return cp
}

// CheckValid audits the wire structure, returning ErrCircuitInvalidity
// on the first defect found.
func (c *Circuit) CheckValid() error {
	for i := range c.verts {
		v := &c.verts[i]
		if v.dead {
			continue
		}
		switch v.kind {
		case kindInput:
			if c.liveCount(v.in) != 0 || c.liveCount(v.out) != 1 {
				return qerror.Wrap(qerror.ErrCircuitInvalidity, "input %s has bad degree", v.unit)
			}
		case kindOutput:
			if c.liveCount(v.in) != 1 || c.liveCount(v.out) != 0 {
				return qerror.Wrap(qerror.ErrCircuitInvalidity, "output %s has bad degree", v.unit)
			}
		case kindOp:
			nin, nout := c.liveCount(v.in), c.liveCount(v.out)
			if nin != nout {
				return qerror.Wrap(qerror.ErrCircuitInvalidity, "vertex %d has %d inputs but %d outputs", i, nin, nout)
			}
			if nq := v.op.Type.NumQubits(); nq >= 0 && v.op.Type != optype.Conditional {
				if nin != nq+v.op.Type.NumBits() {
					return qerror.Wrap(qerror.ErrCircuitInvalidity, "vertex %d (%s) has arity %d", i, v.op.Name(), nin)
				}
			}
		}
	}
	for i := range c.edges {
		e := &c.edges[i]
		if e.dead {
			continue
		}
		if c.verts[e.from].dead || c.verts[e.to].dead {
			return qerror.Wrap(qerror.ErrCircuitInvalidity, "edge %d touches a dead vertex", i)
		}
		if c.verts[e.from].out[e.fromPort] != Edge(i) || c.verts[e.to].in[e.toPort] != Edge(i) {
			return qerror.Wrap(qerror.ErrCircuitInvalidity, "edge %d is not indexed by its endpoints", i)
		}
	}
	if _, err := c.ordered(); err != nil {
		return err
	}
	return nil
}

func (c *Circuit) liveCount(es []Edge) int {
	n := 0
	for _, e := range es {
		if e >= 0 && !c.edges[e].dead {
			n++
		}
	}
	return n
}
