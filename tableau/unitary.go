package tableau

import (
	"strings"

	"github.com/quivercomp/quiver/circuit"
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
	"github.com/quivercomp/quiver/unitid"
)

// UnitaryTableau represents a Clifford unitary U by the images of the
// generators: row q holds U X_q U^dag, row q+n holds U Z_q U^dag.
type UnitaryTableau struct {
	tab    *SymplecticTableau
	qubits []unitid.UnitID
	index  map[string]int
}

// NewUnitary returns the identity tableau over n default-register
// qubits.
func NewUnitary(n int) *UnitaryTableau {
	units := make([]unitid.UnitID, n)
	for i := range units {
		units[i] = unitid.Qubit(i)
	}
	t, _ := NewUnitaryUnits(units)
	return t
}

// NewUnitaryUnits returns the identity tableau over the given qubits.
func NewUnitaryUnits(units []unitid.UnitID) (*UnitaryTableau, error) {
	n := len(units)
	u := &UnitaryTableau{
		tab:    NewSymplectic(2*n, n),
		qubits: append([]unitid.UnitID(nil), units...),
		index:  make(map[string]int, n),
	}
	for i, q := range units {
		if _, ok := u.index[q.Key()]; ok {
			return nil, qerror.Wrap(qerror.ErrNotValid, "duplicate qubit %s", q)
		}
		u.index[q.Key()] = i
		u.tab.xmat[i].Set(uint(i))
		u.tab.zmat[i+n].Set(uint(i))
	}
	return u, nil
}

// FromBlocks assembles a tableau from the four binary blocks and two
// phase vectors: row q of the X half is (xx[q] | xz[q]) with sign
// xph[q], row q of the Z half is (zx[q] | zz[q]) with sign zph[q].
// The assembled matrix must be symplectic.
func FromBlocks(units []unitid.UnitID, xx, xz, zx, zz [][]bool, xph, zph []bool) (*UnitaryTableau, error) {
	n := len(units)
	u, err := NewUnitaryUnits(units)
	if err != nil {
		return nil, err
	}
	if len(xx) != n || len(xz) != n || len(zx) != n || len(zz) != n || len(xph) != n || len(zph) != n {
		return nil, qerror.Wrap(qerror.ErrNotValid, "block shapes do not match %d qubits", n)
	}
	for i := 0; i < n; i++ {
		for q := 0; q < n; q++ {
			u.tab.xmat[i].SetTo(uint(q), xx[i][q])
			u.tab.zmat[i].SetTo(uint(q), xz[i][q])
			u.tab.xmat[i+n].SetTo(uint(q), zx[i][q])
			u.tab.zmat[i+n].SetTo(uint(q), zz[i][q])
		}
		u.tab.phase.SetTo(uint(i), xph[i])
		u.tab.phase.SetTo(uint(i+n), zph[i])
	}
	if !u.tab.IsSymplectic() {
		return nil, qerror.Wrap(qerror.ErrNotValid, "blocks do not form a symplectic matrix")
	}
	return u, nil
}

// FromCircuit pushes every gate of a Clifford circuit through an
// identity tableau.
func FromCircuit(c *circuit.Circuit) (*UnitaryTableau, error) {
	if c.NBits() != 0 {
		return nil, qerror.Wrap(qerror.ErrNotValid, "tableau of a circuit with classical wires")
	}
	u, err := NewUnitaryUnits(c.Qubits())
	if err != nil {
		return nil, err
	}
	cmds, err := c.Commands()
	if err != nil {
		return nil, err
	}
	for _, cmd := range cmds {
		if err := u.ApplyGateAtEnd(cmd.Op.Type, cmd.Args...); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// NQubits returns the number of qubits.
func (u *UnitaryTableau) NQubits() int { return len(u.qubits) }

// Qubits returns the qubit ordering.
func (u *UnitaryTableau) Qubits() []unitid.UnitID {
	return append([]unitid.UnitID(nil), u.qubits...)
}

// Tableau exposes the underlying symplectic tableau.
func (u *UnitaryTableau) Tableau() *SymplecticTableau { return u.tab }

func (u *UnitaryTableau) rows(units []unitid.UnitID) ([]int, error) {
	rows := make([]int, len(units))
	for i, q := range units {
		r, ok := u.index[q.Key()]
		if !ok {
			return nil, qerror.Wrap(qerror.ErrMissingUnit, "qubit %s", q)
		}
		rows[i] = r
	}
	return rows, nil
}

// ApplyGateAtEnd conjugates the tableau by a gate appended after U.
func (u *UnitaryTableau) ApplyGateAtEnd(g optype.OpType, qs ...unitid.UnitID) error {
	idx, err := u.rows(qs)
	if err != nil {
		return err
	}
	return u.tab.ApplyGate(g, idx...)
}

// ApplyGateAtFront reshapes the tableau as if the gate had been
// applied before U, using row products on the generator images.
func (u *UnitaryTableau) ApplyGateAtFront(g optype.OpType, qs ...unitid.UnitID) error {
	idx, err := u.rows(qs)
	if err != nil {
		return err
	}
	n := len(u.qubits)
	sFront := func(q int) error { return u.tab.RowMult(q, q+n, CoeffImag) }
	vFront := func(q int) error { return u.tab.RowMult(q+n, q, CoeffImag) }
	cxFront := func(c, t int) error {
		if err := u.tab.RowMult(c, t, CoeffOne); err != nil {
			return err
		}
		return u.tab.RowMult(t+n, c+n, CoeffOne)
	}
	hFront := func(q int) error {
		if err := sFront(q); err != nil {
			return err
		}
		if err := vFront(q); err != nil {
			return err
		}
		return sFront(q)
	}
	rep := func(f func(int) error, q, times int) error {
		for i := 0; i < times; i++ {
			if err := f(q); err != nil {
				return err
			}
		}
		return nil
	}
	switch g {
	case optype.Noop:
		return nil
	case optype.S:
		return sFront(idx[0])
	case optype.Sdg:
		return rep(sFront, idx[0], 3)
	case optype.V:
		return vFront(idx[0])
	case optype.Vdg:
		return rep(vFront, idx[0], 3)
	case optype.Z:
		return rep(sFront, idx[0], 2)
	case optype.X:
		return rep(vFront, idx[0], 2)
	case optype.Y:
		if err := rep(sFront, idx[0], 2); err != nil {
			return err
		}
		return rep(vFront, idx[0], 2)
	case optype.H:
		return hFront(idx[0])
	case optype.CX:
		return cxFront(idx[0], idx[1])
	case optype.CY:
		if err := rep(vFront, idx[1], 3); err != nil {
			return err
		}
		if err := cxFront(idx[0], idx[1]); err != nil {
			return err
		}
		return vFront(idx[1])
	case optype.CZ:
		if err := hFront(idx[1]); err != nil {
			return err
		}
		if err := cxFront(idx[0], idx[1]); err != nil {
			return err
		}
		return hFront(idx[1])
	case optype.SWAP:
		if err := cxFront(idx[0], idx[1]); err != nil {
			return err
		}
		if err := cxFront(idx[1], idx[0]); err != nil {
			return err
		}
		return cxFront(idx[0], idx[1])
	case optype.BRIDGE:
		return cxFront(idx[0], idx[2])
	}
	return qerror.Wrap(qerror.ErrNotCliffordGate, "%s", g)
}

// XRow returns the image of X on qubit q.
func (u *UnitaryTableau) XRow(q unitid.UnitID) (PauliTensor, error) {
	r, ok := u.index[q.Key()]
	if !ok {
		return PauliTensor{}, qerror.Wrap(qerror.ErrMissingUnit, "qubit %s", q)
	}
	return u.rowTensor(r), nil
}

// ZRow returns the image of Z on qubit q.
func (u *UnitaryTableau) ZRow(q unitid.UnitID) (PauliTensor, error) {
	r, ok := u.index[q.Key()]
	if !ok {
		return PauliTensor{}, qerror.Wrap(qerror.ErrMissingUnit, "qubit %s", q)
	}
	return u.rowTensor(r + len(u.qubits)), nil
}

func (u *UnitaryTableau) rowTensor(row int) PauliTensor {
	var terms []PauliTerm
	for q := 0; q < len(u.qubits); q++ {
		p := pauliFromBits(u.tab.xmat[row].Test(uint(q)), u.tab.zmat[row].Test(uint(q)))
		terms = append(terms, PauliTerm{Unit: u.qubits[q], P: p})
	}
	var phase uint8
	if u.tab.phase.Test(uint(row)) {
		phase = 2
	}
	return NewPauliTensor(terms, phase)
}

// RowProduct maps a Pauli tensor through the tableau, multiplying the
// images of its letters.
func (u *UnitaryTableau) RowProduct(t PauliTensor) (PauliTensor, error) {
	res := NewPauliTensor(nil, t.Phase)
	for _, term := range t.Terms() {
		switch term.P {
		case X:
			row, err := u.XRow(term.Unit)
			if err != nil {
				return PauliTensor{}, err
			}
			res = res.Mul(row)
		case Z:
			row, err := u.ZRow(term.Unit)
			if err != nil {
				return PauliTensor{}, err
			}
			res = res.Mul(row)
		case Y:
			// Y = i X Z
			xr, err := u.XRow(term.Unit)
			if err != nil {
				return PauliTensor{}, err
			}
			zr, err := u.ZRow(term.Unit)
			if err != nil {
				return PauliTensor{}, err
			}
			res.Phase = (res.Phase + 1) % 4
			res = res.Mul(xr).Mul(zr)
		}
	}
	return res, nil
}

// Compose returns the tableau of "first then second". Both must act on
// the same qubits.
func Compose(first, second *UnitaryTableau) (*UnitaryTableau, error) {
	if len(first.qubits) != len(second.qubits) {
		return nil, qerror.Wrap(qerror.ErrNotValid, "composing tableaux of different sizes")
	}
	res, err := NewUnitaryUnits(first.qubits)
	if err != nil {
		return nil, err
	}
	n := len(first.qubits)
	set := func(row int, t PauliTensor) error {
		neg, err := t.RealSign()
		if err != nil {
			return err
		}
		res.tab.xmat[row].ClearAll()
		res.tab.zmat[row].ClearAll()
		for _, term := range t.Terms() {
			q, ok := res.index[term.Unit.Key()]
			if !ok {
				return qerror.Wrap(qerror.ErrMissingUnit, "qubit %s", term.Unit)
			}
			x, z := term.P.bits()
			res.tab.xmat[row].SetTo(uint(q), x)
			res.tab.zmat[row].SetTo(uint(q), z)
		}
		res.tab.phase.SetTo(uint(row), neg)
		return nil
	}
	for i, q := range first.qubits {
		xr, err := first.XRow(q)
		if err != nil {
			return nil, err
		}
		xt, err := second.RowProduct(xr)
		if err != nil {
			return nil, err
		}
		if err := set(i, xt); err != nil {
			return nil, err
		}
		zr, err := first.ZRow(q)
		if err != nil {
			return nil, err
		}
		zt, err := second.RowProduct(zr)
		if err != nil {
			return nil, err
		}
		if err := set(i+n, zt); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Equal reports equality of qubit ordering and tableau contents.
func (u *UnitaryTableau) Equal(o *UnitaryTableau) bool {
	if len(u.qubits) != len(o.qubits) {
		return false
	}
	for i := range u.qubits {
		if !u.qubits[i].Equal(o.qubits[i]) {
			return false
		}
	}
	return u.tab.Equal(o.tab)
}

func (u *UnitaryTableau) String() string {
	var sb strings.Builder
	for _, q := range u.qubits {
		xr, _ := u.XRow(q)
		zr, _ := u.ZRow(q)
		sb.WriteString("X@")
		sb.WriteString(q.String())
		sb.WriteString(" -> ")
		sb.WriteString(xr.String())
		sb.WriteString("\nZ@")
		sb.WriteString(q.String())
		sb.WriteString(" -> ")
		sb.WriteString(zr.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
