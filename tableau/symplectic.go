package tableau

import (
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
)

// Coeff is a scalar from {1, i, -1, -i}, stored as the exponent of i.
type Coeff uint8

const (
	CoeffOne    Coeff = 0
	CoeffImag   Coeff = 1
	CoeffNegOne Coeff = 2
	CoeffNegI   Coeff = 3
)

// SymplecticTableau stores a list of signed Pauli rows over n qubits
// as GF(2) bit matrices: xmat marks X components, zmat marks Z
// components, phase marks negative signs.
type SymplecticTableau struct {
	n     int
	xmat  []*bitset.BitSet
	zmat  []*bitset.BitSet
	phase *bitset.BitSet
}

// NewSymplectic returns a tableau of `rows` all-identity rows over n
// qubits.
func NewSymplectic(rows, n int) *SymplecticTableau {
	t := &SymplecticTableau{
		n:     n,
		xmat:  make([]*bitset.BitSet, rows),
		zmat:  make([]*bitset.BitSet, rows),
		phase: bitset.New(uint(rows)),
	}
	for i := range t.xmat {
		t.xmat[i] = bitset.New(uint(n))
		t.zmat[i] = bitset.New(uint(n))
	}
	return t
}

// FromStabilisers builds a tableau with one row per stabiliser.
func FromStabilisers(rows []PauliStabiliser) (*SymplecticTableau, error) {
	if len(rows) == 0 {
		return nil, qerror.Wrap(qerror.ErrNotValid, "no stabilisers")
	}
	n := len(rows[0].Paulis)
	t := NewSymplectic(len(rows), n)
	for i, r := range rows {
		if len(r.Paulis) != n {
			return nil, qerror.Wrap(qerror.ErrNotValid, "stabiliser length mismatch")
		}
		for q, p := range r.Paulis {
			x, z := p.bits()
			t.xmat[i].SetTo(uint(q), x)
			t.zmat[i].SetTo(uint(q), z)
		}
		t.phase.SetTo(uint(i), r.Neg)
	}
	return t, nil
}

// NRows returns the number of rows.
func (t *SymplecticTableau) NRows() int { return len(t.xmat) }

// NQubits returns the number of columns.
func (t *SymplecticTableau) NQubits() int { return t.n }

// XBit reports the X component of row i at qubit q.
func (t *SymplecticTableau) XBit(i, q int) bool { return t.xmat[i].Test(uint(q)) }

// ZBit reports the Z component of row i at qubit q.
func (t *SymplecticTableau) ZBit(i, q int) bool { return t.zmat[i].Test(uint(q)) }

// PhaseBit reports the sign of row i (true for -1).
func (t *SymplecticTableau) PhaseBit(i int) bool { return t.phase.Test(uint(i)) }

// GetPauli returns row i as letters and a sign.
func (t *SymplecticTableau) GetPauli(i int) PauliStabiliser {
	ps := PauliStabiliser{Paulis: make([]Pauli, t.n), Neg: t.phase.Test(uint(i))}
	for q := 0; q < t.n; q++ {
		ps.Paulis[q] = pauliFromBits(t.xmat[i].Test(uint(q)), t.zmat[i].Test(uint(q)))
	}
	return ps
}

// Clone returns a deep copy.
func (t *SymplecticTableau) Clone() *SymplecticTableau {
	c := &SymplecticTableau{
		n:     t.n,
		xmat:  make([]*bitset.BitSet, len(t.xmat)),
		zmat:  make([]*bitset.BitSet, len(t.zmat)),
		phase: t.phase.Clone(),
	}
	for i := range t.xmat {
		c.xmat[i] = t.xmat[i].Clone()
		c.zmat[i] = t.zmat[i].Clone()
	}
	return c
}

// Equal reports entrywise equality.
func (t *SymplecticTableau) Equal(o *SymplecticTableau) bool {
	if t.n != o.n || len(t.xmat) != len(o.xmat) || !t.phase.Equal(o.phase) {
		return false
	}
	for i := range t.xmat {
		if !t.xmat[i].Equal(o.xmat[i]) || !t.zmat[i].Equal(o.zmat[i]) {
			return false
		}
	}
	return true
}

// rowProductExp accumulates the i-exponent of the qubitwise Pauli
// product of rows a and b.
func (t *SymplecticTableau) rowProductExp(a, b int) uint8 {
	var exp uint8
	for q := 0; q < t.n; q++ {
		pa := pauliFromBits(t.xmat[a].Test(uint(q)), t.zmat[a].Test(uint(q)))
		pb := pauliFromBits(t.xmat[b].Test(uint(q)), t.zmat[b].Test(uint(q)))
		exp = (exp + mulExp[pa][pb]) % 4
	}
	return exp
}

// RowMult replaces row i by coeff * row_i * row_j. The result must
// have a real sign.
func (t *SymplecticTableau) RowMult(i, j int, coeff Coeff) error {
	exp := uint8(coeff) + t.rowProductExp(i, j)
	if t.phase.Test(uint(i)) {
		exp += 2
	}
	if t.phase.Test(uint(j)) {
		exp += 2
	}
	exp %= 4
	if exp%2 == 1 {
		return qerror.Wrap(qerror.ErrNotValid, "row product has imaginary coefficient")
	}
	t.xmat[i].InPlaceSymmetricDifference(t.xmat[j])
	t.zmat[i].InPlaceSymmetricDifference(t.zmat[j])
	t.phase.SetTo(uint(i), exp == 2)
	return nil
}

// anticommutes reports whether row i anticommutes with the Pauli
// string (px, pz).
func (t *SymplecticTableau) anticommutes(i int, px, pz *bitset.BitSet) bool {
	a := t.xmat[i].Intersection(pz).Count()
	b := t.zmat[i].Intersection(px).Count()
	return (a+b)%2 == 1
}

// ApplyS conjugates every row by S on qubit q.
func (t *SymplecticTableau) ApplyS(q int) {
	for i := range t.xmat {
		x, z := t.xmat[i].Test(uint(q)), t.zmat[i].Test(uint(q))
		if x && z {
			t.phase.Flip(uint(i))
		}
		t.zmat[i].SetTo(uint(q), z != x)
	}
}

// ApplyV conjugates every row by V on qubit q.
func (t *SymplecticTableau) ApplyV(q int) {
	for i := range t.xmat {
		x, z := t.xmat[i].Test(uint(q)), t.zmat[i].Test(uint(q))
		if z && !x {
			t.phase.Flip(uint(i))
		}
		t.xmat[i].SetTo(uint(q), x != z)
	}
}

// ApplyCX conjugates every row by CX with control c and target x.
func (t *SymplecticTableau) ApplyCX(c, x int) {
	for i := range t.xmat {
		xc, zc := t.xmat[i].Test(uint(c)), t.zmat[i].Test(uint(c))
		xt, zt := t.xmat[i].Test(uint(x)), t.zmat[i].Test(uint(x))
		if xc && zt && xt == zc {
			t.phase.Flip(uint(i))
		}
		t.xmat[i].SetTo(uint(x), xt != xc)
		t.zmat[i].SetTo(uint(c), zc != zt)
	}
}

// ApplyH conjugates every row by H on qubit q. H = S V S.
func (t *SymplecticTableau) ApplyH(q int) {
	t.ApplyS(q)
	t.ApplyV(q)
	t.ApplyS(q)
}

// ApplyGate conjugates the tableau by a gate appended after the
// represented operator. Only the tableau gate set is accepted.
func (t *SymplecticTableau) ApplyGate(g optype.OpType, qs ...int) error {
	switch g {
	case optype.Noop:
	case optype.Z:
		t.ApplyS(qs[0])
		t.ApplyS(qs[0])
	case optype.X:
		t.ApplyV(qs[0])
		t.ApplyV(qs[0])
	case optype.Y:
		if err := t.ApplyGate(optype.Z, qs[0]); err != nil {
			return err
		}
		return t.ApplyGate(optype.X, qs[0])
	case optype.S:
		t.ApplyS(qs[0])
	case optype.Sdg:
		t.ApplyS(qs[0])
		t.ApplyS(qs[0])
		t.ApplyS(qs[0])
	case optype.V:
		t.ApplyV(qs[0])
	case optype.Vdg:
		t.ApplyV(qs[0])
		t.ApplyV(qs[0])
		t.ApplyV(qs[0])
	case optype.H:
		t.ApplyH(qs[0])
	case optype.CX:
		t.ApplyCX(qs[0], qs[1])
	case optype.CY:
		// CY = (I (x) S) CX (I (x) Sdg)
		if err := t.ApplyGate(optype.Sdg, qs[1]); err != nil {
			return err
		}
		t.ApplyCX(qs[0], qs[1])
		t.ApplyS(qs[1])
	case optype.CZ:
		t.ApplyH(qs[1])
		t.ApplyCX(qs[0], qs[1])
		t.ApplyH(qs[1])
	case optype.SWAP:
		t.ApplyCX(qs[0], qs[1])
		t.ApplyCX(qs[1], qs[0])
		t.ApplyCX(qs[0], qs[1])
	case optype.BRIDGE:
		t.ApplyCX(qs[0], qs[2])
	default:
		return qerror.Wrap(qerror.ErrNotCliffordGate, "%s", g)
	}
	return nil
}

// ApplyPauliGadget conjugates every row by exp(-i * halfPis * pi/4 *
// P), where P is the signed Pauli string given. halfPis is taken mod
// 4; odd multiples mix anticommuting rows via the product table.
func (t *SymplecticTableau) ApplyPauliGadget(p PauliStabiliser, halfPis int) error {
	if len(p.Paulis) != t.n {
		return qerror.Wrap(qerror.ErrNotValid, "pauli string over %d qubits, tableau has %d", len(p.Paulis), t.n)
	}
	k := ((halfPis % 4) + 4) % 4
	if k == 0 {
		return nil
	}
	if k == 2 {
		// A half turn is the Pauli string itself; sign is global.
		gates := map[Pauli]optype.OpType{X: optype.X, Y: optype.Y, Z: optype.Z}
		for q, pl := range p.Paulis {
			if pl == I {
				continue
			}
			if err := t.ApplyGate(gates[pl], q); err != nil {
				return err
			}
		}
		return nil
	}
	px := bitset.New(uint(t.n))
	pz := bitset.New(uint(t.n))
	for q, pl := range p.Paulis {
		x, z := pl.bits()
		px.SetTo(uint(q), x)
		pz.SetTo(uint(q), z)
	}
	// Anticommuting rows pick up a factor (-+ i) * P.
	coeff := uint8(3) // -i for a quarter turn
	if k == 3 {
		coeff = 1
	}
	if p.Neg {
		coeff = (coeff + 2) % 4
	}
	for i := 0; i < t.NRows(); i++ {
		if !t.anticommutes(i, px, pz) {
			continue
		}
		exp := coeff
		if t.phase.Test(uint(i)) {
			exp += 2
		}
		for q := 0; q < t.n; q++ {
			pr := pauliFromBits(t.xmat[i].Test(uint(q)), t.zmat[i].Test(uint(q)))
			exp = (exp + mulExp[p.Paulis[q]][pr]) % 4
		}
		if exp%2 == 1 {
			return qerror.Wrap(qerror.ErrNotValid, "pauli gadget yields imaginary coefficient")
		}
		t.xmat[i].InPlaceSymmetricDifference(px)
		t.zmat[i].InPlaceSymmetricDifference(pz)
		t.phase.SetTo(uint(i), exp == 2)
	}
	return nil
}

// IsSymplectic checks the binary symplectic form on a 2n-row unitary
// tableau: row i commutes with row j unless {i, j} pair an X row with
// its own Z row.
func (t *SymplecticTableau) IsSymplectic() bool {
	if len(t.xmat) != 2*t.n {
		return false
	}
	for i := 0; i < 2*t.n; i++ {
		for j := i + 1; j < 2*t.n; j++ {
			a := t.xmat[i].Intersection(t.zmat[j]).Count()
			b := t.zmat[i].Intersection(t.xmat[j]).Count()
			anti := (a+b)%2 == 1
			want := j == i+t.n
			if anti != want {
				return false
			}
		}
	}
	return true
}

func (t *SymplecticTableau) String() string {
	var sb strings.Builder
	for i := range t.xmat {
		ps := t.GetPauli(i)
		if ps.Neg {
			sb.WriteString("-")
		} else {
			sb.WriteString("+")
		}
		for _, p := range ps.Paulis {
			sb.WriteString(p.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
