// Package tableau implements symplectic and unitary tableaux over the
// Pauli group, the binary representation of Clifford circuits.
package tableau

import (
	"sort"
	"strings"

	"github.com/quivercomp/quiver/qerror"
	"github.com/quivercomp/quiver/unitid"
)

// Pauli is a single-qubit Pauli letter.
type Pauli uint8

const (
	I Pauli = iota
	X
	Y
	Z
)

func (p Pauli) String() string {
	return [...]string{"I", "X", "Y", "Z"}[p]
}

// mulExp[a][b] is e in a*b = i^e * c, with c = mulRes[a][b].
var mulExp = [4][4]uint8{
	{0, 0, 0, 0},
	{0, 0, 1, 3},
	{0, 3, 0, 1},
	{0, 1, 3, 0},
}

var mulRes = [4][4]Pauli{
	{I, X, Y, Z},
	{X, I, Z, Y},
	{Y, Z, I, X},
	{Z, Y, X, I},
}

func pauliFromBits(x, z bool) Pauli {
	switch {
	case x && z:
		return Y
	case x:
		return X
	case z:
		return Z
	}
	return I
}

func (p Pauli) bits() (x, z bool) {
	return p == X || p == Y, p == Z || p == Y
}

// PauliStabiliser is a Pauli string with a +-1 sign.
type PauliStabiliser struct {
	Paulis []Pauli
	Neg    bool
}

// PauliTerm is one letter of a PauliTensor.
type PauliTerm struct {
	Unit unitid.UnitID
	P    Pauli
}

// PauliTensor is a Pauli string over named qubits with a coefficient
// i^Phase. Identity letters are not stored.
type PauliTensor struct {
	terms []PauliTerm // sorted by unit
	Phase uint8       // exponent of i, mod 4
}

// NewPauliTensor builds a tensor from explicit letters; identities are
// dropped.
func NewPauliTensor(terms []PauliTerm, phase uint8) PauliTensor {
	t := PauliTensor{Phase: phase % 4}
	for _, term := range terms {
		if term.P != I {
			t.terms = append(t.terms, term)
		}
	}
	sort.Slice(t.terms, func(i, j int) bool { return t.terms[i].Unit.Less(t.terms[j].Unit) })
	return t
}

// Get returns the letter at u.
func (t PauliTensor) Get(u unitid.UnitID) Pauli {
	for _, term := range t.terms {
		if term.Unit.Equal(u) {
			return term.P
		}
	}
	return I
}

// Terms returns the non-identity letters in unit order.
func (t PauliTensor) Terms() []PauliTerm {
	return append([]PauliTerm(nil), t.terms...)
}

// Mul returns t * o with the phase tracked through the product table.
func (t PauliTensor) Mul(o PauliTensor) PauliTensor {
	res := PauliTensor{Phase: (t.Phase + o.Phase) % 4}
	i, j := 0, 0
	for i < len(t.terms) || j < len(o.terms) {
		switch {
		case j >= len(o.terms) || (i < len(t.terms) && t.terms[i].Unit.Less(o.terms[j].Unit)):
			res.terms = append(res.terms, t.terms[i])
			i++
		case i >= len(t.terms) || o.terms[j].Unit.Less(t.terms[i].Unit):
			res.terms = append(res.terms, o.terms[j])
			j++
		default:
			a, b := t.terms[i].P, o.terms[j].P
			res.Phase = (res.Phase + mulExp[a][b]) % 4
			if p := mulRes[a][b]; p != I {
				res.terms = append(res.terms, PauliTerm{Unit: t.terms[i].Unit, P: p})
			}
			i++
			j++
		}
	}
	return res
}

// Equal reports structural equality, phase included.
func (t PauliTensor) Equal(o PauliTensor) bool {
	if t.Phase != o.Phase || len(t.terms) != len(o.terms) {
		return false
	}
	for i := range t.terms {
		if t.terms[i].P != o.terms[i].P || !t.terms[i].Unit.Equal(o.terms[i].Unit) {
			return false
		}
	}
	return true
}

// RealSign returns the sign of the coefficient, failing when it is
// imaginary.
func (t PauliTensor) RealSign() (bool, error) {
	switch t.Phase {
	case 0:
		return false, nil
	case 2:
		return true, nil
	}
	return false, qerror.Wrap(qerror.ErrNotValid, "coefficient not real")
}

func (t PauliTensor) String() string {
	var sb strings.Builder
	switch t.Phase {
	case 1:
		sb.WriteString("i*")
	case 2:
		sb.WriteString("-")
	case 3:
		sb.WriteString("-i*")
	}
	if len(t.terms) == 0 {
		sb.WriteString("I")
	}
	for i, term := range t.terms {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(term.P.String())
		sb.WriteString(term.Unit.String())
	}
	return sb.String()
}
