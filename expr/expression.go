// Package expr implements exact symbolic angle expressions.
//
// Angles are measured in half-turns, so the constant 1 stands for a
// rotation by pi. An Expression is a rational constant plus a sum of
// rationally-scaled symbols, kept sorted by symbol name so that equal
// expressions are structurally identical.
package expr

import (
	"math/big"
	"sort"
	"strings"

	"github.com/quivercomp/quiver/qerror"
)

// Expression is an immutable angle expression. The zero value is the
// constant 0.
type Expression struct {
	terms []Term // sorted by Sym, unique, no zero coefficients
	cnst  *big.Rat
}

var ratZero = new(big.Rat)

// Zero returns the constant 0.
func Zero() Expression {
	return Expression{}
}

// FromInt returns the constant n.
func FromInt(n int64) Expression {
	return Expression{cnst: new(big.Rat).SetInt64(n)}
}

// FromRat returns the constant num/den.
func FromRat(num, den int64) Expression {
	return Expression{cnst: big.NewRat(num, den)}
}

// FromBigRat returns the constant r.
func FromBigRat(r *big.Rat) Expression {
	return Expression{cnst: new(big.Rat).Set(r)}
}

// FromFloat returns the exact rational value of f.
func FromFloat(f float64) Expression {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic("expr: non-finite float")
	}
	return Expression{cnst: r}
}

// Symbol returns the free symbol with the given name.
func Symbol(name string) Expression {
	return Expression{
		terms: []Term{newTerm(name, big.NewRat(1, 1))},
		cnst:  new(big.Rat),
	}
}

func (e Expression) constant() *big.Rat {
	if e.cnst == nil {
		return ratZero
	}
	return e.cnst
}

// Terms returns a copy of the symbolic terms.
func (e Expression) Terms() []Term {
	res := make([]Term, len(e.terms))
	for i, t := range e.terms {
		res[i] = t.clone()
	}
	return res
}

func (e Expression) normalize() Expression {
	terms := e.terms[:0:0]
	for _, t := range e.terms {
		if t.Coeff.Sign() != 0 {
			terms = append(terms, t)
		}
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Sym < terms[j].Sym })
	e.terms = terms
	return e
}

// Add returns e + o.
func (e Expression) Add(o Expression) Expression {
	res := Expression{cnst: new(big.Rat).Add(e.constant(), o.constant())}
	merged := map[string]*big.Rat{}
	order := []string{}
	for _, t := range append(e.Terms(), o.Terms()...) {
		if c, ok := merged[t.Sym]; ok {
			c.Add(c, t.Coeff)
		} else {
			merged[t.Sym] = t.Coeff
			order = append(order, t.Sym)
		}
	}
	for _, sym := range order {
		res.terms = append(res.terms, Term{Sym: sym, Coeff: merged[sym]})
	}
	return res.normalize()
}

// Sub returns e - o.
func (e Expression) Sub(o Expression) Expression {
	return e.Add(o.Neg())
}

// Neg returns -e.
func (e Expression) Neg() Expression {
	return e.MulRat(big.NewRat(-1, 1))
}

// MulInt returns n * e.
func (e Expression) MulInt(n int64) Expression {
	return e.MulRat(new(big.Rat).SetInt64(n))
}

// DivInt returns e / n.
func (e Expression) DivInt(n int64) Expression {
	return e.MulRat(big.NewRat(1, n))
}

// MulRat returns r * e.
func (e Expression) MulRat(r *big.Rat) Expression {
	res := Expression{cnst: new(big.Rat).Mul(e.constant(), r)}
	for _, t := range e.terms {
		res.terms = append(res.terms, Term{Sym: t.Sym, Coeff: new(big.Rat).Mul(t.Coeff, r)})
	}
	return res.normalize()
}

// IsConstant reports whether e has no free symbols.
func (e Expression) IsConstant() bool {
	return len(e.terms) == 0
}

// Constant returns the value of e if it has no free symbols.
func (e Expression) Constant() (*big.Rat, bool) {
	if !e.IsConstant() {
		return nil, false
	}
	return new(big.Rat).Set(e.constant()), true
}

// IsZero reports whether e is the constant 0.
func (e Expression) IsZero() bool {
	return e.IsConstant() && e.constant().Sign() == 0
}

// Equal reports structural equality.
func (e Expression) Equal(o Expression) bool {
	if e.constant().Cmp(o.constant()) != 0 || len(e.terms) != len(o.terms) {
		return false
	}
	for i := range e.terms {
		if e.terms[i].Sym != o.terms[i].Sym || e.terms[i].Coeff.Cmp(o.terms[i].Coeff) != 0 {
			return false
		}
	}
	return true
}

// EquivalentMod reports whether e - o is an integer multiple of n.
// Symbolic expressions are equivalent only when structurally equal.
func (e Expression) EquivalentMod(o Expression, n int64) bool {
	d := e.Sub(o)
	if !d.IsConstant() {
		return e.Equal(o)
	}
	q := new(big.Rat).Mul(d.constant(), big.NewRat(1, n))
	return q.IsInt()
}

// Eval substitutes the binding into e and returns the value in
// half-turns. Unbound symbols yield ErrSymbolic.
func (e Expression) Eval(binding map[string]float64) (float64, error) {
	v, _ := e.constant().Float64()
	for _, t := range e.terms {
		b, ok := binding[t.Sym]
		if !ok {
			return 0, qerror.Wrap(qerror.ErrSymbolic, "unbound symbol %q", t.Sym)
		}
		c, _ := t.Coeff.Float64()
		v += c * b
	}
	return v, nil
}

// Subs substitutes expressions for symbols, leaving unbound symbols in
// place.
func (e Expression) Subs(binding map[string]Expression) Expression {
	res := Expression{cnst: new(big.Rat).Set(e.constant())}
	out := res
	for _, t := range e.terms {
		if b, ok := binding[t.Sym]; ok {
			out = out.Add(b.MulRat(t.Coeff))
		} else {
			out = out.Add(Expression{terms: []Term{t.clone()}, cnst: new(big.Rat)})
		}
	}
	return out
}

func (e Expression) String() string {
	var sb strings.Builder
	for i, t := range e.terms {
		neg := t.Coeff.Sign() < 0
		abs := new(big.Rat).Abs(t.Coeff)
		if i == 0 {
			if neg {
				sb.WriteString("-")
			}
		} else if neg {
			sb.WriteString(" - ")
		} else {
			sb.WriteString(" + ")
		}
		if abs.Cmp(big.NewRat(1, 1)) != 0 {
			sb.WriteString(abs.RatString())
			sb.WriteString("*")
		}
		sb.WriteString(t.Sym)
	}
	c := e.constant()
	if c.Sign() != 0 || len(e.terms) == 0 {
		if len(e.terms) > 0 {
			if c.Sign() < 0 {
				sb.WriteString(" - ")
				sb.WriteString(new(big.Rat).Abs(c).RatString())
			} else {
				sb.WriteString(" + ")
				sb.WriteString(c.RatString())
			}
		} else {
			sb.WriteString(c.RatString())
		}
	}
	return sb.String()
}

// Parse reads an expression in the syntax produced by String: terms
// separated by + or -, each a rational constant, a symbol, or
// rational*symbol. Decimal constants are accepted.
func Parse(s string) (Expression, error) {
	res := Zero()
	s = strings.TrimSpace(s)
	if s == "" {
		return res, nil
	}
	sign := int64(1)
	if s[0] == '-' {
		sign = -1
		s = s[1:]
	} else if s[0] == '+' {
		s = s[1:]
	}
	for {
		s = strings.TrimSpace(s)
		end := len(s)
		next := int64(0)
		for i := 0; i < len(s); i++ {
			if (s[i] == '+' || s[i] == '-') && i > 0 && s[i-1] != '/' && s[i-1] != '*' && s[i-1] != 'e' && s[i-1] != 'E' {
				end = i
				if s[i] == '-' {
					next = -1
				} else {
					next = 1
				}
				break
			}
		}
		term, err := parseTerm(strings.TrimSpace(s[:end]))
		if err != nil {
			return Zero(), err
		}
		res = res.Add(term.MulInt(sign))
		if end == len(s) {
			return res, nil
		}
		sign = next
		s = s[end+1:]
	}
}

func parseTerm(s string) (Expression, error) {
	if s == "" {
		return Zero(), qerror.Wrap(qerror.ErrNotValid, "empty term")
	}
	coeff := big.NewRat(1, 1)
	sym := s
	if i := strings.Index(s, "*"); i >= 0 {
		if _, ok := coeff.SetString(strings.TrimSpace(s[:i])); !ok {
			return Zero(), qerror.Wrap(qerror.ErrNotValid, "bad coefficient %q", s[:i])
		}
		sym = strings.TrimSpace(s[i+1:])
	} else if c, ok := new(big.Rat).SetString(s); ok {
		return FromBigRat(c), nil
	}
	for i := 0; i < len(sym); i++ {
		ch := sym[i]
		alpha := ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		digit := ch >= '0' && ch <= '9'
		if !(alpha || (i > 0 && digit)) {
			return Zero(), qerror.Wrap(qerror.ErrNotValid, "bad symbol %q", sym)
		}
	}
	return Symbol(sym).MulRat(coeff), nil
}

// HashCode returns a fast, non-cryptographic hash. Requires the usual
// sorted normal form, which all constructors maintain.
func (e Expression) HashCode() uint64 {
	h := uint64(17)
	for _, t := range e.terms {
		h = h*23 + t.HashCode()
	}
	h = h*23 + hashString(e.constant().RatString())
	return h
}

// EqualI is Equal against a Hashable, so Expressions can key a Map.
func (e Expression) EqualI(o Hashable) bool {
	oe, ok := o.(Expression)
	return ok && e.Equal(oe)
}
