package expr

import "math/big"

// Term is a symbol scaled by a rational coefficient. A normalized
// Expression never holds a term with a zero coefficient.
type Term struct {
	Sym   string
	Coeff *big.Rat
}

func newTerm(sym string, coeff *big.Rat) Term {
	return Term{Sym: sym, Coeff: new(big.Rat).Set(coeff)}
}

func (t Term) clone() Term {
	return Term{Sym: t.Sym, Coeff: new(big.Rat).Set(t.Coeff)}
}

func (t Term) HashCode() uint64 {
	x := hashString(t.Coeff.RatString()) * 998244353
	x ^= hashString(t.Sym) * 1000000007
	return x
}

func hashString(s string) uint64 {
	var x uint64 = 5381
	for i := 0; i < len(s); i++ {
		x = x*131 + uint64(s[i])
	}
	return x
}
