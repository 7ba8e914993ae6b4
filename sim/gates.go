package sim

import (
	"math"
	"math/cmplx"

	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
)

// Gate matrices are dense row-major over the 2^k basis states of the gate's
// arguments, first argument most significant.

func kron(a []complex128, da int, b []complex128, db int) []complex128 {
	d := da * db
	out := make([]complex128, d*d)
	for i := 0; i < da; i++ {
		for j := 0; j < da; j++ {
			for k := 0; k < db; k++ {
				for l := 0; l < db; l++ {
					out[(i*db+k)*d+j*db+l] = a[i*da+j] * b[k*db+l]
				}
			}
		}
	}
	return out
}

func matMul(a, b []complex128, d int) []complex128 {
	out := make([]complex128, d*d)
	for i := 0; i < d; i++ {
		for k := 0; k < d; k++ {
			if a[i*d+k] == 0 {
				continue
			}
			for j := 0; j < d; j++ {
				out[i*d+j] += a[i*d+k] * b[k*d+j]
			}
		}
	}
	return out
}

func addScaled(a []complex128, ca complex128, b []complex128, cb complex128) []complex128 {
	out := make([]complex128, len(a))
	for i := range a {
		out[i] = ca*a[i] + cb*b[i]
	}
	return out
}

func scaled(a []complex128, c complex128) []complex128 {
	out := make([]complex128, len(a))
	for i := range a {
		out[i] = c * a[i]
	}
	return out
}

// controlled extends a d-dimensional matrix with a fresh most-significant
// control qubit.
func controlled(m []complex128, d int) []complex128 {
	out := make([]complex128, 4*d*d)
	for i := 0; i < d; i++ {
		out[i*2*d+i] = 1
	}
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			out[(d+i)*2*d+(d+j)] = m[i*d+j]
		}
	}
	return out
}

func identity(d int) []complex128 {
	out := make([]complex128, d*d)
	for i := 0; i < d; i++ {
		out[i*d+i] = 1
	}
	return out
}

var (
	matX = []complex128{0, 1, 1, 0}
	matY = []complex128{0, complex(0, -1), complex(0, 1), 0}
	matZ = []complex128{1, 0, 0, -1}
	matH = []complex128{s2, s2, s2, -s2}
	matS = []complex128{1, 0, 0, complex(0, 1)}
)

const s2 = complex(1/math.Sqrt2, 0)

func phasor(halfTurns float64) complex128 {
	return cmplx.Exp(complex(0, math.Pi*halfTurns))
}

// Angles are half-turns throughout, matching the circuit parameter
// convention.

func matRx(a float64) []complex128 {
	th := math.Pi * a / 2
	c := complex(math.Cos(th), 0)
	s := complex(0, -math.Sin(th))
	return []complex128{c, s, s, c}
}

func matRy(a float64) []complex128 {
	th := math.Pi * a / 2
	c := complex(math.Cos(th), 0)
	s := complex(math.Sin(th), 0)
	return []complex128{c, -s, s, c}
}

func matRz(a float64) []complex128 {
	return []complex128{phasor(-a / 2), 0, 0, phasor(a / 2)}
}

func matU1(a float64) []complex128 {
	return []complex128{1, 0, 0, phasor(a)}
}

func matU3(t, f, l float64) []complex128 {
	th := math.Pi * t / 2
	c := complex(math.Cos(th), 0)
	s := complex(math.Sin(th), 0)
	return []complex128{c, -phasor(l) * s, phasor(f) * s, phasor(f+l) * c}
}

func matTK1(a, b, c float64) []complex128 {
	return matMul(matRz(a), matMul(matRx(b), matRz(c), 2), 2)
}

func matPhasedX(t, f float64) []complex128 {
	return matMul(matRz(f), matMul(matRx(t), matRz(-f), 2), 2)
}

var matSWAP = []complex128{
	1, 0, 0, 0,
	0, 0, 1, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

// ECR = (1/sqrt2)(IX - XY).
func matECR() []complex128 {
	return addScaled(kron(identity(2), 2, matX, 2), s2, kron(matX, 2, matY, 2), -s2)
}

func matISWAP(a float64) []complex128 {
	al := math.Pi * a / 2
	c := complex(math.Cos(al), 0)
	s := complex(0, math.Sin(al))
	return []complex128{
		1, 0, 0, 0,
		0, c, s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

func matPhasedISWAP(p, t float64) []complex128 {
	al := math.Pi * t / 2
	c := complex(math.Cos(al), 0)
	s := complex(0, math.Sin(al))
	return []complex128{
		1, 0, 0, 0,
		0, c, s * phasor(-2*p), 0,
		0, s * phasor(2*p), c, 0,
		0, 0, 0, 1,
	}
}

// mat2Phase is exp(-i pi a/2 P) for an involutory two-qubit Pauli P.
func mat2Phase(p []complex128, a float64) []complex128 {
	th := math.Pi * a / 2
	return addScaled(identity(4), complex(math.Cos(th), 0), p, complex(0, -math.Sin(th)))
}

func matXXPhase(a float64) []complex128 {
	return mat2Phase(kron(matX, 2, matX, 2), a)
}

func matYYPhase(a float64) []complex128 {
	return mat2Phase(kron(matY, 2, matY, 2), a)
}

func matZZPhase(a float64) []complex128 {
	return mat2Phase(kron(matZ, 2, matZ, 2), a)
}

func matESWAP(a float64) []complex128 {
	return mat2Phase(matSWAP, a)
}

func matFSim(a, b float64) []complex128 {
	al := math.Pi * a
	c := complex(math.Cos(al), 0)
	s := complex(0, -math.Sin(al))
	return []complex128{
		1, 0, 0, 0,
		0, c, s, 0,
		0, s, c, 0,
		0, 0, 0, phasor(-b),
	}
}

func evalParams(op optype.Op) ([]float64, error) {
	ps := make([]float64, len(op.Params))
	for i, e := range op.Params {
		v, err := e.Eval(nil)
		if err != nil {
			return nil, err
		}
		ps[i] = v
	}
	return ps, nil
}

// gateMatrix builds the dense matrix for a fixed-arity unitary gate.
func gateMatrix(op optype.Op) ([]complex128, error) {
	ps, err := evalParams(op)
	if err != nil {
		return nil, err
	}
	switch op.Type {
	case optype.X:
		return matX, nil
	case optype.Y:
		return matY, nil
	case optype.Z:
		return matZ, nil
	case optype.H:
		return matH, nil
	case optype.S:
		return matS, nil
	case optype.Sdg:
		return matU1(-0.5), nil
	case optype.T:
		return matU1(0.25), nil
	case optype.Tdg:
		return matU1(-0.25), nil
	case optype.V:
		return matRx(0.5), nil
	case optype.Vdg:
		return matRx(-0.5), nil
	case optype.SX:
		return scaled(matRx(0.5), phasor(0.25)), nil
	case optype.SXdg:
		return scaled(matRx(-0.5), phasor(-0.25)), nil
	case optype.Rx:
		return matRx(ps[0]), nil
	case optype.Ry:
		return matRy(ps[0]), nil
	case optype.Rz:
		return matRz(ps[0]), nil
	case optype.U1:
		return matU1(ps[0]), nil
	case optype.U2:
		return matU3(0.5, ps[0], ps[1]), nil
	case optype.U3:
		return matU3(ps[0], ps[1], ps[2]), nil
	case optype.TK1:
		return matTK1(ps[0], ps[1], ps[2]), nil
	case optype.PhasedX:
		return matPhasedX(ps[0], ps[1]), nil
	case optype.CX:
		return controlled(matX, 2), nil
	case optype.CY:
		return controlled(matY, 2), nil
	case optype.CZ:
		return controlled(matZ, 2), nil
	case optype.CH:
		return controlled(matH, 2), nil
	case optype.CV:
		return controlled(matRx(0.5), 2), nil
	case optype.CVdg:
		return controlled(matRx(-0.5), 2), nil
	case optype.CSX:
		return controlled(scaled(matRx(0.5), phasor(0.25)), 2), nil
	case optype.CSXdg:
		return controlled(scaled(matRx(-0.5), phasor(-0.25)), 2), nil
	case optype.CRx:
		return controlled(matRx(ps[0]), 2), nil
	case optype.CRy:
		return controlled(matRy(ps[0]), 2), nil
	case optype.CRz:
		return controlled(matRz(ps[0]), 2), nil
	case optype.CU1:
		return controlled(matU1(ps[0]), 2), nil
	case optype.CU3:
		return controlled(matU3(ps[0], ps[1], ps[2]), 2), nil
	case optype.SWAP:
		return matSWAP, nil
	case optype.ECR:
		return matECR(), nil
	case optype.ISWAP:
		return matISWAP(ps[0]), nil
	case optype.ISWAPMax:
		return matISWAP(1), nil
	case optype.PhasedISWAP:
		return matPhasedISWAP(ps[0], ps[1]), nil
	case optype.XXPhase:
		return matXXPhase(ps[0]), nil
	case optype.YYPhase:
		return matYYPhase(ps[0]), nil
	case optype.ZZPhase:
		return matZZPhase(ps[0]), nil
	case optype.ZZMax:
		return matZZPhase(0.5), nil
	case optype.ESWAP:
		return matESWAP(ps[0]), nil
	case optype.FSim:
		return matFSim(ps[0], ps[1]), nil
	case optype.Sycamore:
		return matFSim(0.5, 1.0/6), nil
	case optype.CCX:
		return controlled(controlled(matX, 2), 4), nil
	case optype.CSWAP:
		return controlled(matSWAP, 4), nil
	}
	return nil, qerror.Wrap(qerror.ErrNotImplemented, "no matrix for %s", op.Name())
}
