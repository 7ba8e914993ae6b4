// Package qerror defines the error kinds shared across the toolkit.
//
// Every failure surfaced by the circuit, tableau, transform and
// architecture packages wraps one of these sentinels, so callers can
// dispatch on errors.Is without parsing messages.
package qerror

import "github.com/pkg/errors"

var (
	// ErrCircuitInvalidity reports a malformed circuit: duplicate unit
	// arguments, arity mismatches, or a broken wire structure.
	ErrCircuitInvalidity = errors.New("circuit invalidity")

	// ErrNotValid reports an operation applied to data that cannot
	// represent it, e.g. a non-Clifford gate pushed through a tableau
	// or a Pauli product with an imaginary coefficient.
	ErrNotValid = errors.New("not valid")

	// ErrNotImplemented reports a gate or conversion with no known
	// decomposition.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidVertex reports a vertex whose wiring does not match
	// its operation, such as a detached vertex reached by a pass.
	ErrInvalidVertex = errors.New("invalid vertex")

	// ErrMissingUnit reports a UnitID absent from the circuit or
	// architecture it was looked up in.
	ErrMissingUnit = errors.New("missing unit")

	// ErrNoSuchLines reports that an architecture cannot supply the
	// requested set of disjoint lines.
	ErrNoSuchLines = errors.New("no such lines")

	// ErrArchitectureInvalidity reports an architecture operation on
	// an empty or ill-formed coupling graph.
	ErrArchitectureInvalidity = errors.New("architecture invalidity")

	// ErrNotCliffordGate reports a gate outside the tableau gate set.
	ErrNotCliffordGate = errors.New("not a clifford gate")

	// ErrSymbolic reports a symbolic expression reaching a boundary
	// that requires a numeric value.
	ErrSymbolic = errors.New("symbolic value")
)

// Wrap annotates a sentinel with a formatted message, keeping the
// sentinel visible to errors.Is.
func Wrap(kind error, format string, args ...interface{}) error {
	return errors.Wrapf(kind, format, args...)
}
