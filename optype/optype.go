// Package optype enumerates the gate catalog and static gate metadata.
package optype

// OpType identifies a primitive operation.
type OpType uint8

const (
	Noop OpType = iota
	Barrier

	X
	Y
	Z
	H
	S
	Sdg
	T
	Tdg
	V
	Vdg
	SX
	SXdg
	Rx
	Ry
	Rz
	U1
	U2
	U3
	TK1
	PhasedX

	Measure
	Collapse
	Reset

	CX
	CY
	CZ
	CH
	CV
	CVdg
	CSX
	CSXdg
	CRx
	CRy
	CRz
	CU1
	CU3
	SWAP
	ECR
	ISWAP
	ISWAPMax
	PhasedISWAP
	XXPhase
	YYPhase
	ZZPhase
	ZZMax
	ESWAP
	FSim
	Sycamore

	CCX
	CSWAP
	BRIDGE
	XXPhase3

	CnX
	CnRy
	PhaseGadget

	Conditional

	numOpTypes
)

type opInfo struct {
	name     string
	nQubits  int // -1 for variable arity
	nBits    int
	nParams  int
	clifford bool // member of the tableau gate set
}

var infos = [numOpTypes]opInfo{
	Noop:        {name: "noop", nQubits: 1, clifford: true},
	Barrier:     {name: "Barrier", nQubits: -1},
	X:           {name: "X", nQubits: 1, clifford: true},
	Y:           {name: "Y", nQubits: 1, clifford: true},
	Z:           {name: "Z", nQubits: 1, clifford: true},
	H:           {name: "H", nQubits: 1, clifford: true},
	S:           {name: "S", nQubits: 1, clifford: true},
	Sdg:         {name: "Sdg", nQubits: 1, clifford: true},
	T:           {name: "T", nQubits: 1},
	Tdg:         {name: "Tdg", nQubits: 1},
	V:           {name: "V", nQubits: 1, clifford: true},
	Vdg:         {name: "Vdg", nQubits: 1, clifford: true},
	SX:          {name: "SX", nQubits: 1},
	SXdg:        {name: "SXdg", nQubits: 1},
	Rx:          {name: "Rx", nQubits: 1, nParams: 1},
	Ry:          {name: "Ry", nQubits: 1, nParams: 1},
	Rz:          {name: "Rz", nQubits: 1, nParams: 1},
	U1:          {name: "U1", nQubits: 1, nParams: 1},
	U2:          {name: "U2", nQubits: 1, nParams: 2},
	U3:          {name: "U3", nQubits: 1, nParams: 3},
	TK1:         {name: "tk1", nQubits: 1, nParams: 3},
	PhasedX:     {name: "PhasedX", nQubits: 1, nParams: 2},
	Measure:     {name: "Measure", nQubits: 1, nBits: 1},
	Collapse:    {name: "Collapse", nQubits: 1},
	Reset:       {name: "Reset", nQubits: 1},
	CX:          {name: "CX", nQubits: 2, clifford: true},
	CY:          {name: "CY", nQubits: 2, clifford: true},
	CZ:          {name: "CZ", nQubits: 2, clifford: true},
	CH:          {name: "CH", nQubits: 2},
	CV:          {name: "CV", nQubits: 2},
	CVdg:        {name: "CVdg", nQubits: 2},
	CSX:         {name: "CSX", nQubits: 2},
	CSXdg:       {name: "CSXdg", nQubits: 2},
	CRx:         {name: "CRx", nQubits: 2, nParams: 1},
	CRy:         {name: "CRy", nQubits: 2, nParams: 1},
	CRz:         {name: "CRz", nQubits: 2, nParams: 1},
	CU1:         {name: "CU1", nQubits: 2, nParams: 1},
	CU3:         {name: "CU3", nQubits: 2, nParams: 3},
	SWAP:        {name: "SWAP", nQubits: 2, clifford: true},
	ECR:         {name: "ECR", nQubits: 2},
	ISWAP:       {name: "ISWAP", nQubits: 2, nParams: 1},
	ISWAPMax:    {name: "ISWAPMax", nQubits: 2},
	PhasedISWAP: {name: "PhasedISWAP", nQubits: 2, nParams: 2},
	XXPhase:     {name: "XXPhase", nQubits: 2, nParams: 1},
	YYPhase:     {name: "YYPhase", nQubits: 2, nParams: 1},
	ZZPhase:     {name: "ZZPhase", nQubits: 2, nParams: 1},
	ZZMax:       {name: "ZZMax", nQubits: 2},
	ESWAP:       {name: "ESWAP", nQubits: 2, nParams: 1},
	FSim:        {name: "FSim", nQubits: 2, nParams: 2},
	Sycamore:    {name: "Sycamore", nQubits: 2},
	CCX:         {name: "CCX", nQubits: 3},
	CSWAP:       {name: "CSWAP", nQubits: 3},
	BRIDGE:      {name: "BRIDGE", nQubits: 3, clifford: true},
	XXPhase3:    {name: "XXPhase3", nQubits: 3, nParams: 1},
	CnX:         {name: "CnX", nQubits: -1},
	CnRy:        {name: "CnRy", nQubits: -1, nParams: 1},
	PhaseGadget: {name: "PhaseGadget", nQubits: -1, nParams: 1},
	Conditional: {name: "Conditional", nQubits: -1},
}

func (t OpType) String() string {
	if int(t) >= len(infos) || infos[t].name == "" {
		return "unknown"
	}
	return infos[t].name
}

// NumQubits returns the fixed quantum arity, or -1 when variable.
func (t OpType) NumQubits() int { return infos[t].nQubits }

// NumBits returns the classical arity.
func (t OpType) NumBits() int { return infos[t].nBits }

// NumParams returns the number of angle parameters.
func (t OpType) NumParams() int { return infos[t].nParams }

// IsClifford reports membership in the tableau gate set. Parametrised
// gates are never members, whatever their angles.
func (t OpType) IsClifford() bool { return infos[t].clifford }

// FromName resolves a catalog name back to its OpType.
func FromName(name string) (OpType, bool) {
	t, ok := byName[name]
	return t, ok
}

var byName = func() map[string]OpType {
	m := make(map[string]OpType, numOpTypes)
	for t := OpType(0); t < numOpTypes; t++ {
		if infos[t].name != "" {
			m[infos[t].name] = t
		}
	}
	return m
}()
