// Package unitid names the resources a circuit acts on: qubits,
// classical bits and architecture nodes. A UnitID is a register name
// plus a multi-dimensional index, ordered lexicographically so that
// iteration over units is deterministic everywhere.
package unitid

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/quivercomp/quiver/qerror"
)

const (
	// DefaultQubitReg is the register qubits are created in.
	DefaultQubitReg = "q"
	// DefaultBitReg is the register classical bits are created in.
	DefaultBitReg = "c"
	// DefaultNodeReg is the register architecture nodes are created in.
	DefaultNodeReg = "node"
)

// UnitID identifies one wire or node. Index may have any number of
// dimensions; grid nodes use three.
type UnitID struct {
	Reg   string
	Index []int
}

// Qubit returns q[index].
func Qubit(index int) UnitID {
	return UnitID{Reg: DefaultQubitReg, Index: []int{index}}
}

// Bit returns c[index].
func Bit(index int) UnitID {
	return UnitID{Reg: DefaultBitReg, Index: []int{index}}
}

// Node returns node[index].
func Node(index int) UnitID {
	return UnitID{Reg: DefaultNodeReg, Index: []int{index}}
}

// New returns reg[index...].
func New(reg string, index ...int) UnitID {
	return UnitID{Reg: reg, Index: index}
}

func (u UnitID) String() string {
	var sb strings.Builder
	sb.WriteString(u.Reg)
	for _, i := range u.Index {
		fmt.Fprintf(&sb, "[%d]", i)
	}
	return sb.String()
}

// Cmp orders by register name, then index lexicographically, shorter
// index first.
func (u UnitID) Cmp(o UnitID) int {
	if u.Reg != o.Reg {
		if u.Reg < o.Reg {
			return -1
		}
		return 1
	}
	for i := 0; i < len(u.Index) && i < len(o.Index); i++ {
		if u.Index[i] != o.Index[i] {
			if u.Index[i] < o.Index[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(u.Index) < len(o.Index):
		return -1
	case len(u.Index) > len(o.Index):
		return 1
	}
	return 0
}

// Less reports u < o under Cmp.
func (u UnitID) Less(o UnitID) bool {
	return u.Cmp(o) < 0
}

// Equal reports u == o.
func (u UnitID) Equal(o UnitID) bool {
	return u.Cmp(o) == 0
}

// Key returns a map-friendly identity for u.
func (u UnitID) Key() string {
	return u.String()
}

// MarshalJSON encodes as ["reg", [i, j, ...]].
func (u UnitID) MarshalJSON() ([]byte, error) {
	idx := u.Index
	if idx == nil {
		idx = []int{}
	}
	return json.Marshal([]interface{}{u.Reg, idx})
}

// UnmarshalJSON decodes the ["reg", [i, j, ...]] form.
func (u *UnitID) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return qerror.Wrap(qerror.ErrNotValid, "unit id must be a [register, index] pair")
	}
	if err := json.Unmarshal(raw[0], &u.Reg); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &u.Index)
}

// Sort orders units in place under Cmp.
func Sort(units []UnitID) {
	sort.Slice(units, func(i, j int) bool { return units[i].Less(units[j]) })
}
