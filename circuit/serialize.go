package circuit

import (
	"bytes"
	"encoding/json"

	"github.com/quivercomp/quiver/expr"
	"github.com/quivercomp/quiver/optype"
	"github.com/quivercomp/quiver/qerror"
	"github.com/quivercomp/quiver/unitid"
)

type jsonCond struct {
	Op    jsonOp `json:"op"`
	Width int    `json:"width"`
	Value int    `json:"value"`
}

type jsonOp struct {
	Type        string    `json:"type"`
	Params      []string  `json:"params,omitempty"`
	Conditional *jsonCond `json:"conditional,omitempty"`
}

type jsonCommand struct {
	Op   jsonOp          `json:"op"`
	Args []unitid.UnitID `json:"args"`
}

type jsonCircuit struct {
	Name     string          `json:"name,omitempty"`
	Phase    string          `json:"phase"`
	Qubits   []unitid.UnitID `json:"qubits"`
	Bits     []unitid.UnitID `json:"bits"`
	Commands []jsonCommand   `json:"commands"`
}

func encodeOp(op optype.Op) jsonOp {
	j := jsonOp{Type: op.Type.String()}
	for _, p := range op.Params {
		j.Params = append(j.Params, p.String())
	}
	if op.Type == optype.Conditional {
		inner := encodeOp(*op.Inner)
		j.Conditional = &jsonCond{Op: inner, Width: op.Width, Value: op.Value}
	}
	return j
}

func decodeOp(j jsonOp) (optype.Op, error) {
	t, ok := optype.FromName(j.Type)
	if !ok {
		return optype.Op{}, qerror.Wrap(qerror.ErrNotImplemented, "unknown op type %q", j.Type)
	}
	op := optype.Op{Type: t}
	for _, s := range j.Params {
		p, err := expr.Parse(s)
		if err != nil {
			return optype.Op{}, err
		}
		op.Params = append(op.Params, p)
	}
	if t == optype.Conditional {
		if j.Conditional == nil {
			return optype.Op{}, qerror.Wrap(qerror.ErrNotValid, "conditional op without condition")
		}
		inner, err := decodeOp(j.Conditional.Op)
		if err != nil {
			return optype.Op{}, err
		}
		op.Inner = &inner
		op.Width = j.Conditional.Width
		op.Value = j.Conditional.Value
	}
	return op, nil
}

// MarshalJSON encodes the circuit in its canonical linearization.
func (c *Circuit) MarshalJSON() ([]byte, error) {
	cmds, err := c.Commands()
	if err != nil {
		return nil, err
	}
	j := jsonCircuit{
		Name:     c.Name,
		Phase:    c.phase.String(),
		Qubits:   c.Qubits(),
		Bits:     c.Bits(),
		Commands: []jsonCommand{},
	}
	if j.Qubits == nil {
		j.Qubits = []unitid.UnitID{}
	}
	if j.Bits == nil {
		j.Bits = []unitid.UnitID{}
	}
	for _, cmd := range cmds {
		j.Commands = append(j.Commands, jsonCommand{Op: encodeOp(cmd.Op), Args: cmd.Args})
	}
	return json.Marshal(j)
}

// UnmarshalJSON rebuilds a circuit, rejecting unknown fields.
func (c *Circuit) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var j jsonCircuit
	if err := dec.Decode(&j); err != nil {
		return err
	}
	nc := New()
	nc.Name = j.Name
	for _, q := range j.Qubits {
		if err := nc.AddQubit(q); err != nil {
			return err
		}
	}
	for _, b := range j.Bits {
		if err := nc.AddBit(b); err != nil {
			return err
		}
	}
	for _, cmd := range j.Commands {
		op, err := decodeOp(cmd.Op)
		if err != nil {
			return err
		}
		if _, err := nc.AddOp(op, cmd.Args...); err != nil {
			return err
		}
	}
	phase, err := expr.Parse(j.Phase)
	if err != nil {
		return err
	}
	nc.phase = phase
	*c = *nc
	return nil
}
