package wfst

import (
	"bytes"
	"encoding/gob"
)

// This file implements the Serializable capability (fst.go) for VectorFst:
// a Go-native encoding good enough for caching a frozen WFST in memory or
// across a process boundary that both ends run this package. The binary
// WFST interchange format named in spec.md §6 is explicitly out of scope
// (§1); what remains in scope is the capability itself. Grounded directly
// on hashed.go/sorted.go's MarshalBinary/UnmarshalBinary pair: same
// gob.NewEncoder(&buf) / gob.NewDecoder(bytes.NewReader(data)) shape,
// generalized from "vocab, bos, eos, transitions" to "symbol tables, start,
// properties, per-state final weight and transitions" (DESIGN.md).

// wireState mirrors vectorState but with exported fields, since gob only
// encodes exported struct fields and vectorState's are kept unexported to
// preserve VectorFst's encapsulation.
type wireState[W Weight[W]] struct {
	Final    W
	FinalSet bool
	Trs      []Tr[W]
}

// wireFst is the exact shape MarshalBinary writes and UnmarshalBinary reads.
type wireFst[W Weight[W]] struct {
	Start  StateId
	Props  FstProperties
	ISyms  *SymbolTable
	OSyms  *SymbolTable
	States []wireState[W]
}

var _ Serializable = (*VectorFst[TropicalWeight])(nil)

// MarshalBinary gob-encodes f in its entirety: start state, committed
// properties, both symbol tables (nil-safe via gob's nil-pointer handling),
// and every state's final weight and transitions.
func (f *VectorFst[W]) MarshalBinary() ([]byte, error) {
	wire := wireFst[W]{
		Start:  f.start,
		Props:  f.props,
		ISyms:  f.isyms,
		OSyms:  f.osyms,
		States: make([]wireState[W], len(f.states)),
	}
	for i, st := range f.states {
		wire.States[i] = wireState[W]{Final: st.final, FinalSet: st.finalSet, Trs: st.trs}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&wire); err != nil {
		return nil, newErr("MarshalBinary", InvalidInput, "%v", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces f's contents with the decoded wire data,
// discarding whatever f held before (mirrors hashed.go's UnmarshalBinary
// overwriting m in place).
func (f *VectorFst[W]) UnmarshalBinary(data []byte) error {
	var wire wireFst[W]
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return newErr("UnmarshalBinary", InvalidInput, "%v", err)
	}
	f.start = wire.Start
	f.props = wire.Props
	f.isyms = wire.ISyms
	f.osyms = wire.OSyms
	f.states = make([]vectorState[W], len(wire.States))
	for i, st := range wire.States {
		f.states[i] = vectorState[W]{final: st.Final, finalSet: st.FinalSet, trs: st.Trs}
	}
	return nil
}
