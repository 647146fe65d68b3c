package wfst

import (
	"bytes"
	"encoding/gob"

	"github.com/kho/word"
)

// Label is the integer alphabet a SymbolTable maps strings to and from.
// Label 0 (Epsilon) is reserved for the empty string, as in spec.md §3.
type Label = word.Id

// Epsilon is the reserved label denoting the empty string. Every
// SymbolTable constructed by NewSymbolTable interns epsilonSymbol first so
// that it is always assigned id 0, the same way NewVocab in the teacher's
// earlier generations seeded WORD_UNK/WORD_BOS/WORD_EOS at fixed low ids.
const Epsilon Label = 0

const epsilonSymbol = "<eps>"

// SymbolTable is a bidirectional map between string labels and integer ids,
// reference-shared across WFSTs exactly as spec.md §3 "Ownership" requires:
// composing or copying a WFST must not duplicate the label dictionary.
//
// This wraps github.com/kho/word's Vocab, the same vocabulary library
// basic.go/builder.go/hashed.go/sorted.go moved to in the teacher's third
// generation (superseding the teacher's earlier self-contained Vocab type,
// see DESIGN.md). A *SymbolTable is handed around by pointer the way the
// teacher hands around *word.Vocab, so two WFSTs built from the same symbol
// table share one underlying dictionary until one of them calls Copy.
type SymbolTable struct {
	name  string
	vocab *word.Vocab
}

// NewSymbolTable creates an empty, named symbol table. name is cosmetic
// (returned by Name and kept by Copy and GobEncode/GobDecode) and has no
// effect on ids.
func NewSymbolTable(name string) *SymbolTable {
	t := &SymbolTable{name: name, vocab: word.NewVocab(nil)}
	if id := t.vocab.IdOrAdd(epsilonSymbol); id != Epsilon {
		panic("wfst: symbol table implementation assumes the first interned symbol gets id 0")
	}
	return t
}

// Name returns the symbol table's cosmetic name.
func (t *SymbolTable) Name() string { return t.name }

// Copy returns a new SymbolTable that can be mutated without affecting t,
// mirroring word.Vocab.Copy's copy-on-write contract.
func (t *SymbolTable) Copy() *SymbolTable {
	return &SymbolTable{name: t.name, vocab: t.vocab.Copy()}
}

// Find returns the id of s, and whether s was present. Does not mutate the
// table (cf. AddSymbol).
func (t *SymbolTable) Find(s string) (Label, bool) {
	id := t.vocab.IdOf(s)
	if id == word.NIL {
		return 0, false
	}
	return id, true
}

// AddSymbol interns s, returning its id. Calling this concurrently with any
// other SymbolTable method on the same table is not safe; see spec.md §5.
func (t *SymbolTable) AddSymbol(s string) Label {
	return t.vocab.IdOrAdd(s)
}

// Symbol returns the string for id. Panics if id was never produced by Find
// or AddSymbol on this table (or a table it was copied from), matching
// word.Vocab.StringOf's contract.
func (t *SymbolTable) Symbol(id Label) string {
	return t.vocab.StringOf(id)
}

// Len returns the number of interned symbols, including any reserved
// epsilon/unknown entries the backing vocabulary seeds itself with.
func (t *SymbolTable) Len() int {
	return int(t.vocab.Bound())
}

// GobEncode/GobDecode let a *SymbolTable ride along inside
// VectorFst.MarshalBinary. Grounded directly on hashed.go/sorted.go's
// MarshalBinary, which gob-encodes their *word.Vocab field with a plain
// enc.Encode(m.vocab) call (see serialize.go, DESIGN.md) — the same
// encode-the-vocab-value approach, with the table's cosmetic Name alongside
// it.
func (t *SymbolTable) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(t.name); err != nil {
		return nil, err
	}
	if err := enc.Encode(t.vocab); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t *SymbolTable) GobDecode(data []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&t.name); err != nil {
		return err
	}
	return dec.Decode(&t.vocab)
}
