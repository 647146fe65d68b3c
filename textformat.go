package wfst

// Textual WFST interchange format (spec.md §6): one transition per line,
// whitespace-separated — "src dst ilabel olabel [weight]" — or, for a line
// with fewer columns, a final-state declaration — "state [weight]". A
// missing weight defaults to the semiring's One. State ids are integers;
// the first state the file names is the start state, and ReadTextOptions
// has no field to choose another. Symbol tables are side files of
// "symbol id" pairs, one per line.
//
// The reader is built as a github.com/kho/stream Iteratee grammar, the same
// line-oriented parsing style arpa.go uses for ARPA files: lineSplit/
// tokenSplit do the lexing, and a small per-line Iteratee decides whether a
// line is a transition or a final-state declaration. File access goes
// through github.com/kho/easy.Open, mirroring io.go's FromARPAFile/
// FromGobFile.

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/kho/easy"
	"github.com/kho/stream"
)

// WeightParser converts one text-format weight field into W. Each concrete
// weight type's zero-arg construction differs (TropicalWeight parses as a
// float, BooleanWeight as "true"/"false"), so the caller supplies the
// parser the same way basic.go's Weight.Set is type-specific rather than
// generic.
type WeightParser[W Weight[W]] func(string) (W, error)

// ParseTropicalWeight parses the textual format arpa.go/basic.go's
// Weight.Set uses: a base-10 floating point literal.
func ParseTropicalWeight(s string) (TropicalWeight, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return TropicalWeight(f), nil
}

// ParseLogWeight parses a LogWeight the same way as ParseTropicalWeight;
// the two types share an underlying float32 representation.
func ParseLogWeight(s string) (LogWeight, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return LogWeight(f), nil
}

// ParseProbabilityWeight parses a ProbabilityWeight.
func ParseProbabilityWeight(s string) (ProbabilityWeight, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return ProbabilityWeight(f), nil
}

// ParseBooleanWeight parses "true"/"false" (Go's strconv.ParseBool, which
// also accepts "1"/"0").
func ParseBooleanWeight(s string) (BooleanWeight, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, err
	}
	return BooleanWeight(b), nil
}

// ParseIntegerWeight parses an IntegerWeight as a base-10 integer.
func ParseIntegerWeight(s string) (IntegerWeight, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return IntegerWeight(n), nil
}

// ReadTextOptions configures ReadText.
type ReadTextOptions[W Weight[W]] struct {
	// Parser converts a weight field's text into W. Required.
	Parser WeightParser[W]
	// Isyms/Osyms are the symbol tables backing the input/output alphabet.
	// If nil, labels are parsed as bare integers and no SymbolTable is
	// attached to the result.
	Isyms, Osyms *SymbolTable
}

// ReadText parses the textual WFST format from in into a fresh VectorFst,
// following arpaTop/ngramSection/ngramEntries's per-line Iteratee style in
// arpa.go.
func ReadText[W Weight[W]](in io.Reader, opts ReadTextOptions[W]) (*VectorFst[W], error) {
	if opts.Parser == nil {
		return nil, newErr("ReadText", InvalidInput, "no weight parser given")
	}
	fst := NewVectorFst[W]()
	b := &textBuilder[W]{fst: fst, opts: opts, maxState: -1}
	if err := stream.Run(stream.NewScanEnumeratorWith(in, lineSplit), textTop[W]{b}); err != nil {
		return nil, newErr("ReadText", InvalidInput, "%v", err)
	}
	if b.startSet {
		if err := fst.SetStart(b.start); err != nil {
			return nil, err
		}
	}
	if opts.Isyms != nil {
		fst.SetInputSymbols(opts.Isyms)
	}
	if opts.Osyms != nil {
		fst.SetOutputSymbols(opts.Osyms)
	}
	glog.V(1).Infof("ReadText: parsed %d states", fst.NumStates())
	return fst, nil
}

// ReadTextFile opens path (via github.com/kho/easy, matching io.go's
// FromARPAFile/FromGobFile) and parses it with ReadText.
func ReadTextFile[W Weight[W]](path string, opts ReadTextOptions[W]) (*VectorFst[W], error) {
	in, err := easy.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return ReadText[W](in, opts)
}

// ReadSymbolsFile parses a side file of "symbol id" pairs (spec.md §6) into
// a new named SymbolTable. Ids are assigned by interning symbols in file
// order, so a file written by WriteSymbols round-trips its ids only if read
// back in the same order; this mirrors word.Vocab's append-only id
// assignment.
func ReadSymbolsFile(path, name string) (*SymbolTable, error) {
	in, err := easy.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	t := NewSymbolTable(name)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sym, _ := tokenSplit([]byte(line))
		t.AddSymbol(sym)
	}
	return t, scanner.Err()
}

// textBuilder accumulates parsed lines into a VectorFst, analogous to
// arpaTop's *Builder but for the transition/final-state grammar.
type textBuilder[W Weight[W]] struct {
	fst      *VectorFst[W]
	opts     ReadTextOptions[W]
	start    StateId
	startSet bool
	maxState int
}

func (b *textBuilder[W]) ensure(s StateId) {
	for int(s) > b.maxState {
		b.maxState++
		b.fst.AddState()
	}
	if !b.startSet {
		b.start = s
		b.startSet = true
	}
}

func (b *textBuilder[W]) addTr(src, dst StateId, ilabel, olabel Label, w W) error {
	b.ensure(src)
	b.ensure(dst)
	return b.fst.EmplaceTr(src, ilabel, olabel, w, dst)
}

func (b *textBuilder[W]) setFinal(s StateId, w W) error {
	b.ensure(s)
	return b.fst.SetFinal(s, w)
}

// textTop is the top-level Iteratee: zero or more lines, each either a
// transition or a final-state declaration, until EOF.
type textTop[W Weight[W]] struct {
	b *textBuilder[W]
}

func (it textTop[W]) Final() error { return nil }

func (it textTop[W]) Next(line []byte) (stream.Iteratee, bool, error) {
	if err := it.parseLine(line); err != nil {
		return nil, false, err
	}
	return it, true, nil
}

func (it textTop[W]) parseLine(line []byte) error {
	fields := make([]string, 0, 5)
	rest := line
	for {
		tok, next := tokenSplit(rest)
		if tok == "" {
			break
		}
		fields = append(fields, tok)
		rest = next
	}
	switch len(fields) {
	case 0:
		return stream.ErrExpect(`"src dst ilabel olabel [weight]" or "state [weight]"`)
	case 1, 2:
		s, err := parseStateId(fields[0])
		if err != nil {
			return err
		}
		w := it.defaultWeight()
		if len(fields) == 2 {
			w, err = it.b.opts.Parser(fields[1])
			if err != nil {
				return err
			}
		}
		return it.b.setFinal(s, w)
	case 4:
		src, err := parseStateId(fields[0])
		if err != nil {
			return err
		}
		dst, err := parseStateId(fields[1])
		if err != nil {
			return err
		}
		ilabel, err := it.label(fields[2], it.b.opts.Isyms)
		if err != nil {
			return err
		}
		olabel, err := it.label(fields[3], it.b.opts.Osyms)
		if err != nil {
			return err
		}
		return it.b.addTr(src, dst, ilabel, olabel, it.defaultWeight())
	case 5:
		src, err := parseStateId(fields[0])
		if err != nil {
			return err
		}
		dst, err := parseStateId(fields[1])
		if err != nil {
			return err
		}
		ilabel, err := it.label(fields[2], it.b.opts.Isyms)
		if err != nil {
			return err
		}
		olabel, err := it.label(fields[3], it.b.opts.Osyms)
		if err != nil {
			return err
		}
		w, err := it.b.opts.Parser(fields[4])
		if err != nil {
			return err
		}
		return it.b.addTr(src, dst, ilabel, olabel, w)
	default:
		return stream.ErrExpect(`at most 5 fields`)
	}
}

func (it textTop[W]) defaultWeight() W {
	var w W
	return w.One()
}

func (it textTop[W]) label(s string, syms *SymbolTable) (Label, error) {
	if syms != nil {
		return syms.AddSymbol(s), nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("label %q: %w", s, err)
	}
	return Label(n), nil
}

func parseStateId(s string) (StateId, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("state id %q: %w", s, err)
	}
	return StateId(n), nil
}

// --- Low-level lexer code, grounded verbatim on arpa.go's lineSplit/
// tokenSplit (see DESIGN.md): a bufio.SplitFunc that yields one
// whitespace-trimmed, newline-delimited line at a time, and a
// single-token-at-a-time splitter over one line's bytes.

func isSpace(b byte) bool {
	switch b {
	case '\t', '\v', '\f', '\r', ' ':
		return true
	default:
		return false
	}
}

func lineSplit(data []byte, atEOF bool) (int, []byte, error) {
	l, r, n := -1, -1, 0
	// Skip leading spaces or newlines.
	for i, b := range data {
		if !isSpace(b) && b != '\n' {
			l = i
			break
		}
	}
	if l < 0 {
		return len(data), nil, nil
	}
	// Find newline.
	for i, b := range data[l+1:] {
		if b == '\n' {
			r, n = l+i, l+i+2
			break
		}
	}
	if r < 0 {
		if !atEOF {
			return l, nil, nil
		}
		r, n = len(data)-1, len(data)
	}
	// Trim trailing spaces.
	for isSpace(data[r]) {
		// At most we shall stop at l.
		r--
	}
	return n, data[l : r+1], nil
}

func tokenSplit(line []byte) (string, []byte) {
	// Assuming line has no leading space.
	r := -1
	for i, b := range line {
		if isSpace(b) {
			r = i
			break
		}
	}
	if r < 0 {
		r = len(line)
	}
	token := string(line[:r])
	// Skip trailing spaces.
	for i, b := range line[r:] {
		if !isSpace(b) {
			return token, line[r+i:]
		}
	}
	return token, nil
}

// WriteText serializes fst in the same textual format ReadText parses,
// one transition per line followed by one line per final state, matching
// the column order spec.md §6 names.
func WriteText[W Weight[W]](out io.Writer, fst ExpandedFst[W]) error {
	w := bufio.NewWriter(out)
	n := fst.NumStates()
	start, hasStart := fst.Start()
	order := make([]int, 0, n)
	if hasStart {
		order = append(order, int(start))
	}
	for s := 0; s < n; s++ {
		if !hasStart || s != int(start) {
			order = append(order, s)
		}
	}
	for _, s := range order {
		trs, err := fst.GetTrs(StateId(s))
		if err != nil {
			return err
		}
		for _, tr := range trs {
			if _, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
				s, tr.NextState, labelText(fst.InputSymbols(), tr.Ilabel),
				labelText(fst.OutputSymbols(), tr.Olabel), tr.Weight.String()); err != nil {
				return err
			}
		}
	}
	for s := 0; s < n; s++ {
		if fw, final, err := fst.FinalWeight(StateId(s)); err != nil {
			return err
		} else if final {
			if _, err := fmt.Fprintf(w, "%d\t%s\n", s, fw.String()); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func labelText(syms *SymbolTable, l Label) string {
	if syms != nil {
		return syms.Symbol(l)
	}
	return strconv.FormatUint(uint64(l), 10)
}

// WriteSymbols writes t's interned symbols, one "symbol id" pair per line,
// in ascending id order, as the side-file format ReadSymbolsFile reads
// back.
func WriteSymbols(out io.Writer, t *SymbolTable) error {
	w := bufio.NewWriter(out)
	for id := Label(0); int(id) < t.Len(); id++ {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", t.Symbol(id), id); err != nil {
			return err
		}
	}
	return w.Flush()
}
