package wfst

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextThenReadTextRoundTrips(t *testing.T) {
	f := buildTriangle(t)

	var buf bytes.Buffer
	require.NoError(t, WriteText[TropicalWeight](&buf, f))

	got, err := ReadText[TropicalWeight](&buf, ReadTextOptions[TropicalWeight]{Parser: ParseTropicalWeight})
	require.NoError(t, err)

	ok, err := Isomorphic[TropicalWeight](f, got, 1e-6)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadTextParsesFinalStateWithDefaultWeight(t *testing.T) {
	text := "0\t1\t1\t1\t2\n1\n"
	got, err := ReadText[TropicalWeight](strings.NewReader(text), ReadTextOptions[TropicalWeight]{Parser: ParseTropicalWeight})
	require.NoError(t, err)

	w, final, err := got.FinalWeight(1)
	require.NoError(t, err)
	require.True(t, final)
	assert.Equal(t, TropicalWeight(0).One(), w)
}

func TestReadTextUsesSymbolTablesWhenGiven(t *testing.T) {
	isyms := NewSymbolTable("in")
	osyms := NewSymbolTable("out")
	text := "0\t1\ta\tb\t2\n1\n"
	got, err := ReadText[TropicalWeight](strings.NewReader(text), ReadTextOptions[TropicalWeight]{
		Parser: ParseTropicalWeight, Isyms: isyms, Osyms: osyms,
	})
	require.NoError(t, err)

	trs, err := got.GetTrs(0)
	require.NoError(t, err)
	require.Len(t, trs, 1)

	aID, ok := isyms.Find("a")
	require.True(t, ok)
	bID, ok := osyms.Find("b")
	require.True(t, ok)
	assert.Equal(t, aID, trs[0].Ilabel)
	assert.Equal(t, bID, trs[0].Olabel)
}

func TestWriteSymbolsThenReadSymbolsFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/syms.txt"

	syms := NewSymbolTable("test")
	syms.AddSymbol("alpha")
	syms.AddSymbol("beta")

	var buf bytes.Buffer
	require.NoError(t, WriteSymbols(&buf, syms))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := ReadSymbolsFile(path, "test")
	require.NoError(t, err)
	assert.Equal(t, syms.Len(), got.Len())

	wantID, ok := syms.Find("alpha")
	require.True(t, ok)
	gotID, ok := got.Find("alpha")
	require.True(t, ok)
	assert.Equal(t, wantID, gotID)
}
