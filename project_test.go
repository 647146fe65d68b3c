package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectInputCopiesIlabelOntoOlabel(t *testing.T) {
	f := buildS3Transducer(t)
	require.NoError(t, Project[TropicalWeight](f, ProjectInput))

	for s := 0; s < 3; s++ {
		trs, err := f.GetTrs(StateId(s))
		require.NoError(t, err)
		require.Len(t, trs, 1)
		assert.Equal(t, trs[0].Ilabel, trs[0].Olabel)
	}
	assert.True(t, f.Properties().Has(Acceptor))
}

func TestProjectOutputCopiesOlabelOntoIlabel(t *testing.T) {
	f := buildS3Transducer(t)
	wantIlabels := []Label{4, 5, 6}

	require.NoError(t, Project[TropicalWeight](f, ProjectOutput))

	for s := 0; s < 3; s++ {
		trs, err := f.GetTrs(StateId(s))
		require.NoError(t, err)
		require.Len(t, trs, 1)
		assert.Equal(t, trs[0].Ilabel, trs[0].Olabel)
		assert.Equal(t, wantIlabels[s], trs[0].Ilabel)
	}
}
