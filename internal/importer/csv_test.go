package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-analyzer/internal/game"
)

func mustSpec(t testing.TB, code game.Code) game.Spec {
	t.Helper()
	spec, err := game.ByCode(code)
	require.NoError(t, err)
	return spec
}

func TestCSVReadBasic(t *testing.T) {
	reader := NewCSVReader(mustSpec(t, game.EuroMillions))

	input := `data,n1,n2,n3,n4,n5,e1,e2
06/03/2026,3,17,22,35,48,2,9
2026-03-10,1,2,3,4,5,1,2
`
	candidates, rowErrs, err := reader.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, candidates, 2)

	assert.Equal(t, []int{3, 17, 22, 35, 48}, candidates[0].Numbers)
	assert.Equal(t, []int{2, 9}, candidates[0].Supplementary)
	assert.True(t, candidates[0].Date.Equal(time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)))
}

func TestCSVHeaderSynonyms(t *testing.T) {
	reader := NewCSVReader(mustSpec(t, game.EuroMillions))

	// Mixed-case English export headers.
	input := `Date,Ball 1,Ball 2,Ball 3,Ball 4,Ball 5,Lucky Star 1,Lucky Star 2
06/03/2026,3,17,22,35,48,2,9
`
	candidates, rowErrs, err := reader.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, candidates, 1)
	assert.Equal(t, []int{2, 9}, candidates[0].Supplementary)
}

func TestCSVJackpotAndWinner(t *testing.T) {
	reader := NewCSVReader(mustSpec(t, game.EuroMillions))

	input := `data,n1,n2,n3,n4,n5,e1,e2,jackpot,winner
06/03/2026,3,17,22,35,48,2,9,"17.000.000,50",sim
10/03/2026,1,2,3,4,5,1,2,25000000,0
`
	candidates, rowErrs, err := reader.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, candidates, 2)

	require.NotNil(t, candidates[0].Jackpot)
	assert.InDelta(t, 17000000.50, *candidates[0].Jackpot, 1e-6)
	assert.True(t, candidates[0].HadWinner)

	require.NotNil(t, candidates[1].Jackpot)
	assert.InDelta(t, 25000000.0, *candidates[1].Jackpot, 1e-6)
	assert.False(t, candidates[1].HadWinner)
}

func TestCSVMissingColumns(t *testing.T) {
	reader := NewCSVReader(mustSpec(t, game.EuroMillions))

	_, _, err := reader.Read(strings.NewReader("n1,n2,n3,n4,n5,e1,e2\n1,2,3,4,5,1,2\n"))
	assert.ErrorIs(t, err, ErrMissingHeader)

	_, _, err = reader.Read(strings.NewReader("data,n1,n2,n3,n4\n06/03/2026,1,2,3,4\n"))
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestCSVOptionalSuppColumns(t *testing.T) {
	reader := NewCSVReader(mustSpec(t, game.Totoloto))

	// Totoloto exports may omit the lucky number entirely.
	input := `data,n1,n2,n3,n4,n5
07/02/2026,5,12,23,34,45
`
	candidates, rowErrs, err := reader.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, candidates, 1)
	assert.Empty(t, candidates[0].Supplementary)
}

func TestCSVBadRowsCollected(t *testing.T) {
	reader := NewCSVReader(mustSpec(t, game.EuroMillions))

	input := `data,n1,n2,n3,n4,n5,e1,e2
06/03/2026,3,17,22,35,48,2,9
not-a-date,3,17,22,35,48,2,9
10/03/2026,x,17,22,35,48,2,9
13/03/2026,1,2,3,4,5,1,2
`
	candidates, rowErrs, err := reader.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	assert.Len(t, rowErrs, 2)
}
