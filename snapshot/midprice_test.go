package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMidPrices(t *testing.T) {
	rows := []Row{
		{1, 100, 5, 102, 5},
		{2, 200, 1, 204, 1},
	}

	got := MidPrices(rows)
	require.Equal(t, []float64{101, 202}, got)
}

func TestMidPrices_ShortRowIsZero(t *testing.T) {
	got := MidPrices([]Row{{1}})
	require.Equal(t, []float64{0}, got)
}
