package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposeSingleRank(t *testing.T) {
	info, err := Decompose(0, 1, 8, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Px)
	assert.Equal(t, 1, info.Py)
	assert.Equal(t, 8, info.W)
	assert.Equal(t, 4, info.H)
	for _, n := range []int{info.L, info.R, info.T, info.B, info.TL, info.TR, info.BL, info.BR} {
		assert.Equal(t, None, n, "expected all neighbors to be None for single rank")
	}
}

func TestDecomposeTwoRanksAlongWidth(t *testing.T) {
	// height=4, P=2 -> Px=gcd(2,4)=2, Py=1: splits along width.
	r0, err := Decompose(0, 2, 8, 4)
	require.NoError(t, err)
	r1, err := Decompose(1, 2, 8, 4)
	require.NoError(t, err)

	assert.Equal(t, 2, r0.Px)
	assert.Equal(t, 1, r0.Py)
	assert.Equal(t, 1, r0.R)
	assert.Equal(t, 0, r1.L)
	assert.Equal(t, 0, r0.OriginX)
	assert.Equal(t, 4, r1.OriginX)
}

func TestDecomposeInfeasibleFails(t *testing.T) {
	_, err := Decompose(0, 3, 8, 4)
	assert.Error(t, err)
}

func TestDecomposeFourRanksGrid(t *testing.T) {
	// height=4, P=4 -> Px=gcd(4,4)=4, Py=1 (all along width since H==P).
	info, err := Decompose(0, 4, 16, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, info.Px)
	assert.Equal(t, 1, info.Py)
}
