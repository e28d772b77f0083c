package checksum

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbmflow/lbmflow/domain"
	"github.com/lbmflow/lbmflow/frame"
	"github.com/lbmflow/lbmflow/mesh"
	"github.com/lbmflow/lbmflow/physics"
	"github.com/lbmflow/lbmflow/transport/local"
)

func TestReadAllRoundTripsASink(t *testing.T) {
	info, err := domain.Decompose(0, 1, 4, 2)
	require.NoError(t, err)
	m := mesh.New(info.W, info.H)
	for x := 1; x <= m.W; x++ {
		for y := 1; y <= m.H; y++ {
			cell := m.At(x, y)
			for k := 0; k < 9; k++ {
				cell[k] = physics.Equilibrium(k, 1.0, [2]float64{})
			}
		}
	}

	var out bytes.Buffer
	hub := local.NewHub(1)
	sink := &frame.Sink{Transport: hub.Rank(0), Info: info, W: &out}
	require.NoError(t, sink.WriteFrame(m))
	require.NoError(t, sink.WriteFrame(m))

	h, frames, err := ReadAll(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.EqualValues(t, 4, h.MeshWidth)
	assert.EqualValues(t, 2, h.MeshHeight)
	assert.EqualValues(t, 1, h.Lines)
	require.Len(t, frames, 2)
	for _, fs := range frames {
		assert.Equal(t, 8, fs.Entries)
		assert.InDelta(t, 1.0, fs.MinDensity, 1e-6)
		assert.InDelta(t, 1.0, fs.MaxDensity, 1e-6)
		assert.Zero(t, fs.SumSpeed, "rest equilibrium")
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, 16)
	_, _, err := ReadAll(bytes.NewReader(buf))
	assert.Error(t, err)
}
