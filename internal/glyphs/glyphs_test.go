package glyphs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleNearest(t *testing.T) {
	scale := NewScale(eighths, []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇"})

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "exact boundary", in: 0.5, want: 0.5},
		{name: "clamps high", in: 0.95, want: 0.875},
		{name: "clamps low", in: 0.05, want: 0.125},
		{name: "exact tie resolves to smaller", in: 0.1875, want: 0.125},
		{name: "closer to upper", in: 0.24, want: 0.25},
		{name: "closer to lower", in: 0.13, want: 0.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scale.Nearest(tt.in), 1e-12)
		})
	}
}

func TestScaleGlyph(t *testing.T) {
	utf8, err := ByName(UTF8)
	require.NoError(t, err)

	assert.Equal(t, "▄", utf8.Usage.Glyph(0.5))
	assert.Equal(t, "▇", utf8.Usage.Glyph(0.95))
	assert.Equal(t, "▁", utf8.Usage.Glyph(0.05))
}

func TestNodeGlyph(t *testing.T) {
	utf8, err := ByName(UTF8)
	require.NoError(t, err)

	tests := []struct {
		name  string
		state string
		usage float64
		want  string
	}{
		{name: "alloc uses usage bucket", state: "alloc", usage: 0.5, want: "▄"},
		{name: "mixed uses usage bucket", state: "mixed", usage: 0.875, want: "▇"},
		{name: "idle ignores usage", state: "idle", usage: 0.9, want: "▢"},
		{name: "idle with suffix", state: "idle~", usage: 0.1, want: "▢"},
		{name: "reserved", state: "reserved", usage: 0.5, want: "r"},
		{name: "down", state: "down", usage: 0.5, want: "▼"},
		{name: "drained falls through to down", state: "drained", usage: 0.0, want: "▼"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utf8.NodeGlyph(tt.state, tt.usage))
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names {
		cs, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, cs.Name)
		assert.NotEmpty(t, cs.JobAlphabet())
		assert.Equal(t, cs.Usage.Len(), len(cs.Usage.Glyphs()))
	}

	_, err := ByName("klingon")
	assert.Error(t, err)
}

func TestAsciiScaleIsDeciles(t *testing.T) {
	ascii, err := ByName(ASCII)
	require.NoError(t, err)
	assert.Equal(t, 9, ascii.Usage.Len())
	assert.Equal(t, "5", ascii.Usage.Glyph(0.5))
	assert.Equal(t, "9", ascii.Usage.Glyph(1.0))
	assert.Equal(t, "1", ascii.Usage.Glyph(0.0))
}
