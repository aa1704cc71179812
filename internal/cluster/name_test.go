package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ycrc/Orwell-CLI/internal/errors"
)

func TestSplitNodeName(t *testing.T) {
	tests := []struct {
		name        string
		host        string
		wantChassis string
		wantIndex   int
	}{
		{name: "letters plus index", host: "gpu02", wantChassis: "gpu", wantIndex: 2},
		{name: "chassis number with n infix", host: "c13n05", wantChassis: "c13", wantIndex: 5},
		{name: "bigmem style", host: "bigmem01", wantChassis: "bigmem", wantIndex: 1},
		{name: "unpadded index", host: "c2n5", wantChassis: "c2", wantIndex: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chassis, index, err := SplitNodeName(tt.host)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChassis, chassis)
			assert.Equal(t, tt.wantIndex, index)
		})
	}
}

func TestSplitNodeNameRejectsOddShapes(t *testing.T) {
	for _, host := range []string{"", "13node", "node", "c13n05x", "c-13n05"} {
		t.Run(host, func(t *testing.T) {
			_, _, err := SplitNodeName(host)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrParse))
		})
	}
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "c13n05", CanonicalName("c13", 5))
	assert.Equal(t, "gpu02", CanonicalName("gpu", 2))
	assert.Equal(t, "c1n10", CanonicalName("c1", 10))
	assert.Equal(t, "bigmem100", CanonicalName("bigmem", 100))
}

func TestCanonicalizeNormalizesPadding(t *testing.T) {
	got, err := Canonicalize("c13n5")
	require.NoError(t, err)
	assert.Equal(t, "c13n05", got)

	got, err = Canonicalize("gpu2")
	require.NoError(t, err)
	assert.Equal(t, "gpu02", got)
}
