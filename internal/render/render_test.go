package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ycrc/Orwell-CLI/internal/cluster"
	"github.com/ycrc/Orwell-CLI/internal/filter"
	"github.com/ycrc/Orwell-CLI/internal/glyphs"
)

func idleRecord(host string) cluster.NodeStateRecord {
	return cluster.NodeStateRecord{
		Host: host, State: "idle", CPUs: "0/8/0/8", Memory: "128", FreeMem: "128",
	}
}

func newRegistry(t *testing.T, mode cluster.DisplayMode) *cluster.Registry {
	t.Helper()
	cs, err := glyphs.ByName(glyphs.ASCII)
	require.NoError(t, err)
	return cluster.NewRegistry(mode, cs)
}

func renderString(t *testing.T, r *Renderer) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, r.Render(&b))
	return b.String()
}

func TestRenderSparseChassis(t *testing.T) {
	reg := newRegistry(t, cluster.ModeCPU)
	require.NoError(t, reg.IngestNodeState(idleRecord("c1n01")))
	require.NoError(t, reg.IngestNodeState(idleRecord("c1n03")))
	require.NoError(t, reg.IngestNodeState(idleRecord("c1n05")))

	out := renderString(t, &Renderer{Registry: reg, Filter: filter.New(filter.Or)})

	// Max index 5 with only 1, 3, 5 populated: exactly 5 columns, absent
	// glyph in columns 2 and 4.
	assert.Equal(t, "c1: |O| |O| |O|\n", out)
}

func TestRenderAbsentDoubledInBothMode(t *testing.T) {
	reg := newRegistry(t, cluster.ModeBoth)
	require.NoError(t, reg.IngestNodeState(idleRecord("c1n02")))

	out := renderString(t, &Renderer{Registry: reg, Filter: filter.New(filter.Or)})

	// Column 1 was never observed: two absent glyphs keep column parity
	// with the touched node's two-glyph display.
	assert.Equal(t, "c1: |  |OO|\n", out)
}

func TestRenderJobOnlyNodeShowsAbsentGlyph(t *testing.T) {
	reg := newRegistry(t, cluster.ModeBoth)
	require.NoError(t, reg.IngestNodeState(idleRecord("c1n02")))
	require.NoError(t, reg.IngestJobRecord(cluster.JobRecord{JobID: "9", NodeList: "c1n01"}))

	out := renderString(t, &Renderer{Registry: reg, Filter: filter.New(filter.Or)})
	assert.Equal(t, "c1: |  |OO|\n", out)
}

func TestRenderChassisLexicographicWithPadding(t *testing.T) {
	reg := newRegistry(t, cluster.ModeCPU)
	require.NoError(t, reg.IngestNodeState(idleRecord("gpu01")))
	require.NoError(t, reg.IngestNodeState(idleRecord("bigmem01")))
	require.NoError(t, reg.IngestNodeState(idleRecord("c1n01")))

	out := renderString(t, &Renderer{Registry: reg, Filter: filter.New(filter.Or)})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	// Lexicographic chassis order, labels padded to max name length + 2.
	assert.Equal(t, "bigmem: |O|", lines[0])
	assert.Equal(t, "c1:     |O|", lines[1])
	assert.Equal(t, "gpu:    |O|", lines[2])
}

func TestRenderHighlight(t *testing.T) {
	reg := newRegistry(t, cluster.ModeCPU)
	rec := idleRecord("c1n01")
	rec.Partition = "gpu"
	require.NoError(t, reg.IngestNodeState(rec))
	require.NoError(t, reg.IngestNodeState(idleRecord("c1n02")))

	f := filter.New(filter.Or)
	f.Add(filter.Partition, "gpu")

	out := renderString(t, &Renderer{Registry: reg, Filter: f, ColorCode: "31", Color: true})
	assert.Equal(t, "c1: |\x1b[31mO\x1b[0m|O|\n", out)
}

func TestRenderNoFilterNeverHighlights(t *testing.T) {
	reg := newRegistry(t, cluster.ModeCPU)
	rec := idleRecord("c1n01")
	rec.Partition = "gpu"
	require.NoError(t, reg.IngestNodeState(rec))

	out := renderString(t, &Renderer{Registry: reg, Filter: filter.New(filter.Or), ColorCode: "31", Color: true})
	assert.NotContains(t, out, "\x1b[")
}
