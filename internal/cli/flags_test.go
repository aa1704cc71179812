package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ycrc/Orwell-CLI/internal/cluster"
	"github.com/ycrc/Orwell-CLI/internal/filter"
)

func resetFilterFlags() {
	for _, values := range filterFlags {
		*values = nil
	}
}

func TestBuildFilterSplitsCommaLists(t *testing.T) {
	defer resetFilterFlags()
	*filterFlags[filter.Partition] = []string{"gpu,day", "week"}
	*filterFlags[filter.User] = []string{"alice"}

	f := buildFilter(filter.Or)

	n := &cluster.Node{
		Partitions: map[string]bool{"week": true},
		Features:   map[string]bool{},
		GPUTypes:   map[string]bool{},
		Jobs:       map[string]cluster.JobInfo{},
	}
	assert.True(t, f.Matches(n))
	assert.False(t, f.Empty())
}

func TestBuildFilterEmpty(t *testing.T) {
	defer resetFilterFlags()
	f := buildFilter(filter.Or)
	assert.True(t, f.Empty())
}

func TestBuildFilterAndMode(t *testing.T) {
	defer resetFilterFlags()
	*filterFlags[filter.Partition] = []string{"gpu"}
	*filterFlags[filter.Feature] = []string{"skylake"}

	f := buildFilter(filter.And)

	n := &cluster.Node{
		Partitions: map[string]bool{"gpu": true},
		Features:   map[string]bool{},
		GPUTypes:   map[string]bool{},
		Jobs:       map[string]cluster.JobInfo{},
	}
	assert.False(t, f.Matches(n), "feature constraint unmet under AND")

	n.Features["skylake"] = true
	assert.True(t, f.Matches(n))
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
}
