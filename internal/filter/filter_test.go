package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ycrc/Orwell-CLI/internal/cluster"
)

// testNode builds a node with the given partitions and jobs without going
// through registry ingestion.
func testNode(partitions []string, jobs map[string]cluster.JobInfo) *cluster.Node {
	n := &cluster.Node{
		Partitions: make(map[string]bool),
		Features:   make(map[string]bool),
		GPUTypes:   make(map[string]bool),
		Jobs:       make(map[string]cluster.JobInfo),
	}
	for _, p := range partitions {
		n.Partitions[p] = true
	}
	for id, j := range jobs {
		n.Jobs[id] = j
	}
	return n
}

func TestPartitionFilter(t *testing.T) {
	f := New(Or)
	f.Add(Partition, "gpu")

	member := testNode([]string{"gpu", "day"}, nil)
	outsider := testNode([]string{"day"}, nil)

	assert.True(t, f.Matches(member))
	assert.False(t, f.Matches(outsider))
}

func TestEmptyFilterNeverHighlights(t *testing.T) {
	f := New(Or)
	n := testNode([]string{"gpu"}, map[string]cluster.JobInfo{"1": {User: "u"}})

	assert.False(t, f.Matches(n))
	assert.True(t, f.Empty())
}

func TestDirectDimensionAnyValue(t *testing.T) {
	f := New(Or)
	f.Add(Feature, "skylake", "cascadelake")

	n := testNode(nil, nil)
	n.Features["cascadelake"] = true
	assert.True(t, f.Matches(n), "any listed value in the set satisfies the constraint")
}

func TestGPUTypeFilter(t *testing.T) {
	f := New(Or)
	f.Add(GPUType, "v100")

	n := testNode(nil, nil)
	assert.False(t, f.Matches(n))
	n.GPUTypes["v100"] = true
	assert.True(t, f.Matches(n))
}

func TestJobIDScopesJobAttributes(t *testing.T) {
	// Node carries job 123 on batch and job 456 on day.
	n := testNode(nil, map[string]cluster.JobInfo{
		"123": {Partition: "batch", User: "alice"},
		"456": {Partition: "day", User: "bob"},
	})

	f := New(Or)
	f.Add(JobID, "123")
	f.Add(JobPartition, "day")

	// Job-id-scoped evaluation restricts the partition check to job 123,
	// whose partition is batch, so the combined OR still matches via the
	// job_id constraint itself -- verify with AND that scoping holds.
	and := New(And)
	and.Add(JobID, "123")
	and.Add(JobPartition, "day")
	assert.False(t, and.Matches(n), "job 456's partition must never be consulted")

	and2 := New(And)
	and2.Add(JobID, "123")
	and2.Add(JobPartition, "batch")
	assert.True(t, and2.Matches(n))
}

func TestJobAttributesUnionWithoutJobID(t *testing.T) {
	n := testNode(nil, map[string]cluster.JobInfo{
		"123": {Partition: "batch", User: "alice"},
		"456": {Partition: "day", User: "bob"},
	})

	f := New(And)
	f.Add(JobPartition, "day")
	assert.True(t, f.Matches(n), "without job_id the union across jobs is consulted")

	f2 := New(And)
	f2.Add(User, "carol")
	assert.False(t, f2.Matches(n))
}

func TestJobIDMembershipAlone(t *testing.T) {
	n := testNode(nil, map[string]cluster.JobInfo{"123": {User: "alice"}})

	f := New(Or)
	f.Add(JobID, "123")
	assert.True(t, f.Matches(n), "a bare job_id constraint highlights on membership")

	f2 := New(Or)
	f2.Add(JobID, "999")
	assert.False(t, f2.Matches(n))
}

func TestJobIDWithNonJobConstraintUnderOr(t *testing.T) {
	// OR mode: a node matching only the partition constraint highlights
	// even when the job_id constraint misses.
	n := testNode([]string{"gpu"}, map[string]cluster.JobInfo{"123": {Partition: "batch"}})

	f := New(Or)
	f.Add(JobID, "999")
	f.Add(Partition, "gpu")
	assert.True(t, f.Matches(n))

	// And the scoped job attribute check still keys off the listed ids,
	// not the jobs the node actually has.
	f.Add(JobPartition, "batch")
	assert.True(t, f.Matches(n), "partition constraint still carries the OR")

	and := New(And)
	and.Add(JobID, "999")
	and.Add(Partition, "gpu")
	assert.False(t, and.Matches(n))
}

func TestScopedJobMissingOnNode(t *testing.T) {
	n := testNode(nil, map[string]cluster.JobInfo{"123": {User: "alice"}})

	f := New(And)
	f.Add(JobID, "999")
	f.Add(User, "alice")
	assert.False(t, f.Matches(n), "a scoped job absent from the node contributes false")
}

func TestModeFold(t *testing.T) {
	n := testNode([]string{"gpu"}, nil)
	n.Features["skylake"] = true

	or := New(Or)
	or.Add(Partition, "gpu")
	or.Add(Feature, "cascadelake")
	assert.True(t, or.Matches(n))

	and := New(And)
	and.Add(Partition, "gpu")
	and.Add(Feature, "cascadelake")
	assert.False(t, and.Matches(n))

	and2 := New(And)
	and2.Add(Partition, "gpu")
	and2.Add(Feature, "skylake")
	assert.True(t, and2.Matches(n))
}

func TestNilNodeNeverMatches(t *testing.T) {
	f := New(Or)
	f.Add(Partition, "gpu")
	assert.False(t, f.Matches(nil))
}

func TestAddMergesSameDimension(t *testing.T) {
	f := New(Or)
	f.Add(Partition, "gpu")
	f.Add(Partition, "day")

	n := testNode([]string{"day"}, nil)
	assert.True(t, f.Matches(n))
}
