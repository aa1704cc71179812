package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevels(t *testing.T) {
	levels, err := ParseLevels("user,state")
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "State"}, levels)

	levels, err = ParseLevels("u,a")
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Account"}, levels)

	_, err = ParseLevels("flavor")
	assert.Error(t, err)

	_, err = ParseLevels("")
	assert.Error(t, err)
}

func TestJobMemory(t *testing.T) {
	tests := []struct {
		name string
		job  JobRequest
		want float64
	}{
		{
			name: "per-core gigabytes",
			job:  JobRequest{ReqMem: "4Gc", ReqCPUs: "8", ReqNodes: "1"},
			want: 4 * 1024 * 8,
		},
		{
			name: "per-node gigabytes",
			job:  JobRequest{ReqMem: "120Gn", ReqCPUs: "36", ReqNodes: "2"},
			want: 120 * 1024 * 2,
		},
		{
			name: "per-node megabytes",
			job:  JobRequest{ReqMem: "500Mn", ReqCPUs: "1", ReqNodes: "1"},
			want: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.job.Memory()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestJobMemoryMalformed(t *testing.T) {
	for _, mem := range []string{"", "4G", "4Qc", "xGc"} {
		job := JobRequest{ReqMem: mem, ReqCPUs: "1", ReqNodes: "1"}
		_, err := job.Memory()
		assert.Error(t, err, "ReqMem %q", mem)
	}
}

func TestGPUCount(t *testing.T) {
	assert.Equal(t, 2, gpuCount("gpu:2"))
	assert.Equal(t, 4, gpuCount("gpu:v100:4"))
	assert.Equal(t, 0, gpuCount(""))
	assert.Equal(t, 0, gpuCount("mic:1"))
}

func sampleJobs() []JobRequest {
	return []JobRequest{
		{User: "alice", Account: "phys", State: "RUNNING", Partition: "day",
			ReqCPUs: "8", ReqNodes: "1", ReqMem: "4Gc", ReqGRES: ""},
		{User: "alice", Account: "phys", State: "RUNNING", Partition: "day",
			ReqCPUs: "4", ReqNodes: "1", ReqMem: "2Gc", ReqGRES: ""},
		{User: "bob", Account: "chem", State: "PENDING", Partition: "gpu",
			ReqCPUs: "2", ReqNodes: "1", ReqMem: "8Gn", ReqGRES: "gpu:2"},
	}
}

func TestSummarize(t *testing.T) {
	rows, err := Summarize(sampleJobs(), []string{"User", "State"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byUser := make(map[string]Row)
	for _, row := range rows {
		byUser[row.Keys[0]] = row
	}

	alice := byUser["alice"]
	assert.Equal(t, []string{"alice", "running"}, alice.Keys)
	assert.Equal(t, 2, alice.Totals.Jobs)
	assert.Equal(t, 12, alice.Totals.CPUs)
	assert.Equal(t, 2, alice.Totals.Nodes)
	assert.InDelta(t, 8*1024*4+4*1024*2, alice.Totals.RAM, 1e-9)

	bob := byUser["bob"]
	assert.Equal(t, 2, bob.Totals.GPUs)
	assert.Equal(t, []string{"bob", "pending"}, bob.Keys)
}

func TestSort(t *testing.T) {
	rows, err := Summarize(sampleJobs(), []string{"User"})
	require.NoError(t, err)

	Sort(rows, []string{"CPUs"}, false)
	assert.Equal(t, "alice", rows[0].Keys[0], "descending by default")

	Sort(rows, []string{"CPUs"}, true)
	assert.Equal(t, "bob", rows[0].Keys[0])

	Sort(rows, []string{"GPUs"}, false)
	assert.Equal(t, "bob", rows[0].Keys[0])
}

func TestRAMIn(t *testing.T) {
	totals := Totals{RAM: 1536} // 1.5 GiB in MB
	assert.InDelta(t, 1.5, totals.RAMIn('G'), 1e-9)
	assert.InDelta(t, 1536, totals.RAMIn('M'), 1e-9)
}
