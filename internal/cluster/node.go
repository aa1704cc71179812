package cluster

// JobInfo holds the accounting attributes recorded for one job on one node.
type JobInfo struct {
	Name      string
	User      string
	Account   string
	Partition string
}

// Node is the per-node record materialized on first reference by either
// ingestion stream. A node seen only in job data still exists, carrying the
// absent glyph, so the layout can account for it.
type Node struct {
	Name       string
	Glyph      string
	Partitions map[string]bool
	Features   map[string]bool
	GPUTypes   map[string]bool
	Jobs       map[string]JobInfo
}

func newNode(name, absentGlyph string) *Node {
	return &Node{
		Name:       name,
		Glyph:      absentGlyph,
		Partitions: make(map[string]bool),
		Features:   make(map[string]bool),
		GPUTypes:   make(map[string]bool),
		Jobs:       make(map[string]JobInfo),
	}
}

// HasJob reports whether the given job id is recorded on this node.
func (n *Node) HasJob(id string) bool {
	_, ok := n.Jobs[id]
	return ok
}
