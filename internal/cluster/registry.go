// Package cluster accumulates per-node state from the two slurm report
// streams and lays the groundwork for rendering: node records, chassis
// layout, and display glyph assignment.
package cluster

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ycrc/Orwell-CLI/internal/errors"
	"github.com/ycrc/Orwell-CLI/internal/glyphs"
	"github.com/ycrc/Orwell-CLI/internal/hostlist"
)

// DisplayMode selects what the node glyphs encode.
type DisplayMode string

const (
	ModeCPU  DisplayMode = "cpu"  // proportion of allocated CPUs
	ModeRAM  DisplayMode = "ram"  // proportion of allocated memory
	ModeBoth DisplayMode = "both" // CPU glyph then RAM glyph
	ModeJob  DisplayMode = "job"  // one glyph per job, last writer wins
)

// Modes lists the accepted display modes for flag validation.
var Modes = []DisplayMode{ModeCPU, ModeRAM, ModeBoth, ModeJob}

// ArraySeparator splits an array job id into base id and task index.
const ArraySeparator = "_"

// NodeStateRecord is one data line of the node-state report.
type NodeStateRecord struct {
	Host      string // node host name
	State     string // e.g. "mixed", "idle", "allocated~"
	CPUs      string // A/I/O/T quad, e.g. "4/4/0/8"
	Memory    string // total memory
	FreeMem   string // free memory, or "N/A"
	Partition string
	Features  string // comma separated
}

// JobRecord is one data line of the job-accounting report.
type JobRecord struct {
	JobID     string
	JobName   string
	User      string
	Account   string
	Partition string
	NodeList  string // hostlist notation
}

// Registry accumulates nodes from the node-state and job-accounting streams.
// The two ingestion operations are order-independent; neither assumes the
// other ran first.
type Registry struct {
	mode    DisplayMode
	charset *glyphs.Charset

	nodes  map[string]*Node
	layout map[string]int // chassis id -> max node index observed

	// Job display mode: each distinct job id takes the next glyph from the
	// charset's cyclic alphabet on first sight.
	jobGlyphs map[string]string
	nextGlyph int
}

// NewRegistry creates an empty registry for the given display mode and charset.
func NewRegistry(mode DisplayMode, charset *glyphs.Charset) *Registry {
	return &Registry{
		mode:      mode,
		charset:   charset,
		nodes:     make(map[string]*Node),
		layout:    make(map[string]int),
		jobGlyphs: make(map[string]string),
	}
}

// Mode returns the active display mode.
func (r *Registry) Mode() DisplayMode { return r.mode }

// Charset returns the active character set.
func (r *Registry) Charset() *glyphs.Charset { return r.charset }

// node returns the record for name, materializing it with the absent glyph
// on first access. Nodes are never deleted.
func (r *Registry) node(name string) *Node {
	n, ok := r.nodes[name]
	if !ok {
		n = newNode(name, r.charset.Absent)
		r.nodes[name] = n
	}
	return n
}

// Node looks up a node by canonical name.
func (r *Registry) Node(name string) (*Node, bool) {
	n, ok := r.nodes[name]
	return n, ok
}

// NodeAt looks up a node by chassis id and index.
func (r *Registry) NodeAt(chassis string, index int) (*Node, bool) {
	return r.Node(CanonicalName(chassis, index))
}

// Chassis returns all chassis ids in lexicographic order.
func (r *Registry) Chassis() []string {
	out := make([]string, 0, len(r.layout))
	for c := range r.layout {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// MaxIndex returns the highest node index observed for a chassis.
// Only node-state ingestion grows the layout.
func (r *Registry) MaxIndex(chassis string) int {
	return r.layout[chassis]
}

// IngestNodeState folds one node-state record into the registry: resolves
// the chassis layout, unions partition and features, and sets the node's
// glyph according to the display mode.
func (r *Registry) IngestNodeState(rec NodeStateRecord) error {
	chassis, index, err := SplitNodeName(rec.Host)
	if err != nil {
		return err
	}

	cpu, err := CPUUsage(rec.CPUs)
	if err != nil {
		return err
	}
	mem, err := MemUsage(rec.FreeMem, rec.Memory)
	if err != nil {
		return err
	}

	if r.layout[chassis] < index {
		r.layout[chassis] = index
	}

	n := r.node(CanonicalName(chassis, index))
	if rec.Partition != "" {
		n.Partitions[rec.Partition] = true
	}
	for _, f := range strings.Split(rec.Features, ",") {
		if f != "" {
			n.Features[f] = true
		}
	}

	switch r.mode {
	case ModeCPU:
		n.Glyph = r.charset.NodeGlyph(rec.State, cpu)
	case ModeRAM:
		n.Glyph = r.charset.NodeGlyph(rec.State, mem)
	case ModeBoth:
		// Fixed order: CPU glyph then RAM glyph.
		n.Glyph = r.charset.NodeGlyph(rec.State, cpu) + r.charset.NodeGlyph(rec.State, mem)
	case ModeJob:
		// Job ingestion owns the glyph in job mode.
	}
	return nil
}

// IngestJobRecord expands the record's node list and records the job's
// attributes on every node it touches. An array job id is additionally
// recorded under its base id. A later record for the same job id on the
// same node overwrites the earlier one.
func (r *Registry) IngestJobRecord(rec JobRecord) error {
	hosts, err := hostlist.Expand(rec.NodeList)
	if err != nil {
		return err
	}

	ids := []string{rec.JobID}
	if base, _, isArray := strings.Cut(rec.JobID, ArraySeparator); isArray {
		ids = append(ids, base)
	}

	info := JobInfo{
		Name:      rec.JobName,
		User:      rec.User,
		Account:   rec.Account,
		Partition: rec.Partition,
	}

	for _, host := range hosts {
		name, err := Canonicalize(host)
		if err != nil {
			return err
		}
		n := r.node(name)
		for _, id := range ids {
			n.Jobs[id] = info
		}
		if r.mode == ModeJob {
			// Last job processed wins the node's glyph.
			n.Glyph = r.jobGlyph(rec.JobID)
		}
	}
	return nil
}

// IngestGPUInfo expands a hostlist and unions the GPU type into every node
// it names.
func (r *Registry) IngestGPUInfo(nodeList, gpuType string) error {
	hosts, err := hostlist.Expand(nodeList)
	if err != nil {
		return err
	}
	for _, host := range hosts {
		name, err := Canonicalize(host)
		if err != nil {
			return err
		}
		r.node(name).GPUTypes[gpuType] = true
	}
	return nil
}

// jobGlyph returns the glyph for a job id, assigning the next glyph from
// the cyclic alphabet on first sight. The alphabet wraps when exhausted.
func (r *Registry) jobGlyph(jobID string) string {
	if g, ok := r.jobGlyphs[jobID]; ok {
		return g
	}
	alpha := r.charset.JobAlphabet()
	g := alpha[r.nextGlyph%len(alpha)]
	r.nextGlyph++
	r.jobGlyphs[jobID] = g
	return g
}

// CPUUsage parses an allocated/idle/other/total CPU quad into the allocated
// fraction.
func CPUUsage(quad string) (float64, error) {
	parts := strings.Split(quad, "/")
	if len(parts) != 4 {
		return 0, errors.Newf(errors.ErrParse, "malformed CPU quad '%s'", quad)
	}
	used, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, errors.Newf(errors.ErrParse, "malformed CPU quad '%s'", quad)
	}
	total, err := strconv.ParseFloat(parts[3], 64)
	if err != nil || total == 0 {
		return 0, errors.Newf(errors.ErrParse, "malformed CPU quad '%s'", quad)
	}
	return used / total, nil
}

// MemUsage computes the used-memory fraction from free and total fields.
// Slurm reports free memory as "N/A" on nodes that are down; that is not an
// error and counts as zero usage.
func MemUsage(free, total string) (float64, error) {
	if free == "N/A" {
		return 0, nil
	}
	freeMB, err := strconv.ParseFloat(free, 64)
	if err != nil {
		return 0, errors.Newf(errors.ErrParse, "malformed free memory '%s'", free)
	}
	totalMB, err := strconv.ParseFloat(total, 64)
	if err != nil || totalMB == 0 {
		return 0, errors.Newf(errors.ErrParse, "malformed total memory '%s'", total)
	}
	return (totalMB - freeMB) / totalMB, nil
}
