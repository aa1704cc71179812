// Package filter evaluates the highlight predicates against node records.
//
// A filter is an ordered list of constraints, one per dimension, each
// carrying the values collected from the command line. Every constraint
// produces one boolean for a node, and the booleans are reduced by a single
// fold: AND (all must hold) or OR (any holds, the default).
package filter

import (
	"github.com/ycrc/Orwell-CLI/internal/cluster"
)

// Dimension names one node attribute a constraint can test.
type Dimension string

const (
	Partition    Dimension = "partition"
	Feature      Dimension = "feature"
	GPUType      Dimension = "gpu_type"
	JobID        Dimension = "job_id"
	JobPartition Dimension = "job_partition"
	User         Dimension = "user"
	Account      Dimension = "account"
)

// Dimensions lists every filter dimension in canonical order.
var Dimensions = []Dimension{Partition, Feature, GPUType, JobID, JobPartition, User, Account}

// Mode is the boolean combination applied across all constraints.
type Mode int

const (
	// Or highlights a node when any constraint holds. Default.
	Or Mode = iota
	// And highlights a node only when every constraint holds.
	And
)

// Constraint tests one dimension against a list of acceptable values.
// It is satisfied when any of its values matches.
type Constraint struct {
	Dim    Dimension
	Values []string
}

// Filter is a set of highlight constraints combined under one mode.
type Filter struct {
	Mode        Mode
	constraints []Constraint
}

// New creates an empty filter with the given combination mode.
func New(mode Mode) *Filter {
	return &Filter{Mode: mode}
}

// Add appends values to the constraint for a dimension, creating it if this
// is the dimension's first appearance. Constraint order follows first
// appearance.
func (f *Filter) Add(dim Dimension, values ...string) {
	for i := range f.constraints {
		if f.constraints[i].Dim == dim {
			f.constraints[i].Values = append(f.constraints[i].Values, values...)
			return
		}
	}
	f.constraints = append(f.constraints, Constraint{Dim: dim, Values: values})
}

// Empty reports whether the filter has no active constraints.
// An empty filter never highlights anything.
func (f *Filter) Empty() bool {
	return len(f.constraints) == 0
}

// values returns the value list for a dimension, or nil if unconstrained.
func (f *Filter) values(dim Dimension) []string {
	for _, c := range f.constraints {
		if c.Dim == dim {
			return c.Values
		}
	}
	return nil
}

// Matches evaluates the filter against a node: one boolean per constraint,
// folded under the filter's mode. A nil node (a grid position with no
// record) only matches when there is nothing to test, which the empty check
// already rules out.
func (f *Filter) Matches(n *cluster.Node) bool {
	if f.Empty() {
		return false
	}

	results := make([]bool, 0, len(f.constraints))
	jobIDs := f.values(JobID)

	for _, c := range f.constraints {
		results = append(results, f.evalConstraint(c, n, jobIDs))
	}

	return fold(f.Mode, results)
}

// evalConstraint produces the boolean for one constraint. When a job_id
// constraint is present, the job-scoped dimensions are evaluated only
// against the named jobs; otherwise against all jobs on the node.
func (f *Filter) evalConstraint(c Constraint, n *cluster.Node, jobIDs []string) bool {
	if n == nil {
		return false
	}
	switch c.Dim {
	case Partition:
		return anyInSet(c.Values, n.Partitions)
	case Feature:
		return anyInSet(c.Values, n.Features)
	case GPUType:
		return anyInSet(c.Values, n.GPUTypes)
	case JobID:
		for _, id := range c.Values {
			if n.HasJob(id) {
				return true
			}
		}
		return false
	case JobPartition:
		return matchJobAttr(n, jobIDs, c.Values, func(j cluster.JobInfo) string { return j.Partition })
	case User:
		return matchJobAttr(n, jobIDs, c.Values, func(j cluster.JobInfo) string { return j.User })
	case Account:
		return matchJobAttr(n, jobIDs, c.Values, func(j cluster.JobInfo) string { return j.Account })
	}
	return false
}

// matchJobAttr checks a job attribute against acceptable values. With
// scoping ids the check consults only those jobs; a scoped job that is not
// on the node contributes nothing. Without scoping ids the union of all the
// node's jobs is consulted.
func matchJobAttr(n *cluster.Node, scopeIDs, values []string, attr func(cluster.JobInfo) string) bool {
	if len(scopeIDs) > 0 {
		for _, id := range scopeIDs {
			job, ok := n.Jobs[id]
			if !ok {
				continue
			}
			if anyEqual(values, attr(job)) {
				return true
			}
		}
		return false
	}
	for _, job := range n.Jobs {
		if anyEqual(values, attr(job)) {
			return true
		}
	}
	return false
}

func anyInSet(values []string, set map[string]bool) bool {
	for _, v := range values {
		if set[v] {
			return true
		}
	}
	return false
}

func anyEqual(values []string, got string) bool {
	for _, v := range values {
		if v == got {
			return true
		}
	}
	return false
}

func fold(mode Mode, results []bool) bool {
	if mode == And {
		for _, r := range results {
			if !r {
				return false
			}
		}
		return true
	}
	for _, r := range results {
		if r {
			return true
		}
	}
	return false
}
