// Package slurm invokes the cluster reporting commands and decodes their
// pipe-delimited tabular output into typed records.
package slurm

import (
	"regexp"
	"strings"

	"github.com/ycrc/Orwell-CLI/internal/cluster"
	"github.com/ycrc/Orwell-CLI/internal/errors"
)

// fieldDelim splits report lines. sinfo --format=%all pads some fields with
// a space before the pipe, so the delimiter eats it.
var fieldDelim = regexp.MustCompile(` ?\|`)

// Field names in the sinfo %all schema consumed by this tool. The schema is
// a fixed contract with the reporting command.
const (
	fieldHostnames = "HOSTNAMES"
	fieldState     = "STATE"
	fieldCPUs      = "CPUS(A/I/O/T)"
	fieldMemory    = "MEMORY"
	fieldFreeMem   = "FREE_MEM"
	fieldPartition = "PARTITION"
	fieldFeatures  = "AVAIL_FEATURES"
)

// Field names in the sacct -o schema.
const (
	fieldJobID    = "JobID"
	fieldJobName  = "JobName"
	fieldUser     = "User"
	fieldAccount  = "Account"
	fieldJobPart  = "Partition"
	fieldNodeList = "NodeList"
)

// table iterates header+data lines, yielding one field map per data line.
// Missing trailing fields come back as empty strings.
func table(lines []string, visit func(map[string]string) error) error {
	if len(lines) == 0 {
		return errors.New(errors.ErrInput, "empty report stream",
			"Are you sure you're on a slurm cluster?")
	}
	header := fieldDelim.Split(lines[0], -1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := fieldDelim.Split(line, -1)
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(fields) {
				rec[name] = fields[i]
			} else {
				rec[name] = ""
			}
		}
		if err := visit(rec); err != nil {
			return err
		}
	}
	return nil
}

// ParseNodeStates decodes sinfo output lines into node-state records.
func ParseNodeStates(lines []string) ([]cluster.NodeStateRecord, error) {
	var records []cluster.NodeStateRecord
	err := table(lines, func(rec map[string]string) error {
		records = append(records, cluster.NodeStateRecord{
			Host:      rec[fieldHostnames],
			State:     rec[fieldState],
			CPUs:      rec[fieldCPUs],
			Memory:    rec[fieldMemory],
			FreeMem:   rec[fieldFreeMem],
			Partition: rec[fieldPartition],
			Features:  rec[fieldFeatures],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseJobRecords decodes sacct output lines into job-accounting records.
func ParseJobRecords(lines []string) ([]cluster.JobRecord, error) {
	var records []cluster.JobRecord
	err := table(lines, func(rec map[string]string) error {
		records = append(records, cluster.JobRecord{
			JobID:     rec[fieldJobID],
			JobName:   rec[fieldJobName],
			User:      rec[fieldUser],
			Account:   rec[fieldAccount],
			Partition: rec[fieldJobPart],
			NodeList:  rec[fieldNodeList],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
