// Package queue summarizes pending and running jobs across the cluster,
// grouped by a configurable list of accounting levels.
package queue

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ycrc/Orwell-CLI/internal/errors"
)

// Levels the summary can group on, in display order. Level arguments are
// matched by prefix, so "u" or "user" both select User.
var Levels = []string{"User", "Account", "State", "Partition"}

// SortColumns the summary can order by.
var SortColumns = []string{"Jobs", "Nodes", "CPUs", "GPUs", "RAM"}

// sizeMultipliers scales requested memory into megabytes.
var sizeMultipliers = map[byte]float64{'M': 1, 'G': 1024, 'T': 1024 * 1024}

// JobRequest is one pending or running job's resource request, straight from
// the accounting report.
type JobRequest struct {
	User      string
	Account   string
	State     string
	Partition string
	ReqCPUs   string
	ReqNodes  string
	ReqMem    string // e.g. "4Gc" (per core) or "120Gn" (per node)
	ReqGRES   string // e.g. "gpu:2"
}

// Totals accumulates the summed resources for one level combination.
type Totals struct {
	Jobs  int
	Nodes int
	CPUs  int
	GPUs  int
	RAM   float64 // megabytes
}

// Row is one line of the finished summary.
type Row struct {
	Keys   []string // level values, in level order
	Totals Totals
}

// ParseLevels resolves comma-separated level names by prefix match.
func ParseLevels(arg string) ([]string, error) {
	var levels []string
	for _, l := range strings.Split(arg, ",") {
		want := strings.ToLower(strings.TrimSpace(l))
		if want == "" {
			continue
		}
		found := ""
		for _, avail := range Levels {
			if strings.HasPrefix(strings.ToLower(avail), want) {
				found = avail
				break
			}
		}
		if found == "" {
			return nil, errors.New(errors.ErrConfig,
				"level not recognized: "+l,
				"Choose from: "+strings.Join(Levels, ", "))
		}
		levels = append(levels, found)
	}
	if len(levels) == 0 {
		return nil, errors.New(errors.ErrConfig, "no summary levels given",
			"Choose from: "+strings.Join(Levels, ", "))
	}
	return levels, nil
}

// Memory returns the job's total requested memory in megabytes. The ReqMem
// field ends with a unit letter and a 'c' (per core) or 'n' (per node)
// scaling suffix.
func (j JobRequest) Memory() (float64, error) {
	if len(j.ReqMem) < 3 {
		return 0, errors.Newf(errors.ErrParse, "malformed ReqMem '%s'", j.ReqMem)
	}
	unit := j.ReqMem[len(j.ReqMem)-2]
	perWhat := j.ReqMem[len(j.ReqMem)-1]

	mult, ok := sizeMultipliers[unit]
	if !ok {
		return 0, errors.Newf(errors.ErrParse, "malformed ReqMem '%s'", j.ReqMem)
	}

	raw, err := strconv.ParseFloat(j.ReqMem[:len(j.ReqMem)-2], 64)
	if err != nil {
		return 0, errors.Newf(errors.ErrParse, "malformed ReqMem '%s'", j.ReqMem)
	}

	var count string
	switch perWhat {
	case 'c':
		count = j.ReqCPUs
	case 'n':
		count = j.ReqNodes
	default:
		return 0, errors.Newf(errors.ErrParse, "malformed ReqMem '%s'", j.ReqMem)
	}
	n, err := strconv.Atoi(count)
	if err != nil {
		return 0, errors.Newf(errors.ErrParse, "malformed ReqMem scaling count '%s'", count)
	}
	return raw * mult * float64(n), nil
}

// gpuCount pulls the GPU count out of a "gpu:N" or "gpu:type:N" GRES request.
func gpuCount(gres string) int {
	if !strings.HasPrefix(gres, "gpu") {
		return 0
	}
	parts := strings.Split(gres, ":")
	if len(parts) < 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return n
}

// Summarize folds job requests into per-level-combination totals.
func Summarize(jobs []JobRequest, levels []string) ([]Row, error) {
	totals := make(map[string]*Totals)
	keys := make(map[string][]string)

	for _, job := range jobs {
		levelKeys := make([]string, len(levels))
		for i, level := range levels {
			levelKeys[i] = job.level(level)
		}
		mapKey := strings.Join(levelKeys, "\x00")

		t, ok := totals[mapKey]
		if !ok {
			t = &Totals{}
			totals[mapKey] = t
			keys[mapKey] = levelKeys
		}

		cpus, err := strconv.Atoi(job.ReqCPUs)
		if err != nil {
			return nil, errors.Newf(errors.ErrParse, "malformed ReqCPUS '%s'", job.ReqCPUs)
		}
		nodes, err := strconv.Atoi(job.ReqNodes)
		if err != nil {
			return nil, errors.Newf(errors.ErrParse, "malformed ReqNodes '%s'", job.ReqNodes)
		}
		mem, err := job.Memory()
		if err != nil {
			return nil, err
		}

		t.Jobs++
		t.CPUs += cpus
		t.Nodes += nodes
		t.RAM += mem
		t.GPUs += gpuCount(job.ReqGRES)
	}

	rows := make([]Row, 0, len(totals))
	for mapKey, t := range totals {
		rows = append(rows, Row{Keys: keys[mapKey], Totals: *t})
	}
	return rows, nil
}

// level returns the job's value for a summary level. State is lowercased,
// the way the accounting report's mixed-case states read best in a column.
func (j JobRequest) level(name string) string {
	switch name {
	case "User":
		return j.User
	case "Account":
		return j.Account
	case "State":
		return strings.ToLower(j.State)
	case "Partition":
		return j.Partition
	}
	return ""
}

// Sort orders rows on the given columns, descending unless ascending is set.
// Ties fall back to the level keys so output is stable run to run.
func Sort(rows []Row, sortOn []string, ascending bool) {
	sort.SliceStable(rows, func(a, b int) bool {
		for _, col := range sortOn {
			av, bv := rows[a].Totals.column(col), rows[b].Totals.column(col)
			if av == bv {
				continue
			}
			if ascending {
				return av < bv
			}
			return av > bv
		}
		return strings.Join(rows[a].Keys, "\x00") < strings.Join(rows[b].Keys, "\x00")
	})
}

func (t Totals) column(name string) float64 {
	switch name {
	case "Jobs":
		return float64(t.Jobs)
	case "Nodes":
		return float64(t.Nodes)
	case "CPUs":
		return float64(t.CPUs)
	case "GPUs":
		return float64(t.GPUs)
	case "RAM":
		return t.RAM
	}
	return 0
}

// RAMIn converts the megabyte total into the requested unit, rounded to one
// decimal place.
func (t Totals) RAMIn(unit byte) float64 {
	mult, ok := sizeMultipliers[unit]
	if !ok {
		mult = sizeMultipliers['G']
	}
	scaled := t.RAM / mult
	return float64(int(scaled*10+0.5)) / 10
}
