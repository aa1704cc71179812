package cli

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/ycrc/Orwell-CLI/internal/filter"
)

// filterFlags collects the raw highlight flag values. Each flag can repeat,
// and each occurrence can carry a comma-separated list.
var filterFlags = map[filter.Dimension]*[]string{}

// filterFlagDefs maps each filter dimension to its flag name, shorthand,
// and help text.
var filterFlagDefs = []struct {
	dim       filter.Dimension
	name      string
	shorthand string
	help      string
}{
	{filter.Partition, "partition", "p", "highlight nodes in the given partition(s)"},
	{filter.Feature, "feature", "f", "highlight nodes with the given feature(s)"},
	{filter.GPUType, "gpu-type", "g", "highlight nodes with the given gpu(s) available"},
	{filter.JobID, "job-id", "j", "highlight nodes where jobs with the given jobid(s) are running"},
	{filter.JobPartition, "job-partition", "P", "highlight nodes running jobs submitted to the given partition(s)"},
	{filter.User, "user", "u", "highlight nodes where the given user(s) are running jobs"},
	{filter.Account, "account", "A", "highlight nodes where the given account(s) are running jobs"},
}

// addFilterFlags registers the highlight filter flags on a flag set.
func addFilterFlags(f *pflag.FlagSet) {
	for _, def := range filterFlagDefs {
		values := new([]string)
		filterFlags[def.dim] = values
		f.StringArrayVarP(values, def.name, def.shorthand, nil, def.help+", comma separated")
	}
}

// buildFilter assembles the highlight filter from the collected flag values,
// splitting comma lists, in canonical dimension order.
func buildFilter(mode filter.Mode) *filter.Filter {
	f := filter.New(mode)
	for _, def := range filterFlagDefs {
		values := *filterFlags[def.dim]
		for _, csv := range values {
			for _, item := range strings.Split(csv, ",") {
				if item != "" {
					f.Add(def.dim, item)
				}
			}
		}
	}
	return f
}
