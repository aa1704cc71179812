package slurm

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// gresRE pulls the node list and GPU type out of a gres.conf line:
//
//	NodeName=gpu[01-04] Name=gpu Type=v100 File=/dev/nvidia[0-3]
var gresRE = regexp.MustCompile(`NodeName=([a-zA-Z\d\[\],\-]+).+Type=([\w\d]+)\W+.*`)

// GPUMapping associates a hostlist with one GPU type available on it.
type GPUMapping struct {
	NodeList string
	GPUType  string
}

// ConfDir discovers the slurm configuration directory from sacctmgr output.
// Returns "" when the SLURM_CONF line is missing.
func ConfDir(runner Runner) (string, error) {
	lines, err := runner.Lines(SacctmgrArgs)
	if err != nil {
		return "", err
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "SLURM_CONF") {
			fields := strings.Fields(line)
			if len(fields) >= 3 {
				return filepath.Dir(fields[2]), nil
			}
		}
	}
	return "", nil
}

// ReadGresConf parses gres.conf for hostlist/GPU-type pairs. A missing or
// unreadable file yields no mappings; GPU info is best-effort.
func ReadGresConf(path string) []GPUMapping {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return ParseGresConf(strings.Split(string(data), "\n"))
}

// ParseGresConf extracts GPU mappings from gres.conf lines.
func ParseGresConf(lines []string) []GPUMapping {
	var mappings []GPUMapping
	for _, line := range lines {
		m := gresRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		mappings = append(mappings, GPUMapping{NodeList: m[1], GPUType: m[2]})
	}
	return mappings
}
