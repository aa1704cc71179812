package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ycrc/Orwell-CLI/internal/cluster"
	"github.com/ycrc/Orwell-CLI/internal/config"
	"github.com/ycrc/Orwell-CLI/internal/errors"
	"github.com/ycrc/Orwell-CLI/internal/filter"
	"github.com/ycrc/Orwell-CLI/internal/glyphs"
	"github.com/ycrc/Orwell-CLI/internal/logger"
	"github.com/ycrc/Orwell-CLI/internal/remote"
	"github.com/ycrc/Orwell-CLI/internal/render"
	"github.com/ycrc/Orwell-CLI/internal/slurm"
	"github.com/ycrc/Orwell-CLI/internal/ui"
)

var log = logger.NewEnvLogger("[orwell]")

// newRunner picks where the reporting commands execute: this machine, or a
// login node over SSH.
func newRunner(cfg config.Config) (slurm.Runner, func(), error) {
	if cfg.Remote == "" {
		return slurm.LocalRunner{}, func() {}, nil
	}
	r, err := remote.Dial(cfg.Remote, remote.DefaultDialTimeout)
	if err != nil {
		return nil, nil, err
	}
	return r, func() { r.Close() }, nil
}

// gridCommand runs the root command: ingest both report streams, then draw
// the chassis grid, plus the optional legend and info blocks.
func gridCommand() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	charset, err := glyphs.ByName(cfg.Glyphs)
	if err != nil {
		return err
	}
	mode, err := displayMode(cfg.Show)
	if err != nil {
		return err
	}

	runner, closeRunner, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer closeRunner()

	if infoFlag {
		if err := printGeneralInfo(os.Stdout, runner); err != nil {
			return err
		}
	}
	if legendFlag {
		printLegend(os.Stdout, charset, cfg.Show)
	}

	reg, err := buildRegistry(runner, mode, charset, cfg.Remote == "")
	if err != nil {
		return err
	}

	mode2 := filter.Or
	if andFlag {
		mode2 = filter.And
	}
	renderer := &render.Renderer{
		Registry:  reg,
		Filter:    buildFilter(mode2),
		ColorCode: ui.ColorCode(cfg.Color, log),
		Color:     !noColorFlag && ui.ColorEnabled(),
	}
	return renderer.Render(os.Stdout)
}

// displayMode validates the --show flag.
func displayMode(show string) (cluster.DisplayMode, error) {
	for _, m := range cluster.Modes {
		if string(m) == show {
			return m, nil
		}
	}
	return "", errors.New(errors.ErrConfig,
		"unknown display mode '"+show+"'",
		"Choose one of: cpu, ram, both, job")
}

// buildRegistry ingests the node-state and job-accounting streams, plus GPU
// info when the slurm config dir is reachable. The two report streams are
// independent; either failing is fatal.
func buildRegistry(runner slurm.Runner, mode cluster.DisplayMode, charset *glyphs.Charset, localConf bool) (*cluster.Registry, error) {
	reg := cluster.NewRegistry(mode, charset)

	lines, err := runner.Lines(slurm.SinfoArgs)
	if err != nil {
		return nil, err
	}
	states, err := slurm.ParseNodeStates(lines)
	if err != nil {
		return nil, err
	}
	for _, rec := range states {
		if err := reg.IngestNodeState(rec); err != nil {
			return nil, err
		}
	}

	lines, err = runner.Lines(slurm.SacctArgs)
	if err != nil {
		return nil, err
	}
	jobs, err := slurm.ParseJobRecords(lines)
	if err != nil {
		return nil, err
	}
	for _, rec := range jobs {
		if err := reg.IngestJobRecord(rec); err != nil {
			return nil, err
		}
	}

	// GPU info is best effort: gres.conf only exists on cluster machines.
	if localConf {
		for _, m := range gpuMappings(runner) {
			if err := reg.IngestGPUInfo(m.NodeList, m.GPUType); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}

// gpuMappings reads gres.conf out of the discovered slurm config directory.
func gpuMappings(runner slurm.Runner) []slurm.GPUMapping {
	dir, err := slurm.ConfDir(runner)
	if err != nil || dir == "" {
		log.Debug("no slurm config dir found, skipping gpu info")
		return nil
	}
	return slurm.ReadGresConf(filepath.Join(dir, "gres.conf"))
}

// printLegend writes the status glyph table and the usage bucket scale.
func printLegend(w io.Writer, charset *glyphs.Charset, show string) {
	if show == string(cluster.ModeBoth) {
		show = "cpu,ram"
	}

	stateGlyphs := charset.StateGlyphs()
	states := make([]string, 0, len(stateGlyphs))
	for state := range stateGlyphs {
		states = append(states, state)
	}
	sort.Strings(states)

	usageLabel := fmt.Sprintf("node %s allocation: ", show)
	pad := len(usageLabel)
	for _, state := range states {
		if len(state)+2 > pad {
			pad = len(state) + 2
		}
	}

	fmt.Fprintln(w, ui.HeadingStyle.Render("Legend"))
	for _, state := range states {
		fmt.Fprintf(w, "%-*s|%s|\n", pad, state+": ", stateGlyphs[state])
	}

	scale := strings.Join(charset.Usage.Glyphs(), "|")
	fmt.Fprintf(w, "%-*s|%s|\n", pad, usageLabel, scale)
	ruler := fmt.Sprintf("^1%%%s100%%^", strings.Repeat(" ", charset.Usage.Len()*2-7))
	fmt.Fprintf(w, "%s%s\n\n", strings.Repeat(" ", pad), ruler)
}

// printGeneralInfo lists the cluster's partitions, GPU types, and features.
func printGeneralInfo(w io.Writer, runner slurm.Runner) error {
	parts, err := runner.Lines(slurm.SinfoPartsArgs)
	if err != nil {
		return err
	}
	feats, err := runner.Lines(slurm.SinfoFeatsArgs)
	if err != nil {
		return err
	}

	gpuSet := make(map[string]bool)
	for _, m := range gpuMappings(runner) {
		gpuSet[m.GPUType] = true
	}

	featSet := make(map[string]bool)
	for _, line := range feats {
		for _, f := range strings.Split(line, ",") {
			if f != "" {
				featSet[f] = true
			}
		}
	}

	fmt.Fprintln(w, ui.HeadingStyle.Render("Cluster info"))
	fmt.Fprintf(w, "Partitions found (* means default):\n%s\n\n", joinSorted(sliceSet(parts)))
	fmt.Fprintf(w, "GPU types found:\n%s\n\n", joinSorted(gpuSet))
	fmt.Fprintf(w, "Features found:\n%s\n\n", joinSorted(featSet))
	return nil
}

func sliceSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item != "" {
			set[item] = true
		}
	}
	return set
}

func joinSorted(set map[string]bool) string {
	if len(set) == 0 {
		return "None"
	}
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)
	return strings.Join(items, ", ")
}
