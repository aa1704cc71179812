package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ycrc/Orwell-CLI/internal/errors"
	"github.com/ycrc/Orwell-CLI/internal/queue"
	"github.com/ycrc/Orwell-CLI/internal/slurm"
	"github.com/ycrc/Orwell-CLI/internal/ui"
)

var (
	queueLevelsFlag    string
	queueGPUFlag       bool
	queueSortFlag      []string
	queueAscendingFlag bool
	queueUnitsFlag     string
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Summarize pending and running jobs",
	Long: `Summarize the job queue, grouped by one or more accounting levels.

Levels can be abbreviated: u, a, s, p select user, account, state, partition.

Examples:
  orwell queue
  orwell queue -l user,partition --gpu
  orwell queue -l account --sort-on RAM -U T`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return queueCommand(os.Stdout)
	},
}

func init() {
	f := queueCmd.Flags()
	f.StringVarP(&queueLevelsFlag, "levels", "l", "user,state",
		"comma-separated levels to summarize on: "+strings.ToLower(strings.Join(queue.Levels, ", ")))
	f.BoolVarP(&queueGPUFlag, "gpu", "g", false, "show GPUs too")
	f.StringArrayVar(&queueSortFlag, "sort-on", nil,
		"column to sort on, may repeat: "+strings.Join(queue.SortColumns, ", "))
	f.BoolVarP(&queueAscendingFlag, "ascending", "a", false, "sort ascending (default descending)")
	f.StringVarP(&queueUnitsFlag, "units", "U", "G", "memory units: M, G, or T")

	rootCmd.AddCommand(queueCmd)
}

func queueCommand(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	levels, err := queue.ParseLevels(queueLevelsFlag)
	if err != nil {
		return err
	}

	sortOn := queueSortFlag
	if len(sortOn) == 0 {
		sortOn = []string{"CPUs"}
	}
	showGPU := queueGPUFlag
	for _, col := range sortOn {
		if !contains(queue.SortColumns, col) {
			return errors.New(errors.ErrConfig,
				"unknown sort column '"+col+"'",
				"Choose from: "+strings.Join(queue.SortColumns, ", "))
		}
		if col == "GPUs" {
			showGPU = true
		}
	}

	if len(queueUnitsFlag) != 1 || !strings.ContainsAny(queueUnitsFlag, "MGT") {
		return errors.New(errors.ErrConfig, "unknown memory unit '"+queueUnitsFlag+"'",
			"Choose M, G, or T")
	}
	unit := queueUnitsFlag[0]

	runner, closeRunner, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer closeRunner()

	lines, err := runner.Lines(slurm.SacctQueueArgs)
	if err != nil {
		return err
	}
	jobs, err := slurm.ParseJobRequests(lines)
	if err != nil {
		return err
	}

	rows, err := queue.Summarize(jobs, levels)
	if err != nil {
		return err
	}
	queue.Sort(rows, sortOn, queueAscendingFlag)

	fmt.Fprint(w, renderQueueTable(rows, levels, showGPU, unit))
	return nil
}

// renderQueueTable lays the summary out as padded columns.
func renderQueueTable(rows []queue.Row, levels []string, showGPU bool, unit byte) string {
	columns := []string{"Jobs", "Nodes", "CPUs"}
	if showGPU {
		columns = append(columns, "GPUs")
	}
	columns = append(columns, "RAM ("+string(unit)+"B)")

	header := append(append([]string{}, levels...), columns...)

	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := append([]string{}, row.Keys...)
		t := row.Totals
		cells = append(cells, strconv.Itoa(t.Jobs), strconv.Itoa(t.Nodes), strconv.Itoa(t.CPUs))
		if showGPU {
			cells = append(cells, strconv.Itoa(t.GPUs))
		}
		cells = append(cells, strconv.FormatFloat(t.RAMIn(unit), 'f', 1, 64))
		body = append(body, cells)
	}
	return ui.RenderSimpleTable(header, body)
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
