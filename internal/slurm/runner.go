package slurm

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/ycrc/Orwell-CLI/internal/errors"
)

// Reporting commands. sinfo covers every node including hidden partitions;
// sacct is restricted to running jobs with one line per job.
var (
	SinfoArgs      = []string{"sinfo", "--format=%all", "-a"}
	SinfoPartsArgs = []string{"sinfo", "--format=%P", "-ha"}
	SinfoFeatsArgs = []string{"sinfo", "-ha", "--format=%f"}
	SacctArgs      = []string{"sacct", "-XaPsR", "-oJobID,JobName,User,Account,NodeList,Partition"}
	SacctmgrArgs   = []string{"sacctmgr", "show", "configuration"}
)

// Runner produces the raw output lines of a reporting command. The local
// runner shells out on this machine; the remote runner goes over SSH.
type Runner interface {
	Lines(args []string) ([]string, error)
}

// LocalRunner executes reporting commands as local subprocesses.
type LocalRunner struct{}

// Lines runs the command and returns its stdout split into trimmed lines.
// A command that cannot be started or exits non-zero is fatal.
func (LocalRunner) Lines(args []string) ([]string, error) {
	cmd := exec.Command(args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't run '"+strings.Join(args, " ")+"'",
			"Couldn't find slurm commands. Are you sure you're on a slurm cluster?")
	}
	return splitLines(stdout.String()), nil
}

// splitLines breaks command output into trimmed, non-empty lines.
func splitLines(out string) []string {
	raw := strings.Split(out, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// StaticRunner replays canned output, keyed by the command name. Used in
// tests and for reading pre-captured report files.
type StaticRunner map[string][]string

func (s StaticRunner) Lines(args []string) ([]string, error) {
	lines, ok := s[args[0]]
	if !ok {
		return nil, errors.Newf(errors.ErrExec, "no canned output for '%s'", args[0])
	}
	return lines, nil
}
