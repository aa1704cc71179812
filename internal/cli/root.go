// Package cli wires the orwell commands: the root command renders the
// cluster grid, with subcommands for the queue summary, live watch mode,
// config bootstrap, and version info.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ycrc/Orwell-CLI/internal/config"
)

// Global flags shared by the grid-rendering commands.
var (
	configFlag  string
	glyphsFlag  string
	showFlag    string
	colorFlag   string
	remoteFlag  string
	legendFlag  bool
	infoFlag    bool
	andFlag     bool
	noColorFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "orwell",
	Short: "View slurm node status and usage",
	Long: `A utility to view slurm node status and usage.

Each chassis renders as one row of glyphs, one per node, encoding the
node's allocation. Filters highlight matching nodes.

Any arguments that accept lists expect them to be comma separated.

Examples:
  orwell
  orwell -s both -y utf8
  orwell -p gpu -c cyan
  orwell -j 123456 -u ahs3 --and`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return gridCommand()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "config file (default ~/.config/orwell/config.yaml)")
	pf.StringVar(&remoteFlag, "remote", "", "run the reporting commands on this login node over SSH")

	f := rootCmd.Flags()
	f.StringVarP(&glyphsFlag, "glyphs", "y", "", "character set: ascii, utf8, or emoji")
	f.StringVarP(&showFlag, "show", "s", "", "what to display: cpu, ram, both, or job")
	f.StringVarP(&colorFlag, "color", "c", "", "highlight color")
	f.BoolVarP(&legendFlag, "legend", "l", false, "show legend")
	f.BoolVarP(&infoFlag, "general-info", "i", false, "show some additional cluster info")
	f.BoolVar(&andFlag, "and", false, "require all filters to match (default: any)")
	f.BoolVar(&noColorFlag, "no-color", false, "disable highlight colors")

	addFilterFlags(f)
}

// loadConfig reads the config file and layers flag overrides on top.
func loadConfig() (config.Config, error) {
	path := configFlag
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if glyphsFlag != "" {
		cfg.Glyphs = glyphsFlag
	}
	if showFlag != "" {
		cfg.Show = showFlag
	}
	if colorFlag != "" {
		cfg.Color = colorFlag
	}
	if remoteFlag != "" {
		cfg.Remote = remoteFlag
	}
	return cfg, nil
}

// Execute runs the root command. Errors print their structured form and
// exit non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
