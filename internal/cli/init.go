package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/ycrc/Orwell-CLI/internal/config"
	"github.com/ycrc/Orwell-CLI/internal/errors"
	"github.com/ycrc/Orwell-CLI/internal/glyphs"
	"github.com/ycrc/Orwell-CLI/internal/ui"
	"gopkg.in/yaml.v3"
)

var (
	initForceFlag bool
	initYesFlag   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with your preferred defaults",
	Long: `Write ~/.config/orwell/config.yaml with default display settings so
you don't have to repeat flags on every run.

Flags given alongside init (e.g. --glyphs, --color) pre-fill the prompts;
use --yes to skip the prompts entirely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand()
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForceFlag, "force", false, "overwrite an existing config file")
	initCmd.Flags().BoolVar(&initYesFlag, "yes", false, "accept current values without prompting")
	initCmd.Flags().StringVarP(&glyphsFlag, "glyphs", "y", "", "character set: ascii, utf8, or emoji")
	initCmd.Flags().StringVarP(&showFlag, "show", "s", "", "display mode: cpu, ram, both, or job")
	initCmd.Flags().StringVarP(&colorFlag, "color", "c", "", "highlight color")

	rootCmd.AddCommand(initCmd)
}

func initCommand() error {
	path := configFlag
	if path == "" {
		path = config.Path()
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"Can't determine your home directory",
			"Pass --config to choose a config file location.")
	}

	if _, err := os.Stat(path); err == nil && !initForceFlag {
		if initYesFlag {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Use --force to overwrite")
		}
		var overwrite bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
				Value(&overwrite),
		))
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !initYesFlag {
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Character set").
				Options(huh.NewOptions(glyphs.Names...)...).
				Value(&cfg.Glyphs),
			huh.NewSelect[string]().
				Title("Display mode").
				Options(huh.NewOptions("cpu", "ram", "both", "job")...).
				Value(&cfg.Show),
			huh.NewSelect[string]().
				Title("Highlight color").
				Options(huh.NewOptions(ui.ColorNames()...)...).
				Value(&cfg.Color),
			huh.NewInput().
				Title("Login node for remote mode (blank for local)").
				Value(&cfg.Remote),
		))
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Run with --yes to write the current defaults without prompting")
		}
	}

	return writeConfig(path, cfg)
}

func writeConfig(path string, cfg config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't encode the config", "")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create "+filepath.Dir(path), "Check directory permissions.")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write "+path, "Check file permissions.")
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
