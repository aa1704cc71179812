package cli

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/ycrc/Orwell-CLI/internal/config"
	"github.com/ycrc/Orwell-CLI/internal/filter"
	"github.com/ycrc/Orwell-CLI/internal/glyphs"
	"github.com/ycrc/Orwell-CLI/internal/render"
	"github.com/ycrc/Orwell-CLI/internal/ui"
)

var watchIntervalFlag time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously refresh the cluster grid",
	Long: `Render the cluster grid in a full-screen view that refreshes on an
interval. Scroll with the arrow keys; press q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand()
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchIntervalFlag, "interval", 30*time.Second,
		"refresh interval")
	rootCmd.AddCommand(watchCmd)
}

type watchKeyMap struct {
	Quit    key.Binding
	Refresh key.Binding
}

var watchKeys = watchKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	),
}

// refreshMsg carries a freshly rendered grid, or the error that stopped it.
type refreshMsg struct {
	content string
	err     error
}

type tickMsg time.Time

// watchModel is the Bubble Tea model for watch mode.
type watchModel struct {
	cfg      config.Config
	viewport viewport.Model
	interval time.Duration
	lastTick time.Time
	err      error
	ready    bool
	quitting bool
}

func watchCommand() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Validate up front so flag mistakes fail before the screen clears.
	if _, err := glyphs.ByName(cfg.Glyphs); err != nil {
		return err
	}
	if _, err := displayMode(cfg.Show); err != nil {
		return err
	}

	m := watchModel{cfg: cfg, interval: watchIntervalFlag}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

// refresh re-ingests both report streams and renders the grid off-screen.
func (m watchModel) refresh() tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		charset, err := glyphs.ByName(cfg.Glyphs)
		if err != nil {
			return refreshMsg{err: err}
		}
		mode, err := displayMode(cfg.Show)
		if err != nil {
			return refreshMsg{err: err}
		}
		runner, closeRunner, err := newRunner(cfg)
		if err != nil {
			return refreshMsg{err: err}
		}
		defer closeRunner()

		reg, err := buildRegistry(runner, mode, charset, cfg.Remote == "")
		if err != nil {
			return refreshMsg{err: err}
		}

		combine := filter.Or
		if andFlag {
			combine = filter.And
		}
		renderer := &render.Renderer{
			Registry:  reg,
			Filter:    buildFilter(combine),
			ColorCode: ui.ColorCode(cfg.Color, log),
			Color:     true,
		}

		var b strings.Builder
		if err := renderer.Render(&b); err != nil {
			return refreshMsg{err: err}
		}
		return refreshMsg{content: b.String()}
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, watchKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, watchKeys.Refresh):
			return m, m.refresh()
		}

	case tea.WindowSizeMsg:
		headerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		return m, nil

	case refreshMsg:
		m.err = msg.err
		m.lastTick = time.Now()
		if msg.err == nil {
			m.viewport.SetContent(msg.content)
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}
	header := ui.HeadingStyle.Render("orwell watch") +
		ui.MutedStyle.Render("  refreshed "+m.lastTick.Format("15:04:05")+"  (q quit, r refresh)")
	if m.err != nil {
		return header + "\n\n" + m.err.Error()
	}
	return header + "\n" + m.viewport.View()
}
