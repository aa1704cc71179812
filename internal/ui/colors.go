package ui

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/ycrc/Orwell-CLI/internal/logger"
	"golang.org/x/term"
)

// ANSI foreground codes for the --color flag, keyed by name.
var Colors = map[string]string{
	"black":   "30",
	"red":     "31",
	"green":   "32",
	"yellow":  "33",
	"blue":    "34",
	"magenta": "35",
	"cyan":    "36",
	"white":   "37",
}

// DefaultColor is the highlight color used when none is configured or the
// configured name is unknown.
const DefaultColor = "red"

// ColorNames returns the accepted color names, sorted.
func ColorNames() []string {
	names := make([]string, 0, len(Colors))
	for name := range Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColorCode resolves a color name to its ANSI code. Unknown names warn and
// fall back to the default color; the run continues.
func ColorCode(name string, log logger.Logger) string {
	if code, ok := Colors[name]; ok {
		return code
	}
	if log != nil {
		log.Warn("unrecognized highlight color '%s', using %s", name, DefaultColor)
	}
	return Colors[DefaultColor]
}

// Highlight wraps text in the styling escape for the given ANSI code.
func Highlight(text, code string) string {
	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, text)
}

// ColorEnabled reports whether highlight escapes should be emitted at all:
// stdout must be a terminal and the terminal profile must support color
// (NO_COLOR and dumb terminals disable it).
func ColorEnabled() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

// Semantic lipgloss styles for headings in the legend and info blocks.
var (
	HeadingStyle = lipgloss.NewStyle().Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
