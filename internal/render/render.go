// Package render draws the cluster grid: one row per chassis, one glyph per
// node slot, highlighted where the active filter matches.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ycrc/Orwell-CLI/internal/cluster"
	"github.com/ycrc/Orwell-CLI/internal/filter"
	"github.com/ycrc/Orwell-CLI/internal/ui"
)

// delimiter separates glyphs within a row and brackets the row ends.
const delimiter = "|"

// Renderer writes the chassis grid for a populated registry.
type Renderer struct {
	Registry *cluster.Registry
	Filter   *filter.Filter
	// ColorCode is the ANSI code wrapped around highlighted glyphs.
	ColorCode string
	// Color disables highlight escapes entirely when false.
	Color bool
}

// Render writes the grid to w. Chassis are visited in lexicographic order;
// each row covers node indices 1 through the chassis's observed maximum.
func (r *Renderer) Render(w io.Writer) error {
	chassis := r.Registry.Chassis()
	pad := labelPad(chassis)

	for _, chas := range chassis {
		if _, err := fmt.Fprint(w, padLabel(chas, pad), r.row(chas), "\n"); err != nil {
			return err
		}
	}
	return nil
}

// row builds one chassis row of delimited glyphs.
func (r *Renderer) row(chassis string) string {
	glyphs := make([]string, 0, r.Registry.MaxIndex(chassis))
	for i := 1; i <= r.Registry.MaxIndex(chassis); i++ {
		node, _ := r.Registry.NodeAt(chassis, i)
		glyph := r.glyphFor(node)
		if r.highlight(node) {
			glyph = ui.Highlight(glyph, r.ColorCode)
		}
		glyphs = append(glyphs, glyph)
	}
	return delimiter + strings.Join(glyphs, delimiter) + delimiter
}

// glyphFor resolves the display glyph for a grid slot. Slots with no record,
// and nodes only ever referenced by job data, show the absent glyph --
// doubled in dual-metric mode to preserve column width parity.
func (r *Renderer) glyphFor(node *cluster.Node) string {
	absent := r.Registry.Charset().Absent
	glyph := absent
	if node != nil {
		glyph = node.Glyph
	}
	if r.Registry.Mode() == cluster.ModeBoth && glyph == absent {
		glyph += absent
	}
	return glyph
}

func (r *Renderer) highlight(node *cluster.Node) bool {
	if !r.Color || r.Filter == nil || r.Filter.Empty() {
		return false
	}
	return r.Filter.Matches(node)
}

// labelPad returns the label field width: longest chassis name plus two.
func labelPad(chassis []string) int {
	max := 0
	for _, c := range chassis {
		if len(c) > max {
			max = len(c)
		}
	}
	return max + 2
}

// padLabel right-pads "<chassis>: " to the field width.
func padLabel(chassis string, pad int) string {
	label := chassis + ": "
	if len(label) < pad {
		label += strings.Repeat(" ", pad-len(label))
	}
	return label
}
