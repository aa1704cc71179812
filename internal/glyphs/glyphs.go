// Package glyphs defines the character sets used to draw the cluster grid:
// per-state glyphs, the bucketed usage scale, and the cyclic alphabet
// assigned to jobs in job display mode.
package glyphs

import (
	"sort"
	"strings"

	"github.com/ycrc/Orwell-CLI/internal/errors"
)

// Charset names accepted by the --glyphs flag.
const (
	ASCII = "ascii"
	UTF8  = "utf8"
	Emoji = "emoji"
)

// Names lists the available charset names in display order.
var Names = []string{ASCII, UTF8, Emoji}

// Scale maps a fixed ascending list of usage boundaries to glyphs.
type Scale struct {
	values []float64
	chars  []string
}

// NewScale pairs ascending boundary values with their glyphs.
// The two slices must be the same length.
func NewScale(values []float64, chars []string) Scale {
	if len(values) != len(chars) {
		panic("glyphs: scale values and chars length mismatch")
	}
	return Scale{values: values, chars: chars}
}

// Nearest returns the boundary value numerically closest to f.
// Out-of-range values clamp to the end boundaries; an exact tie between two
// boundaries resolves to the smaller one.
func (s Scale) Nearest(f float64) float64 {
	pos := sort.SearchFloat64s(s.values, f)
	if pos == 0 {
		return s.values[0]
	}
	if pos == len(s.values) {
		return s.values[len(s.values)-1]
	}
	before, after := s.values[pos-1], s.values[pos]
	if after-f < f-before {
		return after
	}
	return before
}

// Glyph returns the glyph for the boundary nearest to f.
func (s Scale) Glyph(f float64) string {
	pos := sort.SearchFloat64s(s.values, s.Nearest(f))
	return s.chars[pos]
}

// Glyphs returns the scale's glyphs in ascending boundary order.
func (s Scale) Glyphs() []string {
	return s.chars
}

// Len returns the number of buckets in the scale.
func (s Scale) Len() int {
	return len(s.values)
}

// Charset bundles everything needed to draw nodes in one character set.
type Charset struct {
	Name     string
	Absent   string // grid position with no known node
	Idle     string
	Reserved string
	Down     string
	Usage    Scale
	jobAlpha []string
}

// NodeGlyph selects the display glyph for a node from its state tag and a
// usage fraction in [0,1]. Allocated and mixed nodes show a usage bucket;
// idle and reserved nodes show their state glyph; anything else is down.
func (c *Charset) NodeGlyph(state string, usage float64) string {
	switch {
	case strings.HasPrefix(state, "mix"), strings.HasPrefix(state, "alloc"):
		return c.Usage.Glyph(usage)
	case strings.HasPrefix(state, "idle"):
		return c.Idle
	case strings.HasPrefix(state, "reserv"):
		return c.Reserved
	default:
		return c.Down
	}
}

// JobAlphabet returns the fixed cyclic glyph alphabet for job display mode.
func (c *Charset) JobAlphabet() []string {
	return c.jobAlpha
}

// StateGlyphs returns the state name to glyph mapping, for the legend.
func (c *Charset) StateGlyphs() map[string]string {
	return map[string]string{
		"not a node": c.Absent,
		"idle":       c.Idle,
		"reserved":   c.Reserved,
		"down":       c.Down,
	}
}

// ByName looks up a charset by its flag name.
func ByName(name string) (*Charset, error) {
	switch name {
	case ASCII:
		return asciiCharset, nil
	case UTF8:
		return utf8Charset, nil
	case Emoji:
		return emojiCharset, nil
	default:
		return nil, errors.New(errors.ErrConfig,
			"unknown character set '"+name+"'",
			"Choose one of: "+strings.Join(Names, ", "))
	}
}

// eighths are the 7 boundaries matching the heights of the block element
// characters used by the utf8 scale.
var eighths = []float64{0.125, 0.25, 0.375, 0.5, 0.625, 0.75, 0.875}

// deciles cover 10-90% allocation for the single-width ascii digits.
var deciles = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}

var asciiCharset = &Charset{
	Name:     ASCII,
	Absent:   " ",
	Idle:     "O",
	Reserved: "r",
	Down:     "X",
	Usage:    NewScale(deciles, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}),
	jobAlpha: splitGlyphs("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"),
}

var utf8Charset = &Charset{
	Name:     UTF8,
	Absent:   " ",
	Idle:     "▢",
	Reserved: "r",
	Down:     "▼",
	Usage:    NewScale(eighths, []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇"}),
	jobAlpha: splitGlyphs("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" +
		"𝔸𝔹ℂ𝔻𝔼𝔽𝔾ℍ𝕀𝕁𝕂𝕃𝕄ℕ𝕆ℙℚℝ𝕊𝕋𝕌𝕍𝕎𝕏𝕐ℤ𝟙𝟚𝟛𝟜𝟝𝟞𝟟𝟠𝟡𝟘" +
		"🅐🅑🅒🅓🅔🅕🅖🅗🅘🅙🅚🅛🅜🅝🅞🅟🅠🅡🅢🅣🅤🅥🅦🅧🅨🅩❶❷❸❹❺❻❼❽❾⓿"),
}

var emojiCharset = &Charset{
	Name:     Emoji,
	Absent:   "👻",
	Idle:     "💤",
	Reserved: "🎟️",
	Down:     "🚧",
	// Seven faces of increasing distress, matching the utf8 eighths.
	Usage: NewScale(eighths, []string{"🤨", "🤔", "😧", "😬", "😣", "🤬", "😤"}),
	jobAlpha: splitGlyphs("🌀🌁🌂🌃🌄🌅🌆🌇🌈🌉🌊🌋🌌🌍🌎🌏🌞🌟🌭🌮🌯🌰🌱🌲🌳🌴🌵🌷🌸🌹🌺🌻🌼🌽🌾🌿" +
		"🍀🍁🍂🍃🍄🍅🍆🍇🍈🍉🍊🍋🍌🍍🍎🍏🍐🍑🍒🍓🍔🍕🍖🍗🍘🍙🍚🍛🍜🍝🍞🍟🍠🍡🍢🍣🍤🍥🍦🍧🍨🍩🍪🍫🍬🍭🍮🍯" +
		"🎀🎁🎂🎃🎄🎈🎉🎊🎋🎌🎍🎎🎏🎐🎑🎒🎓🎠🎡🎢🎣🎤🎥🎧🎨🎩🎪🎫🎬🎭🎮🎯🎰🎱🎲🎳🎴🎵🎶🎷🎸🎹🎺🎻🎼🎽🎾🎿" +
		"🐀🐁🐂🐃🐄🐅🐆🐇🐈🐉🐊🐋🐌🐍🐎🐏🐐🐑🐒🐓🐔🐕🐖🐗🐘🐙🐚🐛🐜🐝🐞🐟🐠🐡🐢🐣🐤🐥🐦🐧🐨🐩🐪🐫🐬🐭🐮🐯" +
		"🚀🚁🚂🚃🚄🚅🚆🚇🚈🚉🚊🚋🚌🚍🚎🚏🚐🚑🚒🚓🚔🚕🚖🚗🚘🚙🚚🚛🚜🚝🚞🚟🚠🚡🚢🚤🚥🚦🚧🚨🚩🚪"),
}

// splitGlyphs breaks a string into per-rune glyph strings.
func splitGlyphs(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
