package domain

// Color is a named palette entry.
type Color string

const (
	ColorRed        Color = "red"
	ColorPink       Color = "pink"
	ColorPurple     Color = "purple"
	ColorDeepPurple Color = "deepPurple"
	ColorIndigo     Color = "indigo"
	ColorBlue       Color = "blue"
	ColorLightBlue  Color = "lightBlue"
	ColorCyan       Color = "cyan"
	ColorTeal       Color = "teal"
	ColorGreen      Color = "green"
	ColorLightGreen Color = "lightGreen"
	ColorLime       Color = "lime"
	ColorYellow     Color = "yellow"
	ColorAmber      Color = "amber"
	ColorOrange     Color = "orange"
	ColorDeepOrange Color = "deepOrange"
	ColorBrown      Color = "brown"
	ColorGrey       Color = "grey"
	ColorBlueGrey   Color = "blueGrey"
	ColorCommon     Color = "common"
)

// Line colors used as state signals.
const (
	LineColorPending   = ColorLightBlue
	LineColorNormal    = ColorGrey
	LineColorHighlight = ColorDeepOrange
)

var allColors = []Color{
	ColorRed, ColorPink, ColorPurple, ColorDeepPurple, ColorIndigo,
	ColorBlue, ColorLightBlue, ColorCyan, ColorTeal, ColorGreen,
	ColorLightGreen, ColorLime, ColorYellow, ColorAmber, ColorOrange,
	ColorDeepOrange, ColorBrown, ColorGrey, ColorBlueGrey, ColorCommon,
}

// reserved entries exist in the palette but are not offered for selection.
var reserved = map[Color]bool{
	ColorAmber:  true,
	ColorCommon: true,
}

// Palette returns the selectable colors in display order.
func Palette() []Color {
	out := make([]Color, 0, len(allColors)-len(reserved))
	for _, c := range allColors {
		if !reserved[c] {
			out = append(out, c)
		}
	}
	return out
}

// Valid reports whether c can be assigned to a header or an answer.
func (c Color) Valid() bool {
	if reserved[c] {
		return false
	}
	for _, known := range allColors {
		if c == known {
			return true
		}
	}
	return false
}
