// Package colors holds the styles used by the bzip2 command output.
//
// Colors are disabled automatically when stdout is not a terminal; Init lets the
// --color/--no-color flags override that.
package colors

import "github.com/fatih/color"

// Init overrides the auto-detected color setting when forceColor is not nil.
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// Enabled returns true if colors are currently enabled.
func Enabled() bool {
	return !color.NoColor
}

func Bold() *color.Color  { return color.New(color.Bold) }
func Faint() *color.Color { return color.New(color.Faint) }

// Status styles for the test and info commands.
func OK() *color.Color      { return color.New(color.Bold, color.FgHiGreen) }
func Failed() *color.Color  { return color.New(color.Bold, color.FgHiRed) }
func Warning() *color.Color { return color.New(color.FgYellow) }

// Table styles.
func Header() *color.Color { return color.New(color.Bold, color.FgHiBlue) }
func Offset() *color.Color { return color.New(color.Faint, color.FgWhite) }
func CRC() *color.Color    { return color.New(color.FgMagenta) }
func Size() *color.Color   { return color.New(color.FgHiCyan) }
