package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color modes accepted by ParseProfile
const (
	ColorTrue  = "truecolor"
	Color256   = "ansi256"
	ColorANSI  = "ansi"
	ColorASCII = "ascii"
	ColorAuto  = "auto"
)

// ColorModes lists every accepted color mode
var ColorModes = []string{ColorTrue, Color256, ColorANSI, ColorASCII, ColorAuto}

// ParseProfile maps a color mode name to a termenv profile. "auto" inspects
// w (terminal capabilities, NO_COLOR, CLICOLOR_FORCE).
func ParseProfile(mode string, w io.Writer) (termenv.Profile, error) {
	switch strings.ToLower(mode) {
	case ColorTrue, "":
		return termenv.TrueColor, nil
	case Color256:
		return termenv.ANSI256, nil
	case ColorANSI:
		return termenv.ANSI, nil
	case ColorASCII:
		return termenv.Ascii, nil
	case ColorAuto:
		return termenv.NewOutput(w).EnvColorProfile(), nil
	default:
		return termenv.Ascii, fmt.Errorf("unknown color mode %q (expected one of %s)", mode, strings.Join(ColorModes, ", "))
	}
}

// TerminalWidth reports the width in cells of w when it is a terminal
func TerminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}
