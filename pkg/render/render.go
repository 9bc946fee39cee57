// Package render draws grayscale grids on a terminal as rows of colored
// blocks, one block per pixel.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"mnistview/internal/models"
)

// DefaultBlockWidth is the number of terminal cells drawn per pixel. Two
// cells make a pixel roughly square in most fonts.
const DefaultBlockWidth = 2

// asciiRamp maps intensity to glyphs, darkest first
const asciiRamp = " .:-=+*#%@"

// Options controls how grids are drawn
type Options struct {
	// Profile selects the escape sequences; termenv.Ascii draws glyphs instead of colors
	Profile termenv.Profile

	// BlockWidth is the number of cells per pixel; zero means DefaultBlockWidth
	BlockWidth int
}

// Renderer writes grids and header lines to a single output
type Renderer struct {
	w      io.Writer
	cells  [256]string
	eol    string
	header lipgloss.Style
}

// NewRenderer creates a renderer for w. The 256 possible pixel cells are
// built once up front.
func NewRenderer(w io.Writer, opts Options) *Renderer {
	width := opts.BlockWidth
	if width <= 0 {
		width = DefaultBlockWidth
	}

	r := &Renderer{
		w:   w,
		eol: termenv.CSI + termenv.ResetSeq + "m\n",
	}
	if opts.Profile == termenv.Ascii {
		r.eol = "\n"
	}

	block := strings.Repeat(" ", width)
	for gray := 0; gray < 256; gray++ {
		r.cells[gray] = cell(opts.Profile, uint8(gray), block, width)
	}

	lr := lipgloss.NewRenderer(w)
	lr.SetColorProfile(opts.Profile)
	r.header = lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	return r
}

// Header writes a single styled line
func (r *Renderer) Header(text string) error {
	_, err := fmt.Fprintln(r.w, r.header.Render(text))
	return err
}

// Println writes an unstyled line
func (r *Renderer) Println(text string) error {
	_, err := fmt.Fprintln(r.w, text)
	return err
}

// Grid draws g one row per line. convert maps each stored sample to the
// 8-bit gray level shown for it.
func Grid[T models.Sample](r *Renderer, g *models.Grid[T], convert func(T) uint8) error {
	bw := bufio.NewWriter(r.w)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			bw.WriteString(r.cells[convert(g.At(x, y))])
		}
		bw.WriteString(r.eol)
	}
	return bw.Flush()
}

// Identity is the conversion for grids that already hold 8-bit intensities
func Identity(v uint8) uint8 {
	return v
}

func cell(profile termenv.Profile, gray uint8, block string, width int) string {
	switch profile {
	case termenv.TrueColor:
		return fmt.Sprintf("%s48;2;%d;%d;%dm%s", termenv.CSI, gray, gray, gray, block)
	case termenv.Ascii:
		glyph := asciiRamp[int(gray)*len(asciiRamp)/256]
		return strings.Repeat(string(glyph), width)
	default:
		hex := fmt.Sprintf("#%02x%02x%02x", gray, gray, gray)
		seq := profile.Convert(termenv.RGBColor(hex)).Sequence(true)
		return termenv.CSI + seq + "m" + block
	}
}
