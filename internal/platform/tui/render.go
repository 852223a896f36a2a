package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/natari/internal/core"
)

// upperHalf draws two vertically stacked pixels per terminal cell: the
// foreground colours the top pixel, the background the bottom one.
const upperHalf = "▀"

// asciiRamp orders characters from dark to bright for plain-text output.
const asciiRamp = " .:-=+*#%@"

// rgb is a colour with components in [0, 1].
type rgb struct{ r, g, b float32 }

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.r), channel(c.g), channel(c.b))
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// colorize maps a normalized intensity to a colour.
func colorize(cm core.Colormap, t float32) rgb {
	switch cm {
	case core.ColormapTurbo:
		return turbo(t)
	case core.ColormapMagenta:
		return rgb{t, 0, t}
	case core.ColormapGreen:
		return rgb{0, t, 0}
	case core.ColormapDepth:
		if t <= 0 {
			return rgb{}
		}
		// blue (near) through purple to red (far)
		return rgb{t, 0.2 * (1 - t), 1 - t}
	default:
		return rgb{t, t, t}
	}
}

// turbo is the polynomial approximation of the Turbo rainbow colormap.
func turbo(t float32) rgb {
	x := float64(t)
	x2, x3, x4, x5 := x*x, x*x*x, x*x*x*x, x*x*x*x*x
	r := 0.13572138 + 4.61539260*x - 42.66032258*x2 + 132.13108234*x3 - 152.94239396*x4 + 59.28637943*x5
	g := 0.09140261 + 2.19418839*x + 4.84296658*x2 - 14.18503333*x3 + 4.27729857*x4 + 2.82956604*x5
	b := 0.10667330 + 12.64194608*x - 60.58204836*x2 + 110.36276771*x3 - 89.90310912*x4 + 27.34824973*x5
	return rgb{float32(r), float32(g), float32(b)}
}

// BlockSize returns the edge length in buffer pixels of the square block
// that becomes one display pixel, so that a w x h buffer fits into cols x
// pixelRows display pixels.
func BlockSize(w, h, cols, pixelRows int) int {
	cols = max(cols, 1)
	pixelRows = max(pixelRows, 1)
	s := max((w+cols-1)/cols, (h+pixelRows-1)/pixelRows)
	return max(s, 1)
}

// Downsample max-pools a 2D buffer into blocks of s x s pixels so thin
// features such as bullets and grid lines survive. Volumes are projected
// first.
func Downsample(buf *core.Buffer, s int) *core.Buffer {
	if buf.Depth() > 1 {
		buf = buf.MaxProjectZ()
	}
	if s <= 1 {
		return buf
	}
	w := (buf.Width() + s - 1) / s
	h := (buf.Height() + s - 1) / s
	out := core.NewBuffer(w, h, 1)
	for y := range h {
		for x := range w {
			m := buf.At(x*s, y*s, 0)
			for dy := range s {
				for dx := range s {
					px, py := x*s+dx, y*s+dy
					if !buf.InBounds(px, py, 0) {
						continue
					}
					m = max(m, buf.At(px, py, 0))
				}
			}
			out.Set(x, y, 0, m)
		}
	}
	return out
}

// RenderFrame draws a buffer into at most cols x rows terminal cells using
// half blocks and the display's colormap. A nil renderer uses the default.
func RenderFrame(r *lipgloss.Renderer, buf *core.Buffer, disp core.Display, cols, rows int) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	small := Downsample(buf, BlockSize(buf.Width(), buf.Height(), cols, rows*2))

	var sb strings.Builder
	sb.Grow(small.Width() * small.Height())

	for y := 0; y < small.Height(); y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}

		// Group runs of equal colour pairs to minimize escape sequences
		x := 0
		for x < small.Width() {
			top, bottom := pixelColors(small, disp, x, y)
			n := 1
			for x+n < small.Width() {
				t, b := pixelColors(small, disp, x+n, y)
				if t != top || b != bottom {
					break
				}
				n++
			}
			style := r.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom))
			sb.WriteString(style.Render(strings.Repeat(upperHalf, n)))
			x += n
		}
	}
	return sb.String()
}

func pixelColors(b *core.Buffer, disp core.Display, x, y int) (string, string) {
	top := colorize(disp.Colormap, disp.Normalize(b.At(x, y, 0))).hex()
	bottom := "#000000"
	if y+1 < b.Height() {
		bottom = colorize(disp.Colormap, disp.Normalize(b.At(x, y+1, 0))).hex()
	}
	return top, bottom
}

// RenderASCII draws a buffer as plain text no wider than cols characters.
// Terminal cells are about twice as tall as wide, so each character covers
// a block twice as tall as it is wide.
func RenderASCII(buf *core.Buffer, disp core.Display, cols int) string {
	s := BlockSize(buf.Width(), buf.Height(), cols, buf.Height())
	small := Downsample(buf, s)

	var sb strings.Builder
	last := len(asciiRamp) - 1
	for y := 0; y < small.Height(); y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range small.Width() {
			v := max(small.At(x, y, 0), small.At(x, y+1, 0))
			i := int(disp.Normalize(v)*float32(last) + 0.5)
			sb.WriteByte(asciiRamp[i])
		}
	}
	return sb.String()
}
