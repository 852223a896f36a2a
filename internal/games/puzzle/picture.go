package puzzle

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"math/rand"
	"os"

	"github.com/vovakirdan/natari/internal/labels"
)

// picture is a grayscale image with intensities in [0, 1].
type picture struct {
	width, height int
	pix           []float32
}

func newPicture(w, h int) *picture {
	return &picture{width: w, height: h, pix: make([]float32, w*h)}
}

func (p *picture) at(x, y int) float32 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0
	}
	return p.pix[y*p.width+x]
}

func (p *picture) set(x, y int, v float32) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.pix[y*p.width+x] = v
}

// synthesizePicture paints a diagonal gradient with bright blobs so every
// tile looks different. The picture does not depend on the game seed.
func synthesizePicture(w, h int) *picture {
	p := newPicture(w, h)
	rng := rand.New(rand.NewSource(1))
	blobs := labels.Synthesize(w, h, max(1, w*h/15000), 10, 40, rng)

	for y := range h {
		for x := range w {
			v := 0.15 + 0.35*float32(x+y)/float32(w+h)
			if l, _ := blobs.At(x, y); l != 0 {
				v = 0.6 + 0.1*float32(l%5)
			}
			p.pix[y*w+x] = v
		}
	}
	return p
}

// loadPicture decodes a PNG or JPEG file into luminance.
func loadPicture(path string) (*picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("puzzle: failed to open picture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("puzzle: failed to decode picture %s: %w", path, err)
	}

	b := img.Bounds()
	p := newPicture(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			p.set(x-b.Min.X, y-b.Min.Y, float32(g.Y)/0xffff)
		}
	}
	return p, nil
}

// crop trims the picture to a whole number of patches.
func (p *picture) crop(patch int) *picture {
	w := p.width / patch * patch
	h := p.height / patch * patch
	out := newPicture(w, h)
	for y := range h {
		copy(out.pix[y*w:(y+1)*w], p.pix[y*p.width:y*p.width+w])
	}
	return out
}

// drawGrid blacks out a two pixel line on each inner tile border.
func (p *picture) drawGrid(patch int) {
	for x := patch; x < p.width; x += patch {
		for y := range p.height {
			p.set(x-1, y, 0)
			p.set(x, y, 0)
		}
	}
	for y := patch; y < p.height; y += patch {
		for x := range p.width {
			p.set(x, y-1, 0)
			p.set(x, y, 0)
		}
	}
}
