// Package labels holds integer label images: 0 is background, every other
// value names one object. The cell counting arcade uses a nuclei image and a
// cell image derived from it by expansion.
package labels

import (
	"math/rand"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/natari/internal/core"
)

// Label identifies one object. 0 is background.
type Label uint32

// Set is a set of labels.
type Set = intmap.Set[Label]

// NewSet returns a set holding the given labels.
func NewSet(ls ...Label) *Set {
	s := intmap.NewSet[Label](len(ls))
	for _, l := range ls {
		s.Add(l)
	}
	return s
}

// Image is a 2D label image.
type Image struct {
	width, height int
	data          []Label
}

// New creates an empty label image.
func New(width, height int) *Image {
	width = core.Max(width, 1)
	height = core.Max(height, 1)
	return &Image{width: width, height: height, data: make([]Label, width*height)}
}

// Width returns the image width.
func (im *Image) Width() int { return im.width }

// Height returns the image height.
func (im *Image) Height() int { return im.height }

// At returns the label at (x, y). ok is false outside the image.
func (im *Image) At(x, y int) (l Label, ok bool) {
	if x < 0 || x >= im.width || y < 0 || y >= im.height {
		return 0, false
	}
	return im.data[y*im.width+x], true
}

// Set writes a label; writes outside the image are ignored.
func (im *Image) Set(x, y int, l Label) {
	if x < 0 || x >= im.width || y < 0 || y >= im.height {
		return
	}
	im.data[y*im.width+x] = l
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	c := &Image{width: im.width, height: im.height, data: make([]Label, len(im.data))}
	copy(c.data, im.data)
	return c
}

// Labels returns the set of non-zero labels present.
func (im *Image) Labels() *Set {
	s := intmap.NewSet[Label](64)
	for _, l := range im.data {
		if l != 0 {
			s.Add(l)
		}
	}
	return s
}

// Count returns the number of distinct non-zero labels.
func (im *Image) Count() int {
	return im.Labels().Len()
}

// Remove relabels every pixel in the set to background and returns how many
// pixels changed.
func (im *Image) Remove(set *Set) int {
	if set.Len() == 0 {
		return 0
	}
	n := 0
	for i, l := range im.data {
		if l != 0 && set.Has(l) {
			im.data[i] = 0
			n++
		}
	}
	return n
}

// Mask reports whether the pixel at (x, y) carries a label.
func (im *Image) Mask(x, y int) bool {
	l, ok := im.At(x, y)
	return ok && l != 0
}

// Synthesize scatters count round nuclei with radii in [minR, maxR] over a
// width x height image. Nuclei do not overlap; placements that would are
// retried a bounded number of times, so dense settings may yield fewer
// objects. Labels run from 1 upward.
func Synthesize(width, height, count, minR, maxR int, rng *rand.Rand) *Image {
	im := New(width, height)
	minR = core.Max(minR, 1)
	maxR = core.Max(maxR, minR)

	type disk struct{ x, y, r int }
	placed := make([]disk, 0, count)

	for attempt := 0; len(placed) < count && attempt < count*50; attempt++ {
		r := minR + rng.Intn(maxR-minR+1)
		if 2*r >= width || 2*r >= height {
			continue
		}
		d := disk{
			x: r + rng.Intn(width-2*r),
			y: r + rng.Intn(height-2*r),
			r: r,
		}

		overlaps := false
		for _, o := range placed {
			dx, dy := d.x-o.x, d.y-o.y
			gap := d.r + o.r + 1
			if dx*dx+dy*dy < gap*gap {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		placed = append(placed, d)
		l := Label(len(placed))
		for y := d.y - r; y <= d.y+r; y++ {
			for x := d.x - r; x <= d.x+r; x++ {
				dx, dy := x-d.x, y-d.y
				if dx*dx+dy*dy <= r*r {
					im.Set(x, y, l)
				}
			}
		}
	}
	return im
}

// Expand grows every object by up to distance pixels without overlapping
// its neighbours. Background pixels take the label of the nearest object
// pixel (Euclidean, resolved by breadth-first propagation of source
// coordinates).
func Expand(im *Image, distance int) *Image {
	out := im.Clone()
	if distance <= 0 {
		return out
	}

	w, h := im.width, im.height
	srcX := make([]int32, w*h)
	srcY := make([]int32, w*h)
	queue := make([]int, 0, w*h/4)

	for i, l := range im.data {
		if l != 0 {
			srcX[i], srcY[i] = int32(i%w), int32(i/w)
			queue = append(queue, i)
		}
	}

	limit := distance * distance
	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%w, i/w
		sx, sy := int(srcX[i]), int(srcY[i])

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if (dx == 0 && dy == 0) || nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := ny*w + nx
				if out.data[j] != 0 {
					continue
				}
				ex, ey := nx-sx, ny-sy
				if ex*ex+ey*ey > limit {
					continue
				}
				out.data[j] = out.data[i]
				srcX[j], srcY[j] = int32(sx), int32(sy)
				queue = append(queue, j)
			}
		}
	}
	return out
}
