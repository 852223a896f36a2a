package core

import "math"

// Buffer is a W x H x D grid of intensities that games rasterize into.
// 2D games use a depth of 1. All drawing primitives clip at the bounds, so
// callers never need to check coordinates before drawing.
type Buffer struct {
	width  int
	height int
	depth  int
	data   []float32 // z-major, then y, then x
}

// NewBuffer allocates a zeroed buffer. Dimensions below 1 are raised to 1.
func NewBuffer(width, height, depth int) *Buffer {
	width = Max(width, 1)
	height = Max(height, 1)
	depth = Max(depth, 1)
	return &Buffer{
		width:  width,
		height: height,
		depth:  depth,
		data:   make([]float32, width*height*depth),
	}
}

// Width returns the x extent.
func (b *Buffer) Width() int { return b.width }

// Height returns the y extent.
func (b *Buffer) Height() int { return b.height }

// Depth returns the z extent (1 for 2D buffers).
func (b *Buffer) Depth() int { return b.depth }

// InBounds reports whether (x, y, z) addresses a voxel.
func (b *Buffer) InBounds(x, y, z int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height && z >= 0 && z < b.depth
}

func (b *Buffer) index(x, y, z int) int {
	return (z*b.height+y)*b.width + x
}

// Fill sets every voxel to v.
func (b *Buffer) Fill(v float32) {
	for i := range b.data {
		b.data[i] = v
	}
}

// Set writes v at (x, y, z). Out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y, z int, v float32) {
	if !b.InBounds(x, y, z) {
		return
	}
	b.data[b.index(x, y, z)] = v
}

// At returns the value at (x, y, z), or 0 outside the buffer.
func (b *Buffer) At(x, y, z int) float32 {
	if !b.InBounds(x, y, z) {
		return 0
	}
	return b.data[b.index(x, y, z)]
}

// DrawBox fills the axis-aligned box starting at (x, y, z) with extent
// (w, h, d). Coordinates are rounded down to whole pixels, so a box that
// starts at -0.5 begins at -1 and is clipped. A zero extent in any axis
// draws a single layer in that axis.
func (b *Buffer) DrawBox(x, y, z, w, h, d float64, v float32) {
	x0, y0, z0 := int(math.Floor(x)), int(math.Floor(y)), int(math.Floor(z))
	x1 := x0 + Max(int(w), 1)
	y1 := y0 + Max(int(h), 1)
	z1 := z0 + Max(int(d), 1)

	x0, x1 = Max(x0, 0), Min(x1, b.width)
	y0, y1 = Max(y0, 0), Min(y1, b.height)
	z0, z1 = Max(z0, 0), Min(z1, b.depth)

	for zz := z0; zz < z1; zz++ {
		for yy := y0; yy < y1; yy++ {
			row := b.index(0, yy, zz)
			for xx := x0; xx < x1; xx++ {
				b.data[row+xx] = v
			}
		}
	}
}

// DrawSphere fills the ellipsoid centred at (cx, cy, cz) with radii
// (rx, ry, rz). A zero radius collapses that axis to the centre layer.
func (b *Buffer) DrawSphere(cx, cy, cz, rx, ry, rz float64, v float32) {
	bx0, bx1 := sphereSpan(cx, rx, b.width)
	by0, by1 := sphereSpan(cy, ry, b.height)
	bz0, bz1 := sphereSpan(cz, rz, b.depth)

	for z := bz0; z < bz1; z++ {
		dz := axisTerm(float64(z), cz, rz)
		for y := by0; y < by1; y++ {
			dy := axisTerm(float64(y), cy, ry)
			for x := bx0; x < bx1; x++ {
				dx := axisTerm(float64(x), cx, rx)
				if dx+dy+dz <= 1 {
					b.data[b.index(x, y, z)] = v
				}
			}
		}
	}
}

// sphereSpan returns the clipped integer range covered by c +- r.
func sphereSpan(c, r float64, limit int) (int, int) {
	lo := int(math.Floor(c - r))
	hi := int(math.Floor(c+r)) + 1
	return Max(lo, 0), Min(hi, limit)
}

// axisTerm is the normalized squared distance along one axis.
func axisTerm(p, c, r float64) float64 {
	if r <= 0 {
		if int(math.Floor(c)) == int(p) {
			return 0
		}
		return 2
	}
	d := (p - c) / r
	return d * d
}

// MultiplyRampZ multiplies every voxel by its z index. Used to colour-code
// depth in volumes before projection.
func (b *Buffer) MultiplyRampZ() {
	for z := 0; z < b.depth; z++ {
		start := b.index(0, 0, z)
		end := start + b.width*b.height
		for i := start; i < end; i++ {
			b.data[i] *= float32(z)
		}
	}
}

// MaxProjectZ returns a 2D buffer holding the maximum along z for each (x, y).
func (b *Buffer) MaxProjectZ() *Buffer {
	out := NewBuffer(b.width, b.height, 1)
	if b.depth == 1 {
		copy(out.data, b.data)
		return out
	}
	for z := 0; z < b.depth; z++ {
		for y := 0; y < b.height; y++ {
			for x := 0; x < b.width; x++ {
				i := b.index(x, y, z)
				o := y*b.width + x
				if z == 0 || b.data[i] > out.data[o] {
					out.data[o] = b.data[i]
				}
			}
		}
	}
	return out
}

// Max returns the largest value in the buffer.
func (b *Buffer) Max() float32 {
	m := b.data[0]
	for _, v := range b.data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{width: b.width, height: b.height, depth: b.depth}
	c.data = append([]float32(nil), b.data...)
	return c
}
