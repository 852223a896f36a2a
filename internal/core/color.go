package core

// Colormap selects how the display sink maps buffer intensities to colors.
type Colormap uint8

const (
	ColormapGray Colormap = iota
	ColormapTurbo
	ColormapMagenta
	ColormapGreen
	ColormapDepth // blue (near) to red (far), for z-ramped volumes
)

// String returns the colormap name used in configs and logs.
func (c Colormap) String() string {
	switch c {
	case ColormapGray:
		return "gray"
	case ColormapTurbo:
		return "turbo"
	case ColormapMagenta:
		return "magenta"
	case ColormapGreen:
		return "green"
	case ColormapDepth:
		return "depth"
	default:
		return "unknown"
	}
}

// ParseColormap returns the colormap for a name, falling back to gray.
func ParseColormap(name string) Colormap {
	switch name {
	case "turbo":
		return ColormapTurbo
	case "magenta":
		return ColormapMagenta
	case "green":
		return ColormapGreen
	case "depth":
		return ColormapDepth
	default:
		return ColormapGray
	}
}

// Display describes how a game's buffer should be shown.
// Intensities are normalized to [ContrastMin, ContrastMax] before colormapping.
type Display struct {
	Colormap    Colormap
	ContrastMin float32
	ContrastMax float32
}

// Normalize maps v into [0, 1] using the display's contrast limits.
func (d Display) Normalize(v float32) float32 {
	span := d.ContrastMax - d.ContrastMin
	if span <= 0 {
		if v > d.ContrastMin {
			return 1
		}
		return 0
	}
	n := (v - d.ContrastMin) / span
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}
