package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/natari/internal/core"
)

var unitDisplay = core.Display{ContrastMin: 0, ContrastMax: 1}

func TestBlockSize(t *testing.T) {
	assert.Equal(t, 1, BlockSize(4, 4, 80, 48))
	assert.Equal(t, 11, BlockSize(640, 480, 80, 44))
	assert.Equal(t, 8, BlockSize(640, 480, 80, 100))
	assert.Equal(t, 640, BlockSize(640, 480, 0, 0))
}

func TestDownsampleKeepsThinFeatures(t *testing.T) {
	buf := core.NewBuffer(5, 5, 1)
	buf.Set(3, 3, 0, 0.8)
	buf.Set(4, 0, 0, 0.3)

	small := Downsample(buf, 2)
	require.Equal(t, 3, small.Width())
	require.Equal(t, 3, small.Height())
	assert.InDelta(t, 0.8, small.At(1, 1, 0), 1e-6)
	assert.InDelta(t, 0.3, small.At(2, 0, 0), 1e-6)
	assert.Zero(t, small.At(0, 0, 0))
}

func TestDownsampleProjectsVolumes(t *testing.T) {
	vol := core.NewBuffer(2, 2, 3)
	vol.Set(1, 0, 2, 0.9)

	small := Downsample(vol, 1)
	assert.Equal(t, 1, small.Depth())
	assert.InDelta(t, 0.9, small.At(1, 0, 0), 1e-6)
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "#ffffff", colorize(core.ColormapGray, 1).hex())
	assert.Equal(t, "#000000", colorize(core.ColormapGray, 0).hex())
	assert.Equal(t, "#800080", colorize(core.ColormapMagenta, 0.5).hex())
	assert.Equal(t, "#00ff00", colorize(core.ColormapGreen, 1).hex())
	assert.Equal(t, "#000000", colorize(core.ColormapDepth, 0).hex())

	// The top of the turbo scale is a dark red.
	hot := turbo(1)
	assert.Greater(t, hot.r, hot.g)
	assert.Greater(t, hot.r, hot.b)
	assert.Greater(t, channel(hot.r), uint8(128))
	assert.Less(t, channel(hot.g), uint8(32))
	assert.Equal(t, uint8(0), channel(hot.b))
}

func TestRenderFrameHalfBlocks(t *testing.T) {
	// A renderer without a terminal emits no colour sequences.
	r := lipgloss.NewRenderer(io.Discard)
	buf := core.NewBuffer(4, 4, 1)
	buf.Set(0, 0, 0, 1)

	out := RenderFrame(r, buf, unitDisplay, 4, 2)
	assert.Equal(t, "▀▀▀▀\n▀▀▀▀", out)
}

func TestRenderFrameFitsTerminal(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	buf := core.NewBuffer(640, 480, 1)

	out := RenderFrame(r, buf, unitDisplay, 80, 20)
	lines := strings.Split(out, "\n")
	assert.LessOrEqual(t, len(lines), 20)
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 80)
	}
}

func TestRenderASCII(t *testing.T) {
	buf := core.NewBuffer(4, 4, 1)
	buf.Set(0, 0, 0, 1)
	buf.Set(3, 3, 0, 0.5)

	out := RenderASCII(buf, unitDisplay, 4)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "@   ", lines[0])
	assert.Equal(t, "   +", lines[1])
}
