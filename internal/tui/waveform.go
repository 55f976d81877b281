package tui

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	waveformBars     = 20
	waveformHeight   = 4
	waveformInterval = 120 * time.Millisecond
)

// Eighth-block glyphs, index = filled eighths of one row.
var barGlyphs = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

type waveTickMsg struct{}

func waveTick() tea.Cmd {
	return tea.Tick(waveformInterval, func(time.Time) tea.Msg { return waveTickMsg{} })
}

// barBase is a fixed pseudo-random resting height in eighths for bar i.
func barBase(i int) int {
	seed := (i*7919 + 104729) % 97
	return 6 + seed%(waveformHeight*8-8)
}

// barHeights returns the height of every bar in eighths of a row. Heights
// move with frame only while active.
func barHeights(active bool, frame int) []int {
	heights := make([]int, waveformBars)
	maxHeight := waveformHeight * 8
	for i := range heights {
		h := barBase(i)
		if active {
			phase := float64(frame)*0.45 + float64(i)*0.6
			scale := 1 + 0.4*math.Sin(phase)
			h = int(math.Round(float64(h) * scale))
		}
		if h < 1 {
			h = 1
		}
		if h > maxHeight {
			h = maxHeight
		}
		heights[i] = h
	}
	return heights
}

// renderWaveform draws the playback indicator. It keeps no state; the caller
// advances frame on each waveTickMsg.
func renderWaveform(dark, active bool, frame int) string {
	p := paletteFor(dark)
	heights := barHeights(active, frame)
	rows := make([]string, waveformHeight)
	for row := 0; row < waveformHeight; row++ {
		floor := (waveformHeight - 1 - row) * 8
		var b strings.Builder
		for i, h := range heights {
			filled := h - floor
			if filled < 0 {
				filled = 0
			}
			if filled > 8 {
				filled = 8
			}
			color := p.bars[(i+frame*boolInt(active))%len(p.bars)]
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(string(barGlyphs[filled]), 2)))
			if i < len(heights)-1 {
				b.WriteRune(' ')
			}
		}
		rows[row] = b.String()
	}
	return strings.Join(rows, "\n")
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
