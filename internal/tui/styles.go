package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	accent     lipgloss.Color
	accentSoft lipgloss.Color
	text       lipgloss.Color
	muted      lipgloss.Color
	border     lipgloss.Color
	panel      lipgloss.Color
	icon       lipgloss.Color
	danger     lipgloss.Color
	bars       [4]lipgloss.Color
}

var (
	darkPalette = palette{
		accent:     lipgloss.Color("#8a63f2"),
		accentSoft: lipgloss.Color("#9a7af5"),
		text:       lipgloss.Color("#e5e7eb"),
		muted:      lipgloss.Color("#8b8ba7"),
		border:     lipgloss.Color("#3e3e5a"),
		panel:      lipgloss.Color("#252535"),
		icon:       lipgloss.Color("#ff6b81"),
		danger:     lipgloss.Color("#f87171"),
		bars:       [4]lipgloss.Color{"#8a63f2", "#9a7af5", "#aa91f8", "#baa8fb"},
	}
	lightPalette = palette{
		accent:     lipgloss.Color("#4a80f0"),
		accentSoft: lipgloss.Color("#5c8df5"),
		text:       lipgloss.Color("#111827"),
		muted:      lipgloss.Color("#6b7280"),
		border:     lipgloss.Color("#d1d5db"),
		panel:      lipgloss.Color("#f3f4f6"),
		icon:       lipgloss.Color("#ff4d6d"),
		danger:     lipgloss.Color("#dc2626"),
		bars:       [4]lipgloss.Color{"#4a80f0", "#5c8df5", "#7ea3f7", "#9fb9f9"},
	}
)

func paletteFor(dark bool) palette {
	if dark {
		return darkPalette
	}
	return lightPalette
}

type styles struct {
	title         lipgloss.Style
	tagline       lipgloss.Style
	sectionHeader lipgloss.Style
	helper        lipgloss.Style
	errorBox      lipgloss.Style
	panel         lipgloss.Style
	focusedPanel  lipgloss.Style
	dialog        lipgloss.Style
	button        lipgloss.Style
	ghostButton   lipgloss.Style
	bullet        lipgloss.Style
	point         lipgloss.Style
	cursorPoint   lipgloss.Style
	copied        lipgloss.Style
	statusBar     lipgloss.Style
	key           lipgloss.Style
	keyDesc       lipgloss.Style
	legendBox     lipgloss.Style
	helpBox       lipgloss.Style
	logoFace      lipgloss.Style
	logoShadow    lipgloss.Style
	logoContainer lipgloss.Style
}

func newStyles(dark bool) styles {
	p := paletteFor(dark)
	return styles{
		title:         lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		tagline:       lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		sectionHeader: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		helper:        lipgloss.NewStyle().Foreground(p.muted),
		errorBox:      lipgloss.NewStyle().Foreground(p.danger).Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(p.danger).PaddingLeft(1),
		panel:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1),
		focusedPanel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(0, 1),
		dialog:        lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.accentSoft).Padding(0, 2),
		button:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(p.accent).Padding(0, 2),
		ghostButton:   lipgloss.NewStyle().Foreground(p.text).Padding(0, 2),
		bullet:        lipgloss.NewStyle().Foreground(p.icon).Bold(true),
		point:         lipgloss.NewStyle().Foreground(p.text),
		cursorPoint:   lipgloss.NewStyle().Foreground(p.text).Bold(true),
		copied:        lipgloss.NewStyle().Foreground(p.accentSoft).Italic(true),
		statusBar:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(p.accent).Padding(0, 1),
		key:           lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(p.accentSoft).Padding(0, 1),
		keyDesc:       lipgloss.NewStyle().Foreground(p.text),
		legendBox:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1),
		helpBox:       lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.accent).Padding(1, 2),
		logoFace:      lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		logoShadow:    lipgloss.NewStyle().Foreground(p.border),
		logoContainer: lipgloss.NewStyle().Padding(0, 1),
	}
}

var logoArtLines = []string{
	"██████╗   ██████╗  ██████╗  ███████╗ ██╗   ██╗ ███╗   ███╗",
	"██╔══██╗ ██╔═══██╗ ██╔══██╗ ██╔════╝ ██║   ██║ ████╗ ████║",
	"██████╔╝ ██║   ██║ ██║  ██║ ███████╗ ██║   ██║ ██╔████╔██║",
	"██╔═══╝  ██║   ██║ ██║  ██║ ╚════██║ ██║   ██║ ██║╚██╔╝██║",
	"██║      ╚██████╔╝ ██████╔╝ ███████║ ╚██████╔╝ ██║ ╚═╝ ██║",
	"╚═╝       ╚═════╝  ╚═════╝  ╚══════╝  ╚═════╝  ╚═╝     ╚═╝",
}
