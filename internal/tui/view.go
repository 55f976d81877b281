package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/podsum/internal/media"
)

func (m *model) View() string {
	m.refreshViewportIfDirty()
	parts := []string{
		m.heroView(),
		renderWaveform(m.dark, m.ctrl.Waiting(), m.frame),
	}
	if m.ctrl.AwaitingConfirmation() {
		parts = append(parts, m.dialogView())
	}
	if m.focus == focusPicker {
		parts = append(parts, m.pickerPanel())
	} else {
		parts = append(parts, m.uploadPanel(), m.transcriptPanel())
	}
	parts = append(parts, m.messagesView(), m.summaryPanel(), m.statusBarView())
	if m.helpVisible {
		parts = append(parts, m.keyLegendView(), m.helpView())
	}
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	if m.layout.compactLogo {
		return lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.styles.title.Render("🎧 PODSUM"),
			"  ",
			m.styles.tagline.Render(heroTagline),
		)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderLogo(m.styles),
		m.styles.tagline.Render(heroTagline),
	)
}

func (m *model) dialogView() string {
	file := m.ctrl.PendingFile()
	if file == nil {
		return ""
	}
	question := m.styles.sectionHeader.Render(fmt.Sprintf("Process %s?", file.Name))
	detail := m.styles.helper.Render(fmt.Sprintf("%s • %s", kindLabel(file.Kind()), media.HumanSize(file.Size)))
	buttons := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.styles.button.Render("y Summarize"),
		"  ",
		m.styles.ghostButton.Render("n Cancel"),
	)
	return m.styles.dialog.Render(strings.Join([]string{question, detail, "", buttons}, "\n"))
}

func (m *model) uploadPanel() string {
	selected := m.styles.helper.Render("No file chosen")
	if file := m.ctrl.PendingFile(); file != nil {
		selected = m.styles.point.Render(fmt.Sprintf("%s (%s)", file.Name, media.HumanSize(file.Size)))
	}
	lines := []string{
		m.styles.sectionHeader.Render("Upload Audio/Video File"),
		m.styles.helper.Render(fmt.Sprintf("Press o to browse. %s, max 25MB.", strings.Join(media.UploadExtensions, " "))),
		selected,
	}
	if m.config.Inbox != nil && !m.inboxClosed {
		lines = append(lines, m.styles.helper.Render("Watching the inbox folder for new episodes."))
	}
	return m.styles.panel.Width(m.layout.contentWidth).Render(strings.Join(lines, "\n"))
}

func (m *model) pickerPanel() string {
	title := "Choose an episode to upload"
	if m.pickerPurpose == pickTranscript {
		title = "Load a transcript (.txt .md .pdf)"
	}
	lines := []string{
		m.styles.sectionHeader.Render(title),
		m.styles.helper.Render(m.picker.CurrentDirectory),
		m.picker.View(),
		m.styles.helper.Render("Enter: select • ←/→: change folder • Esc: close"),
	}
	return m.styles.focusedPanel.Width(m.layout.contentWidth).Render(strings.Join(lines, "\n"))
}

func (m *model) transcriptPanel() string {
	label := "Generate Summary"
	if m.ctrl.InFlight() {
		label = "Processing..."
	}
	hint := "Press i to type or paste, l to load a file, ctrl+s to submit."
	if m.focus == focusEditor {
		hint = "Esc: stop editing • ctrl+s: submit"
	}
	body := strings.Join([]string{
		m.styles.sectionHeader.Render("Or Paste Transcript"),
		m.editor.View(),
		m.styles.button.Render(label),
		m.styles.helper.Render(hint),
	}, "\n")
	if m.focus == focusEditor {
		return m.styles.focusedPanel.Width(m.layout.contentWidth).Render(body)
	}
	return m.styles.panel.Width(m.layout.contentWidth).Render(body)
}

func (m *model) messagesView() string {
	var parts []string
	if msg := m.ctrl.Error(); msg != "" {
		parts = append(parts, m.styles.errorBox.Render(msg))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.ctrl.InFlight() || m.importing {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, m.styles.helper.Render(message))
	}
	return strings.Join(parts, "\n")
}

func (m *model) summaryPanel() string {
	return joinNonEmpty([]string{
		m.styles.sectionHeader.Render("Summary"),
		m.viewport.View(),
	})
}

// buildSummaryContent renders the points and returns the first line of each.
func (m *model) buildSummaryContent() (string, []int) {
	points := m.ctrl.Summary()
	if len(points) == 0 {
		if m.ctrl.InFlight() {
			return m.styles.helper.Render("Processing..."), nil
		}
		return m.styles.helper.Render(summaryPlaceholder), nil
	}
	wrap := m.wrapWidth(6)
	copied := m.ctrl.CopiedIndex()
	starts := make([]int, len(points))
	var b strings.Builder
	line := 0
	for idx, point := range points {
		starts[idx] = line
		marker := "  "
		style := m.styles.point
		if idx == m.cursor {
			marker = "▸ "
			style = m.styles.cursorPoint
		}
		body := strings.Split(wordwrap.String(strings.TrimSpace(point), wrap), "\n")
		for i, text := range body {
			prefix := marker + m.styles.bullet.Render("●") + " "
			if i > 0 {
				prefix = "    "
			}
			b.WriteString(prefix)
			b.WriteString(style.Render(text))
			if i == len(body)-1 && idx == copied {
				b.WriteString("  ")
				b.WriteString(m.styles.copied.Render("✓ Copied"))
			}
			b.WriteRune('\n')
			line++
		}
	}
	return strings.TrimSuffix(b.String(), "\n"), starts
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func (m *model) statusBarView() string {
	stats := []string{
		fmt.Sprintf("Focus %s", m.focusLabel()),
		fmt.Sprintf("Points %d", len(m.ctrl.Summary())),
	}
	if m.dark {
		stats = append(stats, "Dark")
	} else {
		stats = append(stats, "Light")
	}
	if host := endpointHost(m.config.Endpoint); host != "" {
		stats = append(stats, host)
	}
	switch {
	case m.ctrl.InFlight():
		stats = append(stats, "Summarizing…")
	case m.jobs.Running() > 0:
		stats = append(stats, "Working…")
	}
	if len(m.queued) > 0 {
		stats = append(stats, fmt.Sprintf("Inbox %d queued", len(m.queued)))
	}
	stats = append(stats, "? help")
	return m.styles.statusBar.Render(strings.Join(stats, "  •  "))
}

func (m *model) focusLabel() string {
	switch {
	case m.ctrl.AwaitingConfirmation():
		return "CONFIRM"
	case m.focus == focusEditor:
		return "EDIT"
	case m.focus == focusPicker:
		return "BROWSE"
	default:
		return "SUMMARY"
	}
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"o", "Upload file"},
		{"l", "Load transcript"},
		{"i", "Edit transcript"},
		{"ctrl+s", "Summarize"},
		{"j/k", "Move"},
		{"c", "Copy point"},
		{"p", "Read aloud"},
		{"t", "Theme"},
		{"q", "Quit"},
	}
	rows := []string{m.styles.sectionHeader.Render("Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := m.styles.key.Render(hint.Key)
			desc := m.styles.keyDesc.Render(fmt.Sprintf(" %-16s", hint.Description))
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return m.styles.legendBox.Render(strings.Join(rows, "\n"))
}

func (m *model) helpView() string {
	lines := []string{
		m.styles.sectionHeader.Render("How it works"),
		m.styles.helper.Render("• upload an episode (audio, video or .txt up to 25MB) and confirm it, or paste a transcript and press ctrl+s."),
		m.styles.helper.Render("• each summary point sits on its own line; c copies the highlighted one and p reads them all aloud."),
		m.styles.helper.Render("• while a summary is being generated new submissions wait; files from the inbox are queued."),
		m.styles.helper.Render("• q or ctrl+c quits and cancels any request still running."),
	}
	return m.styles.helpBox.Render(strings.Join(lines, "\n"))
}

func renderLogo(s styles) string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	// shadow first, one cell down and right, then the face on top
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y+1][x+1] = cell{r: r, style: s.logoShadow}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: s.logoFace}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return s.logoContainer.Render(strings.Join(lines, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func kindLabel(kind media.Kind) string {
	switch kind {
	case media.KindAudio:
		return "Audio"
	case media.KindVideo:
		return "Video"
	case media.KindText:
		return "Transcript"
	default:
		return "File"
	}
}

func endpointHost(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}
