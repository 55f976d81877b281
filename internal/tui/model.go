package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/podsum/internal/media"
	"github.com/csheth/podsum/internal/session"
)

// Summarizer is the transport behind POST /summarize.
type Summarizer interface {
	SummarizeFile(ctx context.Context, file media.File) ([]string, error)
	SummarizeTranscript(ctx context.Context, transcript string) ([]string, error)
}

// Config wires runtime options into the TUI program.
type Config struct {
	Summarizer Summarizer
	Clipboard  session.Clipboard
	Speaker    session.Speaker
	Logger     *zap.Logger
	// Timeout bounds each summarize request. Zero disables the deadline.
	Timeout  time.Duration
	Dark     bool
	StartDir string
	// Inbox delivers files dropped into a watched folder.
	Inbox    <-chan media.File
	Endpoint string
}

const (
	heroTagline           = "Drop in an episode, get the takeaways."
	transcriptPlaceholder = "Paste your podcast transcript here..."
	summaryPlaceholder    = "Your summary will appear here."
)

type focus int

const (
	focusSummary focus = iota
	focusEditor
	focusPicker
)

type pickerPurpose int

const (
	pickUpload pickerPurpose = iota
	pickTranscript
)

type model struct {
	config Config
	logger *zap.Logger
	ctrl   *session.Controller
	jobs   *jobBus
	layout pageLayout

	focus         focus
	pickerPurpose pickerPurpose
	pickerDir     string
	pickerResets  int

	editor   textarea.Model
	picker   filepicker.Model
	spinner  spinner.Model
	viewport viewport.Model

	dark   bool
	styles styles
	frame  int

	cursor        int
	pointLines    []int
	lineCount     int
	viewportDirty bool

	queued       []media.File
	inboxClosed  bool
	helpVisible  bool
	infoMessage  string
	importing    bool
	imports      int
	lastDuration time.Duration
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	editor := textarea.New()
	editor.Placeholder = transcriptPlaceholder
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.SetWidth(72)
	editor.SetHeight(5)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(76, 10)
	vp.MouseWheelEnabled = true

	ctrl := session.New(config.Clipboard, config.Speaker)
	dir := config.StartDir
	if dir == "" {
		dir = "."
	}

	return &model{
		config:        config,
		logger:        logger.Named("tui"),
		ctrl:          ctrl,
		jobs:          newJobBus(config.Timeout, logger),
		layout:        newPageLayout(),
		focus:         focusSummary,
		pickerDir:     dir,
		pickerResets:  ctrl.InputResets(),
		editor:        editor,
		spinner:       spin,
		viewport:      vp,
		dark:          config.Dark,
		styles:        newStyles(config.Dark),
		viewportDirty: true,
		infoMessage:   "Press o to upload an episode or i to paste a transcript.",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(waveTick(), waitForInbox(m.config.Inbox))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		if m.ctrl.InFlight() || m.importing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case waveTickMsg:
		if m.ctrl.Waiting() {
			m.frame++
		}
		return m, waveTick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.focus == focusSummary {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		return m, nil
	case jobResultEnvelope:
		if msg.Snapshot.Kind == jobKindSummarize {
			m.lastDuration = msg.Snapshot.Duration
		}
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case summaryResultMsg:
		return m, m.applySummary(msg.result)
	case transcriptLoadedMsg:
		m.importing = false
		if msg.err != nil {
			m.ctrl.SetError(fmt.Sprintf("Could not load %s: %v", filepath.Base(msg.path), msg.err))
			return m, nil
		}
		m.editor.SetValue(msg.text)
		m.ctrl.SetTranscript(m.editor.Value())
		m.ctrl.SetError("")
		m.infoMessage = fmt.Sprintf("Loaded %s into the transcript. Press ctrl+s to summarize.", filepath.Base(msg.path))
		return m, nil
	case copyExpiredMsg:
		m.ctrl.ClearCopied(msg.token)
		m.markViewportDirty()
		return m, nil
	case inboxFileMsg:
		if !msg.ok {
			m.inboxClosed = true
			m.logger.Info("inbox closed")
			return m, nil
		}
		m.logger.Info("inbox file arrived", zap.String("file", msg.file.Name), zap.Int64("size", msg.file.Size))
		if m.ctrl.InFlight() || m.ctrl.AwaitingConfirmation() {
			m.queued = append(m.queued, msg.file)
			m.infoMessage = fmt.Sprintf("Queued %s from the inbox.", msg.file.Name)
			return m, waitForInbox(m.config.Inbox)
		}
		m.offerFile(msg.file)
		return m, waitForInbox(m.config.Inbox)
	}

	switch m.focus {
	case focusPicker:
		return m.updatePicker(msg)
	case focusEditor:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.editor.SetWidth(m.layout.contentWidth - 4)
	m.editor.SetHeight(m.layout.editorHeight)
	m.viewport.Width = m.layout.contentWidth
	m.viewport.Height = m.layout.summaryHeight
	m.picker.Height = m.layout.pickerHeight
	m.markViewportDirty()
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m, m.quit()
	}
	if m.ctrl.AwaitingConfirmation() {
		return m, m.handleDialogKey(key)
	}
	switch m.focus {
	case focusEditor:
		return m, m.handleEditorKey(key)
	case focusPicker:
		if key.Type == tea.KeyEsc {
			m.closePicker()
			return m, nil
		}
		return m.updatePicker(key)
	}
	return m, m.handleSummaryKey(key)
}

func (m *model) handleDialogKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "y", "enter":
		return m.confirmUpload()
	case "n", "esc":
		name := ""
		if file := m.ctrl.PendingFile(); file != nil {
			name = file.Name
		}
		m.ctrl.CancelUpload()
		m.syncPicker()
		m.infoMessage = fmt.Sprintf("Skipped %s.", name)
		m.offerQueued()
	}
	return nil
}

func (m *model) handleEditorKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyEsc:
		m.editor.Blur()
		m.focus = focusSummary
		return nil
	case tea.KeyCtrlS:
		return m.submitTranscript()
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(key)
	m.ctrl.SetTranscript(m.editor.Value())
	return cmd
}

func (m *model) handleSummaryKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "q":
		return m.quit()
	case "?":
		m.helpVisible = !m.helpVisible
	case "t":
		m.dark = !m.dark
		m.styles = newStyles(m.dark)
		m.markViewportDirty()
	case "i":
		m.focus = focusEditor
		return m.editor.Focus()
	case "ctrl+s":
		return m.submitTranscript()
	case "o":
		return m.openPicker(pickUpload)
	case "l":
		return m.openPicker(pickTranscript)
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.moveCursor(-len(m.ctrl.Summary()))
	case "G", "end":
		m.moveCursor(len(m.ctrl.Summary()))
	case "pgdown":
		m.viewport.HalfViewDown()
	case "pgup":
		m.viewport.HalfViewUp()
	case "c":
		return m.copyCurrent()
	case "p":
		m.speak()
	}
	return nil
}

func (m *model) quit() tea.Cmd {
	m.jobs.CancelAll()
	m.ctrl.Abandon()
	return tea.Quit
}

func (m *model) submitTranscript() tea.Cmd {
	if m.ctrl.InFlight() {
		m.infoMessage = "A summary is already being generated."
		return nil
	}
	req, err := m.ctrl.SubmitTranscript(m.editor.Value())
	if err != nil {
		m.markViewportDirty()
		return nil
	}
	m.editor.Blur()
	m.focus = focusSummary
	return m.startRequest(req)
}

func (m *model) confirmUpload() tea.Cmd {
	req, err := m.ctrl.ConfirmUpload()
	if err != nil {
		m.logger.Warn("confirm upload rejected", zap.Error(err))
		return nil
	}
	return m.startRequest(req)
}

func (m *model) startRequest(req session.Request) tea.Cmd {
	fields := []zap.Field{zap.String("id", req.ID), zap.Stringer("kind", req.Kind)}
	if req.Kind == session.RequestFile {
		fields = append(fields, zap.String("file", req.File.Name))
		m.infoMessage = fmt.Sprintf("Summarizing %s…", req.File.Name)
	} else {
		m.infoMessage = "Summarizing transcript…"
	}
	m.logger.Info("submitting", fields...)
	m.cursor = 0
	m.viewport.SetYOffset(0)
	m.markViewportDirty()
	return tea.Batch(
		m.jobs.Start(jobKindSummarize, req.ID, summarizeJob(m.config.Summarizer, req)),
		m.spinner.Tick,
	)
}

func (m *model) applySummary(res session.Result) tea.Cmd {
	if !m.ctrl.Complete(res) {
		m.logger.Debug("dropping stale result", zap.String("id", res.ID))
		return nil
	}
	m.syncPicker()
	m.cursor = 0
	m.viewport.SetYOffset(0)
	m.markViewportDirty()
	if res.Err != nil {
		m.infoMessage = ""
	} else {
		points := len(m.ctrl.Summary())
		m.infoMessage = fmt.Sprintf("Summary ready: %d point(s) in %s.", points, m.lastDuration.Round(100*time.Millisecond))
	}
	m.offerQueued()
	return nil
}

func (m *model) offerFile(file media.File) {
	if m.focus == focusEditor {
		m.editor.Blur()
	}
	if m.focus == focusPicker {
		m.closePicker()
	}
	m.focus = focusSummary
	if err := m.ctrl.SelectFile(file); err != nil {
		m.logger.Info("file rejected", zap.String("file", file.Name), zap.Error(err))
		return
	}
	m.infoMessage = ""
}

func (m *model) offerQueued() {
	for len(m.queued) > 0 && !m.ctrl.InFlight() && !m.ctrl.AwaitingConfirmation() {
		next := m.queued[0]
		m.queued = m.queued[1:]
		m.offerFile(next)
	}
}

func (m *model) openPicker(purpose pickerPurpose) tea.Cmd {
	if purpose == pickUpload && m.ctrl.InFlight() {
		m.infoMessage = "A summary is already being generated."
		return nil
	}
	m.pickerPurpose = purpose
	m.picker = newFilePicker(m.pickerDir, purpose, m.layout.pickerHeight)
	m.focus = focusPicker
	return m.picker.Init()
}

func (m *model) closePicker() {
	m.focus = focusSummary
	if m.picker.CurrentDirectory != "" {
		m.pickerDir = m.picker.CurrentDirectory
	}
}

// syncPicker rebuilds the picker after the controller clears the file input.
func (m *model) syncPicker() {
	if m.ctrl.InputResets() == m.pickerResets {
		return
	}
	m.pickerResets = m.ctrl.InputResets()
	if m.focus == focusPicker {
		m.closePicker()
	}
	m.picker = newFilePicker(m.pickerDir, m.pickerPurpose, m.layout.pickerHeight)
}

func newFilePicker(dir string, purpose pickerPurpose, height int) filepicker.Model {
	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.Height = height
	if purpose == pickTranscript {
		fp.AllowedTypes = media.TranscriptExtensions
	} else {
		fp.AllowedTypes = media.UploadExtensions
	}
	return fp
}

func (m *model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.closePicker()
		return m, m.pickedFile(path)
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.infoMessage = fmt.Sprintf("%s is not a supported file type.", filepath.Base(path))
		return m, cmd
	}
	return m, cmd
}

func (m *model) pickedFile(path string) tea.Cmd {
	if m.pickerPurpose == pickTranscript {
		m.importing = true
		m.imports++
		m.infoMessage = fmt.Sprintf("Loading %s…", filepath.Base(path))
		return tea.Batch(
			m.jobs.Start(jobKindImport, fmt.Sprintf("import-%d", m.imports), importTranscriptJob(path)),
			m.spinner.Tick,
		)
	}
	file, err := media.Stat(path)
	if err != nil {
		m.ctrl.SetError(fmt.Sprintf("Could not open %s: %v", filepath.Base(path), err))
		return nil
	}
	m.offerFile(file)
	return nil
}

func (m *model) copyCurrent() tea.Cmd {
	token, err := m.ctrl.CopySummaryLine(m.cursor)
	if err != nil {
		if !errors.Is(err, session.ErrNoSummary) {
			m.infoMessage = fmt.Sprintf("Clipboard unavailable: %v", err)
			m.logger.Warn("copy failed", zap.Error(err))
		}
		return nil
	}
	m.markViewportDirty()
	return copyExpiryCmd(token)
}

func (m *model) speak() {
	if err := m.ctrl.SpeakSummary(); err != nil {
		if !errors.Is(err, session.ErrNoSummary) {
			m.infoMessage = fmt.Sprintf("Speech unavailable: %v", err)
			m.logger.Warn("speech failed", zap.Error(err))
		}
		return
	}
	m.infoMessage = "Reading the summary aloud."
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	content, lines := m.buildSummaryContent()
	m.pointLines = lines
	m.lineCount = strings.Count(content, "\n") + 1
	m.viewport.SetContent(content)
	m.viewport.SetYOffset(m.clampYOffset(m.viewport.YOffset))
	m.viewportDirty = false
}

func (m *model) moveCursor(delta int) {
	points := len(m.ctrl.Summary())
	if points == 0 {
		return
	}
	target := m.cursor + delta
	if target < 0 {
		target = 0
	}
	if target >= points {
		target = points - 1
	}
	if target == m.cursor {
		return
	}
	m.cursor = target
	m.markViewportDirty()
	m.refreshViewportIfDirty()
	m.ensureCursorVisible()
}

func (m *model) ensureCursorVisible() {
	if m.cursor >= len(m.pointLines) {
		return
	}
	line := m.pointLines[m.cursor]
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
		return
	}
	lowerBound := m.viewport.YOffset + m.viewport.Height - 1
	if line > lowerBound {
		target := line - m.viewport.Height + 1
		if target < 0 {
			target = 0
		}
		m.viewport.SetYOffset(target)
	}
}

func (m *model) clampYOffset(offset int) int {
	maxOffset := m.lineCount - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}
