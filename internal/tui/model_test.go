package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/csheth/podsum/internal/media"
	"github.com/csheth/podsum/internal/session"
	"github.com/csheth/podsum/internal/summarize"
)

type fakeSummarizer struct {
	points      []string
	err         error
	files       int
	transcripts int
	received    string
}

func (f *fakeSummarizer) SummarizeFile(ctx context.Context, file media.File) ([]string, error) {
	f.files++
	return f.points, f.err
}

func (f *fakeSummarizer) SummarizeTranscript(ctx context.Context, transcript string) ([]string, error) {
	f.transcripts++
	f.received = transcript
	return f.points, f.err
}

type fakeClipboard struct {
	text string
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return nil
}

type fakeSpeaker struct {
	spoken []string
}

func (f *fakeSpeaker) Speak(text string) error {
	f.spoken = append(f.spoken, text)
	return nil
}

func newTestModel(t *testing.T) *model {
	t.Helper()
	return newTestModelWith(t, Config{})
}

func newTestModelWith(t *testing.T, cfg Config) *model {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = zaptest.NewLogger(t)
	}
	teaModel, ok := New(cfg).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	teaModel.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return teaModel
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func transcriptRequest(id, text string) session.Request {
	return session.Request{ID: id, Kind: session.RequestTranscript, Transcript: text}
}

func completeCurrent(t *testing.T, m *model, points ...string) {
	t.Helper()
	id := m.ctrl.CurrentRequest()
	if id == "" {
		t.Fatal("no request in flight")
	}
	m.Update(jobResultEnvelope{
		Snapshot: jobSnapshot{ID: id, Kind: jobKindSummarize, Status: jobStatusSucceeded},
		Payload:  summaryResultMsg{result: session.Result{ID: id, Points: points}},
	})
}

func TestSubmitTranscriptFromEditor(t *testing.T) {
	m := newTestModel(t)
	m.Update(runeKey("i"))
	if m.focus != focusEditor || !m.editor.Focused() {
		t.Fatal("i should focus the transcript editor")
	}
	m.Update(runeKey("q"))
	if m.editor.Value() != "q" {
		t.Fatalf("editor should receive typed keys, got %q", m.editor.Value())
	}

	m.editor.SetValue("Episode 12 transcript")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("submitting should schedule the request")
	}
	if !m.ctrl.InFlight() {
		t.Fatal("request should be in flight")
	}
	if m.focus != focusSummary {
		t.Fatal("editor should release focus after submit")
	}
	if view := m.View(); !strings.Contains(view, "Processing...") {
		t.Fatalf("button should read Processing..., view:\n%s", view)
	}

	completeCurrent(t, m, "Guests discuss Go", "Hosts wrap up")
	view := m.View()
	for _, want := range []string{"Guests discuss Go", "Hosts wrap up", "Generate Summary"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestEmptyTranscriptShowsError(t *testing.T) {
	m := newTestModel(t)
	m.editor.SetValue("   \n  ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("blank transcript must not start a request")
	}
	if m.ctrl.InFlight() {
		t.Fatal("no request expected")
	}
	if !strings.Contains(m.View(), session.MsgEmptyTranscript) {
		t.Fatal("empty transcript error should be shown")
	}
}

func TestSubmitWhileInFlightIsIgnored(t *testing.T) {
	m := newTestModel(t)
	m.editor.SetValue("first")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	id := m.ctrl.CurrentRequest()

	m.editor.SetValue("second")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS}); cmd != nil {
		t.Fatal("second submission should not schedule anything")
	}
	if _, cmd := m.Update(runeKey("o")); cmd != nil {
		t.Fatal("upload picker should stay closed while busy")
	}
	if m.ctrl.CurrentRequest() != id {
		t.Fatal("in-flight request changed")
	}
}

func TestFailureShowsMappedError(t *testing.T) {
	m := newTestModel(t)
	m.editor.SetValue("text")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	id := m.ctrl.CurrentRequest()
	m.Update(summaryResultMsg{result: session.Result{ID: id, Err: &summarize.StatusError{StatusCode: 503}}})
	if m.ctrl.InFlight() {
		t.Fatal("failure should clear in-flight")
	}
	if !strings.Contains(m.View(), summarize.MsgServerError) {
		t.Fatal("server error message missing")
	}
}

func TestStaleResultIsDropped(t *testing.T) {
	m := newTestModel(t)
	m.editor.SetValue("text")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m.Update(summaryResultMsg{result: session.Result{ID: "someone-else", Points: []string{"stale point"}}})
	if !m.ctrl.InFlight() {
		t.Fatal("unrelated result must not complete the request")
	}
	if strings.Contains(m.View(), "stale point") {
		t.Fatal("stale points should not render")
	}
}

func TestConfirmationDialog(t *testing.T) {
	m := newTestModel(t)
	file := media.File{Path: "/tmp/show.mp3", Name: "show.mp3", Size: 2048}
	m.Update(inboxFileMsg{file: file, ok: true})
	if !strings.Contains(m.View(), "Process show.mp3?") {
		t.Fatal("confirmation dialog should ask about the file")
	}

	m.Update(runeKey("i"))
	if m.focus == focusEditor {
		t.Fatal("dialog should capture keys")
	}

	m.Update(runeKey("n"))
	if m.ctrl.AwaitingConfirmation() || m.ctrl.InFlight() {
		t.Fatal("cancel should drop the file without a request")
	}

	m.Update(inboxFileMsg{file: file, ok: true})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.ctrl.InFlight() {
		t.Fatal("enter should confirm the upload")
	}
	if strings.Contains(m.View(), "Process show.mp3?") {
		t.Fatal("dialog should close once confirmed")
	}
}

func TestOversizedInboxFileRejected(t *testing.T) {
	m := newTestModel(t)
	m.Update(inboxFileMsg{file: media.File{Name: "huge.wav", Size: media.MaxUploadBytes + 1}, ok: true})
	if m.ctrl.AwaitingConfirmation() {
		t.Fatal("oversized file must not be offered")
	}
	if !strings.Contains(m.View(), session.MsgFileTooLarge) {
		t.Fatal("size error should be shown")
	}
}

func TestInboxQueuesWhileBusy(t *testing.T) {
	m := newTestModel(t)
	m.editor.SetValue("text")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	m.Update(inboxFileMsg{file: media.File{Name: "next.mp3", Size: 1}, ok: true})
	if len(m.queued) != 1 || m.ctrl.AwaitingConfirmation() {
		t.Fatal("file should wait while a request runs")
	}
	completeCurrent(t, m, "done")
	if len(m.queued) != 0 || !m.ctrl.AwaitingConfirmation() {
		t.Fatal("queued file should be offered after completion")
	}

	m.Update(inboxFileMsg{ok: false})
	if !m.inboxClosed {
		t.Fatal("closed inbox should be recorded")
	}
}

func TestCopyAndSpeak(t *testing.T) {
	clip := &fakeClipboard{}
	speaker := &fakeSpeaker{}
	m := newTestModelWith(t, Config{Clipboard: clip, Speaker: speaker})
	m.editor.SetValue("text")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	completeCurrent(t, m, "First point", "Second point")

	m.Update(runeKey("j"))
	_, cmd := m.Update(runeKey("c"))
	if cmd == nil {
		t.Fatal("copy should schedule the acknowledgment expiry")
	}
	if clip.text != "Second point" {
		t.Fatalf("clipboard = %q", clip.text)
	}
	if !strings.Contains(m.View(), "✓ Copied") {
		t.Fatal("copy acknowledgment missing")
	}
	m.Update(copyExpiredMsg{token: 1})
	if strings.Contains(m.View(), "✓ Copied") {
		t.Fatal("acknowledgment should expire")
	}

	m.Update(runeKey("p"))
	if len(speaker.spoken) != 1 || speaker.spoken[0] != "First point. Second point" {
		t.Fatalf("spoken = %#v", speaker.spoken)
	}
}

func TestCursorStaysInRange(t *testing.T) {
	m := newTestModel(t)
	m.editor.SetValue("text")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	completeCurrent(t, m, "a", "b", "c")
	for i := 0; i < 5; i++ {
		m.Update(runeKey("j"))
	}
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	m.Update(runeKey("g"))
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}
}

func TestQuitAbandonsRequest(t *testing.T) {
	m := newTestModel(t)
	m.editor.SetValue("text")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	id := m.ctrl.CurrentRequest()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if m.ctrl.InFlight() {
		t.Fatal("quitting should abandon the request")
	}
	m.Update(summaryResultMsg{result: session.Result{ID: id, Points: []string{"late"}}})
	if len(m.ctrl.Summary()) != 0 {
		t.Fatal("late result must be ignored after quitting")
	}
}

func TestThemeAndHelpToggle(t *testing.T) {
	m := newTestModelWith(t, Config{Dark: true})
	m.Update(runeKey("t"))
	if m.dark {
		t.Fatal("t should switch to the light theme")
	}
	m.Update(runeKey("?"))
	if !strings.Contains(m.View(), "How it works") {
		t.Fatal("help overlay should be visible")
	}
}

func TestTranscriptImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.md")
	if err := os.WriteFile(path, []byte("Welcome back to the show."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg, err := importTranscriptJob(path)(context.Background())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	m := newTestModel(t)
	m.Update(msg)
	if !strings.Contains(m.editor.Value(), "Welcome back") {
		t.Fatalf("editor not filled: %q", m.editor.Value())
	}
	if m.ctrl.Transcript() != m.editor.Value() {
		t.Fatal("controller transcript should follow the editor")
	}

	m.Update(transcriptLoadedMsg{path: "/tmp/bad.pdf", err: errors.New("corrupt")})
	if !strings.Contains(m.View(), "Could not load bad.pdf") {
		t.Fatal("import failure should be shown")
	}
}

func TestLongTranscriptIsSentWhole(t *testing.T) {
	lines := make([]string, 150)
	for i := range lines {
		lines[i] = fmt.Sprintf("Line %d of the episode.", i+1)
	}
	text := strings.Join(lines, "\n")

	summarizer := &fakeSummarizer{points: []string{"ok"}}
	m := newTestModelWith(t, Config{Summarizer: summarizer})
	m.Update(transcriptLoadedMsg{path: "/tmp/long.txt", text: text})
	if got := m.editor.LineCount(); got != len(lines) {
		t.Fatalf("editor lines = %d, want %d", got, len(lines))
	}
	if m.editor.Value() != text || m.ctrl.Transcript() != text {
		t.Fatal("editor and controller should hold the full transcript")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.ctrl.InFlight() {
		t.Fatal("ctrl+s should submit the loaded transcript")
	}
	if _, err := summarizeJob(summarizer, transcriptRequest(m.ctrl.CurrentRequest(), m.ctrl.Transcript()))(context.Background()); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summarizer.received != text {
		t.Fatalf("sent %d lines, want %d", strings.Count(summarizer.received, "\n")+1, len(lines))
	}
	if !strings.Contains(summarizer.received, "Line 150 of the episode.") {
		t.Fatal("last line should reach the summarizer")
	}
}

func TestCompactLogoOnShortTerminal(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if !strings.Contains(m.View(), "PODSUM") {
		t.Fatal("compact title expected on short terminals")
	}
}
