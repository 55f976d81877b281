package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/podsum/internal/media"
	"github.com/csheth/podsum/internal/session"
)

const copyAckDuration = 2 * time.Second

var errNoSummarizer = errors.New("no summarization endpoint configured")

type summaryResultMsg struct {
	result session.Result
}

type transcriptLoadedMsg struct {
	path string
	text string
	err  error
}

type copyExpiredMsg struct {
	token int
}

type inboxFileMsg struct {
	file media.File
	ok   bool
}

func summarizeJob(client Summarizer, req session.Request) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if client == nil {
			return summaryResultMsg{result: session.Result{ID: req.ID, Err: errNoSummarizer}}, errNoSummarizer
		}
		var (
			points []string
			err    error
		)
		switch req.Kind {
		case session.RequestFile:
			points, err = client.SummarizeFile(ctx, req.File)
		default:
			points, err = client.SummarizeTranscript(ctx, req.Transcript)
		}
		return summaryResultMsg{result: session.Result{ID: req.ID, Points: points, Err: err}}, err
	}
}

func importTranscriptJob(path string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		type loaded struct {
			text string
			err  error
		}
		done := make(chan loaded, 1)
		go func() {
			text, err := media.ReadTranscript(path)
			done <- loaded{text: text, err: err}
		}()
		select {
		case <-ctx.Done():
			return transcriptLoadedMsg{path: path, err: ctx.Err()}, ctx.Err()
		case res := <-done:
			return transcriptLoadedMsg{path: path, text: res.text, err: res.err}, res.err
		}
	}
}

func copyExpiryCmd(token int) tea.Cmd {
	return tea.Tick(copyAckDuration, func(time.Time) tea.Msg {
		return copyExpiredMsg{token: token}
	})
}

func waitForInbox(files <-chan media.File) tea.Cmd {
	if files == nil {
		return nil
	}
	return func() tea.Msg {
		file, ok := <-files
		return inboxFileMsg{file: file, ok: ok}
	}
}
