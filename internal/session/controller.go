package session

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/csheth/podsum/internal/media"
	"github.com/csheth/podsum/internal/summarize"
)

// Messages placed in the error slot by local validation.
const (
	MsgEmptyTranscript = "Transcript text cannot be empty."
	MsgFileTooLarge    = "File size too large (max 25MB)"
)

var (
	ErrBusy            = errors.New("session: a summary is already being generated")
	ErrNoPendingFile   = errors.New("session: no file is waiting for confirmation")
	ErrEmptyTranscript = errors.New("session: transcript is empty")
	ErrFileTooLarge    = errors.New("session: file exceeds the upload limit")
	ErrNoSummary       = errors.New("session: no summary yet")
)

// RequestKind selects which of the two submission paths a Request takes.
type RequestKind int

const (
	RequestFile RequestKind = iota
	RequestTranscript
)

func (k RequestKind) String() string {
	if k == RequestFile {
		return "file"
	}
	return "transcript"
}

// Request is a submission the controller has accepted. The caller performs
// the network call and reports back through Complete.
type Request struct {
	ID         string
	Kind       RequestKind
	File       media.File
	Transcript string
}

// Result is the outcome of a Request.
type Result struct {
	ID     string
	Points []string
	Err    error
}

// Clipboard receives copied summary lines.
type Clipboard interface {
	WriteAll(text string) error
}

// Speaker reads text aloud. Speak must not wait for playback to finish.
type Speaker interface {
	Speak(text string) error
}

// Controller owns the session state behind the summarizer screen.
// It is not safe for concurrent use; the UI loop is its only caller.
type Controller struct {
	clipboard Clipboard
	speaker   Speaker
	newID     func() string

	transcript  string
	file        *media.File
	pending     bool
	summary     []string
	inFlight    bool
	current     string
	errMsg      string
	copied      int
	copyToken   int
	inputResets int
}

// Option customises a Controller.
type Option func(*Controller)

// WithIDs replaces the request id generator.
func WithIDs(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// New returns an idle controller.
func New(clipboard Clipboard, speaker Speaker, opts ...Option) *Controller {
	c := &Controller{
		clipboard: clipboard,
		speaker:   speaker,
		newID:     uuid.NewString,
		copied:    -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Transcript() string { return c.transcript }

func (c *Controller) AwaitingConfirmation() bool { return c.pending }

func (c *Controller) InFlight() bool { return c.inFlight }

// Error returns the message in the error slot, or "" when it is empty.
func (c *Controller) Error() string { return c.errMsg }

// CopiedIndex is the summary line showing a copy acknowledgment, or -1.
func (c *Controller) CopiedIndex() int { return c.copied }

// InputResets counts how many times the file input was cleared.
func (c *Controller) InputResets() int { return c.inputResets }

func (c *Controller) CurrentRequest() string { return c.current }

// PendingFile returns the selected file, or nil.
func (c *Controller) PendingFile() *media.File {
	if c.file == nil {
		return nil
	}
	f := *c.file
	return &f
}

// Summary returns a copy of the current summary points.
func (c *Controller) Summary() []string {
	out := make([]string, len(c.summary))
	copy(out, c.summary)
	return out
}

// Waiting reports whether no summary has been produced yet.
func (c *Controller) Waiting() bool {
	return len(c.summary) == 0
}

// SetTranscript stores the editor contents.
func (c *Controller) SetTranscript(text string) {
	c.transcript = text
}

// SetError fills the error slot with a message produced outside the controller,
// such as a file that could not be read.
func (c *Controller) SetError(msg string) {
	c.errMsg = msg
}

// SelectFile offers a file for upload. Oversized files set the size error and
// are dropped before they can be confirmed.
func (c *Controller) SelectFile(file media.File) error {
	if c.inFlight {
		return ErrBusy
	}
	if file.TooLarge() {
		c.errMsg = MsgFileTooLarge
		return ErrFileTooLarge
	}
	c.file = &file
	c.pending = true
	c.errMsg = ""
	return nil
}

// ConfirmUpload turns the pending file into a request.
func (c *Controller) ConfirmUpload() (Request, error) {
	if c.inFlight {
		return Request{}, ErrBusy
	}
	if c.file == nil {
		return Request{}, ErrNoPendingFile
	}
	req := c.begin(RequestFile)
	req.File = *c.file
	c.pending = false
	return req, nil
}

// CancelUpload drops the pending file without contacting the server.
func (c *Controller) CancelUpload() {
	if c.inFlight {
		return
	}
	c.file = nil
	c.pending = false
	c.inputResets++
}

// SubmitTranscript validates text and turns it into a request. The text is sent
// as typed; only the emptiness check trims it.
func (c *Controller) SubmitTranscript(text string) (Request, error) {
	if c.inFlight {
		return Request{}, ErrBusy
	}
	c.transcript = text
	if strings.TrimSpace(text) == "" {
		c.errMsg = MsgEmptyTranscript
		return Request{}, ErrEmptyTranscript
	}
	req := c.begin(RequestTranscript)
	req.Transcript = text
	return req, nil
}

func (c *Controller) begin(kind RequestKind) Request {
	c.inFlight = true
	c.current = c.newID()
	c.summary = nil
	c.errMsg = ""
	c.copied = -1
	return Request{ID: c.current, Kind: kind}
}

// Complete applies the outcome of the in-flight request. It reports false when
// the result belongs to an abandoned request and was ignored.
func (c *Controller) Complete(res Result) bool {
	if !c.inFlight || res.ID != c.current {
		return false
	}
	if res.Err != nil {
		c.errMsg = summarize.UserMessage(res.Err)
	} else {
		c.summary = append([]string(nil), res.Points...)
	}
	c.inFlight = false
	c.current = ""
	c.file = nil
	c.pending = false
	c.inputResets++
	return true
}

// Abandon forgets the in-flight request so a late result cannot be applied.
func (c *Controller) Abandon() {
	if !c.inFlight {
		return
	}
	c.inFlight = false
	c.current = ""
	c.file = nil
	c.pending = false
	c.inputResets++
}

// CopySummaryLine copies one point to the clipboard and marks it as copied.
// The returned token is passed to ClearCopied once the acknowledgment expires.
func (c *Controller) CopySummaryLine(index int) (int, error) {
	if index < 0 || index >= len(c.summary) {
		return 0, ErrNoSummary
	}
	if c.clipboard != nil {
		if err := c.clipboard.WriteAll(c.summary[index]); err != nil {
			return 0, err
		}
	}
	c.copyToken++
	c.copied = index
	return c.copyToken, nil
}

// ClearCopied removes the copy mark unless a newer copy replaced it.
func (c *Controller) ClearCopied(token int) {
	if token == c.copyToken {
		c.copied = -1
	}
}

// SpeechText joins the summary the way it is read aloud.
func (c *Controller) SpeechText() string {
	return strings.Join(c.summary, ". ")
}

// SpeakSummary hands the joined summary to the speaker and returns immediately.
func (c *Controller) SpeakSummary() error {
	if len(c.summary) == 0 {
		return ErrNoSummary
	}
	if c.speaker == nil {
		return nil
	}
	return c.speaker.Speak(c.SpeechText())
}
