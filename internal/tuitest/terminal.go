package tuitest

import (
	"bytes"
	"io"
)

const (
	darkBackground  = "rgb:0000/0000/0000"
	lightBackground = "rgb:ffff/ffff/ffff"
	foregroundColor = "rgb:cccc/cccc/cccc"
)

// reply pairs a terminal query with the answer a real emulator would send.
type reply struct {
	query  []byte
	answer []byte
}

// terminalResponder answers the capability queries lipgloss and termenv
// issue at startup, so programs that probe the terminal do not stall.
type terminalResponder struct {
	w       io.Writer
	buf     []byte
	replies []reply
}

func newTerminalResponder(w io.Writer, lightBG bool) *terminalResponder {
	bg := darkBackground
	if lightBG {
		bg = lightBackground
	}
	var replies []reply
	replies = append(replies, reply{query: []byte("\x1b[6n"), answer: []byte("\x1b[1;1R")})
	for _, term := range []string{"\x07", "\x1b\\"} {
		replies = append(replies,
			reply{query: []byte("\x1b]10;?" + term), answer: []byte("\x1b]10;" + foregroundColor + term)},
			reply{query: []byte("\x1b]11;?" + term), answer: []byte("\x1b]11;" + bg + term)},
		)
	}
	return &terminalResponder{w: w, buf: make([]byte, 0, 128), replies: replies}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	// keep a tail for queries split across reads
	if len(tr.buf) > 256 {
		tr.buf = tr.buf[len(tr.buf)-64:]
	}
}

// answerNext replies to the earliest pending query and reports whether one was found.
func (tr *terminalResponder) answerNext() bool {
	best, bestIdx := -1, -1
	for i, r := range tr.replies {
		idx := bytes.Index(tr.buf, r.query)
		if idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best, bestIdx = i, idx
		}
	}
	if best < 0 {
		return false
	}
	r := tr.replies[best]
	tr.buf = tr.buf[bestIdx+len(r.query):]
	_, _ = tr.w.Write(r.answer)
	return true
}
