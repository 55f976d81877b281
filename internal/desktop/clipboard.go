// Package desktop connects the session to the host's clipboard and speech tools.
package desktop

import (
	"github.com/atotto/clipboard"
)

// Clipboard writes to the system clipboard.
type Clipboard struct{}

// Available reports whether a clipboard backend was found on this host.
func (Clipboard) Available() bool {
	return !clipboard.Unsupported
}

func (Clipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
