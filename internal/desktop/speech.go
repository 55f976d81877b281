package desktop

import (
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// ErrNoSpeechCommand means no text-to-speech program was configured or found.
var ErrNoSpeechCommand = errors.New("desktop: no text-to-speech command available")

// Speaker starts an external text-to-speech program with the text as its last argument.
type Speaker struct {
	command []string
	logger  *zap.Logger
	start   func(name string, args ...string) (*exec.Cmd, error)
}

// NewSpeaker uses command when given, otherwise the platform's usual speech program.
func NewSpeaker(command []string, logger *zap.Logger) *Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(command) == 0 {
		command = DefaultSpeechCommand(runtime.GOOS, exec.LookPath)
	}
	return &Speaker{command: command, logger: logger, start: startDetached}
}

// DefaultSpeechCommand picks a speech program for goos. lookPath is consulted on
// platforms where several programs are common.
func DefaultSpeechCommand(goos string, lookPath func(string) (string, error)) []string {
	switch goos {
	case "darwin":
		return []string{"say"}
	case "windows":
		return []string{"powershell", "-NoProfile", "-Command",
			"Add-Type -AssemblyName System.Speech; (New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak($args[0])"}
	}
	for _, candidate := range []string{"espeak-ng", "espeak", "spd-say"} {
		if _, err := lookPath(candidate); err == nil {
			return []string{candidate}
		}
	}
	return nil
}

// Speak launches the speech program and returns without waiting for playback.
func (s *Speaker) Speak(text string) error {
	if len(s.command) == 0 {
		return ErrNoSpeechCommand
	}
	args := append([]string(nil), s.command[1:]...)
	if endsOptions(s.command[0]) {
		args = append(args, "--")
	}
	args = append(args, text)
	cmd, err := s.start(s.command[0], args...)
	if err != nil {
		s.logger.Warn("speech command failed to start", zap.String("command", s.command[0]), zap.Error(err))
		return err
	}
	s.logger.Info("speaking summary", zap.String("command", s.command[0]), zap.Int("chars", len(text)))
	if cmd != nil {
		go func() {
			if err := cmd.Wait(); err != nil {
				s.logger.Debug("speech command exited", zap.Error(err))
			}
		}()
	}
	return nil
}

// endsOptions reports whether program accepts "--" before its text, so text
// starting with a dash is not read as a flag.
func endsOptions(program string) bool {
	switch strings.TrimSuffix(filepath.Base(program), ".exe") {
	case "say", "espeak", "espeak-ng", "spd-say":
		return true
	}
	return false
}

func startDetached(name string, args ...string) (*exec.Cmd, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}
