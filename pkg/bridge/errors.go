package bridge

import (
	"errors"
	"io"

	"github.com/robotalks/kiss.go/pkg/checksum"
	"github.com/robotalks/kiss.go/pkg/kiss"
	"github.com/robotalks/kiss.go/pkg/port"
)

var (
	// ErrRadioUnresponsive is reported when the watchdog resets the radio.
	ErrRadioUnresponsive = errors.New("radio unresponsive")
	// ErrNotStarted indicates Begin failed.
	ErrNotStarted = errors.New("bridge not started")
)

// IsFrameError tells if err dropped a single frame.
// Frame errors latch the error indicator.
func IsFrameError(err error) bool {
	return errors.Is(err, kiss.ErrFrameTooLarge) ||
		errors.Is(err, kiss.ErrMalformedEscape) ||
		errors.Is(err, checksum.ErrChecksumMismatch)
}

// IsTerminal tells if err ends the bridge.
func IsTerminal(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, port.ErrClosed)
}
