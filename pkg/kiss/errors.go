package kiss

import (
	"errors"

	"github.com/robotalks/kiss.go/pkg/packet"
)

var (
	// ErrFrameTooLarge indicates the decoded payload exceeds the buffer.
	ErrFrameTooLarge = packet.ErrFrameTooLarge
	// ErrMalformedEscape indicates FESC is followed by neither TFEND nor TFESC.
	ErrMalformedEscape = errors.New("malformed escape sequence")
	// ErrShortParam indicates a parameter command without its value byte.
	ErrShortParam = errors.New("missing parameter value")
	// ErrUnsupportedCommand indicates an unknown command code.
	ErrUnsupportedCommand = errors.New("unsupported command")
)
