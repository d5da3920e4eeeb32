package kiss

import (
	"context"
	"io"
	"sync"

	"github.com/robotalks/kiss.go/pkg/packet"
)

// DefaultMaxFrameSize is the payload limit used by Client.
// The KISS paper asks for at least 1024.
const DefaultMaxFrameSize = 2048

// Client is the host side of a KISS link over a byte stream.
type Client struct {
	ReadWriter io.ReadWriter

	decoder  *Decoder
	frameCh  chan Frame
	errCh    chan error
	sendLock sync.Mutex
}

// NewClient creates a Client on rw.
func NewClient(rw io.ReadWriter) *Client {
	return NewClientWithSize(rw, DefaultMaxFrameSize)
}

// NewClientWithSize creates a Client accepting payloads up to maxSize.
func NewClientWithSize(rw io.ReadWriter, maxSize int) *Client {
	return &Client{
		ReadWriter: rw,
		decoder:    NewDecoder(packet.NewBuffer(maxSize, 0)),
		frameCh:    make(chan Frame, 16),
		errCh:      make(chan error, 16),
	}
}

// FrameChan retrieves received frames.
func (c *Client) FrameChan() <-chan Frame {
	return c.frameCh
}

// ErrorChan retrieves decoding errors of discarded frames.
func (c *Client) ErrorChan() <-chan error {
	return c.errCh
}

// Send writes a frame.
func (c *Client) Send(f Frame) error {
	c.sendLock.Lock()
	defer c.sendLock.Unlock()
	_, err := f.WriteTo(c.ReadWriter)
	return err
}

// SendData sends a data frame on port.
func (c *Client) SendData(port uint8, data []byte) error {
	return c.Send(Frame{Command: DataCommand(port), Data: data})
}

// Run decodes incoming bytes until the stream fails or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.frameCh)
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := c.ReadWriter.Read(buf)
		for _, b := range buf[:n] {
			c.handleResult(ctx, c.decoder.Decode(b))
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (c *Client) handleResult(ctx context.Context, r DecodeResult) {
	if r.Err != nil {
		select {
		case c.errCh <- r.Err:
		default:
		}
	}
	if !r.Complete {
		return
	}
	pb := c.decoder.Buffer()
	f := Frame{Command: r.Command, Data: append([]byte{}, pb.Bytes()...)}
	pb.Reset()
	select {
	case c.frameCh <- f:
	case <-ctx.Done():
	}
}
