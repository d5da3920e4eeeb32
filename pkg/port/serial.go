package port

import (
	"context"
	"io"
	"sync"
	"time"
)

// DefaultSerialQueueSize bounds the bytes buffered by StreamSerial.
const DefaultSerialQueueSize = 4096

// StreamSerial turns an io.ReadWriter into a Serial.
// Run reads the stream in background into a bounded queue;
// when the queue is full, reading pauses until it's drained.
type StreamSerial struct {
	ReadWriter io.ReadWriter
	QueueSize  int

	lock      sync.Mutex
	queue     []byte
	err       error
	dataCh    chan struct{}
	spaceCh   chan struct{}
	writeLock sync.Mutex
}

// NewStreamSerial creates a StreamSerial.
func NewStreamSerial(rw io.ReadWriter) *StreamSerial {
	return &StreamSerial{
		ReadWriter: rw,
		QueueSize:  DefaultSerialQueueSize,
		dataCh:     make(chan struct{}, 1),
		spaceCh:    make(chan struct{}, 1),
	}
}

// Peek implements Serial.
func (s *StreamSerial) Peek() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.queue) == 0 && s.err != nil {
		// let the reader see the error
		return 1
	}
	return len(s.queue)
}

// ReadInto implements Serial.
func (s *StreamSerial) ReadInto(p []byte, timeout time.Duration) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var timer *time.Timer
	for {
		s.lock.Lock()
		if len(s.queue) > 0 {
			n := copy(p, s.queue)
			s.queue = append(s.queue[:0], s.queue[n:]...)
			s.lock.Unlock()
			notify(s.spaceCh)
			return n, nil
		}
		err := s.err
		s.lock.Unlock()
		if err != nil {
			return 0, err
		}
		if timeout <= 0 {
			return 0, nil
		}
		if timer == nil {
			timer = time.NewTimer(timeout)
			defer timer.Stop()
		}
		select {
		case <-s.dataCh:
		case <-timer.C:
			return 0, nil
		}
	}
}

// Write implements Serial.
func (s *StreamSerial) Write(p []byte) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	_, err := s.ReadWriter.Write(p)
	return err
}

// Name implements Named.
func (s *StreamSerial) Name() string {
	return "serial"
}

// Run implements Runnable.
func (s *StreamSerial) Run(ctx context.Context) error {
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			s.fail(ErrClosed)
			return ctx.Err()
		default:
		}
		n, err := s.ReadWriter.Read(buf)
		if n > 0 && !s.push(ctx, buf[:n]) {
			s.fail(ErrClosed)
			return ctx.Err()
		}
		if err != nil {
			if err == io.EOF {
				s.fail(io.EOF)
				return nil
			}
			s.fail(err)
			return err
		}
	}
}

// Close implements io.Closer.
func (s *StreamSerial) Close() error {
	s.fail(ErrClosed)
	if closer, ok := s.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *StreamSerial) push(ctx context.Context, p []byte) bool {
	size := s.QueueSize
	if size <= 0 {
		size = DefaultSerialQueueSize
	}
	for len(p) > 0 {
		s.lock.Lock()
		room := size - len(s.queue)
		if room > len(p) {
			room = len(p)
		}
		if room > 0 {
			s.queue = append(s.queue, p[:room]...)
			p = p[room:]
		}
		s.lock.Unlock()
		if room > 0 {
			notify(s.dataCh)
			continue
		}
		select {
		case <-ctx.Done():
			return false
		case <-s.spaceCh:
		}
	}
	return true
}

func (s *StreamSerial) fail(err error) {
	err = readerStopped(err)
	s.lock.Lock()
	if s.err == nil {
		s.err = err
	}
	s.lock.Unlock()
	notify(s.dataCh)
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
