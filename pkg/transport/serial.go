// Package transport provides non-blocking ReadWriter adapters over a
// serial port, a network socket, and an in-memory loopback, all
// satisfying pkg/ymodem's Reader/Writer capability.
package transport

import (
	"sync"

	"github.com/tarm/serial"

	"github.com/flowbyte/ymodem/internal/ringbuf"
)

// Serial wraps a tarm/serial port. A background goroutine services the
// port's blocking Read and hands bytes to ReadAvailable through a ring
// buffer, so the engine's tick-driven pump never blocks.
type Serial struct {
	port *serial.Port
	ring *ringbuf.Ring

	closeOnce sync.Once
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// OpenSerial opens device at baud and starts the background read loop.
func OpenSerial(device string, baud int) (*Serial, error) {
	cfg := &serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: 0,
	}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}

	s := &Serial{
		port:     port,
		ring:     ringbuf.New(8192),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

func (s *Serial) readLoop() {
	defer close(s.doneChan)
	buf := make([]byte, 256)
	for {
		select {
		case <-s.stopChan:
			return
		default:
		}
		n, err := s.port.Read(buf)
		if n > 0 {
			s.ring.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// ReadAvailable satisfies ymodem.Reader.
func (s *Serial) ReadAvailable(buf []byte) (int, error) {
	return s.ring.Read(buf), nil
}

// Write satisfies ymodem.Writer.
func (s *Serial) Write(buf []byte) (int, error) {
	return s.port.Write(buf)
}

// Close stops the read loop and closes the underlying port.
func (s *Serial) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)
		err = s.port.Close()
		<-s.doneChan
	})
	return err
}
