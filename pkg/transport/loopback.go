package transport

import "github.com/flowbyte/ymodem/internal/ringbuf"

// Loopback is an in-process, ring-buffer-backed pipe used to wire a
// sender engine directly to a receiver engine without a real transport,
// e.g. in tests or a same-process bridge.
type Loopback struct {
	out *ringbuf.Ring
	in  *ringbuf.Ring
}

// NewLoopbackPair returns two Loopback endpoints such that bytes
// written to a are read by b and vice versa.
func NewLoopbackPair(size int) (a, b *Loopback) {
	ab := ringbuf.New(size)
	ba := ringbuf.New(size)
	return &Loopback{out: ab, in: ba}, &Loopback{out: ba, in: ab}
}

// ReadAvailable satisfies ymodem.Reader.
func (l *Loopback) ReadAvailable(buf []byte) (int, error) {
	return l.in.Read(buf), nil
}

// Write satisfies ymodem.Writer.
func (l *Loopback) Write(buf []byte) (int, error) {
	return l.out.Write(buf), nil
}
