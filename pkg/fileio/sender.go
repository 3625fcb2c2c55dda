package fileio

import (
	"io"

	"github.com/flowbyte/ymodem/pkg/ymodem"
)

// Entry is one file offered by a Sender, opened lazily when its turn
// comes up.
type Entry struct {
	Name string
	Open func() (io.ReadCloser, int64, error)
}

// Sender adapts pkg/ymodem's Callback contract to an ordered list of
// files, serializing them across repeated block-0 exchanges of a
// single engine instance.
type Sender struct {
	Entries []Entry
	Done    chan<- Outcome

	index   int
	current io.ReadCloser
	header  Header
	sent    int64
}

// Callback satisfies ymodem.Callback.
func (s *Sender) Callback(status ymodem.Status, buf []byte, length *int) ymodem.Decision {
	switch status {
	case ymodem.StatusEstablish:
		return s.onEstablish(buf, length)

	case ymodem.StatusTransmit:
		return s.onTransmit(buf, length)

	case ymodem.StatusFinish:
		s.closeCurrent()
		s.report(Outcome{})

	case ymodem.StatusAbort, ymodem.StatusTimeout, ymodem.StatusError:
		s.closeCurrent()
		s.report(Outcome{Header: s.header, Err: errFor(status)})
	}
	return ymodem.Ack
}

func (s *Sender) onEstablish(buf []byte, length *int) ymodem.Decision {
	if s.index >= len(s.Entries) {
		return ymodem.Eot
	}
	entry := s.Entries[s.index]
	s.index++

	f, size, err := entry.Open()
	if err != nil {
		return s.onEstablish(buf, length) // skip unreadable entries
	}
	s.current = f
	s.header = Header{Name: entry.Name, Size: size}
	s.sent = 0
	*length = BuildHeader(buf, s.header)
	return ymodem.Ack
}

func (s *Sender) onTransmit(buf []byte, length *int) ymodem.Decision {
	n, err := io.ReadFull(s.current, buf)
	if n == 0 || (err != nil && err != io.ErrUnexpectedEOF) {
		s.closeCurrent()
		return ymodem.Refuse
	}
	s.sent += int64(n)
	*length = n
	return ymodem.Ack
}

func (s *Sender) closeCurrent() {
	if s.current == nil {
		return
	}
	_ = s.current.Close()
	s.current = nil
}

func (s *Sender) report(o Outcome) {
	if s.Done == nil {
		return
	}
	select {
	case s.Done <- o:
	default:
	}
}
