package fileio

import (
	"io"

	"github.com/flowbyte/ymodem/pkg/ymodem"
)

// Outcome reports how a single file (or the whole batch) ended.
type Outcome struct {
	Header Header
	Err    error // nil on success
}

// Receiver adapts pkg/ymodem's Callback contract to a filesystem sink.
// Accept is called once a header has been parsed and decides whether to
// take the file and where its bytes should land; returning ok=false
// refuses the file and aborts the transfer.
type Receiver struct {
	Accept func(Header) (io.WriteCloser, bool)
	Done   chan<- Outcome

	current Header
	sink    io.WriteCloser
	written int64
}

// Callback satisfies ymodem.Callback.
func (r *Receiver) Callback(status ymodem.Status, buf []byte, length *int) ymodem.Decision {
	switch status {
	case ymodem.StatusEstablish:
		return r.onEstablish(buf, length)

	case ymodem.StatusTransmit:
		return r.onTransmit(buf, length)

	case ymodem.StatusFinish:
		r.closeSink(nil)
		r.report(Outcome{Header: r.current})

	case ymodem.StatusAbort, ymodem.StatusTimeout, ymodem.StatusError:
		r.closeSink(errFor(status))
		r.report(Outcome{Header: r.current, Err: errFor(status)})
	}
	return ymodem.Ack
}

func (r *Receiver) onEstablish(buf []byte, length *int) ymodem.Decision {
	h, ok := ParseHeader(buf[:*length])
	if !ok {
		return ymodem.Refuse
	}
	sink, accept := r.Accept(h)
	if !accept {
		return ymodem.Refuse
	}
	// The engine delivers the next file's StatusEstablish directly, with
	// no StatusFinish in between (see receiveFinished's non-terminator
	// branch), so the previous file's sink must be closed and reported
	// here rather than left for a terminal status that will never come
	// for it.
	if r.sink != nil {
		r.closeSink(nil)
		r.report(Outcome{Header: r.current})
	}
	r.current = h
	r.sink = sink
	r.written = 0
	return ymodem.Ack
}

func (r *Receiver) onTransmit(buf []byte, length *int) ymodem.Decision {
	n := *length
	if r.current.Size > 0 {
		remaining := r.current.Size - r.written
		if remaining >= 0 && int64(n) > remaining {
			n = int(remaining)
		}
	}
	if n > 0 {
		if _, err := r.sink.Write(buf[:n]); err != nil {
			r.closeSink(err)
			return ymodem.Refuse
		}
		r.written += int64(n)
	}
	return ymodem.Ack
}

func (r *Receiver) closeSink(err error) {
	if r.sink == nil {
		return
	}
	_ = r.sink.Close()
	r.sink = nil
	_ = err
}

func (r *Receiver) report(o Outcome) {
	if r.Done == nil {
		return
	}
	select {
	case r.Done <- o:
	default:
	}
}

func errFor(status ymodem.Status) error {
	switch status {
	case ymodem.StatusAbort:
		return errAborted
	case ymodem.StatusTimeout:
		return errTimedOut
	case ymodem.StatusError:
		return errTooManyErrors
	default:
		return nil
	}
}
