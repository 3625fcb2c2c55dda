package fileio

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowbyte/ymodem/pkg/transport"
	"github.com/flowbyte/ymodem/pkg/ymodem"
)

func TestParseHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, 128)
	n := BuildHeader(buf, Header{Name: "firmware.bin", Size: 204800})

	h, ok := ParseHeader(buf[:n])
	assert.True(t, ok)
	assert.Equal(t, "firmware.bin", h.Name)
	assert.EqualValues(t, 204800, h.Size)
}

func TestParseHeaderTerminator(t *testing.T) {
	buf := make([]byte, 128)
	_, ok := ParseHeader(buf)
	assert.False(t, ok)
}

func TestParseHeaderTrailingSpaceTokens(t *testing.T) {
	payload := append([]byte("note.txt\x00"), []byte("42 17654321200 644")...)
	h, ok := ParseHeader(payload)
	assert.True(t, ok)
	assert.Equal(t, "note.txt", h.Name)
	assert.EqualValues(t, 42, h.Size)
	assert.EqualValues(t, 0644, h.Mode)
}

// closingSink records whether Close was called, so a test can tell a
// leaked sink from one the Receiver actually released.
type closingSink struct {
	bytes.Buffer
	closed bool
}

func (c *closingSink) Close() error {
	c.closed = true
	return nil
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }

// TestReceiverMultiFileBatchClosesAndReportsEachFile drives a real
// two-file batch through a Sender/Receiver pair over a Loopback
// transport. The engine delivers the second file's StatusEstablish with
// no StatusFinish in between for the first, so Receiver must close and
// report the first file's sink on its own; this is a regression test
// for that transition.
func TestReceiverMultiFileBatchClosesAndReportsEachFile(t *testing.T) {
	senderSide, receiverSide := transport.NewLoopbackPair(4096)

	firstData := []byte("first file contents")
	secondData := []byte("second file, a little longer than the first one")

	entries := []Entry{
		{Name: "a.txt", Open: func() (io.ReadCloser, int64, error) {
			return nopCloser{bytes.NewReader(firstData)}, int64(len(firstData)), nil
		}},
		{Name: "b.txt", Open: func() (io.ReadCloser, int64, error) {
			return nopCloser{bytes.NewReader(secondData)}, int64(len(secondData)), nil
		}},
	}
	snd := &Sender{Entries: entries}

	var accepted []Header
	var sinks []*closingSink
	done := make(chan Outcome, 4)
	rcv := &Receiver{
		Done: done,
		Accept: func(h Header) (io.WriteCloser, bool) {
			accepted = append(accepted, h)
			sink := &closingSink{}
			sinks = append(sinks, sink)
			return sink, true
		},
	}

	finished := false
	receiveCallback := func(status ymodem.Status, buf []byte, length *int) ymodem.Decision {
		d := rcv.Callback(status, buf, length)
		switch status {
		case ymodem.StatusFinish, ymodem.StatusAbort, ymodem.StatusTimeout, ymodem.StatusError:
			finished = true
		}
		return d
	}

	sender, err := ymodem.New(ymodem.DefaultConfig(), senderSide, snd.Callback)
	require.NoError(t, err)
	receiver, err := ymodem.New(ymodem.DefaultConfig(), receiverSide, receiveCallback)
	require.NoError(t, err)

	for i := 0; i < 5000 && !finished; i++ {
		sender.PumpTransmit()
		receiver.PumpReceive()
	}
	require.True(t, finished, "batch did not finish")

	require.Len(t, accepted, 2)
	assert.Equal(t, "a.txt", accepted[0].Name)
	assert.Equal(t, "b.txt", accepted[1].Name)

	require.Len(t, sinks, 2)
	assert.True(t, sinks[0].closed, "first file's sink was never closed")
	assert.True(t, sinks[1].closed, "second file's sink was never closed")
	assert.Equal(t, firstData, sinks[0].Bytes())
	assert.Equal(t, secondData, sinks[1].Bytes())

	close(done)
	var outcomes []Outcome
	for o := range done {
		outcomes = append(outcomes, o)
	}
	require.Len(t, outcomes, 2, "expected one Outcome reported per file, not just the last")
	assert.Equal(t, "a.txt", outcomes[0].Header.Name)
	assert.Equal(t, "b.txt", outcomes[1].Header.Name)
}
