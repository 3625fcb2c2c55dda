package ymodem

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReceiver(t *testing.T, cfg Config, cb Callback) (*Engine, *link) {
	t.Helper()
	a, b := newLinkPair()
	e, err := New(cfg, b, cb)
	require.NoError(t, err)
	return e, a.(*link)
}

func writeHeaderPacket(t *testing.T, peer *link, seq byte, name string) {
	t.Helper()
	body := make([]byte, shortPacketSize)
	n := copy(body, name)
	body[n] = 0
	crc := blockCRC16(body)
	pkt := append([]byte{codeSOH, seq, 0xFF - seq}, body...)
	pkt = append(pkt, byte(crc>>8), byte(crc))
	_, err := peer.Write(pkt)
	require.NoError(t, err)
}

func TestReceiverEstablishingAcceptsHeader(t *testing.T) {
	var got string
	cb := func(status Status, buf []byte, length *int) Decision {
		if status == StatusEstablish {
			got = string(bytes.TrimRight(buf[:*length], "\x00"))
		}
		return Ack
	}
	e, peer := newTestReceiver(t, DefaultConfig(), cb)
	e.stage = StageEstablishing

	writeHeaderPacket(t, peer, 0, "file.bin")
	e.PumpReceive()

	assert.Equal(t, "file.bin", got)
	assert.Equal(t, StageEstablished, e.Stage())
}

func TestReceiverEstablishingRefusesAborts(t *testing.T) {
	cb := func(status Status, buf []byte, length *int) Decision { return Refuse }
	e, peer := newTestReceiver(t, DefaultConfig(), cb)
	e.stage = StageEstablishing

	writeHeaderPacket(t, peer, 0, "file.bin")
	e.PumpReceive()

	assert.Equal(t, StageNone, e.Stage())
}

func TestReceiverTimesOutAfterIdleTicks(t *testing.T) {
	var timedOut bool
	cb := func(status Status, buf []byte, length *int) Decision {
		if status == StatusTimeout {
			timedOut = true
		}
		return Ack
	}
	cfg := Config{TimeDivide: 1, TimeMax: 1, ErrorMax: 999, CanCount: 5}
	e, _ := newTestReceiver(t, cfg, cb)
	e.stage = StageEstablishing

	for i := 0; i < 20 && !timedOut; i++ {
		e.PumpReceive()
	}

	assert.True(t, timedOut)
	assert.Equal(t, StageNone, e.Stage())
}

func TestReceiverAbortByteResetsSilently(t *testing.T) {
	var aborted bool
	cb := func(status Status, buf []byte, length *int) Decision {
		if status == StatusAbort {
			aborted = true
		}
		return Ack
	}
	e, peer := newTestReceiver(t, DefaultConfig(), cb)
	e.stage = StageTransmitting
	e.blockNumber = 3

	_, err := peer.Write([]byte{codeCAN})
	require.NoError(t, err)
	e.PumpReceive()

	assert.True(t, aborted)
	assert.Equal(t, StageNone, e.Stage())
}
