package ymodem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender(t *testing.T, cfg Config, cb Callback) (*Engine, *link) {
	t.Helper()
	a, b := newLinkPair()
	e, err := New(cfg, b, cb)
	require.NoError(t, err)
	return e, a.(*link)
}

func TestSenderWaitsForInitialPoll(t *testing.T) {
	called := false
	cb := func(status Status, buf []byte, length *int) Decision {
		called = true
		return Ack
	}
	e, _ := newTestSender(t, DefaultConfig(), cb)
	e.stage = StageEstablishing

	e.PumpTransmit()

	assert.False(t, called)
	assert.Equal(t, StageEstablishing, e.Stage())
}

func TestSenderOffersHeaderOnPoll(t *testing.T) {
	cb := func(status Status, buf []byte, length *int) Decision {
		n := copy(buf, "report.csv")
		buf[n] = 0
		*length = n + 1
		return Ack
	}
	e, peer := newTestSender(t, DefaultConfig(), cb)
	e.stage = StageEstablishing

	_, err := peer.Write([]byte{codeC})
	require.NoError(t, err)
	e.PumpTransmit()

	assert.Equal(t, StageEstablished, e.Stage())
	assert.Equal(t, codeSOH, e.txBuf[0])
}

func TestSenderAwaitsDataPollBeforeTransmitting(t *testing.T) {
	callCount := 0
	cb := func(status Status, buf []byte, length *int) Decision {
		if status == StatusTransmit {
			callCount++
			n := copy(buf, "payload")
			*length = n
		}
		return Ack
	}
	e, peer := newTestSender(t, DefaultConfig(), cb)
	e.stage = StageEstablished
	e.sendingTerminator = false

	_, err := peer.Write([]byte{codeACK})
	require.NoError(t, err)
	e.PumpTransmit()

	assert.Equal(t, 1, callCount)
	assert.Equal(t, StageEstablished, e.Stage())
	assert.True(t, e.awaitingDataPoll)

	_, err = peer.Write([]byte{codeC})
	require.NoError(t, err)
	e.PumpTransmit()

	assert.Equal(t, StageTransmitting, e.Stage())
	assert.False(t, e.awaitingDataPoll)
	assert.EqualValues(t, 1, e.blockNumber)
}

func TestSenderResendsEOTWhileAwaitingFinishedPoll(t *testing.T) {
	cb := func(status Status, buf []byte, length *int) Decision { return Ack }
	cfg := Config{TimeDivide: 0, TimeMax: 5, ErrorMax: 999, CanCount: 5}
	e, _ := newTestSender(t, cfg, cb)
	e.stage = StageFinished
	e.eotAcked = true

	e.PumpTransmit()

	assert.Equal(t, StageFinished, e.Stage(), "still waiting for the follow-up C")
	assert.Equal(t, codeEOT, e.txBuf[0], "EOT must be resent on a repoll boundary, not left idle")
}

func TestSenderRefuseAbortsEstablishing(t *testing.T) {
	cb := func(status Status, buf []byte, length *int) Decision { return Refuse }
	e, peer := newTestSender(t, DefaultConfig(), cb)
	e.stage = StageEstablishing

	_, err := peer.Write([]byte{codeC})
	require.NoError(t, err)
	e.PumpTransmit()

	assert.Equal(t, StageNone, e.Stage())
}
