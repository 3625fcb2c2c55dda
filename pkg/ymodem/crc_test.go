package ymodem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16Single(t *testing.T) {
	var crc CRC16
	crc.Single(10)
	assert.EqualValues(t, 0xA14A, crc)
}

func TestCRC16ZeroPayload(t *testing.T) {
	buf := make([]byte, shortPacketSize)
	assert.EqualValues(t, 0x0000, blockCRC16(buf))
}

func TestCRC16OnesPayload(t *testing.T) {
	buf := make([]byte, shortPacketSize)
	for i := range buf {
		buf[i] = 0x01
	}
	assert.EqualValues(t, 0xBFBA, blockCRC16(buf))
}

func TestCRC16RoundTrip(t *testing.T) {
	payloads := [][]byte{
		make([]byte, shortPacketSize),
		{0xAA, 0xBB, 0xCC, 0xDD},
		make([]byte, longPacketSize),
	}
	for _, p := range payloads {
		assert.True(t, verifyCRC16(p, blockCRC16(p)))
	}
}
