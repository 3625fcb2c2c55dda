package ymodem

// buildPacket assembles a SOH (payload <= 128) or STX (payload > 128,
// zero-padded to 1024) packet for block seq into e.txBuf and sends it. The transmit buffer's
// contents between pumps are the exact bytes last written to the peer;
// retransmission simply re-sends e.txBuf[:e.txLen] verbatim.
func (e *Engine) buildPacket(seq byte, payload []byte) {
	e.assemblePacket(seq, payload)
	e.writeOut()
}

// assemblePacket builds a packet into e.txBuf without writing it to the
// transport, for the sender's build-then-wait-for-poll handshake.
func (e *Engine) assemblePacket(seq byte, payload []byte) {
	soh := len(payload) <= shortPacketSize
	size := shortPacketSize
	if !soh {
		size = longPacketSize
	}

	if soh {
		e.txBuf[0] = codeSOH
	} else {
		e.txBuf[0] = codeSTX
	}
	e.txBuf[1] = seq
	e.txBuf[2] = 0xFF - seq

	body := e.txBuf[packetHeaderSize : packetHeaderSize+size]
	n := copy(body, payload)
	zeroFill(body[n:])

	crc := blockCRC16(body)
	e.txBuf[packetHeaderSize+size] = byte(crc >> 8)
	e.txBuf[packetHeaderSize+size+1] = byte(crc)

	e.txLen = packetHeaderSize + size + packetTrailerSize
}

// retransmit re-sends the exact bytes last written to the peer.
func (e *Engine) retransmit() {
	e.writeOut()
}
