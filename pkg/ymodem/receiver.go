package ymodem

// PumpReceive drives one tick of the receiver role. The host calls it at
// a fixed cadence; it never blocks.
func (e *Engine) PumpReceive() {
	switch e.stage {
	case StageNone:
		e.receiveNone()
	case StageEstablishing:
		e.receiveEstablishing()
	case StageEstablished:
		e.receiveEstablished()
	case StageTransmitting:
		e.receiveTransmitting()
	case StageFinishing:
		e.receiveFinishing()
	default: // StageFinished
		e.receiveFinished()
	}
}

func (e *Engine) receiveNone() {
	e.resetToNone()
	e.stage = StageEstablishing
	e.sendControl(codeC)
}

// isTerminatorHeader reports whether a block-0 payload is the zero-filled
// batch terminator (an empty filename) rather than a real file header.
func isTerminatorHeader(payload []byte) bool {
	return len(payload) == 0 || payload[0] == 0
}

func (e *Engine) receiveEstablishing() {
	res := e.receivePacket()
	switch {
	case res.kind == frameFramed && res.soh && e.packetValid(0) && isTerminatorHeader(e.packetPayload()):
		e.sendControl(codeACK)
		e.resetToNone()
		e.cb(StatusFinish, nil, nil)

	case res.kind == frameFramed && res.soh && e.packetValid(0):
		length := e.packetPayloadSize()
		decision := e.cb(StatusEstablish, e.packetPayload(), &length)
		if decision == Ack {
			e.noteProgress()
			e.stage = StageEstablished
			e.sendControl(codeACK, codeC)
		} else {
			e.resetToNone()
			e.sendCanStorm()
		}

	case res.kind == frameControl && isAbortByte(res.control):
		e.abortPeer()

	case res.kind == framePending:
		if timedOut, repoll := e.tickIdle(); !timedOut && repoll {
			e.sendControl(codeC)
		}

	default: // garbled: bad CRC/seq on a framed packet, or an unexpected control byte
		e.bumpErrorOr(func() { e.sendControl(codeC) })
	}
}

func (e *Engine) receiveEstablished() {
	res := e.receivePacket()
	switch {
	case res.kind == frameFramed && e.packetValid(1):
		length := e.packetPayloadSize()
		decision := e.cb(StatusTransmit, e.packetPayload(), &length)
		if decision == Ack {
			e.noteProgress()
			e.blockNumber = 1
			e.stage = StageTransmitting
			e.sendControl(codeACK)
		} else {
			e.resetToNone()
			e.sendCanStorm()
		}

	case res.kind == frameFramed && res.soh && e.packetValid(0):
		// Peer retransmitted the header because it missed our ACK.
		e.bumpErrorOr(func() { e.sendControl(codeACK, codeC) })

	case res.kind == frameControl && res.control == codeEOT:
		e.noteProgress()
		e.stage = StageFinishing
		e.sendControl(codeNAK)

	case res.kind == frameControl && isAbortByte(res.control):
		e.abortPeer()

	case res.kind == framePending:
		if timedOut, repoll := e.tickIdle(); !timedOut && repoll {
			e.sendControl(codeNAK)
		}

	default:
		e.bumpErrorOr(func() { e.sendControl(codeNAK) })
	}
}

func (e *Engine) receiveTransmitting() {
	res := e.receivePacket()
	switch {
	case res.kind == frameFramed && e.packetValid(e.blockNumber+1):
		length := e.packetPayloadSize()
		decision := e.cb(StatusTransmit, e.packetPayload(), &length)
		if decision == Ack {
			e.noteProgress()
			e.blockNumber++
			e.sendControl(codeACK)
		} else {
			e.resetToNone()
			e.sendCanStorm()
		}

	case res.kind == frameFramed && e.packetValid(e.blockNumber):
		// Duplicate: peer didn't see our previous ACK. ACK again without
		// redelivering the payload.
		e.bumpErrorOr(func() { e.sendControl(codeACK) })

	case res.kind == frameControl && res.control == codeEOT:
		e.noteProgress()
		e.stage = StageFinishing
		e.sendControl(codeNAK)

	case res.kind == frameControl && isAbortByte(res.control):
		e.abortPeer()

	case res.kind == framePending:
		if timedOut, repoll := e.tickIdle(); !timedOut && repoll {
			e.sendControl(codeNAK)
		}

	default:
		e.bumpErrorOr(func() { e.sendControl(codeNAK) })
	}
}

func (e *Engine) receiveFinishing() {
	res := e.receivePacket()
	switch {
	case res.kind == frameControl && res.control == codeEOT:
		e.noteProgress()
		e.stage = StageFinished
		e.sendControl(codeACK, codeC)

	case res.kind == frameControl && isAbortByte(res.control):
		e.abortPeer()

	case res.kind == framePending:
		if timedOut, repoll := e.tickIdle(); !timedOut && repoll {
			e.sendControl(codeNAK)
		}

	default:
		e.bumpErrorOr(func() { e.sendControl(codeNAK) })
	}
}

// receiveFinished is reached right after a file finishes: the receiver
// has already ACKed EOT and polled with 'C' for the next batch entry. A
// fresh block-0 header here starts the next file exactly like
// receiveEstablishing; the zero-filled terminator ends the whole batch,
// reported once via StatusFinish; a stray retransmitted EOT (the peer
// missed our ACK+C) is answered without re-running any callback.
func (e *Engine) receiveFinished() {
	res := e.receivePacket()
	switch {
	case res.kind == frameFramed && res.soh && e.packetValid(0) && isTerminatorHeader(e.packetPayload()):
		e.sendControl(codeACK)
		e.resetToNone()
		e.cb(StatusFinish, nil, nil)

	case res.kind == frameFramed && res.soh && e.packetValid(0):
		length := e.packetPayloadSize()
		decision := e.cb(StatusEstablish, e.packetPayload(), &length)
		if decision == Ack {
			e.noteProgress()
			e.stage = StageEstablished
			e.sendControl(codeACK, codeC)
		} else {
			e.resetToNone()
			e.sendCanStorm()
		}

	case res.kind == frameControl && res.control == codeEOT:
		// Peer is retransmitting EOT because it missed our ACK/C.
		e.bumpErrorOr(func() { e.sendControl(codeACK, codeC) })

	case res.kind == frameControl && isAbortByte(res.control):
		e.abortPeer()

	case res.kind == framePending:
		if timedOut, repoll := e.tickIdle(); !timedOut && repoll {
			e.sendControl(codeNAK)
		}

	default:
		e.bumpErrorOr(func() { e.sendControl(codeNAK) })
	}
}
