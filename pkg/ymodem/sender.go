package ymodem

// PumpTransmit drives one tick of the sender role. The host calls it at
// a fixed cadence; it never blocks.
func (e *Engine) PumpTransmit() {
	switch e.stage {
	case StageNone:
		e.transmitNone()
	case StageEstablishing:
		e.transmitEstablishing()
	case StageEstablished:
		e.transmitEstablished()
	case StageTransmitting:
		e.transmitTransmitting()
	case StageFinishing:
		e.transmitFinishing()
	default: // StageFinished
		e.transmitFinished()
	}
}

func (e *Engine) transmitNone() {
	e.resetToNone()
	e.stage = StageEstablishing
}

// transmitEstablishing waits for the receiver's initial poll before
// offering a header. Nothing is sent until the first 'C' arrives.
func (e *Engine) transmitEstablishing() {
	res := e.receivePacket()
	switch {
	case res.kind == frameControl && res.control == codeC:
		e.offerHeader()

	case res.kind == frameControl && isAbortByte(res.control):
		e.abortPeer()

	case res.kind == framePending:
		if timedOut, _ := e.tickIdle(); timedOut {
			return
		}

	default:
		e.bumpErrorOr(func() {})
	}
}

// offerHeader asks the application for the next file header (or batch
// end) and sends the resulting block-0 packet.
func (e *Engine) offerHeader() {
	buf := e.headerScratch
	length := 0
	decision := e.cb(StatusEstablish, buf, &length)
	switch decision {
	case Ack:
		e.sendingTerminator = false
		e.buildPacket(0, buf[:length])
		e.noteProgress()
		e.stage = StageEstablished

	case Eot:
		e.sendingTerminator = true
		e.buildPacket(0, nil)
		e.noteProgress()
		e.stage = StageEstablished

	default: // Refuse
		e.resetToNone()
		e.sendCanStorm()
	}
}

// transmitEstablished waits for ACK of the block-0 packet, then waits
// for the follow-up 'C' poll before the first data block moves. This
// mirrors the two-poll handshake of the original implementation without
// its stage-arithmetic trick: awaitingDataPoll names the sub-state
// explicitly.
func (e *Engine) transmitEstablished() {
	res := e.receivePacket()
	switch {
	case res.kind == frameControl && res.control == codeACK && !e.awaitingDataPoll:
		e.noteProgress()
		if e.sendingTerminator {
			e.resetToNone()
			e.cb(StatusFinish, nil, nil)
			return
		}
		e.awaitingDataPoll = true
		e.prepareNextBlock()

	case res.kind == frameControl && res.control == codeC && e.awaitingDataPoll:
		e.noteProgress()
		e.awaitingDataPoll = false
		e.blockNumber = 1
		e.stage = StageTransmitting
		e.retransmit() // first send of the block assembled while awaiting this poll

	case res.kind == frameControl && res.control == codeNAK:
		e.bumpErrorOr(func() { e.retransmit() })

	case res.kind == frameControl && isAbortByte(res.control):
		e.abortPeer()

	case res.kind == framePending:
		if timedOut, repoll := e.tickIdle(); !timedOut && repoll {
			e.retransmit()
		}

	default:
		e.bumpErrorOr(func() { e.retransmit() })
	}
}

// prepareNextBlock asks the application for the next data block and
// builds it into the transmit buffer without writing it yet; the
// follow-up 'C' poll (handled by the caller) triggers the actual send.
func (e *Engine) prepareNextBlock() {
	buf := e.dataScratch
	length := longPacketSize
	decision := e.cb(StatusTransmit, buf, &length)
	switch decision {
	case Ack:
		e.assemblePacket(1, buf[:length])
	default:
		// No data available after all: end the transfer with EOT instead
		// of a data block.
		e.awaitingDataPoll = false
		e.stage = StageFinishing
		e.sendControl(codeEOT)
	}
}

func (e *Engine) transmitTransmitting() {
	res := e.receivePacket()
	switch {
	case res.kind == frameControl && res.control == codeACK:
		e.noteProgress()
		e.sendNextOrEOT()

	case res.kind == frameControl && res.control == codeNAK:
		e.bumpErrorOr(func() { e.retransmit() })

	case res.kind == frameControl && isAbortByte(res.control):
		e.abortPeer()

	case res.kind == framePending:
		if timedOut, repoll := e.tickIdle(); !timedOut && repoll {
			e.retransmit()
		}

	default:
		e.bumpErrorOr(func() { e.retransmit() })
	}
}

// sendNextOrEOT asks the application for the next data block and either
// sends it immediately or, once the application has no more data,
// switches to the EOT handshake.
func (e *Engine) sendNextOrEOT() {
	buf := e.dataScratch
	length := longPacketSize
	decision := e.cb(StatusTransmit, buf, &length)
	switch decision {
	case Ack:
		e.blockNumber++
		e.buildPacket(e.blockNumber, buf[:length])
	default:
		e.stage = StageFinishing
		e.sendControl(codeEOT)
	}
}

// transmitFinishing implements the two-pass EOT handshake: the first
// EOT is answered with NAK (receiver didn't yet see a full batch marker
// on this path), the retransmitted EOT is answered with ACK and 'C'.
func (e *Engine) transmitFinishing() {
	res := e.receivePacket()
	switch {
	case res.kind == frameControl && res.control == codeNAK:
		e.noteProgress()
		e.sendControl(codeEOT)

	case res.kind == frameControl && res.control == codeACK:
		e.noteProgress()
		e.eotAcked = true
		e.stage = StageFinished

	case res.kind == frameControl && isAbortByte(res.control):
		e.abortPeer()

	case res.kind == framePending:
		if timedOut, repoll := e.tickIdle(); !timedOut && repoll {
			e.sendControl(codeEOT)
		}

	default:
		e.bumpErrorOr(func() { e.sendControl(codeEOT) })
	}
}

// transmitFinished is reached once EOT has been ACKed; it waits for the
// receiver's follow-up 'C', the second half of the combined ACK+C reply
// sent from receiveFinishing/receiveFinished. If that 'C' is lost or
// delayed past a repoll boundary, EOT is resent rather than sitting
// idle to a timeout: the receiver's own stray-EOT handling in
// receiveFinished answers a repeated EOT with another ACK+C, so this
// reuses the same recovery path as transmitFinishing instead of needing
// a new one.
func (e *Engine) transmitFinished() {
	res := e.receivePacket()
	switch {
	case res.kind == frameControl && res.control == codeC:
		// Receiver is ready for a new batch entry: resume the handshake
		// in place without a full reset.
		e.eotAcked = false
		e.stage = StageEstablishing
		e.offerHeader()

	case res.kind == frameControl && isAbortByte(res.control):
		e.abortPeer()

	case res.kind == framePending:
		if timedOut, repoll := e.tickIdle(); !timedOut && repoll {
			e.sendControl(codeEOT)
		}

	default:
	}
}
