package ymodem

// Wire-level control bytes, bit-exact per the YMODEM/XMODEM-1K protocol.
const (
	codeSOH byte = 0x01
	codeSTX byte = 0x02
	codeEOT byte = 0x04
	codeACK byte = 0x06
	codeNAK byte = 0x15
	codeCAN byte = 0x18
	codeC   byte = 0x43
	codeA1  byte = 0x41 // treated as abort-equivalent
	codeA2  byte = 0x61 // treated as abort-equivalent
)

func isAbortByte(b byte) bool {
	return b == codeCAN || b == codeA1 || b == codeA2
}

// packetOverhead is <soh|stx><seq><~seq> ... <crcHi><crcLo>: 3 header + 2 trailer bytes.
const (
	packetHeaderSize  = 3
	packetTrailerSize = 2
	packetOverhead    = packetHeaderSize + packetTrailerSize
	shortPacketSize   = 128
	longPacketSize    = 1024
)

// Stage is the engine's ordered lifecycle position. It is set only by the
// state machines themselves and read by the host and by tests.
type Stage uint8

const (
	StageNone Stage = iota
	StageEstablishing
	StageEstablished
	StageTransmitting
	StageFinishing
	StageFinished
)

func (s Stage) String() string {
	switch s {
	case StageNone:
		return "None"
	case StageEstablishing:
		return "Establishing"
	case StageEstablished:
		return "Established"
	case StageTransmitting:
		return "Transmitting"
	case StageFinishing:
		return "Finishing"
	case StageFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Status identifies why the application callback was invoked.
type Status uint8

const (
	// StatusEstablish delivers/requests the block-0 header.
	StatusEstablish Status = iota
	// StatusTransmit delivers/requests a data block.
	StatusTransmit
	// StatusFinish reports a successful transfer.
	StatusFinish
	// StatusAbort reports a peer-initiated abort (CAN/0x41/0x61).
	StatusAbort
	// StatusTimeout reports tick-counter exhaustion.
	StatusTimeout
	// StatusError reports error-counter exhaustion.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusEstablish:
		return "Establish"
	case StatusTransmit:
		return "Transmit"
	case StatusFinish:
		return "Finish"
	case StatusAbort:
		return "Abort"
	case StatusTimeout:
		return "Timeout"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Decision is returned by the application callback for the two progress
// statuses (Establish, Transmit). Any value other than Ack/Eot is treated
// as a request to abort the transfer with a CAN storm, except from a
// sender's StatusTransmit: there any value other than Ack ends the file
// with EOT, and Refuse does not abort.
type Decision uint8

const (
	// Ack accepts/continues the transfer.
	Ack Decision = iota
	// Eot ends a sender's file list (no more data to send).
	Eot
	// Refuse requests the engine abort with a CAN storm (from a sender's
	// StatusTransmit it ends the file with EOT instead).
	Refuse
)
