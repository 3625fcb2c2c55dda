// Package fileio adapts pkg/ymodem's Callback contract to a filesystem:
// parsing and building block-0 headers, and streaming file contents a
// block at a time.
package fileio

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// Header is the parsed form of a YMODEM block-0 payload.
type Header struct {
	Name string
	Size int64

	// ModTime and Mode are informational extensions some senders add
	// after the size, space-separated; absent in most transfers and
	// never required for acceptance.
	ModTime time.Time
	Mode    uint32
}

// ParseHeader extracts a Header from a raw block-0 payload. ok is false
// when payload is the zero-filled batch terminator (an empty name).
func ParseHeader(payload []byte) (h Header, ok bool) {
	nameEnd := bytes.IndexByte(payload, 0)
	if nameEnd <= 0 {
		return Header{}, false
	}
	h.Name = string(payload[:nameEnd])

	rest := payload[nameEnd+1:]
	if end := bytes.IndexByte(rest, 0); end >= 0 {
		rest = rest[:end]
	}
	fields := strings.Fields(string(rest))
	if len(fields) == 0 {
		return h, true
	}
	if size, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
		h.Size = size
	}
	if len(fields) > 1 {
		if secs, err := strconv.ParseInt(fields[1], 8, 64); err == nil {
			h.ModTime = time.Unix(secs, 0)
		}
	}
	if len(fields) > 2 {
		if mode, err := strconv.ParseUint(fields[2], 8, 32); err == nil {
			h.Mode = uint32(mode)
		}
	}
	return h, true
}

// BuildHeader writes a block-0 payload for h into buf and returns the
// number of bytes written (the name, a NUL, and the decimal size).
func BuildHeader(buf []byte, h Header) int {
	n := copy(buf, h.Name)
	buf[n] = 0
	n++
	n += copy(buf[n:], strconv.FormatInt(h.Size, 10))
	return n
}
