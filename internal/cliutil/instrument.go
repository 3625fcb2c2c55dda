// Package cliutil holds the small pieces of wiring shared by
// cmd/ymrecv and cmd/ymsend: logging and metrics around a
// pkg/ymodem.Callback, and status publishing on every callback event.
package cliutil

import (
	log "github.com/sirupsen/logrus"

	"github.com/flowbyte/ymodem/pkg/metrics"
	"github.com/flowbyte/ymodem/pkg/status"
	"github.com/flowbyte/ymodem/pkg/ymodem"
)

// Instrument wraps cb so every pump through it logs a tagged line for
// terminal events, increments the matching metrics counter, and
// publishes a status snapshot, without changing the Decision cb
// returns. tag is "RX" or "TX", matching the teacher's
// "[YMODEM][RX]"/"[YMODEM][TX]" log style.
func Instrument(tag string, reg *metrics.Registry, pub *status.Publisher, cb ymodem.Callback) ymodem.Callback {
	var blocks int
	var bytesTotal int64

	return func(st ymodem.Status, buf []byte, length *int) ymodem.Decision {
		if st == ymodem.StatusTransmit && length != nil {
			blocks++
			bytesTotal += int64(*length)
			reg.BlocksTotal.WithLabelValues(tag).Inc()
		}

		switch st {
		case ymodem.StatusFinish:
			log.Infof("[YMODEM][%s] transfer finished, %d blocks, %d bytes", tag, blocks, bytesTotal)
		case ymodem.StatusAbort:
			log.Warnf("[YMODEM][%s] transfer aborted by peer", tag)
			reg.AbortsTotal.Inc()
		case ymodem.StatusTimeout:
			log.Warnf("[YMODEM][%s] transfer timed out", tag)
			reg.TimeoutsTotal.Inc()
		case ymodem.StatusError:
			log.Warnf("[YMODEM][%s] transfer aborted: too many errors", tag)
			reg.AbortsTotal.Inc()
		}

		decision := cb(st, buf, length)

		if pub != nil {
			_ = pub.Publish(status.Snapshot{
				Status: st,
				Bytes:  bytesTotal,
				Blocks: blocks,
			})
		}

		return decision
	}
}
