package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/flowbyte/ymodem/internal/cliutil"
	"github.com/flowbyte/ymodem/pkg/config"
	"github.com/flowbyte/ymodem/pkg/fileio"
	"github.com/flowbyte/ymodem/pkg/metrics"
	"github.com/flowbyte/ymodem/pkg/status"
	"github.com/flowbyte/ymodem/pkg/transport"
	"github.com/flowbyte/ymodem/pkg/ymodem"
)

var defaultDevice = "/dev/ttyUSB0"

func main() {
	log.SetLevel(log.DebugLevel)

	device := flag.String("device", defaultDevice, "serial device, or host:port for -tcp")
	tcp := flag.Bool("tcp", false, "dial device as a TCP address instead of opening a serial port")
	baud := flag.Int("baud", 115200, "serial baud rate")
	destDir := flag.String("dest", ".", "directory to write received files into")
	configPath := flag.String("config", "", "optional INI config overriding timing/redis/metrics (its [transport] section is not read)")
	redisAddr := flag.String("redis-addr", "", "redis address for status publishing, e.g. 127.0.0.1:6379")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("[YMODEM] config: %v", err)
		}
		cfg = loaded
	}
	if *redisAddr != "" {
		cfg.Redis.Addr = *redisAddr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	reg := metrics.New(nil)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(cfg.MetricsAddr); err != nil {
				log.Errorf("[YMODEM] metrics server: %v", err)
			}
		}()
	}

	var publisher *status.Publisher
	if cfg.Redis.Addr != "" {
		p, err := status.New(cfg.Redis.Addr, cfg.Redis.Key, cfg.Redis.Channel)
		if err != nil {
			log.Warnf("[YMODEM] status publisher disabled: %v", err)
		} else {
			publisher = p
			defer publisher.Close()
		}
	}

	rw, closeFn := openTransport(*device, *baud, *tcp)
	defer closeFn()

	rcv := &fileio.Receiver{
		Accept: func(h fileio.Header) (io.WriteCloser, bool) {
			path := filepath.Join(*destDir, filepath.Base(h.Name))
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				log.Errorf("[YMODEM][RX] cannot create %s: %v", path, err)
				return nil, false
			}
			log.Infof("[YMODEM][RX] accepting %s (%d bytes)", h.Name, h.Size)
			return f, true
		},
	}

	callback := cliutil.Instrument("RX", reg, publisher, rcv.Callback)

	engine, err := ymodem.New(cfg.Timing, rw, callback)
	if err != nil {
		log.Fatalf("[YMODEM][RX] construct engine: %v", err)
	}

	reg.ActiveTransfers.Inc()
	defer reg.ActiveTransfers.Dec()

	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		engine.PumpReceive()
		if engine.Stage() == ymodem.StageNone {
			return
		}
	}
}

func openTransport(device string, baud int, tcp bool) (ymodem.ReadWriter, func() error) {
	if tcp {
		sock, err := transport.DialSocket("tcp", device)
		if err != nil {
			log.Fatalf("[YMODEM][RX] dial %s: %v", device, err)
		}
		return sock, sock.Close
	}
	ser, err := transport.OpenSerial(device, baud)
	if err != nil {
		log.Fatalf("[YMODEM][RX] open %s: %v", device, err)
	}
	return ser, ser.Close
}
