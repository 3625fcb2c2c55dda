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
	configPath := flag.String("config", "", "optional INI config overriding timing/redis/metrics (its [transport] section is not read)")
	redisAddr := flag.String("redis-addr", "", "redis address for status publishing, e.g. 127.0.0.1:6379")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		log.Fatalf("[YMODEM][TX] usage: ymsend [flags] file...")
	}

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

	entries := make([]fileio.Entry, len(files))
	for i, path := range files {
		path := path
		entries[i] = fileio.Entry{
			Name: filepath.Base(path),
			Open: func() (io.ReadCloser, int64, error) {
				f, err := os.Open(path)
				if err != nil {
					return nil, 0, err
				}
				info, err := f.Stat()
				if err != nil {
					f.Close()
					return nil, 0, err
				}
				return f, info.Size(), nil
			},
		}
	}

	snd := &fileio.Sender{Entries: entries}
	callback := cliutil.Instrument("TX", reg, publisher, snd.Callback)

	engine, err := ymodem.New(cfg.Timing, rw, callback)
	if err != nil {
		log.Fatalf("[YMODEM][TX] construct engine: %v", err)
	}

	reg.ActiveTransfers.Inc()
	defer reg.ActiveTransfers.Dec()

	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		engine.PumpTransmit()
		if engine.Stage() == ymodem.StageNone {
			return
		}
	}
}

func openTransport(device string, baud int, tcp bool) (ymodem.ReadWriter, func() error) {
	if tcp {
		sock, err := transport.DialSocket("tcp", device)
		if err != nil {
			log.Fatalf("[YMODEM][TX] dial %s: %v", device, err)
		}
		return sock, sock.Close
	}
	ser, err := transport.OpenSerial(device, baud)
	if err != nil {
		log.Fatalf("[YMODEM][TX] open %s: %v", device, err)
	}
	return ser, ser.Close
}
