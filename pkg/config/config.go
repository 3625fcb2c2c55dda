// Package config loads the engine's timing/retry knobs and transport
// selection from an INI file, in the style of the teacher's EDS loader.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/flowbyte/ymodem/pkg/ymodem"
)

// Transport selects which pkg/transport adapter a CLI should build.
type Transport struct {
	Kind   string // "serial", "tcp", "unix"
	Device string // device path or "host:port"
	Baud   int
}

// Redis holds the optional pkg/status wiring.
type Redis struct {
	Addr    string
	Key     string
	Channel string
}

// Config is the full, parsed configuration for a ymrecv/ymsend run.
type Config struct {
	Timing      ymodem.Config
	Transport   Transport
	Redis       Redis
	MetricsAddr string
}

// Default returns a Config with the protocol's reference timing
// defaults and no transport/redis/metrics wiring.
func Default() Config {
	return Config{Timing: ymodem.DefaultConfig()}
}

// Load reads an INI file with sections [timing], [transport], [redis]
// and [metrics]. Every field is optional; absent fields keep the
// DefaultConfig()-derived value already in cfg.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}

	if s := f.Section("timing"); s != nil {
		cfg.Timing.TimeDivide = uint32(s.Key("time_divide").MustUint(uint(cfg.Timing.TimeDivide)))
		cfg.Timing.TimeMax = uint32(s.Key("time_max").MustUint(uint(cfg.Timing.TimeMax)))
		cfg.Timing.ErrorMax = uint32(s.Key("error_max").MustUint(uint(cfg.Timing.ErrorMax)))
		cfg.Timing.CanCount = uint32(s.Key("can_count").MustUint(uint(cfg.Timing.CanCount)))
	}

	if s := f.Section("transport"); s != nil {
		cfg.Transport.Kind = s.Key("kind").MustString(cfg.Transport.Kind)
		cfg.Transport.Device = s.Key("device").MustString(cfg.Transport.Device)
		cfg.Transport.Baud = s.Key("baud").MustInt(cfg.Transport.Baud)
	}

	if s := f.Section("redis"); s != nil {
		cfg.Redis.Addr = s.Key("addr").MustString(cfg.Redis.Addr)
		cfg.Redis.Key = s.Key("key").MustString(cfg.Redis.Key)
		cfg.Redis.Channel = s.Key("channel").MustString(cfg.Redis.Channel)
	}

	if s := f.Section("metrics"); s != nil {
		cfg.MetricsAddr = s.Key("listen").MustString(cfg.MetricsAddr)
	}

	return cfg, nil
}
