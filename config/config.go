// Package config loads connection settings from a TOML file.
//
// Only the keys present in the file override the connection defaults:
//
//	[serial]
//	port = "/dev/ttyUSB0"
//	baud_rate = 115200
//	api_mode = 2
//	read_timeout = "100ms"
//
//	[command]
//	timeout = "2s"
//
//	[heartbeat]
//	enabled = true
//	timeout = "8s"
//	marker = "```"
//
//	[params]
//	read_on_open = true
//
//	[log]
//	level = "debug"
//	add_source = false
//
// A [heartbeat] section turns node liveness tracking on unless it sets
// enabled = false. Without the section the heartbeat stays disabled. A [log]
// section replaces the default logger.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/logger"
	"github.com/arloliu/go-xbee/xbee"
)

// ErrUnknownKey indicates a key that is not part of the file format.
var ErrUnknownKey = errors.New("config: unknown key")

// File mirrors the layout of a configuration file.
type File struct {
	Serial    SerialSection    `toml:"serial"`
	Command   CommandSection   `toml:"command"`
	Heartbeat HeartbeatSection `toml:"heartbeat"`
	Params    ParamsSection    `toml:"params"`
	Log       LogSection       `toml:"log"`
}

// SerialSection is the [serial] section: the port and its line settings.
// read_timeout bounds each read of the port.
type SerialSection struct {
	Port        string        `toml:"port"`
	BaudRate    int           `toml:"baud_rate"`
	APIMode     int           `toml:"api_mode"`
	ReadTimeout time.Duration `toml:"read_timeout"`
}

// CommandSection is the [command] section. timeout is the deadline of each
// command response.
type CommandSection struct {
	Timeout time.Duration `toml:"timeout"`
}

// HeartbeatSection is the [heartbeat] section. Enabled defaults to true when the
// section is present and the key is not.
type HeartbeatSection struct {
	Enabled bool          `toml:"enabled"`
	Timeout time.Duration `toml:"timeout"`
	Marker  string        `toml:"marker"`
}

// ParamsSection is the [params] section. read_on_open controls whether Open reads
// the radio parameters.
type ParamsSection struct {
	ReadOnOpen bool `toml:"read_on_open"`
}

// LogSection is the [log] section. Level is one of debug, info, warn or error.
type LogSection struct {
	Level     string `toml:"level"`
	AddSource bool   `toml:"add_source"`
}

// Config is a decoded configuration file.
type Config struct {
	File
	meta toml.MetaData
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.DecodeFile(path, &cfg.File)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg.meta = meta

	if err := cfg.checkKeys(); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	return cfg, nil
}

// Decode parses configuration text.
func Decode(data string) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.Decode(data, &cfg.File)
	if err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.meta = meta

	if err := cfg.checkKeys(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) checkKeys() error {
	undecoded := c.meta.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}

	return fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
}

// IsDefined reports whether the file sets key, e.g. IsDefined("serial", "port").
func (c *Config) IsDefined(key ...string) bool {
	return c.meta.IsDefined(key...)
}

// Logger creates the logger described by the [log] section. It returns the
// package default logger when the section is absent.
func (c *Config) Logger() (logger.Logger, error) {
	if !c.IsDefined("log") {
		return logger.GetLogger(), nil
	}

	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: log.level: %w", err)
	}

	return logger.NewSlog(level, c.Log.AddSource), nil
}

// Options returns the connection options for the keys set in the file. The
// options are validated when applied by xbee.NewConnectionConfig.
func (c *Config) Options() ([]xbee.ConnOption, error) {
	var opts []xbee.ConnOption

	if c.IsDefined("serial", "baud_rate") {
		opts = append(opts, xbee.WithBaudRate(c.Serial.BaudRate))
	}
	if c.IsDefined("serial", "api_mode") {
		if c.Serial.APIMode < 0 || c.Serial.APIMode > 0xFF {
			return nil, fmt.Errorf("config: serial.api_mode %d is invalid", c.Serial.APIMode)
		}
		opts = append(opts, xbee.WithAPIMode(frame.APIMode(c.Serial.APIMode)))
	}
	if c.IsDefined("serial", "read_timeout") {
		opts = append(opts, xbee.WithReadTimeout(c.Serial.ReadTimeout))
	}
	if c.IsDefined("command", "timeout") {
		opts = append(opts, xbee.WithCommandTimeout(c.Command.Timeout))
	}
	if c.IsDefined("heartbeat") {
		enabled := c.Heartbeat.Enabled || !c.IsDefined("heartbeat", "enabled")
		opts = append(opts, xbee.WithHeartbeat(enabled, c.Heartbeat.Timeout, c.Heartbeat.Marker))
	}
	if c.IsDefined("params", "read_on_open") {
		opts = append(opts, xbee.WithReadParametersOnOpen(c.Params.ReadOnOpen))
	}
	if c.IsDefined("log") {
		l, err := c.Logger()
		if err != nil {
			return nil, err
		}
		opts = append(opts, xbee.WithLogger(l))
	}

	return opts, nil
}

// ConnectionConfig builds the connection configuration of the file. extra options
// are applied after the ones of the file.
func (c *Config) ConnectionConfig(extra ...xbee.ConnOption) (*xbee.ConnectionConfig, error) {
	if strings.TrimSpace(c.Serial.Port) == "" {
		return nil, errors.New("config: serial.port is required")
	}

	opts, err := c.Options()
	if err != nil {
		return nil, err
	}

	return xbee.NewConnectionConfig(strings.TrimSpace(c.Serial.Port), append(opts, extra...)...)
}
