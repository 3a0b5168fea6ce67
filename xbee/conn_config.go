package xbee

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/logger"
)

// Default values of a ConnectionConfig.
const (
	DefaultBaudRate = 9600
	DefaultAPIMode  = frame.APIMode2

	DefaultCommandTimeout   = 1 * time.Second // transmit status / AT response deadline
	DefaultHeartbeatTimeout = 8 * time.Second
	DefaultHeartbeatMarker  = "```"

	// DefaultNodeDiscoveryTime is the discovery window used when the radio's NT
	// parameter is unknown.
	DefaultNodeDiscoveryTime = 6 * time.Second

	DefaultReadTimeout    = 100 * time.Millisecond // serial read timeout per read loop iteration
	DefaultReadBufferSize = 256
	DefaultEventQueueSize = 64
	DefaultCloseTimeout   = 3 * time.Second
)

// Range limits of a ConnectionConfig.
const (
	MinBaudRate = 1200
	MaxBaudRate = 1000000

	MinCommandTimeout = 10 * time.Millisecond
	MaxCommandTimeout = 60 * time.Second

	MinHeartbeatTimeout = 10 * time.Millisecond
	MaxHeartbeatTimeout = 24 * time.Hour

	MinReadTimeout = 1 * time.Millisecond
	MaxReadTimeout = 10 * time.Second

	MinReadBufferSize = 16
	MaxReadBufferSize = 64 * 1024
	MaxEventQueueSize = 64 * 1024
)

// DataParser consumes the data received from one node. It replaces the data
// handlers of that node when configured with WithDataParser.
type DataParser interface {
	Parse(data []byte)
}

// DataParserFunc adapts a function to DataParser.
type DataParserFunc func(data []byte)

func (f DataParserFunc) Parse(data []byte) { f(data) }

// DataParserFactory creates the DataParser of a node when the node is registered.
type DataParserFactory func(node *Node) DataParser

// ConnectionConfig holds the configuration of a Connection to a local radio.
type ConnectionConfig struct {
	portName string
	baudRate int
	apiMode  frame.APIMode

	// commandTimeout bounds the wait for each response of a command.
	commandTimeout time.Duration

	useHeartbeat     bool
	heartbeatTimeout time.Duration
	heartbeatMarker  string

	dataParser DataParserFactory

	// readParams makes Open read ID, NI, SH, SL and NT from the radio.
	readParams bool

	readTimeout    time.Duration
	readBufferSize int
	eventQueueSize int
	closeTimeout   time.Duration
	frameIDSeed    byte

	opener   TransportOpener
	registry *frame.Registry
	logger   logger.Logger
}

// NewConnectionConfig creates the configuration of a connection to the radio on the
// serial port portName.
//
// portName may be empty when WithTransportOpener supplies another transport.
// opts are functional options applied in order; see With* functions.
func NewConnectionConfig(portName string, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		portName:         portName,
		baudRate:         DefaultBaudRate,
		apiMode:          DefaultAPIMode,
		commandTimeout:   DefaultCommandTimeout,
		heartbeatTimeout: DefaultHeartbeatTimeout,
		heartbeatMarker:  DefaultHeartbeatMarker,
		readParams:       true,
		readTimeout:      DefaultReadTimeout,
		readBufferSize:   DefaultReadBufferSize,
		eventQueueSize:   DefaultEventQueueSize,
		closeTimeout:     DefaultCloseTimeout,
		frameIDSeed:      frame.DefaultFrameIDSeed,
		opener:           OpenSerial,
		logger:           logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// --- Getters ---

// PortName returns the serial port name.
func (cfg *ConnectionConfig) PortName() string { return cfg.portName }

// BaudRate returns the serial baud rate.
func (cfg *ConnectionConfig) BaudRate() int { return cfg.baudRate }

// APIMode returns the API mode of the radio.
func (cfg *ConnectionConfig) APIMode() frame.APIMode { return cfg.apiMode }

// CommandTimeout returns the per-response command deadline.
func (cfg *ConnectionConfig) CommandTimeout() time.Duration { return cfg.commandTimeout }

// UseHeartbeat returns whether node liveness is tracked.
func (cfg *ConnectionConfig) UseHeartbeat() bool { return cfg.useHeartbeat }

// HeartbeatTimeout returns the silence after which a node is disconnected.
func (cfg *ConnectionConfig) HeartbeatTimeout() time.Duration { return cfg.heartbeatTimeout }

// HeartbeatMarker returns the payload of heartbeat packets.
func (cfg *ConnectionConfig) HeartbeatMarker() string { return cfg.heartbeatMarker }

// DataParser returns the data parser factory, or nil.
func (cfg *ConnectionConfig) DataParser() DataParserFactory { return cfg.dataParser }

// ReadParametersOnOpen returns whether Open reads the radio parameters.
func (cfg *ConnectionConfig) ReadParametersOnOpen() bool { return cfg.readParams }

// ReadTimeout returns the serial read timeout.
func (cfg *ConnectionConfig) ReadTimeout() time.Duration { return cfg.readTimeout }

// ReadBufferSize returns the size of the read loop buffer.
func (cfg *ConnectionConfig) ReadBufferSize() int { return cfg.readBufferSize }

// EventQueueSize returns the initial capacity of the event queue.
func (cfg *ConnectionConfig) EventQueueSize() int { return cfg.eventQueueSize }

// CloseTimeout returns how long Close waits for the connection goroutines.
func (cfg *ConnectionConfig) CloseTimeout() time.Duration { return cfg.closeTimeout }

// FrameIDSeed returns the initial frame id counter.
func (cfg *ConnectionConfig) FrameIDSeed() byte { return cfg.frameIDSeed }

// Registry returns the frame parser registry, or nil for the default registry.
func (cfg *ConnectionConfig) Registry() *frame.Registry { return cfg.registry }

// GetLogger returns the configured logger.
func (cfg *ConnectionConfig) GetLogger() logger.Logger { return cfg.logger }

// --- ConnOption ---

// ConnOption is a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc func(*ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error { return f(cfg) }

// WithBaudRate sets the serial baud rate. Default is 9600.
func WithBaudRate(rate int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if rate < MinBaudRate || rate > MaxBaudRate {
			return fmt.Errorf("xbee: baud rate %d out of range [%d, %d]", rate, MinBaudRate, MaxBaudRate)
		}
		cfg.baudRate = rate

		return nil
	})
}

// WithAPIMode sets the API mode the radio is configured with (AP parameter).
// Default is API mode 2, escaped.
func WithAPIMode(mode frame.APIMode) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if mode != frame.APIMode1 && mode != frame.APIMode2 {
			return fmt.Errorf("xbee: unsupported API mode %d", mode)
		}
		cfg.apiMode = mode

		return nil
	})
}

// WithCommandTimeout sets the deadline for each command response.
func WithCommandTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinCommandTimeout || d > MaxCommandTimeout {
			return fmt.Errorf("xbee: command timeout %v out of range [%v, %v]", d, MinCommandTimeout, MaxCommandTimeout)
		}
		cfg.commandTimeout = d

		return nil
	})
}

// WithHeartbeat enables or disables node liveness tracking.
//
// When enabled, a node that sends nothing for timeout is marked disconnected, and
// received packets whose payload equals marker are consumed as heartbeats. A zero
// timeout or an empty marker keeps the current value.
func WithHeartbeat(enabled bool, timeout time.Duration, marker string) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if timeout != 0 {
			if timeout < MinHeartbeatTimeout || timeout > MaxHeartbeatTimeout {
				return fmt.Errorf("xbee: heartbeat timeout %v out of range [%v, %v]", timeout, MinHeartbeatTimeout, MaxHeartbeatTimeout)
			}
			cfg.heartbeatTimeout = timeout
		}
		if marker != "" {
			cfg.heartbeatMarker = marker
		}
		cfg.useHeartbeat = enabled

		return nil
	})
}

// WithDataParser routes the data received from each node to the parser created
// for it by factory, instead of the data handlers.
func WithDataParser(factory DataParserFactory) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		cfg.dataParser = factory
		return nil
	})
}

// WithReadParametersOnOpen controls whether Open reads the radio parameters.
// Enabled by default.
func WithReadParametersOnOpen(enabled bool) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		cfg.readParams = enabled
		return nil
	})
}

// WithReadTimeout sets the serial read timeout, which bounds how long the read loop
// takes to notice Close.
func WithReadTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinReadTimeout || d > MaxReadTimeout {
			return fmt.Errorf("xbee: read timeout %v out of range [%v, %v]", d, MinReadTimeout, MaxReadTimeout)
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithReadBufferSize sets the size of the buffer used by the read loop.
func WithReadBufferSize(size int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if size < MinReadBufferSize || size > MaxReadBufferSize {
			return fmt.Errorf("xbee: read buffer size %d out of range [%d, %d]", size, MinReadBufferSize, MaxReadBufferSize)
		}
		cfg.readBufferSize = size

		return nil
	})
}

// WithEventQueueSize sets the initial capacity of the queue between the read loop
// and the event handlers. The queue grows as needed.
func WithEventQueueSize(size int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if size < 1 || size > MaxEventQueueSize {
			return fmt.Errorf("xbee: event queue size %d out of range [1, %d]", size, MaxEventQueueSize)
		}
		cfg.eventQueueSize = size

		return nil
	})
}

// WithCloseTimeout sets how long Close waits for the connection goroutines to end.
func WithCloseTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("xbee: close timeout must be positive")
		}
		cfg.closeTimeout = d

		return nil
	})
}

// WithFrameIDSeed sets the initial value of the frame id counter. The first
// command uses seed+1.
func WithFrameIDSeed(seed byte) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		cfg.frameIDSeed = seed
		return nil
	})
}

// WithTransportOpener replaces the serial port with another transport.
func WithTransportOpener(opener TransportOpener) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if opener == nil {
			return errors.New("xbee: transport opener must not be nil")
		}
		cfg.opener = opener

		return nil
	})
}

// WithRegistry sets the frame parser registry, e.g. one extended with parsers for
// frame types the default registry does not know.
func WithRegistry(r *frame.Registry) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if r == nil {
			return errors.New("xbee: registry must not be nil")
		}
		cfg.registry = r

		return nil
	})
}

// WithLogger sets the logger for the connection.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l == nil {
			return errors.New("xbee: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
