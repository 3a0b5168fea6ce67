package frame

import (
	"sync"

	"github.com/arloliu/go-xbee/internal/util"
)

// ParserFunc decodes the frame data following the frame type byte. The data is a
// copy owned by the parser, which may keep it in the returned frame.
type ParserFunc func(data []byte) (ParsedFrame, error)

// Registry maps frame types to parsers.
//
// Registry is safe for concurrent use. Frame types without a parser are returned
// as *UnsupportedFrame.
type Registry struct {
	mu      sync.RWMutex
	parsers map[FrameType]ParserFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[FrameType]ParserFunc)}
}

// DefaultRegistry creates a registry with parsers for every frame type the stack
// consumes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TypeModemStatus, parseModemStatus)
	r.Register(TypeNodeIdentification, parseNodeIdentificationFrame)
	r.Register(TypeATCommandResponse, parseATCommandResponse)
	r.Register(TypeRemoteCommandResponse, parseRemoteCommandResponse)
	r.Register(TypeTransmitStatus, parseTransmitStatus)
	r.Register(TypeReceivePacket, parseReceivePacket)
	r.Register(TypeIODataSampleRx, parseIOSampleRx)

	return r
}

// Register sets the parser for ft, replacing any existing one.
// A nil fn removes the parser.
func (r *Registry) Register(ft FrameType, fn ParserFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fn == nil {
		delete(r.parsers, ft)
		return
	}
	r.parsers[ft] = fn
}

// Parse decodes frame data, whose first byte is the frame type.
//
// It returns ErrEmptyFrame for empty data, and a wrapped ErrShortFrame when the data
// is shorter than the layout of its frame type.
func (r *Registry) Parse(data []byte) (ParsedFrame, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFrame
	}

	ft := FrameType(data[0])
	data = util.CloneSlice(data, 0)

	r.mu.RLock()
	fn, ok := r.parsers[ft]
	r.mu.RUnlock()

	if !ok {
		return &UnsupportedFrame{Type: ft, Data: data[1:]}, nil
	}

	return fn(data[1:])
}

func parseModemStatus(data []byte) (ParsedFrame, error) {
	r := newReader(data)
	f := &ModemStatusFrame{Status: ModemStatus(r.byte())}
	if r.err != nil {
		return nil, r.err
	}

	return f, nil
}

func parseNodeIdentificationFrame(data []byte) (ParsedFrame, error) {
	r := newReader(data)
	f := &NodeIdentificationFrame{
		Sender64:       r.addr64(),
		Sender16:       r.addr16(),
		ReceiveOptions: ReceiveOptions(r.byte()),
		Payload:        r.rest(),
	}
	if r.err != nil {
		return nil, r.err
	}

	ni, err := ParseNodeIdentification(f.Payload)
	if err != nil {
		return nil, err
	}
	f.Node = ni

	return f, nil
}

func parseATCommandResponse(data []byte) (ParsedFrame, error) {
	r := newReader(data)
	f := &ATCommandResponse{
		ID:      r.byte(),
		Command: r.fixedString(2),
		Status:  CommandStatus(r.byte()),
		Data:    r.rest(),
	}
	if r.err != nil {
		return nil, r.err
	}

	return f, nil
}

func parseRemoteCommandResponse(data []byte) (ParsedFrame, error) {
	r := newReader(data)
	f := &RemoteCommandResponse{
		ID:       r.byte(),
		Remote16: r.addr16(),
		Remote64: r.addr64(),
		Command:  r.fixedString(2),
		Status:   CommandStatus(r.byte()),
		Data:     r.rest(),
	}
	if r.err != nil {
		return nil, r.err
	}

	return f, nil
}

func parseTransmitStatus(data []byte) (ParsedFrame, error) {
	r := newReader(data)
	f := &TransmitStatus{
		ID:              r.byte(),
		Remote16:        r.addr16(),
		RetryCount:      r.byte(),
		DeliveryStatus:  DeliveryStatus(r.byte()),
		DiscoveryStatus: DiscoveryStatus(r.byte()),
	}
	if r.err != nil {
		return nil, r.err
	}

	return f, nil
}

func parseReceivePacket(data []byte) (ParsedFrame, error) {
	r := newReader(data)
	f := &ReceivePacket{
		Remote64:       r.addr64(),
		Remote16:       r.addr16(),
		ReceiveOptions: ReceiveOptions(r.byte()),
		Data:           r.rest(),
	}
	if r.err != nil {
		return nil, r.err
	}

	return f, nil
}

func parseIOSampleRx(data []byte) (ParsedFrame, error) {
	r := newReader(data)
	f := &IOSampleRx{
		Remote64:       r.addr64(),
		Remote16:       r.addr16(),
		ReceiveOptions: ReceiveOptions(r.byte()),
		Sample:         r.rest(),
	}
	if r.err != nil {
		return nil, r.err
	}

	return f, nil
}
