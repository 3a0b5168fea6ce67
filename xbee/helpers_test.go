package xbee

import (
	"context"
	"encoding/binary"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/logger"
)

const waitTimeout = 2 * time.Second

var testLogger logger.Logger

func TestMain(m *testing.M) {
	level := logger.ErrorLevel
	if name := os.Getenv("LOG_LEVEL"); name != "" {
		if lv, err := logger.ParseLevel(name); err == nil {
			level = lv
		}
	}
	testLogger = logger.NewSlog(level, false)

	os.Exit(m.Run())
}

var (
	localAddr64 = frame.NewAddress64(0x0013A20040000001)
	routerAddr  = frame.NewAddress64(0x0013A200408B9437)
	sensorAddr  = frame.NewAddress64(0x0013A20040A1B2C3)
)

// hostFrame is a frame written by the connection, as seen by the fake radio.
type hostFrame struct {
	Type    frame.FrameType
	FrameID byte
	Dest64  frame.Address64
	Dest16  frame.Address16
	Command string
	Param   []byte
	Data    []byte
}

func decodeHostFrame(t testing.TB, u *frame.UnsupportedFrame) hostFrame {
	f := hostFrame{Type: u.Type, FrameID: u.Data[0]}
	d := u.Data[1:]

	switch u.Type {
	case frame.TypeATCommand:
		f.Command, f.Param = string(d[:2]), d[2:]
	case frame.TypeRemoteATCommand:
		copy(f.Dest64[:], d[0:8])
		copy(f.Dest16[:], d[8:10])
		f.Command, f.Param = string(d[11:13]), d[13:]
	case frame.TypeTransmitRequest:
		copy(f.Dest64[:], d[0:8])
		copy(f.Dest16[:], d[8:10])
		f.Data = d[12:]
	default:
		t.Errorf("unexpected host frame type %s", u.Type)
	}

	return f
}

// fakeRadio is the radio end of a net.Pipe transport. It decodes the frames written
// by the connection and writes API frames back.
type fakeRadio struct {
	t      testing.TB
	conn   net.Conn
	frames chan hostFrame

	writeMu sync.Mutex

	mu        sync.Mutex
	received  []hostFrame
	registers map[string][]byte
	// transmitStatus decides the delivery status of the n-th transmit request.
	transmitStatus func(n int) frame.DeliveryStatus
	transmits      int
	// hooks override the default answer of an AT command. A hook that returns
	// false falls back to the default answer.
	hooks map[string]func(f hostFrame) bool
}

func newFakeRadio(t testing.TB, conn net.Conn) *fakeRadio {
	r := &fakeRadio{
		t:      t,
		conn:   conn,
		frames: make(chan hostFrame, 64),
		registers: map[string][]byte{
			"ID": {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x12, 0x34},
			"NI": []byte("COORD"),
			"SH": {0x00, 0x13, 0xA2, 0x00},
			"SL": {0x40, 0x00, 0x00, 0x01},
			"NT": {0x00, 0x3C},
			"VR": {0x21, 0xA7},
			"D1": {0x00},
		},
		hooks: make(map[string]func(f hostFrame) bool),
	}

	go r.readLoop()

	return r
}

func (r *fakeRadio) readLoop() {
	asm := frame.NewStreamAssembler(frame.APIMode2)
	buf := make([]byte, 256)
	for {
		n, err := r.conn.Read(buf)
		asm.FeedFunc(buf[:n], func(pf frame.ParsedFrame) {
			u, ok := pf.(*frame.UnsupportedFrame)
			if !ok {
				r.t.Errorf("radio received a %s frame", pf.FrameType())
				return
			}
			f := decodeHostFrame(r.t, u)

			r.mu.Lock()
			r.received = append(r.received, f)
			r.mu.Unlock()

			r.frames <- f
		})
		if err != nil {
			close(r.frames)
			return
		}
	}
}

// serve answers every received frame with the default answers and hooks.
func (r *fakeRadio) serve() {
	go func() {
		for f := range r.frames {
			r.answer(f)
		}
	}()
}

func (r *fakeRadio) setRegister(cmd string, value []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registers[cmd] = value
}

func (r *fakeRadio) register(cmd string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.registers[cmd]

	return v, ok
}

func (r *fakeRadio) hook(cmd string, fn func(f hostFrame) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[cmd] = fn
}

func (r *fakeRadio) receivedFrames() []hostFrame {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]hostFrame(nil), r.received...)
}

func (r *fakeRadio) answer(f hostFrame) {
	if f.FrameID == frame.NoResponseFrameID {
		return
	}

	switch f.Type {
	case frame.TypeTransmitRequest:
		r.mu.Lock()
		r.transmits++
		n, statusFn := r.transmits, r.transmitStatus
		r.mu.Unlock()

		status := frame.DeliverySuccess
		if statusFn != nil {
			status = statusFn(n)
		}
		r.sendTransmitStatus(f.FrameID, status)

	case frame.TypeATCommand, frame.TypeRemoteATCommand:
		r.mu.Lock()
		hook := r.hooks[f.Command]
		r.mu.Unlock()
		if hook != nil && hook(f) {
			return
		}

		status, data := r.execute(f)
		if f.Type == frame.TypeATCommand {
			r.sendATResponse(f.FrameID, f.Command, status, data)
		} else {
			r.sendRemoteATResponse(f.FrameID, f.Dest64, f.Command, status, data)
		}
	}
}

// execute applies an AT command to the register file.
func (r *fakeRadio) execute(f hostFrame) (frame.CommandStatus, []byte) {
	if len(f.Param) > 0 {
		r.setRegister(f.Command, append([]byte(nil), f.Param...))
		return frame.CommandOK, nil
	}

	v, ok := r.register(f.Command)
	if !ok {
		return frame.CommandInvalidCommand, nil
	}

	return frame.CommandOK, v
}

// next returns the next frame written by the connection.
func (r *fakeRadio) next() hostFrame {
	r.t.Helper()

	select {
	case f, ok := <-r.frames:
		require.True(r.t, ok, "transport closed")
		return f
	case <-time.After(waitTimeout):
		r.t.Fatal("no frame received from the connection")
		return hostFrame{}
	}
}

// expectNone asserts that the connection writes nothing for d.
func (r *fakeRadio) expectNone(d time.Duration) {
	r.t.Helper()

	select {
	case f := <-r.frames:
		r.t.Fatalf("unexpected %s frame %d", f.Type, f.FrameID)
	case <-time.After(d):
	}
}

func (r *fakeRadio) write(data []byte) {
	wire, err := frame.EncodePayload(data, frame.APIMode2)
	require.NoError(r.t, err)
	r.writeRaw(wire)
}

func (r *fakeRadio) writeRaw(wire []byte) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	_, _ = r.conn.Write(wire)
}

func (r *fakeRadio) sendATResponse(id byte, cmd string, status frame.CommandStatus, data []byte) {
	b := []byte{byte(frame.TypeATCommandResponse), id, cmd[0], cmd[1], byte(status)}
	r.write(append(b, data...))
}

func (r *fakeRadio) sendRemoteATResponse(id byte, src frame.Address64, cmd string, status frame.CommandStatus, data []byte) {
	b := []byte{byte(frame.TypeRemoteCommandResponse), id, 0x56, 0x78}
	b = append(b, src[:]...)
	b = append(b, cmd[0], cmd[1], byte(status))
	r.write(append(b, data...))
}

func (r *fakeRadio) sendTransmitStatus(id byte, status frame.DeliveryStatus) {
	r.write([]byte{byte(frame.TypeTransmitStatus), id, 0xFF, 0xFE, 0x00, byte(status), 0x00})
}

func (r *fakeRadio) sendModemStatus(status frame.ModemStatus) {
	r.write([]byte{byte(frame.TypeModemStatus), byte(status)})
}

func (r *fakeRadio) sendReceivePacket(src64 frame.Address64, src16 frame.Address16, data []byte) {
	b := []byte{byte(frame.TypeReceivePacket)}
	b = append(b, src64[:]...)
	b = append(b, src16[:]...)
	b = append(b, byte(frame.ReceiveAcknowledged))
	r.write(append(b, data...))
}

func (r *fakeRadio) sendIOSample(src64 frame.Address64, src16 frame.Address16, sample []byte) {
	b := []byte{byte(frame.TypeIODataSampleRx)}
	b = append(b, src64[:]...)
	b = append(b, src16[:]...)
	b = append(b, byte(frame.ReceiveAcknowledged))
	r.write(append(b, sample...))
}

// sendNodeIdentification announces the node described by payload. The node is
// also the sender of the frame.
func (r *fakeRadio) sendNodeIdentification(payload []byte) {
	b := []byte{byte(frame.TypeNodeIdentification)}
	b = append(b, payload[2:10]...)
	b = append(b, payload[0:2]...)
	b = append(b, byte(frame.ReceiveAcknowledged))
	r.write(append(b, payload...))
}

// nodeIdentification builds a node identification record.
func nodeIdentification(addr64 frame.Address64, addr16 uint16, id string, role frame.DeviceType) []byte {
	b := binary.BigEndian.AppendUint16(nil, addr16)
	b = append(b, addr64[:]...)
	b = append(b, id...)
	b = append(b, 0x00, 0xFF, 0xFE, byte(role), byte(frame.SourceEventPushbutton))

	return append(b, 0xC1, 0x05, 0x10, 0x1E)
}

// newTestConn creates a connection whose transport is a net.Pipe to a fake radio.
// The connection is not opened.
func newTestConn(t *testing.T, opts ...ConnOption) (*Connection, *fakeRadio) {
	t.Helper()

	host, dev := net.Pipe()
	radio := newFakeRadio(t, dev)

	base := []ConnOption{
		WithTransportOpener(func(*ConnectionConfig) (Transport, error) { return host, nil }),
		WithCommandTimeout(500 * time.Millisecond),
		WithCloseTimeout(time.Second),
		WithLogger(testLogger),
	}
	cfg, err := NewConnectionConfig("pipe", append(base, opts...)...)
	require.NoError(t, err)

	conn, err := NewConnection(context.Background(), cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		_ = dev.Close()
	})

	return conn, radio
}

// openTestConn opens a connection to a fake radio that answers every command.
func openTestConn(t *testing.T, opts ...ConnOption) (*Connection, *fakeRadio) {
	t.Helper()

	conn, radio := newTestConn(t, opts...)
	radio.serve()
	require.NoError(t, conn.Open())

	return conn, radio
}

func recv[T any](t testing.TB, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(waitTimeout):
		t.Fatal("timeout waiting for event")
		var zero T

		return zero
	}
}

type nodeEvent struct {
	node *Node
	ev   NodeEvent
}

func collectNodeEvents(conn *Connection) <-chan nodeEvent {
	ch := make(chan nodeEvent, 32)
	conn.AddNodeEventHandler(func(node *Node, ev NodeEvent) {
		ch <- nodeEvent{node: node, ev: ev}
	})

	return ch
}
