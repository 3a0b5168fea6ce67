package xbee

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/iosample"
)

func TestNode_UnsolicitedIdentification(t *testing.T) {
	conn, radio := openTestConn(t, WithReadParametersOnOpen(false))
	events := collectNodeEvents(conn)

	radio.sendNodeIdentification(nodeIdentification(routerAddr, 0x1234, "ROUTER1", frame.DeviceRouter))

	e := recv(t, events)
	assert.Equal(t, NodeDiscovered, e.ev)
	n := e.node
	assert.Equal(t, routerAddr, n.Address64())
	assert.Equal(t, frame.NewAddress16(0x1234), n.Address16())
	assert.Equal(t, "ROUTER1", n.ID())
	assert.True(t, n.IsRouter())
	assert.True(t, n.Connected())
	assert.False(t, n.LastActivity().IsZero())

	// the node rejoined with a new network address
	radio.sendNodeIdentification(nodeIdentification(routerAddr, 0x4321, "ROUTER1", frame.DeviceRouter))

	e = recv(t, events)
	assert.Equal(t, NodeRediscovered, e.ev)
	assert.Same(t, n, e.node)
	assert.Equal(t, frame.NewAddress16(0x4321), n.Address16())

	got, ok := conn.Node(routerAddr)
	require.True(t, ok)
	assert.Same(t, n, got)
	assert.Len(t, conn.Nodes(), 1)
	assert.Equal(t, int64(1), conn.GetMetrics().NodeCount.Load())
}

func TestNode_DataFromUnknownNode(t *testing.T) {
	conn, radio := openTestConn(t, WithReadParametersOnOpen(false))
	events := collectNodeEvents(conn)

	type message struct {
		node *Node
		data []byte
	}
	msgs := make(chan message, 1)
	conn.AddDataHandler(func(n *Node, data []byte) { msgs <- message{n, data} })

	radio.sendReceivePacket(sensorAddr, frame.NewAddress16(0x7A01), []byte("t=21.5"))

	e := recv(t, events)
	assert.Equal(t, NodeDiscovered, e.ev)
	assert.Equal(t, sensorAddr, e.node.Address64())
	assert.Equal(t, frame.DeviceUnknown, e.node.Role())

	m := recv(t, msgs)
	assert.Same(t, e.node, m.node)
	assert.Equal(t, []byte("t=21.5"), m.data)
}

func TestNode_Ordering(t *testing.T) {
	conn, radio := openTestConn(t, WithReadParametersOnOpen(false))
	events := collectNodeEvents(conn)

	radio.sendReceivePacket(sensorAddr, frame.NewAddress16(0x0001), []byte("a"))
	radio.sendReceivePacket(routerAddr, frame.NewAddress16(0x0002), []byte("b"))
	recv(t, events)
	recv(t, events)

	nodes := conn.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, routerAddr, nodes[0].Address64())
	assert.Equal(t, sensorAddr, nodes[1].Address64())
}

func TestNode_Heartbeat(t *testing.T) {
	conn, radio := openTestConn(t,
		WithReadParametersOnOpen(false),
		WithHeartbeat(true, 100*time.Millisecond, ""),
	)
	events := collectNodeEvents(conn)

	var mu sync.Mutex
	var received [][]byte
	conn.AddDataHandler(func(_ *Node, data []byte) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, data)
	})

	radio.sendReceivePacket(routerAddr, frame.NewAddress16(0x1234), []byte(DefaultHeartbeatMarker))

	e := recv(t, events)
	assert.Equal(t, NodeDiscovered, e.ev)
	n := e.node

	e = recv(t, events)
	assert.Equal(t, NodeDisconnected, e.ev)
	assert.Same(t, n, e.node)
	assert.False(t, n.Connected())
	assert.Equal(t, int64(0), conn.GetMetrics().NodeConnectedCount.Load())

	radio.sendReceivePacket(routerAddr, frame.NewAddress16(0x1234), []byte("hello"))

	e = recv(t, events)
	assert.Equal(t, NodeReconnected, e.ev)
	assert.True(t, n.Connected())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, waitTimeout, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []byte("hello"), received[0], "the heartbeat marker is not delivered as data")
	mu.Unlock()
}

func TestNode_HeartbeatAfterReopen(t *testing.T) {
	radios := make(chan *fakeRadio, 2)
	opener := func(*ConnectionConfig) (Transport, error) {
		host, dev := net.Pipe()
		t.Cleanup(func() { _ = dev.Close() })

		r := newFakeRadio(t, dev)
		r.serve()
		radios <- r

		return host, nil
	}

	conn, _ := newTestConn(t,
		WithTransportOpener(opener),
		WithReadParametersOnOpen(false),
		WithHeartbeat(true, 150*time.Millisecond, ""),
	)
	events := collectNodeEvents(conn)

	require.NoError(t, conn.Open())
	radio := recv(t, radios)
	radio.sendReceivePacket(routerAddr, frame.NewAddress16(0x1234), []byte("hello"))

	e := recv(t, events)
	require.Equal(t, NodeDiscovered, e.ev)
	n := e.node

	require.NoError(t, conn.Close())
	assert.True(t, n.Connected())

	require.NoError(t, conn.Open())
	recv(t, radios)

	e = recv(t, events)
	assert.Equal(t, NodeDisconnected, e.ev)
	assert.Same(t, n, e.node)
	assert.False(t, n.Connected())
}

func TestNode_HeartbeatRefresh(t *testing.T) {
	conn, radio := openTestConn(t,
		WithReadParametersOnOpen(false),
		WithHeartbeat(true, 150*time.Millisecond, "PING"),
	)
	events := collectNodeEvents(conn)

	radio.sendReceivePacket(routerAddr, frame.NewAddress16(0x1234), []byte("PING"))
	assert.Equal(t, NodeDiscovered, recv(t, events).ev)

	for range 4 {
		time.Sleep(50 * time.Millisecond)
		radio.sendReceivePacket(routerAddr, frame.NewAddress16(0x1234), []byte("PING"))
	}

	select {
	case e := <-events:
		t.Fatalf("unexpected %s event", e.ev)
	default:
	}

	assert.Equal(t, NodeDisconnected, recv(t, events).ev)
}

func TestNode_HeartbeatDisabled(t *testing.T) {
	conn, radio := openTestConn(t, WithReadParametersOnOpen(false))

	data := make(chan []byte, 1)
	conn.AddDataHandler(func(_ *Node, d []byte) { data <- d })

	radio.sendReceivePacket(routerAddr, frame.NewAddress16(0x1234), []byte(DefaultHeartbeatMarker))
	assert.Equal(t, []byte(DefaultHeartbeatMarker), recv(t, data))
}

type lineParser struct {
	node  *Node
	lines chan string
}

func (p *lineParser) Parse(data []byte) {
	p.lines <- p.node.Address64().String() + ":" + string(data)
}

func TestNode_DataParser(t *testing.T) {
	lines := make(chan string, 2)
	conn, radio := openTestConn(t,
		WithReadParametersOnOpen(false),
		WithDataParser(func(n *Node) DataParser {
			return &lineParser{node: n, lines: lines}
		}),
	)

	handled := make(chan []byte, 1)
	conn.AddDataHandler(func(_ *Node, d []byte) { handled <- d })

	radio.sendReceivePacket(sensorAddr, frame.NewAddress16(0x0042), []byte("x"))
	assert.Equal(t, sensorAddr.String()+":x", recv(t, lines))

	n, ok := conn.Node(sensorAddr)
	require.True(t, ok)

	// removing the parser restores the handlers
	n.SetDataParser(nil)
	radio.sendReceivePacket(sensorAddr, frame.NewAddress16(0x0042), []byte("y"))
	assert.Equal(t, []byte("y"), recv(t, handled))

	n.SetDataParser(DataParserFunc(func(d []byte) { lines <- "func:" + string(d) }))
	radio.sendReceivePacket(sensorAddr, frame.NewAddress16(0x0042), []byte("z"))
	assert.Equal(t, "func:z", recv(t, lines))
}

func TestNode_IOSample(t *testing.T) {
	conn, radio := openTestConn(t, WithReadParametersOnOpen(false))

	connSamples := make(chan *iosample.Sample, 1)
	conn.AddIOSampleHandler(func(_ *Node, s *iosample.Sample) { connSamples <- s })

	n := conn.AddNode(sensorAddr, frame.UnknownAddress16)
	nodeSamples := make(chan *iosample.Sample, 1)
	n.AddIOSampleHandler(func(s *iosample.Sample) { nodeSamples <- s })

	radio.sendIOSample(sensorAddr, frame.NewAddress16(0x0042), []byte{0x01, 0x00, 0x0C, 0x01, 0x00, 0x04, 0x02, 0x00})

	s := recv(t, connSamples)
	assert.Equal(t, map[string]bool{"DIO2": true, "DIO3": false}, s.Digital)
	assert.InDelta(t, 600.2, s.Analog["AD0"], 0.01)
	assert.Same(t, s, recv(t, nodeSamples))
}

func TestNode_InvalidIOSample(t *testing.T) {
	conn, radio := openTestConn(t, WithReadParametersOnOpen(false))

	radio.sendIOSample(sensorAddr, frame.NewAddress16(0x0042), []byte{0x01, 0x00, 0x01})

	assert.Eventually(t, func() bool {
		return conn.GetMetrics().FrameErrCount.Load() == 1
	}, waitTimeout, 5*time.Millisecond)

	// the node is still recorded
	_, ok := conn.Node(sensorAddr)
	assert.True(t, ok)
}

func TestNode_AddNode(t *testing.T) {
	conn, radio := openTestConn(t, WithReadParametersOnOpen(false))
	events := collectNodeEvents(conn)

	n := conn.AddNode(routerAddr, frame.NewAddress16(0x1234))
	assert.False(t, n.Connected())
	assert.True(t, n.LastActivity().IsZero())
	assert.Same(t, n, conn.AddNode(routerAddr, frame.UnknownAddress16))

	nodeEvents := make(chan NodeEvent, 1)
	n.AddEventHandler(func(ev NodeEvent) { nodeEvents <- ev })

	// an unknown 16-bit address keeps the registered one
	radio.sendReceivePacket(routerAddr, frame.UnknownAddress16, []byte("hi"))

	e := recv(t, events)
	assert.Equal(t, NodeReconnected, e.ev)
	assert.Same(t, n, e.node)
	assert.Equal(t, NodeReconnected, recv(t, nodeEvents))
	assert.True(t, n.Connected())
	assert.Equal(t, frame.NewAddress16(0x1234), n.Address16())
}

func TestNode_RemoteAT(t *testing.T) {
	conn, radio := openTestConn(t, WithReadParametersOnOpen(false))

	n := conn.AddNode(routerAddr, frame.NewAddress16(0x1234))

	data, err := n.AT("VR", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x21, 0xA7}, data)

	frames := radio.receivedFrames()
	require.Len(t, frames, 1)
	f := frames[0]
	assert.Equal(t, frame.TypeRemoteATCommand, f.Type)
	assert.Equal(t, routerAddr, f.Dest64)
	assert.Equal(t, frame.NewAddress16(0x1234), f.Dest16)
	assert.Equal(t, "VR", f.Command)

	_, err = n.AT("ZZ", nil)
	require.ErrorIs(t, err, ErrCommandFailed)
}

func TestNode_Send(t *testing.T) {
	conn, radio := openTestConn(t, WithReadParametersOnOpen(false))

	n := conn.AddNode(sensorAddr, frame.NewAddress16(0x0042))
	require.NoError(t, n.Send([]byte("on")))

	frames := radio.receivedFrames()
	require.Len(t, frames, 1)
	assert.Equal(t, frame.TypeTransmitRequest, frames[0].Type)
	assert.Equal(t, sensorAddr, frames[0].Dest64)
	assert.Equal(t, frame.NewAddress16(0x0042), frames[0].Dest16)
	assert.Equal(t, []byte("on"), frames[0].Data)
}

func TestNode_String(t *testing.T) {
	n := newNode(nil, routerAddr, frame.NewAddress16(0x1234), false)
	assert.Equal(t, "Node(0013a200408b9437, 1234)", n.String())
	assert.Equal(t, frame.DeviceUnknown, n.Role())
	assert.Equal(t, frame.UnknownAddress16, n.Parent16())

	assert.Equal(t, "disconnected", NodeDisconnected.String())
}
