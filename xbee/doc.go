// Package xbee talks to a ZigBee radio in API mode over a serial link.
//
// A Connection owns the transport and three goroutines:
//
//   - the read loop reassembles frames from the byte stream and dispatches them,
//   - the command queue loop writes one command at a time and waits for its
//     response before writing the next,
//   - the event loop runs the registered handlers in the order their events
//     occurred.
//
// Responses are matched to commands by frame type and frame id. Every other frame
// is unsolicited: node identification, receive and I/O sample frames update the
// node registry and raise events, and modem status frames go to the modem status
// handlers.
//
// Example:
//
//	cfg, _ := xbee.NewConnectionConfig("/dev/ttyUSB0", xbee.WithHeartbeat(true, 0, ""))
//	conn, _ := xbee.NewConnection(context.Background(), cfg)
//	conn.AddDataHandler(func(node *xbee.Node, data []byte) {
//	    fmt.Printf("%s: %q\n", node, data)
//	})
//	if err := conn.Open(); err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	nodes, _ := conn.Discover()
//	for _, n := range nodes {
//	    _ = n.Send([]byte("hello"))
//	}
package xbee
