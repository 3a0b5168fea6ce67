package xbee

import (
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/internal/util"
)

// Parameters are the settings of the local radio read by ReadParameters.
type Parameters struct {
	// PanID is the extended PAN ID (ID) in hex.
	PanID string
	// NodeIdentifier is the node identifier string (NI).
	NodeIdentifier string
	// SourceHigh and SourceLow are the halves of the 64-bit address (SH, SL) in hex.
	SourceHigh string
	SourceLow  string
	// Address64 is the 64-bit address of the radio.
	Address64 frame.Address64
	// NodeDiscoveryTime is the discovery window (NT).
	NodeDiscoveryTime time.Duration
}

// Parameters returns the radio parameters read last.
func (c *Connection) Parameters() Parameters {
	c.paramsMu.RLock()
	defer c.paramsMu.RUnlock()

	return c.params
}

// ReadParameters reads ID, NI, SH, SL and NT from the local radio, one command after
// the other, and stores them.
func (c *Connection) ReadParameters() (Parameters, error) {
	var (
		p      Parameters
		hi, lo uint64
	)

	steps := []struct {
		cmd   string
		apply func(data []byte)
	}{
		{"ID", func(data []byte) { p.PanID = util.HexString(data) }},
		{"NI", func(data []byte) { p.NodeIdentifier = strings.TrimSpace(util.TrimNull(data)) }},
		{"SH", func(data []byte) { p.SourceHigh, hi = util.HexString(data), util.BigEndianUint(data) }},
		{"SL", func(data []byte) { p.SourceLow, lo = util.HexString(data), util.BigEndianUint(data) }},
		// NT is in units of 100 ms
		{"NT", func(data []byte) { p.NodeDiscoveryTime = time.Duration(util.BigEndianUint(data)) * 100 * time.Millisecond }},
	}

	for _, step := range steps {
		data, err := c.AT(step.cmd, nil)
		if err != nil {
			return Parameters{}, fmt.Errorf("read %s: %w", step.cmd, err)
		}
		step.apply(data)
	}
	p.Address64 = frame.NewAddress64(hi<<32 | lo&0xFFFFFFFF)

	c.paramsMu.Lock()
	c.params = p
	c.paramsMu.Unlock()

	c.logger.Info("xbee: parameters read",
		"panID", p.PanID,
		"nodeIdentifier", p.NodeIdentifier,
		"addr64", p.Address64,
		"nodeDiscoveryTime", p.NodeDiscoveryTime,
	)

	return p, nil
}
