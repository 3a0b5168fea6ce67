package frame

import "fmt"

// ModemStatus is the status reported by a Modem Status frame.
type ModemStatus byte

// Modem status values.
const (
	ModemHardwareReset           ModemStatus = 0x00
	ModemWatchdogReset           ModemStatus = 0x01
	ModemJoinedNetwork           ModemStatus = 0x02
	ModemDisassociated           ModemStatus = 0x03
	ModemCoordinatorStarted      ModemStatus = 0x06
	ModemSecurityKeyUpdated      ModemStatus = 0x07
	ModemVoltageLimitExceeded    ModemStatus = 0x0D
	ModemConfigChangedDuringJoin ModemStatus = 0x11
	ModemStackError              ModemStatus = 0x80
)

var modemStatusNames = map[ModemStatus]string{
	ModemHardwareReset:           "HardwareReset",
	ModemWatchdogReset:           "WatchdogReset",
	ModemJoinedNetwork:           "JoinedNetwork",
	ModemDisassociated:           "Disassociated",
	ModemCoordinatorStarted:      "CoordinatorStarted",
	ModemSecurityKeyUpdated:      "SecurityKeyUpdated",
	ModemVoltageLimitExceeded:    "VoltageLimitExceeded",
	ModemConfigChangedDuringJoin: "ConfigChangedDuringJoin",
	ModemStackError:              "StackError",
}

func (s ModemStatus) String() string {
	if name, ok := modemStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("ModemStatus(0x%02X)", byte(s))
}

// CommandStatus is the status of an AT or remote AT command response.
type CommandStatus byte

// Command status values.
const (
	CommandOK                   CommandStatus = 0x00
	CommandError                CommandStatus = 0x01
	CommandInvalidCommand       CommandStatus = 0x02
	CommandInvalidParameter     CommandStatus = 0x03
	CommandRemoteTransmitFailed CommandStatus = 0x04
)

func (s CommandStatus) String() string {
	switch s {
	case CommandOK:
		return "OK"
	case CommandError:
		return "Error"
	case CommandInvalidCommand:
		return "InvalidCommand"
	case CommandInvalidParameter:
		return "InvalidParameter"
	case CommandRemoteTransmitFailed:
		return "RemoteTransmitFailed"
	default:
		return fmt.Sprintf("CommandStatus(0x%02X)", byte(s))
	}
}

// DeliveryStatus is the delivery status of a Transmit Status frame.
type DeliveryStatus byte

// Delivery status values.
const (
	DeliverySuccess                    DeliveryStatus = 0x00
	DeliveryMACAckFailure              DeliveryStatus = 0x01
	DeliveryCCAFailure                 DeliveryStatus = 0x02
	DeliveryInvalidDestinationEndpoint DeliveryStatus = 0x15
	DeliveryNetworkAckFailure          DeliveryStatus = 0x21
	DeliveryNotJoinedToNetwork         DeliveryStatus = 0x22
	DeliverySelfAddressed              DeliveryStatus = 0x23
	DeliveryAddressNotFound            DeliveryStatus = 0x24
	DeliveryRouteNotFound              DeliveryStatus = 0x25
	DeliveryBroadcastSourceFailed      DeliveryStatus = 0x26
	DeliveryInvalidBindingTableIndex   DeliveryStatus = 0x2B
	DeliveryResourceError              DeliveryStatus = 0x2C
	DeliveryBroadcastWithAPS           DeliveryStatus = 0x2D
	DeliveryUnicastWithAPSAndEE0       DeliveryStatus = 0x2E
	DeliveryResourceErrorNoBuffers     DeliveryStatus = 0x32
	DeliveryPayloadTooLarge            DeliveryStatus = 0x74
	DeliveryIndirectMessageUnrequested DeliveryStatus = 0x75
)

var deliveryStatusNames = map[DeliveryStatus]string{
	DeliverySuccess:                    "Success",
	DeliveryMACAckFailure:              "MACAckFailure",
	DeliveryCCAFailure:                 "CCAFailure",
	DeliveryInvalidDestinationEndpoint: "InvalidDestinationEndpoint",
	DeliveryNetworkAckFailure:          "NetworkAckFailure",
	DeliveryNotJoinedToNetwork:         "NotJoinedToNetwork",
	DeliverySelfAddressed:              "SelfAddressed",
	DeliveryAddressNotFound:            "AddressNotFound",
	DeliveryRouteNotFound:              "RouteNotFound",
	DeliveryBroadcastSourceFailed:      "BroadcastSourceFailed",
	DeliveryInvalidBindingTableIndex:   "InvalidBindingTableIndex",
	DeliveryResourceError:              "ResourceError",
	DeliveryBroadcastWithAPS:           "BroadcastWithAPS",
	DeliveryUnicastWithAPSAndEE0:       "UnicastWithAPSAndEE0",
	DeliveryResourceErrorNoBuffers:     "ResourceErrorNoBuffers",
	DeliveryPayloadTooLarge:            "PayloadTooLarge",
	DeliveryIndirectMessageUnrequested: "IndirectMessageUnrequested",
}

func (s DeliveryStatus) String() string {
	if name, ok := deliveryStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("DeliveryStatus(0x%02X)", byte(s))
}

// DiscoveryStatus is the route discovery overhead reported by a Transmit Status frame.
type DiscoveryStatus byte

// Discovery status values.
const (
	DiscoveryNoOverhead      DiscoveryStatus = 0x00
	DiscoveryAddress         DiscoveryStatus = 0x01
	DiscoveryRoute           DiscoveryStatus = 0x02
	DiscoveryAddressAndRoute DiscoveryStatus = 0x03
	DiscoveryExtendedTimeout DiscoveryStatus = 0x40
)

func (s DiscoveryStatus) String() string {
	switch s {
	case DiscoveryNoOverhead:
		return "NoOverhead"
	case DiscoveryAddress:
		return "Address"
	case DiscoveryRoute:
		return "Route"
	case DiscoveryAddressAndRoute:
		return "AddressAndRoute"
	case DiscoveryExtendedTimeout:
		return "ExtendedTimeout"
	default:
		return fmt.Sprintf("DiscoveryStatus(0x%02X)", byte(s))
	}
}

// DeviceType is the ZigBee role of a radio, as reported by node identification.
type DeviceType byte

// Device types. DeviceUnknown is used before a node has identified itself.
const (
	DeviceCoordinator DeviceType = 0x00
	DeviceRouter      DeviceType = 0x01
	DeviceEndDevice   DeviceType = 0x02
	DeviceUnknown     DeviceType = 0xFF
)

func (t DeviceType) String() string {
	switch t {
	case DeviceCoordinator:
		return "Coordinator"
	case DeviceRouter:
		return "Router"
	case DeviceEndDevice:
		return "EndDevice"
	default:
		return "Unknown"
	}
}

// SourceEvent is the reason a node identification frame was sent.
type SourceEvent byte

// Source events.
const (
	SourceEventPushbutton SourceEvent = 0x01
	SourceEventJoined     SourceEvent = 0x02
	SourceEventPowerCycle SourceEvent = 0x03
)

func (e SourceEvent) String() string {
	switch e {
	case SourceEventPushbutton:
		return "Pushbutton"
	case SourceEventJoined:
		return "Joined"
	case SourceEventPowerCycle:
		return "PowerCycle"
	default:
		return fmt.Sprintf("SourceEvent(0x%02X)", byte(e))
	}
}

// ReceiveOptions is the option bit field of receive and sample frames.
type ReceiveOptions byte

// Receive option bits.
const (
	ReceiveAcknowledged ReceiveOptions = 0x01
	ReceiveBroadcast    ReceiveOptions = 0x02
	ReceiveEncrypted    ReceiveOptions = 0x20
	ReceiveEndDevice    ReceiveOptions = 0x40
)

// Acknowledged reports whether the packet was acknowledged.
func (o ReceiveOptions) Acknowledged() bool { return o&ReceiveAcknowledged != 0 }

// Broadcast reports whether the packet was a broadcast.
func (o ReceiveOptions) Broadcast() bool { return o&ReceiveBroadcast != 0 }
