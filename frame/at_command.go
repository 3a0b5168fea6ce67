package frame

import "strings"

// Symbolic names of the AT command mnemonics.
var atCommandNames = map[string]string{
	// addressing
	"DH": "DestinationAddressHigh",
	"DL": "DestinationAddressLow",
	"MY": "NetworkAddress",
	"MP": "ParentNetworkAddress",
	"NC": "RemainingChildren",
	"SH": "SerialNumberHigh",
	"SL": "SerialNumberLow",
	"NI": "NodeIdentifier",
	"SE": "SourceEndpoint",
	"DE": "DestinationEndpoint",
	"CI": "ClusterIdentifier",
	"NP": "MaxRFPayloadBytes",
	"DD": "DeviceTypeIdentifier",

	// networking
	"CH": "OperatingChannel",
	"ID": "ExtendedPanID",
	"OP": "OperatingExtendedPanID",
	"OI": "OperatingPanID",
	"NH": "MaxUnicastHops",
	"BH": "BroadcastHops",
	"NT": "NodeDiscoveryTimeout",
	"NO": "NetworkDiscoveryOptions",
	"SC": "ScanChannels",
	"SD": "ScanDuration",
	"ZS": "StackProfile",
	"NJ": "NodeJoinTime",
	"JV": "ChannelVerification",
	"NW": "NetworkWatchdogTimeout",
	"JN": "JoinNotification",
	"AR": "AggregateRoutingNotification",
	"AI": "AssociationIndication",

	// security
	"EE": "EncryptionEnable",
	"EO": "EncryptionOptions",
	"NK": "NetworkEncryptionKey",
	"KY": "LinkKey",

	// RF interfacing
	"PL": "PowerLevel",
	"PM": "PowerMode",
	"DB": "ReceivedSignalStrength",
	"PP": "PeakPower",

	// serial interfacing
	"AP": "APIEnable",
	"AO": "APIOutputMode",
	"BD": "InterfaceDataRate",
	"NB": "SerialParity",
	"SB": "StopBits",
	"RO": "PacketizationTimeout",

	// I/O
	"D0": "DIO0Configuration",
	"D1": "DIO1Configuration",
	"D2": "DIO2Configuration",
	"D3": "DIO3Configuration",
	"D4": "DIO4Configuration",
	"D5": "DIO5Configuration",
	"D6": "DIO6Configuration",
	"D7": "DIO7Configuration",
	"P0": "DIO10Configuration",
	"P1": "DIO11Configuration",
	"P2": "DIO12Configuration",
	"IR": "IOSampleRate",
	"IC": "IODigitalChangeDetection",
	"LT": "AssocLEDBlinkTime",
	"PR": "PullUpResistor",
	"RP": "RSSIPWMTimer",
	"%V": "SupplyVoltage",
	"V+": "VoltageSupplyMonitoring",
	"TP": "Temperature",
	"IS": "ForceSample",

	// diagnostics
	"VR": "FirmwareVersion",
	"HV": "HardwareVersion",

	// sleep
	"SM": "SleepMode",
	"SN": "SleepPeriods",
	"SP": "SleepPeriod",
	"ST": "TimeBeforeSleep",
	"SO": "SleepOptions",

	// execution
	"AC": "ApplyChanges",
	"WR": "Write",
	"RE": "RestoreDefaults",
	"FR": "SoftwareReset",
	"NR": "NetworkReset",
	"CB": "CommissioningPushbutton",
	"ND": "NodeDiscover",
	"DN": "DestinationNode",
	"CN": "ExitCommandMode",
}

var atCommandMnemonics = func() map[string]string {
	m := make(map[string]string, len(atCommandNames))
	for mnemonic, name := range atCommandNames {
		m[strings.ToLower(name)] = mnemonic
	}

	return m
}()

// LookupATCommand resolves a symbolic command name such as "FirmwareVersion" to its
// mnemonic ("VR"). Names are matched case-insensitively. A known mnemonic resolves
// to itself.
func LookupATCommand(name string) (string, bool) {
	if _, ok := atCommandNames[strings.ToUpper(name)]; ok && len(name) == 2 {
		return strings.ToUpper(name), true
	}

	mnemonic, ok := atCommandMnemonics[strings.ToLower(name)]

	return mnemonic, ok
}

// ATCommandName returns the symbolic name of a mnemonic.
func ATCommandName(mnemonic string) (string, bool) {
	name, ok := atCommandNames[strings.ToUpper(mnemonic)]
	return name, ok
}
