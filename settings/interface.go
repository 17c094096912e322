package settings

import (
	"github.com/bsv-blockchain/go-chaincfg"
)

type WalletSettings struct {
	// Store is a path or URL (sqlite:///path, leveldb:///path, memory://) of the wallet store
	Store string
}

type RecoverySettings struct {
	OutputPath        string
	DescriptorMarkers []string
	DERMarker         string
	DERScanPrefix     string
	RedactSecrets     bool
	PreviewLength     int
	Compressed        bool
	InventoryCSV      string
}

type AddressSettings struct {
	Bech32HRP string

	// Bech32HRPFromNetwork is set when address_bech32HRP is not configured, Bech32HRP then follows the network
	Bech32HRPFromNetwork bool
}

type Settings struct {
	ClientName     string
	LogLevel       string
	LoggerType     string
	Network        string
	ChainCfgParams *chaincfg.Params
	Wallet         WalletSettings
	Recovery       RecoverySettings
	Address        AddressSettings
}
