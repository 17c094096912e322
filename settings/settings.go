package settings

import (
	"strings"

	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/bsv-blockchain/walletrecovery/errors"
)

const (
	// DefaultDescriptorMarkers are the hex key prefixes of descriptor records, the 0x10 "walletdescriptor" layout
	// and the shorter 0x17 variant seen in older stores.
	DefaultDescriptorMarkers = "1077616c6c657464657363726970746f72|1777616c6c6574646573"

	// DefaultDERMarker is the SEC1 header in front of a 32 byte secp256k1 scalar.
	DefaultDERMarker = "308201130201010420"
)

func NewSettings() *Settings {
	network := getString("network", "mainnet")

	params, err := GetChainParams(network)
	if err != nil {
		panic(err)
	}

	return &Settings{
		ClientName:     getString("clientName", "walletrecovery"),
		LogLevel:       getString("logLevel", "INFO"),
		LoggerType:     getString("loggerType", "zerolog"),
		Network:        network,
		ChainCfgParams: params,
		Wallet: WalletSettings{
			Store: getString("wallet_store", "wallet.dat"),
		},
		Recovery: RecoverySettings{
			OutputPath:        getString("recovery_output", "privkey.txt"),
			DescriptorMarkers: getMultiString("recovery_descriptorMarkers", DefaultDescriptorMarkers),
			DERMarker:         strings.ToLower(getString("recovery_derMarker", DefaultDERMarker)),
			DERScanPrefix:     getString("recovery_derScanPrefix", ""),
			RedactSecrets:     getBool("recovery_redactSecrets", true),
			PreviewLength:     getInt("recovery_previewLength", 50),
			Compressed:        getBool("recovery_compressed", true),
			InventoryCSV:      getString("recovery_inventoryCSV", ""),
		},
		Address: addressSettings(params),
	}
}

func addressSettings(params *chaincfg.Params) AddressSettings {
	if hrp := getString("address_bech32HRP", ""); hrp != "" {
		return AddressSettings{Bech32HRP: hrp}
	}

	return AddressSettings{Bech32HRP: DefaultBech32HRP(params), Bech32HRPFromNetwork: true}
}

// SetNetwork switches the chain parameters, and the bech32 prefix when it follows the network.
func (s *Settings) SetNetwork(network string) error {
	params, err := GetChainParams(network)
	if err != nil {
		return err
	}

	s.Network = network
	s.ChainCfgParams = params

	if s.Address.Bech32HRPFromNetwork {
		s.Address.Bech32HRP = DefaultBech32HRP(params)
	}

	return nil
}

// DefaultBech32HRP is the segwit address prefix of a network.
func DefaultBech32HRP(params *chaincfg.Params) string {
	switch params {
	case &chaincfg.TestNetParams, &chaincfg.StnParams:
		return "tb"
	case &chaincfg.RegressionNetParams:
		return "bcrt"
	default:
		return "bc"
	}
}

// GetChainParams maps a network name to its chain parameters.
func GetChainParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "mainnet", "main", "":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3", "test":
		return &chaincfg.TestNetParams, nil
	case "regtest", "regression":
		return &chaincfg.RegressionNetParams, nil
	case "stn":
		return &chaincfg.StnParams, nil
	default:
		return nil, errors.NewConfigurationError("unknown network %q", network)
	}
}
