package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/stretchr/testify/require"
)

// check settings object is initialised
func TestInitialiseSettings(t *testing.T) {
	tSettings := NewSettings()

	require.NotNil(t, tSettings.ChainCfgParams)
	require.Equal(t, "mainnet", tSettings.Network)
	require.Equal(t, byte(0x80), tSettings.ChainCfgParams.PrivateKeyID)
	require.Equal(t, DefaultDERMarker, tSettings.Recovery.DERMarker)
	require.Equal(t, []string{"1077616c6c657464657363726970746f72", "1777616c6c6574646573"}, tSettings.Recovery.DescriptorMarkers)
	require.True(t, tSettings.Recovery.Compressed)
	require.True(t, tSettings.Recovery.RedactSecrets)
	require.Equal(t, "bc", tSettings.Address.Bech32HRP)
}

func TestGetChainParams(t *testing.T) {
	tests := []struct {
		name    string
		network string
		expect  *chaincfg.Params
	}{
		{"MainNet", "mainnet", &chaincfg.MainNetParams},
		{"TestNet", "testnet", &chaincfg.TestNetParams},
		{"RegressionNet", "regtest", &chaincfg.RegressionNetParams},
		{"STN", "stn", &chaincfg.StnParams},
		{"Upper case", "MAINNET", &chaincfg.MainNetParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := GetChainParams(tt.network)
			require.NoError(t, err)
			require.Same(t, tt.expect, params)
		})
	}

	_, err := GetChainParams("dogecoin")
	require.ErrorIs(t, err, errors.ErrConfiguration)
}

func TestOverridesFromEnvironment(t *testing.T) {
	t.Setenv("recovery_descriptorMarkers", "10aa| 17bb |")
	t.Setenv("recovery_previewLength", "12")
	t.Setenv("recovery_redactSecrets", "false")
	t.Setenv("address_bech32HRP", "alpha")

	tSettings := NewSettings()
	require.Equal(t, []string{"10aa", "17bb"}, tSettings.Recovery.DescriptorMarkers)
	require.Equal(t, 12, tSettings.Recovery.PreviewLength)
	require.False(t, tSettings.Recovery.RedactSecrets)
	require.Equal(t, "alpha", tSettings.Address.Bech32HRP)
}

// the shipped settings.conf must not weaken redaction or raise the log level for the default context
func TestShippedSettingsKeepRedaction(t *testing.T) {
	t.Setenv("SETTINGS_CONTEXT", "")

	tSettings := NewSettings()
	require.True(t, tSettings.Recovery.RedactSecrets)
	require.Equal(t, "INFO", tSettings.LogLevel)

	content, err := os.ReadFile(filepath.Join("..", "settings.conf"))
	require.NoError(t, err)

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}

		require.False(t, strings.HasPrefix(line, "recovery_redactSecrets."), "context override in %q", line)
		require.False(t, strings.HasPrefix(line, "logLevel.dev"), "dev override in %q", line)
	}
}

func TestDefaultBech32HRP(t *testing.T) {
	tests := []struct {
		network string
		hrp     string
	}{
		{"mainnet", "bc"},
		{"testnet", "tb"},
		{"stn", "tb"},
		{"regtest", "bcrt"},
	}

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			params, err := GetChainParams(tt.network)
			require.NoError(t, err)
			require.Equal(t, tt.hrp, DefaultBech32HRP(params))
		})
	}
}

func TestSetNetwork(t *testing.T) {
	t.Run("prefix follows the network", func(t *testing.T) {
		tSettings := NewSettings()
		require.True(t, tSettings.Address.Bech32HRPFromNetwork)

		require.NoError(t, tSettings.SetNetwork("testnet"))
		require.Same(t, &chaincfg.TestNetParams, tSettings.ChainCfgParams)
		require.Equal(t, "tb", tSettings.Address.Bech32HRP)

		require.NoError(t, tSettings.SetNetwork("regtest"))
		require.Equal(t, "bcrt", tSettings.Address.Bech32HRP)
	})

	t.Run("configured prefix is kept", func(t *testing.T) {
		t.Setenv("address_bech32HRP", "alpha")

		tSettings := NewSettings()
		require.False(t, tSettings.Address.Bech32HRPFromNetwork)

		require.NoError(t, tSettings.SetNetwork("testnet"))
		require.Equal(t, "alpha", tSettings.Address.Bech32HRP)
	})

	t.Run("unknown network", func(t *testing.T) {
		tSettings := NewSettings()

		err := tSettings.SetNetwork("dogecoin")
		require.ErrorIs(t, err, errors.ErrConfiguration)
		require.Equal(t, "mainnet", tSettings.Network)
	})
}
