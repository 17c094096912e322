package recovery

import (
	"encoding/hex"
	"testing"

	"github.com/bsv-blockchain/walletrecovery/model"
	"github.com/bsv-blockchain/walletrecovery/settings"
	"github.com/stretchr/testify/require"
)

func hexRecord(t *testing.T, keyHex string, value []byte) model.Record {
	t.Helper()

	key, err := hex.DecodeString(keyHex)
	require.NoError(t, err)

	return model.NewRecord(key, value)
}

func defaultClassifier() *Classifier {
	return NewClassifier(DefaultMarkerTable("1077616c6c657464657363726970746f72", "1777616c6c6574646573")...)
}

func TestClassify(t *testing.T) {
	pub33 := "02" + "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

	tests := []struct {
		name   string
		keyHex string
		tag    model.Tag
	}{
		{"descriptor", "1077616c6c657464657363726970746f72" + "aabb", model.TagDescriptor},
		{"descriptor upper case variant", "1777616C6C6574646573" + "63", model.TagDescriptor},
		{"descriptor key", MarkerDescriptorKey + "21", model.TagDescriptorKey},
		{"descriptor ckey", MarkerDescriptorCKey + "21", model.TagDescriptorCKey},
		{"public key 33", pub33, model.TagPublicKey},
		{"public key 34", pub33 + "01", model.TagPublicKey},
		{"public key 03", "03" + pub33[2:], model.TagPublicKey},
		{"wrong prefix byte", "04" + pub33[2:], model.TagUnrecognized},
		{"wrong length", pub33[:64], model.TagUnrecognized},
		{"spk", hex.EncodeToString([]byte("\x11activeexternalspk")) + "00", model.TagSPK},
		{"0x11 without spk", hex.EncodeToString([]byte("\x11activeexternalxyz")), model.TagUnrecognized},
		{"name record", hex.EncodeToString([]byte("\x04name")), model.TagUnrecognized},
		{"empty key", "", model.TagUnrecognized},
	}

	c := defaultClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := hexRecord(t, tt.keyHex, []byte{0x01})
			require.Equal(t, tt.tag, c.Classify(r))

			// classification never depends on anything but the record
			for i := 0; i < 3; i++ {
				require.Equal(t, tt.tag, c.Classify(r))
			}
		})
	}
}

func TestClassifierMarkerOrder(t *testing.T) {
	c := NewClassifier(
		Marker{Prefix: "10", Tag: model.TagSPK},
		Marker{Prefix: "1077616c%", Tag: model.TagDescriptor},
		Marker{Prefix: "zz", Tag: model.TagPublicKey},
		Marker{Prefix: "", Tag: model.TagPublicKey},
	)

	markers := c.Markers()
	require.Len(t, markers, 2)
	require.Equal(t, "1077616c", string(markers[0].Prefix))

	require.Equal(t, model.TagDescriptor, c.Classify(hexRecord(t, "1077616c6c", nil)))
	require.Equal(t, model.TagSPK, c.Classify(hexRecord(t, "1099", nil)))
}

func TestClassifierFromSettings(t *testing.T) {
	t.Setenv("recovery_descriptorMarkers", "abcd")

	tSettings := settings.NewSettings()
	c := NewClassifier(DefaultMarkerTable(tSettings.Recovery.DescriptorMarkers...)...)

	require.Equal(t, model.TagDescriptor, c.Classify(hexRecord(t, "abcdef", nil)))
	require.Equal(t, model.TagUnrecognized, c.Classify(hexRecord(t, "1077616c6c657464657363726970746f72", nil)))
	require.Equal(t, model.TagDescriptorKey, c.Classify(hexRecord(t, MarkerDescriptorKey, nil)))
}
