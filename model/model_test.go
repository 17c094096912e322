package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordCopiesInput(t *testing.T) {
	key := []byte{0x02, 0xab}
	value := []byte("value")

	r := NewRecord(key, value)
	key[0] = 0xff
	value[0] = 'X'

	require.Equal(t, []byte{0x02, 0xab}, r.Key())
	require.Equal(t, []byte("value"), r.Value())
	require.Equal(t, "02ab", r.KeyHex())
	require.Equal(t, "76616c7565", r.ValueHex())
}

func TestParseTag(t *testing.T) {
	for _, tag := range []Tag{TagDescriptor, TagDescriptorKey, TagDescriptorCKey, TagPublicKey, TagSPK, TagUnrecognized} {
		parsed, ok := ParseTag(tag.String())
		require.True(t, ok)
		require.Equal(t, tag, parsed)
	}

	parsed, ok := ParseTag("bogus")
	require.False(t, ok)
	require.Equal(t, TagUnrecognized, parsed)
}

func TestDescriptor(t *testing.T) {
	tests := []struct {
		name       string
		descriptor Descriptor
		private    bool
		scriptType string
	}{
		{"wpkh public", Descriptor{Text: "wpkh(xpub6ABC/0/*)", EmbeddedKey: "xpub6ABC/0/*", HasEmbeddedKey: true}, false, "wpkh"},
		{"pkh private", Descriptor{Text: "pkh(xprv9s21/0/*)", EmbeddedKey: "xprv9s21/0/*", HasEmbeddedKey: true}, true, "pkh"},
		{"no key", Descriptor{Text: "pkh(xprv9s21"}, false, "pkh"},
		{"other", Descriptor{Text: "tr(abc)"}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.private, tt.descriptor.IsPrivate())
			require.Equal(t, tt.scriptType, tt.descriptor.ScriptType())
		})
	}
}

func TestExtendedKeyAccessors(t *testing.T) {
	k := &ExtendedKey{Private: true, ChildNumber: 0x80000001}
	k.KeyData[32] = 0x01

	require.Len(t, k.PrivateKey(), 32)
	require.Equal(t, byte(0x01), k.PrivateKey()[31])
	require.Nil(t, k.PublicKey())
	require.True(t, k.IsHardened())
	require.Contains(t, k.String(), "private extended key")

	k.Private = false
	require.Nil(t, k.PrivateKey())
	require.Len(t, k.PublicKey(), 33)
}
