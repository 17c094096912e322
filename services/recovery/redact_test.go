package recovery

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestRedactor(t *testing.T) {
	xprv := "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi"

	t.Run("redacting", func(t *testing.T) {
		r := NewRedactor(true, 20)

		require.True(t, r.Enabled())
		require.Equal(t, "KwDi****", r.Secret("KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"))
		require.Equal(t, "****", r.Secret("abc"))
		require.Equal(t, "0123456789abcdefghij...", r.Preview("0123456789abcdefghijklmnop"))
		require.Equal(t, "short", r.Preview("short"))
		require.Equal(t, "pkh(xprv****/0/*)", NewRedactor(true, 0).Text("pkh("+xprv+"/0/*)"))
		require.Equal(t, "wpkh(xpub6ABC)", r.Text("wpkh(xpub6ABC)"))
	})

	t.Run("not redacting", func(t *testing.T) {
		r := NewRedactor(false, 10)

		require.False(t, r.Enabled())
		require.Equal(t, "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn", r.Secret("KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"))
		require.Equal(t, "pkh(xprv9s...", r.Text("pkh("+xprv+")"))
	})

	t.Run("no truncation", func(t *testing.T) {
		r := NewRedactor(false, 0)
		require.Equal(t, xprv, r.Secret(xprv))
		require.Equal(t, "pkh("+xprv+")", r.Text("pkh("+xprv+")"))
	})
}

func TestRedactorPreviewRuneBoundary(t *testing.T) {
	tests := []struct {
		name   string
		length int
		in     string
		want   string
	}{
		{name: "cut inside replacement char", length: 4, in: "abc�def", want: "abc..."},
		{name: "cut after replacement char", length: 6, in: "abc�def", want: "abc�..."},
		{name: "cut inside leading rune", length: 1, in: "étude", want: "..."},
		{name: "ascii", length: 3, in: "abcdef", want: "abc..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRedactor(false, tt.length).Preview(tt.in)

			require.Equal(t, tt.want, got)
			require.True(t, utf8.ValidString(got))
		})
	}
}
