package recovery

import (
	"strings"
	"unicode/utf8"
)

const (
	secretPrefixLength = 4
	secretMask         = "****"
)

var privateExtendedPrefixes = []string{"xprv", "tprv"}

// Redactor shortens and masks values before they reach the logs.
type Redactor struct {
	redact        bool
	previewLength int
}

// NewRedactor with a previewLength of zero or less disables truncation.
func NewRedactor(redact bool, previewLength int) *Redactor {
	return &Redactor{redact: redact, previewLength: previewLength}
}

// Enabled reports whether secrets are masked.
func (r *Redactor) Enabled() bool {
	return r.redact
}

// Preview truncates s to the configured length, never inside a multi-byte rune.
func (r *Redactor) Preview(s string) string {
	if r.previewLength <= 0 || len(s) <= r.previewLength {
		return s
	}

	cut := r.previewLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + "..."
}

// Secret masks everything after the first four characters of s when redaction is on. Otherwise s is
// returned in full, a truncated key is of no use.
func (r *Redactor) Secret(s string) string {
	if !r.redact {
		return s
	}

	if len(s) <= secretPrefixLength {
		return secretMask
	}

	return s[:secretPrefixLength] + secretMask
}

// Text masks any extended private key inside s and returns the preview of the result.
func (r *Redactor) Text(s string) string {
	if r.redact {
		for _, prefix := range privateExtendedPrefixes {
			s = maskAfter(s, prefix)
		}
	}

	return r.Preview(s)
}

// maskAfter replaces the base58 run following every occurrence of prefix with secretMask.
func maskAfter(s, prefix string) string {
	var sb strings.Builder

	for {
		idx := strings.Index(s, prefix)
		if idx < 0 {
			sb.WriteString(s)
			return sb.String()
		}

		end := idx + len(prefix)

		for end < len(s) && strings.IndexByte("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz", s[end]) >= 0 {
			end++
		}

		sb.WriteString(s[:idx+len(prefix)])
		sb.WriteString(secretMask)

		s = s[end:]
	}
}
