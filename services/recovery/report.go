package recovery

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/model"
	"github.com/bsv-blockchain/walletrecovery/ulogger"
	"github.com/gocarina/gocsv"
	jsoniter "github.com/json-iterator/go"
)

// InventoryRow is one line of the CSV inventory. Record values are never written.
type InventoryRow struct {
	KeyHex   string `csv:"key_hex"`
	Tag      string `csv:"tag"`
	KeyLen   int    `csv:"key_len"`
	ValueLen int    `csv:"value_len"`
	Note     string `csv:"note"`
}

// InventorySummary is the JSON form of an Inventory, with private material passed through the Redactor.
type InventorySummary struct {
	Records      int                  `json:"records"`
	Skipped      int                  `json:"skipped"`
	Tags         map[string]int       `json:"tags"`
	Descriptors  []DescriptorSummary  `json:"descriptors"`
	PublicKeys   []string             `json:"publicKeys"`
	SPKs         []string             `json:"spks"`
	ExtendedKeys []ExtendedKeySummary `json:"extendedKeys,omitempty"`
}

type DescriptorSummary struct {
	ID          string `json:"id"`
	ScriptType  string `json:"scriptType"`
	Text        string `json:"text"`
	EmbeddedKey string `json:"embeddedKey,omitempty"`
	Private     bool   `json:"private"`
}

type ExtendedKeySummary struct {
	Record  string `json:"record"`
	Offset  int    `json:"offset"`
	Key     string `json:"key"`
	Depth   uint8  `json:"depth"`
	Private bool   `json:"private"`
}

// Reporter sends progress to the logger and the findings of a run to out.
type Reporter struct {
	logger   ulogger.Logger
	out      io.Writer
	redactor *Redactor
}

func NewReporter(logger ulogger.Logger, out io.Writer, redactor *Redactor) *Reporter {
	if out == nil {
		out = io.Discard
	}

	return &Reporter{
		logger:   logger,
		out:      out,
		redactor: redactor,
	}
}

func (r *Reporter) Descriptor(d model.Descriptor) {
	r.logger.Infof("[Descriptor] id %s: %s", r.redactor.Preview(d.ID), r.redactor.Text(d.Text))

	if !d.HasEmbeddedKey {
		r.logger.Debugf("[Descriptor] id %s has no embedded extended key", r.redactor.Preview(d.ID))
		return
	}

	if d.IsPrivate() {
		r.logger.Warnf("[Descriptor] found extended private key: %s", r.redactor.Secret(d.EmbeddedKey))
		return
	}

	r.logger.Infof("[Descriptor] found extended public key: %s", r.redactor.Preview(d.EmbeddedKey))
}

func (r *Reporter) Skipped(record model.Record, err error) {
	r.logger.Debugf("[Scan] skipping record %s: %v", r.redactor.Preview(record.KeyHex()), err)
}

func (r *Reporter) Inventory(inv *Inventory) {
	_, _ = fmt.Fprintf(r.out, "\n=== Wallet inventory ===\n")
	_, _ = fmt.Fprintf(r.out, "Total records:  %d\n", inv.Records)

	tags := make([]string, 0, len(inv.Tags))
	for tag := range inv.Tags {
		tags = append(tags, string(tag))
	}

	sort.Strings(tags)

	for _, tag := range tags {
		_, _ = fmt.Fprintf(r.out, "  %-24s %d\n", tag+":", inv.Tags[model.Tag(tag)])
	}

	if len(inv.Descriptors) > 0 {
		_, _ = fmt.Fprintf(r.out, "\nDescriptors (%d):\n", len(inv.Descriptors))

		for _, d := range inv.Descriptors {
			_, _ = fmt.Fprintf(r.out, "  %s\n", r.redactor.Text(d.Text))
		}
	}

	if len(inv.PublicKeys) > 0 {
		_, _ = fmt.Fprintf(r.out, "\nPublic keys (%d):\n", len(inv.PublicKeys))

		for _, pub := range inv.PublicKeys {
			_, _ = fmt.Fprintf(r.out, "  %s\n", hex.EncodeToString(pub))
		}
	}

	if len(inv.SPKs) > 0 {
		_, _ = fmt.Fprintf(r.out, "\nActive scriptPubKey records (%d):\n", len(inv.SPKs))

		for _, spk := range inv.SPKs {
			_, _ = fmt.Fprintf(r.out, "  %s\n", r.redactor.Preview(spk))
		}
	}

	if len(inv.ExtendedKeys) > 0 {
		_, _ = fmt.Fprintf(r.out, "\nEmbedded extended keys (%d):\n", len(inv.ExtendedKeys))

		for _, found := range inv.ExtendedKeys {
			text := r.redactor.Preview(found.Text)
			if found.Key.Private {
				text = r.redactor.Secret(found.Text)
			}

			_, _ = fmt.Fprintf(r.out, "  record %s offset %d: %s (depth %d)\n",
				r.redactor.Preview(found.RecordKey), found.Offset, text, found.Key.Depth)
		}
	}
}

// RecoveredKey prints the recovered key. The WIF is masked when redaction is on and shown in full otherwise.
func (r *Reporter) RecoveredKey(k *RecoveredKey) {
	_, _ = fmt.Fprintf(r.out, "\n=== Recovered private key ===\n")
	_, _ = fmt.Fprintf(r.out, "Record:      %s\n", r.redactor.Preview(k.RecordKey))
	_, _ = fmt.Fprintf(r.out, "Private key: %s\n", r.redactor.Secret(k.KeyHex))
	_, _ = fmt.Fprintf(r.out, "WIF:         %s\n", r.redactor.Secret(k.WIF))
	_, _ = fmt.Fprintf(r.out, "Compressed:  %t\n", k.Compressed)

	if k.Addresses != nil {
		_, _ = fmt.Fprintf(r.out, "Public key:  %s\n", hex.EncodeToString(k.Addresses.PublicKey))
		_, _ = fmt.Fprintf(r.out, "P2PKH:       %s\n", k.Addresses.P2PKH)
		_, _ = fmt.Fprintf(r.out, "P2WPKH:      %s\n", k.Addresses.P2WPKH)
	}

	_, _ = fmt.Fprintf(r.out, "In wallet:   %t\n", k.Owned)
}

// Persisted reports where the key was written.
func (r *Reporter) Persisted(path string) {
	r.logger.Infof("[Recover] saved WIF to %s", path)
	_, _ = fmt.Fprintf(r.out, "Saved to:    %s\n", path)
}

// PersistFailed prints the full WIF, since the output file does not hold it.
func (r *Reporter) PersistFailed(k *RecoveredKey, path string, err error) {
	r.logger.Errorf("[Recover] could not save WIF to %s: %v", path, err)
	_, _ = fmt.Fprintf(r.out, "WIF (not saved): %s\n", k.WIF)
}

// NotFound reports an empty run.
func (r *Reporter) NotFound(scanned int) {
	r.logger.Warnf("[Recover] no private keys found in %d records", scanned)
	_, _ = fmt.Fprintf(r.out, "\nNo private keys found (%d records scanned)\n", scanned)
}

// PersistWIF writes wif verbatim to path with mode 0600, replacing any previous content.
func PersistWIF(path, wif string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.NewIOError("could not create output file %s", path, err)
	}

	if _, err = f.WriteString(wif); err != nil {
		_ = f.Close()
		return errors.NewIOError("could not write output file %s", path, err)
	}

	if err = f.Close(); err != nil {
		return errors.NewIOError("could not close output file %s", path, err)
	}

	// an existing file keeps its old mode through O_TRUNC
	if err = os.Chmod(path, 0o600); err != nil {
		return errors.NewIOError("could not restrict permissions of %s", path, err)
	}

	return nil
}

// WriteInventoryCSV writes rows with a header line.
func WriteInventoryCSV(w io.Writer, rows []*InventoryRow) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return errors.NewIOError("could not write inventory csv", err)
	}

	return nil
}

// Summary converts inv for JSON output.
func (r *Reporter) Summary(inv *Inventory) *InventorySummary {
	summary := &InventorySummary{
		Records:     inv.Records,
		Skipped:     inv.Skipped,
		Tags:        make(map[string]int, len(inv.Tags)),
		Descriptors: make([]DescriptorSummary, 0, len(inv.Descriptors)),
		PublicKeys:  make([]string, 0, len(inv.PublicKeys)),
		SPKs:        append([]string{}, inv.SPKs...),
	}

	for tag, n := range inv.Tags {
		summary.Tags[tag.String()] = n
	}

	for _, d := range inv.Descriptors {
		ds := DescriptorSummary{
			ID:         d.ID,
			ScriptType: d.ScriptType(),
			Text:       r.redactor.Text(d.Text),
			Private:    d.IsPrivate(),
		}

		if d.HasEmbeddedKey {
			ds.EmbeddedKey = d.EmbeddedKey
			if ds.Private {
				ds.EmbeddedKey = r.redactor.Secret(d.EmbeddedKey)
			}
		}

		summary.Descriptors = append(summary.Descriptors, ds)
	}

	for _, pub := range inv.PublicKeys {
		summary.PublicKeys = append(summary.PublicKeys, hex.EncodeToString(pub))
	}

	for _, found := range inv.ExtendedKeys {
		key := found.Text
		if found.Key.Private {
			key = r.redactor.Secret(found.Text)
		}

		summary.ExtendedKeys = append(summary.ExtendedKeys, ExtendedKeySummary{
			Record:  found.RecordKey,
			Offset:  found.Offset,
			Key:     key,
			Depth:   found.Key.Depth,
			Private: found.Key.Private,
		})
	}

	return summary
}

// WriteInventoryJSON writes the summary of inv as indented JSON.
func (r *Reporter) WriteInventoryJSON(w io.Writer, inv *Inventory) error {
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r.Summary(inv)); err != nil {
		return errors.NewIOError("could not write inventory json", err)
	}

	return nil
}
