// Package recovery scans the records of a wallet store for descriptors and DER encoded private keys, and turns
// the first recovered key into a WIF string.
package recovery

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"strings"

	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/keys"
	"github.com/bsv-blockchain/walletrecovery/model"
	"github.com/bsv-blockchain/walletrecovery/settings"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet"
	"github.com/bsv-blockchain/walletrecovery/ulogger"
	"github.com/ordishs/gocore"
)

// Inventory is what a pass over every record of a store found.
type Inventory struct {
	Records      int
	Skipped      int
	Tags         map[model.Tag]int
	Descriptors  []model.Descriptor
	PublicKeys   [][]byte
	SPKs         []string
	ExtendedKeys []FoundKey
	Rows         []*InventoryRow
}

// FoundKey is an extended key embedded in the value of a record.
type FoundKey struct {
	keys.FoundExtendedKey
	RecordKey string
}

// HasPublicKey reports whether pub matches one of the public key records.
func (inv *Inventory) HasPublicKey(pub []byte) bool {
	for _, p := range inv.PublicKeys {
		if bytes.Equal(p, pub) {
			return true
		}
	}

	return false
}

// RecoveredKey is the result of a successful recovery.
type RecoveredKey struct {
	RecordKey  string
	KeyHex     string
	WIF        string
	Compressed bool
	Addresses  *keys.Addresses

	// Owned is set when the compressed public key of the recovered key is one of the wallet's public key records
	Owned bool
}

type AnalyzeOptions struct {
	// Raw also scans every record value for embedded extended keys
	Raw bool
}

type Recovery struct {
	logger     ulogger.Logger
	settings   *settings.Settings
	store      wallet.Store
	classifier *Classifier
	der        *DERExtractor
	redactor   *Redactor
	reporter   *Reporter
	stats      *gocore.Stat
}

// New builds a recovery run over store. Findings are written to out, progress goes to logger.
func New(logger ulogger.Logger, tSettings *settings.Settings, store wallet.Store, out io.Writer) (*Recovery, error) {
	if store == nil {
		return nil, errors.NewInvalidArgumentError("no wallet store")
	}

	der, err := NewDERExtractor(tSettings.Recovery.DERMarker)
	if err != nil {
		return nil, err
	}

	if err = wallet.HexPrefix(tSettings.Recovery.DERScanPrefix).Validate(); err != nil {
		return nil, errors.NewConfigurationError("invalid recovery_derScanPrefix %q", tSettings.Recovery.DERScanPrefix, err)
	}

	redactor := NewRedactor(tSettings.Recovery.RedactSecrets, tSettings.Recovery.PreviewLength)

	return &Recovery{
		logger:     logger,
		settings:   tSettings,
		store:      store,
		classifier: NewClassifier(DefaultMarkerTable(tSettings.Recovery.DescriptorMarkers...)...),
		der:        der,
		redactor:   redactor,
		reporter:   NewReporter(logger, out, redactor),
		stats:      gocore.NewStat("recovery"),
	}, nil
}

// Analyze classifies every record of the store and prints the inventory.
func (r *Recovery) Analyze(ctx context.Context, opts AnalyzeOptions) (*Inventory, error) {
	start := gocore.CurrentTime()
	defer func() {
		r.stats.NewStat("Analyze").AddTime(start)
	}()

	inv, err := r.inventory(ctx, opts)
	if err != nil {
		return nil, err
	}

	r.reporter.Inventory(inv)

	return inv, nil
}

// WriteInventoryJSON writes the JSON summary of inv, redacted like the console report.
func (r *Recovery) WriteInventoryJSON(w io.Writer, inv *Inventory) error {
	return r.reporter.WriteInventoryJSON(w, inv)
}

// Recover looks for the first DER encoded private key in the records matching recovery_derScanPrefix, encodes
// it as WIF and writes it to outputPath. Nothing is written when no key is found. When writing fails the key
// is still returned, together with the IO error.
func (r *Recovery) Recover(ctx context.Context, outputPath string) (*RecoveredKey, error) {
	start := gocore.CurrentTime()
	defer func() {
		r.stats.NewStat("Recover").AddTime(start)
	}()

	inv, err := r.inventory(ctx, AnalyzeOptions{})
	if err != nil {
		return nil, err
	}

	r.logger.Infof("[Recover] %d records, %d descriptors, %d public keys", inv.Records, len(inv.Descriptors), len(inv.PublicKeys))

	raw, recordKey, scanned, err := r.findDERKey(ctx)
	if err != nil {
		return nil, err
	}

	if raw == nil {
		r.reporter.NotFound(scanned)
		return nil, errors.NewKeyNotFoundError("no private key found in %d records", scanned)
	}

	params := r.settings.ChainCfgParams
	compressed := r.settings.Recovery.Compressed

	wif, err := keys.EncodeWIF(raw, params.PrivateKeyID, compressed)
	if err != nil {
		return nil, err
	}

	payload, err := keys.DecodeWIF(wif)
	if err != nil {
		return nil, errors.NewProcessingError("WIF round trip failed for record %s", recordKey, err)
	}

	if !bytes.Equal(payload.Key, raw) || payload.Compressed != compressed {
		return nil, errors.NewProcessingError("WIF round trip mismatch for record %s", recordKey)
	}

	result := &RecoveredKey{
		RecordKey:  recordKey,
		KeyHex:     hex.EncodeToString(raw),
		WIF:        wif,
		Compressed: compressed,
	}

	if result.Addresses, err = keys.DeriveAddresses(raw, params, r.settings.Address.Bech32HRP); err != nil {
		r.logger.Warnf("[Recover] could not derive addresses: %v", err)
	} else {
		result.Owned = inv.HasPublicKey(result.Addresses.PublicKey)
	}

	r.reporter.RecoveredKey(result)

	if outputPath == "" {
		return result, nil
	}

	if err = PersistWIF(outputPath, wif); err != nil {
		r.reporter.PersistFailed(result, outputPath, err)
		return result, err
	}

	r.reporter.Persisted(outputPath)

	return result, nil
}

// findDERKey stops at the first record holding a valid scalar behind the DER marker. raw is nil when no record does.
func (r *Recovery) findDERKey(ctx context.Context) (raw []byte, recordKey string, scanned int, err error) {
	it, err := r.store.RecordsWithPrefix(ctx, wallet.HexPrefix(r.settings.Recovery.DERScanPrefix))
	if err != nil {
		return nil, "", 0, err
	}

	defer it.Release()

	type match struct {
		raw       []byte
		recordKey string
	}

	found, ok, err := Fold(ctx, it, func(ctx context.Context, rec model.Record) (match, bool, error) {
		scanned++

		keyHex, err := r.der.Extract(rec.ValueHex())
		if err != nil {
			if !errors.IsSkippableError(err) {
				return match{}, false, err
			}

			if !errors.Is(err, errors.ErrKeyNotFound) {
				r.reporter.Skipped(rec, err)
			}

			return match{}, false, nil
		}

		key, err := hex.DecodeString(keyHex)
		if err != nil {
			r.reporter.Skipped(rec, err)
			return match{}, false, nil
		}

		if err = keys.ValidatePrivateKey(key); err != nil {
			r.reporter.Skipped(rec, err)
			return match{}, false, nil
		}

		r.logger.Infof("[Recover] found DER private key in record %s: %s", r.redactor.Preview(rec.KeyHex()), r.redactor.Secret(keyHex))

		return match{raw: key, recordKey: rec.KeyHex()}, true, nil
	})
	if err != nil {
		return nil, "", scanned, err
	}

	if !ok {
		return nil, "", scanned, nil
	}

	return found.raw, found.recordKey, scanned, nil
}

func (r *Recovery) inventory(ctx context.Context, opts AnalyzeOptions) (*Inventory, error) {
	it, err := r.store.Records(ctx)
	if err != nil {
		return nil, err
	}

	defer it.Release()

	inv := &Inventory{
		Tags: make(map[model.Tag]int),
	}

	err = ForEach(ctx, it, func(_ context.Context, rec model.Record) error {
		r.addToInventory(inv, rec, opts)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// descriptorID is the key hex after the marker and the one byte that follows it.
func descriptorID(keyHex, marker string) string {
	id := strings.TrimPrefix(keyHex, marker)
	if len(id) < 2 {
		return ""
	}

	return id[2:]
}

func (r *Recovery) addToInventory(inv *Inventory, rec model.Record, opts AnalyzeOptions) {
	inv.Records++

	tag := r.classifier.Classify(rec)
	inv.Tags[tag]++

	row := &InventoryRow{
		KeyHex:   r.redactor.Preview(rec.KeyHex()),
		Tag:      tag.String(),
		KeyLen:   len(rec.Key()),
		ValueLen: len(rec.Value()),
	}

	switch tag {
	case model.TagDescriptor:
		d, err := ParseDescriptor(rec.Value())
		if err != nil {
			inv.Skipped++
			row.Note = "not a pkh/wpkh descriptor"

			r.reporter.Skipped(rec, err)

			break
		}

		if m, ok := r.classifier.Match(rec); ok {
			d.ID = descriptorID(rec.KeyHex(), m.Prefix.Normalize())
		}

		r.reporter.Descriptor(d)
		inv.Descriptors = append(inv.Descriptors, d)

		switch {
		case d.IsPrivate():
			row.Note = "descriptor with extended private key"
		case d.HasEmbeddedKey:
			row.Note = "descriptor with extended public key"
		default:
			row.Note = "descriptor without embedded key"
		}

	case model.TagPublicKey:
		inv.PublicKeys = append(inv.PublicKeys, append([]byte(nil), rec.Key()[:33]...))

	case model.TagSPK:
		inv.SPKs = append(inv.SPKs, strings.ToValidUTF8(string(rec.Key()[1:]), "?"))

	case model.TagDescriptorKey:
		if _, err := r.der.Extract(rec.ValueHex()); err == nil {
			row.Note = "contains DER private key"
		}

	case model.TagDescriptorCKey:
		row.Note = "encrypted key, wallet passphrase required"
	}

	if opts.Raw {
		for _, found := range keys.FindExtendedKeys(rec.Value()) {
			inv.ExtendedKeys = append(inv.ExtendedKeys, FoundKey{FoundExtendedKey: found, RecordKey: rec.KeyHex()})
		}
	}

	inv.Rows = append(inv.Rows, row)
}
